package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// pathID 解析路径中的正整数id
// 非法id按资源不存在处理(与只匹配数字id的路由行为一致)
func pathID(c *gin.Context, notFound error) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, notFound
	}
	return uint(id), nil
}
