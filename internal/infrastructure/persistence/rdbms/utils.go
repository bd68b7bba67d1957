package rdbms

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateError 判断是否为唯一索引冲突
// 开启TranslateError后三种驱动都会转换为gorm.ErrDuplicatedKey,
// 错误信息匹配用于兼容未经翻译的错误:
// - MySQL 1062: Duplicate entry 'xxx' for key 'yyy'
// - PostgreSQL 23505: duplicate key value violates unique constraint
// - SQLite: UNIQUE constraint failed
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// likeEscaper 转义LIKE通配符,配合 ESCAPE '!' 使用
// 不用反斜杠:MySQL默认会把字符串字面量中的反斜杠当作转义符
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// escapeLike 使用户输入只按字面匹配
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
