package review

import (
	"bytes"
	"encoding/json"
	"math"
)

// Average 平均评分(三态:有值 | 无评论)
// 没有评论时Valid为false,JSON输出null,不能输出0:
// 0分与"没有人评分"是两种不同的含义
type Average struct {
	Value float64
	Valid bool
}

// NewAverage 由存储层AVG()的可空结果构造
func NewAverage(v *float64) Average {
	if v == nil || math.IsNaN(*v) {
		return Average{}
	}
	return Average{Value: *v, Valid: true}
}

// AverageOf 在内存中计算平均值(仅用于已加载全部评分的场景,如测试数据校验)
func AverageOf(ratings ...Rating) Average {
	if len(ratings) == 0 {
		return Average{}
	}
	sum := 0
	for _, r := range ratings {
		sum += int(r)
	}
	return Average{Value: float64(sum) / float64(len(ratings)), Valid: true}
}

// Ptr 转为可空指针
func (a Average) Ptr() *float64 {
	if !a.Valid {
		return nil
	}
	v := a.Value
	return &v
}

func (a Average) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value)
}

func (a *Average) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*a = Average{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = Average{Value: v, Valid: true}
	return nil
}
