package review

import (
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/xiebiao/readify/pkg/errors"
)

// Rating 评分(固定的1-5五级枚举)
type Rating int

const (
	RatingTerrible  Rating = 1
	RatingBad       Rating = 2
	RatingAverage   Rating = 3
	RatingGood      Rating = 4
	RatingExcellent Rating = 5
)

var ratingLabels = map[Rating]string{
	RatingTerrible:  "Terrible",
	RatingBad:       "Bad",
	RatingAverage:   "Average",
	RatingGood:      "Good",
	RatingExcellent: "Excellent",
}

// Valid 评分是否在1-5之间
func (r Rating) Valid() bool {
	return r >= RatingTerrible && r <= RatingExcellent
}

// Label 评分对应的文字描述
func (r Rating) Label() string {
	return ratingLabels[r]
}

// DateLayout 评论日期格式
const DateLayout = "2006-01-02"

// 字段长度限制
const (
	MaxTitleLength = 255
)

// Review 评论实体
// 设计说明:
// 1. 评论属于唯一的图书和唯一的用户,删除图书时级联删除评论
// 2. Created只在创建时设置(精确到日),之后不可修改
// 3. UserFirstName/UserLastName由查询时联表填充,用于展示评论人姓名
type Review struct {
	ID            uint
	BookID        uint
	UserID        uint
	UserFirstName string
	UserLastName  string
	Title         string
	Content       string
	Rating        Rating
	Created       time.Time
}

// NewReview 创建评论(工厂方法)
// 校验失败时返回逐字段的错误信息
func NewReview(bookID, userID uint, title, content string, rating int, now time.Time) (*Review, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	fields := map[string]string{}
	if bookID == 0 {
		fields["book"] = "必须指定图书"
	}
	if userID == 0 {
		fields["user"] = "必须指定用户"
	}
	switch {
	case title == "":
		fields["title"] = "标题不能为空"
	case utf8.RuneCountInString(title) > MaxTitleLength:
		fields["title"] = "标题不能超过255个字符"
	}
	if content == "" {
		fields["content"] = "内容不能为空"
	}
	if !Rating(rating).Valid() {
		fields["rating"] = ErrInvalidRating.Message
	}
	if len(fields) > 0 {
		return nil, apperrors.Validation(fields)
	}

	return &Review{
		BookID:  bookID,
		UserID:  userID,
		Title:   title,
		Content: content,
		Rating:  Rating(rating),
		Created: truncateToDate(now),
	}, nil
}

// CreatedDate 评论日期(YYYY-MM-DD)
func (r *Review) CreatedDate() string {
	return r.Created.Format(DateLayout)
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
