package rdbms

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/readify/internal/domain/review"
	apperrors "github.com/xiebiao/readify/pkg/errors"
)

// reviewRepository 评论仓储实现
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评论仓储
func NewReviewRepository(db *gorm.DB) review.Repository {
	return &reviewRepository{db: db}
}

// Create 插入评论并回填ID
// 评分范围同时由表上的CHECK约束保证
func (r *reviewRepository) Create(ctx context.Context, rv *review.Review) error {
	model := &ReviewModel{
		BookID:  rv.BookID,
		UserID:  rv.UserID,
		Title:   rv.Title,
		Content: rv.Content,
		Rating:  int(rv.Rating),
		Created: rv.Created,
	}

	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.WrapDB(err, "创建评论失败")
	}

	rv.ID = model.ID
	return nil
}
