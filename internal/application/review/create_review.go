package review

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/xiebiao/readify/internal/application/port"
	"github.com/xiebiao/readify/internal/domain/review"
	"github.com/xiebiao/readify/pkg/metrics"
	"github.com/xiebiao/readify/pkg/tracing"
)

// CreateReviewUseCase 创建评论用例
// 设计说明:
// 1. 校验与写库由领域服务完成
// 2. 写库成功后失效该图书的详情缓存(平均分与评论列表已变化)
// 3. 发布review.created事件;缓存与事件失败都只记录日志,不影响评论结果
type CreateReviewUseCase struct {
	reviewService review.Service
	cache         port.DocumentCache
	publisher     port.EventPublisher
	log           *zap.Logger
}

// NewCreateReviewUseCase 创建评论用例
func NewCreateReviewUseCase(
	reviewService review.Service,
	cache port.DocumentCache,
	publisher port.EventPublisher,
	log *zap.Logger,
) *CreateReviewUseCase {
	return &CreateReviewUseCase{
		reviewService: reviewService,
		cache:         cache,
		publisher:     publisher,
		log:           log,
	}
}

// CreateReviewRequest 创建评论请求
// UserID来自登录凭证,RequestedUserID来自请求体(0表示未提供)
type CreateReviewRequest struct {
	BookID          uint
	UserID          uint
	RequestedUserID uint
	Title           string
	Content         string
	Rating          int
}

// CreateReviewResponse 创建评论响应
type CreateReviewResponse struct {
	ID      uint   `json:"id"`
	Book    uint   `json:"book"`
	User    uint   `json:"user"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Rating  int    `json:"rating"`
}

// ReviewCreatedEvent review.created事件载荷
type ReviewCreatedEvent struct {
	ReviewID uint   `json:"review_id"`
	BookID   uint   `json:"book_id"`
	UserID   uint   `json:"user_id"`
	Rating   int    `json:"rating"`
	Created  string `json:"created"`
}

// Execute 执行创建
func (uc *CreateReviewUseCase) Execute(ctx context.Context, req CreateReviewRequest) (*CreateReviewResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "review.CreateReview")
	defer span.End()

	r, err := uc.reviewService.CreateReview(ctx, review.CreateCommand{
		BookID:          req.BookID,
		UserID:          req.UserID,
		RequestedUserID: req.RequestedUserID,
		Title:           req.Title,
		Content:         req.Content,
		Rating:          req.Rating,
	})
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	metrics.IncReviewCreated(strconv.Itoa(int(r.Rating)))

	if err := uc.cache.Delete(ctx, port.BookDetailKey(r.BookID)); err != nil {
		uc.log.Warn("失效图书详情缓存失败", zap.Uint("book_id", r.BookID), zap.Error(err))
	}

	event := ReviewCreatedEvent{
		ReviewID: r.ID,
		BookID:   r.BookID,
		UserID:   r.UserID,
		Rating:   int(r.Rating),
		Created:  r.CreatedDate(),
	}
	if err := uc.publisher.Publish(ctx, port.RoutingKeyReviewCreated, event); err != nil {
		uc.log.Warn("发布评论事件失败", zap.Uint("review_id", r.ID), zap.Error(err))
	}

	uc.log.Info("评论已创建",
		zap.Uint("review_id", r.ID),
		zap.Uint("book_id", r.BookID),
		zap.Uint("user_id", r.UserID),
		zap.Int("rating", int(r.Rating)),
	)

	return &CreateReviewResponse{
		ID:      r.ID,
		Book:    r.BookID,
		User:    r.UserID,
		Title:   r.Title,
		Content: r.Content,
		Rating:  int(r.Rating),
	}, nil
}
