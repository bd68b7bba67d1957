package review

import (
	"context"
	"time"

	apperrors "github.com/xiebiao/readify/pkg/errors"
)

// CreateCommand 创建评论命令
// UserID来自登录凭证;RequestedUserID是请求体中的user字段(可为0表示未提供)
type CreateCommand struct {
	BookID          uint
	UserID          uint
	RequestedUserID uint
	Title           string
	Content         string
	Rating          int
}

// Service 评论领域服务
type Service interface {
	// CreateReview 创建评论
	// 业务规则:
	// - 评分必须为1-5
	// - 图书必须存在
	// - 只能以登录用户身份评论
	CreateReview(ctx context.Context, cmd CreateCommand) (*Review, error)
}

type service struct {
	repo  Repository
	books BookChecker
	now   func() time.Time
}

// NewService 创建评论领域服务
func NewService(repo Repository, books BookChecker) Service {
	return &service{repo: repo, books: books, now: time.Now}
}

func (s *service) CreateReview(ctx context.Context, cmd CreateCommand) (*Review, error) {
	if cmd.RequestedUserID != 0 && cmd.RequestedUserID != cmd.UserID {
		return nil, ErrUserMismatch.WithField("user", ErrUserMismatch.Message)
	}

	r, err := NewReview(cmd.BookID, cmd.UserID, cmd.Title, cmd.Content, cmd.Rating, s.now())
	if err != nil {
		return nil, err
	}

	exists, err := s.books.Exists(ctx, cmd.BookID)
	if err != nil {
		return nil, err
	}
	if !exists {
		// 与其他字段校验一致,按字段返回而不是404
		return nil, apperrors.Validation(map[string]string{"book": apperrors.ErrBookNotFound.Message})
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}
