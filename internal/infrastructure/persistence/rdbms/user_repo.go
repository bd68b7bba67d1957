package rdbms

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/readify/internal/domain/user"
	apperrors "github.com/xiebiao/readify/pkg/errors"
)

// userRepository 用户仓储实现
// 负责领域实体与GORM模型之间的转换,并把唯一索引冲突转换为业务错误
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

// Create 创建用户
// 邮箱唯一性由数据库UNIQUE索引保证(而非应用层SELECT再INSERT)
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := &UserModel{
		Email:       u.Email,
		Password:    u.Password,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
	}

	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrEmailDuplicate
		}
		return apperrors.WrapDB(err, "创建用户失败")
	}

	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找用户
func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var model UserModel
	if err := dbFrom(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapDB(err, "查询用户失败")
	}
	return toUser(&model), nil
}

// FindByEmail 根据邮箱查找用户
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserModel
	if err := dbFrom(ctx, r.db).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapDB(err, "查询用户失败")
	}
	return toUser(&model), nil
}

func toUser(m *UserModel) *user.User {
	return &user.User{
		ID:          m.ID,
		Email:       m.Email,
		Password:    m.Password,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		PhoneNumber: m.PhoneNumber,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
