package rdbms

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/readify/internal/domain/category"
	apperrors "github.com/xiebiao/readify/pkg/errors"
)

// categoryRepository 分类仓储实现
// 每个方法恰好一次数据库往返,结果按id升序
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) category.Repository {
	return &categoryRepository{db: db}
}

// FindRoots 所有根分类
func (r *categoryRepository) FindRoots(ctx context.Context) ([]*category.Category, error) {
	var models []CategoryModel
	err := dbFrom(ctx, r.db).
		Where("parent_id IS NULL").
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "查询根分类失败")
	}
	return toCategories(models), nil
}

// FindChildren 一次查询取回整层子分类
func (r *categoryRepository) FindChildren(ctx context.Context, parentIDs []uint) ([]*category.Category, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	var models []CategoryModel
	err := dbFrom(ctx, r.db).
		Where("parent_id IN ?", parentIDs).
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "查询子分类失败")
	}
	return toCategories(models), nil
}

// ParentsWithChildren SELECT DISTINCT parent_id ... WHERE parent_id IN ?
func (r *categoryRepository) ParentsWithChildren(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var parents []uint
	err := dbFrom(ctx, r.db).
		Model(&CategoryModel{}).
		Distinct().
		Where("parent_id IN ?", ids).
		Order("parent_id").
		Pluck("parent_id", &parents).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "查询分类截断信息失败")
	}
	return parents, nil
}

// FindByID 单行查询
func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*category.Category, error) {
	var model CategoryModel
	err := dbFrom(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, apperrors.WrapDB(err, "查询分类失败")
	}
	return toCategory(&model), nil
}

func toCategory(m *CategoryModel) *category.Category {
	return &category.Category{
		ID:       m.ID,
		Title:    m.Title,
		Slug:     m.Slug,
		ParentID: m.ParentID,
	}
}

func toCategories(models []CategoryModel) []*category.Category {
	out := make([]*category.Category, 0, len(models))
	for i := range models {
		out = append(out, toCategory(&models[i]))
	}
	return out
}
