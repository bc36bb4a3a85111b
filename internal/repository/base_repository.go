package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// crudRepository 按 UUID 主键的通用读写；未找到时返回 (nil, nil)
type crudRepository[T any] struct {
	DB   *gorm.DB
	name string
}

func (r crudRepository[T]) db(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx)
}

func (r crudRepository[T]) Create(ctx context.Context, v *T) error {
	if err := r.db(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("create %s: %w", r.name, err)
	}
	return nil
}

func (r crudRepository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	return first[T](r.db(ctx).Where("id = ?", id), r.name)
}

// Update 只更新 fields 中给出的列，返回更新后的记录
func (r crudRepository[T]) Update(ctx context.Context, id string, fields map[string]interface{}) (*T, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := r.db(ctx).Model(existing).Updates(fields).Error; err != nil {
			return nil, fmt.Errorf("update %s: %w", r.name, err)
		}
	}
	return r.FindByID(ctx, id)
}

// Delete 返回是否删除了记录
func (r crudRepository[T]) Delete(ctx context.Context, id string) (bool, error) {
	var v T
	result := r.db(ctx).Where("id = ?", id).Delete(&v)
	if result.Error != nil {
		return false, fmt.Errorf("delete %s: %w", r.name, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r crudRepository[T]) page(ctx context.Context, q *gorm.DB, skip, limit int) ([]T, error) {
	items := make([]T, 0)
	if q == nil {
		q = r.db(ctx)
	}
	if err := q.Offset(skip).Limit(limit).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", r.name, err)
	}
	return items, nil
}

func first[T any](q *gorm.DB, name string) (*T, error) {
	var v T
	err := q.First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", name, err)
	}
	return &v, nil
}
