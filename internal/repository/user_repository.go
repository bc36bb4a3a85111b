package repository

import (
	"context"

	"learngenix_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	crudRepository[model.User]
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{crudRepository[model.User]{DB: db, name: "user"}}
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return NewUserRepository(tx)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return first[model.User](r.db(ctx).Where("email = ?", email), r.name)
}

func (r *UserRepository) List(ctx context.Context, skip, limit int) ([]model.User, error) {
	return r.page(ctx, r.db(ctx).Order("created_at"), skip, limit)
}
