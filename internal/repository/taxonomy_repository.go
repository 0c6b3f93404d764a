package repository

import (
	"context"

	"onlinestore/internal/domain/model"
)

type TypeRepository interface {
	List(ctx context.Context) ([]model.Type, error)
	FindByID(ctx context.Context, id int64) (model.Type, error)
	// 名前重複は ErrConflict
	Create(ctx context.Context, t model.Type) (model.Type, error)
	Delete(ctx context.Context, id int64) error
}

type BrandRepository interface {
	List(ctx context.Context) ([]model.Brand, error)
	FindByID(ctx context.Context, id int64) (model.Brand, error)
	// 名前重複は ErrConflict
	Create(ctx context.Context, b model.Brand) (model.Brand, error)
	Delete(ctx context.Context, id int64) error
}
