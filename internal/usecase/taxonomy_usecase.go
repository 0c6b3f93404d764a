package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"onlinestore/internal/cache"
	"onlinestore/internal/domain/model"
	repo "onlinestore/internal/repository"
)

type CreateTypeInput struct {
	Name string
}

type CreateBrandInput struct {
	Name    string
	Country *string
}

// TypeUsecase は /api/type
type TypeUsecase struct {
	types repo.TypeRepository
	cache *cache.Cache
}

func NewTypeUsecase(types repo.TypeRepository, c *cache.Cache) *TypeUsecase {
	return &TypeUsecase{types: types, cache: c}
}

func (u *TypeUsecase) List(ctx context.Context) ([]model.Type, error) {
	out, err := cache.GetOrCompute(ctx, u.cache, typesListKey, func(ctx context.Context) ([]model.Type, error) {
		return u.types.List(ctx)
	})
	if err != nil {
		return nil, NewInternalError()
	}
	return out, nil
}

func (u *TypeUsecase) Get(ctx context.Context, id int64) (model.Type, error) {
	if id <= 0 {
		return model.Type{}, NewValidationError("invalid id", nil)
	}
	t, err := u.types.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Type{}, NewNotFoundError("Type not found")
	}
	if err != nil {
		return model.Type{}, NewInternalError()
	}
	return t, nil
}

func (u *TypeUsecase) Create(ctx context.Context, in CreateTypeInput) (model.Type, error) {
	name := strings.TrimSpace(in.Name)
	if err := validateName("name", name, 2, 64); err != nil {
		return model.Type{}, err
	}

	t, err := u.types.Create(ctx, model.Type{Name: name})
	if errors.Is(err, repo.ErrConflict) {
		return model.Type{}, NewConflictError("Type already exists")
	}
	if err != nil {
		return model.Type{}, NewInternalError()
	}

	u.invalidate(ctx)
	return t, nil
}

func (u *TypeUsecase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewValidationError("invalid id", nil)
	}
	err := u.types.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFoundError("Type not found")
	}
	if err != nil {
		return NewInternalError()
	}

	u.invalidate(ctx)
	return nil
}

// デバイス一覧もtypeIdで絞っているので一緒に消す
func (u *TypeUsecase) invalidate(ctx context.Context) {
	u.cache.Invalidate(ctx, typesPrefix)
	u.cache.Invalidate(ctx, devicesPrefix)
}

// BrandUsecase は /api/brand
type BrandUsecase struct {
	brands repo.BrandRepository
	cache  *cache.Cache
}

func NewBrandUsecase(brands repo.BrandRepository, c *cache.Cache) *BrandUsecase {
	return &BrandUsecase{brands: brands, cache: c}
}

func (u *BrandUsecase) List(ctx context.Context) ([]model.Brand, error) {
	out, err := cache.GetOrCompute(ctx, u.cache, brandsListKey, func(ctx context.Context) ([]model.Brand, error) {
		return u.brands.List(ctx)
	})
	if err != nil {
		return nil, NewInternalError()
	}
	return out, nil
}

func (u *BrandUsecase) Get(ctx context.Context, id int64) (model.Brand, error) {
	if id <= 0 {
		return model.Brand{}, NewValidationError("invalid id", nil)
	}
	b, err := u.brands.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Brand{}, NewNotFoundError("Brand not found")
	}
	if err != nil {
		return model.Brand{}, NewInternalError()
	}
	return b, nil
}

func (u *BrandUsecase) Create(ctx context.Context, in CreateBrandInput) (model.Brand, error) {
	name := strings.TrimSpace(in.Name)
	if err := validateName("name", name, 2, 64); err != nil {
		return model.Brand{}, err
	}

	var country *string
	if in.Country != nil {
		c := strings.TrimSpace(*in.Country)
		if c != "" {
			if err := validateName("country", c, 2, 64); err != nil {
				return model.Brand{}, err
			}
			country = &c
		}
	}

	b, err := u.brands.Create(ctx, model.Brand{Name: name, Country: country})
	if errors.Is(err, repo.ErrConflict) {
		return model.Brand{}, NewConflictError("Brand already exists")
	}
	if err != nil {
		return model.Brand{}, NewInternalError()
	}

	u.invalidate(ctx)
	return b, nil
}

func (u *BrandUsecase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewValidationError("invalid id", nil)
	}
	err := u.brands.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFoundError("Brand not found")
	}
	if err != nil {
		return NewInternalError()
	}

	u.invalidate(ctx)
	return nil
}

func (u *BrandUsecase) invalidate(ctx context.Context) {
	u.cache.Invalidate(ctx, brandsPrefix)
	u.cache.Invalidate(ctx, devicesPrefix)
}

// 文字数（rune）で min..max
func validateName(field, v string, lo, hi int) error {
	n := utf8.RuneCountInString(v)
	if n < lo || n > hi {
		return NewValidationError("Validation failed", []FieldError{
			{Field: field, Message: fmt.Sprintf("must be between %d and %d characters", lo, hi)},
		})
	}
	return nil
}
