package repository

import (
	"context"
	"errors"

	"onlinestore/internal/domain/model"
	repo "onlinestore/internal/repository"

	"gorm.io/gorm"
)

type TypeGormRepository struct {
	db *gorm.DB
}

// DI
func NewTypeGormRepository(db *gorm.DB) *TypeGormRepository {
	return &TypeGormRepository{db: db}
}

func (r *TypeGormRepository) List(ctx context.Context) ([]model.Type, error) {
	var types []model.Type
	if err := r.db.WithContext(ctx).Order("id asc").Find(&types).Error; err != nil {
		return []model.Type{}, err
	}
	return types, nil
}

func (r *TypeGormRepository) FindByID(ctx context.Context, id int64) (model.Type, error) {
	var t model.Type
	err := r.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Type{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Type{}, err
	}
	return t, nil
}

func (r *TypeGormRepository) Create(ctx context.Context, t model.Type) (model.Type, error) {
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		if isUniqueViolation(err) {
			return model.Type{}, repo.ErrConflict
		}
		return model.Type{}, err
	}
	return t, nil
}

// デバイスのtype_idはNULLになる
func (r *TypeGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Type{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

type BrandGormRepository struct {
	db *gorm.DB
}

// DI
func NewBrandGormRepository(db *gorm.DB) *BrandGormRepository {
	return &BrandGormRepository{db: db}
}

func (r *BrandGormRepository) List(ctx context.Context) ([]model.Brand, error) {
	var brands []model.Brand
	if err := r.db.WithContext(ctx).Order("id asc").Find(&brands).Error; err != nil {
		return []model.Brand{}, err
	}
	return brands, nil
}

func (r *BrandGormRepository) FindByID(ctx context.Context, id int64) (model.Brand, error) {
	var b model.Brand
	err := r.db.WithContext(ctx).First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Brand{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Brand{}, err
	}
	return b, nil
}

func (r *BrandGormRepository) Create(ctx context.Context, b model.Brand) (model.Brand, error) {
	if err := r.db.WithContext(ctx).Create(&b).Error; err != nil {
		if isUniqueViolation(err) {
			return model.Brand{}, repo.ErrConflict
		}
		return model.Brand{}, err
	}
	return b, nil
}

// デバイスのbrand_idはNULLになる
func (r *BrandGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Brand{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
