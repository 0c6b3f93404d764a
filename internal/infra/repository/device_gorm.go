package repository

import (
	"context"
	"errors"

	"onlinestore/internal/domain/model"
	repo "onlinestore/internal/repository"

	"gorm.io/gorm"
)

type DeviceGormRepository struct {
	db *gorm.DB
}

// DI
func NewDeviceGormRepository(db *gorm.DB) *DeviceGormRepository {
	return &DeviceGormRepository{db: db}
}

// type/brandで絞り込み、ページング付きで返す。
func (r *DeviceGormRepository) List(ctx context.Context, q repo.DeviceListQuery) ([]model.Device, int64, error) {
	var devices []model.Device
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Device{})

	if q.TypeID != nil {
		tx = tx.Where("type_id = ?", *q.TypeID)
	}
	if q.BrandID != nil {
		tx = tx.Where("brand_id = ?", *q.BrandID)
	}

	//total（件数）
	if err := tx.Count(&total).Error; err != nil {
		return []model.Device{}, 0, err
	}

	offset := (q.Page - 1) * q.Limit
	if err := tx.Order("id asc").Offset(offset).Limit(q.Limit).Find(&devices).Error; err != nil {
		return []model.Device{}, 0, err
	}

	return devices, total, nil
}

// IDでデバイスを取得（特性付き）
func (r *DeviceGormRepository) FindByID(ctx context.Context, id int64) (model.Device, error) {
	var d model.Device

	err := r.db.WithContext(ctx).
		Preload("Info", func(db *gorm.DB) *gorm.DB {
			return db.Order("device_infos.id asc")
		}).
		First(&d, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Device{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Device{}, err
	}
	return d, nil
}

// デバイスと特性を作成
func (r *DeviceGormRepository) Create(ctx context.Context, d model.Device) (model.Device, error) {
	if err := r.db.WithContext(ctx).Create(&d).Error; err != nil {
		if isUniqueViolation(err) {
			return model.Device{}, repo.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return model.Device{}, repo.ErrNotFound
		}
		return model.Device{}, err
	}
	return d, nil
}

// デバイスを削除（明細・特性・評価はFKで消える）
func (r *DeviceGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Device{}, id)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 評価を更新
func (r *DeviceGormRepository) UpdateRating(ctx context.Context, id int64, rating float64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Device{}).
		Where("id = ?", id).
		Update("rating", rating)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
