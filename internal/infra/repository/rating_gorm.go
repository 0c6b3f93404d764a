package repository

import (
	"context"

	"onlinestore/internal/domain/model"
	repo "onlinestore/internal/repository"

	"gorm.io/gorm"
)

type RatingGormRepository struct {
	db *gorm.DB
}

// DI
func NewRatingGormRepository(db *gorm.DB) *RatingGormRepository {
	return &RatingGormRepository{db: db}
}

// 評価を作成
func (r *RatingGormRepository) Create(ctx context.Context, rt model.Rating) error {
	if err := r.db.WithContext(ctx).Create(&rt).Error; err != nil {
		if isUniqueViolation(err) {
			return repo.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return repo.ErrNotFound
		}
		return err
	}
	return nil
}

// デバイスの評価平均と件数
func (r *RatingGormRepository) AverageByDeviceID(ctx context.Context, deviceID int64) (float64, int64, error) {
	var res struct {
		Avg float64
		Cnt int64
	}

	err := r.db.WithContext(ctx).
		Model(&model.Rating{}).
		Select("COALESCE(AVG(rate), 0) AS avg, COUNT(*) AS cnt").
		Where("device_id = ?", deviceID).
		Scan(&res).Error
	if err != nil {
		return 0, 0, err
	}

	return res.Avg, res.Cnt, nil
}
