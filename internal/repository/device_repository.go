package repository

import (
	"context"

	"onlinestore/internal/domain/model"
)

// 一覧検索
type DeviceListQuery struct {
	TypeID  *int64
	BrandID *int64
	Page    int
	Limit   int
}

type DeviceRepository interface {
	List(ctx context.Context, q DeviceListQuery) ([]model.Device, int64, error)
	// Infoはid順でpreload
	FindByID(ctx context.Context, id int64) (model.Device, error)
	// Infoも一緒に作成
	Create(ctx context.Context, d model.Device) (model.Device, error)
	Delete(ctx context.Context, id int64) error
	UpdateRating(ctx context.Context, id int64, rating float64) error
}

type RatingRepository interface {
	// 同じ(user, device)は ErrConflict
	Create(ctx context.Context, r model.Rating) error
	// 平均と件数
	AverageByDeviceID(ctx context.Context, deviceID int64) (float64, int64, error)
}
