package repository

import (
	"context"

	"onlinestore/internal/domain/model"
)

type BasketRepository interface {
	// 無ければ作成
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Basket, error)
	FindByUserID(ctx context.Context, userID int64) (model.Basket, error)
	Create(ctx context.Context, userID int64) (model.Basket, error)
}

// 明細の取得はすべてDeviceをpreloadして返す
type BasketDeviceRepository interface {
	ListByBasketID(ctx context.Context, basketID int64) ([]model.BasketDevice, error)
	FindByBasketAndDevice(ctx context.Context, basketID int64, deviceID int64) (model.BasketDevice, error)
	// 同一デバイスはプラス
	AddQuantity(ctx context.Context, basketID int64, deviceID int64, addQty int64) (model.BasketDevice, error)
	UpdateQuantity(ctx context.Context, basketID int64, deviceID int64, qty int64) (model.BasketDevice, error)
	DeleteByBasketAndDevice(ctx context.Context, basketID int64, deviceID int64) error
	DeleteAllByBasketID(ctx context.Context, basketID int64) (int64, error)
}
