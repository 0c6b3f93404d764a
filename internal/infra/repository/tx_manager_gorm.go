package repository

import (
	"context"

	repo "onlinestore/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	users         repo.UserRepository
	baskets       repo.BasketRepository
	basketDevices repo.BasketDeviceRepository
	devices       repo.DeviceRepository
	ratings       repo.RatingRepository
}

func (r *txReposGorm) Users() repo.UserRepository                 { return r.users }
func (r *txReposGorm) Baskets() repo.BasketRepository             { return r.baskets }
func (r *txReposGorm) BasketDevices() repo.BasketDeviceRepository { return r.basketDevices }
func (r *txReposGorm) Devices() repo.DeviceRepository             { return r.devices }
func (r *txReposGorm) Ratings() repo.RatingRepository             { return r.ratings }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		basket := NewBasketGormRepository(tx)
		r := &txReposGorm{
			users:         NewUserGormRepository(tx),
			baskets:       basket,
			basketDevices: basket,
			devices:       NewDeviceGormRepository(tx),
			ratings:       NewRatingGormRepository(tx),
		}
		return fn(r)
	})
}
