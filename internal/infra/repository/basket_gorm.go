package repository

import (
	"context"
	"errors"

	"onlinestore/internal/domain/model"
	repo "onlinestore/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BasketRepository と BasketDeviceRepository の両方を満たす
type BasketGormRepository struct {
	db *gorm.DB
}

// DI
func NewBasketGormRepository(db *gorm.DB) *BasketGormRepository {
	return &BasketGormRepository{db: db}
}

// ユーザーのバスケットを取得し、無ければ作成
func (r *BasketGormRepository) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Basket, error) {
	basket, err := r.FindByUserID(ctx, userID)
	if err == nil {
		return basket, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return model.Basket{}, err
	}

	basket, err = r.Create(ctx, userID)
	if err == nil {
		return basket, nil
	}

	// 同時に作られた場合は作られた方を使う
	if errors.Is(err, repo.ErrConflict) {
		return r.FindByUserID(ctx, userID)
	}
	return model.Basket{}, err
}

// ユーザーのバスケットを取得
func (r *BasketGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Basket, error) {
	var basket model.Basket

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&basket).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Basket{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Basket{}, err
	}
	return basket, nil
}

// バスケットを作成
func (r *BasketGormRepository) Create(ctx context.Context, userID int64) (model.Basket, error) {
	basket := model.Basket{UserID: userID}

	if err := r.db.WithContext(ctx).Create(&basket).Error; err != nil {
		if isUniqueViolation(err) {
			return model.Basket{}, repo.ErrConflict
		}
		return model.Basket{}, err
	}
	return basket, nil
}

// 明細を一覧取得（追加順）
func (r *BasketGormRepository) ListByBasketID(ctx context.Context, basketID int64) ([]model.BasketDevice, error) {
	var items []model.BasketDevice

	if err := r.db.WithContext(ctx).
		Preload("Device").
		Where("basket_id = ?", basketID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.BasketDevice{}, err
	}

	return items, nil
}

// (basket, device) の明細を取得
func (r *BasketGormRepository) FindByBasketAndDevice(ctx context.Context, basketID int64, deviceID int64) (model.BasketDevice, error) {
	return findBasketDevice(r.db.WithContext(ctx), basketID, deviceID)
}

func findBasketDevice(tx *gorm.DB, basketID int64, deviceID int64) (model.BasketDevice, error) {
	var item model.BasketDevice

	err := tx.
		Preload("Device").
		Where("basket_id = ? AND device_id = ?", basketID, deviceID).
		First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.BasketDevice{}, repo.ErrNotFound
	}
	if err != nil {
		return model.BasketDevice{}, err
	}
	return item, nil
}

// 同一デバイスは数量加算
func (r *BasketGormRepository) AddQuantity(ctx context.Context, basketID int64, deviceID int64, addQty int64) (model.BasketDevice, error) {
	if addQty <= 0 {
		return model.BasketDevice{}, errors.New("invalid quantity")
	}
	if addQty > model.MaxBasketQuantity {
		return model.BasketDevice{}, repo.ErrQuantityLimit
	}

	err := r.upsert(ctx, basketID, deviceID, addQty)

	// 同時の初回追加で負けた側は加算としてやり直す
	if isUniqueViolation(err) {
		err = r.upsert(ctx, basketID, deviceID, addQty)
	}
	if err != nil {
		return model.BasketDevice{}, err
	}

	return r.FindByBasketAndDevice(ctx, basketID, deviceID)
}

func (r *BasketGormRepository) upsert(ctx context.Context, basketID int64, deviceID int64, addQty int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.BasketDevice

		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("basket_id = ? AND device_id = ?", basketID, deviceID).
			First(&item).Error

		if err == nil {
			if addQty > model.MaxBasketQuantity-item.Quantity {
				return repo.ErrQuantityLimit
			}
			// 既存ありだったら数量を増やす
			res := tx.Model(&model.BasketDevice{}).
				Where("id = ?", item.ID).
				Update("quantity", item.Quantity+addQty)

			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return repo.ErrNotFound
			}
			return nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		//無い場合は新規作成
		newItem := model.BasketDevice{
			BasketID: basketID,
			DeviceID: deviceID,
			Quantity: addQty,
		}
		if err := tx.Create(&newItem).Error; err != nil {
			if isForeignKeyViolation(err) {
				return repo.ErrNotFound
			}
			return err
		}
		return nil
	})
}

// 明細の数量を上書き
func (r *BasketGormRepository) UpdateQuantity(ctx context.Context, basketID int64, deviceID int64, qty int64) (model.BasketDevice, error) {
	res := r.db.WithContext(ctx).
		Model(&model.BasketDevice{}).
		Where("basket_id = ? AND device_id = ?", basketID, deviceID).
		Update("quantity", qty)

	if res.Error != nil {
		return model.BasketDevice{}, res.Error
	}
	if res.RowsAffected == 0 {
		return model.BasketDevice{}, repo.ErrNotFound
	}

	return r.FindByBasketAndDevice(ctx, basketID, deviceID)
}

// 明細を削除
func (r *BasketGormRepository) DeleteByBasketAndDevice(ctx context.Context, basketID int64, deviceID int64) error {
	res := r.db.WithContext(ctx).
		Where("basket_id = ? AND device_id = ?", basketID, deviceID).
		Delete(&model.BasketDevice{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 指定バスケットの明細を全削除し、削除件数を返す
func (r *BasketGormRepository) DeleteAllByBasketID(ctx context.Context, basketID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("basket_id = ?", basketID).
		Delete(&model.BasketDevice{})

	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
