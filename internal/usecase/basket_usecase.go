package usecase

import (
	"context"
	"errors"
	"strconv"

	"onlinestore/internal/domain/model"
	repo "onlinestore/internal/repository"
)

// BasketUsecase は /api/basket の業務ロジックです。
// バスケットは初回アクセス時に作られる。
type BasketUsecase struct {
	baskets      repo.BasketRepository
	items        repo.BasketDeviceRepository
	devices      repo.DeviceRepository
	staticPrefix string
}

func NewBasketUsecase(
	baskets repo.BasketRepository,
	items repo.BasketDeviceRepository,
	devices repo.DeviceRepository,
	staticPrefix string,
) *BasketUsecase {
	return &BasketUsecase{
		baskets:      baskets,
		items:        items,
		devices:      devices,
		staticPrefix: staticPrefix,
	}
}

type BasketItemDTO struct {
	ID       int64       `json:"id"`
	DeviceID int64       `json:"deviceId"`
	BasketID int64       `json:"basketId"`
	Quantity int64       `json:"quantity"`
	Device   *DeviceView `json:"device"`
}

type BasketDTO struct {
	ID      int64           `json:"id"`
	UserID  int64           `json:"userId"`
	Devices []BasketItemDTO `json:"devices"`
}

type AddBasketItemInput struct {
	DeviceID int64
	Quantity int64
}

// GetBasket はバスケット取得（無ければ作って空を返す）。
func (u *BasketUsecase) GetBasket(ctx context.Context, userID int64) (BasketDTO, error) {
	if userID <= 0 {
		return BasketDTO{}, NewUnauthorizedError("Unauthorized")
	}

	basket, err := u.baskets.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return BasketDTO{}, NewInternalError()
	}

	items, err := u.items.ListByBasketID(ctx, basket.ID)
	if err != nil {
		return BasketDTO{}, NewInternalError()
	}

	out := BasketDTO{
		ID:      basket.ID,
		UserID:  basket.UserID,
		Devices: make([]BasketItemDTO, 0, len(items)),
	}
	for _, it := range items {
		out.Devices = append(out.Devices, u.toItemDTO(it))
	}
	return out, nil
}

// AddItem はバスケットに追加（同一デバイスは数量加算）。
func (u *BasketUsecase) AddItem(ctx context.Context, userID int64, in AddBasketItemInput) (BasketItemDTO, error) {
	if userID <= 0 {
		return BasketItemDTO{}, NewUnauthorizedError("Unauthorized")
	}
	if err := validateDeviceID(in.DeviceID); err != nil {
		return BasketItemDTO{}, err
	}
	if err := validateQuantity(in.Quantity); err != nil {
		return BasketItemDTO{}, err
	}

	// デバイスの存在チェック
	if _, err := u.devices.FindByID(ctx, in.DeviceID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return BasketItemDTO{}, NewNotFoundError("Device not found")
		}
		return BasketItemDTO{}, NewInternalError()
	}

	basket, err := u.baskets.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return BasketItemDTO{}, NewInternalError()
	}

	item, err := u.items.AddQuantity(ctx, basket.ID, in.DeviceID, in.Quantity)
	if err != nil {
		// チェック後に削除された
		if errors.Is(err, repo.ErrNotFound) {
			return BasketItemDTO{}, NewNotFoundError("Device not found")
		}
		if errors.Is(err, repo.ErrQuantityLimit) {
			return BasketItemDTO{}, quantityLimitError()
		}
		return BasketItemDTO{}, NewInternalError()
	}

	return u.toItemDTO(item), nil
}

// 明細を1件削除
func (u *BasketUsecase) RemoveItem(ctx context.Context, userID int64, deviceID int64) error {
	if userID <= 0 {
		return NewUnauthorizedError("Unauthorized")
	}
	if err := validateDeviceID(deviceID); err != nil {
		return err
	}

	basket, err := u.findBasket(ctx, userID)
	if err != nil {
		return err
	}

	if err := u.items.DeleteByBasketAndDevice(ctx, basket.ID, deviceID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("Device not found in basket")
		}
		return NewInternalError()
	}
	return nil
}

// 数量を上書き。0以下は削除ではなく入力エラー。
func (u *BasketUsecase) UpdateQuantity(ctx context.Context, userID int64, deviceID int64, quantity int64) (BasketItemDTO, error) {
	if userID <= 0 {
		return BasketItemDTO{}, NewUnauthorizedError("Unauthorized")
	}
	if err := validateDeviceID(deviceID); err != nil {
		return BasketItemDTO{}, err
	}
	if err := validateQuantity(quantity); err != nil {
		return BasketItemDTO{}, err
	}

	basket, err := u.findBasket(ctx, userID)
	if err != nil {
		return BasketItemDTO{}, err
	}

	item, err := u.items.UpdateQuantity(ctx, basket.ID, deviceID, quantity)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return BasketItemDTO{}, NewNotFoundError("Device not found in basket")
		}
		return BasketItemDTO{}, NewInternalError()
	}
	return u.toItemDTO(item), nil
}

// 全明細を削除して件数を返す。バスケットが無ければ0。
func (u *BasketUsecase) ClearBasket(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, NewUnauthorizedError("Unauthorized")
	}

	basket, err := u.baskets.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, NewInternalError()
	}

	n, err := u.items.DeleteAllByBasketID(ctx, basket.ID)
	if err != nil {
		return 0, NewInternalError()
	}
	return n, nil
}

func (u *BasketUsecase) findBasket(ctx context.Context, userID int64) (model.Basket, error) {
	basket, err := u.baskets.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Basket{}, NewNotFoundError("Basket not found")
	}
	if err != nil {
		return model.Basket{}, NewInternalError()
	}
	return basket, nil
}

func (u *BasketUsecase) toItemDTO(it model.BasketDevice) BasketItemDTO {
	dto := BasketItemDTO{
		ID:       it.ID,
		DeviceID: it.DeviceID,
		BasketID: it.BasketID,
		Quantity: it.Quantity,
	}
	if it.Device != nil {
		v := NewDeviceView(*it.Device, u.staticPrefix)
		dto.Device = &v
	}
	return dto
}

func validateDeviceID(id int64) error {
	if id <= 0 {
		return NewValidationError("deviceId is required", []FieldError{
			{Field: "deviceId", Message: "must be a positive integer"},
		})
	}
	return nil
}

func validateQuantity(q int64) error {
	if q <= 0 {
		return NewValidationError("quantity is required and must be greater than 0", []FieldError{
			{Field: "quantity", Message: "must be greater than 0"},
		})
	}
	if q > model.MaxBasketQuantity {
		return quantityLimitError()
	}
	return nil
}

func quantityLimitError() error {
	msg := "must not exceed " + strconv.FormatInt(model.MaxBasketQuantity, 10)
	return NewValidationError("quantity "+msg, []FieldError{
		{Field: "quantity", Message: msg},
	})
}
