package usecase

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"onlinestore/internal/cache"
	"onlinestore/internal/domain/model"
	repo "onlinestore/internal/repository"
)

const (
	DefaultDevicePage  = 1
	DefaultDeviceLimit = 9
	MaxDeviceLimit     = 100

	// offset = (page-1)*limit が int32 に収まる範囲
	MaxDevicePage = math.MaxInt32 / MaxDeviceLimit
)

// DeviceUsecase は /api/device
type DeviceUsecase struct {
	devices      repo.DeviceRepository
	types        repo.TypeRepository
	brands       repo.BrandRepository
	tx           repo.TransactionManager
	cache        *cache.Cache
	staticPrefix string
}

func NewDeviceUsecase(
	devices repo.DeviceRepository,
	types repo.TypeRepository,
	brands repo.BrandRepository,
	tx repo.TransactionManager,
	c *cache.Cache,
	staticPrefix string,
) *DeviceUsecase {
	return &DeviceUsecase{
		devices:      devices,
		types:        types,
		brands:       brands,
		tx:           tx,
		cache:        c,
		staticPrefix: staticPrefix,
	}
}

// GET /api/device の入力
type ListDevicesInput struct {
	TypeID  *int64
	BrandID *int64
	Page    int
	Limit   int
}

type DeviceListOutput struct {
	Count int64        `json:"count"`
	Rows  []DeviceView `json:"rows"`
}

type DeviceInfoInput struct {
	Title       string
	Description string
}

type CreateDeviceInput struct {
	Name    string
	Price   int64
	BrandID int64
	TypeID  int64
	Img     string
	Info    []DeviceInfoInput
}

type RateDeviceInput struct {
	DeviceID int64
	Rate     int
}

func (u *DeviceUsecase) List(ctx context.Context, in ListDevicesInput) (DeviceListOutput, error) {
	if in.Page < 1 || in.Page > MaxDevicePage {
		return DeviceListOutput{}, NewValidationError("invalid page", []FieldError{
			{Field: "page", Message: "must be between 1 and " + strconv.Itoa(MaxDevicePage)},
		})
	}
	if in.Limit < 1 || in.Limit > MaxDeviceLimit {
		return DeviceListOutput{}, NewValidationError("invalid limit", []FieldError{
			{Field: "limit", Message: "must be between 1 and 100"},
		})
	}
	if (in.TypeID != nil && *in.TypeID <= 0) || (in.BrandID != nil && *in.BrandID <= 0) {
		return DeviceListOutput{}, NewValidationError("invalid filter", nil)
	}

	key := devicesListKey(in.TypeID, in.BrandID, in.Page, in.Limit)
	out, err := cache.GetOrCompute(ctx, u.cache, key, func(ctx context.Context) (DeviceListOutput, error) {
		rows, total, err := u.devices.List(ctx, repo.DeviceListQuery{
			TypeID:  in.TypeID,
			BrandID: in.BrandID,
			Page:    in.Page,
			Limit:   in.Limit,
		})
		if err != nil {
			return DeviceListOutput{}, err
		}

		views := make([]DeviceView, 0, len(rows))
		for _, d := range rows {
			views = append(views, NewDeviceView(d, u.staticPrefix))
		}
		return DeviceListOutput{Count: total, Rows: views}, nil
	})
	if err != nil {
		return DeviceListOutput{}, NewInternalError()
	}
	return out, nil
}

// 特性付きで1件。404はキャッシュしない。
func (u *DeviceUsecase) Get(ctx context.Context, id int64) (DeviceView, error) {
	if id <= 0 {
		return DeviceView{}, NewValidationError("invalid id", nil)
	}

	out, err := cache.GetOrCompute(ctx, u.cache, deviceKey(id), func(ctx context.Context) (DeviceView, error) {
		d, err := u.devices.FindByID(ctx, id)
		if err != nil {
			return DeviceView{}, err
		}
		return NewDeviceView(d, u.staticPrefix), nil
	})
	if errors.Is(err, repo.ErrNotFound) {
		return DeviceView{}, NewNotFoundError("Device not found")
	}
	if err != nil {
		return DeviceView{}, NewInternalError()
	}
	return out, nil
}

// デバイスと特性を1トランザクションで作る
func (u *DeviceUsecase) Create(ctx context.Context, in CreateDeviceInput) (DeviceView, error) {
	d, err := u.validateCreate(in)
	if err != nil {
		return DeviceView{}, err
	}

	// 参照先の存在チェック
	if _, err := u.types.FindByID(ctx, in.TypeID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return DeviceView{}, NewValidationError("Type not found", []FieldError{{Field: "typeId", Message: "does not exist"}})
		}
		return DeviceView{}, NewInternalError()
	}
	if _, err := u.brands.FindByID(ctx, in.BrandID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return DeviceView{}, NewValidationError("Brand not found", []FieldError{{Field: "brandId", Message: "does not exist"}})
		}
		return DeviceView{}, NewInternalError()
	}

	var created model.Device
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		saved, err := r.Devices().Create(ctx, d)
		if errors.Is(err, repo.ErrConflict) {
			return NewConflictError("Device with this name already exists")
		}
		if errors.Is(err, repo.ErrNotFound) {
			return NewValidationError("Type or brand not found", nil)
		}
		if err != nil {
			return err
		}

		created, err = r.Devices().FindByID(ctx, saved.ID)
		return err
	})
	if err != nil {
		return DeviceView{}, toAppError(err)
	}

	u.cache.Invalidate(ctx, devicesPrefix)
	return NewDeviceView(created, u.staticPrefix), nil
}

func (u *DeviceUsecase) validateCreate(in CreateDeviceInput) (model.Device, error) {
	var details []FieldError

	name := strings.TrimSpace(in.Name)
	if err := validateName("name", name, 2, 128); err != nil {
		details = append(details, FieldError{Field: "name", Message: "must be between 2 and 128 characters"})
	}
	if in.Price < 0 {
		details = append(details, FieldError{Field: "price", Message: "must be >= 0"})
	}
	if in.BrandID < 1 {
		details = append(details, FieldError{Field: "brandId", Message: "must be >= 1"})
	}
	if in.TypeID < 1 {
		details = append(details, FieldError{Field: "typeId", Message: "must be >= 1"})
	}
	img := strings.TrimSpace(in.Img)
	if img == "" {
		details = append(details, FieldError{Field: "img", Message: "is required"})
	}

	info := make([]model.DeviceInfo, 0, len(in.Info))
	for _, i := range in.Info {
		title := strings.TrimSpace(i.Title)
		desc := strings.TrimSpace(i.Description)
		if title == "" || desc == "" {
			details = append(details, FieldError{Field: "info", Message: "title and description are required"})
			break
		}
		info = append(info, model.DeviceInfo{Title: title, Description: desc})
	}

	if len(details) > 0 {
		return model.Device{}, NewValidationError("Validation failed", details)
	}

	typeID, brandID := in.TypeID, in.BrandID
	return model.Device{
		Name:    name,
		Price:   in.Price,
		Img:     img,
		TypeID:  &typeID,
		BrandID: &brandID,
		Info:    info,
	}, nil
}

// 削除。バスケット明細・特性・評価はFKで消える。
func (u *DeviceUsecase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewValidationError("invalid id", nil)
	}

	err := u.devices.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFoundError("Device not found")
	}
	if err != nil {
		return NewInternalError()
	}

	u.cache.Invalidate(ctx, devicesPrefix)
	return nil
}

// 評価を付けて平均（小数1桁）を更新する。1ユーザー1回。
func (u *DeviceUsecase) Rate(ctx context.Context, userID int64, in RateDeviceInput) (DeviceView, error) {
	if userID <= 0 {
		return DeviceView{}, NewUnauthorizedError("Unauthorized")
	}
	if in.DeviceID < 1 {
		return DeviceView{}, NewValidationError("Validation failed", []FieldError{{Field: "deviceId", Message: "must be >= 1"}})
	}
	if in.Rate < 1 || in.Rate > 5 {
		return DeviceView{}, NewValidationError("Validation failed", []FieldError{{Field: "rate", Message: "must be between 1 and 5"}})
	}

	var updated model.Device
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Devices().FindByID(ctx, in.DeviceID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewNotFoundError("Device not found")
			}
			return err
		}

		err := r.Ratings().Create(ctx, model.Rating{UserID: userID, DeviceID: in.DeviceID, Rate: in.Rate})
		if errors.Is(err, repo.ErrConflict) {
			return NewConflictError("You have already rated this device")
		}
		if err != nil {
			return err
		}

		avg, _, err := r.Ratings().AverageByDeviceID(ctx, in.DeviceID)
		if err != nil {
			return err
		}
		if err := r.Devices().UpdateRating(ctx, in.DeviceID, RoundRating(avg)); err != nil {
			return err
		}

		updated, err = r.Devices().FindByID(ctx, in.DeviceID)
		return err
	})
	if err != nil {
		return DeviceView{}, toAppError(err)
	}

	u.cache.Invalidate(ctx, devicesPrefix)
	return NewDeviceView(updated, u.staticPrefix), nil
}

// 小数1桁に丸める
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
