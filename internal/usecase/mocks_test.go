package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"onlinestore/internal/cache"
	"onlinestore/internal/domain/model"
	repo "onlinestore/internal/repository"
	"onlinestore/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// Mocks
// =====================

type BasketRepoMock struct{ mock.Mock }

func (m *BasketRepoMock) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Basket, error) {
	args := m.Called(ctx, userID)
	b, _ := args.Get(0).(model.Basket)
	return b, args.Error(1)
}

func (m *BasketRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Basket, error) {
	args := m.Called(ctx, userID)
	b, _ := args.Get(0).(model.Basket)
	return b, args.Error(1)
}

func (m *BasketRepoMock) Create(ctx context.Context, userID int64) (model.Basket, error) {
	args := m.Called(ctx, userID)
	b, _ := args.Get(0).(model.Basket)
	return b, args.Error(1)
}

func (m *BasketRepoMock) ListByBasketID(ctx context.Context, basketID int64) ([]model.BasketDevice, error) {
	args := m.Called(ctx, basketID)
	items, _ := args.Get(0).([]model.BasketDevice)
	return items, args.Error(1)
}

func (m *BasketRepoMock) FindByBasketAndDevice(ctx context.Context, basketID int64, deviceID int64) (model.BasketDevice, error) {
	args := m.Called(ctx, basketID, deviceID)
	it, _ := args.Get(0).(model.BasketDevice)
	return it, args.Error(1)
}

func (m *BasketRepoMock) AddQuantity(ctx context.Context, basketID int64, deviceID int64, addQty int64) (model.BasketDevice, error) {
	args := m.Called(ctx, basketID, deviceID, addQty)
	it, _ := args.Get(0).(model.BasketDevice)
	return it, args.Error(1)
}

func (m *BasketRepoMock) UpdateQuantity(ctx context.Context, basketID int64, deviceID int64, qty int64) (model.BasketDevice, error) {
	args := m.Called(ctx, basketID, deviceID, qty)
	it, _ := args.Get(0).(model.BasketDevice)
	return it, args.Error(1)
}

func (m *BasketRepoMock) DeleteByBasketAndDevice(ctx context.Context, basketID int64, deviceID int64) error {
	args := m.Called(ctx, basketID, deviceID)
	return args.Error(0)
}

func (m *BasketRepoMock) DeleteAllByBasketID(ctx context.Context, basketID int64) (int64, error) {
	args := m.Called(ctx, basketID)
	return args.Get(0).(int64), args.Error(1)
}

type DeviceRepoMock struct{ mock.Mock }

func (m *DeviceRepoMock) List(ctx context.Context, q repo.DeviceListQuery) ([]model.Device, int64, error) {
	args := m.Called(ctx, q)
	rows, _ := args.Get(0).([]model.Device)
	return rows, args.Get(1).(int64), args.Error(2)
}

func (m *DeviceRepoMock) FindByID(ctx context.Context, id int64) (model.Device, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(model.Device)
	return d, args.Error(1)
}

func (m *DeviceRepoMock) Create(ctx context.Context, d model.Device) (model.Device, error) {
	args := m.Called(ctx, d)
	created, _ := args.Get(0).(model.Device)
	return created, args.Error(1)
}

func (m *DeviceRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *DeviceRepoMock) UpdateRating(ctx context.Context, id int64, rating float64) error {
	args := m.Called(ctx, id, rating)
	return args.Error(0)
}

type RatingRepoMock struct{ mock.Mock }

func (m *RatingRepoMock) Create(ctx context.Context, r model.Rating) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *RatingRepoMock) AverageByDeviceID(ctx context.Context, deviceID int64) (float64, int64, error) {
	args := m.Called(ctx, deviceID)
	return args.Get(0).(float64), args.Get(1).(int64), args.Error(2)
}

type TypeRepoMock struct{ mock.Mock }

func (m *TypeRepoMock) List(ctx context.Context) ([]model.Type, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]model.Type)
	return out, args.Error(1)
}

func (m *TypeRepoMock) FindByID(ctx context.Context, id int64) (model.Type, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(model.Type)
	return t, args.Error(1)
}

func (m *TypeRepoMock) Create(ctx context.Context, t model.Type) (model.Type, error) {
	args := m.Called(ctx, t)
	out, _ := args.Get(0).(model.Type)
	return out, args.Error(1)
}

func (m *TypeRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type BrandRepoMock struct{ mock.Mock }

func (m *BrandRepoMock) List(ctx context.Context) ([]model.Brand, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]model.Brand)
	return out, args.Error(1)
}

func (m *BrandRepoMock) FindByID(ctx context.Context, id int64) (model.Brand, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(model.Brand)
	return b, args.Error(1)
}

func (m *BrandRepoMock) Create(ctx context.Context, b model.Brand) (model.Brand, error) {
	args := m.Called(ctx, b)
	out, _ := args.Get(0).(model.Brand)
	return out, args.Error(1)
}

func (m *BrandRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

// モックをそのまま渡すTx
type fakeTx struct {
	users   *UserRepoMock
	baskets *BasketRepoMock
	devices *DeviceRepoMock
	ratings *RatingRepoMock
}

func (f *fakeTx) Users() repo.UserRepository                 { return f.users }
func (f *fakeTx) Baskets() repo.BasketRepository             { return f.baskets }
func (f *fakeTx) BasketDevices() repo.BasketDeviceRepository { return f.baskets }
func (f *fakeTx) Devices() repo.DeviceRepository             { return f.devices }
func (f *fakeTx) Ratings() repo.RatingRepository             { return f.ratings }

func (f *fakeTx) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(f)
}

func newFakeTx() *fakeTx {
	return &fakeTx{
		users:   new(UserRepoMock),
		baskets: new(BasketRepoMock),
		devices: new(DeviceRepoMock),
		ratings: new(RatingRepoMock),
	}
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...interface{}) {}

func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	s, err := cache.NewMemoryStore(100, 1<<20)
	require.NoError(t, err)
	return cache.New(s, time.Minute, cache.WithLogger(nopLogger{}))
}

func assertAppError(t *testing.T, err error, status int, contains string) {
	t.Helper()
	if !assert.Error(t, err) {
		return
	}
	ae, ok := usecase.AsAppError(err)
	if !assert.True(t, ok, "expected *AppError, got %T", err) {
		return
	}
	assert.Equal(t, status, ae.Status)
	if contains != "" {
		assert.True(t, strings.Contains(ae.Message, contains), "message %q should contain %q", ae.Message, contains)
	}
}
