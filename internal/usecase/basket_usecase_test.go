package usecase_test

import (
	"context"
	"errors"
	"math"
	"net/http"
	"testing"

	"onlinestore/internal/domain/model"
	repo "onlinestore/internal/repository"
	"onlinestore/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newBasketUC() (*usecase.BasketUsecase, *BasketRepoMock, *DeviceRepoMock) {
	b := new(BasketRepoMock)
	d := new(DeviceRepoMock)
	return usecase.NewBasketUsecase(b, b, d, "/static"), b, d
}

func TestBasketUsecase_GetBasket_CreatesEmpty(t *testing.T) {
	uc, b, _ := newBasketUC()
	b.On("GetOrCreateByUserID", mock.Anything, int64(7)).Return(model.Basket{ID: 3, UserID: 7}, nil)
	b.On("ListByBasketID", mock.Anything, int64(3)).Return([]model.BasketDevice{}, nil)

	out, err := uc.GetBasket(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.ID)
	assert.Equal(t, int64(7), out.UserID)
	assert.NotNil(t, out.Devices)
	assert.Empty(t, out.Devices)
}

func TestBasketUsecase_GetBasket_EmbedsDevice(t *testing.T) {
	uc, b, _ := newBasketUC()
	dev := &model.Device{ID: 10, Name: "Phone", Price: 1000, Img: "p.jpg"}
	b.On("GetOrCreateByUserID", mock.Anything, int64(7)).Return(model.Basket{ID: 3, UserID: 7}, nil)
	b.On("ListByBasketID", mock.Anything, int64(3)).Return([]model.BasketDevice{
		{ID: 1, BasketID: 3, DeviceID: 10, Quantity: 2, Device: dev},
	}, nil)

	out, err := uc.GetBasket(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, out.Devices, 1)
	require.NotNil(t, out.Devices[0].Device)
	assert.Equal(t, "Phone", out.Devices[0].Device.Name)
	assert.Equal(t, "/static/images/p.jpg", out.Devices[0].Device.ImageURL)
}

func TestBasketUsecase_GetBasket_Unauthorized(t *testing.T) {
	uc, _, _ := newBasketUC()
	_, err := uc.GetBasket(context.Background(), 0)
	assertAppError(t, err, http.StatusUnauthorized, "")
}

func TestBasketUsecase_AddItem_Validation(t *testing.T) {
	uc, _, _ := newBasketUC()
	ctx := context.Background()

	_, err := uc.AddItem(ctx, 7, usecase.AddBasketItemInput{DeviceID: 0, Quantity: 1})
	assertAppError(t, err, http.StatusBadRequest, "deviceId")

	_, err = uc.AddItem(ctx, 7, usecase.AddBasketItemInput{DeviceID: 1, Quantity: 0})
	assertAppError(t, err, http.StatusBadRequest, "quantity")

	_, err = uc.AddItem(ctx, 7, usecase.AddBasketItemInput{DeviceID: 1, Quantity: -3})
	assertAppError(t, err, http.StatusBadRequest, "quantity")

	_, err = uc.AddItem(ctx, 7, usecase.AddBasketItemInput{DeviceID: 1, Quantity: model.MaxBasketQuantity + 1})
	assertAppError(t, err, http.StatusBadRequest, "must not exceed")

	_, err = uc.AddItem(ctx, 7, usecase.AddBasketItemInput{DeviceID: 1, Quantity: math.MaxInt64})
	assertAppError(t, err, http.StatusBadRequest, "quantity")
}

func TestBasketUsecase_AddItem_QuantityLimit(t *testing.T) {
	uc, b, d := newBasketUC()
	d.On("FindByID", mock.Anything, int64(10)).Return(model.Device{ID: 10}, nil)
	b.On("GetOrCreateByUserID", mock.Anything, int64(7)).Return(model.Basket{ID: 3, UserID: 7}, nil)
	b.On("AddQuantity", mock.Anything, int64(3), int64(10), int64(5)).
		Return(model.BasketDevice{}, repo.ErrQuantityLimit)

	_, err := uc.AddItem(context.Background(), 7, usecase.AddBasketItemInput{DeviceID: 10, Quantity: 5})
	assertAppError(t, err, http.StatusBadRequest, "must not exceed")
}

func TestBasketUsecase_AddItem_DeviceNotFound(t *testing.T) {
	uc, b, d := newBasketUC()
	d.On("FindByID", mock.Anything, int64(99)).Return(model.Device{}, repo.ErrNotFound)

	_, err := uc.AddItem(context.Background(), 7, usecase.AddBasketItemInput{DeviceID: 99, Quantity: 1})
	assertAppError(t, err, http.StatusNotFound, "Device not found")
	b.AssertNotCalled(t, "AddQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBasketUsecase_AddItem_Increments(t *testing.T) {
	uc, b, d := newBasketUC()
	dev := model.Device{ID: 10, Name: "Phone", Price: 1000}
	d.On("FindByID", mock.Anything, int64(10)).Return(dev, nil)
	b.On("GetOrCreateByUserID", mock.Anything, int64(7)).Return(model.Basket{ID: 3, UserID: 7}, nil)
	b.On("AddQuantity", mock.Anything, int64(3), int64(10), int64(2)).
		Return(model.BasketDevice{ID: 1, BasketID: 3, DeviceID: 10, Quantity: 5, Device: &dev}, nil)

	out, err := uc.AddItem(context.Background(), 7, usecase.AddBasketItemInput{DeviceID: 10, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), out.Quantity)
	require.NotNil(t, out.Device)
	assert.Equal(t, int64(10), out.Device.ID)
	b.AssertExpectations(t)
}

func TestBasketUsecase_AddItem_DBError(t *testing.T) {
	uc, b, d := newBasketUC()
	d.On("FindByID", mock.Anything, int64(10)).Return(model.Device{ID: 10}, nil)
	b.On("GetOrCreateByUserID", mock.Anything, int64(7)).Return(model.Basket{}, errors.New("db down"))

	_, err := uc.AddItem(context.Background(), 7, usecase.AddBasketItemInput{DeviceID: 10, Quantity: 1})
	assertAppError(t, err, http.StatusInternalServerError, "")
}

func TestBasketUsecase_RemoveItem(t *testing.T) {
	ctx := context.Background()

	t.Run("no basket", func(t *testing.T) {
		uc, b, _ := newBasketUC()
		b.On("FindByUserID", mock.Anything, int64(7)).Return(model.Basket{}, repo.ErrNotFound)

		err := uc.RemoveItem(ctx, 7, 10)
		assertAppError(t, err, http.StatusNotFound, "Basket not found")
	})

	t.Run("no item", func(t *testing.T) {
		uc, b, _ := newBasketUC()
		b.On("FindByUserID", mock.Anything, int64(7)).Return(model.Basket{ID: 3}, nil)
		b.On("DeleteByBasketAndDevice", mock.Anything, int64(3), int64(10)).Return(repo.ErrNotFound)

		err := uc.RemoveItem(ctx, 7, 10)
		assertAppError(t, err, http.StatusNotFound, "Device not found in basket")
	})

	t.Run("ok", func(t *testing.T) {
		uc, b, _ := newBasketUC()
		b.On("FindByUserID", mock.Anything, int64(7)).Return(model.Basket{ID: 3}, nil)
		b.On("DeleteByBasketAndDevice", mock.Anything, int64(3), int64(10)).Return(nil)

		assert.NoError(t, uc.RemoveItem(ctx, 7, 10))
	})
}

func TestBasketUsecase_UpdateQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("zero is rejected, not a delete", func(t *testing.T) {
		uc, b, _ := newBasketUC()
		_, err := uc.UpdateQuantity(ctx, 7, 10, 0)
		assertAppError(t, err, http.StatusBadRequest, "quantity")
		b.AssertNotCalled(t, "DeleteByBasketAndDevice", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("above limit", func(t *testing.T) {
		uc, b, _ := newBasketUC()
		_, err := uc.UpdateQuantity(ctx, 7, 10, model.MaxBasketQuantity+1)
		assertAppError(t, err, http.StatusBadRequest, "must not exceed")
		b.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("item absent", func(t *testing.T) {
		uc, b, _ := newBasketUC()
		b.On("FindByUserID", mock.Anything, int64(7)).Return(model.Basket{ID: 3}, nil)
		b.On("UpdateQuantity", mock.Anything, int64(3), int64(10), int64(4)).Return(model.BasketDevice{}, repo.ErrNotFound)

		_, err := uc.UpdateQuantity(ctx, 7, 10, 4)
		assertAppError(t, err, http.StatusNotFound, "")
	})

	t.Run("sets quantity", func(t *testing.T) {
		uc, b, _ := newBasketUC()
		b.On("FindByUserID", mock.Anything, int64(7)).Return(model.Basket{ID: 3}, nil)
		b.On("UpdateQuantity", mock.Anything, int64(3), int64(10), int64(4)).
			Return(model.BasketDevice{ID: 1, BasketID: 3, DeviceID: 10, Quantity: 4, Device: &model.Device{ID: 10}}, nil)

		out, err := uc.UpdateQuantity(ctx, 7, 10, 4)
		require.NoError(t, err)
		assert.Equal(t, int64(4), out.Quantity)
	})
}

func TestBasketUsecase_ClearBasket(t *testing.T) {
	ctx := context.Background()

	t.Run("no basket yet", func(t *testing.T) {
		uc, b, _ := newBasketUC()
		b.On("FindByUserID", mock.Anything, int64(7)).Return(model.Basket{}, repo.ErrNotFound)

		n, err := uc.ClearBasket(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
	})

	t.Run("deletes all", func(t *testing.T) {
		uc, b, _ := newBasketUC()
		b.On("FindByUserID", mock.Anything, int64(7)).Return(model.Basket{ID: 3}, nil)
		b.On("DeleteAllByBasketID", mock.Anything, int64(3)).Return(int64(4), nil)

		n, err := uc.ClearBasket(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(4), n)
	})
}
