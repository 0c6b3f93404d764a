package client

import (
	"context"
	"net/http"
	"strconv"
)

type Device struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    int64   `json:"price"`
	Rating   float64 `json:"rating"`
	Img      string  `json:"img"`
	ImageURL string  `json:"imageUrl"`
}

type BasketItem struct {
	ID       int64   `json:"id"`
	DeviceID int64   `json:"deviceId"`
	BasketID int64   `json:"basketId"`
	Quantity int64   `json:"quantity"`
	Device   *Device `json:"device"`
}

type Basket struct {
	ID      int64        `json:"id"`
	UserID  int64        `json:"userId"`
	Devices []BasketItem `json:"devices"`
}

type ClearResult struct {
	Message           string `json:"message"`
	DeletedItemsCount int64  `json:"deletedItemsCount"`
}

type addRequest struct {
	DeviceID int64 `json:"deviceId"`
	Quantity int64 `json:"quantity"`
}

type quantityRequest struct {
	Quantity int64 `json:"quantity"`
}

func (a *API) GetBasket(ctx context.Context) (Basket, error) {
	var out Basket
	err := a.do(ctx, http.MethodGet, "/api/basket", nil, &out)
	return out, err
}

func (a *API) AddToBasket(ctx context.Context, deviceID, quantity int64) (BasketItem, error) {
	var out BasketItem
	err := a.do(ctx, http.MethodPost, "/api/basket/add", addRequest{DeviceID: deviceID, Quantity: quantity}, &out)
	return out, err
}

func (a *API) RemoveFromBasket(ctx context.Context, deviceID int64) error {
	return a.do(ctx, http.MethodDelete, "/api/basket/remove/"+strconv.FormatInt(deviceID, 10), nil, nil)
}

func (a *API) UpdateBasketQuantity(ctx context.Context, deviceID, quantity int64) (BasketItem, error) {
	var out BasketItem
	err := a.do(ctx, http.MethodPut, "/api/basket/update/"+strconv.FormatInt(deviceID, 10), quantityRequest{Quantity: quantity}, &out)
	return out, err
}

func (a *API) ClearBasket(ctx context.Context) (ClearResult, error) {
	var out ClearResult
	err := a.do(ctx, http.MethodDelete, "/api/basket/clear", nil, &out)
	return out, err
}
