// Package store はクライアント側のバスケットのミラーと通知。
// 変更はサーバーの応答が来てから反映する。
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"onlinestore/internal/client"
)

const placeholderName = "Untitled"

var (
	ErrInvalidDeviceID = errors.New("invalid device id")
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// *client.API が満たす
type BasketAPI interface {
	GetBasket(ctx context.Context) (client.Basket, error)
	AddToBasket(ctx context.Context, deviceID, quantity int64) (client.BasketItem, error)
	RemoveFromBasket(ctx context.Context, deviceID int64) error
	UpdateBasketQuantity(ctx context.Context, deviceID, quantity int64) (client.BasketItem, error)
	ClearBasket(ctx context.Context) (client.ClearResult, error)
}

type Snapshot struct {
	Items     []client.BasketItem
	IsLoading bool
	IsLoaded  bool
}

type BasketStore struct {
	api   BasketAPI
	notes *NotificationStore

	mu        sync.Mutex
	items     []client.BasketItem
	loading   bool // LoadBasket 実行中
	mutations int  // add/remove/update/clear 実行中
	loaded    bool

	subID int
	subs  map[int]func(Snapshot)
}

func NewBasketStore(api BasketAPI, notes *NotificationStore) *BasketStore {
	if notes == nil {
		notes = NewNotificationStore()
	}
	return &BasketStore{
		api:   api,
		notes: notes,
		subs:  make(map[int]func(Snapshot)),
	}
}

// Subscribe は変更のたびに fn を呼ぶ。戻り値で解除。
func (s *BasketStore) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	s.subID++
	id := s.subID
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *BasketStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *BasketStore) snapshotLocked() Snapshot {
	items := make([]client.BasketItem, len(s.items))
	copy(items, s.items)
	return Snapshot{
		Items:     items,
		IsLoading: s.loading || s.mutations > 0,
		IsLoaded:  s.loaded,
	}
}

// ロックを持ったまま fn で状態を変え、外で通知する
func (s *BasketStore) update(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, f := range s.subs {
		subs = append(subs, f)
	}
	s.mu.Unlock()

	for _, f := range subs {
		f(snap)
	}
}

func (s *BasketStore) Items() []client.BasketItem { return s.Snapshot().Items }
func (s *BasketStore) IsLoading() bool            { return s.Snapshot().IsLoading }
func (s *BasketStore) IsLoaded() bool             { return s.Snapshot().IsLoaded }
func (s *BasketStore) TotalPrice() int64          { return TotalPrice(s.Items()) }
func (s *BasketStore) TotalQuantity() int64       { return TotalQuantity(s.Items()) }

// LoadBasket は実行中なら何もしない
func (s *BasketStore) LoadBasket(ctx context.Context) error {
	started := false
	s.update(func() {
		if !s.loading {
			s.loading = true
			started = true
		}
	})
	if !started {
		return nil
	}

	b, err := s.api.GetBasket(ctx)
	if err != nil {
		s.update(func() { s.loading = false })
		s.notes.Error("Failed to load basket. Try refreshing the page", err)
		return err
	}

	items := make([]client.BasketItem, 0, len(b.Devices))
	for _, it := range b.Devices {
		items = append(items, sanitize(it))
	}

	s.update(func() {
		s.items = items
		s.loaded = true
		s.loading = false
	})
	return nil
}

func (s *BasketStore) AddItem(ctx context.Context, deviceID, quantity int64) error {
	if deviceID <= 0 {
		s.notes.Error("Invalid device ID", nil)
		return ErrInvalidDeviceID
	}
	if quantity <= 0 {
		s.notes.Error("Invalid quantity", nil)
		return ErrInvalidQuantity
	}

	s.begin()
	item, err := s.api.AddToBasket(ctx, deviceID, quantity)
	if err != nil {
		s.end(nil)
		s.notes.Error("Failed to add item to basket. Please try again", err)
		return err
	}
	if item.Quantity <= 0 {
		item.Quantity = quantity
	}

	var replaced bool
	s.end(func() { replaced = s.upsertLocked(deviceID, item) })
	if replaced {
		s.notes.Success(fmt.Sprintf("Quantity of %q updated", displayName(item)))
	} else {
		s.notes.Success(fmt.Sprintf("%q added to basket", displayName(item)))
	}
	return nil
}

func (s *BasketStore) RemoveItem(ctx context.Context, deviceID int64) error {
	if deviceID <= 0 {
		s.notes.Error("Invalid device ID", nil)
		return ErrInvalidDeviceID
	}

	s.begin()
	if err := s.api.RemoveFromBasket(ctx, deviceID); err != nil {
		s.end(nil)
		s.notes.Error("Failed to remove item from basket. Please try again", err)
		return err
	}

	name := placeholderName
	s.end(func() {
		for i, it := range s.items {
			if it.DeviceID == deviceID {
				name = displayName(it)
				s.items = append(s.items[:i:i], s.items[i+1:]...)
				break
			}
		}
	})
	s.notes.Info(fmt.Sprintf("%q removed from basket", name))
	return nil
}

// quantity <= 0 は削除として扱う
func (s *BasketStore) UpdateQuantity(ctx context.Context, deviceID, quantity int64) error {
	if deviceID <= 0 {
		s.notes.Error("Invalid device ID", nil)
		return ErrInvalidDeviceID
	}
	if quantity <= 0 {
		return s.RemoveItem(ctx, deviceID)
	}

	s.begin()
	item, err := s.api.UpdateBasketQuantity(ctx, deviceID, quantity)
	if err != nil {
		s.end(nil)
		s.notes.Error("Failed to change item quantity. Please try again", err)
		return err
	}
	if item.Quantity <= 0 {
		item.Quantity = quantity
	}

	s.end(func() { s.upsertLocked(deviceID, item) })
	s.notes.Success(fmt.Sprintf("Quantity of %q changed to %d", displayName(item), item.Quantity))
	return nil
}

// 空なら警告だけ出してリクエストしない
func (s *BasketStore) ClearAllItems(ctx context.Context) error {
	if len(s.Items()) == 0 {
		s.notes.Warning("Basket is already empty")
		return nil
	}

	s.begin()
	if _, err := s.api.ClearBasket(ctx); err != nil {
		s.end(nil)
		s.notes.Error("Failed to clear basket. Please try again", err)
		return err
	}

	s.end(func() { s.items = nil })
	s.notes.Success("Basket cleared")
	return nil
}

// ClearLocal はサーバーに問い合わせずに空にする（ログアウト時など）
func (s *BasketStore) ClearLocal() {
	s.update(func() {
		s.items = nil
		s.loaded = false
	})
}

func (s *BasketStore) HasItem(deviceID int64) bool {
	_, ok := s.ItemByDeviceID(deviceID)
	return ok
}

func (s *BasketStore) ItemByDeviceID(deviceID int64) (client.BasketItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.DeviceID == deviceID {
			return it, true
		}
	}
	return client.BasketItem{}, false
}

func (s *BasketStore) QuantityByDeviceID(deviceID int64) int64 {
	it, ok := s.ItemByDeviceID(deviceID)
	if !ok {
		return 0
	}
	return it.Quantity
}

func (s *BasketStore) begin() {
	s.update(func() { s.mutations++ })
}

func (s *BasketStore) end(fn func()) {
	s.update(func() {
		s.mutations--
		if fn != nil {
			fn()
		}
	})
}

// 同じdeviceIdがあれば置き換え、無ければ末尾に足す
func (s *BasketStore) upsertLocked(deviceID int64, item client.BasketItem) bool {
	for i, it := range s.items {
		if it.DeviceID == deviceID {
			s.items[i] = item
			return true
		}
	}
	s.items = append(s.items, item)
	return false
}

func sanitize(it client.BasketItem) client.BasketItem {
	d := client.Device{Name: placeholderName}
	if it.Device != nil {
		d = *it.Device
	}
	if d.Name == "" {
		d.Name = placeholderName
	}
	if d.Price < 0 {
		d.Price = 0
	}
	it.Device = &d

	if it.Quantity <= 0 {
		it.Quantity = 1
	}
	return it
}

func displayName(it client.BasketItem) string {
	if it.Device == nil || it.Device.Name == "" {
		return placeholderName
	}
	return it.Device.Name
}

// Σ max(0,price) × max(1,quantity)
func TotalPrice(items []client.BasketItem) int64 {
	var total int64
	for _, it := range items {
		var price int64
		if it.Device != nil {
			price = max(0, it.Device.Price)
		}
		total += price * max(1, it.Quantity)
	}
	return total
}

// Σ max(1,quantity)
func TotalQuantity(items []client.BasketItem) int64 {
	var total int64
	for _, it := range items {
		total += max(1, it.Quantity)
	}
	return total
}
