package repository

import (
	"math"
	"testing"
	"time"

	"onlinestore/internal/domain/model"
	repo "onlinestore/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestBasketGorm_GetOrCreate_Idempotent(t *testing.T) {
	gdb := newTestDB(t)
	u := seedUser(t, gdb, "a@example.com")
	r := NewBasketGormRepository(gdb)

	b1, err := r.GetOrCreateByUserID(ctx(), u.ID)
	require.NoError(t, err)
	b2, err := r.GetOrCreateByUserID(ctx(), u.ID)
	require.NoError(t, err)

	assert.Equal(t, b1.ID, b2.ID)
	assert.Equal(t, u.ID, b2.UserID)
}

// table への最初の INSERT を一意制約違反にし、続く SELECT の直前に相手側の行を入れる。
// 同時リクエストに負けた側の流れを1接続で再現する。
func loseInsertRace(t *testing.T, gdb *gorm.DB, table string, competing func(tx *gorm.DB) error) {
	t.Helper()
	var failed, inserted bool

	require.NoError(t, gdb.Callback().Create().Before("gorm:create").Register("test:lose_insert_"+table, func(tx *gorm.DB) {
		if failed || tx.Statement.Table != table {
			return
		}
		failed = true
		_ = tx.AddError(gorm.ErrDuplicatedKey)
	}))
	require.NoError(t, gdb.Callback().Query().Before("gorm:query").Register("test:competing_"+table, func(tx *gorm.DB) {
		if !failed || inserted || tx.Statement.Table != table {
			return
		}
		inserted = true
		require.NoError(t, competing(tx.Session(&gorm.Session{NewDB: true})))
	}))
}

func TestBasketGorm_GetOrCreate_LostRace(t *testing.T) {
	gdb := newTestDB(t)
	u := seedUser(t, gdb, "a@example.com")
	r := NewBasketGormRepository(gdb)

	loseInsertRace(t, gdb, "baskets", func(tx *gorm.DB) error {
		now := time.Now()
		return tx.Exec("INSERT INTO baskets (user_id, created_at, updated_at) VALUES (?, ?, ?)", u.ID, now, now).Error
	})

	b, err := r.GetOrCreateByUserID(ctx(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, b.UserID)

	var baskets []model.Basket
	require.NoError(t, gdb.Find(&baskets).Error)
	require.Len(t, baskets, 1)
	assert.Equal(t, baskets[0].ID, b.ID)
}

func TestBasketGorm_Create_Conflict(t *testing.T) {
	gdb := newTestDB(t)
	u := seedUser(t, gdb, "a@example.com")
	r := NewBasketGormRepository(gdb)

	_, err := r.Create(ctx(), u.ID)
	require.NoError(t, err)

	_, err = r.Create(ctx(), u.ID)
	assert.ErrorIs(t, err, repo.ErrConflict)
}

func TestBasketGorm_FindByUserID_NotFound(t *testing.T) {
	gdb := newTestDB(t)
	r := NewBasketGormRepository(gdb)

	_, err := r.FindByUserID(ctx(), 999)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestBasketGorm_AddQuantity_Aggregates(t *testing.T) {
	gdb := newTestDB(t)
	u := seedUser(t, gdb, "a@example.com")
	d := seedDevice(t, gdb, "Phone", 1000)
	r := NewBasketGormRepository(gdb)

	b, err := r.GetOrCreateByUserID(ctx(), u.ID)
	require.NoError(t, err)

	item, err := r.AddQuantity(ctx(), b.ID, d.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), item.Quantity)
	require.NotNil(t, item.Device)
	assert.Equal(t, "Phone", item.Device.Name)

	item, err = r.AddQuantity(ctx(), b.ID, d.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), item.Quantity)

	items, err := r.ListByBasketID(ctx(), b.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(5), items[0].Quantity)
}

func TestBasketGorm_AddQuantity_UnknownDevice(t *testing.T) {
	gdb := newTestDB(t)
	u := seedUser(t, gdb, "a@example.com")
	r := NewBasketGormRepository(gdb)

	b, err := r.GetOrCreateByUserID(ctx(), u.ID)
	require.NoError(t, err)

	_, err = r.AddQuantity(ctx(), b.ID, 999, 1)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestBasketGorm_AddQuantity_InvalidQty(t *testing.T) {
	gdb := newTestDB(t)
	r := NewBasketGormRepository(gdb)

	_, err := r.AddQuantity(ctx(), 1, 1, 0)
	assert.Error(t, err)
}

func TestBasketGorm_AddQuantity_LostRaceAggregates(t *testing.T) {
	gdb := newTestDB(t)
	u := seedUser(t, gdb, "a@example.com")
	d := seedDevice(t, gdb, "Phone", 1000)
	r := NewBasketGormRepository(gdb)

	b, err := r.GetOrCreateByUserID(ctx(), u.ID)
	require.NoError(t, err)

	loseInsertRace(t, gdb, "basket_devices", func(tx *gorm.DB) error {
		now := time.Now()
		return tx.Exec(
			"INSERT INTO basket_devices (basket_id, device_id, quantity, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			b.ID, d.ID, 2, now, now,
		).Error
	})

	// 先に入った2に加算される
	item, err := r.AddQuantity(ctx(), b.ID, d.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), item.Quantity)

	items, err := r.ListByBasketID(ctx(), b.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(5), items[0].Quantity)
}

func TestBasketGorm_AddQuantity_Limit(t *testing.T) {
	gdb := newTestDB(t)
	u := seedUser(t, gdb, "a@example.com")
	d := seedDevice(t, gdb, "Phone", 1000)
	r := NewBasketGormRepository(gdb)

	b, err := r.GetOrCreateByUserID(ctx(), u.ID)
	require.NoError(t, err)

	_, err = r.AddQuantity(ctx(), b.ID, d.ID, math.MaxInt64)
	assert.ErrorIs(t, err, repo.ErrQuantityLimit)

	item, err := r.AddQuantity(ctx(), b.ID, d.ID, model.MaxBasketQuantity)
	require.NoError(t, err)
	assert.Equal(t, model.MaxBasketQuantity, item.Quantity)

	_, err = r.AddQuantity(ctx(), b.ID, d.ID, 1)
	assert.ErrorIs(t, err, repo.ErrQuantityLimit)

	item, err = r.FindByBasketAndDevice(ctx(), b.ID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MaxBasketQuantity, item.Quantity)
}

func TestBasketGorm_QuantityCheckConstraint(t *testing.T) {
	gdb := newTestDB(t)
	u := seedUser(t, gdb, "a@example.com")
	d := seedDevice(t, gdb, "Phone", 1000)
	r := NewBasketGormRepository(gdb)

	b, err := r.GetOrCreateByUserID(ctx(), u.ID)
	require.NoError(t, err)

	err = gdb.Create(&model.BasketDevice{BasketID: b.ID, DeviceID: d.ID, Quantity: 0}).Error
	assert.Error(t, err)
}

func TestBasketGorm_UpdateAndDelete(t *testing.T) {
	gdb := newTestDB(t)
	u := seedUser(t, gdb, "a@example.com")
	d1 := seedDevice(t, gdb, "Phone", 1000)
	d2 := seedDevice(t, gdb, "Laptop", 5000)
	r := NewBasketGormRepository(gdb)

	b, err := r.GetOrCreateByUserID(ctx(), u.ID)
	require.NoError(t, err)
	_, err = r.AddQuantity(ctx(), b.ID, d1.ID, 1)
	require.NoError(t, err)
	_, err = r.AddQuantity(ctx(), b.ID, d2.ID, 1)
	require.NoError(t, err)

	item, err := r.UpdateQuantity(ctx(), b.ID, d1.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), item.Quantity)

	_, err = r.UpdateQuantity(ctx(), b.ID, 12345, 1)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	require.NoError(t, r.DeleteByBasketAndDevice(ctx(), b.ID, d1.ID))
	assert.ErrorIs(t, r.DeleteByBasketAndDevice(ctx(), b.ID, d1.ID), repo.ErrNotFound)

	n, err := r.DeleteAllByBasketID(ctx(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = r.DeleteAllByBasketID(ctx(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestBasketGorm_DeviceDeleteCascades(t *testing.T) {
	gdb := newTestDB(t)
	u := seedUser(t, gdb, "a@example.com")
	d := seedDevice(t, gdb, "Phone", 1000)
	r := NewBasketGormRepository(gdb)
	devices := NewDeviceGormRepository(gdb)

	b, err := r.GetOrCreateByUserID(ctx(), u.ID)
	require.NoError(t, err)
	_, err = r.AddQuantity(ctx(), b.ID, d.ID, 1)
	require.NoError(t, err)

	require.NoError(t, devices.Delete(ctx(), d.ID))

	items, err := r.ListByBasketID(ctx(), b.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
