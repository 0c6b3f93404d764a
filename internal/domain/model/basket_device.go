package model

import "time"

// 明細1件あたりの数量上限
const MaxBasketQuantity int64 = 10000

// バスケットの明細
// (basket_id, device_id) は一意。同じデバイスの追加は数量を加算する。
type BasketDevice struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BasketID  int64     `gorm:"not null;uniqueIndex:idx_basket_devices_basket_device" json:"basketId"`
	DeviceID  int64     `gorm:"not null;uniqueIndex:idx_basket_devices_basket_device;index" json:"deviceId"`
	Quantity  int64     `gorm:"not null;check:chk_basket_devices_quantity,quantity > 0" json:"quantity"`
	Device    *Device   `gorm:"foreignKey:DeviceID;constraint:OnDelete:CASCADE" json:"device,omitempty"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
