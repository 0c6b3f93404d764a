package model

import "time"

// 1ユーザー1デバイスにつき1件（一意インデックスで保証）
type Rating struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_ratings_user_device" json:"userId"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	DeviceID  int64     `gorm:"not null;uniqueIndex:idx_ratings_user_device;index" json:"deviceId"`
	Device    *Device   `gorm:"foreignKey:DeviceID;constraint:OnDelete:CASCADE" json:"-"`
	Rate      int       `gorm:"not null" json:"rate"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
}
