package model

import "time"

// priceは最小通貨単位
type Device struct {
	ID        int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string       `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Price     int64        `gorm:"not null" json:"price"`
	Rating    float64      `gorm:"not null;default:0" json:"rating"`
	Img       string       `gorm:"type:varchar(255);not null" json:"img"`
	TypeID    *int64       `gorm:"index" json:"typeId"`
	Type      *Type        `gorm:"foreignKey:TypeID;constraint:OnDelete:SET NULL" json:"-"`
	BrandID   *int64       `gorm:"index" json:"brandId"`
	Brand     *Brand       `gorm:"foreignKey:BrandID;constraint:OnDelete:SET NULL" json:"-"`
	Info      []DeviceInfo `gorm:"foreignKey:DeviceID;constraint:OnDelete:CASCADE" json:"info"`
	CreatedAt time.Time    `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time    `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// 特性（タイトルと説明）。IDの昇順が表示順。
type DeviceInfo struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	DeviceID    int64  `gorm:"not null;index" json:"deviceId"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:varchar(255);not null" json:"description"`
}
