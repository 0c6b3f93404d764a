package model

import "time"

// 1ユーザーにつき1つ（登録時か初回アクセス時に作る）
type Basket struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64          `gorm:"not null;uniqueIndex" json:"userId"`
	User      *User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Devices   []BasketDevice `gorm:"foreignKey:BasketID;constraint:OnDelete:CASCADE" json:"devices"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
