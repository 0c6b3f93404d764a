package db

import (
	"onlinestore/internal/domain/model"

	"gorm.io/gorm"
)

// 参照される側から順に並べる
func models() []any {
	return []any{
		&model.User{},
		&model.Type{},
		&model.Brand{},
		&model.Device{},
		&model.DeviceInfo{},
		&model.Basket{},
		&model.BasketDevice{},
		&model.Rating{},
	}
}

// Migrate はテーブルを作成/更新する
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(models()...)
}
