package db

import (
	"context"
	"errors"
	"strings"

	"onlinestore/internal/domain/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
}

var (
	seedTypes  = []string{"Smartphones", "Laptops", "TVs", "Headphones"}
	seedBrands = []model.Brand{
		{Name: "Apple", Country: strPtr("USA")},
		{Name: "Samsung", Country: strPtr("South Korea")},
		{Name: "Xiaomi", Country: strPtr("China")},
		{Name: "Lenovo", Country: strPtr("China")},
	}
)

// Seed は初期データを入れる。何度実行しても同じ状態になる。
func Seed(ctx context.Context, gdb *gorm.DB, opt SeedOptions) error {
	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range seedTypes {
			t := model.Type{Name: name}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&t).Error; err != nil {
				return err
			}
		}

		for _, b := range seedBrands {
			b := b
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&b).Error; err != nil {
				return err
			}
		}

		return seedAdmin(tx, opt)
	})
}

// 管理者アカウントとそのバスケット
func seedAdmin(tx *gorm.DB, opt SeedOptions) error {
	email := strings.ToLower(strings.TrimSpace(opt.AdminEmail))
	if email == "" || opt.AdminPassword == "" {
		return nil
	}

	var u model.User
	err := tx.Where("email = ?", email).First(&u).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(opt.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u = model.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}
	if err := tx.Create(&u).Error; err != nil {
		return err
	}

	return tx.Create(&model.Basket{UserID: u.ID}).Error
}

func strPtr(s string) *string { return &s }
