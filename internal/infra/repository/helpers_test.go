package repository

import (
	"context"
	"testing"

	"onlinestore/internal/domain/model"
	"onlinestore/internal/infra/db"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// テストごとにメモリ上のSQLiteを用意する
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// :memory: は接続ごとに別DBになる
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gdb.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.Migrate(gdb))

	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, email string) model.User {
	t.Helper()
	u := model.User{Email: email, PasswordHash: "x", Role: model.RoleUser}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}

func seedDevice(t *testing.T, gdb *gorm.DB, name string, price int64) model.Device {
	t.Helper()
	d := model.Device{Name: name, Price: price, Img: name + ".jpg"}
	require.NoError(t, gdb.Create(&d).Error)
	return d
}

func ctx() context.Context { return context.Background() }
