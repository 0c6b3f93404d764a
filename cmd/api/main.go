package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"onlinestore/internal/cache"
	"onlinestore/internal/config"
	"onlinestore/internal/handler"
	"onlinestore/internal/infra/db"
	infraRepo "onlinestore/internal/infra/repository"
	"onlinestore/internal/infra/storage"
	"onlinestore/internal/server"
	"onlinestore/internal/usecase"
	"onlinestore/internal/validator"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

func main() {
	logger := log.New("api")

	//.env は無くてもよい
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warnf("load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	logger.SetLevel(server.ParseLevel(cfg.LogLevel))

	//DB接続
	gormDB, err := db.Connect(cfg.DatabaseURL, cfg.DBDebug)
	if err != nil {
		logger.Fatalf("db connect: %v", err)
	}
	defer func() { _ = db.Close(gormDB) }()

	if err := db.Migrate(gormDB); err != nil {
		logger.Fatalf("db migrate: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DBSeed {
		if err := db.Seed(ctx, gormDB, db.SeedOptions{
			AdminEmail:    cfg.AdminEmail,
			AdminPassword: cfg.AdminPassword,
		}); err != nil {
			logger.Fatalf("db seed: %v", err)
		}
		logger.Info("seed done")
	}

	//キャッシュ
	store, err := newCacheStore(cfg)
	if err != nil {
		logger.Fatalf("cache: %v", err)
	}
	c := cache.New(store, cfg.CacheTTL, cache.WithLogger(logger))

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	basketRepo := infraRepo.NewBasketGormRepository(gormDB)
	deviceRepo := infraRepo.NewDeviceGormRepository(gormDB)
	typeRepo := infraRepo.NewTypeGormRepository(gormDB)
	brandRepo := infraRepo.NewBrandGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase生成
	userUC := usecase.NewUserUsecase(userRepo, txm, validator.NewAuthValidator(), usecase.UserUsecaseConfig{
		Secret:   cfg.SecretKey,
		TokenTTL: cfg.TokenTTL,
	})
	typeUC := usecase.NewTypeUsecase(typeRepo, c)
	brandUC := usecase.NewBrandUsecase(brandRepo, c)
	deviceUC := usecase.NewDeviceUsecase(deviceRepo, typeRepo, brandRepo, txm, c, cfg.StaticURLPrefix)
	basketUC := usecase.NewBasketUsecase(basketRepo, basketRepo, deviceRepo, cfg.StaticURLPrefix)
	images := storage.NewLocalImageStore(cfg.StaticDir)

	//Server起動
	e := server.New(cfg)
	server.RegisterRoutes(e, cfg, userRepo, server.Handlers{
		User:   handler.NewUserHandler(userUC, cfg.CookieSecure),
		Type:   handler.NewTypeHandler(typeUC),
		Brand:  handler.NewBrandHandler(brandUC),
		Device: handler.NewDeviceHandler(deviceUC, images),
		Basket: handler.NewBasketHandler(basketUC),
		Health: handler.NewHealthHandler(c),
	})

	if err := server.Start(ctx, e, ":"+cfg.Port); err != nil {
		logger.Errorf("server: %v", err)
	}
}

func newCacheStore(cfg config.Config) (cache.Store, error) {
	if cfg.CacheDriver == "redis" {
		client, err := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		return cache.NewRedisStore(client, cfg.RedisNamespace), nil
	}
	return cache.NewMemoryStore(cfg.CacheMaxEntries, cfg.CacheMaxBytes)
}
