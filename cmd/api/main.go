package main

import (
	"context"

	"marketplace/internal/config"
	"marketplace/internal/handler"
	"marketplace/internal/infra/cache"
	"marketplace/internal/infra/db"
	infraRepo "marketplace/internal/infra/repository"
	"marketplace/internal/server"
	"marketplace/internal/usecase"
	"marketplace/internal/validator"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type uuidReferenceGenerator struct{}

func (uuidReferenceGenerator) NewReference() string {
	return uuid.NewString()
}

func main() {
	//.envはローカル用。なければ環境変数だけで動く
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	var logger *zap.Logger
	if cfg.GoEnv == "prod" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Fatal("migrate failed", zap.Error(err))
	}

	//Redisは任意。未設定ならキャッシュなしで動く
	var productCache *cache.ProductCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		productCache = cache.NewProductCache(rdb)
		logger.Info("product cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	hubRepo := infraRepo.NewHubGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	if err := db.SeedHubs(context.Background(), hubRepo); err != nil {
		logger.Fatal("seed hubs failed", zap.Error(err))
	}

	//Usecase生成
	authValidator := validator.NewAuthValidator(userRepo, hubRepo)
	authUC := usecase.NewAuthUsecase(cfg, userRepo, authValidator)
	productUC := usecase.NewProductUsecase(productRepo, inventoryRepo, productCache)
	cartUC := usecase.NewCartUsecase(cartRepo, cartItemRepo, productRepo)
	orderUC := usecase.NewOrderUsecase(txManager, uuidReferenceGenerator{}, usecase.RandomHubPicker{})
	orderStatusUC := usecase.NewOrderStatusUsecase(txManager)
	hubUC := usecase.NewHubUsecase(hubRepo)

	//Handler生成
	h := server.Handlers{
		Auth:          handler.NewAuthHandler(authUC),
		Product:       handler.NewProductHandler(productUC),
		VendorProduct: handler.NewVendorProductHandler(productUC),
		Cart:          handler.NewCartHandler(cartUC),
		Order:         handler.NewOrderHandler(orderUC, orderStatusUC),
		Hub:           handler.NewHubHandler(hubUC),
	}

	//Server起動
	if err := server.Start(cfg, logger, h); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
