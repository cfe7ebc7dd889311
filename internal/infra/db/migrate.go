package db

import (
	"context"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"gorm.io/gorm"
)

// Migrate はスキーマを揃える。
func Migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&model.User{},
		&model.DistributionHub{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.InventoryAdjustment{},
		&model.AuditLog{},
	)
}

// SeedHubs はハブが空のときだけ初期データを入れる。
// 注文は必ずどこかのハブに割り当てるので、最低1件は必要。
func SeedHubs(ctx context.Context, hubs repo.HubRepository) error {
	count, err := hubs.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []model.DistributionHub{
		{Name: "Central Hub", Location: "1 Warehouse Way"},
		{Name: "North Hub", Location: "22 Depot Street"},
		{Name: "South Hub", Location: "9 Freight Avenue"},
	}
	for _, h := range defaults {
		if _, err := hubs.Create(ctx, h); err != nil {
			return err
		}
	}
	return nil
}
