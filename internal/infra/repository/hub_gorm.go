package repository

import (
	"context"
	"errors"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"gorm.io/gorm"
)

type HubGormRepository struct {
	db *gorm.DB
}

func NewHubGormRepository(db *gorm.DB) *HubGormRepository {
	return &HubGormRepository{db: db}
}

func (r *HubGormRepository) List(ctx context.Context) ([]model.DistributionHub, error) {
	var hubs []model.DistributionHub
	if err := r.db.WithContext(ctx).Order("id asc").Find(&hubs).Error; err != nil {
		return []model.DistributionHub{}, err
	}
	return hubs, nil
}

func (r *HubGormRepository) FindByID(ctx context.Context, id int64) (model.DistributionHub, error) {
	var h model.DistributionHub
	err := r.db.WithContext(ctx).First(&h, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.DistributionHub{}, repo.ErrNotFound
	}
	if err != nil {
		return model.DistributionHub{}, err
	}
	return h, nil
}

func (r *HubGormRepository) Create(ctx context.Context, hub model.DistributionHub) (model.DistributionHub, error) {
	if err := r.db.WithContext(ctx).Create(&hub).Error; err != nil {
		return model.DistributionHub{}, err
	}
	return hub, nil
}

func (r *HubGormRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.DistributionHub{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
