package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type HubRepository interface {
	List(ctx context.Context) ([]model.DistributionHub, error)
	FindByID(ctx context.Context, id int64) (model.DistributionHub, error)
	Create(ctx context.Context, hub model.DistributionHub) (model.DistributionHub, error)
	Count(ctx context.Context) (int64, error)
}
