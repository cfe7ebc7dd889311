package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	ListByResource(ctx context.Context, resourceType string, resourceID int64) ([]model.AuditLog, error)
}
