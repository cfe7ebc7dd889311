package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByCustomerID(ctx context.Context, customerID int64, page int, limit int) ([]model.Order, int64, error)
	ListByVendorID(ctx context.Context, vendorID int64, page int, limit int) ([]model.Order, int64, error)
	// シッパー画面は自ハブのACTIVEのみ
	ListActiveByHubID(ctx context.Context, hubID int64, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)

	// 期待する現在ステータス付きの条件付き更新。
	// 合わなければ false（誰かが先に遷移させた）。
	UpdateStatusIf(ctx context.Context, orderID int64, from model.OrderStatus, to model.OrderStatus, cancelReason string) (bool, error)

	// 同じキーなら同じ注文一式を返す（分割されるので複数）
	ListByIdempotencyKey(ctx context.Context, customerID int64, key string) ([]model.Order, error)
}

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
}
