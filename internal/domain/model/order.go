package model

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusActive    OrderStatus = "ACTIVE"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
)

// DELIVERED / CANCELED は終端。以後の遷移は不可。
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCanceled
}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusActive, OrderStatusDelivered, OrderStatusCanceled:
		return OrderStatus(s), true
	}
	return "", false
}

// 遷移表。飛ばし遷移・終端からの遷移は全部false。
func CanTransition(from OrderStatus, to OrderStatus) bool {
	switch from {
	case OrderStatusPending:
		return to == OrderStatusActive || to == OrderStatusCanceled
	case OrderStatusActive:
		return to == OrderStatusDelivered || to == OrderStatusCanceled
	}
	return false
}

// 注文は必ずベンダー1社。複数ベンダーのカートは注文作成時に分割する。
type Order struct {
	ID         int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Reference  string      `gorm:"type:varchar(64);not null;uniqueIndex" json:"reference"`
	CustomerID int64       `gorm:"not null;index;uniqueIndex:uidx_orders_idem,priority:1" json:"customer_id"`
	VendorID   int64       `gorm:"not null;index;uniqueIndex:uidx_orders_idem,priority:3" json:"vendor_id"`
	HubID      int64       `gorm:"not null;index" json:"hub_id"`
	Status     OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	//明細の小計の合計と常に一致させる
	TotalPrice     int64     `gorm:"not null" json:"total_price"`
	CancelReason   string    `gorm:"type:varchar(500)" json:"cancel_reason,omitempty"`
	IdempotencyKey string    `gorm:"type:varchar(255);not null;uniqueIndex:uidx_orders_idem,priority:2" json:"-"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
