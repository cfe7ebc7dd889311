package model

import "time"

const (
	AdjustmentReasonOrderCanceled = "ORDER_CANCELED"
	AdjustmentReasonVendorSet     = "VENDOR_SET"
)

// 在庫の増減履歴。キャンセル戻しとベンダーの手動設定で作る。
type InventoryAdjustment struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID   int64     `gorm:"not null;index" json:"product_id"`
	ActorUserID int64     `gorm:"not null" json:"actor_user_id"`
	Delta       int64     `gorm:"not null" json:"delta"`
	Reason      string    `gorm:"type:varchar(100);not null" json:"reason"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
