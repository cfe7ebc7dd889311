package model

import "time"

const (
	AuditActionChangeOrderStatus = "CHANGE_ORDER_STATUS"

	AuditResourceOrder = "ORDER"
)

// 状態遷移の監査ログ（誰が・どの注文を・何から何へ）
type AuditLog struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorUserID  int64     `gorm:"not null;index" json:"actor_user_id"`
	Action       string    `gorm:"type:varchar(100);not null" json:"action"`
	ResourceType string    `gorm:"type:varchar(50);not null" json:"resource_type"`
	ResourceID   int64     `gorm:"not null;index" json:"resource_id"`
	BeforeJSON   string    `gorm:"type:text" json:"before_json"`
	AfterJSON    string    `gorm:"type:text" json:"after_json"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
