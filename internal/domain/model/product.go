package model

import (
	"time"

	"gorm.io/gorm"
)

// Price は通貨の最小単位（セント）で持つ。
// SalePercent が 0 より大きい間は割引販売中。
type Product struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	VendorID    int64          `gorm:"not null;index" json:"vendor_id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Price       int64          `gorm:"not null" json:"price"`
	SalePercent int64          `gorm:"not null;default:0" json:"sale_percent"`
	Stock       int64          `gorm:"not null" json:"stock"`
	ImageURL    string         `gorm:"type:varchar(512)" json:"image_url"`
	IsActive    bool           `gorm:"not null;default:false" json:"is_active"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
