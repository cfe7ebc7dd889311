package model

import "time"

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleVendor   Role = "VENDOR"
	RoleShipper  Role = "SHIPPER"
)

// ProfileName は役割ごとに意味が変わる
// （CUSTOMER=氏名 / VENDOR=店舗名 / SHIPPER=配送員名）
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;not null"`
	Role         Role   `gorm:"type:varchar(20);not null"`
	ProfileName  string `gorm:"type:varchar(255);not null"`
	Address      string `gorm:"type:varchar(255)"`
	//SHIPPERのみ。所属ハブ
	HubID        *int64 `gorm:"index"`
	TokenVersion int    `gorm:"not null;default:0"`
	IsActive     bool   `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
