package model

import "time"

// 配送ハブ。静的な参照データで、注文は作成時に必ず1つ割り当てられる。
type DistributionHub struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Location  string    `gorm:"type:varchar(255);not null" json:"location"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
