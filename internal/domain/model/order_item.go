package model

import "time"

// UnitPriceSnapshot は注文作成時点の確定単価（セール適用後）。
// 以後、商品の価格が変わっても再計算しない。
type OrderItem struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID             int64     `gorm:"not null;index" json:"order_id"`
	ProductID           int64     `gorm:"not null;index" json:"product_id"`
	ProductNameSnapshot string    `gorm:"type:varchar(255);not null" json:"product_name_snapshot"`
	ImageURLSnapshot    string    `gorm:"type:varchar(512)" json:"image_url_snapshot"`
	UnitPriceSnapshot   int64     `gorm:"not null" json:"unit_price_snapshot"`
	Quantity            int64     `gorm:"not null" json:"quantity"`
	CreatedAt           time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// 小計は保存せず導出する
func (it OrderItem) Subtotal() int64 {
	return it.UnitPriceSnapshot * it.Quantity
}
