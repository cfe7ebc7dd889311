package usecase

import "github.com/shopspring/decimal"

// UnitPriceAtPurchase はセール適用後の確定単価（最小通貨単位）。
// 割引計算だけdecimalで行い、最小単位に四捨五入して戻す。
func UnitPriceAtPurchase(price int64, salePercent int64) int64 {
	if salePercent <= 0 {
		return price
	}
	if salePercent >= 100 {
		return 0
	}

	discounted := decimal.NewFromInt(price).
		Mul(decimal.NewFromInt(100 - salePercent)).
		Div(decimal.NewFromInt(100))

	return discounted.Round(0).IntPart()
}
