package repository

import (
	"context"

	"marketplace/internal/domain/model"
)

// 明細は (cart, product) で一意。キーもそれで引く。
type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	// 同一商品はプラス
	AddQuantity(ctx context.Context, cartID int64, productID int64, addQty int64) error
	// 数量を上書き（行が無ければ作る）
	SetQuantity(ctx context.Context, cartID int64, productID int64, qty int64) error
	DeleteByCartAndProduct(ctx context.Context, cartID int64, productID int64) error
}
