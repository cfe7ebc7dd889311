package usecase

import (
	"context"
	"net/http"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

// CartUsecase は /cart の業務ロジック。顧客専用。
// 在庫チェックはここではしない。引き当ては注文作成時の1点だけ。
type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

// 表示用の商品。消えた商品の明細は Product が null になる。
// 受け取り側は必ずnilを見ること。
type CartProductView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	SalePercent int64  `json:"sale_percent"`
	SalePrice   int64  `json:"sale_price"`
	Stock       int64  `json:"stock"`
	ImageURL    string `json:"image_url"`
}

type CartItemResponse struct {
	ProductID int64            `json:"product_id"`
	Quantity  int64            `json:"quantity"`
	Product   *CartProductView `json:"product"`
	Subtotal  int64            `json:"subtotal"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total int64              `json:"total"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

type SetQuantityInput struct {
	ProductID int64
	Quantity  int64
}

func (u *CartUsecase) requireCustomer(actor model.Actor) error {
	if actor.UserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if actor.Role != model.RoleCustomer {
		return NewHTTPError(http.StatusForbidden, "customer only")
	}
	return nil
}

// GetCart はカート取得（無ければACTIVEを作って空を返す）。
func (u *CartUsecase) GetCart(ctx context.Context, actor model.Actor) (CartResponse, error) {
	if err := u.requireCustomer(actor); err != nil {
		return CartResponse{}, err
	}

	cart, err := u.cartRepo.GetOrCreateActiveByCustomerID(ctx, actor.UserID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// AddToCart はカートに追加（同一商品は数量加算）。
func (u *CartUsecase) AddToCart(ctx context.Context, actor model.Actor, in AddCartInput) (CartResponse, error) {
	if err := u.requireCustomer(actor); err != nil {
		return CartResponse{}, err
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	cart, err := u.cartRepo.GetOrCreateActiveByCustomerID(ctx, actor.UserID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// 商品チェック（公開のみ）
	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "product not available")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "product not available")
	}

	if err := u.cartItemRepo.AddQuantity(ctx, cart.ID, in.ProductID, in.Quantity); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// SetQuantity は数量の上書き。0は削除と同じ。
func (u *CartUsecase) SetQuantity(ctx context.Context, actor model.Actor, in SetQuantityInput) (CartResponse, error) {
	if err := u.requireCustomer(actor); err != nil {
		return CartResponse{}, err
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	cart, err := u.cartRepo.GetOrCreateActiveByCustomerID(ctx, actor.UserID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if in.Quantity == 0 {
		//0は明細削除。元々無くても成功扱い
		if err := u.cartItemRepo.DeleteByCartAndProduct(ctx, cart.ID, in.ProductID); err != nil && err != repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return u.buildCartResponse(ctx, cart.ID)
	}

	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "product not available")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "product not available")
	}

	if err := u.cartItemRepo.SetQuantity(ctx, cart.ID, in.ProductID, in.Quantity); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// RemoveItem は明細削除。無くても成功扱い。
func (u *CartUsecase) RemoveItem(ctx context.Context, actor model.Actor, productID int64) (CartResponse, error) {
	if err := u.requireCustomer(actor); err != nil {
		return CartResponse{}, err
	}
	if productID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	cart, err := u.cartRepo.GetOrCreateActiveByCustomerID(ctx, actor.UserID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cartItemRepo.DeleteByCartAndProduct(ctx, cart.ID, productID); err != nil && err != repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// 明細と現在の商品をjoinして返す。
// 削除済み・非公開の商品は Product=nil で返し、合計からは除く。
func (u *CartUsecase) buildCartResponse(ctx context.Context, cartID int64) (CartResponse, error) {
	items, err := u.cartItemRepo.ListByCartID(ctx, cartID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := CartResponse{Items: make([]CartItemResponse, 0, len(items))}
	for _, it := range items {
		view := CartItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		}

		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if err != nil && err != repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err == nil && p.IsActive {
			salePrice := UnitPriceAtPurchase(p.Price, p.SalePercent)
			view.Product = &CartProductView{
				ID:          p.ID,
				Name:        p.Name,
				Price:       p.Price,
				SalePercent: p.SalePercent,
				SalePrice:   salePrice,
				Stock:       p.Stock,
				ImageURL:    p.ImageURL,
			}
			view.Subtotal = salePrice * it.Quantity
			out.Total += view.Subtotal
		}

		out.Items = append(out.Items, view)
	}

	return out, nil
}
