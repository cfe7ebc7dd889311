package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

// usecase層の失敗は全部これで返す。
// handlerはStatusをそのままHTTPステータスにする。
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 商品詳細キャッシュの約束。実装はinfra/cache。
type ProductCache interface {
	Get(ctx context.Context, id int64) (model.Product, bool)
	Set(ctx context.Context, p model.Product)
	Invalidate(ctx context.Context, id int64)
}

type ProductUsecase struct {
	productRepo   repo.ProductRepository
	inventoryRepo repo.InventoryRepository
	cache         ProductCache
}

// DI。cacheはnilでも動く（キャッシュなし）。
func NewProductUsecase(
	productRepo repo.ProductRepository,
	inventoryRepo repo.InventoryRepository,
	cache ProductCache,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		cache:         cache,
	}
}

// SalePrice は現在の割引後価格（表示用）。
type ProductResponse struct {
	ID          int64  `json:"id"`
	VendorID    int64  `json:"vendor_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	SalePercent int64  `json:"sale_percent"`
	SalePrice   int64  `json:"sale_price"`
	Stock       int64  `json:"stock"`
	ImageURL    string `json:"image_url"`
	IsActive    bool   `json:"is_active"`
}

type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type ProductCreateInput struct {
	Name        string
	Description string
	Price       int64
	SalePercent int64
	Stock       int64
	ImageURL    string
	IsActive    bool
}

type ProductUpdateInput struct {
	Name        string
	Description string
	Price       int64
	SalePercent int64
	ImageURL    string
	IsActive    bool
}

func toProductResponse(p model.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		VendorID:    p.VendorID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		SalePercent: p.SalePercent,
		SalePrice:   UnitPriceAtPurchase(p.Price, p.SalePercent),
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		IsActive:    p.IsActive,
	}
}

// 公開一覧
func (u *ProductUsecase) ListPublic(ctx context.Context, q repo.ProductListQuery) (ProductListResponse, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}

	products, total, err := u.productRepo.ListPublic(ctx, q)
	if err != nil {
		return ProductListResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, toProductResponse(p))
	}

	return ProductListResponse{Items: items, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

// 公開詳細。キャッシュ: get→DB→set
func (u *ProductUsecase) GetPublicDetail(ctx context.Context, id int64) (ProductResponse, error) {
	if id <= 0 {
		return ProductResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if u.cache != nil {
		if p, ok := u.cache.Get(ctx, id); ok {
			if !p.IsActive {
				return ProductResponse{}, NewHTTPError(http.StatusNotFound, "not found")
			}
			return toProductResponse(p), nil
		}
	}

	p, err := u.productRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return ProductResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ProductResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return ProductResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	if u.cache != nil {
		u.cache.Set(ctx, p)
	}
	return toProductResponse(p), nil
}

// ベンダー自身の一覧（非公開も含む）
func (u *ProductUsecase) ListMine(ctx context.Context, actor model.Actor) ([]ProductResponse, error) {
	if actor.Role != model.RoleVendor {
		return nil, NewHTTPError(http.StatusForbidden, "vendor only")
	}

	products, err := u.productRepo.ListByVendorID(ctx, actor.UserID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, toProductResponse(p))
	}
	return items, nil
}

func validateProductFields(name string, price int64, salePercent int64) error {
	if strings.TrimSpace(name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if price <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid price")
	}
	if salePercent < 0 || salePercent > 100 {
		return NewHTTPError(http.StatusBadRequest, "invalid sale_percent")
	}
	return nil
}

func (u *ProductUsecase) Create(ctx context.Context, actor model.Actor, in ProductCreateInput) (ProductResponse, error) {
	if actor.Role != model.RoleVendor {
		return ProductResponse{}, NewHTTPError(http.StatusForbidden, "vendor only")
	}
	if err := validateProductFields(in.Name, in.Price, in.SalePercent); err != nil {
		return ProductResponse{}, err
	}
	if in.Stock < 0 {
		return ProductResponse{}, NewHTTPError(http.StatusBadRequest, "invalid stock")
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		VendorID:    actor.UserID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		SalePercent: in.SalePercent,
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
		IsActive:    in.IsActive,
	})
	if err != nil {
		return ProductResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toProductResponse(p), nil
}

// 自分の商品だけ更新できる。他人のは「存在しない扱い」。
func (u *ProductUsecase) Update(ctx context.Context, actor model.Actor, id int64, in ProductUpdateInput) (ProductResponse, error) {
	if actor.Role != model.RoleVendor {
		return ProductResponse{}, NewHTTPError(http.StatusForbidden, "vendor only")
	}
	if id <= 0 {
		return ProductResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := validateProductFields(in.Name, in.Price, in.SalePercent); err != nil {
		return ProductResponse{}, err
	}

	p, err := u.productRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return ProductResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ProductResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if p.VendorID != actor.UserID {
		return ProductResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Price = in.Price
	p.SalePercent = in.SalePercent
	p.ImageURL = in.ImageURL
	p.IsActive = in.IsActive

	if err := u.productRepo.Update(ctx, p); err != nil {
		if err == repo.ErrNotFound {
			return ProductResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return ProductResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if u.cache != nil {
		u.cache.Invalidate(ctx, id)
	}
	return toProductResponse(p), nil
}

func (u *ProductUsecase) Delete(ctx context.Context, actor model.Actor, id int64) error {
	if actor.Role != model.RoleVendor {
		return NewHTTPError(http.StatusForbidden, "vendor only")
	}
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.productRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if p.VendorID != actor.UserID {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.productRepo.SoftDelete(ctx, id); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if u.cache != nil {
		u.cache.Invalidate(ctx, id)
	}
	return nil
}

// 在庫の手動設定（調整履歴付き）
func (u *ProductUsecase) SetStock(ctx context.Context, actor model.Actor, id int64, newStock int64) error {
	if actor.Role != model.RoleVendor {
		return NewHTTPError(http.StatusForbidden, "vendor only")
	}
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if newStock < 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid stock")
	}

	p, err := u.productRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if p.VendorID != actor.UserID {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.inventoryRepo.SetStock(ctx, id, newStock); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.inventoryRepo.CreateAdjustment(ctx, model.InventoryAdjustment{
		ProductID:   id,
		ActorUserID: actor.UserID,
		Delta:       newStock - p.Stock,
		Reason:      model.AdjustmentReasonVendorSet,
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if u.cache != nil {
		u.cache.Invalidate(ctx, id)
	}
	return nil
}
