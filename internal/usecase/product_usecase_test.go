package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
	"marketplace/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// テスト用インメモリキャッシュ
type mapProductCache struct {
	byID map[int64]model.Product
}

func newMapCache() *mapProductCache {
	return &mapProductCache{byID: map[int64]model.Product{}}
}

func (c *mapProductCache) Get(ctx context.Context, id int64) (model.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

func (c *mapProductCache) Set(ctx context.Context, p model.Product) {
	c.byID[p.ID] = p
}

func (c *mapProductCache) Invalidate(ctx context.Context, id int64) {
	delete(c.byID, id)
}

func newProductUC(cache usecase.ProductCache) (*usecase.ProductUsecase, *ProductRepoMock, *InventoryRepoMock) {
	pRepo := new(ProductRepoMock)
	iRepo := new(InventoryRepoMock)
	return usecase.NewProductUsecase(pRepo, iRepo, cache), pRepo, iRepo
}

var vendor10 = model.Actor{UserID: 10, Role: model.RoleVendor}

func TestProduct_ListPublic_Defaults(t *testing.T) {
	uc, pRepo, _ := newProductUC(nil)

	q := repo.ProductListQuery{Page: 1, Limit: 20}
	pRepo.On("ListPublic", mock.Anything, q).
		Return([]model.Product{{ID: 1, Name: "Coffee", Price: 10000, SalePercent: 20, IsActive: true}}, int64(1), nil)

	out, err := uc.ListPublic(context.Background(), repo.ProductListQuery{Page: 0, Limit: 0})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)
	assert.Equal(t, int64(8000), out.Items[0].SalePrice)

	pRepo.AssertExpectations(t)
}

func TestProduct_GetPublicDetail_NotFoundWhenInactive(t *testing.T) {
	uc, pRepo, _ := newProductUC(nil)

	pRepo.On("FindByID", mock.Anything, int64(1)).
		Return(model.Product{ID: 1, IsActive: false}, nil)

	_, err := uc.GetPublicDetail(context.Background(), 1)
	assertHTTPStatus(t, err, http.StatusNotFound)
}

// 2回目はキャッシュから返る（DBは1回だけ）。
func TestProduct_GetPublicDetail_UsesCache(t *testing.T) {
	cache := newMapCache()
	uc, pRepo, _ := newProductUC(cache)

	pRepo.On("FindByID", mock.Anything, int64(1)).
		Return(model.Product{ID: 1, Name: "Coffee", Price: 100, IsActive: true}, nil).Once()

	_, err := uc.GetPublicDetail(context.Background(), 1)
	assert.NoError(t, err)

	out, err := uc.GetPublicDetail(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, "Coffee", out.Name)

	pRepo.AssertExpectations(t)
}

func TestProduct_Create_VendorOnly(t *testing.T) {
	uc, _, _ := newProductUC(nil)

	_, err := uc.Create(context.Background(), customer, usecase.ProductCreateInput{Name: "x", Price: 1})
	assertHTTPStatus(t, err, http.StatusForbidden)
}

func TestProduct_Create_Validation(t *testing.T) {
	uc, _, _ := newProductUC(nil)

	_, err := uc.Create(context.Background(), vendor10, usecase.ProductCreateInput{Name: " ", Price: 1})
	assertErrContains(t, err, "name is required")

	_, err = uc.Create(context.Background(), vendor10, usecase.ProductCreateInput{Name: "x", Price: 0})
	assertErrContains(t, err, "invalid price")

	_, err = uc.Create(context.Background(), vendor10, usecase.ProductCreateInput{Name: "x", Price: 1, SalePercent: 101})
	assertErrContains(t, err, "invalid sale_percent")
}

func TestProduct_Create_Success(t *testing.T) {
	uc, pRepo, _ := newProductUC(nil)

	pRepo.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.VendorID == 10 && p.Name == "Coffee" && p.Price == 10000
	})).Return(model.Product{ID: 1, VendorID: 10, Name: "Coffee", Price: 10000}, nil)

	out, err := uc.Create(context.Background(), vendor10, usecase.ProductCreateInput{
		Name:  " Coffee ",
		Price: 10000,
		Stock: 5,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.ID)

	pRepo.AssertExpectations(t)
}

// 他ベンダーの商品は「存在しない扱い」。
func TestProduct_Update_ForeignProductHidden(t *testing.T) {
	uc, pRepo, _ := newProductUC(nil)

	pRepo.On("FindByID", mock.Anything, int64(1)).
		Return(model.Product{ID: 1, VendorID: 99}, nil)

	_, err := uc.Update(context.Background(), vendor10, 1, usecase.ProductUpdateInput{Name: "x", Price: 1})
	assertHTTPStatus(t, err, http.StatusNotFound)

	pRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// 更新でキャッシュが消える。
func TestProduct_Update_InvalidatesCache(t *testing.T) {
	cache := newMapCache()
	cache.Set(context.Background(), model.Product{ID: 1, Name: "Old", IsActive: true})

	uc, pRepo, _ := newProductUC(cache)

	pRepo.On("FindByID", mock.Anything, int64(1)).
		Return(model.Product{ID: 1, VendorID: 10, Name: "Old", Price: 100, IsActive: true}, nil)
	pRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	_, err := uc.Update(context.Background(), vendor10, 1, usecase.ProductUpdateInput{Name: "New", Price: 200, IsActive: true})
	assert.NoError(t, err)

	_, ok := cache.Get(context.Background(), 1)
	assert.False(t, ok)
}

func TestProduct_SetStock_WritesAdjustment(t *testing.T) {
	uc, pRepo, iRepo := newProductUC(nil)

	pRepo.On("FindByID", mock.Anything, int64(1)).
		Return(model.Product{ID: 1, VendorID: 10, Stock: 5}, nil)
	iRepo.On("SetStock", mock.Anything, int64(1), int64(12)).Return(nil)
	iRepo.On("CreateAdjustment", mock.Anything, mock.MatchedBy(func(adj model.InventoryAdjustment) bool {
		return adj.ProductID == 1 && adj.ActorUserID == 10 &&
			adj.Delta == 7 && adj.Reason == model.AdjustmentReasonVendorSet
	})).Return(nil)

	err := uc.SetStock(context.Background(), vendor10, 1, 12)
	assert.NoError(t, err)

	iRepo.AssertExpectations(t)
}

func TestProduct_SetStock_NegativeRejected(t *testing.T) {
	uc, _, _ := newProductUC(nil)

	err := uc.SetStock(context.Background(), vendor10, 1, -1)
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestProduct_Delete_ForeignProductHidden(t *testing.T) {
	uc, pRepo, _ := newProductUC(nil)

	pRepo.On("FindByID", mock.Anything, int64(1)).
		Return(model.Product{ID: 1, VendorID: 99}, nil)

	err := uc.Delete(context.Background(), vendor10, 1)
	assertHTTPStatus(t, err, http.StatusNotFound)

	pRepo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
}
