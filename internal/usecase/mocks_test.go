package usecase_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
	"marketplace/internal/usecase"

	"github.com/stretchr/testify/mock"
)

// =====================
// 共通ヘルパー
// =====================

func assertErrContains(t *testing.T, err error, substr string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error containing %q, got nil", substr)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Fatalf("expected error containing %q, got %q", substr, err.Error())
	}
}

func assertHTTPStatus(t *testing.T, err error, status int) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if he.Status != status {
		t.Fatalf("expected status %d, got %d (%s)", status, he.Status, he.Message)
	}
}

// 採番を決定的にする
type seqRefGen struct{ n int }

func (g *seqRefGen) NewReference() string {
	g.n++
	return fmt.Sprintf("ref-%d", g.n)
}

// 先頭のハブを選ぶ（テストではランダム性を消す）
type firstHubPicker struct{}

func (firstHubPicker) Pick(hubs []model.DistributionHub) model.DistributionHub {
	return hubs[0]
}

// =====================
// Mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByCustomerID(ctx context.Context, customerID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, customerID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) ListByVendorID(ctx context.Context, vendorID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, vendorID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) ListActiveByHubID(ctx context.Context, hubID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, hubID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatusIf(ctx context.Context, orderID int64, from model.OrderStatus, to model.OrderStatus, cancelReason string) (bool, error) {
	args := m.Called(ctx, orderID, from, to, cancelReason)
	return args.Bool(0), args.Error(1)
}

func (m *OrderRepoMock) ListByIdempotencyKey(ctx context.Context, customerID int64, key string) ([]model.Order, error) {
	args := m.Called(ctx, customerID, key)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateActiveByCustomerID(ctx context.Context, customerID int64) (model.Cart, error) {
	args := m.Called(ctx, customerID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindActiveByCustomerID(ctx context.Context, customerID int64) (model.Cart, error) {
	args := m.Called(ctx, customerID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error {
	args := m.Called(ctx, cartID, status)
	return args.Error(0)
}

func (m *CartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) AddQuantity(ctx context.Context, cartID int64, productID int64, addQty int64) error {
	args := m.Called(ctx, cartID, productID, addQty)
	return args.Error(0)
}

func (m *CartItemRepoMock) SetQuantity(ctx context.Context, cartID int64, productID int64, qty int64) error {
	args := m.Called(ctx, cartID, productID, qty)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByCartAndProduct(ctx context.Context, cartID int64, productID int64) error {
	args := m.Called(ctx, cartID, productID)
	return args.Error(0)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) SetStock(ctx context.Context, productID int64, newStock int64) error {
	args := m.Called(ctx, productID, newStock)
	return args.Error(0)
}

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

func (m *InventoryRepoMock) CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) ListByVendorID(ctx context.Context, vendorID int64) ([]model.Product, error) {
	args := m.Called(ctx, vendorID)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type HubRepoMock struct{ mock.Mock }

func (m *HubRepoMock) List(ctx context.Context) ([]model.DistributionHub, error) {
	args := m.Called(ctx)
	hubs, _ := args.Get(0).([]model.DistributionHub)
	return hubs, args.Error(1)
}

func (m *HubRepoMock) FindByID(ctx context.Context, id int64) (model.DistributionHub, error) {
	args := m.Called(ctx, id)
	h, _ := args.Get(0).(model.DistributionHub)
	return h, args.Error(1)
}

func (m *HubRepoMock) Create(ctx context.Context, hub model.DistributionHub) (model.DistributionHub, error) {
	args := m.Called(ctx, hub)
	created, _ := args.Get(0).(model.DistributionHub)
	return created, args.Error(1)
}

func (m *HubRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) FindByID(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Create(ctx context.Context, u model.User) (model.User, error) {
	args := m.Called(ctx, u)
	created, _ := args.Get(0).(model.User)
	return created, args.Error(1)
}

func (m *UserRepoMock) UpdateLastLoginAt(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type AuditLogRepoMock struct{ mock.Mock }

func (m *AuditLogRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditLogRepoMock) ListByResource(ctx context.Context, resourceType string, resourceID int64) ([]model.AuditLog, error) {
	args := m.Called(ctx, resourceType, resourceID)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

// =====================
// TxManagerスタブ
// =====================

// txRepos は全リポジトリMockを束ねてTxReposを満たす。
type txRepos struct {
	orders     *OrderRepoMock
	orderItems *OrderItemRepoMock
	carts      *CartRepoMock
	cartItems  *CartItemRepoMock
	inventory  *InventoryRepoMock
	products   *ProductRepoMock
	hubs       *HubRepoMock
	users      *UserRepoMock
	auditLogs  *AuditLogRepoMock
}

func newTxRepos() *txRepos {
	return &txRepos{
		orders:     new(OrderRepoMock),
		orderItems: new(OrderItemRepoMock),
		carts:      new(CartRepoMock),
		cartItems:  new(CartItemRepoMock),
		inventory:  new(InventoryRepoMock),
		products:   new(ProductRepoMock),
		hubs:       new(HubRepoMock),
		users:      new(UserRepoMock),
		auditLogs:  new(AuditLogRepoMock),
	}
}

func (r *txRepos) Orders() repo.OrderRepository         { return r.orders }
func (r *txRepos) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *txRepos) Carts() repo.CartRepository           { return r.carts }
func (r *txRepos) CartItems() repo.CartItemRepository   { return r.cartItems }
func (r *txRepos) Inventory() repo.InventoryRepository  { return r.inventory }
func (r *txRepos) Products() repo.ProductRepository     { return r.products }
func (r *txRepos) Hubs() repo.HubRepository             { return r.hubs }
func (r *txRepos) Users() repo.UserRepository           { return r.users }
func (r *txRepos) AuditLogs() repo.AuditLogRepository   { return r.auditLogs }

// トランザクション境界はそのまま通す。
// commit/rollbackの検証はGORM実装側の責務なのでここではしない。
type txManagerStub struct {
	repos *txRepos
}

func (s *txManagerStub) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(s.repos)
}
