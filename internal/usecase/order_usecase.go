package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

// uidx_orders_idem に弾かれた側（負けたトランザクション）の印
var errIdempotencyRace = errors.New("idempotency race")

// 注文の公開識別子（uuid）を作る。テストでは固定実装を差す。
type ReferenceGenerator interface {
	NewReference() string
}

// 新規注文のハブ選定。現方針は一様ランダム（差し替え可能）。
type HubPicker interface {
	Pick(hubs []model.DistributionHub) model.DistributionHub
}

type OrderUsecase struct {
	tx     repo.TransactionManager
	refGen ReferenceGenerator
	picker HubPicker
}

func NewOrderUsecase(tx repo.TransactionManager, refGen ReferenceGenerator, picker HubPicker) *OrderUsecase {
	return &OrderUsecase{tx: tx, refGen: refGen, picker: picker}
}

type CheckoutInput struct {
	IdempotencyKey string
}

// 作成された注文ごとのサマリ（ベンダー分割で複数になる）
type OrderSummary struct {
	OrderID    int64  `json:"order_id"`
	Reference  string `json:"reference"`
	Status     string `json:"status"`
	TotalPrice int64  `json:"total_price"`
	HubID      int64  `json:"hub_id"`
	HubName    string `json:"hub_name"`
}

type OrderItemOutput struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	ImageURL  string `json:"image_url,omitempty"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

type OrderListItem struct {
	ID         int64     `json:"id"`
	Reference  string    `json:"reference"`
	Status     string    `json:"status"`
	TotalPrice int64     `json:"total_price"`
	//顧客画面ならベンダー名、ベンダー/シッパー画面なら顧客名
	Counterpart string    `json:"counterpart"`
	CreatedAt   time.Time `json:"created_at"`
}

type OrderListResponse struct {
	Items []OrderListItem `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type OrderDetailOutput struct {
	ID              int64             `json:"id"`
	Reference       string            `json:"reference"`
	Status          string            `json:"status"`
	TotalPrice      int64             `json:"total_price"`
	HubID           int64             `json:"hub_id"`
	HubName         string            `json:"hub_name"`
	VendorName      string            `json:"vendor_name"`
	CustomerName    string            `json:"customer_name,omitempty"`
	CustomerAddress string            `json:"customer_address,omitempty"`
	CancelReason    string            `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	Items           []OrderItemOutput `json:"items"`
}

// checkout中の1明細（商品解決と引き当てが済んだ状態）
type billedLine struct {
	product  model.Product
	quantity int64
	unit     int64
}

// Checkout はカートから注文を作る。
// カート全体で1トランザクション：途中で失敗したら
// 注文・明細・在庫減算・カートの全てを巻き戻す。
func (u *OrderUsecase) Checkout(ctx context.Context, actor model.Actor, in CheckoutInput) ([]OrderSummary, error) {
	if actor.UserID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if actor.Role != model.RoleCustomer {
		return nil, NewHTTPError(http.StatusForbidden, "customer only")
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if len(key) > 255 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid idempotency_key")
	}
	//キー未指定のときは再送保護なしで採番だけする
	replay := key != ""
	if key == "" {
		key = u.refGen.NewReference()
	}

	var out []OrderSummary

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じキーなら作成済みの注文一式を返す
		if replay {
			existing, err := r.Orders().ListByIdempotencyKey(ctx, actor.UserID, key)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if len(existing) > 0 {
				summaries, err := u.summarize(ctx, r, existing)
				if err != nil {
					return err
				}
				out = summaries
				return nil
			}
		}

		//ACTIVEカート取得
		cart, err := r.Carts().FindActiveByCustomerID(ctx, actor.UserID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}

		hubs, err := r.Hubs().List(ctx)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(hubs) == 0 {
			return NewHTTPError(http.StatusInternalServerError, "no distribution hubs configured")
		}

		// 行ごとに商品を解決して在庫を引き当てる。
		// 引き当ては条件付きUPDATE1本。足りなければここで全体が巻き戻る。
		lines := make([]billedLine, 0, len(cartItems))
		for _, ci := range cartItems {
			p, err := r.Products().FindByID(ctx, ci.ProductID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("product no longer available: %d", ci.ProductID))
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !p.IsActive {
				return NewHTTPError(http.StatusBadRequest,
					"product no longer available: "+p.Name)
			}

			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, ci.ProductID, ci.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusConflict, "insufficient stock: "+p.Name)
			}

			lines = append(lines, billedLine{
				product:  p,
				quantity: ci.Quantity,
				unit:     UnitPriceAtPurchase(p.Price, p.SalePercent),
			})
		}

		// ベンダーごとに分割して1注文ずつ作る（登場順を保つ）
		vendorOrder := make([]int64, 0, len(lines))
		partitions := make(map[int64][]billedLine)
		for _, ln := range lines {
			vid := ln.product.VendorID
			if _, seen := partitions[vid]; !seen {
				vendorOrder = append(vendorOrder, vid)
			}
			partitions[vid] = append(partitions[vid], ln)
		}

		now := time.Now()
		out = make([]OrderSummary, 0, len(vendorOrder))

		for _, vid := range vendorOrder {
			part := partitions[vid]
			hub := u.picker.Pick(hubs)

			var total int64 = 0
			orderItems := make([]model.OrderItem, 0, len(part))
			for _, ln := range part {
				orderItems = append(orderItems, model.OrderItem{
					ProductID:           ln.product.ID,
					ProductNameSnapshot: ln.product.Name,
					ImageURLSnapshot:    ln.product.ImageURL,
					UnitPriceSnapshot:   ln.unit,
					Quantity:            ln.quantity,
					CreatedAt:           now,
				})
				total += ln.unit * ln.quantity
			}

			order := model.Order{
				Reference:      u.refGen.NewReference(),
				CustomerID:     actor.UserID,
				VendorID:       vid,
				HubID:          hub.ID,
				Status:         model.OrderStatusPending,
				TotalPrice:     total,
				IdempotencyKey: key,
				CreatedAt:      now,
				UpdatedAt:      now,
			}

			orderID, err := r.Orders().Create(ctx, order)
			if err == repo.ErrDuplicateKey {
				//同時チェックアウトで負けた。トランザクションを巻き戻してから読み直す
				return errIdempotencyRace
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			out = append(out, OrderSummary{
				OrderID:    orderID,
				Reference:  order.Reference,
				Status:     string(order.Status),
				TotalPrice: total,
				HubID:      hub.ID,
				HubName:    hub.Name,
			})
		}

		//カートをCHECKED_OUTにして明細をクリア（再注文防止）
		if err := r.Carts().UpdateStatus(ctx, cart.ID, model.CartStatusCheckedOut); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})

	//競合（同時に同じキーが入った等）は勝った方の注文一式を返す
	if err == errIdempotencyRace {
		return u.replayByKey(ctx, actor.UserID, key)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *OrderUsecase) replayByKey(ctx context.Context, customerID int64, key string) ([]OrderSummary, error) {
	var out []OrderSummary
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		existing, err := r.Orders().ListByIdempotencyKey(ctx, customerID, key)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(existing) == 0 {
			return NewHTTPError(http.StatusConflict, "idempotency conflict")
		}
		summaries, err := u.summarize(ctx, r, existing)
		if err != nil {
			return err
		}
		out = summaries
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *OrderUsecase) summarize(ctx context.Context, r repo.TxRepos, orders []model.Order) ([]OrderSummary, error) {
	summaries := make([]OrderSummary, 0, len(orders))
	for _, o := range orders {
		hub, err := r.Hubs().FindByID(ctx, o.HubID)
		if err != nil && err != repo.ErrNotFound {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		summaries = append(summaries, OrderSummary{
			OrderID:    o.ID,
			Reference:  o.Reference,
			Status:     string(o.Status),
			TotalPrice: o.TotalPrice,
			HubID:      o.HubID,
			HubName:    hub.Name,
		})
	}
	return summaries, nil
}

// ListOrders は役割ごとの注文一覧。
// 顧客=自分の注文、ベンダー=自社の注文、シッパー=自ハブのACTIVE。
func (u *OrderUsecase) ListOrders(ctx context.Context, actor model.Actor, page int, limit int) (OrderListResponse, error) {
	if actor.UserID <= 0 {
		return OrderListResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	var out OrderListResponse

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var (
			orders []model.Order
			total  int64
			err    error
		)

		switch actor.Role {
		case model.RoleCustomer:
			orders, total, err = r.Orders().ListByCustomerID(ctx, actor.UserID, page, limit)
		case model.RoleVendor:
			orders, total, err = r.Orders().ListByVendorID(ctx, actor.UserID, page, limit)
		case model.RoleShipper:
			orders, total, err = r.Orders().ListActiveByHubID(ctx, actor.HubID, page, limit)
		default:
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = OrderListResponse{
			Items: make([]OrderListItem, 0, len(orders)),
			Total: total,
			Page:  page,
			Limit: limit,
		}

		for _, o := range orders {
			name, err := u.counterpartName(ctx, r, actor, o)
			if err != nil {
				return err
			}
			out.Items = append(out.Items, OrderListItem{
				ID:          o.ID,
				Reference:   o.Reference,
				Status:      string(o.Status),
				TotalPrice:  o.TotalPrice,
				Counterpart: name,
				CreatedAt:   o.CreatedAt,
			})
		}
		return nil
	})

	if err != nil {
		return OrderListResponse{}, err
	}
	return out, nil
}

// GetOrderDetail は役割スコープ付きの詳細。
// 見えない注文は「存在しない扱い」（404）。
func (u *OrderUsecase) GetOrderDetail(ctx context.Context, actor model.Actor, orderID int64) (OrderDetailOutput, error) {
	if actor.UserID <= 0 {
		return OrderDetailOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderDetailOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		//他人の注文は「存在しない扱い」にする
		if !actor.CanViewOrder(o) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		hub, err := r.Hubs().FindByID(ctx, o.HubID)
		if err != nil && err != repo.ErrNotFound {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		vendor, err := r.Users().FindByID(ctx, o.VendorID)
		if err != nil && err != repo.ErrNotFound {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = OrderDetailOutput{
			ID:           o.ID,
			Reference:    o.Reference,
			Status:       string(o.Status),
			TotalPrice:   o.TotalPrice,
			HubID:        o.HubID,
			HubName:      hub.Name,
			VendorName:   vendor.ProfileName,
			CancelReason: o.CancelReason,
			CreatedAt:    o.CreatedAt,
			Items:        make([]OrderItemOutput, 0, len(items)),
		}

		//配送先住所：顧客は自分の、ベンダー/シッパーは発送先として見る
		customer, err := r.Users().FindByID(ctx, o.CustomerID)
		if err != nil && err != repo.ErrNotFound {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out.CustomerName = customer.ProfileName
		out.CustomerAddress = customer.Address

		for _, it := range items {
			out.Items = append(out.Items, OrderItemOutput{
				ProductID: it.ProductID,
				Name:      it.ProductNameSnapshot,
				ImageURL:  it.ImageURLSnapshot,
				UnitPrice: it.UnitPriceSnapshot,
				Quantity:  it.Quantity,
				Subtotal:  it.Subtotal(),
			})
		}
		return nil
	})

	if err != nil {
		return OrderDetailOutput{}, err
	}
	return out, nil
}

type OrderHistoryItem struct {
	ActorUserID int64     `json:"actor_user_id"`
	Action      string    `json:"action"`
	Before      string    `json:"before"`
	After       string    `json:"after"`
	CreatedAt   time.Time `json:"created_at"`
}

// GetOrderHistory は注文の状態遷移履歴。詳細と同じ可視性ルール。
func (u *OrderUsecase) GetOrderHistory(ctx context.Context, actor model.Actor, orderID int64) ([]OrderHistoryItem, error) {
	if actor.UserID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out []OrderHistoryItem

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !actor.CanViewOrder(o) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		logs, err := r.AuditLogs().ListByResource(ctx, model.AuditResourceOrder, o.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = make([]OrderHistoryItem, 0, len(logs))
		for _, lg := range logs {
			out = append(out, OrderHistoryItem{
				ActorUserID: lg.ActorUserID,
				Action:      lg.Action,
				Before:      lg.BeforeJSON,
				After:       lg.AfterJSON,
				CreatedAt:   lg.CreatedAt,
			})
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *OrderUsecase) counterpartName(ctx context.Context, r repo.TxRepos, actor model.Actor, o model.Order) (string, error) {
	var otherID int64
	if actor.Role == model.RoleCustomer {
		otherID = o.VendorID
	} else {
		otherID = o.CustomerID
	}

	other, err := r.Users().FindByID(ctx, otherID)
	if err == repo.ErrNotFound {
		return "", nil
	}
	if err != nil {
		return "", NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return other.ProfileName, nil
}
