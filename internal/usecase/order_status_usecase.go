package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

// OrderStatusUsecase は注文の状態遷移。
// PENDING → ACTIVE → DELIVERED | CANCELED、PENDING → CANCELED のみ許す。
type OrderStatusUsecase struct {
	tx repo.TransactionManager
}

func NewOrderStatusUsecase(tx repo.TransactionManager) *OrderStatusUsecase {
	return &OrderStatusUsecase{tx: tx}
}

type ChangeStatusInput struct {
	Status string
	Reason string
}

type ChangeStatusOutput struct {
	OK     bool   `json:"ok"`
	Status string `json:"status"`
}

// ChangeStatus は役割・所有・遷移表・理由必須の順に検査して、
// 期待ステータス付きの条件付きUPDATEで確定する。
// 同時に競合する遷移が来ても勝つのは1つだけ。
func (u *OrderStatusUsecase) ChangeStatus(ctx context.Context, actor model.Actor, orderID int64, in ChangeStatusInput) (ChangeStatusOutput, error) {
	if actor.UserID <= 0 {
		return ChangeStatusOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return ChangeStatusOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	to, ok := model.ParseOrderStatus(strings.TrimSpace(in.Status))
	if !ok {
		return ChangeStatusOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	reason := strings.TrimSpace(in.Reason)

	var out ChangeStatusOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 顧客・ベンダーは他人の注文を「存在しない扱い」に。
		// シッパーは注文自体は見えるがハブ違いは403。
		switch actor.Role {
		case model.RoleCustomer:
			if o.CustomerID != actor.UserID {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
		case model.RoleVendor:
			if o.VendorID != actor.UserID {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
		case model.RoleShipper:
			if o.HubID != actor.HubID {
				return NewHTTPError(http.StatusForbidden, "order belongs to another hub")
			}
		default:
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}

		// 遷移表（終端・飛ばしはここで落ちる）
		if !model.CanTransition(o.Status, to) {
			return NewHTTPError(http.StatusConflict,
				fmt.Sprintf("cannot change %s order to %s", o.Status, to))
		}
		// 役割として許される遷移か
		if !actor.MayTransition(o.Status, to) {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}
		// 拒否・配送キャンセルは理由必須
		if actor.ReasonRequired(to) && reason == "" {
			return NewHTTPError(http.StatusBadRequest, "reason is required")
		}

		// 期待ステータス付きの更新。負けたら今の状態を見せて409。
		updated, err := r.Orders().UpdateStatusIf(ctx, orderID, o.Status, to, reason)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !updated {
			current, err := r.Orders().FindByID(ctx, orderID)
			if err != nil {
				return NewHTTPError(http.StatusConflict, "order status changed, retry")
			}
			return NewHTTPError(http.StatusConflict,
				fmt.Sprintf("cannot change %s order to %s", current.Status, to))
		}

		// キャンセルは在庫を戻す（引き当ては注文作成時の1点なので、戻しも必ずここ）
		if to == model.OrderStatusCanceled {
			items, err := r.OrderItems().ListByOrderID(ctx, orderID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			for _, it := range items {
				if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil && err != repo.ErrNotFound {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
					ProductID:   it.ProductID,
					ActorUserID: actor.UserID,
					Delta:       it.Quantity,
					Reason:      model.AdjustmentReasonOrderCanceled,
					CreatedAt:   time.Now(),
				}); err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
			}
		}

		//監査ログ
		beforeJSON := `{"status":"` + string(o.Status) + `"}`
		afterJSON := `{"status":"` + string(to) + `"}`
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actor.UserID,
			Action:       model.AuditActionChangeOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   beforeJSON,
			AfterJSON:    afterJSON,
			CreatedAt:    time.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = ChangeStatusOutput{OK: true, Status: string(to)}
		return nil
	})

	if err != nil {
		return ChangeStatusOutput{}, err
	}
	return out, nil
}
