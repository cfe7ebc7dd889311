package model

// Actor はリクエストごとに1回だけ解決する操作主体。
// handlerに role の文字列比較を散らさず、権限判定はここに集める。
type Actor struct {
	UserID int64
	Role   Role
	//SHIPPERのみ0以外
	HubID int64
}

// その注文が actor の画面に出てよいか。
// 他人の注文は「存在しない扱い」（404）にするための判定。
func (a Actor) CanViewOrder(o Order) bool {
	switch a.Role {
	case RoleCustomer:
		return o.CustomerID == a.UserID
	case RoleVendor:
		return o.VendorID == a.UserID
	case RoleShipper:
		return o.HubID == a.HubID
	}
	return false
}

// 役割ごとに許される遷移。
// CUSTOMER: 受諾前の自己キャンセルのみ
// VENDOR:   受諾（PENDING→ACTIVE）と拒否（PENDING→CANCELED）
// SHIPPER:  配達完了と配送キャンセル（ACTIVEから）
func (a Actor) MayTransition(from OrderStatus, to OrderStatus) bool {
	switch a.Role {
	case RoleCustomer:
		return from == OrderStatusPending && to == OrderStatusCanceled
	case RoleVendor:
		return from == OrderStatusPending &&
			(to == OrderStatusActive || to == OrderStatusCanceled)
	case RoleShipper:
		return from == OrderStatusActive &&
			(to == OrderStatusDelivered || to == OrderStatusCanceled)
	}
	return false
}

// キャンセル理由が必須かどうか。顧客の自己キャンセルだけ任意。
func (a Actor) ReasonRequired(to OrderStatus) bool {
	return to == OrderStatusCanceled && a.Role != RoleCustomer
}
