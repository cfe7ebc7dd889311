package model_test

import (
	"testing"

	"marketplace/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from model.OrderStatus
		to   model.OrderStatus
		want bool
	}{
		{model.OrderStatusPending, model.OrderStatusActive, true},
		{model.OrderStatusPending, model.OrderStatusCanceled, true},
		{model.OrderStatusActive, model.OrderStatusDelivered, true},
		{model.OrderStatusActive, model.OrderStatusCanceled, true},

		// 飛ばし・逆行
		{model.OrderStatusPending, model.OrderStatusDelivered, false},
		{model.OrderStatusActive, model.OrderStatusPending, false},
		// 同一ステータスへの再適用も不可
		{model.OrderStatusPending, model.OrderStatusPending, false},
		// 終端からは動かない
		{model.OrderStatusDelivered, model.OrderStatusCanceled, false},
		{model.OrderStatusCanceled, model.OrderStatusActive, false},
		{model.OrderStatusCanceled, model.OrderStatusCanceled, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, model.CanTransition(c.from, c.to),
			"%s -> %s", c.from, c.to)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, model.OrderStatusPending.IsTerminal())
	assert.False(t, model.OrderStatusActive.IsTerminal())
	assert.True(t, model.OrderStatusDelivered.IsTerminal())
	assert.True(t, model.OrderStatusCanceled.IsTerminal())
}

func TestParseOrderStatus(t *testing.T) {
	s, ok := model.ParseOrderStatus("ACTIVE")
	assert.True(t, ok)
	assert.Equal(t, model.OrderStatusActive, s)

	_, ok = model.ParseOrderStatus("SHIPPED")
	assert.False(t, ok)

	// 小文字は受け付けない
	_, ok = model.ParseOrderStatus("pending")
	assert.False(t, ok)
}
