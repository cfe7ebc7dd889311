package usecase_test

import (
	"testing"

	"marketplace/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestUnitPriceAtPurchase(t *testing.T) {
	cases := []struct {
		name        string
		price       int64
		salePercent int64
		want        int64
	}{
		{"セールなし", 10000, 0, 10000},
		{"20%引き", 10000, 20, 8000},
		{"端数は四捨五入", 999, 50, 500},
		{"100%引きは0", 10000, 100, 0},
		{"100超も0", 10000, 150, 0},
		{"負のセール率は定価", 10000, -5, 10000},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, usecase.UnitPriceAtPurchase(c.price, c.salePercent))
		})
	}
}
