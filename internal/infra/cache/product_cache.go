package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"marketplace/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

const productCacheTTL = 10 * time.Minute

// 商品詳細のread-throughキャッシュ。
// Redisが落ちていても商品は返せるように、失敗は全てmiss扱い。
type ProductCache struct {
	rdb *redis.Client
}

func NewProductCache(rdb *redis.Client) *ProductCache {
	return &ProductCache{rdb: rdb}
}

func productKey(id int64) string {
	return "product:" + strconv.FormatInt(id, 10)
}

func (c *ProductCache) Get(ctx context.Context, id int64) (model.Product, bool) {
	if c == nil || c.rdb == nil {
		return model.Product{}, false
	}

	data, err := c.rdb.Get(ctx, productKey(id)).Result()
	if err != nil {
		return model.Product{}, false
	}

	var p model.Product
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return model.Product{}, false
	}
	return p, true
}

func (c *ProductCache) Set(ctx context.Context, p model.Product) {
	if c == nil || c.rdb == nil {
		return
	}

	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, productKey(p.ID), data, productCacheTTL)
}

// ベンダーの変更・削除・在庫設定で呼ぶ
func (c *ProductCache) Invalidate(ctx context.Context, id int64) {
	if c == nil || c.rdb == nil {
		return
	}
	c.rdb.Del(ctx, productKey(id))
}
