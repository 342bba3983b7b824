package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"pos-engine/internal/domain"
)

// CachedCatalog is a read-through cache in front of the catalog repository.
// Cache trouble degrades to the database, never to an error; writes
// invalidate the affected item key. Pricing never reads through here (it reads inside
// the mutation transaction), so a stale cache entry can delay a name lookup
// but never a price.
type CachedCatalog struct {
	inner CatalogRepositoryInterface
	rdb   *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedCatalog(inner CatalogRepositoryInterface, rdb *redis.Client, ttl time.Duration, log *zap.Logger) CatalogRepositoryInterface {
	return &CachedCatalog{inner: inner, rdb: rdb, ttl: ttl, log: log}
}

func (cc *CachedCatalog) GetProduct(ctx context.Context, id int64) (domain.Product, bool, error) {
	var p domain.Product
	if cc.getCached(ctx, fmt.Sprintf("catalog:product:%d", id), &p) {
		return p, true, nil
	}
	p, ok, err := cc.inner.GetProduct(ctx, id)
	if err == nil && ok {
		cc.setCached(ctx, fmt.Sprintf("catalog:product:%d", id), p)
	}
	return p, ok, err
}

func (cc *CachedCatalog) GetAddOn(ctx context.Context, id int64) (domain.AddOnItem, bool, error) {
	var a domain.AddOnItem
	if cc.getCached(ctx, fmt.Sprintf("catalog:addon:%d", id), &a) {
		return a, true, nil
	}
	a, ok, err := cc.inner.GetAddOn(ctx, id)
	if err == nil && ok {
		cc.setCached(ctx, fmt.Sprintf("catalog:addon:%d", id), a)
	}
	return a, ok, err
}

func (cc *CachedCatalog) GetCharge(ctx context.Context, id int64) (domain.Charge, bool, error) {
	var c domain.Charge
	if cc.getCached(ctx, fmt.Sprintf("catalog:charge:%d", id), &c) {
		return c, true, nil
	}
	c, ok, err := cc.inner.GetCharge(ctx, id)
	if err == nil && ok {
		cc.setCached(ctx, fmt.Sprintf("catalog:charge:%d", id), c)
	}
	return c, ok, err
}

func (cc *CachedCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return cc.inner.ListProducts(ctx)
}

func (cc *CachedCatalog) ListAddOns(ctx context.Context) ([]domain.AddOnItem, error) {
	return cc.inner.ListAddOns(ctx)
}

func (cc *CachedCatalog) ListCharges(ctx context.Context) ([]domain.Charge, error) {
	return cc.inner.ListCharges(ctx)
}

func (cc *CachedCatalog) CreateProduct(ctx context.Context, p domain.Product) (int64, error) {
	id, err := cc.inner.CreateProduct(ctx, p)
	if err == nil {
		cc.drop(ctx, fmt.Sprintf("catalog:product:%d", id))
	}
	return id, err
}

func (cc *CachedCatalog) CreateAddOn(ctx context.Context, a domain.AddOnItem) (int64, error) {
	id, err := cc.inner.CreateAddOn(ctx, a)
	if err == nil {
		cc.drop(ctx, fmt.Sprintf("catalog:addon:%d", id))
	}
	return id, err
}

func (cc *CachedCatalog) CreateCharge(ctx context.Context, c domain.Charge) (int64, error) {
	id, err := cc.inner.CreateCharge(ctx, c)
	if err == nil {
		cc.drop(ctx, fmt.Sprintf("catalog:charge:%d", id))
	}
	return id, err
}

func (cc *CachedCatalog) CreateCustomer(ctx context.Context, c domain.Customer) (int64, error) {
	return cc.inner.CreateCustomer(ctx, c)
}

func (cc *CachedCatalog) CreateAddress(ctx context.Context, a domain.Address) (int64, error) {
	return cc.inner.CreateAddress(ctx, a)
}

func (cc *CachedCatalog) getCached(ctx context.Context, key string, dst any) bool {
	if cc.rdb == nil {
		return false
	}
	raw, err := cc.rdb.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), dst) == nil
}

func (cc *CachedCatalog) setCached(ctx context.Context, key string, v any) {
	if cc.rdb == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := cc.rdb.Set(ctx, key, data, cc.ttl).Err(); err != nil {
		cc.log.Debug("catalog cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (cc *CachedCatalog) drop(ctx context.Context, key string) {
	if cc.rdb == nil {
		return
	}
	if err := cc.rdb.Del(ctx, key).Err(); err != nil {
		cc.log.Debug("catalog cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}
