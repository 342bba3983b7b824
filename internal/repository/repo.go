package repository

import (
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"pos-engine/internal/pricing"
)

// Repository bundles all store components behind one constructor, the way
// the services expect to receive them. rdb may be nil, which disables the
// catalog cache.
type Repository struct {
	Tx        TxRunnerInterface
	Orders    OrderRepositoryInterface
	Cart      CartRepositoryInterface
	Catalog   CatalogRepositoryInterface
	Selection SelectionRepositoryInterface
	Aggregate AggregateRepositoryInterface
	Pricing   pricing.StoreInterface
}

func New(db *sql.DB, rdb *redis.Client, cacheTTL time.Duration, log *zap.Logger) *Repository {
	catalog := NewCatalogRepository(db)
	if rdb != nil {
		catalog = NewCachedCatalog(catalog, rdb, cacheTTL, log)
	}
	return &Repository{
		Tx:        NewTxRunner(db),
		Orders:    NewOrderRepository(db),
		Cart:      NewCartRepository(db),
		Catalog:   catalog,
		Selection: NewSelectionRepository(db),
		Aggregate: NewAggregateRepository(db),
		Pricing:   NewPricingStore(),
	}
}
