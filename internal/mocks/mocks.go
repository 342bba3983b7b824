package mocks

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"

	"pos-engine/internal/domain"
	"pos-engine/internal/pricing"
	"pos-engine/internal/repository"
)

type MockTxRunner struct {
	mock.Mock
}

// WithTx invokes the callback with a nil transaction; repository mocks below
// accept any Queryer, so service logic runs unchanged.
func (m *MockTxRunner) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(nil)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, o domain.Order) (int64, error) {
	args := m.Called(ctx, o)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) GetOrder(ctx context.Context, id int64) (domain.Order, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Order), args.Bool(1), args.Error(2)
}

func (m *MockOrderRepository) TouchOrder(ctx context.Context, q repository.Queryer, id int64) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

func (m *MockOrderRepository) DeleteOrders(ctx context.Context, tx *sql.Tx, ids []int64) (int64, error) {
	args := m.Called(ctx, tx, ids)
	return args.Get(0).(int64), args.Error(1)
}

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) ApplyQuantityDelta(ctx context.Context, q repository.Queryer, orderID, productID int64, delta int) (int, bool, error) {
	args := m.Called(ctx, q, orderID, productID, delta)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockCartRepository) ToggleAddOn(ctx context.Context, q repository.Queryer, orderID, addonID int64) (bool, error) {
	args := m.Called(ctx, q, orderID, addonID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCartRepository) ToggleCharge(ctx context.Context, q repository.Queryer, orderID, chargeID int64) (bool, error) {
	args := m.Called(ctx, q, orderID, chargeID)
	return args.Bool(0), args.Error(1)
}

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) GetProduct(ctx context.Context, id int64) (domain.Product, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Bool(1), args.Error(2)
}

func (m *MockCatalogRepository) GetAddOn(ctx context.Context, id int64) (domain.AddOnItem, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.AddOnItem), args.Bool(1), args.Error(2)
}

func (m *MockCatalogRepository) GetCharge(ctx context.Context, id int64) (domain.Charge, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Charge), args.Bool(1), args.Error(2)
}

func (m *MockCatalogRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockCatalogRepository) ListAddOns(ctx context.Context) ([]domain.AddOnItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AddOnItem), args.Error(1)
}

func (m *MockCatalogRepository) ListCharges(ctx context.Context) ([]domain.Charge, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Charge), args.Error(1)
}

func (m *MockCatalogRepository) CreateProduct(ctx context.Context, p domain.Product) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogRepository) CreateAddOn(ctx context.Context, a domain.AddOnItem) (int64, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogRepository) CreateCharge(ctx context.Context, c domain.Charge) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogRepository) CreateCustomer(ctx context.Context, c domain.Customer) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogRepository) CreateAddress(ctx context.Context, a domain.Address) (int64, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(int64), args.Error(1)
}

type MockSelectionRepository struct {
	mock.Mock
}

func (m *MockSelectionRepository) SetActiveOrder(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockSelectionRepository) GetActiveOrder(ctx context.Context) (int64, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockSelectionRepository) ClearActiveOrder(ctx context.Context, q repository.Queryer) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

type MockAggregateRepository struct {
	mock.Mock
}

func (m *MockAggregateRepository) GetAggregate(ctx context.Context, orderID int64) (domain.OrderAggregate, bool, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(domain.OrderAggregate), args.Bool(1), args.Error(2)
}

func (m *MockAggregateRepository) ListAggregates(ctx context.Context, f domain.ListFilter, activeID int64) ([]domain.OrderAggregate, error) {
	args := m.Called(ctx, f, activeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderAggregate), args.Error(1)
}

type MockPricer struct {
	mock.Mock
}

func (m *MockPricer) Recompute(ctx context.Context, q pricing.Queryer, orderID int64, t domain.OrderType) (domain.PriceRecord, error) {
	args := m.Called(ctx, q, orderID, t)
	return args.Get(0).(domain.PriceRecord), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) OrderPriced(ctx context.Context, evt domain.OrderPricedEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func (m *MockPublisher) OrdersDeleted(ctx context.Context, evt domain.OrderDeletedEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) MutateQuantity(ctx context.Context, orderID, productID int64, delta int) (domain.PriceRecord, bool, error) {
	args := m.Called(ctx, orderID, productID, delta)
	return args.Get(0).(domain.PriceRecord), args.Bool(1), args.Error(2)
}

func (m *MockCartService) ToggleAddOn(ctx context.Context, orderID, addonID int64) (domain.PriceRecord, bool, error) {
	args := m.Called(ctx, orderID, addonID)
	return args.Get(0).(domain.PriceRecord), args.Bool(1), args.Error(2)
}

func (m *MockCartService) ToggleCharge(ctx context.Context, orderID, chargeID int64) (domain.PriceRecord, bool, error) {
	args := m.Called(ctx, orderID, chargeID)
	return args.Get(0).(domain.PriceRecord), args.Bool(1), args.Error(2)
}
