package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pos-engine/internal/domain"
	"pos-engine/internal/mocks"
	"pos-engine/internal/repository"
)

type orderFixture struct {
	svc     *OrderService
	sel     *SelectionManager
	orders  *mocks.MockOrderRepository
	agg     *mocks.MockAggregateRepository
	seln    *mocks.MockSelectionRepository
	catalog *mocks.MockCatalogRepository
	cart    *mocks.MockCartService
	pricer  *mocks.MockPricer
	pub     *mocks.MockPublisher
	txr     *mocks.MockTxRunner
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	f := &orderFixture{
		orders:  &mocks.MockOrderRepository{},
		agg:     &mocks.MockAggregateRepository{},
		seln:    &mocks.MockSelectionRepository{},
		catalog: &mocks.MockCatalogRepository{},
		cart:    &mocks.MockCartService{},
		pricer:  &mocks.MockPricer{},
		pub:     &mocks.MockPublisher{},
		txr:     &mocks.MockTxRunner{},
	}
	repo := &repository.Repository{
		Tx:        f.txr,
		Orders:    f.orders,
		Cart:      &mocks.MockCartRepository{},
		Catalog:   f.catalog,
		Selection: f.seln,
		Aggregate: f.agg,
	}
	f.sel = NewSelectionManager(f.orders, f.seln)
	f.svc = NewOrderService(zap.NewNop(), newOrderLocks(), repo, f.cart, f.sel, f.pricer, f.pub, newChangeBus())
	return f
}

func TestDeleteOrdersClearsActiveMarker(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	f.sel.Toggle(7)
	f.sel.Toggle(8)

	f.seln.On("GetActiveOrder", mock.Anything).Return(int64(7), true, nil)
	f.txr.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("DeleteOrders", mock.Anything, mock.Anything, []int64{7, 8}).Return(int64(2), nil)
	f.seln.On("ClearActiveOrder", mock.Anything, mock.Anything).Return(nil)
	f.pub.On("OrdersDeleted", mock.Anything, mock.Anything).Return(nil)

	res := f.svc.DeleteOrders(ctx, []int64{7, 8})
	assert.True(t, res.OK)

	f.seln.AssertCalled(t, "ClearActiveOrder", mock.Anything, mock.Anything)
	assert.Empty(t, f.sel.Selected(), "deleted ids pruned from multi-select set")
}

func TestDeleteOrdersKeepsUnrelatedActiveMarker(t *testing.T) {
	f := newOrderFixture(t)

	f.seln.On("GetActiveOrder", mock.Anything).Return(int64(99), true, nil)
	f.txr.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("DeleteOrders", mock.Anything, mock.Anything, []int64{7}).Return(int64(1), nil)
	f.pub.On("OrdersDeleted", mock.Anything, mock.Anything).Return(nil)

	res := f.svc.DeleteOrders(context.Background(), []int64{7})
	assert.True(t, res.OK)
	f.seln.AssertNotCalled(t, "ClearActiveOrder", mock.Anything, mock.Anything)
}

func TestDeleteOrdersAlreadyGoneSkipsEvent(t *testing.T) {
	f := newOrderFixture(t)

	f.seln.On("GetActiveOrder", mock.Anything).Return(int64(0), false, nil)
	f.txr.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("DeleteOrders", mock.Anything, mock.Anything, []int64{7}).Return(int64(0), nil)

	res := f.svc.DeleteOrders(context.Background(), []int64{7})
	assert.True(t, res.OK)
	f.pub.AssertNotCalled(t, "OrdersDeleted", mock.Anything, mock.Anything)
}

func TestDeleteOrdersMapsStoreFailure(t *testing.T) {
	f := newOrderFixture(t)

	f.seln.On("GetActiveOrder", mock.Anything).Return(int64(0), false, nil)
	f.txr.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("DeleteOrders", mock.Anything, mock.Anything, []int64{7}).Return(int64(0), errors.New("constraint violation"))

	res := f.svc.DeleteOrders(context.Background(), []int64{7})
	assert.False(t, res.OK)
	assert.NotEmpty(t, res.Message)
	f.pub.AssertNotCalled(t, "OrdersDeleted", mock.Anything, mock.Anything)
}

func TestMutateQuantityPublishesPricedEvent(t *testing.T) {
	f := newOrderFixture(t)

	rec := domain.PriceRecord{OrderID: 7, Subtotal: 120, Total: 120}
	f.cart.On("MutateQuantity", mock.Anything, int64(7), int64(3), -1).Return(rec, true, nil)
	f.orders.On("GetOrder", mock.Anything, int64(7)).Return(domain.Order{ID: 7, Type: domain.DineIn}, true, nil)
	f.pub.On("OrderPriced", mock.Anything, mock.MatchedBy(func(evt domain.OrderPricedEvent) bool {
		return evt.OrderID == 7 && evt.Total == 120
	})).Return(nil)

	res := f.svc.MutateQuantity(context.Background(), 7, 3, -1)
	assert.True(t, res.OK)
	f.pub.AssertExpectations(t)
}

func TestMutateQuantityNoOpSkipsPublish(t *testing.T) {
	f := newOrderFixture(t)

	f.cart.On("MutateQuantity", mock.Anything, int64(7), int64(3), -1).Return(domain.PriceRecord{}, false, nil)

	res := f.svc.MutateQuantity(context.Background(), 7, 3, -1)
	assert.True(t, res.OK)
	f.pub.AssertNotCalled(t, "OrderPriced", mock.Anything, mock.Anything)
}

func TestMutateQuantityMapsFailureToResult(t *testing.T) {
	f := newOrderFixture(t)

	f.cart.On("MutateQuantity", mock.Anything, int64(7), int64(3), 1).
		Return(domain.PriceRecord{}, false, errors.New("io error"))

	res := f.svc.MutateQuantity(context.Background(), 7, 3, 1)
	assert.False(t, res.OK)
	assert.Equal(t, "failed to update quantity", res.Message)
}

func TestSelectActiveOrderIgnoresStaleID(t *testing.T) {
	f := newOrderFixture(t)

	f.orders.On("GetOrder", mock.Anything, int64(404)).Return(domain.Order{}, false, nil)

	res := f.svc.SelectActiveOrder(context.Background(), 404)
	assert.True(t, res.OK)
	f.seln.AssertNotCalled(t, "SetActiveOrder", mock.Anything, mock.Anything)
}

func TestListOrdersEmptyMatchIsNotAnError(t *testing.T) {
	f := newOrderFixture(t)

	f.seln.On("GetActiveOrder", mock.Anything).Return(int64(0), false, nil)
	f.agg.On("ListAggregates", mock.Anything, domain.ListFilter{Filter: "nobody"}, int64(0)).
		Return([]domain.OrderAggregate{}, nil)

	groups, err := f.svc.ListOrders(context.Background(), domain.ListFilter{Filter: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newOrderFixture(t)

	resp := f.svc.CreateOrder(context.Background(), domain.CreateOrderRequest{OrderType: "drive_through"})
	assert.False(t, resp.Result.OK)
}

func TestCreateOrderDeliveryWithoutAddressWarnsButWrites(t *testing.T) {
	f := newOrderFixture(t)

	f.orders.On("CreateOrder", mock.Anything, mock.Anything).Return(int64(11), nil)
	f.txr.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	f.pricer.On("Recompute", mock.Anything, mock.Anything, int64(11), domain.Delivery).
		Return(domain.PriceRecord{OrderID: 11}, nil)

	resp := f.svc.CreateOrder(context.Background(), domain.CreateOrderRequest{OrderType: "delivery"})
	assert.True(t, resp.Result.OK)
	assert.Equal(t, int64(11), resp.OrderID)
	assert.NotEmpty(t, resp.Result.Warning, "missing address is a warning, not an abort")
	f.orders.AssertCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestCompleteCheckoutOnMissingOrderIsBenign(t *testing.T) {
	f := newOrderFixture(t)

	f.agg.On("GetAggregate", mock.Anything, int64(404)).Return(domain.OrderAggregate{}, false, nil)

	res := f.svc.CompleteCheckout(context.Background(), 404)
	assert.True(t, res.OK)
	f.pub.AssertNotCalled(t, "OrderPriced", mock.Anything, mock.Anything)
}

func TestCompleteCheckoutPublishesFinalPriceAndDeletes(t *testing.T) {
	f := newOrderFixture(t)

	agg := domain.OrderAggregate{
		Order: domain.Order{ID: 7, Type: domain.DineIn},
		Price: domain.PriceRecord{OrderID: 7, Subtotal: 220, Total: 220},
	}
	f.agg.On("GetAggregate", mock.Anything, int64(7)).Return(agg, true, nil)
	f.pub.On("OrderPriced", mock.Anything, mock.MatchedBy(func(evt domain.OrderPricedEvent) bool {
		return evt.OrderID == 7 && evt.Total == 220
	})).Return(nil)
	f.seln.On("GetActiveOrder", mock.Anything).Return(int64(0), false, nil)
	f.txr.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("DeleteOrders", mock.Anything, mock.Anything, []int64{7}).Return(int64(1), nil)
	f.pub.On("OrdersDeleted", mock.Anything, mock.Anything).Return(nil)

	res := f.svc.CompleteCheckout(context.Background(), 7)
	assert.True(t, res.OK)
	f.pub.AssertExpectations(t)
}
