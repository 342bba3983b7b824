package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pos-engine/internal/connections/rabbitmq"
	"pos-engine/internal/domain"
)

// Routing keys on the orders exchange.
const (
	KeyOrderPriced  = "order.priced"
	KeyOrderDeleted = "order.deleted"
)

// PublisherInterface is the outbound face toward print/export consumers.
// They observe priced orders and deletions; they never write back.
type PublisherInterface interface {
	OrderPriced(ctx context.Context, evt domain.OrderPricedEvent) error
	OrdersDeleted(ctx context.Context, evt domain.OrderDeletedEvent) error
}

type Publisher struct {
	client *rabbitmq.Client
}

func NewPublisher(client *rabbitmq.Client) PublisherInterface {
	return &Publisher{client: client}
}

func (p *Publisher) OrderPriced(ctx context.Context, evt domain.OrderPricedEvent) error {
	return p.publish(ctx, KeyOrderPriced, evt)
}

func (p *Publisher) OrdersDeleted(ctx context.Context, evt domain.OrderDeletedEvent) error {
	return p.publish(ctx, KeyOrderDeleted, evt)
}

func (p *Publisher) publish(ctx context.Context, key string, evt any) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", key, err)
	}
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.client.Publish(pctx, key, body); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", key, err)
	}
	return nil
}
