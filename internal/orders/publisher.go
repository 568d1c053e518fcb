package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"comandero/internal/connections/rabbitmq"
	"comandero/internal/domain"
)

const publishTimeout = 5 * time.Second

// FeedPublisher emits change events on the orders fanout exchange.
type FeedPublisher struct {
	mq *rabbitmq.Client
}

func NewFeedPublisher(mq *rabbitmq.Client) *FeedPublisher { return &FeedPublisher{mq: mq} }

func (p *FeedPublisher) PublishChange(ctx context.Context, ev domain.ChangeEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := p.mq.Publish(ctx, rabbitmq.OrdersExchange, body); err != nil {
		return fmt.Errorf("publish change event: %w", err)
	}
	return nil
}
