// Package notify fans bid events out to the rest of the platform over
// Redis pub/sub. Subscribers (the enquiry owner's notification pipeline)
// live outside this service.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"pilot-bidding-api/internal/entity"

	"github.com/redis/go-redis/v9"
)

const ChannelBidSubmitted = "EVENT_BID_SUBMITTED"

// Publisher is the subset of *redis.Client used here.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

type RedisEvents struct {
	rdb Publisher
}

func NewRedisEvents(rdb Publisher) *RedisEvents {
	return &RedisEvents{rdb: rdb}
}

func (e *RedisEvents) PublishBidSubmitted(ctx context.Context, event entity.BidSubmittedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("notify: marshal %s: %w", event.Type, err)
	}

	if err := e.rdb.Publish(ctx, ChannelBidSubmitted, payload).Err(); err != nil {
		return fmt.Errorf("notify: publish %s: %w", ChannelBidSubmitted, err)
	}

	return nil
}
