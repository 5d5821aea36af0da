// Package notify carries persisted notifications to the external delivery
// system. Delivery is fire-and-forget: the row in the database is the source
// of truth, the sink is a best-effort handoff.
package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	model "taskflow.dev/taskflow/internal/models"
)

type Sink interface {
	Publish(ctx context.Context, notification *model.Notification) error
}

// RedisSink pushes the JSON payload onto a Redis list consumed by external
// delivery workers.
type RedisSink struct {
	client *redis.Client
	key    string
}

func NewRedisSink(client *redis.Client, key string) *RedisSink {
	return &RedisSink{client: client, key: key}
}

func (s *RedisSink) Publish(ctx context.Context, notification *model.Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	return s.client.LPush(ctx, s.key, payload).Err()
}
