// Package event publishes job lifecycle events to a Redis stream for
// downstream consumers (analytics, requisition sync, SSE fan-out).
//
// Delivery is best-effort: a failed publish is logged and swallowed, it never
// fails the triggering operation. There is no outbox or retry queue.
package event

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Stream is the Redis stream all job lifecycle events land on.
const Stream = "talent.job.events"

// Event types emitted by the lifecycle engine.
const (
	TypeJobPublished = "job.published"
	TypeJobApproved  = "job.approved"
	TypeJobClosed    = "job.closed"
)

// Event is one lifecycle change. JobID rides in the payload so consumers can
// partition per job and preserve per-job ordering.
type Event struct {
	Type      string    `json:"eventType"`
	JobID     string    `json:"jobId"`
	TenantID  string    `json:"tenantId"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier is the emission contract consumed by the lifecycle engine.
type Notifier interface {
	Publish(ctx context.Context, e Event)
}

// RedisNotifier appends events to the lifecycle stream via XADD. Entries are
// appended in call order, so per-job ordering holds for a single publisher.
type RedisNotifier struct {
	rdb *redis.Client
}

// NewRedisNotifier returns a Notifier backed by the given Redis client.
func NewRedisNotifier(rdb *redis.Client) *RedisNotifier {
	return &RedisNotifier{rdb: rdb}
}

// Publish appends the event to the stream. Failures are logged and swallowed.
func (n *RedisNotifier) Publish(ctx context.Context, e Event) {
	err := n.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: Stream,
		Values: map[string]any{
			"eventType": e.Type,
			"jobId":     e.JobID,
			"tenantId":  e.TenantID,
			"status":    e.Status,
			"timestamp": e.Timestamp.UTC().Format(time.RFC3339),
		},
	}).Err()
	if err != nil {
		slog.Warn("publish job event failed",
			"eventType", e.Type, "jobId", e.JobID, "err", err)
	}
}
