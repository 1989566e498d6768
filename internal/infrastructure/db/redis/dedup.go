package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mbotrack/mbo-tracker/internal/core/domain"
	"github.com/mbotrack/mbo-tracker/internal/core/ports"
)

// Notification cooldown: a repeat of the same (recipient, objective,
// event) triple within this window is suppressed. TTL expiry replaces any
// manual cleanup of old entries.
const dedupTTL = 60 * time.Second

// DedupStore suppresses repeat notifications, backed by Redis.
// Key format: dedup:<recipient>:<objective_id>:<event>
type DedupStore struct {
	client *redis.Client
}

// NewDedupStore wraps the given Redis client.
func NewDedupStore(client *redis.Client) *DedupStore {
	return &DedupStore{client: client}
}

var _ ports.DedupStore = (*DedupStore)(nil)

// IsDuplicate reports whether this notification was already sent within
// the cooldown window.
func (d *DedupStore) IsDuplicate(ctx context.Context, recipient, objectiveID string, event domain.EventType) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(recipient, objectiveID, event)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this notification went out. The key expires after
// dedupTTL.
func (d *DedupStore) Mark(ctx context.Context, recipient, objectiveID string, event domain.EventType) error {
	return d.client.Set(ctx, d.key(recipient, objectiveID, event), "1", dedupTTL).Err()
}

func (d *DedupStore) key(recipient, objectiveID string, event domain.EventType) string {
	return fmt.Sprintf("dedup:%s:%s:%s", recipient, objectiveID, event)
}
