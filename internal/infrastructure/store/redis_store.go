package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JKevinXu/NewsAgent/internal/domain"
	"github.com/JKevinXu/NewsAgent/internal/ports"
)

// maxBatchSize is the store's batch-write limit. Writes are chunked and
// submitted sequentially, never concurrently.
const maxBatchSize = 25

// Redis persists item and digest records as JSON values with a TTL,
// plus a source+date index set for the query side.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ ports.RecommendationStore = (*Redis)(nil)

// New wires a Redis client. A zero ttl disables expiry.
func New(client *redis.Client, ttl time.Duration, log *slog.Logger) *Redis {
	return &Redis{client: client, ttl: ttl, logger: log}
}

func itemKey(id string) string { return "item:" + id }

func digestKey(date string) string { return "digest:" + date }

func indexKey(source domain.Source, date string) string {
	return fmt.Sprintf("idx:%s:%s", source, date)
}

// SaveItems writes items in batches of at most maxBatchSize records.
// Writing the same id twice overwrites the previous record.
func (r *Redis) SaveItems(ctx context.Context, items []domain.Item) error {
	for start := 0; start < len(items); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(items) {
			end = len(items)
		}

		if err := r.writeBatch(ctx, items[start:end]); err != nil {
			return fmt.Errorf("write batch %d-%d: %w", start, end, err)
		}

		if r.logger != nil {
			r.logger.Debug("batch persisted", "from", start, "to", end)
		}
	}
	return nil
}

func (r *Redis) writeBatch(ctx context.Context, batch []domain.Item) error {
	if len(batch) > maxBatchSize {
		return fmt.Errorf("batch size %d exceeds limit %d", len(batch), maxBatchSize)
	}

	pipe := r.client.TxPipeline()
	for _, item := range batch {
		payload, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("marshal item %s: %w", item.ID, err)
		}

		pipe.Set(ctx, itemKey(item.ID), payload, r.ttl)
		pipe.SAdd(ctx, indexKey(item.Source, item.Date), item.ID)
		if r.ttl > 0 {
			pipe.Expire(ctx, indexKey(item.Source, item.Date), r.ttl)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("exec pipeline: %w", err)
	}
	return nil
}

// SaveDigest upserts the per-date digest record. Same date, same key:
// persisting twice never duplicates.
func (r *Redis) SaveDigest(ctx context.Context, rec domain.DigestRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal digest %s: %w", rec.ID, err)
	}

	if err := r.client.Set(ctx, digestKey(rec.Date), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("save digest %s: %w", rec.ID, err)
	}
	return nil
}

// MarkEmailSent flips EmailSent on an existing digest record. The record
// must already exist; the write keeps its remaining TTL.
func (r *Redis) MarkEmailSent(ctx context.Context, date string) error {
	raw, err := r.client.Get(ctx, digestKey(date)).Bytes()
	if err == redis.Nil {
		return fmt.Errorf("digest for %s does not exist", date)
	}
	if err != nil {
		return fmt.Errorf("load digest %s: %w", date, err)
	}

	var rec domain.DigestRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return fmt.Errorf("unmarshal digest %s: %w", date, err)
	}

	rec.EmailSent = true
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal digest %s: %w", date, err)
	}

	if err := r.client.Set(ctx, digestKey(date), payload, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("update digest %s: %w", date, err)
	}
	return nil
}

// Digest loads the record for a run date.
func (r *Redis) Digest(ctx context.Context, date string) (domain.DigestRecord, error) {
	raw, err := r.client.Get(ctx, digestKey(date)).Bytes()
	if err == redis.Nil {
		return domain.DigestRecord{}, fmt.Errorf("digest for %s does not exist", date)
	}
	if err != nil {
		return domain.DigestRecord{}, fmt.Errorf("load digest %s: %w", date, err)
	}

	var rec domain.DigestRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.DigestRecord{}, fmt.Errorf("unmarshal digest %s: %w", date, err)
	}
	return rec, nil
}

// ItemsBySourceDate loads all items recorded for a source on a date,
// ordered by id.
func (r *Redis) ItemsBySourceDate(ctx context.Context, source domain.Source, date string) ([]domain.Item, error) {
	ids, err := r.client.SMembers(ctx, indexKey(source, date)).Result()
	if err != nil {
		return nil, fmt.Errorf("load index %s/%s: %w", source, date, err)
	}
	sort.Strings(ids)

	items := make([]domain.Item, 0, len(ids))
	for _, id := range ids {
		raw, err := r.client.Get(ctx, itemKey(id)).Bytes()
		if err == redis.Nil {
			// Index entry outlived the item record; skip it.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load item %s: %w", id, err)
		}

		var item domain.Item
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("unmarshal item %s: %w", id, err)
		}
		items = append(items, item)
	}
	return items, nil
}
