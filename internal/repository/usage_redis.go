package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"TradeCoin/pkg/logger"
	"TradeCoin/pkg/util"
)

// RedisUsageCounter tracks per-user daily signal consumption with
// day-scoped keys that expire shortly after midnight UTC.
type RedisUsageCounter struct {
	client *redis.Client
	log    *logger.Logger
}

func NewRedisUsageCounter(client *redis.Client, log *logger.Logger) *RedisUsageCounter {
	return &RedisUsageCounter{client: client, log: log}
}

func (u *RedisUsageCounter) AddSignalsServed(ctx context.Context, userID string, n int) (int64, error) {
	if userID == "" || n <= 0 {
		return 0, nil
	}

	key := usageKey(userID, time.Now().UTC())
	pipe := u.client.TxPipeline()
	incr := pipe.IncrBy(ctx, key, int64(n))
	pipe.ExpireAt(ctx, key, endOfDay(time.Now().UTC()))
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("usage increment: %w", err)
	}
	return incr.Val(), nil
}

func (u *RedisUsageCounter) SignalsServedToday(ctx context.Context, userID string) (int64, error) {
	key := usageKey(userID, time.Now().UTC())
	n, err := u.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("usage read: %w", err)
	}
	return n, nil
}

func usageKey(userID string, day time.Time) string {
	return fmt.Sprintf("tradecoin:usage:%s:%s", userID, util.DayKey(day))
}

// endOfDay keeps the counter around for an extra hour so that
// late readers near midnight still see the previous day.
func endOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Add(25 * time.Hour)
}
