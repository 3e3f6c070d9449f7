package leave

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultBalanceCacheTTL = 5 * time.Minute

// BalanceCacheKey is the listing key for one cache generation.
func BalanceCacheKey(employeeID string, generation int64) string {
	return "leave:balances:" + employeeID + ":" + strconv.FormatInt(generation, 10)
}

func BalanceGenerationKey(employeeID string) string {
	return "leave:balances:" + employeeID + ":gen"
}

// balanceCache is a read-through cache for balance listings. Entries are
// keyed by a per-employee generation that invalidate bumps, so a load that
// raced an invalidation is written under a generation nobody reads again.
// A nil client disables it.
type balanceCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func newBalanceCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *balanceCache {
	if ttl <= 0 {
		ttl = defaultBalanceCacheTTL
	}
	return &balanceCache{rdb: rdb, ttl: ttl, logger: logger}
}

// generation reports the current generation, or false when the cache is
// disabled or unreadable.
func (c *balanceCache) generation(ctx context.Context, employeeID string) (int64, bool) {
	if c.rdb == nil {
		return 0, false
	}
	gen, err := c.rdb.Get(ctx, BalanceGenerationKey(employeeID)).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		return 0, true
	case err != nil:
		c.logger.Warn("read balance cache generation failed", zap.String("employee_id", employeeID), zap.Error(err))
		return 0, false
	}
	return gen, true
}

func (c *balanceCache) get(ctx context.Context, employeeID string, generation int64) ([]BalanceResponse, bool) {
	cached, err := c.rdb.Get(ctx, BalanceCacheKey(employeeID, generation)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("read balance cache failed", zap.String("employee_id", employeeID), zap.Error(err))
		}
		return nil, false
	}

	var resp []BalanceResponse
	if err := json.Unmarshal([]byte(cached), &resp); err != nil {
		return nil, false
	}
	return resp, true
}

func (c *balanceCache) set(ctx context.Context, employeeID string, generation int64, resp []BalanceResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, BalanceCacheKey(employeeID, generation), data, c.ttl).Err(); err != nil {
		c.logger.Warn("write balance cache failed", zap.String("employee_id", employeeID), zap.Error(err))
	}
}

func (c *balanceCache) invalidate(ctx context.Context, employeeID string) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Incr(ctx, BalanceGenerationKey(employeeID)).Err(); err != nil {
		c.logger.Error("invalidate balance cache failed", zap.String("employee_id", employeeID), zap.Error(err))
	}
}
