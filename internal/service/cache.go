package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
)

// balanceCache is a best-effort read cache for balance lookups. It is never
// consulted inside a mutation transaction, so a stale or missing entry can
// only make a read fall through to the database, never corrupt a balance.
// A nil client disables caching entirely.
type balanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func balanceKey(accountID int64) string {
	return fmt.Sprintf("account:balance:%d", accountID)
}

func (c *balanceCache) get(ctx context.Context, accountID int64) (decimal.Decimal, bool) {
	if c == nil || c.client == nil {
		return decimal.Zero, false
	}
	val, err := c.client.Get(ctx, balanceKey(accountID)).Result()
	if err != nil {
		return decimal.Zero, false
	}
	balance, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, false
	}
	return balance, true
}

func (c *balanceCache) set(ctx context.Context, accountID int64, balance decimal.Decimal) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Set(ctx, balanceKey(accountID), balance.String(), c.ttl).Err(); err != nil {
		log.Printf("[BalanceCache] set failed: accountID=%d, err=%v", accountID, err)
	}
}

// invalidate drops the cached balance after a committed mutation.
func (c *balanceCache) invalidate(ctx context.Context, accountIDs ...int64) {
	if c == nil || c.client == nil {
		return
	}
	keys := make([]string, 0, len(accountIDs))
	for _, id := range accountIDs {
		keys = append(keys, balanceKey(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[BalanceCache] invalidate failed: accountIDs=%v, err=%v", accountIDs, err)
	}
}
