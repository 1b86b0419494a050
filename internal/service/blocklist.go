package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/shobhit-APP/smart-agriculture-backend/internal/cache"
)

const blocklistKey = "blocked_users"

// Blocklist is the shared set of blocked user ids kept in the cache.
// It is an accelerator for the admin dashboard and a defense-in-depth
// signal at login; the users table status column stays authoritative,
// so every operation here is best-effort and never fails the caller.
type Blocklist struct {
	cache *cache.Client
	log   *zap.Logger
}

// NewBlocklist creates a blocklist over the resilient cache client.
func NewBlocklist(cacheClient *cache.Client, log *zap.Logger) *Blocklist {
	return &Blocklist{cache: cacheClient, log: log}
}

// Add records a user id as blocked. Called on explicit admin block and
// opportunistically when a login hits a DB-flagged blocked account.
func (b *Blocklist) Add(ctx context.Context, userID int64) {
	if err := b.cache.SAdd(ctx, blocklistKey, strconv.FormatInt(userID, 10)); err != nil {
		b.log.Warn("blocklist add failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}

// Remove drops a user id from the blocklist on unblock.
func (b *Blocklist) Remove(ctx context.Context, userID int64) {
	if err := b.cache.SRem(ctx, blocklistKey, strconv.FormatInt(userID, 10)); err != nil {
		b.log.Warn("blocklist remove failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}

// IsBlocked reports cache membership. Returns false when the cache is
// unavailable; callers must still consult the credential store.
func (b *Blocklist) IsBlocked(ctx context.Context, userID int64) bool {
	blocked, err := b.cache.SIsMember(ctx, blocklistKey, strconv.FormatInt(userID, 10))
	if err != nil {
		b.log.Warn("blocklist lookup failed", zap.Int64("user_id", userID), zap.Error(err))
		return false
	}
	return blocked
}

// Count returns the number of blocked users, 0 on cache failure.
func (b *Blocklist) Count(ctx context.Context) int64 {
	n, err := b.cache.SCard(ctx, blocklistKey)
	if err != nil {
		b.log.Warn("blocklist count failed", zap.Error(err))
		return 0
	}
	return n
}

// ListAll returns all blocked user ids, nil on cache failure. Entries
// that do not parse as ids are skipped.
func (b *Blocklist) ListAll(ctx context.Context) []int64 {
	members, err := b.cache.SMembers(ctx, blocklistKey)
	if err != nil {
		b.log.Warn("blocklist list failed", zap.Error(err))
		return nil
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
