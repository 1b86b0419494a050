package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/shobhit-APP/smart-agriculture-backend/internal/domain"
	"github.com/shobhit-APP/smart-agriculture-backend/internal/repository"
	"github.com/shobhit-APP/smart-agriculture-backend/pkg/telemetry"
)

// UserAdminService handles the admin-only account operations. Block and
// unblock keep the users table authoritative and mirror the change into
// the blocklist cache.
type UserAdminService struct {
	users     repository.UserRepository
	blocklist *Blocklist
	log       *zap.Logger
}

// NewUserAdminService creates the admin service.
func NewUserAdminService(users repository.UserRepository, blocklist *Blocklist, log *zap.Logger) *UserAdminService {
	return &UserAdminService{users: users, blocklist: blocklist, log: log}
}

// ListUsers pages through accounts.
func (s *UserAdminService) ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(ctx, limit, offset)
}

// GetUser returns one account.
func (s *UserAdminService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrAccountNotFound
	}
	return user, nil
}

// BlockUser marks the account blocked and adds it to the blocklist cache
// so outstanding sessions are cut off at login and at the gate.
func (s *UserAdminService) BlockUser(ctx context.Context, id int64) error {
	ctx, span := telemetry.StartSpan(ctx, "UserAdminService.BlockUser")
	defer span.End()

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrAccountNotFound
	}

	if err := s.users.UpdateStatus(ctx, id, domain.StatusBlocked); err != nil {
		return err
	}
	s.blocklist.Add(ctx, id)
	s.log.Info("user blocked", zap.Int64("user_id", id))
	return nil
}

// UnblockUser restores a blocked account to active and clears the cache
// entry. Only the explicit unblock path leaves the blocked state.
func (s *UserAdminService) UnblockUser(ctx context.Context, id int64) error {
	ctx, span := telemetry.StartSpan(ctx, "UserAdminService.UnblockUser")
	defer span.End()

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrAccountNotFound
	}

	if err := s.users.UpdateStatus(ctx, id, domain.StatusActive); err != nil {
		return err
	}
	s.blocklist.Remove(ctx, id)
	s.log.Info("user unblocked", zap.Int64("user_id", id))
	return nil
}

// BlocklistOverview is the admin dashboard view of the blocklist cache.
type BlocklistOverview struct {
	Count   int64   `json:"count"`
	UserIDs []int64 `json:"user_ids"`
}

// BlocklistSnapshot reads the cache-side blocklist.
func (s *UserAdminService) BlocklistSnapshot(ctx context.Context) *BlocklistOverview {
	return &BlocklistOverview{
		Count:   s.blocklist.Count(ctx),
		UserIDs: s.blocklist.ListAll(ctx),
	}
}
