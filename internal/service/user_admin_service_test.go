package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/shobhit-APP/smart-agriculture-backend/internal/domain"
)

func TestUserAdminService_BlockUnblock(t *testing.T) {
	c, _ := newTestCache(t)
	users := NewMockUserRepository()
	bl := NewBlocklist(c, zap.NewNop())
	svc := NewUserAdminService(users, bl, zap.NewNop())
	ctx := context.Background()

	user := &domain.User{
		Username: "somchai", Email: "somchai@example.com", Phone: "+66812345678",
		Status: domain.StatusActive, Verification: domain.VerificationVerified, Role: domain.RoleFarmer,
	}
	if err := users.Create(ctx, user); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	if err := svc.BlockUser(ctx, user.ID); err != nil {
		t.Fatalf("BlockUser() error = %v", err)
	}

	stored, _ := users.GetByID(ctx, user.ID)
	if stored.Status != domain.StatusBlocked {
		t.Errorf("status after block = %v, want blocked", stored.Status)
	}
	if !bl.IsBlocked(ctx, user.ID) {
		t.Error("blocklist does not contain the blocked user")
	}

	snapshot := svc.BlocklistSnapshot(ctx)
	if snapshot.Count != 1 || len(snapshot.UserIDs) != 1 {
		t.Errorf("BlocklistSnapshot() = %+v, want one entry", snapshot)
	}

	if err := svc.UnblockUser(ctx, user.ID); err != nil {
		t.Fatalf("UnblockUser() error = %v", err)
	}

	stored, _ = users.GetByID(ctx, user.ID)
	if stored.Status != domain.StatusActive {
		t.Errorf("status after unblock = %v, want active", stored.Status)
	}
	if bl.IsBlocked(ctx, user.ID) {
		t.Error("blocklist still contains the unblocked user")
	}
}

func TestUserAdminService_UnknownUser(t *testing.T) {
	c, _ := newTestCache(t)
	svc := NewUserAdminService(NewMockUserRepository(), NewBlocklist(c, zap.NewNop()), zap.NewNop())
	ctx := context.Background()

	if err := svc.BlockUser(ctx, 404); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("BlockUser() error = %v, want %v", err, ErrAccountNotFound)
	}
	if err := svc.UnblockUser(ctx, 404); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("UnblockUser() error = %v, want %v", err, ErrAccountNotFound)
	}
	if _, err := svc.GetUser(ctx, 404); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("GetUser() error = %v, want %v", err, ErrAccountNotFound)
	}
}
