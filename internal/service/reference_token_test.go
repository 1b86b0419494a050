package service

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestReferenceTokenService_WrapAndResolve(t *testing.T) {
	c, _ := newTestCache(t)
	svc := NewReferenceTokenService(c, 5*24*time.Hour)
	ctx := context.Background()

	ref, err := svc.Wrap(ctx, "session-token-a", time.Hour)
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}
	if ref == "" {
		t.Fatal("Wrap() returned empty reference")
	}

	token, err := svc.Resolve(ctx, ref)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if token != "session-token-a" {
		t.Errorf("Resolve() = %q, want session-token-a", token)
	}
}

func TestReferenceTokenService_ResolveUnknown(t *testing.T) {
	c, _ := newTestCache(t)
	svc := NewReferenceTokenService(c, time.Hour)

	if _, err := svc.Resolve(context.Background(), "never-issued"); !errors.Is(err, ErrReferenceTokenNotFound) {
		t.Errorf("Resolve(unknown) error = %v, want %v", err, ErrReferenceTokenNotFound)
	}
}

func TestReferenceTokenService_Invalidate(t *testing.T) {
	c, _ := newTestCache(t)
	svc := NewReferenceTokenService(c, time.Hour)
	ctx := context.Background()

	ref, err := svc.Wrap(ctx, "session-token-b", time.Hour)
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}

	if err := svc.Invalidate(ctx, ref); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}

	if _, err := svc.Resolve(ctx, ref); !errors.Is(err, ErrReferenceTokenNotFound) {
		t.Errorf("Resolve() after Invalidate error = %v, want %v", err, ErrReferenceTokenNotFound)
	}

	// Invalidating again is a no-op.
	if err := svc.Invalidate(ctx, ref); err != nil {
		t.Errorf("Invalidate() second call error = %v", err)
	}
}

func TestReferenceTokenService_IndependentSessions(t *testing.T) {
	c, _ := newTestCache(t)
	svc := NewReferenceTokenService(c, time.Hour)
	ctx := context.Background()

	refA, err := svc.Wrap(ctx, "session-token-a", time.Hour)
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}
	refB, err := svc.Wrap(ctx, "session-token-b", time.Hour)
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}
	if refA == refB {
		t.Fatal("Wrap() issued the same reference for two sessions")
	}

	if err := svc.Invalidate(ctx, refA); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}

	token, err := svc.Resolve(ctx, refB)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if token != "session-token-b" {
		t.Errorf("Resolve() = %q, want session-token-b", token)
	}
}

func TestReferenceTokenService_TTLCappedByTokenLife(t *testing.T) {
	c, mr := newTestCache(t)
	svc := NewReferenceTokenService(c, 5*24*time.Hour)
	ctx := context.Background()

	ref, err := svc.Wrap(ctx, "short-lived", 10*time.Minute)
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}

	mr.FastForward(11 * time.Minute)

	if _, err := svc.Resolve(ctx, ref); !errors.Is(err, ErrReferenceTokenNotFound) {
		t.Errorf("Resolve() past token life error = %v, want %v", err, ErrReferenceTokenNotFound)
	}
}
