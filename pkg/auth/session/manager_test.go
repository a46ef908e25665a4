package session

import (
	"context"
	"testing"
	"time"

	"github.com/Kobby-jnrr/kstore-backend/pkg/config"
)

type fakeStore struct {
	values map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.values[key] = "1"
	return nil
}

func (f *fakeStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.values[key]
	return ok, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeStore) SessionKey(sessionID string) string {
	return "ks:session:" + sessionID
}

func TestSessionLifecycle(t *testing.T) {
	mgr, err := NewManager(newFakeStore(), config.JWTConfig{ExpirationMinutes: 15})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	ctx := context.Background()
	if err := mgr.Register(ctx, "jti-1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	ok, err := mgr.HasSession(ctx, "jti-1")
	if err != nil || !ok {
		t.Fatalf("expected live session, ok=%v err=%v", ok, err)
	}

	if err := mgr.Revoke(ctx, "jti-1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	ok, _ = mgr.HasSession(ctx, "jti-1")
	if ok {
		t.Fatal("expected session to be revoked")
	}
}

func TestHasSessionEmptyID(t *testing.T) {
	mgr, _ := NewManager(newFakeStore(), config.JWTConfig{ExpirationMinutes: 15})
	ok, err := mgr.HasSession(context.Background(), "")
	if err != nil || ok {
		t.Fatalf("empty session id should be false, ok=%v err=%v", ok, err)
	}
}
