package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeStore struct {
	keys        map[string]bool
	setNXError  error
	lastTTL     time.Duration
	lastDeleted string
}

func newFakeStore() *fakeStore {
	return &fakeStore{keys: map[string]bool{}}
}

func (f *fakeStore) Get(context.Context, string) (string, error) {
	return "", nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, _ any, ttl time.Duration) (bool, error) {
	f.lastTTL = ttl
	if f.setNXError != nil {
		return false, f.setNXError
	}
	if f.keys[key] {
		return false, nil
	}
	f.keys[key] = true
	return true, nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return "av:idempotency:" + scope + ":" + id
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.keys, key)
		f.lastDeleted = key
	}
	return nil
}

func TestCheckAndMark(t *testing.T) {
	store := newFakeStore()
	manager, err := NewManager(store, 24*time.Hour)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	seen, err := manager.CheckAndMark(context.Background(), "room-relay", "evt-1")
	if err != nil || seen {
		t.Fatalf("first check should be unseen, seen=%v err=%v", seen, err)
	}
	if store.lastTTL != 24*time.Hour {
		t.Fatalf("unexpected ttl %v", store.lastTTL)
	}

	seen, err = manager.CheckAndMark(context.Background(), "room-relay", "evt-1")
	if err != nil || !seen {
		t.Fatalf("second check should be seen, seen=%v err=%v", seen, err)
	}

	if err := manager.Forget(context.Background(), "room-relay", "evt-1"); err != nil {
		t.Fatalf("Forget: %v", err)
	}
	if store.lastDeleted != "av:idempotency:evt:room-relay:evt-1" {
		t.Fatalf("unexpected deleted key %q", store.lastDeleted)
	}
}

func TestCheckAndMarkValidation(t *testing.T) {
	manager, _ := NewManager(newFakeStore(), time.Hour)
	if _, err := manager.CheckAndMark(context.Background(), "", "evt"); err == nil {
		t.Fatal("expected error for missing consumer")
	}
	if _, err := manager.CheckAndMark(context.Background(), "relay", ""); err == nil {
		t.Fatal("expected error for missing event id")
	}
	if _, err := NewManager(nil, time.Hour); err == nil {
		t.Fatal("expected error for nil store")
	}
}

func TestCheckAndMarkPropagatesStoreError(t *testing.T) {
	store := newFakeStore()
	store.setNXError = errors.New("redis down")
	manager, _ := NewManager(store, time.Hour)
	if _, err := manager.CheckAndMark(context.Background(), "relay", "evt"); err == nil {
		t.Fatal("expected store error")
	}
}
