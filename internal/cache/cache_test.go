package cache

import (
	"context"
	"testing"
	"time"
)

type profile struct {
	ID       uint64 `json:"id"`
	FullName string `json:"fullName"`
}

func TestReplaceThenGet(t *testing.T) {
	svc := New(NewMemoryStore(), time.Minute)
	ctx := context.Background()

	key := UserKey(42)
	if err := svc.Replace(ctx, key, profile{ID: 42, FullName: "Jo Staff"}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	var got profile
	ok, err := svc.Get(ctx, key, &got)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.FullName != "Jo Staff" {
		t.Errorf("got %+v", got)
	}
}

func TestInvalidateDropsEntry(t *testing.T) {
	svc := New(NewMemoryStore(), time.Minute)
	ctx := context.Background()

	if err := svc.Replace(ctx, KeyBookings, []int{1, 2, 3}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := svc.Invalidate(ctx, KeyBookings); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	var got []int
	ok, err := svc.Get(ctx, KeyBookings, &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Error("entry should be gone after invalidate")
	}

	// Invalidating an absent key is a no-op, not an error.
	if err := svc.Invalidate(ctx, KeyBookings); err != nil {
		t.Errorf("second invalidate: %v", err)
	}
}

func TestLastReplaceWins(t *testing.T) {
	svc := New(NewMemoryStore(), time.Minute)
	ctx := context.Background()

	key := UserKey(1)
	_ = svc.Replace(ctx, key, profile{ID: 1, FullName: "first"})
	_ = svc.Replace(ctx, key, profile{ID: 1, FullName: "second"})

	var got profile
	if ok, _ := svc.Get(ctx, key, &got); !ok || got.FullName != "second" {
		t.Errorf("expected last write to win, got ok=%v %+v", ok, got)
	}
}

func TestCorruptEntryIsAMiss(t *testing.T) {
	store := NewMemoryStore()
	svc := New(store, time.Minute)
	ctx := context.Background()

	if err := store.Set(ctx, KeySettings, []byte("{not json"), time.Minute); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var got profile
	ok, err := svc.Get(ctx, KeySettings, &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Error("corrupt entry must read as a miss")
	}
	// And the bad entry is dropped so it cannot poison later reads.
	if _, present, _ := store.Get(ctx, KeySettings); present {
		t.Error("corrupt entry should have been deleted")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	if err := store.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Error("expired entry should not be returned")
	}
}

func TestUserKey(t *testing.T) {
	if got := UserKey(0); got != "user:0" {
		t.Errorf("UserKey(0) = %q", got)
	}
	if got := UserKey(987654); got != "user:987654" {
		t.Errorf("UserKey(987654) = %q", got)
	}
}
