package store

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/exhibitkit/core"
)

func TestMemoryStore_GetSetDelete(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if _, err := ms.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("missing key error = %v, want ErrStoreNotFound", err)
	}

	if err := ms.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	got, err := ms.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "v" {
		t.Errorf("value = %q, want v", got)
	}

	if err := ms.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, err := ms.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Error("deleted key must be gone")
	}
}

func TestMemoryStore_TTL(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if err := ms.Set(ctx, "fast", []byte("x"), 1); err != nil {
		t.Fatal(err)
	}
	if _, err := ms.Get(ctx, "fast"); err != nil {
		t.Fatalf("key must live until ttl: %v", err)
	}

	time.Sleep(1100 * time.Millisecond)
	if _, err := ms.Get(ctx, "fast"); !core.IsStoreNotFound(err) {
		t.Error("expired key must read as not found")
	}
}

func TestMemoryStore_Batch(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	kvs := map[string][]byte{
		"a": []byte("1"),
		"b": []byte("2"),
	}
	if err := ms.BatchSet(ctx, kvs); err != nil {
		t.Fatal(err)
	}

	got, err := ms.BatchGet(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2 (missing keys skipped)", len(got))
	}
	if string(got["a"]) != "1" || string(got["b"]) != "2" {
		t.Errorf("batch values = %v", got)
	}
}

func TestMemoryStore_Hash(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if err := ms.HSet(ctx, "visitor:1", "visits", []byte("7")); err != nil {
		t.Fatal(err)
	}
	if err := ms.HSet(ctx, "visitor:1", "dwell", []byte("120")); err != nil {
		t.Fatal(err)
	}

	got, err := ms.HGet(ctx, "visitor:1", "visits")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "7" {
		t.Errorf("HGet = %q, want 7", got)
	}
	if _, err := ms.HGet(ctx, "visitor:1", "nope"); !core.IsStoreNotFound(err) {
		t.Error("missing field must read as not found")
	}

	all, err := ms.HGetAll(ctx, "visitor:1")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || string(all["dwell"]) != "120" {
		t.Errorf("HGetAll = %v", all)
	}
	// 普通 key 不混入 hash
	if err := ms.Set(ctx, "visitor:1", []byte("plain")); err != nil {
		t.Fatal(err)
	}
	all, _ = ms.HGetAll(ctx, "visitor:1")
	if len(all) != 2 {
		t.Errorf("plain key leaked into hash fields: %v", all)
	}
}
