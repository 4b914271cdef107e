package store_test

import (
	"context"
	"testing"

	"quizforge/internal/infra/memory"
	"quizforge/internal/store"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestSetGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewBackend()
	adapter := store.New(backend, nil)

	if !adapter.Set(ctx, "slot", record{Name: "a", Count: 3}) {
		t.Fatalf("set failed")
	}
	var got record
	if !adapter.Get(ctx, "slot", &got) {
		t.Fatalf("get failed")
	}
	if got.Name != "a" || got.Count != 3 {
		t.Fatalf("unexpected value: %+v", got)
	}
}

func TestGetAbsentKey(t *testing.T) {
	adapter := store.New(memory.NewBackend(), nil)
	var got record
	if adapter.Get(context.Background(), "missing", &got) {
		t.Fatalf("expected absent key to report false")
	}
}

func TestGetTreatsSentinelValuesAsAbsent(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewBackend()
	adapter := store.New(backend, nil)

	for _, raw := range []string{"undefined", "null", "", "   "} {
		backend.Put("slot", raw)
		var got record
		if adapter.Get(ctx, "slot", &got) {
			t.Fatalf("expected %q to be treated as absent", raw)
		}
	}
}

func TestGetDeletesCorruptedValue(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewBackend()
	adapter := store.New(backend, nil)

	backend.Put("slot", "{broken")
	var got record
	if adapter.Get(ctx, "slot", &got) {
		t.Fatalf("expected corrupted value to report absent")
	}
	if _, ok := backend.Dump()["slot"]; ok {
		t.Fatalf("expected corrupted value deleted")
	}
}

func TestUnavailableBackendNoOps(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewBackend()
	adapter := store.New(backend, nil)
	backend.SetAvailable(false)

	if adapter.Set(ctx, "slot", record{}) {
		t.Fatalf("expected set to fail while unavailable")
	}
	var got record
	if adapter.Get(ctx, "slot", &got) {
		t.Fatalf("expected get to fail while unavailable")
	}
	if adapter.Remove(ctx, "slot") {
		t.Fatalf("expected remove to fail while unavailable")
	}
}

func TestWithPrefixScopesKeys(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewBackend()
	adapter := store.New(backend, nil)

	a := adapter.WithPrefix("session:a:")
	b := adapter.WithPrefix("session:b:")

	if !a.Set(ctx, "slot", record{Name: "a"}) {
		t.Fatalf("set failed")
	}
	var got record
	if b.Get(ctx, "slot", &got) {
		t.Fatalf("expected b's namespace to be empty")
	}
	if !a.Get(ctx, "slot", &got) || got.Name != "a" {
		t.Fatalf("expected a's value intact, got %+v", got)
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewBackend()
	adapter := store.New(backend, nil)

	adapter.Set(ctx, "slot", record{Name: "x"})
	if !adapter.Remove(ctx, "slot") {
		t.Fatalf("remove failed")
	}
	var got record
	if adapter.Get(ctx, "slot", &got) {
		t.Fatalf("expected key gone after remove")
	}
}
