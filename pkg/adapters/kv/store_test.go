package kv_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/glosa/pkg/adapters/kv"
)

func openStore(t *testing.T, opts kv.Options) *kv.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	store, err := kv.Open(path, "testing", opts)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSetGetRoundTrip(t *testing.T) {
	store := openStore(t, kv.Options{})

	in := map[string]any{"uuid": "u1", "text": "hello"}
	if err := store.Set("annotation.u1", in, 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var out map[string]any
	found, err := store.Get("annotation.u1", &out)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("expected value to be found")
	}
	if out["text"] != "hello" {
		t.Errorf("round trip lost data: %v", out)
	}
}

func TestZeroTTLPersists(t *testing.T) {
	// A zero TTL means "persist forever", not "skip the write".
	store := openStore(t, kv.Options{})

	if err := store.Set("k", "v", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var out string
	found, err := store.Get("k", &out)
	if err != nil || !found {
		t.Fatalf("value should persist without expiry (found=%v, err=%v)", found, err)
	}
}

func TestExpiryEviction(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	store := openStore(t, kv.Options{Now: func() time.Time { return clock() }})

	if err := store.Set("k", "v", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var out string
	if found, _ := store.Get("k", &out); !found {
		t.Fatal("value should be live before expiry")
	}

	// Advance past the expiry.
	clock = func() time.Time { return now.Add(2 * time.Minute) }

	if found, err := store.Get("k", &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	} else if found {
		t.Error("expired value should be reported as absent")
	}

	// A second read stays absent: the record was evicted, not just hidden.
	if found, _ := store.Get("k", &out); found {
		t.Error("expired value should have been evicted")
	}
}

func TestAllPrefixScan(t *testing.T) {
	store := openStore(t, kv.Options{})

	for _, k := range []string{"annotation.a", "annotation.b", "other.c"} {
		if err := store.Set(k, map[string]any{"key": k}, 0); err != nil {
			t.Fatalf("Set %s failed: %v", k, err)
		}
	}

	values, err := store.All("annotation.")
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(values) != 2 {
		t.Errorf("expected 2 values under prefix, got %d", len(values))
	}
}

func TestRemoveIdempotent(t *testing.T) {
	store := openStore(t, kv.Options{})

	if err := store.Set("k", "v", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Remove("k"); err != nil {
		t.Fatalf("first Remove failed: %v", err)
	}
	if err := store.Remove("k"); err != nil {
		t.Errorf("second Remove should be a no-op, got %v", err)
	}
	if err := store.Remove("never-existed"); err != nil {
		t.Errorf("removing an absent key should not error, got %v", err)
	}
}

func TestClear(t *testing.T) {
	store := openStore(t, kv.Options{})

	for _, k := range []string{"a", "b", "c"} {
		if err := store.Set(k, k, 0); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	values, err := store.All("")
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("expected empty namespace after Clear, got %d values", len(values))
	}
}

func TestNamespaceIsolation(t *testing.T) {
	store := openStore(t, kv.Options{})

	other, err := store.Wrap("elsewhere")
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}

	if err := store.Set("k", "mine", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var out string
	if found, _ := other.Get("k", &out); found {
		t.Error("namespaces must not see each other's keys")
	}
}

func TestSupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe.db")
	if !kv.Supported(path) {
		t.Error("expected a writable temp path to be supported")
	}
}
