package local_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/glosa/pkg/adapters/kv"
	"github.com/aretw0/glosa/pkg/adapters/local"
	"github.com/aretw0/glosa/pkg/core"
)

const pageURI = "http://example.com/page"

func setupStore(t *testing.T, cfg local.Config) (*local.Store, *kv.Store) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "annotations.db")
	backing, err := kv.Open(path, "glosa", kv.Options{})
	if err != nil {
		t.Fatalf("kv.Open failed: %v", err)
	}
	t.Cleanup(func() { _ = backing.Close() })

	if cfg.URI == "" {
		cfg.URI = pageURI
	}
	return local.New(backing, cfg), backing
}

func TestCreate(t *testing.T) {
	t.Run("Assigns UUID And URI", func(t *testing.T) {
		store, _ := setupStore(t, local.Config{})

		ann := core.Annotation{"text": "hello"}
		got, err := store.Create(context.Background(), ann)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		if got.UUID() == "" {
			t.Error("expected a generated uuid")
		}
		if got.URI() != pageURI {
			t.Errorf("expected uri %q, got %q", pageURI, got.URI())
		}

		// The returned annotation is the same object that went in.
		got["probe"] = true
		if _, ok := ann["probe"]; !ok {
			t.Error("Create must return the caller's annotation")
		}
	})

	t.Run("Reuses Existing UUID", func(t *testing.T) {
		store, _ := setupStore(t, local.Config{})

		ann := core.Annotation{"uuid": "fixed", "text": "hello"}
		if _, err := store.Create(context.Background(), ann); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if ann.UUID() != "fixed" {
			t.Errorf("uuid should be reused, got %q", ann.UUID())
		}
	})
}

func TestRoundTrip(t *testing.T) {
	store, _ := setupStore(t, local.Config{})
	ctx := context.Background()

	ann := core.Annotation{"text": "note"}
	if _, err := store.Create(ctx, ann); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	page, err := store.Query(ctx, core.Query{URI: pageURI})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	found := false
	for _, got := range page.Results {
		if got.UUID() == ann.UUID() {
			found = true
		}
	}
	if !found {
		t.Errorf("created annotation %q missing from query results", ann.UUID())
	}
	if page.Meta.Total() != len(page.Results) {
		t.Errorf("meta total %d does not match results %d", page.Meta.Total(), len(page.Results))
	}
}

func TestQueryFiltering(t *testing.T) {
	store, backing := setupStore(t, local.Config{})
	ctx := context.Background()

	// A record for another document, written by a store scoped elsewhere.
	other := local.New(backing, local.Config{URI: "http://example.com/other"})
	if _, err := other.Create(ctx, core.Annotation{"text": "elsewhere"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := store.Create(ctx, core.Annotation{"text": "here", "user": "ana"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("URI Equality", func(t *testing.T) {
		page, err := store.Query(ctx, core.Query{URI: pageURI})
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if len(page.Results) != 1 {
			t.Fatalf("expected 1 result, got %d", len(page.Results))
		}
	})

	t.Run("URI Glob", func(t *testing.T) {
		page, err := store.Query(ctx, core.Query{URI: "http://example.com/*"})
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if len(page.Results) != 2 {
			t.Fatalf("expected 2 results for glob, got %d", len(page.Results))
		}
	})

	t.Run("User", func(t *testing.T) {
		page, err := store.Query(ctx, core.Query{URI: "http://example.com/*", User: "ana"})
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if len(page.Results) != 1 {
			t.Fatalf("expected 1 result for user filter, got %d", len(page.Results))
		}
	})
}

func TestUpdateWithoutUUIDActsAsCreate(t *testing.T) {
	store, _ := setupStore(t, local.Config{})
	ctx := context.Background()

	ann := core.Annotation{"text": "orphan"}
	if _, err := store.Update(ctx, ann); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if ann.UUID() == "" {
		t.Fatal("update without uuid should have persisted under a new key")
	}

	page, err := store.Query(ctx, core.Query{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(page.Results) != 1 {
		t.Errorf("expected the record to exist, got %d results", len(page.Results))
	}
}

func TestDeleteIdempotent(t *testing.T) {
	store, _ := setupStore(t, local.Config{})
	ctx := context.Background()

	ann := core.Annotation{"text": "goner"}
	if _, err := store.Create(ctx, ann); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := store.Delete(ctx, ann); err != nil {
		t.Fatalf("first Delete failed: %v", err)
	}
	if _, err := store.Delete(ctx, ann); err != nil {
		t.Errorf("second Delete should not error: %v", err)
	}

	page, err := store.Query(ctx, core.Query{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(page.Results) != 0 {
		t.Errorf("expected no results after delete, got %d", len(page.Results))
	}
}

func TestSharedBackingStore(t *testing.T) {
	// Two instances over one backing store: a record created through X is
	// visible to a query through Y.
	storeX, backing := setupStore(t, local.Config{})
	storeY := local.New(backing, local.Config{URI: pageURI})
	ctx := context.Background()

	ann := core.Annotation{"text": "shared"}
	if _, err := storeX.Create(ctx, ann); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	page, err := storeY.Query(ctx, core.Query{URI: pageURI})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(page.Results) != 1 || page.Results[0].UUID() != ann.UUID() {
		t.Errorf("instance Y should see X's record, got %v", page.Results)
	}
}

func TestCached(t *testing.T) {
	store, _ := setupStore(t, local.Config{})
	ctx := context.Background()

	ann := core.Annotation{"text": "cached"}
	if _, err := store.Create(ctx, ann); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, found, err := store.Cached(ann.UUID())
	if err != nil {
		t.Fatalf("Cached failed: %v", err)
	}
	if !found || got["text"] != "cached" {
		t.Errorf("expected cache hit with content, got found=%v %v", found, got)
	}

	if _, found, err := store.Cached("no-such-uuid"); err != nil || found {
		t.Errorf("expected miss, got found=%v err=%v", found, err)
	}
}

func TestWatchDeliversEvents(t *testing.T) {
	store, _ := setupStore(t, local.Config{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := store.Watch(ctx, "**")
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	ann := core.Annotation{"text": "observed"}
	if _, err := store.Create(ctx, ann); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	select {
	case e := <-events:
		if e.Type != core.EventCreate || e.UUID != ann.UUID() {
			t.Errorf("unexpected event %v", e)
		}
	default:
		t.Error("expected a buffered create event")
	}
}
