//go:build integration
// +build integration

package db

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"itemsapi/internal/config"
	"itemsapi/internal/domain"
	"itemsapi/internal/infra/db/testdb"
)

func newIntegrationStore(t *testing.T) *Store {
	t.Helper()
	dsn, cleanup := testdb.NewDatabase(t)
	t.Cleanup(cleanup)

	store, err := NewStore(config.Config{
		DatabaseURL:       dsn,
		DBMaxOpenConns:    4,
		DBMaxIdleConns:    2,
		DBConnMaxLifetime: time.Minute,
		DBConnectTimeout:  10 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return store
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	store := newIntegrationStore(t)
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}
	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestItemRepositoryEmptyList(t *testing.T) {
	store := newIntegrationStore(t)
	repo := NewItemRepository(store.DB)

	items, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", items)
	}
}

func TestItemRepositoryInsertAndList(t *testing.T) {
	store := newIntegrationStore(t)
	repo := NewItemRepository(store.DB)
	ctx := context.Background()

	created, err := repo.Insert(ctx, domain.NewItem{Name: "Widget", Desc: "A small widget"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if created.ID <= 0 {
		t.Fatalf("expected generated id, got %d", created.ID)
	}

	items, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0] != created {
		t.Fatalf("expected [%+v], got %+v", created, items)
	}
}

func TestItemRepositoryConcurrentInsertsGetUniqueIDs(t *testing.T) {
	store := newIntegrationStore(t)
	repo := NewItemRepository(store.DB)
	ctx := context.Background()

	const n = 32
	var wg sync.WaitGroup
	ids := make(chan int64, n)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			item, err := repo.Insert(ctx, domain.NewItem{Name: "dup", Desc: fmt.Sprintf("desc-%d", i)})
			if err != nil {
				errs <- err
				return
			}
			ids <- item.ID
		}(i)
	}
	wg.Wait()
	close(ids)
	close(errs)
	for err := range errs {
		t.Fatalf("Insert: %v", err)
	}
	seen := make(map[int64]bool, n)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}

	items, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != n {
		t.Fatalf("expected %d items, got %d", n, len(items))
	}
}
