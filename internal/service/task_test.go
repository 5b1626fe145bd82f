package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mindhq/mindcore/internal/domain"
	"github.com/mindhq/mindcore/internal/domain/audit"
	"github.com/mindhq/mindcore/internal/domain/task"
)

// memCache is a map-backed cache.Cache for tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// countingStore wraps fakeStore and counts GetTask calls.
type countingStore struct {
	*fakeStore
	gets int
}

func (s *countingStore) GetTask(ctx context.Context, id string) (*task.Task, error) {
	s.gets++
	return s.fakeStore.GetTask(ctx, id)
}

func TestGetChecksOwnership(t *testing.T) {
	store := newFakeStore()
	created, _ := store.CreateTask(context.Background(), submitReq(), "ok")
	svc := NewTaskService(store, &fakeAudit{}, nil, 0)

	if _, err := svc.Get(context.Background(), created.ID, "u1"); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	_, err := svc.Get(context.Background(), created.ID, "intruder")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestGetMissingTask(t *testing.T) {
	svc := NewTaskService(newFakeStore(), &fakeAudit{}, nil, 0)

	_, err := svc.Get(context.Background(), "nope", "u1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetReadsThroughCache(t *testing.T) {
	store := &countingStore{fakeStore: newFakeStore()}
	created, _ := store.CreateTask(context.Background(), submitReq(), "ok")
	svc := NewTaskService(store, &fakeAudit{}, newMemCache(), time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := svc.Get(context.Background(), created.ID, "u1"); err != nil {
			t.Fatal(err)
		}
	}
	if store.gets != 1 {
		t.Errorf("store reads = %d, want 1 (cache miss only)", store.gets)
	}
}

func TestInvalidateDropsCacheEntry(t *testing.T) {
	store := &countingStore{fakeStore: newFakeStore()}
	created, _ := store.CreateTask(context.Background(), submitReq(), "ok")
	svc := NewTaskService(store, &fakeAudit{}, newMemCache(), time.Minute)

	_, _ = svc.Get(context.Background(), created.ID, "u1")
	svc.invalidate(context.Background(), created.ID)
	_, _ = svc.Get(context.Background(), created.ID, "u1")

	if store.gets != 2 {
		t.Errorf("store reads = %d, want 2 after invalidation", store.gets)
	}
}

func TestAuditChecksOwnership(t *testing.T) {
	store := newFakeStore()
	auditLog := &fakeAudit{}
	created, _ := store.CreateTask(context.Background(), submitReq(), "ok")
	_ = auditLog.Append(context.Background(), &audit.Entry{
		TaskID: created.ID, ActorID: "u1", Action: audit.ActionCancelled,
	})
	svc := NewTaskService(store, auditLog, nil, 0)

	entries, err := svc.Audit(context.Background(), created.ID, "u1")
	if err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("entries = %d", len(entries))
	}

	_, err = svc.Audit(context.Background(), created.ID, "intruder")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestListReturnsOwnTasksOnly(t *testing.T) {
	store := newFakeStore()
	_, _ = store.CreateTask(context.Background(), submitReq(), "ok")
	other := submitReq()
	other.RequesterID = "u2"
	_, _ = store.CreateTask(context.Background(), other, "ok")
	svc := NewTaskService(store, &fakeAudit{}, nil, 0)

	got, err := svc.List(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].RequesterID != "u1" {
		t.Errorf("list = %+v", got)
	}
}
