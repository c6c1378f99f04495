package cms

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kaido-imports/kaido/internal/domain"
)

// FakeClient is an in-memory Client for tests.
type FakeClient struct {
	mu      sync.RWMutex
	records map[string]domain.CatalogRecord

	// Latency is applied to every call before the lookup.
	Latency time.Duration

	// GetErr/ListErr force failures when set.
	GetErr  error
	ListErr error
}

func NewFakeClient() *FakeClient {
	return &FakeClient{
		records: make(map[string]domain.CatalogRecord),
	}
}

func (f *FakeClient) Put(rec domain.CatalogRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[rec.ID] = rec
}

func (f *FakeClient) Remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, id)
}

func (f *FakeClient) GetRecord(ctx context.Context, id string) (domain.CatalogRecord, bool, error) {
	if f.Latency > 0 {
		select {
		case <-time.After(f.Latency):
		case <-ctx.Done():
			return domain.CatalogRecord{}, false, ctx.Err()
		}
	}

	if f.GetErr != nil {
		return domain.CatalogRecord{}, false, f.GetErr
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	rec, ok := f.records[id]
	return rec, ok, nil
}

func (f *FakeClient) ListRecords(ctx context.Context) ([]domain.CatalogRecord, error) {
	if f.Latency > 0 {
		select {
		case <-time.After(f.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if f.ListErr != nil {
		return nil, f.ListErr
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]domain.CatalogRecord, 0, len(f.records))
	for _, rec := range f.records {
		out = append(out, rec)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})

	return out, nil
}
