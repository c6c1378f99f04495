package state

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"sync"
	"time"

	"github.com/kaido-imports/kaido/internal/domain"
)

type childSet struct {
	images []domain.VehicleImage
	specs  []domain.VehicleSpec
}

type MemoryStore struct {
	mu sync.RWMutex

	vehicles  map[string]domain.Vehicle // source_id -> vehicle
	children  map[string]childSet       // vehicle_id -> children
	quoteLogs []QuoteLogRecord
	idem      map[string]map[string]IdempotencyRecord // endpoint -> keyhash -> record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		vehicles: make(map[string]domain.Vehicle),
		children: make(map[string]childSet),
		idem:     make(map[string]map[string]IdempotencyRecord),
	}
}

func (s *MemoryStore) GetVehicleBySourceID(ctx context.Context, sourceID string) (domain.Vehicle, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vehicles[sourceID]
	return v, ok, nil
}

func (s *MemoryStore) UpsertVehicle(ctx context.Context, v domain.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.vehicles[v.SourceID]; ok {
		// Insert-or-update keyed by source id: identity and creation time
		// belong to the existing row.
		v.ID = existing.ID
		v.CreatedAt = existing.CreatedAt
	}

	s.vehicles[v.SourceID] = v
	return nil
}

func (s *MemoryStore) DeleteVehicleBySourceID(ctx context.Context, sourceID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vehicles[sourceID]
	if !ok {
		return false, nil
	}

	delete(s.vehicles, sourceID)
	delete(s.children, v.ID)
	return true, nil
}

func (s *MemoryStore) ReplaceVehicleChildren(ctx context.Context, vehicleID string, images []domain.VehicleImage, specs []domain.VehicleSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.children, vehicleID)

	cs := childSet{
		images: make([]domain.VehicleImage, len(images)),
		specs:  make([]domain.VehicleSpec, len(specs)),
	}
	copy(cs.images, images)
	copy(cs.specs, specs)

	s.children[vehicleID] = cs
	return nil
}

func (s *MemoryStore) InsertQuoteLog(ctx context.Context, rec QuoteLogRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.quoteLogs = append(s.quoteLogs, rec)
	return nil
}

func (s *MemoryStore) GetIdempotency(ctx context.Context, endpoint string, idemKeyHash string) (IdempotencyRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ep, ok := s.idem[endpoint]
	if !ok {
		return IdempotencyRecord{}, false, nil
	}
	rec, ok := ep[idemKeyHash]
	if !ok {
		return IdempotencyRecord{}, false, nil
	}

	if time.Now().UTC().After(rec.ExpiresAt) {
		return IdempotencyRecord{}, false, nil
	}

	return rec, true, nil
}

func (s *MemoryStore) PutIdempotency(ctx context.Context, endpoint string, idemKeyHash string, rec IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ep, ok := s.idem[endpoint]
	if !ok {
		ep = make(map[string]IdempotencyRecord)
		s.idem[endpoint] = ep
	}
	ep[idemKeyHash] = rec
	return nil
}

// Helper for hashing idempotency keys deterministically.
func HashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// VehicleChildren returns copies of a vehicle's current child rows.
func (s *MemoryStore) VehicleChildren(vehicleID string) ([]domain.VehicleImage, []domain.VehicleSpec) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cs, ok := s.children[vehicleID]
	if !ok {
		return nil, nil
	}

	images := make([]domain.VehicleImage, len(cs.images))
	specs := make([]domain.VehicleSpec, len(cs.specs))
	copy(images, cs.images)
	copy(specs, cs.specs)
	return images, specs
}

// ListVehicles returns all vehicles ordered by source id for predictability.
func (s *MemoryStore) ListVehicles() []domain.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		out = append(out, v)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].SourceID < out[j].SourceID
	})

	return out
}

// QuoteLogs returns a copy of the quote telemetry written so far.
func (s *MemoryStore) QuoteLogs() []QuoteLogRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]QuoteLogRecord, len(s.quoteLogs))
	copy(out, s.quoteLogs)
	return out
}
