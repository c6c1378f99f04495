package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kaido-imports/kaido/internal/cms"
	"github.com/kaido-imports/kaido/internal/state"
)

// Syncer copies catalog records from the content store into the relational
// store, one way. All dependencies are explicit; there is no ambient client.
// Construct with NewSyncer.
type Syncer struct {
	CMS    cms.Client
	Store  state.Store
	Logger *zap.SugaredLogger

	// Now is the sync clock. Defaults to time.Now; tests pin it.
	Now func() time.Time

	locks *keyedMutex
}

func NewSyncer(cmsClient cms.Client, store state.Store, logger *zap.SugaredLogger) *Syncer {
	return &Syncer{
		CMS:    cmsClient,
		Store:  store,
		Logger: logger,
		Now:    time.Now,
		locks:  newKeyedMutex(),
	}
}

// SyncOutcome reports where a synced record landed.
type SyncOutcome struct {
	VehicleID string `json:"carId"`
	SourceID  string `json:"sourceId"`
}

// SyncResult is one element of a batch sync.
type SyncResult struct {
	SourceID string `json:"sourceId"`
	Ok       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
}

// SyncOne fetches a single catalog record, transforms it, and upserts the
// vehicle row plus its fully replaced children. Syncs for the same source id
// are serialized; overlapping syncs of different ids run independently.
func (s *Syncer) SyncOne(ctx context.Context, sourceID string) (SyncOutcome, error) {
	unlock := s.lockKey(sourceID)
	defer unlock()

	rec, ok, err := s.CMS.GetRecord(ctx, sourceID)
	if err != nil {
		return SyncOutcome{}, fmt.Errorf("fetch catalog record: %w", err)
	}
	if !ok {
		return SyncOutcome{}, NotFoundError{SourceID: sourceID}
	}

	now := s.now()
	draft := Transform(rec, now)

	existing, exists, err := s.Store.GetVehicleBySourceID(ctx, sourceID)
	if err != nil {
		return SyncOutcome{}, fmt.Errorf("lookup vehicle: %w", err)
	}

	if exists {
		draft.Vehicle.ID = existing.ID
		draft.Vehicle.CreatedAt = existing.CreatedAt
	} else {
		draft.Vehicle.ID = uuid.NewString()
	}

	if err := s.Store.UpsertVehicle(ctx, draft.Vehicle); err != nil {
		return SyncOutcome{}, fmt.Errorf("upsert vehicle: %w", err)
	}

	for i := range draft.Images {
		draft.Images[i].VehicleID = draft.Vehicle.ID
	}
	for i := range draft.Specs {
		draft.Specs[i].VehicleID = draft.Vehicle.ID
	}

	if err := s.Store.ReplaceVehicleChildren(ctx, draft.Vehicle.ID, draft.Images, draft.Specs); err != nil {
		return SyncOutcome{}, fmt.Errorf("replace vehicle children: %w", err)
	}

	if s.Logger != nil {
		s.Logger.Infow("catalog record synced",
			"source_id", sourceID,
			"vehicle_id", draft.Vehicle.ID,
			"created", !exists,
		)
	}

	return SyncOutcome{VehicleID: draft.Vehicle.ID, SourceID: sourceID}, nil
}

// DeleteOne removes the vehicle mapped to a source id, children included.
// Idempotent: an absent mapping reports deleted=false with no error.
func (s *Syncer) DeleteOne(ctx context.Context, sourceID string) (bool, error) {
	unlock := s.lockKey(sourceID)
	defer unlock()

	deleted, err := s.Store.DeleteVehicleBySourceID(ctx, sourceID)
	if err != nil {
		return false, fmt.Errorf("delete vehicle: %w", err)
	}

	if s.Logger != nil && deleted {
		s.Logger.Infow("vehicle deleted", "source_id", sourceID)
	}

	return deleted, nil
}

// SyncAll lists the whole catalog and syncs each record independently. One
// record's failure never aborts the rest; per-record fates come back in the
// result list.
func (s *Syncer) SyncAll(ctx context.Context) ([]SyncResult, error) {
	records, err := s.CMS.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog records: %w", err)
	}

	results := make([]SyncResult, 0, len(records))
	for _, rec := range records {
		res := SyncResult{SourceID: rec.ID}

		if _, err := s.SyncOne(ctx, rec.ID); err != nil {
			res.Error = err.Error()
			if s.Logger != nil {
				s.Logger.Warnw("sync failed", "source_id", rec.ID, "err", err)
			}
		} else {
			res.Ok = true
		}

		results = append(results, res)
	}

	return results, nil
}

// HandleEvent routes a decoded webhook event to the matching sync operation.
func (s *Syncer) HandleEvent(ctx context.Context, ev Event) (SyncOutcome, error) {
	switch ev.Action {
	case ActionDelete:
		if _, err := s.DeleteOne(ctx, ev.SourceID); err != nil {
			return SyncOutcome{}, err
		}
		return SyncOutcome{SourceID: ev.SourceID}, nil
	default:
		return s.SyncOne(ctx, ev.SourceID)
	}
}

func (s *Syncer) lockKey(key string) func() {
	return s.locks.Lock(key)
}

func (s *Syncer) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
