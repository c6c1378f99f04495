package state

import (
	"context"
	"time"

	"github.com/kaido-imports/kaido/internal/domain"
	"github.com/kaido-imports/kaido/internal/shipping"
)

// QuoteLogRecord is append-only telemetry for the shipping calculator. It has
// no consistency relationship with any other record.
type QuoteLogRecord struct {
	Destination string
	Dimensions  shipping.Dimensions
	Calculation shipping.Calculation
	CreatedAt   time.Time
}

// IdempotencyRecord caches a webhook response so a redelivered notification
// replays instead of re-running the sync.
type IdempotencyRecord struct {
	StatusCode int
	BodyJSON   []byte
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

type Store interface {
	// Vehicles (keyed by the catalog record's external id)
	GetVehicleBySourceID(ctx context.Context, sourceID string) (domain.Vehicle, bool, error)
	UpsertVehicle(ctx context.Context, v domain.Vehicle) error
	DeleteVehicleBySourceID(ctx context.Context, sourceID string) (deleted bool, err error)

	// Child rows: full replace, atomic. A vehicle must never be observable
	// with a partial child set after this returns.
	ReplaceVehicleChildren(ctx context.Context, vehicleID string, images []domain.VehicleImage, specs []domain.VehicleSpec) error

	// Shipping quote telemetry
	InsertQuoteLog(ctx context.Context, rec QuoteLogRecord) error

	// Webhook redelivery cache
	GetIdempotency(ctx context.Context, endpoint string, idemKeyHash string) (IdempotencyRecord, bool, error)
	PutIdempotency(ctx context.Context, endpoint string, idemKeyHash string, rec IdempotencyRecord) error
}
