package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/kaido-imports/kaido/internal/domain"
)

type MySQLStore struct {
	db *sql.DB
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

func (s *MySQLStore) GetVehicleBySourceID(ctx context.Context, sourceID string) (domain.Vehicle, bool, error) {
	var (
		v           domain.Vehicle
		description sql.NullString
		features    []byte
	)

	err := s.db.QueryRowContext(
		ctx,
		`SELECT id, source_id, make, model, year, price, stock_number, status,
		        transmission, drivetrain, horsepower, torque, color, location,
		        description, features_json, created_at, updated_at
		 FROM vehicles WHERE source_id = ?`,
		sourceID,
	).Scan(
		&v.ID, &v.SourceID, &v.Make, &v.Model, &v.Year, &v.Price, &v.StockNumber, &v.Status,
		&v.Transmission, &v.Drivetrain, &v.Horsepower, &v.Torque, &v.Color, &v.Location,
		&description, &features, &v.CreatedAt, &v.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return domain.Vehicle{}, false, nil
	}
	if err != nil {
		return domain.Vehicle{}, false, err
	}

	if description.Valid {
		d := description.String
		v.Description = &d
	}

	v.Features = []string{}
	if len(features) > 0 {
		if err := json.Unmarshal(features, &v.Features); err != nil {
			return domain.Vehicle{}, false, err
		}
	}

	return v, true, nil
}

func (s *MySQLStore) UpsertVehicle(ctx context.Context, v domain.Vehicle) error {
	features, err := json.Marshal(v.Features)
	if err != nil {
		return err
	}

	var description any
	if v.Description != nil {
		description = *v.Description
	}

	// Keyed by source_id. id and created_at belong to the existing row on
	// conflict; everything else is last-write-wins.
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO vehicles (
			id, source_id, make, model, year, price, stock_number, status,
			transmission, drivetrain, horsepower, torque, color, location,
			description, features_json, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		  make = VALUES(make),
		  model = VALUES(model),
		  year = VALUES(year),
		  price = VALUES(price),
		  stock_number = VALUES(stock_number),
		  status = VALUES(status),
		  transmission = VALUES(transmission),
		  drivetrain = VALUES(drivetrain),
		  horsepower = VALUES(horsepower),
		  torque = VALUES(torque),
		  color = VALUES(color),
		  location = VALUES(location),
		  description = VALUES(description),
		  features_json = VALUES(features_json),
		  updated_at = VALUES(updated_at)`,
		v.ID, v.SourceID, v.Make, v.Model, v.Year, v.Price, v.StockNumber, v.Status,
		v.Transmission, v.Drivetrain, v.Horsepower, v.Torque, v.Color, v.Location,
		description, features, v.CreatedAt.UTC(), v.UpdatedAt.UTC(),
	)
	return err
}

func (s *MySQLStore) DeleteVehicleBySourceID(ctx context.Context, sourceID string) (bool, error) {
	// Children cascade via their vehicle_id foreign keys.
	res, err := s.db.ExecContext(ctx, `DELETE FROM vehicles WHERE source_id = ?`, sourceID)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *MySQLStore) ReplaceVehicleChildren(ctx context.Context, vehicleID string, images []domain.VehicleImage, specs []domain.VehicleSpec) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM vehicle_images WHERE vehicle_id = ?`, vehicleID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM vehicle_specs WHERE vehicle_id = ?`, vehicleID); err != nil {
		return err
	}

	for _, img := range images {
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO vehicle_images (vehicle_id, url, caption, is_primary, position)
			 VALUES (?, ?, ?, ?, ?)`,
			vehicleID, img.URL, img.Caption, img.IsPrimary, img.Position,
		)
		if err != nil {
			return err
		}
	}

	for _, sp := range specs {
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO vehicle_specs (vehicle_id, category, name, value)
			 VALUES (?, ?, ?, ?)`,
			vehicleID, sp.Category, sp.Name, sp.Value,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *MySQLStore) InsertQuoteLog(ctx context.Context, rec QuoteLogRecord) error {
	calc, err := json.Marshal(rec.Calculation)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO shipping_quote_log (
			destination, length_cm, width_cm, height_cm, weight_kg,
			calculation_json, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Destination,
		rec.Dimensions.Length, rec.Dimensions.Width, rec.Dimensions.Height, rec.Dimensions.Weight,
		calc, rec.CreatedAt.UTC(),
	)
	return err
}

func (s *MySQLStore) GetIdempotency(ctx context.Context, endpoint string, idemKeyHash string) (IdempotencyRecord, bool, error) {
	var status int
	var body []byte
	var created time.Time
	var expires time.Time

	err := s.db.QueryRowContext(
		ctx,
		`SELECT status_code, response_body_json, created_at, expires_at
		 FROM idempotency
		 WHERE endpoint = ? AND idem_key_hash = ?`,
		endpoint, idemKeyHash,
	).Scan(&status, &body, &created, &expires)

	if err == sql.ErrNoRows {
		return IdempotencyRecord{}, false, nil
	}
	if err != nil {
		return IdempotencyRecord{}, false, err
	}

	if time.Now().UTC().After(expires.UTC()) {
		return IdempotencyRecord{}, false, nil
	}

	return IdempotencyRecord{
		StatusCode: status,
		BodyJSON:   body,
		CreatedAt:  created.UTC(),
		ExpiresAt:  expires.UTC(),
	}, true, nil
}

func (s *MySQLStore) PutIdempotency(ctx context.Context, endpoint string, idemKeyHash string, rec IdempotencyRecord) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO idempotency (endpoint, idem_key_hash, status_code, response_body_json, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE
		   status_code = VALUES(status_code),
		   response_body_json = VALUES(response_body_json),
		   created_at = VALUES(created_at),
		   expires_at = VALUES(expires_at)`,
		endpoint, idemKeyHash, rec.StatusCode, rec.BodyJSON, rec.CreatedAt.UTC(), rec.ExpiresAt.UTC(),
	)
	return err
}
