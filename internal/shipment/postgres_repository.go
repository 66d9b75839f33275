package shipment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dispatchroute/dispatchroute/pkg/geo"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
// Status history and party coordinates are stored as JSONB.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL shipment repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const shipmentColumns = `
	tracking_number, delivery_type,
	sender_name, sender_phone, sender_address, sender_city, sender_coordinate,
	recipient_name, recipient_phone, recipient_address, recipient_city, recipient_coordinate,
	package_weight_kg, package_type, package_urgency,
	status, status_history, assigned_driver_id,
	created_at, updated_at
`

// Get retrieves a shipment by tracking number.
func (r *PostgresRepository) Get(ctx context.Context, trackingNumber string) (*Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE tracking_number = $1`

	s, err := scanShipment(r.pool.QueryRow(ctx, query, trackingNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrShipmentNotFound
		}
		return nil, err
	}
	return s, nil
}

// Create stores a new shipment.
func (r *PostgresRepository) Create(ctx context.Context, s *Shipment) error {
	query := `
		INSERT INTO shipments (` + shipmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	history, err := json.Marshal(s.History)
	if err != nil {
		return fmt.Errorf("marshal status history: %w", err)
	}

	_, err = r.pool.Exec(ctx, query,
		s.TrackingNumber,
		s.DeliveryType,
		s.Sender.Name,
		s.Sender.Phone,
		s.Sender.Address,
		s.Sender.City,
		coordinateJSON(s.Sender.Coordinate),
		s.Recipient.Name,
		s.Recipient.Phone,
		s.Recipient.Address,
		s.Recipient.City,
		coordinateJSON(s.Recipient.Coordinate),
		s.Package.WeightKg,
		s.Package.Type,
		s.Package.Urgency,
		s.Status,
		history,
		nullableString(s.AssignedDriverID),
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 is unique_violation.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateTracking
		}
		return err
	}
	return nil
}

// Update replaces an existing shipment.
func (r *PostgresRepository) Update(ctx context.Context, s *Shipment) error {
	query := `
		UPDATE shipments SET
			status = $2,
			status_history = $3,
			assigned_driver_id = $4,
			updated_at = $5
		WHERE tracking_number = $1
	`

	history, err := json.Marshal(s.History)
	if err != nil {
		return fmt.Errorf("marshal status history: %w", err)
	}

	result, err := r.pool.Exec(ctx, query,
		s.TrackingNumber,
		s.Status,
		history,
		nullableString(s.AssignedDriverID),
		s.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrShipmentNotFound
	}

	return nil
}

// List returns all shipments, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Shipment
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanShipment(row pgx.Row) (*Shipment, error) {
	var (
		s                Shipment
		senderCoord      []byte
		recipientCoord   []byte
		history          []byte
		assignedDriverID *string
		createdAt        time.Time
		updatedAt        time.Time
	)

	err := row.Scan(
		&s.TrackingNumber,
		&s.DeliveryType,
		&s.Sender.Name,
		&s.Sender.Phone,
		&s.Sender.Address,
		&s.Sender.City,
		&senderCoord,
		&s.Recipient.Name,
		&s.Recipient.Phone,
		&s.Recipient.Address,
		&s.Recipient.City,
		&recipientCoord,
		&s.Package.WeightKg,
		&s.Package.Type,
		&s.Package.Urgency,
		&s.Status,
		&history,
		&assignedDriverID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if s.Sender.Coordinate, err = parseCoordinate(senderCoord); err != nil {
		return nil, fmt.Errorf("parse sender coordinate: %w", err)
	}
	if s.Recipient.Coordinate, err = parseCoordinate(recipientCoord); err != nil {
		return nil, fmt.Errorf("parse recipient coordinate: %w", err)
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &s.History); err != nil {
			return nil, fmt.Errorf("parse status history: %w", err)
		}
	}
	if assignedDriverID != nil {
		s.AssignedDriverID = *assignedDriverID
	}
	s.CreatedAt = createdAt
	s.UpdatedAt = updatedAt

	return &s, nil
}

func coordinateJSON(c *geo.Coordinate) []byte {
	if c == nil {
		return nil
	}
	b, _ := json.Marshal(c)
	return b
}

func parseCoordinate(b []byte) (*geo.Coordinate, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var c geo.Coordinate
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
