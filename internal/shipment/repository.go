package shipment

import (
	"context"
	"sort"
	"sync"
)

// Repository defines the interface for shipment persistence.
type Repository interface {
	// Get retrieves a shipment by tracking number.
	Get(ctx context.Context, trackingNumber string) (*Shipment, error)

	// Create stores a new shipment.
	Create(ctx context.Context, s *Shipment) error

	// Update replaces an existing shipment.
	Update(ctx context.Context, s *Shipment) error

	// List returns all shipments, newest first.
	List(ctx context.Context) ([]*Shipment, error)
}

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for local development and testing.
type InMemoryRepository struct {
	mu        sync.RWMutex
	shipments map[string]*Shipment
}

// NewInMemoryRepository creates a new in-memory shipment repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		shipments: make(map[string]*Shipment),
	}
}

// Get retrieves a shipment by tracking number.
func (r *InMemoryRepository) Get(_ context.Context, trackingNumber string) (*Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.shipments[trackingNumber]
	if !ok {
		return nil, ErrShipmentNotFound
	}

	// Return a deep copy to prevent mutation
	return copyShipment(s), nil
}

// Create stores a new shipment.
func (r *InMemoryRepository) Create(_ context.Context, s *Shipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shipments[s.TrackingNumber]; ok {
		return ErrDuplicateTracking
	}

	r.shipments[s.TrackingNumber] = copyShipment(s)
	return nil
}

// Update replaces an existing shipment.
func (r *InMemoryRepository) Update(_ context.Context, s *Shipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shipments[s.TrackingNumber]; !ok {
		return ErrShipmentNotFound
	}

	r.shipments[s.TrackingNumber] = copyShipment(s)
	return nil
}

// List returns all shipments, newest first.
func (r *InMemoryRepository) List(_ context.Context) ([]*Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Shipment, 0, len(r.shipments))
	for _, s := range r.shipments {
		out = append(out, copyShipment(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// copyShipment creates a deep copy of a shipment.
func copyShipment(s *Shipment) *Shipment {
	if s == nil {
		return nil
	}

	shipmentCopy := *s

	shipmentCopy.History = make([]HistoryEntry, len(s.History))
	copy(shipmentCopy.History, s.History)

	if s.Sender.Coordinate != nil {
		c := *s.Sender.Coordinate
		shipmentCopy.Sender.Coordinate = &c
	}
	if s.Recipient.Coordinate != nil {
		c := *s.Recipient.Coordinate
		shipmentCopy.Recipient.Coordinate = &c
	}

	return &shipmentCopy
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
