// Package shipment models delivery shipments and their status lifecycles,
// and advances them from proximity signals.
package shipment

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/dispatchroute/dispatchroute/pkg/geo"
)

// Shipment errors.
var (
	ErrShipmentNotFound  = errors.New("shipment not found")
	ErrDuplicateTracking = errors.New("tracking number already exists")
)

// DeliveryType distinguishes the two status lifecycles.
type DeliveryType string

const (
	// DeliveryInCity is a same-city run handled by a single driver.
	DeliveryInCity DeliveryType = "in_city"

	// DeliveryInterCity is a hub-to-hub run handled by a truck.
	DeliveryInterCity DeliveryType = "inter_city"
)

// Status is a stage in a shipment lifecycle.
type Status string

const (
	StatusAssigned         Status = "assigned"
	StatusPickupScheduled  Status = "pickup_scheduled"
	StatusPickupInProgress Status = "pickup_in_progress"
	StatusInTransit        Status = "in_transit"
	StatusOutForDelivery   Status = "out_for_delivery"
	StatusDelivered        Status = "delivered"
)

// Lifecycles per delivery type. Statuses only ever move forward through
// these sequences.
var (
	inCityLifecycle = []Status{
		StatusAssigned,
		StatusPickupInProgress,
		StatusInTransit,
		StatusOutForDelivery,
		StatusDelivered,
	}

	interCityLifecycle = []Status{
		StatusPickupScheduled,
		StatusPickupInProgress,
		StatusInTransit,
		StatusDelivered,
	}
)

// Lifecycle returns the ordered status sequence for a delivery type.
func Lifecycle(dt DeliveryType) []Status {
	if dt == DeliveryInterCity {
		return interCityLifecycle
	}
	return inCityLifecycle
}

// LifecycleIndex returns the position of a status within the lifecycle of
// the given delivery type, or -1 if the status is not part of it.
func LifecycleIndex(dt DeliveryType, s Status) int {
	for i, stage := range Lifecycle(dt) {
		if stage == s {
			return i
		}
	}
	return -1
}

// HistoryEntry records one status change. Entries are append-only.
type HistoryEntry struct {
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// Party is a sender or recipient.
type Party struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`

	// Coordinate may be nil when the address has not been geocoded.
	Coordinate *geo.Coordinate `json:"coordinate,omitempty"`
}

// Package describes the parcel being shipped.
type Package struct {
	WeightKg float64 `json:"weight_kg"`
	Type     string  `json:"type"`
	Urgency  string  `json:"urgency"`
}

// Shipment is a delivery order moving through a lifecycle.
type Shipment struct {
	TrackingNumber string       `json:"tracking_number"`
	DeliveryType   DeliveryType `json:"delivery_type"`

	Sender    Party   `json:"sender"`
	Recipient Party   `json:"recipient"`
	Package   Package `json:"package"`

	Status  Status         `json:"status"`
	History []HistoryEntry `json:"status_history"`

	AssignedDriverID string `json:"assigned_driver_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates a shipment at the start of its lifecycle with an initial
// history entry.
func New(dt DeliveryType, sender, recipient Party, pkg Package) *Shipment {
	now := time.Now()
	initial := Lifecycle(dt)[0]

	return &Shipment{
		TrackingNumber: NewTrackingNumber(),
		DeliveryType:   dt,
		Sender:         sender,
		Recipient:      recipient,
		Package:        pkg,
		Status:         initial,
		History: []HistoryEntry{{
			Status:    initial,
			Timestamp: now,
			Message:   "Commande reçue",
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AdvanceTo moves the shipment to a later lifecycle stage and appends a
// history entry. Backward moves and unknown statuses are no-ops: a shipment
// never regresses, and a stale or unmodeled status must not crash further
// updates.
func (s *Shipment) AdvanceTo(next Status, message string, at time.Time) bool {
	currentIdx := LifecycleIndex(s.DeliveryType, s.Status)
	nextIdx := LifecycleIndex(s.DeliveryType, next)

	if currentIdx < 0 || nextIdx < 0 || nextIdx <= currentIdx {
		return false
	}

	s.Status = next
	s.UpdatedAt = at
	s.History = append(s.History, HistoryEntry{
		Status:    next,
		Timestamp: at,
		Message:   message,
	})
	return true
}

// trackingRand feeds tracking number generation. Not cryptographic;
// uniqueness is enforced by the repository. Guarded by trackingMu because
// shipments are created from concurrent requests.
var (
	trackingMu   sync.Mutex
	trackingRand = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec
)

// NewTrackingNumber generates a tracking number of the form CTM##########.
func NewTrackingNumber() string {
	trackingMu.Lock()
	defer trackingMu.Unlock()
	return fmt.Sprintf("CTM%010d", trackingRand.Intn(1_000_000_000)*10+trackingRand.Intn(10))
}
