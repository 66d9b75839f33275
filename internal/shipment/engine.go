package shipment

import "github.com/dispatchroute/dispatchroute/pkg/geo"

// Proximity thresholds for automatic status advancement, in kilometers.
const (
	pickupRadiusKm   = 5.0
	approachRadiusKm = 1.0
	deliveryRadiusKm = 0.1
)

// proximityTransition advances one lifecycle stage when the driver comes
// within the given radius of the destination.
type proximityTransition struct {
	from     Status
	radiusKm float64
	to       Status
	message  string
}

var proximityTransitions = []proximityTransition{
	{StatusPickupInProgress, pickupRadiusKm, StatusInTransit, "Colis récupéré, en route vers la destination"},
	{StatusInTransit, approachRadiusKm, StatusOutForDelivery, "Chauffeur proche de la destination"},
	{StatusOutForDelivery, deliveryRadiusKm, StatusDelivered, "Colis livré avec succès"},
}

// NextStatus evaluates the proximity rules for a driver position against the
// shipment destination. At most one transition fires per evaluation; callers
// feed positions one ping at a time, so a shipment passes through each stage
// even when the driver jumps straight to the doorstep. Statuses without a
// rule, including terminal ones, never change.
func NextStatus(current Status, driver, destination geo.Coordinate) (Status, string, bool) {
	for _, tr := range proximityTransitions {
		if tr.from != current {
			continue
		}
		if geo.Distance(driver, destination) < tr.radiusKm {
			return tr.to, tr.message, true
		}
		break
	}
	return current, "", false
}
