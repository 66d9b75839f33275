package models

import "strconv"

// RouteOptimizeRequest is the body for POST /v1/routes/optimize.
type RouteOptimizeRequest struct {
	City  string      `json:"city"`
	Stops []RouteStop `json:"stops"`
}

// RouteStop is a delivery stop in an optimize request.
type RouteStop struct {
	ShipmentID    string `json:"shipment_id"`
	Point         *Point `json:"point,omitempty"`
	Address       string `json:"address,omitempty"`
	RecipientName string `json:"recipient_name,omitempty"`
}

// Validate checks the optimize request and returns field errors.
func (req *RouteOptimizeRequest) Validate() []FieldError {
	var errs []FieldError
	if req.City == "" {
		errs = append(errs, FieldError{Field: "city", Message: "city is required", Code: "required"})
	}
	if len(req.Stops) == 0 {
		errs = append(errs, FieldError{Field: "stops", Message: "at least one stop is required", Code: "required"})
	}
	for i, stop := range req.Stops {
		if stop.ShipmentID == "" {
			errs = append(errs, FieldError{Field: fieldAt("stops", i, "shipment_id"), Message: "shipment_id is required", Code: "required"})
		}
		if stop.Point != nil && !stop.Point.Valid() {
			errs = append(errs, FieldError{Field: fieldAt("stops", i, "point"), Message: "coordinates out of range", Code: "out_of_range"})
		}
	}
	return errs
}

// RouteEstimateRequest is the body for POST /v1/routes/estimate.
type RouteEstimateRequest struct {
	Origin      Point `json:"origin"`
	Destination Point `json:"destination"`
}

// Validate checks the estimate request and returns field errors.
func (req *RouteEstimateRequest) Validate() []FieldError {
	var errs []FieldError
	if !req.Origin.Valid() {
		errs = append(errs, FieldError{Field: "origin", Message: "coordinates out of range", Code: "out_of_range"})
	}
	if !req.Destination.Valid() {
		errs = append(errs, FieldError{Field: "destination", Message: "coordinates out of range", Code: "out_of_range"})
	}
	return errs
}

func fieldAt(list string, i int, name string) string {
	return list + "[" + strconv.Itoa(i) + "]." + name
}
