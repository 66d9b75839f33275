package models

// ShipmentCreateRequest is the body for POST /v1/shipments.
type ShipmentCreateRequest struct {
	Sender    PartyInput   `json:"sender"`
	Recipient PartyInput   `json:"recipient"`
	Package   PackageInput `json:"package"`
}

// PartyInput is the sender or recipient section of a shipment request.
type PartyInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Point   *Point `json:"point,omitempty"`
}

// PackageInput describes the parcel in a shipment request.
type PackageInput struct {
	WeightKg float64 `json:"weight_kg"`
	Type     string  `json:"type"`
	Urgency  string  `json:"urgency"`
}

// Validate checks the shipment request and returns field errors.
func (req *ShipmentCreateRequest) Validate() []FieldError {
	var errs []FieldError
	errs = append(errs, req.Sender.validate("sender")...)
	errs = append(errs, req.Recipient.validate("recipient")...)
	if req.Package.WeightKg <= 0 {
		errs = append(errs, FieldError{Field: "package.weight_kg", Message: "weight must be positive", Code: "out_of_range"})
	}
	return errs
}

func (p *PartyInput) validate(prefix string) []FieldError {
	var errs []FieldError
	if p.Name == "" {
		errs = append(errs, FieldError{Field: prefix + ".name", Message: "name is required", Code: "required"})
	}
	if p.City == "" {
		errs = append(errs, FieldError{Field: prefix + ".city", Message: "city is required", Code: "required"})
	}
	if p.Point != nil && !p.Point.Valid() {
		errs = append(errs, FieldError{Field: prefix + ".point", Message: "coordinates out of range", Code: "out_of_range"})
	}
	return errs
}

// LocationUpdateRequest is the body for POST /v1/drivers/location.
type LocationUpdateRequest struct {
	TrackingNumber string `json:"tracking_number"`
	DriverID       string `json:"driver_id"`
	Position       Point  `json:"position"`
}

// Validate checks the location update and returns field errors.
func (req *LocationUpdateRequest) Validate() []FieldError {
	var errs []FieldError
	if req.TrackingNumber == "" {
		errs = append(errs, FieldError{Field: "tracking_number", Message: "tracking_number is required", Code: "required"})
	}
	if req.DriverID == "" {
		errs = append(errs, FieldError{Field: "driver_id", Message: "driver_id is required", Code: "required"})
	}
	if !req.Position.Valid() {
		errs = append(errs, FieldError{Field: "position", Message: "coordinates out of range", Code: "out_of_range"})
	}
	return errs
}
