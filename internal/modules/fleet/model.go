// README: Vehicle model and operating statuses.
package fleet

import (
	"fmt"

	"smartride/internal/types"
)

type Status string

const (
	StatusOffline     Status = "offline"
	StatusOnline      Status = "online"
	StatusOnBreak     Status = "on_break"
	StatusMaintenance Status = "maintenance"
	StatusFull        Status = "full"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOffline, StatusOnline, StatusOnBreak, StatusMaintenance, StatusFull:
		return true
	}
	return false
}

// ParseStatus converts a raw status string, rejecting unknown values.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown vehicle status %q", raw)
	}
	return s, nil
}

// Vehicle is a minibus bound to a fixed route, or a taxi when RouteID is nil
// or empty.
// Occupancy may exceed Capacity.
type Vehicle struct {
	ID        types.ID    `json:"id"`
	OwnerID   types.ID    `json:"owner_id"`
	Plate     string      `json:"plate"`
	Capacity  int         `json:"capacity"`
	RouteID   *types.ID   `json:"route_id,omitempty"`
	Status    Status      `json:"status"`
	Occupancy int         `json:"occupancy"`
	Coords    types.Point `json:"coords"`
}

func (v Vehicle) IsTaxi() bool {
	return v.RouteID == nil || *v.RouteID == ""
}

// FieldError names the vehicle field that failed validation.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

// Validate checks the fields the ranking math depends on.
func (v Vehicle) Validate() error {
	switch {
	case v.Capacity <= 0:
		return &FieldError{Field: "capacity", Reason: "must be greater than zero"}
	case v.Occupancy < 0:
		return &FieldError{Field: "occupancy", Reason: "must not be negative"}
	case !v.Status.Valid():
		return &FieldError{Field: "status", Reason: fmt.Sprintf("unknown status %q", v.Status)}
	case !v.Coords.Valid():
		return &FieldError{Field: "coords", Reason: "latitude/longitude out of range"}
	}
	return nil
}

// RouteRef returns a pointer to a copy of id, for building vehicles inline.
func RouteRef(id types.ID) *types.ID {
	return &id
}
