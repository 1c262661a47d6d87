// README: YAML route/fleet/fare fixtures, validated and served from memory.
package snapshot

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"smartride/internal/modules/fleet"
	"smartride/internal/modules/pricing"
	"smartride/internal/modules/routing"
	"smartride/internal/types"
)

type document struct {
	Routes   []routeDoc   `yaml:"routes" validate:"dive"`
	Vehicles []vehicleDoc `yaml:"vehicles" validate:"dive"`
	Fares    []fareDoc    `yaml:"fares" validate:"dive"`
}

type routeDoc struct {
	ID       string      `yaml:"id" validate:"required"`
	Name     string      `yaml:"name" validate:"required"`
	Polyline [][]float64 `yaml:"polyline" validate:"min=1,dive,len=2"`
	Stops    []stopDoc   `yaml:"stops" validate:"dive"`
}

type stopDoc struct {
	ID     string    `yaml:"id" validate:"required"`
	Name   string    `yaml:"name" validate:"required"`
	Coords []float64 `yaml:"coords" validate:"len=2"`
}

type vehicleDoc struct {
	ID        string    `yaml:"id" validate:"required"`
	OwnerID   string    `yaml:"owner_id"`
	Plate     string    `yaml:"plate"`
	Capacity  int       `yaml:"capacity" validate:"gt=0"`
	RouteID   string    `yaml:"route_id"`
	Status    string    `yaml:"status" validate:"oneof=offline online on_break maintenance full"`
	Occupancy int       `yaml:"occupancy" validate:"gte=0"`
	Coords    []float64 `yaml:"coords" validate:"len=2"`
}

type fareDoc struct {
	RideType    string `yaml:"ride_type" validate:"oneof=fixed_route taxi"`
	BaseFare    int64  `yaml:"base_fare" validate:"gt=0"`
	PerKm       int64  `yaml:"per_km" validate:"gte=0"`
	MaxVariable int64  `yaml:"max_variable" validate:"gte=0"`
	Currency    string `yaml:"currency" validate:"required"`
}

// Snapshot is an immutable catalog and fleet loaded from a fixture file.
type Snapshot struct {
	Routes   []routing.Route
	Vehicles []fleet.Vehicle
	Fares    []pricing.Rate
}

func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func Parse(data []byte) (*Snapshot, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if err := validator.New().Struct(doc); err != nil {
		return nil, fmt.Errorf("validate snapshot: %w", err)
	}

	s := &Snapshot{}
	routeIDs := make(map[string]bool, len(doc.Routes))
	for _, rd := range doc.Routes {
		if routeIDs[rd.ID] {
			return nil, fmt.Errorf("duplicate route id %q", rd.ID)
		}
		routeIDs[rd.ID] = true
		r, err := rd.toRoute()
		if err != nil {
			return nil, err
		}
		s.Routes = append(s.Routes, r)
	}

	vehicleIDs := make(map[string]bool, len(doc.Vehicles))
	for _, vd := range doc.Vehicles {
		if vehicleIDs[vd.ID] {
			return nil, fmt.Errorf("duplicate vehicle id %q", vd.ID)
		}
		vehicleIDs[vd.ID] = true
		v, err := vd.toVehicle()
		if err != nil {
			return nil, err
		}
		s.Vehicles = append(s.Vehicles, v)
	}

	for _, fd := range doc.Fares {
		r := pricing.Rate{
			RideType:    pricing.RideType(fd.RideType),
			BaseFare:    fd.BaseFare,
			PerKm:       fd.PerKm,
			MaxVariable: fd.MaxVariable,
			Currency:    fd.Currency,
		}
		s.Fares = append(s.Fares, r)
	}
	return s, nil
}

func toPoint(where string, c []float64) (types.Point, error) {
	p := types.Point{Lat: c[0], Lng: c[1]}
	if !p.Valid() {
		return types.Point{}, fmt.Errorf("%s: coordinates %v out of range", where, c)
	}
	return p, nil
}

func (rd routeDoc) toRoute() (routing.Route, error) {
	r := routing.Route{ID: types.ID(rd.ID), Name: rd.Name}
	for _, c := range rd.Polyline {
		p, err := toPoint("route "+rd.ID+" polyline", c)
		if err != nil {
			return routing.Route{}, err
		}
		r.Polyline = append(r.Polyline, p)
	}
	for _, sd := range rd.Stops {
		p, err := toPoint("stop "+sd.ID, sd.Coords)
		if err != nil {
			return routing.Route{}, err
		}
		r.Stops = append(r.Stops, routing.Stop{ID: types.ID(sd.ID), Name: sd.Name, Coords: p})
	}
	return r, nil
}

func (vd vehicleDoc) toVehicle() (fleet.Vehicle, error) {
	p, err := toPoint("vehicle "+vd.ID, vd.Coords)
	if err != nil {
		return fleet.Vehicle{}, err
	}
	v := fleet.Vehicle{
		ID:        types.ID(vd.ID),
		OwnerID:   types.ID(vd.OwnerID),
		Plate:     vd.Plate,
		Capacity:  vd.Capacity,
		Status:    fleet.Status(vd.Status),
		Occupancy: vd.Occupancy,
		Coords:    p,
	}
	if vd.RouteID != "" {
		v.RouteID = fleet.RouteRef(types.ID(vd.RouteID))
	}
	return v, nil
}

// ListRoutes returns a copy of the catalog slice.
func (s *Snapshot) ListRoutes(context.Context) ([]routing.Route, error) {
	return append([]routing.Route(nil), s.Routes...), nil
}

// Nearby returns the whole fleet; the locator applies the radius.
func (s *Snapshot) Nearby(context.Context, types.Point, float64) ([]fleet.Vehicle, error) {
	return append([]fleet.Vehicle(nil), s.Vehicles...), nil
}

// Schedule overlays the fixture fares on top of defaults.
func (s *Snapshot) Schedule(defaults []pricing.Rate) (*pricing.Schedule, error) {
	return pricing.NewSchedule(append(append([]pricing.Rate{}, defaults...), s.Fares...)...)
}
