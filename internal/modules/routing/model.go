// README: Fixed minibus routes: polyline plus ordered stops.
package routing

import (
	"strings"

	"smartride/internal/types"
)

type Stop struct {
	ID     types.ID    `json:"id"`
	Name   string      `json:"name"`
	Coords types.Point `json:"coords"`
}

// Route is a published fixed route. Polyline holds at least one point.
type Route struct {
	ID       types.ID      `json:"id"`
	Name     string        `json:"name"`
	Polyline []types.Point `json:"polyline"`
	Stops    []Stop        `json:"stops"`
}

// Catalog is an ordered snapshot of the route catalog.
type Catalog []Route

// Find returns the route with the given id.
func (c Catalog) Find(id types.ID) (*Route, bool) {
	for i := range c {
		if c[i].ID == id {
			return &c[i], true
		}
	}
	return nil, false
}

// FindStop looks a stop up by name, ignoring case and surrounding spaces.
// Routes are searched in catalog order and the first match wins.
func (c Catalog) FindStop(name string) (Stop, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Stop{}, false
	}
	for _, r := range c {
		for _, s := range r.Stops {
			if strings.EqualFold(s.Name, name) {
				return s, true
			}
		}
	}
	return Stop{}, false
}

// IDSet collects route ids for membership checks.
func IDSet(routes []Route) map[types.ID]struct{} {
	set := make(map[types.ID]struct{}, len(routes))
	for _, r := range routes {
		set[r.ID] = struct{}{}
	}
	return set
}
