// README: Identifier type shared by vehicles, routes and stops.
package types

type ID string

func (id ID) String() string {
	return string(id)
}
