// README: Pure geographic helpers: haversine distance and polyline measurements.
package location

import (
	"math"

	"smartride/internal/types"
)

const earthRadiusM = 6371000.0

// DistanceM returns the great-circle (haversine) distance in metres between
// two points.
func DistanceM(a, b types.Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusM * c
}

// MinDistanceToPolyline returns the distance from p to the closest vertex of
// the polyline. Segments are not projected onto, so a point beside a long
// segment can measure further than it really is. An empty polyline is
// infinitely far away.
func MinDistanceToPolyline(p types.Point, polyline []types.Point) float64 {
	_, d := NearestVertex(p, polyline)
	return d
}

// NearestVertex returns the index of the polyline vertex closest to p and its
// distance. The first vertex wins ties. It returns (-1, +Inf) for an empty
// polyline.
func NearestVertex(p types.Point, polyline []types.Point) (int, float64) {
	best, bestDist := -1, math.Inf(1)
	for i, v := range polyline {
		if d := DistanceM(p, v); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

// PathLengthM sums the vertex-to-vertex distances along the polyline between
// indices i and j, in either direction.
func PathLengthM(polyline []types.Point, i, j int) float64 {
	if i > j {
		i, j = j, i
	}
	if i < 0 || j >= len(polyline) {
		return 0
	}
	total := 0.0
	for k := i; k < j; k++ {
		total += DistanceM(polyline[k], polyline[k+1])
	}
	return total
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
