// Package polyline decodes the compact encoded tracks attached to activities.
//
// Tracks use the standard signed-delta polyline encoding at 1e-5 degree
// precision, as found in Strava's summary_polyline field.
package polyline

import (
	"errors"
	"fmt"

	gopolyline "github.com/twpayne/go-polyline"

	"github.com/delhayec/MillionRecap/internal/spatial"
)

// ErrMalformed is returned when an encoded track cannot be decoded.
var ErrMalformed = errors.New("malformed polyline")

// Decode decodes an encoded track into an ordered sequence of points.
// Empty input yields an empty sequence.
func Decode(encoded string) ([]spatial.Point, error) {
	if encoded == "" {
		return []spatial.Point{}, nil
	}

	coords, rest, err := gopolyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformed, len(rest))
	}

	points := make([]spatial.Point, 0, len(coords))
	for _, c := range coords {
		if len(c) != 2 {
			return nil, fmt.Errorf("%w: coordinate has %d dimensions", ErrMalformed, len(c))
		}
		points = append(points, spatial.Point{Lat: c[0], Lon: c[1]})
	}
	return points, nil
}

// Encode encodes points into the polyline format.
func Encode(points []spatial.Point) string {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Lat, p.Lon}
	}
	return string(gopolyline.EncodeCoords(coords))
}
