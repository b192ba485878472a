package spatial

// Point represents a 2D point with latitude and longitude
type Point struct {
	Lat float64
	Lon float64
}

// Centroid calculates the geographic centroid of a set of points
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}

	return Point{
		Lat: sumLat / float64(len(points)),
		Lon: sumLon / float64(len(points)),
	}
}

// Sample keeps every stride-th point so that roughly target points remain.
// The first point is always kept; tracks shorter than target are returned as is.
func Sample(points []Point, target int) []Point {
	if target <= 0 || len(points) == 0 {
		return points
	}

	stride := len(points) / target
	if stride < 1 {
		stride = 1
	}
	if stride == 1 {
		return points
	}

	sampled := make([]Point, 0, (len(points)+stride-1)/stride)
	for i := 0; i < len(points); i += stride {
		sampled = append(sampled, points[i])
	}
	return sampled
}

// CorridorOverlap returns the fraction of points in a that lie within width meters
// of some point in b. The measure is directional: it answers how much of a is
// covered by b, not the reverse.
func CorridorOverlap(a, b []Point, width float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	covered := 0
	for _, p := range a {
		if WithinRadius(p, b, width) {
			covered++
		}
	}
	return float64(covered) / float64(len(a))
}
