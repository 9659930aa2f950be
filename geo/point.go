package geo

import "math"

const (
	// haversineRadius is the mean Earth radius, in meters.
	haversineRadius = 6_371_000.0

	// mercatorRadius is the EPSG:3857 equatorial radius, in meters.
	mercatorRadius = 6_378_137.0

	// originShift is the projected coordinate of the antimeridian.
	originShift = math.Pi * mercatorRadius
)

// Point is a geographic position with micro-degree precision.
type Point struct {
	Lat Angle
	Lon Angle
}

// PointFromDegrees builds a Point from floating-point degrees.
func PointFromDegrees(lat, lon float64) Point {
	return Point{Lat: AngleFromDegrees(lat), Lon: AngleFromDegrees(lon)}
}

// PointFromMicroDegrees builds a Point from raw micro-degree counts.
func PointFromMicroDegrees(lat, lon int32) Point {
	return Point{Lat: AngleFromMicroDegrees(lat), Lon: AngleFromMicroDegrees(lon)}
}

// HaversineDistance returns the great-circle distance to other, in meters,
// on a sphere of radius 6 371 000 m.
func (p Point) HaversineDistance(other Point) float64 {
	theta1 := p.Lat.Radians()
	theta2 := other.Lat.Radians()
	deltaTheta := theta2 - theta1
	deltaLambda := other.Lon.Radians() - p.Lon.Radians()

	sinTheta := math.Sin(deltaTheta / 2)
	sinLambda := math.Sin(deltaLambda / 2)
	a := sinTheta*sinTheta + math.Cos(theta1)*math.Cos(theta2)*sinLambda*sinLambda
	c := 2 * math.Asin(math.Sqrt(a))

	return haversineRadius * c
}

// WebMercator projects the point into EPSG:3857 plane coordinates:
// meters east of Greenwich and meters north of the Equator.
func (p Point) WebMercator() (easting, northing float64) {
	lat := p.Lat.Degrees()
	lon := p.Lon.Degrees()
	easting = lon * originShift / 180
	northing = math.Log(math.Tan((90+lat)*math.Pi/360)) * originShift / math.Pi
	return easting, northing
}

// PointFromWebMercator inverts WebMercator. For |lat| ≤ 85° the round trip is
// exact to within one micro-degree on both coordinates.
func PointFromWebMercator(easting, northing float64) Point {
	lon := easting / originShift * 180
	lat := 360/math.Pi*math.Atan(math.Exp(northing*math.Pi/originShift)) - 90
	return PointFromDegrees(lat, lon)
}
