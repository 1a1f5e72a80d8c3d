package geoconv

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Datum shift deltas from WGS84 to NAD27 for the contiguous United
// States, in meters.
const (
	nad27DeltaX = -12.0
	nad27DeltaY = 130.0
	nad27DeltaZ = 190.0
)

// ShiftDatum shifts a geodetic position between two datums with the
// abridged Molodensky transformation. dx, dy and dz are the translation
// from the source datum's origin to the target's, in meters. Height is
// taken as zero.
func ShiftDatum(geodetic s2.LatLng, from, to Ellipsoid, dx, dy, dz float64) (s2.LatLng, error) {
	if err := from.validate(); err != nil {
		return s2.LatLng{}, err
	}
	if err := to.validate(); err != nil {
		return s2.LatLng{}, err
	}

	latitude := geodetic.Lat.Radians()
	longitude := geodetic.Lng.Radians()
	if latitude < -math.Pi/2 || latitude > math.Pi/2 {
		return s2.LatLng{}, conversionError(LatitudeError, "latitude out of range")
	}
	if longitude < -math.Pi || longitude > 2*math.Pi {
		return s2.LatLng{}, conversionError(LongitudeError, "longitude out of range")
	}

	a := from.SemiMajorAxis
	f := from.Flattening
	b := from.SemiMinorAxis()
	es := from.EccentricitySquared()

	difA := to.SemiMajorAxis - a
	difF := to.Flattening - f

	sinLat := math.Sin(latitude)
	cosLat := math.Cos(latitude)
	sinLon := math.Sin(longitude)
	cosLon := math.Cos(longitude)

	// Radii of curvature in the prime vertical and the meridian.
	w := math.Sqrt(1 - es*sinLat*sinLat)
	rn := a / w
	rm := a * (1 - es) / (w * w * w)

	dLat := (-dx*sinLat*cosLon - dy*sinLat*sinLon + dz*cosLat +
		difA*(rn*es*sinLat*cosLat)/a +
		difF*(rm*a/b+rn*b/a)*sinLat*cosLat) / rm
	dLon := (-dx*sinLon + dy*cosLon) / (rn * cosLat)

	return s2.LatLng{
		Lat: s1.Angle(latitude + dLat),
		Lng: s1.Angle(longitude + dLon),
	}, nil
}

// ConvertWGS84ToNAD27 shifts a WGS84 position onto the NAD27 datum
// (Clarke 1866 ellipsoid) using the mean deltas for the contiguous
// United States.
func ConvertWGS84ToNAD27(geodetic s2.LatLng) (s2.LatLng, error) {
	return ShiftDatum(geodetic, WGS84, Clarke1866,
		-nad27DeltaX, -nad27DeltaY, -nad27DeltaZ)
}
