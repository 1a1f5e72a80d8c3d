package geoconv

import (
	"math"

	"github.com/golang/geo/s2"
)

// UPSCoord is a Universal Polar Stereographic position: hemisphere plus
// projected meters.
type UPSCoord struct {
	Hemisphere Hemisphere
	Easting    float64
	Northing   float64
}

const (
	upsFalseEasting  = 2000000.0
	upsFalseNorthing = 2000000.0

	// Latitude of true scale equivalent to the UPS scale factor of 0.994
	// at the pole.
	upsStandardParallel = 81.114528 * math.Pi / 180.0

	// The UPS grid covers the polar caps only; the band between the caps
	// belongs to UTM.
	upsMinNorthLat = 84.0 * math.Pi / 180.0
	upsMaxSouthLat = -80.0 * math.Pi / 180.0

	upsMinEastNorth = 0.0
	upsMaxEastNorth = 4000000.0
)

// UPS converts between geodetic coordinates and the Universal Polar
// Stereographic grid covering the polar caps.
type UPS struct {
	ellipsoid Ellipsoid
	north     *PolarStereographic
	south     *PolarStereographic
}

// NewUPS constructs a UPS converter for the given ellipsoid.
func NewUPS(ellipsoid Ellipsoid) (*UPS, error) {
	if err := ellipsoid.validate(); err != nil {
		return nil, err
	}
	north, err := NewPolarStereographic(ellipsoid, upsStandardParallel, 0,
		upsFalseEasting, upsFalseNorthing)
	if err != nil {
		return nil, err
	}
	south, err := NewPolarStereographic(ellipsoid, -upsStandardParallel, 0,
		upsFalseEasting, upsFalseNorthing)
	if err != nil {
		return nil, err
	}
	return &UPS{ellipsoid: ellipsoid, north: north, south: south}, nil
}

// Ellipsoid returns the ellipsoid the converter was built on.
func (u *UPS) Ellipsoid() Ellipsoid {
	return u.ellipsoid
}

// ConvertFromGeodetic converts a geodetic position in one of the polar
// caps (north of 84 degrees or south of -80) to UPS.
func (u *UPS) ConvertFromGeodetic(geodetic s2.LatLng) (UPSCoord, error) {
	latitude := geodetic.Lat.Radians()
	longitude := geodetic.Lng.Radians()

	if latitude < -math.Pi/2 || latitude > math.Pi/2 {
		return UPSCoord{}, conversionError(LatitudeError, "latitude out of range")
	}
	if latitude < 0 && latitude > upsMaxSouthLat+epsilonRadians {
		return UPSCoord{}, conversionError(LatitudeError, "latitude outside the southern polar cap")
	}
	if latitude >= 0 && latitude < upsMinNorthLat-epsilonRadians {
		return UPSCoord{}, conversionError(LatitudeError, "latitude outside the northern polar cap")
	}
	if longitude < -math.Pi || longitude > 2*math.Pi {
		return UPSCoord{}, conversionError(LongitudeError, "longitude out of range")
	}

	hemisphere := HemisphereNorth
	polar := u.north
	if latitude < 0 {
		hemisphere = HemisphereSouth
		polar = u.south
	}

	coords, err := polar.ConvertFromGeodetic(geodetic)
	if err != nil {
		return UPSCoord{}, err
	}
	return UPSCoord{
		Hemisphere: hemisphere,
		Easting:    coords.Easting,
		Northing:   coords.Northing,
	}, nil
}

// ConvertToGeodetic converts a UPS position back to geodetic coordinates.
// Positions that invert to a latitude outside the hemisphere's polar cap
// are rejected.
func (u *UPS) ConvertToGeodetic(coord UPSCoord) (s2.LatLng, error) {
	if coord.Hemisphere != HemisphereNorth && coord.Hemisphere != HemisphereSouth {
		return s2.LatLng{}, conversionError(HemisphereError, "hemisphere must be north or south")
	}
	if coord.Easting < upsMinEastNorth || coord.Easting > upsMaxEastNorth {
		return s2.LatLng{}, conversionError(EastingError, "easting out of range")
	}
	if coord.Northing < upsMinEastNorth || coord.Northing > upsMaxEastNorth {
		return s2.LatLng{}, conversionError(NorthingError, "northing out of range")
	}

	polar := u.north
	if coord.Hemisphere == HemisphereSouth {
		polar = u.south
	}
	geodetic, err := polar.ConvertToGeodetic(MapCoords{
		Easting:  coord.Easting,
		Northing: coord.Northing,
	})
	if err != nil {
		return s2.LatLng{}, err
	}

	latitude := geodetic.Lat.Radians()
	if latitude < 0 && latitude > upsMaxSouthLat+epsilonRadians {
		return s2.LatLng{}, conversionError(LatitudeError, "position outside the southern polar cap")
	}
	if latitude >= 0 && latitude < upsMinNorthLat-epsilonRadians {
		return s2.LatLng{}, conversionError(LatitudeError, "position outside the northern polar cap")
	}
	return geodetic, nil
}
