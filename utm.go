package geoconv

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Hemisphere selects the northern or southern half of the globe.
type Hemisphere byte

const (
	HemisphereInvalid Hemisphere = iota
	HemisphereNorth
	HemisphereSouth
)

func (h Hemisphere) String() string {
	switch h {
	case HemisphereNorth:
		return "north"
	case HemisphereSouth:
		return "south"
	}
	return "invalid"
}

// Tolerance applied to latitude window checks so values right at a cutoff
// are not rejected for rounding noise (about 1 meter on the ground).
const epsilonRadians = 1.75e-7

const (
	utmMinLat = -80.5 * math.Pi / 180.0
	utmMaxLat = 84.5 * math.Pi / 180.0

	utmMinEasting  = 100000.0
	utmMaxEasting  = 900000.0
	utmMinNorthing = 0.0
	utmMaxNorthing = 10000000.0

	utmScaleFactor   = 0.9996
	utmFalseEasting  = 500000.0
	utmSouthNorthing = 10000000.0
)

// UTMCoord is a UTM position: grid zone, hemisphere and projected meters.
// CentralMeridian records the zone's central meridian in radians.
type UTMCoord struct {
	Zone            int
	Hemisphere      Hemisphere
	Easting         float64
	Northing        float64
	CentralMeridian float64
}

// UTM converts between geodetic coordinates and the Universal Transverse
// Mercator grid. One Transverse Mercator converter per zone is built at
// construction, so conversions never allocate projection state.
type UTM struct {
	ellipsoid Ellipsoid
	override  int
	zones     [61]*TransverseMercator
}

// utmCentralMeridian returns the central meridian of a zone in radians.
func utmCentralMeridian(zone int) float64 {
	if zone >= 31 {
		return float64(6*zone-183) * math.Pi / 180.0
	}
	return float64(6*zone+177) * math.Pi / 180.0
}

// NewUTM constructs a UTM converter. override forces all conversions into
// the given zone; 0 means no override. An override is only honored when it
// is within one zone of the naturally computed zone (wrapping 1 and 60).
func NewUTM(ellipsoid Ellipsoid, override int) (*UTM, error) {
	if err := ellipsoid.validate(); err != nil {
		return nil, err
	}
	if override < 0 || override > 60 {
		return nil, conversionError(ZoneOverrideError, "zone override out of range")
	}

	u := &UTM{ellipsoid: ellipsoid, override: override}
	for zone := 1; zone <= 60; zone++ {
		tm, err := NewTransverseMercator(ellipsoid, 0, utmCentralMeridian(zone),
			utmFalseEasting, 0, utmScaleFactor)
		if err != nil {
			return nil, err
		}
		u.zones[zone] = tm
	}
	return u, nil
}

// Ellipsoid returns the ellipsoid the converter was built on.
func (u *UTM) Ellipsoid() Ellipsoid {
	return u.ellipsoid
}

// naturalZone computes the zone for a longitude already lifted onto
// [0, 2pi).
func naturalZone(longitude float64) int {
	var zone int
	if longitude < math.Pi {
		zone = int(31 + (longitude+1.0e-10)*180.0/math.Pi/6.0)
	} else {
		zone = int((longitude+1.0e-10)*180.0/math.Pi/6.0 - 29)
	}
	if zone > 60 {
		zone = 1
	}
	return zone
}

// applyOverride validates a zone override against the natural zone.
func applyOverride(zone, override int) (int, error) {
	switch {
	case zone == 1 && override == 60:
		return override, nil
	case zone == 60 && override == 1:
		return override, nil
	case zone-1 <= override && override <= zone+1:
		return override, nil
	}
	return 0, conversionError(ZoneOverrideError, "zone override not adjacent to the natural zone")
}

// ConvertFromGeodetic converts a geodetic position to UTM. zoneOverride
// forces the zone for this call (0 defers to the converter's override, if
// any); the Norway and Svalbard zone exceptions apply only without an
// override. A LongitudeWarning from the underlying projection is passed
// through, which overridden zones commonly trigger.
func (u *UTM) ConvertFromGeodetic(geodetic s2.LatLng, zoneOverride int) (UTMCoord, Warning, error) {
	latitude := geodetic.Lat.Radians()
	longitude := geodetic.Lng.Radians()

	if latitude < utmMinLat-epsilonRadians || latitude >= utmMaxLat+epsilonRadians {
		return UTMCoord{}, NoWarning, conversionError(LatitudeError, "latitude outside the UTM grid")
	}
	if longitude < -math.Pi-epsilonRadians || longitude > 2*math.Pi+epsilonRadians {
		return UTMCoord{}, NoWarning, conversionError(LongitudeError, "longitude out of range")
	}

	if latitude > -1.0e-9 && latitude < 0 {
		latitude = 0.0
	}
	if longitude < 0 {
		longitude += 2 * math.Pi
	}

	latDegrees := int(latitude * 180.0 / math.Pi)
	lonDegrees := int(longitude * 180.0 / math.Pi)

	zone := naturalZone(longitude)
	if zone < 0 {
		return UTMCoord{}, NoWarning, conversionError(LongitudeError, "longitude out of range")
	}

	override := zoneOverride
	if override == 0 {
		override = u.override
	}
	if override != 0 {
		z, err := applyOverride(zone, override)
		if err != nil {
			return UTMCoord{}, NoWarning, err
		}
		zone = z
	} else {
		// Grid exceptions around southern Norway and Svalbard.
		if latDegrees > 55 && latDegrees < 64 && lonDegrees > -1 && lonDegrees < 3 {
			zone = 31
		}
		if latDegrees > 55 && latDegrees < 64 && lonDegrees > 2 && lonDegrees < 12 {
			zone = 32
		}
		if latDegrees > 71 && lonDegrees > -1 && lonDegrees < 9 {
			zone = 31
		}
		if latDegrees > 71 && lonDegrees > 8 && lonDegrees < 21 {
			zone = 33
		}
		if latDegrees > 71 && lonDegrees > 20 && lonDegrees < 33 {
			zone = 35
		}
		if latDegrees > 71 && lonDegrees > 32 && lonDegrees < 42 {
			zone = 37
		}
	}

	hemisphere := HemisphereNorth
	falseNorthing := 0.0
	if latitude < 0 {
		hemisphere = HemisphereSouth
		falseNorthing = utmSouthNorthing
	}

	tm := u.zones[zone]
	position := s2.LatLng{Lat: s1.Angle(latitude), Lng: s1.Angle(longitude)}
	coords, warning, err := tm.ConvertFromGeodetic(position)
	if err != nil {
		return UTMCoord{}, NoWarning, err
	}

	easting := coords.Easting
	northing := coords.Northing + falseNorthing
	if easting < utmMinEasting || easting > utmMaxEasting {
		return UTMCoord{}, NoWarning, conversionError(EastingError, "easting out of range")
	}
	if northing < utmMinNorthing || northing > utmMaxNorthing {
		return UTMCoord{}, NoWarning, conversionError(NorthingError, "northing out of range")
	}

	return UTMCoord{
		Zone:            zone,
		Hemisphere:      hemisphere,
		Easting:         easting,
		Northing:        northing,
		CentralMeridian: tm.CentralMeridian(),
	}, warning, nil
}

// ConvertToGeodetic converts a UTM position back to geodetic coordinates.
func (u *UTM) ConvertToGeodetic(coord UTMCoord) (s2.LatLng, Warning, error) {
	if coord.Zone < 1 || coord.Zone > 60 {
		return s2.LatLng{}, NoWarning, conversionError(ZoneError, "zone out of range")
	}
	if coord.Hemisphere != HemisphereNorth && coord.Hemisphere != HemisphereSouth {
		return s2.LatLng{}, NoWarning, conversionError(HemisphereError, "hemisphere must be north or south")
	}
	if coord.Easting < utmMinEasting || coord.Easting > utmMaxEasting {
		return s2.LatLng{}, NoWarning, conversionError(EastingError, "easting out of range")
	}
	if coord.Northing < utmMinNorthing || coord.Northing > utmMaxNorthing {
		return s2.LatLng{}, NoWarning, conversionError(NorthingError, "northing out of range")
	}

	falseNorthing := 0.0
	if coord.Hemisphere == HemisphereSouth {
		falseNorthing = utmSouthNorthing
	}

	tm := u.zones[coord.Zone]
	geodetic, warning, err := tm.ConvertToGeodetic(MapCoords{
		Easting:  coord.Easting,
		Northing: coord.Northing - falseNorthing,
	})
	if err != nil {
		return s2.LatLng{}, NoWarning, err
	}

	latitude := geodetic.Lat.Radians()
	if latitude < utmMinLat-epsilonRadians || latitude >= utmMaxLat+epsilonRadians {
		return s2.LatLng{}, NoWarning, conversionError(NorthingError, "position outside the UTM grid")
	}
	return geodetic, warning, nil
}
