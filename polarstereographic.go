package geoconv

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// PolarStereographic converts between geodetic coordinates and Polar
// Stereographic easting/northing. A converter serves one hemisphere; the
// southern case is handled by mirroring the position through the equator
// and central meridian so the projection math only ever sees the north.
// Converters are immutable after construction.
type PolarStereographic struct {
	ellipsoid Ellipsoid
	e         float64 // first eccentricity
	eOverTwo  float64

	southern bool

	// Secant-case constants; at a polar standard parallel tc degenerates
	// and e4 takes over.
	tc  float64
	e4  float64
	aMc float64
	twoA float64

	standardParallel float64 // radians, mirrored to the north
	centralMeridian  float64 // radians, mirrored with the hemisphere
	falseEasting     float64
	falseNorthing    float64
	scaleFactor      float64

	deltaEasting  float64
	deltaNorthing float64
}

// NewPolarStereographic constructs a converter from a latitude of true
// scale. A negative standard parallel selects the southern hemisphere.
// centralMeridian (the longitude down from the pole) accepts (-pi, 2pi].
func NewPolarStereographic(ellipsoid Ellipsoid, standardParallel, centralMeridian,
	falseEasting, falseNorthing float64) (*PolarStereographic, error) {
	if err := ellipsoid.validate(); err != nil {
		return nil, err
	}
	if standardParallel < -math.Pi/2 || standardParallel > math.Pi/2 {
		return nil, conversionError(OriginLatitudeError, "latitude of true scale out of range")
	}
	if centralMeridian < -math.Pi || centralMeridian > 2*math.Pi {
		return nil, conversionError(OriginLongitudeError, "longitude down from pole out of range")
	}

	p := newPolarBase(ellipsoid, falseEasting, falseNorthing)
	if centralMeridian > math.Pi {
		centralMeridian -= 2 * math.Pi
	}
	p.setOrigin(standardParallel, centralMeridian)
	p.computeSecantConstants()

	// Scale factor at the pole implied by the standard parallel.
	slat := math.Sin(math.Abs(standardParallel))
	onePlusEsSin := 1.0 + p.e*slat
	oneMinusEsSin := 1.0 - p.e*slat
	p.scaleFactor = ((1 + slat) / 2) * (p.e4 /
		math.Sqrt(math.Pow(onePlusEsSin, 1.0+p.e)*math.Pow(oneMinusEsSin, 1.0-p.e)))

	if err := p.computeDeltas(centralMeridian); err != nil {
		return nil, err
	}
	return p, nil
}

// NewPolarStereographicScaleFactor constructs a converter from a scale
// factor at the pole, solving iteratively for the equivalent standard
// parallel in the given hemisphere.
func NewPolarStereographicScaleFactor(ellipsoid Ellipsoid, centralMeridian,
	scaleFactor float64, hemisphere Hemisphere,
	falseEasting, falseNorthing float64) (*PolarStereographic, error) {
	const (
		minScaleFactor = 0.1
		maxScaleFactor = 3.0
		tolerance      = 1.0e-15
	)
	if err := ellipsoid.validate(); err != nil {
		return nil, err
	}
	if scaleFactor < minScaleFactor || scaleFactor > maxScaleFactor {
		return nil, conversionError(ScaleFactorError, "scale factor out of range")
	}
	if centralMeridian < -math.Pi || centralMeridian > 2*math.Pi {
		return nil, conversionError(OriginLongitudeError, "longitude down from pole out of range")
	}
	if hemisphere != HemisphereNorth && hemisphere != HemisphereSouth {
		return nil, conversionError(HemisphereError, "hemisphere must be north or south")
	}

	p := newPolarBase(ellipsoid, falseEasting, falseNorthing)
	p.scaleFactor = scaleFactor

	// Fixed-point iteration for sin of the standard parallel.
	sk := 0.0
	skPlus1 := -1 + 2*scaleFactor
	count := 30
	for math.Abs(skPlus1-sk) > tolerance && count != 0 {
		sk = skPlus1
		onePlusEsSk := 1.0 + p.e*sk
		oneMinusEsSk := 1.0 - p.e*sk
		skPlus1 = (2*scaleFactor*
			math.Sqrt(math.Pow(onePlusEsSk, 1.0+p.e)*math.Pow(oneMinusEsSk, 1.0-p.e)))/
			p.e4 - 1
		count--
	}
	if count == 0 || skPlus1 < -1.0 || skPlus1 > 1.0 {
		return nil, conversionError(OriginLatitudeError, "no standard parallel for scale factor")
	}
	standardParallel := math.Asin(skPlus1)
	if hemisphere == HemisphereSouth {
		standardParallel = -standardParallel
	}

	if centralMeridian > math.Pi {
		centralMeridian -= 2 * math.Pi
	}
	p.setOrigin(standardParallel, centralMeridian)
	p.computeSecantConstants()

	if err := p.computeDeltas(centralMeridian); err != nil {
		return nil, err
	}
	return p, nil
}

func newPolarBase(ellipsoid Ellipsoid, falseEasting, falseNorthing float64) *PolarStereographic {
	es := ellipsoid.EccentricitySquared()
	e := math.Sqrt(es)
	return &PolarStereographic{
		ellipsoid:        ellipsoid,
		e:                e,
		eOverTwo:         e / 2.0,
		tc:               1.0,
		e4:               math.Sqrt(math.Pow(1.0+e, 1.0+e) * math.Pow(1.0-e, 1.0-e)),
		aMc:              ellipsoid.SemiMajorAxis,
		twoA:             2.0 * ellipsoid.SemiMajorAxis,
		standardParallel: math.Pi / 2,
		scaleFactor:      1.0,
		falseEasting:     falseEasting,
		falseNorthing:    falseNorthing,
		deltaEasting:     12713601.0,
		deltaNorthing:    12713601.0,
	}
}

func (p *PolarStereographic) setOrigin(standardParallel, centralMeridian float64) {
	if standardParallel < 0 {
		p.southern = true
		p.standardParallel = -standardParallel
		p.centralMeridian = -centralMeridian
	} else {
		p.southern = false
		p.standardParallel = standardParallel
		p.centralMeridian = centralMeridian
	}
}

func (p *PolarStereographic) computeSecantConstants() {
	if math.Abs(p.standardParallel-math.Pi/2) > 1.0e-10 {
		slat := math.Sin(p.standardParallel)
		essin := p.e * slat
		clat := math.Cos(p.standardParallel)
		mc := clat / math.Sqrt(1.0-essin*essin)
		p.aMc = p.ellipsoid.SemiMajorAxis * mc
		p.tc = math.Tan(math.Pi/4-p.standardParallel/2.0) / p.isoPow(essin)
	}
}

// computeDeltas sizes the invertible region: the projected radius of the
// equator along the central meridian, with a small margin.
func (p *PolarStereographic) computeDeltas(centralMeridian float64) error {
	equator := s2.LatLng{Lat: 0, Lng: s1.Angle(centralMeridian)}
	coords, err := p.ConvertFromGeodetic(equator)
	if err != nil {
		return err
	}
	p.deltaNorthing = coords.Northing
	if p.falseNorthing != 0 {
		p.deltaNorthing -= p.falseNorthing
	}
	if p.deltaNorthing < 0 {
		p.deltaNorthing = -p.deltaNorthing
	}
	p.deltaNorthing *= 1.01
	p.deltaEasting = p.deltaNorthing
	return nil
}

// ScaleFactor returns the scale factor at the pole.
func (p *PolarStereographic) ScaleFactor() float64 {
	return p.scaleFactor
}

func (p *PolarStereographic) isoPow(esSin float64) float64 {
	return math.Pow((1.0-esSin)/(1.0+esSin), p.eOverTwo)
}

// ConvertFromGeodetic converts a geodetic position in the converter's
// hemisphere to easting and northing. The pole itself maps exactly to the
// false origin.
func (p *PolarStereographic) ConvertFromGeodetic(geodetic s2.LatLng) (MapCoords, error) {
	latitude := geodetic.Lat.Radians()
	longitude := geodetic.Lng.Radians()

	if latitude < -math.Pi/2 || latitude > math.Pi/2 {
		return MapCoords{}, conversionError(LatitudeError, "latitude out of range")
	}
	if (latitude < 0 && !p.southern) || (latitude > 0 && p.southern) {
		return MapCoords{}, conversionError(LatitudeError, "latitude in the opposite hemisphere")
	}
	if longitude < -math.Pi || longitude > 2*math.Pi {
		return MapCoords{}, conversionError(LongitudeError, "longitude out of range")
	}

	if math.Abs(math.Abs(latitude)-math.Pi/2) < 1.0e-10 {
		return MapCoords{Easting: p.falseEasting, Northing: p.falseNorthing}, nil
	}

	if p.southern {
		latitude = -latitude
		longitude = -longitude
	}
	dlam := longitude - p.centralMeridian
	if dlam > math.Pi {
		dlam -= 2 * math.Pi
	}
	if dlam < -math.Pi {
		dlam += 2 * math.Pi
	}

	essin := p.e * math.Sin(latitude)
	t := math.Tan(math.Pi/4-latitude/2.0) / p.isoPow(essin)

	var rho float64
	if math.Abs(p.standardParallel-math.Pi/2) > 1.0e-10 {
		rho = p.aMc * t / p.tc
	} else {
		rho = p.twoA * t / p.e4
	}

	var easting, northing float64
	if p.southern {
		easting = -(rho*math.Sin(dlam) - p.falseEasting)
		northing = rho*math.Cos(dlam) + p.falseNorthing
	} else {
		easting = rho*math.Sin(dlam) + p.falseEasting
		northing = -rho*math.Cos(dlam) + p.falseNorthing
	}
	return MapCoords{Easting: easting, Northing: northing}, nil
}

// ConvertToGeodetic converts easting and northing back to a geodetic
// position. The false origin maps to the exact pole with the central
// meridian as the longitude.
func (p *PolarStereographic) ConvertToGeodetic(coords MapCoords) (s2.LatLng, error) {
	easting := coords.Easting
	northing := coords.Northing

	if easting > p.falseEasting+p.deltaEasting ||
		easting < p.falseEasting-p.deltaEasting {
		return s2.LatLng{}, conversionError(EastingError, "easting out of range")
	}
	if northing > p.falseNorthing+p.deltaNorthing ||
		northing < p.falseNorthing-p.deltaNorthing {
		return s2.LatLng{}, conversionError(NorthingError, "northing out of range")
	}

	dy := northing - p.falseNorthing
	dx := easting - p.falseEasting
	rho := math.Sqrt(dx*dx + dy*dy)

	deltaRadius := math.Sqrt(p.deltaEasting*p.deltaEasting + p.deltaNorthing*p.deltaNorthing)
	if rho > deltaRadius {
		return s2.LatLng{}, conversionError(RadiusError, "point is outside the projection area")
	}

	var latitude, longitude float64
	if dy == 0.0 && dx == 0.0 {
		latitude = math.Pi / 2
		longitude = p.centralMeridian
	} else {
		if p.southern {
			dy = -dy
			dx = -dx
		}

		var t float64
		if math.Abs(p.standardParallel-math.Pi/2) > 1.0e-10 {
			t = rho * p.tc / p.aMc
		} else {
			t = rho * p.e4 / p.twoA
		}

		// Fixed-point iteration on the isometric latitude.
		phi := math.Pi/2 - 2.0*math.Atan(t)
		tempPhi := 0.0
		for math.Abs(phi-tempPhi) > 1.0e-10 {
			tempPhi = phi
			essin := p.e * math.Sin(phi)
			phi = math.Pi/2 - 2.0*math.Atan(t*p.isoPow(essin))
		}
		latitude = phi
		longitude = p.centralMeridian + math.Atan2(dx, -dy)

		if longitude > math.Pi {
			longitude -= 2 * math.Pi
		} else if longitude < -math.Pi {
			longitude += 2 * math.Pi
		}

		// Force distorted values onto the valid domain.
		if latitude > math.Pi/2 {
			latitude = math.Pi / 2
		} else if latitude < -math.Pi/2 {
			latitude = -math.Pi / 2
		}
		if longitude > math.Pi {
			longitude = math.Pi
		} else if longitude < -math.Pi {
			longitude = -math.Pi
		}
	}
	if p.southern {
		latitude = -latitude
		longitude = -longitude
	}
	return s2.LatLng{Lat: s1.Angle(latitude), Lng: s1.Angle(longitude)}, nil
}
