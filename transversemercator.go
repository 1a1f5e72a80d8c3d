package geoconv

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

const (
	// Latitudes within 0.01 degree of a pole are rejected; the series loses
	// accuracy there and the projection is singular at the pole itself.
	tranMercMaxLat = math.Pi * 89.99 / 180.0
	// Points more than 90 degrees from the central meridian cannot be
	// projected.
	tranMercMaxDeltaLon = math.Pi * 90.0 / 180.0

	tranMercMinScaleFactor = 0.3
	tranMercMaxScaleFactor = 3.0

	// Beyond 9 degrees from the central meridian distances are noticeably
	// distorted; conversions still succeed but carry a LongitudeWarning.
	tranMercDistortionLon = math.Pi * 9.0 / 180.0
)

// MapCoords is a projected position in meters.
type MapCoords struct {
	Easting  float64
	Northing float64
}

// TransverseMercator converts between geodetic coordinates and Transverse
// Mercator easting/northing. All projection parameters are fixed at
// construction; the conversion methods do not mutate the converter and are
// safe for concurrent use.
type TransverseMercator struct {
	ellipsoid Ellipsoid
	es        float64 // first eccentricity squared
	ebs       float64 // second eccentricity squared

	originLat     float64 // radians
	originLon     float64 // central meridian, radians
	falseEasting  float64
	falseNorthing float64
	scaleFactor   float64

	// Meridian-arc series coefficients in the third flattening.
	ap, bp, cp, dp, ep float64

	// Inversion region half-widths around the false origin, measured by
	// projecting the domain corners at construction.
	deltaEasting  float64
	deltaNorthing float64
}

// NewTransverseMercator constructs a converter for the given ellipsoid and
// projection parameters. originLatitude and centralMeridian are in radians;
// centralMeridian accepts (-pi, 2pi] and is normalized to (-pi, pi].
func NewTransverseMercator(ellipsoid Ellipsoid, originLatitude, centralMeridian,
	falseEasting, falseNorthing, scaleFactor float64) (*TransverseMercator, error) {
	if err := ellipsoid.validate(); err != nil {
		return nil, err
	}
	if originLatitude < -tranMercMaxLat || originLatitude > tranMercMaxLat {
		return nil, conversionError(OriginLatitudeError, "origin latitude out of range")
	}
	if centralMeridian < -math.Pi || centralMeridian > 2*math.Pi {
		return nil, conversionError(OriginLongitudeError, "central meridian out of range")
	}
	if scaleFactor < tranMercMinScaleFactor || scaleFactor > tranMercMaxScaleFactor {
		return nil, conversionError(ScaleFactorError, "scale factor out of range")
	}

	t := &TransverseMercator{
		ellipsoid:     ellipsoid,
		es:            ellipsoid.EccentricitySquared(),
		ebs:           ellipsoid.SecondEccentricitySquared(),
		scaleFactor:   1,
		deltaEasting:  40000000.0,
		deltaNorthing: 40000000.0,
	}

	a := ellipsoid.SemiMajorAxis
	b := ellipsoid.SemiMinorAxis()
	tn := (a - b) / (a + b)
	tn2 := tn * tn
	tn3 := tn2 * tn
	tn4 := tn3 * tn
	tn5 := tn4 * tn

	t.ap = a * (1.0 - tn + 5.0*(tn2-tn3)/4.0 + 81.0*(tn4-tn5)/64.0)
	t.bp = 3.0 * a * (tn - tn2 + 7.0*(tn3-tn4)/8.0 + 55.0*tn5/64.0) / 2.0
	t.cp = 15.0 * a * (tn2 - tn3 + 3.0*(tn4-tn5)/4.0) / 16.0
	t.dp = 35.0 * a * (tn3 - tn4 + 11.0*tn5/16.0) / 48.0
	t.ep = 315.0 * a * (tn4 - tn5) / 512.0

	// Size the inversion region while the origin is still (0,0) and the
	// scale is 1: the projected domain corner bounds the northing, the
	// projected equator edge bounds the easting.
	e, n, _, err := t.project(tranMercMaxLat, tranMercMaxDeltaLon)
	if err != nil {
		return nil, err
	}
	t.deltaEasting, t.deltaNorthing = e, n
	e, _, _, err = t.project(0, tranMercMaxDeltaLon)
	if err != nil {
		return nil, err
	}
	t.deltaEasting = e

	t.originLat = originLatitude
	if centralMeridian > math.Pi {
		centralMeridian -= 2 * math.Pi
	}
	t.originLon = centralMeridian
	t.falseEasting = falseEasting
	t.falseNorthing = falseNorthing
	t.scaleFactor = scaleFactor
	return t, nil
}

// Ellipsoid returns the ellipsoid the converter was built on.
func (t *TransverseMercator) Ellipsoid() Ellipsoid {
	return t.ellipsoid
}

// CentralMeridian returns the projection's central meridian in radians.
func (t *TransverseMercator) CentralMeridian() float64 {
	return t.originLon
}

// meridianDistance is the true meridional arc length from the equator to
// latitude phi.
func (t *TransverseMercator) meridianDistance(phi float64) float64 {
	return t.ap*phi -
		t.bp*math.Sin(2.0*phi) +
		t.cp*math.Sin(4.0*phi) -
		t.dp*math.Sin(6.0*phi) +
		t.ep*math.Sin(8.0*phi)
}

// primeVerticalRadius is the radius of curvature in the prime vertical.
func (t *TransverseMercator) primeVerticalRadius(phi float64) float64 {
	s := math.Sin(phi)
	return t.ellipsoid.SemiMajorAxis / math.Sqrt(1.0-t.es*s*s)
}

// meridianRadius is the radius of curvature in the meridian.
func (t *TransverseMercator) meridianRadius(phi float64) float64 {
	s := math.Sin(phi)
	w := math.Sqrt(1.0 - t.es*s*s)
	return t.ellipsoid.SemiMajorAxis * (1.0 - t.es) / (w * w * w)
}

// ConvertFromGeodetic converts a geodetic position to easting and northing.
// A LongitudeWarning flags a position more than 9 degrees from the central
// meridian; the result is still returned.
func (t *TransverseMercator) ConvertFromGeodetic(geodetic s2.LatLng) (MapCoords, Warning, error) {
	easting, northing, warning, err := t.project(geodetic.Lat.Radians(), geodetic.Lng.Radians())
	if err != nil {
		return MapCoords{}, NoWarning, err
	}
	return MapCoords{Easting: easting, Northing: northing}, warning, nil
}

func (t *TransverseMercator) project(latitude, longitude float64) (easting, northing float64, warning Warning, err error) {
	if latitude < -tranMercMaxLat || latitude > tranMercMaxLat {
		return 0, 0, NoWarning, conversionError(LatitudeError, "latitude out of range")
	}
	if longitude > math.Pi {
		longitude -= 2 * math.Pi
	}
	if longitude < t.originLon-tranMercMaxDeltaLon ||
		longitude > t.originLon+tranMercMaxDeltaLon {
		// The wedge may straddle the antimeridian; re-test with both
		// angles lifted onto [0, 2pi).
		tempLon := longitude
		if tempLon < 0 {
			tempLon += 2 * math.Pi
		}
		tempOrigin := t.originLon
		if tempOrigin < 0 {
			tempOrigin += 2 * math.Pi
		}
		if tempLon < tempOrigin-tranMercMaxDeltaLon ||
			tempLon > tempOrigin+tranMercMaxDeltaLon {
			return 0, 0, NoWarning, conversionError(LongitudeError, "longitude out of range")
		}
	}

	dlam := longitude - t.originLon
	if math.Abs(dlam) > tranMercDistortionLon {
		warning = LongitudeWarning
	}
	if dlam > math.Pi {
		dlam -= 2 * math.Pi
	}
	if dlam < -math.Pi {
		dlam += 2 * math.Pi
	}
	if math.Abs(dlam) < 2.0e-10 {
		dlam = 0.0
	}

	s := math.Sin(latitude)
	c := math.Cos(latitude)
	c2 := c * c
	c3 := c2 * c
	c5 := c3 * c2
	c7 := c5 * c2
	tanPhi := math.Tan(latitude)
	tan2 := tanPhi * tanPhi
	tan4 := tan2 * tan2
	tan6 := tan4 * tan2
	eta := t.ebs * c2
	eta2 := eta * eta
	eta3 := eta2 * eta
	eta4 := eta3 * eta

	sn := t.primeVerticalRadius(latitude)
	tmd := t.meridianDistance(latitude)
	tmdo := t.meridianDistance(t.originLat)

	k := t.scaleFactor
	t1 := (tmd - tmdo) * k
	t2 := sn * s * c * k / 2.0
	t3 := sn * s * c3 * k * (5.0 - tan2 + 9.0*eta + 4.0*eta2) / 24.0
	t4 := sn * s * c5 * k * (61.0 - 58.0*tan2 + tan4 + 270.0*eta - 330.0*tan2*eta +
		445.0*eta2 + 324.0*eta3 - 680.0*tan2*eta2 + 88.0*eta4 -
		600.0*tan2*eta3 - 192.0*tan2*eta4) / 720.0
	t5 := sn * s * c7 * k * (1385.0 - 3111.0*tan2 + 543.0*tan4 - tan6) / 40320.0

	dlam2 := dlam * dlam
	dlam4 := dlam2 * dlam2
	dlam6 := dlam4 * dlam2
	dlam8 := dlam4 * dlam4
	northing = t.falseNorthing + t1 + dlam2*t2 + dlam4*t3 + dlam6*t4 + dlam8*t5

	t6 := sn * c * k
	t7 := sn * c3 * k * (1.0 - tan2 + eta) / 6.0
	t8 := sn * c5 * k * (5.0 - 18.0*tan2 + tan4 + 14.0*eta - 58.0*tan2*eta +
		13.0*eta2 + 4.0*eta3 - 64.0*tan2*eta2 - 24.0*tan2*eta3) / 120.0
	t9 := sn * c7 * k * (61.0 - 479.0*tan2 + 179.0*tan4 - tan6) / 5040.0

	dlam3 := dlam2 * dlam
	dlam5 := dlam4 * dlam
	dlam7 := dlam6 * dlam
	easting = t.falseEasting + dlam*t6 + dlam3*t7 + dlam5*t8 + dlam7*t9
	return easting, northing, warning, nil
}

// ConvertToGeodetic converts easting and northing back to a geodetic
// position. A LongitudeWarning flags a position whose recovered longitude
// lies in the distorted outer part of the projection.
func (t *TransverseMercator) ConvertToGeodetic(coords MapCoords) (s2.LatLng, Warning, error) {
	easting := coords.Easting
	northing := coords.Northing

	if easting < t.falseEasting-t.deltaEasting ||
		easting > t.falseEasting+t.deltaEasting {
		return s2.LatLng{}, NoWarning, conversionError(EastingError, "easting out of range")
	}
	if northing < t.falseNorthing-t.deltaNorthing ||
		northing > t.falseNorthing+t.deltaNorthing {
		return s2.LatLng{}, NoWarning, conversionError(NorthingError, "northing out of range")
	}

	tmdo := t.meridianDistance(t.originLat)
	tmd := tmdo + (northing-t.falseNorthing)/t.scaleFactor

	// Footpoint latitude: start from the spherical estimate and refine
	// against the meridian arc.
	ftphi := tmd / t.meridianRadius(0)
	for i := 0; i < 5; i++ {
		t10 := t.meridianDistance(ftphi)
		sr := t.meridianRadius(ftphi)
		ftphi += (tmd - t10) / sr
	}

	sr := t.meridianRadius(ftphi)
	sn := t.primeVerticalRadius(ftphi)
	c := math.Cos(ftphi)
	tanPhi := math.Tan(ftphi)
	tan2 := tanPhi * tanPhi
	tan4 := tan2 * tan2
	tan6 := tan4 * tan2
	eta := t.ebs * c * c
	eta2 := eta * eta
	eta3 := eta2 * eta
	eta4 := eta3 * eta

	de := easting - t.falseEasting
	if math.Abs(de) < 0.0001 {
		de = 0.0
	}

	k := t.scaleFactor
	k2 := k * k
	sn2 := sn * sn
	sn3 := sn2 * sn
	sn5 := sn3 * sn2
	sn7 := sn5 * sn2

	t10 := tanPhi / (2.0 * sr * sn * k2)
	t11 := tanPhi * (5.0 + 3.0*tan2 + eta - 4.0*eta2 - 9.0*tan2*eta) /
		(24.0 * sr * sn3 * k2 * k2)
	t12 := tanPhi * (61.0 + 90.0*tan2 + 46.0*eta + 45.0*tan4 - 252.0*tan2*eta -
		3.0*eta2 + 100.0*eta3 - 66.0*tan2*eta2 - 90.0*tan4*eta +
		88.0*eta4 + 225.0*tan4*eta2 + 84.0*tan2*eta3 - 192.0*tan2*eta4) /
		(720.0 * sr * sn5 * k2 * k2 * k2)
	t13 := tanPhi * (1385.0 + 3633.0*tan2 + 4095.0*tan4 + 1575.0*tan6) /
		(40320.0 * sr * sn7 * k2 * k2 * k2 * k2)

	de2 := de * de
	de4 := de2 * de2
	de6 := de4 * de2
	de8 := de4 * de4
	latitude := ftphi - de2*t10 + de4*t11 - de6*t12 + de8*t13

	t14 := 1.0 / (sn * c * k)
	t15 := (1.0 + 2.0*tan2 + eta) / (6.0 * sn3 * c * k2 * k)
	t16 := (5.0 + 6.0*eta + 28.0*tan2 - 3.0*eta2 + 8.0*tan2*eta + 24.0*tan4 -
		4.0*eta3 + 4.0*tan2*eta2 + 24.0*tan2*eta3) / (120.0 * sn5 * c * k2 * k2 * k)
	t17 := (61.0 + 662.0*tan2 + 1320.0*tan4 + 720.0*tan6) / (5040.0 * sn7 * c * k2 * k2 * k2 * k)

	de3 := de2 * de
	de5 := de4 * de
	de7 := de6 * de
	dlam := de*t14 - de3*t15 + de5*t16 - de7*t17
	longitude := t.originLon + dlam

	if math.Abs(latitude) > math.Pi/2 {
		return s2.LatLng{}, NoWarning, conversionError(NorthingError, "northing out of range")
	}
	if longitude > math.Pi {
		longitude -= 2 * math.Pi
		if math.Abs(longitude) > math.Pi {
			return s2.LatLng{}, NoWarning, conversionError(EastingError, "easting out of range")
		}
	}

	var warning Warning
	// The 9-degree distortion limit shrinks with the cosine of latitude:
	// meridians converge toward the poles.
	if math.Abs(dlam) > tranMercDistortionLon*math.Cos(latitude) {
		warning = LongitudeWarning
	}
	return s2.LatLng{Lat: s1.Angle(latitude), Lng: s1.Angle(longitude)}, warning, nil
}
