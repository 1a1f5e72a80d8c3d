// Package geoconv converts between geodetic latitude/longitude and the
// UTM, UPS, MGRS, Transverse Mercator and Polar Stereographic coordinate
// systems on an arbitrary reference ellipsoid.
package geoconv

// Ellipsoid is a reference ellipsoid defined by its semi-major axis in
// meters and its flattening. The two-letter code selects the MGRS grid
// lettering pattern and matches the NGA ellipsoid code table. Ellipsoids
// are immutable and shared by reference across converters.
type Ellipsoid struct {
	SemiMajorAxis float64
	Flattening    float64
	Code          string
}

// Predefined ellipsoids.
var (
	WGS84             = Ellipsoid{SemiMajorAxis: 6378137.0, Flattening: 1 / 298.257223563, Code: "WE"}
	GRS80             = Ellipsoid{SemiMajorAxis: 6378137.0, Flattening: 1 / 298.257222101, Code: "RF"}
	International1924 = Ellipsoid{SemiMajorAxis: 6378388.0, Flattening: 1 / 297.0, Code: "IN"}
	Clarke1866        = Ellipsoid{SemiMajorAxis: 6378206.4, Flattening: 1 / 294.9786982, Code: "CC"}
	Clarke1880        = Ellipsoid{SemiMajorAxis: 6378249.145, Flattening: 1 / 293.465, Code: "CD"}
	Bessel1841        = Ellipsoid{SemiMajorAxis: 6377397.155, Flattening: 1 / 299.1528128, Code: "BR"}
	Bessel1841Namibia = Ellipsoid{SemiMajorAxis: 6377483.865, Flattening: 1 / 299.1528128, Code: "BN"}
)

// EccentricitySquared returns the first eccentricity squared, 2f - f^2.
func (e Ellipsoid) EccentricitySquared() float64 {
	return 2*e.Flattening - e.Flattening*e.Flattening
}

// SecondEccentricitySquared returns e'^2 = es/(1-es).
func (e Ellipsoid) SecondEccentricitySquared() float64 {
	es := e.EccentricitySquared()
	return 1/(1-es) - 1
}

// SemiMinorAxis returns the polar radius b = a(1-f).
func (e Ellipsoid) SemiMinorAxis() float64 {
	return e.SemiMajorAxis * (1 - e.Flattening)
}

// InverseFlattening returns 1/f.
func (e Ellipsoid) InverseFlattening() float64 {
	return 1 / e.Flattening
}

func (e Ellipsoid) validate() error {
	if e.SemiMajorAxis <= 0.0 {
		return conversionError(SemiMajorAxisError, "semi-major axis must be greater than zero")
	}
	if inv := e.InverseFlattening(); inv < 250 || inv > 350 {
		return conversionError(InverseFlatteningError, "inverse flattening must be between 250 and 350")
	}
	return nil
}
