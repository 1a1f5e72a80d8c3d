package geoconv_test

import (
	"math"
	"testing"

	"geoconv"

	"github.com/golang/geo/s2"
)

const upsTrueScaleLat = 81.114528

func TestPolarStereographicPole(t *testing.T) {
	polar, err := geoconv.NewPolarStereographic(geoconv.WGS84, upsTrueScaleLat*degree, 0, 2000000, 2000000)
	if err != nil {
		t.Fatalf("error creating converter: %s", err)
	}
	coords, err := polar.ConvertFromGeodetic(s2.LatLngFromDegrees(90, 45))
	if err != nil {
		t.Fatalf("error converting the pole: %s", err)
	}
	if coords.Easting != 2000000 || coords.Northing != 2000000 {
		t.Errorf("expected the pole at the false origin, got %f %f", coords.Easting, coords.Northing)
	}
	geo, err := polar.ConvertToGeodetic(coords)
	if err != nil {
		t.Fatalf("error inverting the false origin: %s", err)
	}
	if math.Abs(geo.Lat.Degrees()-90) > 1e-9 {
		t.Errorf("expected the false origin to invert to the pole, got %s", geo)
	}
}

func TestPolarStereographicRoundTrip(t *testing.T) {
	polar, err := geoconv.NewPolarStereographic(geoconv.WGS84, upsTrueScaleLat*degree, 0, 0, 0)
	if err != nil {
		t.Fatalf("error creating converter: %s", err)
	}
	for lat := 35.0; lat < 90.0; lat += 2.5 {
		for lng := -180.0; lng < 180.0; lng += 15.0 {
			geo := s2.LatLngFromDegrees(lat, lng)
			coords, err := polar.ConvertFromGeodetic(geo)
			if err != nil {
				t.Fatalf("error converting %s: %s", geo, err)
			}
			geo2, err := polar.ConvertToGeodetic(coords)
			if err != nil {
				t.Fatalf("error inverting %s: %s", geo, err)
			}
			if geo.Distance(geo2).Radians() > 1e-8 {
				t.Fatalf("round trip of %s returned %s", geo, geo2)
			}
		}
	}
}

// A southern converter must place the false origin at the pole and add the
// false northing to every projected northing, mirroring the northern case.
func TestPolarStereographicSouthernHemisphere(t *testing.T) {
	polar, err := geoconv.NewPolarStereographic(geoconv.WGS84, -upsTrueScaleLat*degree, 0, 2000000, 2000000)
	if err != nil {
		t.Fatalf("error creating converter: %s", err)
	}

	geo := s2.LatLngFromDegrees(-85, 0)
	coords, err := polar.ConvertFromGeodetic(geo)
	if err != nil {
		t.Fatalf("error converting %s: %s", geo, err)
	}
	if math.Abs(coords.Easting-2000000) > 1e-6 {
		t.Errorf("expected easting 2000000 on the central meridian, got %f", coords.Easting)
	}
	if coords.Northing <= 2000000 {
		t.Errorf("expected the false northing applied, got northing %f", coords.Northing)
	}

	geo2, err := polar.ConvertToGeodetic(coords)
	if err != nil {
		t.Fatalf("error inverting %s: %s", geo, err)
	}
	if geo.Distance(geo2).Radians() > 1e-8 {
		t.Fatalf("round trip of %s returned %s", geo, geo2)
	}

	for lat := -89.5; lat < -60.0; lat += 2.5 {
		for lng := -180.0; lng < 180.0; lng += 30.0 {
			geo := s2.LatLngFromDegrees(lat, lng)
			coords, err := polar.ConvertFromGeodetic(geo)
			if err != nil {
				t.Fatalf("error converting %s: %s", geo, err)
			}
			geo2, err := polar.ConvertToGeodetic(coords)
			if err != nil {
				t.Fatalf("error inverting %s: %s", geo, err)
			}
			if geo.Distance(geo2).Radians() > 1e-8 {
				t.Fatalf("round trip of %s returned %s", geo, geo2)
			}
		}
	}
}

func TestPolarStereographicScaleFactor(t *testing.T) {
	fromScale, err := geoconv.NewPolarStereographicScaleFactor(geoconv.WGS84, 0, 0.994,
		geoconv.HemisphereNorth, 0, 0)
	if err != nil {
		t.Fatalf("error creating converter from scale factor: %s", err)
	}
	fromParallel, err := geoconv.NewPolarStereographic(geoconv.WGS84, upsTrueScaleLat*degree, 0, 0, 0)
	if err != nil {
		t.Fatalf("error creating converter from standard parallel: %s", err)
	}
	if math.Abs(fromParallel.ScaleFactor()-0.994) > 1e-6 {
		t.Errorf("expected pole scale factor 0.994, got %.8f", fromParallel.ScaleFactor())
	}

	// The two parameterizations describe the same projection.
	for _, geo := range []s2.LatLng{
		s2.LatLngFromDegrees(87, 10),
		s2.LatLngFromDegrees(70, -120),
		s2.LatLngFromDegrees(45, 179),
	} {
		a, err := fromScale.ConvertFromGeodetic(geo)
		if err != nil {
			t.Fatalf("error converting %s: %s", geo, err)
		}
		b, err := fromParallel.ConvertFromGeodetic(geo)
		if err != nil {
			t.Fatalf("error converting %s: %s", geo, err)
		}
		if math.Abs(a.Easting-b.Easting) > 0.001 || math.Abs(a.Northing-b.Northing) > 0.001 {
			t.Errorf("converters disagree at %s: %v vs %v", geo, a, b)
		}
	}
}

func TestPolarStereographicRejections(t *testing.T) {
	polar, err := geoconv.NewPolarStereographic(geoconv.WGS84, upsTrueScaleLat*degree, 0, 0, 0)
	if err != nil {
		t.Fatalf("error creating converter: %s", err)
	}
	if _, err := polar.ConvertFromGeodetic(s2.LatLngFromDegrees(-45, 0)); geoconv.Kind(err) != geoconv.LatitudeError {
		t.Errorf("expected a latitude error for the opposite hemisphere, got %v", err)
	}
	if _, err := polar.ConvertToGeodetic(geoconv.MapCoords{Easting: 5e8}); geoconv.Kind(err) != geoconv.EastingError {
		t.Errorf("expected an easting error, got %v", err)
	}
	if _, err := geoconv.NewPolarStereographicScaleFactor(geoconv.WGS84, 0, 0.01,
		geoconv.HemisphereNorth, 0, 0); geoconv.Kind(err) != geoconv.ScaleFactorError {
		t.Errorf("expected a scale factor error, got %v", err)
	}
}
