package geoconv_test

import (
	"math"
	"testing"

	"geoconv"

	"github.com/golang/geo/s2"
)

func newTestUPS(t *testing.T) *geoconv.UPS {
	t.Helper()
	ups, err := geoconv.NewUPS(geoconv.WGS84)
	if err != nil {
		t.Fatalf("error creating UPS converter: %s", err)
	}
	return ups
}

func TestUPSPoles(t *testing.T) {
	ups := newTestUPS(t)
	for _, c := range []struct {
		lat        float64
		hemisphere geoconv.Hemisphere
	}{
		{90, geoconv.HemisphereNorth},
		{-90, geoconv.HemisphereSouth},
	} {
		coord, err := ups.ConvertFromGeodetic(s2.LatLngFromDegrees(c.lat, 0))
		if err != nil {
			t.Fatalf("error converting the pole at %f: %s", c.lat, err)
		}
		if coord.Hemisphere != c.hemisphere {
			t.Errorf("expected hemisphere %s, got %s", c.hemisphere, coord.Hemisphere)
		}
		if coord.Easting != 2000000 || coord.Northing != 2000000 {
			t.Errorf("expected the pole at the grid center, got %f %f", coord.Easting, coord.Northing)
		}
		geo, err := ups.ConvertToGeodetic(coord)
		if err != nil {
			t.Fatalf("error inverting the grid center: %s", err)
		}
		if math.Abs(geo.Lat.Degrees()-c.lat) > 1e-9 {
			t.Errorf("expected the grid center to invert to the pole, got %s", geo)
		}
	}
}

func TestUPSRoundTrip(t *testing.T) {
	ups := newTestUPS(t)
	converted := 0
	for lng := -180.0; lng < 180.0; lng += 10.0 {
		for lat := -90.0; lat <= 90.0; lat += 0.5 {
			geo := s2.LatLngFromDegrees(lat, lng)
			coord, err := ups.ConvertFromGeodetic(geo)
			if err != nil {
				continue
			}
			converted++
			geo2, err := ups.ConvertToGeodetic(coord)
			if err != nil {
				t.Fatalf("error inverting %s: %s", geo, err)
			}
			if geo.Distance(geo2).Radians() > 1e-8 {
				t.Fatalf("round trip of %s returned %s", geo, geo2)
			}
		}
	}
	if converted == 0 {
		t.Fatal("no points converted")
	}
}

func TestUPSRejectsMidLatitudes(t *testing.T) {
	ups := newTestUPS(t)
	for _, lat := range []float64{50, 83.5, 0, -70, -79.5} {
		if _, err := ups.ConvertFromGeodetic(s2.LatLngFromDegrees(lat, 10)); geoconv.Kind(err) != geoconv.LatitudeError {
			t.Errorf("expected a latitude error at %f, got %v", lat, err)
		}
	}
}

func TestUPSValidation(t *testing.T) {
	ups := newTestUPS(t)
	if _, err := ups.ConvertToGeodetic(geoconv.UPSCoord{Easting: 2000000, Northing: 2000000}); geoconv.Kind(err) != geoconv.HemisphereError {
		t.Errorf("expected a hemisphere error, got %v", err)
	}
	if _, err := ups.ConvertToGeodetic(geoconv.UPSCoord{
		Hemisphere: geoconv.HemisphereNorth,
		Easting:    5000000,
		Northing:   2000000,
	}); geoconv.Kind(err) != geoconv.EastingError {
		t.Errorf("expected an easting error, got %v", err)
	}
	// A position inside the grid square but outside the polar cap.
	if _, err := ups.ConvertToGeodetic(geoconv.UPSCoord{
		Hemisphere: geoconv.HemisphereNorth,
		Easting:    3999999,
		Northing:   3999999,
	}); geoconv.Kind(err) != geoconv.LatitudeError {
		t.Errorf("expected a latitude error outside the polar cap, got %v", err)
	}
}
