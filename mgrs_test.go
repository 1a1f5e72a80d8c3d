package geoconv_test

import (
	"math"
	"strings"
	"testing"

	"geoconv"

	"github.com/golang/geo/s2"
)

func newTestMGRS(t *testing.T) *geoconv.MGRS {
	t.Helper()
	mgrs, err := geoconv.NewMGRS(geoconv.WGS84)
	if err != nil {
		t.Fatalf("error creating MGRS converter: %s", err)
	}
	return mgrs
}

func TestMGRSKnownValues(t *testing.T) {
	mgrs := newTestMGRS(t)
	cases := []struct {
		lat, lng float64
		want     string
	}{
		// Equator on the central meridian of zone 31.
		{0, 3, "31NEA 00000 00000"},
		// The poles; longitude is irrelevant there.
		{90, 177, "ZAH 00000 00000"},
		{-90, 0, "BAN 00000 00000"},
	}
	for _, c := range cases {
		got, err := mgrs.ConvertFromGeodetic(s2.LatLngFromDegrees(c.lat, c.lng), 5)
		if err != nil {
			t.Fatalf("error converting (%f, %f): %s", c.lat, c.lng, err)
		}
		if got != c.want {
			t.Errorf("expected %q at (%f, %f), got %q", c.want, c.lat, c.lng, got)
		}
	}
}

func TestMGRSInverseKnownValues(t *testing.T) {
	mgrs := newTestMGRS(t)

	geo, warning, err := mgrs.ConvertToGeodetic("31NEA 00000 00000")
	if err != nil {
		t.Fatalf("error converting: %s", err)
	}
	if warning != geoconv.NoWarning {
		t.Errorf("unexpected warning %s", warning)
	}
	if geo.Distance(s2.LatLngFromDegrees(0, 3)).Radians() > 1e-9 {
		t.Errorf("expected (0, 3), got %s", geo)
	}

	// The pole square inverts to the pole itself; the longitude the string
	// was encoded from is not recoverable.
	geo, _, err = mgrs.ConvertToGeodetic("ZAH 00000 00000")
	if err != nil {
		t.Fatalf("error converting polar reference: %s", err)
	}
	if math.Abs(geo.Lat.Degrees()-90) > 1e-9 {
		t.Errorf("expected the north pole, got %s", geo)
	}
	if math.Abs(geo.Lng.Degrees()-177) < 1 {
		t.Errorf("polar inverse should not recover the encoding longitude, got %s", geo)
	}

	// Spaces and lowercase are accepted.
	geo2, _, err := mgrs.ConvertToGeodetic("31nea0000000000")
	if err != nil {
		t.Fatalf("error converting compact lowercase form: %s", err)
	}
	if geo2.Distance(s2.LatLngFromDegrees(0, 3)).Radians() > 1e-9 {
		t.Errorf("expected (0, 3), got %s", geo2)
	}
}

func TestMGRSRoundTrip(t *testing.T) {
	mgrs := newTestMGRS(t)
	const earthRadius = 6378137.0
	// Half-degree offsets keep the sweep away from zone and band edges,
	// where re-encoding a position recovered from a rounded grid reference
	// can legitimately land in the neighboring cell.
	for lng := -178.5; lng < 180.0; lng += 7.0 {
		for lat := -88.5; lat <= 89.0; lat += 4.0 {
			geo := s2.LatLngFromDegrees(lat, lng)
			s, err := mgrs.ConvertFromGeodetic(geo, 5)
			if err != nil {
				t.Fatalf("error converting %s: %s", geo, err)
			}
			geo2, warning, err := mgrs.ConvertToGeodetic(s)
			if err != nil {
				t.Fatalf("error inverting %q (from %s): %s", s, geo, err)
			}
			if warning != geoconv.NoWarning {
				t.Errorf("unexpected warning %s for %q", warning, s)
			}
			if geo.Distance(geo2).Radians()*earthRadius > 2.0 {
				t.Fatalf("round trip of %s via %q returned %s", geo, s, geo2)
			}
			// Re-encoding the recovered position reproduces the string.
			s2nd, err := mgrs.ConvertFromGeodetic(geo2, 5)
			if err != nil {
				t.Fatalf("error re-encoding %s: %s", geo2, err)
			}
			if s2nd != s {
				t.Fatalf("re-encoding %s gave %q, expected %q", geo2, s2nd, s)
			}
		}
	}
}

func TestMGRSPrecision(t *testing.T) {
	mgrs := newTestMGRS(t)
	const earthRadius = 6378137.0
	points := []s2.LatLng{
		s2.LatLngFromDegrees(38.9, -77.03),
		s2.LatLngFromDegrees(-33.86, 151.21),
		s2.LatLngFromDegrees(60.17, 24.94),
		s2.LatLngFromDegrees(-74.37916, 155.02235),
	}
	for _, geo := range points {
		for precision := 0; precision <= 5; precision++ {
			s, err := mgrs.ConvertFromGeodetic(geo, precision)
			if err != nil {
				t.Fatalf("error converting %s at precision %d: %s", geo, precision, err)
			}
			geo2, _, err := mgrs.ConvertToGeodetic(s)
			if err != nil {
				t.Fatalf("error inverting %q: %s", s, err)
			}
			cell := math.Pow(10.0, float64(5-precision))
			if got := geo.Distance(geo2).Radians() * earthRadius; got > 1.5*cell {
				t.Errorf("precision %d of %s: %q is %.1f m away, expected at most %.1f",
					precision, geo, s, got, 1.5*cell)
			}
		}
	}
}

func TestMGRSNeverUsesIOrO(t *testing.T) {
	mgrs := newTestMGRS(t)
	for lng := -178.0; lng < 180.0; lng += 11.0 {
		for lat := -88.0; lat <= 88.0; lat += 3.0 {
			s, err := mgrs.ConvertFromGeodetic(s2.LatLngFromDegrees(lat, lng), 1)
			if err != nil {
				t.Fatalf("error converting (%f, %f): %s", lat, lng, err)
			}
			if strings.ContainsAny(s, "IO") {
				t.Fatalf("grid reference %q at (%f, %f) uses a forbidden letter", s, lat, lng)
			}
		}
	}
}

func TestMGRSFromUTM(t *testing.T) {
	mgrs := newTestMGRS(t)
	s, err := mgrs.ConvertFromUTM(geoconv.UTMCoord{
		Zone:       31,
		Hemisphere: geoconv.HemisphereNorth,
		Easting:    500000,
		Northing:   0,
	}, 5)
	if err != nil {
		t.Fatalf("error converting from UTM: %s", err)
	}
	if s != "31NEA 00000 00000" {
		t.Errorf("expected 31NEA 00000 00000, got %q", s)
	}

	coord, _, err := mgrs.ConvertToUTM("31NEA 00000 00000")
	if err != nil {
		t.Fatalf("error converting to UTM: %s", err)
	}
	if coord.Zone != 31 || coord.Hemisphere != geoconv.HemisphereNorth ||
		coord.Easting != 500000 || coord.Northing != 0 {
		t.Errorf("unexpected UTM position %+v", coord)
	}
}

func TestMGRSLatitudeBandMismatch(t *testing.T) {
	mgrs := newTestMGRS(t)
	// Band R claims 24N..32N; square EA row A in zone 31 is nowhere near it.
	geo, warning, err := mgrs.ConvertToGeodetic("31REA 00000 00000")
	if err != nil {
		t.Fatalf("expected a best-effort result, got error %s", err)
	}
	if warning != geoconv.LatitudeBandWarning {
		t.Errorf("expected a latitude band warning, got %s", warning)
	}
	if geo.Lat.Degrees() <= 32 {
		t.Errorf("expected a position north of band R, got %s", geo)
	}
}

func TestMGRSRejectsMalformedStrings(t *testing.T) {
	mgrs := newTestMGRS(t)
	cases := []string{
		"",                   // nothing at all
		"31NIA 00000 00000",  // letter I
		"31NOA 00000 00000",  // letter O
		"31NEA 000 00000",    // uneven digit groups
		"31NEA 000000000000", // more than five digits per axis
		"123NEA 00000 00000", // three-digit zone
		"61NEA 00000 00000",  // zone out of range
		"31NE 00000 00000",   // only two letters
		"31NEA#0000000000",   // invalid character
		"32XMH 00000 00000",  // band X does not exist in zone 32
		"YDA 00000 00000",    // column D is not used in polar squares
	}
	for _, s := range cases {
		if _, _, err := mgrs.ConvertToGeodetic(s); err == nil {
			t.Errorf("expected an error for %q", s)
		}
	}

	if _, err := mgrs.ConvertFromGeodetic(s2.LatLngFromDegrees(0, 0), 6); geoconv.Kind(err) != geoconv.PrecisionError {
		t.Errorf("expected a precision error, got %v", err)
	}
}

func TestSplitMGRS(t *testing.T) {
	c, err := geoconv.SplitMGRS("31UDQ4825211938")
	if err != nil {
		t.Fatalf("error splitting: %s", err)
	}
	if c.Zone != 31 || c.LatitudeBand != 'U' || c.SquareColumn != 'D' || c.SquareRow != 'Q' {
		t.Errorf("unexpected zone or letters: %+v", c)
	}
	if c.Easting != 48252 || c.Northing != 11938 || c.Precision != 5 {
		t.Errorf("unexpected offsets: %+v", c)
	}

	c, err = geoconv.SplitMGRS("ZAH 123 456")
	if err != nil {
		t.Fatalf("error splitting polar reference: %s", err)
	}
	if c.Zone != 0 || c.Precision != 3 {
		t.Errorf("unexpected polar components: %+v", c)
	}
	if c.Easting != 12300 || c.Northing != 45600 {
		t.Errorf("unexpected polar offsets: %+v", c)
	}
}
