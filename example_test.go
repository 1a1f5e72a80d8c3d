package geoconv_test

import (
	"fmt"

	"geoconv"

	"github.com/golang/geo/s2"
)

func ExampleMGRS_ConvertFromGeodetic() {
	mgrs, _ := geoconv.DefaultMGRSConverter.ConvertFromGeodetic(s2.LatLngFromDegrees(0, 3), 5)
	fmt.Println(mgrs)
	// Output: 31NEA 00000 00000
}

func ExampleMGRS_ConvertToGeodetic() {
	geo, _, _ := geoconv.DefaultMGRSConverter.ConvertToGeodetic("31NEA 00000 00000")
	fmt.Println(geo)
	// Output: [0.0000000, 3.0000000]
}

func ExampleUTM_ConvertFromGeodetic() {
	coord, _, _ := geoconv.DefaultUTMConverter.ConvertFromGeodetic(s2.LatLngFromDegrees(0, 3), 0)
	fmt.Printf("%02d%s %.0f %.0f\n", coord.Zone, coord.Hemisphere, coord.Easting, coord.Northing)
	// Output: 31north 500000 0
}
