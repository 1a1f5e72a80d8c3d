package geoconv

import "fmt"

// DefaultMGRSConverter is a WGS84 ellipsoid based MGRS converter.
var DefaultMGRSConverter *MGRS

// DefaultUTMConverter is a WGS84 ellipsoid based UTM converter with no
// zone override.
var DefaultUTMConverter *UTM

// DefaultUPSConverter is a WGS84 ellipsoid based UPS converter.
var DefaultUPSConverter *UPS

func init() {
	var err error
	DefaultMGRSConverter, err = NewMGRS(WGS84)
	if err != nil {
		panic(fmt.Sprintf("error constructing WGS84 MGRS converter: %s", err))
	}
	DefaultUTMConverter, err = NewUTM(WGS84, 0)
	if err != nil {
		panic(fmt.Sprintf("error constructing WGS84 UTM converter: %s", err))
	}
	DefaultUPSConverter, err = NewUPS(WGS84)
	if err != nil {
		panic(fmt.Sprintf("error constructing WGS84 UPS converter: %s", err))
	}
}
