// Command geoconv converts coordinates between geodetic, UTM, UPS and
// MGRS representations.
//
// Each argument is one coordinate in the input format; with no arguments
// coordinates are read from stdin, one per line.
//
//	geoconv -from geodetic -to mgrs "48.8583 2.2945"
//	geoconv -from mgrs -to utm 31UDQ4825211938
//	echo "33 N 315428 6451145" | geoconv -from utm -to geodetic
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"geoconv"

	"github.com/golang/geo/s2"
)

type ellipsoidEntry struct {
	Name              string  `yaml:"name"`
	Code              string  `yaml:"code"`
	SemiMajorAxis     float64 `yaml:"semi_major_axis"`
	InverseFlattening float64 `yaml:"inverse_flattening"`
}

type ellipsoidFile struct {
	Ellipsoids []ellipsoidEntry `yaml:"ellipsoids"`
}

var builtinEllipsoids = map[string]geoconv.Ellipsoid{
	"WE": geoconv.WGS84,
	"RF": geoconv.GRS80,
	"IN": geoconv.International1924,
	"CC": geoconv.Clarke1866,
	"CD": geoconv.Clarke1880,
	"BR": geoconv.Bessel1841,
	"BN": geoconv.Bessel1841Namibia,
}

// resolveEllipsoid looks up a two-letter code among the built-in
// ellipsoids and, when given, a YAML definitions file.
func resolveEllipsoid(code, path string) (geoconv.Ellipsoid, error) {
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return geoconv.Ellipsoid{}, fmt.Errorf("reading ellipsoid file: %w", err)
		}
		var file ellipsoidFile
		if err := yaml.Unmarshal(b, &file); err != nil {
			return geoconv.Ellipsoid{}, fmt.Errorf("parsing ellipsoid file: %w", err)
		}
		for _, e := range file.Ellipsoids {
			if strings.EqualFold(e.Code, code) || strings.EqualFold(e.Name, code) {
				return geoconv.Ellipsoid{
					SemiMajorAxis: e.SemiMajorAxis,
					Flattening:    1 / e.InverseFlattening,
					Code:          strings.ToUpper(e.Code),
				}, nil
			}
		}
	}
	if e, ok := builtinEllipsoids[strings.ToUpper(code)]; ok {
		return e, nil
	}
	return geoconv.Ellipsoid{}, fmt.Errorf("unknown ellipsoid %q", code)
}

type converters struct {
	utm  *geoconv.UTM
	ups  *geoconv.UPS
	mgrs *geoconv.MGRS
}

func main() {
	var (
		from       string
		to         string
		precision  int
		zone       int
		code       string
		configPath string
		nad27      bool
	)
	flag.StringVar(&from, "from", "geodetic", "Input format: geodetic, utm, ups, mgrs")
	flag.StringVar(&to, "to", "mgrs", "Output format: geodetic, utm, ups, mgrs")
	flag.IntVar(&precision, "precision", 5, "MGRS output precision, 0-5 digits per axis")
	flag.IntVar(&zone, "zone", 0, "UTM zone override (0 = natural zone)")
	flag.StringVar(&code, "ellipsoid", "WE", "Ellipsoid code (WE, RF, IN, CC, CD, BR, BN or one from -ellipsoids)")
	flag.StringVar(&configPath, "ellipsoids", "", "YAML file with additional ellipsoid definitions")
	flag.BoolVar(&nad27, "nad27", false, "Shift geodetic output from WGS84 to NAD27")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: geoconv [flags] [coordinate...]\n\n")
		fmt.Fprintf(os.Stderr, "Formats:\n")
		fmt.Fprintf(os.Stderr, "  geodetic  \"<lat> <lon>\" in decimal degrees\n")
		fmt.Fprintf(os.Stderr, "  utm       \"<zone> <N|S> <easting> <northing>\"\n")
		fmt.Fprintf(os.Stderr, "  ups       \"<N|S> <easting> <northing>\"\n")
		fmt.Fprintf(os.Stderr, "  mgrs      e.g. 31UDQ4825211938\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	ellipsoid, err := resolveEllipsoid(code, configPath)
	if err != nil {
		log.Fatal(err)
	}

	utm, err := geoconv.NewUTM(ellipsoid, zone)
	if err != nil {
		log.Fatalf("UTM converter: %v", err)
	}
	ups, err := geoconv.NewUPS(ellipsoid)
	if err != nil {
		log.Fatalf("UPS converter: %v", err)
	}
	mgrs, err := geoconv.NewMGRS(ellipsoid)
	if err != nil {
		log.Fatalf("MGRS converter: %v", err)
	}
	conv := converters{utm: utm, ups: ups, mgrs: mgrs}

	process := func(input string) {
		output, err := convert(conv, from, to, precision, nad27, input)
		if err != nil {
			log.Fatalf("%s: %v", input, err)
		}
		fmt.Println(output)
	}

	if flag.NArg() > 0 {
		for _, arg := range flag.Args() {
			process(arg)
		}
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		process(line)
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("reading stdin: %v", err)
	}
}

// convert parses one coordinate, converts it to geodetic and renders it in
// the output format.
func convert(conv converters, from, to string, precision int, nad27 bool, input string) (string, error) {
	geodetic, err := parseInput(conv, from, input)
	if err != nil {
		return "", err
	}
	return renderOutput(conv, to, precision, nad27, geodetic)
}

func parseInput(conv converters, format, input string) (s2.LatLng, error) {
	fields := strings.Fields(input)
	switch format {
	case "geodetic":
		if len(fields) != 2 {
			return s2.LatLng{}, fmt.Errorf("geodetic input needs latitude and longitude")
		}
		lat, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return s2.LatLng{}, fmt.Errorf("bad latitude %q", fields[0])
		}
		lon, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return s2.LatLng{}, fmt.Errorf("bad longitude %q", fields[1])
		}
		return s2.LatLngFromDegrees(lat, lon), nil

	case "utm":
		if len(fields) != 4 {
			return s2.LatLng{}, fmt.Errorf("utm input needs zone, hemisphere, easting, northing")
		}
		zone, err := strconv.Atoi(fields[0])
		if err != nil {
			return s2.LatLng{}, fmt.Errorf("bad zone %q", fields[0])
		}
		hemisphere, err := parseHemisphere(fields[1])
		if err != nil {
			return s2.LatLng{}, err
		}
		easting, northing, err := parseEastNorth(fields[2], fields[3])
		if err != nil {
			return s2.LatLng{}, err
		}
		geodetic, _, err := conv.utm.ConvertToGeodetic(geoconv.UTMCoord{
			Zone:       zone,
			Hemisphere: hemisphere,
			Easting:    easting,
			Northing:   northing,
		})
		return geodetic, err

	case "ups":
		if len(fields) != 3 {
			return s2.LatLng{}, fmt.Errorf("ups input needs hemisphere, easting, northing")
		}
		hemisphere, err := parseHemisphere(fields[0])
		if err != nil {
			return s2.LatLng{}, err
		}
		easting, northing, err := parseEastNorth(fields[1], fields[2])
		if err != nil {
			return s2.LatLng{}, err
		}
		return conv.ups.ConvertToGeodetic(geoconv.UPSCoord{
			Hemisphere: hemisphere,
			Easting:    easting,
			Northing:   northing,
		})

	case "mgrs":
		geodetic, warning, err := conv.mgrs.ConvertToGeodetic(strings.Join(fields, " "))
		if err != nil {
			return s2.LatLng{}, err
		}
		if warning != geoconv.NoWarning {
			log.Printf("warning: %s: %s", input, warning)
		}
		return geodetic, nil
	}
	return s2.LatLng{}, fmt.Errorf("unknown input format %q", format)
}

func renderOutput(conv converters, format string, precision int, nad27 bool, geodetic s2.LatLng) (string, error) {
	switch format {
	case "geodetic":
		if nad27 {
			shifted, err := geoconv.ConvertWGS84ToNAD27(geodetic)
			if err != nil {
				return "", err
			}
			geodetic = shifted
		}
		return fmt.Sprintf("%.8f %.8f", geodetic.Lat.Degrees(), geodetic.Lng.Degrees()), nil

	case "utm":
		coord, _, err := conv.utm.ConvertFromGeodetic(geodetic, 0)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%02d %s %.2f %.2f", coord.Zone,
			hemisphereLetter(coord.Hemisphere), coord.Easting, coord.Northing), nil

	case "ups":
		coord, err := conv.ups.ConvertFromGeodetic(geodetic)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %.2f %.2f",
			hemisphereLetter(coord.Hemisphere), coord.Easting, coord.Northing), nil

	case "mgrs":
		return conv.mgrs.ConvertFromGeodetic(geodetic, precision)
	}
	return "", fmt.Errorf("unknown output format %q", format)
}

func parseHemisphere(s string) (geoconv.Hemisphere, error) {
	switch strings.ToUpper(s) {
	case "N", "NORTH":
		return geoconv.HemisphereNorth, nil
	case "S", "SOUTH":
		return geoconv.HemisphereSouth, nil
	}
	return geoconv.HemisphereInvalid, fmt.Errorf("bad hemisphere %q", s)
}

func hemisphereLetter(h geoconv.Hemisphere) string {
	if h == geoconv.HemisphereSouth {
		return "S"
	}
	return "N"
}

func parseEastNorth(e, n string) (float64, float64, error) {
	easting, err := strconv.ParseFloat(e, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad easting %q", e)
	}
	northing, err := strconv.ParseFloat(n, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad northing %q", n)
	}
	return easting, northing, nil
}
