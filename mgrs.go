package geoconv

import (
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"
)

// MaxMGRSPrecision is the finest MGRS precision: five digits per axis,
// one meter resolution.
const MaxMGRSPrecision = 5

const (
	oneHT  = 100000.0
	twoMil = 2000000.0

	// The non-polar MGRS range. Latitudes outside it encode through the
	// UPS grid instead of UTM.
	mgrsMinNonPolarLat = -80.0 * math.Pi / 180.0
	mgrsMaxNonPolarLat = 84.0 * math.Pi / 180.0

	mgrsMinEastNorth = 0.0
	mgrsMaxEastNorth = 4000000.0
)

// latitudeBand describes one 8-degree UTM latitude band (C..X, X spans 12
// degrees). Northings are in meters, latitudes in degrees.
type latitudeBand struct {
	letter         byte
	minNorthing    float64
	north          float64
	south          float64
	northingOffset float64
}

var latitudeBands = [20]latitudeBand{
	{'C', 1100000.0, -72.0, -80.5, 0.0},
	{'D', 2000000.0, -64.0, -72.0, 2000000.0},
	{'E', 2800000.0, -56.0, -64.0, 2000000.0},
	{'F', 3700000.0, -48.0, -56.0, 2000000.0},
	{'G', 4600000.0, -40.0, -48.0, 4000000.0},
	{'H', 5500000.0, -32.0, -40.0, 4000000.0},
	{'J', 6400000.0, -24.0, -32.0, 6000000.0},
	{'K', 7300000.0, -16.0, -24.0, 6000000.0},
	{'L', 8200000.0, -8.0, -16.0, 8000000.0},
	{'M', 9100000.0, 0.0, -8.0, 8000000.0},
	{'N', 0.0, 8.0, 0.0, 0.0},
	{'P', 800000.0, 16.0, 8.0, 0.0},
	{'Q', 1700000.0, 24.0, 16.0, 0.0},
	{'R', 2600000.0, 32.0, 24.0, 2000000.0},
	{'S', 3500000.0, 40.0, 32.0, 2000000.0},
	{'T', 4400000.0, 48.0, 40.0, 4000000.0},
	{'U', 5300000.0, 56.0, 48.0, 4000000.0},
	{'V', 6200000.0, 64.0, 56.0, 6000000.0},
	{'W', 7000000.0, 72.0, 64.0, 6000000.0},
	{'X', 7900000.0, 84.5, 72.0, 6000000.0},
}

// bandForLetter resolves a latitude band letter to its table row. The
// 24-letter index of C is 2 and the table rows are contiguous from there.
func bandForLetter(letter byte) (*latitudeBand, error) {
	i := gridLetterIndex(letter) - 2
	if i < 0 || i >= len(latitudeBands) {
		return nil, conversionError(StringError, "invalid latitude band letter")
	}
	return &latitudeBands[i], nil
}

// upsQuadrant describes one UPS grid quadrant keyed by its band letter
// (A/B south, Y/Z north; the second of each pair is the eastern half).
type upsQuadrant struct {
	letter        byte
	columnLow     byte
	columnHigh    byte
	rowHigh       byte
	falseEasting  float64
	falseNorthing float64
}

var upsQuadrants = [4]upsQuadrant{
	{'A', 'J', 'Z', 'Z', 800000.0, 800000.0},
	{'B', 'A', 'R', 'Z', 2000000.0, 800000.0},
	{'Y', 'J', 'Z', 'P', 800000.0, 1300000.0},
	{'Z', 'A', 'J', 'P', 2000000.0, 1300000.0},
}

func upsQuadrantForLetter(letter byte) (*upsQuadrant, error) {
	for i := range upsQuadrants {
		if upsQuadrants[i].letter == letter {
			return &upsQuadrants[i], nil
		}
	}
	return nil, conversionError(StringError, "invalid polar band letter")
}

// MGRSComponents are the parsed parts of an MGRS string. Zone 0 marks a
// polar (UPS) reference. Easting and Northing are the digit groups scaled
// to meters within the 100 km square.
type MGRSComponents struct {
	Zone         int
	LatitudeBand byte
	SquareColumn byte
	SquareRow    byte
	Easting      float64
	Northing     float64
	Precision    int
}

// MGRS converts between geodetic positions and MGRS coordinate strings.
// The ellipsoid code selects the grid lettering pattern: the Clarke and
// Bessel ellipsoids use the historical AL pattern, everything else the AA
// pattern.
type MGRS struct {
	ellipsoid Ellipsoid
	utm       *UTM
	ups       *UPS
}

// NewMGRS constructs an MGRS converter for the given ellipsoid.
func NewMGRS(ellipsoid Ellipsoid) (*MGRS, error) {
	utm, err := NewUTM(ellipsoid, 0)
	if err != nil {
		return nil, err
	}
	ups, err := NewUPS(ellipsoid)
	if err != nil {
		return nil, err
	}
	return &MGRS{ellipsoid: ellipsoid, utm: utm, ups: ups}, nil
}

// Ellipsoid returns the ellipsoid the converter was built on.
func (m *MGRS) Ellipsoid() Ellipsoid {
	return m.ellipsoid
}

// gridValues returns the column letter range and the pattern northing
// offset for a zone's 100 km square lettering.
func (m *MGRS) gridValues(zone int) (columnLowIndex, columnHighIndex int, patternOffset float64) {
	setNumber := zone % 6
	if setNumber == 0 {
		setNumber = 6
	}

	switch m.ellipsoid.Code {
	case "CC", "CD", "BR", "BN":
		// AL pattern (Clarke and Bessel ellipsoids).
		if setNumber%2 == 0 {
			patternOffset = 1500000.0
		} else {
			patternOffset = 1000000.0
		}
	default:
		// AA pattern.
		if setNumber%2 == 0 {
			patternOffset = 500000.0
		} else {
			patternOffset = 0.0
		}
	}

	switch setNumber {
	case 1, 4:
		columnLowIndex, columnHighIndex = gridLetterIndex('A'), gridLetterIndex('H')
	case 2, 5:
		columnLowIndex, columnHighIndex = gridLetterIndex('J'), gridLetterIndex('R')
	case 3, 6:
		columnLowIndex, columnHighIndex = gridLetterIndex('S'), gridLetterIndex('Z')
	}
	return columnLowIndex, columnHighIndex, patternOffset
}

// latitudeBandLetter returns the band letter for a latitude in radians.
func latitudeBandLetter(latitude float64) (byte, error) {
	const (
		deg72  = 72.0 * math.Pi / 180.0
		deg845 = 84.5 * math.Pi / 180.0
		deg805 = 80.5 * math.Pi / 180.0
		deg80  = 80.0 * math.Pi / 180.0
		deg8   = 8.0 * math.Pi / 180.0
	)
	switch {
	case latitude >= deg72 && latitude < deg845:
		return 'X', nil
	case latitude > -deg805 && latitude < deg72:
		band := int((latitude+deg80)/deg8 + 1.0e-12)
		if band < 0 {
			band = 0
		}
		return latitudeBands[band].letter, nil
	}
	return 0, conversionError(LatitudeError, "latitude has no MGRS band")
}

// roundHalfUp rounds to the nearest integer with halves away from zero
// toward positive infinity.
func roundHalfUp(value float64) float64 {
	return math.Floor(value + 0.5)
}

// ConvertFromGeodetic converts a geodetic position to an MGRS string with
// the given precision (0..5 digits per axis).
func (m *MGRS) ConvertFromGeodetic(geodetic s2.LatLng, precision int) (string, error) {
	latitude := geodetic.Lat.Radians()
	longitude := geodetic.Lng.Radians()

	if latitude < -math.Pi/2 || latitude > math.Pi/2 {
		return "", conversionError(LatitudeError, "latitude out of range")
	}
	if longitude < -math.Pi-epsilonRadians || longitude > 2*math.Pi+epsilonRadians {
		return "", conversionError(LongitudeError, "longitude out of range")
	}
	if precision < 0 || precision > MaxMGRSPrecision {
		return "", conversionError(PrecisionError, "precision must be 0 to 5")
	}

	if latitude >= mgrsMinNonPolarLat-epsilonRadians &&
		latitude < mgrsMaxNonPolarLat+epsilonRadians {
		utmCoord, _, err := m.utm.ConvertFromGeodetic(geodetic, 0)
		if err != nil {
			return "", err
		}
		return m.fromUTM(utmCoord, latitude, precision)
	}

	upsCoord, err := m.ups.ConvertFromGeodetic(geodetic)
	if err != nil {
		return "", err
	}
	return m.fromUPS(upsCoord, precision)
}

// ConvertFromUTM converts a UTM position directly to an MGRS string.
func (m *MGRS) ConvertFromUTM(coord UTMCoord, precision int) (string, error) {
	if precision < 0 || precision > MaxMGRSPrecision {
		return "", conversionError(PrecisionError, "precision must be 0 to 5")
	}
	geodetic, _, err := m.utm.ConvertToGeodetic(coord)
	if err != nil {
		return "", err
	}

	latitude := geodetic.Lat.Radians()
	if latitude >= mgrsMinNonPolarLat-epsilonRadians &&
		latitude < mgrsMaxNonPolarLat+epsilonRadians {
		return m.fromUTM(coord, latitude, precision)
	}

	upsCoord, err := m.ups.ConvertFromGeodetic(geodetic)
	if err != nil {
		return "", err
	}
	return m.fromUPS(upsCoord, precision)
}

// fromUTM builds the MGRS string for a UTM position. latitude selects the
// band letter.
func (m *MGRS) fromUTM(coord UTMCoord, latitude float64, precision int) (string, error) {
	divisor := math.Pow(10.0, float64(5-precision))
	easting := roundHalfUp(coord.Easting/divisor) * divisor
	northing := roundHalfUp(coord.Northing/divisor) * divisor

	var letters [3]byte
	band, err := latitudeBandLetter(latitude)
	if err != nil {
		return "", err
	}
	letters[0] = band

	columnLow, _, patternOffset := m.gridValues(coord.Zone)

	gridNorthing := northing
	if gridNorthing == 1.0e7 {
		gridNorthing -= 1.0
	}
	for gridNorthing >= twoMil {
		gridNorthing -= twoMil
	}
	gridNorthing += patternOffset
	if gridNorthing >= twoMil {
		gridNorthing -= twoMil
	}
	letters[2] = gridLetter(int(gridNorthing / oneHT))

	gridEasting := easting
	// The 100 km square MV in 31V is only 999 km wide; an easting right on
	// its eastern edge belongs to the square west of it.
	if band == 'V' && coord.Zone == 31 && gridEasting == 500000.0 {
		gridEasting -= 1.0
	}
	letters[1] = gridLetter(columnLow + int(gridEasting/oneHT) - 1)

	return makeMGRSString(coord.Zone, letters, easting, northing, precision), nil
}

// fromUPS builds the MGRS string for a UPS position.
func (m *MGRS) fromUPS(coord UPSCoord, precision int) (string, error) {
	if coord.Hemisphere != HemisphereNorth && coord.Hemisphere != HemisphereSouth {
		return "", conversionError(HemisphereError, "hemisphere must be north or south")
	}
	if coord.Easting < mgrsMinEastNorth || coord.Easting > mgrsMaxEastNorth {
		return "", conversionError(EastingError, "easting out of range")
	}
	if coord.Northing < mgrsMinEastNorth || coord.Northing > mgrsMaxEastNorth {
		return "", conversionError(NorthingError, "northing out of range")
	}

	divisor := math.Pow(10.0, float64(5-precision))
	easting := roundHalfUp(coord.Easting/divisor) * divisor
	northing := roundHalfUp(coord.Northing/divisor) * divisor

	var letters [3]byte
	if coord.Hemisphere == HemisphereNorth {
		if easting >= twoMil {
			letters[0] = 'Z'
		} else {
			letters[0] = 'Y'
		}
	} else {
		if easting >= twoMil {
			letters[0] = 'B'
		} else {
			letters[0] = 'A'
		}
	}
	quadrant, err := upsQuadrantForLetter(letters[0])
	if err != nil {
		return "", err
	}

	gridNorthing := northing - quadrant.falseNorthing
	letters[2] = gridLetter(int(gridNorthing / oneHT))

	gridEasting := easting - quadrant.falseEasting
	letters[1] = upsColumnLetters[upsColumnIndex(quadrant.columnLow)+int(gridEasting/oneHT)]

	return makeMGRSString(0, letters, easting, northing, precision), nil
}

// makeMGRSString renders zone, square letters and digit groups. Zone 0
// (polar) omits the zone field. A digit group that overflows its precision
// is truncated one character short; the quirk is kept so output stays
// byte-compatible with the GEOTRANS lineage of MGRS formatters.
func makeMGRSString(zone int, letters [3]byte, easting, northing float64, precision int) string {
	var b strings.Builder
	if zone != 0 {
		if zone < 10 {
			b.WriteByte('0')
		}
		b.WriteString(strconv.Itoa(zone))
	}
	b.Write(letters[:])

	if precision == 0 {
		return b.String()
	}

	divisor := math.Pow(10.0, float64(5-precision))
	for _, value := range [2]float64{easting, northing} {
		value = math.Mod(value, oneHT)
		if value >= 99999.5 {
			value = 99999.0
		}
		digits := strconv.Itoa(int(value / divisor))
		b.WriteByte(' ')
		if len(digits) > precision {
			digits = digits[:precision-1]
		} else {
			for i := len(digits); i < precision; i++ {
				b.WriteByte('0')
			}
		}
		b.WriteString(digits)
	}
	return b.String()
}

// SplitMGRS parses an MGRS string into its components without converting
// it. Spaces are stripped before parsing; other non-alphanumeric characters
// are rejected.
func SplitMGRS(mgrs string) (MGRSComponents, error) {
	var c MGRSComponents

	var b strings.Builder
	for i := 0; i < len(mgrs); i++ {
		ch := mgrs[i]
		switch {
		case ch == ' ':
		case ch >= '0' && ch <= '9', ch >= 'A' && ch <= 'Z':
			b.WriteByte(ch)
		case ch >= 'a' && ch <= 'z':
			b.WriteByte(ch - 'a' + 'A')
		default:
			return c, conversionError(StringError, "invalid character in MGRS string")
		}
	}
	s := b.String()

	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	switch {
	case i > 2:
		return c, conversionError(StringError, "zone must be one or two digits")
	case i > 0:
		zone, err := strconv.Atoi(s[:i])
		if err != nil || zone < 1 || zone > 60 {
			return c, conversionError(StringError, "zone out of range")
		}
		c.Zone = zone
	}
	// No leading digits means a polar reference; Zone stays 0.

	j := i
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		i++
	}
	if i-j != 3 {
		return c, conversionError(StringError, "expected three grid letters")
	}
	for k := j; k < i; k++ {
		if gridLetterIndex(s[k]) < 0 {
			return c, conversionError(StringError, "grid letters may not include I or O")
		}
	}
	c.LatitudeBand = s[j]
	c.SquareColumn = s[j+1]
	c.SquareRow = s[j+2]

	j = i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i != len(s) {
		return c, conversionError(StringError, "trailing characters after digits")
	}
	numDigits := i - j
	if numDigits > 10 || numDigits%2 != 0 {
		return c, conversionError(StringError, "easting and northing need an equal number of digits")
	}
	n := numDigits / 2
	c.Precision = n
	if n > 0 {
		east, err := strconv.Atoi(s[j : j+n])
		if err != nil {
			return c, conversionError(StringError, "bad easting digits")
		}
		north, err := strconv.Atoi(s[j+n : j+2*n])
		if err != nil {
			return c, conversionError(StringError, "bad northing digits")
		}
		multiplier := math.Pow(10.0, float64(5-n))
		c.Easting = float64(east) * multiplier
		c.Northing = float64(north) * multiplier
	}
	return c, nil
}

// ConvertToGeodetic converts an MGRS string to a geodetic position. A
// LatitudeBandWarning flags a string whose position falls outside the
// latitude band it claims; the position is still returned.
func (m *MGRS) ConvertToGeodetic(mgrs string) (s2.LatLng, Warning, error) {
	components, err := SplitMGRS(mgrs)
	if err != nil {
		return s2.LatLng{}, NoWarning, err
	}

	if components.Zone != 0 {
		_, geodetic, warning, err := m.toUTM(components)
		if err != nil {
			return s2.LatLng{}, NoWarning, err
		}
		return geodetic, warning, nil
	}

	upsCoord, err := m.toUPS(components)
	if err != nil {
		return s2.LatLng{}, NoWarning, err
	}
	geodetic, err := m.ups.ConvertToGeodetic(upsCoord)
	if err != nil {
		return s2.LatLng{}, NoWarning, err
	}
	return geodetic, NoWarning, nil
}

// ConvertToUTM converts a non-polar MGRS string to UTM.
func (m *MGRS) ConvertToUTM(mgrs string) (UTMCoord, Warning, error) {
	components, err := SplitMGRS(mgrs)
	if err != nil {
		return UTMCoord{}, NoWarning, err
	}
	if components.Zone == 0 {
		return UTMCoord{}, NoWarning, conversionError(StringError, "polar MGRS string has no UTM equivalent")
	}
	coord, _, warning, err := m.toUTM(components)
	return coord, warning, err
}

// ConvertToUPS converts a polar MGRS string to UPS.
func (m *MGRS) ConvertToUPS(mgrs string) (UPSCoord, error) {
	components, err := SplitMGRS(mgrs)
	if err != nil {
		return UPSCoord{}, err
	}
	if components.Zone != 0 {
		return UPSCoord{}, conversionError(StringError, "non-polar MGRS string has no UPS equivalent")
	}
	return m.toUPS(components)
}

// toUTM resolves parsed MGRS components to a UTM position and its
// geodetic equivalent.
func (m *MGRS) toUTM(c MGRSComponents) (UTMCoord, s2.LatLng, Warning, error) {
	band, err := bandForLetter(c.LatitudeBand)
	if err != nil {
		return UTMCoord{}, s2.LatLng{}, NoWarning, err
	}
	// Band X is absent from zones 32, 34 and 36 (the Svalbard zones absorb
	// their area).
	if c.LatitudeBand == 'X' && (c.Zone == 32 || c.Zone == 34 || c.Zone == 36) {
		return UTMCoord{}, s2.LatLng{}, NoWarning, conversionError(StringError, "band X does not exist in this zone")
	}

	hemisphere := HemisphereNorth
	if gridLetterIndex(c.LatitudeBand) < gridLetterIndex('N') {
		hemisphere = HemisphereSouth
	}

	columnLow, columnHigh, patternOffset := m.gridValues(c.Zone)
	columnIndex := gridLetterIndex(c.SquareColumn)
	rowIndex := gridLetterIndex(c.SquareRow)
	if columnIndex < columnLow || columnIndex > columnHigh || rowIndex > gridLetterIndex('V') {
		return UTMCoord{}, s2.LatLng{}, NoWarning, conversionError(StringError, "square letters invalid for this zone")
	}

	gridEasting := float64(columnIndex-columnLow+1) * oneHT
	gridNorthing := float64(rowIndex) * oneHT
	if gridNorthing >= twoMil {
		gridNorthing -= twoMil
	}
	gridNorthing -= patternOffset
	if gridNorthing < 0 {
		gridNorthing += twoMil
	}
	gridNorthing += band.northingOffset
	if gridNorthing < band.minNorthing {
		gridNorthing += twoMil
	}

	utmCoord := UTMCoord{
		Zone:            c.Zone,
		Hemisphere:      hemisphere,
		Easting:         gridEasting + c.Easting,
		Northing:        gridNorthing + c.Northing,
		CentralMeridian: utmCentralMeridian(c.Zone),
	}

	geodetic, warning, err := m.utm.ConvertToGeodetic(utmCoord)
	if err != nil {
		return UTMCoord{}, s2.LatLng{}, NoWarning, err
	}

	// Verify the position against the claimed band, with a tolerance that
	// shrinks as the string gets more precise.
	latitude := geodetic.Lat.Radians()
	border := (math.Pi / 180.0) / math.Pow(10.0, float64(c.Precision))
	south := band.south * math.Pi / 180.0
	north := band.north * math.Pi / 180.0
	if !(south-border <= latitude && latitude <= north+border) {
		warning = LatitudeBandWarning
	}
	return utmCoord, geodetic, warning, nil
}

// toUPS resolves parsed polar MGRS components to a UPS position.
func (m *MGRS) toUPS(c MGRSComponents) (UPSCoord, error) {
	quadrant, err := upsQuadrantForLetter(c.LatitudeBand)
	if err != nil {
		return UPSCoord{}, err
	}
	hemisphere := HemisphereSouth
	if c.LatitudeBand == 'Y' || c.LatitudeBand == 'Z' {
		hemisphere = HemisphereNorth
	}

	columnIndex := upsColumnIndex(c.SquareColumn)
	if columnIndex < 0 ||
		columnIndex < upsColumnIndex(quadrant.columnLow) ||
		columnIndex > upsColumnIndex(quadrant.columnHigh) {
		return UPSCoord{}, conversionError(StringError, "square column invalid for this polar quadrant")
	}
	rowIndex := gridLetterIndex(c.SquareRow)
	if rowIndex > gridLetterIndex(quadrant.rowHigh) {
		return UPSCoord{}, conversionError(StringError, "square row invalid for this polar quadrant")
	}

	gridEasting := float64(columnIndex-upsColumnIndex(quadrant.columnLow))*oneHT + quadrant.falseEasting
	gridNorthing := float64(rowIndex)*oneHT + quadrant.falseNorthing

	return UPSCoord{
		Hemisphere: hemisphere,
		Easting:    gridEasting + c.Easting,
		Northing:   gridNorthing + c.Northing,
	}, nil
}
