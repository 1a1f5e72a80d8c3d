package geoconv

import "fmt"

// ErrorKind identifies which input or parameter a conversion rejected.
// The set is closed: every fatal failure in this package carries exactly
// one kind.
type ErrorKind uint8

const (
	// LatitudeError indicates a latitude outside the valid domain for the
	// operation.
	LatitudeError ErrorKind = iota + 1
	// LongitudeError indicates a longitude outside the valid domain, or
	// outside the valid wedge around a central meridian.
	LongitudeError
	// EastingError and NorthingError indicate projected coordinates outside
	// the region a parameter set can invert.
	EastingError
	NorthingError
	// RadiusError indicates a polar stereographic point too far from the
	// pole to lie inside the projection area.
	RadiusError
	// ZoneError indicates a UTM zone outside 1..60.
	ZoneError
	// ZoneOverrideError indicates a requested zone override incompatible
	// with the natural zone.
	ZoneOverrideError
	// HemisphereError indicates a hemisphere value that is neither North
	// nor South.
	HemisphereError
	// SemiMajorAxisError and InverseFlatteningError indicate a bad
	// ellipsoid definition.
	SemiMajorAxisError
	InverseFlatteningError
	// OriginLatitudeError, OriginLongitudeError and ScaleFactorError
	// indicate bad projection parameters at construction time.
	OriginLatitudeError
	OriginLongitudeError
	ScaleFactorError
	// StringError indicates a malformed MGRS coordinate string.
	StringError
	// PrecisionError indicates an MGRS precision outside 0..5.
	PrecisionError
)

func (k ErrorKind) String() string {
	switch k {
	case LatitudeError:
		return "latitude"
	case LongitudeError:
		return "longitude"
	case EastingError:
		return "easting"
	case NorthingError:
		return "northing"
	case RadiusError:
		return "radius"
	case ZoneError:
		return "zone"
	case ZoneOverrideError:
		return "zone override"
	case HemisphereError:
		return "hemisphere"
	case SemiMajorAxisError:
		return "semi-major axis"
	case InverseFlatteningError:
		return "inverse flattening"
	case OriginLatitudeError:
		return "origin latitude"
	case OriginLongitudeError:
		return "origin longitude"
	case ScaleFactorError:
		return "scale factor"
	case StringError:
		return "string"
	case PrecisionError:
		return "precision"
	}
	return "unknown"
}

// ConversionError is a fatal conversion failure. Conversions never retry
// and never return partial results alongside a ConversionError.
type ConversionError struct {
	Kind   ErrorKind
	Detail string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func conversionError(kind ErrorKind, detail string) error {
	return &ConversionError{Kind: kind, Detail: detail}
}

// Kind returns the error kind of err if it is a ConversionError, and zero
// otherwise.
func Kind(err error) ErrorKind {
	if ce, ok := err.(*ConversionError); ok {
		return ce.Kind
	}
	return 0
}

// Warning flags a non-fatal condition detected during a conversion. The
// conversion still returns a best-effort result; treating the warning as an
// error is the caller's decision.
type Warning uint8

const (
	// NoWarning is the zero value.
	NoWarning Warning = iota
	// LongitudeWarning: the point is more than 9 degrees from the central
	// meridian, so projected distances are significantly distorted.
	LongitudeWarning
	// LatitudeBandWarning: the position recovered from an MGRS string falls
	// outside the latitude band the string claims, beyond the
	// precision-dependent tolerance. Usually a transposed or corrupted grid
	// reference.
	LatitudeBandWarning
)

func (w Warning) String() string {
	switch w {
	case NoWarning:
		return "none"
	case LongitudeWarning:
		return "longitude distortion"
	case LatitudeBandWarning:
		return "latitude band mismatch"
	}
	return "unknown"
}
