package quantity

import (
	"fmt"
	"strconv"
	"strings"
)

// FixedPoint is a decimal quantity held at a fixed scale of two places and
// stored as an integer count of hundredths, so that repeated multiplication
// and rounding stay exact. The zero value is Blank, which is distinct from
// zero: a blank dimension input is "not entered yet", not 0.00.
type FixedPoint struct {
	units int64
	valid bool
}

// Blank is the distinguished "no value entered" FixedPoint.
var Blank = FixedPoint{}

// FromUnits builds a FixedPoint from a count of hundredths.
func FromUnits(units int64) FixedPoint {
	return FixedPoint{units: units, valid: true}
}

// FromInt builds a FixedPoint from a whole number.
func FromInt(n int64) FixedPoint {
	return FixedPoint{units: n * 100, valid: true}
}

// Parse converts user-entered text into a FixedPoint. Blank or
// whitespace-only input yields Blank with no error. Anything other than an
// optional sign, decimal digits and at most two fraction digits is rejected.
func Parse(text string) (FixedPoint, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Blank, nil
	}

	negative := false
	switch {
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	case strings.HasPrefix(s, "-"):
		negative = true
		s = s[1:]
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Blank, fmt.Errorf("invalid decimal %q", text)
	}

	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
		if fracPart == "" {
			return Blank, fmt.Errorf("invalid decimal %q", text)
		}
	}
	if intPart == "" {
		if fracPart == "" {
			return Blank, fmt.Errorf("invalid decimal %q", text)
		}
		intPart = "0"
	}
	if len(fracPart) > 2 {
		return Blank, fmt.Errorf("too many decimal places in %q", text)
	}

	for _, ch := range intPart {
		if ch < '0' || ch > '9' {
			return Blank, fmt.Errorf("invalid decimal %q", text)
		}
	}
	for _, ch := range fracPart {
		if ch < '0' || ch > '9' {
			return Blank, fmt.Errorf("invalid decimal %q", text)
		}
	}

	intVal, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Blank, fmt.Errorf("invalid decimal %q: %w", text, err)
	}
	if intVal > ((1<<63)-1)/100 {
		return Blank, fmt.Errorf("value overflow in %q", text)
	}
	units := intVal * 100

	if fracPart != "" {
		padded := fracPart + strings.Repeat("0", 2-len(fracPart))
		fracVal, err := strconv.ParseInt(padded, 10, 64)
		if err != nil {
			return Blank, fmt.Errorf("invalid decimal %q: %w", text, err)
		}
		units += fracVal
	}

	if negative {
		units = -units
	}
	return FromUnits(units), nil
}

// IsBlank reports whether no value has been entered.
func (f FixedPoint) IsBlank() bool {
	return !f.valid
}

// IsZero reports whether the value is exactly 0.00. Blank is not zero.
func (f FixedPoint) IsZero() bool {
	return f.valid && f.units == 0
}

// IsNegative reports whether the value is below zero.
func (f FixedPoint) IsNegative() bool {
	return f.valid && f.units < 0
}

// Units returns the value as a count of hundredths. Blank reports 0.
func (f FixedPoint) Units() int64 {
	return f.units
}

// OrZero replaces Blank with 0.00 and leaves any entered value untouched.
func (f FixedPoint) OrZero() FixedPoint {
	if f.IsBlank() {
		return FromUnits(0)
	}
	return f
}

// Equal reports exact equality, treating Blank as equal only to Blank.
func (f FixedPoint) Equal(other FixedPoint) bool {
	return f.valid == other.valid && f.units == other.units
}

// Cmp returns -1, 0 or 1 comparing f against other. Both must be non-blank.
func (f FixedPoint) Cmp(other FixedPoint) int {
	switch {
	case f.units < other.units:
		return -1
	case f.units > other.units:
		return 1
	default:
		return 0
	}
}

// InRange reports whether f lies inside the inclusive [min, max] interval.
func (f FixedPoint) InRange(min, max FixedPoint) bool {
	return f.units >= min.units && f.units <= max.units
}

// Add returns f + other.
func (f FixedPoint) Add(other FixedPoint) FixedPoint {
	return FromUnits(f.units + other.units)
}

// Sub returns f - other.
func (f FixedPoint) Sub(other FixedPoint) FixedPoint {
	return FromUnits(f.units - other.units)
}

// Mul returns f × other rounded half-up on the third decimal place.
func (f FixedPoint) Mul(other FixedPoint) FixedPoint {
	return FromUnits(roundHalfUp(f.units*other.units, 100))
}

// Div returns f ÷ other rounded half-up at the second decimal place.
// other must be non-zero.
func (f FixedPoint) Div(other FixedPoint) FixedPoint {
	return FromUnits(roundHalfUp(f.units*100, other.units))
}

// CeilToMultiple returns the smallest value ≥ f that is an exact multiple of
// unit. unit must be positive; callers normalize first.
func (f FixedPoint) CeilToMultiple(unit FixedPoint) FixedPoint {
	q := f.units / unit.units
	if f.units%unit.units != 0 && f.units > 0 {
		q++
	}
	return FromUnits(q * unit.units)
}

// Format renders the value with exactly two fraction digits, preserving the
// sign. Blank renders as the empty string.
func (f FixedPoint) Format() string {
	if !f.valid {
		return ""
	}
	units := f.units
	sign := ""
	if units < 0 {
		sign = "-"
		units = -units
	}
	return fmt.Sprintf("%s%d.%02d", sign, units/100, units%100)
}

// roundHalfUp divides n by d rounding ties toward positive infinity.
// d must be non-zero; a negative divisor flips both signs before rounding.
func roundHalfUp(n, d int64) int64 {
	if d < 0 {
		n, d = -n, -d
	}
	q := n / d
	r := n % d
	if r < 0 {
		q--
		r += d
	}
	if 2*r >= d {
		q++
	}
	return q
}
