package quantity

var (
	defaultCoefficient  = FromInt(1)       // 1.00
	defaultRoundingUnit = FromUnits(1)     // 0.01
	coefficientMin      = FromUnits(-999)  // -9.99
	coefficientMax      = FromUnits(999)   // 9.99
)

// Adjustment is the result of running a raw quantity through the coefficient
// and rounding pipeline. Coefficient and RoundingUnit are the normalized
// values and are what gets persisted, not the raw keystrokes.
type Adjustment struct {
	Final        FixedPoint
	Coefficient  FixedPoint
	RoundingUnit FixedPoint
	Warnings     []ErrorKind
}

// Adjust applies the adjustment coefficient and the rounding unit to a raw
// quantity. A blank coefficient defaults to 1.00 and out-of-range values are
// clamped; an exact zero is kept as entered but flagged, since it zeroes the
// result. A blank, zero or negative rounding unit silently becomes 0.01 so
// the ceiling step always has a positive divisor.
func Adjust(raw, coefficient, roundingUnit FixedPoint) Adjustment {
	adj := Adjustment{}

	switch {
	case coefficient.IsBlank():
		adj.Coefficient = defaultCoefficient
	case coefficient.Cmp(coefficientMin) < 0:
		adj.Coefficient = coefficientMin
	case coefficient.Cmp(coefficientMax) > 0:
		adj.Coefficient = coefficientMax
	default:
		adj.Coefficient = coefficient
	}
	if adj.Coefficient.IsZero() {
		adj.Warnings = append(adj.Warnings, WarnZeroCoefficient)
	}

	if roundingUnit.IsBlank() || roundingUnit.Units() <= 0 {
		adj.RoundingUnit = defaultRoundingUnit
	} else {
		adj.RoundingUnit = roundingUnit
	}

	adjusted := raw.OrZero().Mul(adj.Coefficient)
	adj.Final = adjusted.CeilToMultiple(adj.RoundingUnit)
	return adj
}
