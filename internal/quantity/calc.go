package quantity

// Mode selects how a line item's raw quantity is produced.
type Mode string

const (
	// ModeStandard takes the quantity the user typed as the raw value.
	ModeStandard Mode = "STANDARD"
	// ModeAreaVolume multiplies width × depth × height.
	ModeAreaVolume Mode = "AREA_VOLUME"
	// ModePitch counts intervals: (rangeLength − edge1 − edge2) / pitchLength + 1.
	ModePitch Mode = "PITCH"
)

// ParseMode validates a mode string coming off the wire.
func ParseMode(text string) (Mode, bool) {
	switch Mode(text) {
	case ModeStandard, ModeAreaVolume, ModePitch:
		return Mode(text), true
	}
	return "", false
}

// Dimensions carries every calculation input regardless of the active mode.
// Inputs that do not belong to the active mode are retained so a user who
// switches modes and back does not lose their entries, but they never
// participate in the computation of another mode.
type Dimensions struct {
	Width  FixedPoint
	Depth  FixedPoint
	Height FixedPoint

	RangeLength FixedPoint
	Edge1       FixedPoint
	Edge2       FixedPoint
	PitchLength FixedPoint
}

// ComputeRaw derives the raw (pre-coefficient, pre-rounding) quantity for the
// given mode. Computed modes resolve to 0.00 while any required input is
// still blank; the caller reports that as an incomplete-calculation warning.
func ComputeRaw(mode Mode, entered FixedPoint, dims Dimensions) FixedPoint {
	switch mode {
	case ModeAreaVolume:
		return computeAreaVolume(dims)
	case ModePitch:
		return computePitch(dims)
	default:
		return entered.OrZero()
	}
}

func computeAreaVolume(d Dimensions) FixedPoint {
	if d.Width.IsBlank() || d.Depth.IsBlank() || d.Height.IsBlank() {
		return FromUnits(0)
	}
	// Pairwise products, each settled at two decimals before the next factor.
	return d.Width.Mul(d.Depth).Mul(d.Height)
}

func computePitch(d Dimensions) FixedPoint {
	if d.RangeLength.IsBlank() || d.Edge1.IsBlank() || d.Edge2.IsBlank() || d.PitchLength.IsBlank() {
		return FromUnits(0)
	}
	if d.PitchLength.IsZero() {
		return FromUnits(0)
	}
	span := d.RangeLength.Sub(d.Edge1).Sub(d.Edge2)
	return span.Div(d.PitchLength).Add(FromInt(1))
}

// relevantFields lists the numeric inputs that feed the given mode's raw
// quantity. Edits outside this set do not trigger recomputation.
func relevantFields(mode Mode) []Field {
	switch mode {
	case ModeAreaVolume:
		return []Field{FieldWidth, FieldDepth, FieldHeight}
	case ModePitch:
		return []Field{FieldRangeLength, FieldEdge1, FieldEdge2, FieldPitchLength}
	default:
		return []Field{FieldQuantity}
	}
}
