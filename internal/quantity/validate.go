package quantity

// Field names a single editable attribute of a quantity item. The values
// match the JSON keys used by the API layer.
type Field string

const (
	FieldMajorCategory    Field = "majorCategory"
	FieldMiddleCategory   Field = "middleCategory"
	FieldMinorCategory    Field = "minorCategory"
	FieldOptionalCategory Field = "optionalCategory"
	FieldWorkType         Field = "workType"
	FieldName             Field = "name"
	FieldSpecification    Field = "specification"
	FieldUnit             Field = "unit"
	FieldRemarks          Field = "remarks"

	FieldCalculationMode Field = "calculationMode"

	FieldQuantity              Field = "quantity"
	FieldAdjustmentCoefficient Field = "adjustmentCoefficient"
	FieldRoundingUnit          Field = "roundingUnit"

	FieldWidth  Field = "width"
	FieldDepth  Field = "depth"
	FieldHeight Field = "height"

	FieldRangeLength Field = "rangeLength"
	FieldEdge1       Field = "edge1"
	FieldEdge2       Field = "edge2"
	FieldPitchLength Field = "pitchLength"
)

// ErrorKind classifies a field-scoped validation outcome. Warn* kinds never
// block a save.
type ErrorKind string

const (
	ErrParse    ErrorKind = "PARSE"
	ErrRange    ErrorKind = "RANGE_EXCEEDED"
	ErrLength   ErrorKind = "LENGTH_EXCEEDED"
	ErrRequired ErrorKind = "REQUIRED"

	WarnZeroCoefficient       ErrorKind = "ZERO_COEFFICIENT"
	WarnIncompleteCalculation ErrorKind = "INCOMPLETE_CALCULATION"
	WarnNegativeQuantity      ErrorKind = "NEGATIVE_QUANTITY"
)

// Blocking reports whether the kind prevents persisting the item.
func (k ErrorKind) Blocking() bool {
	switch k {
	case WarnZeroCoefficient, WarnIncompleteCalculation, WarnNegativeQuantity:
		return false
	}
	return true
}

// FieldErrors maps field names to their current validation state. An empty
// map means the item is clean.
type FieldErrors map[Field]ErrorKind

// HasBlocking reports whether any entry would prevent a save.
func (fe FieldErrors) HasBlocking() bool {
	for _, kind := range fe {
		if kind.Blocking() {
			return true
		}
	}
	return false
}

func (fe FieldErrors) clone() FieldErrors {
	if len(fe) == 0 {
		return FieldErrors{}
	}
	out := make(FieldErrors, len(fe))
	for f, k := range fe {
		out[f] = k
	}
	return out
}

// widthLimits holds the per-field display-width maxima. Full-width
// characters consume two units, so the 50 limit admits 25 of them.
var widthLimits = map[Field]int{
	FieldMajorCategory:    50,
	FieldMiddleCategory:   50,
	FieldMinorCategory:    50,
	FieldOptionalCategory: 50,
	FieldName:             50,
	FieldSpecification:    50,
	FieldRemarks:          50,
	FieldWorkType:         16,
	FieldUnit:             6,
}

// WidthLimit returns the display-width maximum for a text field.
func WidthLimit(field Field) (int, bool) {
	limit, ok := widthLimits[field]
	return limit, ok
}

type numericDomain struct {
	min FixedPoint
	max FixedPoint
}

var (
	quantityDomain     = numericDomain{FromUnits(-99999999), FromUnits(999999999)} // [-999999.99, 9999999.99]
	coefficientDomain  = numericDomain{FromUnits(-999), FromUnits(999)}            // [-9.99, 9.99]
	roundingUnitDomain = numericDomain{FromUnits(-9999), FromUnits(9999)}          // [-99.99, 99.99]
)

// numericDomains gives each numeric field its inclusive input range. The
// dimension inputs share the quantity range.
var numericDomains = map[Field]numericDomain{
	FieldQuantity:              quantityDomain,
	FieldAdjustmentCoefficient: coefficientDomain,
	FieldRoundingUnit:          roundingUnitDomain,
	FieldWidth:                 quantityDomain,
	FieldDepth:                 quantityDomain,
	FieldHeight:                quantityDomain,
	FieldRangeLength:           quantityDomain,
	FieldEdge1:                 quantityDomain,
	FieldEdge2:                 quantityDomain,
	FieldPitchLength:           quantityDomain,
}

// CheckRange validates a parsed value against the field's domain. Blank is
// always in range; blank defaulting happens downstream.
func CheckRange(field Field, value FixedPoint) bool {
	domain, ok := numericDomains[field]
	if !ok || value.IsBlank() {
		return true
	}
	return value.InRange(domain.min, domain.max)
}

func isTextField(field Field) bool {
	_, ok := widthLimits[field]
	return ok
}

func isNumericField(field Field) bool {
	_, ok := numericDomains[field]
	return ok
}
