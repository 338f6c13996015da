package quantity

import "strings"

// Item is one line of a quantity table: classification text, a calculation
// mode with its inputs, and the derived final quantity. Every mutation goes
// through UpdateField, which parses, commits or rejects at the boundary,
// recomputes and revalidates before returning. An Item is not safe for
// concurrent mutation; callers own one item per row.
type Item struct {
	ID uint

	majorCategory    string
	middleCategory   string
	minorCategory    string
	optionalCategory string
	workType         string
	name             string
	specification    string
	unit             string
	remarks          string

	mode    Mode
	dims    Dimensions
	entered FixedPoint // STANDARD-mode raw quantity; 0.00 after a blank commit

	coefficient  FixedPoint // normalized, never blank or out of range
	roundingUnit FixedPoint // normalized, always positive
	final        FixedPoint

	// rejected holds boundary errors for inputs that never reached the
	// stored value; a later successful commit on the field clears them.
	rejected FieldErrors

	errors   FieldErrors
	warnings FieldErrors
}

// NewItem returns a fresh STANDARD-mode item with coefficient 1.00, rounding
// unit 0.01 and quantity 0.00.
func NewItem() *Item {
	it := &Item{
		mode:         ModeStandard,
		entered:      FromUnits(0),
		coefficient:  defaultCoefficient,
		roundingUnit: defaultRoundingUnit,
		rejected:     FieldErrors{},
	}
	it.recompute()
	it.revalidate()
	return it
}

// UpdateField applies one raw user edit. Unparseable, out-of-range and
// over-width inputs are rejected at the boundary: the stored value keeps its
// previous state and the field carries the corresponding error until a valid
// edit replaces it.
func (it *Item) UpdateField(field Field, raw string) {
	switch {
	case isTextField(field):
		it.updateText(field, raw)
	case field == FieldCalculationMode:
		it.updateMode(raw)
	case isNumericField(field):
		it.updateNumeric(field, raw)
	}
	it.revalidate()
}

func (it *Item) updateText(field Field, raw string) {
	value := strings.TrimSpace(raw)
	if limit, ok := WidthLimit(field); ok && !FitsWidth(value, limit) {
		it.rejected[field] = ErrLength
		return
	}
	delete(it.rejected, field)

	switch field {
	case FieldMajorCategory:
		it.majorCategory = value
	case FieldMiddleCategory:
		it.middleCategory = value
	case FieldMinorCategory:
		it.minorCategory = value
	case FieldOptionalCategory:
		it.optionalCategory = value
	case FieldWorkType:
		it.workType = value
	case FieldName:
		it.name = value
	case FieldSpecification:
		it.specification = value
	case FieldUnit:
		it.unit = value
	case FieldRemarks:
		it.remarks = value
	}
}

func (it *Item) updateMode(raw string) {
	mode, ok := ParseMode(strings.TrimSpace(raw))
	if !ok {
		it.rejected[FieldCalculationMode] = ErrParse
		return
	}
	delete(it.rejected, FieldCalculationMode)
	it.mode = mode
	it.recompute()
}

func (it *Item) updateNumeric(field Field, raw string) {
	value, err := Parse(raw)
	if err != nil {
		it.rejected[field] = ErrParse
		return
	}
	if !CheckRange(field, value) {
		it.rejected[field] = ErrRange
		return
	}
	delete(it.rejected, field)

	triggers := field == FieldAdjustmentCoefficient || field == FieldRoundingUnit

	switch field {
	case FieldQuantity:
		if it.mode != ModeStandard {
			// Derived and read-only outside STANDARD.
			return
		}
		it.entered = value.OrZero()
		triggers = true
	case FieldAdjustmentCoefficient:
		it.coefficient = value
	case FieldRoundingUnit:
		it.roundingUnit = value
	case FieldWidth:
		it.dims.Width = value
	case FieldDepth:
		it.dims.Depth = value
	case FieldHeight:
		it.dims.Height = value
	case FieldRangeLength:
		it.dims.RangeLength = value
	case FieldEdge1:
		it.dims.Edge1 = value
	case FieldEdge2:
		it.dims.Edge2 = value
	case FieldPitchLength:
		it.dims.PitchLength = value
	}

	if !triggers {
		for _, relevant := range relevantFields(it.mode) {
			if field == relevant {
				triggers = true
				break
			}
		}
	}
	if triggers {
		it.recompute()
	}
}

func (it *Item) recompute() {
	raw := ComputeRaw(it.mode, it.entered, it.dims)
	adj := Adjust(raw, it.coefficient, it.roundingUnit)
	it.coefficient = adj.Coefficient
	it.roundingUnit = adj.RoundingUnit
	it.final = adj.Final
}

// revalidate rebuilds the error and warning maps from the stored state and
// overlays any still-standing boundary rejections.
func (it *Item) revalidate() {
	errs, warns := it.Validate()
	for field, kind := range it.rejected {
		errs[field] = kind
	}
	it.errors = errs
	it.warnings = warns
}

// Validate checks the committed state of the item and returns the blocking
// errors and the non-blocking warnings as separate field maps. Boundary
// rejections for in-flight input are not included; Errors carries those.
func (it *Item) Validate() (FieldErrors, FieldErrors) {
	errs := FieldErrors{}
	warns := FieldErrors{}

	if strings.TrimSpace(it.name) == "" {
		errs[FieldName] = ErrRequired
	}

	for field, value := range it.textValues() {
		if limit, ok := WidthLimit(field); ok && !FitsWidth(value, limit) {
			errs[field] = ErrLength
		}
	}

	for field, value := range it.numericValues() {
		if !CheckRange(field, value) {
			errs[field] = ErrRange
		}
	}

	if it.coefficient.IsZero() {
		warns[FieldAdjustmentCoefficient] = WarnZeroCoefficient
	}

	switch it.mode {
	case ModeAreaVolume, ModePitch:
		for _, field := range relevantFields(it.mode) {
			if it.numericValues()[field].IsBlank() {
				warns[field] = WarnIncompleteCalculation
			}
		}
	default:
		if it.entered.IsNegative() {
			warns[FieldQuantity] = WarnNegativeQuantity
		}
	}

	return errs, warns
}

// Errors returns the current blocking errors by field, including boundary
// rejections for input that never reached the stored value.
func (it *Item) Errors() FieldErrors {
	return it.errors.clone()
}

// Warnings returns the current non-blocking warnings by field.
func (it *Item) Warnings() FieldErrors {
	return it.warnings.clone()
}

// Quantity returns the final quantity after coefficient and rounding.
func (it *Item) Quantity() FixedPoint {
	return it.final
}

// Mode returns the active calculation mode.
func (it *Item) Mode() Mode {
	return it.mode
}

// Coefficient returns the normalized adjustment coefficient.
func (it *Item) Coefficient() FixedPoint {
	return it.coefficient
}

// RoundingUnit returns the normalized rounding unit.
func (it *Item) RoundingUnit() FixedPoint {
	return it.roundingUnit
}

// Name returns the item name.
func (it *Item) Name() string {
	return it.name
}

func (it *Item) textValues() map[Field]string {
	return map[Field]string{
		FieldMajorCategory:    it.majorCategory,
		FieldMiddleCategory:   it.middleCategory,
		FieldMinorCategory:    it.minorCategory,
		FieldOptionalCategory: it.optionalCategory,
		FieldWorkType:         it.workType,
		FieldName:             it.name,
		FieldSpecification:    it.specification,
		FieldUnit:             it.unit,
		FieldRemarks:          it.remarks,
	}
}

func (it *Item) numericValues() map[Field]FixedPoint {
	return map[Field]FixedPoint{
		FieldQuantity:              it.entered,
		FieldAdjustmentCoefficient: it.coefficient,
		FieldRoundingUnit:          it.roundingUnit,
		FieldWidth:                 it.dims.Width,
		FieldDepth:                 it.dims.Depth,
		FieldHeight:                it.dims.Height,
		FieldRangeLength:           it.dims.RangeLength,
		FieldEdge1:                 it.dims.Edge1,
		FieldEdge2:                 it.dims.Edge2,
		FieldPitchLength:           it.dims.PitchLength,
	}
}

// Snapshot is the persistable shape of an item. Coefficient and RoundingUnit
// are the normalized values; Quantity is the derived final quantity and
// EnteredQuantity the raw STANDARD-mode entry it was produced from.
type Snapshot struct {
	ID uint

	MajorCategory    string
	MiddleCategory   string
	MinorCategory    string
	OptionalCategory string
	WorkType         string
	Name             string
	Specification    string
	Unit             string
	Remarks          string

	Mode       Mode
	Dimensions Dimensions

	EnteredQuantity FixedPoint
	Coefficient     FixedPoint
	RoundingUnit    FixedPoint
	Quantity        FixedPoint
}

// Snapshot captures the committed state of the item.
func (it *Item) Snapshot() Snapshot {
	return Snapshot{
		ID:               it.ID,
		MajorCategory:    it.majorCategory,
		MiddleCategory:   it.middleCategory,
		MinorCategory:    it.minorCategory,
		OptionalCategory: it.optionalCategory,
		WorkType:         it.workType,
		Name:             it.name,
		Specification:    it.specification,
		Unit:             it.unit,
		Remarks:          it.remarks,
		Mode:             it.mode,
		Dimensions:       it.dims,
		EnteredQuantity:  it.entered,
		Coefficient:      it.coefficient,
		RoundingUnit:     it.roundingUnit,
		Quantity:         it.final,
	}
}

// FromSnapshot rebuilds an item from persisted state, renormalizing and
// revalidating so older rows pick up current defaulting rules.
func FromSnapshot(s Snapshot) *Item {
	it := &Item{
		ID:               s.ID,
		majorCategory:    s.MajorCategory,
		middleCategory:   s.MiddleCategory,
		minorCategory:    s.MinorCategory,
		optionalCategory: s.OptionalCategory,
		workType:         s.WorkType,
		name:             s.Name,
		specification:    s.Specification,
		unit:             s.Unit,
		remarks:          s.Remarks,
		mode:             s.Mode,
		dims:             s.Dimensions,
		entered:          s.EnteredQuantity.OrZero(),
		coefficient:      s.Coefficient,
		roundingUnit:     s.RoundingUnit,
		rejected:         FieldErrors{},
	}
	if _, ok := ParseMode(string(it.mode)); !ok {
		it.mode = ModeStandard
	}
	it.recompute()
	it.revalidate()
	return it
}
