package models

import (
	"gorm.io/gorm"

	"sekisan/internal/quantity"
)

// QuantityItem is one line of a quantity table. Numeric fields are stored as
// integer counts of hundredths, the engine's own representation, so the
// persisted row is the normalized snapshot rather than raw keystrokes.
// Nullable dimension columns keep blank distinct from zero.
type QuantityItem struct {
	gorm.Model
	QuantityGroupID uint `gorm:"not null;index" json:"quantity_group_id"`
	SortOrder       int  `gorm:"not null;default:0" json:"sort_order"`

	MajorCategory    string `json:"major_category"`
	MiddleCategory   string `json:"middle_category"`
	MinorCategory    string `json:"minor_category"`
	OptionalCategory string `json:"optional_category"`
	WorkType         string `json:"work_type"`
	Name             string `gorm:"not null" json:"name"`
	Specification    string `json:"specification"`
	Unit             string `json:"unit"`
	Remarks          string `gorm:"type:text" json:"remarks"`

	CalculationMode string `gorm:"not null;default:STANDARD" json:"calculation_mode"`

	WidthUnits  *int64 `json:"width_units,omitempty"`
	DepthUnits  *int64 `json:"depth_units,omitempty"`
	HeightUnits *int64 `json:"height_units,omitempty"`

	RangeLengthUnits *int64 `json:"range_length_units,omitempty"`
	Edge1Units       *int64 `json:"edge1_units,omitempty"`
	Edge2Units       *int64 `json:"edge2_units,omitempty"`
	PitchLengthUnits *int64 `json:"pitch_length_units,omitempty"`

	EnteredQuantityUnits int64 `gorm:"not null;default:0" json:"entered_quantity_units"`
	CoefficientUnits     int64 `gorm:"not null;default:100" json:"coefficient_units"`
	RoundingUnitUnits    int64 `gorm:"not null;default:1" json:"rounding_unit_units"`
	QuantityUnits        int64 `gorm:"not null;default:0" json:"quantity_units"`
}

// EngineSnapshot converts the stored row into the engine's persistable shape.
func (qi *QuantityItem) EngineSnapshot() quantity.Snapshot {
	return quantity.Snapshot{
		ID:               qi.ID,
		MajorCategory:    qi.MajorCategory,
		MiddleCategory:   qi.MiddleCategory,
		MinorCategory:    qi.MinorCategory,
		OptionalCategory: qi.OptionalCategory,
		WorkType:         qi.WorkType,
		Name:             qi.Name,
		Specification:    qi.Specification,
		Unit:             qi.Unit,
		Remarks:          qi.Remarks,
		Mode:             quantity.Mode(qi.CalculationMode),
		Dimensions: quantity.Dimensions{
			Width:       optionalUnits(qi.WidthUnits),
			Depth:       optionalUnits(qi.DepthUnits),
			Height:      optionalUnits(qi.HeightUnits),
			RangeLength: optionalUnits(qi.RangeLengthUnits),
			Edge1:       optionalUnits(qi.Edge1Units),
			Edge2:       optionalUnits(qi.Edge2Units),
			PitchLength: optionalUnits(qi.PitchLengthUnits),
		},
		EnteredQuantity: quantity.FromUnits(qi.EnteredQuantityUnits),
		Coefficient:     quantity.FromUnits(qi.CoefficientUnits),
		RoundingUnit:    quantity.FromUnits(qi.RoundingUnitUnits),
		Quantity:        quantity.FromUnits(qi.QuantityUnits),
	}
}

// ApplyEngineSnapshot writes the engine's committed state back onto the row.
// The group linkage and sort order are left untouched.
func (qi *QuantityItem) ApplyEngineSnapshot(s quantity.Snapshot) {
	qi.MajorCategory = s.MajorCategory
	qi.MiddleCategory = s.MiddleCategory
	qi.MinorCategory = s.MinorCategory
	qi.OptionalCategory = s.OptionalCategory
	qi.WorkType = s.WorkType
	qi.Name = s.Name
	qi.Specification = s.Specification
	qi.Unit = s.Unit
	qi.Remarks = s.Remarks
	qi.CalculationMode = string(s.Mode)

	qi.WidthUnits = unitsPointer(s.Dimensions.Width)
	qi.DepthUnits = unitsPointer(s.Dimensions.Depth)
	qi.HeightUnits = unitsPointer(s.Dimensions.Height)
	qi.RangeLengthUnits = unitsPointer(s.Dimensions.RangeLength)
	qi.Edge1Units = unitsPointer(s.Dimensions.Edge1)
	qi.Edge2Units = unitsPointer(s.Dimensions.Edge2)
	qi.PitchLengthUnits = unitsPointer(s.Dimensions.PitchLength)

	qi.EnteredQuantityUnits = s.EnteredQuantity.Units()
	qi.CoefficientUnits = s.Coefficient.Units()
	qi.RoundingUnitUnits = s.RoundingUnit.Units()
	qi.QuantityUnits = s.Quantity.Units()
}

func optionalUnits(units *int64) quantity.FixedPoint {
	if units == nil {
		return quantity.Blank
	}
	return quantity.FromUnits(*units)
}

func unitsPointer(value quantity.FixedPoint) *int64 {
	if value.IsBlank() {
		return nil
	}
	units := value.Units()
	return &units
}
