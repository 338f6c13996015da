package quantity

import "testing"

func TestAdjustScenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		raw         string
		coefficient string
		unit        string
		want        string
	}{
		{"identity", "100.00", "1.00", "0.01", "100.00"},
		{"doubling", "100.00", "2.00", "0.01", "200.00"},
		{"already a multiple", "100.00", "1.00", "10.00", "100.00"},
		{"larger multiple", "200.00", "1.00", "10.00", "200.00"},
		{"rounds up to unit", "101.00", "1.00", "10.00", "110.00"},
		{"pitch count", "5.00", "1.00", "0.01", "5.00"},
		{"small unit rounds up", "1.23", "1.00", "0.05", "1.25"},
		{"zero raw", "0.00", "1.00", "0.01", "0.00"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			adj := Adjust(mustParse(t, tt.raw), mustParse(t, tt.coefficient), mustParse(t, tt.unit))
			if got := adj.Final.Format(); got != tt.want {
				t.Fatalf("Adjust(%s, %s, %s) = %s, want %s", tt.raw, tt.coefficient, tt.unit, got, tt.want)
			}
		})
	}
}

func TestAdjustCoefficientNormalization(t *testing.T) {
	t.Parallel()

	raw := mustParse(t, "123.45")
	unit := mustParse(t, "0.01")

	blank := Adjust(raw, Blank, unit)
	explicit := Adjust(raw, mustParse(t, "1.00"), unit)
	if !blank.Final.Equal(explicit.Final) {
		t.Fatalf("blank coefficient final %s != explicit 1.00 final %s",
			blank.Final.Format(), explicit.Final.Format())
	}
	if blank.Coefficient.Format() != "1.00" {
		t.Fatalf("blank coefficient normalized to %s, want 1.00", blank.Coefficient.Format())
	}

	// Out-of-range values from older rows are clamped.
	clamped := Adjust(raw, FromInt(12), unit)
	if clamped.Coefficient.Format() != "9.99" {
		t.Fatalf("coefficient 12.00 clamped to %s, want 9.99", clamped.Coefficient.Format())
	}
	clampedLow := Adjust(raw, FromInt(-12), unit)
	if clampedLow.Coefficient.Format() != "-9.99" {
		t.Fatalf("coefficient -12.00 clamped to %s, want -9.99", clampedLow.Coefficient.Format())
	}
}

func TestAdjustZeroCoefficientWarns(t *testing.T) {
	t.Parallel()

	adj := Adjust(mustParse(t, "50.00"), mustParse(t, "0"), mustParse(t, "0.01"))
	if adj.Final.Format() != "0.00" {
		t.Fatalf("zero coefficient final = %s, want 0.00", adj.Final.Format())
	}
	if adj.Coefficient.Format() != "0.00" {
		t.Fatalf("zero coefficient was altered to %s", adj.Coefficient.Format())
	}
	found := false
	for _, warning := range adj.Warnings {
		if warning == WarnZeroCoefficient {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected WarnZeroCoefficient, got %v", adj.Warnings)
	}
}

func TestAdjustRoundingUnitNormalization(t *testing.T) {
	t.Parallel()

	raw := mustParse(t, "123.45")
	coefficient := mustParse(t, "1.00")
	reference := Adjust(raw, coefficient, mustParse(t, "0.01"))

	tests := []struct {
		name string
		unit FixedPoint
	}{
		{"blank", Blank},
		{"zero", FromUnits(0)},
		{"negative", FromUnits(-100)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			adj := Adjust(raw, coefficient, tt.unit)
			if !adj.Final.Equal(reference.Final) {
				t.Fatalf("unit %s final = %s, want %s", tt.unit.Format(), adj.Final.Format(), reference.Final.Format())
			}
			if adj.RoundingUnit.Format() != "0.01" {
				t.Fatalf("unit %s normalized to %s, want 0.01", tt.unit.Format(), adj.RoundingUnit.Format())
			}
		})
	}
}

func TestAdjustFinalIsMultipleOfUnit(t *testing.T) {
	t.Parallel()

	raws := []string{"0.01", "1.23", "99.99", "100.00", "4.33", "-10.00"}
	units := []string{"0.01", "0.05", "0.50", "1.00", "10.00"}

	for _, r := range raws {
		for _, u := range units {
			adj := Adjust(mustParse(t, r), Blank, mustParse(t, u))
			if adj.Final.Units()%adj.RoundingUnit.Units() != 0 {
				t.Fatalf("Adjust(%s, _, %s) final %s is not a multiple of the unit", r, u, adj.Final.Format())
			}
			if adj.Final.Cmp(mustParse(t, r)) < 0 {
				t.Fatalf("Adjust(%s, _, %s) final %s fell below the raw value", r, u, adj.Final.Format())
			}
		}
	}
}
