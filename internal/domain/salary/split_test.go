package salary

import (
	"errors"
	"math"
	"testing"
)

func TestSplitGrossDefaults(t *testing.T) {
	split := SplitGross(DefaultRates(), 30000, 0, SalaryTypeMonthly)
	if split.BasicDA != 18000 || split.HRA != 6000 || split.Conveyance != 3000 {
		t.Fatalf("unexpected split: %+v", split)
	}
	if split.CallAllowance != 3000 {
		t.Fatalf("expected call allowance 3000, got %v", split.CallAllowance)
	}
}

func TestSplitGrossCarvesOtherAllowance(t *testing.T) {
	split := SplitGross(DefaultRates(), 30000, 5000, SalaryTypeMonthly)
	if split.Base != 25000 {
		t.Fatalf("expected base 25000, got %v", split.Base)
	}
	if split.BasicDA != 15000 || split.HRA != 5000 || split.Conveyance != 2500 {
		t.Fatalf("unexpected split: %+v", split)
	}

	split = SplitGross(DefaultRates(), 3000, 5000, SalaryTypeMonthly)
	if split.Base != 0 || split.BasicDA != 0 {
		t.Fatalf("expected an empty split, got %+v", split)
	}
}

func TestSplitGrossFixedCallAllowance(t *testing.T) {
	split := SplitGross(DefaultRates(), 30000, 0, SalaryTypeDaily)
	if split.CallAllowance != 500 {
		t.Fatalf("expected fixed call allowance 500, got %v", split.CallAllowance)
	}
}

func TestSplitGrossSharesStayWithinGross(t *testing.T) {
	r := DefaultRates()
	for g := 0.0; g <= 100000; g += 137 {
		split := SplitGross(r, g, 0, SalaryTypeMonthly)
		if sum := split.BasicDA + split.HRA + split.Conveyance; sum > g {
			t.Fatalf("gross %v: split sum %v exceeds gross", g, sum)
		}
		if math.Abs(split.BasicDA-0.60*g) > 1 || math.Abs(split.HRA-0.20*g) > 1 || math.Abs(split.Conveyance-0.10*g) > 1 {
			t.Fatalf("gross %v: shares off by more than one unit: %+v", g, split)
		}
	}
}

func TestSplitGrossFormula(t *testing.T) {
	r := DefaultRates().With(RateOverrides{Formulas: map[Field]string{FieldBasicDA: "base * 0.5"}})
	split := SplitGross(r, 30000, 0, SalaryTypeMonthly)
	if split.BasicDA != 15000 {
		t.Fatalf("expected formula basic+da 15000, got %v", split.BasicDA)
	}
	if split.HRA != 6000 {
		t.Fatalf("expected percentage hra 6000, got %v", split.HRA)
	}
}

func TestRatesWithLeavesBaseUntouched(t *testing.T) {
	base := DefaultRates()
	ceiling := 21000.0
	derived := base.With(RateOverrides{
		PFWageCeiling: &ceiling,
		PTSlabs:       []PTSlab{{Threshold: 0, Amount: 100}},
		Formulas:      map[Field]string{FieldHRA: "base / 4"},
	})
	if base.PFWageCeiling != 15000 || len(base.PTSlabs) != 3 || base.Formulas != nil {
		t.Fatalf("base table was modified: %+v", base)
	}
	if derived.PFWageCeiling != 21000 || derived.Formulas[FieldHRA] != "base / 4" {
		t.Fatalf("overrides not applied: %+v", derived)
	}
	derived.PTSlabs[0].Amount = 1
	if DefaultRates().PTSlabs[2].Amount != 150 {
		t.Fatal("expected DefaultRates to return a fresh table")
	}
}

func TestRatesValidate(t *testing.T) {
	if err := DefaultRates().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := []map[Field]string{
		{FieldPF: "base * 0.12"},
		{FieldHRA: "base +"},
		{FieldHRA: "salary * 2"},
	}
	for _, formulas := range bad {
		if err := DefaultRates().With(RateOverrides{Formulas: formulas}).Validate(); err == nil {
			t.Fatalf("expected error for %v", formulas)
		}
	}
	r := DefaultRates()
	r.PFCeilingMode = "flat"
	if err := r.Validate(); err == nil {
		t.Fatal("expected error for unknown ceiling mode")
	}
	err := DefaultRates().With(RateOverrides{Formulas: map[Field]string{FieldHRA: "(base"}}).Validate()
	if !errors.Is(err, ErrInvalidExpression) {
		t.Fatalf("expected ErrInvalidExpression, got %v", err)
	}
}
