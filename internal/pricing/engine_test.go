package pricing

import (
	"math"
	"testing"
)

func paracetamol() Item {
	return Item{ID: "item-1", Name: "Paracetamol 500mg", Price: 100, Category: CategoryOTC, InStock: true}
}

func TestUnitPriceBlisterIsFortyPercent(t *testing.T) {
	item := paracetamol()
	blister := UnitPrice(item, UnitBlister)
	box := UnitPrice(item, UnitBox)
	if blister >= box {
		t.Fatalf("blister price %v should be below box price %v", blister, box)
	}
	if math.Abs(blister-40) > 1e-9 {
		t.Fatalf("expected blister price 40, got %v", blister)
	}
}

func TestUnitPriceIgnoresUnitForNonMedicine(t *testing.T) {
	item := Item{ID: "item-2", Name: "Thermometer", Price: 250, Category: CategoryMedicalDevice}
	if got := UnitPrice(item, UnitBlister); got != 250 {
		t.Fatalf("expected full price 250 for non-medicine blister, got %v", got)
	}
}

func TestSubtotalEmptyAndAdditive(t *testing.T) {
	if got := Subtotal(nil); got != 0 {
		t.Fatalf("empty line set must yield 0, got %v", got)
	}
	a := []Line{{Item: paracetamol(), Quantity: 2, UnitType: UnitBox}}
	b := []Line{{Item: Item{ID: "item-3", Price: 75.5, Category: CategorySupplement}, Quantity: 1, UnitType: UnitBox}}
	combined := append(append([]Line(nil), a...), b...)
	if got, want := Subtotal(combined), Subtotal(a)+Subtotal(b); math.Abs(got-want) > 1e-9 {
		t.Fatalf("subtotal not additive over disjoint sets: %v != %v", got, want)
	}
}

func TestSelectPlanFirstMatchNotBestMatch(t *testing.T) {
	plans := []Plan{
		{ID: "p0", MinOrderValue: 0},
		{ID: "p100", MinOrderValue: 100},
		{ID: "p50", MinOrderValue: 50},
	}
	chosen := SelectPlan(plans, 60, nil)
	if chosen == nil || chosen.ID != "p0" {
		t.Fatalf("expected first qualifying plan p0, got %+v", chosen)
	}
}

func TestSelectPlanNoneQualify(t *testing.T) {
	plans := []Plan{{ID: "big", MinOrderValue: 500}}
	if chosen := SelectPlan(plans, 120, nil); chosen != nil {
		t.Fatalf("expected nil plan, got %+v", chosen)
	}
}

func TestSelectPlanSticky(t *testing.T) {
	plans := []Plan{
		{ID: "cheap", MinOrderValue: 0},
		{ID: "premium", MinOrderValue: 200},
	}
	premium := &plans[1]
	// Subtotal dropped below the explicit selection's threshold; the
	// selection must survive re-evaluation.
	if chosen := SelectPlan(plans, 50, premium); chosen != premium {
		t.Fatalf("explicit selection was overridden: %+v", chosen)
	}
}

func TestComputeTotalsWithPlan(t *testing.T) {
	lines := []Line{{Item: paracetamol(), Quantity: 3, UnitType: UnitBox}}
	plan := &Plan{ID: "plus", MinOrderValue: 200, OrderDiscount: 20, MonthlyFee: 15}
	q := Compute(lines, plan)
	if q.Subtotal != 300 {
		t.Fatalf("expected subtotal 300, got %v", q.Subtotal)
	}
	if q.Total != 295 {
		t.Fatalf("expected total 295, got %v", q.Total)
	}
	if q.Savings != 5 {
		t.Fatalf("expected savings 5, got %v", q.Savings)
	}
}

func TestComputeBlisterLinesWithoutPlan(t *testing.T) {
	lines := []Line{{Item: paracetamol(), Quantity: 3, UnitType: UnitBlister}}
	q := Compute(lines, nil)
	if math.Abs(q.Subtotal-120) > 1e-9 {
		t.Fatalf("expected subtotal 120, got %v", q.Subtotal)
	}
	if q.Total != q.Subtotal {
		t.Fatalf("no-plan total must equal subtotal, got %v", q.Total)
	}
	if q.Savings != 0 {
		t.Fatalf("no-plan savings must be 0, got %v", q.Savings)
	}
}

func TestComputeMedicineDiscountInformationalOnly(t *testing.T) {
	lines := []Line{{Item: paracetamol(), Quantity: 4, UnitType: UnitBox}}
	plan := &Plan{ID: "plus", MedicineDiscount: 2.5, OrderDiscount: 10, MonthlyFee: 5}
	q := Compute(lines, plan)
	if q.MedicineDiscount != 10 {
		t.Fatalf("expected medicine discount 10, got %v", q.MedicineDiscount)
	}
	if q.Total != 400-10+5 {
		t.Fatalf("medicine discount leaked into the total: %v", q.Total)
	}
}

func TestComputeEmptyLinesZeroesEverything(t *testing.T) {
	q := Compute(nil, nil)
	if q.Subtotal != 0 || q.Total != 0 || q.Savings != 0 || q.UnitCount != 0 {
		t.Fatalf("expected all-zero quote, got %+v", q)
	}
}

func TestRound2(t *testing.T) {
	cases := map[Money]Money{
		10.006:  10.01,
		10.004:  10.0,
		-10.006: -10.01,
		120.4:   120.4,
		40.0:    40.0,
	}
	for in, want := range cases {
		if got := Round2(in); math.Abs(got-want) > 1e-9 {
			t.Fatalf("Round2(%v) = %v, want %v", in, got, want)
		}
	}
}
