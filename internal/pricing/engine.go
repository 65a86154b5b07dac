package pricing

// Money represents a monetary amount in whole currency units (EGP).
// Computation keeps full float precision; rounding to two decimal places
// happens only when amounts are presented to the client.
type Money = float64

// blisterFactor prices a blister at 40% of the box price. This is a fixed
// business constant, not derived from packaging counts.
const blisterFactor = 0.4

// Category classifies a catalog item.
type Category string

const (
	CategoryOTC           Category = "otc"
	CategoryPrescription  Category = "prescription"
	CategorySupplement    Category = "supplement"
	CategoryCosmetic      Category = "cosmetic"
	CategoryBabyCare      Category = "baby_care"
	CategoryMedicalDevice Category = "medical_device"
)

// IsMedicine reports whether items of this category are sold per blister
// or per box. Only medicines carry the blister unit.
func (c Category) IsMedicine() bool {
	return c == CategoryOTC || c == CategoryPrescription
}

// Valid reports whether the category belongs to the closed set.
func (c Category) Valid() bool {
	switch c {
	case CategoryOTC, CategoryPrescription, CategorySupplement, CategoryCosmetic, CategoryBabyCare, CategoryMedicalDevice:
		return true
	}
	return false
}

// UnitType is the purchasable unit for a line.
type UnitType string

const (
	UnitBox     UnitType = "box"
	UnitBlister UnitType = "blister"
)

// Valid reports whether the unit type is one of the known units.
func (u UnitType) Valid() bool {
	return u == UnitBox || u == UnitBlister
}

// Frequency is the recurring delivery cadence of a subscription.
type Frequency string

const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiweekly  Frequency = "biweekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
)

// Valid reports whether the frequency is one of the supported cadences.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyQuarterly:
		return true
	}
	return false
}

// Item is the slice of a catalog entry the engine prices against.
type Item struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    Money    `json:"price"`
	Category Category `json:"category"`
	InStock  bool     `json:"in_stock"`
}

// Line is a selected catalog item inside an order under construction.
type Line struct {
	Item     Item     `json:"item"`
	Quantity int      `json:"quantity"`
	UnitType UnitType `json:"unit_type"`
}

// Plan describes a subscription plan. MedicineDiscount is carried through
// to quotes for display but is never folded into the payable total; see
// Quote.MedicineDiscount.
type Plan struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	MinOrderValue    Money     `json:"min_order_value"`
	MonthlyFee       Money     `json:"monthly_fee"`
	MedicineDiscount Money     `json:"medicine_discount"`
	OrderDiscount    Money     `json:"order_discount"`
	Frequency        Frequency `json:"frequency"`
}

// Quote aggregates the computed pricing components for an order.
type Quote struct {
	Subtotal      Money
	OrderDiscount Money
	MonthlyFee    Money
	Total         Money
	Savings       Money
	UnitCount     int
	// MedicineDiscount is plan.MedicineDiscount multiplied by the unit
	// count. It is informational only and intentionally not subtracted
	// from Total; product has not confirmed whether it should apply.
	MedicineDiscount Money
}

// UnitPrice returns the effective price of one unit of the item. A blister
// of a medicine costs blisterFactor of the box price; every other
// combination prices at the full item price.
func UnitPrice(item Item, unit UnitType) Money {
	if unit == UnitBlister && item.Category.IsMedicine() {
		return item.Price * blisterFactor
	}
	return item.Price
}

// Subtotal sums the effective line prices. An empty line set yields 0.
func Subtotal(lines []Line) Money {
	var total Money
	for _, ln := range lines {
		if ln.Quantity <= 0 {
			continue
		}
		total += UnitPrice(ln.Item, ln.UnitType) * Money(ln.Quantity)
	}
	return total
}

// UnitCount sums the quantities across all lines.
func UnitCount(lines []Line) int {
	var count int
	for _, ln := range lines {
		if ln.Quantity <= 0 {
			continue
		}
		count += ln.Quantity
	}
	return count
}

// SelectPlan resolves the plan that applies to the given subtotal.
// An existing selection is sticky and returned unchanged. Otherwise plans
// are scanned in the order given and the first whose MinOrderValue is
// covered by the subtotal wins; list order is significant. Returns nil
// when no plan qualifies.
func SelectPlan(plans []Plan, subtotal Money, current *Plan) *Plan {
	if current != nil {
		return current
	}
	for i := range plans {
		if plans[i].MinOrderValue <= subtotal {
			return &plans[i]
		}
	}
	return nil
}

// Compute derives the full quote for the lines under the given plan.
// A nil plan contributes zero discount and zero fee.
func Compute(lines []Line, plan *Plan) Quote {
	q := Quote{
		Subtotal:  Subtotal(lines),
		UnitCount: UnitCount(lines),
	}
	if plan != nil {
		q.OrderDiscount = plan.OrderDiscount
		q.MonthlyFee = plan.MonthlyFee
		q.MedicineDiscount = plan.MedicineDiscount * Money(q.UnitCount)
	}
	q.Total = q.Subtotal - q.OrderDiscount + q.MonthlyFee
	q.Savings = q.OrderDiscount - q.MonthlyFee
	return q
}

// Round2 rounds an amount to two decimal places for presentation.
func Round2(m Money) Money {
	if m >= 0 {
		return float64(int64(m*100+0.5)) / 100
	}
	return -float64(int64(-m*100+0.5)) / 100
}
