package order

import "github.com/shopspring/decimal"

// Fixed pricing rules. Orders strictly above FreeDeliveryThreshold ship free
// and receive HighValueDiscountRate off the declared price; everything else
// pays StandardDeliveryCharge with no discount. A price of exactly 499 takes
// the paid-delivery branch.
var (
	FreeDeliveryThreshold  = decimal.NewFromInt(499)
	StandardDeliveryCharge = decimal.NewFromInt(50)
	HighValueDiscountRate  = decimal.RequireFromString("0.10")
)

// Quote is the deterministic pricing breakdown for a declared price.
type Quote struct {
	Price           decimal.Decimal
	Discount        decimal.Decimal
	DeliveryCharges decimal.Decimal
	FinalTotal      decimal.Decimal
}

// PriceQuote computes delivery charges and discount for the given declared
// price. FinalTotal always equals Price - Discount + DeliveryCharges.
func PriceQuote(price decimal.Decimal) Quote {
	q := Quote{
		Price:           price,
		Discount:        decimal.Zero,
		DeliveryCharges: StandardDeliveryCharge,
	}
	if price.GreaterThan(FreeDeliveryThreshold) {
		q.DeliveryCharges = decimal.Zero
		q.Discount = price.Mul(HighValueDiscountRate).Round(2)
	}
	q.FinalTotal = price.Sub(q.Discount).Add(q.DeliveryCharges)
	return q
}
