package stock

import "github.com/shopspring/decimal"

// AlertLevel represents the severity of a stock alert
type AlertLevel string

const (
	AlertLevelOutOfStock AlertLevel = "OUT_OF_STOCK"
	AlertLevelLowStock   AlertLevel = "LOW_STOCK"
)

// String returns the string representation of AlertLevel
func (l AlertLevel) String() string {
	return string(l)
}

// Alert describes a product whose stock level requires attention, with a
// suggested reorder quantity.
type Alert struct {
	ProductReference  string          `json:"product_reference"`
	ProductName       string          `json:"product_name"`
	Level             AlertLevel      `json:"level"`
	QuantityOnHand    decimal.Decimal `json:"quantity_on_hand"`
	MinThreshold      decimal.Decimal `json:"min_threshold"`
	SuggestedQuantity decimal.Decimal `json:"suggested_quantity"`
}

// AlertFor derives the alert state of a product. Returns nil when the stock
// level needs no attention.
func AlertFor(p *Product) *Alert {
	var level AlertLevel
	switch {
	case p.IsOutOfStock():
		level = AlertLevelOutOfStock
	case p.IsLowStock():
		level = AlertLevelLowStock
	default:
		return nil
	}

	return &Alert{
		ProductReference:  p.Reference,
		ProductName:       p.Name,
		Level:             level,
		QuantityOnHand:    p.QuantityOnHand,
		MinThreshold:      p.MinThreshold,
		SuggestedQuantity: SuggestedReorderQuantity(p.QuantityOnHand, p.MinThreshold),
	}
}

// SuggestedReorderQuantity computes the reorder suggestion:
// max(minThreshold*3 - quantityOnHand, minThreshold).
func SuggestedReorderQuantity(quantityOnHand, minThreshold decimal.Decimal) decimal.Decimal {
	suggested := minThreshold.Mul(decimal.NewFromInt(3)).Sub(quantityOnHand)
	if suggested.LessThan(minThreshold) {
		return minThreshold
	}
	return suggested
}

// AlertsFor derives alerts for a set of products, preserving input order
func AlertsFor(products []Product) []Alert {
	alerts := make([]Alert, 0)
	for i := range products {
		if alert := AlertFor(&products[i]); alert != nil {
			alerts = append(alerts, *alert)
		}
	}
	return alerts
}
