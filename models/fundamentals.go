package models

type ValuationLabel string

const (
	ValuationCheap     ValuationLabel = "Cheap"
	ValuationFair      ValuationLabel = "Fair"
	ValuationExpensive ValuationLabel = "Expensive"
	ValuationUnknown   ValuationLabel = "N/A"
)

type ProfitabilityLabel string

const (
	ProfitabilityWeak      ProfitabilityLabel = "Weak"
	ProfitabilityGood      ProfitabilityLabel = "Good"
	ProfitabilityExcellent ProfitabilityLabel = "Excellent"
	ProfitabilityUnknown   ProfitabilityLabel = "N/A"
)

// FundamentalsSnapshot holds company profile data and key ratios.
// Numeric pointers are nil when the upstream payload omitted the metric
// or the value failed numeric coercion.
type FundamentalsSnapshot struct {
	Symbol        string             `json:"symbol"`
	CompanyName   string             `json:"company_name"`
	Industry      string             `json:"industry"`
	MarketCap     *float64           `json:"market_cap,omitempty"`
	PERatio       *float64           `json:"pe_ratio,omitempty"`
	PriceToBook   *float64           `json:"price_to_book,omitempty"`
	ROE           *float64           `json:"roe,omitempty"`
	NetMargin     *float64           `json:"net_margin,omitempty"`
	CurrentRatio  *float64           `json:"current_ratio,omitempty"`
	DebtEquity    *float64           `json:"debt_equity,omitempty"`
	Valuation     ValuationLabel     `json:"valuation"`
	Profitability ProfitabilityLabel `json:"profitability"`
}

// ValuationFor buckets a P/E ratio: above 25 is Expensive, 15 and above
// is Fair, below 15 is Cheap. A missing ratio yields N/A.
func ValuationFor(peRatio *float64) ValuationLabel {
	if peRatio == nil {
		return ValuationUnknown
	}
	switch {
	case *peRatio > 25:
		return ValuationExpensive
	case *peRatio >= 15:
		return ValuationFair
	default:
		return ValuationCheap
	}
}

// ProfitabilityFor buckets a net margin percentage: above 15 is
// Excellent, above 5 is Good, otherwise Weak. A missing margin yields N/A.
func ProfitabilityFor(netMargin *float64) ProfitabilityLabel {
	if netMargin == nil {
		return ProfitabilityUnknown
	}
	switch {
	case *netMargin > 15:
		return ProfitabilityExcellent
	case *netMargin > 5:
		return ProfitabilityGood
	default:
		return ProfitabilityWeak
	}
}
