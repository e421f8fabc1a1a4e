package models

import (
	"github.com/shopspring/decimal"
)

type TrendLabel string

const (
	TrendBullish TrendLabel = "Bullish"
	TrendBearish TrendLabel = "Bearish"
	TrendNeutral TrendLabel = "Neutral"
)

// PriceSnapshot holds the price data derived from a daily time series.
// All fields are computed together from the same series; a snapshot is
// never partially populated.
type PriceSnapshot struct {
	Symbol        string          `json:"symbol"`
	Date          string          `json:"date"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	PreviousClose decimal.Decimal `json:"previous_close"`
	DayHigh       decimal.Decimal `json:"day_high"`
	DayLow        decimal.Decimal `json:"day_low"`
	Volume        int64           `json:"volume"`
	DailyChange   decimal.Decimal `json:"daily_change"`
	DailyChangePc decimal.Decimal `json:"daily_change_pct"`
	SMA20         *decimal.Decimal `json:"sma_20,omitempty"`
	SMA50         *decimal.Decimal `json:"sma_50,omitempty"`
	Trend         TrendLabel      `json:"trend"`
}

// TrendFor classifies price action against the two moving averages.
// Bullish requires price > SMA20 > SMA50, bearish the reverse ordering;
// if either average is unavailable the trend is Neutral.
func TrendFor(price decimal.Decimal, sma20, sma50 *decimal.Decimal) TrendLabel {
	if sma20 == nil || sma50 == nil {
		return TrendNeutral
	}
	if price.GreaterThan(*sma20) && sma20.GreaterThan(*sma50) {
		return TrendBullish
	}
	if price.LessThan(*sma20) && sma20.LessThan(*sma50) {
		return TrendBearish
	}
	return TrendNeutral
}
