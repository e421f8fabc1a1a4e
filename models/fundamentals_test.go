package models

import "testing"

func fptr(v float64) *float64 { return &v }

func TestValuationFor(t *testing.T) {
	tests := []struct {
		name string
		pe   *float64
		want ValuationLabel
	}{
		{"missing", nil, ValuationUnknown},
		{"deep value", fptr(8.2), ValuationCheap},
		{"just below fair", fptr(14.99), ValuationCheap},
		{"exactly 15", fptr(15), ValuationFair},
		{"mid range", fptr(20), ValuationFair},
		{"exactly 25", fptr(25), ValuationFair},
		{"just above 25", fptr(25.01), ValuationExpensive},
		{"growth multiple", fptr(60), ValuationExpensive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValuationFor(tt.pe); got != tt.want {
				t.Errorf("ValuationFor(%v) = %v, want %v", tt.pe, got, tt.want)
			}
		})
	}
}

func TestProfitabilityFor(t *testing.T) {
	tests := []struct {
		name   string
		margin *float64
		want   ProfitabilityLabel
	}{
		{"missing", nil, ProfitabilityUnknown},
		{"negative", fptr(-3.5), ProfitabilityWeak},
		{"exactly 5", fptr(5), ProfitabilityWeak},
		{"just above 5", fptr(5.1), ProfitabilityGood},
		{"exactly 15", fptr(15), ProfitabilityGood},
		{"just above 15", fptr(15.1), ProfitabilityExcellent},
		{"high margin", fptr(28), ProfitabilityExcellent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProfitabilityFor(tt.margin); got != tt.want {
				t.Errorf("ProfitabilityFor(%v) = %v, want %v", tt.margin, got, tt.want)
			}
		})
	}
}
