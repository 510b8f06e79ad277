package dataset

import (
	"time"

	"github.com/theirongolddev/adpulse/internal/model"
)

// Conversions returns the shipped monthly storefront conversion rates,
// grouped by product line and ordered by period within each line.
func Conversions() []model.ConversionSample {
	rates := []struct {
		line  string
		rates [3]string
	}{
		{"Home Products", [3]string{"4.2", "4.5", "4.8"}},
		{"Business Solutions", [3]string{"3.8", "4.0", "4.2"}},
		{"Mobile Security", [3]string{"5.1", "5.3", "5.6"}},
	}
	var out []model.ConversionSample
	for _, r := range rates {
		for i, rate := range r.rates {
			out = append(out, model.ConversionSample{
				Line:   r.line,
				Period: day(2024, time.Month(i+1), 1),
				Rate:   d(rate),
			})
		}
	}
	return out
}

// Cart returns the shipped cart abandonment figures.
func Cart() model.CartStats {
	r := func(reason, share string) model.AbandonReason {
		return model.AbandonReason{Reason: reason, Share: d(share)}
	}
	return model.CartStats{
		AbandonmentRate: d("68.5"),
		RecoveryRate:    d("25.3"),
		Reasons: []model.AbandonReason{
			r("High Price", "35"),
			r("Complex Checkout", "25"),
			r("Payment Issues", "20"),
			r("Technical Issues", "15"),
			r("Other", "5"),
		},
	}
}

// Products returns the shipped storefront product performance.
func Products() []model.ProductStats {
	p := func(name, conv, aov, share string) model.ProductStats {
		return model.ProductStats{Name: name, ConversionRate: d(conv), AOV: d(aov), SalesShare: d(share)}
	}
	return []model.ProductStats{
		p("Internet Security", "4.8", "89.99", "35"),
		p("Total Security", "5.2", "129.99", "40"),
		p("Business Solutions", "3.9", "299.99", "25"),
	}
}

// Categories returns the shipped product category revenue and market share.
func Categories() []model.CategoryStats {
	c := func(name, revenue, growth, share string) model.CategoryStats {
		return model.CategoryStats{Name: name, Revenue: d(revenue), Growth: d(growth), MarketShare: d(share)}
	}
	return []model.CategoryStats{
		c("Internet Security", "1250000", "15.3", "28.5"),
		c("Total Security", "980000", "18.7", "22.3"),
		c("Small Office", "850000", "25.4", "19.8"),
		c("Enterprise", "1450000", "12.8", "29.4"),
	}
}

// Licenses returns the shipped license renewal figures.
func Licenses() []model.LicenseStats {
	l := func(tier, renewal string, days int64, share string) model.LicenseStats {
		return model.LicenseStats{Tier: tier, RenewalRate: d(renewal), DaysToRenew: days, Share: d(share)}
	}
	return []model.LicenseStats{
		l("Personal", "78.5", 15, "45"),
		l("Small Business", "85.2", 25, "30"),
		l("Enterprise", "92.7", 45, "25"),
	}
}

// Competitors returns the shipped competitive landscape.
func Competitors() []model.CompetitorStats {
	c := func(name, share, price, score string) model.CompetitorStats {
		return model.CompetitorStats{Name: name, MarketShare: d(share), PriceIndex: d(price), Satisfaction: d(score)}
	}
	return []model.CompetitorStats{
		c("Own Brand", "32.5", "100", "4.5"),
		c("Competitor A", "28.3", "95", "4.2"),
		c("Competitor B", "22.7", "85", "4.0"),
		c("Competitor C", "16.5", "75", "3.8"),
	}
}

// Partners returns the shipped channel partner figures.
func Partners() []model.PartnerStats {
	p := func(name, revenue, growth, perf string) model.PartnerStats {
		return model.PartnerStats{Name: name, Revenue: d(revenue), Growth: d(growth), Performance: d(perf)}
	}
	return []model.PartnerStats{
		p("Partner A", "450000", "15.2", "92"),
		p("Partner B", "380000", "12.8", "88"),
		p("Partner C", "320000", "18.5", "95"),
	}
}
