package pipeline

import (
	"github.com/theirongolddev/adpulse/internal/model"

	"github.com/shopspring/decimal"
)

// ProductSummary is the headline reduction of the product and market tables.
type ProductSummary struct {
	CategoryRevenue decimal.Decimal `json:"category_revenue"`
	CategoryShare   decimal.Decimal `json:"category_share_pct"`
	LeadCategory    string          `json:"lead_category"`
	PartnerRevenue  decimal.Decimal `json:"partner_revenue"`
	TopPartner      string          `json:"top_partner"`
	// CompetitorShare is the share of the market covered by the listed vendors.
	CompetitorShare decimal.Decimal `json:"competitor_share_pct"`
	SalesShare      decimal.Decimal `json:"sales_share_pct"`
	// BlendedAOV weights each product's order value by its sales share,
	// zero when no share is recorded.
	BlendedAOV   decimal.Decimal `json:"blended_aov"`
	ReasonShare  decimal.Decimal `json:"reason_share_pct"`
	LicenseShare decimal.Decimal `json:"license_share_pct"`
	// RecoveredPct is recovered carts as a share of all carts started.
	RecoveredPct decimal.Decimal `json:"recovered_pct"`
}

// ProductTotals reduces the product, category, partner and cart tables.
func ProductTotals(ds *model.Dataset) ProductSummary {
	cat := MustTotals(ds.Categories)
	partners := MustTotals(ds.Partners)
	products := MustTotals(ds.Products)

	s := ProductSummary{
		CategoryRevenue: cat.Get("revenue"),
		CategoryShare:   cat.Get("market_share"),
		PartnerRevenue:  partners.Get("revenue"),
		CompetitorShare: MustTotals(ds.Competitors).Get("market_share"),
		SalesShare:      products.Get("sales_share"),
		ReasonShare:     MustTotals(ds.Cart.Reasons).Get("share"),
		LicenseShare:    MustTotals(ds.Licenses).Get("share"),
		RecoveredPct:    ds.Cart.AbandonmentRate.Mul(ds.Cart.RecoveryRate).Div(hundred).Round(1),
	}
	if !s.SalesShare.IsZero() {
		s.BlendedAOV = products.Get("weighted_aov").Div(s.SalesShare).Round(2)
	}

	var best decimal.Decimal
	for _, c := range ds.Categories {
		if s.LeadCategory == "" || c.Revenue.GreaterThan(best) {
			s.LeadCategory, best = c.Name, c.Revenue
		}
	}
	for _, p := range ds.Partners {
		if s.TopPartner == "" || p.Performance.GreaterThan(best) {
			s.TopPartner, best = p.Name, p.Performance
		}
	}
	return s
}

// ConversionLine is one product line's conversion series.
type ConversionLine struct {
	Line    string
	Periods []model.ConversionSample
}

// Latest returns the most recent rate, zero for an empty line.
func (l ConversionLine) Latest() decimal.Decimal {
	if len(l.Periods) == 0 {
		return decimal.Zero
	}
	return l.Periods[len(l.Periods)-1].Rate
}

// Change returns the latest rate minus the first, in percentage points.
func (l ConversionLine) Change() decimal.Decimal {
	if len(l.Periods) < 2 {
		return decimal.Zero
	}
	return l.Latest().Sub(l.Periods[0].Rate)
}

// Rates returns the series as floats for sparklines.
func (l ConversionLine) Rates() []float64 {
	out := make([]float64, len(l.Periods))
	for i, p := range l.Periods {
		out[i] = p.Rate.InexactFloat64()
	}
	return out
}

// ConversionLines groups samples by product line in first-seen order.
// Samples keep their input order within a line.
func ConversionLines(samples []model.ConversionSample) []ConversionLine {
	idx := make(map[string]int)
	var out []ConversionLine
	for _, s := range samples {
		i, ok := idx[s.Line]
		if !ok {
			i = len(out)
			idx[s.Line] = i
			out = append(out, ConversionLine{Line: s.Line})
		}
		out[i].Periods = append(out[i].Periods, s)
	}
	return out
}
