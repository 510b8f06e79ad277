package store

import (
	"fmt"
	"time"

	"github.com/theirongolddev/adpulse/internal/model"

	"github.com/shopspring/decimal"
)

// Sections of the product_rows table.
const (
	sectionConversion = "conversion"
	sectionCart       = "cart"
	sectionReason     = "cart_reason"
	sectionProduct    = "product"
	sectionCategory   = "category"
	sectionLicense    = "license"
	sectionCompetitor = "competitor"
	sectionPartner    = "partner"
)

type productRow struct {
	section string
	label   string
	period  string
	v       [3]decimal.Decimal
}

// productRows flattens the product and market tables, in section order.
func productRows(ds *model.Dataset) []productRow {
	var rows []productRow
	add := func(section, label, period string, v ...decimal.Decimal) {
		r := productRow{section: section, label: label, period: period}
		copy(r.v[:], v)
		rows = append(rows, r)
	}

	for _, c := range ds.Conversions {
		add(sectionConversion, c.Line, c.Period.Format(dateLayout), c.Rate)
	}
	if !ds.Cart.AbandonmentRate.IsZero() || !ds.Cart.RecoveryRate.IsZero() || len(ds.Cart.Reasons) > 0 {
		add(sectionCart, "", "", ds.Cart.AbandonmentRate, ds.Cart.RecoveryRate)
	}
	for _, r := range ds.Cart.Reasons {
		add(sectionReason, r.Reason, "", r.Share)
	}
	for _, p := range ds.Products {
		add(sectionProduct, p.Name, "", p.ConversionRate, p.AOV, p.SalesShare)
	}
	for _, c := range ds.Categories {
		add(sectionCategory, c.Name, "", c.Revenue, c.Growth, c.MarketShare)
	}
	for _, l := range ds.Licenses {
		add(sectionLicense, l.Tier, "", l.RenewalRate, decimal.NewFromInt(l.DaysToRenew), l.Share)
	}
	for _, c := range ds.Competitors {
		add(sectionCompetitor, c.Name, "", c.MarketShare, c.PriceIndex, c.Satisfaction)
	}
	for _, p := range ds.Partners {
		add(sectionPartner, p.Name, "", p.Revenue, p.Growth, p.Performance)
	}
	return rows
}

func (c *Cache) loadProducts(path string, ds *model.Dataset) error {
	rows, err := c.db.Query(`SELECT section, label, period, v1, v2, v3
		FROM product_rows WHERE source_path = ? ORDER BY idx`, path)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var r productRow
		if err := rows.Scan(&r.section, &r.label, &r.period, &r.v[0], &r.v[1], &r.v[2]); err != nil {
			return err
		}
		if err := applyProductRow(ds, r); err != nil {
			return err
		}
	}
	return rows.Err()
}

func applyProductRow(ds *model.Dataset, r productRow) error {
	switch r.section {
	case sectionConversion:
		period, err := time.Parse(dateLayout, r.period)
		if err != nil {
			return err
		}
		ds.Conversions = append(ds.Conversions, model.ConversionSample{Line: r.label, Period: period, Rate: r.v[0]})
	case sectionCart:
		ds.Cart.AbandonmentRate, ds.Cart.RecoveryRate = r.v[0], r.v[1]
	case sectionReason:
		ds.Cart.Reasons = append(ds.Cart.Reasons, model.AbandonReason{Reason: r.label, Share: r.v[0]})
	case sectionProduct:
		ds.Products = append(ds.Products, model.ProductStats{
			Name: r.label, ConversionRate: r.v[0], AOV: r.v[1], SalesShare: r.v[2],
		})
	case sectionCategory:
		ds.Categories = append(ds.Categories, model.CategoryStats{
			Name: r.label, Revenue: r.v[0], Growth: r.v[1], MarketShare: r.v[2],
		})
	case sectionLicense:
		ds.Licenses = append(ds.Licenses, model.LicenseStats{
			Tier: r.label, RenewalRate: r.v[0], DaysToRenew: r.v[1].IntPart(), Share: r.v[2],
		})
	case sectionCompetitor:
		ds.Competitors = append(ds.Competitors, model.CompetitorStats{
			Name: r.label, MarketShare: r.v[0], PriceIndex: r.v[1], Satisfaction: r.v[2],
		})
	case sectionPartner:
		ds.Partners = append(ds.Partners, model.PartnerStats{
			Name: r.label, Revenue: r.v[0], Growth: r.v[1], Performance: r.v[2],
		})
	default:
		return fmt.Errorf("unknown product section %q", r.section)
	}
	return nil
}
