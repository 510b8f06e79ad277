package cmd

import (
	"fmt"

	"github.com/theirongolddev/adpulse/internal/cli"
	"github.com/theirongolddev/adpulse/internal/model"
	"github.com/theirongolddev/adpulse/internal/pipeline"

	"github.com/spf13/cobra"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Product categories, storefront conversion and market position",
	RunE:  runProducts,
}

func init() {
	rootCmd.AddCommand(productsCmd)
}

func runProducts(_ *cobra.Command, _ []string) error {
	res, err := loadData()
	if err != nil {
		return err
	}
	ds := res.Dataset
	tot := pipeline.ProductTotals(ds)

	fmt.Println()
	fmt.Println(cli.RenderTitle("PRODUCTS & MARKET"))
	fmt.Println()

	if len(ds.Categories) > 0 {
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Product Categories",
			Headers: []string{"Category", "Revenue", "Growth", "Mkt Share"},
			Rows:    categoryRows(ds.Categories, tot),
		}))
		fmt.Println()
	}

	if lines := pipeline.ConversionLines(ds.Conversions); len(lines) > 0 {
		fmt.Println("  Storefront Conversion")
		for _, l := range lines {
			fmt.Printf("  %-20s %s  %5s  %s\n", l.Line, cli.RenderSparkline(l.Rates()),
				cli.FormatPercentValue(l.Latest()),
				cli.ColorTrend(cli.FormatPoints(l.Change()), l.Change().IsPositive(), l.Change().IsNegative()))
		}
		fmt.Println()
	}

	if len(ds.Products) > 0 {
		rows := make([][]string, 0, len(ds.Products)+2)
		for _, p := range ds.Products {
			rows = append(rows, []string{p.Name, cli.FormatPercentValue(p.ConversionRate),
				"$" + p.AOV.StringFixed(2), cli.FormatPercentValue(p.SalesShare)})
		}
		rows = append(rows, []string{"---"})
		rows = append(rows, []string{"Blended", "", "$" + tot.BlendedAOV.StringFixed(2), cli.FormatPercentValue(tot.SalesShare)})
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Product Performance",
			Headers: []string{"Product", "Conv.", "AOV", "Sales"},
			Rows:    rows,
		}))
		fmt.Println()
	}

	if cart := ds.Cart; len(cart.Reasons) > 0 || !cart.AbandonmentRate.IsZero() {
		fmt.Printf("  Cart abandonment %s, recovery %s (%s of carts recovered)\n",
			cli.FormatPercentValue(cart.AbandonmentRate), cli.FormatPercentValue(cart.RecoveryRate),
			cli.FormatPercentValue(tot.RecoveredPct))
		for _, r := range cart.Reasons {
			fmt.Printf("    %-18s %s\n", r.Reason, cli.RenderProgressBar(r.Share, 20))
		}
		fmt.Println()
	}

	if len(ds.Licenses) > 0 {
		rows := make([][]string, 0, len(ds.Licenses))
		for _, l := range ds.Licenses {
			rows = append(rows, []string{l.Tier, cli.FormatPercentValue(l.RenewalRate),
				fmt.Sprintf("%d days", l.DaysToRenew), cli.FormatPercentValue(l.Share)})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "License Renewals",
			Headers: []string{"Tier", "Renewal", "Time to Renew", "Base"},
			Rows:    rows,
		}))
		fmt.Println()
	}

	if len(ds.Competitors) > 0 {
		rows := make([][]string, 0, len(ds.Competitors))
		for _, c := range ds.Competitors {
			rows = append(rows, []string{c.Name, cli.FormatPercentValue(c.MarketShare),
				c.PriceIndex.String(), c.Satisfaction.StringFixed(1) + " / 5"})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Competitive Landscape",
			Headers: []string{"Vendor", "Share", "Price Idx", "Satisfaction"},
			Rows:    rows,
		}))
		fmt.Println()
	}

	if len(ds.Partners) > 0 {
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Channel Partners",
			Headers: []string{"Partner", "Revenue", "Growth", "Performance"},
			Rows:    partnerRows(ds.Partners, tot),
		}))
	}

	if len(ds.Categories) == 0 && len(ds.Products) == 0 && len(ds.Partners) == 0 && len(ds.Conversions) == 0 {
		fmt.Println("  No product data in this dataset.")
	}
	return nil
}

func categoryRows(cats []model.CategoryStats, tot pipeline.ProductSummary) [][]string {
	rows := make([][]string, 0, len(cats)+2)
	for _, c := range cats {
		name := c.Name
		if name == tot.LeadCategory {
			name += " *"
		}
		rows = append(rows, []string{name, cli.FormatCurrency(c.Revenue),
			cli.FormatChange(c.Growth), cli.FormatPercentValue(c.MarketShare)})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"Total", cli.FormatCurrency(tot.CategoryRevenue), "", cli.FormatPercentValue(tot.CategoryShare)})
	return rows
}

func partnerRows(partners []model.PartnerStats, tot pipeline.ProductSummary) [][]string {
	rows := make([][]string, 0, len(partners)+2)
	for _, p := range partners {
		name := p.Name
		if name == tot.TopPartner {
			name += " *"
		}
		rows = append(rows, []string{name, cli.FormatCurrency(p.Revenue),
			cli.FormatChange(p.Growth), p.Performance.String()})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"Total", cli.FormatCurrency(tot.PartnerRevenue), "", ""})
	return rows
}
