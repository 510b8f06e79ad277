package cmd

import (
	"fmt"

	"github.com/theirongolddev/adpulse/internal/cli"
	"github.com/theirongolddev/adpulse/internal/model"
	"github.com/theirongolddev/adpulse/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagPlatform     string
	flagStatus       string
	flagAllCountries bool
)

var campaignsCmd = &cobra.Command{
	Use:   "campaigns",
	Short: "Marketplace campaigns with spend and totals",
	RunE:  runCampaigns,
}

func init() {
	campaignsCmd.Flags().StringVar(&flagPlatform, "platform", "all", "Filter by platform (shopee, lazada, tokopedia, all)")
	campaignsCmd.Flags().StringVar(&flagStatus, "status", "all", "Filter by status (active, scheduled, completed, paused, all)")
	campaignsCmd.Flags().BoolVar(&flagAllCountries, "all-countries", false, "Include campaigns from every market")
	rootCmd.AddCommand(campaignsCmd)
}

func runCampaigns(_ *cobra.Command, _ []string) error {
	filter, err := campaignFilter()
	if err != nil {
		return err
	}
	res, err := loadData()
	if err != nil {
		return err
	}

	campaigns := pipeline.CampaignsByBudget(pipeline.FilterCampaigns(res.Dataset.Campaigns, filter))
	if len(campaigns) == 0 {
		fmt.Println("\n  No campaigns match the selected filters.")
		return nil
	}

	market := filter.Country.String()
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CAMPAIGNS  %s · %s · %s", market, filter.Platform, filter.Status)))
	fmt.Println()

	rows := make([][]string, 0, len(campaigns)+2)
	for _, c := range campaigns {
		rows = append(rows, []string{
			c.Name,
			c.Platform.String(),
			c.Country.String(),
			string(c.Status),
			cli.FormatDate(c.Start) + " → " + cli.FormatDate(c.End),
			cli.FormatCurrency(c.Budget),
			cli.FormatCurrency(c.Spent),
			cli.FormatPercentValue(pipeline.Percent(c.Spent, c.Budget)),
			cli.FormatNumber(c.Conversions),
			c.ROAS.StringFixed(1) + "x",
		})
	}

	tot := pipeline.CampaignTotals(campaigns)
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{
		fmt.Sprintf("Total (%d)", tot.Count), "", "", "", "",
		cli.FormatCurrency(tot.Budget),
		cli.FormatCurrency(tot.Spent),
		cli.FormatPercentValue(tot.SpentPct),
		cli.FormatNumber(tot.Conversions),
		"",
	})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Campaign", "Platform", "Market", "Status", "Dates", "Budget", "Spent", "Used", "Conv.", "ROAS"},
		Rows:    rows,
	}))
	fmt.Printf("\n  Blended CPA: $%s\n", tot.CPA.StringFixed(2))
	return nil
}

func campaignFilter() (pipeline.CampaignFilter, error) {
	var f pipeline.CampaignFilter
	var err error
	if f.Platform, err = model.ParsePlatform(flagPlatform); err != nil {
		return f, err
	}
	if f.Status, err = model.ParseStatus(flagStatus); err != nil {
		return f, err
	}
	if !flagAllCountries {
		if f.Country, err = model.ParseCountry(flagCountry); err != nil {
			return f, err
		}
	}
	return f, nil
}
