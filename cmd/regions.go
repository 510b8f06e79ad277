package cmd

import (
	"fmt"

	"github.com/theirongolddev/adpulse/internal/cli"
	"github.com/theirongolddev/adpulse/internal/pipeline"

	"github.com/spf13/cobra"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "Regional performance and acquisition channels",
	RunE:  runRegions,
}

func init() {
	rootCmd.AddCommand(regionsCmd)
}

func runRegions(_ *cobra.Command, _ []string) error {
	res, err := loadData()
	if err != nil {
		return err
	}
	ds := res.Dataset

	fmt.Println()
	fmt.Println(cli.RenderTitle("REGIONAL PERFORMANCE"))
	fmt.Println()

	if len(ds.Regions) == 0 {
		fmt.Println("  No regional data.")
	} else {
		maxRev := 0.0
		for _, r := range ds.Regions {
			maxRev = max(maxRev, r.Revenue.InexactFloat64())
		}
		for _, r := range ds.Regions {
			fmt.Println(cli.RenderHorizontalBar(r.Country.String(), r.Revenue.InexactFloat64(), maxRev, 30,
				fmt.Sprintf("%s  %s users  %s", cli.FormatCompactCurrency(r.Revenue), cli.FormatNumber(r.Users), cli.FormatChange(r.Growth))))
		}
		tot := pipeline.RegionTotals(ds.Regions)
		fmt.Printf("\n  Total: %s users, %s revenue\n", cli.FormatNumber(tot.Users), cli.FormatCurrency(tot.Revenue))
	}

	if len(ds.Channels) == 0 {
		return nil
	}
	fmt.Println()
	share := pipeline.UserShare(ds.Channels)
	rows := make([][]string, 0, len(ds.Channels)+2)
	for _, c := range ds.Channels {
		rows = append(rows, []string{
			c.Name,
			cli.FormatNumber(c.Users),
			cli.FormatPercentValue(share[c.Name]),
			cli.FormatCurrency(c.Revenue),
			cli.FormatPercentValue(c.ConversionRate),
			"$" + c.CPA.StringFixed(2),
		})
	}
	tot := pipeline.ChannelTotals(ds.Channels)
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"Total", cli.FormatNumber(tot.Users), "", cli.FormatCurrency(tot.Revenue), "", ""})

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Acquisition Channels",
		Headers: []string{"Channel", "Users", "Share", "Revenue", "Conv.", "CPA"},
		Rows:    rows,
	}))
	return nil
}
