package cmd

import (
	"fmt"

	"github.com/theirongolddev/adpulse/internal/cli"
	"github.com/theirongolddev/adpulse/internal/pipeline"

	"github.com/spf13/cobra"
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Channel budget allocation and spend",
	RunE:  runBudget,
}

func init() {
	rootCmd.AddCommand(budgetCmd)
}

func runBudget(_ *cobra.Command, _ []string) error {
	res, err := loadData()
	if err != nil {
		return err
	}
	lines := res.Dataset.Budget
	if len(lines) == 0 {
		fmt.Println("\n  No budget lines in this dataset.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("BUDGET ALLOCATION"))
	fmt.Println()

	rows := make([][]string, 0, len(lines)+2)
	for _, l := range lines {
		pct := pipeline.Percent(l.Spent, l.Allocated)
		rows = append(rows, []string{
			l.Channel,
			cli.FormatCurrency(l.Allocated),
			cli.FormatCurrency(l.Spent),
			cli.FormatCurrency(l.Remaining()),
			cli.RenderProgressBar(pct, 20),
		})
	}

	tot := pipeline.BudgetTotals(lines)
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{
		"Total",
		cli.FormatCurrency(tot.Allocated),
		cli.FormatCurrency(tot.Spent),
		cli.FormatCurrency(tot.Remaining),
		cli.RenderProgressBar(tot.SpentPct, 20),
	})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Channel", "Allocated", "Spent", "Remaining", "Spent %"},
		Rows:    rows,
	}))
	return nil
}
