package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/adpulse/internal/cli"
	"github.com/theirongolddev/adpulse/internal/model"

	"github.com/spf13/cobra"
)

var flagStage string

var journeyCmd = &cobra.Command{
	Use:   "journey",
	Short: "Customer journey stages for a market",
	RunE:  runJourney,
}

func init() {
	journeyCmd.Flags().StringVar(&flagStage, "stage", "", "Show only the stage with this name")
	rootCmd.AddCommand(journeyCmd)
}

func runJourney(_ *cobra.Command, _ []string) error {
	_, cd, err := countryData()
	if err != nil {
		return err
	}

	stages := cd.Journey
	if flagStage != "" {
		stages = nil
		for _, s := range cd.Journey {
			if strings.EqualFold(s.Name, flagStage) {
				stages = append(stages, s)
			}
		}
		if len(stages) == 0 {
			names := make([]string, len(cd.Journey))
			for i, s := range cd.Journey {
				names[i] = s.Name
			}
			return fmt.Errorf("unknown stage %q (have %s)", flagStage, strings.Join(names, ", "))
		}
	}
	if len(stages) == 0 {
		fmt.Printf("\n  No journey defined for %s.\n", cd.ID)
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s CUSTOMER JOURNEY", cd.ID)))

	for i, s := range stages {
		fmt.Println()
		fmt.Printf("  %d. %s\n", i+1, s.Name)
		if s.Description != "" {
			fmt.Printf("     %s\n", s.Description)
		}
		printList("Touchpoints", s.Touchpoints)
		printList("Pain points", s.PainPoints)
		printList("Opportunities", s.Opportunities)
		for _, m := range s.Metrics {
			fmt.Printf("     %-22s %s\n", m.Name,
				cli.ColorTrend(m.Value+" "+cli.TrendArrow(m.Trend), m.Trend == model.TrendUp, m.Trend == model.TrendDown))
		}
	}
	return nil
}

func printList(title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("     %s: %s\n", title, strings.Join(items, ", "))
}
