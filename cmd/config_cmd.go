// Package cmd implements the adpulse CLI commands.
package cmd

import (
	"fmt"

	"github.com/theirongolddev/adpulse/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Default market: %s\n", cfg.General.Country())
	fmt.Printf("    Horizon:        %d months\n", cfg.General.Horizon)
	if cfg.General.DataFile != "" {
		fmt.Printf("    Data file:      %s\n", cfg.General.DataFile)
	} else {
		fmt.Println("    Data file:      built-in dataset")
	}
	fmt.Println()

	fmt.Println("  [Forecast]")
	fmt.Printf("    CPA:   -%g per month, floor $%g\n", cfg.Forecast.CPADecay, cfg.Forecast.CPAFloor)
	fmt.Printf("    LTV:   +%g per month, ceiling $%g\n", cfg.Forecast.LTVGrowth, cfg.Forecast.LTVCeiling)
	fmt.Printf("    Share: +%g per month, ceiling %g\n", cfg.Forecast.ShareGrowth, cfg.Forecast.ShareCeiling)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [TUI]")
	fmt.Printf("    Auto refresh: %v every %ds\n", cfg.TUI.AutoRefresh, cfg.TUI.RefreshIntervalSec)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:  %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval: %ds\n", cfg.Daemon.IntervalSec)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s\n", cfg.Log.Level)
	fmt.Println()

	fmt.Println("  Run `adpulse setup` to reconfigure.")
	return nil
}
