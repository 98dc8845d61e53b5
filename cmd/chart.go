package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budget/internal/charts"
)

var flagChartOut string

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Write category and daily spending charts as PNG",
	RunE:  runChart,
}

func init() {
	chartCmd.Flags().StringVarP(&flagChartOut, "out", "o", ".", "Output directory")
	rootCmd.AddCommand(chartCmd)
}

func runChart(cmd *cobra.Command, _ []string) error {
	_, v, err := loadMonth(cmd.Context())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(flagChartOut, 0o750); err != nil {
		return fmt.Errorf("creating %s: %w", flagChartOut, err)
	}
	stamp := v.Summary.Month.Format("2006-01")

	pie, err := charts.CategoryPie(v.Summary)
	if errors.Is(err, charts.ErrNoData) {
		fmt.Println("  No spending this month; nothing to chart.")
		return nil
	}
	if err != nil {
		return err
	}
	if err := writeChart(filepath.Join(flagChartOut, "categories-"+stamp+".png"), pie); err != nil {
		return err
	}

	bars, err := charts.DailyBars(v.Days)
	if err != nil && !errors.Is(err, charts.ErrNoData) {
		return err
	}
	if err == nil {
		return writeChart(filepath.Join(flagChartOut, "daily-"+stamp+".png"), bars)
	}
	return nil
}

func writeChart(path string, png []byte) error {
	if err := os.WriteFile(path, png, 0o644); err != nil { //nolint:gosec // charts are meant to be shared
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("  Wrote %s\n", path)
	return nil
}
