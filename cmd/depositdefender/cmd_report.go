package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vbonduro/depositdefender/internal/report"
)

var (
	reportOutput      string
	reportNoPhotos    bool
	reportLandscape   bool
	reportNoWatermark bool
)

var reportCmd = &cobra.Command{
	Use:   "report <inspection-id>",
	Short: "Generate a PDF report for an inspection",
	Long: `Generate a PDF report for an inspection, store it alongside the
inspection and write a copy to disk. Without -o the file is named after the
property and today's date.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "output file")
	reportCmd.Flags().BoolVar(&reportNoPhotos, "no-photos", false, "leave photos out of the report")
	reportCmd.Flags().BoolVar(&reportLandscape, "landscape", false, "landscape pages")
	reportCmd.Flags().BoolVar(&reportNoWatermark, "no-watermark", false, "embed photos without the watermark")
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	opts := report.DefaultOptions()
	opts.IncludePhotos = !reportNoPhotos
	opts.IncludeWatermarks = !reportNoWatermark
	if reportLandscape {
		opts.Orientation = report.Landscape
	}

	rep, err := a.service.GenerateReport(cmd.Context(), args[0], opts)
	if err != nil {
		return err
	}

	path := reportOutput
	if path == "" {
		path = rep.Filename
	}
	if err := os.WriteFile(path, rep.Data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (report %s)\n", path, rep.ID)
	return nil
}
