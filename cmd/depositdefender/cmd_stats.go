package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vbonduro/depositdefender/internal/imaging"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print storage usage",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	s, err := a.service.StorageStats(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Properties:  %d\n", s.Properties)
	fmt.Fprintf(out, "Inspections: %d\n", s.Inspections)
	fmt.Fprintf(out, "Photos:      %d\n", s.Photos)
	fmt.Fprintf(out, "Reports:     %d\n", s.Reports)
	fmt.Fprintf(out, "Storage:     %s (%.2f MB)\n", imaging.FormatSize(s.TotalStorageBytes), s.TotalStorageMB)
	return nil
}
