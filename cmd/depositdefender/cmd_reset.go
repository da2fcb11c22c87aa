package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetConfirmed bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every property, inspection, photo and report",
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetConfirmed, "yes", false, "confirm that all data should be deleted")
}

func runReset(cmd *cobra.Command, _ []string) error {
	if !resetConfirmed {
		return errors.New("refusing to delete all data without --yes")
	}
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.service.ClearAllData(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "All data deleted.")
	return nil
}
