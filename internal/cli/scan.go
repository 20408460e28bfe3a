package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Korpiaveli/filingsflow-sub000/internal/app"
)

var (
	scanDays            int
	scanMinParticipants int
	scanMinValue        float64
	scanPersist         bool
	scanSample          bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one on-demand detection pass over the trailing day window",
	RunE: func(cmd *cobra.Command, args []string) error {
		if scanDays < 0 || scanMinParticipants < 0 || scanMinValue < 0 {
			return fmt.Errorf("scan thresholds cannot be negative")
		}

		opts := app.ScanOptions{
			Days:            scanDays,
			MinParticipants: scanMinParticipants,
			MinValue:        scanMinValue,
			Persist:         scanPersist,
			Sample:          scanSample,
		}

		return getApp().Scan(cmd.Context(), opts)
	},
}

func init() {
	scanCmd.Flags().IntVar(&scanDays, "days", 0, "Day window to scan (defaults to config)")
	scanCmd.Flags().IntVar(&scanMinParticipants, "min-participants", 0, "Minimum distinct participants (defaults to config)")
	scanCmd.Flags().Float64Var(&scanMinValue, "min-value", 0, "Minimum total cluster value in USD (defaults to config)")
	scanCmd.Flags().BoolVar(&scanPersist, "persist", false, "Persist detected clusters")
	scanCmd.Flags().BoolVar(&scanSample, "sample", false, "Scan bundled sample rows instead of the database feed")
}
