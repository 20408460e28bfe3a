package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Korpiaveli/filingsflow-sub000/internal/app"
)

var (
	exportClusterID  int64
	exportPNGPath    string
	exportCSVPath    string
	exportMaxActions int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a cluster's action history as CSV and/or PNG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportClusterID <= 0 {
			return fmt.Errorf("--id must be provided")
		}

		opts := app.ExportOptions{
			ClusterID:  exportClusterID,
			PNGPath:    exportPNGPath,
			CSVPath:    exportCSVPath,
			MaxActions: exportMaxActions,
		}

		return getApp().Export(cmd.Context(), opts)
	},
}

func init() {
	exportCmd.Flags().Int64Var(&exportClusterID, "id", 0, "Cluster definition ID")
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write PNG chart")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data")
	exportCmd.Flags().IntVar(&exportMaxActions, "max-actions", 0, "Maximum actions to export (defaults to config)")
}
