package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Korpiaveli/filingsflow-sub000/internal/app"
)

var showClusterID int64

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display one cluster definition with members and recent actions",
	RunE: func(cmd *cobra.Command, args []string) error {
		if showClusterID <= 0 {
			return fmt.Errorf("--id must be provided")
		}

		return getApp().Show(cmd.Context(), app.ShowOptions{ClusterID: showClusterID})
	},
}

func init() {
	showCmd.Flags().Int64Var(&showClusterID, "id", 0, "Cluster definition ID")
}
