package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Korpiaveli/filingsflow-sub000/internal/app"
)

var topLimit int

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "List top cluster definitions by correlation score",
	RunE: func(cmd *cobra.Command, args []string) error {
		if topLimit <= 0 {
			return fmt.Errorf("--limit must be greater than zero")
		}

		return getApp().Top(cmd.Context(), app.TopOptions{Limit: topLimit})
	},
}

func init() {
	topCmd.Flags().IntVar(&topLimit, "limit", 20, "Number of clusters to display")
}
