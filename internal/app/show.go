package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
)

// Top prints the highest-correlation active cluster definitions.
func (a *App) Top(ctx context.Context, opts TopOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot list clusters")
	}
	defer closeStore()

	definitions, err := store.TopClusters(ctx, opts.Limit)
	if err != nil {
		return err
	}
	if len(definitions) == 0 {
		fmt.Fprintln(os.Stdout, "no clusters found")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tName\tType\tCorrelation\tOccurrences\tLast Activity")
	for _, def := range definitions {
		fmt.Fprintf(
			writer,
			"%d\t%s\t%s\t%.2f\t%d\t%s\n",
			def.ID,
			def.Name,
			def.Type,
			def.CorrelationScore,
			def.TotalOccurrences,
			def.LastActivityAt.UTC().Format(time.RFC3339),
		)
	}
	return writer.Flush()
}

// Show prints one definition with its members and recent actions.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot show cluster")
	}
	defer closeStore()

	details, err := store.ClusterWithDetails(ctx, opts.ClusterID)
	if err != nil {
		return err
	}

	def := details.Definition
	fmt.Fprintf(os.Stdout, "%s (#%d, %s)\n", def.Name, def.ID, def.Type)
	fmt.Fprintf(os.Stdout, "%s\n", def.Description)
	fmt.Fprintf(os.Stdout, "fingerprint: %s\n", def.MemberFingerprint)
	fmt.Fprintf(os.Stdout, "correlation: %.2f over %d occurrences, first seen %s\n\n",
		def.CorrelationScore, def.TotalOccurrences, def.FirstDetectedAt.UTC().Format("2006-01-02"))

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Member\tType\tAffiliation\tTransactions\tTotal Value")
	for _, m := range details.Members {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%d\t%s\n",
			m.ParticipantName, m.ParticipantType, m.Affiliation, m.TransactionCount, m.TotalValue.StringFixed(0))
	}
	writer.Flush()

	fmt.Fprintln(os.Stdout)
	writer = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Action Date\tTicker\tDirection\tParticipants\tTotal Value\tAvg Entry")
	for _, act := range details.RecentActions {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%d\t%s\t%s\n",
			act.ActionDate.UTC().Format("2006-01-02"),
			act.Ticker,
			act.Direction,
			act.ParticipantCount,
			act.TotalValue.StringFixed(0),
			formatOptionalDecimal(act.AvgEntryPrice, 2),
		)
	}
	return writer.Flush()
}

func formatOptionalDecimal(d *decimal.Decimal, places int32) string {
	if d == nil {
		return "-"
	}
	return d.StringFixed(places)
}
