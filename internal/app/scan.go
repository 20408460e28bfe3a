package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Korpiaveli/filingsflow-sub000/internal/cluster"
	"github.com/Korpiaveli/filingsflow-sub000/internal/feed"
	"github.com/Korpiaveli/filingsflow-sub000/internal/service"
	"github.com/Korpiaveli/filingsflow-sub000/internal/storage"
)

// Scan runs one on-demand detection pass and prints the ranked clusters.
// With Persist set, qualifying clusters are also written through the cluster
// store; with Sample set, bundled rows replace the database feed.
func (a *App) Scan(ctx context.Context, opts ScanOptions) error {
	detector, err := a.newDetector()
	if err != nil {
		return err
	}

	var source feed.Source
	var store *storage.Store

	if opts.Sample {
		source = feed.NewSampleSource()
	} else {
		dbSource, closeSource, err := a.openSource(ctx)
		if err != nil {
			return err
		}
		defer closeSource()
		source = dbSource
	}

	if opts.Persist {
		if opts.Sample {
			return fmt.Errorf("--persist cannot be combined with --sample")
		}
		dbStore, closeStore, err := a.openStore(ctx)
		if err != nil {
			return err
		}
		if dbStore == nil {
			return fmt.Errorf("database not configured; cannot persist scan results")
		}
		defer closeStore()
		store = dbStore
	}

	var clusterStore storage.ClusterStore
	if store != nil {
		clusterStore = store
	}
	svc := service.New(a.Config, nil, source, detector, clusterStore, a.Logger)

	detectionOpts := cluster.Options{
		Days:            a.Config.Detection.Days,
		MinParticipants: a.Config.Detection.MinParticipants,
		MinValue:        decimal.NewFromFloat(a.Config.Detection.MinValue),
	}
	if opts.Days > 0 {
		detectionOpts.Days = opts.Days
	}
	if opts.MinParticipants > 0 {
		detectionOpts.MinParticipants = opts.MinParticipants
	}
	if opts.MinValue > 0 {
		detectionOpts.MinValue = decimal.NewFromFloat(opts.MinValue)
	}

	detected, err := svc.Detect(ctx, time.Now().UTC(), detectionOpts)
	if err != nil {
		return err
	}

	if len(detected) == 0 {
		fmt.Fprintln(os.Stdout, "no clusters found")
		return nil
	}

	printDetected(detected)

	if store != nil {
		persisted := svc.PersistClusters(ctx, detected)
		fmt.Fprintf(os.Stdout, "\npersisted %d of %d clusters\n", persisted, len(detected))
	}

	return nil
}

func printDetected(detected []cluster.Detected) {
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Score\tRisk\tType\tTicker\tParticipants\tDirection\tTotal Value\tDescription")

	for _, c := range detected {
		fmt.Fprintf(
			writer,
			"%d\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			c.Significance.Score,
			c.Significance.RiskLevel,
			c.Type,
			c.Ticker,
			c.ParticipantCount,
			c.Direction,
			c.TotalValue.StringFixed(0),
			c.Description,
		)
	}
	writer.Flush()

	for _, c := range detected {
		if len(c.Significance.Signals) == 0 {
			continue
		}
		fmt.Fprintf(os.Stdout, "%s %s: %s\n", c.Ticker, c.Type, strings.Join(c.Significance.Signals, "; "))
	}
}
