package app

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/Korpiaveli/filingsflow-sub000/internal/storage"
)

// Export renders a definition's action history as CSV and/or a PNG chart of
// total value per occurrence.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	if opts.MaxActions <= 0 {
		opts.MaxActions = a.Config.Export.MaxActions
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot export")
	}
	defer closeStore()

	actions, err := store.ListActions(ctx, opts.ClusterID, opts.MaxActions)
	if err != nil {
		return err
	}
	if len(actions) == 0 {
		a.Logger.Info().Int64("cluster_id", opts.ClusterID).Msg("no actions found for export")
		return nil
	}

	// ListActions returns newest first; exports read oldest first.
	for i, j := 0, len(actions)-1; i < j; i, j = i+1, j-1 {
		actions[i], actions[j] = actions[j], actions[i]
	}

	a.Logger.Info().Int64("cluster_id", opts.ClusterID).Int("actions", len(actions)).Msg("exporting action history")

	if opts.CSVPath != "" {
		if err := writeActionsCSV(opts.CSVPath, actions); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := writeActionsPNG(opts.PNGPath, actions); err != nil {
			return err
		}
	}

	return nil
}

func writeActionsCSV(path string, actions []storage.ClusterAction) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"action_date", "ticker", "company_name", "direction", "participant_count", "total_value", "avg_entry_price"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, act := range actions {
		avg := ""
		if act.AvgEntryPrice != nil {
			avg = act.AvgEntryPrice.String()
		}
		record := []string{
			act.ActionDate.UTC().Format(time.RFC3339),
			act.Ticker,
			act.CompanyName,
			act.Direction,
			strconv.Itoa(act.ParticipantCount),
			act.TotalValue.String(),
			avg,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func writeActionsPNG(path string, actions []storage.ClusterAction) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	x := make([]time.Time, len(actions))
	totals := make([]float64, len(actions))
	for i, act := range actions {
		x[i] = act.ActionDate
		totals[i] = act.TotalValue.InexactFloat64()
	}

	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: "Total value (USD)",
			ValueFormatter: func(v interface{}) string {
				return chart.FloatValueFormatterWithFormat(v, "%.0f")
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Total value per occurrence",
				XValues: x,
				YValues: totals,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
