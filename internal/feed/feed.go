// Package feed supplies the raw disclosure rows the detector consumes. Rows
// are written by the external ingestion pipeline; this package only reads.
package feed

import (
	"context"
	"time"

	"github.com/Korpiaveli/filingsflow-sub000/internal/cluster"
)

// Window bundles the three disclosure feeds for one day window.
type Window struct {
	Insider       []cluster.InsiderTransaction
	Congressional []cluster.CongressionalTransaction
	Holdings      []cluster.Holding13F
}

// Source fetches disclosure rows for the day window ending at until.
type Source interface {
	FetchWindow(ctx context.Context, until time.Time, days int) (Window, error)
}
