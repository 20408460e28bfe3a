package storage

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Korpiaveli/filingsflow-sub000/internal/cluster"
)

const comparableGap = 30 * 24 * time.Hour

// CorrelationScore measures how consistently a group acts in the same
// direction within a month of each other. Adjacent actions no more than 30
// days apart form a comparable pair; the score is the fraction of comparable
// pairs whose directions match. Recomputed from scratch on every new action.
func CorrelationScore(actions []ClusterAction) float64 {
	if len(actions) < 2 {
		return 0
	}

	ordered := make([]ClusterAction, len(actions))
	copy(ordered, actions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ActionDate.Before(ordered[j].ActionDate)
	})

	comparable, matching := 0, 0
	for i := 1; i < len(ordered); i++ {
		gap := ordered[i].ActionDate.Sub(ordered[i-1].ActionDate)
		if gap > comparableGap {
			continue
		}
		comparable++
		if ordered[i].Direction == ordered[i-1].Direction {
			matching++
		}
	}

	if comparable == 0 {
		return 0
	}
	return float64(matching) / float64(comparable)
}

// AvgEntryPrice is the mean of value/shares across participants, with a
// shares floor of 1 to avoid division by zero. Nil when there are no
// participants.
func AvgEntryPrice(participants []cluster.Participant) *decimal.Decimal {
	if len(participants) == 0 {
		return nil
	}

	sum := decimal.Zero
	for _, p := range participants {
		shares := p.Shares
		if shares < 1 {
			shares = 1
		}
		sum = sum.Add(p.Value.Div(decimal.NewFromInt(shares)))
	}

	avg := sum.Div(decimal.NewFromInt(int64(len(participants))))
	return &avg
}
