package storage

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Korpiaveli/filingsflow-sub000/internal/cluster"
)

func actionAt(day int, direction string) ClusterAction {
	return ClusterAction{
		ActionDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day),
		Direction:  direction,
	}
}

func TestCorrelationScoreAllMatching(t *testing.T) {
	actions := []ClusterAction{
		actionAt(0, "buy"),
		actionAt(10, "buy"),
		actionAt(20, "buy"),
	}
	if got := CorrelationScore(actions); got != 1.0 {
		t.Fatalf("consistent buys within 30 days should score 1.0, got %f", got)
	}
}

func TestCorrelationScoreAlternating(t *testing.T) {
	actions := []ClusterAction{
		actionAt(0, "buy"),
		actionAt(10, "sell"),
		actionAt(20, "buy"),
	}
	if got := CorrelationScore(actions); got != 0.0 {
		t.Fatalf("alternating directions should score 0.0, got %f", got)
	}
}

func TestCorrelationScoreIgnoresWideGaps(t *testing.T) {
	actions := []ClusterAction{
		actionAt(0, "buy"),
		actionAt(90, "sell"),
		actionAt(100, "sell"),
	}
	// Only the 90->100 pair is comparable, and it matches.
	if got := CorrelationScore(actions); got != 1.0 {
		t.Fatalf("only close pairs should count, got %f", got)
	}

	sparse := []ClusterAction{
		actionAt(0, "buy"),
		actionAt(90, "buy"),
	}
	if got := CorrelationScore(sparse); got != 0.0 {
		t.Fatalf("no comparable pairs should score 0.0, got %f", got)
	}
}

func TestCorrelationScoreFewActions(t *testing.T) {
	if got := CorrelationScore(nil); got != 0.0 {
		t.Fatalf("no actions should score 0.0, got %f", got)
	}
	if got := CorrelationScore([]ClusterAction{actionAt(0, "buy")}); got != 0.0 {
		t.Fatalf("single action should score 0.0, got %f", got)
	}
}

func TestCorrelationScoreSortsByDate(t *testing.T) {
	actions := []ClusterAction{
		actionAt(20, "buy"),
		actionAt(0, "buy"),
		actionAt(10, "buy"),
	}
	if got := CorrelationScore(actions); got != 1.0 {
		t.Fatalf("unsorted input should be ordered before pairing, got %f", got)
	}
}

func TestAvgEntryPrice(t *testing.T) {
	participants := []cluster.Participant{
		{Value: decimal.NewFromInt(1000), Shares: 10},
		{Value: decimal.NewFromInt(3000), Shares: 10},
	}

	price := AvgEntryPrice(participants)
	if price == nil {
		t.Fatal("expected a price")
	}
	if !price.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected mean of 100 and 300 = 200, got %s", price)
	}
}

func TestAvgEntryPriceSharesFloor(t *testing.T) {
	participants := []cluster.Participant{
		{Value: decimal.NewFromInt(500), Shares: 0},
	}

	price := AvgEntryPrice(participants)
	if price == nil {
		t.Fatal("expected a price")
	}
	if !price.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("zero shares should floor to 1, got %s", price)
	}
}

func TestAvgEntryPriceNoParticipants(t *testing.T) {
	if price := AvgEntryPrice(nil); price != nil {
		t.Fatalf("no participants should yield nil, got %s", price)
	}
}

func TestFoundingMembersFoldRepeats(t *testing.T) {
	participants := []cluster.Participant{
		{Name: "Alice One", CIK: "0001", Value: decimal.NewFromInt(100)},
		{Name: "Alice One", CIK: "0001", Value: decimal.NewFromInt(200)},
		{Name: "Bob Two", CIK: "0002", Value: decimal.NewFromInt(50)},
	}

	members := foundingMembers(participants)
	if len(members) != 2 {
		t.Fatalf("expected 2 distinct members, got %d", len(members))
	}
	if members[0].TransactionCount != 2 || !members[0].TotalValue.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("repeat transactions should accumulate: %+v", members[0])
	}
	if members[1].TransactionCount != 1 || !members[1].TotalValue.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("unexpected second member: %+v", members[1])
	}
}
