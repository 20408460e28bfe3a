package cluster

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestScoreComposition(t *testing.T) {
	participants := []Participant{
		{Name: "Alice One", Title: "CEO", Direction: DirectionBuy},
		{Name: "Bob Two", Title: "VP Engineering", Direction: DirectionBuy},
		{Name: "Carol Three", Title: "Director", Direction: DirectionBuy},
	}

	sig := Score(participants, TypeCompanyInsider, DirectionBuy, decimal.NewFromInt(12000000))

	// 3*10 base + 25 CEO + 15 unanimous + 30 $10M+.
	if sig.Score != 100 {
		t.Fatalf("expected score 100, got %d", sig.Score)
	}
	if sig.RiskLevel != RiskCritical {
		t.Fatalf("score 100 should be critical, got %s", sig.RiskLevel)
	}

	joined := strings.Join(sig.Signals, "|")
	for _, want := range []string{"1 CEOs involved", "Unanimous buying", "$10M+ total value"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing signal %q in %v", want, sig.Signals)
		}
	}
}

func TestScoreTypeBonusesStack(t *testing.T) {
	participants := []Participant{
		{Name: "A", Title: "Chief Executive Officer", Direction: DirectionSell},
		{Name: "B", Title: "Chief Financial Officer", Direction: DirectionSell},
	}

	sig := Score(participants, TypeMixedInfluential, DirectionSell, decimal.NewFromInt(2000000))

	// 2*10 base + 25 CEO + 20 CFO + 50 mixed + 15 unanimous + 15 $1M+.
	if sig.Score != 145 {
		t.Fatalf("expected score 145, got %d", sig.Score)
	}
}

func TestScoreMixedDirectionNoBonus(t *testing.T) {
	participants := []Participant{
		{Name: "A", Direction: DirectionBuy},
		{Name: "B", Direction: DirectionSell},
	}

	sig := Score(participants, TypeCompanyInsider, DirectionMixed, decimal.NewFromInt(100))
	if sig.Score != 20 {
		t.Fatalf("mixed direction and small value should leave base only, got %d", sig.Score)
	}
	if sig.RiskLevel != RiskLow {
		t.Fatalf("score 20 should be low, got %s", sig.RiskLevel)
	}
}

func TestRiskBands(t *testing.T) {
	cases := []struct {
		score int
		want  RiskLevel
	}{
		{0, RiskLow},
		{39, RiskLow},
		{40, RiskMedium},
		{69, RiskMedium},
		{70, RiskHigh},
		{99, RiskHigh},
		{100, RiskCritical},
	}

	for _, c := range cases {
		if got := riskLevel(c.score); got != c.want {
			t.Fatalf("riskLevel(%d) = %s, want %s", c.score, got, c.want)
		}
	}
}

func TestDescribeCrossCompanyListsEmployers(t *testing.T) {
	participants := []Participant{
		{Name: "A", Affiliation: "Alpha", Direction: DirectionBuy},
		{Name: "B", Affiliation: "Beta", Direction: DirectionBuy},
		{Name: "C", Affiliation: "Gamma", Direction: DirectionBuy},
		{Name: "D", Affiliation: "Delta", Direction: DirectionBuy},
		{Name: "E", Affiliation: "Epsilon", Direction: DirectionBuy},
	}

	desc := describe(TypeCrossCompanyExec, "ACME", "Acme Industries", participants, DirectionBuy)
	if !strings.Contains(desc, "Alpha, Beta, Gamma") {
		t.Fatalf("should list the first three employers: %q", desc)
	}
	if !strings.Contains(desc, "+2 more") {
		t.Fatalf("should summarize the remainder: %q", desc)
	}
}

func TestDescribeMixedListsParticipantTypes(t *testing.T) {
	participants := []Participant{
		{Name: "A", Type: ParticipantCompanyOfficer, Direction: DirectionBuy},
		{Name: "B", Type: ParticipantCongressMember, Direction: DirectionBuy},
	}

	desc := describe(TypeMixedInfluential, "NVDA", "NVIDIA", participants, DirectionBuy)
	if !strings.Contains(desc, "company officer") || !strings.Contains(desc, "congress member") {
		t.Fatalf("should list distinct participant type labels: %q", desc)
	}
}
