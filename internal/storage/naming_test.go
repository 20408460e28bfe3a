package storage

import (
	"testing"

	"github.com/Korpiaveli/filingsflow-sub000/internal/cluster"
)

func TestDefinitionNameCompanyInsider(t *testing.T) {
	c := cluster.Detected{
		Type:   cluster.TypeCompanyInsider,
		Ticker: "NVDA",
		Participants: []cluster.Participant{
			{Name: "Alice One", Affiliation: "NVIDIA"},
		},
	}

	if got := DefinitionName(c); got != "NVIDIA Leadership" {
		t.Fatalf("expected 'NVIDIA Leadership', got %q", got)
	}
}

func TestDefinitionNameCrossCompany(t *testing.T) {
	two := cluster.Detected{
		Type: cluster.TypeCrossCompanyExec,
		Participants: []cluster.Participant{
			{Name: "A", Affiliation: "Alpha"},
			{Name: "B", Affiliation: "Beta"},
		},
	}
	if got := DefinitionName(two); got != "Alpha & Beta Executives" {
		t.Fatalf("expected 'Alpha & Beta Executives', got %q", got)
	}

	three := cluster.Detected{
		Type: cluster.TypeCrossCompanyExec,
		Participants: []cluster.Participant{
			{Name: "A", Affiliation: "Alpha"},
			{Name: "B", Affiliation: "Beta"},
			{Name: "C", Affiliation: "Gamma"},
		},
	}
	if got := DefinitionName(three); got != "3-Company Executive Group" {
		t.Fatalf("expected '3-Company Executive Group', got %q", got)
	}
}

func TestDefinitionNameCongressional(t *testing.T) {
	dems := cluster.Detected{
		Type: cluster.TypeCongressional,
		Participants: []cluster.Participant{
			{Name: "A", Title: "D-CA"},
			{Name: "B", Title: "D-NY"},
		},
	}
	if got := DefinitionName(dems); got != "Democratic Congressional Bloc" {
		t.Fatalf("expected Democratic bloc, got %q", got)
	}

	reps := cluster.Detected{
		Type: cluster.TypeCongressional,
		Participants: []cluster.Participant{
			{Name: "A", Title: "R-TX"},
		},
	}
	if got := DefinitionName(reps); got != "Republican Congressional Bloc" {
		t.Fatalf("expected Republican bloc, got %q", got)
	}

	split := cluster.Detected{
		Type: cluster.TypeCongressional,
		Participants: []cluster.Participant{
			{Name: "A", Title: "D-CA"},
			{Name: "B", Title: "R-TX"},
		},
	}
	if got := DefinitionName(split); got != "Bipartisan Congressional Group" {
		t.Fatalf("expected bipartisan group, got %q", got)
	}
}
