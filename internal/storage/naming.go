package storage

import (
	"fmt"
	"strings"

	"github.com/Korpiaveli/filingsflow-sub000/internal/cluster"
)

// DefinitionName synthesises the human-readable name for a newly created
// cluster definition from the detection's type and participants.
func DefinitionName(c cluster.Detected) string {
	switch c.Type {
	case cluster.TypeCompanyInsider:
		affiliation := firstAffiliation(c.Participants)
		if affiliation == "" {
			affiliation = c.Ticker
		}
		return affiliation + " Leadership"
	case cluster.TypeCrossCompanyExec:
		return crossCompanyName(c.Participants)
	case cluster.TypeCongressional:
		return congressionalName(c.Participants)
	case cluster.TypeMixedInfluential:
		return c.Ticker + " Influential Group"
	default:
		return c.Ticker + " Cluster"
	}
}

func firstAffiliation(participants []cluster.Participant) string {
	for _, p := range participants {
		if p.Affiliation != "" {
			return p.Affiliation
		}
	}
	return ""
}

func crossCompanyName(participants []cluster.Participant) string {
	seen := make(map[string]struct{})
	employers := make([]string, 0)
	for _, p := range participants {
		if p.Affiliation == "" {
			continue
		}
		if _, dup := seen[p.Affiliation]; dup {
			continue
		}
		seen[p.Affiliation] = struct{}{}
		employers = append(employers, p.Affiliation)
	}

	switch len(employers) {
	case 0:
		return "Executive Group"
	case 1:
		return employers[0] + " Executives"
	case 2:
		return fmt.Sprintf("%s & %s Executives", employers[0], employers[1])
	default:
		return fmt.Sprintf("%d-Company Executive Group", len(employers))
	}
}

// congressionalName infers party composition from the D-/R- prefix carried in
// participant titles.
func congressionalName(participants []cluster.Participant) string {
	allDem, allRep := true, true
	for _, p := range participants {
		title := strings.ToUpper(p.Title)
		if !strings.HasPrefix(title, "D-") && title != "D" {
			allDem = false
		}
		if !strings.HasPrefix(title, "R-") && title != "R" {
			allRep = false
		}
	}

	switch {
	case len(participants) > 0 && allDem:
		return "Democratic Congressional Bloc"
	case len(participants) > 0 && allRep:
		return "Republican Congressional Bloc"
	default:
		return "Bipartisan Congressional Group"
	}
}
