package cluster

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	tenMillion = decimal.NewFromInt(10_000_000)
	oneMillion = decimal.NewFromInt(1_000_000)
)

// Score computes the additive significance of a participant set. Every factor
// stacks; a cluster can collect the CEO, type, direction, and value bonuses
// simultaneously.
func Score(participants []Participant, t Type, direction Direction, totalValue decimal.Decimal) Significance {
	score := len(participants) * 10
	signals := make([]string, 0, 4)

	ceos, cfos := 0, 0
	for _, p := range participants {
		lowered := strings.ToLower(p.Title)
		if strings.Contains(lowered, "ceo") || strings.Contains(lowered, "chief executive") {
			ceos++
		}
		if strings.Contains(lowered, "cfo") || strings.Contains(lowered, "chief financial") {
			cfos++
		}
	}
	if ceos > 0 {
		score += ceos * 25
		signals = append(signals, fmt.Sprintf("%d CEOs involved", ceos))
	}
	if cfos > 0 {
		score += cfos * 20
		signals = append(signals, fmt.Sprintf("%d CFOs involved", cfos))
	}

	switch t {
	case TypeCongressional:
		score += 30
		signals = append(signals, "Congressional activity")
	case TypeCrossCompanyExec:
		score += 40
		signals = append(signals, "Cross-company executive interest")
	case TypeMixedInfluential:
		score += 50
		signals = append(signals, "Mixed influential participants")
	}

	switch direction {
	case DirectionBuy:
		score += 15
		signals = append(signals, "Unanimous buying")
	case DirectionSell:
		score += 15
		signals = append(signals, "Unanimous selling")
	}

	switch {
	case totalValue.GreaterThan(tenMillion):
		score += 30
		signals = append(signals, "$10M+ total value")
	case totalValue.GreaterThan(oneMillion):
		score += 15
		signals = append(signals, "$1M+ total value")
	}

	return Significance{Score: score, Signals: signals, RiskLevel: riskLevel(score)}
}

func riskLevel(score int) RiskLevel {
	switch {
	case score >= 100:
		return RiskCritical
	case score >= 70:
		return RiskHigh
	case score >= 40:
		return RiskMedium
	default:
		return RiskLow
	}
}

func directionWord(d Direction) string {
	switch d {
	case DirectionBuy:
		return "buying"
	case DirectionSell:
		return "selling"
	default:
		return "trading"
	}
}

var participantLabels = map[ParticipantType]string{
	ParticipantCompanyOfficer:  "company officer",
	ParticipantCompanyDirector: "company director",
	ParticipantTenPercentOwner: "10% owner",
	ParticipantCongressMember:  "congress member",
	ParticipantInstitution:     "institution",
	ParticipantUnknown:         "unknown",
}

// describe renders the natural-language summary shown alongside a cluster.
func describe(t Type, ticker, companyName string, participants []Participant, direction Direction) string {
	n := DistinctParticipants(participants)
	subject := companyName
	if subject == "" {
		subject = ticker
	}

	switch t {
	case TypeCompanyInsider:
		return fmt.Sprintf("%d %s insiders %s shares", n, subject, directionWord(direction))
	case TypeCrossCompanyExec:
		return fmt.Sprintf("%d executives from %s %s %s shares",
			n, summarizeAffiliations(participants, 3), directionWord(direction), ticker)
	case TypeCongressional:
		return fmt.Sprintf("%d members of Congress %s %s shares", n, directionWord(direction), ticker)
	case TypeMixedInfluential:
		return fmt.Sprintf("%d influential parties (%s) %s %s shares",
			n, strings.Join(participantTypeLabels(participants), ", "), directionWord(direction), ticker)
	default:
		return fmt.Sprintf("%d participants %s %s shares", n, directionWord(direction), ticker)
	}
}

// summarizeAffiliations lists up to limit distinct employers, then "+K more".
func summarizeAffiliations(participants []Participant, limit int) string {
	seen := make(map[string]struct{})
	distinct := make([]string, 0)
	for _, p := range participants {
		if p.Affiliation == "" {
			continue
		}
		if _, dup := seen[p.Affiliation]; dup {
			continue
		}
		seen[p.Affiliation] = struct{}{}
		distinct = append(distinct, p.Affiliation)
	}

	if len(distinct) <= limit {
		return strings.Join(distinct, ", ")
	}
	return fmt.Sprintf("%s +%d more", strings.Join(distinct[:limit], ", "), len(distinct)-limit)
}

func participantTypeLabels(participants []Participant) []string {
	seen := make(map[string]struct{})
	labels := make([]string, 0)
	for _, p := range participants {
		label := participantLabels[p.Type]
		if label == "" {
			label = string(p.Type)
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
