package cluster

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Korpiaveli/filingsflow-sub000/internal/match"
)

var two = decimal.NewFromInt(2)

// Detector classifies raw disclosure rows into typed clusters. It holds no
// mutable state; detection is a pure computation over its inputs.
type Detector struct {
	registry *match.Registry
	logger   zerolog.Logger
}

// NewDetector constructs a Detector over the given entity registry.
func NewDetector(registry *match.Registry, logger zerolog.Logger) *Detector {
	return &Detector{
		registry: registry,
		logger:   logger.With().Str("component", "detector").Logger(),
	}
}

// DetectClusters runs every detection rule over the supplied rows and returns
// qualifying clusters sorted by significance score descending. Holdings are
// accepted for signature completeness; institutional clustering is reserved.
func (d *Detector) DetectClusters(insider []InsiderTransaction, congress []CongressionalTransaction, holdings []Holding13F, opts Options) []Detected {
	insiderByTicker := groupInsiderByTicker(insider)
	congressByTicker := groupCongressByTicker(congress)

	clusters := make([]Detected, 0)
	clusters = append(clusters, d.detectCompanyInsider(insiderByTicker, opts)...)
	clusters = append(clusters, d.detectCrossCompanyExec(insiderByTicker, opts)...)
	clusters = append(clusters, d.detectCongressional(congressByTicker, opts)...)
	clusters = append(clusters, d.detectMixedInfluential(insiderByTicker, congressByTicker, opts)...)

	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Significance.Score > clusters[j].Significance.Score
	})

	d.logger.Debug().
		Int("insider_rows", len(insider)).
		Int("congressional_rows", len(congress)).
		Int("holdings_rows", len(holdings)).
		Int("clusters", len(clusters)).
		Msg("detection pass complete")

	return clusters
}

func groupInsiderByTicker(rows []InsiderTransaction) map[string][]InsiderTransaction {
	grouped := make(map[string][]InsiderTransaction)
	for _, row := range rows {
		if row.Ticker == "" {
			continue
		}
		grouped[row.Ticker] = append(grouped[row.Ticker], row)
	}
	return grouped
}

func groupCongressByTicker(rows []CongressionalTransaction) map[string][]CongressionalTransaction {
	grouped := make(map[string][]CongressionalTransaction)
	for _, row := range rows {
		if row.Ticker == "" {
			continue
		}
		grouped[row.Ticker] = append(grouped[row.Ticker], row)
	}
	return grouped
}

func sortedTickers[T any](grouped map[string][]T) []string {
	tickers := make([]string, 0, len(grouped))
	for t := range grouped {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}

// detectCompanyInsider emits one cluster per ticker whose officers/directors
// traded together. Rows whose company CIK disagrees with the group's dominant
// CIK are excluded, which guards against mixed-company rows under one ticker.
func (d *Detector) detectCompanyInsider(grouped map[string][]InsiderTransaction, opts Options) []Detected {
	clusters := make([]Detected, 0)
	for _, ticker := range sortedTickers(grouped) {
		rows := grouped[ticker]
		dominant := dominantCIK(rows)

		participants := make([]Participant, 0, len(rows))
		companyName := ""
		for _, row := range rows {
			if !row.IsOfficer && !row.IsDirector {
				continue
			}
			if row.CompanyCIK != dominant {
				continue
			}
			if companyName == "" {
				companyName = row.CompanyName
			}
			participants = append(participants, insiderParticipant(row, row.CompanyName, true))
		}

		if c, ok := d.buildCluster(TypeCompanyInsider, ticker, dominant, companyName, participants, opts); ok {
			clusters = append(clusters, c)
		}
	}
	return clusters
}

// detectCrossCompanyExec finds executives of other known companies trading a
// ticker they are not insiders of.
func (d *Detector) detectCrossCompanyExec(grouped map[string][]InsiderTransaction, opts Options) []Detected {
	clusters := make([]Detected, 0)
	for _, ticker := range sortedTickers(grouped) {
		rows := grouped[ticker]
		ownCIK := dominantCIK(rows)
		if company, ok := d.registry.CompanyForTicker(ticker); ok {
			ownCIK = company.CIK
		}

		participants := make([]Participant, 0)
		companyName := ""
		for _, row := range rows {
			if companyName == "" {
				companyName = row.CompanyName
			}
			known, ok := d.registry.KnownInsider(row.InsiderName)
			if !ok || known.CompanyCIK == "" || known.CompanyCIK == ownCIK {
				continue
			}
			if !isSeniorExecTitle(known.Title) {
				continue
			}
			employer, ok := d.registry.CompanyForCIK(known.CompanyCIK)
			if !ok {
				continue
			}

			p := insiderParticipant(row, employer.Name, false)
			p.Title = known.Title
			if known.CIK != "" {
				p.CIK = known.CIK
			}
			participants = append(participants, p)
		}

		if c, ok := d.buildCluster(TypeCrossCompanyExec, ticker, ownCIK, companyName, participants, opts); ok {
			clusters = append(clusters, c)
		}
	}
	return clusters
}

// detectCongressional clusters distinct members of Congress trading one
// ticker. Participant value is the midpoint of the disclosed amount range
// because legislator filings report ranges, not exact amounts.
func (d *Detector) detectCongressional(grouped map[string][]CongressionalTransaction, opts Options) []Detected {
	clusters := make([]Detected, 0)
	for _, ticker := range sortedTickers(grouped) {
		rows := grouped[ticker]
		participants := make([]Participant, 0, len(rows))
		for _, row := range rows {
			participants = append(participants, congressionalParticipant(row))
		}

		if c, ok := d.buildCluster(TypeCongressional, ticker, "", "", participants, opts); ok {
			clusters = append(clusters, c)
		}
	}
	return clusters
}

// detectMixedInfluential fires only for tickers with both insider and
// congressional activity in the window.
func (d *Detector) detectMixedInfluential(insiderGrouped map[string][]InsiderTransaction, congressGrouped map[string][]CongressionalTransaction, opts Options) []Detected {
	clusters := make([]Detected, 0)
	for _, ticker := range sortedTickers(insiderGrouped) {
		insiderRows := insiderGrouped[ticker]
		congressRows := congressGrouped[ticker]
		if len(insiderRows) == 0 || len(congressRows) == 0 {
			continue
		}

		participants := make([]Participant, 0, len(insiderRows)+len(congressRows))
		companyName := ""
		for _, row := range insiderRows {
			if !row.IsOfficer && !row.IsDirector {
				continue
			}
			if companyName == "" {
				companyName = row.CompanyName
			}
			participants = append(participants, insiderParticipant(row, row.CompanyName, true))
		}
		for _, row := range congressRows {
			participants = append(participants, congressionalParticipant(row))
		}

		if c, ok := d.buildCluster(TypeMixedInfluential, ticker, dominantCIK(insiderRows), companyName, participants, opts); ok {
			clusters = append(clusters, c)
		}
	}
	return clusters
}

// buildCluster applies the shared gating (distinct participants, total value,
// at least one dated transaction) and assembles the emitted value.
func (d *Detector) buildCluster(t Type, ticker, companyCIK, companyName string, participants []Participant, opts Options) (Detected, bool) {
	if DistinctParticipants(participants) < opts.MinParticipants {
		return Detected{}, false
	}

	total := decimal.Zero
	for _, p := range participants {
		total = total.Add(p.Value)
	}
	if total.LessThan(opts.MinValue) {
		return Detected{}, false
	}

	start, end, dated := dateSpan(participants)
	if !dated {
		return Detected{}, false
	}

	direction := aggregateDirection(participants)
	significance := Score(participants, t, direction, total)

	c := Detected{
		ID:               string(t) + "_" + ticker + "_" + uuid.NewString(),
		Type:             t,
		Ticker:           ticker,
		CompanyCIK:       companyCIK,
		CompanyName:      companyName,
		Direction:        direction,
		Participants:     participants,
		ParticipantCount: DistinctParticipants(participants),
		TotalValue:       total,
		StartDate:        start,
		EndDate:          end,
		Significance:     significance,
		Description:      describe(t, ticker, companyName, participants, direction),
		DetectedAt:       time.Now().UTC(),
	}
	return c, true
}

func insiderParticipant(row InsiderTransaction, affiliation string, isCompanyInsider bool) Participant {
	var ptype ParticipantType
	switch {
	case row.IsOfficer:
		ptype = ParticipantCompanyOfficer
	case row.IsDirector:
		ptype = ParticipantCompanyDirector
	case row.IsTenPercent:
		ptype = ParticipantTenPercentOwner
	default:
		ptype = ParticipantUnknown
	}

	return Participant{
		Name:             row.InsiderName,
		CIK:              row.InsiderCIK,
		Title:            row.InsiderTitle,
		Affiliation:      affiliation,
		Type:             ptype,
		Direction:        directionFromCode(row.TransactionCode),
		Value:            row.TotalValue,
		Shares:           row.Shares,
		Date:             row.TransactionDate,
		IsCompanyInsider: isCompanyInsider,
	}
}

func congressionalParticipant(row CongressionalTransaction) Participant {
	title := row.Party
	if row.Party != "" && row.State != "" {
		title = row.Party + "-" + row.State
	}

	return Participant{
		Name:        row.MemberName,
		Title:       title,
		Affiliation: row.Chamber,
		Type:        ParticipantCongressMember,
		Direction:   congressionalDirection(row.TransactionType),
		Value:       row.AmountLow.Add(row.AmountHigh).Div(two),
		Date:        row.TransactionDate,
	}
}

// DistinctParticipants counts unique participant keys.
func DistinctParticipants(participants []Participant) int {
	seen := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		seen[p.Key()] = struct{}{}
	}
	return len(seen)
}

func aggregateDirection(participants []Participant) Direction {
	var buys, sells int
	for _, p := range participants {
		if p.Direction == DirectionBuy {
			buys++
		} else {
			sells++
		}
	}
	switch {
	case buys > 0 && sells > 0:
		return DirectionMixed
	case buys > 0:
		return DirectionBuy
	default:
		return DirectionSell
	}
}

func directionFromCode(code string) Direction {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "P", "A":
		return DirectionBuy
	default:
		return DirectionSell
	}
}

func congressionalDirection(transactionType string) Direction {
	if strings.Contains(strings.ToLower(transactionType), "purchase") {
		return DirectionBuy
	}
	return DirectionSell
}

func dateSpan(participants []Participant) (start, end time.Time, ok bool) {
	for _, p := range participants {
		if p.Date.IsZero() {
			continue
		}
		if !ok || p.Date.Before(start) {
			start = p.Date
		}
		if end.IsZero() || p.Date.After(end) {
			end = p.Date
		}
		ok = true
	}
	return start, end, ok
}

// dominantCIK returns the most frequent company CIK in a ticker group,
// breaking ties by first appearance.
func dominantCIK(rows []InsiderTransaction) string {
	counts := make(map[string]int, len(rows))
	best := ""
	for _, row := range rows {
		counts[row.CompanyCIK]++
		if best == "" || counts[row.CompanyCIK] > counts[best] {
			best = row.CompanyCIK
		}
	}
	return best
}

func isSeniorExecTitle(title string) bool {
	lowered := strings.ToLower(title)
	return strings.Contains(lowered, "ceo") ||
		strings.Contains(lowered, "cfo") ||
		strings.Contains(lowered, "chief")
}
