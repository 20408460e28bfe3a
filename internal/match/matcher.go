package match

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9 ]+`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
)

// Legal suffixes and articles stripped during name normalization.
var nameStopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {},
	"inc": {}, "incorporated": {}, "corp": {}, "corporation": {},
	"llc": {}, "ltd": {}, "limited": {}, "co": {}, "company": {},
	"holdings": {}, "group": {}, "plc": {},
}

// NormalizeName lowercases, strips punctuation, collapses whitespace, and
// removes stopwords. If stopword removal would leave nothing, the unfiltered
// normalized string is returned so an identity never normalizes to empty.
func NormalizeName(name string) string {
	lowered := strings.ToLower(name)
	cleaned := nonAlphanumeric.ReplaceAllString(lowered, " ")
	cleaned = strings.TrimSpace(whitespaceRuns.ReplaceAllString(cleaned, " "))

	words := strings.Fields(cleaned)
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if _, stop := nameStopwords[w]; !stop {
			kept = append(kept, w)
		}
	}
	if len(kept) == 0 {
		return cleaned
	}
	return strings.Join(kept, " ")
}

// TickerMatch is the outcome of matching a ticker against a company name.
type TickerMatch struct {
	IsMatch    bool
	Confidence int
	Reason     string
}

// MatchTickerToCompany compares a disclosed company name against the
// registry's canonical name for the ticker.
func (r *Registry) MatchTickerToCompany(ticker, companyName string) TickerMatch {
	company, ok := r.CompanyForTicker(ticker)
	if !ok {
		return TickerMatch{Confidence: 0, Reason: fmt.Sprintf("ticker %s not in registry", ticker)}
	}

	canonical := NormalizeName(company.Name)
	candidate := NormalizeName(companyName)

	if canonical == candidate {
		return TickerMatch{IsMatch: true, Confidence: 100, Reason: "exact name match"}
	}

	similarity := Similarity(canonical, candidate)
	if similarity >= 0.8 {
		return TickerMatch{IsMatch: true, Confidence: int(similarity * 100), Reason: "high name similarity"}
	}

	if strings.Contains(canonical, candidate) || strings.Contains(candidate, canonical) {
		return TickerMatch{IsMatch: true, Confidence: 85, Reason: "name containment"}
	}

	return TickerMatch{Confidence: int(similarity * 100), Reason: "name mismatch"}
}

// Similarity is a normalized edit-distance similarity in [0, 1]. Two empty
// strings are considered identical.
func Similarity(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(a, b))/float64(longest)
}

func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// RelationshipType classifies an insider's role at a company.
type RelationshipType string

const (
	RelationshipOfficer  RelationshipType = "officer"
	RelationshipDirector RelationshipType = "director"
	RelationshipOwner    RelationshipType = "ten_percent_owner"
	RelationshipUnknown  RelationshipType = "unknown"
)

var officerKeywords = []string{
	"ceo", "cfo", "coo", "cto", "chief", "president",
	"vice president", "vp", "officer",
}

// Relationship describes the validated link between an insider and the
// company whose transactions are under examination.
type Relationship struct {
	Valid        bool
	Flagged      bool
	Type         RelationshipType
	DisplayTitle string
	Reason       string
}

// ValidateInsiderRelationship checks that an insider plausibly belongs to the
// company being examined. A known insider of a different company invalidates
// the row; a CIK mismatch on an otherwise unknown insider is flagged as a
// likely 10%-owner relationship.
func (r *Registry) ValidateInsiderRelationship(insiderName, companyCIK, transactionCompanyCIK, insiderTitle string) Relationship {
	if known, ok := r.KnownInsider(insiderName); ok && known.CompanyCIK != "" && known.CompanyCIK != transactionCompanyCIK {
		employer := known.CompanyCIK
		if c, found := r.CompanyForCIK(known.CompanyCIK); found {
			employer = c.Name
		}
		return Relationship{
			Type:   RelationshipUnknown,
			Reason: fmt.Sprintf("%s is a known insider of %s", insiderName, employer),
		}
	}

	if transactionCompanyCIK != companyCIK {
		return Relationship{
			Valid:   true,
			Flagged: true,
			Type:    RelationshipOwner,
			Reason:  "transaction company differs from examined company; likely 10% owner",
		}
	}

	return Relationship{
		Valid:        true,
		Type:         ClassifyTitle(insiderTitle),
		DisplayTitle: insiderTitle,
	}
}

// ClassifyTitle buckets an insider title into officer/director/unknown.
func ClassifyTitle(title string) RelationshipType {
	lowered := strings.ToLower(title)
	for _, kw := range officerKeywords {
		if strings.Contains(lowered, kw) {
			return RelationshipOfficer
		}
	}
	if strings.Contains(lowered, "director") {
		return RelationshipDirector
	}
	return RelationshipUnknown
}
