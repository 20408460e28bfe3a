package match

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Korpiaveli/filingsflow-sub000/internal/config"
)

func testRegistry() *Registry {
	return NewRegistry(
		[]Company{
			{Ticker: "NVDA", CIK: "0001045810", Name: "NVIDIA Corporation"},
			{Ticker: "AAPL", CIK: "0000320193", Name: "Apple Inc."},
		},
		[]Insider{
			{Name: "Colette Kress", CIK: "0001214156", CompanyCIK: "0001045810", Title: "CFO"},
			{Name: "Timothy Cook", CIK: "0001214128", CompanyCIK: "0000320193", Title: "CEO"},
		},
	)
}

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"NVIDIA Corporation", "nvidia"},
		{"Apple Inc.", "apple"},
		{"The Coca-Cola Company", "coca cola"},
		{"  Multiple   Spaces  LLC ", "multiple spaces"},
		{"Inc. Corp LLC", "inc corp llc"}, // all stopwords: fall back to unfiltered
		{"", ""},
	}

	for _, c := range cases {
		if got := NormalizeName(c.in); got != c.want {
			t.Fatalf("NormalizeName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSimilarity(t *testing.T) {
	if got := Similarity("", ""); got != 1.0 {
		t.Fatalf("empty strings should be identical, got %f", got)
	}
	if got := Similarity("abc", "abc"); got != 1.0 {
		t.Fatalf("equal strings should score 1.0, got %f", got)
	}
	if got := Similarity("abcd", "abce"); got != 0.75 {
		t.Fatalf("one edit over four chars should score 0.75, got %f", got)
	}
	if got := Similarity("abc", ""); got != 0.0 {
		t.Fatalf("no overlap should score 0.0, got %f", got)
	}
}

func TestMatchTickerToCompany(t *testing.T) {
	r := testRegistry()

	unknown := r.MatchTickerToCompany("ZZZZ", "Anything")
	if unknown.IsMatch || unknown.Confidence != 0 {
		t.Fatalf("unknown ticker should not match: %+v", unknown)
	}

	exact := r.MatchTickerToCompany("NVDA", "NVIDIA Corp")
	if !exact.IsMatch || exact.Confidence != 100 {
		t.Fatalf("normalized exact match expected: %+v", exact)
	}

	contained := r.MatchTickerToCompany("AAPL", "Apple Computer")
	if !contained.IsMatch || contained.Confidence != 85 {
		t.Fatalf("containment should match with confidence 85: %+v", contained)
	}

	mismatch := r.MatchTickerToCompany("NVDA", "Completely Different Enterprises")
	if mismatch.IsMatch {
		t.Fatalf("dissimilar names should not match: %+v", mismatch)
	}
	if mismatch.Confidence < 0 || mismatch.Confidence >= 80 {
		t.Fatalf("mismatch confidence should reflect low similarity: %+v", mismatch)
	}
}

func TestValidateInsiderRelationship(t *testing.T) {
	r := testRegistry()

	// Known insider of another company invalidates the row.
	wrong := r.ValidateInsiderRelationship("Timothy Cook", "0001045810", "0001045810", "CEO")
	if wrong.Valid {
		t.Fatalf("insider of a different company should be invalid: %+v", wrong)
	}
	if wrong.Reason == "" {
		t.Fatal("invalid relationship should carry a reason")
	}

	// CIK mismatch flags a likely 10% owner.
	owner := r.ValidateInsiderRelationship("Unknown Person", "0001045810", "0009999999", "")
	if !owner.Valid || !owner.Flagged || owner.Type != RelationshipOwner {
		t.Fatalf("CIK mismatch should flag a 10%% owner: %+v", owner)
	}
	if owner.DisplayTitle != "" {
		t.Fatalf("flagged relationship should have no display title: %+v", owner)
	}

	officer := r.ValidateInsiderRelationship("Colette Kress", "0001045810", "0001045810", "Chief Financial Officer")
	if !officer.Valid || officer.Type != RelationshipOfficer {
		t.Fatalf("CFO title should classify as officer: %+v", officer)
	}

	director := r.ValidateInsiderRelationship("Someone Else", "0001045810", "0001045810", "Independent Director")
	if !director.Valid || director.Type != RelationshipDirector {
		t.Fatalf("director title should classify as director: %+v", director)
	}

	unknownRole := r.ValidateInsiderRelationship("Someone Else", "0001045810", "0001045810", "Advisor")
	if !unknownRole.Valid || unknownRole.Type != RelationshipUnknown {
		t.Fatalf("unmatched title should classify as unknown: %+v", unknownRole)
	}
}

func TestRegistryLookupsDegradeToUnknown(t *testing.T) {
	r := NewRegistry(nil, nil)

	if _, ok := r.CompanyForTicker("NVDA"); ok {
		t.Fatal("empty registry should miss every ticker")
	}
	if _, ok := r.KnownInsiderCompany("Anyone"); ok {
		t.Fatal("empty registry should miss every insider")
	}
	if r.IsInsiderOfCompany("Anyone", "123") {
		t.Fatal("empty registry should never confirm an insider")
	}
}

func TestLoadRegistryMergesFileAndInline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.yaml")
	content := `companies:
  - ticker: msft
    cik: "0000789019"
    name: Microsoft Corporation
insiders:
  - name: Satya Nadella
    cik: "0001513142"
    company_cik: "0000789019"
    title: CEO
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write registry file: %v", err)
	}

	cfg := config.RegistryConfig{
		Path: path,
		Companies: []config.CompanyEntry{
			{Ticker: "NVDA", CIK: "0001045810", Name: "NVIDIA Corporation"},
		},
	}

	r, err := LoadRegistry(cfg)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	if _, ok := r.CompanyForTicker("MSFT"); !ok {
		t.Fatal("file entry should be loaded (case-insensitive ticker)")
	}
	if _, ok := r.CompanyForTicker("nvda"); !ok {
		t.Fatal("inline entry should be loaded")
	}
	if employer, ok := r.KnownInsiderCompany("satya nadella"); !ok || employer.Ticker != "msft" {
		t.Fatalf("insider employer lookup failed: %+v ok=%v", employer, ok)
	}
}
