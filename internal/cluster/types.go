// Package cluster classifies batches of disclosure transactions into typed
// clusters of distinct actors trading the same security in the same window.
package cluster

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Korpiaveli/filingsflow-sub000/internal/match"
)

// Type tags the detection rule that produced a cluster.
type Type string

const (
	TypeCompanyInsider   Type = "company_insider"
	TypeCrossCompanyExec Type = "cross_company_exec"
	TypeCongressional    Type = "congressional"
	// TypeInstitutional is reserved; no detection rule emits it yet.
	TypeInstitutional    Type = "institutional"
	TypeMixedInfluential Type = "mixed_influential"
)

// Direction is the aggregate trade direction of a cluster or participant.
type Direction string

const (
	DirectionBuy   Direction = "buy"
	DirectionSell  Direction = "sell"
	DirectionMixed Direction = "mixed"
)

// RiskLevel is the qualitative band derived from a significance score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// ParticipantType tags how an actor relates to the traded security.
type ParticipantType string

const (
	ParticipantCompanyOfficer  ParticipantType = "company_officer"
	ParticipantCompanyDirector ParticipantType = "company_director"
	ParticipantTenPercentOwner ParticipantType = "ten_percent_owner"
	ParticipantCongressMember  ParticipantType = "congress_member"
	ParticipantInstitution     ParticipantType = "institution"
	ParticipantUnknown         ParticipantType = "unknown"
)

// InsiderTransaction is one corporate-insider disclosure row (Form 4 shape).
// Rows are produced by the external ingestion pipeline and read-only here.
type InsiderTransaction struct {
	Ticker          string
	CompanyCIK      string
	CompanyName     string
	InsiderCIK      string
	InsiderName     string
	InsiderTitle    string
	IsOfficer       bool
	IsDirector      bool
	IsTenPercent    bool
	TransactionCode string
	TransactionDate time.Time
	Shares          int64
	TotalValue      decimal.Decimal
}

// CongressionalTransaction is one legislator trade disclosure row. Values are
// disclosed as a range, not an exact amount.
type CongressionalTransaction struct {
	Ticker          string
	MemberName      string
	Party           string
	Chamber         string
	State           string
	TransactionType string
	TransactionDate time.Time
	AmountLow       decimal.Decimal
	AmountHigh      decimal.Decimal
}

// Holding13F is one institutional holding row from a 13F report. Accepted by
// the detector for signature completeness; no rule consumes it yet.
type Holding13F struct {
	Ticker     string
	FundCIK    string
	FundName   string
	Shares     int64
	Value      decimal.Decimal
	ReportDate time.Time
}

// Participant is one normalized actor-in-a-transaction inside a cluster.
type Participant struct {
	Name             string
	CIK              string
	Title            string
	Affiliation      string
	Type             ParticipantType
	Direction        Direction
	Value            decimal.Decimal
	Shares           int64
	Date             time.Time
	IsCompanyInsider bool
}

// Key is the participant's stable identity surrogate: the external identifier
// (CIK, member key) when present, otherwise the normalized display name.
// Distinct-participant counting and the persistence fingerprint both use it.
func (p Participant) Key() string {
	if p.CIK != "" {
		return p.CIK
	}
	return match.NormalizeName(p.Name)
}

// Significance carries the score, its justifying signals, and the risk band.
type Significance struct {
	Score     int
	Signals   []string
	RiskLevel RiskLevel
}

// Detected is the unit of detector output. Created fresh each run and never
// mutated; ID is a run-scoped UUID and is not stable across runs. Only the
// persistence fingerprint identifies a cluster durably.
type Detected struct {
	ID               string
	Type             Type
	Ticker           string
	CompanyCIK       string
	CompanyName      string
	Direction        Direction
	Participants     []Participant
	ParticipantCount int
	TotalValue       decimal.Decimal
	StartDate        time.Time
	EndDate          time.Time
	Significance     Significance
	Description      string
	DetectedAt       time.Time
}

// Options are the caller-supplied detection thresholds.
type Options struct {
	Days            int
	MinParticipants int
	MinValue        decimal.Decimal
}
