package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClusterDefinition is the durable, deduplicated identity of a participant
// set. One row per unique member fingerprint.
type ClusterDefinition struct {
	ID                int64
	Name              string
	Description       string
	Type              string
	MemberFingerprint string
	FirstDetectedAt   time.Time
	LastActivityAt    time.Time
	CorrelationScore  float64
	TotalOccurrences  int
	AvgReturn30D      *float64
	AvgReturn90D      *float64
	WinRate           *float64
	IsActive          bool
}

// ClusterMember is one distinct participant recorded at cluster creation.
// Accumulators reflect the founding occurrence only.
type ClusterMember struct {
	ID               int64
	ClusterID        int64
	ParticipantCIK   string
	ParticipantName  string
	ParticipantType  string
	Affiliation      string
	TransactionCount int
	TotalValue       decimal.Decimal
}

// ClusterAction is one detection occurrence of a definition. Append-only.
type ClusterAction struct {
	ID               int64
	ClusterID        int64
	Ticker           string
	CompanyName      string
	Direction        string
	ActionDate       time.Time
	ParticipantCount int
	TotalValue       decimal.Decimal
	AvgEntryPrice    *decimal.Decimal
}

// ClusterTransaction is one participant's individual trade within an action.
type ClusterTransaction struct {
	ID              int64
	ClusterActionID int64
	ParticipantCIK  string
	ParticipantName string
	TransactionType string
	Value           decimal.Decimal
	Shares          int64
	TransactionDate time.Time
}

// ClusterDetails bundles a definition with its members and recent actions for
// the detail read path.
type ClusterDetails struct {
	Definition    ClusterDefinition
	Members       []ClusterMember
	RecentActions []ClusterAction
}
