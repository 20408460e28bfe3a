package feed

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Korpiaveli/filingsflow-sub000/internal/cluster"
)

// SampleSource serves a small bundled batch of disclosure rows so detection
// can be exercised without a database.
type SampleSource struct{}

// NewSampleSource returns a Source backed by canned rows.
func NewSampleSource() *SampleSource {
	return &SampleSource{}
}

// FetchWindow returns the bundled rows, re-dated relative to until so they
// always fall inside the requested window.
func (s *SampleSource) FetchWindow(ctx context.Context, until time.Time, days int) (Window, error) {
	base := until.UTC().AddDate(0, 0, -1)

	insider := []cluster.InsiderTransaction{
		{
			Ticker: "NVDA", CompanyCIK: "0001045810", CompanyName: "NVIDIA",
			InsiderCIK: "0001214156", InsiderName: "Colette Kress", InsiderTitle: "CFO",
			IsOfficer: true, TransactionCode: "P",
			TransactionDate: base.AddDate(0, 0, -1),
			Shares:          5000, TotalValue: decimal.NewFromInt(600000),
		},
		{
			Ticker: "NVDA", CompanyCIK: "0001045810", CompanyName: "NVIDIA",
			InsiderCIK: "0001045815", InsiderName: "Debora Shoquist", InsiderTitle: "EVP Operations",
			IsOfficer: true, TransactionCode: "P",
			TransactionDate: base.AddDate(0, 0, -2),
			Shares:          3000, TotalValue: decimal.NewFromInt(350000),
		},
		{
			Ticker: "NVDA", CompanyCIK: "0001045810", CompanyName: "NVIDIA",
			InsiderCIK: "0001045820", InsiderName: "Mark Stevens", InsiderTitle: "Director",
			IsDirector: true, TransactionCode: "P",
			TransactionDate: base.AddDate(0, 0, -3),
			Shares:          2000, TotalValue: decimal.NewFromInt(240000),
		},
	}

	congressional := []cluster.CongressionalTransaction{
		{
			Ticker: "NVDA", MemberName: "Jane Sample", Party: "D", Chamber: "House", State: "CA",
			TransactionType: "purchase",
			TransactionDate: base.AddDate(0, 0, -2),
			AmountLow:       decimal.NewFromInt(100001), AmountHigh: decimal.NewFromInt(250000),
		},
		{
			Ticker: "NVDA", MemberName: "John Placeholder", Party: "R", Chamber: "Senate", State: "TX",
			TransactionType: "purchase",
			TransactionDate: base.AddDate(0, 0, -1),
			AmountLow:       decimal.NewFromInt(50001), AmountHigh: decimal.NewFromInt(100000),
		},
	}

	return Window{Insider: insider, Congressional: congressional}, nil
}

var _ Source = (*SampleSource)(nil)
