package feed

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Korpiaveli/filingsflow-sub000/internal/cluster"
)

const (
	listInsiderRowsSQL = `SELECT
        ticker, company_cik, company_name,
        insider_cik, insider_name, insider_title,
        is_officer, is_director, is_ten_percent_owner,
        transaction_code, transaction_date, shares, total_value
    FROM insider_transactions
    WHERE transaction_date >= $1
      AND transaction_date < $2
    ORDER BY transaction_date;`

	listCongressRowsSQL = `SELECT
        ticker, member_name, party, chamber, state,
        transaction_type, transaction_date, amount_low, amount_high
    FROM congressional_transactions
    WHERE transaction_date >= $1
      AND transaction_date < $2
    ORDER BY transaction_date;`

	listHoldingRowsSQL = `SELECT
        ticker, fund_cik, fund_name, shares, value, report_date
    FROM institutional_holdings
    WHERE report_date >= $1
      AND report_date < $2
    ORDER BY report_date;`
)

// PostgresSource reads disclosure rows from the relational store populated by
// the ingestion pipeline.
type PostgresSource struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresSource wires a pgx pool into a Source.
func NewPostgresSource(pool *pgxpool.Pool, logger zerolog.Logger) *PostgresSource {
	return &PostgresSource{
		pool:   pool,
		logger: logger.With().Str("component", "feed").Logger(),
	}
}

// FetchWindow loads all three feeds for the trailing day window ending at
// until (exclusive).
func (s *PostgresSource) FetchWindow(ctx context.Context, until time.Time, days int) (Window, error) {
	if days <= 0 {
		return Window{}, fmt.Errorf("window days must be positive")
	}

	to := until.UTC()
	from := to.AddDate(0, 0, -days)

	insider, err := s.fetchInsider(ctx, from, to)
	if err != nil {
		return Window{}, err
	}
	congressional, err := s.fetchCongressional(ctx, from, to)
	if err != nil {
		return Window{}, err
	}
	holdings, err := s.fetchHoldings(ctx, from, to)
	if err != nil {
		return Window{}, err
	}

	s.logger.Debug().
		Time("from", from).
		Time("to", to).
		Int("insider_rows", len(insider)).
		Int("congressional_rows", len(congressional)).
		Int("holdings_rows", len(holdings)).
		Msg("window fetched")

	return Window{Insider: insider, Congressional: congressional, Holdings: holdings}, nil
}

func (s *PostgresSource) fetchInsider(ctx context.Context, from, to time.Time) ([]cluster.InsiderTransaction, error) {
	rows, err := s.pool.Query(ctx, listInsiderRowsSQL, from, to)
	if err != nil {
		return nil, fmt.Errorf("list insider transactions: %w", err)
	}
	defer rows.Close()

	result := make([]cluster.InsiderTransaction, 0)
	for rows.Next() {
		txn, scanErr := scanInsiderRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		result = append(result, txn)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return result, nil
}

func (s *PostgresSource) fetchCongressional(ctx context.Context, from, to time.Time) ([]cluster.CongressionalTransaction, error) {
	rows, err := s.pool.Query(ctx, listCongressRowsSQL, from, to)
	if err != nil {
		return nil, fmt.Errorf("list congressional transactions: %w", err)
	}
	defer rows.Close()

	result := make([]cluster.CongressionalTransaction, 0)
	for rows.Next() {
		var txn cluster.CongressionalTransaction
		var date sql.NullTime
		var lowStr, highStr string
		if err := rows.Scan(
			&txn.Ticker,
			&txn.MemberName,
			&txn.Party,
			&txn.Chamber,
			&txn.State,
			&txn.TransactionType,
			&date,
			&lowStr,
			&highStr,
		); err != nil {
			return nil, err
		}
		if date.Valid {
			txn.TransactionDate = date.Time
		}

		low, convErr := decimal.NewFromString(lowStr)
		if convErr != nil {
			return nil, fmt.Errorf("parse amount low: %w", convErr)
		}
		high, convErr := decimal.NewFromString(highStr)
		if convErr != nil {
			return nil, fmt.Errorf("parse amount high: %w", convErr)
		}
		txn.AmountLow, txn.AmountHigh = low, high

		result = append(result, txn)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return result, nil
}

func (s *PostgresSource) fetchHoldings(ctx context.Context, from, to time.Time) ([]cluster.Holding13F, error) {
	rows, err := s.pool.Query(ctx, listHoldingRowsSQL, from, to)
	if err != nil {
		return nil, fmt.Errorf("list institutional holdings: %w", err)
	}
	defer rows.Close()

	result := make([]cluster.Holding13F, 0)
	for rows.Next() {
		var h cluster.Holding13F
		var valueStr string
		if err := rows.Scan(
			&h.Ticker,
			&h.FundCIK,
			&h.FundName,
			&h.Shares,
			&valueStr,
			&h.ReportDate,
		); err != nil {
			return nil, err
		}
		value, convErr := decimal.NewFromString(valueStr)
		if convErr != nil {
			return nil, fmt.Errorf("parse holding value: %w", convErr)
		}
		h.Value = value
		result = append(result, h)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return result, nil
}

func scanInsiderRow(rows pgx.Rows) (cluster.InsiderTransaction, error) {
	var txn cluster.InsiderTransaction
	var date sql.NullTime
	var valueStr string
	if err := rows.Scan(
		&txn.Ticker,
		&txn.CompanyCIK,
		&txn.CompanyName,
		&txn.InsiderCIK,
		&txn.InsiderName,
		&txn.InsiderTitle,
		&txn.IsOfficer,
		&txn.IsDirector,
		&txn.IsTenPercent,
		&txn.TransactionCode,
		&date,
		&txn.Shares,
		&valueStr,
	); err != nil {
		return cluster.InsiderTransaction{}, err
	}
	if date.Valid {
		txn.TransactionDate = date.Time
	}

	value, convErr := decimal.NewFromString(valueStr)
	if convErr != nil {
		return cluster.InsiderTransaction{}, fmt.Errorf("parse transaction value: %w", convErr)
	}
	txn.TotalValue = value

	return txn, nil
}

var _ Source = (*PostgresSource)(nil)
