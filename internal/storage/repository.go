package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Korpiaveli/filingsflow-sub000/internal/cluster"
)

const (
	selectDefinitionIDSQL = `SELECT id FROM cluster_definitions WHERE member_fingerprint = $1;`

	insertDefinitionSQL = `INSERT INTO cluster_definitions (
        name,
        description,
        type,
        member_fingerprint,
        first_detected_at,
        last_activity_at,
        correlation_score,
        total_occurrences,
        is_active
    ) VALUES (
        $1,$2,$3,$4,$5,$5,0,1,TRUE
    )
    ON CONFLICT (member_fingerprint) DO NOTHING
    RETURNING id;`

	touchDefinitionSQL = `UPDATE cluster_definitions
    SET total_occurrences = total_occurrences + 1,
        last_activity_at  = $2
    WHERE id = $1;`

	insertMemberSQL = `INSERT INTO cluster_members (
        cluster_id,
        participant_cik,
        participant_name,
        participant_type,
        affiliation,
        transaction_count,
        total_value
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7
    );`

	insertActionSQL = `INSERT INTO cluster_actions (
        cluster_id,
        ticker,
        company_name,
        direction,
        action_date,
        participant_count,
        total_value,
        avg_entry_price
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8
    )
    RETURNING id;`

	insertTransactionSQL = `INSERT INTO cluster_transactions (
        cluster_action_id,
        participant_cik,
        participant_name,
        transaction_type,
        value,
        shares,
        transaction_date
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7
    );`

	listActionsByClusterSQL = `SELECT
        id, cluster_id, ticker, company_name, direction,
        action_date, participant_count, total_value, avg_entry_price
    FROM cluster_actions
    WHERE cluster_id = $1
    ORDER BY action_date;`

	listRecentActionsSQL = `SELECT
        id, cluster_id, ticker, company_name, direction,
        action_date, participant_count, total_value, avg_entry_price
    FROM cluster_actions
    WHERE cluster_id = $1
    ORDER BY action_date DESC
    LIMIT $2;`

	updateCorrelationSQL = `UPDATE cluster_definitions
    SET correlation_score = $2
    WHERE id = $1;`

	selectTopClustersSQL = `SELECT
        id, name, description, type, member_fingerprint,
        first_detected_at, last_activity_at, correlation_score,
        total_occurrences, avg_return_30d, avg_return_90d, win_rate, is_active
    FROM cluster_definitions
    WHERE is_active
    ORDER BY correlation_score DESC, total_occurrences DESC
    LIMIT $1;`

	selectDefinitionSQL = `SELECT
        id, name, description, type, member_fingerprint,
        first_detected_at, last_activity_at, correlation_score,
        total_occurrences, avg_return_30d, avg_return_90d, win_rate, is_active
    FROM cluster_definitions
    WHERE id = $1;`

	listMembersSQL = `SELECT
        id, cluster_id, participant_cik, participant_name,
        participant_type, affiliation, transaction_count, total_value
    FROM cluster_members
    WHERE cluster_id = $1
    ORDER BY total_value DESC;`

	tryAdvisoryLockSQL = `SELECT pg_try_advisory_lock($1);`
	advisoryUnlockSQL  = `SELECT pg_advisory_unlock($1);`
)

// FindOrCreateCluster resolves a detection to its durable definition by
// member fingerprint. An existing definition has its occurrence count and
// activity timestamp bumped; a new one is inserted together with its member
// rows. The unique fingerprint constraint makes concurrent runs converge on
// one row.
func (s *Store) FindOrCreateCluster(ctx context.Context, c cluster.Detected) (int64, bool, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, false, err
	}

	fingerprint := Fingerprint(c.Participants)
	now := time.Now().UTC()

	var id int64
	scanErr := pool.QueryRow(ctx, selectDefinitionIDSQL, fingerprint).Scan(&id)
	if scanErr == nil {
		if _, execErr := pool.Exec(ctx, touchDefinitionSQL, id, now); execErr != nil {
			return 0, false, fmt.Errorf("touch cluster definition: %w", execErr)
		}
		return id, false, nil
	}
	if !errors.Is(scanErr, pgx.ErrNoRows) {
		return 0, false, fmt.Errorf("find cluster definition: %w", scanErr)
	}

	insertErr := pool.QueryRow(ctx, insertDefinitionSQL,
		DefinitionName(c),
		c.Description,
		string(c.Type),
		fingerprint,
		now,
	).Scan(&id)
	if errors.Is(insertErr, pgx.ErrNoRows) {
		// Lost the race to a concurrent run; reuse its definition.
		if err := pool.QueryRow(ctx, selectDefinitionIDSQL, fingerprint).Scan(&id); err != nil {
			return 0, false, fmt.Errorf("find cluster definition after conflict: %w", err)
		}
		if _, execErr := pool.Exec(ctx, touchDefinitionSQL, id, now); execErr != nil {
			return 0, false, fmt.Errorf("touch cluster definition: %w", execErr)
		}
		return id, false, nil
	}
	if insertErr != nil {
		return 0, false, fmt.Errorf("insert cluster definition: %w", insertErr)
	}

	for _, m := range foundingMembers(c.Participants) {
		if _, execErr := pool.Exec(ctx, insertMemberSQL,
			id,
			m.ParticipantCIK,
			m.ParticipantName,
			m.ParticipantType,
			m.Affiliation,
			m.TransactionCount,
			m.TotalValue.String(),
		); execErr != nil {
			return 0, false, fmt.Errorf("insert cluster member: %w", execErr)
		}
	}

	return id, true, nil
}

// foundingMembers folds a participant list into one member row per distinct
// fingerprint key, keeping first-seen display values and accumulating the
// detection's own counts.
func foundingMembers(participants []cluster.Participant) []ClusterMember {
	index := make(map[string]int, len(participants))
	members := make([]ClusterMember, 0, len(participants))
	for _, p := range participants {
		key := FingerprintKey(p)
		if key == "" {
			continue
		}
		if i, seen := index[key]; seen {
			members[i].TransactionCount++
			members[i].TotalValue = members[i].TotalValue.Add(p.Value)
			continue
		}
		index[key] = len(members)
		members = append(members, ClusterMember{
			ParticipantCIK:   p.CIK,
			ParticipantName:  p.Name,
			ParticipantType:  string(p.Type),
			Affiliation:      p.Affiliation,
			TransactionCount: 1,
			TotalValue:       p.Value,
		})
	}
	return members
}

// RecordAction appends one occurrence and its per-participant transactions.
func (s *Store) RecordAction(ctx context.Context, clusterID int64, c cluster.Detected) (int64, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}

	var avgPrice interface{}
	if price := AvgEntryPrice(c.Participants); price != nil {
		avgPrice = price.String()
	}

	var actionID int64
	if scanErr := pool.QueryRow(ctx, insertActionSQL,
		clusterID,
		c.Ticker,
		c.CompanyName,
		string(c.Direction),
		c.EndDate,
		c.ParticipantCount,
		c.TotalValue.String(),
		avgPrice,
	).Scan(&actionID); scanErr != nil {
		return 0, fmt.Errorf("insert cluster action: %w", scanErr)
	}

	for _, p := range c.Participants {
		var date interface{}
		if !p.Date.IsZero() {
			date = p.Date
		}
		if _, execErr := pool.Exec(ctx, insertTransactionSQL,
			actionID,
			p.CIK,
			p.Name,
			string(p.Direction),
			p.Value.String(),
			p.Shares,
			date,
		); execErr != nil {
			return 0, fmt.Errorf("insert cluster transaction: %w", execErr)
		}
	}

	return actionID, nil
}

// UpdateCorrelationScore recomputes the definition's correlation score from
// its full action history and persists it.
func (s *Store) UpdateCorrelationScore(ctx context.Context, clusterID int64) (float64, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}

	actions, err := s.actionsForCluster(ctx, clusterID)
	if err != nil {
		return 0, err
	}

	score := CorrelationScore(actions)
	if _, execErr := pool.Exec(ctx, updateCorrelationSQL, clusterID, score); execErr != nil {
		return 0, fmt.Errorf("update correlation score: %w", execErr)
	}
	return score, nil
}

func (s *Store) actionsForCluster(ctx context.Context, clusterID int64) ([]ClusterAction, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listActionsByClusterSQL, clusterID)
	if queryErr != nil {
		return nil, fmt.Errorf("list cluster actions: %w", queryErr)
	}
	defer rows.Close()

	return scanActions(rows)
}

// TopClusters lists active definitions ranked by correlation score, then
// occurrence count.
func (s *Store) TopClusters(ctx context.Context, limit int) ([]ClusterDefinition, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, selectTopClustersSQL, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list top clusters: %w", queryErr)
	}
	defer rows.Close()

	definitions := make([]ClusterDefinition, 0, limit)
	for rows.Next() {
		def, scanErr := scanDefinition(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		definitions = append(definitions, def)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return definitions, nil
}

// ClusterWithDetails returns a definition with its members ordered by
// cumulative value and its 10 most recent actions.
func (s *Store) ClusterWithDetails(ctx context.Context, clusterID int64) (ClusterDetails, error) {
	pool, err := s.getPool()
	if err != nil {
		return ClusterDetails{}, err
	}

	row := pool.QueryRow(ctx, selectDefinitionSQL, clusterID)
	definition, scanErr := scanDefinitionRow(row)
	if scanErr != nil {
		return ClusterDetails{}, fmt.Errorf("load cluster definition: %w", scanErr)
	}

	memberRows, queryErr := pool.Query(ctx, listMembersSQL, clusterID)
	if queryErr != nil {
		return ClusterDetails{}, fmt.Errorf("list cluster members: %w", queryErr)
	}
	defer memberRows.Close()

	members := make([]ClusterMember, 0)
	for memberRows.Next() {
		var m ClusterMember
		var cik sql.NullString
		var valueStr string
		if err := memberRows.Scan(
			&m.ID,
			&m.ClusterID,
			&cik,
			&m.ParticipantName,
			&m.ParticipantType,
			&m.Affiliation,
			&m.TransactionCount,
			&valueStr,
		); err != nil {
			return ClusterDetails{}, err
		}
		m.ParticipantCIK = cik.String
		value, convErr := decimal.NewFromString(valueStr)
		if convErr != nil {
			return ClusterDetails{}, fmt.Errorf("parse member total value: %w", convErr)
		}
		m.TotalValue = value
		members = append(members, m)
	}
	if memberRows.Err() != nil {
		return ClusterDetails{}, memberRows.Err()
	}

	actions, err := s.ListActions(ctx, clusterID, 10)
	if err != nil {
		return ClusterDetails{}, err
	}

	return ClusterDetails{Definition: definition, Members: members, RecentActions: actions}, nil
}

// ListActions returns the most recent actions for a definition.
func (s *Store) ListActions(ctx context.Context, clusterID int64, limit int) ([]ClusterAction, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRecentActionsSQL, clusterID, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list recent actions: %w", queryErr)
	}
	defer rows.Close()

	return scanActions(rows)
}

func scanActions(rows pgx.Rows) ([]ClusterAction, error) {
	actions := make([]ClusterAction, 0)
	for rows.Next() {
		var a ClusterAction
		var totalStr string
		var avgStr sql.NullString
		if err := rows.Scan(
			&a.ID,
			&a.ClusterID,
			&a.Ticker,
			&a.CompanyName,
			&a.Direction,
			&a.ActionDate,
			&a.ParticipantCount,
			&totalStr,
			&avgStr,
		); err != nil {
			return nil, err
		}

		total, convErr := decimal.NewFromString(totalStr)
		if convErr != nil {
			return nil, fmt.Errorf("parse action total value: %w", convErr)
		}
		a.TotalValue = total

		if avgStr.Valid {
			avg, convErr := decimal.NewFromString(avgStr.String)
			if convErr != nil {
				return nil, fmt.Errorf("parse avg entry price: %w", convErr)
			}
			a.AvgEntryPrice = &avg
		}

		actions = append(actions, a)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return actions, nil
}

func scanDefinition(rows pgx.Rows) (ClusterDefinition, error) {
	return scanDefinitionRow(rows)
}

func scanDefinitionRow(row pgx.Row) (ClusterDefinition, error) {
	var d ClusterDefinition
	var avg30, avg90, winRate sql.NullFloat64
	if err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Description,
		&d.Type,
		&d.MemberFingerprint,
		&d.FirstDetectedAt,
		&d.LastActivityAt,
		&d.CorrelationScore,
		&d.TotalOccurrences,
		&avg30,
		&avg90,
		&winRate,
		&d.IsActive,
	); err != nil {
		return ClusterDefinition{}, err
	}

	if avg30.Valid {
		v := avg30.Float64
		d.AvgReturn30D = &v
	}
	if avg90.Valid {
		v := avg90.Float64
		d.AvgReturn90D = &v
	}
	if winRate.Valid {
		v := winRate.Float64
		d.WinRate = &v
	}

	return d, nil
}
