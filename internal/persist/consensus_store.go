package persist

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/ahp/internal/contract"
	"github.com/huangsam/ahp/schema"
)

// Table names for consensus tracking.
const (
	consensusRunsTable    = "ahp_consensus_runs"
	consensusWeightsTable = "ahp_consensus_weights"
)

// ConsensusStoreImpl implements the ConsensusStore interface.
type ConsensusStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.ConsensusStore = &ConsensusStoreImpl{} // Compile-time check

// NewConsensusStore creates a new ConsensusStore with the specified backend.
func NewConsensusStore(backend schema.DatabaseBackend, connStr string) (contract.ConsensusStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &ConsensusStoreImpl{backend: backend}, nil
	}

	db, err := openDatabase(backend, connStr)
	if err != nil {
		return nil, err
	}

	tables := []tableDDL{
		{consensusRunsTable, getCreateConsensusRunsQuery(backend)},
		{consensusWeightsTable, getCreateConsensusWeightsQuery(backend)},
	}
	if err := createTables(db, tables); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create consensus tables: %w", err)
	}

	return &ConsensusStoreImpl{db: db, backend: backend}, nil
}

// getCreateConsensusRunsQuery returns the CREATE TABLE query for ahp_consensus_runs.
func getCreateConsensusRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(consensusRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms BIGINT,
				expert_count INT,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms BIGINT,
				expert_count INT,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				expert_count INTEGER,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateConsensusWeightsQuery returns the CREATE TABLE query for ahp_consensus_weights.
func getCreateConsensusWeightsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(consensusWeightsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				mode VARCHAR(8) NOT NULL,
				criterion VARCHAR(255) NOT NULL,
				sub_criterion VARCHAR(255) NOT NULL,
				local_weight DOUBLE NOT NULL,
				main_weight DOUBLE NOT NULL,
				global_weight DOUBLE NOT NULL,
				PRIMARY KEY (run_id, mode, criterion, sub_criterion)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				mode TEXT NOT NULL,
				criterion TEXT NOT NULL,
				sub_criterion TEXT NOT NULL,
				local_weight DOUBLE PRECISION NOT NULL,
				main_weight DOUBLE PRECISION NOT NULL,
				global_weight DOUBLE PRECISION NOT NULL,
				PRIMARY KEY (run_id, mode, criterion, sub_criterion)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				mode TEXT NOT NULL,
				criterion TEXT NOT NULL,
				sub_criterion TEXT NOT NULL,
				local_weight REAL NOT NULL,
				main_weight REAL NOT NULL,
				global_weight REAL NOT NULL,
				PRIMARY KEY (run_id, mode, criterion, sub_criterion)
			);
		`, quotedTableName)
	}
}

func (cs *ConsensusStoreImpl) disabled() bool {
	return cs.backend == schema.NoneBackend || cs.db == nil
}

// BeginRun creates a new consensus run and returns its unique ID.
func (cs *ConsensusStoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	if cs.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(consensusRunsTable, cs.backend)

	var runID int64
	switch cs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES ($1, $2) RETURNING run_id`, quotedTableName)
		err = cs.db.QueryRow(query, formatTime(startTime, cs.backend), string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (?, ?)`, quotedTableName)
		var result sql.Result
		result, err = cs.db.Exec(query, formatTime(startTime, cs.backend), string(configJSON))
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert consensus run: %w", err)
	}
	return runID, nil
}

// RecordWeights stores the global ranking of one aggregation mode for a run in a single transaction.
func (cs *ConsensusStoreImpl) RecordWeights(runID int64, mode schema.AggregationMode, rows []schema.GlobalRow) error {
	if cs.disabled() || len(rows) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (run_id, mode, criterion, sub_criterion, local_weight, main_weight, global_weight) VALUES (%s)`,
		quoteTableName(consensusWeightsTable, cs.backend), placeholderList(cs.backend, 7))

	tx, err := cs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare weight insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, row := range rows {
		if _, err := stmt.Exec(runID, string(mode), row.Criterion, row.SubCriterion,
			row.LocalWeight, row.MainWeight, row.GlobalWeight); err != nil {
			return fmt.Errorf("failed to insert weight %s/%s for run %d: %w", row.Criterion, row.SubCriterion, runID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit weights for run %d: %w", runID, err)
	}
	return nil
}

// EndRun updates the consensus run with completion data.
func (cs *ConsensusStoreImpl) EndRun(runID int64, endTime time.Time, expertCount int) error {
	if cs.disabled() {
		return nil
	}

	quotedTableName := quoteTableName(consensusRunsTable, cs.backend)
	ph := placeholders(cs.backend, 4)

	start := timeScanner{backend: cs.backend}
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, ph[0])
	if err := cs.db.QueryRow(query, runID).Scan(start.dest()); err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	startTime, _, err := start.value()
	if err != nil {
		return fmt.Errorf("failed to parse start_time: %w", err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, expert_count = %s WHERE run_id = %s`,
		quotedTableName, ph[0], ph[1], ph[2], ph[3])
	if _, err := cs.db.Exec(updateQuery, formatTime(endTime, cs.backend), durationMs, expertCount, runID); err != nil {
		return fmt.Errorf("failed to update consensus run: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (cs *ConsensusStoreImpl) Close() error {
	if cs.db != nil {
		return cs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the consensus store.
func (cs *ConsensusStoreImpl) GetStatus() (schema.ConsensusStatus, error) {
	status := schema.ConsensusStatus{
		Backend:    string(cs.backend),
		Connected:  cs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if cs.disabled() {
		return status, nil
	}

	runs := quoteTableName(consensusRunsTable, cs.backend)
	if err := cs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runs)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		last := timeScanner{backend: cs.backend}
		row := cs.db.QueryRow(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", runs))
		if err := row.Scan(&status.LastRunID, last.dest()); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		lastTime, _, err := last.value()
		if err != nil {
			return status, fmt.Errorf("failed to parse last run time: %w", err)
		}
		status.LastRunTime = lastTime

		oldest := timeScanner{backend: cs.backend}
		row = cs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runs))
		if err := row.Scan(oldest.dest()); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		oldestTime, _, err := oldest.value()
		if err != nil {
			return status, fmt.Errorf("failed to parse oldest run time: %w", err)
		}
		status.OldestRunTime = oldestTime
	}

	for _, table := range []string{consensusRunsTable, consensusWeightsTable} {
		var count int64
		if err := cs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, cs.backend))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all consensus runs from the store.
func (cs *ConsensusStoreImpl) GetAllRuns() ([]schema.ConsensusRunRecord, error) {
	if cs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT run_id, start_time, end_time, run_duration_ms, expert_count, config_params FROM %s ORDER BY run_id",
		quoteTableName(consensusRunsTable, cs.backend))
	rows, err := cs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query consensus runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ConsensusRunRecord
	for rows.Next() {
		var record schema.ConsensusRunRecord
		start := timeScanner{backend: cs.backend}
		end := timeScanner{backend: cs.backend}
		if err := rows.Scan(&record.RunID, start.dest(), end.dest(), &record.RunDurationMs, &record.ExpertCount, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan consensus run: %w", err)
		}
		if record.StartTime, _, err = start.value(); err != nil {
			return nil, fmt.Errorf("failed to parse start_time: %w", err)
		}
		endTime, ok, err := end.value()
		if err != nil {
			return nil, fmt.Errorf("failed to parse end_time: %w", err)
		}
		if ok {
			record.EndTime = &endTime
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating consensus runs: %w", err)
	}
	return results, nil
}

// GetAllWeights retrieves all recorded consensus weights from the store.
func (cs *ConsensusStoreImpl) GetAllWeights() ([]schema.ConsensusWeightRecord, error) {
	if cs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, mode, criterion, sub_criterion, local_weight, main_weight, global_weight
		FROM %s ORDER BY run_id, mode, global_weight DESC, criterion, sub_criterion`,
		quoteTableName(consensusWeightsTable, cs.backend))
	rows, err := cs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query consensus weights: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ConsensusWeightRecord
	for rows.Next() {
		var record schema.ConsensusWeightRecord
		var mode string
		if err := rows.Scan(&record.RunID, &mode, &record.Criterion, &record.SubCriterion,
			&record.LocalWeight, &record.MainWeight, &record.GlobalWeight); err != nil {
			return nil, fmt.Errorf("failed to scan consensus weight: %w", err)
		}
		record.Mode = schema.AggregationMode(mode)
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating consensus weights: %w", err)
	}
	return results, nil
}
