package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/huangsam/ahp/internal/contract"
	"github.com/huangsam/ahp/schema"
)

const submissionsTable = "ahp_submissions"

// SubmissionStoreImpl implements the SubmissionStore interface.
type SubmissionStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.SubmissionStore = &SubmissionStoreImpl{} // Compile-time check

// NewSubmissionStore creates a new SubmissionStore with the specified backend.
func NewSubmissionStore(backend schema.DatabaseBackend, connStr string) (contract.SubmissionStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled persistence
		return &SubmissionStoreImpl{backend: backend}, nil
	}

	db, err := openDatabase(backend, connStr)
	if err != nil {
		return nil, err
	}

	if err := createTables(db, []tableDDL{{submissionsTable, getCreateSubmissionsQuery(backend)}}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create submission tables: %w", err)
	}

	return &SubmissionStoreImpl{db: db, backend: backend}, nil
}

// getCreateSubmissionsQuery returns the CREATE TABLE query for ahp_submissions.
func getCreateSubmissionsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(submissionsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				submission_id VARCHAR(36) PRIMARY KEY,
				expert VARCHAR(255) NOT NULL,
				questionnaire VARCHAR(255) NOT NULL,
				created_at DATETIME(6) NOT NULL,
				main_pairs LONGTEXT NOT NULL,
				sub_pairs LONGTEXT NOT NULL,
				result LONGTEXT NOT NULL,
				main_cr DOUBLE
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				submission_id TEXT PRIMARY KEY,
				expert TEXT NOT NULL,
				questionnaire TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL,
				main_pairs TEXT NOT NULL,
				sub_pairs TEXT NOT NULL,
				result TEXT NOT NULL,
				main_cr DOUBLE PRECISION
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				submission_id TEXT PRIMARY KEY,
				expert TEXT NOT NULL,
				questionnaire TEXT NOT NULL,
				created_at TEXT NOT NULL,
				main_pairs TEXT NOT NULL,
				sub_pairs TEXT NOT NULL,
				result TEXT NOT NULL,
				main_cr REAL
			);
		`, quotedTableName)
	}
}

// disabled reports whether the store is a no-op.
func (ss *SubmissionStoreImpl) disabled() bool {
	return ss.backend == schema.NoneBackend || ss.db == nil
}

// Save inserts a submission. Submissions are immutable, so saving an existing id fails.
func (ss *SubmissionStoreImpl) Save(ctx context.Context, s schema.Submission) error {
	if ss.disabled() {
		return nil
	}
	if s.ID == "" {
		return errors.New("submission id cannot be empty")
	}

	mainJSON, err := json.Marshal(s.MainPairs)
	if err != nil {
		return fmt.Errorf("failed to marshal main pairs: %w", err)
	}
	subJSON, err := json.Marshal(storageSubPairs(s.SubPairs))
	if err != nil {
		return fmt.Errorf("failed to marshal sub pairs: %w", err)
	}
	resultJSON, err := json.Marshal(s.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	var mainCR sql.NullFloat64
	if cr := s.MainCR(); !math.IsNaN(cr) {
		mainCR = sql.NullFloat64{Float64: cr, Valid: true}
	}

	query := fmt.Sprintf(`INSERT INTO %s (submission_id, expert, questionnaire, created_at, main_pairs, sub_pairs, result, main_cr) VALUES (%s)`,
		quoteTableName(submissionsTable, ss.backend), placeholderList(ss.backend, 8))
	_, err = ss.db.ExecContext(ctx, query,
		s.ID, s.Expert, s.Questionnaire, formatTime(s.CreatedAt, ss.backend),
		string(mainJSON), string(subJSON), string(resultJSON), mainCR)
	if err != nil {
		return fmt.Errorf("failed to insert submission %s: %w", s.ID, err)
	}
	return nil
}

// storageSubPairs keeps empty groups out of the stored JSON.
func storageSubPairs(sub map[string]schema.Judgments) map[string]schema.Judgments {
	out := make(map[string]schema.Judgments, len(sub))
	for criterion, j := range sub {
		if len(j) > 0 {
			out[criterion] = j
		}
	}
	return out
}

const submissionColumns = "submission_id, expert, questionnaire, created_at, main_pairs, sub_pairs, result"

// Get returns one submission by id, or schema.ErrNotFound.
func (ss *SubmissionStoreImpl) Get(ctx context.Context, id string) (schema.Submission, error) {
	if ss.disabled() {
		return schema.Submission{}, fmt.Errorf("submission %s: %w", id, schema.ErrNotFound)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE submission_id = %s`,
		submissionColumns, quoteTableName(submissionsTable, ss.backend), placeholders(ss.backend, 1)[0])
	s, err := ss.scanSubmission(ss.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return schema.Submission{}, fmt.Errorf("submission %s: %w", id, schema.ErrNotFound)
	}
	return s, err
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSubmission decodes one row selected with submissionColumns.
func (ss *SubmissionStoreImpl) scanSubmission(row rowScanner) (schema.Submission, error) {
	var s schema.Submission
	var mainJSON, subJSON, resultJSON string
	created := timeScanner{backend: ss.backend}

	if err := row.Scan(&s.ID, &s.Expert, &s.Questionnaire, created.dest(), &mainJSON, &subJSON, &resultJSON); err != nil {
		return s, err
	}

	createdAt, _, err := created.value()
	if err != nil {
		return s, fmt.Errorf("failed to parse created_at: %w", err)
	}
	s.CreatedAt = createdAt

	if err := json.Unmarshal([]byte(mainJSON), &s.MainPairs); err != nil {
		return s, fmt.Errorf("failed to decode main pairs of %s: %w", s.ID, err)
	}
	if err := json.Unmarshal([]byte(subJSON), &s.SubPairs); err != nil {
		return s, fmt.Errorf("failed to decode sub pairs of %s: %w", s.ID, err)
	}
	if err := json.Unmarshal([]byte(resultJSON), &s.Result); err != nil {
		return s, fmt.Errorf("failed to decode result of %s: %w", s.ID, err)
	}
	return s, nil
}

// List returns the newest submissions first, optionally filtered by expert.
func (ss *SubmissionStoreImpl) List(ctx context.Context, expert string, limit int) ([]schema.SubmissionSummary, error) {
	if ss.disabled() {
		return nil, nil
	}

	var where string
	var args []any
	if expert = strings.TrimSpace(expert); expert != "" {
		where = fmt.Sprintf(" WHERE expert = %s", placeholders(ss.backend, 1)[0])
		args = append(args, expert)
	}
	query := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY created_at DESC, submission_id`,
		submissionColumns, quoteTableName(submissionsTable, ss.backend), where)
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := ss.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.SubmissionSummary
	for rows.Next() {
		s, err := ss.scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		results = append(results, s.Summary())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submissions: %w", err)
	}
	return results, nil
}

// LatestPerExpert returns the newest submission of every expert for a questionnaire,
// ordered by expert name. An empty questionnaire matches all of them.
func (ss *SubmissionStoreImpl) LatestPerExpert(ctx context.Context, questionnaire string) ([]schema.Submission, error) {
	if ss.disabled() {
		return nil, nil
	}

	var where string
	var args []any
	if questionnaire != "" {
		where = fmt.Sprintf(" WHERE questionnaire = %s", placeholders(ss.backend, 1)[0])
		args = append(args, questionnaire)
	}
	query := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY expert, created_at DESC, submission_id DESC`,
		submissionColumns, quoteTableName(submissionsTable, ss.backend), where)

	rows, err := ss.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.Submission
	for rows.Next() {
		s, err := ss.scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		// Rows are grouped by expert with the newest first
		if n := len(results); n > 0 && results[n-1].Expert == s.Expert {
			continue
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submissions: %w", err)
	}
	return results, nil
}

// Delete removes a submission by id, or returns schema.ErrNotFound.
func (ss *SubmissionStoreImpl) Delete(ctx context.Context, id string) error {
	if ss.disabled() {
		return fmt.Errorf("submission %s: %w", id, schema.ErrNotFound)
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE submission_id = %s`,
		quoteTableName(submissionsTable, ss.backend), placeholders(ss.backend, 1)[0])
	res, err := ss.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete submission %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete submission %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("submission %s: %w", id, schema.ErrNotFound)
	}
	return nil
}

// Close closes the underlying connection.
func (ss *SubmissionStoreImpl) Close() error {
	if ss.db != nil {
		return ss.db.Close()
	}
	return nil
}

// GetStatus returns status information about the submission store.
func (ss *SubmissionStoreImpl) GetStatus() (schema.SubmissionStatus, error) {
	status := schema.SubmissionStatus{
		Backend:    string(ss.backend),
		Connected:  ss.db != nil,
		TableSizes: make(map[string]int64),
	}
	if ss.disabled() {
		return status, nil
	}

	quoted := quoteTableName(submissionsTable, ss.backend)
	row := ss.db.QueryRow(fmt.Sprintf("SELECT COUNT(*), COUNT(DISTINCT expert) FROM %s", quoted))
	if err := row.Scan(&status.TotalSubmissions, &status.TotalExperts); err != nil {
		return status, fmt.Errorf("failed to get total submissions: %w", err)
	}
	status.TableSizes[submissionsTable] = status.TotalSubmissions

	if status.TotalSubmissions == 0 {
		return status, nil
	}

	last := timeScanner{backend: ss.backend}
	if err := ss.db.QueryRow(fmt.Sprintf("SELECT created_at FROM %s ORDER BY created_at DESC LIMIT 1", quoted)).Scan(last.dest()); err != nil {
		return status, fmt.Errorf("failed to get last submission time: %w", err)
	}
	lastTime, _, err := last.value()
	if err != nil {
		return status, fmt.Errorf("failed to parse last submission time: %w", err)
	}
	status.LastSubmissionTime = lastTime

	oldest := timeScanner{backend: ss.backend}
	if err := ss.db.QueryRow(fmt.Sprintf("SELECT created_at FROM %s ORDER BY created_at ASC LIMIT 1", quoted)).Scan(oldest.dest()); err != nil {
		return status, fmt.Errorf("failed to get oldest submission time: %w", err)
	}
	oldestTime, _, err := oldest.value()
	if err != nil {
		return status, fmt.Errorf("failed to parse oldest submission time: %w", err)
	}
	status.OldestSubmissionTime = oldestTime

	return status, nil
}
