package persist

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/ahp/internal/contract"
	"github.com/huangsam/ahp/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// allTables lists every table owned by this package, children first.
var allTables = []string{consensusWeightsTable, consensusRunsTable, submissionsTable}

// InitStores initializes the global manager with a submission store and a consensus store
// sharing one backend. An empty backend leaves both stores unset.
func InitStores(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		if backend == "" {
			return
		}

		submissions, err := NewSubmissionStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize submission store: %w", err)
			return
		}

		consensus, err := NewConsensusStore(backend, connStr)
		if err != nil {
			_ = submissions.Close()
			initErr = fmt.Errorf("failed to initialize consensus store: %w", err)
			return
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.submissions = submissions
		Manager.consensus = consensus
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.submissions != nil {
			_ = Manager.submissions.Close()
		}
		if Manager.consensus != nil {
			_ = Manager.consensus.Close()
		}
	})
}

// ClearStores removes all persisted submissions and consensus runs.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the tables.
// For NoneBackend, it does nothing.
func ClearStores(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			dbFilePath = contract.GetStoreDBFilePath()
		}
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		for _, table := range allTables {
			if err := clearSQLTable(driverFor(backend), connStr, quoteTableName(table, backend)); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported store backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(driverName, connStr, tableName string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName)
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	return nil
}
