package iostore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hackwatch/hackwatch/internal/contract"
	"github.com/hackwatch/hackwatch/schema"
)

// Table names for run tracking.
const (
	runsTable  = "hackwatch_runs"
	flagsTable = "hackwatch_flags"
)

// ReportStoreImpl implements the ReportStore interface on top of a SQL
// backend. Each analysis run gets a row in the runs table and one row per
// raised flag in the flags table.
type ReportStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.ReportStore = &ReportStoreImpl{} // Compile-time check

// NewReportStore creates a new ReportStore with the specified backend.
func NewReportStore(backend schema.DatabaseBackend, connStr string) (contract.ReportStore, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetStoreDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled tracking
		return &ReportStoreImpl{backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Verify the database server is running and accessible", backend, err)
	}

	if err := createReportTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create report tables: %w", err)
	}

	return &ReportStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// createReportTables creates the run tracking tables.
func createReportTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{flagsTable, getCreateFlagsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for hackwatch_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				total_repos INT,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				total_repos INT,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				total_repos INTEGER,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateFlagsQuery returns the CREATE TABLE query for hackwatch_flags.
func getCreateFlagsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(flagsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				team VARCHAR(255) NOT NULL,
				repo_url VARCHAR(512) NOT NULL,
				category VARCHAR(50) NOT NULL,
				severity VARCHAR(20) NOT NULL,
				rationale TEXT NOT NULL,
				recorded_at DATETIME(6) NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				team TEXT NOT NULL,
				repo_url TEXT NOT NULL,
				category TEXT NOT NULL,
				severity TEXT NOT NULL,
				rationale TEXT NOT NULL,
				recorded_at TIMESTAMPTZ NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				team TEXT NOT NULL,
				repo_url TEXT NOT NULL,
				category TEXT NOT NULL,
				severity TEXT NOT NULL,
				rationale TEXT NOT NULL,
				recorded_at TEXT NOT NULL
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new analysis run and returns its unique ID.
func (rs *ReportStoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)

	var runID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES ($1, $2) RETURNING run_id`, quotedTableName)
		err = rs.db.QueryRow(query, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (?, ?)`, quotedTableName)
		var result sql.Result
		result, err = rs.db.Exec(query, formatTime(startTime, rs.backend), string(configJSON))
		if err != nil {
			return 0, err
		}
		runID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	return runID, nil
}

// EndRun updates the run with completion data.
func (rs *ReportStoreImpl) EndRun(runID int64, endTime time.Time, totalRepos int) error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)

	var query string
	var args []any
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`UPDATE %s SET end_time = $1, total_repos = $2 WHERE run_id = $3`, quotedTableName)
		args = []any{endTime, totalRepos, runID}
	default: // SQLite and MySQL
		query = fmt.Sprintf(`UPDATE %s SET end_time = ?, total_repos = ? WHERE run_id = ?`, quotedTableName)
		args = []any{formatTime(endTime, rs.backend), totalRepos, runID}
	}

	if _, err := rs.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// RecordFlag stores one raised flag for a run.
func (rs *ReportStoreImpl) RecordFlag(runID int64, team, repoURL string, flag schema.Flag) error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(flagsTable, rs.backend)
	recordedAt := formatTime(time.Now().UTC(), rs.backend)

	var query string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (run_id, team, repo_url, category, severity, rationale, recorded_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`INSERT INTO %s (run_id, team, repo_url, category, severity, rationale, recorded_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`, quotedTableName)
	}

	_, err := rs.db.Exec(query, runID, team, repoURL, string(flag.Category), string(flag.Severity), flag.Rationale, recordedAt)
	if err != nil {
		return fmt.Errorf("failed to insert flag: %w", err)
	}
	return nil
}

// GetRuns retrieves all analysis runs from the store.
func (rs *ReportStoreImpl) GetRuns() ([]schema.RunRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	query := fmt.Sprintf("SELECT run_id, start_time, end_time, total_repos, config_params FROM %s ORDER BY run_id", quotedTableName)

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		var totalRepos sql.NullInt64
		var configJSON sql.NullString

		switch rs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &startTimeStr, &endTimeStr, &totalRepos, &configJSON); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			record.StartTime = startTime
			if endTimeStr != nil {
				endTime, err := time.Parse(time.RFC3339Nano, *endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL store native datetimes
			if err := rows.Scan(&record.RunID, &record.StartTime, &record.EndTime, &totalRepos, &configJSON); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
		}

		record.TotalRepos = int(totalRepos.Int64)
		if configJSON.Valid && configJSON.String != "" {
			if err := json.Unmarshal([]byte(configJSON.String), &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to parse config params for run %d: %w", record.RunID, err)
			}
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetFlags retrieves all persisted flags from the store.
func (rs *ReportStoreImpl) GetFlags() ([]schema.FlagRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(flagsTable, rs.backend)
	query := fmt.Sprintf("SELECT run_id, team, repo_url, category, severity, rationale, recorded_at FROM %s ORDER BY run_id, team", quotedTableName)

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query flags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.FlagRecord
	for rows.Next() {
		var record schema.FlagRecord

		switch rs.backend {
		case schema.SQLiteBackend:
			var recordedAtStr string
			if err := rows.Scan(&record.RunID, &record.Team, &record.RepoURL, &record.Category, &record.Severity, &record.Rationale, &recordedAtStr); err != nil {
				return nil, fmt.Errorf("failed to scan flag: %w", err)
			}
			recordedAt, err := time.Parse(time.RFC3339Nano, recordedAtStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse recorded_at: %w", err)
			}
			record.RecordedAt = recordedAt
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.Team, &record.RepoURL, &record.Category, &record.Severity, &record.Rationale, &record.RecordedAt); err != nil {
				return nil, fmt.Errorf("failed to scan flag: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating flags: %w", err)
	}
	return results, nil
}

// GetStatus returns status information about the report store.
func (rs *ReportStoreImpl) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:   string(rs.backend),
		Connected: rs.db != nil,
	}

	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	runsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(runsTable, rs.backend))
	if err := rs.db.QueryRow(runsQuery).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	flagsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(flagsTable, rs.backend))
	if err := rs.db.QueryRow(flagsQuery).Scan(&status.TotalFlags); err != nil {
		return status, fmt.Errorf("failed to get total flags: %w", err)
	}

	if status.TotalRuns > 0 {
		lastRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id DESC LIMIT 1", quoteTableName(runsTable, rs.backend))
		row := rs.db.QueryRow(lastRunQuery)

		switch rs.backend {
		case schema.SQLiteBackend:
			var lastRunStr string
			if err := row.Scan(&lastRunStr); err != nil {
				return status, fmt.Errorf("failed to get last run time: %w", err)
			}
			lastRun, err := time.Parse(time.RFC3339Nano, lastRunStr)
			if err != nil {
				return status, fmt.Errorf("failed to parse last run time: %w", err)
			}
			status.LastRun = lastRun
		default: // MySQL and PostgreSQL
			if err := row.Scan(&status.LastRun); err != nil {
				return status, fmt.Errorf("failed to get last run time: %w", err)
			}
		}
	}

	return status, nil
}

// Close closes the underlying connection.
func (rs *ReportStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	default:
		return t
	}
}
