// ABOUTME: Database operations for sync_state and sync_log tables
// ABOUTME: Manages run status, incremental cutoff times, and per-run summaries
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/leadsync/models"
)

// SyncState represents the sync state for a service.
type SyncState struct {
	Service      string
	LastSyncTime *time.Time
	Status       string
	ErrorMessage *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GetSyncState retrieves the sync state for a service.
func GetSyncState(db *sql.DB, service string) (*SyncState, error) {
	var state SyncState
	var lastSyncTime sql.NullTime
	var errorMessage sql.NullString

	err := db.QueryRow(`
		SELECT service, last_sync_time, status, error_message, created_at, updated_at
		FROM sync_state
		WHERE service = ?
	`, service).Scan(
		&state.Service,
		&lastSyncTime,
		&state.Status,
		&errorMessage,
		&state.CreatedAt,
		&state.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sync state: %w", err)
	}

	if lastSyncTime.Valid {
		state.LastSyncTime = &lastSyncTime.Time
	}
	if errorMessage.Valid {
		state.ErrorMessage = &errorMessage.String
	}

	return &state, nil
}

// UpdateSyncStatus updates the sync status for a service.
func UpdateSyncStatus(db *sql.DB, service, status string, errorMsg *string) error {
	var errorMsgVal sql.NullString
	if errorMsg != nil {
		errorMsgVal = sql.NullString{String: *errorMsg, Valid: true}
	}

	_, err := db.Exec(`
		INSERT INTO sync_state (service, status, error_message, created_at, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(service) DO UPDATE SET
			status = excluded.status,
			error_message = excluded.error_message,
			updated_at = CURRENT_TIMESTAMP
	`, service, status, errorMsgVal)

	if err != nil {
		return fmt.Errorf("failed to update sync status: %w", err)
	}

	return nil
}

// MarkSyncComplete records a successful run: stores the run's start time as
// the incremental cutoff for the next run and resets status to idle.
func MarkSyncComplete(db *sql.DB, service string, runStart time.Time) error {
	_, err := db.Exec(`
		INSERT INTO sync_state (service, last_sync_time, status, created_at, updated_at)
		VALUES (?, ?, 'idle', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(service) DO UPDATE SET
			last_sync_time = excluded.last_sync_time,
			status = 'idle',
			error_message = NULL,
			updated_at = CURRENT_TIMESTAMP
	`, service, runStart.UTC())

	if err != nil {
		return fmt.Errorf("failed to mark sync complete: %w", err)
	}

	return nil
}

// CreateRunLog records one run's summary in sync_log.
func CreateRunLog(db *sql.DB, service string, stats *models.SyncStats) error {
	_, err := db.Exec(`
		INSERT INTO sync_log (
			id, run_id, service,
			boards_seen, boards_skipped, comments_seen,
			rows_extracted, rows_resolved, rows_upserted,
			batches_written, batches_failed,
			started_at, finished_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), stats.RunID, service,
		stats.BoardsSeen, stats.BoardsSkipped, stats.CommentsSeen,
		stats.RowsExtracted, stats.RowsResolved, stats.RowsUpserted,
		stats.BatchesWritten, stats.BatchesFailed,
		stats.StartedAt, stats.FinishedAt)

	if err != nil {
		return fmt.Errorf("failed to create run log: %w", err)
	}

	return nil
}

// GetLastRunLog returns the most recent run summary, or nil when no run has
// been recorded yet.
func GetLastRunLog(db *sql.DB, service string) (*models.SyncStats, error) {
	var stats models.SyncStats
	err := db.QueryRow(`
		SELECT run_id,
			boards_seen, boards_skipped, comments_seen,
			rows_extracted, rows_resolved, rows_upserted,
			batches_written, batches_failed,
			started_at, finished_at
		FROM sync_log
		WHERE service = ?
		ORDER BY started_at DESC
		LIMIT 1
	`, service).Scan(
		&stats.RunID,
		&stats.BoardsSeen, &stats.BoardsSkipped, &stats.CommentsSeen,
		&stats.RowsExtracted, &stats.RowsResolved, &stats.RowsUpserted,
		&stats.BatchesWritten, &stats.BatchesFailed,
		&stats.StartedAt, &stats.FinishedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last run log: %w", err)
	}

	return &stats, nil
}
