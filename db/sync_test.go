// ABOUTME: Tests for sync_state and sync_log operations
// ABOUTME: Verifies the idle → syncing → idle/error lifecycle and run summaries
package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/leadsync/models"
)

const testService = "trello"

func TestSyncStateLifecycle(t *testing.T) {
	database := testDB(t)

	// No state before the first run.
	state, err := GetSyncState(database, testService)
	require.NoError(t, err)
	assert.Nil(t, state)

	// Run starts: syncing.
	require.NoError(t, UpdateSyncStatus(database, testService, models.SyncStatusSyncing, nil))
	state, err = GetSyncState(database, testService)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, models.SyncStatusSyncing, state.Status)
	assert.Nil(t, state.LastSyncTime)

	// Run completes: idle with the run start recorded.
	runStart := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	require.NoError(t, MarkSyncComplete(database, testService, runStart))
	state, err = GetSyncState(database, testService)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusIdle, state.Status)
	require.NotNil(t, state.LastSyncTime)
	assert.True(t, state.LastSyncTime.Equal(runStart))
	assert.Nil(t, state.ErrorMessage)
}

func TestSyncStateError(t *testing.T) {
	database := testDB(t)

	msg := "2 of 3 batches failed"
	require.NoError(t, UpdateSyncStatus(database, testService, models.SyncStatusError, &msg))

	state, err := GetSyncState(database, testService)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusError, state.Status)
	require.NotNil(t, state.ErrorMessage)
	assert.Equal(t, msg, *state.ErrorMessage)

	// A later successful run clears the error.
	require.NoError(t, MarkSyncComplete(database, testService, time.Now().UTC()))
	state, _ = GetSyncState(database, testService)
	assert.Equal(t, models.SyncStatusIdle, state.Status)
	assert.Nil(t, state.ErrorMessage)
}

func TestRunLogRoundTrip(t *testing.T) {
	database := testDB(t)

	// Nothing logged yet.
	last, err := GetLastRunLog(database, testService)
	require.NoError(t, err)
	assert.Nil(t, last)

	first := &models.SyncStats{
		RunID:          "01HRUN000000000000000000A",
		BoardsSeen:     4,
		BoardsSkipped:  1,
		CommentsSeen:   250,
		RowsExtracted:  40,
		RowsResolved:   35,
		RowsUpserted:   35,
		BatchesWritten: 1,
		StartedAt:      time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
		FinishedAt:     time.Date(2024, 3, 15, 9, 2, 0, 0, time.UTC),
	}
	require.NoError(t, CreateRunLog(database, testService, first))

	second := &models.SyncStats{
		RunID:         "01HRUN000000000000000000B",
		BoardsSeen:    4,
		CommentsSeen:  10,
		BatchesFailed: 1,
		StartedAt:     time.Date(2024, 3, 16, 9, 0, 0, 0, time.UTC),
		FinishedAt:    time.Date(2024, 3, 16, 9, 1, 0, 0, time.UTC),
	}
	require.NoError(t, CreateRunLog(database, testService, second))

	last, err = GetLastRunLog(database, testService)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, second.RunID, last.RunID)
	assert.Equal(t, 10, last.CommentsSeen)
	assert.Equal(t, 1, last.BatchesFailed)
}
