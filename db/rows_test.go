// ABOUTME: Tests for destination-table upsert operations
// ABOUTME: Verifies conflict-key replacement semantics and lookup queries
package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/harperreed/leadsync/models"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	database, err := OpenDatabase(path)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func testRow(commentID, email, phone string) models.SyncRow {
	return models.SyncRow{
		CommentID:     commentID,
		CardID:        "card-1",
		ListID:        "list-1",
		BoardID:       "board-1",
		ListName:      "Inbox",
		CardName:      "Lead card",
		CardURL:       "https://trello.com/c/abc",
		CommentAuthor: "Maria",
		CommentDate:   "2024-03-15",
		Email:         email,
		Phone:         phone,
		CampaignType:  "nutrição",
	}
}

func TestUpsertRowsInsertAndCount(t *testing.T) {
	database := testDB(t)

	rows := []models.SyncRow{
		testRow("c1", "a@x.com", ""),
		testRow("c1", "b@x.com", ""),
		testRow("c2", "a@x.com", "11988887777"),
	}
	if err := UpsertRows(database, rows); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	count, err := CountRows(database)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 rows, got %d", count)
	}
}

func TestUpsertRowsReplacesOnConflictKey(t *testing.T) {
	database := testDB(t)

	original := testRow("c1", "a@x.com", "11988887777")
	original.CampaignType = "nutrição"
	if err := UpsertRows(database, []models.SyncRow{original}); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	replacement := testRow("c1", "A@X.com", "11988887777") // same key, email case-folded
	replacement.CampaignType = "higienização"
	replacement.Whatsapp = "11988887777"
	if err := UpsertRows(database, []models.SyncRow{replacement}); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	count, _ := CountRows(database)
	if count != 1 {
		t.Fatalf("expected 1 row after conflict replacement, got %d", count)
	}

	var campaign, whatsapp string
	err := database.QueryRow(`
		SELECT campaign_type, COALESCE(whatsapp, '') FROM trello_comments
		WHERE comment_id = 'c1'
	`).Scan(&campaign, &whatsapp)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if campaign != "higienização" {
		t.Errorf("expected replacement campaign, got %q", campaign)
	}
	if whatsapp != "11988887777" {
		t.Errorf("expected replacement whatsapp, got %q", whatsapp)
	}
}

func TestRowExists(t *testing.T) {
	database := testDB(t)

	if err := UpsertRows(database, []models.SyncRow{testRow("c1", "a@x.com", "")}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	exists, err := RowExists(database, models.ConflictKey{CommentID: "c1", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("exists check failed: %v", err)
	}
	if !exists {
		t.Error("expected row to exist")
	}

	exists, err = RowExists(database, models.ConflictKey{CommentID: "c9", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("exists check failed: %v", err)
	}
	if exists {
		t.Error("expected no row for unknown comment")
	}
}

func TestUpsertRowsEmptyBatch(t *testing.T) {
	database := testDB(t)
	if err := UpsertRows(database, nil); err != nil {
		t.Errorf("empty batch should be a no-op, got %v", err)
	}
}
