// ABOUTME: Destination-table operations for extracted contact rows
// ABOUTME: Batched upsert on the conflict key plus existence and count queries
package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/leadsync/models"
)

// UpsertRows writes one batch of rows in a single transaction, replacing any
// existing row that shares the conflict key (comment_id, email, phone).
// Callers are expected to have resolved conflicts within the batch already:
// SQLite applies the ON CONFLICT clause per statement, so duplicate keys
// inside one batch would otherwise last-write-win arbitrarily.
func UpsertRows(db *sql.DB, rows []models.SyncRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Safe even after commit
	}()

	stmt, err := tx.Prepare(`
		INSERT INTO trello_comments (
			comment_id, card_id, list_id, board_id,
			list_name, card_name, card_url, comment_author, comment_date,
			name, email, phone, whatsapp, is_associate, campaign_type,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(comment_id, email, phone) DO UPDATE SET
			card_id = excluded.card_id,
			list_id = excluded.list_id,
			board_id = excluded.board_id,
			list_name = excluded.list_name,
			card_name = excluded.card_name,
			card_url = excluded.card_url,
			comment_author = excluded.comment_author,
			comment_date = excluded.comment_date,
			name = excluded.name,
			whatsapp = excluded.whatsapp,
			is_associate = excluded.is_associate,
			campaign_type = excluded.campaign_type,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, row := range rows {
		key := row.ConflictKey()
		_, err := stmt.Exec(
			key.CommentID, row.CardID, row.ListID, row.BoardID,
			row.ListName, row.CardName, row.CardURL, row.CommentAuthor, nullString(row.CommentDate),
			nullString(row.Name), key.Email, key.Phone, nullString(row.Whatsapp), row.IsAssociate, nullString(row.CampaignType),
			now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert row for comment %s: %w", row.CommentID, err)
		}
	}

	return tx.Commit()
}

// RowExists reports whether a row with the given conflict key is already
// persisted. Used as an optional pre-check to avoid redundant writes.
func RowExists(db *sql.DB, key models.ConflictKey) (bool, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM trello_comments
		WHERE comment_id = ? AND email = ? AND phone = ?
	`, key.CommentID, strings.ToLower(key.Email), key.Phone).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check row existence: %w", err)
	}
	return count > 0, nil
}

// CountRows returns the total number of persisted contact rows.
func CountRows(db *sql.DB) (int, error) {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM trello_comments`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return count, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
