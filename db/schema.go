// ABOUTME: Database schema definitions
// ABOUTME: Handles SQLite table creation for the comment-contact table and run state
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS trello_comments (
	comment_id TEXT NOT NULL,
	card_id TEXT NOT NULL,
	list_id TEXT NOT NULL,
	board_id TEXT NOT NULL,
	list_name TEXT,
	card_name TEXT,
	card_url TEXT,
	comment_author TEXT,
	comment_date DATE,
	name TEXT,
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	whatsapp TEXT,
	is_associate INTEGER NOT NULL DEFAULT 0,
	campaign_type TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	PRIMARY KEY (comment_id, email, phone)
);

CREATE INDEX IF NOT EXISTS idx_trello_comments_board_id ON trello_comments(board_id);
CREATE INDEX IF NOT EXISTS idx_trello_comments_campaign ON trello_comments(campaign_type);
CREATE INDEX IF NOT EXISTS idx_trello_comments_whatsapp ON trello_comments(whatsapp);

CREATE TABLE IF NOT EXISTS sync_state (
	service TEXT PRIMARY KEY,
	last_sync_time DATETIME,
	status TEXT NOT NULL DEFAULT 'idle',
	error_message TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sync_log (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	service TEXT NOT NULL,
	boards_seen INTEGER NOT NULL DEFAULT 0,
	boards_skipped INTEGER NOT NULL DEFAULT 0,
	comments_seen INTEGER NOT NULL DEFAULT 0,
	rows_extracted INTEGER NOT NULL DEFAULT 0,
	rows_resolved INTEGER NOT NULL DEFAULT 0,
	rows_upserted INTEGER NOT NULL DEFAULT 0,
	batches_written INTEGER NOT NULL DEFAULT 0,
	batches_failed INTEGER NOT NULL DEFAULT 0,
	started_at DATETIME NOT NULL,
	finished_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sync_log_run_id ON sync_log(run_id);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
