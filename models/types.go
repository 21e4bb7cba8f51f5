// ABOUTME: Data models for the Trello comment sync pipeline
// ABOUTME: Defines ContactEntry, SyncRow, Trello records, and run bookkeeping types
package models

import "time"

// ContactEntry is one contact extracted from a single comment. Unset string
// fields are empty. An entry always carries at least an email or a phone.
type ContactEntry struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Whatsapp    string `json:"whatsapp,omitempty"` // the phone digits, when WhatsApp-capable
	IsAssociate bool   `json:"is_associate"`
}

// SyncRow is one destination-table row: a contact entry enriched with the
// comment, card, list and board it came from.
type SyncRow struct {
	CommentID     string `json:"comment_id"`
	CardID        string `json:"card_id"`
	ListID        string `json:"list_id"`
	BoardID       string `json:"board_id"`
	ListName      string `json:"list_name"`
	CardName      string `json:"card_name"`
	CardURL       string `json:"card_url"`
	CommentAuthor string `json:"comment_author"`
	CommentDate   string `json:"comment_date,omitempty"` // YYYY-MM-DD
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Whatsapp      string `json:"whatsapp,omitempty"`
	IsAssociate   bool   `json:"is_associate"`
	CampaignType  string `json:"campaign_type,omitempty"`
}

// Board is the minimal board record fetched from Trello.
type Board struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Closed bool   `json:"closed"`
}

// List is a column on a board. Archived lists carry Closed=true.
type List struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Closed bool   `json:"closed"`
}

// Card is the card metadata needed to contextualize its comments.
type Card struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortLink string `json:"shortLink"`
	ListID    string `json:"idList"`
	Closed    bool   `json:"closed"`
}

// Comment is one commentCard action, flattened from the Trello action payload.
type Comment struct {
	ID            string
	Date          string // ISO-8601 as returned by the API
	Text          string
	AuthorName    string
	CardID        string
	CardName      string // from the action payload, fallback when the card index has none
	CardShortLink string
}

// Sync status constants.
const (
	SyncStatusIdle    = "idle"
	SyncStatusSyncing = "syncing"
	SyncStatusError   = "error"
)

// SyncStats summarizes one sync run.
type SyncStats struct {
	RunID          string
	BoardsSeen     int
	BoardsSkipped  int
	CommentsSeen   int
	RowsExtracted  int
	RowsResolved   int
	RowsUpserted   int
	BatchesWritten int
	BatchesFailed  int
	StartedAt      time.Time
	FinishedAt     time.Time
}
