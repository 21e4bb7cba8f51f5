// ABOUTME: SyncRow construction and conflict-key derivation
// ABOUTME: RowBuilder guarantees every destination column is populated before write
package models

import "strings"

// ConflictKey is the destination table's conflict column tuple. Email is
// compared lowercase; unset email/phone normalize to the empty string.
type ConflictKey struct {
	CommentID string
	Email     string
	Phone     string
}

// ConflictKey returns the normalized conflict key for the row.
func (r SyncRow) ConflictKey() ConflictKey {
	return ConflictKey{
		CommentID: r.CommentID,
		Email:     strings.ToLower(r.Email),
		Phone:     r.Phone,
	}
}

// RowBuilder assembles a SyncRow from its comment, card, list and contact
// parts. Rows are only ever created through the builder so the destination
// write always sees the full column set.
type RowBuilder struct {
	row SyncRow
}

func NewRowBuilder() *RowBuilder {
	return &RowBuilder{}
}

// Comment sets the comment identity and denormalized context. date must
// already be truncated to day precision (YYYY-MM-DD), or empty when unknown.
func (b *RowBuilder) Comment(id, author, date string) *RowBuilder {
	b.row.CommentID = id
	b.row.CommentAuthor = author
	b.row.CommentDate = date
	return b
}

func (b *RowBuilder) Card(id, name, url string) *RowBuilder {
	b.row.CardID = id
	b.row.CardName = name
	b.row.CardURL = url
	return b
}

func (b *RowBuilder) List(id, name string) *RowBuilder {
	b.row.ListID = id
	b.row.ListName = name
	return b
}

func (b *RowBuilder) Board(id string) *RowBuilder {
	b.row.BoardID = id
	return b
}

// Contact copies the extracted entry's fields onto the row.
func (b *RowBuilder) Contact(e ContactEntry) *RowBuilder {
	b.row.Name = e.Name
	b.row.Email = e.Email
	b.row.Phone = e.Phone
	b.row.Whatsapp = e.Whatsapp
	b.row.IsAssociate = e.IsAssociate
	return b
}

func (b *RowBuilder) Campaign(campaignType string) *RowBuilder {
	b.row.CampaignType = campaignType
	return b
}

func (b *RowBuilder) Build() SyncRow {
	return b.row
}
