// ABOUTME: Batch-wide conflict resolution for sync rows
// ABOUTME: Keeps one row per conflict key using the whatsapp/date/index priority score
package sync

import (
	"github.com/harperreed/leadsync/models"
)

// resolutionScore orders competing rows for one conflict key. Compared
// field by field; higher wins. Index is the original position, so later
// occurrences win ties.
type resolutionScore struct {
	whatsapp int    // 1 when the row has a whatsapp number
	date     string // YYYY-MM-DD, lexicographic = chronological, "" lowest
	index    int
}

func (s resolutionScore) beats(other resolutionScore) bool {
	if s.whatsapp != other.whatsapp {
		return s.whatsapp > other.whatsapp
	}
	if s.date != other.date {
		return s.date > other.date
	}
	return s.index > other.index
}

// Resolve collapses rows sharing a conflict key down to the highest-scoring
// one. Output order is the first-occurrence order of each surviving key, so
// the result is deterministic for any input order and Resolve is idempotent.
// Applied once globally and once more per persistence batch: the destination
// upsert only deduplicates across requests, not within one.
func Resolve(rows []models.SyncRow) []models.SyncRow {
	if len(rows) == 0 {
		return nil
	}

	type winner struct {
		row   models.SyncRow
		score resolutionScore
	}

	keep := make(map[models.ConflictKey]winner, len(rows))
	order := make([]models.ConflictKey, 0, len(rows))

	for i, row := range rows {
		key := row.ConflictKey()
		score := resolutionScore{date: row.CommentDate, index: i}
		if row.Whatsapp != "" {
			score.whatsapp = 1
		}

		current, exists := keep[key]
		if !exists {
			order = append(order, key)
			keep[key] = winner{row: row, score: score}
			continue
		}
		if score.beats(current.score) {
			keep[key] = winner{row: row, score: score}
		}
	}

	resolved := make([]models.SyncRow, 0, len(order))
	for _, key := range order {
		resolved = append(resolved, keep[key].row)
	}
	return resolved
}
