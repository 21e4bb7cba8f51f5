// ABOUTME: Intra-comment deduplication of extracted contact entries
// ABOUTME: Collapses structurally identical entries produced by one extraction call
package extract

import (
	"strconv"
	"strings"

	"github.com/harperreed/leadsync/models"
)

const unsetSentinel = "<nil>"

// DedupeEntries removes exact duplicates from a single comment's extracted
// entries. First occurrence wins; within one comment duplicates are
// structurally identical, not competing records. Idempotent.
func DedupeEntries(entries []models.ContactEntry) []models.ContactEntry {
	if len(entries) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(entries))
	var unique []models.ContactEntry
	for _, entry := range entries {
		key := dedupeKey(entry)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, entry)
	}
	return unique
}

func dedupeKey(e models.ContactEntry) string {
	return strings.Join([]string{
		orSentinel(e.Email),
		orSentinel(e.Phone),
		orSentinel(e.Whatsapp),
		strconv.FormatBool(e.IsAssociate),
	}, "-")
}

func orSentinel(s string) string {
	if s == "" {
		return unsetSentinel
	}
	return s
}
