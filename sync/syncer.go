// ABOUTME: Sync orchestrator driving the board → comment → row pipeline
// ABOUTME: Accumulates rows, resolves conflicts, and persists batches with run bookkeeping
package sync

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/harperreed/leadsync/config"
	"github.com/harperreed/leadsync/db"
	"github.com/harperreed/leadsync/extract"
	"github.com/harperreed/leadsync/models"
	"github.com/harperreed/leadsync/trello"
)

const (
	// ServiceTrello is the sync_state service name for this pipeline.
	ServiceTrello = "trello"

	defaultBatchSize = 500
	progressEvery    = 200
)

// Syncer runs one sequential sync pass: every configured board's comments
// through extraction, classification, conflict resolution, and batched
// upserts. It owns the row accumulator and metadata caches for the run.
type Syncer struct {
	db          *sql.DB
	client      *trello.Client
	boards      []config.BoardConfig
	batchSize   int
	incremental bool
}

// Options tunes a Syncer.
type Options struct {
	// BatchSize caps rows per upsert request. Defaults to 500.
	BatchSize int

	// Incremental filters comments to those newer than the last successful
	// run start recorded in sync_state. Known gap inherited from the
	// timestamp-cutoff design: rows whose batch failed to write in an
	// earlier run are not re-derived once the cutoff passes their comments.
	Incremental bool
}

func NewSyncer(database *sql.DB, client *trello.Client, boards []config.BoardConfig, opts Options) *Syncer {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Syncer{
		db:          database,
		client:      client,
		boards:      boards,
		batchSize:   batchSize,
		incremental: opts.Incremental,
	}
}

// Run executes one sync pass. Per-board and per-comment failures are logged
// and skipped; Run returns an error only when the run cannot proceed at all
// (sync-state bookkeeping failure or context cancellation).
func (s *Syncer) Run(ctx context.Context) (*models.SyncStats, error) {
	stats := &models.SyncStats{
		RunID:     ulid.Make().String(),
		StartedAt: time.Now().UTC(),
	}

	fmt.Println("Syncing Trello comments...")
	if err := db.UpdateSyncStatus(s.db, ServiceTrello, models.SyncStatusSyncing, nil); err != nil {
		return nil, fmt.Errorf("failed to update sync status: %w", err)
	}

	var cutoff *time.Time
	if s.incremental {
		state, err := db.GetSyncState(s.db, ServiceTrello)
		if err != nil {
			return nil, s.failRun(stats, fmt.Errorf("failed to read sync state: %w", err))
		}
		if state != nil && state.LastSyncTime != nil {
			cutoff = state.LastSyncTime
			fmt.Printf("  → Incremental sync: comments after %s\n", cutoff.Format(time.RFC3339))
		}
	}

	cache := newMetadataCache(s.client)
	var rows []models.SyncRow

	for _, board := range s.boards {
		stats.BoardsSeen++
		boardRows, err := s.processBoard(ctx, cache, board, cutoff, stats)
		if err != nil {
			if ctx.Err() != nil {
				return nil, s.failRun(stats, ctx.Err())
			}
			log.Printf("Error processing board %s: %v", board.ID, err)
			continue
		}
		rows = append(rows, boardRows...)
	}

	stats.RowsExtracted = len(rows)
	resolved := Resolve(rows)
	stats.RowsResolved = len(resolved)
	if removed := len(rows) - len(resolved); removed > 0 {
		fmt.Printf("  → Resolved %d rows globally (%d removed)\n", len(resolved), removed)
	}

	if len(resolved) > 0 {
		written, failed, upserted := s.persistBatches(resolved)
		stats.BatchesWritten = written
		stats.BatchesFailed = failed
		stats.RowsUpserted = upserted
	}

	stats.FinishedAt = time.Now().UTC()
	if err := db.CreateRunLog(s.db, ServiceTrello, stats); err != nil {
		log.Printf("Warning: failed to record run log: %v", err)
	}

	if stats.BatchesFailed > 0 {
		// Cutoff stays put so a future full run can re-derive the dropped rows.
		msg := fmt.Sprintf("%d of %d batches failed", stats.BatchesFailed, stats.BatchesWritten+stats.BatchesFailed)
		if err := db.UpdateSyncStatus(s.db, ServiceTrello, models.SyncStatusError, &msg); err != nil {
			log.Printf("Warning: failed to update sync status: %v", err)
		}
	} else if err := db.MarkSyncComplete(s.db, ServiceTrello, stats.StartedAt); err != nil {
		log.Printf("Warning: failed to mark sync complete: %v", err)
	}

	s.printSummary(stats)
	return stats, nil
}

func (s *Syncer) failRun(stats *models.SyncStats, cause error) error {
	msg := cause.Error()
	_ = db.UpdateSyncStatus(s.db, ServiceTrello, models.SyncStatusError, &msg)
	stats.FinishedAt = time.Now().UTC()
	return cause
}

// processBoard turns one board's comments into sync rows. Archived boards,
// cards, and lists are excluded entirely, along with everything under them.
func (s *Syncer) processBoard(ctx context.Context, cache *metadataCache, boardCfg config.BoardConfig, cutoff *time.Time, stats *models.SyncStats) ([]models.SyncRow, error) {
	board := cache.boardInfo(ctx, boardCfg.ID)
	if board.Closed {
		log.Printf("Board %s is archived — skipping", boardCfg.ID)
		stats.BoardsSkipped++
		return nil, nil
	}

	log.Printf("Processing board %s", boardCfg.ID)

	if err := cache.preloadLists(ctx, boardCfg.ID); err != nil {
		// Lists fall back to single fetches below.
		log.Printf("Error preloading lists for board %s: %v", boardCfg.ID, err)
	}

	comments, err := s.client.FetchAllComments(ctx, boardCfg.ID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		log.Printf("Error fetching comments for board %s: %v (continuing with %d fetched)", boardCfg.ID, err, len(comments))
	}
	if len(comments) == 0 {
		return nil, nil
	}

	referenced := make(map[string]bool, len(comments))
	for _, comment := range comments {
		if comment.CardID != "" {
			referenced[comment.CardID] = true
		}
	}

	cardIndex, err := cache.indexCards(ctx, boardCfg.ID, referenced)
	if err != nil {
		return nil, fmt.Errorf("failed to index cards: %w", err)
	}

	var rows []models.SyncRow
	total := len(comments)

	for i, comment := range comments {
		if (i+1)%progressEvery == 0 {
			fmt.Printf("  → Processed %d/%d comments...\n", i+1, total)
		}
		stats.CommentsSeen++

		if cutoff != nil {
			if ts, err := time.Parse(time.RFC3339, comment.Date); err == nil && !ts.After(*cutoff) {
				continue
			}
		}

		if comment.CardID == "" {
			continue
		}
		card, ok := cardIndex[comment.CardID]
		if !ok {
			// Card moved boards or is unreadable; no context, skip.
			continue
		}
		if card.Closed || card.ListID == "" {
			continue
		}

		list := cache.listInfo(ctx, card.ListID)
		if list.Closed {
			continue
		}

		entries := extract.DedupeEntries(extract.Extract(comment.Text))
		if len(entries) == 0 {
			continue
		}

		cardName := card.Name
		if cardName == "" {
			cardName = comment.CardName
		}
		shortLink := card.ShortLink
		if shortLink == "" {
			shortLink = comment.CardShortLink
		}

		campaign := boardCfg.CampaignFor(list.ID)
		day := commentDay(comment.Date)

		for _, entry := range entries {
			rows = append(rows, models.NewRowBuilder().
				Comment(comment.ID, comment.AuthorName, day).
				Card(comment.CardID, cardName, trello.CardURL(shortLink)).
				List(list.ID, list.Name).
				Board(boardCfg.ID).
				Contact(entry).
				Campaign(campaign).
				Build())
		}
	}

	return rows, nil
}

// persistBatches writes the resolved rows in fixed-size batches, re-resolving
// each batch before its upsert. Failed batches are logged and dropped, never
// retried within the run.
func (s *Syncer) persistBatches(rows []models.SyncRow) (written, failed, upserted int) {
	return persistBatches(rows, s.batchSize, func(batch []models.SyncRow) error {
		return db.UpsertRows(s.db, batch)
	})
}

func persistBatches(rows []models.SyncRow, batchSize int, upsert func([]models.SyncRow) error) (written, failed, upserted int) {
	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		batchNum := start/batchSize + 1

		batch := Resolve(rows[start:end])
		if removed := (end - start) - len(batch); removed > 0 {
			log.Printf("Batch %d: %d -> %d rows after resolve", batchNum, end-start, len(batch))
		}

		if err := upsert(batch); err != nil {
			log.Printf("Error upserting batch %d (%d rows): %v — batch dropped", batchNum, len(batch), err)
			failed++
			continue
		}
		written++
		upserted += len(batch)
	}
	return written, failed, upserted
}

func (s *Syncer) printSummary(stats *models.SyncStats) {
	if stats.RowsUpserted == 0 && stats.BatchesFailed == 0 {
		fmt.Println("  ✓ No new rows to upsert")
		return
	}
	fmt.Printf("\n  → Processed %d comments across %d boards\n", stats.CommentsSeen, stats.BoardsSeen-stats.BoardsSkipped)
	fmt.Printf("  ✓ Upserted %d rows in %d batches\n", stats.RowsUpserted, stats.BatchesWritten)
	if stats.BatchesFailed > 0 {
		fmt.Printf("  ✗ %d batches failed and were dropped\n", stats.BatchesFailed)
	}
}

// commentDay truncates an ISO-8601 action timestamp to day precision.
// Unparseable dates degrade to empty, which sorts lowest in resolution.
func commentDay(raw string) string {
	if raw == "" {
		return ""
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return ""
	}
	return ts.UTC().Format("2006-01-02")
}
