// ABOUTME: Status and config CLI commands
// ABOUTME: Prints sync state plus last run summary, and seeds the board config file
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"time"

	"github.com/harperreed/leadsync/config"
	"github.com/harperreed/leadsync/db"
	"github.com/harperreed/leadsync/sync"
)

// StatusCommand prints the current sync state and the last run's summary.
func StatusCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	_ = fs.Parse(args)

	state, err := db.GetSyncState(database, sync.ServiceTrello)
	if err != nil {
		return fmt.Errorf("failed to read sync state: %w", err)
	}

	if state == nil {
		fmt.Println("No sync has been run yet")
		return nil
	}

	fmt.Printf("Status: %s\n", state.Status)
	if state.LastSyncTime != nil {
		fmt.Printf("Last successful run: %s\n", state.LastSyncTime.Format(time.RFC3339))
	}
	if state.ErrorMessage != nil {
		fmt.Printf("Last error: %s\n", *state.ErrorMessage)
	}

	stats, err := db.GetLastRunLog(database, sync.ServiceTrello)
	if err != nil {
		return fmt.Errorf("failed to read run log: %w", err)
	}
	if stats != nil {
		fmt.Printf("\nLast run %s:\n", stats.RunID)
		fmt.Printf("  Boards: %d seen, %d skipped\n", stats.BoardsSeen, stats.BoardsSkipped)
		fmt.Printf("  Comments: %d\n", stats.CommentsSeen)
		fmt.Printf("  Rows: %d extracted, %d resolved, %d upserted\n", stats.RowsExtracted, stats.RowsResolved, stats.RowsUpserted)
		fmt.Printf("  Batches: %d written, %d failed\n", stats.BatchesWritten, stats.BatchesFailed)
		fmt.Printf("  Duration: %s\n", stats.FinishedAt.Sub(stats.StartedAt).Round(time.Second))
	}

	total, err := db.CountRows(database)
	if err != nil {
		return fmt.Errorf("failed to count rows: %w", err)
	}
	fmt.Printf("\nPersisted contact rows: %d\n", total)

	return nil
}

// InitConfigCommand writes the default board map YAML for editing.
func InitConfigCommand(args []string) error {
	fs := flag.NewFlagSet("init-config", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing config file")
	path := fs.String("path", "", "Config file path (default: XDG config dir)")
	_ = fs.Parse(args)

	target := *path
	if target == "" {
		target = config.BoardsConfigPath()
	}

	if err := config.WriteDefaultBoards(target, *force); err != nil {
		return err
	}

	fmt.Printf("✓ Board config written to %s\n", target)
	return nil
}
