// ABOUTME: Sync CLI commands for one-shot and periodic runs
// ABOUTME: Wires credentials, board config, Trello client, and the syncer together
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/harperreed/leadsync/config"
	"github.com/harperreed/leadsync/sync"
	"github.com/harperreed/leadsync/trello"
)

const minDaemonInterval = time.Minute

// RunCommand performs a single sync pass.
func RunCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	incremental := fs.Bool("since", false, "Only process comments newer than the last successful run")
	batchSize := fs.Int("batch-size", 0, "Rows per upsert batch (default: 500)")
	boardsPath := fs.String("boards", "", "Board config YAML path (default: XDG config dir)")
	_ = fs.Parse(args)

	syncer, err := buildSyncer(database, *boardsPath, sync.Options{
		BatchSize:   *batchSize,
		Incremental: *incremental,
	})
	if err != nil {
		return err
	}

	_, err = syncer.Run(context.Background())
	return err
}

// DaemonCommand runs sync passes on a fixed interval until interrupted.
func DaemonCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("daemon", flag.ExitOnError)
	interval := fs.Duration("interval", 6*time.Hour, "Time between sync runs")
	incremental := fs.Bool("since", true, "Only process comments newer than the last successful run")
	batchSize := fs.Int("batch-size", 0, "Rows per upsert batch (default: 500)")
	boardsPath := fs.String("boards", "", "Board config YAML path (default: XDG config dir)")
	_ = fs.Parse(args)

	if *interval < minDaemonInterval {
		return fmt.Errorf("interval %s is below the minimum of %s", *interval, minDaemonInterval)
	}

	syncer, err := buildSyncer(database, *boardsPath, sync.Options{
		BatchSize:   *batchSize,
		Incremental: *incremental,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting sync daemon (interval: %s)\n", *interval)

	// First pass immediately, then on every tick. A failed pass is logged
	// and the daemon keeps its schedule.
	if _, err := syncer.Run(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		log.Printf("Sync run failed: %v", err)
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nShutting down sync daemon")
			return nil
		case <-ticker.C:
			if _, err := syncer.Run(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.Printf("Sync run failed: %v", err)
			}
		}
	}
}

// buildSyncer assembles a Syncer from credentials and board configuration.
// Credential or config failures here are fatal setup errors.
func buildSyncer(database *sql.DB, boardsPath string, opts sync.Options) (*sync.Syncer, error) {
	creds, err := config.LoadCredentials()
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	if boardsPath == "" {
		boardsPath = config.BoardsConfigPath()
	}
	boards, err := config.LoadBoards(boardsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load board config: %w", err)
	}

	client := trello.NewClient(trello.Config{
		APIKey: creds.APIKey,
		Token:  creds.Token,
	})

	return sync.NewSyncer(database, client, boards, opts), nil
}
