// ABOUTME: Entry point for the Trello comment sync service
// ABOUTME: Routes to run/daemon/status/init-config commands with fatal setup-error handling
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/harperreed/leadsync/cli"
	"github.com/harperreed/leadsync/config"
	"github.com/harperreed/leadsync/db"
)

const version = "0.1.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/leadsync/leadsync.db)")

	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("leadsync version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	command := args[0]
	commandArgs := args[1:]

	// init-config needs no database
	if command == "init-config" {
		if err := cli.InitConfigCommand(commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
		return
	}

	finalDBPath := *dbPath
	if finalDBPath == "" {
		finalDBPath = config.DatabasePath()
	}
	database, err := db.OpenDatabase(finalDBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	switch command {
	case "run":
		if err := cli.RunCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "daemon":
		if err := cli.DaemonCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "status":
		if err := cli.StatusCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`leadsync v%s - Trello comment contact sync

USAGE:
  leadsync [global flags] <command> [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/leadsync/leadsync.db)

COMMANDS:
  leadsync run           Run one sync pass
    --since                 Only process comments newer than the last successful run
    --batch-size <n>        Rows per upsert batch (default: 500)
    --boards <path>         Board config YAML path

  leadsync daemon        Run sync passes on a fixed interval
    --interval <dur>        Time between runs (default: 6h, minimum: 1m)
    --since                 Incremental runs (default: true)
    --batch-size <n>        Rows per upsert batch (default: 500)
    --boards <path>         Board config YAML path

  leadsync status        Show sync state and last run summary

  leadsync init-config   Write the default board map for editing
    --path <path>           Config file path
    --force                 Overwrite an existing file

ENVIRONMENT:
  TRELLO_API_KEY         Trello API key (required, .env supported)
  TRELLO_TOKEN           Trello API token (required, .env supported)
  LEADSYNC_DB_PATH       Override the database path
  LEADSYNC_BOARDS_CONFIG Override the board config path

EXAMPLES:
  # One-shot full sync
  leadsync run

  # Incremental sync every 6 hours
  leadsync daemon --interval 6h

  # Inspect the last run
  leadsync status

`, version)
}
