// ABOUTME: Credential loading and default paths for the sync service
// ABOUTME: Reads Trello API credentials from .env / environment with XDG data paths
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

// Credentials holds the Trello API key/token pair.
type Credentials struct {
	APIKey string
	Token  string
}

// LoadCredentials reads Trello credentials from the environment, loading a
// .env file first when one is present in the working directory. Missing
// credentials are a fatal setup error for the caller.
func LoadCredentials() (*Credentials, error) {
	// .env is optional; real environments set the variables directly
	_ = godotenv.Load()

	creds := &Credentials{
		APIKey: os.Getenv("TRELLO_API_KEY"),
		Token:  os.Getenv("TRELLO_TOKEN"),
	}

	if creds.APIKey == "" || creds.Token == "" {
		return nil, fmt.Errorf("TRELLO_API_KEY and TRELLO_TOKEN must be set (via environment or .env)")
	}

	return creds, nil
}

// DatabasePath returns the SQLite destination path: LEADSYNC_DB_PATH when
// set, otherwise the XDG data directory default.
func DatabasePath() string {
	if path := os.Getenv("LEADSYNC_DB_PATH"); path != "" {
		return path
	}
	return filepath.Join(xdg.DataHome, "leadsync", "leadsync.db")
}

// BoardsConfigPath returns the board map YAML path: LEADSYNC_BOARDS_CONFIG
// when set, otherwise the XDG config directory default.
func BoardsConfigPath() string {
	if path := os.Getenv("LEADSYNC_BOARDS_CONFIG"); path != "" {
		return path
	}
	return filepath.Join(xdg.ConfigHome, "leadsync", "boards.yaml")
}
