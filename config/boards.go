// ABOUTME: Board-to-campaign configuration and classification
// ABOUTME: YAML board map with compiled-in production defaults and per-list overrides
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// BoardConfig maps one board to its campaign classification rules. A list
// present in Lists overrides the board default; any other list gets Campaign.
type BoardConfig struct {
	ID       string            `yaml:"id"`
	Campaign string            `yaml:"campaign"`
	Lists    map[string]string `yaml:"lists,omitempty"`
}

// CampaignFor classifies a list on this board.
func (b BoardConfig) CampaignFor(listID string) string {
	if campaign, ok := b.Lists[listID]; ok {
		return campaign
	}
	return b.Campaign
}

type boardsFile struct {
	Boards []BoardConfig `yaml:"boards"`
}

// DefaultBoards returns the production board set. Order matters: boards are
// processed in configuration order.
func DefaultBoards() []BoardConfig {
	return []BoardConfig{
		{
			ID:       "kFrWQqjm",
			Campaign: "nutrição",
			Lists: map[string]string{
				"677ee6e1d3a3184d7a9e3a48": "higienização",
			},
		},
		{ID: "tXcXz9Pl", Campaign: "nutrição"},
		{ID: "WXyXBHeb", Campaign: "nutrição"},
		{ID: "e30OHAsU", Campaign: "nutrição"},
	}
}

// LoadBoards reads the board map from the YAML file at path, falling back to
// the compiled-in defaults when the file does not exist.
func LoadBoards(path string) ([]BoardConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultBoards(), nil
		}
		return nil, fmt.Errorf("failed to read boards config: %w", err)
	}

	var file boardsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse boards config: %w", err)
	}

	if len(file.Boards) == 0 {
		return nil, fmt.Errorf("boards config %s defines no boards", path)
	}
	for _, board := range file.Boards {
		if board.ID == "" {
			return nil, fmt.Errorf("boards config %s contains a board without an id", path)
		}
		if board.Campaign == "" {
			return nil, fmt.Errorf("board %s has no default campaign", board.ID)
		}
	}

	return file.Boards, nil
}

// WriteDefaultBoards writes the compiled-in board map to path for editing.
// Refuses to overwrite an existing file unless force is set.
func WriteDefaultBoards(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(boardsFile{Boards: DefaultBoards()})
	if err != nil {
		return fmt.Errorf("failed to marshal boards config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write boards config: %w", err)
	}

	return nil
}
