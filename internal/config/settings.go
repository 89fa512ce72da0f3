package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultPort is the port the HTTP API listens on when nothing else is configured
const DefaultPort = 3000

// Settings represents the structure of ~/.worklog/settings.json
type Settings struct {
	DBPath      string `json:"db_path,omitempty"`
	Debug       *bool  `json:"debug,omitempty"`
	Host        string `json:"host,omitempty"`
	MaxLogFiles *int   `json:"max_log_files,omitempty"`
	Port        *int   `json:"port,omitempty"`
}

// LoadSettings loads settings from ~/.worklog/settings.json.
// Returns empty Settings if the file doesn't exist (not an error).
func LoadSettings() (*Settings, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	path := filepath.Join(homeDir, ".worklog", "settings.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil // Not an error, use defaults
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	return &settings, nil
}

// GetDBPath returns the database path, preferring the settings value
func (s *Settings) GetDBPath() string {
	if s != nil && s.DBPath != "" {
		return ExpandPath(s.DBPath)
	}
	return "~/.worklog/worklog.db"
}

// ExpandPath expands ~ to the home directory in paths
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if len(path) == 1 {
			return homeDir
		}
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
