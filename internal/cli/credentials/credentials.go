// Package credentials persists the CLI's backend session between runs in
// ~/.config/libstack/session.json. The stored credential is the backend's
// own session cookie, scoped to the backend URL it was issued by.
package credentials

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	configDirName   = "libstack"
	sessionFileName = "session.json"
)

// Credentials represents the stored backend session
type Credentials struct {
	BackendURL string `json:"backend_url"`
	Cookie     string `json:"cookie"`
}

// Path returns the path to the session file
func Path() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", configDirName, sessionFileName), nil
}

// Load reads the stored session. A missing file yields empty credentials.
func Load() (*Credentials, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Credentials{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	return &creds, nil
}

// Save writes the session to disk. The file is user-readable only since it
// holds a live session cookie.
func Save(creds *Credentials) error {
	path, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Clear removes the stored session. Clearing an absent session is not an
// error.
func Clear() error {
	path, err := Path()
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}

	return nil
}
