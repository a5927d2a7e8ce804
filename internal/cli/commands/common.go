package commands

import (
	"fmt"

	"github.com/libstack-dev/libstack/internal/api"
	"github.com/libstack-dev/libstack/internal/cli/credentials"
)

// notAuthenticated is the uniform hint for commands that need a session
const notAuthenticated = "not authenticated. Please run 'libstack login' first"

// authenticatedClient builds an API client from the stored session.
// This is common logic used by every command except login.
func authenticatedClient() (*api.Client, string, error) {
	creds, err := credentials.Load()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load session: %w", err)
	}

	if creds.Cookie == "" || creds.BackendURL == "" {
		return nil, "", fmt.Errorf("%s", notAuthenticated)
	}

	return api.New(creds.BackendURL), creds.Cookie, nil
}
