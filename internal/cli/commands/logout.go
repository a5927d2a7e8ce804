package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/libstack-dev/libstack/internal/api"
	"github.com/libstack-dev/libstack/internal/cli/credentials"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout()
		},
	}
}

func runLogout() error {
	creds, err := credentials.Load()
	if err != nil {
		return err
	}

	// Best effort toward the backend; the stored session is cleared no
	// matter what.
	if creds.Cookie != "" && creds.BackendURL != "" {
		apiClient := api.New(creds.BackendURL)
		if err := apiClient.Logout(context.Background(), creds.Cookie); err != nil {
			fmt.Printf("Warning: backend logout failed: %v\n", err)
		}
	}

	if err := credentials.Clear(); err != nil {
		return err
	}

	fmt.Println("Logged out.")
	return nil
}
