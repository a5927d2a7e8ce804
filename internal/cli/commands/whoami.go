package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami()
		},
	}
}

func runWhoami() error {
	apiClient, cookie, err := authenticatedClient()
	if err != nil {
		return err
	}

	user, err := apiClient.CurrentUser(context.Background(), cookie)
	if err != nil {
		return fmt.Errorf("%s", notAuthenticated)
	}

	fmt.Printf("%s <%s> (%s)\n", user.Name, user.Email, user.Role)
	return nil
}
