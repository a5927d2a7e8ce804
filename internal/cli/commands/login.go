package commands

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/libstack-dev/libstack/internal/api"
	"github.com/libstack-dev/libstack/internal/cli/credentials"
)

const defaultBackendURL = "http://localhost:8080"

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var serverURL, email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with a LibStack server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(serverURL, email, password)
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "Backend URL (or set LIBSTACK_SERVER)")
	cmd.Flags().StringVar(&email, "email", "", "Email address (or set LIBSTACK_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set LIBSTACK_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(serverURL, email, password string) error {
	// Environment fallbacks, useful for CI
	if serverURL == "" {
		serverURL = os.Getenv("LIBSTACK_SERVER")
	}
	if serverURL == "" {
		serverURL = defaultBackendURL
	}
	if email == "" {
		email = os.Getenv("LIBSTACK_EMAIL")
	}
	if password == "" {
		password = os.Getenv("LIBSTACK_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or LIBSTACK_EMAIL env var)")
	}

	if password == "" {
		fmt.Print("Password: ")
		passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = string(passwordBytes)
	}

	apiClient := api.New(serverURL)

	user, cookie, err := apiClient.Login(context.Background(), email, password)
	if err != nil {
		return fmt.Errorf("login failed: %s", api.ErrorMessage(err, err.Error()))
	}

	if err := credentials.Save(&credentials.Credentials{
		BackendURL: serverURL,
		Cookie:     cookie,
	}); err != nil {
		return err
	}

	fmt.Printf("Logged in as %s <%s>\n", user.Name, user.Email)
	return nil
}
