package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/libstack-dev/libstack/internal/api"
)

// NewReturnCmd creates the return command
func NewReturnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "return <loan-id>",
		Short: "Return a borrowed book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReturn(args[0])
		},
	}
}

func runReturn(loanID string) error {
	apiClient, cookie, err := authenticatedClient()
	if err != nil {
		return err
	}

	loan, err := apiClient.Return(context.Background(), cookie, loanID)
	if err != nil {
		return fmt.Errorf("%s", api.ErrorMessage(err, "Failed to return book"))
	}

	fmt.Printf("Returned %q. Thanks!\n", loan.BookTitle)
	return nil
}
