package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/libstack-dev/libstack/internal/api"
)

// NewBorrowCmd creates the borrow command
func NewBorrowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "borrow <book-id>",
		Short: "Borrow a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBorrow(args[0])
		},
	}
}

func runBorrow(bookID string) error {
	apiClient, cookie, err := authenticatedClient()
	if err != nil {
		return err
	}

	loan, err := apiClient.Borrow(context.Background(), cookie, bookID)
	if err != nil {
		return fmt.Errorf("%s", api.ErrorMessage(err, "Failed to borrow book"))
	}

	fmt.Printf("Borrowed %q by %s. Due %s.\n", loan.BookTitle, loan.BookAuthor, loan.DueDate.Format("2006-01-02"))
	return nil
}
