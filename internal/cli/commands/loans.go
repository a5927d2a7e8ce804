package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/libstack-dev/libstack/internal/api"
)

// loansClient is the slice of the API client the loans command needs
type loansClient interface {
	MyLoans(ctx context.Context, cookie string) ([]api.Loan, error)
	MyHistory(ctx context.Context, cookie string, size int) (*api.Page[api.Loan], error)
}

type loansOptions struct {
	client loansClient
	cookie string
	out    io.Writer
}

// LoansOption overrides a loans command dependency, used by tests
type LoansOption func(*loansOptions)

// WithLoansClient sets the API client
func WithLoansClient(client loansClient, cookie string) LoansOption {
	return func(o *loansOptions) {
		o.client = client
		o.cookie = cookie
	}
}

// WithLoansOutput sets the output writer
func WithLoansOutput(out io.Writer) LoansOption {
	return func(o *loansOptions) {
		o.out = out
	}
}

// NewLoansCmd creates the loans command
func NewLoansCmd() *cobra.Command {
	var history bool

	cmd := &cobra.Command{
		Use:   "loans",
		Short: "List your loans",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoans(history)
		},
	}

	cmd.Flags().BoolVar(&history, "history", false, "Show loan history instead of active loans")

	return cmd
}

func runLoans(history bool, opts ...LoansOption) error {
	o := loansOptions{out: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	if o.client == nil {
		apiClient, cookie, err := authenticatedClient()
		if err != nil {
			return err
		}
		o.client = apiClient
		o.cookie = cookie
	}

	var loans []api.Loan
	if history {
		page, err := o.client.MyHistory(context.Background(), o.cookie, 50)
		if err != nil {
			return err
		}
		loans = page.Content
	} else {
		var err error
		loans, err = o.client.MyLoans(context.Background(), o.cookie)
		if err != nil {
			return err
		}
	}

	if len(loans) == 0 {
		fmt.Fprintln(o.out, "No loans found.")
		fmt.Fprintln(o.out, "\nBorrow a book with: libstack borrow <book-id>")
		return nil
	}

	w := tabwriter.NewWriter(o.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BOOK\tAUTHOR\tDUE\tSTATUS\tID")
	fmt.Fprintln(w, "────\t──────\t───\t──────\t──")

	for _, loan := range loans {
		status := loan.Status
		if loan.Overdue {
			status = "OVERDUE"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			loan.BookTitle,
			loan.BookAuthor,
			loan.DueDate.Format("2006-01-02"),
			status,
			loan.ID,
		)
	}

	w.Flush()

	return nil
}
