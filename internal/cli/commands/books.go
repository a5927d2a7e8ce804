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

// booksLister is the slice of the API client the books command needs
type booksLister interface {
	ListBooks(ctx context.Context, cookie string, params api.ListBooksParams) (*api.Page[api.Book], error)
}

type booksOptions struct {
	client booksLister
	cookie string
	out    io.Writer
}

// BooksOption overrides a books command dependency, used by tests
type BooksOption func(*booksOptions)

// WithBooksClient sets the API client
func WithBooksClient(client booksLister, cookie string) BooksOption {
	return func(o *booksOptions) {
		o.client = client
		o.cookie = cookie
	}
}

// WithBooksOutput sets the output writer
func WithBooksOutput(out io.Writer) BooksOption {
	return func(o *booksOptions) {
		o.out = out
	}
}

// NewBooksCmd creates the books command
func NewBooksCmd() *cobra.Command {
	var params api.ListBooksParams

	cmd := &cobra.Command{
		Use:     "books",
		Aliases: []string{"ls"},
		Short:   "List books in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBooks(params)
		},
	}

	cmd.Flags().IntVar(&params.Page, "page", 0, "Page number (starting at 0)")
	cmd.Flags().StringVar(&params.Search, "search", "", "Search by title, author, or ISBN")
	cmd.Flags().StringVar(&params.Category, "category", "", "Filter by category id")

	return cmd
}

func runBooks(params api.ListBooksParams, opts ...BooksOption) error {
	o := booksOptions{out: os.Stdout}
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

	page, err := o.client.ListBooks(context.Background(), o.cookie, params)
	if err != nil {
		return err
	}

	if len(page.Content) == 0 {
		fmt.Fprintln(o.out, "No books found.")
		return nil
	}

	w := tabwriter.NewWriter(o.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tAUTHOR\tCATEGORY\tSTOCK\tAVAILABLE\tID")
	fmt.Fprintln(w, "─────\t──────\t────────\t─────\t─────────\t──")

	for _, book := range page.Content {
		available := "no"
		if book.Available {
			available = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			book.Title,
			book.Author,
			book.CategoryName,
			book.StockQuantity,
			available,
			book.ID,
		)
	}

	w.Flush()

	if page.TotalPages > 1 {
		fmt.Fprintf(o.out, "\nPage %d of %d (%d books)\n", page.Number+1, page.TotalPages, page.TotalElements)
	}

	return nil
}
