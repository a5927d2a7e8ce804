package commands

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/libstack-dev/libstack/internal/api"
)

type mockBooksLister struct {
	page   *api.Page[api.Book]
	err    error
	params api.ListBooksParams
	cookie string
}

func (m *mockBooksLister) ListBooks(ctx context.Context, cookie string, params api.ListBooksParams) (*api.Page[api.Book], error) {
	m.cookie = cookie
	m.params = params
	return m.page, m.err
}

func TestRunBooksTable(t *testing.T) {
	mock := &mockBooksLister{
		page: &api.Page[api.Book]{
			Content: []api.Book{
				{ID: "b1", Title: "The Hobbit", Author: "J.R.R. Tolkien", CategoryName: "Fantasy", StockQuantity: 5, Available: true},
				{ID: "b2", Title: "Dune", Author: "Frank Herbert", CategoryName: "Sci-Fi", StockQuantity: 2, Available: false},
			},
			TotalPages: 1,
		},
	}

	var out bytes.Buffer
	err := runBooks(api.ListBooksParams{Search: "the"}, WithBooksClient(mock, "JSESSIONID=abc"), WithBooksOutput(&out))
	if err != nil {
		t.Fatalf("runBooks failed: %v", err)
	}

	if mock.cookie != "JSESSIONID=abc" {
		t.Errorf("unexpected cookie: %q", mock.cookie)
	}
	if mock.params.Search != "the" {
		t.Errorf("unexpected params: %+v", mock.params)
	}

	output := out.String()
	for _, want := range []string{"TITLE", "The Hobbit", "J.R.R. Tolkien", "Dune", "yes", "no", "b1"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
	if strings.Contains(output, "Page 1 of") {
		t.Errorf("page footer shown for single page:\n%s", output)
	}
}

func TestRunBooksEmpty(t *testing.T) {
	mock := &mockBooksLister{page: &api.Page[api.Book]{}}

	var out bytes.Buffer
	if err := runBooks(api.ListBooksParams{}, WithBooksClient(mock, ""), WithBooksOutput(&out)); err != nil {
		t.Fatalf("runBooks failed: %v", err)
	}

	if !strings.Contains(out.String(), "No books found.") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestRunBooksPageFooter(t *testing.T) {
	mock := &mockBooksLister{
		page: &api.Page[api.Book]{
			Content:       []api.Book{{ID: "b1", Title: "The Hobbit", Author: "J.R.R. Tolkien"}},
			Number:        1,
			TotalPages:    3,
			TotalElements: 25,
		},
	}

	var out bytes.Buffer
	if err := runBooks(api.ListBooksParams{Page: 1}, WithBooksClient(mock, ""), WithBooksOutput(&out)); err != nil {
		t.Fatalf("runBooks failed: %v", err)
	}

	if !strings.Contains(out.String(), "Page 2 of 3 (25 books)") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestRunBooksError(t *testing.T) {
	mock := &mockBooksLister{err: errors.New("connection refused")}

	var out bytes.Buffer
	err := runBooks(api.ListBooksParams{}, WithBooksClient(mock, ""), WithBooksOutput(&out))
	if err == nil {
		t.Fatal("expected error")
	}
}
