package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/libstack-dev/libstack/internal/api"
)

type mockLoansClient struct {
	loans       []api.Loan
	history     *api.Page[api.Loan]
	historySize int
}

func (m *mockLoansClient) MyLoans(ctx context.Context, cookie string) ([]api.Loan, error) {
	return m.loans, nil
}

func (m *mockLoansClient) MyHistory(ctx context.Context, cookie string, size int) (*api.Page[api.Loan], error) {
	m.historySize = size
	return m.history, nil
}

func TestRunLoansActive(t *testing.T) {
	due := api.Time{Time: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)}
	mock := &mockLoansClient{
		loans: []api.Loan{
			{ID: "l1", BookTitle: "The Hobbit", BookAuthor: "J.R.R. Tolkien", DueDate: due, Status: api.LoanActive},
			{ID: "l2", BookTitle: "Dune", BookAuthor: "Frank Herbert", DueDate: due, Status: api.LoanActive, Overdue: true},
		},
	}

	var out bytes.Buffer
	if err := runLoans(false, WithLoansClient(mock, ""), WithLoansOutput(&out)); err != nil {
		t.Fatalf("runLoans failed: %v", err)
	}

	output := out.String()
	for _, want := range []string{"BOOK", "The Hobbit", "2026-04-01", "ACTIVE", "OVERDUE"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestRunLoansHistory(t *testing.T) {
	mock := &mockLoansClient{
		history: &api.Page[api.Loan]{
			Content: []api.Loan{
				{ID: "l3", BookTitle: "Dune", BookAuthor: "Frank Herbert", Status: api.LoanReturned},
			},
		},
	}

	var out bytes.Buffer
	if err := runLoans(true, WithLoansClient(mock, ""), WithLoansOutput(&out)); err != nil {
		t.Fatalf("runLoans failed: %v", err)
	}

	if mock.historySize != 50 {
		t.Errorf("unexpected history page size: %d", mock.historySize)
	}
	if !strings.Contains(out.String(), "RETURNED") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestRunLoansEmpty(t *testing.T) {
	mock := &mockLoansClient{}

	var out bytes.Buffer
	if err := runLoans(false, WithLoansClient(mock, ""), WithLoansOutput(&out)); err != nil {
		t.Fatalf("runLoans failed: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "No loans found.") {
		t.Errorf("unexpected output:\n%s", output)
	}
	if !strings.Contains(output, "libstack borrow <book-id>") {
		t.Errorf("missing borrow hint:\n%s", output)
	}
}
