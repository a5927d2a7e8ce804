package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Loan statuses as reported by the backend
const (
	LoanActive   = "ACTIVE"
	LoanReturned = "RETURNED"
)

// Time wraps time.Time to accept the backend's timestamp formats: RFC 3339,
// zone-less date-times, and bare dates.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// MarshalJSON implements json.Marshaler
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}

// Loan represents a book loan as returned by the backend
type Loan struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	UserName     string `json:"userName"`
	BookID       string `json:"bookId"`
	BookTitle    string `json:"bookTitle"`
	BookAuthor   string `json:"bookAuthor"`
	BookCoverURL string `json:"bookCoverUrl"`
	BorrowedAt   Time   `json:"borrowedAt"`
	DueDate      Time   `json:"dueDate"`
	ReturnedAt   *Time  `json:"returnedAt,omitempty"`
	Status       string `json:"status"`
	Overdue      bool   `json:"overdue"`
}

// MyLoans returns the caller's active loans
func (c *Client) MyLoans(ctx context.Context, cookie string) ([]Loan, error) {
	var loans []Loan
	if err := c.do(ctx, http.MethodGet, "/loans/my-loans", cookie, nil, nil, &loans); err != nil {
		return nil, err
	}
	return loans, nil
}

// MyHistory returns one page of the caller's loan history
func (c *Client) MyHistory(ctx context.Context, cookie string, size int) (*Page[Loan], error) {
	query := url.Values{}
	if size > 0 {
		query.Set("size", strconv.Itoa(size))
	}

	var page Page[Loan]
	if err := c.do(ctx, http.MethodGet, "/loans/my-history", cookie, query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Borrow creates a loan for the given book
func (c *Client) Borrow(ctx context.Context, cookie, bookID string) (*Loan, error) {
	var loan Loan
	if err := c.do(ctx, http.MethodPost, "/loans/borrow/"+bookID, cookie, nil, nil, &loan); err != nil {
		return nil, err
	}
	return &loan, nil
}

// Return closes the given loan
func (c *Client) Return(ctx context.Context, cookie, loanID string) (*Loan, error) {
	var loan Loan
	if err := c.do(ctx, http.MethodPost, "/loans/return/"+loanID, cookie, nil, nil, &loan); err != nil {
		return nil, err
	}
	return &loan, nil
}

// OverdueLoans returns the caller's overdue loans
func (c *Client) OverdueLoans(ctx context.Context, cookie string) ([]Loan, error) {
	var loans []Loan
	if err := c.do(ctx, http.MethodGet, "/loans/overdue", cookie, nil, nil, &loans); err != nil {
		return nil, err
	}
	return loans, nil
}
