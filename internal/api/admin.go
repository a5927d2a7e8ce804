package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListUsers returns all user accounts (admin only)
func (c *Client) ListUsers(ctx context.Context, cookie string) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "/admin/users", cookie, nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUserRole changes a user's role (admin only). The backend takes the
// bare role string as the request body.
func (c *Client) UpdateUserRole(ctx context.Context, cookie, userID, role string) error {
	return c.do(ctx, http.MethodPut, "/admin/users/"+userID+"/role", cookie, nil, role, nil)
}

// DeleteUser removes a user account (admin only)
func (c *Client) DeleteUser(ctx context.Context, cookie, userID string) error {
	return c.do(ctx, http.MethodDelete, "/admin/users/"+userID, cookie, nil, nil, nil)
}

// AllLoans returns one page of every loan in the library (admin only)
func (c *Client) AllLoans(ctx context.Context, cookie string, size int) (*Page[Loan], error) {
	query := url.Values{}
	if size > 0 {
		query.Set("size", strconv.Itoa(size))
	}

	var page Page[Loan]
	if err := c.do(ctx, http.MethodGet, "/admin/loans", cookie, query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// AllOverdueLoans returns every overdue loan (admin only)
func (c *Client) AllOverdueLoans(ctx context.Context, cookie string) ([]Loan, error) {
	var loans []Loan
	if err := c.do(ctx, http.MethodGet, "/admin/loans/overdue", cookie, nil, nil, &loans); err != nil {
		return nil, err
	}
	return loans, nil
}
