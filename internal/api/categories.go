package api

import (
	"context"
	"net/http"
)

// Category represents a book category
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CategoryRequest represents a category create/update request body
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ListCategories returns all categories
func (c *Client) ListCategories(ctx context.Context, cookie string) ([]Category, error) {
	var categories []Category
	if err := c.do(ctx, http.MethodGet, "/categories", cookie, nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory creates a category
func (c *Client) CreateCategory(ctx context.Context, cookie string, req CategoryRequest) (*Category, error) {
	var category Category
	if err := c.do(ctx, http.MethodPost, "/categories", cookie, nil, req, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory updates a category
func (c *Client) UpdateCategory(ctx context.Context, cookie, id string, req CategoryRequest) (*Category, error) {
	var category Category
	if err := c.do(ctx, http.MethodPut, "/categories/"+id, cookie, nil, req, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes a category
func (c *Client) DeleteCategory(ctx context.Context, cookie, id string) error {
	return c.do(ctx, http.MethodDelete, "/categories/"+id, cookie, nil, nil, nil)
}
