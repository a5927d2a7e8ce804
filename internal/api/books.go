package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Book represents a catalog entry as returned by the backend
type Book struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Author         string `json:"author"`
	ISBN           string `json:"isbn"`
	Description    string `json:"description"`
	CoverURL       string `json:"coverUrl"`
	StockQuantity  int    `json:"stockQuantity"`
	AvailableStock int    `json:"availableStock"`
	CategoryID     string `json:"categoryId"`
	CategoryName   string `json:"categoryName"`
	Available      bool   `json:"available"`
}

// ListBooksParams are the query parameters of the paginated book listing
type ListBooksParams struct {
	Page     int
	Size     int
	Search   string
	Category string
}

// BookRequest represents a book create/update request body
type BookRequest struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	ISBN          string `json:"isbn,omitempty"`
	Description   string `json:"description,omitempty"`
	CoverURL      string `json:"coverUrl,omitempty"`
	StockQuantity int    `json:"stockQuantity"`
	CategoryID    string `json:"categoryId,omitempty"`
}

// ListBooks returns one page of the catalog
func (c *Client) ListBooks(ctx context.Context, cookie string, params ListBooksParams) (*Page[Book], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(params.Page))
	if params.Size > 0 {
		query.Set("size", strconv.Itoa(params.Size))
	}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.Category != "" {
		query.Set("category", params.Category)
	}

	var page Page[Book]
	if err := c.do(ctx, http.MethodGet, "/books", cookie, query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetBook returns a single book by id
func (c *Client) GetBook(ctx context.Context, cookie, id string) (*Book, error) {
	var book Book
	if err := c.do(ctx, http.MethodGet, "/books/"+id, cookie, nil, nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// CreateBook adds a book to the catalog
func (c *Client) CreateBook(ctx context.Context, cookie string, req BookRequest) (*Book, error) {
	var book Book
	if err := c.do(ctx, http.MethodPost, "/books", cookie, nil, req, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// UpdateBook replaces a book's details
func (c *Client) UpdateBook(ctx context.Context, cookie, id string, req BookRequest) (*Book, error) {
	var book Book
	if err := c.do(ctx, http.MethodPut, "/books/"+id, cookie, nil, req, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// DeleteBook removes a book from the catalog
func (c *Client) DeleteBook(ctx context.Context, cookie, id string) error {
	return c.do(ctx, http.MethodDelete, "/books/"+id, cookie, nil, nil, nil)
}
