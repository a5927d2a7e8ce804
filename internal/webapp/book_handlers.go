package webapp

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/libstack-dev/libstack/internal/api"
)

const booksPageSize = 12

// BookForm represents a book create/update submission
type BookForm struct {
	Title         string `json:"title" form:"title" binding:"required"`
	Author        string `json:"author" form:"author" binding:"required"`
	ISBN          string `json:"isbn" form:"isbn"`
	Description   string `json:"description" form:"description"`
	CoverURL      string `json:"coverUrl" form:"coverUrl"`
	StockQuantity int    `json:"stockQuantity" form:"stockQuantity" binding:"gte=0"`
	CategoryID    string `json:"categoryId" form:"categoryId"`
}

func (f BookForm) request() api.BookRequest {
	return api.BookRequest{
		Title:         f.Title,
		Author:        f.Author,
		ISBN:          f.ISBN,
		Description:   f.Description,
		CoverURL:      f.CoverURL,
		StockQuantity: f.StockQuantity,
		CategoryID:    f.CategoryID,
	}
}

func (s *Server) getBooks(c *gin.Context) {
	s.renderBooks(c, http.StatusOK, "")
}

// renderBooks performs the catalog read and renders the books view, with
// an optional blocking alert from a failed mutation. The pagination
// control is hidden when there is a single page.
func (s *Server) renderBooks(c *gin.Context, status int, alert string) {
	sess, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	params := api.ListBooksParams{
		Page:     page,
		Size:     booksPageSize,
		Search:   c.Query("search"),
		Category: c.Query("category"),
	}

	view := gin.H{
		"view":           "books",
		"books":          []api.Book{},
		"page":           0,
		"totalPages":     0,
		"showPagination": false,
	}
	if alert != "" {
		view["alert"] = alert
	}

	result, err := s.api.ListBooks(c.Request.Context(), sess.BackendCookie, params)
	if err != nil {
		if s.forceLogin(c, err) {
			return
		}
		s.logger.Error().Err(err).Msg("Failed to load books")
		c.JSON(status, view)
		return
	}

	if result.Content == nil {
		result.Content = []api.Book{}
	}
	view["books"] = result.Content
	view["page"] = result.Number
	view["totalPages"] = result.TotalPages
	view["totalElements"] = result.TotalElements
	view["showPagination"] = result.TotalPages > 1

	c.JSON(status, view)
}

// postBorrow creates a loan, then reloads the catalog in full. A backend
// rejection surfaces its message verbatim and leaves the catalog unchanged.
func (s *Server) postBorrow(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if _, err := s.api.Borrow(c.Request.Context(), sess.BackendCookie, c.Param("id")); err != nil {
		if s.forceLogin(c, err) {
			return
		}
		s.renderBooks(c, backendStatus(err), api.ErrorMessage(err, "Failed to borrow book"))
		return
	}

	c.Redirect(http.StatusSeeOther, booksPath(c))
}

func (s *Server) postBook(c *gin.Context) {
	var form BookForm
	if err := c.ShouldBind(&form); err != nil {
		s.renderBooks(c, http.StatusBadRequest, err.Error())
		return
	}

	sess, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if _, err := s.api.CreateBook(c.Request.Context(), sess.BackendCookie, form.request()); err != nil {
		if s.forceLogin(c, err) {
			return
		}
		s.renderBooks(c, backendStatus(err), "Failed to add book")
		return
	}

	c.Redirect(http.StatusSeeOther, booksPath(c))
}

func (s *Server) putBook(c *gin.Context) {
	var form BookForm
	if err := c.ShouldBind(&form); err != nil {
		s.renderBooks(c, http.StatusBadRequest, err.Error())
		return
	}

	sess, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if _, err := s.api.UpdateBook(c.Request.Context(), sess.BackendCookie, c.Param("id"), form.request()); err != nil {
		if s.forceLogin(c, err) {
			return
		}
		s.renderBooks(c, backendStatus(err), api.ErrorMessage(err, "Failed to update book"))
		return
	}

	c.Redirect(http.StatusSeeOther, booksPath(c))
}

func (s *Server) deleteBook(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := s.api.DeleteBook(c.Request.Context(), sess.BackendCookie, c.Param("id")); err != nil {
		if s.forceLogin(c, err) {
			return
		}
		s.renderBooks(c, backendStatus(err), api.ErrorMessage(err, "Failed to delete book"))
		return
	}

	c.Redirect(http.StatusSeeOther, booksPath(c))
}

// booksPath rebuilds the catalog URL with the caller's query parameters,
// so the post-mutation reload keeps the current page, search, and category.
func booksPath(c *gin.Context) string {
	query := url.Values{}
	for _, key := range []string{"page", "search", "category"} {
		if v := c.Query(key); v != "" {
			query.Set(key, v)
		}
	}
	if len(query) == 0 {
		return "/books"
	}
	return "/books?" + query.Encode()
}
