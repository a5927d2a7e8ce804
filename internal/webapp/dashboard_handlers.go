package webapp

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/libstack-dev/libstack/internal/api"
)

const (
	recentBooksCount = 4
	dashboardLoans   = 3
)

// getDashboard aggregates the overview: catalog stats, recent books, and
// the caller's top active loans. Read failures leave the affected section
// in its empty state.
func (s *Server) getDashboard(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx := c.Request.Context()
	cookie := sess.BackendCookie

	books, booksErr := s.api.ListBooks(ctx, cookie, api.ListBooksParams{Size: recentBooksCount})
	loans, loansErr := s.api.MyLoans(ctx, cookie)
	categories, categoriesErr := s.api.ListCategories(ctx, cookie)

	for _, err := range []error{booksErr, loansErr, categoriesErr} {
		if err == nil {
			continue
		}
		if s.forceLogin(c, err) {
			return
		}
		s.logger.Error().Err(err).Msg("Failed to load dashboard data")
	}

	recent := []api.Book{}
	var totalBooks int64
	available := 0
	if books != nil {
		recent = books.Content
		totalBooks = books.TotalElements
		for _, book := range recent {
			if book.Available {
				available++
			}
		}
	}

	if loans == nil {
		loans = []api.Loan{}
	}
	topLoans := loans
	if len(topLoans) > dashboardLoans {
		topLoans = topLoans[:dashboardLoans]
	}

	c.JSON(http.StatusOK, gin.H{
		"view": "dashboard",
		"user": sess.Identity(),
		"stats": gin.H{
			"totalBooks":     totalBooks,
			"availableBooks": available,
			"myActiveLoans":  len(loans),
			"categories":     len(categories),
		},
		"recentBooks": recent,
		"myLoans":     topLoans,
	})
}
