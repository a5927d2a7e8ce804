package webapp

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/libstack-dev/libstack/internal/api"
)

const loanHistorySize = 50

// loanView decorates a loan with its display label for the due date
type loanView struct {
	api.Loan
	DueLabel string `json:"dueLabel,omitempty"`
}

func loanViews(loans []api.Loan, now time.Time) []loanView {
	views := make([]loanView, len(loans))
	for i, loan := range loans {
		views[i] = loanView{Loan: loan, DueLabel: dueLabel(loan, now)}
	}
	return views
}

func dueLabel(loan api.Loan, now time.Time) string {
	if loan.Status == api.LoanReturned {
		return ""
	}

	days := int(math.Ceil(loan.DueDate.Sub(now).Hours() / 24))
	switch {
	case days < 0:
		return fmt.Sprintf("%d days overdue", -days)
	case days == 0:
		return "Due today"
	default:
		return fmt.Sprintf("%d days remaining", days)
	}
}

func (s *Server) getMyLoans(c *gin.Context) {
	s.renderMyLoans(c, http.StatusOK, "")
}

// renderMyLoans loads either the active-loans tab or the history tab and
// renders the view, with an optional alert from a failed mutation
func (s *Server) renderMyLoans(c *gin.Context, status int, alert string) {
	sess, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	tab := c.DefaultQuery("tab", "active")

	var loans []api.Loan
	var err error
	if tab == "history" {
		var page *api.Page[api.Loan]
		page, err = s.api.MyHistory(c.Request.Context(), sess.BackendCookie, loanHistorySize)
		if page != nil {
			loans = page.Content
		}
	} else {
		tab = "active"
		loans, err = s.api.MyLoans(c.Request.Context(), sess.BackendCookie)
	}

	if err != nil {
		if s.forceLogin(c, err) {
			return
		}
		s.logger.Error().Err(err).Msg("Failed to load loans")
		loans = nil
	}
	if loans == nil {
		loans = []api.Loan{}
	}

	view := gin.H{
		"view":  "my-loans",
		"tab":   tab,
		"loans": loanViews(loans, time.Now()),
	}
	if alert != "" {
		view["alert"] = alert
	}

	c.JSON(status, view)
}

// postReturn closes a loan, then reloads the full list
func (s *Server) postReturn(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if _, err := s.api.Return(c.Request.Context(), sess.BackendCookie, c.Param("id")); err != nil {
		if s.forceLogin(c, err) {
			return
		}
		s.renderMyLoans(c, backendStatus(err), api.ErrorMessage(err, "Failed to return book"))
		return
	}

	c.Redirect(http.StatusSeeOther, "/my-loans")
}
