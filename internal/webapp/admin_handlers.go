package webapp

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/libstack-dev/libstack/internal/api"
)

const adminLoansSize = 50

// RoleForm represents a role-change submission
type RoleForm struct {
	Role string `json:"role" form:"role" binding:"required,role"`
}

func (s *Server) getAdminUsers(c *gin.Context) {
	s.renderAdminUsers(c, http.StatusOK, "")
}

func (s *Server) renderAdminUsers(c *gin.Context, status int, alert string) {
	sess, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	users, err := s.api.ListUsers(c.Request.Context(), sess.BackendCookie)
	if err != nil {
		if s.forceLogin(c, err) {
			return
		}
		s.logger.Error().Err(err).Msg("Failed to load users")
	}

	roleFilter := c.DefaultQuery("role", "all")
	filtered := []api.User{}
	for _, user := range users {
		if roleFilter == "all" || user.Role == roleFilter {
			filtered = append(filtered, user)
		}
	}

	view := gin.H{
		"view":       "admin-users",
		"users":      filtered,
		"roleFilter": roleFilter,
	}
	if alert != "" {
		view["alert"] = alert
	}

	c.JSON(status, view)
}

// postUserRole changes a user's role. The reload that follows a successful
// change is what clears any inline role editor on the client.
func (s *Server) postUserRole(c *gin.Context) {
	var form RoleForm
	if err := c.ShouldBind(&form); err != nil {
		s.renderAdminUsers(c, http.StatusBadRequest, err.Error())
		return
	}

	sess, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := s.api.UpdateUserRole(c.Request.Context(), sess.BackendCookie, c.Param("id"), form.Role); err != nil {
		if s.forceLogin(c, err) {
			return
		}
		s.renderAdminUsers(c, backendStatus(err), api.ErrorMessage(err, "Failed to update user role"))
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin/users")
}

func (s *Server) deleteAdminUser(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := s.api.DeleteUser(c.Request.Context(), sess.BackendCookie, c.Param("id")); err != nil {
		if s.forceLogin(c, err) {
			return
		}
		s.renderAdminUsers(c, backendStatus(err), api.ErrorMessage(err, "Failed to delete user"))
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin/users")
}

// getAdminLoans renders all loans or the overdue tab, with status counts
func (s *Server) getAdminLoans(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	tab := c.DefaultQuery("tab", "all")

	var loans []api.Loan
	var err error
	if tab == "overdue" {
		loans, err = s.api.AllOverdueLoans(c.Request.Context(), sess.BackendCookie)
	} else {
		tab = "all"
		var page *api.Page[api.Loan]
		page, err = s.api.AllLoans(c.Request.Context(), sess.BackendCookie, adminLoansSize)
		if page != nil {
			loans = page.Content
		}
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

	active, overdue, returned := 0, 0, 0
	for _, loan := range loans {
		if loan.Status == api.LoanActive {
			active++
		}
		if loan.Status == api.LoanReturned {
			returned++
		}
		if loan.Overdue {
			overdue++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"view":  "admin-loans",
		"tab":   tab,
		"loans": loanViews(loans, time.Now()),
		"stats": gin.H{
			"active":   active,
			"overdue":  overdue,
			"returned": returned,
		},
	})
}
