package webapp

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/libstack-dev/libstack/internal/api"
)

// CategoryForm represents a category create/update submission
type CategoryForm struct {
	Name        string `json:"name" form:"name" binding:"required"`
	Description string `json:"description" form:"description"`
}

func (s *Server) getCategories(c *gin.Context) {
	s.renderCategories(c, http.StatusOK, "")
}

func (s *Server) renderCategories(c *gin.Context, status int, alert string) {
	sess, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	categories, err := s.api.ListCategories(c.Request.Context(), sess.BackendCookie)
	if err != nil {
		if s.forceLogin(c, err) {
			return
		}
		s.logger.Error().Err(err).Msg("Failed to load categories")
	}
	if categories == nil {
		categories = []api.Category{}
	}

	view := gin.H{
		"view":       "categories",
		"categories": categories,
	}
	if alert != "" {
		view["alert"] = alert
	}

	c.JSON(status, view)
}

func (s *Server) postCategory(c *gin.Context) {
	var form CategoryForm
	if err := c.ShouldBind(&form); err != nil {
		s.renderCategories(c, http.StatusBadRequest, err.Error())
		return
	}

	sess, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	req := api.CategoryRequest{Name: form.Name, Description: form.Description}
	if _, err := s.api.CreateCategory(c.Request.Context(), sess.BackendCookie, req); err != nil {
		if s.forceLogin(c, err) {
			return
		}
		s.renderCategories(c, backendStatus(err), api.ErrorMessage(err, "Failed to create category"))
		return
	}

	c.Redirect(http.StatusSeeOther, "/categories")
}

func (s *Server) putCategory(c *gin.Context) {
	var form CategoryForm
	if err := c.ShouldBind(&form); err != nil {
		s.renderCategories(c, http.StatusBadRequest, err.Error())
		return
	}

	sess, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	req := api.CategoryRequest{Name: form.Name, Description: form.Description}
	if _, err := s.api.UpdateCategory(c.Request.Context(), sess.BackendCookie, c.Param("id"), req); err != nil {
		if s.forceLogin(c, err) {
			return
		}
		s.renderCategories(c, backendStatus(err), api.ErrorMessage(err, "Failed to update category"))
		return
	}

	c.Redirect(http.StatusSeeOther, "/categories")
}

func (s *Server) deleteCategory(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := s.api.DeleteCategory(c.Request.Context(), sess.BackendCookie, c.Param("id")); err != nil {
		if s.forceLogin(c, err) {
			return
		}
		s.renderCategories(c, backendStatus(err), api.ErrorMessage(err, "Failed to delete category"))
		return
	}

	c.Redirect(http.StatusSeeOther, "/categories")
}
