package webapp

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/libstack-dev/libstack/internal/api"
	"github.com/libstack-dev/libstack/internal/guard"
	"github.com/libstack-dev/libstack/internal/session"
)

// LoginForm represents a login submission
type LoginForm struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// RegisterForm represents a registration submission
type RegisterForm struct {
	Name     string `json:"name" form:"name" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

func (s *Server) getHome(c *gin.Context) {
	sess, _ := GetSession(c)

	var user *api.User
	if sess != nil {
		user = sess.Identity()
	}

	c.JSON(http.StatusOK, gin.H{
		"view":          "home",
		"authenticated": user != nil,
	})
}

func (s *Server) getLogin(c *gin.Context) {
	sess, _ := GetSession(c)

	// An already-authenticated visitor lands on the dashboard instead
	if sess != nil && sess.Identity() != nil {
		c.Redirect(http.StatusFound, guard.HomeRoute)
		return
	}

	c.JSON(http.StatusOK, gin.H{"view": "login"})
}

func (s *Server) postLogin(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"view": "login", "alert": err.Error()})
		return
	}

	sess, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if _, err := s.sessions.Login(c.Request.Context(), sess, form.Email, form.Password); err != nil {
		c.JSON(backendStatus(err), gin.H{
			"view":  "login",
			"alert": api.ErrorMessage(err, "An error occurred"),
		})
		return
	}

	c.Redirect(http.StatusSeeOther, guard.HomeRoute)
}

func (s *Server) postRegister(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"view": "login", "alert": err.Error()})
		return
	}

	sess, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if _, err := s.sessions.Register(c.Request.Context(), sess, form.Name, form.Email, form.Password); err != nil {
		c.JSON(backendStatus(err), gin.H{
			"view":  "login",
			"alert": api.ErrorMessage(err, "An error occurred"),
		})
		return
	}

	c.Redirect(http.StatusSeeOther, guard.HomeRoute)
}

// getOAuth hands the whole navigation to the backend's OAuth entry point
// for the requested provider. Control leaves the application here.
func (s *Server) getOAuth(c *gin.Context) {
	provider := c.Param("provider")
	c.Redirect(http.StatusFound, s.api.OAuthURL(provider))
}

// postLogout destroys the session and sends the browser to the public
// landing route. The backend call may fail; the local session is cleared
// regardless.
func (s *Server) postLogout(c *gin.Context) {
	sess, ok := GetSession(c)
	if ok {
		if err := s.sessions.Logout(c.Request.Context(), sess); err != nil {
			s.logger.Error().Err(err).Msg("Failed to destroy session")
		}
	}

	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}
