package webapp

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/libstack-dev/libstack/internal/api"
	"github.com/libstack-dev/libstack/internal/guard"
	"github.com/libstack-dev/libstack/internal/session"
)

const sessionContextKey = "session"

func setSession(c *gin.Context, sess *session.Session) {
	c.Set(sessionContextKey, sess)
}

// GetSession returns the gateway session bound to the request
func GetSession(c *gin.Context) (*session.Session, bool) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return nil, false
	}

	sess, ok := value.(*session.Session)
	return sess, ok
}

// sessionMiddleware loads the gateway session named by the request's cookie,
// creating a fresh one when the cookie is absent or invalid. Unresolved
// sessions get their single initial identity resolution here, so the guard
// never makes a non-pending decision before resolution completes.
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := s.loadOrCreateSession(c)
		if sess == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			c.Abort()
			return
		}

		if !sess.Resolved {
			if err := s.sessions.Resolve(c.Request.Context(), sess); err != nil {
				// Resolution itself never fails; this is a persistence
				// error, and the session stays pending for this attempt.
				s.logger.Error().Err(err).Str("session_id", sess.ID).Msg("Failed to resolve session")
			}
		} else {
			s.sessions.Touch(c.Request.Context(), sess)
		}

		setSession(c, sess)
		c.Next()
	}
}

func (s *Server) loadOrCreateSession(c *gin.Context) *session.Session {
	if value, err := c.Cookie(session.CookieName); err == nil {
		if id, err := session.ParseCookie(value); err == nil {
			sess, err := s.sessions.Find(c.Request.Context(), id)
			if err == nil {
				return sess
			}
			if err != session.ErrNotFound {
				s.logger.Error().Err(err).Msg("Failed to load session")
				return nil
			}
		}
	}

	sess, err := s.sessions.Create(c.Request.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create session")
		return nil
	}

	value, err := session.IssueCookie(sess.ID, s.config.Sessions.TTL)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to issue session cookie")
		return nil
	}
	c.SetCookie(session.CookieName, value, int(s.config.Sessions.TTL.Seconds()), "/", "", false, true)

	return sess
}

// requireAuth applies the route guard to every request of the group. The
// decision is recomputed fresh per request; denied attempts are redirected,
// pending ones render only the loading view.
func (s *Server) requireAuth(adminRequired bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := GetSession(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			c.Abort()
			return
		}

		switch guard.Decide(sess.State(), adminRequired) {
		case guard.Pending:
			c.JSON(http.StatusOK, gin.H{"view": "loading"})
			c.Abort()
		case guard.RedirectLogin:
			c.Redirect(http.StatusFound, guard.LoginRoute)
			c.Abort()
		case guard.RedirectHome:
			c.Redirect(http.StatusFound, guard.HomeRoute)
			c.Abort()
		default:
			c.Next()
		}
	}
}

// forceLogin applies the application-wide 401 policy: any backend call
// outside session resolution that comes back unauthorized forces navigation
// to the login view. Returns true when the request was redirected.
func (s *Server) forceLogin(c *gin.Context, err error) bool {
	if !api.IsUnauthorized(err) {
		return false
	}

	c.Redirect(http.StatusFound, guard.LoginRoute)
	c.Abort()
	return true
}

// backendStatus mirrors the backend's status for declared failures and
// reports a bad gateway for transport-level ones
func backendStatus(err error) int {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return http.StatusBadGateway
}
