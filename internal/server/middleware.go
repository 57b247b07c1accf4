package server

import (
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/iomreport/internal/auth"
	obscontext "github.com/smallbiznis/iomreport/internal/observability/context"
)

const contextAdminKey = "admin_username"

// AdminRequired admits requests carrying a live admin cookie.
func (s *Server) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.cookies.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		sess, err := s.gate.Authenticate(token)
		if err != nil {
			s.cookies.Clear(c)
			AbortWithError(c, err)
			return
		}

		c.Set(contextAdminKey, sess.Username)
		c.Request = c.Request.WithContext(obscontext.WithActor(c.Request.Context(), auth.ViewAdmin))
		c.Next()
	}
}
