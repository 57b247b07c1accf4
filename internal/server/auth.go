package server

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/iomreport/internal/auth"
	"go.uber.org/zap"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type viewRequest struct {
	View string `json:"view"`
}

type viewResponse struct {
	View     string `json:"view"`
	LoggedIn bool   `json:"logged_in"`
	Username string `json:"username,omitempty"`
}

func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	sess, err := s.gate.Login(c.Request.Context(), c.ClientIP(), req.Username, req.Password)
	if err != nil {
		var limited *auth.LimitedError
		if errors.As(err, &limited) {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(limited.RetryAfter.Seconds()))))
		}
		AbortWithError(c, err)
		return
	}

	s.cookies.Set(c, sess.Token(), sess.ExpiresAt)
	s.cookies.SetView(c, auth.ViewAdmin)
	c.JSON(http.StatusOK, viewResponse{View: auth.ViewAdmin, LoggedIn: true, Username: sess.Username})
}

func (s *Server) Logout(c *gin.Context) {
	s.logout(c)
	c.Status(http.StatusNoContent)
}

func (s *Server) Me(c *gin.Context) {
	c.JSON(http.StatusOK, s.currentView(c, s.cookies.ReadView(c)))
}

// SelectView switches between the dashboard and the admin screen. Leaving
// the admin screen ends the admin session.
func (s *Server) SelectView(c *gin.Context) {
	var req viewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	view, err := auth.NormalizeView(req.View)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if view == auth.ViewViewer {
		s.logout(c)
	}
	s.cookies.SetView(c, view)
	c.JSON(http.StatusOK, s.currentView(c, view))
}

func (s *Server) currentView(c *gin.Context, view string) viewResponse {
	resp := viewResponse{View: view}
	if view != auth.ViewAdmin {
		return resp
	}
	token, ok := s.cookies.ReadToken(c)
	if !ok {
		return resp
	}
	sess, err := s.gate.Authenticate(token)
	if err != nil {
		return resp
	}
	resp.LoggedIn = true
	resp.Username = sess.Username
	return resp
}

func (s *Server) logout(c *gin.Context) {
	token, ok := s.cookies.ReadToken(c)
	if !ok {
		return
	}
	s.gate.Logout(token)
	s.cookies.Clear(c)
	s.log.Info("admin logged out", zap.String("client_ip", c.ClientIP()))
}
