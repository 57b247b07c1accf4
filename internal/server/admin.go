package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/iomreport/internal/config"
	"github.com/smallbiznis/iomreport/internal/importer"
	"github.com/smallbiznis/iomreport/internal/session"
	"go.uber.org/zap"
)

type settingsRequest struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

type settingsResponse struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	SheetURL string `json:"sheet_url"`
	Message  string `json:"message,omitempty"`
}

type importURLRequest struct {
	URL string `json:"url"`
}

type importSheetRequest struct {
	SpreadsheetID string `json:"spreadsheet_id"`
	Range         string `json:"range"`
}

type commitRequest struct {
	ID string `json:"id"`
}

type importResponse struct {
	Pending session.PendingInfo `json:"pending"`
	Message string              `json:"message"`
}

// bindOptionalJSON binds a JSON body when one was sent.
func bindOptionalJSON(c *gin.Context, obj any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (s *Server) settingsBody(gw config.GatewaySettings, message string) settingsResponse {
	return settingsResponse{
		URL:      gw.URL,
		Key:      gw.Key,
		SheetURL: s.settings.SheetURL(),
		Message:  message,
	}
}

func (s *Server) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, s.settingsBody(s.controller.Gateway(), ""))
}

// UpdateSettings stores a new gateway target. An invalid URL keeps the
// current one; the key is always stored.
func (s *Server) UpdateSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	saved, err := s.controller.SaveGateway(config.GatewaySettings{URL: req.URL, Key: req.Key})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.settingsBody(saved, session.MessageSaved))
}

// TestSettings applies the posted settings, if any, and probes the table.
func (s *Server) TestSettings(c *gin.Context) {
	var body settingsRequest
	if err := bindOptionalJSON(c, &body); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var next *config.GatewaySettings
	if strings.TrimSpace(body.URL) != "" || strings.TrimSpace(body.Key) != "" {
		next = &config.GatewaySettings{URL: body.URL, Key: body.Key}
	}
	if err := s.controller.TestConnection(c.Request.Context(), next); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.settingsBody(s.controller.Gateway(), session.MessageConnected))
}

func (s *Server) SetupSQL(c *gin.Context) {
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(s.setupSQL))
}

func (s *Server) ImportFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, newValidationError("file", "required", "file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer file.Close()

	result, err := s.importer.ImportFile(c.Request.Context(), header.Filename, file)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.stage(c, result)
}

func (s *Server) ImportURL(c *gin.Context) {
	var req importURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.importer.ImportURL(c.Request.Context(), req.URL)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.settings.SaveSheetURL(req.URL); err != nil {
		s.log.Warn("remember sheet url failed", zap.Error(err))
	}
	s.stage(c, result)
}

func (s *Server) ImportSheet(c *gin.Context) {
	var req importSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.SpreadsheetID) == "" {
		AbortWithError(c, newValidationError("spreadsheet_id", "required", "spreadsheet_id is required"))
		return
	}
	readRange := strings.TrimSpace(req.Range)
	if readRange == "" {
		readRange = importer.DefaultSheetsRange
	}

	result, err := s.importer.ImportSheet(c.Request.Context(), strings.TrimSpace(req.SpreadsheetID), readRange)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.stage(c, result)
}

func (s *Server) stage(c *gin.Context, result importer.Result) {
	info := s.controller.Stage(result)
	c.JSON(http.StatusOK, importResponse{Pending: info, Message: result.StatusMessage()})
}

func (s *Server) GetPending(c *gin.Context) {
	pending, ok := s.controller.Pending()
	if !ok {
		AbortWithError(c, session.ErrNoPending)
		return
	}
	c.JSON(http.StatusOK, pending.Info())
}

func (s *Server) DiscardPending(c *gin.Context) {
	s.controller.DiscardPending()
	c.Status(http.StatusNoContent)
}

// CommitPending replaces the remote record set with the staged import.
// The body may name the staged import to guard against a newer upload.
func (s *Server) CommitPending(c *gin.Context) {
	var req commitRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	log := s.log.With(zap.String("admin", c.GetString(contextAdminKey)))
	err := s.controller.Commit(c.Request.Context(), strings.TrimSpace(req.ID), func(inserted, total int) {
		log.Debug("commit progress", zap.Int("inserted", inserted), zap.Int("total", total))
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": session.MessageCommitted,
		"status":  newStatusResponse(s.controller.Status()),
	})
}
