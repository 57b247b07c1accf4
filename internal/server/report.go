package server

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/iomreport/internal/filter"
	"github.com/smallbiznis/iomreport/internal/migration"
	"github.com/smallbiznis/iomreport/internal/report"
	"github.com/smallbiznis/iomreport/internal/session"
	"github.com/smallbiznis/iomreport/pkg/pagination"
)

type statusResponse struct {
	session.Status
	RemediationSQL string `json:"remediation_sql,omitempty"`
}

func newStatusResponse(status session.Status) statusResponse {
	resp := statusResponse{Status: status}
	if status.Error.SchemaMissing() {
		resp.RemediationSQL = migration.SetupSQL()
	}
	return resp
}

type reportQuery struct {
	filter.Criteria
	pagination.Pagination
}

func (s *Server) Status(c *gin.Context) {
	c.JSON(http.StatusOK, newStatusResponse(s.controller.Status()))
}

// Refresh reloads the record set. A failed fetch is reported in the
// status body so the dashboard stays usable.
func (s *Server) Refresh(c *gin.Context) {
	status := s.controller.Load(c.Request.Context())
	c.JSON(http.StatusOK, newStatusResponse(status))
}

func (s *Server) Report(c *gin.Context) {
	var query reportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	view := report.Build(s.controller.Records(), query.Criteria, query.Pagination)
	c.JSON(http.StatusOK, view)
}

func (s *Server) ReportOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"options": filter.Options(s.controller.Records())})
}

// Export downloads the filtered record set. Pagination does not apply.
func (s *Server) Export(format report.Format) gin.HandlerFunc {
	return func(c *gin.Context) {
		var criteria filter.Criteria
		if err := c.ShouldBindQuery(&criteria); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}

		records := filter.Apply(s.controller.Records(), criteria)

		var buf bytes.Buffer
		name, err := s.exporter.Export(c.Request.Context(), &buf, format, records)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
	}
}
