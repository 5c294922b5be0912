package main

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat"
	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat/dsp"
)

// Server encapsulates the HTTP server and its dependencies
type Server struct {
	service physiofeat.Service
	config  *ServerConfig
	log     physiofeat.Logger
	engine  *gin.Engine
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	DBPath         string
	AllowedOrigins []string
}

// NewServer creates a new server instance with its routes registered
func NewServer(service physiofeat.Service, config *ServerConfig, log physiofeat.Logger) *Server {
	s := &Server{
		service: service,
		config:  config,
		log:     log,
		engine:  gin.New(),
	}
	s.setupRoutes()
	return s
}

// respondError writes an error response
func (s *Server) respondError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleExtract handles POST /api/extract
func (s *Server) handleExtract(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	res, err := s.service.Extract(c.Request.Context(), req.toJob())
	switch {
	case errors.Is(err, physiofeat.ErrInvalidJob), errors.Is(err, dsp.ErrInvalidBand):
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.log.Errorf("Extract failed: %v", err)
		s.respondError(c, http.StatusInternalServerError, "Failed to extract features")
		return
	}

	c.JSON(http.StatusCreated, toRecordDTO(res.Record, res.Diagnostics))
}

// handleListRecords handles GET /api/records
func (s *Server) handleListRecords(c *gin.Context) {
	list, err := s.service.ListRecords()
	if err != nil {
		s.log.Errorf("Failed to list records: %v", err)
		s.respondError(c, http.StatusInternalServerError, "Failed to retrieve records")
		return
	}

	out := make([]SummaryDTO, len(list))
	for i, r := range list {
		out[i] = SummaryDTO{
			ID:        r.ID,
			Subject:   r.SubjectID,
			Condition: r.Condition,
			Round:     r.Round,
			Computed:  r.Computed,
			Missing:   r.Missing,
			CreatedAt: r.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, ListRecordsResponse{Records: out, Count: len(out)})
}

// handleGetRecord handles GET /api/records/:id
func (s *Server) handleGetRecord(c *gin.Context) {
	rec, err := s.service.GetRecord(c.Param("id"))
	if errors.Is(err, physiofeat.ErrNotFound) {
		s.respondError(c, http.StatusNotFound, "Record not found")
		return
	}
	if err != nil {
		s.log.Errorf("Failed to get record: %v", err)
		s.respondError(c, http.StatusInternalServerError, "Failed to retrieve record")
		return
	}
	c.JSON(http.StatusOK, toRecordDTO(*rec, nil))
}

// handleDeleteRecord handles DELETE /api/records/:id
func (s *Server) handleDeleteRecord(c *gin.Context) {
	id := c.Param("id")
	err := s.service.DeleteRecord(id)
	if errors.Is(err, physiofeat.ErrNotFound) {
		s.respondError(c, http.StatusNotFound, "Record not found")
		return
	}
	if err != nil {
		s.log.Errorf("Failed to delete record: %v", err)
		s.respondError(c, http.StatusInternalServerError, "Failed to delete record")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// handleExport handles GET /api/export.csv
func (s *Server) handleExport(c *gin.Context) {
	var buf bytes.Buffer
	if err := s.service.ExportCSV(&buf); err != nil {
		s.log.Errorf("Export failed: %v", err)
		s.respondError(c, http.StatusInternalServerError, "Failed to export records")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="features.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
