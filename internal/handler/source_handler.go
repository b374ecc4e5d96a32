package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/ecorisk-backend-go/internal/service"
	"github.com/jengzang/ecorisk-backend-go/pkg/response"
)

// maxUploadBytes bounds the size of an uploaded source table
const maxUploadBytes = 8 << 20

// SourceHandler handles HTTP requests for pollution sources
type SourceHandler struct {
	service *service.SourceService
}

// NewSourceHandler creates a new source handler
func NewSourceHandler(service *service.SourceService) *SourceHandler {
	return &SourceHandler{service: service}
}

// ListSources handles GET /api/v1/sources
func (h *SourceHandler) ListSources(c *gin.Context) {
	markers, err := h.service.List(c.Request.Context(), sessionID(c))
	if err != nil {
		respondError(c, err, "Failed to list sources")
		return
	}

	response.Success(c, gin.H{
		"data":  markers,
		"count": len(markers),
	})
}

// UploadSources handles POST /api/v1/sources (multipart field "file")
func (h *SourceHandler) UploadSources(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Missing file", err)
		return
	}

	file, err := header.Open()
	if err != nil {
		response.BadRequest(c, "Unreadable file", err)
		return
	}
	defer file.Close()

	count, err := h.service.Upload(c.Request.Context(), sessionID(c), file)
	if err != nil {
		respondError(c, err, "Failed to upload sources")
		return
	}

	response.Success(c, gin.H{"count": count})
}
