package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/ecorisk-backend-go/internal/models"
	"github.com/jengzang/ecorisk-backend-go/internal/service"
	"github.com/jengzang/ecorisk-backend-go/pkg/response"
)

// GeocodingHandler handles address searches
type GeocodingHandler struct {
	service *service.GeocodingService
}

// NewGeocodingHandler creates a new geocoding handler
func NewGeocodingHandler(service *service.GeocodingService) *GeocodingHandler {
	return &GeocodingHandler{service: service}
}

// SetCenter handles POST /api/v1/center
func (h *GeocodingHandler) SetCenter(c *gin.Context) {
	var req models.CenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	center, err := h.service.SetCenter(c.Request.Context(), sessionID(c), req.Address)
	if err != nil {
		respondError(c, err, "Failed to set center")
		return
	}

	response.Success(c, center)
}
