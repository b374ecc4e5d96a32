package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/ecorisk-backend-go/internal/models"
	"github.com/jengzang/ecorisk-backend-go/internal/render"
	"github.com/jengzang/ecorisk-backend-go/internal/service"
	"github.com/jengzang/ecorisk-backend-go/pkg/response"
)

// GridHandler handles HTTP requests for the risk grid
type GridHandler struct {
	service *service.GridService
}

// NewGridHandler creates a new grid handler
func NewGridHandler(service *service.GridService) *GridHandler {
	return &GridHandler{service: service}
}

// GetMap handles GET /api/v1/map
func (h *GridHandler) GetMap(c *gin.Context) {
	m, ok := h.riskMap(c)
	if !ok {
		return
	}

	response.Success(c, m)
}

// GetMapGeoJSON handles GET /api/v1/map.geojson
func (h *GridHandler) GetMapGeoJSON(c *gin.Context) {
	m, ok := h.riskMap(c)
	if !ok {
		return
	}

	raw, err := render.FeatureCollection(m).MarshalJSON()
	if err != nil {
		response.InternalError(c, "Failed to encode GeoJSON", err)
		return
	}

	c.Data(http.StatusOK, "application/geo+json", raw)
}

func (h *GridHandler) riskMap(c *gin.Context) (models.RiskMap, bool) {
	var filter models.MapFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return models.RiskMap{}, false
	}

	m, err := h.service.Map(c.Request.Context(), sessionID(c), filter.Radius)
	if err != nil {
		respondError(c, err, "Failed to build risk map")
		return models.RiskMap{}, false
	}
	return m, true
}

// GetGridCells handles GET /api/v1/grid
func (h *GridHandler) GetGridCells(c *gin.Context) {
	cells, err := h.service.Grid(c.Request.Context(), sessionID(c))
	if err != nil {
		respondError(c, err, "Failed to get grid cells")
		return
	}

	response.Success(c, gin.H{
		"data":  cells,
		"count": len(cells),
	})
}

// GetGridStats handles GET /api/v1/grid/stats
func (h *GridHandler) GetGridStats(c *gin.Context) {
	gridStats, err := h.service.Stats(c.Request.Context(), sessionID(c))
	if err != nil {
		respondError(c, err, "Failed to get grid statistics")
		return
	}

	response.Success(c, gridStats)
}

// GetPointRisk handles GET /api/v1/risk?lat=&lon= and GET /api/v1/risk?cell=
func (h *GridHandler) GetPointRisk(c *gin.Context) {
	if cellID := c.Query("cell"); cellID != "" {
		cell, err := h.service.CellRisk(c.Request.Context(), sessionID(c), cellID)
		if err != nil {
			respondError(c, err, "Failed to look up risk")
			return
		}
		response.Success(c, cell)
		return
	}

	var filter models.PointFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	cell, err := h.service.PointRisk(c.Request.Context(), sessionID(c), filter.Lat, filter.Lon)
	if err != nil {
		respondError(c, err, "Failed to look up risk")
		return
	}

	response.Success(c, cell)
}

// SetRadius handles PUT /api/v1/radius
func (h *GridHandler) SetRadius(c *gin.Context) {
	var req models.RadiusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	if err := h.service.SetRadius(c.Request.Context(), sessionID(c), req.Radius); err != nil {
		respondError(c, err, "Failed to set radius")
		return
	}

	response.Success(c, gin.H{"radius": req.Radius})
}
