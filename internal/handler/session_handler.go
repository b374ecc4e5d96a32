package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/ecorisk-backend-go/internal/service"
	"github.com/jengzang/ecorisk-backend-go/pkg/response"
)

// SessionHandler handles HTTP requests for map sessions
type SessionHandler struct {
	service *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(service *service.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// CreateSession handles POST /api/v1/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	created, err := h.service.Create(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to create session", err)
		return
	}

	response.Success(c, created)
}

// GetSession handles GET /api/v1/session
func (h *SessionHandler) GetSession(c *gin.Context) {
	snap, err := h.service.Get(c.Request.Context(), sessionID(c))
	if err != nil {
		respondError(c, err, "Failed to get session")
		return
	}

	response.Success(c, snap)
}
