package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/ecorisk-backend-go/internal/geocoding"
	"github.com/jengzang/ecorisk-backend-go/internal/middleware"
	"github.com/jengzang/ecorisk-backend-go/internal/service"
	"github.com/jengzang/ecorisk-backend-go/internal/session"
	"github.com/jengzang/ecorisk-backend-go/internal/sources"
	"github.com/jengzang/ecorisk-backend-go/pkg/response"
)

// respondError maps domain errors to HTTP responses
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		response.NotFound(c, "Session not found", err)
	case errors.Is(err, sources.ErrInvalidSourceData):
		response.BadRequest(c, "Invalid source data", err)
	case errors.Is(err, service.ErrInvalidRadius):
		response.BadRequest(c, "Invalid radius", err)
	case errors.Is(err, service.ErrOutsideGrid):
		response.NotFound(c, "Point is outside the risk grid", err)
	case errors.Is(err, service.ErrUnknownCell):
		response.NotFound(c, "Grid cell not found", err)
	case errors.Is(err, geocoding.ErrNotFound):
		response.NotFound(c, "Address not found", err)
	case errors.Is(err, geocoding.ErrUnavailable):
		response.Error(c, http.StatusBadGateway, "Geocoding service unavailable", err)
	default:
		response.InternalError(c, fallback, err)
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(middleware.SessionIDKey)
}
