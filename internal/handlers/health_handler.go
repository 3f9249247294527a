package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	tracker string
}

// NewHealthHandler reports the configured tracker name; empty means none.
func NewHealthHandler(tracker string) *HealthHandler {
	return &HealthHandler{tracker: tracker}
}

// Health reports liveness
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Tracker: h.tracker})
}
