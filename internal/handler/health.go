package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health godoc
// @Summary      Health check
// @Description  Returns the health status of the service
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Ping godoc
// @Summary      Ping CoinGecko
// @Description  Forwards a ping to the upstream API and returns its response
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      504  {object}  map[string]string
// @Router       /api/ping [get]
func (h *Handler) Ping(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.ping")
	defer span.End()

	pong, err := h.queries.Ping(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pong)
}
