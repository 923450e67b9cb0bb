package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetArchive godoc
// @Summary      Archived price for a coin
// @Description  Looks up the locally archived row for a coin and day without calling CoinGecko
// @Tags         archive
// @Produce      json
// @Param        coin  path   string  true   "Coin symbol or name"
// @Param        date  query  string  false  "Calendar day, day first (default today)"
// @Success      200  {object}  domain.ArchiveEntry
// @Failure      404  {object}  map[string]string
// @Router       /api/archive/{coin} [get]
func (h *Handler) GetArchive(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-archive")
	defer span.End()

	coin := c.Param("coin")
	date := c.DefaultQuery("date", "today")
	span.SetAttributes(attribute.String("coin", coin), attribute.String("date", date))

	entry, err := h.queries.QueryArchive(ctx, coin, date)
	if err != nil {
		writeError(c, err)
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no archived price for " + coin + " on " + date})
		return
	}
	c.JSON(http.StatusOK, entry)
}

// GetArchiveDay godoc
// @Summary      Archived prices for a day
// @Description  Lists every archived row for a calendar day
// @Tags         archive
// @Produce      json
// @Param        date  query  string  false  "Calendar day, day first (default today)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/archive [get]
func (h *Handler) GetArchiveDay(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-archive-day")
	defer span.End()

	date := c.DefaultQuery("date", "today")
	entries, err := h.queries.ArchiveDay(ctx, date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "count": len(entries), "entries": entries})
}

// TriggerArchive godoc
// @Summary      Archive today's prices
// @Description  Stores the current USD price of the top coins for today
// @Tags         archive
// @Produce      json
// @Param        limit  query  int  false  "Number of coins (default 5, max 250)"  default(5)
// @Success      200  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/archive [post]
func (h *Handler) TriggerArchive(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.trigger-archive")
	defer span.End()

	limit := 0
	if l := c.Query("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 || n > maxCoinsLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 250"})
			return
		}
		limit = n
	}
	span.SetAttributes(attribute.Int("limit", limit))

	entries, err := h.queries.Archive(ctx, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "archived": len(entries), "entries": entries})
}
