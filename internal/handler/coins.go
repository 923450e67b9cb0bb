package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

const maxCoinsLimit = 250

// GetCoins godoc
// @Summary      Top coins by market cap
// @Description  Returns the top coins with current USD market data
// @Tags         coins
// @Produce      json
// @Param        limit  query  int  false  "Number of coins (default 5, max 250)"  default(5)
// @Success      200  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]string
// @Router       /api/coins [get]
func (h *Handler) GetCoins(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-coins")
	defer span.End()

	limit := 0
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= maxCoinsLimit {
			limit = n
		}
	}
	span.SetAttributes(attribute.Int("limit", limit))

	coins, err := h.queries.Coins(ctx, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"coins": coins})
}

// GetCoinsList godoc
// @Summary      Cached coin catalog
// @Description  Returns every known coin id, symbol and name
// @Tags         coins
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]string
// @Router       /api/coins/list [get]
func (h *Handler) GetCoinsList(c *gin.Context) {
	list := h.queries.CoinsList()
	if list == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "coin catalog not loaded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "coins": list})
}

// ResolveCoin godoc
// @Summary      Resolve a coin symbol or name
// @Description  Maps a symbol or display name to its catalog record
// @Tags         coins
// @Produce      json
// @Param        coin  path  string  true  "Coin symbol or name (e.g., btc, Bitcoin)"
// @Success      200  {object}  domain.CoinRecord
// @Failure      404  {object}  map[string]string
// @Router       /api/resolve/{coin} [get]
func (h *Handler) ResolveCoin(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.resolve-coin")
	defer span.End()

	input := c.Param("coin")
	span.SetAttributes(attribute.String("coin", input))

	coin, err := h.queries.Resolve(input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, coin)
}
