package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetPrice godoc
// @Summary      Current USD price
// @Description  Returns the live price; values of 1 or more are rounded to cents
// @Tags         prices
// @Produce      json
// @Param        coin  path  string  true  "Coin symbol or name (e.g., btc, Bitcoin)"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /api/prices/{coin} [get]
func (h *Handler) GetPrice(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-price")
	defer span.End()

	coin := c.Param("coin")
	span.SetAttributes(attribute.String("coin", coin))

	price, err := h.queries.Price(ctx, coin)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"coin": coin, "currency": "usd", "price": price})
}

// GetHistory godoc
// @Summary      Historical USD price
// @Description  Returns the price of a coin on a past calendar day
// @Tags         prices
// @Produce      json
// @Param        coin  path   string  true  "Coin symbol or name (e.g., btc, Bitcoin)"
// @Param        date  query  string  true  "Calendar day, day first (e.g., 01-05-2021)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/history/{coin} [get]
func (h *Handler) GetHistory(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-history")
	defer span.End()

	coin := c.Param("coin")
	date := strings.TrimSpace(c.Query("date"))
	span.SetAttributes(attribute.String("coin", coin), attribute.String("date", date))

	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	price, err := h.queries.HistoricalPrice(ctx, coin, date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"coin": coin, "date": date, "currency": "usd", "price": price})
}
