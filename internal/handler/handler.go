package handler

import (
	"context"
	"net/http"

	"coinquery/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// Querier is the subset of service.QueryService the HTTP API serves.
type Querier interface {
	Ping(ctx context.Context) (map[string]string, error)
	Coins(ctx context.Context, limit int) ([]domain.MarketCoin, error)
	CoinsList() domain.Catalog
	Resolve(input string) (domain.CoinRecord, error)
	Price(ctx context.Context, coin string) (float64, error)
	HistoricalPrice(ctx context.Context, coin, rawDate string) (float64, error)
	Archive(ctx context.Context, limit int) ([]domain.ArchiveEntry, error)
	QueryArchive(ctx context.Context, coin, rawDate string) (*domain.ArchiveEntry, error)
	ArchiveDay(ctx context.Context, rawDate string) ([]domain.ArchiveEntry, error)
}

type Handler struct {
	tracer  trace.Tracer
	queries Querier
	apiKey  string
}

func New(tracer trace.Tracer, queries Querier, apiKey string) *Handler {
	return &Handler{
		tracer:  tracer,
		queries: queries,
		apiKey:  apiKey,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/ping", h.Ping)
	r.GET("/api/coins", h.GetCoins)
	r.GET("/api/coins/list", h.GetCoinsList)
	r.GET("/api/resolve/:coin", h.ResolveCoin)
	r.GET("/api/prices/:coin", h.GetPrice)
	r.GET("/api/history/:coin", h.GetHistory)
	r.GET("/api/archive", h.GetArchiveDay)
	r.GET("/api/archive/:coin", h.GetArchive)

	admin := r.Group("/api", APIKeyAuth(h.apiKey))
	admin.POST("/archive", h.TriggerArchive)
}

// statusFor maps query error kinds onto HTTP statuses.
func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindUnknownCoin:
		return http.StatusNotFound
	case domain.KindBadRequest, domain.KindInvalidDate:
		return http.StatusBadRequest
	case domain.KindTimeout:
		return http.StatusGatewayTimeout
	case domain.KindUnavailable:
		return http.StatusBadGateway
	case domain.KindNotConnected:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}
	if kind := domain.KindOf(err); kind != "" {
		body["kind"] = string(kind)
	}
	if suggestion := domain.SuggestionOf(err); suggestion != "" {
		body["suggestion"] = suggestion
	}
	c.JSON(statusFor(err), body)
}
