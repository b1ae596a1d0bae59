package views

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/shared/server/middleware"
	"portfolio-backend/internal/shared/server/respond"
)

// Handler exposes the view recorder over HTTP.
type Handler struct {
	Recorder *Recorder
}

// NewHandler constructs a Handler.
func NewHandler(rec *Recorder) *Handler {
	return &Handler{Recorder: rec}
}

type recordRequest struct {
	PortfolioID string `json:"portfolioId"`
}

type recordResponse struct {
	Message      string `json:"message"`
	ViewsUpdated bool   `json:"viewsUpdated"`
}

// RegisterRoutes attaches view routes. extra runs before the handler (rate
// limiting in production).
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, extra ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, extra...), h.record)
	rg.POST("/views", handlers...)
}

func (h *Handler) record(c *gin.Context) {
	var req recordRequest
	// The id may come from the query string instead, so a missing or
	// malformed body is not an error by itself.
	_ = c.ShouldBindJSON(&req)
	portfolioID := strings.TrimSpace(req.PortfolioID)
	if portfolioID == "" {
		portfolioID = strings.TrimSpace(c.Query("portfolioId"))
	}
	if portfolioID == "" {
		respond.Error(c, http.StatusBadRequest, "Missing portfolioId")
		return
	}
	c.Set(middleware.PortfolioIDKey, portfolioID)

	res, err := h.Recorder.RecordView(c.Request.Context(), portfolioID, ClientAddress(c.Request))
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			respond.Error(c, http.StatusBadRequest, "Missing portfolioId")
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "Portfolio not found")
		default:
			respond.Upstream(c, "Failed to record view", err)
		}
		return
	}

	msg := "View already counted"
	if res.Counted {
		msg = "View counted"
	}
	respond.OK(c, recordResponse{Message: msg, ViewsUpdated: res.Counted})
}
