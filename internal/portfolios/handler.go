package portfolios

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/shared/server/middleware"
	"portfolio-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the portfolio service and eraser.
type Handler struct {
	Svc    *Service
	Eraser *Eraser
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, eraser *Eraser) *Handler {
	return &Handler{Svc: svc, Eraser: eraser}
}

// RegisterPublicRoutes attaches routes that need no identity.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/templates", h.templates)
	rg.GET("/portfolios/:id", h.get)
}

// RegisterRoutes attaches routes that require an authenticated user.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/portfolios", h.create)
	rg.GET("/portfolios", h.list)
	rg.PUT("/portfolios/:id", h.update)
	rg.POST("/portfolios/delete", h.deleteFromBody)
	rg.DELETE("/portfolios/:id", h.deleteByParam)
}

func (h *Handler) templates(c *gin.Context) {
	respond.OK(c, Templates())
}

func (h *Handler) get(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	c.Set(middleware.PortfolioIDKey, id)

	p, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to fetch portfolio")
		return
	}
	respond.OK(c, toPublicResponse(p))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	items, err := h.Svc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err, "Failed to list portfolios")
		return
	}
	resp := make([]PortfolioResponse, 0, len(items))
	for _, p := range items {
		resp = append(resp, toResponse(p))
	}
	respond.OK(c, resp)
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := h.Svc.Create(c.Request.Context(), CreateInput{
		UserID:     middleware.UserIDFromContext(c),
		Name:       req.Name,
		TemplateID: req.TemplateID,
		Content:    req.Content,
		ResumeID:   req.ResumeID,
	})
	if err != nil {
		h.writeError(c, err, "Failed to create portfolio")
		return
	}
	c.Set(middleware.PortfolioIDKey, p.ID)
	respond.JSON(c, http.StatusCreated, toResponse(p))
}

func (h *Handler) update(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	c.Set(middleware.PortfolioIDKey, id)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := h.Svc.Update(c.Request.Context(), UpdateInput{
		ID:         id,
		UserID:     middleware.UserIDFromContext(c),
		Name:       req.Name,
		TemplateID: req.TemplateID,
		Content:    req.Content,
	})
	if err != nil {
		h.writeError(c, err, "Failed to update portfolio")
		return
	}
	respond.OK(c, toResponse(p))
}

func (h *Handler) deleteFromBody(c *gin.Context) {
	var req deleteRequest
	// An empty or malformed body is reported as a missing id.
	_ = c.ShouldBindJSON(&req)
	h.delete(c, req.PortfolioID)
}

func (h *Handler) deleteByParam(c *gin.Context) {
	h.delete(c, c.Param("id"))
}

func (h *Handler) delete(c *gin.Context, portfolioID string) {
	portfolioID = strings.TrimSpace(portfolioID)
	if portfolioID == "" {
		respond.Error(c, http.StatusBadRequest, "Portfolio ID is required")
		return
	}
	c.Set(middleware.PortfolioIDKey, portfolioID)

	result, err := h.Eraser.Delete(c.Request.Context(), DeleteInput{
		PortfolioID: portfolioID,
		RequesterID: middleware.UserIDFromContext(c),
		RequestID:   middleware.RequestIDFromContext(c),
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			respond.Error(c, http.StatusBadRequest, "Portfolio ID is required")
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "Portfolio not found")
		default:
			respond.Error(c, http.StatusInternalServerError, "Failed to delete portfolio")
		}
		return
	}

	steps := result.Steps
	if steps == nil {
		steps = []StepResult{}
	}
	respond.OK(c, deleteResponse{
		Success: true,
		Message: "Portfolio deleted successfully",
		Cleanup: steps,
	})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrValidation):
		respond.Error(c, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "Portfolio not found")
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "Forbidden")
	default:
		respond.Error(c, http.StatusInternalServerError, fallback)
	}
}
