package users

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/shared/server/middleware"
	"portfolio-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches /me. The group must require a user.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

func (h *Handler) me(c *gin.Context) {
	profile, err := h.Svc.Me(c.Request.Context(), User{
		ID:         middleware.UserIDFromContext(c),
		Email:      middleware.UserEmailFromContext(c),
		Name:       middleware.UserNameFromContext(c),
		PictureURL: middleware.UserPictureFromContext(c),
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to load user")
		return
	}
	respond.OK(c, profile)
}
