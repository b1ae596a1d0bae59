package resumes

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/shared/server/middleware"
	"portfolio-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to resume upload and interpretation.
type Handler struct {
	Svc         *Service
	Interpreter *Interpreter
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, interpreter *Interpreter) *Handler {
	return &Handler{Svc: svc, Interpreter: interpreter}
}

// RegisterRoutes attaches resume routes to the router group. All of them
// need an authenticated user.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.upload)
	rg.POST("/resumes/parse", h.parse)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusBadRequest, "File exceeds the 10MB limit")
			return
		}
		respond.Error(c, http.StatusBadRequest, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "Unable to read file")
		return
	}
	defer file.Close()

	f, err := h.Svc.Upload(c.Request.Context(), userID, fileHeader.Filename, file)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			respond.Error(c, http.StatusBadRequest, validationMessage(err))
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Failed to upload resume")
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(f))
}

func (h *Handler) parse(c *gin.Context) {
	var req parseRequest
	// A malformed body is reported as missing fields.
	_ = c.ShouldBindJSON(&req)
	req.UserID = strings.TrimSpace(req.UserID)
	req.FileID = strings.TrimSpace(req.FileID)
	if req.UserID == "" || req.FileID == "" {
		respond.Error(c, http.StatusBadRequest, "userId and fileId are required")
		return
	}
	if req.UserID != middleware.UserIDFromContext(c) {
		respond.Error(c, http.StatusForbidden, "Forbidden")
		return
	}

	portfolioID, err := h.Interpreter.Interpret(c.Request.Context(), req.UserID, req.FileID)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			respond.Error(c, http.StatusBadRequest, validationMessage(err))
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "Resume file not found")
		default:
			respond.Upstream(c, "Failed to parse resume", err)
		}
		return
	}
	c.Set(middleware.PortfolioIDKey, portfolioID)

	respond.OK(c, parseResponse{Success: true, DocID: portfolioID})
}
