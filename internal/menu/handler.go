package menu

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"menulens/internal/llm"
)

// listLimit caps GET /menus
const listLimit = 20

type Handler struct {
	service *Service
	logger  *zap.SugaredLogger
}

func NewHandler(service *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: service, logger: logger}
}

// --------------------------------------------------
// UPLOAD PAGE
// --------------------------------------------------
func (h *Handler) Home(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(uploadPage))
}

// --------------------------------------------------
// POST /extract — upload, extract, validate, store
// --------------------------------------------------
func (h *Handler) Extract(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Errorw("failed to read upload", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	id, m, err := h.service.ExtractAndStore(
		c.Request.Context(),
		header.Filename,
		string(data),
	)
	if err != nil {
		h.respondExtractError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"id":   id,
		"menu": m,
	})
}

// respondExtractError maps the error taxonomy onto HTTP statuses
func (h *Handler) respondExtractError(c *gin.Context, err error) {
	var (
		validationErr *llm.ValidationError
		storeErr      *StoreError
	)

	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "GEMINI_API_KEY not configured",
		})

	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Validation failed",
			"issues": validationErr.Issues,
			"raw":    validationErr.Raw,
		})

	case errors.Is(err, llm.ErrEmptyResponse):
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "empty response from model",
		})

	case errors.Is(err, llm.ErrInvalidJSON):
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "model did not return valid JSON",
		})

	case errors.As(err, &storeErr):
		// the menu was already validated at this point — make it
		// explicit that extraction worked and only storage failed
		h.logger.Errorw("menu validated but not stored", "error", storeErr.Err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "menu extracted but storing it failed",
		})

	default:
		h.logger.Errorw("extract failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
	}
}

// --------------------------------------------------
// GET /menus — recent menus, newest first
// --------------------------------------------------
func (h *Handler) List(c *gin.Context) {
	summaries, err := h.service.List(c.Request.Context(), listLimit)
	if err != nil {
		h.logger.Errorw("list menus failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"menus": summaries})
}

// --------------------------------------------------
// GET /menus/:id — human-viewable detail page
// --------------------------------------------------
func (h *Handler) Detail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid id"})
		return
	}

	stored, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		h.logger.Errorw("get menu failed", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := renderDetail(c.Writer, stored); err != nil {
		h.logger.Errorw("render menu detail failed", "id", id, "error", err)
	}
}
