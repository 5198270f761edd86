package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nutrilog/backend/internal/domain"
	"github.com/nutrilog/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	resolver   *usecase.Resolver
	logService *usecase.LogService
}

// NewHandler creates a new HTTP handler
func NewHandler(resolver *usecase.Resolver, logService *usecase.LogService) *Handler {
	return &Handler{
		resolver:   resolver,
		logService: logService,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "nutrilog-backend",
		"version": "1.0.0",
	})
}

type searchRequest struct {
	Query string `json:"query" binding:"required"`
}

// SearchFoods resolves a free-text or barcode query against the user's
// catalog and the external providers.
func (h *Handler) SearchFoods(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	envelope, err := h.resolver.Resolve(c.Request.Context(), userID(c), req.Query)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// Personal catalog failures are the only errors the resolver surfaces.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog lookup failed"})
		return
	}

	c.JSON(http.StatusOK, envelope)
}

type createLogRequest struct {
	Entry    domain.CatalogEntry `json:"entry" binding:"required"`
	PortionG *float64            `json:"portion_g"`
	Meal     string              `json:"meal"`
	LoggedAt *time.Time          `json:"logged_at"`
}

// CreateLog saves a resolved entry to the catalog (deduplicating external
// results) and persists a food log with its portion-scaled snapshot.
func (h *Handler) CreateLog(c *gin.Context) {
	var req createLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entry is required"})
		return
	}

	portion := 100.0
	if req.PortionG != nil {
		portion = *req.PortionG
	} else if req.Entry.DefaultPortionG != nil {
		portion = *req.Entry.DefaultPortionG
	}

	meal := req.Meal
	if meal == "" {
		meal = "snack"
	}

	loggedAt := time.Time{}
	if req.LoggedAt != nil {
		loggedAt = *req.LoggedAt
	}

	foodLog, err := h.logService.CreateLog(c.Request.Context(), userID(c), req.Entry, portion, meal, loggedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPortion) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create log"})
		return
	}

	c.JSON(http.StatusCreated, foodLog)
}
