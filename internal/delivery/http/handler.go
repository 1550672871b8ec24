package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GarrettC14/NutritionRx-sub008/internal/domain"
	"github.com/GarrettC14/NutritionRx-sub008/internal/infrastructure/usda"
)

// MaxBatchSize bounds the ids accepted by the batch endpoint
const MaxBatchSize = 20

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog domain.FoodCatalog
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler. A nil catalog is allowed; catalog
// endpoints then answer 501.
func NewHandler(catalog domain.FoodCatalog, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		catalog: catalog,
		logger:  logger.Named("http"),
	}
}

// BatchRequest is the body of POST /api/v1/foods/batch
type BatchRequest struct {
	FdcIDs []int `json:"fdcIds" binding:"required"`
}

// SearchResponse is the body returned by the search endpoint
type SearchResponse struct {
	Query string              `json:"query"`
	Count int                 `json:"count"`
	Foods []domain.FoodRecord `json:"foods"`
}

// NutrientsResponse is the projected nutrient view of one food
type NutrientsResponse struct {
	FdcID            int                           `json:"fdcId"`
	Description      string                        `json:"description"`
	Per100g          map[domain.NutrientID]float64 `json:"per100g"`
	Available        int                           `json:"available"`
	MaxNutrientCount int                           `json:"maxNutrientCount"`
	ServingGrams     *float64                      `json:"servingGrams,omitempty"`
	PerServing       map[domain.NutrientID]float64 `json:"perServing,omitempty"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "nutritionrx-catalog",
		"version": "1.0.0",
	})
}

// SearchFoods handles GET /api/v1/foods/search
func (h *Handler) SearchFoods(c *gin.Context) {
	if !h.requireCatalog(c) {
		return
	}

	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		h.badRequest(c, invalid("query is required"))
		return
	}

	pageSize, err := optionalInt(c, "pageSize")
	if err != nil {
		h.badRequest(c, invalid("pageSize must be an integer"))
		return
	}
	pageNumber, err := optionalInt(c, "pageNumber")
	if err != nil {
		h.badRequest(c, invalid("pageNumber must be an integer"))
		return
	}

	foods := h.catalog.Search(c.Request.Context(), query, domain.SearchOptions{
		DataTypes:  dataTypes(c),
		PageSize:   pageSize,
		PageNumber: pageNumber,
	})

	c.JSON(http.StatusOK, SearchResponse{
		Query: query,
		Count: len(foods),
		Foods: foods,
	})
}

// GetFood handles GET /api/v1/foods/:fdcId
func (h *Handler) GetFood(c *gin.Context) {
	if !h.requireCatalog(c) {
		return
	}

	fdcID, err := fdcIDParam(c)
	if err != nil {
		h.badRequest(c, err)
		return
	}

	food, found := h.catalog.GetDetail(c.Request.Context(), fdcID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "food not found", "fdcId": fdcID})
		return
	}

	c.JSON(http.StatusOK, food)
}

// GetFoodsBatch handles POST /api/v1/foods/batch
func (h *Handler) GetFoodsBatch(c *gin.Context) {
	if !h.requireCatalog(c) {
		return
	}

	var request BatchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.badRequest(c, fmt.Errorf("%w: fdcIds is required: %v", domain.ErrInvalidRequest, err))
		return
	}
	if len(request.FdcIDs) > MaxBatchSize {
		h.badRequest(c, invalid("too many ids, maximum is "+strconv.Itoa(MaxBatchSize)))
		return
	}

	foods := h.catalog.GetDetailBatch(c.Request.Context(), request.FdcIDs)
	c.JSON(http.StatusOK, gin.H{"count": len(foods), "foods": foods})
}

// GetFoodNutrients handles GET /api/v1/foods/:fdcId/nutrients. Amounts are
// per 100 g; servingGrams adds a scaled copy.
func (h *Handler) GetFoodNutrients(c *gin.Context) {
	if !h.requireCatalog(c) {
		return
	}

	fdcID, err := fdcIDParam(c)
	if err != nil {
		h.badRequest(c, err)
		return
	}

	var servingGrams *float64
	if raw := c.Query("servingGrams"); raw != "" {
		grams, err := strconv.ParseFloat(raw, 64)
		if err != nil || grams < 0 {
			h.badRequest(c, invalid("servingGrams must be a non-negative number"))
			return
		}
		servingGrams = &grams
	}

	food, found := h.catalog.GetDetail(c.Request.Context(), fdcID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "food not found", "fdcId": fdcID})
		return
	}

	per100g := usda.MapNutrients(food.FoodNutrients)
	response := NutrientsResponse{
		FdcID:            food.FdcID,
		Description:      food.Description,
		Per100g:          per100g,
		Available:        usda.CountAvailableNutrients(food.FoodNutrients),
		MaxNutrientCount: usda.MaxNutrientCount(),
		ServingGrams:     servingGrams,
	}
	if servingGrams != nil {
		response.PerServing = usda.ScaleNutrientsToServing(per100g, *servingGrams)
	}

	c.JSON(http.StatusOK, response)
}

// NutrientMeta handles GET /api/v1/nutrients/meta
func (h *Handler) NutrientMeta(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"maxNutrientCount": usda.MaxNutrientCount()})
}

// ClearCache handles DELETE /api/v1/cache
func (h *Handler) ClearCache(c *gin.Context) {
	if !h.requireCatalog(c) {
		return
	}

	h.catalog.ClearCache()
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// Stats handles GET /api/v1/stats
func (h *Handler) Stats(c *gin.Context) {
	if !h.requireCatalog(c) {
		return
	}

	c.JSON(http.StatusOK, h.catalog.Stats())
}

func (h *Handler) requireCatalog(c *gin.Context) bool {
	if h.catalog == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "food catalog not configured"})
		return false
	}
	return true
}

// badRequest answers 400 for errors wrapping domain.ErrInvalidRequest and
// 500 for anything else
func (h *Handler) badRequest(c *gin.Context, err error) {
	if !errors.Is(err, domain.ErrInvalidRequest) {
		h.logger.Error("unexpected handler error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	h.logger.Debug("invalid request", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidRequest, reason)
}

func fdcIDParam(c *gin.Context) (int, error) {
	fdcID, err := strconv.Atoi(c.Param("fdcId"))
	if err != nil || fdcID <= 0 {
		return 0, invalid("fdcId must be a positive integer")
	}
	return fdcID, nil
}

func optionalInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// dataTypes accepts both repeated and comma-separated dataType parameters
func dataTypes(c *gin.Context) []string {
	var types []string
	for _, value := range c.QueryArray("dataType") {
		for _, t := range strings.Split(value, ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
	}
	return types
}
