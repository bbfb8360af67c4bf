package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nutritrack/backend/internal/models"
	"github.com/nutritrack/backend/internal/service"
)

// CatalogHandler exposes the food catalog over HTTP. The catalog never
// auto-saves; callers hit the save endpoint to flush.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler instance.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// RegisterRoutes registers the catalog routes on the group.
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	foods := router.Group("/foods")
	{
		foods.GET("", h.ListFoods)
		foods.GET("/:id", h.GetFood)
		foods.DELETE("/:id", h.DeleteFood)
		foods.POST("/basic", h.CreateBasicFood)
		foods.POST("/composite", h.CreateCompositeFood)
		foods.POST("/:id/components", h.AddComponent)
		foods.DELETE("/:id/components/:componentID", h.RemoveComponent)
		foods.POST("/save", h.SaveCatalog)
		foods.POST("/reload", h.ReloadCatalog)
	}
}

func (h *CatalogHandler) respond(f *models.Food) FoodResponse {
	return FoodResponse{Food: f, CaloriesPerServing: h.catalog.CaloriesPerServing(f)}
}

// ListFoods returns the catalog, optionally filtered by comma-separated
// keywords with match=all or match=any.
func (h *CatalogHandler) ListFoods(c *gin.Context) {
	var keywords []string
	if raw := c.Query("keywords"); raw != "" {
		keywords = strings.Split(raw, ",")
	}
	matchAll := c.DefaultQuery("match", "all") != "any"

	foods := h.catalog.FindByKeywords(keywords, matchAll)
	result := make([]FoodResponse, 0, len(foods))
	for _, f := range foods {
		result = append(result, h.respond(f))
	}
	c.JSON(http.StatusOK, result)
}

// GetFood returns the first food with the given id.
func (h *CatalogHandler) GetFood(c *gin.Context) {
	food, ok := h.catalog.GetByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "food not found"})
		return
	}
	c.JSON(http.StatusOK, h.respond(food))
}

// DeleteFood removes the first food with the given id.
func (h *CatalogHandler) DeleteFood(c *gin.Context) {
	food, ok := h.catalog.GetByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "food not found"})
		return
	}
	h.catalog.Remove(food)
	c.JSON(http.StatusOK, gin.H{"message": "food removed"})
}

// CreateBasicFood adds a basic food to the catalog.
func (h *CatalogHandler) CreateBasicFood(c *gin.Context) {
	var req CreateBasicFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	food := models.NewBasicFood(req.ID, req.Keywords, req.ServingSize,
		req.Calories, req.Protein, req.Carbs, req.Fats)
	if err := h.catalog.Add(food); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add food"})
		return
	}
	c.JSON(http.StatusCreated, h.respond(food))
}

// CreateCompositeFood adds an empty composite food to the catalog.
func (h *CatalogHandler) CreateCompositeFood(c *gin.Context) {
	var req CreateCompositeFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	food := models.NewCompositeFood(req.ID, req.Keywords, req.ServingSize)
	if err := h.catalog.Add(food); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add food"})
		return
	}
	c.JSON(http.StatusCreated, h.respond(food))
}

// AddComponent adds servings of an existing food to a composite.
func (h *CatalogHandler) AddComponent(c *gin.Context) {
	food, ok := h.catalog.GetByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "food not found"})
		return
	}

	var req AddComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.catalog.AddComponent(food, req.ComponentID, req.Servings); err != nil {
		switch {
		case errors.Is(err, service.ErrFoodNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNotComposite), errors.Is(err, service.ErrComponentCycle):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add component"})
		}
		return
	}
	c.JSON(http.StatusOK, h.respond(food))
}

// RemoveComponent drops a component from a composite.
func (h *CatalogHandler) RemoveComponent(c *gin.Context) {
	food, ok := h.catalog.GetByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "food not found"})
		return
	}

	if err := h.catalog.RemoveComponent(food, c.Param("componentID")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.respond(food))
}

// SaveCatalog flushes the catalog to its file.
func (h *CatalogHandler) SaveCatalog(c *gin.Context) {
	if err := h.catalog.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save catalog"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "catalog saved"})
}

// ReloadCatalog replaces the in-memory catalog with the file's contents.
func (h *CatalogHandler) ReloadCatalog(c *gin.Context) {
	if err := h.catalog.Load(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load catalog"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "catalog loaded"})
}
