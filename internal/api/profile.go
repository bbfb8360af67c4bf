package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nutritrack/backend/internal/models"
	"github.com/nutritrack/backend/internal/service"
)

// ProfileHandler exposes the user profile over HTTP. The profile never
// auto-saves; callers hit the save endpoint to flush.
type ProfileHandler struct {
	profile *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler instance.
func NewProfileHandler(profile *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profile: profile}
}

// RegisterRoutes registers the profile routes on the group.
func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.POST("", h.CreateProfile)
		profile.GET("/entries/:date", h.GetEntry)
		profile.PUT("/entries/:date", h.UpdateEntry)
		profile.POST("/consumed", h.RecordConsumed)
		profile.GET("/calories", h.CalorieInfo)
		profile.PUT("/method", h.SetCalorieMethod)
		profile.POST("/save", h.SaveProfile)
	}
}

// GetProfile returns the whole profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile := h.profile.Profile()
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no profile exists"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// CreateProfile replaces any existing profile.
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	c.JSON(http.StatusCreated, h.profile.Create(req.Name, req.Gender, req.Height))
}

// GetEntry returns the date's entry, creating it with carry-forward
// semantics on first query.
func (h *ProfileHandler) GetEntry(c *gin.Context) {
	date, err := models.ParseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}
	entry, err := h.profile.EntryForDate(date)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no profile exists"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

// UpdateEntry overwrites the date's metrics and recomputes its target under
// the current calorie method.
func (h *ProfileHandler) UpdateEntry(c *gin.Context) {
	date, err := models.ParseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}
	var req UpdateProfileEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	level, err := models.ParseActivityLevel(req.ActivityLevel)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.profile.UpdateForDate(date, req.Age, req.Weight, level); err != nil {
		if errors.Is(err, service.ErrNoProfile) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no profile exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update entry"})
		return
	}
	entry, _ := h.profile.EntryForDate(date)
	c.JSON(http.StatusOK, entry)
}

// RecordConsumed adds a signed calorie delta to one date.
func (h *ProfileHandler) RecordConsumed(c *gin.Context) {
	var req RecordCaloriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}
	if err := h.profile.RecordConsumedCalories(date, req.Calories); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no profile exists"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "calories recorded"})
}

// CalorieInfo reports target, consumed and remaining calories for a date.
func (h *ProfileHandler) CalorieInfo(c *gin.Context) {
	date, err := models.ParseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}
	info, err := h.profile.CalorieInfoForDate(date)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no profile exists"})
		return
	}
	c.JSON(http.StatusOK, info)
}

// SetCalorieMethod switches the target-calorie formula.
func (h *ProfileHandler) SetCalorieMethod(c *gin.Context) {
	var req SetCalorieMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	method, err := models.ParseCalorieMethod(req.Method)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.profile.SetCalorieMethod(method); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no profile exists"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "calorie method updated"})
}

// SaveProfile flushes the profile to its file.
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	if err := h.profile.Save(); err != nil {
		if errors.Is(err, service.ErrNoProfile) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no profile exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile saved"})
}
