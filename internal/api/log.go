package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nutritrack/backend/internal/models"
	"github.com/nutritrack/backend/internal/service"
)

// LogHandler exposes the consumption log over HTTP. Adding or removing an
// entry also records the matching calorie delta on the profile; the two
// writes are independent, so a crash between them can leave log and profile
// out of step.
type LogHandler struct {
	dailyLog *service.DailyLogService
	catalog  *service.CatalogService
	profile  *service.ProfileService
}

// NewLogHandler creates a new LogHandler instance.
func NewLogHandler(dailyLog *service.DailyLogService, catalog *service.CatalogService, profile *service.ProfileService) *LogHandler {
	return &LogHandler{dailyLog: dailyLog, catalog: catalog, profile: profile}
}

// RegisterRoutes registers the log routes on the group.
func (h *LogHandler) RegisterRoutes(router *gin.RouterGroup) {
	logGroup := router.Group("/log")
	{
		logGroup.GET("", h.AllEntries)
		logGroup.GET("/entries", h.EntriesForDate)
		logGroup.POST("/entries", h.AddEntry)
		logGroup.DELETE("/entries", h.RemoveEntry)
		logGroup.POST("/undo", h.Undo)
		logGroup.GET("/undo", h.CanUndo)
	}
}

// AddEntry logs a consumption and credits its calories to the profile.
func (h *LogHandler) AddEntry(c *gin.Context) {
	var req LogEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}
	food, ok := h.catalog.GetByID(req.FoodID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "food not found"})
		return
	}

	if err := h.dailyLog.AddEntry(food, req.Servings, date); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add log entry"})
		return
	}
	// A log write and the profile credit are two separate persisted updates.
	if err := h.profile.RecordConsumedCalories(date, h.catalog.CaloriesPerServing(food)*req.Servings); err != nil && !errors.Is(err, service.ErrNoProfile) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record calories"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "entry added"})
}

// RemoveEntry deletes matching consumptions and debits their calories from
// the profile.
func (h *LogHandler) RemoveEntry(c *gin.Context) {
	var req LogEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	entry := models.LogEntry{FoodID: req.FoodID, Servings: req.Servings, Date: date}
	removed, err := h.dailyLog.RemoveEntry(date, entry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove log entry"})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "log entry not found"})
		return
	}

	if food, ok := h.catalog.GetByID(req.FoodID); ok {
		if err := h.profile.RecordConsumedCalories(date, -h.catalog.CaloriesPerServing(food)*req.Servings); err != nil && !errors.Is(err, service.ErrNoProfile) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record calories"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "entry removed"})
}

// EntriesForDate returns the date's entries in insertion order.
func (h *LogHandler) EntriesForDate(c *gin.Context) {
	date, err := models.ParseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}
	entries := h.dailyLog.EntriesForDate(date)
	if entries == nil {
		entries = []models.LogEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

// AllEntries returns the full log grouped by date, dates ascending.
func (h *LogHandler) AllEntries(c *gin.Context) {
	c.JSON(http.StatusOK, h.dailyLog.AllEntries())
}

// Undo reverts the most recent log mutation. Calories already credited to
// the profile are not adjusted; the two components have no shared
// transaction.
func (h *LogHandler) Undo(c *gin.Context) {
	h.dailyLog.UndoLast()
	c.JSON(http.StatusOK, gin.H{"can_undo": h.dailyLog.CanUndo()})
}

// CanUndo reports whether a mutation is available to revert.
func (h *LogHandler) CanUndo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"can_undo": h.dailyLog.CanUndo()})
}
