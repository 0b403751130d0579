package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github-commit-insights/internal/db"
)

const defaultLimit = 5

// Handler serves the analyzer's result sets over HTTP. All endpoints are
// read-only.
type Handler struct {
	analyzer *db.Analyzer
	logger   *logrus.Logger
}

// NewHandler creates an API handler over the given analyzer.
func NewHandler(analyzer *db.Analyzer, logger *logrus.Logger) *Handler {
	return &Handler{
		analyzer: analyzer,
		logger:   logger,
	}
}

// GetTopAuthors responds with authors ranked by commit count.
func (h *Handler) GetTopAuthors(c *gin.Context) {
	limit, err := getIntQueryParam(c, "limit", defaultLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})
		return
	}

	authors, err := h.analyzer.TopAuthors(c.Request.Context(), limit)
	if err != nil {
		h.logger.Errorf("Failed to get top authors: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get top authors"})
		return
	}
	c.JSON(http.StatusOK, authors)
}

// GetTopCommitters responds with committers ranked by commit count.
func (h *Handler) GetTopCommitters(c *gin.Context) {
	limit, err := getIntQueryParam(c, "limit", defaultLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})
		return
	}

	committers, err := h.analyzer.TopCommitters(c.Request.Context(), limit)
	if err != nil {
		h.logger.Errorf("Failed to get top committers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get top committers"})
		return
	}
	c.JSON(http.StatusOK, committers)
}

// GetLongestStreak responds with the longest consecutive-day commit streak.
func (h *Handler) GetLongestStreak(c *gin.Context) {
	streak, err := h.analyzer.LongestStreak(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Failed to get longest streak: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get longest streak"})
		return
	}
	if streak == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no commit streaks found"})
		return
	}
	c.JSON(http.StatusOK, streak)
}

// GetHeatmap responds with the sparse day-of-week/hour activity cells.
func (h *Handler) GetHeatmap(c *gin.Context) {
	cells, err := h.analyzer.Heatmap(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Failed to get heatmap: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get heatmap"})
		return
	}
	c.JSON(http.StatusOK, cells)
}

func getIntQueryParam(c *gin.Context, param string, defaultValue int) (int, error) {
	value := c.Query(param)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}
