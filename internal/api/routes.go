package api

import "github.com/gin-gonic/gin"

// SetupRouter configures the analytics API routes.
func SetupRouter(h *Handler) *gin.Engine {
	r := gin.Default()

	v1 := r.Group("/api/v1")
	analytics := v1.Group("/analytics")
	{
		analytics.GET("/top-authors", h.GetTopAuthors)
		analytics.GET("/top-committers", h.GetTopCommitters)
		analytics.GET("/longest-streak", h.GetLongestStreak)
		analytics.GET("/heatmap", h.GetHeatmap)
	}

	return r
}
