package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github-commit-insights/internal/db"
	"github-commit-insights/internal/models"
)

func setupRouter(t *testing.T, identities []models.Identity, commits []models.Commit) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	store, err := db.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	_, err = db.NewLoader(store, logger).Load(context.Background(), identities, commits)
	require.NoError(t, err)

	return SetupRouter(NewHandler(db.NewAnalyzer(store), logger))
}

func fixtureCommit(sha, author string, authoredAt time.Time) models.Commit {
	return models.Commit{
		SHA:          sha,
		AuthorKey:    author,
		CommitterKey: author,
		AuthoredAt:   authoredAt,
		CommittedAt:  authoredAt,
		Message:      "commit " + sha,
	}
}

func fixtureData() ([]models.Identity, []models.Commit) {
	identities := []models.Identity{
		{StableKey: "alice", Login: "alice"},
		{StableKey: "bob", Login: "bob"},
	}
	commits := []models.Commit{
		fixtureCommit("sha-1", "alice", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)),
		fixtureCommit("sha-2", "alice", time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)),
		fixtureCommit("sha-3", "bob", time.Date(2024, 1, 7, 3, 0, 0, 0, time.UTC)),
	}
	return identities, commits
}

func doRequest(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_GetTopAuthors(t *testing.T) {
	identities, commits := fixtureData()
	router := setupRouter(t, identities, commits)

	t.Run("returns ranked authors", func(t *testing.T) {
		w := doRequest(router, "/api/v1/analytics/top-authors")
		require.Equal(t, http.StatusOK, w.Code)

		var stats []models.AuthorStats
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
		require.Len(t, stats, 2)
		assert.Equal(t, models.AuthorStats{Author: "alice", Commits: 2}, stats[0])
		assert.Equal(t, models.AuthorStats{Author: "bob", Commits: 1}, stats[1])
	})

	t.Run("respects limit", func(t *testing.T) {
		w := doRequest(router, "/api/v1/analytics/top-authors?limit=1")
		require.Equal(t, http.StatusOK, w.Code)

		var stats []models.AuthorStats
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
		assert.Len(t, stats, 1)
	})

	t.Run("rejects bad limit", func(t *testing.T) {
		w := doRequest(router, "/api/v1/analytics/top-authors?limit=abc")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_GetLongestStreak(t *testing.T) {
	t.Run("returns the streak", func(t *testing.T) {
		identities, commits := fixtureData()
		router := setupRouter(t, identities, commits)

		w := doRequest(router, "/api/v1/analytics/longest-streak")
		require.Equal(t, http.StatusOK, w.Code)

		var streak models.Streak
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &streak))
		assert.Equal(t, "alice", streak.Author)
		assert.Equal(t, 2, streak.Days)
	})

	t.Run("404 when the store has no commits", func(t *testing.T) {
		router := setupRouter(t, nil, nil)
		w := doRequest(router, "/api/v1/analytics/longest-streak")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandler_GetHeatmap(t *testing.T) {
	identities, commits := fixtureData()
	router := setupRouter(t, identities, commits)

	w := doRequest(router, "/api/v1/analytics/heatmap")
	require.Equal(t, http.StatusOK, w.Code)

	var cells []models.HeatmapCell
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cells))
	// Three commits on three distinct (day, hour) cells.
	assert.Len(t, cells, 3)
	assert.Contains(t, cells, models.HeatmapCell{Day: 0, Hour: 3, Commits: 1})
}
