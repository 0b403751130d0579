package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github-commit-insights/internal/models"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestTopAuthors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "top_authors.csv")
	rows := []models.AuthorStats{
		{Author: "alice", Commits: 5},
		{Author: "bob", Commits: 3},
	}

	require.NoError(t, TopAuthors(path, rows))
	assert.Equal(t, "rank,author,commits\n1,alice,5\n2,bob,3\n", readFile(t, path))
}

func TestStreak(t *testing.T) {
	t.Run("with result", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "longest_streak.csv")
		streak := &models.Streak{
			Author: "bob",
			Start:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			End:    time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
			Days:   4,
		}

		require.NoError(t, Streak(path, streak))
		assert.Equal(t, "author,streak_start,streak_end,streak_length\nbob,2024-01-01,2024-01-04,4\n", readFile(t, path))
	})

	t.Run("nil streak writes just the header", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "longest_streak.csv")
		require.NoError(t, Streak(path, nil))
		assert.Equal(t, "author,streak_start,streak_end,streak_length\n", readFile(t, path))
	})
}

func TestHeatmap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commit_heatmap.csv")
	cells := []models.HeatmapCell{
		{Day: 0, Hour: 3, Commits: 1},
		{Day: 1, Hour: 22, Commits: 7},
	}

	require.NoError(t, Heatmap(path, cells))
	assert.Equal(t, "day_of_week,hour,commits\n0,3,1\n1,22,7\n", readFile(t, path))
}
