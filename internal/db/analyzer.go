package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github-commit-insights/internal/models"
)

const dateLayout = "2006-01-02"

// identityLabel ranks display names the same way stable keys are derived.
const identityLabel = "COALESCE(i.login, i.name, i.email, 'Unknown')"

// Analyzer answers read-only analytical queries over a loaded store. Safe to
// call repeatedly and in any order once a load has completed.
type Analyzer struct {
	store *Store
}

// NewAnalyzer creates an analyzer over the given store.
func NewAnalyzer(store *Store) *Analyzer {
	return &Analyzer{store: store}
}

// TopAuthors returns up to limit authors ranked by commit count descending.
// Ties are broken by identity insertion order, which is first-seen traversal
// order from the transform stage.
func (a *Analyzer) TopAuthors(ctx context.Context, limit int) ([]models.AuthorStats, error) {
	return a.topIdentities(ctx, "author_id", limit)
}

// TopCommitters is TopAuthors over the committer relationship.
func (a *Analyzer) TopCommitters(ctx context.Context, limit int) ([]models.AuthorStats, error) {
	return a.topIdentities(ctx, "committer_id", limit)
}

func (a *Analyzer) topIdentities(ctx context.Context, fkColumn string, limit int) ([]models.AuthorStats, error) {
	query := fmt.Sprintf(`
		SELECT %s AS author, COUNT(c.id) AS commit_count
		FROM commits c
		JOIN identities i ON c.%s = i.id
		GROUP BY i.id
		ORDER BY commit_count DESC, i.id ASC
		LIMIT ?`, identityLabel, fkColumn)

	rows, err := a.store.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, NewAnalysisError(err)
	}
	defer rows.Close()

	var stats []models.AuthorStats
	for rows.Next() {
		var s models.AuthorStats
		if err := rows.Scan(&s.Author, &s.Commits); err != nil {
			return nil, NewAnalysisError(err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, NewAnalysisError(err)
	}
	return stats, nil
}

// LongestStreak finds the author with the longest run of consecutive
// calendar days having at least one authored commit. Days are grouped with
// the gap-grouping trick: julianday(date) minus the day's rank within the
// author's sorted active days is constant exactly across one streak. Ties go
// to the earliest streak start. Returns nil when the store holds no commits.
func (a *Analyzer) LongestStreak(ctx context.Context) (*models.Streak, error) {
	const query = `
		WITH daily_commits AS (
			SELECT
				i.id AS author_id,
				` + identityLabel + ` AS author,
				DATE(c.authored_at) AS commit_date
			FROM commits c
			JOIN identities i ON c.author_id = i.id
			GROUP BY i.id, DATE(c.authored_at)
		),
		numbered_days AS (
			SELECT
				author_id,
				author,
				commit_date,
				julianday(commit_date) - ROW_NUMBER() OVER (
					PARTITION BY author_id ORDER BY commit_date
				) AS group_id
			FROM daily_commits
		),
		streaks AS (
			SELECT
				author,
				MIN(commit_date) AS streak_start,
				MAX(commit_date) AS streak_end,
				COUNT(*) AS streak_length
			FROM numbered_days
			GROUP BY author_id, group_id
		)
		SELECT author, streak_start, streak_end, streak_length
		FROM streaks
		ORDER BY streak_length DESC, streak_start ASC
		LIMIT 1`

	var (
		streak     models.Streak
		start, end string
	)
	err := a.store.db.QueryRowContext(ctx, query).Scan(&streak.Author, &start, &end, &streak.Days)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, NewAnalysisError(err)
	}

	if streak.Start, err = time.Parse(dateLayout, start); err != nil {
		return nil, NewAnalysisError(fmt.Errorf("bad streak start date %q: %w", start, err))
	}
	if streak.End, err = time.Parse(dateLayout, end); err != nil {
		return nil, NewAnalysisError(fmt.Errorf("bad streak end date %q: %w", end, err))
	}

	return &streak, nil
}

// Heatmap aggregates commit counts by day of week (0=Sunday) and hour of
// day over authored timestamps. Only populated cells are returned, ordered
// by day then hour.
func (a *Analyzer) Heatmap(ctx context.Context) ([]models.HeatmapCell, error) {
	const query = `
		SELECT
			CAST(strftime('%w', authored_at) AS INTEGER) AS day_of_week,
			CAST(strftime('%H', authored_at) AS INTEGER) AS hour,
			COUNT(*) AS commit_count
		FROM commits
		GROUP BY day_of_week, hour
		ORDER BY day_of_week, hour`

	rows, err := a.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, NewAnalysisError(err)
	}
	defer rows.Close()

	var cells []models.HeatmapCell
	for rows.Next() {
		var cell models.HeatmapCell
		if err := rows.Scan(&cell.Day, &cell.Hour, &cell.Commits); err != nil {
			return nil, NewAnalysisError(err)
		}
		cells = append(cells, cell)
	}
	if err := rows.Err(); err != nil {
		return nil, NewAnalysisError(err)
	}
	return cells, nil
}
