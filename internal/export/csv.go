// Package export writes analysis result sets as CSV artifacts.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github-commit-insights/internal/models"
)

const dateLayout = "2006-01-02"

// TopAuthors writes a ranked contributor listing to path.
func TopAuthors(path string, rows []models.AuthorStats) error {
	records := make([][]string, 0, len(rows))
	for i, r := range rows {
		records = append(records, []string{
			strconv.Itoa(i + 1),
			r.Author,
			strconv.Itoa(r.Commits),
		})
	}
	return writeCSV(path, []string{"rank", "author", "commits"}, records)
}

// Streak writes the longest-streak result to path. A nil streak still
// produces a well-formed file with just the header.
func Streak(path string, streak *models.Streak) error {
	var records [][]string
	if streak != nil {
		records = append(records, []string{
			streak.Author,
			streak.Start.Format(dateLayout),
			streak.End.Format(dateLayout),
			strconv.Itoa(streak.Days),
		})
	}
	return writeCSV(path, []string{"author", "streak_start", "streak_end", "streak_length"}, records)
}

// Heatmap writes the sparse day/hour activity cells to path.
func Heatmap(path string, cells []models.HeatmapCell) error {
	records := make([][]string, 0, len(cells))
	for _, c := range cells {
		records = append(records, []string{
			strconv.Itoa(c.Day),
			strconv.Itoa(c.Hour),
			strconv.Itoa(c.Commits),
		})
	}
	return writeCSV(path, []string{"day_of_week", "hour", "commits"}, records)
}

func writeCSV(path string, header []string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
