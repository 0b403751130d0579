// Package pipeline orchestrates one Extract → Transform → Load → Analyze
// run. Stages execute strictly sequentially; every stage failure propagates
// upward labeled with its stage name and aborts the run.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github-commit-insights/internal/config"
	"github-commit-insights/internal/db"
	"github-commit-insights/internal/export"
	"github-commit-insights/internal/github"
	"github-commit-insights/internal/transform"
)

const topLimit = 5

// Run executes the full pipeline for the configured repository and window,
// then runs the analysis stage unless it is disabled.
func Run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	logger.WithFields(logrus.Fields{
		"repo":   cfg.RepoOwner + "/" + cfg.RepoName,
		"months": cfg.Months,
		"db":     cfg.DBPath,
	}).Info("Starting ETL pipeline")

	if cfg.GitHubToken == "" {
		logger.Warn("No GitHub token provided. API rate limits will be restrictive")
	}

	client := github.NewClient(cfg.GitHubToken, logger, github.WithBaseURL(cfg.APIBaseURL))
	fetcher := github.NewCommitFetcher(client, logger)

	repo, err := fetcher.GetRepository(ctx, cfg.RepoOwner, cfg.RepoName)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	logger.WithField("repo", repo.FullName).Info("Resolved repository")

	since := time.Now().AddDate(0, -cfg.Months, 0)
	raw, err := fetcher.FetchCommits(ctx, cfg.RepoOwner, cfg.RepoName, since)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	result := transform.Transform(raw)
	logger.WithFields(logrus.Fields{
		"identities": len(result.Identities),
		"commits":    len(result.Commits),
	}).Info("Transformed raw commits")

	store, err := db.Open(cfg.DBPath, logger)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	defer store.Close()

	loader := db.NewLoader(store, logger)
	count, err := loader.Load(ctx, result.Identities, result.Commits)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	logger.WithField("commits", count).Info("ETL pipeline completed")

	if !cfg.RunAnalysis {
		return nil
	}
	return analyze(ctx, store, cfg, logger)
}

// Analyze runs the analysis stage against a previously loaded store.
func Analyze(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	store, err := db.Open(cfg.DBPath, logger)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	defer store.Close()

	return analyze(ctx, store, cfg, logger)
}

func analyze(ctx context.Context, store *db.Store, cfg *config.Config, logger *logrus.Logger) error {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	analyzer := db.NewAnalyzer(store)

	topAuthors, err := analyzer.TopAuthors(ctx, topLimit)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	if err := export.TopAuthors(filepath.Join(cfg.OutputDir, "top_authors.csv"), topAuthors); err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	topCommitters, err := analyzer.TopCommitters(ctx, topLimit)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	if err := export.TopAuthors(filepath.Join(cfg.OutputDir, "top_committers.csv"), topCommitters); err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	streak, err := analyzer.LongestStreak(ctx)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	if err := export.Streak(filepath.Join(cfg.OutputDir, "longest_streak.csv"), streak); err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	if streak != nil {
		logger.WithFields(logrus.Fields{
			"author": streak.Author,
			"days":   streak.Days,
			"start":  streak.Start.Format("2006-01-02"),
			"end":    streak.End.Format("2006-01-02"),
		}).Info("Longest commit streak")
	} else {
		logger.Warn("No commit streaks found")
	}

	heatmap, err := analyzer.Heatmap(ctx)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	if err := export.Heatmap(filepath.Join(cfg.OutputDir, "commit_heatmap.csv"), heatmap); err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	logger.WithField("output_dir", cfg.OutputDir).Info("Analysis completed")
	return nil
}
