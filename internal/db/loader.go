package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"github-commit-insights/internal/models"
)

// timeLayout is how timestamps are stored: UTC wall-clock text, so SQLite's
// date functions all operate in one normalized timezone.
const timeLayout = "2006-01-02 15:04:05"

// Loader persists normalized identities and commits into the store under a
// freshly recreated schema.
type Loader struct {
	store  *Store
	logger *logrus.Logger
}

// NewLoader creates a loader writing into the given store.
func NewLoader(store *Store, logger *logrus.Logger) *Loader {
	return &Loader{
		store:  store,
		logger: logger,
	}
}

// Load recreates the schema, inserts all identities, then inserts all
// commits with resolved author/committer foreign keys. Commits whose sha was
// already inserted in this batch are silently skipped (first wins); such
// duplicates legitimately appear across overlapping pages. Returns the
// number of commit rows written. Any failure aborts the whole load with a
// LoadError and leaves the store state undefined.
func (l *Loader) Load(ctx context.Context, identities []models.Identity, commits []models.Commit) (int, error) {
	if err := l.store.ResetSchema(ctx); err != nil {
		return 0, NewLoadError(err)
	}

	tx, err := l.store.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, NewLoadError(err)
	}
	defer tx.Rollback()

	keyToID, err := l.insertIdentities(ctx, tx, identities)
	if err != nil {
		return 0, NewLoadError(err)
	}

	loaded, err := l.insertCommits(ctx, tx, commits, keyToID)
	if err != nil {
		return 0, NewLoadError(err)
	}

	if err := tx.Commit(); err != nil {
		return 0, NewLoadError(err)
	}

	l.logger.WithFields(logrus.Fields{
		"identities": len(keyToID),
		"commits":    loaded,
	}).Info("Loaded data into store")

	return loaded, nil
}

func (l *Loader) insertIdentities(ctx context.Context, tx *sql.Tx, identities []models.Identity) (map[string]int64, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO identities (stable_key, login, name, email)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare identity insert: %w", err)
	}
	defer stmt.Close()

	keyToID := make(map[string]int64, len(identities))
	for _, id := range identities {
		res, err := stmt.ExecContext(ctx,
			id.StableKey,
			nullString(id.Login),
			nullString(id.Name),
			nullString(id.Email),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert identity %q: %w", id.StableKey, err)
		}
		rowID, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to read identity id for %q: %w", id.StableKey, err)
		}
		keyToID[id.StableKey] = rowID
	}
	return keyToID, nil
}

func (l *Loader) insertCommits(ctx context.Context, tx *sql.Tx, commits []models.Commit, keyToID map[string]int64) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO commits (sha, author_id, committer_id, authored_at, committed_at, message)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare commit insert: %w", err)
	}
	defer stmt.Close()

	seen := make(map[string]struct{}, len(commits))
	loaded := 0
	for _, c := range commits {
		if _, dup := seen[c.SHA]; dup {
			l.logger.WithField("sha", c.SHA).Debug("Skipping duplicate commit")
			continue
		}
		seen[c.SHA] = struct{}{}

		authorID, ok := keyToID[c.AuthorKey]
		if !ok {
			return 0, fmt.Errorf("no identity for author key %q (commit %s)", c.AuthorKey, c.SHA)
		}
		committerID, ok := keyToID[c.CommitterKey]
		if !ok {
			return 0, fmt.Errorf("no identity for committer key %q (commit %s)", c.CommitterKey, c.SHA)
		}

		_, err := stmt.ExecContext(ctx,
			c.SHA,
			authorID,
			committerID,
			c.AuthoredAt.UTC().Format(timeLayout),
			c.CommittedAt.UTC().Format(timeLayout),
			c.Message,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert commit %s: %w", c.SHA, err)
		}
		loaded++
	}
	return loaded, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
