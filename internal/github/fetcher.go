package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

const perPage = 100

// CommitFetcher walks the commit-listing endpoint for one repository across
// all pages within a date window.
type CommitFetcher struct {
	client *Client
	logger *logrus.Logger
}

// NewCommitFetcher creates a fetcher on top of the given client.
func NewCommitFetcher(client *Client, logger *logrus.Logger) *CommitFetcher {
	return &CommitFetcher{
		client: client,
		logger: logger,
	}
}

// FetchCommits returns every commit authored since the given time, in the
// API's reverse-chronological order. Pages are requested starting at 1 and
// traversal stops at the first empty page. Any client error aborts the whole
// fetch; there is no partial-result recovery.
func (f *CommitFetcher) FetchCommits(ctx context.Context, owner, name string, since time.Time) ([]RawCommit, error) {
	logger := f.logger.WithFields(logrus.Fields{
		"owner": owner,
		"repo":  name,
		"since": since.UTC().Format(time.RFC3339),
	})
	logger.Info("Fetching commits from GitHub API")

	path := fmt.Sprintf("/repos/%s/%s/commits", owner, name)

	var all []RawCommit
	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("since", since.UTC().Format(time.RFC3339))
		query.Set("per_page", strconv.Itoa(perPage))
		query.Set("page", strconv.Itoa(page))

		var commits []RawCommit
		if err := f.client.Get(ctx, path, query, &commits); err != nil {
			return nil, err
		}

		if len(commits) == 0 {
			break
		}

		all = append(all, commits...)
		logger.WithFields(logrus.Fields{
			"page":  page,
			"count": len(commits),
			"total": len(all),
		}).Debug("Fetched commits page")
	}

	logger.WithField("total", len(all)).Info("Finished fetching commits")
	return all, nil
}

// GetRepository fetches repository metadata, used for run logging and to
// fail early on unknown repositories.
func (f *CommitFetcher) GetRepository(ctx context.Context, owner, name string) (*Repository, error) {
	var repo Repository
	if err := f.client.Get(ctx, fmt.Sprintf("/repos/%s/%s", owner, name), nil, &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}
