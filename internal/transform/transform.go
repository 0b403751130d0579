// Package transform converts raw GitHub commit records into normalized
// identities and commits. It is a pure function over in-memory structures:
// no network, no storage.
package transform

import (
	"github-commit-insights/internal/github"
	"github-commit-insights/internal/models"
)

// unknownKey is the stable key for records carrying no usable identity at all.
const unknownKey = "Unknown"

// Result is the output of a transform pass. Identities preserve first-seen
// traversal order so that downstream insertion order is deterministic under
// pagination order.
type Result struct {
	Identities []models.Identity
	Commits    []models.Commit
}

// identitySet is an insertion-ordered map from stable key to identity.
// First-seen attributes win; later records with the same key but different
// name/email do not overwrite.
type identitySet struct {
	keys  map[string]struct{}
	order []models.Identity
}

func newIdentitySet() *identitySet {
	return &identitySet{keys: make(map[string]struct{})}
}

func (s *identitySet) add(id models.Identity) {
	if _, ok := s.keys[id.StableKey]; ok {
		return
	}
	s.keys[id.StableKey] = struct{}{}
	s.order = append(s.order, id)
}

// StableKey derives the deduplication key for an identity fragment with
// precedence login > name > email > "Unknown".
func StableKey(login, name, email string) string {
	switch {
	case login != "":
		return login
	case name != "":
		return name
	case email != "":
		return email
	}
	return unknownKey
}

// Transform normalizes raw commits, deduplicating author and committer
// identities independently by stable key. Records without a sha or committed
// date are dropped.
func Transform(raw []github.RawCommit) Result {
	identities := newIdentitySet()
	commits := make([]models.Commit, 0, len(raw))

	for _, rc := range raw {
		if rc.SHA == "" || rc.Commit.Committer.Date.IsZero() {
			continue
		}

		author := toIdentity(rc.Author, rc.Commit.Author)
		committer := toIdentity(rc.Committer, rc.Commit.Committer)
		identities.add(author)
		identities.add(committer)

		commits = append(commits, models.Commit{
			SHA:          rc.SHA,
			AuthorKey:    author.StableKey,
			CommitterKey: committer.StableKey,
			AuthoredAt:   rc.Commit.Author.Date.UTC(),
			CommittedAt:  rc.Commit.Committer.Date.UTC(),
			Message:      rc.Commit.Message,
		})
	}

	return Result{
		Identities: identities.order,
		Commits:    commits,
	}
}

// toIdentity merges the platform account (login) with the git signature
// (name, email) into one identity.
func toIdentity(account *github.RawAccount, sig github.RawSignature) models.Identity {
	login := ""
	if account != nil {
		login = account.Login
	}
	return models.Identity{
		StableKey: StableKey(login, sig.Name, sig.Email),
		Login:     login,
		Name:      sig.Name,
		Email:     sig.Email,
	}
}
