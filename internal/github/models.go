package github

import "time"

// RawAccount is the platform account attached to a commit when GitHub could
// link the git identity to a user. It is null in the API response otherwise.
type RawAccount struct {
	Login string `json:"login"`
}

// RawSignature is a git author or committer signature.
type RawSignature struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Date  time.Time `json:"date"`
}

// RawCommit mirrors one element of the commit-listing response, limited to
// the fields the pipeline consumes.
type RawCommit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message   string       `json:"message"`
		Author    RawSignature `json:"author"`
		Committer RawSignature `json:"committer"`
	} `json:"commit"`
	Author    *RawAccount `json:"author"`
	Committer *RawAccount `json:"committer"`
}

// Repository holds the subset of repository metadata used for run logging.
type Repository struct {
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description"`
	HTMLURL     string    `json:"html_url"`
	CreatedAt   time.Time `json:"created_at"`
}
