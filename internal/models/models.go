package models

import "time"

// Identity is a deduplicated author-or-committer entity. Empty attribute
// strings mean the value was absent from the raw record.
type Identity struct {
	StableKey string
	Login     string
	Name      string
	Email     string
}

// Label is the display name used in analysis results: login if present,
// else name, else email, else "Unknown".
func (i Identity) Label() string {
	switch {
	case i.Login != "":
		return i.Login
	case i.Name != "":
		return i.Name
	case i.Email != "":
		return i.Email
	}
	return "Unknown"
}

// Commit is a normalized commit referencing its author and committer
// identities by stable key. Timestamps are UTC.
type Commit struct {
	SHA          string
	AuthorKey    string
	CommitterKey string
	AuthoredAt   time.Time
	CommittedAt  time.Time
	Message      string
}

// AuthorStats is one row of a contributor ranking.
type AuthorStats struct {
	Author  string `json:"author"`
	Commits int    `json:"commits"`
}

// Streak is the longest run of consecutive active days for one author.
type Streak struct {
	Author string    `json:"author"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Days   int       `json:"days"`
}

// HeatmapCell is one populated cell of the day-of-week/hour-of-day activity
// heatmap. Day 0 is Sunday.
type HeatmapCell struct {
	Day     int `json:"day"`
	Hour    int `json:"hour"`
	Commits int `json:"commits"`
}
