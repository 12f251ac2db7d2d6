// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// GhostUser stands in for authors GitHub no longer knows about (deleted
// accounts return a null author). It is substituted at the aggregation
// boundary only; raw records keep the empty string.
const GhostUser = "ghost"

// PullRequestRecord is one pull request returned by the created-in-window
// search. Author is empty when GitHub returned null.
type PullRequestRecord struct {
	Number     int
	Author     string
	Repository string
}

// ReviewRecord is one review submitted on a pull request.
type ReviewRecord struct {
	Author       string
	CreatedAt    time.Time
	CommentCount int
}

// ReviewedPR is one pull request returned by the updated-in-window search,
// carrying its most recent reviews. The "updated" filter is a superset of
// review activity, so each review must be re-checked against the window.
type ReviewedPR struct {
	Repository string
	Reviews    []ReviewRecord
}

// RankEntry is one row of a ranking: a repository or user name with its count.
type RankEntry struct {
	Name  string
	Count int
}

// Ranking is sorted descending by count; entries with equal counts keep their
// first-seen order.
type Ranking []RankEntry

// AggregateStats is the full weekly summary delivered to Slack.
type AggregateStats struct {
	TotalPRs         int
	TotalComments    int
	PRsByRepo        Ranking
	PRsByPerson      Ranking
	CommentsByRepo   Ranking
	CommentsByPerson Ranking
}
