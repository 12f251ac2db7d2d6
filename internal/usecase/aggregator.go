// Package usecase contains the business logic of the application.
package usecase

import (
	"sort"

	"github.com/naka-gawa/pr-weekly-report/internal/domain"
)

// counter tallies integer counts per key while remembering the order keys were
// first seen, so that ranking ties stay in discovery order.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string, n int) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key] += n
}

func (c *counter) total() int {
	sum := 0
	for _, n := range c.counts {
		sum += n
	}
	return sum
}

// ranking returns the entries sorted descending by count. The sort is stable,
// so equal counts keep their first-seen order.
func (c *counter) ranking() domain.Ranking {
	entries := make(domain.Ranking, 0, len(c.order))
	for _, name := range c.order {
		entries = append(entries, domain.RankEntry{Name: name, Count: c.counts[name]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}

// Aggregate builds the weekly summary from the two record lists. Created PRs
// count once per repository and per author; review comments count only when
// the review itself was submitted inside the window, since the "updated"
// search that produced the records is a superset filter. Missing authors map
// to the ghost sentinel here and nowhere else.
func Aggregate(created []domain.PullRequestRecord, reviewed []domain.ReviewedPR, win domain.ReportWindow) *domain.AggregateStats {
	prsByRepo := newCounter()
	prsByPerson := newCounter()
	commentsByRepo := newCounter()
	commentsByPerson := newCounter()

	for _, pr := range created {
		prsByRepo.add(pr.Repository, 1)
		prsByPerson.add(orGhost(pr.Author), 1)
	}

	for _, pr := range reviewed {
		for _, review := range pr.Reviews {
			if !win.Contains(review.CreatedAt) {
				continue
			}
			commentsByRepo.add(pr.Repository, review.CommentCount)
			commentsByPerson.add(orGhost(review.Author), review.CommentCount)
		}
	}

	return &domain.AggregateStats{
		TotalPRs:         prsByRepo.total(),
		TotalComments:    commentsByRepo.total(),
		PRsByRepo:        prsByRepo.ranking(),
		PRsByPerson:      prsByPerson.ranking(),
		CommentsByRepo:   commentsByRepo.ranking(),
		CommentsByPerson: commentsByPerson.ranking(),
	}
}

func orGhost(login string) string {
	if login == "" {
		return domain.GhostUser
	}
	return login
}
