package usecase

import (
	"context"
	"log"
	"time"

	"github.com/naka-gawa/pr-weekly-report/internal/domain"
	"github.com/naka-gawa/pr-weekly-report/internal/gateway"
)

const progressTimeLayout = "2006-01-02 15:04"

// Reporter sequences one report run: resolve the window, fetch both record
// sets, aggregate, and publish. Execution is fully sequential; the two
// searches never overlap.
type Reporter struct {
	fetcher  gateway.Fetcher
	notifier gateway.Notifier
	out      *log.Logger
	warn     *log.Logger
}

// NewReporter creates a Reporter. out receives the progress lines, warn
// receives non-fatal warnings such as truncated search results.
func NewReporter(fetcher gateway.Fetcher, notifier gateway.Notifier, out, warn *log.Logger) *Reporter {
	return &Reporter{
		fetcher:  fetcher,
		notifier: notifier,
		out:      out,
		warn:     warn,
	}
}

// Run generates and delivers the weekly report for the given organization.
// Any error is fatal to the run; truncated search results only warn.
func (r *Reporter) Run(ctx context.Context, org string, now time.Time) error {
	win := domain.ResolveWindow(now)
	r.out.Printf("📊 %s 주간 PR 리포트 (%s ~ %s)",
		org,
		win.Start.In(domain.KST).Format(progressTimeLayout),
		win.End.In(domain.KST).Format(progressTimeLayout))

	created, truncated, err := r.fetcher.FetchCreatedPRs(ctx, org, win)
	if err != nil {
		return err
	}
	if truncated {
		r.warn.Println("Warning: 검색 결과 1000개 초과, 일부 누락 가능")
	}
	r.out.Printf("  생성된 PR: %d건", len(created))

	reviewed, truncated, err := r.fetcher.FetchReviewedPRs(ctx, org, win)
	if err != nil {
		return err
	}
	if truncated {
		r.warn.Println("Warning: 검색 결과 1000개 초과, 일부 누락 가능")
	}
	r.out.Printf("  리뷰 활동 PR: %d건", len(reviewed))

	stats := Aggregate(created, reviewed, win)
	r.out.Printf("  합계: PR %d건, 리뷰 코멘트 %d건", stats.TotalPRs, stats.TotalComments)

	if err := r.notifier.Publish(ctx, stats, win); err != nil {
		return err
	}
	r.out.Println("Slack 전송 완료!")
	return nil
}
