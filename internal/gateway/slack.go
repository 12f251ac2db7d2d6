package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/naka-gawa/pr-weekly-report/internal/domain"
)

const (
	attachmentColor = "#6C5CE7"
	rankingLimit    = 10
	noActivityText  = "활동 없음"
)

// Notifier defines the behavior of a gateway that delivers the weekly summary
// to its destination channel.
type Notifier interface {
	Publish(ctx context.Context, stats *domain.AggregateStats, win domain.ReportWindow) error
}

// SlackNotifier posts the report to a Slack channel via chat.postMessage.
type SlackNotifier struct {
	client  *slack.Client
	channel string
}

// NewSlackNotifier creates a notifier authenticated with a bot token.
func NewSlackNotifier(token, channel string) *SlackNotifier {
	return &SlackNotifier{
		client:  slack.New(token),
		channel: channel,
	}
}

// Publish renders the stats as a Block Kit attachment and delivers it. A
// non-ok API response surfaces as an error carrying Slack's error code.
func (n *SlackNotifier) Publish(ctx context.Context, stats *domain.AggregateStats, win domain.ReportWindow) error {
	attachment := slack.Attachment{
		Color:  attachmentColor,
		Blocks: slack.Blocks{BlockSet: buildBlocks(stats, win)},
	}
	_, _, err := n.client.PostMessageContext(ctx, n.channel, slack.MsgOptionAttachments(attachment))
	if err != nil {
		return fmt.Errorf("failed to post report to Slack: %w", err)
	}
	return nil
}

func buildBlocks(stats *domain.AggregateStats, win domain.ReportWindow) []slack.Block {
	const footerLayout = "01/02 15:04"
	footer := fmt.Sprintf("📅 %s ~ %s",
		win.Start.In(domain.KST).Format(footerLayout),
		win.End.In(domain.KST).Format(footerLayout))

	return []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, "📊 주간 PR 리포트", true, false)),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*총 PR:*\n%d건", stats.TotalPRs), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*총 리뷰 코멘트:*\n%d건", stats.TotalComments), false, false),
		}, nil),
		slack.NewDividerBlock(),
		rankingSection("📁 레포별 PR", stats.PRsByRepo),
		rankingSection("👤 사람별 PR", stats.PRsByPerson),
		slack.NewDividerBlock(),
		rankingSection("📁 레포별 리뷰 코멘트", stats.CommentsByRepo),
		rankingSection("👤 사람별 리뷰 코멘트", stats.CommentsByPerson),
		slack.NewContextBlock("", slack.NewTextBlockObject(slack.MarkdownType, footer, false, false)),
	}
}

func rankingSection(title string, r domain.Ranking) *slack.SectionBlock {
	text := fmt.Sprintf("*%s*\n```\n%s```", title, rankingText(r))
	return slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil)
}

// rankingText renders a ranking as a numbered top-10 list with the 건 unit
// suffix, or the no-activity sentinel when the ranking is empty.
func rankingText(r domain.Ranking) string {
	if len(r) == 0 {
		return noActivityText
	}
	if len(r) > rankingLimit {
		r = r[:rankingLimit]
	}
	lines := make([]string, 0, len(r))
	for i, entry := range r {
		lines = append(lines, fmt.Sprintf("%d. %s: %d건", i+1, entry.Name, entry.Count))
	}
	return strings.Join(lines, "\n")
}
