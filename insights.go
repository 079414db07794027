package writedesk

import (
	"sort"
	"strconv"
)

// InsightAction is the single suggested follow-up attached to an insight.
type InsightAction struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// Insight is an ephemeral, rule-based recommendation computed from the admin
// summary list. Insights are never persisted.
type Insight struct {
	ID          string             `json:"id"`
	Kind        string             `json:"kind"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Posts       []PostAdminSummary `json:"posts"`
	Action      InsightAction      `json:"action"`
}

// Insight kinds, fixed one id per kind.
const (
	InsightTopPosts         = "topPosts"
	InsightDecayingPosts    = "decayingPosts"
	InsightHighReadLowShare = "highReadLowShare"
)

// High-traffic/low-CTR bucket thresholds, fixed business constants.
const (
	highReadMinViews = 800
	highReadMaxCTR   = 0.10
)

const writeScreenHref = "/app/write"

// InsightsService derives the three fixed insight views from the admin
// listing. Results are recomputed from scratch on every call.
type InsightsService struct {
	content *ContentService
}

// NewInsightsService creates an InsightsService on top of the content service.
func NewInsightsService(content *ContentService) *InsightsService {
	return &InsightsService{content: content}
}

// Insights returns exactly three insight records: the top three posts by
// views, the bottom two of the same descending-sorted list, and every post
// with high traffic but low click-through.
//
// "Decaying" is literally the two lowest-viewed posts of the current
// snapshot: there is no historical series to compute a real trend from, and
// that thin semantic is preserved on purpose.
func (s *InsightsService) Insights() ([]Insight, error) {
	posts, err := s.content.ListAdminPosts()
	if err != nil {
		return nil, err
	}
	return BuildInsights(posts), nil
}

// BuildInsights is the pure derivation over an admin summary list.
func BuildInsights(posts []PostAdminSummary) []Insight {
	sorted := make([]PostAdminSummary, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ViewsLast30Days > sorted[j].ViewsLast30Days
	})

	top := sorted[:min(3, len(sorted))]
	decaying := sorted[max(0, len(sorted)-2):]

	var highReadLowShare []PostAdminSummary
	for _, p := range sorted {
		if p.ViewsLast30Days >= highReadMinViews && p.ClickThroughRate < highReadMaxCTR {
			highReadLowShare = append(highReadLowShare, p)
		}
	}

	return []Insight{
		{
			ID:          "top-posts-30d",
			Kind:        InsightTopPosts,
			Title:       "Top posts (last 30 days)",
			Description: "These posts are carrying most of your traffic. Keep them fresh and aligned with your current thinking.",
			Posts:       summariesOrEmpty(top),
			Action:      InsightAction{Label: "Update post", Href: editHref(top)},
		},
		{
			ID:          "decaying-posts",
			Kind:        InsightDecayingPosts,
			Title:       "Decaying posts",
			Description: "Once-strong posts that are slowly fading. A small refresh can often revive them.",
			Posts:       summariesOrEmpty(decaying),
			Action:      InsightAction{Label: "Refresh content", Href: editHref(decaying)},
		},
		{
			ID:          "high-read-low-share",
			Kind:        InsightHighReadLowShare,
			Title:       "High-read, low-commitment posts",
			Description: "Readers are interested but not clicking deeper. Consider adding a stronger follow-up or CTA.",
			Posts:       summariesOrEmpty(highReadLowShare),
			Action:      InsightAction{Label: "Write follow-up", Href: writeScreenHref},
		},
	}
}

// editHref links to editing the first post of the bucket, or to the generic
// write screen when the bucket is empty.
func editHref(posts []PostAdminSummary) string {
	if len(posts) == 0 {
		return writeScreenHref
	}
	return writeScreenHref + "?postId=" + strconv.FormatInt(posts[0].ID, 10)
}

func summariesOrEmpty(posts []PostAdminSummary) []PostAdminSummary {
	if posts == nil {
		return []PostAdminSummary{}
	}
	return posts
}
