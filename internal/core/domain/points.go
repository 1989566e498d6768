package domain

// PointRule is the static per-category configuration: Target is the
// recommended point value, Max the hard cap. Target <= Max. Rules are
// display/aggregation inputs only; writes get at most a soft warning.
type PointRule struct {
	Target int `json:"target"`
	Max    int `json:"max"`
}

// DefaultPointRules is the shipped rule table.
func DefaultPointRules() map[string]PointRule {
	return map[string]PointRule{
		CategoryLearning: {Target: 4, Max: 6},
		CategoryDemo:     {Target: 3, Max: 4},
		CategoryImpact:   {Target: 8, Max: 8},
	}
}

// CategorySummary reports one category's aggregated points against its rule.
// Over means the raw sum exceeds Max; totals are never clamped. Width is the
// category's share of the combined max, rounded to a whole percent, for
// rendering progress bars.
type CategorySummary struct {
	Points int  `json:"points"`
	Target int  `json:"target"`
	Max    int  `json:"max"`
	Over   bool `json:"over"`
	Width  int  `json:"width"`
}

// Summary is the per-user, per-quarter points rollup backing the dashboard.
type Summary struct {
	Categories  map[string]CategorySummary `json:"categories"`
	TotalPoints int                        `json:"total_points"`
	MaxTotal    int                        `json:"max_total"`
	Percent     int                        `json:"percent"`
}

// Summarize aggregates approved objectives created by userID against rules.
// Objectives by other users, non-approved objectives, and categories absent
// from the rule set are dropped silently; nil points count as zero. When the
// combined max is zero, Width and Percent are zero rather than an error.
//
// Summarize never fails: malformed rules (negative max, target above max)
// degrade to the all-zero fallback of FallbackSummary so a broken rule
// table cannot take down the dashboard.
func Summarize(userID string, objectives []*Objective, rules map[string]PointRule) Summary {
	for _, rule := range rules {
		if rule.Max < 0 || rule.Target > rule.Max {
			return FallbackSummary(rules)
		}
	}

	points := make(map[string]int, len(rules))
	for category := range rules {
		points[category] = 0
	}

	for _, o := range objectives {
		if o == nil || o.UserID != userID || !o.IsApproved() {
			continue
		}
		if _, known := points[o.Category]; !known {
			continue
		}
		points[o.Category] += o.PointValue()
	}

	maxTotal := 0
	for _, rule := range rules {
		maxTotal += rule.Max
	}

	summary := Summary{
		Categories: make(map[string]CategorySummary, len(rules)),
		MaxTotal:   maxTotal,
	}
	for category, rule := range rules {
		p := points[category]
		summary.TotalPoints += p
		summary.Categories[category] = CategorySummary{
			Points: p,
			Target: rule.Target,
			Max:    rule.Max,
			Over:   p > rule.Max,
			Width:  percentOf(p, maxTotal),
		}
	}
	summary.Percent = percentOf(summary.TotalPoints, maxTotal)
	return summary
}

// FallbackSummary is the all-zero summary returned when aggregation cannot
// be trusted. Targets and maxima still come from the configured rules so
// the dashboard renders its scaffolding.
func FallbackSummary(rules map[string]PointRule) Summary {
	summary := Summary{Categories: make(map[string]CategorySummary, len(rules))}
	for category, rule := range rules {
		summary.Categories[category] = CategorySummary{Target: rule.Target, Max: rule.Max}
		summary.MaxTotal += rule.Max
	}
	return summary
}

func percentOf(points, maxTotal int) int {
	if maxTotal <= 0 {
		return 0
	}
	return int(float64(points)/float64(maxTotal)*100 + 0.5)
}
