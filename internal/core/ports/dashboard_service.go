package ports

import (
	"context"

	"github.com/mbotrack/mbo-tracker/internal/core/domain"
)

// LeaderboardEntry is one user's standing for the quarter. Users without
// any approved objectives appear with zero points.
type LeaderboardEntry struct {
	User    *domain.User
	Points  int
	Percent int
}

// LeaderboardResult backs the dashboard page and its exports.
type LeaderboardResult struct {
	Entries []LeaderboardEntry
	Window  domain.QuarterWindow
	Region  string
}

// DashboardService aggregates approved points per user per quarter.
type DashboardService interface {
	// Summary computes one user's per-category rollup. Quarter/Year of
	// zero default to the current quarter.
	Summary(ctx context.Context, userID string, quarter, year int) (domain.Summary, domain.QuarterWindow, error)
	// Leaderboard lists every user in the region with their quarter
	// totals, sorted by completion percentage descending.
	Leaderboard(ctx context.Context, region string, quarter, year int) (*LeaderboardResult, error)
}
