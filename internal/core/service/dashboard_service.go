package service

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/mbotrack/mbo-tracker/internal/core/domain"
	"github.com/mbotrack/mbo-tracker/internal/core/ports"
)

// DashboardService aggregates approved points per user per fiscal quarter.
// Aggregation is read-only and must not fail the page: repository errors
// surface, but malformed data degrades to the zero summary.
type DashboardService struct {
	users      ports.UserRepository
	objectives ports.ObjectiveRepository
	rules      map[string]domain.PointRule
	log        zerolog.Logger
}

func NewDashboardService(
	users ports.UserRepository,
	objectives ports.ObjectiveRepository,
	rules map[string]domain.PointRule,
	log zerolog.Logger,
) *DashboardService {
	return &DashboardService{users: users, objectives: objectives, rules: rules, log: log}
}

var _ ports.DashboardService = (*DashboardService)(nil)

// Summary computes one user's per-category rollup for the quarter.
func (s *DashboardService) Summary(ctx context.Context, userID string, quarter, year int) (domain.Summary, domain.QuarterWindow, error) {
	window, err := resolveWindow(quarter, year)
	if err != nil {
		return domain.Summary{}, domain.QuarterWindow{}, err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return domain.Summary{}, domain.QuarterWindow{}, err
	}

	items, _, err := s.objectives.List(ctx, ports.ObjectiveFilter{
		UserIDs:      []string{userID},
		ApprovedOnly: true,
		Window:       &window,
	})
	if err != nil {
		return domain.Summary{}, domain.QuarterWindow{}, err
	}

	return domain.Summarize(userID, items, s.rules), window, nil
}

// Leaderboard lists every user in the region with their quarter totals,
// sorted by completion percentage descending. Users without approved
// objectives appear with zero points.
func (s *DashboardService) Leaderboard(ctx context.Context, region string, quarter, year int) (*ports.LeaderboardResult, error) {
	window, err := resolveWindow(quarter, year)
	if err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx, ports.UserFilter{Region: region})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	var items []*domain.Objective
	if len(ids) > 0 {
		items, _, err = s.objectives.List(ctx, ports.ObjectiveFilter{
			UserIDs:      ids,
			ApprovedOnly: true,
			Window:       &window,
		})
		if err != nil {
			return nil, err
		}
	}

	byUser := make(map[string][]*domain.Objective, len(users))
	for _, o := range items {
		byUser[o.UserID] = append(byUser[o.UserID], o)
	}

	result := &ports.LeaderboardResult{
		Entries: make([]ports.LeaderboardEntry, 0, len(users)),
		Window:  window,
		Region:  region,
	}
	for _, u := range users {
		summary := domain.Summarize(u.ID, byUser[u.ID], s.rules)
		result.Entries = append(result.Entries, ports.LeaderboardEntry{
			User:    u,
			Points:  summary.TotalPoints,
			Percent: summary.Percent,
		})
	}
	sort.SliceStable(result.Entries, func(i, j int) bool {
		if result.Entries[i].Percent != result.Entries[j].Percent {
			return result.Entries[i].Percent > result.Entries[j].Percent
		}
		return result.Entries[i].User.FullName() < result.Entries[j].User.FullName()
	})

	s.log.Debug().
		Str("region", region).
		Int("quarter", window.Quarter).
		Int("fiscal_year", window.FiscalYear).
		Int("users", len(result.Entries)).
		Msg("leaderboard computed")
	return result, nil
}
