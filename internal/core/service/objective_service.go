package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mbotrack/mbo-tracker/internal/api/metrics"
	"github.com/mbotrack/mbo-tracker/internal/core/domain"
	"github.com/mbotrack/mbo-tracker/internal/core/ports"
)

const (
	defaultProgress = "In progress"
	defaultPageSize = 20
	maxPageSize     = 100
)

// ObjectiveService implements the objective use cases. Every state-changing
// operation invokes the Notifier explicitly after the write commits, with
// before/after snapshots where relevant; there are no persistence-layer
// event hooks.
type ObjectiveService struct {
	repo     ports.ObjectiveRepository
	users    ports.UserRepository
	notifier ports.Notifier
	rules    map[string]domain.PointRule
	log      zerolog.Logger
}

func NewObjectiveService(
	repo ports.ObjectiveRepository,
	users ports.UserRepository,
	notifier ports.Notifier,
	rules map[string]domain.PointRule,
	log zerolog.Logger,
) *ObjectiveService {
	return &ObjectiveService{repo: repo, users: users, notifier: notifier, rules: rules, log: log}
}

var _ ports.ObjectiveService = (*ObjectiveService)(nil)

// Create submits a new objective for the authenticated user. Approval
// status is forced to Pending Approval regardless of input. The quarter
// cap check produces at most a warning in the result, never a rejection.
// A failed created-event dispatch propagates (outside the test
// environment) after the objective is already persisted.
func (s *ObjectiveService) Create(ctx context.Context, input ports.CreateObjectiveInput) (*ports.CreateObjectiveResult, error) {
	if input.Title == "" || input.Description == "" {
		return nil, fmt.Errorf("%w: title and description are required", domain.ErrInvalidInput)
	}
	if !domain.ValidCategory(input.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, input.Category)
	}

	creator, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("create objective: %w", err)
	}

	progress := input.ProgressStatus
	if progress == "" {
		progress = defaultProgress
	}

	obj := &domain.Objective{
		Title:          input.Title,
		Description:    input.Description,
		Category:       input.Category,
		Link:           input.Link,
		ProgressStatus: progress,
		ApprovalStatus: domain.ApprovalPending,
		UserID:         creator.ID,
		CreatedAt:      time.Now().UTC(),
	}

	warning := s.capWarning(ctx, creator.ID, input.Category, obj.CreatedAt)

	created, err := s.repo.Create(ctx, obj)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", creator.ID).Msg("failed to create objective")
		return nil, err
	}
	metrics.ObjectivesCreatedTotal.WithLabelValues(created.Category).Inc()
	s.log.Info().
		Str("objective_id", created.ID).
		Str("user_id", creator.ID).
		Str("category", created.Category).
		Msg("objective created")

	if err := s.notifier.ObjectiveCreated(ctx, created, creator); err != nil {
		// The objective is already persisted; only the notification is lost.
		return nil, fmt.Errorf("objective %s created but notification dispatch failed: %w", created.ID, err)
	}

	return &ports.CreateObjectiveResult{Objective: created, CapWarning: warning}, nil
}

// capWarning sums the points already assigned to the creator's
// same-category objectives in the quarter of createdAt and compares the
// total against the point rule. Advisory only; errors during the check
// are logged and produce no warning.
func (s *ObjectiveService) capWarning(ctx context.Context, userID, category string, createdAt time.Time) string {
	rule, ok := s.rules[category]
	if !ok {
		return ""
	}
	window := domain.CurrentQuarter(createdAt)
	existing, _, err := s.repo.List(ctx, ports.ObjectiveFilter{
		UserIDs:  []string{userID},
		Category: category,
		Window:   &window,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("cap check failed, skipping warning")
		return ""
	}
	var total int
	for _, o := range existing {
		total += o.PointValue()
	}
	switch {
	case total >= rule.Max:
		return fmt.Sprintf("You already have %d points in %s this quarter, at the maximum of %d.", total, category, rule.Max)
	case total >= rule.Target:
		return fmt.Sprintf("You already have %d points in %s this quarter, at or above the recommended goal of %d.", total, category, rule.Target)
	}
	return ""
}

// Update edits an objective. Creators may edit content fields; managers
// may additionally set approval status, points, and the creation
// timestamp (moving the objective between quarters). Exactly one
// notification is dispatched per write, classified from the before/after
// snapshot.
func (s *ObjectiveService) Update(ctx context.Context, input ports.UpdateObjectiveInput) (*domain.Objective, error) {
	obj, err := s.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	actor, err := s.users.FindByID(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}
	if obj.UserID != actor.ID && !actor.IsManager() {
		return nil, domain.ErrForbidden
	}

	before := *obj

	if input.Title != "" {
		obj.Title = input.Title
	}
	if input.Description != "" {
		obj.Description = input.Description
	}
	if input.Category != "" {
		if !domain.ValidCategory(input.Category) {
			return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, input.Category)
		}
		obj.Category = input.Category
	}
	if input.Link != nil {
		obj.Link = *input.Link
	}
	if input.ProgressStatus != "" {
		obj.ProgressStatus = input.ProgressStatus
	}

	if actor.IsManager() {
		if input.ApprovalStatus != "" {
			status := domain.ApprovalStatus(input.ApprovalStatus)
			switch status {
			case domain.ApprovalPending, domain.ApprovalApproved, domain.ApprovalRejected:
				obj.ApprovalStatus = status
			default:
				return nil, fmt.Errorf("%w: unknown approval status %q", domain.ErrInvalidInput, input.ApprovalStatus)
			}
		}
		if input.Points != nil {
			if *input.Points < 0 {
				return nil, domain.ErrNegativePoints
			}
			obj.Points = input.Points
		}
		if input.CreatedAt != nil {
			obj.CreatedAt = input.CreatedAt.UTC()
		}
	}

	if err := s.repo.Update(ctx, obj); err != nil {
		s.log.Error().Err(err).Str("objective_id", obj.ID).Msg("failed to update objective")
		return nil, err
	}
	s.log.Info().Str("objective_id", obj.ID).Str("actor_id", actor.ID).Msg("objective updated")

	s.notifier.ObjectiveChanged(ctx, &before, obj, actor)
	return obj, nil
}

// Review approves or rejects a pending objective. Manager only. Points
// are applied only on approval and must be non-negative.
func (s *ObjectiveService) Review(ctx context.Context, input ports.ReviewObjectiveInput) (*domain.Objective, error) {
	actor, err := s.users.FindByID(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsManager() {
		return nil, domain.ErrForbidden
	}

	obj, err := s.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	before := *obj

	if input.Approve {
		obj.ApprovalStatus = domain.ApprovalApproved
		if input.Points != nil {
			if *input.Points < 0 {
				return nil, domain.ErrNegativePoints
			}
			obj.Points = input.Points
		}
	} else {
		obj.ApprovalStatus = domain.ApprovalRejected
	}

	if err := s.repo.Update(ctx, obj); err != nil {
		return nil, err
	}

	decision := "rejected"
	if input.Approve {
		decision = "approved"
	}
	metrics.ObjectivesReviewedTotal.WithLabelValues(decision).Inc()
	s.log.Info().
		Str("objective_id", obj.ID).
		Str("actor_id", actor.ID).
		Str("decision", decision).
		Msg("objective reviewed")

	s.notifier.ObjectiveChanged(ctx, &before, obj, actor)
	return obj, nil
}

// Delete removes an objective. Creator or any manager. The deletion
// notice is dispatched before removal since the row is gone afterwards.
func (s *ObjectiveService) Delete(ctx context.Context, id, actorID string) error {
	obj, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return err
	}
	if obj.UserID != actor.ID && !actor.IsManager() {
		return domain.ErrForbidden
	}

	s.notifier.ObjectiveDeleted(ctx, obj, actor)

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("objective_id", id).Str("actor_id", actorID).Msg("objective deleted")
	return nil
}

// Get retrieves one objective by id.
func (s *ObjectiveService) Get(ctx context.Context, id string) (*domain.Objective, error) {
	return s.repo.FindByID(ctx, id)
}

// ListMine returns the caller's objectives for one fiscal quarter,
// grouped by approval status.
func (s *ObjectiveService) ListMine(ctx context.Context, input ports.ListMineInput) (*ports.ListMineResult, error) {
	window, err := resolveWindow(input.Quarter, input.Year)
	if err != nil {
		return nil, err
	}

	items, _, err := s.repo.List(ctx, ports.ObjectiveFilter{
		UserIDs: []string{input.UserID},
		Window:  &window,
		SortBy:  input.SortBy,
		SortDir: input.SortDir,
	})
	if err != nil {
		return nil, err
	}

	result := &ports.ListMineResult{Window: window}
	for _, o := range items {
		switch o.ApprovalStatus {
		case domain.ApprovalApproved:
			result.Approved = append(result.Approved, o)
		case domain.ApprovalRejected:
			result.Rejected = append(result.Rejected, o)
		default:
			result.Pending = append(result.Pending, o)
		}
	}
	return result, nil
}

// ListTeam returns a page of approved objectives across the team, with
// creator names resolved for rendering.
func (s *ObjectiveService) ListTeam(ctx context.Context, input ports.ListTeamInput) (*ports.ListTeamResult, error) {
	window, err := resolveWindow(input.Quarter, input.Year)
	if err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx, ports.UserFilter{Region: input.Region})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.User, len(users))
	ids := make([]string, 0, len(users))
	for _, u := range users {
		byID[u.ID] = u
		ids = append(ids, u.ID)
	}
	if input.EmployeeID != "" {
		ids = []string{input.EmployeeID}
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	items, total, err := s.repo.List(ctx, ports.ObjectiveFilter{
		UserIDs:      ids,
		Category:     input.Category,
		Search:       input.Search,
		ApprovedOnly: true,
		Window:       &window,
		SortBy:       input.SortBy,
		SortDir:      input.SortDir,
		Page:         page,
		Limit:        limit,
	})
	if err != nil {
		return nil, err
	}

	result := &ports.ListTeamResult{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
		Window:     window,
	}
	for _, o := range items {
		item := ports.TeamObjective{Objective: o}
		if u, ok := byID[o.UserID]; ok {
			item.EmployeeName = u.FullName()
			item.Region = u.Region
		}
		result.Items = append(result.Items, item)
	}
	return result, nil
}

// ListPending returns every objective awaiting approval. Manager only.
func (s *ObjectiveService) ListPending(ctx context.Context, actorID string) ([]*domain.Objective, error) {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsManager() {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListPending(ctx)
}

// resolveWindow maps an optional (quarter, year) filter to a window,
// defaulting to the quarter containing "now". Both paths share the same
// bound computation, so a window derived from a date and one derived
// from the explicit pair can never disagree.
func resolveWindow(quarter, year int) (domain.QuarterWindow, error) {
	if quarter == 0 && year == 0 {
		return domain.CurrentQuarter(time.Now()), nil
	}
	now := domain.CurrentQuarter(time.Now())
	if quarter == 0 {
		quarter = now.Quarter
	}
	if year == 0 {
		year = now.FiscalYear
	}
	return domain.QuarterRange(quarter, year)
}
