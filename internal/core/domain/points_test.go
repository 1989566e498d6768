package domain

import (
	"testing"
	"time"
)

func pts(v int) *int { return &v }

func approvedObjective(userID, category string, points int) *Objective {
	return &Objective{
		Title:          "t",
		Category:       category,
		Points:         pts(points),
		ApprovalStatus: ApprovalApproved,
		UserID:         userID,
		CreatedAt:      time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize("u1", nil, DefaultPointRules())
	if s.TotalPoints != 0 {
		t.Errorf("total = %d, want 0", s.TotalPoints)
	}
	if s.MaxTotal != 18 {
		t.Errorf("max total = %d, want 18", s.MaxTotal)
	}
	if s.Percent != 0 {
		t.Errorf("percent = %d, want 0", s.Percent)
	}
	if len(s.Categories) != 3 {
		t.Errorf("expected every category present, got %d", len(s.Categories))
	}
	for category, cs := range s.Categories {
		if cs.Points != 0 || cs.Over {
			t.Errorf("%s: %+v, want zero and not over", category, cs)
		}
	}
}

func TestSummarize_FiltersUserAndApproval(t *testing.T) {
	objectives := []*Objective{
		approvedObjective("u1", CategoryLearning, 2),
		approvedObjective("u2", CategoryLearning, 4),
	}
	pending := approvedObjective("u1", CategoryDemo, 3)
	pending.ApprovalStatus = ApprovalPending
	objectives = append(objectives, pending)

	s := Summarize("u1", objectives, DefaultPointRules())
	if s.TotalPoints != 2 {
		t.Errorf("total = %d, want 2 (other users and pending excluded)", s.TotalPoints)
	}
}

func TestSummarize_NilPointsCountZero(t *testing.T) {
	o := approvedObjective("u1", CategoryLearning, 0)
	o.Points = nil
	s := Summarize("u1", []*Objective{o}, DefaultPointRules())
	if s.TotalPoints != 0 {
		t.Errorf("total = %d, want 0", s.TotalPoints)
	}
}

func TestSummarize_UnknownCategoryDropped(t *testing.T) {
	s := Summarize("u1", []*Objective{approvedObjective("u1", "Gardening", 5)}, DefaultPointRules())
	if s.TotalPoints != 0 {
		t.Errorf("total = %d, unknown category must be dropped", s.TotalPoints)
	}
	if _, ok := s.Categories["Gardening"]; ok {
		t.Errorf("unknown category leaked into the summary")
	}
}

func TestSummarize_OverMaxNotClamped(t *testing.T) {
	objectives := []*Objective{
		approvedObjective("u1", CategoryDemo, 3),
		approvedObjective("u1", CategoryDemo, 3),
	}
	s := Summarize("u1", objectives, DefaultPointRules())

	cs := s.Categories[CategoryDemo]
	if cs.Points != 6 {
		t.Errorf("points = %d, want raw sum 6", cs.Points)
	}
	if !cs.Over {
		t.Errorf("6 points against max 4 must flag Over")
	}
	if s.TotalPoints != 6 {
		t.Errorf("total = %d, want 6", s.TotalPoints)
	}
}

func TestSummarize_PercentRounding(t *testing.T) {
	// 5 of 18 is 27.78 percent, rounding to 28.
	objectives := []*Objective{approvedObjective("u1", CategoryLearning, 5)}
	s := Summarize("u1", objectives, DefaultPointRules())
	if s.Percent != 28 {
		t.Errorf("percent = %d, want 28", s.Percent)
	}
}

func TestSummarize_MalformedRulesFallBack(t *testing.T) {
	rules := map[string]PointRule{
		CategoryLearning: {Target: 9, Max: 6}, // target above max
	}
	s := Summarize("u1", []*Objective{approvedObjective("u1", CategoryLearning, 4)}, rules)
	if s.TotalPoints != 0 {
		t.Errorf("malformed rules must degrade to the zero summary, total = %d", s.TotalPoints)
	}
	cs, ok := s.Categories[CategoryLearning]
	if !ok {
		t.Fatalf("fallback must keep the category scaffolding")
	}
	if cs.Target != 9 || cs.Max != 6 {
		t.Errorf("fallback lost the configured rule: %+v", cs)
	}
}

func TestSummarize_ZeroMaxTotal(t *testing.T) {
	rules := map[string]PointRule{CategoryLearning: {Target: 0, Max: 0}}
	s := Summarize("u1", []*Objective{approvedObjective("u1", CategoryLearning, 3)}, rules)
	if s.Percent != 0 {
		t.Errorf("percent with zero max must be 0, got %d", s.Percent)
	}
	if s.TotalPoints != 3 {
		t.Errorf("points still accumulate, got %d", s.TotalPoints)
	}
}

func TestResolveEvent(t *testing.T) {
	base := &Objective{
		Title:          "t",
		ApprovalStatus: ApprovalPending,
	}

	approved := *base
	approved.ApprovalStatus = ApprovalApproved
	approved.Title = "renamed"
	if event, ok := ResolveEvent(base, &approved); !ok || event != EventApproved {
		t.Errorf("approval transition: got (%v, %v), want approved", event, ok)
	}

	rejected := *base
	rejected.ApprovalStatus = ApprovalRejected
	if event, ok := ResolveEvent(base, &rejected); !ok || event != EventRejected {
		t.Errorf("rejection transition: got (%v, %v)", event, ok)
	}

	edited := *base
	edited.Title = "renamed"
	if event, ok := ResolveEvent(base, &edited); !ok || event != EventUpdated {
		t.Errorf("content edit: got (%v, %v)", event, ok)
	}

	same := *base
	if _, ok := ResolveEvent(base, &same); ok {
		t.Errorf("identical snapshots must yield no event")
	}

	// Resetting to pending is not a decision; it only notifies when the
	// same write also edits content.
	backToPending := approved
	backToPending.ApprovalStatus = ApprovalPending
	if _, ok := ResolveEvent(&approved, &backToPending); ok {
		t.Errorf("bare reset to pending must yield no event")
	}
	backToPending.Description = "refined"
	if event, ok := ResolveEvent(&approved, &backToPending); !ok || event != EventUpdated {
		t.Errorf("reset with edit: got (%v, %v), want updated", event, ok)
	}
}
