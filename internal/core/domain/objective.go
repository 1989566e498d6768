package domain

import (
	"errors"
	"time"
)

// ApprovalStatus is the manager-controlled review state of an objective.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "Pending Approval"
	ApprovalApproved ApprovalStatus = "Approved"
	ApprovalRejected ApprovalStatus = "Rejected"
)

// Objective categories. The set is fixed; point rules are keyed by it.
const (
	CategoryLearning = "Learning and Certification"
	CategoryDemo     = "Demo & Assets"
	CategoryImpact   = "Impact Outside of Pod"
)

// EventType identifies a lifecycle event observed at the write boundary.
// These are events, not objective states: "updated" means a content field
// changed without an approval transition in the same write.
type EventType string

const (
	EventCreated  EventType = "created"
	EventApproved EventType = "approved"
	EventRejected EventType = "rejected"
	EventUpdated  EventType = "updated"
	EventDeleted  EventType = "deleted"
)

var (
	ErrObjectiveNotFound  = errors.New("objective not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSelfManager        = errors.New("user cannot be their own manager")
	ErrNegativePoints     = errors.New("points cannot be negative")
	ErrInvalidQuarter     = errors.New("quarter must be between 1 and 4")
)

// Objective is a user-submitted business objective ("MBO"). Points carry
// weight only once ApprovalStatus is Approved; aggregation must ignore
// pending and rejected objectives. CreatedAt drives quarter bucketing and
// is deliberately mutable by managers so an objective can be moved to a
// different quarter.
type Objective struct {
	ID             string         `json:"id" bson:"_id,omitempty"`
	Title          string         `json:"title" bson:"title"`
	Description    string         `json:"description" bson:"description"`
	Category       string         `json:"category" bson:"category"`
	Link           string         `json:"link,omitempty" bson:"link,omitempty"`
	Points         *int           `json:"points,omitempty" bson:"points,omitempty"`
	ProgressStatus string         `json:"progress_status" bson:"progress_status"`
	ApprovalStatus ApprovalStatus `json:"approval_status" bson:"approval_status"`
	UserID         string         `json:"user_id" bson:"user_id"`
	CreatedAt      time.Time      `json:"created_at" bson:"created_at"`
}

// PointValue returns the assigned points, treating unset as zero.
func (o *Objective) PointValue() int {
	if o.Points == nil {
		return 0
	}
	return *o.Points
}

// IsApproved reports whether the objective has been approved by a manager.
func (o *Objective) IsApproved() bool {
	return o.ApprovalStatus == ApprovalApproved
}

// ValidCategory reports whether category is one of the fixed set.
func ValidCategory(category string) bool {
	switch category {
	case CategoryLearning, CategoryDemo, CategoryImpact:
		return true
	}
	return false
}

// ResolveEvent classifies an update write into a single lifecycle event by
// comparing before/after snapshots. An approval-status transition from a
// non-empty prior value wins and suppresses the generic updated event, so
// one write never yields two notifications. Returns ok=false when nothing
// notification-worthy changed.
func ResolveEvent(before, after *Objective) (EventType, bool) {
	if before.ApprovalStatus != after.ApprovalStatus && before.ApprovalStatus != "" {
		switch after.ApprovalStatus {
		case ApprovalApproved:
			return EventApproved, true
		case ApprovalRejected:
			return EventRejected, true
		}
		// Back to Pending Approval: fall through to content comparison.
	}
	if contentChanged(before, after) {
		return EventUpdated, true
	}
	return "", false
}

// contentChanged compares the fixed set of notification-relevant fields.
func contentChanged(before, after *Objective) bool {
	return before.Title != after.Title ||
		before.Description != after.Description ||
		before.Category != after.Category ||
		before.PointValue() != after.PointValue() ||
		before.Link != after.Link ||
		before.ProgressStatus != after.ProgressStatus
}
