package ports

import (
	"context"

	"github.com/mbotrack/mbo-tracker/internal/core/domain"
)

// Email is one outbound transactional message. The transport always BCCs
// the fixed observer mailbox on top of whatever CC the caller supplies.
type Email struct {
	To       []string
	CC       []string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer is the email delivery channel. Best effort and independently
// failable; a failed send must never roll back the write that caused it.
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

// ChatMessage is the payload handed to the chat channel. Recipient
// resolution happens inside the channel (address lookup against the chat
// service), independent of the email recipient table.
type ChatMessage struct {
	Event         domain.EventType
	ObjectiveID   string
	Title         string
	Description   string
	EmployeeName  string
	EmployeeEmail string
	ManagerEmail  string
}

// Messenger is the chat delivery channel. Implementations include the
// Slack client and a no-op selected by configuration when the integration
// is disabled.
type Messenger interface {
	Send(ctx context.Context, msg ChatMessage) error
}

// DedupStore suppresses repeat notifications. A (recipient, objective,
// event) key that was marked within the cooldown window reports duplicate.
type DedupStore interface {
	IsDuplicate(ctx context.Context, recipient, objectiveID string, event domain.EventType) (bool, error)
	Mark(ctx context.Context, recipient, objectiveID string, event domain.EventType) error
}

// Notifier dispatches objective lifecycle notifications. The write path
// calls it explicitly after a successful commit with before/after
// snapshots; there is no persistence-layer event hook.
//
// Only ObjectiveCreated returns an error: outside the test environment a
// failed created dispatch propagates so a lost mandatory notification
// surfaces as a server error. Every other event swallows channel failures.
type Notifier interface {
	ObjectiveCreated(ctx context.Context, obj *domain.Objective, actor *domain.User) error
	ObjectiveChanged(ctx context.Context, before, after *domain.Objective, actor *domain.User)
	ObjectiveDeleted(ctx context.Context, obj *domain.Objective, actor *domain.User)
}
