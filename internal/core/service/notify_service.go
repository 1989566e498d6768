package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mbotrack/mbo-tracker/internal/api/metrics"
	"github.com/mbotrack/mbo-tracker/internal/core/domain"
	"github.com/mbotrack/mbo-tracker/internal/core/ports"
)

// NotifyConfig carries the dispatcher's fixed addresses and environment.
type NotifyConfig struct {
	// ObserverEmail is CC'd on every outbound notification email except
	// the deletion notice, for audit and troubleshooting.
	ObserverEmail string
	// BaseURL is the web UI root used to build deep links.
	BaseURL string
	// Env is the runtime environment name. When it is "test", a failed
	// created-event dispatch is swallowed like every other event instead
	// of propagating to the caller.
	Env string
}

// NotifyService resolves recipients for objective lifecycle events and
// fans the rendered message out to the email and chat channels. Channels
// are independent: one failing never blocks the other, and a failure for
// one recipient never blocks the remaining recipients.
type NotifyService struct {
	users     ports.UserRepository
	mailer    ports.Mailer
	messenger ports.Messenger
	dedup     ports.DedupStore
	cfg       NotifyConfig
	log       zerolog.Logger
}

// NewNotifyService returns a Notifier implementation.
func NewNotifyService(
	users ports.UserRepository,
	mailer ports.Mailer,
	messenger ports.Messenger,
	dedup ports.DedupStore,
	cfg NotifyConfig,
	log zerolog.Logger,
) *NotifyService {
	return &NotifyService{
		users:     users,
		mailer:    mailer,
		messenger: messenger,
		dedup:     dedup,
		cfg:       cfg,
		log:       log,
	}
}

var _ ports.Notifier = (*NotifyService)(nil)

// ObjectiveCreated notifies the creator and, when one exists, the
// creator's manager, with the observer mailbox on CC for both. Errors are
// collected rather than short-circuiting; outside the test environment
// the combined error is returned so the caller surfaces a server error.
func (s *NotifyService) ObjectiveCreated(ctx context.Context, obj *domain.Objective, actor *domain.User) error {
	creator, manager, err := s.resolveParties(ctx, obj)
	if err != nil {
		s.log.Warn().Err(err).Str("objective_id", obj.ID).Msg("created dispatch skipped: cannot resolve creator")
		return s.propagate(err)
	}

	var errs []error

	subject := fmt.Sprintf("Your MBO '%s' is pending manager approval", obj.Title)
	if err := s.deliverEmail(ctx, domain.EventCreated, obj, creator, subject, "createdEmployee", mailData{
		RecipientFirst: creator.FirstName,
		Title:          obj.Title,
		Category:       obj.Category,
		Points:         obj.PointValue(),
		Status:         string(obj.ApprovalStatus),
		DetailURL:      detailURL(s.cfg.BaseURL, obj.ID),
	}, true); err != nil {
		errs = append(errs, err)
	}

	if manager != nil {
		subject := fmt.Sprintf("Approval needed: '%s' has created new MBO", creator.FullName())
		if err := s.deliverEmail(ctx, domain.EventCreated, obj, manager, subject, "createdManager", mailData{
			RecipientFirst: manager.FirstName,
			EmployeeName:   creator.FullName(),
			Title:          obj.Title,
			Category:       obj.Category,
			Description:    obj.Description,
			Points:         obj.PointValue(),
			DetailURL:      detailURL(s.cfg.BaseURL, obj.ID),
		}, true); err != nil {
			errs = append(errs, err)
		}
	}

	if err := s.deliverChat(ctx, domain.EventCreated, obj, creator, manager); err != nil {
		errs = append(errs, err)
	}

	return s.propagate(errors.Join(errs...))
}

// ObjectiveChanged classifies an update write and dispatches the matching
// event: an approval-status transition emits approved/rejected and
// suppresses the generic updated notification for the same write. All
// failures are logged and swallowed.
func (s *NotifyService) ObjectiveChanged(ctx context.Context, before, after *domain.Objective, actor *domain.User) {
	event, ok := domain.ResolveEvent(before, after)
	if !ok {
		s.log.Debug().Str("objective_id", after.ID).Msg("update produced no notification-worthy change")
		return
	}

	creator, manager, err := s.resolveParties(ctx, after)
	if err != nil {
		s.log.Warn().Err(err).Str("objective_id", after.ID).Str("event", string(event)).Msg("dispatch skipped: cannot resolve creator")
		return
	}

	switch event {
	case domain.EventApproved, domain.EventRejected:
		subject := fmt.Sprintf("Your MBO '%s' was %s", after.Title, statusText(event))
		_ = s.deliverEmail(ctx, event, after, creator, subject, "decided", mailData{
			RecipientFirst: creator.FirstName,
			Title:          after.Title,
			Category:       after.Category,
			Points:         after.PointValue(),
			Status:         statusText(event),
			DetailURL:      detailURL(s.cfg.BaseURL, after.ID),
		}, true)
		_ = s.deliverChat(ctx, event, after, creator, manager)

	case domain.EventUpdated:
		subject := fmt.Sprintf("Your MBO '%s' was updated", after.Title)
		_ = s.deliverEmail(ctx, event, after, creator, subject, "updated", mailData{
			RecipientFirst: creator.FirstName,
			Title:          after.Title,
			Category:       after.Category,
			Points:         after.PointValue(),
			Status:         string(after.ApprovalStatus),
			Progress:       after.ProgressStatus,
			DetailURL:      detailURL(s.cfg.BaseURL, after.ID),
		}, true)
		// The chat channel carries no generic update notice.
	}
}

// ObjectiveDeleted notifies the creator's manager. It must run before the
// row is removed, since nothing is left to render afterwards. No observer
// CC on this event; the opt-out and the dedup window apply like everywhere
// else.
func (s *NotifyService) ObjectiveDeleted(ctx context.Context, obj *domain.Objective, actor *domain.User) {
	creator, manager, err := s.resolveParties(ctx, obj)
	if err != nil {
		s.log.Debug().Err(err).Str("objective_id", obj.ID).Msg("deleted dispatch skipped: cannot resolve creator")
		return
	}
	if manager == nil {
		s.log.Debug().Str("objective_id", obj.ID).Msg("deleted dispatch skipped: creator has no manager")
		return
	}

	subject := fmt.Sprintf("[MBO] %s deleted an MBO", creator.FullName())
	_ = s.deliverEmail(ctx, domain.EventDeleted, obj, manager, subject, "deleted", mailData{
		RecipientFirst: manager.FirstName,
		EmployeeName:   creator.FullName(),
		Title:          obj.Title,
		Category:       obj.Category,
		Points:         obj.PointValue(),
		Status:         string(obj.ApprovalStatus),
	}, false)
}

// resolveParties loads the objective's creator and, when set, the
// creator's manager. A dangling manager reference is logged and treated
// as "no manager" rather than failing the dispatch.
func (s *NotifyService) resolveParties(ctx context.Context, obj *domain.Objective) (creator, manager *domain.User, err error) {
	creator, err = s.users.FindByID(ctx, obj.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve creator %s: %w", obj.UserID, err)
	}
	if creator.ManagerID != "" {
		manager, err = s.users.FindByID(ctx, creator.ManagerID)
		if err != nil {
			s.log.Warn().Err(err).Str("manager_id", creator.ManagerID).Msg("manager lookup failed, continuing without")
			manager = nil
		}
	}
	return creator, manager, nil
}

// deliverEmail renders and sends one notification email to a single
// recipient, honouring the recipient's notification preference and the
// dedup window. observerCC adds the audit mailbox; the deletion notice is
// the one event that omits it.
func (s *NotifyService) deliverEmail(ctx context.Context, event domain.EventType, obj *domain.Objective, to *domain.User, subject, tmpl string, data mailData, observerCC bool) error {
	if !to.EmailNotifications {
		s.log.Debug().
			Str("event", string(event)).
			Str("objective_id", obj.ID).
			Str("to", to.Email).
			Msg("email skipped: recipient opted out")
		return nil
	}

	if s.suppressed(ctx, to.Email, obj.ID, event) {
		return nil
	}

	text, html, err := renderBodies(tmpl, data)
	if err != nil {
		s.log.Error().Err(err).Str("event", string(event)).Str("objective_id", obj.ID).Msg("render failed")
		return err
	}

	msg := ports.Email{
		To:       []string{to.Email},
		Subject:  subject,
		TextBody: text,
		HTMLBody: html,
	}
	if observerCC && s.cfg.ObserverEmail != "" {
		msg.CC = []string{s.cfg.ObserverEmail}
	}
	return s.sendEmail(ctx, event, obj, to, msg)
}

// sendEmail performs the actual channel send and writes the audit log
// line with everything needed to replay the decision.
func (s *NotifyService) sendEmail(ctx context.Context, event domain.EventType, obj *domain.Objective, to *domain.User, msg ports.Email) error {
	err := s.mailer.Send(ctx, msg)
	outcome := s.log.Info()
	if err != nil {
		outcome = s.log.Error().Err(err)
		metrics.NotificationsFailedTotal.WithLabelValues(string(event), "email").Inc()
	} else {
		metrics.NotificationsSentTotal.WithLabelValues(string(event), "email").Inc()
	}
	outcome.
		Str("event", string(event)).
		Str("objective_id", obj.ID).
		Strs("to", msg.To).
		Strs("cc", msg.CC).
		Str("subject", msg.Subject).
		Msg("email notification")
	if err != nil {
		return fmt.Errorf("email %s to %s: %w", event, to.Email, err)
	}
	return nil
}

// deliverChat hands the event to the chat channel. The channel resolves
// its own recipients from the payload addresses; its failure never blocks
// email delivery since it runs after the email loop.
func (s *NotifyService) deliverChat(ctx context.Context, event domain.EventType, obj *domain.Objective, creator, manager *domain.User) error {
	msg := ports.ChatMessage{
		Event:         event,
		ObjectiveID:   obj.ID,
		Title:         obj.Title,
		Description:   obj.Description,
		EmployeeName:  creator.FullName(),
		EmployeeEmail: creator.Email,
	}
	if manager != nil {
		msg.ManagerEmail = manager.Email
	}

	err := s.messenger.Send(ctx, msg)
	if err != nil {
		metrics.NotificationsFailedTotal.WithLabelValues(string(event), "chat").Inc()
		s.log.Error().Err(err).
			Str("event", string(event)).
			Str("objective_id", obj.ID).
			Str("employee", creator.Email).
			Msg("chat notification failed")
		return fmt.Errorf("chat %s for objective %s: %w", event, obj.ID, err)
	}
	metrics.NotificationsSentTotal.WithLabelValues(string(event), "chat").Inc()
	s.log.Info().
		Str("event", string(event)).
		Str("objective_id", obj.ID).
		Str("employee", creator.Email).
		Msg("chat notification sent")
	return nil
}

// suppressed applies the 60-second dedup window for one recipient. A
// failing dedup store fails open: better a rare duplicate than a lost
// notification.
func (s *NotifyService) suppressed(ctx context.Context, recipient, objectiveID string, event domain.EventType) bool {
	dup, err := s.dedup.IsDuplicate(ctx, recipient, objectiveID, event)
	if err != nil {
		s.log.Warn().Err(err).Str("recipient", recipient).Msg("dedup check failed, sending anyway")
		metrics.NotificationsDedupTotal.WithLabelValues("error").Inc()
		return false
	}
	if dup {
		metrics.NotificationsDedupTotal.WithLabelValues("hit").Inc()
		s.log.Debug().
			Str("recipient", recipient).
			Str("objective_id", objectiveID).
			Str("event", string(event)).
			Msg("duplicate notification suppressed")
		return true
	}
	metrics.NotificationsDedupTotal.WithLabelValues("miss").Inc()
	if err := s.dedup.Mark(ctx, recipient, objectiveID, event); err != nil {
		s.log.Warn().Err(err).Str("recipient", recipient).Msg("failed to set dedup key")
	}
	return false
}

// propagate implements the created-event exception: in the test
// environment every dispatch failure is swallowed; elsewhere it returns
// the error so the HTTP layer answers with a server error.
func (s *NotifyService) propagate(err error) error {
	if err == nil || s.cfg.Env == "test" {
		return nil
	}
	return err
}
