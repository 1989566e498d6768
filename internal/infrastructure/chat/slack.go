// Package chat implements the chat delivery channel for objective
// lifecycle notices.
package chat

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/slack-go/slack"

	"github.com/mbotrack/mbo-tracker/internal/core/domain"
	"github.com/mbotrack/mbo-tracker/internal/core/ports"
)

// Config carries the Slack workspace settings.
type Config struct {
	Token string
	// ObserverID is a member id copied on created notices for audit. Empty
	// disables the copy.
	ObserverID string
	// BaseURL is the web UI root used for deep links in messages.
	BaseURL string
}

// SlackMessenger delivers objective notices as Slack direct messages.
// Recipients are resolved by email against the workspace directory; users
// without a Slack account are skipped silently. The messenger keeps its
// own dedup keyed by channel id, separate from the email window, since
// the same event can legitimately reach a mailbox and a Slack user at
// different times.
type SlackMessenger struct {
	api   *slack.Client
	dedup ports.DedupStore
	cfg   Config
	log   zerolog.Logger
}

func NewSlackMessenger(cfg Config, dedup ports.DedupStore, log zerolog.Logger) *SlackMessenger {
	return &SlackMessenger{
		api:   slack.New(cfg.Token),
		dedup: dedup,
		cfg:   cfg,
		log:   log,
	}
}

var _ ports.Messenger = (*SlackMessenger)(nil)

// Send routes one lifecycle event. Created goes to the manager as an
// approval card with the observer copied; decisions go to the employee
// as a plain notice. Other events carry no chat notice.
func (s *SlackMessenger) Send(ctx context.Context, msg ports.ChatMessage) error {
	switch msg.Event {
	case domain.EventCreated:
		if msg.ManagerEmail == "" {
			return nil
		}
		blocks := s.approvalCard(msg)
		fallback := fmt.Sprintf("%s created MBO '%s' and needs your approval", msg.EmployeeName, msg.Title)
		if err := s.deliverToEmail(ctx, msg, msg.ManagerEmail, fallback, blocks); err != nil {
			return err
		}
		if s.cfg.ObserverID != "" {
			if err := s.deliver(ctx, msg, s.cfg.ObserverID, fallback, blocks); err != nil {
				s.log.Warn().Err(err).Str("objective_id", msg.ObjectiveID).Msg("observer chat copy failed")
			}
		}
		return nil

	case domain.EventApproved, domain.EventRejected:
		notice := fmt.Sprintf(":white_check_mark: Your MBO *%s* was approved.", msg.Title)
		if msg.Event == domain.EventRejected {
			notice = fmt.Sprintf(":x: Your MBO *%s* was rejected. See <%s|details>.", msg.Title, s.detailURL(msg.ObjectiveID))
		}
		blocks := []slack.Block{
			slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, notice, false, false), nil, nil),
		}
		return s.deliverToEmail(ctx, msg, msg.EmployeeEmail, notice, blocks)
	}
	return nil
}

// approvalCard builds the interactive Block Kit card sent to managers.
func (s *SlackMessenger) approvalCard(msg ports.ChatMessage) []slack.Block {
	body := fmt.Sprintf("*%s* created a new MBO:\n*<%s|%s>*\n%s",
		msg.EmployeeName, s.detailURL(msg.ObjectiveID), msg.Title, msg.Description)
	return []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, body, false, false), nil, nil),
		slack.NewActionBlock("mbo_review",
			slack.NewButtonBlockElement("approve_mbo", msg.ObjectiveID,
				slack.NewTextBlockObject(slack.PlainTextType, "Approve", false, false)).WithStyle(slack.StylePrimary),
			slack.NewButtonBlockElement("reject_mbo", msg.ObjectiveID,
				slack.NewTextBlockObject(slack.PlainTextType, "Reject", false, false)).WithStyle(slack.StyleDanger),
		),
	}
}

// deliverToEmail resolves the workspace user for an email address, then
// delivers. Unknown addresses are skipped without error.
func (s *SlackMessenger) deliverToEmail(ctx context.Context, msg ports.ChatMessage, email, fallback string, blocks []slack.Block) error {
	if email == "" {
		return nil
	}
	user, err := s.api.GetUserByEmailContext(ctx, email)
	if err != nil {
		s.log.Debug().Err(err).Str("email", email).Msg("no slack account for address, skipping")
		return nil
	}
	return s.deliver(ctx, msg, user.ID, fallback, blocks)
}

func (s *SlackMessenger) deliver(ctx context.Context, msg ports.ChatMessage, channelID, fallback string, blocks []slack.Block) error {
	if s.suppressed(ctx, channelID, msg) {
		return nil
	}
	_, _, err := s.api.PostMessageContext(ctx, channelID,
		slack.MsgOptionText(fallback, false),
		slack.MsgOptionBlocks(blocks...),
	)
	if err != nil {
		return fmt.Errorf("slack post to %s: %w", channelID, err)
	}
	s.log.Info().
		Str("event", string(msg.Event)).
		Str("objective_id", msg.ObjectiveID).
		Str("channel", channelID).
		Msg("chat notice delivered")
	return nil
}

// suppressed applies the cooldown window per target channel. Fails open.
func (s *SlackMessenger) suppressed(ctx context.Context, channelID string, msg ports.ChatMessage) bool {
	dup, err := s.dedup.IsDuplicate(ctx, channelID, msg.ObjectiveID, msg.Event)
	if err != nil {
		s.log.Warn().Err(err).Str("channel", channelID).Msg("chat dedup check failed, sending anyway")
		return false
	}
	if dup {
		s.log.Debug().
			Str("channel", channelID).
			Str("objective_id", msg.ObjectiveID).
			Str("event", string(msg.Event)).
			Msg("duplicate chat notice suppressed")
		return true
	}
	if err := s.dedup.Mark(ctx, channelID, msg.ObjectiveID, msg.Event); err != nil {
		s.log.Warn().Err(err).Str("channel", channelID).Msg("failed to set chat dedup key")
	}
	return false
}

func (s *SlackMessenger) detailURL(objectiveID string) string {
	return fmt.Sprintf("%s/mbo_details/%s", s.cfg.BaseURL, objectiveID)
}
