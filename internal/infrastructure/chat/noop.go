package chat

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mbotrack/mbo-tracker/internal/core/ports"
)

// NoopMessenger is selected when the Slack integration is disabled. It
// logs each dropped notice at debug so local runs stay quiet.
type NoopMessenger struct {
	log zerolog.Logger
}

func NewNoopMessenger(log zerolog.Logger) *NoopMessenger {
	return &NoopMessenger{log: log}
}

var _ ports.Messenger = (*NoopMessenger)(nil)

func (n *NoopMessenger) Send(_ context.Context, msg ports.ChatMessage) error {
	n.log.Debug().
		Str("event", string(msg.Event)).
		Str("objective_id", msg.ObjectiveID).
		Msg("chat integration disabled, notice dropped")
	return nil
}
