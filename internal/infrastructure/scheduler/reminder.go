// Package scheduler runs the periodic quarter-end reminder.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/mbotrack/mbo-tracker/internal/api/metrics"
	"github.com/mbotrack/mbo-tracker/internal/core/domain"
	"github.com/mbotrack/mbo-tracker/internal/core/ports"
	"github.com/mbotrack/mbo-tracker/internal/infrastructure/queue"
)

// The job runs daily and only acts when exactly this many days remain in
// the fiscal quarter. Checking a fixed day rather than a range keeps the
// daily schedule idempotent: at most one reminder per user per quarter.
const reminderLeadDays = 14

// Reminder emails every user two weeks before the fiscal quarter closes.
// Delivery fans out through the sharded mail dispatcher so a large user
// base does not serialize on one SMTP connection.
type Reminder struct {
	users      ports.UserRepository
	dispatcher *queue.MailDispatcher
	cron       *cron.Cron
	log        zerolog.Logger

	now func() time.Time
}

func NewReminder(users ports.UserRepository, dispatcher *queue.MailDispatcher, log zerolog.Logger) *Reminder {
	return &Reminder{
		users:      users,
		dispatcher: dispatcher,
		cron:       cron.New(),
		log:        log,
		now:        time.Now,
	}
}

// Start registers the daily midnight run and starts the cron loop.
func (r *Reminder) Start(ctx context.Context) error {
	_, err := r.cron.AddFunc("0 0 * * *", func() { r.Run(ctx) })
	if err != nil {
		return fmt.Errorf("schedule reminder: %w", err)
	}
	r.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (r *Reminder) Stop() {
	<-r.cron.Stop().Done()
}

// Run executes one reminder check. Exported so an operator endpoint or a
// test can trigger it outside the schedule.
func (r *Reminder) Run(ctx context.Context) {
	now := r.now().UTC()
	days := domain.DaysUntilQuarterEnd(now)
	if days != reminderLeadDays {
		metrics.ReminderRunsTotal.WithLabelValues("skipped").Inc()
		r.log.Debug().Int("days_left", days).Msg("quarter-end reminder not due")
		return
	}

	window := domain.CurrentQuarter(now)
	users, err := r.users.List(ctx, ports.UserFilter{})
	if err != nil {
		metrics.ReminderRunsTotal.WithLabelValues("skipped").Inc()
		r.log.Error().Err(err).Msg("quarter-end reminder aborted: cannot list users")
		return
	}

	var queued int
	for _, u := range users {
		if !u.EmailNotifications {
			continue
		}
		r.dispatcher.Enqueue(reminderEmail(u, window))
		queued++
	}
	metrics.ReminderRunsTotal.WithLabelValues("sent").Inc()
	r.log.Info().
		Int("recipients", queued).
		Str("quarter", window.Name()).
		Int("fiscal_year", window.FiscalYear).
		Msg("quarter-end reminders queued")
}

func reminderEmail(u *domain.User, w domain.QuarterWindow) ports.Email {
	subject := fmt.Sprintf("%s closes in two weeks", w.Name())
	body := fmt.Sprintf(`Hello %s,

%s of fiscal year %d ends on %s. Make sure your MBOs are submitted and
sent for approval before the quarter closes.

This is an automated message from the MBO Tracker.
`, u.FirstName, w.Name(), w.FiscalYear, w.End.Format("January 2, 2006"))

	return ports.Email{
		To:       []string{u.Email},
		Subject:  subject,
		TextBody: body,
	}
}
