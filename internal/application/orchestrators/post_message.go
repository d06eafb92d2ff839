package orchestrators

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	emailAdapter "squadpage/internal/adapters/email"
	domain "squadpage/internal/domain/message"
	"squadpage/internal/metrics"
)

// MessageStore is the write side of a guestbook.
type MessageStore interface {
	Save(ctx context.Context, m domain.Message) error
}

// PostMessageDeps are the external dependencies for the message orchestrators.
type PostMessageDeps struct {
	MessageStore MessageStore
	Notifier     emailAdapter.Sender // optional: nil sends no notification
	NotifyFrom   string
	NotifyTo     []string
}

// PostStudentMessageCommand holds the form input for a student's guestbook.
type PostStudentMessageCommand struct {
	PersonID int
	From     string
	Text     string
}

// ExecutePostStudentMessage validates and stores a signed message under the
// student's tag, then notifies the configured recipients.
// PRE: cmd.PersonID > 0
// POST: The message is stored under message.StudentTag(cmd.PersonID);
// validation failures are returned wrapped as "validation: ..." before any write
func ExecutePostStudentMessage(ctx context.Context, cmd PostStudentMessageCommand, deps PostMessageDeps) error {
	m, err := domain.NewStudentMessage(cmd.PersonID, cmd.From, cmd.Text)
	if err != nil {
		return fmt.Errorf("validation: %w", err)
	}
	if err := deps.MessageStore.Save(ctx, m); err != nil {
		slog.Error("message_save_failed", "error", err.Error(), "for", m.For)
		return fmt.Errorf("failed to save message: %w", err)
	}

	metrics.MessagesPosted.WithLabelValues("student").Inc()
	slog.Info("message_posted", "for", m.For, "from", m.From)

	notify(ctx, deps, m, fmt.Sprintf("Nieuw bericht van %s", m.From))
	return nil
}

// PostDemoMessageCommand holds the form input for the classroom guestbook.
type PostDemoMessageCommand struct {
	Text string
}

// ExecutePostDemoMessage validates and stores an anonymous message under the
// demo tag.
// PRE: none
// POST: The message is stored under message.DemoTag
func ExecutePostDemoMessage(ctx context.Context, cmd PostDemoMessageCommand, deps PostMessageDeps) error {
	m, err := domain.NewDemoMessage(cmd.Text)
	if err != nil {
		return fmt.Errorf("validation: %w", err)
	}
	if err := deps.MessageStore.Save(ctx, m); err != nil {
		slog.Error("message_save_failed", "error", err.Error(), "for", m.For)
		return fmt.Errorf("failed to save message: %w", err)
	}

	metrics.MessagesPosted.WithLabelValues("demo").Inc()
	slog.Info("message_posted", "for", m.For)
	return nil
}

// notify emails a stored message to deps.NotifyTo. A delivery failure is
// logged and counted but never returned.
func notify(ctx context.Context, deps PostMessageDeps, m domain.Message, subject string) {
	if deps.Notifier == nil || len(deps.NotifyTo) == 0 {
		return
	}
	_, err := deps.Notifier.Send(ctx, emailAdapter.SendRequest{
		To:      deps.NotifyTo,
		From:    deps.NotifyFrom,
		Subject: subject,
		HTML:    notificationBody(m),
	})
	if err != nil {
		metrics.NotificationsSent.WithLabelValues("failed").Inc()
		slog.Warn("message_notify_failed", "error", err.Error(), "for", m.For)
		return
	}
	metrics.NotificationsSent.WithLabelValues("sent").Inc()
}

func notificationBody(m domain.Message) string {
	return fmt.Sprintf("<p><strong>%s</strong> schreef in het gastenboek <code>%s</code>:</p><blockquote>%s</blockquote>",
		html.EscapeString(m.From), html.EscapeString(m.For), html.EscapeString(m.Text))
}
