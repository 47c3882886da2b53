package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rachmanhakim/hr-management/internal/core/events"
)

// Subscriber translates domain events into queued emails. The accept-url base
// comes from config so invitation links point at the frontend.
type Subscriber struct {
	mailer        *Mailer
	inviteBaseURL string
	logger        *slog.Logger
}

func NewSubscriber(mailer *Mailer, inviteBaseURL string, logger *slog.Logger) *Subscriber {
	return &Subscriber{mailer: mailer, inviteBaseURL: inviteBaseURL, logger: logger}
}

// Register attaches all handlers to the bus.
func (s *Subscriber) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeInvitationCreated, s.onInvitationCreated)
	bus.Subscribe(events.EventTypeInvitationResent, s.onInvitationResent)
	bus.Subscribe(events.EventTypeUserWelcomed, s.onUserWelcomed)
	bus.Subscribe(events.EventTypeLeaveReviewed, s.onRequestReviewed)
	bus.Subscribe(events.EventTypeOvertimeReviewed, s.onRequestReviewed)
}

func (s *Subscriber) onInvitationCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.InvitationCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.EventType())
	}

	s.mailer.Enqueue(EmailJob{
		To:      e.Email,
		Subject: "You have been invited to join the HR portal",
		Body: fmt.Sprintf(
			"Hello,\n\nYou have been invited to join as %s.\n\n"+
				"Accept your invitation here:\n%s/invitations/accept?token=%s\n\n"+
				"The invitation expires on %s.\n",
			e.RoleName, s.inviteBaseURL, e.Token, e.ExpiresAt.Format("2006-01-02")),
	})
	return nil
}

func (s *Subscriber) onInvitationResent(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.InvitationResentEvent)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.EventType())
	}

	s.mailer.Enqueue(EmailJob{
		To:      e.Email,
		Subject: "Your invitation link has been renewed",
		Body: fmt.Sprintf(
			"Hello,\n\nA new invitation link was issued for you. The previous link no longer works.\n\n"+
				"Accept here:\n%s/invitations/accept?token=%s\n\n"+
				"The invitation expires on %s.\n",
			s.inviteBaseURL, e.Token, e.ExpiresAt.Format("2006-01-02")),
	})
	return nil
}

func (s *Subscriber) onUserWelcomed(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.UserWelcomedEvent)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.EventType())
	}

	s.mailer.Enqueue(EmailJob{
		To:      e.Email,
		Subject: "Welcome aboard",
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour account is ready. You can now sign in with your email address.\n",
			e.Name),
	})
	return nil
}

func (s *Subscriber) onRequestReviewed(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.RequestReviewedEvent)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.EventType())
	}

	body := fmt.Sprintf("Hello,\n\nYour %s request #%d has been %s.\n", e.RequestKind, e.RequestID, e.Status)
	if e.ReviewNote != "" {
		body += fmt.Sprintf("\nReviewer note: %s\n", e.ReviewNote)
	}

	s.mailer.Enqueue(EmailJob{
		To:      e.Email,
		Subject: fmt.Sprintf("Your %s request was %s", e.RequestKind, e.Status),
		Body:    body,
	})
	return nil
}
