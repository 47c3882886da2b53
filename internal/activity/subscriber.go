package activity

import (
	"context"

	"github.com/rachmanhakim/hr-management/internal/core/events"
)

// Subscriber mirrors domain events into the audit trail. Events are produced
// by services that do not know who is reading the log, so entries recorded
// here carry user id 0 and name the subject in the detail field.
type Subscriber struct {
	svc *Service
}

func NewSubscriber(svc *Service) *Subscriber {
	return &Subscriber{svc: svc}
}

func (s *Subscriber) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeInvitationCreated, s.onEvent("invitation_sent", "invitation"))
	bus.Subscribe(events.EventTypeInvitationResent, s.onEvent("invitation_resent", "invitation"))
	bus.Subscribe(events.EventTypeUserWelcomed, s.onEvent("user_registered", "user"))
	bus.Subscribe(events.EventTypeLeaveReviewed, s.onEvent("leave_reviewed", "leave_request"))
	bus.Subscribe(events.EventTypeOvertimeReviewed, s.onEvent("overtime_reviewed", "overtime_request"))
	bus.Subscribe(events.EventTypeUserLoggedIn, s.onLogin)
	bus.Subscribe(events.EventTypeExportGenerated, s.onExport)
}

func (s *Subscriber) onEvent(action, entity string) events.Handler {
	return func(ctx context.Context, event events.Event) error {
		payload, _ := event.Payload().(map[string]interface{})
		s.svc.Record(0, action, entity, payloadInt64(payload, "request_id"), payloadString(payload, "email"))
		return nil
	}
}

func (s *Subscriber) onLogin(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload().(map[string]interface{})
	s.svc.Record(payloadInt64(payload, "user_id"), "user_login", "user", 0, payloadString(payload, "email"))
	return nil
}

func (s *Subscriber) onExport(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload().(map[string]interface{})
	detail := payloadString(payload, "data_type") + " as " + payloadString(payload, "format")
	s.svc.Record(0, "export_generated", "export", 0, detail)
	return nil
}

func payloadString(payload map[string]interface{}, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

func payloadInt64(payload map[string]interface{}, key string) int64 {
	switch v := payload[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}
