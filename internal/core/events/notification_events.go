package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeInvitationCreated = "invitation.created"
	EventTypeInvitationResent  = "invitation.resent"
	EventTypeUserWelcomed      = "user.welcomed"
	EventTypeLeaveReviewed     = "leave.reviewed"
	EventTypeOvertimeReviewed  = "overtime.reviewed"
)

type InvitationCreatedEvent struct {
	BaseEvent
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	RoleName  string    `json:"role_name"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewInvitationCreatedEvent(email, token, roleName string, expiresAt time.Time) *InvitationCreatedEvent {
	return &InvitationCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeInvitationCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"email":      email,
				"token":      token,
				"role_name":  roleName,
				"expires_at": expiresAt,
			},
		},
		Email:     email,
		Token:     token,
		RoleName:  roleName,
		ExpiresAt: expiresAt,
	}
}

type InvitationResentEvent struct {
	BaseEvent
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewInvitationResentEvent(email, token string, expiresAt time.Time) *InvitationResentEvent {
	return &InvitationResentEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeInvitationResent,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"email":      email,
				"token":      token,
				"expires_at": expiresAt,
			},
		},
		Email:     email,
		Token:     token,
		ExpiresAt: expiresAt,
	}
}

type UserWelcomedEvent struct {
	BaseEvent
	Email string `json:"email"`
	Name  string `json:"name"`
}

func NewUserWelcomedEvent(email, name string) *UserWelcomedEvent {
	return &UserWelcomedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserWelcomed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"email": email,
				"name":  name,
			},
		},
		Email: email,
		Name:  name,
	}
}

type RequestReviewedEvent struct {
	BaseEvent
	Email       string `json:"email"`
	RequestKind string `json:"request_kind"`
	RequestID   int64  `json:"request_id"`
	Status      string `json:"status"`
	ReviewNote  string `json:"review_note"`
}

func NewLeaveReviewedEvent(email string, requestID int64, status, note string) *RequestReviewedEvent {
	return newRequestReviewedEvent(EventTypeLeaveReviewed, "leave", email, requestID, status, note)
}

func NewOvertimeReviewedEvent(email string, requestID int64, status, note string) *RequestReviewedEvent {
	return newRequestReviewedEvent(EventTypeOvertimeReviewed, "overtime", email, requestID, status, note)
}

func newRequestReviewedEvent(eventType, kind, email string, requestID int64, status, note string) *RequestReviewedEvent {
	return &RequestReviewedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"email":       email,
				"request_id":  requestID,
				"status":      status,
				"review_note": note,
			},
		},
		Email:       email,
		RequestKind: kind,
		RequestID:   requestID,
		Status:      status,
		ReviewNote:  note,
	}
}
