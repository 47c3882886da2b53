package invitation

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/rachmanhakim/hr-management/internal/auth"
	"github.com/rachmanhakim/hr-management/internal/core/events"
	"golang.org/x/crypto/bcrypt"
)

// Repository defines the data access methods for invitations. Status
// transitions are conditional updates: they report whether the row was in the
// required state, so concurrent callers cannot both win.
type Repository interface {
	Create(inv *UserInvitation) error
	GetByID(id int64) (*UserInvitation, error)
	GetByToken(token string) (*UserInvitation, error)
	GetPendingByEmail(email string) (*UserInvitation, error)
	List(limit, offset int) ([]*UserInvitation, error)
	MarkExpired(id int64) (bool, error)
	Reissue(id int64, token string, expiresAt time.Time) (bool, error)
	Revoke(id int64, reason string) (bool, error)
	ExpireAllDue(now time.Time) (int64, error)
	UserEmailExists(email string) (bool, error)
	RoleName(roleID int64) (string, error)
	AcceptAndCreateUser(invitationID int64, email, name, passwordHash string, roleID int64, employeeID *int64) (userID int64, claimed bool, err error)
}

// Service drives the invitation lifecycle.
type Service struct {
	repo       Repository
	tokens     auth.TokenGenerator
	bus        *events.EventBus
	bcryptCost int
	expiryDays int
	logger     *slog.Logger
}

func NewService(repo Repository, tokens auth.TokenGenerator, bus *events.EventBus, bcryptCost, expiryDays int, logger *slog.Logger) *Service {
	if expiryDays <= 0 {
		expiryDays = 7
	}
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		tokens:     tokens,
		bus:        bus,
		bcryptCost: bcryptCost,
		expiryDays: expiryDays,
		logger:     logger,
	}
}

// Create issues a new invitation. The email must not belong to a registered
// user and must not have a live pending invitation. The invitation mail is
// best-effort: a send failure never rolls back creation.
func (s *Service) Create(dto CreateInvitationDTO, invitedBy int64) (*UserInvitation, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.UserEmailExists(dto.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailRegistered
	}

	roleName, err := s.repo.RoleName(dto.RoleID)
	if err != nil {
		return nil, ErrRoleNotFound
	}

	if pending, err := s.repo.GetPendingByEmail(dto.Email); err != nil {
		return nil, err
	} else if pending != nil {
		if !pending.IsPastExpiry(time.Now()) {
			return nil, ErrPendingExists
		}
		// lazily retire the stale row before issuing a fresh one
		if _, err := s.repo.MarkExpired(pending.ID); err != nil {
			return nil, err
		}
	}

	token, err := auth.GenerateRandomToken()
	if err != nil {
		return nil, err
	}

	expiryDays := dto.ExpiresDays
	if expiryDays == 0 {
		expiryDays = s.expiryDays
	}

	inv := &UserInvitation{
		Email:        dto.Email,
		Token:        token,
		Status:       StatusPending,
		InvitedBy:    invitedBy,
		RoleID:       dto.RoleID,
		DepartmentID: dto.DepartmentID,
		EmployeeID:   dto.EmployeeID,
		ExpiresAt:    time.Now().AddDate(0, 0, expiryDays),
	}

	if err := s.repo.Create(inv); err != nil {
		s.logger.Error("failed to create invitation", "error", err, "email", dto.Email)
		return nil, err
	}

	s.logger.Info("invitation created",
		"invitation_id", inv.ID,
		"email", inv.Email,
		"role_id", inv.RoleID,
		"expires_at", inv.ExpiresAt)

	s.publish(events.NewInvitationCreatedEvent(inv.Email, inv.Token, roleName, inv.ExpiresAt))

	return inv, nil
}

// Validate inspects a token without consuming it. A pending invitation past
// its expiry is transitioned to expired as a side effect.
func (s *Service) Validate(token string) (*ValidationResult, error) {
	inv, err := s.repo.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return &ValidationResult{Valid: false, Reason: "invitation not found"}, nil
	}

	if inv.IsPending() && inv.IsPastExpiry(time.Now()) {
		if _, err := s.repo.MarkExpired(inv.ID); err != nil {
			return nil, err
		}
		return &ValidationResult{Valid: false, Reason: "invitation has expired"}, nil
	}

	if !inv.IsPending() {
		return &ValidationResult{Valid: false, Reason: fmt.Sprintf("invitation is %s", inv.Status)}, nil
	}

	roleName, err := s.repo.RoleName(inv.RoleID)
	if err != nil {
		roleName = ""
	}

	return &ValidationResult{
		Valid: true,
		Invitation: &InvitationSnapshot{
			Email:        inv.Email,
			RoleID:       inv.RoleID,
			RoleName:     roleName,
			DepartmentID: inv.DepartmentID,
			EmployeeID:   inv.EmployeeID,
			ExpiresAt:    inv.ExpiresAt,
		},
	}, nil
}

// Accept redeems a token and creates the account. The pending→accepted flip
// is a conditional update inside the same transaction that inserts the user,
// so a token can only ever be redeemed once: the losing side of a concurrent
// accept observes the post-condition and gets the not-pending error.
func (s *Service) Accept(dto AcceptInvitationDTO) (*AcceptResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.repo.GetByToken(dto.Token)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInvitationNotFound
	}

	if inv.IsPending() && inv.IsPastExpiry(time.Now()) {
		if _, err := s.repo.MarkExpired(inv.ID); err != nil {
			return nil, err
		}
		return nil, ErrExpired
	}

	if !inv.IsPending() {
		return nil, ErrNotPending
	}

	exists, err := s.repo.UserEmailExists(inv.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	userID, claimed, err := s.repo.AcceptAndCreateUser(inv.ID, inv.Email, dto.Name, string(hash), inv.RoleID, inv.EmployeeID)
	if err != nil {
		s.logger.Error("invitation acceptance failed", "error", err, "invitation_id", inv.ID)
		return nil, err
	}
	if !claimed {
		// a concurrent accept won the conditional update
		return nil, ErrNotPending
	}

	s.logger.Info("invitation accepted",
		"invitation_id", inv.ID,
		"user_id", userID,
		"employee_id", inv.EmployeeID)

	s.publish(events.NewUserWelcomedEvent(inv.Email, dto.Name))

	accessToken, err := s.tokens.GenerateAccessToken(strconv.FormatInt(userID, 10), inv.Email)
	if err != nil {
		s.logger.Error("failed to issue access token after acceptance", "error", err, "user_id", userID)
		return &AcceptResult{UserID: userID}, nil
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(strconv.FormatInt(userID, 10), inv.Email)
	if err != nil {
		s.logger.Error("failed to issue refresh token after acceptance", "error", err, "user_id", userID)
		return &AcceptResult{UserID: userID}, nil
	}

	return &AcceptResult{
		UserID: userID,
		Tokens: auth.AuthTokens{AccessToken: accessToken, RefreshToken: refreshToken},
	}, nil
}

// Resend rotates the token and expiry and returns the invitation to pending.
// Legal only from pending or expired.
func (s *Service) Resend(id int64) (*UserInvitation, error) {
	inv, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInvitationNotFound
	}

	if !inv.CanBeResent() {
		return nil, ErrCannotResend
	}

	token, err := auth.GenerateRandomToken()
	if err != nil {
		return nil, err
	}
	expiresAt := time.Now().AddDate(0, 0, s.expiryDays)

	reissued, err := s.repo.Reissue(inv.ID, token, expiresAt)
	if err != nil {
		return nil, err
	}
	if !reissued {
		return nil, ErrCannotResend
	}

	inv.Token = token
	inv.Status = StatusPending
	inv.ExpiresAt = expiresAt
	inv.AcceptedAt = nil
	inv.RevokedAt = nil
	inv.RevokeReason = nil

	s.logger.Info("invitation resent", "invitation_id", inv.ID, "email", inv.Email, "expires_at", expiresAt)

	s.publish(events.NewInvitationResentEvent(inv.Email, token, expiresAt))

	return inv, nil
}

// Revoke marks the invitation revoked with a free-text reason. Illegal from
// accepted or already-revoked.
func (s *Service) Revoke(id int64, reason string) error {
	inv, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if inv == nil {
		return ErrInvitationNotFound
	}

	if !inv.CanBeRevoked() {
		return ErrCannotRevoke
	}

	revoked, err := s.repo.Revoke(inv.ID, reason)
	if err != nil {
		return err
	}
	if !revoked {
		return ErrCannotRevoke
	}

	s.logger.Info("invitation revoked", "invitation_id", inv.ID, "email", inv.Email, "reason", reason)
	return nil
}

// CleanupExpired transitions every pending invitation past its expiry to
// expired and returns the number of rows affected. Running it twice in a row
// is a no-op the second time.
func (s *Service) CleanupExpired() (int64, error) {
	count, err := s.repo.ExpireAllDue(time.Now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.logger.Info("expired invitations cleaned up", "count", count)
	}
	return count, nil
}

func (s *Service) List(limit, offset int) ([]*UserInvitation, error) {
	return s.repo.List(limit, offset)
}

func (s *Service) publish(event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(context.Background(), event); err != nil {
		s.logger.Error("failed to publish notification event", "event_type", event.EventType(), "error", err)
	}
}
