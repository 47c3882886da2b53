package invitation_test

import (
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rachmanhakim/hr-management/internal/auth"
	"github.com/rachmanhakim/hr-management/internal/invitation"
)

// Mock repository for testing
type mockInvitationRepository struct {
	invitations    map[int64]*invitation.UserInvitation
	registeredMail map[string]bool
	roles          map[int64]string
	employees      map[int64]*int64 // employee id -> linked user id
	createError    error
	acceptError    error
	nextInvID      int64
	nextUserID     int64
}

func newMockInvitationRepository() *mockInvitationRepository {
	return &mockInvitationRepository{
		invitations:    make(map[int64]*invitation.UserInvitation),
		registeredMail: make(map[string]bool),
		roles:          map[int64]string{1: "admin", 2: "hr_manager", 3: "employee"},
		employees:      make(map[int64]*int64),
		nextInvID:      1,
		nextUserID:     100,
	}
}

func (m *mockInvitationRepository) Create(inv *invitation.UserInvitation) error {
	if m.createError != nil {
		return m.createError
	}
	inv.ID = m.nextInvID
	m.nextInvID++
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = time.Now()
	m.invitations[inv.ID] = inv
	return nil
}

func (m *mockInvitationRepository) GetByID(id int64) (*invitation.UserInvitation, error) {
	inv, ok := m.invitations[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (m *mockInvitationRepository) GetByToken(token string) (*invitation.UserInvitation, error) {
	for _, inv := range m.invitations {
		if inv.Token == token {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockInvitationRepository) GetPendingByEmail(email string) (*invitation.UserInvitation, error) {
	for _, inv := range m.invitations {
		if inv.Email == email && inv.Status == invitation.StatusPending {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockInvitationRepository) List(limit, offset int) ([]*invitation.UserInvitation, error) {
	out := make([]*invitation.UserInvitation, 0, len(m.invitations))
	for _, inv := range m.invitations {
		out = append(out, inv)
	}
	return out, nil
}

func (m *mockInvitationRepository) MarkExpired(id int64) (bool, error) {
	inv, ok := m.invitations[id]
	if !ok || inv.Status != invitation.StatusPending {
		return false, nil
	}
	inv.Status = invitation.StatusExpired
	return true, nil
}

func (m *mockInvitationRepository) Reissue(id int64, token string, expiresAt time.Time) (bool, error) {
	inv, ok := m.invitations[id]
	if !ok {
		return false, nil
	}
	if inv.Status != invitation.StatusPending && inv.Status != invitation.StatusExpired {
		return false, nil
	}
	inv.Token = token
	inv.Status = invitation.StatusPending
	inv.ExpiresAt = expiresAt
	inv.AcceptedAt = nil
	inv.RevokedAt = nil
	inv.RevokeReason = nil
	return true, nil
}

func (m *mockInvitationRepository) Revoke(id int64, reason string) (bool, error) {
	inv, ok := m.invitations[id]
	if !ok {
		return false, nil
	}
	if inv.Status == invitation.StatusAccepted || inv.Status == invitation.StatusRevoked {
		return false, nil
	}
	now := time.Now()
	inv.Status = invitation.StatusRevoked
	inv.RevokedAt = &now
	inv.RevokeReason = &reason
	return true, nil
}

func (m *mockInvitationRepository) ExpireAllDue(now time.Time) (int64, error) {
	var count int64
	for _, inv := range m.invitations {
		if inv.Status == invitation.StatusPending && now.After(inv.ExpiresAt) {
			inv.Status = invitation.StatusExpired
			count++
		}
	}
	return count, nil
}

func (m *mockInvitationRepository) UserEmailExists(email string) (bool, error) {
	return m.registeredMail[email], nil
}

func (m *mockInvitationRepository) RoleName(roleID int64) (string, error) {
	name, ok := m.roles[roleID]
	if !ok {
		return "", errors.New("role not found")
	}
	return name, nil
}

func (m *mockInvitationRepository) AcceptAndCreateUser(invitationID int64, email, name, passwordHash string, roleID int64, employeeID *int64) (int64, bool, error) {
	if m.acceptError != nil {
		return 0, false, m.acceptError
	}
	inv, ok := m.invitations[invitationID]
	if !ok || inv.Status != invitation.StatusPending {
		return 0, false, nil
	}
	now := time.Now()
	inv.Status = invitation.StatusAccepted
	inv.AcceptedAt = &now

	userID := m.nextUserID
	m.nextUserID++
	m.registeredMail[email] = true

	if employeeID != nil {
		if m.employees[*employeeID] == nil {
			uid := userID
			m.employees[*employeeID] = &uid
		}
	}
	return userID, true, nil
}

type mockTokenGenerator struct {
	failAccess bool
}

func (m *mockTokenGenerator) GenerateAccessToken(userID, email string) (string, error) {
	if m.failAccess {
		return "", errors.New("signing failed")
	}
	return "access-" + userID, nil
}

func (m *mockTokenGenerator) GenerateRefreshToken(userID, email string) (string, error) {
	return "refresh-" + userID, nil
}

func (m *mockTokenGenerator) ValidateToken(tokenString string) (*auth.Claims, error) {
	return nil, errors.New("not implemented")
}

var _ = Describe("InvitationService", func() {
	var (
		repo    *mockInvitationRepository
		service *invitation.Service
		logger  *slog.Logger
	)

	BeforeEach(func() {
		repo = newMockInvitationRepository()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = invitation.NewService(repo, &mockTokenGenerator{}, nil, 4, 7, logger)
	})

	Describe("Create", func() {
		It("creates a pending invitation with a token and expiry", func() {
			inv, err := service.Create(invitation.CreateInvitationDTO{
				Email:  "new.hire@company.com",
				RoleID: 3,
			}, 1)

			Expect(err).NotTo(HaveOccurred())
			Expect(inv.Status).To(Equal(invitation.StatusPending))
			Expect(inv.Token).NotTo(BeEmpty())
			Expect(inv.ExpiresAt).To(BeTemporally(">", time.Now().AddDate(0, 0, 6)))
			Expect(inv.InvitedBy).To(Equal(int64(1)))
		})

		It("rejects an email that already belongs to a user", func() {
			repo.registeredMail["taken@company.com"] = true

			_, err := service.Create(invitation.CreateInvitationDTO{
				Email:  "taken@company.com",
				RoleID: 3,
			}, 1)

			Expect(err).To(Equal(invitation.ErrEmailRegistered))
		})

		It("rejects a second invitation while one is still pending", func() {
			_, err := service.Create(invitation.CreateInvitationDTO{Email: "a@b.com", RoleID: 3}, 1)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(invitation.CreateInvitationDTO{Email: "a@b.com", RoleID: 3}, 1)
			Expect(err).To(Equal(invitation.ErrPendingExists))
		})

		It("retires a stale pending invitation and issues a fresh one", func() {
			inv, err := service.Create(invitation.CreateInvitationDTO{Email: "a@b.com", RoleID: 3}, 1)
			Expect(err).NotTo(HaveOccurred())
			repo.invitations[inv.ID].ExpiresAt = time.Now().Add(-time.Hour)

			fresh, err := service.Create(invitation.CreateInvitationDTO{Email: "a@b.com", RoleID: 3}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(fresh.ID).NotTo(Equal(inv.ID))
			Expect(repo.invitations[inv.ID].Status).To(Equal(invitation.StatusExpired))
		})

		It("rejects an unknown role", func() {
			_, err := service.Create(invitation.CreateInvitationDTO{Email: "a@b.com", RoleID: 99}, 1)
			Expect(err).To(Equal(invitation.ErrRoleNotFound))
		})

		It("rejects a malformed email", func() {
			_, err := service.Create(invitation.CreateInvitationDTO{Email: "nope", RoleID: 3}, 1)
			Expect(err).To(BeAssignableToTypeOf(invitation.ValidationError{}))
		})
	})

	Describe("Validate", func() {
		It("returns the snapshot for a live pending token", func() {
			inv, _ := service.Create(invitation.CreateInvitationDTO{Email: "a@b.com", RoleID: 3}, 1)

			result, err := service.Validate(inv.Token)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Valid).To(BeTrue())
			Expect(result.Invitation.Email).To(Equal("a@b.com"))
			Expect(result.Invitation.RoleName).To(Equal("employee"))
		})

		It("is invalid for an unknown token", func() {
			result, err := service.Validate("no-such-token")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Valid).To(BeFalse())
			Expect(result.Reason).To(ContainSubstring("not found"))
		})

		It("expires a pending token past its deadline as a side effect", func() {
			inv, _ := service.Create(invitation.CreateInvitationDTO{Email: "a@b.com", RoleID: 3}, 1)
			repo.invitations[inv.ID].ExpiresAt = time.Now().Add(-time.Minute)

			result, err := service.Validate(inv.Token)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Valid).To(BeFalse())
			Expect(result.Reason).To(ContainSubstring("expired"))
			Expect(repo.invitations[inv.ID].Status).To(Equal(invitation.StatusExpired))
		})

		It("reports the status for a consumed token", func() {
			inv, _ := service.Create(invitation.CreateInvitationDTO{Email: "a@b.com", RoleID: 3}, 1)
			_, err := service.Accept(invitation.AcceptInvitationDTO{Token: inv.Token, Name: "A B", Password: "supersecret"})
			Expect(err).NotTo(HaveOccurred())

			result, err := service.Validate(inv.Token)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Valid).To(BeFalse())
			Expect(result.Reason).To(ContainSubstring("accepted"))
		})
	})

	Describe("Accept", func() {
		It("creates the account and issues a token pair", func() {
			inv, _ := service.Create(invitation.CreateInvitationDTO{Email: "a@b.com", RoleID: 3}, 1)

			result, err := service.Accept(invitation.AcceptInvitationDTO{
				Token:    inv.Token,
				Name:     "A B",
				Password: "supersecret",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(result.UserID).To(BeNumerically(">", 0))
			Expect(result.Tokens.AccessToken).NotTo(BeEmpty())
			Expect(result.Tokens.RefreshToken).NotTo(BeEmpty())
			Expect(repo.invitations[inv.ID].Status).To(Equal(invitation.StatusAccepted))
			Expect(repo.invitations[inv.ID].AcceptedAt).NotTo(BeNil())
		})

		It("links a pre-created employee record to the new user", func() {
			empID := int64(42)
			inv, _ := service.Create(invitation.CreateInvitationDTO{Email: "a@b.com", RoleID: 3, EmployeeID: &empID}, 1)

			result, err := service.Accept(invitation.AcceptInvitationDTO{Token: inv.Token, Name: "A B", Password: "supersecret"})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.employees[empID]).NotTo(BeNil())
			Expect(*repo.employees[empID]).To(Equal(result.UserID))
		})

		It("cannot consume the same token twice", func() {
			inv, _ := service.Create(invitation.CreateInvitationDTO{Email: "a@b.com", RoleID: 3}, 1)

			_, err := service.Accept(invitation.AcceptInvitationDTO{Token: inv.Token, Name: "A B", Password: "supersecret"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Accept(invitation.AcceptInvitationDTO{Token: inv.Token, Name: "A B", Password: "supersecret"})
			Expect(err).To(HaveOccurred())
		})

		It("fails when a concurrent accept already claimed the row", func() {
			inv, _ := service.Create(invitation.CreateInvitationDTO{Email: "a@b.com", RoleID: 3}, 1)
			// simulate losing the conditional update race
			repo.invitations[inv.ID].Status = invitation.StatusAccepted

			_, err := service.Accept(invitation.AcceptInvitationDTO{Token: inv.Token, Name: "A B", Password: "supersecret"})
			Expect(err).To(Equal(invitation.ErrNotPending))
		})

		It("rejects an expired token", func() {
			inv, _ := service.Create(invitation.CreateInvitationDTO{Email: "a@b.com", RoleID: 3}, 1)
			repo.invitations[inv.ID].ExpiresAt = time.Now().Add(-time.Minute)

			_, err := service.Accept(invitation.AcceptInvitationDTO{Token: inv.Token, Name: "A B", Password: "supersecret"})
			Expect(err).To(Equal(invitation.ErrExpired))
			Expect(repo.invitations[inv.ID].Status).To(Equal(invitation.StatusExpired))
		})

		It("rejects a short password", func() {
			inv, _ := service.Create(invitation.CreateInvitationDTO{Email: "a@b.com", RoleID: 3}, 1)

			_, err := service.Accept(invitation.AcceptInvitationDTO{Token: inv.Token, Name: "A B", Password: "short"})
			Expect(err).To(BeAssignableToTypeOf(invitation.ValidationError{}))
		})

		It("rejects when the email got registered since the invitation was sent", func() {
			inv, _ := service.Create(invitation.CreateInvitationDTO{Email: "a@b.com", RoleID: 3}, 1)
			repo.registeredMail["a@b.com"] = true

			_, err := service.Accept(invitation.AcceptInvitationDTO{Token: inv.Token, Name: "A B", Password: "supersecret"})
			Expect(err).To(Equal(invitation.ErrEmailRegistered))
		})

		It("still reports the created user when token issuance fails", func() {
			service = invitation.NewService(repo, &mockTokenGenerator{failAccess: true}, nil, 4, 7, logger)
			inv, _ := service.Create(invitation.CreateInvitationDTO{Email: "a@b.com", RoleID: 3}, 1)

			result, err := service.Accept(invitation.AcceptInvitationDTO{Token: inv.Token, Name: "A B", Password: "supersecret"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.UserID).To(BeNumerically(">", 0))
			Expect(result.Tokens.AccessToken).To(BeEmpty())
		})
	})

	Describe("Resend", func() {
		It("rotates the token and expiry of a pending invitation", func() {
			inv, _ := service.Create(invitation.CreateInvitationDTO{Email: "a@b.com", RoleID: 3}, 1)
			oldToken := inv.Token

			resent, err := service.Resend(inv.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resent.Token).NotTo(Equal(oldToken))
			Expect(resent.Status).To(Equal(invitation.StatusPending))
		})

		It("returns an expired invitation to pending", func() {
			inv, _ := service.Create(invitation.CreateInvitationDTO{Email: "a@b.com", RoleID: 3}, 1)
			repo.invitations[inv.ID].Status = invitation.StatusExpired
			oldToken := inv.Token

			resent, err := service.Resend(inv.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resent.Status).To(Equal(invitation.StatusPending))
			Expect(resent.Token).NotTo(Equal(oldToken))
			Expect(resent.ExpiresAt).To(BeTemporally(">", time.Now()))

			// the old token is dead after rotation
			result, err := service.Validate(oldToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Valid).To(BeFalse())
		})

		It("refuses to resend an accepted invitation", func() {
			inv, _ := service.Create(invitation.CreateInvitationDTO{Email: "a@b.com", RoleID: 3}, 1)
			_, err := service.Accept(invitation.AcceptInvitationDTO{Token: inv.Token, Name: "A B", Password: "supersecret"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Resend(inv.ID)
			Expect(err).To(Equal(invitation.ErrCannotResend))
		})

		It("refuses to resend a revoked invitation", func() {
			inv, _ := service.Create(invitation.CreateInvitationDTO{Email: "a@b.com", RoleID: 3}, 1)
			Expect(service.Revoke(inv.ID, "position filled")).To(Succeed())

			_, err := service.Resend(inv.ID)
			Expect(err).To(Equal(invitation.ErrCannotResend))
		})

		It("returns not found for an unknown id", func() {
			_, err := service.Resend(999)
			Expect(err).To(Equal(invitation.ErrInvitationNotFound))
		})
	})

	Describe("Revoke", func() {
		It("revokes a pending invitation with a reason", func() {
			inv, _ := service.Create(invitation.CreateInvitationDTO{Email: "a@b.com", RoleID: 3}, 1)

			Expect(service.Revoke(inv.ID, "position filled")).To(Succeed())
			stored := repo.invitations[inv.ID]
			Expect(stored.Status).To(Equal(invitation.StatusRevoked))
			Expect(stored.RevokedAt).NotTo(BeNil())
			Expect(*stored.RevokeReason).To(Equal("position filled"))
		})

		It("makes the token invalid", func() {
			inv, _ := service.Create(invitation.CreateInvitationDTO{Email: "a@b.com", RoleID: 3}, 1)
			Expect(service.Revoke(inv.ID, "")).To(Succeed())

			result, err := service.Validate(inv.Token)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Valid).To(BeFalse())
			Expect(result.Reason).To(ContainSubstring("revoked"))
		})

		It("refuses to revoke an accepted invitation", func() {
			inv, _ := service.Create(invitation.CreateInvitationDTO{Email: "a@b.com", RoleID: 3}, 1)
			_, err := service.Accept(invitation.AcceptInvitationDTO{Token: inv.Token, Name: "A B", Password: "supersecret"})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Revoke(inv.ID, "too late")).To(Equal(invitation.ErrCannotRevoke))
		})

		It("refuses to revoke twice", func() {
			inv, _ := service.Create(invitation.CreateInvitationDTO{Email: "a@b.com", RoleID: 3}, 1)
			Expect(service.Revoke(inv.ID, "first")).To(Succeed())
			Expect(service.Revoke(inv.ID, "second")).To(Equal(invitation.ErrCannotRevoke))
		})
	})

	Describe("CleanupExpired", func() {
		It("expires every pending invitation past its deadline and is idempotent", func() {
			a, _ := service.Create(invitation.CreateInvitationDTO{Email: "a@b.com", RoleID: 3}, 1)
			b, _ := service.Create(invitation.CreateInvitationDTO{Email: "b@b.com", RoleID: 3}, 1)
			c, _ := service.Create(invitation.CreateInvitationDTO{Email: "c@b.com", RoleID: 3}, 1)
			repo.invitations[a.ID].ExpiresAt = time.Now().Add(-time.Hour)
			repo.invitations[b.ID].ExpiresAt = time.Now().Add(-time.Minute)

			count, err := service.CleanupExpired()
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(2)))
			Expect(repo.invitations[c.ID].Status).To(Equal(invitation.StatusPending))

			count, err = service.CleanupExpired()
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})
	})
})
