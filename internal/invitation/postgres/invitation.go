package postgres

import (
	"errors"
	"time"

	"github.com/rachmanhakim/hr-management/internal/invitation"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(inv *invitation.UserInvitation) error {
	return r.db.Create(inv).Error
}

func (r *Repository) GetByID(id int64) (*invitation.UserInvitation, error) {
	var inv invitation.UserInvitation
	err := r.db.First(&inv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *Repository) GetByToken(token string) (*invitation.UserInvitation, error) {
	var inv invitation.UserInvitation
	err := r.db.First(&inv, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *Repository) GetPendingByEmail(email string) (*invitation.UserInvitation, error) {
	var inv invitation.UserInvitation
	err := r.db.
		Where("email = ? AND status = ?", email, invitation.StatusPending).
		Order("created_at DESC").
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *Repository) List(limit, offset int) ([]*invitation.UserInvitation, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var invs []*invitation.UserInvitation
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&invs).Error
	return invs, err
}

// MarkExpired flips a pending invitation to expired. Returns false when the
// row was no longer pending.
func (r *Repository) MarkExpired(id int64) (bool, error) {
	res := r.db.Model(&invitation.UserInvitation{}).
		Where("id = ? AND status = ?", id, invitation.StatusPending).
		Updates(map[string]interface{}{
			"status":     invitation.StatusExpired,
			"updated_at": time.Now(),
		})
	return res.RowsAffected > 0, res.Error
}

// Reissue rotates the token and expiry and returns the row to pending. Legal
// from pending or expired only; the guard is in the WHERE clause so a
// concurrent accept or revoke cannot be overwritten.
func (r *Repository) Reissue(id int64, token string, expiresAt time.Time) (bool, error) {
	res := r.db.Model(&invitation.UserInvitation{}).
		Where("id = ? AND status IN ?", id, []string{invitation.StatusPending, invitation.StatusExpired}).
		Updates(map[string]interface{}{
			"token":         token,
			"status":        invitation.StatusPending,
			"expires_at":    expiresAt,
			"accepted_at":   nil,
			"revoked_at":    nil,
			"revoke_reason": nil,
			"updated_at":    time.Now(),
		})
	return res.RowsAffected > 0, res.Error
}

func (r *Repository) Revoke(id int64, reason string) (bool, error) {
	now := time.Now()
	res := r.db.Model(&invitation.UserInvitation{}).
		Where("id = ? AND status NOT IN ?", id, []string{invitation.StatusAccepted, invitation.StatusRevoked}).
		Updates(map[string]interface{}{
			"status":        invitation.StatusRevoked,
			"revoked_at":    now,
			"revoke_reason": reason,
			"updated_at":    now,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *Repository) ExpireAllDue(now time.Time) (int64, error) {
	res := r.db.Model(&invitation.UserInvitation{}).
		Where("status = ? AND expires_at < ?", invitation.StatusPending, now).
		Updates(map[string]interface{}{
			"status":     invitation.StatusExpired,
			"updated_at": now,
		})
	return res.RowsAffected, res.Error
}

func (r *Repository) UserEmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Table("users").Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *Repository) RoleName(roleID int64) (string, error) {
	var name string
	err := r.db.Raw("SELECT name FROM roles WHERE id = ?", roleID).Scan(&name).Error
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", gorm.ErrRecordNotFound
	}
	return name, nil
}

// AcceptAndCreateUser claims the invitation and provisions the account in one
// transaction. The pending→accepted flip is conditional: when another request
// has already consumed the token, claimed is false and nothing is written.
// The new user gets the invitation's role through both assignment paths (the
// user_roles join row and the denormalized users.role_id), and a pre-created
// employee record is linked back by user id.
func (r *Repository) AcceptAndCreateUser(invitationID int64, email, name, passwordHash string, roleID int64, employeeID *int64) (int64, bool, error) {
	var userID int64
	claimed := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		res := tx.Model(&invitation.UserInvitation{}).
			Where("id = ? AND status = ?", invitationID, invitation.StatusPending).
			Updates(map[string]interface{}{
				"status":      invitation.StatusAccepted,
				"accepted_at": now,
				"updated_at":  now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		claimed = true

		var roleName string
		if err := tx.Raw("SELECT name FROM roles WHERE id = ?", roleID).Scan(&roleName).Error; err != nil {
			return err
		}

		if err := tx.Raw(`
			INSERT INTO users (email, name, password_hash, role_id, role_name, is_active, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id`,
			email, name, passwordHash, roleID, roleName, true, now, now,
		).Scan(&userID).Error; err != nil {
			return err
		}

		if err := tx.Exec(`
			INSERT INTO user_roles (user_id, role_id, created_at)
			VALUES (?, ?, ?)
			ON CONFLICT DO NOTHING`,
			userID, roleID, now,
		).Error; err != nil {
			return err
		}

		if employeeID != nil {
			if err := tx.Exec(`
				UPDATE employees SET user_id = ?, updated_at = ?
				WHERE id = ? AND user_id IS NULL`,
				userID, now, *employeeID,
			).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return userID, claimed, nil
}
