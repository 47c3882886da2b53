package postgres

import (
	"errors"
	"time"

	"github.com/rachmanhakim/hr-management/internal/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(u *user.User) error {
	return r.db.Create(u).Error
}

func (r *Repository) GetByID(id int64) (*user.User, error) {
	var u user.User
	err := r.db.First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetByEmail(email string) (*user.User, error) {
	var u user.User
	err := r.db.First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) List(limit, offset int) ([]*user.User, error) {
	var users []*user.User
	err := r.db.Order("id ASC").Limit(limit).Offset(offset).Find(&users).Error
	return users, err
}

func (r *Repository) Update(u *user.User) error {
	return r.db.Save(u).Error
}

func (r *Repository) SetActive(id int64, active bool) (bool, error) {
	res := r.db.Model(&user.User{}).
		Where("id = ? AND is_active != ?", id, active).
		Updates(map[string]interface{}{
			"is_active":  active,
			"updated_at": time.Now(),
		})
	return res.RowsAffected > 0, res.Error
}

// AssignRole replaces the user's join-table rows and refreshes the cached
// scalar in one transaction, the only writer of either path.
func (r *Repository) AssignRole(userID, roleID int64, roleName string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM user_roles WHERE user_id = ?", userID).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			"INSERT INTO user_roles (user_id, role_id, created_at) VALUES (?, ?, ?)",
			userID, roleID, time.Now(),
		).Error; err != nil {
			return err
		}
		return tx.Exec(
			"UPDATE users SET role_id = ?, role_name = ?, updated_at = ? WHERE id = ?",
			roleID, roleName, time.Now(), userID,
		).Error
	})
}

func (r *Repository) CreateRole(role *user.Role) error {
	return r.db.Create(role).Error
}

func (r *Repository) GetRole(id int64) (*user.Role, error) {
	var role user.Role
	err := r.db.First(&role, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *Repository) GetRoleWithPermissions(id int64) (*user.Role, error) {
	role, err := r.GetRole(id)
	if err != nil || role == nil {
		return role, err
	}

	var perms []user.Permission
	err = r.db.Raw(`
		SELECT p.id, p.name, p.description
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = ?
		ORDER BY p.name ASC`, id).Scan(&perms).Error
	if err != nil {
		return nil, err
	}
	role.Permissions = perms
	return role, nil
}

func (r *Repository) ListRoles() ([]*user.Role, error) {
	var roles []*user.Role
	err := r.db.Order("name ASC").Find(&roles).Error
	return roles, err
}

func (r *Repository) UpdateRole(role *user.Role) error {
	return r.db.Omit("Permissions").Save(role).Error
}

func (r *Repository) DeleteRole(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM role_permissions WHERE role_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&user.Role{}, id).Error
	})
}

// CountUsersWithRole checks both assignment paths.
func (r *Repository) CountUsersWithRole(roleID int64) (int64, error) {
	var count int64
	err := r.db.Raw(`
		SELECT COUNT(DISTINCT uid) FROM (
			SELECT user_id AS uid FROM user_roles WHERE role_id = ?
			UNION
			SELECT id AS uid FROM users WHERE role_id = ?
		) assigned`, roleID, roleID).Scan(&count).Error
	return count, err
}

// SetRolePermissions replaces the attachment set.
func (r *Repository) SetRolePermissions(roleID int64, permissionIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM role_permissions WHERE role_id = ?", roleID).Error; err != nil {
			return err
		}
		for _, pid := range permissionIDs {
			if err := tx.Exec(
				"INSERT INTO role_permissions (role_id, permission_id) VALUES (?, ?)",
				roleID, pid,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) ListPermissions() ([]*user.Permission, error) {
	var perms []*user.Permission
	err := r.db.Order("name ASC").Find(&perms).Error
	return perms, err
}

func (r *Repository) RoleNameExists(name string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.Model(&user.Role{}).
		Where("name = ? AND id != ?", name, excludeID).
		Count(&count).Error
	return count > 0, err
}
