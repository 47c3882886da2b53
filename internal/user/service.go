package user

import (
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Repository interface {
	Create(u *User) error
	GetByID(id int64) (*User, error)
	GetByEmail(email string) (*User, error)
	List(limit, offset int) ([]*User, error)
	Update(u *User) error
	SetActive(id int64, active bool) (bool, error)
	AssignRole(userID, roleID int64, roleName string) error

	CreateRole(role *Role) error
	GetRole(id int64) (*Role, error)
	GetRoleWithPermissions(id int64) (*Role, error)
	ListRoles() ([]*Role, error)
	UpdateRole(role *Role) error
	DeleteRole(id int64) error
	CountUsersWithRole(roleID int64) (int64, error)
	SetRolePermissions(roleID int64, permissionIDs []int64) error
	ListPermissions() ([]*Permission, error)
	RoleNameExists(name string, excludeID int64) (bool, error)
}

type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, bcryptCost: bcryptCost, logger: logger}
}

// Create provisions an account directly, bypassing the invitation flow. Meant
// for admins standing up accounts for existing staff.
func (s *Service) Create(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByEmail(dto.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrDuplicateEmail
	}

	role, err := s.repo.GetRole(dto.RoleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:        dto.Email,
		Name:         dto.Name,
		PasswordHash: string(hash),
		IsActive:     true,
		RoleID:       &role.ID,
		RoleName:     role.Name,
	}
	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, err
	}

	// keep the join table aligned with the cached scalar
	if err := s.repo.AssignRole(u.ID, role.ID, role.Name); err != nil {
		s.logger.Error("failed to link role after user creation", "error", err, "user_id", u.ID)
	}

	s.logger.Info("user created", "user_id", u.ID, "email", u.Email, "role", role.Name)
	return u, nil
}

func (s *Service) GetByID(id int64) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *Service) List(limit, offset int) ([]*User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.List(limit, offset)
}

func (s *Service) Update(id int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Email != nil && *dto.Email != u.Email {
		if existing, err := s.repo.GetByEmail(*dto.Email); err != nil {
			return nil, err
		} else if existing != nil {
			return nil, ErrDuplicateEmail
		}
		u.Email = *dto.Email
	}
	if dto.Name != nil {
		u.Name = *dto.Name
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Activate(id int64) error {
	return s.setActive(id, true)
}

func (s *Service) Deactivate(id int64) error {
	return s.setActive(id, false)
}

func (s *Service) setActive(id int64, active bool) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	changed, err := s.repo.SetActive(id, active)
	if err != nil {
		return err
	}
	if changed {
		s.logger.Info("user active flag changed", "user_id", id, "is_active", active)
	}
	return nil
}

// AssignRole is the single write path for role membership: it replaces the
// user_roles rows and refreshes the scalar cache in one go.
func (s *Service) AssignRole(userID int64, dto AssignRoleDTO) (*User, error) {
	u, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	role, err := s.repo.GetRole(dto.RoleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}

	if err := s.repo.AssignRole(userID, role.ID, role.Name); err != nil {
		s.logger.Error("failed to assign role", "error", err, "user_id", userID, "role_id", role.ID)
		return nil, err
	}

	u.RoleID = &role.ID
	u.RoleName = role.Name

	s.logger.Info("role assigned", "user_id", userID, "role", role.Name)
	return u, nil
}

func (s *Service) CreateRole(dto RoleDTO) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if taken, err := s.repo.RoleNameExists(dto.Name, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrDuplicateRoleName
	}

	role := &Role{Name: dto.Name, Description: dto.Description}
	if err := s.repo.CreateRole(role); err != nil {
		return nil, err
	}

	if len(dto.PermissionIDs) > 0 {
		if err := s.repo.SetRolePermissions(role.ID, dto.PermissionIDs); err != nil {
			return nil, err
		}
	}

	s.logger.Info("role created", "role_id", role.ID, "name", role.Name)
	return s.repo.GetRoleWithPermissions(role.ID)
}

func (s *Service) GetRole(id int64) (*Role, error) {
	role, err := s.repo.GetRoleWithPermissions(id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}
	return role, nil
}

func (s *Service) ListRoles() ([]*Role, error) {
	return s.repo.ListRoles()
}

func (s *Service) UpdateRole(id int64, dto RoleDTO) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	role, err := s.repo.GetRole(id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}

	if dto.Name != role.Name {
		if taken, err := s.repo.RoleNameExists(dto.Name, id); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrDuplicateRoleName
		}
	}

	role.Name = dto.Name
	role.Description = dto.Description
	role.UpdatedAt = time.Now()
	if err := s.repo.UpdateRole(role); err != nil {
		return nil, err
	}

	if dto.PermissionIDs != nil {
		if err := s.repo.SetRolePermissions(id, dto.PermissionIDs); err != nil {
			return nil, err
		}
	}

	return s.repo.GetRoleWithPermissions(id)
}

// DeleteRole refuses while users still hold the role.
func (s *Service) DeleteRole(id int64) error {
	role, err := s.repo.GetRole(id)
	if err != nil {
		return err
	}
	if role == nil {
		return ErrRoleNotFound
	}

	count, err := s.repo.CountUsersWithRole(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrRoleInUse
	}

	if err := s.repo.DeleteRole(id); err != nil {
		return err
	}
	s.logger.Info("role deleted", "role_id", id)
	return nil
}

func (s *Service) ListPermissions() ([]*Permission, error) {
	return s.repo.ListPermissions()
}
