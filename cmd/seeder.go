package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with roles, permissions and the bootstrap admin",
	Long:  `Seed roles, permissions, sample departments and the admin account configured under admin.email / admin.password.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := gorm.Open(gormpostgres.Open(cfg.Database.Source), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			for _, table := range []string{"user_roles", "role_permissions"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared role assignments")
		}

		permissions := []struct {
			Name string
			Desc string
		}{
			{"admin", "full administrator"},
			{"manage_users", "Can create and manage user accounts"},
			{"manage_roles", "Can manage roles and permission sets"},
			{"manage_employees", "Can create and edit employee records"},
			{"view_employees", "Can view employee and department records"},
			{"manage_attendance", "Can view attendance across employees"},
			{"approve_leave", "Can review leave requests"},
			{"approve_overtime", "Can review overtime requests"},
			{"manage_payroll", "Can generate and finalize payroll"},
			{"view_dashboard", "Can view the summary dashboard"},
			{"employee_export", "Can export HR data files"},
			{"manage_invitations", "Can invite new users"},
		}

		for _, p := range permissions {
			var pid int64
			row := db.Raw("SELECT id FROM permissions WHERE name = ?", p.Name).Row()
			if err := row.Scan(&pid); err != nil {
				if err := db.Exec("INSERT INTO permissions (name, description, created_at) VALUES (?, ?, now())", p.Name, p.Desc).Error; err != nil {
					log.Fatalf("failed to insert permission %s: %v", p.Name, err)
				}
			}
		}

		rolePermissions := map[string][]string{
			"admin": {"admin"},
			"hr_manager": {
				"manage_employees", "view_employees", "manage_attendance",
				"approve_leave", "approve_overtime", "manage_payroll",
				"view_dashboard", "employee_export", "manage_invitations",
			},
			"employee": {},
		}
		roleDescriptions := map[string]string{
			"admin":      "Full access to every module",
			"hr_manager": "Runs day-to-day HR operations",
			"employee":   "Self-service attendance, leave and overtime",
		}

		for _, roleName := range []string{"admin", "hr_manager", "employee"} {
			var rid int64
			row := db.Raw("SELECT id FROM roles WHERE name = ?", roleName).Row()
			if err := row.Scan(&rid); err != nil {
				if err := db.Exec("INSERT INTO roles (name, description, created_at, updated_at) VALUES (?, ?, now(), now())", roleName, roleDescriptions[roleName]).Error; err != nil {
					log.Fatalf("failed to insert role %s: %v", roleName, err)
				}
				if err := db.Raw("SELECT id FROM roles WHERE name = ?", roleName).Row().Scan(&rid); err != nil {
					log.Fatalf("role not found after insert %s: %v", roleName, err)
				}
			}

			for _, permName := range rolePermissions[roleName] {
				var pid int64
				if err := db.Raw("SELECT id FROM permissions WHERE name = ?", permName).Row().Scan(&pid); err != nil {
					log.Fatalf("permission not found %s: %v", permName, err)
				}

				var exists int
				if err := db.Raw("SELECT 1 FROM role_permissions WHERE role_id = ? AND permission_id = ?", rid, pid).Row().Scan(&exists); err == nil {
					continue
				}
				if err := db.Exec("INSERT INTO role_permissions (role_id, permission_id) VALUES (?, ?)", rid, pid).Error; err != nil {
					log.Fatalf("failed to grant %s to role %s: %v", permName, roleName, err)
				}
			}
			fmt.Println("Seeded role:", roleName)
		}

		if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
			fmt.Println("admin.email / admin.password not configured; skipping admin bootstrap")
		} else {
			seedAdmin(db, cfg.Admin.Email, cfg.Admin.Password, cfg.Security.BCryptCost)
		}

		departments := []struct {
			Name string
			Desc string
		}{
			{"Engineering", "Product development"},
			{"People Operations", "HR and recruiting"},
			{"Finance", "Accounting and payroll"},
		}

		for _, d := range departments {
			var exists int
			row := db.Raw("SELECT 1 FROM departments WHERE name = ?", d.Name).Row()
			if err := row.Scan(&exists); err != nil {
				if err := db.Exec("INSERT INTO departments (name, description, created_at, updated_at) VALUES (?, ?, now(), now())", d.Name, d.Desc).Error; err != nil {
					log.Fatalf("failed to insert department %s: %v", d.Name, err)
				}
				fmt.Printf("Seeded department: %s\n", d.Name)
			}
		}

		fmt.Println("Seeding complete")
	},
}

func seedAdmin(db *gorm.DB, email, password string, bcryptCost int) {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}

	var adminRoleID int64
	if err := db.Raw("SELECT id FROM roles WHERE name = 'admin'").Row().Scan(&adminRoleID); err != nil {
		log.Fatalf("admin role missing: %v", err)
	}

	var adminUserID int64
	if err := db.Raw("SELECT id FROM users WHERE email = ?", email).Row().Scan(&adminUserID); err != nil {
		if err := db.Exec(
			"INSERT INTO users (email, name, password_hash, is_active, role_id, role_name, created_at, updated_at) VALUES (?, 'Administrator', ?, true, ?, 'admin', now(), now())",
			email, string(hash), adminRoleID,
		).Error; err != nil {
			log.Fatalf("failed to insert admin user: %v", err)
		}
		if err := db.Raw("SELECT id FROM users WHERE email = ?", email).Row().Scan(&adminUserID); err != nil {
			log.Fatalf("admin user not found after insert: %v", err)
		}
		fmt.Println("Seeded admin user:", email)
	} else {
		fmt.Println("admin user already exists; will ensure role assignment")
	}

	var exists int
	if err := db.Raw("SELECT 1 FROM user_roles WHERE user_id = ? AND role_id = ?", adminUserID, adminRoleID).Row().Scan(&exists); err != nil {
		if err := db.Exec("INSERT INTO user_roles (user_id, role_id, created_at) VALUES (?, ?, now())", adminUserID, adminRoleID).Error; err != nil {
			log.Fatalf("failed to assign admin role: %v", err)
		}
	}
	fmt.Println("Admin role assigned to:", email)
}
