package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/rachmanhakim/hr-management/internal/activity"
	"github.com/rachmanhakim/hr-management/internal/attendance"
	"github.com/rachmanhakim/hr-management/internal/auth"
	"github.com/rachmanhakim/hr-management/internal/dashboard"
	"github.com/rachmanhakim/hr-management/internal/employee"
	"github.com/rachmanhakim/hr-management/internal/export"
	"github.com/rachmanhakim/hr-management/internal/invitation"
	"github.com/rachmanhakim/hr-management/internal/leave"
	"github.com/rachmanhakim/hr-management/internal/overtime"
	"github.com/rachmanhakim/hr-management/internal/payroll"
	"github.com/rachmanhakim/hr-management/internal/transport/middleware"
	"github.com/rachmanhakim/hr-management/internal/transport/swagger"
	"github.com/rachmanhakim/hr-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth       *auth.Handler
	Invitation *invitation.Handler
	User       *user.Handler
	Employee   *employee.Handler
	Attendance *attendance.Handler
	Leave      *leave.Handler
	Overtime   *overtime.Handler
	Payroll    *payroll.Handler
	Dashboard  *dashboard.Handler
	Export     *export.Handler
	Activity   *activity.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)
	rbac := auth.NewRBACAuthorization(auth.NewPermissionChecker(), logger)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Invitation claim flow is reachable without a session: the invitee
		// has no account yet, only the token from the email.
		r.Get("/invitations/validate/{token}", h.Invitation.ValidateInvitation)
		r.Post("/invitations/accept", h.Invitation.AcceptInvitation)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Group(func(ir chi.Router) {
				ir.Use(rbac.Middleware("manage_invitations"))
				ir.Post("/invitations", h.Invitation.CreateInvitation)
				ir.Get("/invitations", h.Invitation.ListInvitations)
				ir.Post("/invitations/{id}/resend", h.Invitation.ResendInvitation)
				ir.Post("/invitations/{id}/revoke", h.Invitation.RevokeInvitation)
			})

			pr.Group(func(ur chi.Router) {
				ur.Use(rbac.Middleware("manage_users"))
				ur.Post("/users", h.User.CreateUser)
				ur.Get("/users", h.User.ListUsers)
				ur.Get("/users/{id}", h.User.GetUser)
				ur.Patch("/users/{id}", h.User.UpdateUser)
				ur.Post("/users/{id}/activate", h.User.ActivateUser)
				ur.Post("/users/{id}/deactivate", h.User.DeactivateUser)
				ur.Put("/users/{id}/role", h.User.AssignRole)
			})

			pr.Group(func(rr chi.Router) {
				rr.Use(rbac.Middleware("manage_roles"))
				rr.Post("/roles", h.User.CreateRole)
				rr.Get("/roles", h.User.ListRoles)
				rr.Get("/roles/{id}", h.User.GetRole)
				rr.Put("/roles/{id}", h.User.UpdateRole)
				rr.Delete("/roles/{id}", h.User.DeleteRole)
				rr.Get("/permissions", h.User.ListPermissions)
			})

			pr.Route("/employees", func(er chi.Router) {
				er.Group(func(vr chi.Router) {
					vr.Use(rbac.Middleware("view_employees"))
					vr.Get("/", h.Employee.ListEmployees)
					vr.Get("/{id}", h.Employee.GetEmployee)
				})
				er.Group(func(mr chi.Router) {
					mr.Use(rbac.Middleware("manage_employees"))
					mr.Post("/", h.Employee.CreateEmployee)
					mr.Patch("/{id}", h.Employee.UpdateEmployee)
					mr.Delete("/{id}", h.Employee.DeleteEmployee)
				})
			})

			pr.Route("/departments", func(dr chi.Router) {
				dr.Group(func(vr chi.Router) {
					vr.Use(rbac.Middleware("view_employees"))
					vr.Get("/", h.Employee.ListDepartments)
					vr.Get("/{id}", h.Employee.GetDepartment)
				})
				dr.Group(func(mr chi.Router) {
					mr.Use(rbac.Middleware("manage_employees"))
					mr.Post("/", h.Employee.CreateDepartment)
					mr.Patch("/{id}", h.Employee.UpdateDepartment)
					mr.Delete("/{id}", h.Employee.DeleteDepartment)
				})
			})

			pr.Route("/attendance", func(ar chi.Router) {
				ar.Post("/clock-in", h.Attendance.ClockIn)
				ar.Post("/clock-out", h.Attendance.ClockOut)
				ar.Get("/me", h.Attendance.ListOwn)
				ar.Group(func(mr chi.Router) {
					mr.Use(rbac.Middleware("manage_attendance"))
					mr.Get("/", h.Attendance.ListAll)
				})
			})

			pr.Route("/leave", func(lr chi.Router) {
				lr.Post("/", h.Leave.Submit)
				lr.Get("/me", h.Leave.ListOwn)
				lr.Group(func(mr chi.Router) {
					mr.Use(rbac.Middleware("approve_leave"))
					mr.Get("/pending", h.Leave.ListPending)
					mr.Patch("/{id}/approve", h.Leave.Approve)
					mr.Patch("/{id}/reject", h.Leave.Reject)
				})
			})

			pr.Route("/overtime", func(or chi.Router) {
				or.Post("/", h.Overtime.Submit)
				or.Get("/me", h.Overtime.ListOwn)
				or.Group(func(mr chi.Router) {
					mr.Use(rbac.Middleware("approve_overtime"))
					mr.Get("/pending", h.Overtime.ListPending)
					mr.Patch("/{id}/approve", h.Overtime.Approve)
					mr.Patch("/{id}/reject", h.Overtime.Reject)
				})
			})

			pr.Group(func(plr chi.Router) {
				plr.Use(rbac.Middleware("manage_payroll"))
				plr.Route("/payroll", func(pp chi.Router) {
					pp.Post("/generate", h.Payroll.Generate)
					pp.Get("/", h.Payroll.List)
					pp.Get("/{id}", h.Payroll.Get)
					pp.Patch("/{id}/finalize", h.Payroll.Finalize)
					pp.Patch("/{id}/pay", h.Payroll.MarkPaid)
					pp.Post("/{id}/payslip", h.Payroll.IssuePayslip)
					pp.Get("/{id}/payslip", h.Payroll.DownloadPayslip)
				})
			})

			pr.Group(func(dr chi.Router) {
				dr.Use(rbac.Middleware("view_dashboard"))
				dr.Get("/dashboard/summary", h.Dashboard.Summary)
			})

			pr.Group(func(xr chi.Router) {
				xr.Use(rbac.Middleware("employee_export"))
				xr.Get("/exports", h.Export.Download)
			})

			pr.Group(func(ar chi.Router) {
				ar.Use(middleware.RequirePermissions("manage_users", "view_dashboard"))
				ar.Get("/activity-logs", h.Activity.List)
			})
		})
	})
}
