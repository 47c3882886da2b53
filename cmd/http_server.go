package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rachmanhakim/hr-management/internal"
	"github.com/rachmanhakim/hr-management/internal/activity"
	activitypg "github.com/rachmanhakim/hr-management/internal/activity/postgres"
	"github.com/rachmanhakim/hr-management/internal/attendance"
	attendancepg "github.com/rachmanhakim/hr-management/internal/attendance/postgres"
	"github.com/rachmanhakim/hr-management/internal/auth"
	authpg "github.com/rachmanhakim/hr-management/internal/auth/postgres"
	"github.com/rachmanhakim/hr-management/internal/core/events"
	"github.com/rachmanhakim/hr-management/internal/dashboard"
	"github.com/rachmanhakim/hr-management/internal/employee"
	employeepg "github.com/rachmanhakim/hr-management/internal/employee/postgres"
	"github.com/rachmanhakim/hr-management/internal/export"
	"github.com/rachmanhakim/hr-management/internal/invitation"
	invitationpg "github.com/rachmanhakim/hr-management/internal/invitation/postgres"
	"github.com/rachmanhakim/hr-management/internal/leave"
	leavepg "github.com/rachmanhakim/hr-management/internal/leave/postgres"
	"github.com/rachmanhakim/hr-management/internal/notification"
	"github.com/rachmanhakim/hr-management/internal/overtime"
	overtimepg "github.com/rachmanhakim/hr-management/internal/overtime/postgres"
	"github.com/rachmanhakim/hr-management/internal/payroll"
	payrollpg "github.com/rachmanhakim/hr-management/internal/payroll/postgres"
	"github.com/rachmanhakim/hr-management/internal/transport/rest"
	"github.com/rachmanhakim/hr-management/internal/user"
	userpg "github.com/rachmanhakim/hr-management/internal/user/postgres"
	"github.com/rachmanhakim/hr-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	GormDB *gorm.DB
	Router *chi.Mux
	Mailer *notification.Mailer
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		deps.Mailer.Shutdown()
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"), config.Logging.Format)
	log := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// gorm rides on the same pgx connection pool
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)

	bus := events.NewEventBus(log)

	mailer := notification.NewMailer(
		notification.NewSMTPSender(notification.SMTPConfig{
			Host:        config.SMTP.Host,
			Port:        config.SMTP.Port,
			Username:    config.SMTP.Username,
			Password:    config.SMTP.Password,
			FromAddress: config.SMTP.FromAddress,
			FromName:    config.SMTP.FromName,
		}),
		notification.MailerConfig{
			MaxWorkers: config.SMTP.MaxWorkers,
			QueueSize:  config.SMTP.QueueSize,
		},
		log,
	)
	notification.NewSubscriber(mailer, config.Server.BaseURL, log).Register(bus)

	activityService := activity.NewService(activitypg.NewRepository(gormDB), log)
	activity.NewSubscriber(activityService).Register(bus)

	authService := auth.NewService(authpg.NewRepository(gormDB), tokenGen, bus, config.Security.BCryptCost)
	invitationService := invitation.NewService(
		invitationpg.NewRepository(gormDB), tokenGen, bus,
		config.Security.BCryptCost, config.Invitation.ExpiryDays, log,
	)
	employeeService := employee.NewService(employeepg.NewRepository(gormDB), log)
	attendanceService := attendance.NewService(attendancepg.NewRepository(gormDB), log)
	leaveService := leave.NewService(leavepg.NewRepository(gormDB), bus, log)
	overtimeService := overtime.NewService(overtimepg.NewRepository(gormDB), bus, log)
	payrollService := payroll.NewService(payrollpg.NewRepository(gormDB), config.Export.Dir, log)
	dashboardService := dashboard.NewService(db, log)
	exportService := export.NewService(export.NewSQLRepository(db), config.Export.Dir, bus, log)
	userService := user.NewService(userpg.NewRepository(gormDB), config.Security.BCryptCost, log)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, rest.Handlers{
		Auth:       auth.NewHandler(authService),
		Invitation: invitation.NewHandler(invitationService),
		User:       user.NewHandler(userService),
		Employee:   employee.NewHandler(employeeService),
		Attendance: attendance.NewHandler(attendanceService),
		Leave:      leave.NewHandler(leaveService),
		Overtime:   overtime.NewHandler(overtimeService),
		Payroll:    payroll.NewHandler(payrollService),
		Dashboard:  dashboard.NewHandler(dashboardService),
		Export:     export.NewHandler(exportService),
		Activity:   activity.NewHandler(activityService),
	}, config.Server.AllowedOrigins, log)

	return &Dependencies{
		Config: config,
		Logger: log,
		DB:     db,
		GormDB: gormDB,
		Router: router,
		Mailer: mailer,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
