package cmd

import (
	"fmt"
	"log"

	"github.com/rachmanhakim/hr-management/internal/export"
	"github.com/rachmanhakim/hr-management/internal/invitation"
	invitationpg "github.com/rachmanhakim/hr-management/internal/invitation/postgres"
	"github.com/rachmanhakim/hr-management/pkg/logger"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// cleanupCmd is meant to run from cron: it flips overdue pending invitations
// to expired and sweeps stale export files.
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Expire overdue invitations and delete old export files",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		lg := logger.L()

		db, err := gorm.Open(gormpostgres.Open(cfg.Database.Source), &gorm.Config{})
		if err != nil {
			lg.Error("failed to init db", "error", err)
			return
		}

		invitationService := invitation.NewService(
			invitationpg.NewRepository(db), nil, nil,
			cfg.Security.BCryptCost, cfg.Invitation.ExpiryDays, lg,
		)
		expired, err := invitationService.CleanupExpired()
		if err != nil {
			lg.Error("invitation cleanup failed", "error", err)
		} else {
			fmt.Printf("Expired %d overdue invitations\n", expired)
		}

		exportService := export.NewService(nil, cfg.Export.Dir, nil, lg)
		removed, err := exportService.CleanupOldFiles(cfg.Export.FileMaxAge)
		if err != nil {
			lg.Error("export cleanup failed", "error", err)
		} else {
			fmt.Printf("Removed %d old export files\n", removed)
		}
	},
}
