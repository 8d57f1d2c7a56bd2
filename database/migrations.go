package database

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"gorm.io/gorm"
)

// backupArgs splits DB_BACKUP_FLAGS into pg_dump arguments. An unset or empty
// variable yields no arguments rather than a single empty one.
func backupArgs() []string {
	return strings.Fields(os.Getenv("DB_BACKUP_FLAGS"))
}

// BackupDatabase attempts to create a SQL dump using pg_dump if it's available on PATH.
// It writes to the provided path and returns an error if the command fails.
func BackupDatabase(dsn string, outPath string) error {
	if _, err := exec.LookPath("pg_dump"); err != nil {
		return fmt.Errorf("pg_dump not found in PATH: %w", err)
	}

	// Connection flags come from DB_BACKUP_FLAGS; pg_dump also honors PG* env vars.
	cmd := exec.CommandContext(context.Background(), "pg_dump", backupArgs()...)
	outFile, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer outFile.Close()
	cmd.Stdout = outFile
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pg_dump failed: %w", err)
	}
	return nil
}

// RunMigrationsWithBackup runs AutoMigrate after attempting a backup (best-effort).
// It accepts a list of models to migrate. The function attempts a pg_dump backup if
// DB_BACKUP_PATH env is set. It runs migrations inside a transaction where possible.
func RunMigrationsWithBackup(db *gorm.DB, models ...interface{}) error {
	backupPath := os.Getenv("DB_BACKUP_PATH")
	if backupPath != "" {
		go func() {
			_ = BackupDatabase(os.Getenv("DB_DSN"), backupPath)
		}()
		// allow a small window for the backup to start
		time.Sleep(500 * time.Millisecond)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := tx.AutoMigrate(models...); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}
	return nil
}
