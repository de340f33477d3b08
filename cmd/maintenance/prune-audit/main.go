package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lakeview/cottage-admin-console/internal/config"
	"github.com/lakeview/cottage-admin-console/internal/database"
	"github.com/lakeview/cottage-admin-console/internal/services"
	"github.com/sirupsen/logrus"
)

func main() {
	var (
		dbURLFlag string
		days      int
	)
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.IntVar(&days, "days", 90, "delete console audit rows older than this many days")
	flag.Parse()

	if days < 1 {
		log.Fatal("-days must be at least 1")
	}

	// Try loading .env from current working directory (optional)
	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	// Build minimal audit config without loading full app config
	db, err := database.NewConnection(config.AuditConfig{
		Enabled:            true,
		DatabaseURL:        dbURL,
		MaxConnections:     2,
		MaxIdleConnections: 1,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := database.NewConsoleAuditRepository(db)
	if err := repo.EnsureSchema(); err != nil {
		log.Fatalf("failed to prepare audit table: %v", err)
	}

	logger := logrus.New()
	audit := services.NewAuditService(repo, logger)

	deleted, err := audit.CleanupOldAuditLogs(time.Duration(days) * 24 * time.Hour)
	if err != nil {
		log.Fatalf("failed to prune audit rows: %v", err)
	}

	fmt.Printf("Deleted %d console audit rows older than %d days.\n", deleted, days)
}
