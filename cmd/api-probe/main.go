package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lakeview/cottage-admin-console/internal/config"
	"github.com/lakeview/cottage-admin-console/internal/models"
	"github.com/lakeview/cottage-admin-console/internal/services"
	"github.com/lakeview/cottage-admin-console/pkg/adminapi"
	"github.com/sirupsen/logrus"
)

// api-probe logs into the reservation API the way the console does and prints
// the partition sizes and dashboard totals
func main() {
	var (
		email    string
		password string
		timeout  time.Duration
	)
	flag.StringVar(&email, "email", os.Getenv("PROBE_EMAIL"), "admin email (PROBE_EMAIL)")
	flag.StringVar(&password, "password", os.Getenv("PROBE_PASSWORD"), "admin password (PROBE_PASSWORD)")
	flag.DurationVar(&timeout, "timeout", time.Minute, "overall probe timeout")
	flag.Parse()

	if email == "" || password == "" {
		log.Fatal("-email and -password are required")
	}

	cfg := config.FromEnv()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	client, err := adminapi.New(adminapi.Config{
		BaseURL: cfg.RemoteAPI.BaseURL,
		Timeout: cfg.RemoteAPI.Timeout,
		Logger:  logger,
	})
	if err != nil {
		log.Fatalf("Invalid remote API configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	fmt.Printf("Probing %s\n\n", cfg.RemoteAPI.BaseURL)

	admin, err := client.Login(ctx, email, password)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	fmt.Printf("Logged in as %s (%s)\n", admin.Name, admin.Role)

	ws := services.NewWorkspace(uuid.New(), client, *admin, services.WorkspaceDeps{Logger: logger})
	defer func() {
		if err := client.Logout(context.Background()); err != nil {
			fmt.Printf("Logout failed: %v\n", err)
		}
	}()

	fmt.Println("\nPartitions")
	for _, status := range models.AllReservationStatuses {
		partition, err := ws.Lifecycle.FetchPartition(ctx, status)
		if err != nil {
			fmt.Printf("  %-10s error: %v\n", status, err)
			continue
		}
		fmt.Printf("  %-10s %d\n", status, len(partition.Reservations))
	}

	filter := ws.Filters.Get(services.FilterViewDashboard)
	fmt.Printf("\nDashboard %d/%s - %d/%s\n", filter.FromYear, filter.FromMonth, filter.ToYear, filter.ToMonth)
	for _, m := range ws.Reporting.Dashboard(ctx, filter).Metrics {
		switch {
		case m.Error != "":
			fmt.Printf("  %-20s error: %s\n", m.Label, m.Error)
		case m.Total == nil || !m.HasData:
			fmt.Printf("  %-20s no data\n", m.Label)
		default:
			fmt.Printf("  %-20s %.0f\n", m.Label, *m.Total)
		}
	}
}
