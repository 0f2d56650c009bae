package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/nsxzhou1114/restaurant-api/internal/job"
	"github.com/nsxzhou1114/restaurant-api/internal/model"
	"github.com/spf13/cobra"
)

var (
	dropForce    bool
	cleanupDays  int
	exportPretty bool
)

var databaseCmd = &cobra.Command{
	Use:   "db",
	Short: "Database maintenance",
}

// ./restaurant-api db migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update every table",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := initializeSystem()
		if err != nil {
			return err
		}
		defer a.close()
		fmt.Println("tables migrated")
		return nil
	},
}

// ./restaurant-api db seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill an empty database with demo data",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := initializeSystem()
		if err != nil {
			return err
		}
		defer a.close()

		summary, err := a.services.Seed(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("seeded %d users, %d categories, %d restaurants, %d reviews, %d favorites\n",
			summary.Users, summary.Categories, summary.Restaurants, summary.Reviews, summary.Favorites)
		return nil
	},
}

// ./restaurant-api db drop --force
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop every table",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !dropForce {
			return fmt.Errorf("refusing to drop tables without --force")
		}
		a, err := initializeSystem()
		if err != nil {
			return err
		}
		defer a.close()

		if err := model.DropTables(a.db); err != nil {
			return err
		}
		fmt.Println("tables dropped")
		return nil
	},
}

// ./restaurant-api db cleanup --days 30
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Purge read notifications older than --days",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := initializeSystem()
		if err != nil {
			return err
		}
		defer a.close()

		days := cleanupDays
		if days <= 0 {
			days = a.cfg.Job.NotificationRetentionDays
		}
		purged := job.CleanupNotifications(cmd.Context(), a.services.Notifications, time.Duration(days)*24*time.Hour, time.Now())
		fmt.Printf("purged %d read notifications\n", purged)
		return nil
	},
}

// ./restaurant-api db export restaurants restaurants.json
var exportCmd = &cobra.Command{
	Use:   "export [table] [file]",
	Short: "Export a table to a JSON file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportTable(cmd.Context(), args[0], args[1])
	},
}

func init() {
	dropCmd.Flags().BoolVar(&dropForce, "force", false, "confirm dropping every table")
	cleanupCmd.Flags().IntVar(&cleanupDays, "days", 0, "retention in days (defaults to job.notification_retention_days)")
	exportCmd.Flags().BoolVar(&exportPretty, "pretty", true, "indent the JSON output")

	databaseCmd.AddCommand(migrateCmd)
	databaseCmd.AddCommand(seedCmd)
	databaseCmd.AddCommand(dropCmd)
	databaseCmd.AddCommand(cleanupCmd)
	databaseCmd.AddCommand(exportCmd)

	rootCmd.AddCommand(databaseCmd)
}

func exportTable(ctx context.Context, table, fileName string) error {
	if !slices.Contains(model.TableNames(), table) {
		return fmt.Errorf("unknown table %q, expected one of %v", table, model.TableNames())
	}

	a, err := initializeSystem()
	if err != nil {
		return err
	}
	defer a.close()

	var rows []map[string]interface{}
	if err := a.db.WithContext(ctx).Table(table).Find(&rows).Error; err != nil {
		return fmt.Errorf("read %s: %w", table, err)
	}

	file, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("create %s: %w", fileName, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	if exportPretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(rows); err != nil {
		return fmt.Errorf("write %s: %w", fileName, err)
	}

	fmt.Printf("exported %d rows to %s\n", len(rows), fileName)
	return nil
}
