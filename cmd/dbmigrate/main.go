package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"discord-gban/internal/config"
	"discord-gban/internal/logger"
	"discord-gban/internal/models"
	"discord-gban/internal/storage"

	"gorm.io/gorm"
)

func main() {
	// Define command line flags
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	action := flag.String("action", "migrate", "Action to perform (migrate, reset, status)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Keep a record of schema changes next to the bot's logs
	log.SetOutput(logger.GetRotatingLogWriter(cfg, "gban-dbmigrate"))

	// Open without migrating so status reports what is really there
	db, err := storage.Open(cfg.Database.URL, storage.NewGormLogger(cfg.Logger.Level))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	// Perform requested action
	switch *action {
	case "migrate":
		if err := migrateDatabase(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migration completed successfully")
	case "reset":
		if err := resetDatabase(db); err != nil {
			log.Fatalf("Reset failed: %v", err)
		}
		log.Println("Database reset completed successfully")
	case "status":
		if err := checkStatus(db); err != nil {
			log.Fatalf("Status check failed: %v", err)
		}
	default:
		log.Fatalf("Unknown action: %s", *action)
	}
}

// migrateDatabase creates or updates both global ban tables
func migrateDatabase(db *gorm.DB) error {
	fmt.Println("Migrating database...")
	return storage.Migrate(db)
}

// resetDatabase drops the tables and recreates them
func resetDatabase(db *gorm.DB) error {
	fmt.Println("Resetting database...")

	// Confirm reset operation
	fmt.Print("WARNING: This will delete every global ban and log channel! Are you sure? (y/N): ")
	var confirmation string
	fmt.Scanln(&confirmation)

	if confirmation != "y" && confirmation != "Y" {
		return fmt.Errorf("operation cancelled by user")
	}

	if err := db.Migrator().DropTable(&models.LogChannelConfig{}, &models.GlobalBan{}); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}

	// Recreate tables
	return migrateDatabase(db)
}

// checkStatus reports which tables exist and how many rows they hold
func checkStatus(db *gorm.DB) error {
	fmt.Println("Checking database status...")

	if db.Migrator().HasTable(&models.GlobalBan{}) {
		fmt.Println("✅ global_bans table exists")

		count, err := storage.NewBanRepository(db).Count(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("   - Contains %d bans\n", count)
	} else {
		fmt.Println("❌ global_bans table does not exist")
	}

	if db.Migrator().HasTable(&models.LogChannelConfig{}) {
		fmt.Println("✅ global_ban_log_config table exists")

		channels, err := storage.NewLogChannelRepository(db).GetAllLogChannels(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("   - %d guilds have a log channel\n", len(channels))
	} else {
		fmt.Println("❌ global_ban_log_config table does not exist")
	}

	return nil
}
