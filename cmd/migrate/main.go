package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"threadline/config"
	"threadline/pkg/database"
)

const usage = `
Threadline - Database CLI Tool

Usage:
  migrate [command] [flags]

Commands:
  up          Run all SQL migrations
  status      Show database connection status

Flags:
  -migrations string   Path to migrations directory (default "migrations")

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go status
`

func main() {
	migrationsDir := flag.String("migrations", "migrations", "Path to migrations directory")

	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)

	cfg := config.LoadConfig()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	database.Connect(cfg)
	defer database.Close()

	switch command {
	case "up":
		runMigrationsUp(*migrationsDir)
	case "status":
		showStatus()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func runMigrationsUp(migrationsDir string) {
	log.Println("Running migrations...")

	if err := database.ApplyRawMigrations(migrationsDir); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully")
}

func showStatus() {
	log.Println("Checking database status...")

	if err := database.Ping(); err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Database connection: OK")

	tables := []string{"profiles", "threads"}
	for _, table := range tables {
		exists, err := database.TableExists(table)
		if err != nil {
			log.Printf("Error checking table %s: %v", table, err)
			continue
		}
		if exists {
			count, _ := database.GetTableCount(table)
			log.Printf("Table %-12s exists (%d rows)", table, count)
		} else {
			log.Printf("Table %-12s does not exist", table)
		}
	}
}
