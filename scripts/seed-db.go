package main

import (
	"fmt"
	"log"

	"github.com/IaraKrasnoff/OnesToManys/internal/config"
	"github.com/IaraKrasnoff/OnesToManys/internal/database"
	"github.com/IaraKrasnoff/OnesToManys/internal/migrations"
)

// seed-db recreates the schema and loads the sample dataset. Run it against
// a fresh or throwaway database: it drops both tables first.
func main() {
	fmt.Println("Initializing database...")

	cfg := config.Load()

	db, err := database.Initialize(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fmt.Println("Database initialization completed successfully!")
}
