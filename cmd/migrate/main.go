package main

import (
	"log"
	"os"

	"ai-studio-be/internal/model"
	"ai-studio-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	// 3. Extensions GORM AutoMigrate does not create
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Printf("Warn: Failed to create pgcrypto extension: %v. Continuing...", err)
	}

	// 4. AutoMigrate
	models := model.All()
	log.Printf("Running AutoMigrate for %d tables...", len(models))
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Balances can never go negative, whatever writes to the table
	constraints := []string{
		`DO $$ BEGIN ALTER TABLE users ADD CONSTRAINT chk_users_credits_nonneg CHECK (credits >= 0); EXCEPTION WHEN duplicate_object THEN NULL; END $$;`,
		`DO $$ BEGIN ALTER TABLE users ADD CONSTRAINT chk_users_prompt_credits_nonneg CHECK (prompt_wizard_credits >= 0); EXCEPTION WHEN duplicate_object THEN NULL; END $$;`,
	}
	for _, sql := range constraints {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to add constraint: %v", err)
		}
	}

	log.Println("✅ Migration completed")
}
