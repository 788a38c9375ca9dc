package main

import (
	"context"
	"log"
	"os"

	"morning-pulse-be/internal/model"
	"morning-pulse-be/internal/pkg/logger"
	"morning-pulse-be/internal/repository/unitofwork"
	"morning-pulse-be/internal/service"
	"morning-pulse-be/pkg/database"

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
	db, err := database.NewGormDBFromDSN(dsn, false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Step 1: Setting up extensions...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Printf("Warn: Failed to create pgcrypto extension: %v. Continuing...", err)
	}

	log.Println("Step 2: Running AutoMigrate...")
	models := []interface{}{
		&model.Story{},
		&model.Opinion{},
		&model.Editor{},
		&model.AskLog{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("Step 3: Creating indexes...")
	postMigrationSQL := []string{
		`CREATE INDEX IF NOT EXISTS idx_opinions_status_order ON opinions (status, COALESCE(published_at, submitted_at) DESC);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_editors_email_lower ON editors (LOWER(email));`,
	}
	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	// 4. Seed the first editor when credentials are supplied
	email := os.Getenv("EDITOR_SEED_EMAIL")
	password := os.Getenv("EDITOR_SEED_PASSWORD")
	if email != "" && password != "" {
		name := os.Getenv("EDITOR_SEED_NAME")
		if name == "" {
			name = "Editor"
		}
		editors := service.NewEditorService(unitofwork.NewRepositoryFactory(db), os.Getenv("JWT_SECRET"), logger.NewNopLogger())
		editor, err := editors.EnsureEditor(context.Background(), email, name, password)
		if err != nil {
			log.Fatalf("Error: Failed to seed editor: %v", err)
		}
		log.Printf("Step 4: Editor ready: %s", editor.Email)
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
