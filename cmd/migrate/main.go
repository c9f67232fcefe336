package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/user/ticklist/internal/config"
	"github.com/user/ticklist/internal/database"
	"github.com/user/ticklist/internal/jobs"
	"github.com/user/ticklist/internal/ordering"
	"github.com/user/ticklist/internal/repository"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.Connect(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	log.Println("Running database migrations...")

	// 1. Create or upgrade the schema
	log.Println("Migrating schema...")
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}
	log.Println("  ✓ Schema migrated")

	// 2. Create indexes the models do not declare
	log.Println("Creating indexes...")
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_items_checklist_position ON items(checklist_id, position)").Error; err != nil {
		log.Printf("  Warning: Could not create item position index: %v", err)
	} else {
		log.Println("  ✓ Item position index created")
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_items_due_date ON items(due_date) WHERE due_date IS NOT NULL").Error; err != nil {
		log.Printf("  Warning: Could not create due date index: %v", err)
	} else {
		log.Println("  ✓ Due date index created")
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_archived_items_completed_at ON archived_items(completed_at)").Error; err != nil {
		log.Printf("  Warning: Could not create archive index: %v", err)
	} else {
		log.Println("  ✓ Archive index created")
	}

	// 3. Backfill colors on rows created before the color column existed
	log.Println("Backfilling checklist colors...")
	if result := db.Exec("UPDATE checklists SET color = '#007AFF' WHERE color IS NULL OR color = ''"); result.Error != nil {
		log.Printf("  Warning: Could not backfill colors: %v", result.Error)
	} else {
		log.Printf("  ✓ Backfilled %d checklist colors", result.RowsAffected)
	}

	// 4. Backfill reminder repeat counts below the minimum of one
	log.Println("Backfilling reminder repeat counts...")
	if result := db.Exec("UPDATE items SET reminder_repeat_count = 1 WHERE reminder_repeat_count IS NULL OR reminder_repeat_count < 1"); result.Error != nil {
		log.Printf("  Warning: Could not backfill repeat counts: %v", result.Error)
	} else {
		log.Printf("  ✓ Backfilled %d repeat counts", result.RowsAffected)
	}

	// 5. Re-enumerate every position scope. Rows created before positions
	// existed carry position 0; repair orders by position then created_at,
	// so legacy rows settle into creation order.
	log.Println("Repairing position sequences...")
	checklistRepo := repository.NewChecklistRepository(db)
	itemRepo := repository.NewItemRepository(db)
	orderingMgr := ordering.NewManager(checklistRepo, itemRepo)
	repairJob := jobs.NewOrderingRepairJob(checklistRepo, orderingMgr)
	scopes, err := repairJob.RepairAll(context.Background())
	if err != nil {
		log.Fatalf("Failed to repair position sequences: %v", err)
	}
	log.Printf("  ✓ Repaired %d position scopes", scopes)

	log.Println("")
	log.Println("========================================")
	log.Println("Migrations completed successfully!")
	log.Println("========================================")
}
