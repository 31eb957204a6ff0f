package main

import (
	"log"

	"stockflow/internal/config"
	"stockflow/internal/model"
	"stockflow/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.Open(cfg.Database.Connection, database.DefaultPool, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Step 1: Setting up extensions...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Printf("Warn: Failed to create pgcrypto: %v. Continuing...", err)
	}

	log.Println("Step 2: Running AutoMigrate...")
	if err := db.AutoMigrate(model.All()...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("Step 3: Creating indexes...")
	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS invoices_store_type_number ON invoices (store_id, type, invoice_number);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS requisitions_store_type_number ON requisitions (store_id, type, requisition_number);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS stocktakes_store_number ON stocktakes (store_id, stocktake_number);`,
	}
	for _, sql := range indexes {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to create index: %v", err)
		}
	}

	log.Println("Success: Database migration completed.")
}
