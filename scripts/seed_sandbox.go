package main

import (
	"log"
	"os"
	"strings"

	"alfredoptarigan/cv-screener/internal/config"
	"alfredoptarigan/cv-screener/internal/repositories"
)

func main() {
	log.Println("🚀 Seeding sandbox database...")

	// Load configuration
	cfg := config.Load()

	db, err := config.InitSandboxDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	seeded, err := repositories.Seed(db)
	if err != nil {
		log.Fatalf("❌ Failed to seed database: %v", err)
	}

	ids, err := repositories.NewRequirementRepository(db).ListIDs()
	if err != nil {
		log.Fatalf("❌ Failed to list requirements: %v", err)
	}

	log.Println(strings.Repeat("=", 60))
	if seeded {
		log.Printf("✅ Seeded demo data (login: %s / %s)", repositories.DemoUsername, repositories.DemoPassword)
	} else {
		log.Println("⚠️  Requirements already present, nothing seeded")
	}
	log.Printf("📊 Requirements: %s", strings.Join(ids, ", "))
	log.Println(strings.Repeat("=", 60))

	if len(ids) == 0 {
		os.Exit(1)
	}
}
