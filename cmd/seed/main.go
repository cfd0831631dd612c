package main

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"quickfix/internal/config"
	"quickfix/internal/db"
	"quickfix/internal/model"
	"quickfix/internal/repository"
)

// defaultCategories is the starter catalog. Icon keys are resolved by the
// client's icon map.
var defaultCategories = []model.Category{
	{Name: "Plumbing", Icon: "droplets", Description: "Leaks, pipes, fittings and water systems"},
	{Name: "Electrical", Icon: "zap", Description: "Wiring, sockets, lighting and electrical repairs"},
	{Name: "Carpentry", Icon: "hammer", Description: "Furniture, doors, shelving and woodwork"},
	{Name: "Painting", Icon: "paintbrush", Description: "Interior and exterior painting"},
	{Name: "Cleaning", Icon: "sparkles", Description: "Home and office cleaning services"},
	{Name: "AC Repair", Icon: "thermometer", Description: "Air conditioning installation and servicing"},
	{Name: "Pest Control", Icon: "bug", Description: "Insect and rodent treatment"},
	{Name: "Appliance Repair", Icon: "cog", Description: "Washers, fridges, ovens and more"},
	{Name: "Gardening", Icon: "leaf", Description: "Lawn care, planting and landscaping"},
	{Name: "Moving", Icon: "truck", Description: "Packing, moving and hauling"},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Category{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	categoryRepo := repository.NewCategoryRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)

	created := 0
	for _, category := range defaultCategories {
		c := category
		if err := categoryRepo.Create(ctx, &c); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue // already seeded
			}
			log.Fatalf("Failed to create category %q: %v", c.Name, err)
		}
		created++
	}
	log.Printf("Categories seeded (%d new, %d existing)", created, len(defaultCategories)-created)

	if cfg.AdminPassword == "" {
		log.Println("ADMIN_PASSWORD not set, skipping admin account")
		return
	}

	if _, err := userRepo.FindByEmail(ctx, cfg.AdminEmail); err == nil {
		log.Printf("Admin account %s already exists", cfg.AdminEmail)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to check admin account: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), 10)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}
	admin := &model.User{
		FullName:     "Administrator",
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Fatalf("Failed to create admin account: %v", err)
	}
	log.Printf("Admin account %s created", cfg.AdminEmail)
}
