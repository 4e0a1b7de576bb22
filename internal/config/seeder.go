package config

import (
	"log"

	"tunehub/internal/adapters/persistence/models"
	"tunehub/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds the default admin account.
// Development convenience only; rotate the password immediately in any
// real deployment.
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123")
	if err != nil {
		return err
	}

	email := "admin@example.com"
	admin := &models.User{
		ID:       uuid.New().String(),
		Username: "admin",
		Email:    &email,
		Password: hashedPassword,
		Role:     models.RoleAdmin,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Println("✅ Default admin user created (username: admin)")
	return nil
}

// SeedData runs seeders after migration
func SeedData(db *gorm.DB) error {
	return NewSeeder(db).Run()
}
