package main

import (
	"log"

	"support-chat-be/internal/config"
	"support-chat-be/internal/entity"
	"support-chat-be/internal/model"
	"support-chat-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Development seeder: migrates the schema and creates one support agent and
// one end user so the demo client can log in straight away.
func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}

	color.Cyan("Running migrations...")
	if err := db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.ChatSession{},
		&model.Message{},
		&model.FileUpload{},
		&model.AuditLog{},
	); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	color.Green("Migrations complete")

	color.Cyan("Seeding accounts...")
	seedUser(db, "Support Agent", "agent@example.com", "agent1234", entity.UserRoleAgent)
	seedUser(db, "Demo User", "user@example.com", "user1234", entity.UserRoleUser)
	color.Green("Seed complete")

	color.Yellow("Login with agent@example.com / agent1234 or user@example.com / user1234")
}

func seedUser(db *gorm.DB, username, email, password string, role entity.UserRole) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := model.User{
		Id:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         string(role),
		Status:       string(entity.UserStatusActive),
		Available:    true,
	}

	// Re-running the seeder leaves existing accounts untouched.
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&user)
	if result.Error != nil {
		log.Fatalf("Failed to seed %s: %v", email, result.Error)
	}
	if result.RowsAffected == 0 {
		color.Yellow("  %s already exists, skipped", email)
		return
	}
	color.Green("  created %s (%s)", email, role)
}
