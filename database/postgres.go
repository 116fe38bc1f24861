package database

import (
	"fmt"
	"log"

	"sportlink-service/config"
	"sportlink-service/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func PostgresConnect() *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.Config("POSTGRES_HOST"),
		config.Config("POSTGRES_PORT"),
		config.Config("POSTGRES_USER"),
		config.Config("POSTGRES_PASSWORD"),
		config.Config("POSTGRES_DB"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect postgres")
	}

	log.Printf("Connection opened to Postgres")
	Migrate(db)
	log.Printf("Postgres Database Migrated")

	return db
}

// Migrate applies the schema. Split out so tests can run it against SQLite.
func Migrate(db *gorm.DB) {
	db.AutoMigrate(
		&model.User{},
		&model.Follow{},
		&model.FriendRequest{},
		&model.Notification{},
		&model.Conversation{},
		&model.ConversationParticipant{},
		&model.Message{},
		&model.Image{},
	)
}
