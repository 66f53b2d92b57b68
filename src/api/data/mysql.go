package data

import (
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/pdevulapally/fakeverifier/src/api/types"
)

func MustMySQL(dsn string) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if err := Migrate(db); err != nil {
		log.Fatalf("mysql migrate: %v", err)
	}
	return db
}

// Migrate creates or updates the schema for all stored models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.TokenUsage{},
		&types.Conversation{},
		&types.ConversationMessage{},
		&types.AccessLog{},
		&types.Feedback{},
		&types.Setting{},
	)
}
