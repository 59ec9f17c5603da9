package database

import (
	"log"
	"os"
	"time"

	"shopdesk/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the MySQL connection from DB_DSN and syncs the schema.
// The retry loop lets the server come up alongside the database container.
func Connect() {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("Error: DB_DSN not found in .env file. Please configure your database.")
	}

	var err error
	for i := 0; i < 5; i++ {
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			break
		}
		log.Printf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatal("Failed to connect to database after 5 attempts:", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate schema:", err)
	}
	log.Println("Database connected and schema synced")
}

// Migrate syncs the schema. Split out from Connect so tests can run it
// against their own (in-memory) database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.ShopProfile{},
		&models.Subscription{},
		&models.DemoUsage{},
		&models.InventoryItem{},
		&models.Customer{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.InvoiceSequence{},
		&models.Staff{},
		&models.StaffAttendance{},
	)
}
