package devserver

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB connects to the sqlite database and migrates all models.
// Use ":memory:" for throwaway instances in tests.
func OpenDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("devserver: connect database: %w", err)
	}

	if err := db.AutoMigrate(
		&User{},
		&Category{},
		&MenuItem{},
		&Order{},
		&OrderItem{},
		&OrderStatusHistory{},
		&RiderProfile{},
	); err != nil {
		return nil, fmt.Errorf("devserver: migrate database: %w", err)
	}
	return db, nil
}

// Seed loads a small demo menu when the database is empty, so the demo
// mode is usable straight after first start.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&MenuItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := []Category{
		{Name: "Mains"},
		{Name: "Sides"},
		{Name: "Drinks"},
	}
	if err := db.Create(&categories).Error; err != nil {
		return err
	}

	items := []MenuItem{
		{Name: "Chicken Biryani", Description: "Fragrant rice with spiced chicken", Price: 450, CategoryID: categories[0].CategoryID},
		{Name: "Beef Karahi", Description: "Slow-cooked in a traditional wok", Price: 899.99, CategoryID: categories[0].CategoryID},
		{Name: "Garlic Naan", Price: 60, CategoryID: categories[1].CategoryID},
		{Name: "Fries", Price: 150, CategoryID: categories[1].CategoryID},
		{Name: "Mango Lassi", Price: 120.50, CategoryID: categories[2].CategoryID},
	}
	return db.Create(&items).Error
}
