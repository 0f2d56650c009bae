package model

import (
	"fmt"

	"gorm.io/gorm"
)

// models migrated on startup
var models = []interface{}{
	&User{},
	&Category{},
	&Restaurant{},
	&Review{},
	&Favorite{},
	&Notification{},
	&Tea{},
	&TeaComment{},
}

// InitTables migrates every table
func InitTables(db *gorm.DB) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// DropTables drops every table, join tables included
func DropTables(db *gorm.DB) error {
	tables := append([]interface{}{RestaurantCategoryTable}, models...)
	if err := db.Migrator().DropTable(tables...); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	return nil
}

// TableNames every table owned by the application
func TableNames() []string {
	names := make([]string, 0, len(models)+1)
	for _, m := range models {
		if t, ok := m.(interface{ TableName() string }); ok {
			names = append(names, t.TableName())
		}
	}
	return append(names, RestaurantCategoryTable)
}
