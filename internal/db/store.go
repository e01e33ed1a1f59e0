package db

import (
	"fmt"

	"github.com/fabworks/plantgen/internal/generate"
	"github.com/fabworks/plantgen/internal/models"
	"gorm.io/gorm"
)

// insertBatch bounds the rows per INSERT so large event logs stay inside
// SQLite's bind-variable limit.
const insertBatch = 500

// AllModels returns the GORM models for the six generated tables.
func AllModels() []interface{} {
	return []interface{}{
		&models.Material{},
		&models.BOMEdge{},
		&models.RoutingStep{},
		&models.ProductionOrder{},
		&models.OperationEvent{},
		&models.FeatureRow{},
	}
}

// AutoMigrate creates or updates all six tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// SaveTables writes a complete generation result in one transaction. Any
// prior contents of the six tables are replaced.
func SaveTables(db *gorm.DB, tables *generate.Tables) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, model := range AllModels() {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("db: clear %T: %w", model, err)
			}
		}
		if err := tx.CreateInBatches(tables.Materials, insertBatch).Error; err != nil {
			return fmt.Errorf("db: insert materials: %w", err)
		}
		if err := tx.CreateInBatches(tables.BOMs, insertBatch).Error; err != nil {
			return fmt.Errorf("db: insert bom edges: %w", err)
		}
		if err := tx.CreateInBatches(tables.Routings, insertBatch).Error; err != nil {
			return fmt.Errorf("db: insert routing steps: %w", err)
		}
		if err := tx.CreateInBatches(tables.Orders, insertBatch).Error; err != nil {
			return fmt.Errorf("db: insert orders: %w", err)
		}
		if err := tx.CreateInBatches(tables.Events, insertBatch).Error; err != nil {
			return fmt.Errorf("db: insert events: %w", err)
		}
		if err := tx.CreateInBatches(tables.Features, insertBatch).Error; err != nil {
			return fmt.Errorf("db: insert feature rows: %w", err)
		}
		return nil
	})
}

// LoadTables reads the six tables back, preserving insertion order so the
// per-order event sequencing can be re-validated.
func LoadTables(db *gorm.DB) (*generate.Tables, error) {
	tables := &generate.Tables{}
	if err := db.Order("material_number").Find(&tables.Materials).Error; err != nil {
		return nil, fmt.Errorf("db: load materials: %w", err)
	}
	if err := db.Order("id").Find(&tables.BOMs).Error; err != nil {
		return nil, fmt.Errorf("db: load bom edges: %w", err)
	}
	if err := db.Order("id").Find(&tables.Routings).Error; err != nil {
		return nil, fmt.Errorf("db: load routing steps: %w", err)
	}
	if err := db.Order("order_id").Find(&tables.Orders).Error; err != nil {
		return nil, fmt.Errorf("db: load orders: %w", err)
	}
	if err := db.Order("id").Find(&tables.Events).Error; err != nil {
		return nil, fmt.Errorf("db: load events: %w", err)
	}
	if err := db.Order("id").Find(&tables.Features).Error; err != nil {
		return nil, fmt.Errorf("db: load feature rows: %w", err)
	}
	return tables, nil
}
