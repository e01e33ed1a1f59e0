package models

import "time"

// ProductionOrder is a planned production run of one FG or SFG material.
type ProductionOrder struct {
	OrderID        string `gorm:"primaryKey;size:16"`
	MaterialNumber string `gorm:"size:16;index"`
	PlantID        string `gorm:"size:8;index"`
	PlannedQty     int
	PlannedStart   time.Time
	PlannedEnd     time.Time
}
