package models

import "time"

// Shift classifications derived from the event start hour.
const (
	ShiftDay     = "DAY"     // 06:00–14:59
	ShiftEvening = "EVENING" // 15:00–22:59
	ShiftNight   = "NIGHT"
)

// FeatureRow is one row of the model-ready table, keyed by
// (OrderID, OperationSeq). Pointer fields are nullable: the missingness
// policy may blank them, while key columns always stay complete.
type FeatureRow struct {
	ID             uint    `gorm:"primaryKey;autoIncrement"`
	OrderID        string  `gorm:"size:16;index:idx_feat_order_seq"`
	OperationSeq   int     `gorm:"index:idx_feat_order_seq"`
	MaterialNumber string  `gorm:"size:16;index"`
	WorkCenter     string  `gorm:"size:8;index"`
	PlantID        string  `gorm:"size:8"`
	OperatorID     *string `gorm:"size:8"`

	RecordTime time.Time
	Hour       int
	Weekday    int
	Month      int
	IsWeekend  int
	Shift      string `gorm:"size:8"`

	PlannedQty      int
	SetupPlannedMin float64
	RunPlannedMin   float64
	SetupActualMin  float64
	ActualRunMin    *float64

	TotalOperationTime  *float64
	SetupEfficiency     *float64
	RunEfficiency       *float64
	ScrapRate           float64
	HasDowntime         int
	HasScrap            int
	DowntimeMin         float64
	CapacityUtilization float64
	IsBottleneck        int
	CapacityStress      float64

	ComplexityMed  int
	ComplexityHigh int
	ShiftIsEvening int
	ShiftIsNight   int
}
