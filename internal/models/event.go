package models

import "time"

// Downtime reason codes for unplanned stops.
var DowntimeReasons = []string{"MECH", "ELEC", "QC", "MATL"}

// DowntimeReasonPlanned marks preventive maintenance windows. It is injected
// by the maintenance model, not drawn from the unplanned reason pool.
const DowntimeReasonPlanned = "PLANNED"

// OperationEvent is one recorded execution of a routing step for one
// production order (a NAL record). Exactly one event exists per executed
// (order, operation) pair.
type OperationEvent struct {
	ID              uint      `gorm:"primaryKey;autoIncrement"`
	OrderID         string    `gorm:"size:16;index:idx_order_seq"`
	OperationSeq    int       `gorm:"index:idx_order_seq"`
	MaterialNumber  string    `gorm:"size:16;index"`
	WorkCenter      string    `gorm:"size:8;index"`
	MachineClass    string    `gorm:"size:8"`
	PlantID         string    `gorm:"size:8"`
	OperatorID      string    `gorm:"size:8"`
	StartTime       time.Time `gorm:"index"`
	EndTime         time.Time
	SetupPlannedMin float64
	RunPlannedMin   float64
	SetupActualMin  float64
	RunActualMin    float64
	ActualMin       float64
	YieldQty        int
	ScrapQty        int
	DowntimeMin     float64
	DowntimeReason  string `gorm:"size:8"`
	// UtilizationPct is the event work center's cumulative busy ratio at
	// the moment the event was recorded.
	UtilizationPct float64
}
