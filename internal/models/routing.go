package models

// Machine class archetypes. Each work center is assigned one archetype,
// which parameterizes its standard run-time distribution.
var MachineClasses = []string{"CNC", "PRESS", "MILL", "ROBOT", "GRIND"}

// RoutingStep is one operation in a material's routing. OperationSeq is
// contiguous per material starting at 1.
type RoutingStep struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"`
	MaterialNumber string `gorm:"size:16;index:idx_material_seq"`
	OperationSeq   int    `gorm:"index:idx_material_seq"`
	WorkCenter     string `gorm:"size:8;index"`
	MachineClass   string `gorm:"size:8"`
	SetupTimeMin   float64
	RunTimeMin     float64
}
