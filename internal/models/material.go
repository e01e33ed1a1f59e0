package models

// Material tiers. BOM edges may only point from a tier to the tier below it,
// which makes the hierarchy acyclic by construction.
const (
	TierFG  = "FG"
	TierSFG = "SFG"
	TierRAW = "RAW"
)

// Product complexity buckets.
const (
	ComplexityLow  = "LOW"
	ComplexityMed  = "MED"
	ComplexityHigh = "HIGH"
)

// Material is one row of the material master.
type Material struct {
	MaterialNumber    string `gorm:"primaryKey;size:16"`
	MaterialType      string `gorm:"size:8;index"`
	MaterialName      string `gorm:"size:64"`
	ProductComplexity string `gorm:"size:8"`
	UnitOfMeasure     string `gorm:"size:8"`
	StandardCost      float64
}

// BOMEdge links a parent material to one of its components.
// Level 1 is FG→SFG, level 2 is SFG→RAW.
type BOMEdge struct {
	ID                uint   `gorm:"primaryKey;autoIncrement"`
	ParentMaterial    string `gorm:"size:16;index"`
	ComponentMaterial string `gorm:"size:16;index"`
	Quantity          int
	Level             int
}
