package dashboard

import (
	"github.com/fabworks/plantgen/internal/models"
	"gorm.io/gorm"
)

// bottleneckThreshold flags work centers running hot enough to surface as
// capacity alerts.
const bottleneckThreshold = 0.85

// RunSummary aggregates the whole persisted run.
type RunSummary struct {
	MaterialRows     int64   `json:"material_rows"`
	BOMRows          int64   `json:"bom_rows"`
	RoutingRows      int64   `json:"routing_rows"`
	OrderRows        int64   `json:"order_rows"`
	EventRows        int64   `json:"event_rows"`
	FeatureRows      int64   `json:"feature_rows"`
	Utilization      float64 `json:"utilization"`
	Yield            float64 `json:"yield"`
	TotalDowntimeMin float64 `json:"total_downtime_min"`
	AvgActualMin     float64 `json:"avg_actual_min"`
	Retention        float64 `json:"retention"`
}

// Summary computes run-level aggregates from the persisted tables.
func Summary(db *gorm.DB) (*RunSummary, error) {
	var s RunSummary
	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.Material{}, &s.MaterialRows},
		{&models.BOMEdge{}, &s.BOMRows},
		{&models.RoutingStep{}, &s.RoutingRows},
		{&models.ProductionOrder{}, &s.OrderRows},
		{&models.OperationEvent{}, &s.EventRows},
		{&models.FeatureRow{}, &s.FeatureRows},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	type totals struct {
		Busy  float64
		Down  float64
		Yield float64
		Scrap float64
		Avg   float64
	}
	var tot totals
	err := db.Model(&models.OperationEvent{}).
		Select("SUM(actual_min) as busy, SUM(downtime_min) as down, SUM(yield_qty) as yield, SUM(scrap_qty) as scrap, AVG(actual_min) as avg").
		Find(&tot).Error
	if err != nil {
		return nil, err
	}
	if tot.Busy+tot.Down > 0 {
		s.Utilization = tot.Busy / (tot.Busy + tot.Down)
	}
	if tot.Yield+tot.Scrap > 0 {
		s.Yield = tot.Yield / (tot.Yield + tot.Scrap)
	}
	s.TotalDowntimeMin = tot.Down
	s.AvgActualMin = tot.Avg
	if s.EventRows > 0 {
		s.Retention = float64(s.FeatureRows) / float64(s.EventRows)
	}
	return &s, nil
}

// WorkCenterRow holds per-work-center load and quality figures.
type WorkCenterRow struct {
	WorkCenter   string  `json:"work_center"`
	MachineClass string  `json:"machine_class"`
	EventCount   int64   `json:"event_count"`
	BusyMin      float64 `json:"busy_min"`
	DowntimeMin  float64 `json:"downtime_min"`
	Utilization  float64 `json:"utilization"`
	Yield        float64 `json:"yield"`
	IsBottleneck bool    `json:"is_bottleneck"`
}

// WorkCenterSummary returns load, utilization, and yield per work center,
// busiest first.
func WorkCenterSummary(db *gorm.DB) ([]WorkCenterRow, error) {
	type row struct {
		WorkCenter   string
		MachineClass string
		EventCount   int64
		BusyMin      float64
		DowntimeMin  float64
		YieldQty     float64
		ScrapQty     float64
	}
	var rows []row
	err := db.Model(&models.OperationEvent{}).
		Select("work_center, machine_class, COUNT(*) as event_count, SUM(actual_min) as busy_min, SUM(downtime_min) as downtime_min, SUM(yield_qty) as yield_qty, SUM(scrap_qty) as scrap_qty").
		Group("work_center, machine_class").
		Order("busy_min DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]WorkCenterRow, len(rows))
	for i, r := range rows {
		wc := WorkCenterRow{
			WorkCenter:   r.WorkCenter,
			MachineClass: r.MachineClass,
			EventCount:   r.EventCount,
			BusyMin:      r.BusyMin,
			DowntimeMin:  r.DowntimeMin,
		}
		if r.BusyMin+r.DowntimeMin > 0 {
			wc.Utilization = r.BusyMin / (r.BusyMin + r.DowntimeMin)
		}
		if r.YieldQty+r.ScrapQty > 0 {
			wc.Yield = r.YieldQty / (r.YieldQty + r.ScrapQty)
		}
		wc.IsBottleneck = wc.Utilization > bottleneckThreshold
		out[i] = wc
	}
	return out, nil
}

// TopMaterialRow holds demand figures for one material.
type TopMaterialRow struct {
	MaterialNumber string `json:"material_number"`
	MaterialName   string `json:"material_name"`
	OrderCount     int64  `json:"order_count"`
	TotalUnits     int64  `json:"total_units"`
}

// TopMaterials returns the most-ordered materials by order count.
func TopMaterials(db *gorm.DB, limit int) ([]TopMaterialRow, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []TopMaterialRow
	err := db.Model(&models.ProductionOrder{}).
		Select("production_orders.material_number, materials.material_name, COUNT(*) as order_count, SUM(production_orders.planned_qty) as total_units").
		Joins("JOIN materials ON materials.material_number = production_orders.material_number").
		Group("production_orders.material_number, materials.material_name").
		Order("order_count DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DowntimeRow holds accumulated downtime for one reason code.
type DowntimeRow struct {
	Reason   string  `json:"reason"`
	Events   int64   `json:"events"`
	TotalMin float64 `json:"total_min"`
}

// DowntimeByReason returns downtime grouped by reason code, largest first.
func DowntimeByReason(db *gorm.DB) ([]DowntimeRow, error) {
	var rows []DowntimeRow
	err := db.Model(&models.OperationEvent{}).
		Select("downtime_reason as reason, COUNT(*) as events, SUM(downtime_min) as total_min").
		Where("downtime_min > 0").
		Group("downtime_reason").
		Order("total_min DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
