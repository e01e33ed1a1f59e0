// Package features flattens the event log into the model-ready table,
// applying the retention, missingness, and outlier-injection policy.
package features

import (
	"fmt"

	"github.com/fabworks/plantgen/internal/config"
	"github.com/fabworks/plantgen/internal/dist"
	"github.com/fabworks/plantgen/internal/models"
)

// Complexity weights used by the capacity-stress indicator.
var stressWeights = map[string]float64{
	models.ComplexityLow:  1.0,
	models.ComplexityMed:  1.5,
	models.ComplexityHigh: 2.0,
}

// bottleneckThreshold flags events on work centers running hot enough to be
// treated as bottleneck alerts downstream.
const bottleneckThreshold = 0.85

// outlier multipliers, matching the upstream data glitches the table is
// meant to expose: a 5x run-time spike and a minutes-as-seconds setup entry.
const (
	runOutlierFactor   = 5
	setupOutlierFactor = 60
)

// Stats reports the realized policy outcomes for a build.
type Stats struct {
	SourceRows   int
	KeptRows     int
	MissingCells int
	OutlierCells int
}

// Retention is the realized kept/source row ratio.
func (s Stats) Retention() float64 {
	if s.SourceRows == 0 {
		return 0
	}
	return float64(s.KeptRows) / float64(s.SourceRows)
}

// Build derives one feature row per retained event. The whole draw sequence
// depends only on src and the event order, so rebuilding from the same event
// log with the same seed reproduces the identical row set and mask. Key
// columns are never nullified.
func Build(cfg *config.Config, events []models.OperationEvent, ords []models.ProductionOrder, materials []models.Material, src *dist.Source) ([]models.FeatureRow, Stats, error) {
	orderByID := map[string]models.ProductionOrder{}
	for _, o := range ords {
		orderByID[o.OrderID] = o
	}
	materialByNumber := map[string]models.Material{}
	for _, m := range materials {
		materialByNumber[m.MaterialNumber] = m
	}

	stats := Stats{SourceRows: len(events)}
	rows := make([]models.FeatureRow, 0, len(events))

	for _, e := range events {
		order, ok := orderByID[e.OrderID]
		if !ok {
			return nil, Stats{}, fmt.Errorf("features: %w: event references unknown order %s", models.ErrReferentialIntegrity, e.OrderID)
		}
		material, ok := materialByNumber[e.MaterialNumber]
		if !ok {
			return nil, Stats{}, fmt.Errorf("features: %w: event references unknown material %s", models.ErrReferentialIntegrity, e.MaterialNumber)
		}

		if !src.Bernoulli(cfg.RetentionTarget) {
			continue
		}

		row := derive(e, order, material)

		if src.Bernoulli(cfg.MissingnessRate) {
			row.OperatorID = nil
			stats.MissingCells++
		}
		if src.Bernoulli(cfg.MissingnessRate) {
			row.ActualRunMin = nil
			row.TotalOperationTime = nil
			row.RunEfficiency = nil
			stats.MissingCells++
		}
		if row.ActualRunMin != nil && src.Bernoulli(cfg.OutlierRate) {
			*row.ActualRunMin *= runOutlierFactor
			stats.OutlierCells++
		}
		if src.Bernoulli(cfg.OutlierRate) {
			row.SetupActualMin *= setupOutlierFactor
			stats.OutlierCells++
		}

		rows = append(rows, row)
		stats.KeptRows++
	}

	return rows, stats, nil
}

// derive computes the joined and engineered columns for one event.
func derive(e models.OperationEvent, order models.ProductionOrder, material models.Material) models.FeatureRow {
	hour := e.StartTime.Hour()
	weekday := int(e.StartTime.Weekday())
	shift := classifyShift(hour)

	operator := e.OperatorID
	runActual := e.RunActualMin
	total := e.SetupActualMin + e.RunActualMin

	row := models.FeatureRow{
		OrderID:        e.OrderID,
		OperationSeq:   e.OperationSeq,
		MaterialNumber: e.MaterialNumber,
		WorkCenter:     e.WorkCenter,
		PlantID:        e.PlantID,
		OperatorID:     &operator,

		RecordTime: e.StartTime,
		Hour:       hour,
		Weekday:    weekday,
		Month:      int(e.StartTime.Month()),
		Shift:      shift,

		PlannedQty:      order.PlannedQty,
		SetupPlannedMin: e.SetupPlannedMin,
		RunPlannedMin:   e.RunPlannedMin,
		SetupActualMin:  e.SetupActualMin,
		ActualRunMin:    &runActual,

		TotalOperationTime:  &total,
		DowntimeMin:         e.DowntimeMin,
		CapacityUtilization: e.UtilizationPct,
		CapacityStress:      e.UtilizationPct * stressWeights[material.ProductComplexity],
	}

	if weekday == 0 || weekday == 6 {
		row.IsWeekend = 1
	}
	if e.SetupActualMin > 0 {
		v := e.SetupPlannedMin / e.SetupActualMin
		row.SetupEfficiency = &v
	}
	if e.RunActualMin > 0 {
		v := e.RunPlannedMin / e.RunActualMin
		row.RunEfficiency = &v
	}
	if processed := e.YieldQty + e.ScrapQty; processed > 0 {
		row.ScrapRate = float64(e.ScrapQty) / float64(processed) * 100
	}
	if e.DowntimeMin > 0 {
		row.HasDowntime = 1
	}
	if e.ScrapQty > 0 {
		row.HasScrap = 1
	}
	if e.UtilizationPct > bottleneckThreshold {
		row.IsBottleneck = 1
	}

	switch material.ProductComplexity {
	case models.ComplexityMed:
		row.ComplexityMed = 1
	case models.ComplexityHigh:
		row.ComplexityHigh = 1
	}
	switch shift {
	case models.ShiftEvening:
		row.ShiftIsEvening = 1
	case models.ShiftNight:
		row.ShiftIsNight = 1
	}
	return row
}

func classifyShift(hour int) string {
	switch {
	case hour >= 6 && hour <= 14:
		return models.ShiftDay
	case hour >= 15 && hour <= 22:
		return models.ShiftEvening
	default:
		return models.ShiftNight
	}
}
