// Package orders generates production orders against the frozen material
// master and routing set.
package orders

import (
	"fmt"
	"math"
	"time"

	"github.com/fabworks/plantgen/internal/config"
	"github.com/fabworks/plantgen/internal/dist"
	"github.com/fabworks/plantgen/internal/models"
	"github.com/fabworks/plantgen/internal/routing"
)

// HorizonStart anchors the generation time window.
var HorizonStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// PlantIDs returns the fixed plant pool PLT1..PLTn.
func PlantIDs(n int) []string {
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = fmt.Sprintf("PLT%d", i+1)
	}
	return ids
}

// Build generates cfg.OrderCount production orders over the FG and SFG
// materials. Demand is skewed by a power-law weight over the orderable
// materials, so a small subset collects most of the orders. Every chosen
// material must already carry routing steps; a gap is a referential
// integrity failure, not a skip.
func Build(cfg *config.Config, materials []models.Material, steps []models.RoutingStep, src *dist.Source) ([]models.ProductionOrder, error) {
	var orderable []models.Material
	for _, m := range materials {
		if m.MaterialType == models.TierFG || m.MaterialType == models.TierSFG {
			orderable = append(orderable, m)
		}
	}
	if len(orderable) == 0 {
		return nil, fmt.Errorf("orders: %w: no orderable materials", models.ErrReferentialIntegrity)
	}

	byMat := routing.ByMaterial(steps)
	weights := make([]float64, len(orderable))
	for i := range weights {
		weights[i] = math.Pow(float64(i+1), -1.1)
	}

	plants := PlantIDs(cfg.PlantCount)
	out := make([]models.ProductionOrder, 0, cfg.OrderCount)
	for i := 0; i < cfg.OrderCount; i++ {
		m := orderable[src.WeightedChoice(weights)]
		ops := byMat[m.MaterialNumber]
		if len(ops) == 0 {
			return nil, fmt.Errorf("orders: %w: material %s has no routing steps", models.ErrReferentialIntegrity, m.MaterialNumber)
		}

		start := HorizonStart.Add(time.Duration(src.IntBetween(0, cfg.TimeHorizonDays-1))*24*time.Hour +
			time.Duration(src.IntBetween(0, 23))*time.Hour +
			time.Duration(src.IntBetween(0, 59))*time.Minute)

		stdMinutes := 0.0
		for _, op := range ops {
			stdMinutes += op.SetupTimeMin + op.RunTimeMin
		}

		out = append(out, models.ProductionOrder{
			OrderID:        fmt.Sprintf("PO%06d", 100000+i),
			MaterialNumber: m.MaterialNumber,
			PlantID:        plants[i%len(plants)],
			PlannedQty:     src.IntBetween(10, 199),
			PlannedStart:   start,
			PlannedEnd:     start.Add(time.Duration(stdMinutes) * time.Minute),
		})
	}
	return out, nil
}
