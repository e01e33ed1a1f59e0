// Package routing assigns every material an ordered sequence of work-center
// operations with standard times.
package routing

import (
	"fmt"

	"github.com/fabworks/plantgen/internal/config"
	"github.com/fabworks/plantgen/internal/dist"
	"github.com/fabworks/plantgen/internal/models"
)

// Standard run-time means per machine class archetype, in minutes. Setup is
// drawn from the same distribution for every class.
var runTimeMeans = map[string]float64{
	"CNC":   330,
	"PRESS": 280,
	"MILL":  340,
	"ROBOT": 320,
	"GRIND": 390,
}

// WorkCenterIDs returns the fixed work-center pool WC01..WCnn.
func WorkCenterIDs(n int) []string {
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = fmt.Sprintf("WC%02d", i+1)
	}
	return ids
}

// Archetypes assigns each work center a machine class, cycling through the
// class list so every class is represented.
func Archetypes(workCenters []string) map[string]string {
	classes := map[string]string{}
	for i, wc := range workCenters {
		classes[wc] = models.MachineClasses[i%len(models.MachineClasses)]
	}
	return classes
}

// Build generates 1–3 routing steps for every material. Work-center choice
// is skewed toward the high-index centers, so the last few accumulate the
// bulk of the operations.
func Build(cfg *config.Config, materials []models.Material, src *dist.Source) ([]models.RoutingStep, error) {
	if len(materials) == 0 {
		return nil, fmt.Errorf("routing: %w: no materials to route", models.ErrReferentialIntegrity)
	}

	workCenters := WorkCenterIDs(cfg.WorkCenterCount)
	classes := Archetypes(workCenters)

	weights := make([]float64, len(workCenters))
	for i := range weights {
		weights[i] = 1 + 0.08*float64(i)
	}

	var steps []models.RoutingStep
	for _, m := range materials {
		nOps := src.IntBetween(1, 3)
		for seq := 1; seq <= nOps; seq++ {
			wc := workCenters[src.WeightedChoice(weights)]
			class := classes[wc]
			steps = append(steps, models.RoutingStep{
				MaterialNumber: m.MaterialNumber,
				OperationSeq:   seq,
				WorkCenter:     wc,
				MachineClass:   class,
				SetupTimeMin:   src.ClampedNormal(30, 10, 5, 120),
				RunTimeMin:     src.ClampedNormal(runTimeMeans[class], 60, 30, 600),
			})
		}
	}
	return steps, nil
}

// ByMaterial indexes routing steps by material number, preserving sequence
// order within each material.
func ByMaterial(steps []models.RoutingStep) map[string][]models.RoutingStep {
	byMat := map[string][]models.RoutingStep{}
	for _, s := range steps {
		byMat[s.MaterialNumber] = append(byMat[s.MaterialNumber], s)
	}
	return byMat
}
