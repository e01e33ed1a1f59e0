// Package generate orchestrates the full dataset pipeline: hierarchy →
// routing → orders → events → features. Each stage consumes the previous
// stage's completed output and is validated at the boundary; no partial
// tables are ever returned.
package generate

import (
	"fmt"
	"math"

	"github.com/fabworks/plantgen/internal/config"
	"github.com/fabworks/plantgen/internal/dist"
	"github.com/fabworks/plantgen/internal/features"
	"github.com/fabworks/plantgen/internal/hierarchy"
	"github.com/fabworks/plantgen/internal/models"
	"github.com/fabworks/plantgen/internal/orders"
	"github.com/fabworks/plantgen/internal/routing"
	"github.com/fabworks/plantgen/internal/simulate"
)

// Stage seed offsets. Every stage gets its own source derived from the base
// seed, so a stage can be re-run in isolation and still reproduce its draws.
const (
	seedHierarchy = 0
	seedRouting   = 1
	seedOrders    = 2
	seedSimulate  = 3
	seedFeatures  = 4
)

// retentionTolerance bounds how far the realized feature retention may drift
// from the configured target before the run is rejected. Only enforced for
// runs large enough for the ratio to have converged.
const (
	retentionTolerance = 0.02
	retentionMinEvents = 500
)

// Tables holds the six generated artifacts of one run.
type Tables struct {
	Materials []models.Material
	BOMs      []models.BOMEdge
	Routings  []models.RoutingStep
	Orders    []models.ProductionOrder
	Events    []models.OperationEvent
	Features  []models.FeatureRow
	Summary   Summary
}

// Summary reports the aggregate figures of a completed run.
type Summary struct {
	Utilization      float64
	Yield            float64
	TotalDowntimeMin float64
	AvgActualMin     float64
	Retention        float64
}

// Generate runs the whole pipeline for cfg. The result is deterministic:
// the same configuration and seed produce identical tables.
func Generate(cfg *config.Config) (*Tables, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.RandomSeed

	materials, boms, err := hierarchy.Build(cfg, dist.New(seed+seedHierarchy))
	if err != nil {
		return nil, err
	}
	routings, err := routing.Build(cfg, materials, dist.New(seed+seedRouting))
	if err != nil {
		return nil, err
	}
	ords, err := orders.Build(cfg, materials, routings, dist.New(seed+seedOrders))
	if err != nil {
		return nil, err
	}
	events, simStats, err := simulate.Run(cfg, routings, ords, dist.New(seed+seedSimulate))
	if err != nil {
		return nil, err
	}
	featureRows, featStats, err := features.Build(cfg, events, ords, materials, dist.New(seed+seedFeatures))
	if err != nil {
		return nil, err
	}

	if featStats.SourceRows >= retentionMinEvents {
		if drift := math.Abs(featStats.Retention() - cfg.RetentionTarget); drift > retentionTolerance {
			return nil, fmt.Errorf("generate: %w: realized retention %.4f drifted %.4f from target %.4f",
				models.ErrDistribution, featStats.Retention(), drift, cfg.RetentionTarget)
		}
	}

	tables := &Tables{
		Materials: materials,
		BOMs:      boms,
		Routings:  routings,
		Orders:    ords,
		Events:    events,
		Features:  featureRows,
		Summary: Summary{
			Utilization:      simStats.Utilization(),
			Yield:            simStats.Yield(),
			TotalDowntimeMin: simStats.TotalDowntimeMin,
			AvgActualMin:     simStats.AvgActualMin,
			Retention:        featStats.Retention(),
		},
	}

	if violations := ValidateReferentialIntegrity(tables); len(violations) > 0 {
		return nil, fmt.Errorf("generate: %w: %d violations, first: %s",
			models.ErrReferentialIntegrity, len(violations), violations[0])
	}
	return tables, nil
}
