// Package simulate walks every production order through its routing and
// emits the operational event log (NAL).
//
// Work-center capacity is modeled as one next-available timestamp per work
// center, owned by the simulator and mutated sequentially: step k of an
// order starts at max(end of step k-1, work-center next-available). A work
// center therefore never runs two operations at once, which is what drives
// the aggregate utilization figure.
package simulate

import (
	"fmt"
	"sort"
	"time"

	"github.com/fabworks/plantgen/internal/config"
	"github.com/fabworks/plantgen/internal/dist"
	"github.com/fabworks/plantgen/internal/models"
	"github.com/fabworks/plantgen/internal/routing"
)

const (
	// Efficiency factor: centered just above 1.0 with a clamped spread,
	// plus an occasional long-tail degradation.
	effMean     = 1.02
	effSD       = 0.15
	effMin      = 0.6
	effMax      = 1.6
	tailProb    = 0.05
	tailMin     = 1.5
	tailMax     = 3.0

	// Scrap probability per unit, scaled by the work center's quality
	// factor. Centers the global yield near 99.4%.
	baseScrapProb = 0.006

	// Unplanned downtime: small per-step probability, heavy-tailed
	// duration capped at one day.
	downtimeProb  = 0.08
	downtimeMu    = 4.26 // log-space; mean ≈106 min
	downtimeSigma = 0.9
	downtimeCap   = 1440.0

	// Preventive maintenance: fixed 60-minute window.
	maintenanceProb = 0.02
	maintenanceMin  = 60.0
)

// Stats aggregates the run-level figures reported alongside the event log.
type Stats struct {
	EventCount       int
	TotalBusyMin     float64
	TotalDowntimeMin float64
	TotalYieldQty    int
	TotalScrapQty    int
	AvgActualMin     float64
}

// Utilization is total busy time over busy plus downtime, across all work
// centers.
func (s Stats) Utilization() float64 {
	denom := s.TotalBusyMin + s.TotalDowntimeMin
	if denom == 0 {
		return 0
	}
	return s.TotalBusyMin / denom
}

// Yield is total good output over total processed quantity.
func (s Stats) Yield() float64 {
	denom := float64(s.TotalYieldQty + s.TotalScrapQty)
	if denom == 0 {
		return 0
	}
	return float64(s.TotalYieldQty) / denom
}

// workCenterState is the single owned copy of a work center's simulated
// availability and accumulated load.
type workCenterState struct {
	nextFree      time.Time
	busyMin       float64
	downMin       float64
	qualityFactor float64
}

// Run simulates every order in ascending OrderID order and returns the full
// event log. It fails before emitting anything if an order's material has no
// routing steps or a standard time is outside its legal domain.
func Run(cfg *config.Config, steps []models.RoutingStep, ords []models.ProductionOrder, src *dist.Source) ([]models.OperationEvent, Stats, error) {
	for _, s := range steps {
		if s.SetupTimeMin <= 0 || s.RunTimeMin <= 0 {
			return nil, Stats{}, fmt.Errorf("simulate: %w: material %s seq %d has non-positive standard time", models.ErrDistribution, s.MaterialNumber, s.OperationSeq)
		}
	}

	byMat := routing.ByMaterial(steps)
	for _, o := range ords {
		if len(byMat[o.MaterialNumber]) == 0 {
			return nil, Stats{}, fmt.Errorf("simulate: %w: order %s references material %s with no routing steps", models.ErrReferentialIntegrity, o.OrderID, o.MaterialNumber)
		}
	}

	sorted := make([]models.ProductionOrder, len(ords))
	copy(sorted, ords)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].OrderID != sorted[j].OrderID {
			return sorted[i].OrderID < sorted[j].OrderID
		}
		return sorted[i].PlannedStart.Before(sorted[j].PlannedStart)
	})

	centers := map[string]*workCenterState{}
	for _, wc := range routing.WorkCenterIDs(cfg.WorkCenterCount) {
		centers[wc] = &workCenterState{
			qualityFactor: 0.5 + src.Float64(),
		}
	}

	var events []models.OperationEvent
	var stats Stats
	totalActual := 0.0

	for _, o := range sorted {
		prevEnd := o.PlannedStart
		for _, step := range byMat[o.MaterialNumber] {
			wc, ok := centers[step.WorkCenter]
			if !ok {
				return nil, Stats{}, fmt.Errorf("simulate: %w: routing step references unknown work center %s", models.ErrReferentialIntegrity, step.WorkCenter)
			}

			start := prevEnd
			if wc.nextFree.After(start) {
				start = wc.nextFree
			}

			eff := src.ClampedNormal(effMean, effSD, effMin, effMax)
			if src.Bernoulli(tailProb) {
				eff *= tailMin + src.Float64()*(tailMax-tailMin)
			}
			setupActual := step.SetupTimeMin * eff
			runActual := step.RunTimeMin * eff
			actual := setupActual + runActual
			if actual <= 0 {
				return nil, Stats{}, fmt.Errorf("simulate: %w: order %s seq %d produced duration %v", models.ErrDistribution, o.OrderID, step.OperationSeq, actual)
			}

			scrapProb := baseScrapProb * wc.qualityFactor
			scrap := src.Binomial(o.PlannedQty, scrapProb)
			yield := o.PlannedQty - scrap

			downtime := 0.0
			reason := ""
			if src.Bernoulli(maintenanceProb) {
				downtime = maintenanceMin
				reason = models.DowntimeReasonPlanned
			} else if src.Bernoulli(downtimeProb) {
				downtime = src.LogNormal(downtimeMu, downtimeSigma)
				if downtime > downtimeCap {
					downtime = downtimeCap
				}
				reason = src.Choice(models.DowntimeReasons)
			}

			end := start.Add(time.Duration(actual * float64(time.Minute)))
			wc.nextFree = end.Add(time.Duration(downtime * float64(time.Minute)))
			wc.busyMin += actual
			wc.downMin += downtime

			utilization := 1.0
			if wc.busyMin+wc.downMin > 0 {
				utilization = wc.busyMin / (wc.busyMin + wc.downMin)
			}

			events = append(events, models.OperationEvent{
				OrderID:         o.OrderID,
				OperationSeq:    step.OperationSeq,
				MaterialNumber:  o.MaterialNumber,
				WorkCenter:      step.WorkCenter,
				MachineClass:    step.MachineClass,
				PlantID:         o.PlantID,
				OperatorID:      fmt.Sprintf("OP%03d", src.IntBetween(1, cfg.OperatorCount)),
				StartTime:       start,
				EndTime:         end,
				SetupPlannedMin: step.SetupTimeMin,
				RunPlannedMin:   step.RunTimeMin,
				SetupActualMin:  setupActual,
				RunActualMin:    runActual,
				ActualMin:       actual,
				YieldQty:        yield,
				ScrapQty:        scrap,
				DowntimeMin:     downtime,
				DowntimeReason:  reason,
				UtilizationPct:  utilization,
			})

			stats.TotalYieldQty += yield
			stats.TotalScrapQty += scrap
			totalActual += actual
			prevEnd = end
		}
	}

	// Accumulate in work-center ID order; float addition is not associative,
	// so map iteration order would leak into the totals.
	for _, id := range routing.WorkCenterIDs(cfg.WorkCenterCount) {
		stats.TotalBusyMin += centers[id].busyMin
		stats.TotalDowntimeMin += centers[id].downMin
	}
	stats.EventCount = len(events)
	if len(events) > 0 {
		stats.AvgActualMin = totalActual / float64(len(events))
	}
	return events, stats, nil
}
