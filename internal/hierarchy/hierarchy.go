// Package hierarchy builds the material master and BOM for a generation run.
//
// Materials form three tiers (FG → SFG → RAW) and BOM edges only ever point
// from a tier to the tier strictly below it, so the hierarchy is acyclic by
// construction. The builder walks an explicit stack with a depth bound
// instead of recursing.
package hierarchy

import (
	"fmt"

	"github.com/fabworks/plantgen/internal/config"
	"github.com/fabworks/plantgen/internal/dist"
	"github.com/fabworks/plantgen/internal/models"
)

// maxDepth bounds the BOM tree: FG (1) → SFG (2) → RAW (3).
const maxDepth = 3

var partNames = []string{
	"Engine Block", "Crankshaft", "Camshaft", "Gearbox", "Drive Shaft", "Differential",
	"Turbocharger", "Radiator", "Oil Pump", "Water Pump", "Fuel Injector", "Clutch Plate",
	"Brake Disc", "Caliper", "Sway Bar", "Control Arm", "Steering Knuckle", "Shock Absorber",
	"Exhaust Manifold", "Catalytic Converter", "ECU", "Instrument Cluster", "Airbag Module",
	"Timing Belt", "Fan", "Sensor", "Bracket", "Bearing", "Seal",
}

var brandNames = []string{
	"Bosch", "Delphi", "Denso", "Valeo", "Magneti Marelli", "ACDelco", "TRW", "Continental",
	"OEM", "Genuine", "Aftermarket", "Remanufactured", "Performance", "HD", "Sport",
}

var rawUnits = []string{"EA", "KG", "L", "M"}

// Build generates the material master and BOM edges.
func Build(cfg *config.Config, src *dist.Source) ([]models.Material, []models.BOMEdge, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	fgCount, sfgCount, rawCount := cfg.TierCounts()
	materials := make([]models.Material, 0, cfg.MaterialCount)

	for i := 0; i < fgCount; i++ {
		materials = append(materials, models.Material{
			MaterialNumber:    fmt.Sprintf("FG%04d", i+1),
			MaterialType:      models.TierFG,
			MaterialName:      partName(src),
			ProductComplexity: pickComplexity(src, 0.4, 0.4),
			UnitOfMeasure:     "EA",
			StandardCost:      src.ClampedNormal(250, 80, 40, 600),
		})
	}
	for i := 0; i < sfgCount; i++ {
		materials = append(materials, models.Material{
			MaterialNumber:    fmt.Sprintf("SFG%04d", i+1),
			MaterialType:      models.TierSFG,
			MaterialName:      partName(src),
			ProductComplexity: pickComplexity(src, 0.6, 0.3),
			UnitOfMeasure:     "EA",
			StandardCost:      src.ClampedNormal(60, 20, 10, 150),
		})
	}
	for i := 0; i < rawCount; i++ {
		materials = append(materials, models.Material{
			MaterialNumber:    fmt.Sprintf("RAW%04d", i+1),
			MaterialType:      models.TierRAW,
			MaterialName:      partName(src),
			ProductComplexity: models.ComplexityLow,
			UnitOfMeasure:     src.Choice(rawUnits),
			StandardCost:      src.ClampedNormal(8, 3, 0.5, 25),
		})
	}

	boms := buildBOM(materials, src)
	return materials, boms, nil
}

type workItem struct {
	material models.Material
	depth    int
}

// buildBOM attaches children to every FG and SFG node. The worklist starts
// with the finished goods; semi-finished goods never reached from an FG are
// queued afterwards so the "every non-RAW material has a child" invariant
// holds for the whole master.
func buildBOM(materials []models.Material, src *dist.Source) []models.BOMEdge {
	byTier := map[string][]string{}
	for _, m := range materials {
		byTier[m.MaterialType] = append(byTier[m.MaterialType], m.MaterialNumber)
	}
	byNumber := map[string]models.Material{}
	for _, m := range materials {
		byNumber[m.MaterialNumber] = m
	}

	var stack []workItem
	for i := len(materials) - 1; i >= 0; i-- {
		if materials[i].MaterialType == models.TierFG {
			stack = append(stack, workItem{material: materials[i], depth: 1})
		}
	}

	var edges []models.BOMEdge
	expanded := map[string]bool{}

	pop := func() (workItem, bool) {
		if len(stack) == 0 {
			return workItem{}, false
		}
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return item, true
	}

	for {
		item, ok := pop()
		if !ok {
			// Expand any SFG not reachable from an FG.
			for _, m := range materials {
				if m.MaterialType == models.TierSFG && !expanded[m.MaterialNumber] {
					stack = append(stack, workItem{material: m, depth: 2})
				}
			}
			if len(stack) == 0 {
				break
			}
			continue
		}
		if expanded[item.material.MaterialNumber] || item.depth >= maxDepth {
			continue
		}
		expanded[item.material.MaterialNumber] = true

		childTier := models.TierSFG
		if item.material.MaterialType == models.TierSFG {
			childTier = models.TierRAW
		}
		children := src.Sample(byTier[childTier], childCount(item.material, src))
		for _, child := range children {
			qty := src.IntBetween(1, 3)
			if childTier == models.TierRAW {
				qty = src.IntBetween(1, 9)
			}
			edges = append(edges, models.BOMEdge{
				ParentMaterial:    item.material.MaterialNumber,
				ComponentMaterial: child,
				Quantity:          qty,
				Level:             item.depth,
			})
			if childTier != models.TierRAW && !expanded[child] {
				stack = append(stack, workItem{material: byNumber[child], depth: item.depth + 1})
			}
		}
	}

	return edges
}

// childCount picks how many components a node consumes. FG fan-out scales
// with product complexity up to the 7-component maximum; SFG nodes always
// consume 3–7 raw materials.
func childCount(m models.Material, src *dist.Source) int {
	if m.MaterialType == models.TierSFG {
		return src.IntBetween(3, 7)
	}
	switch m.ProductComplexity {
	case models.ComplexityHigh:
		return src.IntBetween(4, 7)
	case models.ComplexityMed:
		return src.IntBetween(2, 5)
	default:
		return src.IntBetween(1, 3)
	}
}

func pickComplexity(src *dist.Source, pLow, pMed float64) string {
	r := src.Float64()
	switch {
	case r < pLow:
		return models.ComplexityLow
	case r < pLow+pMed:
		return models.ComplexityMed
	default:
		return models.ComplexityHigh
	}
}

func partName(src *dist.Source) string {
	return src.Choice(brandNames) + " " + src.Choice(partNames)
}

// ResolveToRaw flattens all RAW components under an FG or SFG material into
// cumulative quantities, traversing the BOM breadth-first.
func ResolveToRaw(edges []models.BOMEdge, materialNumber string) map[string]int {
	children := map[string][]models.BOMEdge{}
	for _, e := range edges {
		children[e.ParentMaterial] = append(children[e.ParentMaterial], e)
	}

	resolved := map[string]int{}
	type frame struct {
		number string
		qty    int
	}
	queue := []frame{{number: materialNumber, qty: 1}}
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		for _, e := range children[f.number] {
			total := e.Quantity * f.qty
			if len(children[e.ComponentMaterial]) == 0 {
				resolved[e.ComponentMaterial] += total
			} else {
				queue = append(queue, frame{number: e.ComponentMaterial, qty: total})
			}
		}
	}
	return resolved
}
