package generate

import (
	"fmt"

	"github.com/fabworks/plantgen/internal/models"
)

// Violation describes one failed referential-integrity check.
type Violation struct {
	Table   string
	Key     string
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s[%s]: %s", v.Table, v.Key, v.Message)
}

// ValidateReferentialIntegrity checks every structural invariant across the
// six tables and returns all violations found. An empty result means the
// dataset is fully consistent.
func ValidateReferentialIntegrity(t *Tables) []Violation {
	var out []Violation
	add := func(table, key, format string, args ...interface{}) {
		out = append(out, Violation{Table: table, Key: key, Message: fmt.Sprintf(format, args...)})
	}

	tierOf := map[string]string{}
	for _, m := range t.Materials {
		tierOf[m.MaterialNumber] = m.MaterialType
	}

	// BOM: both ends exist, edges point one tier down, RAW stays childless.
	below := map[string]string{models.TierFG: models.TierSFG, models.TierSFG: models.TierRAW}
	hasChild := map[string]bool{}
	for _, e := range t.BOMs {
		hasChild[e.ParentMaterial] = true
	}
	for _, m := range t.Materials {
		if m.MaterialType != models.TierRAW && !hasChild[m.MaterialNumber] {
			add("materials", m.MaterialNumber, "non-RAW material has no BOM children")
		}
	}
	for _, e := range t.BOMs {
		key := e.ParentMaterial + "→" + e.ComponentMaterial
		pt, ok := tierOf[e.ParentMaterial]
		if !ok {
			add("bom", key, "parent material not in master")
			continue
		}
		ct, ok := tierOf[e.ComponentMaterial]
		if !ok {
			add("bom", key, "component material not in master")
			continue
		}
		if pt == models.TierRAW {
			add("bom", key, "RAW material has children")
		} else if ct != below[pt] {
			add("bom", key, "edge from %s tier to %s tier breaks the hierarchy", pt, ct)
		}
		if e.Quantity < 1 {
			add("bom", key, "quantity %d below 1", e.Quantity)
		}
	}

	// Routing: material exists, sequences contiguous from 1.
	seqs := map[string][]int{}
	routedSteps := map[string]map[int]models.RoutingStep{}
	for _, s := range t.Routings {
		key := fmt.Sprintf("%s/%d", s.MaterialNumber, s.OperationSeq)
		if _, ok := tierOf[s.MaterialNumber]; !ok {
			add("routing", key, "material not in master")
		}
		seqs[s.MaterialNumber] = append(seqs[s.MaterialNumber], s.OperationSeq)
		if routedSteps[s.MaterialNumber] == nil {
			routedSteps[s.MaterialNumber] = map[int]models.RoutingStep{}
		}
		routedSteps[s.MaterialNumber][s.OperationSeq] = s
	}
	for mat, ss := range seqs {
		for i, seq := range ss {
			if seq != i+1 {
				add("routing", mat, "sequence %d at position %d, want contiguous from 1", seq, i)
				break
			}
		}
	}

	// Orders: material exists and is routed.
	orderByID := map[string]models.ProductionOrder{}
	for _, o := range t.Orders {
		orderByID[o.OrderID] = o
		if _, ok := tierOf[o.MaterialNumber]; !ok {
			add("orders", o.OrderID, "material %s not in master", o.MaterialNumber)
			continue
		}
		if len(routedSteps[o.MaterialNumber]) == 0 {
			add("orders", o.OrderID, "material %s has no routing steps", o.MaterialNumber)
		}
	}

	// Events: resolve to order and routing step, one event per pair, times
	// respect routing sequence, quantities conserved.
	seenPair := map[string]bool{}
	lastEnd := map[string]models.OperationEvent{}
	for _, e := range t.Events {
		key := fmt.Sprintf("%s/%d", e.OrderID, e.OperationSeq)
		o, ok := orderByID[e.OrderID]
		if !ok {
			add("events", key, "order not found")
			continue
		}
		if seenPair[key] {
			add("events", key, "duplicate event for order step")
		}
		seenPair[key] = true
		if _, ok := routedSteps[e.MaterialNumber][e.OperationSeq]; !ok {
			add("events", key, "no routing step for material %s seq %d", e.MaterialNumber, e.OperationSeq)
		}
		if e.EndTime.Before(e.StartTime) {
			add("events", key, "end %v before start %v", e.EndTime, e.StartTime)
		}
		if e.ActualMin < 0 || e.DowntimeMin < 0 {
			add("events", key, "negative duration")
		}
		if e.YieldQty+e.ScrapQty > o.PlannedQty {
			add("events", key, "yield %d + scrap %d exceeds order quantity %d", e.YieldQty, e.ScrapQty, o.PlannedQty)
		}
		if p, ok := lastEnd[e.OrderID]; ok {
			if e.OperationSeq <= p.OperationSeq {
				add("events", key, "sequence %d not after previous %d", e.OperationSeq, p.OperationSeq)
			}
			if e.StartTime.Before(p.EndTime) {
				add("events", key, "starts before step %d ends", p.OperationSeq)
			}
		}
		lastEnd[e.OrderID] = e
	}

	// Features: keys complete and resolvable.
	for _, r := range t.Features {
		key := fmt.Sprintf("%s/%d", r.OrderID, r.OperationSeq)
		if r.OrderID == "" || r.MaterialNumber == "" {
			add("features", key, "blank key column")
			continue
		}
		if _, ok := orderByID[r.OrderID]; !ok {
			add("features", key, "order not found")
		}
		if _, ok := tierOf[r.MaterialNumber]; !ok {
			add("features", key, "material %s not in master", r.MaterialNumber)
		}
	}

	return out
}
