package orders

import (
	"errors"
	"strings"
	"testing"

	"github.com/fabworks/plantgen/internal/config"
	"github.com/fabworks/plantgen/internal/dist"
	"github.com/fabworks/plantgen/internal/hierarchy"
	"github.com/fabworks/plantgen/internal/models"
	"github.com/fabworks/plantgen/internal/routing"
)

func buildAll(t *testing.T, cfg *config.Config, seed int64) ([]models.Material, []models.RoutingStep, []models.ProductionOrder) {
	t.Helper()
	materials, _, err := hierarchy.Build(cfg, dist.New(seed))
	if err != nil {
		t.Fatalf("hierarchy.Build: %v", err)
	}
	steps, err := routing.Build(cfg, materials, dist.New(seed+1))
	if err != nil {
		t.Fatalf("routing.Build: %v", err)
	}
	ords, err := Build(cfg, materials, steps, dist.New(seed+2))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return materials, steps, ords
}

func TestPlantIDs(t *testing.T) {
	ids := PlantIDs(3)
	want := []string{"PLT1", "PLT2", "PLT3"}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("PlantIDs[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestBuild_Count(t *testing.T) {
	cfg := config.Default()
	cfg.OrderCount = 500
	_, _, ords := buildAll(t, cfg, 42)
	if len(ords) != 500 {
		t.Fatalf("order count = %d, want 500", len(ords))
	}
}

func TestBuild_ReferencesValid(t *testing.T) {
	cfg := config.Default()
	cfg.OrderCount = 1000
	materials, steps, ords := buildAll(t, cfg, 42)

	orderable := map[string]bool{}
	for _, m := range materials {
		if m.MaterialType != models.TierRAW {
			orderable[m.MaterialNumber] = true
		}
	}
	routed := map[string]bool{}
	for _, s := range steps {
		routed[s.MaterialNumber] = true
	}
	for _, o := range ords {
		if !orderable[o.MaterialNumber] {
			t.Fatalf("%s references non-orderable material %s", o.OrderID, o.MaterialNumber)
		}
		if !routed[o.MaterialNumber] {
			t.Fatalf("%s references unrouted material %s", o.OrderID, o.MaterialNumber)
		}
	}
}

func TestBuild_PlantsEven(t *testing.T) {
	cfg := config.Default()
	cfg.OrderCount = 900
	_, _, ords := buildAll(t, cfg, 42)

	counts := map[string]int{}
	for _, o := range ords {
		counts[o.PlantID]++
	}
	if len(counts) != 3 {
		t.Fatalf("plants used = %d, want 3", len(counts))
	}
	for plant, n := range counts {
		if n != 300 {
			t.Errorf("%s has %d orders, want 300", plant, n)
		}
	}
}

func TestBuild_QuantityAndWindow(t *testing.T) {
	cfg := config.Default()
	cfg.OrderCount = 500
	_, _, ords := buildAll(t, cfg, 42)

	horizonEnd := HorizonStart.AddDate(0, 0, cfg.TimeHorizonDays)
	for _, o := range ords {
		if o.PlannedQty < 10 || o.PlannedQty > 199 {
			t.Fatalf("%s qty = %d, out of [10, 199]", o.OrderID, o.PlannedQty)
		}
		if o.PlannedStart.Before(HorizonStart) || !o.PlannedStart.Before(horizonEnd) {
			t.Fatalf("%s start %v outside horizon", o.OrderID, o.PlannedStart)
		}
		if !o.PlannedEnd.After(o.PlannedStart) {
			t.Fatalf("%s planned end %v not after start %v", o.OrderID, o.PlannedEnd, o.PlannedStart)
		}
	}
}

func TestBuild_OrderIDsSequential(t *testing.T) {
	cfg := config.Default()
	cfg.OrderCount = 10
	_, _, ords := buildAll(t, cfg, 42)

	if ords[0].OrderID != "PO100000" {
		t.Errorf("first order ID = %q, want PO100000", ords[0].OrderID)
	}
	if ords[9].OrderID != "PO100009" {
		t.Errorf("last order ID = %q, want PO100009", ords[9].OrderID)
	}
	for _, o := range ords {
		if !strings.HasPrefix(o.OrderID, "PO") {
			t.Fatalf("order ID %q missing PO prefix", o.OrderID)
		}
	}
}

func TestBuild_DemandSkew(t *testing.T) {
	cfg := config.Default()
	cfg.OrderCount = 5000
	_, _, ords := buildAll(t, cfg, 42)

	counts := map[string]int{}
	for _, o := range ords {
		counts[o.MaterialNumber]++
	}
	max := 0
	for _, n := range counts {
		if n > max {
			max = n
		}
	}
	mean := len(ords) / len(counts)
	if max < 3*mean {
		t.Errorf("most-ordered material has %d orders, want well above mean %d", max, mean)
	}
}

func TestBuild_MissingRoutingFails(t *testing.T) {
	cfg := config.Default()
	materials, _, err := hierarchy.Build(cfg, dist.New(42))
	if err != nil {
		t.Fatalf("hierarchy.Build: %v", err)
	}

	_, err = Build(cfg, materials, nil, dist.New(44))
	if err == nil {
		t.Fatal("expected error for unrouted materials")
	}
	if !errors.Is(err, models.ErrReferentialIntegrity) {
		t.Errorf("error %v does not wrap ErrReferentialIntegrity", err)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	cfg := config.Default()
	cfg.OrderCount = 200
	_, _, a := buildAll(t, cfg, 42)
	_, _, b := buildAll(t, cfg, 42)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("order %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
