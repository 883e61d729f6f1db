package agent

import (
	"math"
	"testing"

	"frontline-server/pkg/api"
	"frontline-server/pkg/geom"
)

func snapshot(tick int64, units []api.UnitView, points []api.ControlPointView) *api.Snapshot {
	return &api.Snapshot{
		Tick:   tick,
		MyTeam: 1,
		Units:  units,
		Points: points,
	}
}

func unitView(id string, team int, x, y float64) api.UnitView {
	return api.UnitView{
		ID:        id,
		Team:      team,
		Archetype: "soldier",
		Pos:       geom.Vec2{X: x, Y: y},
		Health:    100,
		MaxHealth: 100,
		State:     "IDLE",
	}
}

func TestShadowCreatesUpdatesRemoves(t *testing.T) {
	w := NewShadowWorld()

	w.ApplySnapshot(snapshot(1, []api.UnitView{
		unitView("a", 1, 10, 10),
		unitView("b", 2, 200, 200),
	}, nil))

	if len(w.Units) != 2 {
		t.Fatalf("Expected 2 shadow units, got %d", len(w.Units))
	}

	// Юнит "b" пропал из снапшота (ушел в туман) - тень его забывает.
	w.ApplySnapshot(snapshot(2, []api.UnitView{
		unitView("a", 1, 20, 10),
	}, nil))

	if len(w.Units) != 1 {
		t.Fatalf("Expected 1 shadow unit after removal, got %d", len(w.Units))
	}
	a := w.Units["a"]
	if a == nil || a.Pos.X != 20 {
		t.Error("Surviving unit must carry the new authoritative position")
	}
	if a.PrevPos.X != 10 {
		t.Errorf("PrevPos must hold the pre-update position, got %v", a.PrevPos)
	}
}

func TestShadowRejectsStaleSnapshot(t *testing.T) {
	w := NewShadowWorld()

	w.ApplySnapshot(snapshot(10, []api.UnitView{unitView("a", 1, 50, 50)}, nil))
	if w.ApplySnapshot(snapshot(5, []api.UnitView{unitView("a", 1, 0, 0)}, nil)) {
		t.Error("Snapshot older than the applied one must be rejected")
	}
	if w.Units["a"].Pos.X != 50 {
		t.Error("Stale snapshot must not rewind the shadow")
	}
}

func TestShadowInterpolation(t *testing.T) {
	w := NewShadowWorld()
	w.ApplySnapshot(snapshot(1, []api.UnitView{unitView("a", 1, 0, 0)}, nil))
	w.ApplySnapshot(snapshot(2, []api.UnitView{unitView("a", 1, 10, 0)}, nil))

	pos, _ := w.Units["a"].Interpolated(0.5)
	if math.Abs(pos.X-5) > 1e-9 {
		t.Errorf("Expected midpoint x=5, got %v", pos.X)
	}

	pos, _ = w.Units["a"].Interpolated(2)
	if pos.X != 10 {
		t.Errorf("Alpha must clamp to 1, got x=%v", pos.X)
	}
}

func TestShadowSelectionSurvivesSnapshots(t *testing.T) {
	w := NewShadowWorld()
	w.ApplySnapshot(snapshot(1, []api.UnitView{unitView("a", 1, 0, 0)}, nil))
	w.Select("a")

	w.ApplySnapshot(snapshot(2, []api.UnitView{unitView("a", 1, 5, 0)}, nil))

	ids := w.SelectedIDs()
	if len(ids) != 1 || ids[0] != "a" {
		t.Errorf("Selection must survive a snapshot, got %v", ids)
	}
}

func TestShadowAppliesEvents(t *testing.T) {
	w := NewShadowWorld()
	w.ApplySnapshot(snapshot(1,
		[]api.UnitView{unitView("a", 1, 0, 0)},
		[]api.ControlPointView{{ID: "cp-1", Owner: 0}},
	))

	w.ApplyEvent(&api.EventView{Type: "UNIT_DIED", UnitID: "a"})
	if w.Units["a"].State != "DEAD" || w.Units["a"].Health != 0 {
		t.Error("UNIT_DIED must mark the shadow unit dead")
	}

	w.ApplyEvent(&api.EventView{Type: "POINT_CAPTURED", PointID: "cp-1", Team: 2})
	if w.Points["cp-1"].Owner != 2 {
		t.Error("POINT_CAPTURED must transfer ownership")
	}

	w.ApplyEvent(&api.EventView{Type: "POINT_NEUTRALIZED", PointID: "cp-1", Team: 2})
	if w.Points["cp-1"].Owner != 0 {
		t.Error("POINT_NEUTRALIZED must reset ownership")
	}
}

func TestShadowVisionPersistsBetweenSnapshots(t *testing.T) {
	w := NewShadowWorld()

	s := snapshot(1, nil, nil)
	s.Vision = &api.VisionGridView{Version: 3, Cols: 4, Rows: 4}
	w.ApplySnapshot(s)

	// Следующий снапшот без сетки: сервер не присылает неизменившееся.
	w.ApplySnapshot(snapshot(2, nil, nil))

	if w.Vision == nil || w.Vision.Version != 3 {
		t.Error("Vision grid must persist until a newer one arrives")
	}
}
