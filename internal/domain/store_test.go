package domain

import (
	"testing"

	"frontline-server/pkg/geom"
)

func TestStoreWeakTargetResolution(t *testing.T) {
	s := NewStore()
	u := testSoldier("u1", TeamRed)
	s.AddUnit(u)

	if s.LiveTarget("u1") == nil {
		t.Error("Expected live unit to be a valid target")
	}

	// Мертвый юнит - не цель
	u.ApplyDamage(1000)
	if s.LiveTarget("u1") != nil {
		t.Error("Dead unit must not resolve as target")
	}

	// Удаленный юнит - не цель
	s.RemoveUnit("u1")
	if s.LiveTarget("u1") != nil {
		t.Error("Removed unit must not resolve as target")
	}
	if s.Unit("u1") != nil {
		t.Error("Removed unit must not be in the registry")
	}
}

func TestStoreDeterministicOrder(t *testing.T) {
	s := NewStore()
	s.AddUnit(testSoldier("b", TeamRed))
	s.AddUnit(testSoldier("a", TeamBlue))
	s.AddUnit(testSoldier("c", TeamRed))

	units := s.Units()
	if len(units) != 3 {
		t.Fatalf("Expected 3 units, got %d", len(units))
	}
	if units[0].ID != "a" || units[1].ID != "b" || units[2].ID != "c" {
		t.Error("Units() must be sorted by id")
	}

	reds := s.TeamUnits(TeamRed)
	if len(reds) != 2 || reds[0].ID != "b" || reds[1].ID != "c" {
		t.Error("TeamUnits must filter by team and stay sorted")
	}
}

func TestControlPointDerivedOwner(t *testing.T) {
	cp := NewControlPoint("cp1", geom.Vec2{}, 1)
	if cp.Owner() != TeamNone {
		t.Error("Fresh point must be neutral")
	}

	cp.CaptureValue = 0.99
	if cp.Owner() != TeamNone {
		t.Error("Strictly inside (-1,1) must stay contested/neutral")
	}
	if !cp.Contested() {
		t.Error("Expected contested at 0.99")
	}

	cp.CaptureValue = 1.0
	if cp.Owner() != TeamRed {
		t.Error("Value +1.0 must belong to TeamRed")
	}

	cp.CaptureValue = -1.0
	if cp.Owner() != TeamBlue {
		t.Error("Value -1.0 must belong to TeamBlue")
	}

	cp.Reset()
	if cp.Owner() != TeamNone || cp.CaptureValue != 0 {
		t.Error("Reset must return the point to neutral")
	}
}
