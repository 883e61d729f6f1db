package battlefield

import (
	"testing"

	"frontline-server/pkg/geom"
)

func TestDefaultLayout(t *testing.T) {
	l := Default(1600, 1200, 1, 2)

	if len(l.Points) != 5 {
		t.Fatalf("Expected 5 control point sites, got %d", len(l.Points))
	}

	perimeter := 0
	for _, p := range l.Points {
		if p.Perimeter {
			perimeter++
		}
		if !l.Contains(p.Pos) {
			t.Errorf("Point %s lies outside the world", p.ID)
		}
	}
	if perimeter != 4 {
		t.Errorf("Expected 4 perimeter points, got %d", perimeter)
	}

	if len(l.Spawns[1]) == 0 || len(l.Spawns[2]) == 0 {
		t.Fatal("Both teams need spawn zones")
	}
}

func TestSpawnForWrapsAround(t *testing.T) {
	l := Default(1600, 1200, 1, 2)
	n := len(l.Spawns[1])

	if l.SpawnFor(1, 0) != l.SpawnFor(1, n) {
		t.Error("SpawnFor must wrap around the spawn list")
	}

	// Неизвестная команда получает центр, а не панику
	center := l.SpawnFor(9, 0)
	if center != (geom.Vec2{X: 800, Y: 600}) {
		t.Errorf("Expected center fallback, got %+v", center)
	}
}

func TestClampInside(t *testing.T) {
	l := Default(100, 100, 1, 2)
	p := l.ClampInside(geom.Vec2{X: -5, Y: 150})
	if p.X != 0 || p.Y != 100 {
		t.Errorf("Expected clamp to (0,100), got %+v", p)
	}
}
