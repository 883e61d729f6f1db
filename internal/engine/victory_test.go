package engine

import (
	"testing"

	"frontline-server/internal/domain"
	"frontline-server/pkg/battlefield"
)

func pointsStore(owned map[string]int) *domain.Store {
	store := domain.NewStore()
	layout := battlefield.Default(1600, 1200, domain.TeamRed, domain.TeamBlue)
	for _, site := range layout.Points {
		cp := &domain.ControlPoint{ID: site.ID, Pos: site.Pos, Value: site.Value}
		switch owned[site.ID] {
		case domain.TeamRed:
			cp.CaptureValue = 1.0
		case domain.TeamBlue:
			cp.CaptureValue = -1.0
		}
		store.AddPoint(cp)
	}
	return store
}

func testEvaluator() *VictoryEvaluator {
	layout := battlefield.Default(1600, 1200, domain.TeamRed, domain.TeamBlue)
	return NewVictoryEvaluator(layout, 3, "cp-center", 2)
}

func TestMajorityVictory(t *testing.T) {
	store := pointsStore(map[string]int{
		"cp-north": domain.TeamRed,
		"cp-south": domain.TeamRed,
		"cp-west":  domain.TeamRed,
	})
	winner, condition, ok := testEvaluator().Evaluate(store)
	if !ok || winner != domain.TeamRed || condition != "majority" {
		t.Errorf("Expected Red majority win, got winner=%d condition=%q ok=%v", winner, condition, ok)
	}
}

func TestNoVictoryWhileBalanced(t *testing.T) {
	store := pointsStore(map[string]int{
		"cp-north": domain.TeamRed,
		"cp-south": domain.TeamBlue,
	})
	if _, _, ok := testEvaluator().Evaluate(store); ok {
		t.Error("Balanced board must not resolve the match")
	}
}

func TestKeypointCondition(t *testing.T) {
	cond := KeypointCondition{PointID: "cp-center", Quota: 2}

	// Центр и две точки: выполнено.
	store := pointsStore(map[string]int{
		"cp-center": domain.TeamBlue,
		"cp-east":   domain.TeamBlue,
		"cp-west":   domain.TeamBlue,
	})
	if winner, ok := cond.Winner(store); !ok || winner != domain.TeamBlue {
		t.Errorf("Expected Blue keypoint win, got %d ok=%v", winner, ok)
	}

	// Квота без ключевой точки: не выполнено.
	store = pointsStore(map[string]int{
		"cp-north": domain.TeamBlue,
		"cp-east":  domain.TeamBlue,
		"cp-west":  domain.TeamBlue,
	})
	if _, ok := cond.Winner(store); ok {
		t.Error("Quota without the keypoint must not win")
	}
}

func TestPerimeterCondition(t *testing.T) {
	layout := battlefield.Default(1600, 1200, domain.TeamRed, domain.TeamBlue)
	ids := make([]string, 0)
	for _, site := range layout.Points {
		if site.Perimeter {
			ids = append(ids, site.ID)
		}
	}
	cond := PerimeterCondition{PointIDs: ids}

	owned := map[string]int{
		"cp-north": domain.TeamRed,
		"cp-south": domain.TeamRed,
		"cp-west":  domain.TeamRed,
		"cp-east":  domain.TeamRed,
	}
	if winner, ok := cond.Winner(pointsStore(owned)); !ok || winner != domain.TeamRed {
		t.Errorf("Expected Red perimeter win, got %d ok=%v", winner, ok)
	}

	// Одна точка чужая: периметр не замкнут.
	owned["cp-east"] = domain.TeamBlue
	if _, ok := cond.Winner(pointsStore(owned)); ok {
		t.Error("Split perimeter must not win")
	}
}

func TestVictoryPriorityOrder(t *testing.T) {
	// Красные держат центр + 2 точки: majority и keypoint выполнены
	// одновременно, побеждает более приоритетное majority.
	store := pointsStore(map[string]int{
		"cp-center": domain.TeamRed,
		"cp-north":  domain.TeamRed,
		"cp-south":  domain.TeamRed,
	})
	_, condition, ok := testEvaluator().Evaluate(store)
	if !ok || condition != "majority" {
		t.Errorf("Expected majority to take priority, got %q ok=%v", condition, ok)
	}
}
