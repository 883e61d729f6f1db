package engine

import (
	"frontline-server/internal/domain"
	"frontline-server/pkg/battlefield"
	"frontline-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// VictoryCondition проверяет одно условие победы.
type VictoryCondition interface {
	Name() string
	// Winner возвращает (команда, true), если условие выполнено.
	Winner(store *domain.Store) (int, bool)
}

// MajorityCondition: команда держит Need точек одновременно.
type MajorityCondition struct {
	Need int
}

func (c MajorityCondition) Name() string { return "majority" }

func (c MajorityCondition) Winner(store *domain.Store) (int, bool) {
	counts := ownedCounts(store)
	for _, team := range []int{domain.TeamRed, domain.TeamBlue} {
		if counts[team] >= c.Need {
			return team, true
		}
	}
	return domain.TeamNone, false
}

// KeypointCondition: команда держит ключевую точку и еще Quota любых.
type KeypointCondition struct {
	PointID string
	Quota   int
}

func (c KeypointCondition) Name() string { return "keypoint" }

func (c KeypointCondition) Winner(store *domain.Store) (int, bool) {
	key := store.Point(c.PointID)
	if key == nil {
		return domain.TeamNone, false
	}
	holder := key.Owner()
	if holder == domain.TeamNone {
		return domain.TeamNone, false
	}
	if ownedCounts(store)[holder]-1 >= c.Quota {
		return holder, true
	}
	return domain.TeamNone, false
}

// PerimeterCondition: команда держит все периметровые точки карты.
type PerimeterCondition struct {
	PointIDs []string
}

func (c PerimeterCondition) Name() string { return "perimeter" }

func (c PerimeterCondition) Winner(store *domain.Store) (int, bool) {
	if len(c.PointIDs) == 0 {
		return domain.TeamNone, false
	}
	holder := domain.TeamNone
	for _, id := range c.PointIDs {
		cp := store.Point(id)
		if cp == nil {
			return domain.TeamNone, false
		}
		owner := cp.Owner()
		if owner == domain.TeamNone {
			return domain.TeamNone, false
		}
		if holder == domain.TeamNone {
			holder = owner
		} else if holder != owner {
			return domain.TeamNone, false
		}
	}
	return holder, true
}

func ownedCounts(store *domain.Store) map[int]int {
	counts := make(map[int]int)
	for _, cp := range store.Points() {
		counts[cp.Owner()]++
	}
	return counts
}

// VictoryEvaluator держит условия в порядке приоритета: если в один тик
// выполняются несколько, побеждает первое в списке.
type VictoryEvaluator struct {
	conditions []VictoryCondition
}

// NewVictoryEvaluator собирает стандартный набор условий под раскладку:
// majority > keypoint > perimeter.
func NewVictoryEvaluator(layout battlefield.Layout, majorityNeed int, keypointID string, keypointQuota int) *VictoryEvaluator {
	perimeter := make([]string, 0)
	for _, site := range layout.Points {
		if site.Perimeter {
			perimeter = append(perimeter, site.ID)
		}
	}

	return &VictoryEvaluator{
		conditions: []VictoryCondition{
			MajorityCondition{Need: majorityNeed},
			KeypointCondition{PointID: keypointID, Quota: keypointQuota},
			PerimeterCondition{PointIDs: perimeter},
		},
	}
}

// Evaluate возвращает (победитель, имя условия, true), если матч решен.
func (ve *VictoryEvaluator) Evaluate(store *domain.Store) (int, string, bool) {
	for _, cond := range ve.conditions {
		if winner, ok := cond.Winner(store); ok {
			logger.Log.WithFields(logrus.Fields{
				"component": "victory",
				"condition": cond.Name(),
				"winner":    winner,
			}).Info("Victory condition met")
			return winner, cond.Name(), true
		}
	}
	return domain.TeamNone, "", false
}
