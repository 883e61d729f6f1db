package systems

import (
	"frontline-server/internal/domain"
	"frontline-server/pkg/geom"
	"frontline-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// CaptureEngine тянет capture value каждой точки по балансу живых
// юнитов двух команд в радиусе захвата.
type CaptureEngine struct {
	Rate   float64 // изменение value в секунду на единицу перевеса
	Radius float64
}

// Update продвигает все точки на dt секунд.
// Возвращает true, если хотя бы одна точка сменила владельца - сигнал
// движку немедленно перепроверить условия победы (а не ждать опроса).
func (ce *CaptureEngine) Update(store *domain.Store, dt float64, tick int64, emit EmitFunc) bool {
	changed := false
	for _, cp := range store.Points() {
		if ce.updatePoint(cp, store, dt, tick, emit) {
			changed = true
		}
	}
	return changed
}

func (ce *CaptureEngine) updatePoint(cp *domain.ControlPoint, store *domain.Store, dt float64, tick int64, emit EmitFunc) bool {
	red, blue := ce.countInRadius(cp, store)

	// Перевес: красные тянут к +1, синие к -1.
	advantage := float64(red - blue)

	prevOwner := cp.Owner()
	cp.CaptureValue = geom.Clamp(
		cp.CaptureValue+advantage*ce.Rate*dt, -1.0, 1.0)
	newOwner := cp.Owner()

	if newOwner == prevOwner {
		// Никаких событий, пока точка остается в том же состоянии, -
		// переход излучается ровно один раз.
		return false
	}

	// Редкий случай прямого перескока Red->Blue за один тик разбираем
	// на два события: сначала нейтрализация, потом захват.
	if prevOwner != domain.TeamNone {
		emit(domain.Event{
			Type:    domain.EventPointNeutralized,
			Tick:    tick,
			PointID: cp.ID,
			TeamID:  prevOwner,
		})
	}
	if newOwner != domain.TeamNone {
		emit(domain.Event{
			Type:    domain.EventPointCaptured,
			Tick:    tick,
			PointID: cp.ID,
			TeamID:  newOwner,
		})
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "capture_engine",
		"point_id":  cp.ID,
		"prev":      prevOwner,
		"owner":     newOwner,
		"value":     cp.CaptureValue,
	}).Info("Control point changed hands")

	return true
}

// countInRadius считает живых юнитов каждой команды в радиусе захвата.
// Мертвые и возрождающиеся не участвуют в перетягивании.
func (ce *CaptureEngine) countInRadius(cp *domain.ControlPoint, store *domain.Store) (red, blue int) {
	for _, u := range store.Units() {
		if !u.Alive() {
			continue
		}
		if u.Pos.DistanceTo(cp.Pos) > ce.Radius {
			continue
		}
		switch u.TeamID {
		case domain.TeamRed:
			red++
		case domain.TeamBlue:
			blue++
		}
	}
	return red, blue
}
