package agent

import (
	"frontline-server/pkg/api"
	"frontline-server/pkg/geom"
)

// ShadowUnit - локальная копия юнита на стороне клиента.
// Авторитетные поля перезаписываются каждым снапшотом, PrevPos/PrevHeading
// хранят предыдущее состояние для интерполяции между снапшотами.
// Selected - чисто клиентское поле, снапшоты его не трогают.
type ShadowUnit struct {
	api.UnitView

	PrevPos     geom.Vec2
	PrevHeading float64

	LastSeenTick int64
	Selected     bool
}

// Interpolated возвращает позицию и курс юнита на доле alpha [0..1]
// между предыдущим и текущим снапшотом.
func (u *ShadowUnit) Interpolated(alpha float64) (geom.Vec2, float64) {
	alpha = geom.Clamp(alpha, 0, 1)
	return geom.Lerp(u.PrevPos, u.Pos, alpha), geom.LerpAngle(u.PrevHeading, u.Heading, alpha)
}

// ShadowPoint - локальная копия контрольной точки.
type ShadowPoint struct {
	api.ControlPointView
}

// ShadowWorld - теневая копия мира, которую клиент собирает из
// присланных сервером снапшотов и событий. Содержит только то, что
// сервер показал этому наблюдателю; все, что пропало из снапшота,
// из тени удаляется (скрыто туманом войны либо мертво).
//
// Не потокобезопасен: предполагается один владелец (цикл клиента).
type ShadowWorld struct {
	Tick   int64
	MyTeam int

	Units  map[string]*ShadowUnit
	Points map[string]*ShadowPoint

	// Vision - последняя присланная сетка видимости. Сервер шлет ее
	// только при изменении, поэтому храним между снапшотами.
	Vision *api.VisionGridView
}

func NewShadowWorld() *ShadowWorld {
	return &ShadowWorld{
		Units:  make(map[string]*ShadowUnit),
		Points: make(map[string]*ShadowPoint),
	}
}

// ApplySnapshot сверяет тень с присланным срезом мира.
// Устаревшие снапшоты (tick меньше уже примененного) отбрасываются:
// класс доставки снапшотов допускает потерю и переупорядочивание.
func (w *ShadowWorld) ApplySnapshot(s *api.Snapshot) bool {
	if s == nil || s.Tick < w.Tick {
		return false
	}

	w.Tick = s.Tick
	w.MyTeam = s.MyTeam

	seen := make(map[string]struct{}, len(s.Units))
	for _, view := range s.Units {
		seen[view.ID] = struct{}{}

		if existing, ok := w.Units[view.ID]; ok {
			existing.PrevPos = existing.Pos
			existing.PrevHeading = existing.Heading
			existing.UnitView = view
			existing.LastSeenTick = s.Tick
			continue
		}

		// Новый (или заново увиденный) юнит: интерполировать не от чего.
		w.Units[view.ID] = &ShadowUnit{
			UnitView:     view,
			PrevPos:      view.Pos,
			PrevHeading:  view.Heading,
			LastSeenTick: s.Tick,
		}
	}

	for id := range w.Units {
		if _, ok := seen[id]; !ok {
			delete(w.Units, id)
		}
	}

	for _, view := range s.Points {
		if existing, ok := w.Points[view.ID]; ok {
			existing.ControlPointView = view
			continue
		}
		w.Points[view.ID] = &ShadowPoint{ControlPointView: view}
	}

	if s.Vision != nil {
		w.Vision = s.Vision
	}
	return true
}

// ApplyEvent накладывает гарантированное событие на тень между
// снапшотами. Следующий снапшот все равно самокорректирует картину,
// событие лишь убирает видимый лаг.
func (w *ShadowWorld) ApplyEvent(ev *api.EventView) {
	if ev == nil {
		return
	}

	switch ev.Type {
	case "UNIT_DIED":
		if u, ok := w.Units[ev.UnitID]; ok {
			u.Health = 0
			u.State = "DEAD"
		}
	case "POINT_CAPTURED":
		if p, ok := w.Points[ev.PointID]; ok {
			p.Owner = ev.Team
			p.Progress = 1
			p.Contested = false
		}
	case "POINT_NEUTRALIZED":
		if p, ok := w.Points[ev.PointID]; ok {
			p.Owner = 0
			p.Progress = 0
		}
	}
}

// Select помечает юниты как выбранные. Выбор переживает снапшоты
// (поле не авторитетное), но не переживает удаление юнита из тени.
func (w *ShadowWorld) Select(ids ...string) {
	for _, u := range w.Units {
		u.Selected = false
	}
	for _, id := range ids {
		if u, ok := w.Units[id]; ok {
			u.Selected = true
		}
	}
}

// SelectedIDs возвращает ID выбранных юнитов.
func (w *ShadowWorld) SelectedIDs() []string {
	var ids []string
	for id, u := range w.Units {
		if u.Selected {
			ids = append(ids, id)
		}
	}
	return ids
}

// MyUnits возвращает живые юниты команды наблюдателя.
func (w *ShadowWorld) MyUnits() []*ShadowUnit {
	var units []*ShadowUnit
	for _, u := range w.Units {
		if u.Team == w.MyTeam && u.State != "DEAD" {
			units = append(units, u)
		}
	}
	return units
}

// VisibleEnemies возвращает видимых сейчас юнитов противника.
func (w *ShadowWorld) VisibleEnemies() []*ShadowUnit {
	var units []*ShadowUnit
	for _, u := range w.Units {
		if u.Team != w.MyTeam {
			units = append(units, u)
		}
	}
	return units
}
