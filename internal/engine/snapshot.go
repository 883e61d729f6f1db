package engine

import (
	"time"

	"frontline-server/internal/domain"
	"frontline-server/internal/systems"
	"frontline-server/pkg/api"
)

// BuildSnapshotFor создает персональный слепок мира для наблюдателя.
// Фильтрация - обязанность сервера: чужие юниты вне зоны видимости
// команды наблюдателя в снимок не попадают вовсе.
// lastVision - версия сетки, уже отправленная этому наблюдателю;
// сетка прикладывается только при ее смене. Возвращает снимок и
// актуальную версию сетки.
func BuildSnapshotFor(store *domain.Store, vis *systems.VisibilityEngine, observer *domain.Player, tick int64, lastVision uint64) (*api.Snapshot, uint64) {
	snap := &api.Snapshot{
		Tick:       tick,
		ServerTime: time.Now().UnixMilli(),
		MyTeam:     observer.TeamID,
		Units:      make([]api.UnitView, 0),
		Points:     make([]api.ControlPointView, 0),
	}

	for _, u := range store.Units() {
		if u.TeamID != observer.TeamID {
			// Скрытность сильнее видимости: затаившийся враг не
			// попадает в снимок, даже стоя в подсвеченной клетке.
			if u.Stealthed || !u.Alive() {
				continue
			}
			if !vis.CanSee(observer.TeamID, u) {
				continue
			}
		}
		snap.Units = append(snap.Units, toUnitView(u, observer))
	}

	// Позиции и состояние контрольных точек - публичная информация.
	for _, cp := range store.Points() {
		snap.Points = append(snap.Points, api.ControlPointView{
			ID:        cp.ID,
			Pos:       cp.Pos,
			Value:     cp.Value,
			Owner:     cp.Owner(),
			Progress:  cp.Progress(),
			Contested: cp.Contested(),
		})
	}

	grid := vis.Grid(observer.TeamID)
	version := lastVision
	if grid != nil && grid.Version() != lastVision {
		version = grid.Version()
		snap.Vision = &api.VisionGridView{
			CellSize: grid.CellSize,
			Cols:     grid.Cols,
			Rows:     grid.Rows,
			Version:  version,
			Cells:    grid.PackCells(),
		}
	}

	return snap, version
}

// toUnitView конвертирует юнита в DTO с учетом прав наблюдателя.
func toUnitView(u *domain.Unit, observer *domain.Player) api.UnitView {
	view := api.UnitView{
		ID:        u.ID,
		Team:      u.TeamID,
		Archetype: u.Archetype.Name,
		Pos:       u.Pos,
		Heading:   u.Heading,
		Health:    u.Health,
		MaxHealth: u.Archetype.MaxHealth,
		State:     u.State.String(),
	}

	// Намерения юнита видит только его команда.
	if u.TeamID == observer.TeamID {
		view.Owner = u.OwnerID
		view.TargetID = u.TargetID
		view.Plan = u.Plan
		view.Invulnerable = u.Invulnerable()
		view.Stealthed = u.Stealthed
	}
	return view
}
