package actions

import (
	"math"
	"sort"

	"frontline-server/internal/domain"
	"frontline-server/internal/engine/handlers"
	"frontline-server/pkg/api"
	"frontline-server/pkg/geom"
)

// Интервал между слотами строя.
const formationSpacing = 36.0

// HandleFormation расставляет юниты по слотам строя вокруг центра.
// Слоты раздаются в порядке ID, чтобы один и тот же приказ всегда
// давал одну и ту же расстановку.
func HandleFormation(ctx handlers.Context, p api.FormationPayload) (handlers.Result, error) {
	units := commandableUnits(ctx, p.UnitIDs)
	if len(units) == 0 {
		return handlers.Reject("NO_UNITS", "no commandable units in order"), nil
	}
	if !ctx.Layout.Contains(p.Center) {
		return handlers.Reject("BAD_TARGET", "formation center is outside the battlefield"), nil
	}

	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })
	slots := formationSlots(p.Layout, p.Center, len(units))
	for i, u := range units {
		dest := ctx.Layout.ClampInside(slots[i])
		u.MoveTarget = &dest
		u.TargetID = ""
		u.State = domain.StateMoving
	}
	return handlers.EmptyResult(), nil
}

func formationSlots(layout string, center geom.Vec2, n int) []geom.Vec2 {
	slots := make([]geom.Vec2, n)

	switch layout {
	case "wedge":
		// Клин остриём вверх: ряд 0 - вершина, каждый следующий ряд шире.
		row, col := 0, 0
		for i := 0; i < n; i++ {
			offset := float64(col)*formationSpacing - float64(row)*formationSpacing/2
			slots[i] = geom.Vec2{
				X: center.X + offset,
				Y: center.Y + float64(row)*formationSpacing,
			}
			col++
			if col > row {
				row++
				col = 0
			}
		}

	case "circle":
		if n == 1 {
			slots[0] = center
			break
		}
		radius := formationSpacing * float64(n) / (2 * math.Pi)
		if radius < formationSpacing {
			radius = formationSpacing
		}
		for i := 0; i < n; i++ {
			angle := 2 * math.Pi * float64(i) / float64(n)
			slots[i] = geom.Vec2{
				X: center.X + radius*math.Cos(angle),
				Y: center.Y + radius*math.Sin(angle),
			}
		}

	default: // "line"
		// Шеренга по горизонтали, центрированная на точке приказа.
		half := float64(n-1) / 2
		for i := 0; i < n; i++ {
			slots[i] = geom.Vec2{
				X: center.X + (float64(i)-half)*formationSpacing,
				Y: center.Y,
			}
		}
	}
	return slots
}
