package actions

import (
	"frontline-server/internal/domain"
	"frontline-server/internal/engine/handlers"
	"frontline-server/pkg/api"
)

// HandleMove назначает юнитам точку назначения.
// Явный приказ на движение отменяет текущую цель атаки.
func HandleMove(ctx handlers.Context, p api.MovePayload) (handlers.Result, error) {
	units := commandableUnits(ctx, p.UnitIDs)
	if len(units) == 0 {
		return handlers.Reject("NO_UNITS", "no commandable units in order"), nil
	}
	if !ctx.Layout.Contains(p.Target) {
		return handlers.Reject("BAD_TARGET", "move target is outside the battlefield"), nil
	}

	for _, u := range units {
		dest := p.Target
		u.MoveTarget = &dest
		u.TargetID = ""
		u.State = domain.StateMoving
	}
	return handlers.EmptyResult(), nil
}
