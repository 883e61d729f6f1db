package actions

import (
	"frontline-server/internal/domain"
	"frontline-server/internal/engine/handlers"
	"frontline-server/pkg/api"
)

// HandleAttack назначает юнитам цель атаки.
// Цель обязана существовать, быть живой и враждебной: по своим не бьем.
func HandleAttack(ctx handlers.Context, p api.AttackPayload) (handlers.Result, error) {
	units := commandableUnits(ctx, p.UnitIDs)
	if len(units) == 0 {
		return handlers.Reject("NO_UNITS", "no commandable units in order"), nil
	}

	target := ctx.Store.LiveTarget(p.TargetID)
	if target == nil {
		return handlers.Reject("BAD_TARGET", "attack target does not exist or is dead"), nil
	}
	if target.TeamID == ctx.Actor.TeamID {
		return handlers.Reject("BAD_TARGET", "cannot attack a friendly unit"), nil
	}

	for _, u := range units {
		u.TargetID = target.ID
		u.MoveTarget = nil
		u.State = domain.StateAttacking
	}
	return handlers.EmptyResult(), nil
}
