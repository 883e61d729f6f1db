package actions

import (
	"frontline-server/internal/engine/handlers"
	"frontline-server/pkg/api"
)

// HandleStop сбрасывает приказы юнитов. Идемпотентен: повторный стоп
// по стоящим юнитам - штатный no-op, не ошибка.
func HandleStop(ctx handlers.Context, p api.StopPayload) (handlers.Result, error) {
	units := commandableUnits(ctx, p.UnitIDs)
	if len(units) == 0 {
		return handlers.Reject("NO_UNITS", "no commandable units in order"), nil
	}
	for _, u := range units {
		u.ClearOrders()
	}
	return handlers.EmptyResult(), nil
}
