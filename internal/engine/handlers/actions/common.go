package actions

import (
	"frontline-server/internal/domain"
	"frontline-server/internal/engine/handlers"
)

// commandableUnits разрешает список ID приказа в юниты, которыми актор
// вправе распоряжаться прямо сейчас. Невалидные ID (чужие, мертвые,
// несуществующие) молча пропускаются: частично валидный приказ
// исполняется для валидной части, а не отклоняется целиком.
func commandableUnits(ctx handlers.Context, ids []string) []*domain.Unit {
	out := make([]*domain.Unit, 0, len(ids))
	for _, id := range ids {
		u := ctx.Store.Unit(id)
		if u == nil {
			continue
		}
		if u.OwnerID != ctx.Actor.ConnID {
			continue
		}
		if !u.CanAcceptCommand() {
			continue
		}
		out = append(out, u)
	}
	return out
}
