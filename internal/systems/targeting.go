package systems

import (
	"frontline-server/internal/domain"
)

// AcquireTarget ищет цель для юнита без явного приказа: ближайший живой
// враг в радиусе обзора. При равных дистанциях побеждает меньший ID -
// выбор детерминирован при любом порядке обхода.
// Скрытные (stealthed) юниты автозахвату не видны.
func AcquireTarget(u *domain.Unit, store *domain.Store) *domain.Unit {
	var best *domain.Unit
	bestDist := u.Archetype.VisionRange

	for _, other := range store.Units() {
		if other.TeamID == u.TeamID || !other.Alive() || other.Stealthed {
			continue
		}
		dist := u.Pos.DistanceTo(other.Pos)
		if dist > u.Archetype.VisionRange {
			continue
		}
		if best == nil || dist < bestDist || (dist == bestDist && other.ID < best.ID) {
			best = other
			bestDist = dist
		}
	}
	return best
}

// ValidateTarget разрешает слабую ссылку TargetID.
// Невалидная цель (умерла, удалена, вышла из обзора) => nil.
// Вызывающий обязан трактовать nil как "цели нет", никогда не
// дотягиваясь до протухшего указателя.
func ValidateTarget(u *domain.Unit, store *domain.Store) *domain.Unit {
	if u.TargetID == "" {
		return nil
	}
	target := store.LiveTarget(u.TargetID)
	if target == nil {
		return nil
	}
	if u.Pos.DistanceTo(target.Pos) > u.Archetype.VisionRange {
		return nil
	}
	return target
}
