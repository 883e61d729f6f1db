package systems

import (
	"frontline-server/internal/domain"
	"frontline-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ResolveAttack - единственный путь, по которому здоровье уменьшается
// в бою. Применение урона, сброс кулдауна и фиксация смерти происходят
// одним неделимым шагом: другие системы читают здоровье каждый тик и
// не должны увидеть промежуточное состояние.
//
// Возвращает (hit, died). hit=false значит удар не состоялся
// (кулдаун не истек или цель вне досягаемости) - это не ошибка.
func ResolveAttack(attacker, target *domain.Unit) (hit, died bool) {
	if !attacker.Alive() || target == nil || !target.Alive() {
		return false, false
	}
	if attacker.CooldownLeft > 0 {
		return false, false
	}
	if attacker.Pos.DistanceTo(target.Pos) > attacker.Archetype.AttackRange {
		return false, false
	}

	hpBefore := target.Health
	died = target.ApplyDamage(attacker.Archetype.AttackDamage)
	attacker.CooldownLeft = attacker.Archetype.AttackCooldown
	attacker.Heading = attacker.Pos.AngleTo(target.Pos)

	logger.Log.WithFields(logrus.Fields{
		"component":   "combat_system",
		"attacker_id": attacker.ID,
		"target_id":   target.ID,
		"damage":      attacker.Archetype.AttackDamage,
		"hp_before":   hpBefore,
		"hp_after":    target.Health,
		"target_died": died,
	}).Debug("Attack resolved")

	return true, died
}
