package systems

import (
	"frontline-server/internal/domain"
	"frontline-server/pkg/battlefield"
	"frontline-server/pkg/geom"
	"frontline-server/pkg/logger"
	"frontline-server/pkg/utils"
)

// BehaviorConfig - параметры продвижения автоматов юнитов на один тик.
type BehaviorConfig struct {
	RespawnDelay  float64
	RespawnInvuln float64
}

// EmitFunc принимает доменное событие в очередь матча.
type EmitFunc func(domain.Event)

// AdvanceUnits продвигает конечные автоматы всех юнитов на dt секунд.
// Вызывается строго из тик-цикла, после применения команд и до
// пересчета захвата/видимости (поздние стадии читают обновленное
// состояние).
func AdvanceUnits(store *domain.Store, layout battlefield.Layout, cfg BehaviorConfig, dt float64, tick int64, emit EmitFunc) {
	for _, u := range store.Units() {
		advanceUnit(u, store, layout, cfg, dt, tick, emit)
	}
}

func advanceUnit(u *domain.Unit, store *domain.Store, layout battlefield.Layout, cfg BehaviorConfig, dt float64, tick int64, emit EmitFunc) {
	// Таймеры тикают всегда, кроме как у мертвых (смерть их отменила).
	if u.CooldownLeft > 0 {
		u.CooldownLeft -= dt
	}
	if u.InvulnLeft > 0 {
		u.InvulnLeft -= dt
	}

	switch u.State {
	case domain.StateDead:
		// Смерть уже разослана; немедленно уходим в отсчет возрождения.
		u.StartRespawn(cfg.RespawnDelay)

	case domain.StateRespawning:
		u.RespawnLeft -= dt
		if u.RespawnLeft <= 0 {
			spawn := spawnPointFor(u, layout)
			u.Respawn(spawn, cfg.RespawnInvuln)
		}

	case domain.StateCharging:
		u.AbilityLeft -= dt
		if u.AbilityLeft <= 0 {
			u.AbilityLeft = 0
			u.State = domain.StateIdle
		}

	case domain.StateIdle, domain.StateMoving:
		// Автономный захват цели: враг вошел в обзор.
		if target := AcquireTarget(u, store); target != nil {
			u.TargetID = target.ID
			u.State = domain.StateAttacking
			advanceAttacking(u, store, layout, dt, tick, emit)
			return
		}
		if u.State == domain.StateMoving {
			stepTowards(u, layout, dt)
		}

	case domain.StateAttacking:
		advanceAttacking(u, store, layout, dt, tick, emit)
	}
}

// advanceAttacking - один тик состояния Attacking.
func advanceAttacking(u *domain.Unit, store *domain.Store, layout battlefield.Layout, dt float64, tick int64, emit EmitFunc) {
	target := ValidateTarget(u, store)
	if target == nil {
		// Цель протухла (умерла, исчезла, вышла из обзора) - в Idle.
		u.TargetID = ""
		u.State = domain.StateIdle
		return
	}

	dist := u.Pos.DistanceTo(target.Pos)
	if dist > u.Archetype.AttackRange {
		// Преследование: позиция цели перечитывается КАЖДЫЙ тик,
		// а не замораживается на момент приказа. Намерение остается
		// Attacking, даже пока юнит фактически движется.
		chase := target.Pos
		u.MoveTarget = &chase
		stepTowards(u, layout, dt)
		u.State = domain.StateAttacking
		return
	}

	u.MoveTarget = nil
	if _, died := ResolveAttack(u, target); died {
		emit(domain.Event{
			Type:   domain.EventUnitDied,
			Tick:   tick,
			UnitID: target.ID,
			TeamID: target.TeamID,
		})
	}
}

// stepTowards двигает юнита к MoveTarget со скоростью архетипа.
// Маршрут, который построить нельзя (цель вне проходимого мира),
// сбрасывает юнита в Idle на месте, а не зацикливает его.
func stepTowards(u *domain.Unit, layout battlefield.Layout, dt float64) {
	if u.MoveTarget == nil {
		u.State = domain.StateIdle
		return
	}
	if !layout.Contains(*u.MoveTarget) {
		logger.Log.WithField("unit_id", u.ID).Debug("No route to move target, holding position")
		u.MoveTarget = nil
		u.State = domain.StateIdle
		return
	}

	u.Heading = u.Pos.AngleTo(*u.MoveTarget)
	u.Pos = layout.ClampInside(
		geom.MoveTowards(u.Pos, *u.MoveTarget, u.Archetype.Speed*dt))

	if u.Pos == *u.MoveTarget {
		u.MoveTarget = nil
		if u.State == domain.StateMoving {
			u.State = domain.StateIdle
		}
	}
}

// spawnPointFor выбирает точку возрождения детерминированно по ID юнита:
// один и тот же юнит всегда встает на одно и то же место.
func spawnPointFor(u *domain.Unit, layout battlefield.Layout) geom.Vec2 {
	idx := int(utils.StringToSeed(u.ID) & 0x7fffffff)
	return layout.SpawnFor(u.TeamID, idx)
}
