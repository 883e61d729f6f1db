package domain

import "frontline-server/pkg/geom"

// UnitState - состояние конечного автомата юнита.
type UnitState uint8

const (
	StateIdle UnitState = iota
	StateMoving
	StateAttacking
	StateCharging // канал способности
	StateDead
	StateRespawning
)

var stateToString = map[UnitState]string{
	StateIdle:       "IDLE",
	StateMoving:     "MOVING",
	StateAttacking:  "ATTACKING",
	StateCharging:   "CHARGING",
	StateDead:       "DEAD",
	StateRespawning: "RESPAWNING",
}

// String реализует интерфейс Stringer (для логов и DTO).
func (s UnitState) String() string {
	if v, ok := stateToString[s]; ok {
		return v
	}
	return "UNKNOWN"
}

// Unit - боевая единица. Владелец жизненного цикла - Store.
// Все остальные компоненты держат ТОЛЬКО ID, никаких долгоживущих
// указателей: так смерть/удаление не оставляет висячих ссылок.
type Unit struct {
	ID      string `json:"id"`
	TeamID  int    `json:"teamId"`
	OwnerID string `json:"ownerId"` // ID игрока-владельца

	Archetype Archetype `json:"archetype"`

	Pos     geom.Vec2 `json:"pos"`
	Heading float64   `json:"heading"`

	Health int       `json:"health"`
	State  UnitState `json:"state"`

	// TargetID - слабая ссылка на цель (атака/преследование).
	// Разрешается через Store каждый тик; протухшая цель => StateIdle.
	TargetID string `json:"targetId,omitempty"`

	// MoveTarget - точка назначения. nil, если маршрута нет.
	MoveTarget *geom.Vec2 `json:"moveTarget,omitempty"`

	// Plan - человекочитаемая аннотация приказа ("hold left flank").
	// Неавторитетное поле для UI владельца.
	Plan string `json:"plan,omitempty"`

	// Таймеры в секундах (тикают вниз).
	CooldownLeft float64 `json:"cooldownLeft"`
	RespawnLeft  float64 `json:"respawnLeft"`
	AbilityLeft  float64 `json:"abilityLeft"`
	InvulnLeft   float64 `json:"invulnLeft"`

	Stealthed bool `json:"stealthed"`
}

// NewUnit создает живого юнита в состоянии Idle.
func NewUnit(id string, team int, owner string, arch Archetype, pos geom.Vec2) *Unit {
	return &Unit{
		ID:        id,
		TeamID:    team,
		OwnerID:   owner,
		Archetype: arch,
		Pos:       pos,
		Health:    arch.MaxHealth,
		State:     StateIdle,
	}
}

// Alive: юнит жив и участвует в симуляции.
func (u *Unit) Alive() bool {
	return u.State != StateDead && u.State != StateRespawning
}

// Invulnerable: входящий урон отбрасывается (не уменьшается - отбрасывается).
func (u *Unit) Invulnerable() bool {
	return u.InvulnLeft > 0
}

// CanAcceptCommand: в Dead/Respawning обычные команды отклоняются.
func (u *Unit) CanAcceptCommand() bool {
	return u.Alive()
}

// ApplyDamage наносит урон. Возвращает true, если юнит погиб ИМЕННО от
// этого применения. Урон, смена здоровья и фиксация смерти - один
// неделимый шаг: промежуточное состояние снаружи не наблюдаемо.
func (u *Unit) ApplyDamage(amount int) bool {
	if !u.Alive() || u.Invulnerable() {
		return false
	}
	if amount < 0 {
		amount = 0
	}

	u.Health -= amount
	if u.Health <= 0 {
		u.Health = 0
		u.die()
		return true
	}
	return false
}

// die переводит юнита в Dead и отменяет все таймеры и намерения.
func (u *Unit) die() {
	u.State = StateDead
	u.TargetID = ""
	u.MoveTarget = nil
	u.Plan = ""
	u.CooldownLeft = 0
	u.AbilityLeft = 0
	u.InvulnLeft = 0
	u.Stealthed = false
}

// StartRespawn запускает обратный отсчет возрождения.
func (u *Unit) StartRespawn(delay float64) {
	u.State = StateRespawning
	u.RespawnLeft = delay
}

// Respawn возвращает юнита в строй: здоровье и позиция сброшены,
// короткое окно неуязвимости, состояние Idle.
func (u *Unit) Respawn(spawn geom.Vec2, invulnWindow float64) {
	u.Pos = spawn
	u.Health = u.Archetype.MaxHealth
	u.State = StateIdle
	u.RespawnLeft = 0
	u.InvulnLeft = invulnWindow
	u.TargetID = ""
	u.MoveTarget = nil
}

// ClearOrders сбрасывает цель и маршрут (команда Stop).
// Возвращает true, если что-то реально изменилось (для идемпотентности).
func (u *Unit) ClearOrders() bool {
	changed := u.TargetID != "" || u.MoveTarget != nil || u.State != StateIdle
	u.TargetID = ""
	u.MoveTarget = nil
	u.Plan = ""
	if u.Alive() {
		u.State = StateIdle
	}
	return changed
}
