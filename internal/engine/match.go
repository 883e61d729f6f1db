package engine

import (
	"encoding/json"
	"sort"
	"time"

	"frontline-server/internal/agent"
	"frontline-server/internal/config"
	"frontline-server/internal/domain"
	"frontline-server/internal/engine/handlers"
	"frontline-server/internal/engine/handlers/actions"
	"frontline-server/internal/network"
	"frontline-server/internal/systems"
	"frontline-server/pkg/api"
	"frontline-server/pkg/battlefield"
	"frontline-server/pkg/logger"
	"frontline-server/pkg/utils"

	"github.com/sirupsen/logrus"
)

// Match - один изолированный запущенный матч.
// Все состояние симуляции мутируется ТОЛЬКО горутиной Run (single
// writer); внешний мир общается с матчем через каналы.
type Match struct {
	ID     string
	Store  *domain.Store
	Layout battlefield.Layout

	// Players: ConnID -> игрок. Состав фиксируется на старте.
	Players map[string]*domain.Player

	// Каналы коммуникации
	CommandChan chan domain.InternalCommand // Команды игроков
	LeaveChan   chan string                 // Дисконнекты во время матча

	Hub *network.Broadcaster

	cfg      config.Simulation
	capture  *systems.CaptureEngine
	vis      *systems.VisibilityEngine
	behavior systems.BehaviorConfig
	victory  *VictoryEvaluator
	timers   *TimerManager

	handlers map[domain.ActionType]handlers.HandlerFunc

	events     []domain.Event    // очередь событий текущего тика
	lastVision map[string]uint64 // ConnID -> версия отправленной сетки

	// broadcastEvery: снапшоты уходят каждый N-й тик.
	broadcastEvery int64

	tick   int64
	ended  bool
	winner int

	stopChan chan struct{}
	doneChan chan struct{}

	// Хуки наблюдателей (архив, телеметрия). Вызываются из тик-цикла,
	// обязаны быть быстрыми и не трогать Store.
	OnEvent func(matchID string, ev domain.Event)
	OnEnd   func(matchID string, winner int, condition string, tick int64)
	OnTick  func(matchID string, tick int64, elapsed time.Duration)

	// OnTranslate запускает асинхронный перевод текстового приказа.
	// nil, если AI-переводчик не настроен.
	OnTranslate func(connID string, req agent.Request)
}

// NewMatch собирает матч: реестр, точки, юниты игроков по спавнам.
func NewMatch(id string, players map[string]*domain.Player, layout battlefield.Layout, sim config.Simulation, archetypes map[string]domain.Archetype, hub *network.Broadcaster) *Match {
	store := domain.NewStore()

	for _, site := range layout.Points {
		store.AddPoint(&domain.ControlPoint{
			ID:    site.ID,
			Pos:   site.Pos,
			Value: site.Value,
		})
	}

	m := &Match{
		ID:          id,
		Store:       store,
		Layout:      layout,
		Players:     players,
		CommandChan: make(chan domain.InternalCommand, 100),
		LeaveChan:   make(chan string, 10),
		Hub:         hub,
		cfg:         sim,
		capture:     &systems.CaptureEngine{Rate: sim.CaptureRate, Radius: sim.CaptureRadius},
		vis:         systems.NewVisibilityEngine(layout.Width, layout.Height, sim.VisionCellSize),
		behavior: systems.BehaviorConfig{
			RespawnDelay:  sim.RespawnDelay,
			RespawnInvuln: sim.RespawnInvuln,
		},
		victory:    NewVictoryEvaluator(layout, sim.MajorityPoints, sim.KeypointID, sim.KeypointQuota),
		timers:     NewTimerManager(),
		handlers:   make(map[domain.ActionType]handlers.HandlerFunc),
		lastVision: make(map[string]uint64),
		stopChan:   make(chan struct{}),
		doneChan:   make(chan struct{}),
	}
	if sim.BroadcastRate > 0 {
		m.broadcastEvery = int64(sim.TickRate / sim.BroadcastRate)
	}
	if m.broadcastEvery < 1 {
		m.broadcastEvery = 1
	}
	m.registerHandlers()
	m.spawnUnits(archetypes)
	return m
}

func (m *Match) registerHandlers() {
	m.handlers[domain.ActionMove] = handlers.WithPayload(actions.HandleMove)
	m.handlers[domain.ActionAttack] = handlers.WithPayload(actions.HandleAttack)
	m.handlers[domain.ActionStop] = handlers.WithPayload(actions.HandleStop)
	m.handlers[domain.ActionFormation] = handlers.WithPayload(actions.HandleFormation)
}

// spawnUnits раздает каждому игроку его отряд на спавнах команды.
// Состав отряда: по архетипу на слот, циклически (scout, soldier, heavy...).
func (m *Match) spawnUnits(archetypes map[string]domain.Archetype) {
	roster := []string{"soldier", "scout", "heavy", "soldier"}

	for _, p := range sortedPlayers(m.Players) {
		for i := 0; i < m.cfg.UnitsPerPlayer; i++ {
			arch := domain.ArchetypeOrDefault(archetypes, roster[i%len(roster)])
			unitID := "u-" + utils.GenerateID()
			spawn := m.Layout.SpawnFor(p.TeamID, i)
			m.Store.AddUnit(domain.NewUnit(unitID, p.TeamID, p.ConnID, arch, spawn))
		}
	}
}

// Run запускает тик-цикл матча. Блокирует до конца матча или Stop.
func (m *Match) Run() {
	defer close(m.doneChan)

	logger.Log.WithFields(logrus.Fields{
		"match_id":  m.ID,
		"players":   len(m.Players),
		"tick_rate": m.cfg.TickRate,
	}).Info("Match loop started")

	dt := 1.0 / float64(m.cfg.TickRate)
	ticker := time.NewTicker(time.Duration(float64(time.Second) * dt))
	defer ticker.Stop()

	m.emit(domain.Event{Type: domain.EventMatchStarted, Tick: 0})
	m.scheduleVictoryPoll()
	// Стартовый пересчет, чтобы первый снапшот уже нес сетку.
	m.vis.Recompute(m.Store)
	m.flushEvents()
	m.broadcastSnapshots()

	for {
		select {
		case <-m.stopChan:
			logger.Log.WithField("match_id", m.ID).Info("Match loop stopped externally")
			return
		case <-ticker.C:
			started := time.Now()
			m.step(dt)
			if m.OnTick != nil {
				m.OnTick(m.ID, m.tick, time.Since(started))
			}
			if m.ended {
				return
			}
		}
	}
}

// Stop прерывает матч извне (остановка сервера).
func (m *Match) Stop() {
	close(m.stopChan)
	<-m.doneChan
}

// Done закрывается по завершении цикла матча.
func (m *Match) Done() <-chan struct{} {
	return m.doneChan
}

// Winner возвращает победителя (валиден после завершения).
func (m *Match) Winner() int { return m.winner }

// step - один тик. Порядок стадий фиксирован: команды, автоматы юнитов,
// захват, видимость, таймеры, события, снапшоты. Поздние стадии читают
// состояние, уже обновленное ранними.
func (m *Match) step(dt float64) {
	m.tick++

	m.drainLeaves()
	m.drainCommands()

	systems.AdvanceUnits(m.Store, m.Layout, m.behavior, dt, m.tick, m.emit)

	// Смена владельца точки триггерит немедленную проверку победы,
	// страховочный опрос закрывает остальные пути.
	if m.capture.Update(m.Store, dt, m.tick, m.emit) {
		m.checkVictory()
	}

	m.vis.Recompute(m.Store)
	m.timers.FireDue(m.tick)

	m.flushEvents()

	if m.ended || m.tick%m.broadcastEvery == 0 {
		m.broadcastSnapshots()
	}
}

func (m *Match) drainLeaves() {
	for {
		select {
		case connID := <-m.LeaveChan:
			m.handleLeave(connID)
		default:
			return
		}
	}
}

func (m *Match) drainCommands() {
	for {
		select {
		case cmd := <-m.CommandChan:
			m.executeCommand(cmd)
		default:
			return
		}
	}
}

// handleLeave - дисконнект во время матча. Команда без живых игроков
// сдает матч: ровно одно MATCH_ENDED, победа оставшейся команды.
func (m *Match) handleLeave(connID string) {
	p, ok := m.Players[connID]
	if !ok {
		return
	}
	delete(m.Players, connID)
	delete(m.lastVision, connID)

	logger.Log.WithFields(logrus.Fields{
		"match_id": m.ID,
		"conn_id":  connID,
		"team":     p.TeamID,
	}).Info("Player left mid-match")

	for _, other := range m.Players {
		if other.TeamID == p.TeamID {
			return // команда еще представлена
		}
	}
	m.endMatch(domain.OppositeTeam(p.TeamID), "forfeit")
}

// executeCommand выполняет команду в контексте матча.
func (m *Match) executeCommand(cmd domain.InternalCommand) {
	actor, ok := m.Players[cmd.ConnID]
	if !ok {
		return
	}

	if cmd.Action == domain.ActionAICommand {
		m.handleAICommand(cmd, actor)
		return
	}

	handler, ok := m.handlers[cmd.Action]
	if !ok {
		return
	}

	ctx := handlers.Context{
		Store:  m.Store,
		Layout: m.Layout,
		Actor:  actor,
		Tick:   m.tick,
		Emit:   m.emit,
	}

	result, err := handler(ctx, cmd.Payload)
	if err != nil {
		// Битый payload: ошибка формата уходит автору, матч не трогаем.
		m.sendError(cmd.ConnID, "BAD_PAYLOAD", err.Error())
		return
	}
	if result.Error != nil {
		// Происхождение важно для диагностики: отклоненный перевод -
		// дефект переводчика, а не кривой ввод игрока.
		logger.Log.WithFields(logrus.Fields{
			"match_id": m.ID,
			"conn_id":  cmd.ConnID,
			"action":   cmd.Action.String(),
			"source":   cmd.Source.String(),
			"code":     result.Error.Code,
		}).Debug("Command rejected")
		m.sendError(cmd.ConnID, result.Error.Code, result.Error.Message)
	}
}

// handleAICommand собирает срез обстановки глазами автора и отдает
// текст приказа на асинхронный перевод. Тик-цикл не ждет результата:
// переведенные команды вернутся в CommandChan обычным путем.
func (m *Match) handleAICommand(cmd domain.InternalCommand, actor *domain.Player) {
	if m.OnTranslate == nil {
		m.sendError(cmd.ConnID, "TRANSLATOR_DISABLED", "AI commands are not available")
		return
	}

	var p api.AICommandPayload
	if err := json.Unmarshal(cmd.Payload, &p); err != nil {
		m.sendError(cmd.ConnID, "BAD_PAYLOAD", "invalid AI command payload")
		return
	}
	if err := p.Validate(); err != nil {
		m.sendError(cmd.ConnID, "BAD_PAYLOAD", err.Error())
		return
	}

	// Переводчик видит ровно то, что видит автор приказа.
	snap, _ := BuildSnapshotFor(m.Store, m.vis, actor, m.tick, 0)
	m.OnTranslate(cmd.ConnID, agent.Request{
		Text:    p.Text,
		UnitIDs: p.UnitIDs,
		Team:    actor.TeamID,
		Units:   snap.Units,
		Points:  snap.Points,
	})
}

func (m *Match) sendError(connID, code, msg string) {
	m.Hub.SendEvent(connID, api.ServerMessage{
		Type:  api.MsgError,
		Error: &api.ErrorView{Code: code, Message: msg},
	})
}

func (m *Match) emit(ev domain.Event) {
	m.events = append(m.events, ev)
}

func (m *Match) scheduleVictoryPoll() {
	period := int64(m.cfg.VictoryPollSecs * float64(m.cfg.TickRate))
	if period < 1 {
		period = 1
	}
	var poll func(tick int64)
	poll = func(tick int64) {
		m.checkVictory()
		if !m.ended {
			m.timers.Schedule("victory-poll", tick+period, poll)
		}
	}
	m.timers.Schedule("victory-poll", m.tick+period, poll)
}

func (m *Match) checkVictory() {
	if m.ended {
		return
	}
	if winner, condition, ok := m.victory.Evaluate(m.Store); ok {
		m.endMatch(winner, condition)
	}
}

// endMatch фиксирует исход. Идемпотентен: повторный вызов - no-op,
// события победы и конца матча излучаются ровно один раз.
func (m *Match) endMatch(winner int, condition string) {
	if m.ended {
		return
	}
	m.ended = true
	m.winner = winner

	m.emit(domain.Event{
		Type:   domain.EventVictory,
		Tick:   m.tick,
		Winner: winner,
		Text:   condition,
	})
	m.emit(domain.Event{Type: domain.EventMatchEnded, Tick: m.tick, Winner: winner})

	if m.OnEnd != nil {
		m.OnEnd(m.ID, winner, condition, m.tick)
	}
}

// flushEvents переводит доменные события в DTO и рассылает всем
// участникам по гарантированному классу доставки.
func (m *Match) flushEvents() {
	if len(m.events) == 0 {
		return
	}
	queue := m.events
	m.events = nil

	now := time.Now().UnixMilli()
	for _, ev := range queue {
		view := &api.EventView{
			ID:        utils.GenerateID(),
			Type:      ev.Type.String(),
			Tick:      ev.Tick,
			UnitID:    ev.UnitID,
			PointID:   ev.PointID,
			Team:      ev.TeamID,
			Winner:    ev.Winner,
			Text:      ev.Text,
			Timestamp: now,
		}
		msg := api.ServerMessage{Type: api.MsgEvent, Event: view}
		for connID := range m.Players {
			m.Hub.SendEvent(connID, msg)
		}
		if m.OnEvent != nil {
			m.OnEvent(m.ID, ev)
		}
	}
}

// broadcastSnapshots шлет каждому участнику его персональный снимок.
func (m *Match) broadcastSnapshots() {
	for connID, p := range m.Players {
		snap, version := BuildSnapshotFor(m.Store, m.vis, p, m.tick, m.lastVision[connID])
		m.lastVision[connID] = version
		m.Hub.SendSnapshot(connID, api.ServerMessage{
			Type:     api.MsgSnapshot,
			Snapshot: snap,
		})
	}
}

func sortedPlayers(players map[string]*domain.Player) []*domain.Player {
	out := make([]*domain.Player, 0, len(players))
	for _, p := range players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ConnID < out[j].ConnID })
	return out
}
