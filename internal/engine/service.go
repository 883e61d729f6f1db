package engine

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"frontline-server/internal/agent"
	"frontline-server/internal/config"
	"frontline-server/internal/domain"
	"frontline-server/internal/network"
	"frontline-server/pkg/api"
	"frontline-server/pkg/battlefield"
	"frontline-server/pkg/logger"
	"frontline-server/pkg/utils"

	"github.com/sirupsen/logrus"
)

// GameService - внешняя граница движка: принимает команды соединений,
// ведет лобби и жизненный цикл матчей. Симуляцию не трогает напрямую,
// только через каналы матча.
type GameService struct {
	Hub *network.Broadcaster

	mu      sync.Mutex
	state   string // LOBBY | IN_MATCH
	players map[string]*domain.Player
	teams   map[int]*domain.Team
	match   *Match

	sim        config.Simulation
	archetypes map[string]domain.Archetype
	source     battlefield.Source
	dispatcher *agent.Dispatcher // nil, если переводчик не настроен

	limiters map[string]*rateLimiter
	matchSeq int

	// Хуки наблюдателей, пробрасываются в каждый матч.
	OnMatchStart func(matchID string, playerNames map[string]string)
	OnMatchEvent func(matchID string, ev domain.Event)
	OnMatchEnd   func(matchID string, winner int, condition string, tick int64)
	OnMatchTick  func(matchID string, tick int64, elapsed time.Duration)
}

func NewService(sim config.Simulation, archetypes map[string]domain.Archetype, source battlefield.Source, dispatcher *agent.Dispatcher) *GameService {
	s := &GameService{
		Hub:        network.NewBroadcaster(),
		state:      api.StateLobby,
		players:    make(map[string]*domain.Player),
		teams:      make(map[int]*domain.Team),
		sim:        sim,
		archetypes: archetypes,
		source:     source,
		dispatcher: dispatcher,
		limiters:   make(map[string]*rateLimiter),
	}
	for _, id := range []int{domain.TeamRed, domain.TeamBlue} {
		s.teams[id] = &domain.Team{ID: id}
	}
	s.Hub.OnSlowClient(s.HandleDisconnect)
	return s
}

// ProcessCommand принимает команду от внешнего мира (WebSocket).
// ConnID уже аутентифицирован транспортом.
func (s *GameService) ProcessCommand(connID string, external api.ClientCommand) {
	action := domain.ParseAction(external.Action)
	if action == domain.ActionUnknown {
		s.sendError(connID, "UNKNOWN_ACTION", "unknown action: "+external.Action)
		return
	}

	if !s.allow(connID) {
		s.sendError(connID, "RATE_LIMITED", "too many commands")
		return
	}

	switch action {
	case domain.ActionJoin:
		var p api.JoinPayload
		if err := json.Unmarshal(external.Payload, &p); err != nil || p.Validate() != nil {
			s.sendError(connID, "BAD_PAYLOAD", "invalid join payload")
			return
		}
		s.handleJoin(connID, p.Name)

	case domain.ActionReady:
		s.handleReady(connID)

	default:
		s.forwardToMatch(connID, domain.InternalCommand{
			Action:  action,
			ConnID:  connID,
			Payload: external.Payload,
			Source:  domain.SourceManual,
		})
	}
}

// forwardToMatch кладет команду в канал активного матча.
func (s *GameService) forwardToMatch(connID string, cmd domain.InternalCommand) {
	s.mu.Lock()
	match := s.match
	inMatch := s.state == api.StateInMatch
	_, known := s.players[connID]
	s.mu.Unlock()

	if !known {
		s.sendError(connID, "NOT_JOINED", "join the lobby first")
		return
	}
	if !inMatch || match == nil {
		s.sendError(connID, "NOT_IN_MATCH", "no active match")
		return
	}

	select {
	case match.CommandChan <- cmd:
	default:
		// Канал команд забит: матч захлебывается, команду честно отклоняем.
		s.sendError(connID, "BUSY", "server is overloaded, retry")
	}
}

// injectTranslated возвращает переведенную команду в обычный конвейер.
// Автор мог отключиться, пока переводчик думал, - тогда результат
// молча выбрасывается.
func (s *GameService) injectTranslated(connID string, cmd api.ClientCommand) {
	s.mu.Lock()
	_, connected := s.players[connID]
	s.mu.Unlock()
	if !connected {
		logger.Log.WithField("conn_id", connID).Debug("Discarding translation for disconnected player")
		return
	}

	action := domain.ParseAction(cmd.Action)
	switch action {
	case domain.ActionMove, domain.ActionAttack, domain.ActionStop, domain.ActionFormation:
	default:
		// Переводчику доступны только боевые приказы.
		logger.Log.WithFields(logrus.Fields{
			"conn_id": connID,
			"action":  cmd.Action,
		}).Warn("Translator produced a non-combat action, dropping")
		return
	}

	s.forwardToMatch(connID, domain.InternalCommand{
		Action:  action,
		ConnID:  connID,
		Payload: cmd.Payload,
		Source:  domain.SourceTranslator,
	})
}

// HandleDisconnect - обрыв соединения. В лобби игрок просто исчезает,
// в матче его уход обрабатывает тик-цикл (возможна сдача матча).
func (s *GameService) HandleDisconnect(connID string) {
	s.mu.Lock()
	p, ok := s.players[connID]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.players, connID)
	delete(s.limiters, connID)
	if team, found := s.teams[p.TeamID]; found {
		team.RemovePlayer(connID)
	}
	// Выживший напарник теряет связку: висячая ссылка на ушедшего
	// иначе жила бы в каждом следующем LobbyView.
	for _, other := range s.players {
		if other.PartnerID == connID {
			other.PartnerID = ""
		}
	}
	match := s.match
	inMatch := s.state == api.StateInMatch
	s.mu.Unlock()

	s.Hub.Unregister(connID)

	logger.Log.WithFields(logrus.Fields{
		"conn_id": connID,
		"name":    p.Name,
	}).Info("Player disconnected")

	if inMatch && match != nil {
		// Неблокирующая отправка: этот метод может быть вызван из самого
		// тик-цикла (отключение не вычитывающего события клиента).
		select {
		case match.LeaveChan <- connID:
		default:
			go func() {
				select {
				case match.LeaveChan <- connID:
				case <-match.Done():
				}
			}()
		}
		return
	}
	s.broadcastLobby()
}

// Shutdown останавливает активный матч (graceful shutdown сервера).
func (s *GameService) Shutdown() {
	s.mu.Lock()
	match := s.match
	s.mu.Unlock()
	if match != nil {
		match.Stop()
	}
}

func (s *GameService) sendError(connID, code, msg string) {
	s.Hub.SendEvent(connID, api.ServerMessage{
		Type:  api.MsgError,
		Error: &api.ErrorView{Code: code, Message: msg},
	})
}

// --- Ограничение частоты команд ---

type rateLimiter struct {
	limit       int
	count       int
	windowStart time.Time
}

// allow реализует скользящее окно в одну секунду.
func (s *GameService) allow(connID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rl, ok := s.limiters[connID]
	if !ok {
		rl = &rateLimiter{limit: s.sim.CommandRateLimit, windowStart: time.Now()}
		s.limiters[connID] = rl
	}
	if rl.limit <= 0 {
		return true
	}

	now := time.Now()
	if now.Sub(rl.windowStart) >= time.Second {
		rl.windowStart = now
		rl.count = 0
	}
	rl.count++
	return rl.count <= rl.limit
}

func (s *GameService) nextMatchID() string {
	s.matchSeq++
	return fmt.Sprintf("m%d-%s", s.matchSeq, utils.GenerateID())
}
