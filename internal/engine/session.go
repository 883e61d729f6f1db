package engine

import (
	"frontline-server/internal/agent"
	"frontline-server/internal/domain"
	"frontline-server/pkg/api"
	"frontline-server/pkg/battlefield"
	"frontline-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Лобби и жизненный цикл матча. Вся сессионная логика под s.mu;
// симуляция живет в горутине матча и сюда не заглядывает.

// handleJoin сажает игрока в команду с наименьшей заполненностью.
func (s *GameService) handleJoin(connID, name string) {
	s.mu.Lock()

	if s.state != api.StateLobby {
		s.mu.Unlock()
		s.sendError(connID, "MATCH_IN_PROGRESS", "cannot join while a match is running")
		return
	}
	if _, exists := s.players[connID]; exists {
		s.mu.Unlock()
		s.sendError(connID, "ALREADY_JOINED", "already in the lobby")
		return
	}

	team := s.pickTeamLocked()
	if team == nil {
		s.mu.Unlock()
		s.sendError(connID, "LOBBY_FULL", "both teams are full")
		return
	}

	p := &domain.Player{ConnID: connID, Name: name, TeamID: team.ID}
	s.players[connID] = p
	team.Players = append(team.Players, connID)

	// Связываем напарников внутри команды.
	for _, otherID := range team.Players {
		if otherID == connID {
			continue
		}
		if other, ok := s.players[otherID]; ok {
			other.PartnerID = connID
			p.PartnerID = otherID
		}
	}
	s.mu.Unlock()

	logger.Log.WithFields(logrus.Fields{
		"conn_id": connID,
		"name":    name,
		"team":    p.TeamID,
	}).Info("Player joined lobby")

	s.broadcastLobby()
}

// pickTeamLocked выбирает команду с местом и меньшим составом.
// При равенстве предпочтение красным (детерминированно).
func (s *GameService) pickTeamLocked() *domain.Team {
	var best *domain.Team
	for _, id := range []int{domain.TeamRed, domain.TeamBlue} {
		team := s.teams[id]
		if !team.HasRoom() {
			continue
		}
		if best == nil || len(team.Players) < len(best.Players) {
			best = team
		}
	}
	return best
}

// handleReady помечает игрока готовым; когда готовы все и обе команды
// представлены, матч стартует.
func (s *GameService) handleReady(connID string) {
	s.mu.Lock()
	p, ok := s.players[connID]
	if !ok || s.state != api.StateLobby {
		s.mu.Unlock()
		s.sendError(connID, "NOT_IN_LOBBY", "ready is only valid in the lobby")
		return
	}
	p.Ready = true
	start := s.canStartLocked()
	s.mu.Unlock()

	s.broadcastLobby()
	if start {
		s.startMatch()
	}
}

func (s *GameService) canStartLocked() bool {
	if s.state != api.StateLobby || len(s.players) == 0 {
		return false
	}
	perTeam := make(map[int]int)
	for _, p := range s.players {
		if !p.Ready {
			return false
		}
		perTeam[p.TeamID]++
	}
	return perTeam[domain.TeamRed] > 0 && perTeam[domain.TeamBlue] > 0
}

// startMatch создает и запускает матч с текущим составом лобби.
func (s *GameService) startMatch() {
	s.mu.Lock()
	if s.state != api.StateLobby || !s.canStartLocked() {
		s.mu.Unlock()
		return
	}

	layout := s.source.Layout()
	participants := make(map[string]*domain.Player, len(s.players))
	for id, p := range s.players {
		participants[id] = p
	}

	match := NewMatch(s.nextMatchID(), participants, layout, s.sim, s.archetypes, s.Hub)
	match.OnEvent = s.OnMatchEvent
	match.OnEnd = s.OnMatchEnd
	match.OnTick = s.OnMatchTick
	if s.dispatcher != nil {
		match.OnTranslate = func(connID string, req agent.Request) {
			s.dispatcher.Submit(connID, req,
				func(cmd api.ClientCommand) { s.injectTranslated(connID, cmd) },
				func(code, msg string) { s.sendError(connID, code, msg) })
		}
	}

	s.match = match
	s.state = api.StateInMatch
	s.mu.Unlock()

	logger.Log.WithFields(logrus.Fields{
		"match_id": match.ID,
		"players":  len(participants),
	}).Info("Match starting")

	if s.OnMatchStart != nil {
		names := make(map[string]string, len(participants))
		for id, p := range participants {
			names[id] = p.Name
		}
		s.OnMatchStart(match.ID, names)
	}

	go match.Run()
	go s.watchMatch(match)
	s.broadcastLobby()
}

// watchMatch возвращает выживших в лобби после конца матча.
func (s *GameService) watchMatch(match *Match) {
	<-match.Done()

	s.mu.Lock()
	if s.match == match {
		s.match = nil
		s.state = api.StateLobby
	}
	for _, p := range s.players {
		p.Ready = false
	}
	s.mu.Unlock()

	logger.Log.WithFields(logrus.Fields{
		"match_id": match.ID,
		"winner":   match.Winner(),
	}).Info("Match finished, players returned to lobby")

	s.broadcastLobby()
}

// broadcastLobby шлет всем актуальное состояние лобби
// (гарантированный класс доставки).
func (s *GameService) broadcastLobby() {
	s.mu.Lock()
	view := s.lobbyViewLocked()
	ids := make([]string, 0, len(s.players))
	for id := range s.players {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	msg := api.ServerMessage{Type: api.MsgLobby, Lobby: view}
	for _, id := range ids {
		s.Hub.SendEvent(id, msg)
	}
}

func (s *GameService) lobbyViewLocked() *api.LobbyView {
	view := &api.LobbyView{
		State:    s.state,
		Players:  make([]api.PlayerView, 0, len(s.players)),
		CanStart: s.canStartLocked(),
	}
	for _, p := range sortedPlayers(s.players) {
		view.Players = append(view.Players, api.PlayerView{
			ID:      p.ConnID,
			Name:    p.Name,
			Team:    p.TeamID,
			Ready:   p.Ready,
			Partner: p.PartnerID,
		})
	}
	return view
}

// Source выдает источник раскладки (для отладочных ручек).
func (s *GameService) Source() battlefield.Source {
	return s.source
}

// State возвращает текущее состояние сессии.
func (s *GameService) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentMatch возвращает активный матч, либо nil.
func (s *GameService) CurrentMatch() *Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.match
}
