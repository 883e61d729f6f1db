package agent

import (
	"encoding/json"
	"math"

	"frontline-server/internal/network"
	"frontline-server/pkg/api"
	"frontline-server/pkg/geom"
	"frontline-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// CommandSink - то, куда бот отправляет команды. В проде это GameService,
// в тестах - заглушка. Интерфейс разрывает цикл импортов с движком.
type CommandSink interface {
	ProcessCommand(connID string, cmd api.ClientCommand)
}

// Bot - "игрок-компьютер" (headless agent). Это пример ВНЕШНЕГО клиента:
// он регистрируется в хабе как обычное соединение, собирает теневую
// копию мира из снапшотов и на ее основе отправляет команды обратно.
//
// Жизненный цикл:
//  1. NewBot -> регистрация в хабе, получение личного Outbox.
//  2. Run -> в отдельной горутине слушает оба класса доставки.
//  3. Лобби: один раз JOIN, затем READY.
//  4. Матч: каждые decideEvery снапшотов вызывается decide.
type Bot struct {
	ConnID string
	Name   string

	sink  CommandSink
	inbox *network.Outbox
	world *ShadowWorld

	joined    bool
	snapshots int
}

// Сколько снапшотов пропускать между решениями. Бот нарочно "думает"
// медленнее тикрейта, чтобы не затапливать конвейер команд.
const decideEvery = 5

func NewBot(connID, name string, sink CommandSink, inbox *network.Outbox) *Bot {
	return &Bot{
		ConnID: connID,
		Name:   name,
		sink:   sink,
		inbox:  inbox,
		world:  NewShadowWorld(),
	}
}

// Run запускает цикл жизни бота. Должен быть запущен в горутине.
// Завершается, когда хаб закрывает каналы бота (дисконнект).
func (b *Bot) Run() {
	b.sendJoin()

	for {
		select {
		case msg, ok := <-b.inbox.Events:
			if !ok {
				logger.Log.WithField("bot", b.ConnID).Info("Bot shut down")
				return
			}
			b.handleMessage(msg)

		case msg, ok := <-b.inbox.Snapshots:
			if !ok {
				logger.Log.WithField("bot", b.ConnID).Info("Bot shut down")
				return
			}
			b.handleMessage(msg)
		}
	}
}

func (b *Bot) handleMessage(msg api.ServerMessage) {
	switch msg.Type {
	case api.MsgLobby:
		if msg.Lobby == nil || msg.Lobby.State != api.StateLobby {
			return
		}
		if b.world.Tick > 0 {
			// Вернулись из матча: тень устарела, следующий матч начнется с нуля.
			b.world = NewShadowWorld()
			b.snapshots = 0
		}
		for _, p := range msg.Lobby.Players {
			if p.ID == b.ConnID && !p.Ready {
				b.sendCommand("READY", nil)
			}
		}

	case api.MsgSnapshot:
		if !b.world.ApplySnapshot(msg.Snapshot) {
			return
		}
		b.snapshots++
		if b.snapshots%decideEvery == 0 {
			b.decide()
		}

	case api.MsgEvent:
		b.world.ApplyEvent(msg.Event)

	case api.MsgError:
		if msg.Error != nil {
			logger.Log.WithFields(logrus.Fields{
				"bot":  b.ConnID,
				"code": msg.Error.Code,
			}).Debug("Bot command rejected")
		}
	}
}

// decide - мозг бота. Сценарий простой: если виден враг, все юниты
// атакуют ближайшего к центру масс; иначе идут к ближайшей точке,
// которой команда еще не владеет.
func (b *Bot) decide() {
	mine := b.world.MyUnits()
	if len(mine) == 0 {
		return
	}

	var ids []string
	center := geom.Vec2{}
	for _, u := range mine {
		ids = append(ids, u.ID)
		center.X += u.Pos.X
		center.Y += u.Pos.Y
	}
	center.X /= float64(len(mine))
	center.Y /= float64(len(mine))

	if enemy := b.nearestEnemy(center); enemy != nil {
		b.sendCommand("ATTACK", api.AttackPayload{UnitIDs: ids, TargetID: enemy.ID})
		return
	}

	if point := b.nearestUnownedPoint(center); point != nil {
		b.sendCommand("MOVE", api.MovePayload{UnitIDs: ids, Target: point.Pos})
	}
}

func (b *Bot) nearestEnemy(from geom.Vec2) *ShadowUnit {
	var best *ShadowUnit
	bestDist := math.MaxFloat64
	for _, u := range b.world.VisibleEnemies() {
		if u.State == "DEAD" {
			continue
		}
		if d := from.DistanceTo(u.Pos); d < bestDist {
			best, bestDist = u, d
		}
	}
	return best
}

func (b *Bot) nearestUnownedPoint(from geom.Vec2) *ShadowPoint {
	var best *ShadowPoint
	bestDist := math.MaxFloat64
	for _, p := range b.world.Points {
		if p.Owner == b.world.MyTeam {
			continue
		}
		if d := from.DistanceTo(p.Pos); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

func (b *Bot) sendJoin() {
	if b.joined {
		return
	}
	b.joined = true
	b.sendCommand("JOIN", api.JoinPayload{Name: b.Name})
}

func (b *Bot) sendCommand(action string, payload interface{}) {
	cmd := api.ClientCommand{Action: action, Token: b.ConnID}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			logger.Log.WithError(err).WithField("bot", b.ConnID).Error("Failed to marshal bot payload")
			return
		}
		cmd.Payload = raw
	}

	b.sink.ProcessCommand(b.ConnID, cmd)
}
