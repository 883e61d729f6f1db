package engine

import (
	"encoding/json"
	"testing"

	"frontline-server/internal/config"
	"frontline-server/internal/domain"
	"frontline-server/internal/network"
	"frontline-server/pkg/api"
	"frontline-server/pkg/battlefield"
	"frontline-server/pkg/geom"
	"frontline-server/pkg/logger"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
)

func testSim() config.Simulation {
	return config.Simulation{
		TickRate:       20,
		BroadcastRate:  10,
		WorldWidth:     1600,
		WorldHeight:    1200,
		UnitsPerPlayer: 4,

		CaptureRate:   0.2,
		CaptureRadius: 120,

		MajorityPoints:  3,
		KeypointID:      "cp-center",
		KeypointQuota:   2,
		VictoryPollSecs: 5,

		RespawnDelay:  20,
		RespawnInvuln: 3,

		VisionCellSize:   32,
		CommandRateLimit: 100,
	}
}

func newTestMatch() (*Match, *network.Outbox, *network.Outbox) {
	hub := network.NewBroadcaster()
	redOut := hub.Register("conn-red")
	blueOut := hub.Register("conn-blue")

	players := map[string]*domain.Player{
		"conn-red":  {ConnID: "conn-red", Name: "Alice", TeamID: domain.TeamRed},
		"conn-blue": {ConnID: "conn-blue", Name: "Bob", TeamID: domain.TeamBlue},
	}
	layout := battlefield.Default(1600, 1200, domain.TeamRed, domain.TeamBlue)
	m := NewMatch("m-test", players, layout, testSim(), domain.DefaultArchetypes, hub)
	return m, redOut, blueOut
}

func drainEvents(out *network.Outbox) []api.ServerMessage {
	var msgs []api.ServerMessage
	for {
		select {
		case msg := <-out.Events:
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

func mustMarshal(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return raw
}

func TestMatchSpawnsRosters(t *testing.T) {
	m, _, _ := newTestMatch()

	if m.Store.UnitCount() != 8 {
		t.Fatalf("Expected 8 units (4 per player), got %d", m.Store.UnitCount())
	}
	for _, u := range m.Store.Units() {
		owner := m.Players[u.OwnerID]
		if owner == nil || owner.TeamID != u.TeamID {
			t.Errorf("Unit %s owner/team mismatch", u.ID)
		}
		if !m.Layout.Contains(u.Pos) {
			t.Errorf("Unit %s spawned outside the world", u.ID)
		}
	}
	if len(m.Store.Points()) != 5 {
		t.Errorf("Expected 5 control points, got %d", len(m.Store.Points()))
	}
}

func TestMoveCommandThroughPipeline(t *testing.T) {
	m, _, _ := newTestMatch()
	unit := m.Store.TeamUnits(domain.TeamRed)[0]
	start := unit.Pos

	m.CommandChan <- domain.InternalCommand{
		Action: domain.ActionMove,
		ConnID: "conn-red",
		Payload: mustMarshal(t, api.MovePayload{
			UnitIDs: []string{unit.ID},
			Target:  geom.Vec2{X: start.X + 200, Y: start.Y},
		}),
		Source: domain.SourceManual,
	}
	m.step(0.05)

	if unit.State != domain.StateMoving {
		t.Errorf("Expected Moving after move order, got %v", unit.State)
	}
	if unit.Pos == start {
		t.Error("Unit must advance on the same tick the order lands")
	}
}

func TestCommandOnForeignUnitRejected(t *testing.T) {
	m, redOut, _ := newTestMatch()
	enemy := m.Store.TeamUnits(domain.TeamBlue)[0]

	m.CommandChan <- domain.InternalCommand{
		Action: domain.ActionMove,
		ConnID: "conn-red",
		Payload: mustMarshal(t, api.MovePayload{
			UnitIDs: []string{enemy.ID},
			Target:  geom.Vec2{X: 100, Y: 100},
		}),
		Source: domain.SourceManual,
	}
	m.step(0.05)

	if enemy.State != domain.StateIdle {
		t.Error("Foreign unit must ignore the order")
	}
	msgs := drainEvents(redOut)
	found := false
	for _, msg := range msgs {
		if msg.Type == api.MsgError && msg.Error.Code == "NO_UNITS" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected NO_UNITS error for the author, got %v", msgs)
	}
}

func TestAttackFriendlyRejected(t *testing.T) {
	m, redOut, _ := newTestMatch()
	red := m.Store.TeamUnits(domain.TeamRed)

	m.CommandChan <- domain.InternalCommand{
		Action: domain.ActionAttack,
		ConnID: "conn-red",
		Payload: mustMarshal(t, api.AttackPayload{
			UnitIDs:  []string{red[0].ID},
			TargetID: red[1].ID,
		}),
		Source: domain.SourceManual,
	}
	m.step(0.05)

	if red[0].TargetID != "" {
		t.Error("Friendly fire order must not set a target")
	}
	msgs := drainEvents(redOut)
	if len(msgs) == 0 || msgs[0].Error == nil || msgs[0].Error.Code != "BAD_TARGET" {
		t.Errorf("Expected BAD_TARGET error, got %v", msgs)
	}
}

func TestRejectedCommandLogsSource(t *testing.T) {
	testLogger, hook := logrustest.NewNullLogger()
	testLogger.SetLevel(logrus.DebugLevel)
	orig := logger.Log
	logger.Log = testLogger
	defer func() { logger.Log = orig }()

	m, _, _ := newTestMatch()
	red := m.Store.TeamUnits(domain.TeamRed)

	// Отклоненный перевод: приказ атаковать своего.
	m.CommandChan <- domain.InternalCommand{
		Action: domain.ActionAttack,
		ConnID: "conn-red",
		Payload: mustMarshal(t, api.AttackPayload{
			UnitIDs:  []string{red[0].ID},
			TargetID: red[1].ID,
		}),
		Source: domain.SourceTranslator,
	}
	m.step(0.05)

	found := false
	for _, entry := range hook.AllEntries() {
		if entry.Message != "Command rejected" {
			continue
		}
		found = true
		if entry.Data["source"] != "TRANSLATOR" {
			t.Errorf("Rejection log must name the command source, got %v", entry.Data["source"])
		}
		if entry.Data["code"] != "BAD_TARGET" {
			t.Errorf("Rejection log must carry the error code, got %v", entry.Data["code"])
		}
	}
	if !found {
		t.Error("Expected a rejection log entry for the translated command")
	}
}

func TestForfeitOnLastTeammateLeave(t *testing.T) {
	m, redOut, _ := newTestMatch()

	m.LeaveChan <- "conn-blue"
	m.step(0.05)

	if !m.ended {
		t.Fatal("Match must end when a team loses its last player")
	}
	if m.Winner() != domain.TeamRed {
		t.Errorf("Expected Red forfeit win, got %d", m.Winner())
	}

	victories, ended := 0, 0
	for _, msg := range drainEvents(redOut) {
		if msg.Type != api.MsgEvent {
			continue
		}
		switch msg.Event.Type {
		case domain.EventVictory.String():
			victories++
			if msg.Event.Winner != domain.TeamRed {
				t.Errorf("Victory event winner mismatch: %d", msg.Event.Winner)
			}
		case domain.EventMatchEnded.String():
			ended++
		}
	}
	if victories != 1 || ended != 1 {
		t.Errorf("Expected exactly one VICTORY and one MATCH_ENDED, got %d/%d", victories, ended)
	}

	// Повторный шаг не излучает второй конец матча.
	m.step(0.05)
	if msgs := drainEvents(redOut); len(msgs) != 0 {
		for _, msg := range msgs {
			if msg.Type == api.MsgEvent && msg.Event.Type == domain.EventMatchEnded.String() {
				t.Error("MATCH_ENDED must be emitted exactly once")
			}
		}
	}
}

func TestSnapshotCadence(t *testing.T) {
	m, redOut, _ := newTestMatch()

	// tick_rate 20 / broadcast_rate 10: снапшот каждый второй тик.
	countSnapshots := func() int {
		n := 0
		for {
			select {
			case <-redOut.Snapshots:
				n++
			default:
				return n
			}
		}
	}

	m.step(0.05) // тик 1: без снапшота
	if got := countSnapshots(); got != 0 {
		t.Errorf("Expected no snapshot on odd tick, got %d", got)
	}
	m.step(0.05) // тик 2: снапшот
	if got := countSnapshots(); got != 1 {
		t.Errorf("Expected snapshot on even tick, got %d", got)
	}
}
