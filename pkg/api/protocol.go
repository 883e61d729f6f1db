package api

import (
	"encoding/json"

	"frontline-server/pkg/geom"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// Типы сообщений сервера.
const (
	MsgSnapshot = "SNAPSHOT"
	MsgEvent    = "EVENT"
	MsgLobby    = "LOBBY"
	MsgError    = "ERROR"
)

// ServerMessage это корневой объект, который сервер отправляет клиенту.
// Снапшоты идут по "быстрому" классу доставки (допустима потеря: следующий
// снапшот самокорректирует картину), события - по гарантированному.
type ServerMessage struct {
	Type string `json:"type"`

	Snapshot *Snapshot  `json:"snapshot,omitempty"`
	Event    *EventView `json:"event,omitempty"`
	Lobby    *LobbyView `json:"lobby,omitempty"`
	Error    *ErrorView `json:"error,omitempty"`
}

// Snapshot это персональный "снимок" мира для конкретного наблюдателя.
// Содержит ТОЛЬКО то, что команда наблюдателя имеет право видеть.
type Snapshot struct {
	// Tick номер тика симуляции, на котором собран снимок.
	Tick int64 `json:"tick"`

	// ServerTime серверное время (unix ms) для оценки задержки клиентом.
	ServerTime int64 `json:"serverTime"`

	// MyTeam команда наблюдателя (1 или 2).
	MyTeam int `json:"myTeam"`

	// Units видимые юниты. Свои - всегда и полностью,
	// чужие - только попавшие в зону видимости, с урезанными полями.
	Units []UnitView `json:"units"`

	// Points все контрольные точки (их позиции - публичная информация).
	Points []ControlPointView `json:"points"`

	// Vision сетка видимости команды наблюдателя для отрисовки тумана войны.
	// Присылается только когда сетка реально изменилась (см. Version).
	Vision *VisionGridView `json:"vision,omitempty"`
}

// UnitView это DTO одного юнита.
// Поля с omitempty заполняются только для юнитов своей команды.
type UnitView struct {
	ID        string `json:"id"`
	Team      int    `json:"team"`
	Owner     string `json:"owner,omitempty"`
	Archetype string `json:"archetype"`

	Pos     geom.Vec2 `json:"pos"`
	Heading float64   `json:"heading"`

	Health    int    `json:"health"`
	MaxHealth int    `json:"maxHealth"`
	State     string `json:"state"`

	// TargetID и Plan - приватная информация владельца
	// (чужим не видно, кого юнит атакует и какой у него приказ).
	TargetID string `json:"targetId,omitempty"`
	Plan     string `json:"plan,omitempty"`

	Invulnerable bool `json:"invulnerable,omitempty"`
	Stealthed    bool `json:"stealthed,omitempty"`
}

// ControlPointView это DTO контрольной точки.
type ControlPointView struct {
	ID    string    `json:"id"`
	Pos   geom.Vec2 `json:"pos"`
	Value int       `json:"value"`

	// Owner - производное состояние: 0 нейтральна, 1 или 2 - команда.
	Owner int `json:"owner"`

	// Progress = abs(captureValue), для кольца прогресса на клиенте.
	Progress float64 `json:"progress"`

	Contested bool `json:"contested"`
}

// VisionGridView это DTO сетки видимости (туман войны).
// Cells - построчно упакованные биты (1 = клетка видна), base64 в JSON.
type VisionGridView struct {
	CellSize float64 `json:"cellSize"`
	Cols     int     `json:"cols"`
	Rows     int     `json:"rows"`
	Version  uint64  `json:"version"`
	Cells    []byte  `json:"cells"`
}

// EventView это DTO доменного события (смерть, захват, победа).
// События доставляются гарантированно и по порядку.
type EventView struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Tick int64  `json:"tick"`

	UnitID  string `json:"unitId,omitempty"`
	PointID string `json:"pointId,omitempty"`
	Team    int    `json:"team,omitempty"`
	Winner  int    `json:"winner,omitempty"`
	Text    string `json:"text,omitempty"`

	Timestamp int64 `json:"timestamp"` // Unix milliseconds
}

// Состояния сессии.
const (
	StateLobby   = "LOBBY"
	StateInMatch = "IN_MATCH"
)

// LobbyView это DTO состояния лобби (до и между матчами).
type LobbyView struct {
	State    string       `json:"state"` // LOBBY, IN_MATCH
	Players  []PlayerView `json:"players"`
	CanStart bool         `json:"canStart"`
}

// PlayerView это DTO участника лобби.
type PlayerView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Team    int    `json:"team"`
	Ready   bool   `json:"ready"`
	Partner string `json:"partner,omitempty"`
}

// ErrorView это DTO некритичной ошибки, адресованной конкретному игроку
// (отклоненная команда, недоступный AI-переводчик и т.п.).
type ErrorView struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Token ID соединения/игрока, от имени которого выполняется действие.
	// Обязателен только для первого сообщения (JOIN).
	Token string `json:"token,omitempty"`

	// Action название действия. См. domain.ParseAction.
	Action string `json:"action"`

	// Payload JSON-объект с данными. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload"`
}

// --- Payloads ---

// JoinPayload - заявка на вход в лобби.
type JoinPayload struct {
	Name string `json:"name"`
}

// MovePayload - приказ на перемещение выбранных юнитов в точку.
type MovePayload struct {
	UnitIDs []string  `json:"unitIds"`
	Target  geom.Vec2 `json:"target"`
}

// AttackPayload - приказ атаковать конкретную цель.
type AttackPayload struct {
	UnitIDs  []string `json:"unitIds"`
	TargetID string   `json:"targetId"`
}

// StopPayload - приказ остановиться (сброс цели и маршрута).
type StopPayload struct {
	UnitIDs []string `json:"unitIds"`
}

// FormationPayload - построение выбранных юнитов вокруг точки.
type FormationPayload struct {
	UnitIDs []string  `json:"unitIds"`
	Layout  string    `json:"layout"` // line, wedge, circle
	Center  geom.Vec2 `json:"center"`
}

// AICommandPayload - свободный текст для AI-переводчика команд.
// Результат перевода вернется в конвейер как обычные структурные команды.
type AICommandPayload struct {
	Text    string   `json:"text"`
	UnitIDs []string `json:"unitIds"`
}
