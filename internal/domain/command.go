package domain

import (
	"encoding/json"
	"strings"
)

// ActionType - внутренний числовой идентификатор действия.
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionJoin
	ActionReady
	ActionMove
	ActionAttack
	ActionStop
	ActionFormation
	ActionAICommand
)

// Маппинг для конвертации JSON -> Domain
var actionStringToCmd = map[string]ActionType{
	"JOIN":       ActionJoin,
	"READY":      ActionReady,
	"MOVE":       ActionMove,
	"ATTACK":     ActionAttack,
	"STOP":       ActionStop,
	"FORMATION":  ActionFormation,
	"AI_COMMAND": ActionAICommand,
}

// Маппинг для логов Domain -> String
var actionCmdToString = map[ActionType]string{
	ActionJoin:      "JOIN",
	ActionReady:     "READY",
	ActionMove:      "MOVE",
	ActionAttack:    "ATTACK",
	ActionStop:      "STOP",
	ActionFormation: "FORMATION",
	ActionAICommand: "AI_COMMAND",
}

// ParseAction конвертирует строку из JSON в ActionType.
func ParseAction(s string) ActionType {
	// Нечувствительность к регистру для надежности
	if val, ok := actionStringToCmd[strings.ToUpper(s)]; ok {
		return val
	}
	return ActionUnknown
}

// String реализует интерфейс Stringer.
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}

// CommandSource - происхождение команды (для логов и лимитов).
type CommandSource uint8

const (
	SourceManual CommandSource = iota
	SourceTranslator
)

var sourceToString = map[CommandSource]string{
	SourceManual:     "MANUAL",
	SourceTranslator: "TRANSLATOR",
}

// String реализует интерфейс Stringer.
func (s CommandSource) String() string {
	if v, ok := sourceToString[s]; ok {
		return v
	}
	return "UNKNOWN"
}

// InternalCommand - оптимизированная команда для движка.
// Сетевой слой и AI-переводчик только кладут такие команды в очередь;
// применяет их исключительно тик-цикл.
type InternalCommand struct {
	Action  ActionType
	ConnID  string // ID соединения, от имени которого выполняется действие
	Payload json.RawMessage
	Source  CommandSource
}
