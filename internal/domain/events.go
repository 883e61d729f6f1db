package domain

// EventType - внутренний числовой идентификатор доменного события.
type EventType uint8

const (
	EventUnknown EventType = iota
	EventMatchStarted
	EventMatchEnded
	EventUnitDied
	EventPointCaptured
	EventPointNeutralized
	EventVictory
)

// Маппинг для логов и DTO Domain -> String
var eventToString = map[EventType]string{
	EventMatchStarted:     "MATCH_STARTED",
	EventMatchEnded:       "MATCH_ENDED",
	EventUnitDied:         "UNIT_DIED",
	EventPointCaptured:    "POINT_CAPTURED",
	EventPointNeutralized: "POINT_NEUTRALIZED",
	EventVictory:          "VICTORY",
}

// String реализует интерфейс Stringer.
func (e EventType) String() string {
	if v, ok := eventToString[e]; ok {
		return v
	}
	return "UNKNOWN"
}

// Event - одно доменное событие симуляции.
// События складываются в очередь матча и осушаются синхронно в
// фиксированной точке тика: порядок доставки детерминирован.
type Event struct {
	Type EventType
	Tick int64

	UnitID  string // UNIT_DIED
	PointID string // POINT_CAPTURED / POINT_NEUTRALIZED
	TeamID  int    // захватившая команда, либо бывший владелец при нейтрализации
	Winner  int    // VICTORY / MATCH_ENDED
	Text    string
}
