package domain

import "frontline-server/pkg/geom"

// ControlPoint - захватываемая точка карты.
type ControlPoint struct {
	ID  string    `json:"id"`
	Pos geom.Vec2 `json:"pos"`

	// Value - стратегический вес точки для условий победы.
	Value int `json:"value"`

	// CaptureValue в [-1, +1]. Знак кодирует команду (TeamRed > 0),
	// модуль - насколько решительно. Контролирующая команда ВСЕГДА
	// выводится из этого скаляра и нигде не хранится отдельно,
	// поэтому рассинхрон производного состояния невозможен.
	CaptureValue float64 `json:"captureValue"`
}

// NewControlPoint создает нейтральную точку.
func NewControlPoint(id string, pos geom.Vec2, value int) *ControlPoint {
	return &ControlPoint{ID: id, Pos: pos, Value: value}
}

// Owner возвращает контролирующую команду.
// Контроль - только на краях диапазона; все, что строго между, спорно.
func (cp *ControlPoint) Owner() int {
	switch {
	case cp.CaptureValue >= 1.0:
		return TeamRed
	case cp.CaptureValue <= -1.0:
		return TeamBlue
	default:
		return TeamNone
	}
}

// Contested: точка между состояниями (идет перетягивание).
func (cp *ControlPoint) Contested() bool {
	return cp.CaptureValue > -1.0 && cp.CaptureValue < 1.0 && cp.CaptureValue != 0
}

// Progress - модуль capture value, для кольца прогресса на клиенте.
func (cp *ControlPoint) Progress() float64 {
	if cp.CaptureValue < 0 {
		return -cp.CaptureValue
	}
	return cp.CaptureValue
}

// Reset возвращает точку в нейтральное состояние (только сброс матча).
func (cp *ControlPoint) Reset() {
	cp.CaptureValue = 0
}
