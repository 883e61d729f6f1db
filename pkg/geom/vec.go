package geom

import "math"

// Vec2 - позиция или вектор в мировых координатах (непрерывных, не тайловых).
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add возвращает сумму векторов.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub возвращает разность векторов.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale возвращает вектор, умноженный на скаляр.
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }

// Len возвращает длину вектора.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// DistanceTo возвращает евклидово расстояние до другой точки.
func (v Vec2) DistanceTo(o Vec2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// AngleTo возвращает угол (в радианах) от этой точки к другой.
func (v Vec2) AngleTo(o Vec2) float64 {
	return math.Atan2(o.Y-v.Y, o.X-v.X)
}

// Normalized возвращает единичный вектор того же направления.
// Нулевой вектор остается нулевым.
func (v Vec2) Normalized() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Lerp - линейная интерполяция между a и b. t зажимается в [0,1].
func Lerp(a, b Vec2, t float64) Vec2 {
	t = Clamp(t, 0, 1)
	return Vec2{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// LerpAngle интерполирует угол по кратчайшей дуге.
// Нужно для плавного поворота юнитов на клиенте: 350° -> 10° должно
// пройти через 0°, а не через 180°.
func LerpAngle(a, b, t float64) float64 {
	t = Clamp(t, 0, 1)
	diff := NormalizeAngle(b - a)
	return NormalizeAngle(a + diff*t)
}

// NormalizeAngle приводит угол к диапазону (-Pi, Pi].
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// Clamp зажимает v в диапазон [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MoveTowards сдвигает from к to не более чем на maxStep.
// Если цель ближе maxStep - возвращает цель (без перелета).
func MoveTowards(from, to Vec2, maxStep float64) Vec2 {
	delta := to.Sub(from)
	dist := delta.Len()
	if dist <= maxStep || dist == 0 {
		return to
	}
	return from.Add(delta.Scale(maxStep / dist))
}
