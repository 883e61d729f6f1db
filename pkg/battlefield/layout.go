package battlefield

import "frontline-server/pkg/geom"

// Генерация карт - внешний коллаборатор. Ядру от карты нужно немногое:
// границы проходимого мира, зоны спавна команд и места контрольных
// точек. Этот пакет описывает ровно этот контракт и дает статическую
// раскладку по умолчанию для матчей и тестов.

// PointSite - место и стратегический вес будущей контрольной точки.
type PointSite struct {
	ID    string    `json:"id"`
	Pos   geom.Vec2 `json:"pos"`
	Value int       `json:"value"`

	// Perimeter: точка входит в "периметр" для соответствующего
	// режима победы.
	Perimeter bool `json:"perimeter"`
}

// Layout - все, что ядро потребляет у генератора карт. Один раз при
// старте матча, никогда во время живой симуляции.
type Layout struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Points []PointSite `json:"points"`

	// Spawns: команда -> точки возрождения юнитов.
	Spawns map[int][]geom.Vec2 `json:"spawns"`
}

// Source поставляет раскладку карты.
// Процедурный генератор реализует этот же интерфейс снаружи.
type Source interface {
	Layout() Layout
}

// StaticSource - тривиальный Source поверх готовой раскладки.
type StaticSource struct {
	L Layout
}

func (s StaticSource) Layout() Layout { return s.L }

// Default возвращает симметричную раскладку "крест": центр с двойным
// весом, четыре периметровые точки, спавны команд по левому и правому
// краям. teamA/teamB - идентификаторы команд для зон спавна.
func Default(width, height float64, teamA, teamB int) Layout {
	cx, cy := width/2, height/2
	inX, inY := width*0.25, height*0.25

	return Layout{
		Width:  width,
		Height: height,
		Points: []PointSite{
			{ID: "cp-center", Pos: geom.Vec2{X: cx, Y: cy}, Value: 2},
			{ID: "cp-north", Pos: geom.Vec2{X: cx, Y: cy - inY}, Value: 1, Perimeter: true},
			{ID: "cp-south", Pos: geom.Vec2{X: cx, Y: cy + inY}, Value: 1, Perimeter: true},
			{ID: "cp-west", Pos: geom.Vec2{X: cx - inX, Y: cy}, Value: 1, Perimeter: true},
			{ID: "cp-east", Pos: geom.Vec2{X: cx + inX, Y: cy}, Value: 1, Perimeter: true},
		},
		Spawns: map[int][]geom.Vec2{
			teamA: {
				{X: width * 0.06, Y: cy - 60},
				{X: width * 0.06, Y: cy},
				{X: width * 0.06, Y: cy + 60},
				{X: width * 0.10, Y: cy},
			},
			teamB: {
				{X: width * 0.94, Y: cy - 60},
				{X: width * 0.94, Y: cy},
				{X: width * 0.94, Y: cy + 60},
				{X: width * 0.90, Y: cy},
			},
		},
	}
}

// SpawnFor возвращает i-ю точку спавна команды (с закольцовкой).
func (l Layout) SpawnFor(team, i int) geom.Vec2 {
	spawns := l.Spawns[team]
	if len(spawns) == 0 {
		return geom.Vec2{X: l.Width / 2, Y: l.Height / 2}
	}
	return spawns[i%len(spawns)]
}

// Contains: точка внутри проходимого мира.
func (l Layout) Contains(p geom.Vec2) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= l.Width && p.Y <= l.Height
}

// ClampInside прижимает точку к границам мира.
func (l Layout) ClampInside(p geom.Vec2) geom.Vec2 {
	return geom.Vec2{
		X: geom.Clamp(p.X, 0, l.Width),
		Y: geom.Clamp(p.Y, 0, l.Height),
	}
}
