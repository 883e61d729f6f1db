package systems

import (
	"frontline-server/internal/domain"
	"frontline-server/pkg/geom"
)

// VisionGrid - сетка занятости/видимости одной команды.
// Полный пересчет каждый апдейт: размер карты и разрешение сетки
// ограничены, простота корректности важнее экономии CPU.
type VisionGrid struct {
	CellSize float64
	Cols     int
	Rows     int

	cells   []bool
	scratch []bool
	version uint64
}

// NewVisionGrid создает пустую (ничего не видно) сетку под мир w x h.
func NewVisionGrid(w, h, cellSize float64) *VisionGrid {
	cols := int(w/cellSize) + 1
	rows := int(h/cellSize) + 1
	return &VisionGrid{
		CellSize: cellSize,
		Cols:     cols,
		Rows:     rows,
		cells:    make([]bool, cols*rows),
		scratch:  make([]bool, cols*rows),
	}
}

// Version растет на каждом пересчете, реально изменившем сетку.
// Протокол шлет сетку клиенту только при смене версии.
func (g *VisionGrid) Version() uint64 { return g.version }

// Recompute перестраивает сетку по живым юнитам команды team:
// диск радиуса обзора каждого юнита помечается видимым.
// Окклюзии/line-of-sight по контракту ядра нет; слой с ней можно
// добавить, не меняя интерфейс.
func (g *VisionGrid) Recompute(store *domain.Store, team int) {
	for i := range g.scratch {
		g.scratch[i] = false
	}

	for _, u := range store.TeamUnits(team) {
		if !u.Alive() {
			continue
		}
		g.markDisk(u.Pos, u.Archetype.VisionRange)
	}

	// Детектор материального изменения для экономии трафика.
	dirty := false
	for i := range g.cells {
		if g.cells[i] != g.scratch[i] {
			dirty = true
			break
		}
	}
	if dirty {
		g.cells, g.scratch = g.scratch, g.cells
		g.version++
	}
}

func (g *VisionGrid) markDisk(center geom.Vec2, radius float64) {
	minCol := int((center.X - radius) / g.CellSize)
	maxCol := int((center.X + radius) / g.CellSize)
	minRow := int((center.Y - radius) / g.CellSize)
	maxRow := int((center.Y + radius) / g.CellSize)

	for row := max(minRow, 0); row <= maxRow && row < g.Rows; row++ {
		for col := max(minCol, 0); col <= maxCol && col < g.Cols; col++ {
			// Видимость считаем по центру клетки.
			cx := (float64(col) + 0.5) * g.CellSize
			cy := (float64(row) + 0.5) * g.CellSize
			if center.DistanceTo(geom.Vec2{X: cx, Y: cy}) <= radius {
				g.scratch[row*g.Cols+col] = true
			}
		}
	}
}

// VisibleAt: видна ли команде точка мира p.
func (g *VisionGrid) VisibleAt(p geom.Vec2) bool {
	col := int(p.X / g.CellSize)
	row := int(p.Y / g.CellSize)
	if col < 0 || row < 0 || col >= g.Cols || row >= g.Rows {
		return false
	}
	return g.cells[row*g.Cols+col]
}

// PackCells упаковывает сетку построчно в биты для DTO (base64 в JSON).
func (g *VisionGrid) PackCells() []byte {
	out := make([]byte, (len(g.cells)+7)/8)
	for i, v := range g.cells {
		if v {
			out[i/8] |= 1 << (i % 8)
		}
	}
	return out
}

// VisibilityEngine держит по сетке на команду.
type VisibilityEngine struct {
	grids map[int]*VisionGrid
}

// NewVisibilityEngine создает сетки для обеих команд.
func NewVisibilityEngine(w, h, cellSize float64) *VisibilityEngine {
	return &VisibilityEngine{
		grids: map[int]*VisionGrid{
			domain.TeamRed:  NewVisionGrid(w, h, cellSize),
			domain.TeamBlue: NewVisionGrid(w, h, cellSize),
		},
	}
}

// Recompute пересчитывает сетки всех команд. Только тик-цикл.
func (ve *VisibilityEngine) Recompute(store *domain.Store) {
	for team, grid := range ve.grids {
		grid.Recompute(store, team)
	}
}

// Grid возвращает сетку команды (nil для неизвестной).
func (ve *VisibilityEngine) Grid(team int) *VisionGrid {
	return ve.grids[team]
}

// CanSee - контракт фильтрации снапшотов: чужая сущность, целиком вне
// видимых клеток команды, в снапшот этой команды не попадает.
// Своя команда видна безусловно.
func (ve *VisibilityEngine) CanSee(team int, u *domain.Unit) bool {
	if u.TeamID == team {
		return true
	}
	grid := ve.grids[team]
	if grid == nil {
		return false
	}
	return grid.VisibleAt(u.Pos)
}
