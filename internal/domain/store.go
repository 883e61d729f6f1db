package domain

import "sort"

// Store - авторитетный реестр живых сущностей матча.
// ЕДИНСТВЕННЫЙ владелец времени жизни Unit и ControlPoint.
// Мутируется только из тик-цикла (single-writer), поэтому без мьютексов.
// Создается при старте матча, очищается при его завершении - никакого
// глобального состояния, несколько матчей/тестов работают изолированно.
type Store struct {
	units  map[string]*Unit
	points map[string]*ControlPoint
}

// NewStore создает пустой реестр.
func NewStore() *Store {
	return &Store{
		units:  make(map[string]*Unit),
		points: make(map[string]*ControlPoint),
	}
}

// AddUnit регистрирует юнита.
func (s *Store) AddUnit(u *Unit) {
	s.units[u.ID] = u
}

// RemoveUnit удаляет юнита. Висячие TargetID у других юнитов не чистим:
// слабые ссылки разрешаются через Unit() каждый тик, протухшая даст nil.
func (s *Store) RemoveUnit(id string) {
	delete(s.units, id)
}

// Unit возвращает юнита по ID, либо nil.
func (s *Store) Unit(id string) *Unit {
	return s.units[id]
}

// LiveTarget возвращает юнита, пригодного как цель атаки:
// существует и жив. Мертвый или отсутствующий => nil ("цели нет").
func (s *Store) LiveTarget(id string) *Unit {
	u := s.units[id]
	if u == nil || !u.Alive() {
		return nil
	}
	return u
}

// Units возвращает все юниты, отсортированные по ID.
// Сортировка дает детерминированный порядок обхода в симуляции.
func (s *Store) Units() []*Unit {
	out := make([]*Unit, 0, len(s.units))
	for _, u := range s.units {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TeamUnits возвращает юниты одной команды (отсортированы по ID).
func (s *Store) TeamUnits(team int) []*Unit {
	out := make([]*Unit, 0)
	for _, u := range s.units {
		if u.TeamID == team {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AddPoint регистрирует контрольную точку.
func (s *Store) AddPoint(cp *ControlPoint) {
	s.points[cp.ID] = cp
}

// Point возвращает точку по ID, либо nil.
func (s *Store) Point(id string) *ControlPoint {
	return s.points[id]
}

// Points возвращает все контрольные точки, отсортированные по ID.
func (s *Store) Points() []*ControlPoint {
	out := make([]*ControlPoint, 0, len(s.points))
	for _, cp := range s.points {
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// UnitCount - количество юнитов в реестре.
func (s *Store) UnitCount() int {
	return len(s.units)
}

// Clear опустошает реестр (конец матча).
func (s *Store) Clear() {
	s.units = make(map[string]*Unit)
	s.points = make(map[string]*ControlPoint)
}
