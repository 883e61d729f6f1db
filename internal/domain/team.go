package domain

// Player - запись о подключенном игроке (членство в сессии).
type Player struct {
	ConnID string `json:"connId"`
	Name   string `json:"name"`
	TeamID int    `json:"teamId"`
	Ready  bool   `json:"ready"`

	// PartnerID - напарник по команде (команды не больше двух игроков).
	// Пустая строка - играет один.
	PartnerID string `json:"partnerId,omitempty"`
}

// Team агрегирует игроков и ID юнитов для удобных запросов.
// Временем жизни юнитов владеет Store, здесь только ссылки по ID.
type Team struct {
	ID      int      `json:"id"`
	Players []string `json:"players"` // ConnID участников
	UnitIDs []string `json:"unitIds"`
}

// HasRoom: есть ли свободный слот.
func (t *Team) HasRoom() bool {
	return len(t.Players) < MaxPlayersPerTeam
}

// RemovePlayer убирает игрока из состава. Возвращает true, если нашелся.
func (t *Team) RemovePlayer(connID string) bool {
	for i, id := range t.Players {
		if id == connID {
			t.Players = append(t.Players[:i], t.Players[i+1:]...)
			return true
		}
	}
	return false
}
