package domain

// Команды. Матч всегда ровно между двумя командами.
// Знак capture value контрольной точки: TeamRed тянет к +1, TeamBlue к -1.
const (
	TeamNone = 0
	TeamRed  = 1
	TeamBlue = 2
)

// MaxPlayersPerTeam - жесткий потолок состава команды.
const MaxPlayersPerTeam = 2

// OppositeTeam возвращает противника (или TeamNone для нейтральных).
func OppositeTeam(team int) int {
	switch team {
	case TeamRed:
		return TeamBlue
	case TeamBlue:
		return TeamRed
	default:
		return TeamNone
	}
}

// CaptureSign возвращает направление, в котором команда тянет capture value.
func CaptureSign(team int) float64 {
	switch team {
	case TeamRed:
		return 1
	case TeamBlue:
		return -1
	default:
		return 0
	}
}
