package config

import (
	"github.com/spf13/viper"

	"frontline-server/internal/domain"
)

// Load задает значения по умолчанию и читает опциональный
// frontline.cfg.json из configDir. Отсутствие файла - не ошибка:
// сервер полностью рабочий на дефолтах.
//
// Константы захвата и пороги победы у исходного геймдизайна гуляли от
// итерации к итерации, поэтому они ЯВНО вынесены в конфигурацию,
// а не зашиты в код.
func Load(configDir string) error {
	// Симуляция
	viper.SetDefault("simulation.tick_rate", 20)      // Гц
	viper.SetDefault("simulation.broadcast_rate", 10) // Гц, <= tick_rate
	viper.SetDefault("simulation.world_width", 1600.0)
	viper.SetDefault("simulation.world_height", 1200.0)
	viper.SetDefault("simulation.units_per_player", 4)

	// Захват точек
	viper.SetDefault("capture.rate", 0.2) // в секунду на единицу перевеса
	viper.SetDefault("capture.radius", 120.0)

	// Победа
	viper.SetDefault("victory.mode", "majority") // majority | keypoint | perimeter
	viper.SetDefault("victory.majority_points", 3)
	viper.SetDefault("victory.keypoint_id", "cp-center")
	viper.SetDefault("victory.keypoint_quota", 2)
	viper.SetDefault("victory.poll_seconds", 5.0) // страховочный опрос

	// Возрождение
	viper.SetDefault("respawn.delay_seconds", 20.0)
	viper.SetDefault("respawn.invuln_seconds", 3.0)

	// Видимость
	viper.SetDefault("vision.cell_size", 32.0)

	// Командный конвейер
	viper.SetDefault("commands.rate_limit_per_second", 20)

	// AI-переводчик команд (внешний сервис)
	viper.SetDefault("translator.url", "")
	viper.SetDefault("translator.timeout_seconds", 10.0)

	// Архив матчей
	viper.SetDefault("storage.enabled", false)
	viper.SetDefault("storage.sqlite_path", "./frontline.db")
	viper.SetDefault("storage.db.host", "localhost")
	viper.SetDefault("storage.db.port", "5432")
	viper.SetDefault("storage.db.username", "postgres")
	viper.SetDefault("storage.db.password", "postgres")
	viper.SetDefault("storage.db.database", "frontline")

	// Телеметрия
	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.url", "http://localhost:8086")
	viper.SetDefault("telemetry.token", "")
	viper.SetDefault("telemetry.org", "frontline")
	viper.SetDefault("telemetry.bucket", "frontline_performance")

	viper.SetConfigName("frontline.cfg.json")
	viper.SetConfigType("json")
	viper.AddConfigPath(configDir)

	if err := viper.ReadInConfig(); err != nil {
		// Файл опционален; любые другие ошибки чтения тоже не фатальны,
		// дефолты уже стоят.
		return nil
	}
	return nil
}

// Simulation - плоский срез настроек для тик-цикла матча.
type Simulation struct {
	TickRate       int
	BroadcastRate  int
	WorldWidth     float64
	WorldHeight    float64
	UnitsPerPlayer int

	CaptureRate   float64
	CaptureRadius float64

	VictoryMode     string
	MajorityPoints  int
	KeypointID      string
	KeypointQuota   int
	VictoryPollSecs float64

	RespawnDelay  float64
	RespawnInvuln float64

	VisionCellSize float64

	CommandRateLimit int
}

// Sim собирает настройки симуляции из viper.
func Sim() Simulation {
	return Simulation{
		TickRate:       viper.GetInt("simulation.tick_rate"),
		BroadcastRate:  viper.GetInt("simulation.broadcast_rate"),
		WorldWidth:     viper.GetFloat64("simulation.world_width"),
		WorldHeight:    viper.GetFloat64("simulation.world_height"),
		UnitsPerPlayer: viper.GetInt("simulation.units_per_player"),

		CaptureRate:   viper.GetFloat64("capture.rate"),
		CaptureRadius: viper.GetFloat64("capture.radius"),

		VictoryMode:     viper.GetString("victory.mode"),
		MajorityPoints:  viper.GetInt("victory.majority_points"),
		KeypointID:      viper.GetString("victory.keypoint_id"),
		KeypointQuota:   viper.GetInt("victory.keypoint_quota"),
		VictoryPollSecs: viper.GetFloat64("victory.poll_seconds"),

		RespawnDelay:  viper.GetFloat64("respawn.delay_seconds"),
		RespawnInvuln: viper.GetFloat64("respawn.invuln_seconds"),

		VisionCellSize: viper.GetFloat64("vision.cell_size"),

		CommandRateLimit: viper.GetInt("commands.rate_limit_per_second"),
	}
}

// Archetypes возвращает каталог архетипов: дефолты, поверх которых
// наложены переопределения из файла конфигурации (секция "archetypes").
func Archetypes() map[string]domain.Archetype {
	catalog := make(map[string]domain.Archetype, len(domain.DefaultArchetypes))
	for name, a := range domain.DefaultArchetypes {
		catalog[name] = a
	}

	overrides := make(map[string]domain.Archetype)
	if err := viper.UnmarshalKey("archetypes", &overrides); err != nil {
		return catalog
	}
	for name, a := range overrides {
		a.Name = name
		catalog[name] = a
	}
	return catalog
}

// GetString возвращает строковое значение конфигурации.
func GetString(key string) string { return viper.GetString(key) }

// GetBool возвращает булево значение конфигурации.
func GetBool(key string) bool { return viper.GetBool(key) }

// GetFloat возвращает число с плавающей точкой.
func GetFloat(key string) float64 { return viper.GetFloat64(key) }
