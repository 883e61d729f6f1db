package telemetry

import (
	"context"
	"fmt"
	"time"

	"frontline-server/internal/config"
	"frontline-server/pkg/logger"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
)

// Manager шлет метрики тик-цикла в InfluxDB.
// Телеметрия строго необязательна: недоступный Influx деградирует
// в no-op, игровой сервер этого не замечает.
type Manager struct {
	client influxdb2.Client
	write  influxdb2_api.WriteAPI
	valid  bool
}

func NewManager() *Manager {
	return &Manager{}
}

// Connect инициализирует клиент и проверяет доступность.
func (m *Manager) Connect() error {
	if !config.GetBool("telemetry.enabled") {
		return nil
	}

	m.client = influxdb2.NewClientWithOptions(
		config.GetString("telemetry.url"),
		config.GetString("telemetry.token"),
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000),
	)

	running, err := m.client.Ping(context.Background())
	if err != nil || !running {
		logger.Log.WithField("error", err).Warn("InfluxDB unreachable, telemetry disabled")
		return fmt.Errorf("influxdb ping failed: %v", err)
	}

	m.write = m.client.WriteAPI(
		config.GetString("telemetry.org"),
		config.GetString("telemetry.bucket"),
	)
	m.valid = true
	logger.Log.Info("Telemetry client initialized")
	return nil
}

// RecordTick пишет длительность одного тика симуляции.
func (m *Manager) RecordTick(matchID string, tick int64, elapsed time.Duration) {
	if !m.valid {
		return
	}
	p := influxdb2.NewPoint(
		"sim_tick",
		map[string]string{"match_id": matchID},
		map[string]interface{}{
			"tick":        tick,
			"duration_us": elapsed.Microseconds(),
		},
		time.Now(),
	)
	m.write.WritePoint(p)
}

// RecordMatchEnd пишет итог матча.
func (m *Manager) RecordMatchEnd(matchID string, winner int, condition string, ticks int64) {
	if !m.valid {
		return
	}
	p := influxdb2.NewPoint(
		"match_end",
		map[string]string{"match_id": matchID, "condition": condition},
		map[string]interface{}{
			"winner": winner,
			"ticks":  ticks,
		},
		time.Now(),
	)
	m.write.WritePoint(p)
}

// Close сбрасывает буферы и закрывает клиент.
func (m *Manager) Close() {
	if m.client != nil {
		if m.write != nil {
			m.write.Flush()
		}
		m.client.Close()
	}
}
