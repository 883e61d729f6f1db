package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"frontline-server/internal/agent"
	"frontline-server/internal/config"
	"frontline-server/internal/domain"
	"frontline-server/internal/engine"
	"frontline-server/internal/server"
	"frontline-server/internal/storage"
	"frontline-server/internal/telemetry"
	"frontline-server/internal/version"
	"frontline-server/pkg/battlefield"
	"frontline-server/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var configDir string
	var port string
	flag.StringVar(&configDir, "config", ".", "Directory with frontline.cfg.json")
	flag.StringVar(&port, "port", "", "HTTP port (overrides FL_PORT)")
	flag.Parse()

	logger.Log.Info("Starting Frontline server...")
	logger.Log.Info(version.String())

	if err := config.Load(configDir); err != nil {
		logger.Log.Fatal("Config load error:", err)
	}

	if port == "" {
		port = os.Getenv("FL_PORT")
	}
	if port == "" {
		port = "8080"
	}

	sim := config.Sim()
	archetypes := config.Archetypes()
	source := battlefield.StaticSource{
		L: battlefield.Default(sim.WorldWidth, sim.WorldHeight, domain.TeamRed, domain.TeamBlue),
	}

	// AI-переводчик приказов: опционален, без URL боевые команды
	// остаются чисто ручными.
	var dispatcher *agent.Dispatcher
	if url := config.GetString("translator.url"); url != "" {
		timeout := time.Duration(config.GetFloat("translator.timeout_seconds") * float64(time.Second))
		dispatcher = agent.NewDispatcher(agent.NewHTTPTranslator(url, timeout), timeout)
		logger.Log.Infof("Command translator enabled: %s", url)
	}

	// 2. Инициализация ядра
	gameService := engine.NewService(sim, archetypes, source, dispatcher)

	// Архив матчей (Postgres с фолбэком на SQLite)
	var archive *storage.Archive
	if config.GetBool("storage.enabled") {
		archive = storage.NewArchive()
		if err := archive.Connect(); err != nil {
			logger.Log.WithError(err).Error("Match archive unavailable, continuing without it")
			archive = nil
		}
	}

	// Телеметрия (InfluxDB)
	metrics := telemetry.NewManager()
	if err := metrics.Connect(); err != nil {
		logger.Log.WithError(err).Warn("Telemetry unavailable")
	}

	wireObservers(gameService, archive, metrics)

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 3. Запуск сервера
	srv := server.New(gameService, archive, port)

	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error:", err)
		}
	}()

	<-stop
	logger.Log.Info("Shutting down...")

	gameService.Shutdown()
	if archive != nil {
		archive.Close()
	}
	metrics.Close()

	logger.Log.Info("Done.")
}

// wireObservers подключает архив и телеметрию к хукам движка.
// Оба потребителя не блокируют тик-цикл: архив пишет через очередь,
// телеметрия батчится на стороне клиента InfluxDB.
func wireObservers(s *engine.GameService, archive *storage.Archive, metrics *telemetry.Manager) {
	if archive != nil {
		s.OnMatchStart = archive.MatchStarted
		s.OnMatchEvent = archive.RecordEvent
	}

	s.OnMatchEnd = func(matchID string, winner int, condition string, tick int64) {
		if archive != nil {
			archive.MatchEnded(matchID, winner, condition, tick)
		}
		metrics.RecordMatchEnd(matchID, winner, condition, tick)
	}
	s.OnMatchTick = metrics.RecordTick
}
