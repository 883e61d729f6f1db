package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"frontline-server/internal/config"
	"frontline-server/internal/domain"
	"frontline-server/pkg/logger"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Archive пишет итоги и ленты матчей в БД.
// Postgres - основной бэкенд, при его недоступности архив тихо
// сваливается в локальный SQLite: история матчей не должна ронять
// игровой сервер.
//
// Записи идут через буферизованную очередь: хуки матча вызываются из
// тик-цикла и не имеют права ждать диск.
type Archive struct {
	db    *gorm.DB
	local bool

	queue chan MatchEventRecord
	done  chan struct{}
}

const archiveQueueSize = 1024

func NewArchive() *Archive {
	return &Archive{
		queue: make(chan MatchEventRecord, archiveQueueSize),
		done:  make(chan struct{}),
	}
}

// Connect подключается к Postgres, при неудаче - к SQLite.
func (a *Archive) Connect() error {
	db, err := a.openPostgres()
	if err == nil {
		if sqlDB, derr := db.DB(); derr == nil && sqlDB.Ping() == nil {
			a.db = db
			logger.Log.Info("Match archive connected to Postgres")
			return a.setup()
		}
	}

	logger.Log.WithField("error", err).Warn("Postgres unavailable, falling back to SQLite archive")
	a.local = true
	a.db, err = a.openSqlite()
	if err != nil {
		return fmt.Errorf("failed to open local SQLite archive: %w", err)
	}
	logger.Log.WithField("path", config.GetString("storage.sqlite_path")).Info("Match archive using local SQLite")
	return a.setup()
}

func (a *Archive) openPostgres() (*gorm.DB, error) {
	dsn := fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		config.GetString("storage.db.host"),
		config.GetString("storage.db.port"),
		config.GetString("storage.db.username"),
		config.GetString("storage.db.password"),
		config.GetString("storage.db.database"),
	)

	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
}

func (a *Archive) openSqlite() (*gorm.DB, error) {
	path := config.GetString("storage.sqlite_path")
	if path == "" {
		path = "file::memory:?cache=shared"
	}
	return gorm.Open(sqlite.Open(path), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
}

func (a *Archive) setup() error {
	if err := a.db.AutoMigrate(DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate archive schema: %w", err)
	}
	go a.writer()
	return nil
}

// writer - единственная горутина, пишущая события в БД.
func (a *Archive) writer() {
	for {
		select {
		case rec := <-a.queue:
			if err := a.db.Create(&rec).Error; err != nil {
				logger.Log.WithFields(logrus.Fields{
					"component": "archive",
					"match_id":  rec.MatchID,
					"error":     err,
				}).Error("Failed to persist match event")
			}
		case <-a.done:
			// Дописываем хвост очереди перед выходом.
			for {
				select {
				case rec := <-a.queue:
					a.db.Create(&rec)
				default:
					return
				}
			}
		}
	}
}

// Close останавливает писателя.
func (a *Archive) Close() {
	close(a.done)
}

// MatchStarted фиксирует старт матча и его состав.
func (a *Archive) MatchStarted(matchID string, playerNames map[string]string) {
	players, _ := json.Marshal(playerNames)
	rec := MatchRecord{
		MatchID:   matchID,
		StartedAt: time.Now(),
		Players:   players,
	}
	if err := a.db.Create(&rec).Error; err != nil {
		logger.Log.WithField("match_id", matchID).WithField("error", err).Error("Failed to persist match start")
	}
}

// RecordEvent кладет событие в очередь архивации.
// Переполненная очередь роняет запись, не тик-цикл.
func (a *Archive) RecordEvent(matchID string, ev domain.Event) {
	payload, _ := json.Marshal(ev)
	rec := MatchEventRecord{
		MatchID: matchID,
		Tick:    ev.Tick,
		Type:    ev.Type.String(),
		Payload: payload,
	}
	select {
	case a.queue <- rec:
	default:
		logger.Log.WithField("match_id", matchID).Warn("Archive queue full, dropping event")
	}
}

// MatchEnded закрывает запись матча итогом.
func (a *Archive) MatchEnded(matchID string, winner int, condition string, ticks int64) {
	now := time.Now()
	err := a.db.Model(&MatchRecord{}).
		Where("match_id = ?", matchID).
		Updates(map[string]interface{}{
			"ended_at":  &now,
			"winner":    winner,
			"condition": condition,
			"ticks":     ticks,
		}).Error
	if err != nil {
		logger.Log.WithField("match_id", matchID).WithField("error", err).Error("Failed to persist match result")
	}
}

// Recent возвращает последние завершенные матчи (для отладочной ручки).
func (a *Archive) Recent(limit int) ([]MatchRecord, error) {
	var out []MatchRecord
	err := a.db.Where("ended_at IS NOT NULL").
		Order("ended_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
