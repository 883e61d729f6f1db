package storage

import (
	"time"

	"gorm.io/datatypes"
)

// MatchRecord - итог одного матча.
type MatchRecord struct {
	ID uint `gorm:"primarykey"`

	MatchID   string `gorm:"uniqueIndex;size:64"`
	StartedAt time.Time
	EndedAt   *time.Time

	Winner    int
	Condition string `gorm:"size:32"` // majority | keypoint | perimeter | forfeit
	Ticks     int64

	Players datatypes.JSON // состав на момент старта
}

// MatchEventRecord - одно доменное событие в ленте матча.
// Payload хранится как JSON: схема событий меняется чаще, чем хочется
// мигрировать колонки.
type MatchEventRecord struct {
	ID uint `gorm:"primarykey"`

	MatchID string `gorm:"index;size:64"`
	Tick    int64
	Type    string `gorm:"size:32"`

	Payload   datatypes.JSON
	CreatedAt time.Time
}

// DatabaseModels - все таблицы архива для миграции.
var DatabaseModels = []interface{}{
	&MatchRecord{},
	&MatchEventRecord{},
}
