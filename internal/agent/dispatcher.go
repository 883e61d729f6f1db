package agent

import (
	"context"
	"time"

	"frontline-server/pkg/api"
	"frontline-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Dispatcher гоняет переводы асинхронно: тик-цикл не ждет внешний
// сервис ни одного тика. Результат возвращается в конвейер команд
// через inject; к моменту возврата автор мог отключиться - это
// решает inject, а не диспетчер.
type Dispatcher struct {
	translator Translator
	timeout    time.Duration
}

func NewDispatcher(t Translator, timeout time.Duration) *Dispatcher {
	return &Dispatcher{translator: t, timeout: timeout}
}

// Submit запускает перевод в фоне.
// inject вызывается для каждой переведенной команды по порядку,
// onError - один раз при любом сбое перевода.
func (d *Dispatcher) Submit(connID string, req Request, inject func(cmd api.ClientCommand), onError func(code, msg string)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		cmds, err := d.translator.Translate(ctx, req)
		if err != nil {
			logger.Log.WithFields(logrus.Fields{
				"component": "translator",
				"conn_id":   connID,
				"error":     err,
			}).Warn("Command translation failed")
			onError("TRANSLATOR_FAILED", "could not translate command")
			return
		}

		logger.Log.WithFields(logrus.Fields{
			"component": "translator",
			"conn_id":   connID,
			"commands":  len(cmds),
		}).Debug("Command translation complete")

		for _, cmd := range cmds {
			inject(cmd)
		}
	}()
}
