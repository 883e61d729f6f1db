package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"frontline-server/pkg/api"
)

// Перевод свободного текста приказа в структурные команды - внешний
// сервис. Ядро знает только контракт: POST JSON с текстом и срезом
// обстановки, в ответ список обычных ClientCommand. Переведенные
// команды проходят тот же конвейер валидации, что и ручные: переводчик
// не имеет обходного пути к симуляции.

// Request - запрос на перевод одного текстового приказа.
type Request struct {
	Text    string   `json:"text"`
	UnitIDs []string `json:"unitIds,omitempty"`
	Team    int      `json:"team"`

	// Срез обстановки с точки зрения команды автора.
	Units  []api.UnitView         `json:"units"`
	Points []api.ControlPointView `json:"points"`
}

// Response - ответ переводчика.
type Response struct {
	Commands []api.ClientCommand `json:"commands"`
}

// Translator переводит текст в команды.
type Translator interface {
	Translate(ctx context.Context, req Request) ([]api.ClientCommand, error)
}

// HTTPTranslator - клиент внешнего сервиса перевода.
type HTTPTranslator struct {
	URL    string
	Client *http.Client
}

func NewHTTPTranslator(url string, timeout time.Duration) *HTTPTranslator {
	return &HTTPTranslator{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

func (t *HTTPTranslator) Translate(ctx context.Context, req Request) ([]api.ClientCommand, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal translation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build translation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("translator unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("translator returned status %d", resp.StatusCode)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode translation response: %w", err)
	}
	return out.Commands, nil
}
