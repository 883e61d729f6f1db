package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"frontline-server/pkg/api"
)

// Генератор JSON-схемы протокола. Схема нужна клиентам (веб-фронтенд,
// внешний переводчик приказов), чтобы валидировать сообщения без
// ручной синхронизации с Go-типами.

// protocolEnvelope объединяет обе стороны протокола в один документ:
// definitions внутри схемы покрывают все DTO пакета api.
type protocolEnvelope struct {
	Client *api.ClientCommand `json:"client,omitempty"`
	Server *api.ServerMessage `json:"server,omitempty"`
}

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "", "path to write the JSON schema (stdout if empty)")
	flag.Parse()

	schema := buildSchema()

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal schema: %v\n", err)
		os.Exit(1)
	}
	data = append(data, '\n')

	if outPath == "" {
		os.Stdout.Write(data)
		return
	}

	if err := writeSchema(outPath, data); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
		os.Exit(1)
	}
}

func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}

	schema := reflector.Reflect(new(protocolEnvelope))
	schema.Title = "Frontline Protocol"
	schema.Description = "WebSocket protocol between the Frontline simulation server and its clients. " +
		"Client side: JOIN, READY, MOVE, ATTACK, STOP, FORMATION, AI_COMMAND. " +
		"Server side: SNAPSHOT, EVENT, LOBBY, ERROR."
	return schema
}

func writeSchema(outPath string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}
	return nil
}
