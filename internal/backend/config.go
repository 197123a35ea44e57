package backend

import (
	"errors"
	"fmt"

	"trust/internal/config"
)

// Config is the subset of application settings the factory reads.
type Config struct {
	Type          BackendType
	DataDirectory string // file
	SQLiteDBPath  string // sqlite

	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// FromAppConfig maps application settings onto a backend Config.
func FromAppConfig(cfg *config.Config) (Config, error) {
	if cfg == nil {
		return Config{}, errors.New("backend: nil application config")
	}
	bt := BackendType(cfg.DataBackend)
	if !bt.IsValid() {
		return Config{}, fmt.Errorf("backend: unknown data backend %q, want one of %v", cfg.DataBackend, GetBackendTypeStrings())
	}
	return Config{
		Type:          bt,
		DataDirectory: cfg.DataDir,
		SQLiteDBPath:  cfg.SQLiteDBPath,
		AMQPURL:       cfg.AMQPURL,
		AMQPExchange:  cfg.AMQPExchange,
		AMQPQueue:     cfg.AMQPQueue,
	}, nil
}

// Validate checks that the medium-specific location is set and that an
// enabled AMQP connection names both its exchange and queue.
func (c Config) Validate() error {
	var missing string
	switch c.Type {
	case MemoryBackend:
	case FileBackend:
		if c.DataDirectory == "" {
			missing = "data directory"
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			missing = "sqlite database path"
		}
	default:
		return fmt.Errorf("backend: unknown type %q", c.Type)
	}
	if missing != "" {
		return fmt.Errorf("backend: %s backend needs a %s", c.Type, missing)
	}
	if c.AMQPURL != "" && (c.AMQPExchange == "" || c.AMQPQueue == "") {
		return errors.New("backend: change events need both an AMQP exchange and a queue")
	}
	return nil
}

// GetBackendTypeStrings lists the accepted DATA_BACKEND values.
func GetBackendTypeStrings() []string {
	out := make([]string, 0, len(backendTypes))
	for _, bt := range backendTypes {
		out = append(out, bt.String())
	}
	return out
}
