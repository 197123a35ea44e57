package backend

import (
	"context"
	"errors"
	"fmt"

	"trust/internal/amqp"
	applog "trust/internal/log"
	"trust/internal/storage"
	"trust/internal/storage/file"
	"trust/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.FromContext(context.Background())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// CreateBackend opens the slot for config.Type and, when configured, the
// AMQP publisher. An unreachable broker is logged and skipped: change
// events are optional and the app works without them.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		slot    storage.Slot
		closers []func() error
	)
	switch config.Type {
	case MemoryBackend:
		slot = memory.New()
		f.logger.WarnContext(ctx, "Using memory backend, data will not survive a restart")
	case FileBackend:
		fs, err := file.New(config.DataDirectory)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file backend: %w", err)
		}
		slot = fs
		f.logger.InfoContext(ctx, "Initialized file backend", "data_directory", config.DataDirectory)
	case SQLiteBackend:
		sq, err := storage.NewSQLiteSlot(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite backend: %w", err)
		}
		slot = sq
		closers = append(closers, sq.Close)
		f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	var publisher *amqp.Client
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without change events",
				"error", err)
		} else {
			publisher = client
			closers = append(closers, client.Close)
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	return &BackendResult{
		Slot:      slot,
		Publisher: publisher,
		Cleanup: func() error {
			var errs []error
			for _, c := range closers {
				if err := c(); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	}, nil
}
