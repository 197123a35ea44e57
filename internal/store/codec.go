package store

import (
	"context"
	"encoding/json"
	"fmt"

	"trust/internal/core"
	applog "trust/internal/log"
	"trust/internal/metrics"
	"trust/internal/storage"
)

// Load reads the aggregate from key. It never fails: a missing slot, an
// unreadable slot or malformed content all yield the empty aggregate, with
// the latter two logged.
func Load(ctx context.Context, slot storage.Slot, key string, logger *applog.Logger, m *metrics.Metrics) core.ApplicationData {
	if logger == nil {
		logger = applog.FromContext(ctx)
	}

	raw, ok, err := slot.Get(ctx, key)
	if err != nil {
		logger.ErrorContext(ctx, "Failed reading persisted data, starting empty",
			applog.NewFields().
				WithError(err).
				WithErrorType(applog.ErrorTypeStorage).
				WithOperation(applog.OpLoad).
				ToSlice()...)
		m.IncLoadFallback("read_error")
		return core.EmptyData()
	}
	if !ok {
		logger.InfoContext(ctx, "No persisted data found, starting empty", applog.FieldStorageKey, key)
		return core.EmptyData()
	}

	data, err := Decode(raw)
	if err != nil {
		logger.WarnContext(ctx, "Persisted data is malformed, starting empty",
			applog.NewFields().
				WithError(err).
				WithErrorType(applog.ErrorTypeCorruptData).
				WithOperation(applog.OpLoad).
				ToSlice()...)
		m.IncLoadFallback("malformed")
		return core.EmptyData()
	}
	if data.SchemaVersion > core.SchemaVersion {
		logger.WarnContext(ctx, "Persisted data has a newer schema version, decoding best-effort",
			"schema_version", data.SchemaVersion,
			"supported_version", core.SchemaVersion)
	}

	logger.InfoContext(ctx, "Persisted data loaded",
		applog.FieldStorageKey, key,
		"members", len(data.Members),
		"donations", len(data.Donations))
	return data
}

// Save writes the whole aggregate under key, replacing any prior value.
func Save(ctx context.Context, slot storage.Slot, key string, data core.ApplicationData) error {
	raw, err := Encode(data)
	if err != nil {
		return err
	}
	if err := slot.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("save application data: %w", err)
	}
	return nil
}

// Encode serialises data, stamping the current schema version.
func Encode(data core.ApplicationData) ([]byte, error) {
	data = data.Normalize()
	data.SchemaVersion = core.SchemaVersion
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode application data: %w", err)
	}
	return raw, nil
}

// Decode parses a persisted aggregate. Payloads written before versioning
// (no schemaVersion field) are accepted as version 0. Records violating
// the model invariants make the whole payload malformed.
func Decode(raw []byte) (core.ApplicationData, error) {
	var data core.ApplicationData
	if err := json.Unmarshal(raw, &data); err != nil {
		return core.ApplicationData{}, fmt.Errorf("decode application data: %w", err)
	}
	data = data.Normalize()

	seen := make(map[string]struct{}, len(data.Members))
	for i, m := range data.Members {
		if err := m.Validate(); err != nil {
			return core.ApplicationData{}, fmt.Errorf("member %d: %w", i, err)
		}
		if _, dup := seen[m.ID]; dup {
			return core.ApplicationData{}, fmt.Errorf("member %d (%s): %w", i, m.ID, core.ErrDuplicateMember)
		}
		seen[m.ID] = struct{}{}
	}
	for i, d := range data.Donations {
		if err := d.Validate(); err != nil {
			return core.ApplicationData{}, fmt.Errorf("donation %d: %w", i, err)
		}
	}
	if _, err := core.CheckedFundTotal(data.Donations); err != nil {
		return core.ApplicationData{}, fmt.Errorf("donations: %w", err)
	}
	return data, nil
}
