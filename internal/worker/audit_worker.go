package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"trust/internal/amqp"
	"trust/internal/core"
	applog "trust/internal/log"
	"trust/internal/storage"
)

// DefaultAuditLimit is how many entries the audit trail keeps.
const DefaultAuditLimit = 500

// AuditEntry is one change as recorded by the worker.
type AuditEntry struct {
	Op         string    `json:"op"`
	Entity     string    `json:"entity"`
	EntityID   string    `json:"entity_id,omitempty"`
	Members    int       `json:"members"`
	Donations  int       `json:"donations"`
	FundTotal  int64     `json:"fund_total"`
	Persisted  bool      `json:"persisted"`
	ChangedAt  time.Time `json:"changed_at"`
	ReceivedAt time.Time `json:"received_at"`
}

// AuditWorker consumes data changed messages and keeps a bounded trail of
// them in its own slot, separate from the application data.
type AuditWorker struct {
	slot   storage.Slot
	key    string
	limit  int
	logger *applog.Logger
	now    func() time.Time

	mu sync.Mutex
}

func NewAuditWorker(slot storage.Slot, key string, limit int, logger *applog.Logger) *AuditWorker {
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	if logger == nil {
		logger = applog.FromContext(context.Background())
	}
	return &AuditWorker{
		slot:   slot,
		key:    key,
		limit:  limit,
		logger: logger.WithComponent(applog.ComponentWorker),
		now:    time.Now,
	}
}

// HandleDataChanged appends msg to the trail. Errors are returned so the
// consumer requeues the message.
func (w *AuditWorker) HandleDataChanged(ctx context.Context, msg *amqp.DataChangedMessage) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	entries, err := w.read(ctx)
	if err != nil {
		return err
	}

	entries = append(entries, AuditEntry{
		Op:         msg.Op,
		Entity:     msg.Entity,
		EntityID:   msg.EntityID,
		Members:    msg.Members,
		Donations:  msg.Donations,
		FundTotal:  msg.FundTotal,
		Persisted:  msg.Persisted,
		ChangedAt:  msg.Timestamp,
		ReceivedAt: w.now().UTC(),
	})
	if len(entries) > w.limit {
		entries = entries[len(entries)-w.limit:]
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode audit trail: %w", err)
	}
	if err := w.slot.Put(ctx, w.key, raw); err != nil {
		return fmt.Errorf("save audit trail: %w", err)
	}

	args := []any{
		applog.FieldOperation, msg.Op,
		"entity_id", msg.EntityID,
		"members", msg.Members,
		"donations", msg.Donations,
		"fund_total", core.FormatRupees(msg.FundTotal),
	}
	if !msg.Persisted {
		w.logger.WarnContext(ctx, "Change was applied but not persisted by the app", args...)
		return nil
	}
	w.logger.InfoContext(ctx, "Change audited", args...)
	return nil
}

// Entries returns the trail, oldest first.
func (w *AuditWorker) Entries(ctx context.Context) ([]AuditEntry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.read(ctx)
}

// StartupCheck logs the state of the trail so an operator can see where
// the worker resumes from.
func (w *AuditWorker) StartupCheck(ctx context.Context) error {
	entries, err := w.Entries(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		w.logger.InfoContext(ctx, "Audit trail is empty", applog.FieldStorageKey, w.key)
		return nil
	}
	last := entries[len(entries)-1]
	w.logger.InfoContext(ctx, "Audit trail loaded",
		applog.FieldStorageKey, w.key,
		"entries", len(entries),
		"last_op", last.Op,
		"last_changed_at", last.ChangedAt.Format(time.RFC3339))
	return nil
}

func (w *AuditWorker) read(ctx context.Context) ([]AuditEntry, error) {
	raw, ok, err := w.slot.Get(ctx, w.key)
	if err != nil {
		return nil, fmt.Errorf("read audit trail: %w", err)
	}
	if !ok {
		return []AuditEntry{}, nil
	}
	var entries []AuditEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		// A broken trail must not block the queue; start a new one.
		w.logger.WarnContext(ctx, "Audit trail is malformed, starting over",
			applog.FieldError, err.Error(),
			applog.FieldErrorType, applog.ErrorTypeCorruptData)
		return []AuditEntry{}, nil
	}
	return entries, nil
}
