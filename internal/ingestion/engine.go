package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Webhook event types recognized by HandleWebhook.
const (
	WebhookIngestionComplete = "ingestion_complete"
	WebhookIngestionFailed   = "ingestion_failed"
)

// WebhookPayload is the inbound notification an external processor sends to
// report completion or failure of a process out of band.
type WebhookPayload struct {
	Type      string    `json:"type"`
	ProcessID uuid.UUID `json:"process_id"`
	Error     string    `json:"error,omitempty"`
}

// WebhookAck is the generic acknowledgment returned for every webhook call.
type WebhookAck struct {
	Message string `json:"message"`
}

// Engine is the sole entry point for creating and querying ingestion
// processes. Trigger hands new processes to the Scheduler for their simulated
// background run; HandleWebhook applies externally reported outcomes.
type Engine struct {
	store  ProcessStore
	sched  *Scheduler
	logger *slog.Logger
}

func NewEngine(store ProcessStore, sched *Scheduler, logger *slog.Logger) *Engine {
	return &Engine{store: store, sched: sched, logger: logger}
}

// TriggerRequest are the inputs to Trigger. Type is required; everything else
// is optional. DocumentIDs are not checked against the document store; the
// simulated run never reads them.
type TriggerRequest struct {
	Type        Type
	DocumentIDs []uuid.UUID
	Description *string
	Parameters  map[string]any
}

// Trigger creates a pending process, persists it, and schedules its simulated
// run. It returns immediately; the caller observes progress via GetProcess or
// ListProcesses.
func (e *Engine) Trigger(ctx context.Context, req TriggerRequest) (Process, error) {
	if !req.Type.Valid() {
		return Process{}, fmt.Errorf("unknown ingestion type %q", req.Type)
	}

	p, err := e.store.CreateProcess(ctx, CreateProcessParams{
		Type:        req.Type,
		DocumentIDs: req.DocumentIDs,
		Description: req.Description,
		Parameters:  req.Parameters,
	})
	if err != nil {
		return Process{}, fmt.Errorf("create process: %w", err)
	}

	e.logger.Info("ingestion triggered",
		slog.String("process_id", p.ID.String()),
		slog.String("type", string(p.Type)))

	e.sched.Schedule(p.ID)

	return p, nil
}

// GetProcess returns the process with the given id, or ErrProcessNotFound.
func (e *Engine) GetProcess(ctx context.Context, id uuid.UUID) (Process, error) {
	return e.store.GetProcess(ctx, id)
}

// ListProcesses returns all processes, newest first.
func (e *Engine) ListProcesses(ctx context.Context) ([]Process, error) {
	return e.store.ListProcesses(ctx)
}

// HandleWebhook applies an externally reported outcome to the named process.
// It never fails from the caller's point of view: unknown event types, unknown
// process ids and store errors are logged and acknowledged. A late webhook
// against a process already in a terminal state is a no-op.
func (e *Engine) HandleWebhook(ctx context.Context, payload WebhookPayload) WebhookAck {
	switch payload.Type {
	case WebhookIngestionComplete:
		if err := transition(ctx, e.store, e.logger, payload.ProcessID, StatusCompleted, ""); err != nil {
			e.logger.Warn("webhook completion not applied",
				slog.String("process_id", payload.ProcessID.String()),
				slog.String("error", err.Error()))
		}
	case WebhookIngestionFailed:
		if err := transition(ctx, e.store, e.logger, payload.ProcessID, StatusFailed, payload.Error); err != nil {
			e.logger.Warn("webhook failure not applied",
				slog.String("process_id", payload.ProcessID.String()),
				slog.String("error", err.Error()))
		}
	default:
		e.logger.Warn("unrecognized webhook type",
			slog.String("type", payload.Type),
			slog.String("process_id", payload.ProcessID.String()))
	}

	return WebhookAck{Message: "Webhook processed successfully"}
}

// transition is the single status-update path shared by the webhook handler
// and the scheduler. It re-reads the record and applies the write only when
// the stored status still permits it, so concurrent actors cannot overwrite a
// terminal state and CompletedAt is written exactly once.
func transition(ctx context.Context, store ProcessStore, logger *slog.Logger, id uuid.UUID, next Status, errMsg string) error {
	p, err := store.GetProcess(ctx, id)
	if err != nil {
		return err
	}

	if !p.Status.CanTransition(next) {
		logger.Info("ignoring status transition",
			slog.String("process_id", id.String()),
			slog.String("from", string(p.Status)),
			slog.String("to", string(next)))
		return nil
	}

	p.Status = next
	if next.Terminal() {
		now := time.Now().UTC()
		p.CompletedAt = &now
	}
	if next == StatusFailed && errMsg != "" {
		p.Error = &errMsg
	}

	if _, err := store.SaveProcess(ctx, p); err != nil {
		return fmt.Errorf("save process: %w", err)
	}
	return nil
}
