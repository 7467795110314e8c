package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/docfold-labs/docfold/internal/ingestion"
)

// processStore is a minimal in-memory ingestion.ProcessStore for handler tests.
type processStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]ingestion.Process
	order []uuid.UUID
}

func newProcessStore() *processStore {
	return &processStore{items: make(map[uuid.UUID]ingestion.Process)}
}

func (s *processStore) CreateProcess(_ context.Context, params ingestion.CreateProcessParams) (ingestion.Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	p := ingestion.Process{
		ID:          uuid.New(),
		Type:        params.Type,
		Status:      ingestion.StatusPending,
		DocumentIDs: params.DocumentIDs,
		Description: params.Description,
		Parameters:  params.Parameters,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.items[p.ID] = p
	s.order = append(s.order, p.ID)
	return p, nil
}

func (s *processStore) SaveProcess(_ context.Context, p ingestion.Process) (ingestion.Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[p.ID]; !ok {
		return ingestion.Process{}, ingestion.ErrProcessNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	s.items[p.ID] = p
	return p, nil
}

func (s *processStore) GetProcess(_ context.Context, id uuid.UUID) (ingestion.Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return ingestion.Process{}, ingestion.ErrProcessNotFound
	}
	return p, nil
}

func (s *processStore) ListProcesses(_ context.Context) ([]ingestion.Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ingestion.Process, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, s.items[s.order[i]])
	}
	return out, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newIngestionRouter(t *testing.T) (*chi.Mux, *processStore, *ingestion.Scheduler) {
	t.Helper()
	store := newProcessStore()
	logger := discardLogger()
	sched := ingestion.NewScheduler(store, logger, time.Millisecond, time.Millisecond)
	engine := ingestion.NewEngine(store, sched, logger)
	h := NewIngestionHandler(logger, engine)

	r := chi.NewRouter()
	r.Post("/ingestion/trigger", h.Trigger)
	r.Post("/ingestion/webhook", h.Webhook)
	r.Get("/ingestion", h.List)
	r.Get("/ingestion/{processID}", h.Get)
	return r, store, sched
}

func TestIngestionTrigger(t *testing.T) {
	router, _, sched := newIngestionRouter(t)
	defer sched.Wait()

	body := `{"type":"full_ingestion","description":"nightly"}`
	req := httptest.NewRequest(http.MethodPost, "/ingestion/trigger", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}

	var p ingestion.Process
	if err := json.NewDecoder(rr.Body).Decode(&p); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected assigned process id")
	}
	if p.Status != ingestion.StatusPending {
		t.Errorf("status = %s, want pending", p.Status)
	}
}

func TestIngestionTriggerRejects(t *testing.T) {
	router, _, _ := newIngestionRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed body", `{"type":`},
		{"unknown type", `{"type":"bulk_ingestion"}`},
		{"missing type", `{}`},
		{"bad document id", `{"type":"document_specific","document_ids":["not-a-uuid"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/ingestion/trigger", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestIngestionGet(t *testing.T) {
	router, store, _ := newIngestionRouter(t)

	p, err := store.CreateProcess(context.Background(), ingestion.CreateProcessParams{Type: ingestion.TypeFull})
	if err != nil {
		t.Fatalf("CreateProcess() error = %v", err)
	}

	t.Run("found", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ingestion/"+p.ID.String(), nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ingestion/not-a-uuid", nil))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ingestion/"+uuid.NewString(), nil))
		if rr.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rr.Code)
		}
	})
}

func TestIngestionList(t *testing.T) {
	router, store, _ := newIngestionRouter(t)

	t.Run("empty", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ingestion", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		var resp struct {
			Processes []ingestion.Process `json:"processes"`
			Total     int                 `json:"total"`
		}
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Processes == nil || resp.Total != 0 {
			t.Errorf("got %+v, want empty list with total 0", resp)
		}
	})

	t.Run("populated", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			if _, err := store.CreateProcess(context.Background(), ingestion.CreateProcessParams{Type: ingestion.TypeIncremental}); err != nil {
				t.Fatalf("CreateProcess() error = %v", err)
			}
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ingestion", nil))
		var resp struct {
			Processes []ingestion.Process `json:"processes"`
			Total     int                 `json:"total"`
		}
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Total != 3 {
			t.Errorf("total = %d, want 3", resp.Total)
		}
	})
}

func TestIngestionWebhook(t *testing.T) {
	router, store, _ := newIngestionRouter(t)

	wantAck := func(t *testing.T, rr *httptest.ResponseRecorder) {
		t.Helper()
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		var ack ingestion.WebhookAck
		if err := json.NewDecoder(rr.Body).Decode(&ack); err != nil {
			t.Fatalf("decode ack: %v", err)
		}
		if ack.Message != "Webhook processed successfully" {
			t.Errorf("message = %q", ack.Message)
		}
	}

	t.Run("completes a process", func(t *testing.T) {
		p, err := store.CreateProcess(context.Background(), ingestion.CreateProcessParams{Type: ingestion.TypeFull})
		if err != nil {
			t.Fatalf("CreateProcess() error = %v", err)
		}
		body := `{"type":"ingestion_complete","process_id":"` + p.ID.String() + `"}`
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/ingestion/webhook", strings.NewReader(body)))
		wantAck(t, rr)

		got, err := store.GetProcess(context.Background(), p.ID)
		if err != nil {
			t.Fatalf("GetProcess() error = %v", err)
		}
		if got.Status != ingestion.StatusCompleted {
			t.Errorf("status = %s, want completed", got.Status)
		}
	})

	t.Run("malformed body still acked", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/ingestion/webhook", strings.NewReader(`{"type":`)))
		wantAck(t, rr)
	})

	t.Run("unknown process still acked", func(t *testing.T) {
		body := `{"type":"ingestion_failed","process_id":"` + uuid.NewString() + `","error":"boom"}`
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/ingestion/webhook", strings.NewReader(body)))
		wantAck(t, rr)
	})
}
