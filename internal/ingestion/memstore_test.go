package ingestion

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memStore is an in-memory ProcessStore for tests. Error fields inject a
// single failure into the next matching call.
type memStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]Process
	order []uuid.UUID

	nextGetErr  error
	nextSaveErr error
}

func newMemStore() *memStore {
	return &memStore{items: make(map[uuid.UUID]Process)}
}

func (m *memStore) CreateProcess(_ context.Context, params CreateProcessParams) (Process, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	p := Process{
		ID:          uuid.New(),
		Type:        params.Type,
		Status:      StatusPending,
		DocumentIDs: params.DocumentIDs,
		Description: params.Description,
		Parameters:  params.Parameters,
		StartedAt:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.items[p.ID] = p
	m.order = append(m.order, p.ID)
	return p, nil
}

func (m *memStore) SaveProcess(_ context.Context, p Process) (Process, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.nextSaveErr; err != nil {
		m.nextSaveErr = nil
		return Process{}, err
	}
	if _, ok := m.items[p.ID]; !ok {
		return Process{}, ErrProcessNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	m.items[p.ID] = p
	return p, nil
}

func (m *memStore) GetProcess(_ context.Context, id uuid.UUID) (Process, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.nextGetErr; err != nil {
		m.nextGetErr = nil
		return Process{}, err
	}
	p, ok := m.items[id]
	if !ok {
		return Process{}, ErrProcessNotFound
	}
	return p, nil
}

func (m *memStore) ListProcesses(_ context.Context) ([]Process, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]Process, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		items = append(items, m.items[m.order[i]])
	}
	return items, nil
}
