package ingestion

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestScheduler_RunsBothStages(t *testing.T) {
	store := newMemStore()
	sched := NewScheduler(store, testLogger(), time.Millisecond, time.Millisecond)

	p, err := store.CreateProcess(context.Background(), CreateProcessParams{Type: TypeFull})
	if err != nil {
		t.Fatalf("CreateProcess() error = %v", err)
	}

	sched.Schedule(p.ID)
	sched.Wait()

	got, err := store.GetProcess(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("GetProcess() error = %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", got.Status)
	}
	if got.CompletedAt == nil {
		t.Error("expected CompletedAt set")
	}
}

func TestScheduler_OverlappingRuns(t *testing.T) {
	store := newMemStore()
	sched := NewScheduler(store, testLogger(), time.Millisecond, 5*time.Millisecond)

	var ids []Process
	for i := 0; i < 20; i++ {
		p, err := store.CreateProcess(context.Background(), CreateProcessParams{Type: TypeIncremental})
		if err != nil {
			t.Fatalf("CreateProcess() error = %v", err)
		}
		sched.Schedule(p.ID)
		ids = append(ids, p)
	}

	sched.Wait()

	for _, p := range ids {
		got, err := store.GetProcess(context.Background(), p.ID)
		if err != nil {
			t.Fatalf("GetProcess(%s) error = %v", p.ID, err)
		}
		if got.Status != StatusCompleted {
			t.Errorf("process %s status = %s, want completed", p.ID, got.Status)
		}
	}
}

func TestScheduler_FetchFailureConvertsToFailed(t *testing.T) {
	store := newMemStore()
	sched := NewScheduler(store, testLogger(), time.Millisecond, time.Millisecond)

	p, err := store.CreateProcess(context.Background(), CreateProcessParams{Type: TypeFull})
	if err != nil {
		t.Fatalf("CreateProcess() error = %v", err)
	}

	store.nextGetErr = errors.New("connection reset")
	sched.Schedule(p.ID)
	sched.Wait()

	got, err := store.GetProcess(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("GetProcess() error = %v", err)
	}
	if got.Status != StatusFailed {
		t.Errorf("status = %s, want failed", got.Status)
	}
	if got.Error == nil || *got.Error != "connection reset" {
		t.Errorf("error = %v, want connection reset", got.Error)
	}
}

func TestScheduler_SaveFailureConvertsToFailed(t *testing.T) {
	store := newMemStore()
	sched := NewScheduler(store, testLogger(), time.Millisecond, time.Millisecond)

	p, err := store.CreateProcess(context.Background(), CreateProcessParams{Type: TypeFull})
	if err != nil {
		t.Fatalf("CreateProcess() error = %v", err)
	}

	store.nextSaveErr = errors.New("disk full")
	sched.Schedule(p.ID)
	sched.Wait()

	got, err := store.GetProcess(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("GetProcess() error = %v", err)
	}
	if got.Status != StatusFailed {
		t.Errorf("status = %s, want failed", got.Status)
	}
	if got.Error == nil {
		t.Fatal("expected error recorded")
	}
}

func TestScheduler_SkipsTerminalProcess(t *testing.T) {
	store := newMemStore()
	sched := NewScheduler(store, testLogger(), time.Millisecond, time.Millisecond)

	p, err := store.CreateProcess(context.Background(), CreateProcessParams{Type: TypeFull})
	if err != nil {
		t.Fatalf("CreateProcess() error = %v", err)
	}

	// Finish the process before the scheduler picks it up.
	if err := transition(context.Background(), store, testLogger(), p.ID, StatusFailed, "external failure"); err != nil {
		t.Fatalf("transition() error = %v", err)
	}
	before, _ := store.GetProcess(context.Background(), p.ID)

	sched.Schedule(p.ID)
	sched.Wait()

	after, err := store.GetProcess(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("GetProcess() error = %v", err)
	}
	if after.Status != StatusFailed {
		t.Errorf("status = %s, want failed", after.Status)
	}
	if !after.CompletedAt.Equal(*before.CompletedAt) {
		t.Errorf("CompletedAt rewritten: %v != %v", after.CompletedAt, before.CompletedAt)
	}
}
