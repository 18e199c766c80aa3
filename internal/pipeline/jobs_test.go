package pipeline

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewJob_Defaults(t *testing.T) {
	job := NewJob("science/ch1.pdf", "ch1")
	if _, err := uuid.Parse(job.ID); err != nil {
		t.Errorf("expected uuid job ID, got %q: %v", job.ID, err)
	}
	snap := job.Snapshot()
	if snap.Status != StatusQueued {
		t.Errorf("expected status %q, got %q", StatusQueued, snap.Status)
	}
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob("a.pdf", "a")

	for _, status := range []JobStatus{StatusExtracting, StatusChunking, StatusQuerying, StatusMerging, StatusCompleted} {
		before := job.Snapshot().UpdatedAt
		time.Sleep(time.Millisecond)
		job.SetStatus(status)

		snap := job.Snapshot()
		if snap.Status != status {
			t.Errorf("expected status %q, got %q", status, snap.Status)
		}
		if !snap.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", status)
		}
	}
}

func TestJob_Counters(t *testing.T) {
	job := NewJob("a.pdf", "a")
	job.SetTotalChunks(3)
	job.ChunkDone(true)
	job.ChunkDone(false)
	job.ChunkDone(true)
	job.SetRows(4)
	job.AddError("chunk 2: oracle timeout")

	snap := job.Snapshot()
	want := Progress{TotalChunks: 3, ChunksProcessed: 3, ChunksAnswered: 2, Rows: 4}
	if snap.Progress.TotalChunks != want.TotalChunks || snap.Progress.ChunksProcessed != want.ChunksProcessed ||
		snap.Progress.ChunksAnswered != want.ChunksAnswered || snap.Progress.Rows != want.Rows {
		t.Errorf("progress = %+v, want %+v", snap.Progress, want)
	}
	if len(snap.Progress.Errors) != 1 || snap.Progress.Errors[0] != "chunk 2: oracle timeout" {
		t.Errorf("errors = %v", snap.Progress.Errors)
	}
}

func TestJob_SnapshotIsCopy(t *testing.T) {
	job := NewJob("a.pdf", "a")
	job.AddError("first")
	snap := job.Snapshot()
	job.AddError("second")

	if len(snap.Progress.Errors) != 1 {
		t.Errorf("snapshot changed after later AddError: %v", snap.Progress.Errors)
	}
}

func TestJob_ConcurrentUpdates(t *testing.T) {
	job := NewJob("a.pdf", "a")
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			job.ChunkDone(true)
			_ = job.Snapshot()
		}()
	}
	wg.Wait()
	if got := job.Snapshot().Progress.ChunksProcessed; got != 50 {
		t.Errorf("expected 50 chunks processed, got %d", got)
	}
}

func TestRun_SnapshotIncludesJobs(t *testing.T) {
	run := NewRun("science", "science")
	run.AddJob(NewJob("science/a.pdf", "a"))
	run.AddJob(NewJob("science/b.pdf", "b"))

	snap := run.Snapshot()
	if snap.Status != RunRunning || snap.FinishedAt != nil {
		t.Errorf("unexpected running snapshot: %+v", snap)
	}
	if len(snap.Jobs) != 2 || snap.Jobs[0].Title != "a" || snap.Jobs[1].Title != "b" {
		t.Fatalf("jobs = %+v", snap.Jobs)
	}

	run.Finish(RunCompleted, 7)
	snap = run.Snapshot()
	if snap.Status != RunCompleted || snap.Rows != 7 || snap.FinishedAt == nil {
		t.Errorf("unexpected finished snapshot: %+v", snap)
	}
}

func TestRunStore_PutGetList(t *testing.T) {
	store := NewRunStore()
	first := NewRun("science", "science")
	second := NewRun("math", "math")
	store.Put(first)
	store.Put(second)
	store.Put(first)

	if got := store.Get(second.ID); got != second {
		t.Errorf("Get(%q) = %v", second.ID, got)
	}
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing run")
	}
	list := store.List()
	if len(list) != 2 || list[0] != first || list[1] != second {
		t.Errorf("List() = %v, want start order without duplicates", list)
	}
}
