package pipeline

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus is the phase of one document's processing.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusExtracting JobStatus = "extracting"
	StatusChunking   JobStatus = "chunking"
	StatusQuerying   JobStatus = "querying"
	StatusMerging    JobStatus = "merging"
	StatusCompleted  JobStatus = "completed"
	StatusEmpty      JobStatus = "empty" // Processed, but no rows came out.
	StatusFailed     JobStatus = "failed"
)

// Job tracks the processing of a single document.
type Job struct {
	mu sync.Mutex

	ID    string
	Path  string
	Title string

	status   JobStatus
	progress Progress

	createdAt time.Time
	updatedAt time.Time
}

// Progress counts work done for a job.
type Progress struct {
	TotalChunks     int      `json:"total_chunks"`
	ChunksProcessed int      `json:"chunks_processed"`
	ChunksAnswered  int      `json:"chunks_answered"`
	Rows            int      `json:"rows"`
	Errors          []string `json:"errors"`
}

func NewJob(path, title string) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Path:      path,
		Title:     title,
		status:    StatusQueued,
		createdAt: now,
		updatedAt: now,
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = status
	j.updatedAt = time.Now()
}

func (j *Job) Status() JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.progress.Errors = append(j.progress.Errors, err)
	j.updatedAt = time.Now()
}

// SetTotalChunks records total chunk count.
func (j *Job) SetTotalChunks(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.progress.TotalChunks = n
	j.updatedAt = time.Now()
}

// ChunkDone counts one oracle call, answered or not.
func (j *Job) ChunkDone(answered bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.progress.ChunksProcessed++
	if answered {
		j.progress.ChunksAnswered++
	}
	j.updatedAt = time.Now()
}

func (j *Job) SetRows(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.progress.Rows = n
	j.updatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	Path      string    `json:"path"`
	Title     string    `json:"title"`
	Status    JobStatus `json:"status"`
	Progress  Progress  `json:"progress"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	progress := j.progress
	progress.Errors = append([]string{}, j.progress.Errors...)
	return JobSnapshot{
		ID:        j.ID,
		Path:      j.Path,
		Title:     j.Title,
		Status:    j.status,
		Progress:  progress,
		CreatedAt: j.createdAt,
		UpdatedAt: j.updatedAt,
	}
}

// RunStatus is the state of one subject folder's run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunCanceled  RunStatus = "canceled"
)

// Run groups the jobs of one subject folder.
type Run struct {
	mu sync.Mutex

	ID      string
	Subject string
	Folder  string

	status     RunStatus
	jobs       []*Job
	rows       int
	startedAt  time.Time
	finishedAt time.Time
}

func NewRun(subject, folder string) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Subject:   subject,
		Folder:    folder,
		status:    RunRunning,
		startedAt: time.Now(),
	}
}

func (r *Run) AddJob(job *Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, job)
}

// Finish records the final row count and status.
func (r *Run) Finish(status RunStatus, rows int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = status
	r.rows = rows
	r.finishedAt = time.Now()
}

// RunSnapshot is a read-only, JSON-safe copy of run state.
type RunSnapshot struct {
	ID         string        `json:"run_id"`
	Subject    string        `json:"subject"`
	Folder     string        `json:"folder"`
	Status     RunStatus     `json:"status"`
	Rows       int           `json:"rows"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt *time.Time    `json:"finished_at,omitempty"`
	Jobs       []JobSnapshot `json:"jobs,omitempty"`
}

func (r *Run) Snapshot() RunSnapshot {
	r.mu.Lock()
	jobs := slices.Clone(r.jobs)
	snap := RunSnapshot{
		ID:        r.ID,
		Subject:   r.Subject,
		Folder:    r.Folder,
		Status:    r.status,
		Rows:      r.rows,
		StartedAt: r.startedAt,
		Jobs:      make([]JobSnapshot, 0, len(jobs)),
	}
	if !r.finishedAt.IsZero() {
		finished := r.finishedAt
		snap.FinishedAt = &finished
	}
	r.mu.Unlock()

	for _, j := range jobs {
		snap.Jobs = append(snap.Jobs, j.Snapshot())
	}
	return snap
}

// RunStore is a thread-safe in-memory run registry, kept in start order.
type RunStore struct {
	mu   sync.Mutex
	runs []*Run
	byID map[string]*Run
}

func NewRunStore() *RunStore {
	return &RunStore{byID: make(map[string]*Run)}
}

func (s *RunStore) Put(run *Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[run.ID]; ok {
		return
	}
	s.runs = append(s.runs, run)
	s.byID[run.ID] = run
}

func (s *RunStore) Get(id string) *Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byID[id]
}

// List returns all runs in start order.
func (s *RunStore) List() []*Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.runs)
}
