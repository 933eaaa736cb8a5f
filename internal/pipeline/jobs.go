package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"docsift/internal/docmodel"
)

// JobStatus represents the state of an analysis job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusPartial   JobStatus = "partial"
	StatusFailed    JobStatus = "failed"
)

// Phase names reported while a job runs.
const (
	PhaseProfiling = "profiling"
	PhaseFitting   = "fitting"
	PhaseScoring   = "scoring"
	PhaseRanking   = "ranking"
	PhaseRefining  = "refining"
)

// Job tracks the state of a single collection analysis.
type Job struct {
	mu sync.Mutex

	ID string

	Status JobStatus
	Phase  string

	Progress Progress

	CreatedAt time.Time
	UpdatedAt time.Time

	// Internal: not exposed through snapshots.
	request Request
	result  *docmodel.AnalysisResult
	errMsg  string
}

// Progress tracks per-phase counters.
type Progress struct {
	TotalSections  int `json:"total_sections"`
	SectionsScored int `json:"sections_scored"`
	Refined        int `json:"subsections_refined"`
}

// NewJob builds a queued job for a request.
func NewJob(req Request) *Job {
	now := time.Now()
	return &Job{
		ID:        jobID(req, now),
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
		request:   req,
	}
}

// jobID derives a short unique identifier from the request inputs.
func jobID(req Request, now time.Time) string {
	seed := fmt.Sprintf("%s|%s|%d|%d", req.Role, req.Task, len(req.Documents), now.UnixNano())
	return ContentHashHex([]byte(seed))[:20]
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// SetProgress records phase counters.
func (j *Job) SetProgress(phase string, done, total int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Phase = phase
	switch phase {
	case PhaseScoring:
		j.Progress.TotalSections = total
		j.Progress.SectionsScored = done
	case PhaseRefining:
		j.Progress.Refined = done
	}
	j.UpdatedAt = time.Now()
}

// SetResult stores the run outcome.
func (j *Job) SetResult(result *docmodel.AnalysisResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = result
	j.UpdatedAt = time.Now()
}

// Result returns the stored result, nil until the job finished.
func (j *Job) Result() *docmodel.AnalysisResult {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// SetError records the failure message.
func (j *Job) SetError(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errMsg = msg
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Progress Progress  `json:"progress"`
	Error    string    `json:"error,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobSnapshot{
		ID:       j.ID,
		Status:   j.Status,
		Phase:    j.Phase,
		Progress: j.Progress,
		Error:    j.errMsg,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}
