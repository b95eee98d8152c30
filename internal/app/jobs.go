package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/raysh454/seolens/internal/auditor"
	"github.com/raysh454/seolens/internal/logging"
	"github.com/raysh454/seolens/internal/model"
	"github.com/raysh454/seolens/internal/observability"
)

type JobEventType string

const (
	JobEventStatus   JobEventType = "status"
	JobEventProgress JobEventType = "progress"
	JobEventResult   JobEventType = "result"
)

type JobEvent struct {
	JobID string       `json:"job_id"`
	Type  JobEventType `json:"type"`

	// For status changes
	Status JobStatus `json:"status,omitempty"`
	Error  string    `json:"error,omitempty"`

	// For progress
	Stage auditor.State `json:"stage,omitempty"`

	// For results
	Report *model.AuditReport `json:"report,omitempty"`
}

type JobStatus string

const (
	JobPending  JobStatus = "pending"
	JobRunning  JobStatus = "running"
	JobDone     JobStatus = "done"
	JobFailed   JobStatus = "failed"
	JobCanceled JobStatus = "canceled"
)

// Finished reports whether s is terminal.
func (s JobStatus) Finished() bool {
	return s == JobDone || s == JobFailed || s == JobCanceled
}

// Job is an audit running in the background. Values handed out by the
// Orchestrator are snapshots; Events is shared and closed when the job ends.
type Job struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	OwnerID   string          `json:"owner_id"`
	TargetID  string          `json:"project_id"`
	URL       string          `json:"url"`
	AuditType model.AuditType `json:"audit_type"`
	Status    JobStatus       `json:"status"`
	Error     string          `json:"error,omitempty"`
	StartedAt time.Time       `json:"started_at"`
	EndedAt   time.Time       `json:"ended_at"`
	Events    chan JobEvent   `json:"-"`

	Report *model.AuditReport `json:"report,omitempty"`

	eventsClosed bool
}

const jobEventBuffer = 32

// StartAuditJob validates the target and starts auditing it in the
// background. The job stops early when ctx is canceled or CancelJob is called.
func (o *Orchestrator) StartAuditJob(ctx context.Context, ownerID, targetID string, typ model.AuditType) (*Job, error) {
	if typ == "" {
		typ = model.AuditManual
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: unknown audit type %q", ErrInvalidInput, typ)
	}
	t, err := o.store.GetTarget(ctx, ownerID, targetID)
	if err != nil {
		return nil, err
	}
	o.pruneJobs()

	job := &Job{
		ID:        uuid.New().String(),
		Type:      "audit",
		OwnerID:   ownerID,
		TargetID:  t.ID,
		URL:       t.URL,
		AuditType: typ,
		Status:    JobPending,
		StartedAt: o.now().UTC(),
		Events:    make(chan JobEvent, jobEventBuffer),
	}
	jobCtx, cancel := context.WithCancel(ctx)

	o.jobsMu.Lock()
	o.jobs[job.ID] = job
	o.jobCancels[job.ID] = cancel
	snapshot := *job
	o.jobsMu.Unlock()

	observability.JobsActive.Inc()
	o.emitJobEvent(job.ID, JobEvent{JobID: job.ID, Type: JobEventStatus, Status: JobPending})

	o.jobsWG.Add(1)
	go o.runAuditJob(jobCtx, job.ID, ownerID, t.ID, typ)

	return &snapshot, nil
}

func (o *Orchestrator) runAuditJob(ctx context.Context, jobID, ownerID, targetID string, typ model.AuditType) {
	defer o.jobsWG.Done()
	defer func() {
		o.jobsMu.Lock()
		if cancel := o.jobCancels[jobID]; cancel != nil {
			cancel()
		}
		delete(o.jobCancels, jobID)
		if j, ok := o.jobs[jobID]; ok {
			j.EndedAt = o.now().UTC()
			if !j.eventsClosed {
				close(j.Events)
				j.eventsClosed = true
			}
		}
		o.jobsMu.Unlock()
		observability.JobsActive.Dec()
	}()

	o.setJobStatus(jobID, JobRunning, "")
	o.emitJobEvent(jobID, JobEvent{JobID: jobID, Type: JobEventStatus, Status: JobRunning})

	progress := auditor.ObserverFunc(func(tr auditor.Transition) {
		o.emitJobEvent(jobID, JobEvent{JobID: jobID, Type: JobEventProgress, Stage: tr.To})
	})

	report, err := o.RunAudit(ctx, ownerID, targetID, typ, progress)
	switch {
	case err == nil:
		o.jobsMu.Lock()
		if j, ok := o.jobs[jobID]; ok {
			j.Status = JobDone
			j.Report = report
		}
		o.jobsMu.Unlock()
		o.emitJobEvent(jobID, JobEvent{JobID: jobID, Type: JobEventResult, Status: JobDone, Report: report})
	case ctx.Err() != nil:
		msg := ctx.Err().Error()
		o.setJobStatus(jobID, JobCanceled, msg)
		o.emitJobEvent(jobID, JobEvent{JobID: jobID, Type: JobEventStatus, Status: JobCanceled, Error: msg})
	default:
		o.setJobStatus(jobID, JobFailed, err.Error())
		o.emitJobEvent(jobID, JobEvent{JobID: jobID, Type: JobEventStatus, Status: JobFailed, Error: err.Error()})
		o.logger.Warn("audit job failed", logging.F("job_id", jobID), logging.Err(err))
	}
}

func (o *Orchestrator) setJobStatus(jobID string, status JobStatus, msg string) {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	if j, ok := o.jobs[jobID]; ok {
		j.Status = status
		j.Error = msg
	}
}

// emitJobEvent never blocks; events are dropped when the buffer is full.
func (o *Orchestrator) emitJobEvent(jobID string, ev JobEvent) {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	job, ok := o.jobs[jobID]
	if !ok || job.Events == nil || job.eventsClosed {
		return
	}
	select {
	case job.Events <- ev:
	default:
	}
}

// GetJob returns a snapshot of one of the owner's jobs.
func (o *Orchestrator) GetJob(ownerID, jobID string) (*Job, error) {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	j, ok := o.jobs[jobID]
	if !ok || j.OwnerID != ownerID {
		return nil, fmt.Errorf("job %s: %w", jobID, ErrJobNotFound)
	}
	snapshot := *j
	return &snapshot, nil
}

// CancelJob stops a running job. Canceling a finished job is a no-op.
func (o *Orchestrator) CancelJob(ownerID, jobID string) error {
	o.jobsMu.Lock()
	j, ok := o.jobs[jobID]
	if !ok || j.OwnerID != ownerID {
		o.jobsMu.Unlock()
		return fmt.Errorf("job %s: %w", jobID, ErrJobNotFound)
	}
	cancel := o.jobCancels[jobID]
	o.jobsMu.Unlock()

	if cancel != nil {
		cancel()
	}
	return nil
}

// ListJobs returns snapshots of the owner's jobs, newest first.
func (o *Orchestrator) ListJobs(ownerID string) []Job {
	o.pruneJobs()
	o.jobsMu.Lock()
	out := make([]Job, 0, len(o.jobs))
	for _, j := range o.jobs {
		if j.OwnerID == ownerID {
			out = append(out, *j)
		}
	}
	o.jobsMu.Unlock()

	sort.Slice(out, func(a, b int) bool {
		if !out[a].StartedAt.Equal(out[b].StartedAt) {
			return out[a].StartedAt.After(out[b].StartedAt)
		}
		return out[a].ID > out[b].ID
	})
	return out
}

// pruneJobs forgets finished jobs older than the retention window.
func (o *Orchestrator) pruneJobs() {
	retention := o.cfg.Audit.JobRetention
	if retention <= 0 {
		return
	}
	cutoff := o.now().UTC().Add(-retention)
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	for id, j := range o.jobs {
		if j.Status.Finished() && !j.EndedAt.IsZero() && j.EndedAt.Before(cutoff) {
			delete(o.jobs, id)
		}
	}
}

// Close cancels every running job and waits for them to finish or for ctx to
// expire.
func (o *Orchestrator) Close(ctx context.Context) error {
	o.jobsMu.Lock()
	for _, cancel := range o.jobCancels {
		cancel()
	}
	o.jobsMu.Unlock()

	done := make(chan struct{})
	go func() {
		o.jobsWG.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Join(errors.New("jobs still running at shutdown"), ctx.Err())
	}
}
