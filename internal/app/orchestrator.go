package app

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prestafacil/avaluador/internal/device"
	"github.com/prestafacil/avaluador/internal/engine"
	"github.com/prestafacil/avaluador/internal/interfaces"
	"github.com/prestafacil/avaluador/internal/registry"
	"github.com/prestafacil/avaluador/internal/vision"
)

type JobEventType string

const (
	JobEventStatus JobEventType = "estado"
	JobEventResult JobEventType = "resultado"
)

// JobEvent is one progress notification on a job's event channel.
type JobEvent struct {
	JobID string       `json:"id_trabajo"`
	Type  JobEventType `json:"tipo"`

	Status JobStatus `json:"estado,omitempty"`
	Error  string    `json:"error,omitempty"`
}

type JobStatus string

const (
	JobPending   JobStatus = "pendiente"
	JobAnalyzing JobStatus = "analizando_imagenes"
	JobValuing   JobStatus = "valorando"
	JobDone      JobStatus = "completado"
	JobFailed    JobStatus = "fallido"
	JobCanceled  JobStatus = "cancelado"
)

// Job tracks one asynchronous appraisal. Events carries status transitions
// and is closed when the job finishes, so consumers can range over it.
type Job struct {
	ID        string         `json:"id"`
	Status    JobStatus      `json:"estado"`
	Error     string         `json:"error,omitempty"`
	StartedAt time.Time      `json:"iniciado_en"`
	EndedAt   time.Time      `json:"finalizado_en"`
	Result    *engine.Result `json:"resultado,omitempty"`
	Events    chan JobEvent  `json:"-"`
}

// AppraisalRequest is the input of one appraisal job: the declared
// specification plus optional photos and seller notes for image analysis.
type AppraisalRequest struct {
	Raw    device.RawSpecification
	Images []vision.Image
	Notes  string
}

const jobEventBuffer = 16

// Orchestrator runs appraisals, synchronously or as background jobs with an
// event stream per job. Finished jobs stay queryable until the retention
// sweep removes them.
type Orchestrator struct {
	cfg      *Config
	engine   *engine.Engine
	vision   vision.Provider
	registry *registry.Registry
	logger   interfaces.Logger

	jobsMu     sync.Mutex
	closed     bool
	jobs       map[string]*Job
	jobCancels map[string]context.CancelFunc

	janitorStop chan struct{}
}

// NewOrchestrator ties together config, engine, vision provider and registry.
func NewOrchestrator(cfg *Config, eng *engine.Engine, provider vision.Provider, reg *registry.Registry, logger interfaces.Logger) *Orchestrator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	o := &Orchestrator{
		cfg:      cfg,
		engine:   eng,
		vision:   provider,
		registry: reg,
		logger:   logger,
	}
	if cfg.JobRetentionTime > 0 {
		o.janitorStop = make(chan struct{})
		go o.janitor()
	}
	return o
}

func (o *Orchestrator) ensureJobMaps() {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	if o.jobs == nil {
		o.jobs = make(map[string]*Job)
	}
	if o.jobCancels == nil {
		o.jobCancels = make(map[string]context.CancelFunc)
	}
}

func (o *Orchestrator) emitJobEvent(jobID string, ev JobEvent) {
	o.jobsMu.Lock()
	job, ok := o.jobs[jobID]
	o.jobsMu.Unlock()
	if !ok || job == nil || job.Events == nil {
		return
	}

	// Non-blocking send; drop if buffer is full.
	select {
	case job.Events <- ev:
	default:
	}
}

func (o *Orchestrator) newJob() *Job {
	return &Job{
		ID:        uuid.New().String(),
		Status:    JobPending,
		StartedAt: time.Now().UTC(),
		Events:    make(chan JobEvent, jobEventBuffer),
	}
}

func (o *Orchestrator) setJob(job *Job) {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	if o.jobs == nil {
		o.jobs = make(map[string]*Job)
	}
	o.jobs[job.ID] = job
}

func (o *Orchestrator) setCancel(jobID string, cancel context.CancelFunc) {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	if o.jobCancels == nil {
		o.jobCancels = make(map[string]context.CancelFunc)
	}
	o.jobCancels[jobID] = cancel
}

func (o *Orchestrator) deleteCancel(jobID string) {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	delete(o.jobCancels, jobID)
}

func (o *Orchestrator) getCancel(jobID string) context.CancelFunc {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	return o.jobCancels[jobID]
}

// markStatus records a status transition and emits the matching event.
func (o *Orchestrator) markStatus(jobID string, status JobStatus, errMsg string) {
	o.jobsMu.Lock()
	if j, ok := o.jobs[jobID]; ok {
		j.Status = status
		if errMsg != "" {
			j.Error = errMsg
		}
	}
	o.jobsMu.Unlock()
	o.emitJobEvent(jobID, JobEvent{JobID: jobID, Type: JobEventStatus, Status: status, Error: errMsg})
}

// markResult attaches the finished appraisal and emits the result event.
func (o *Orchestrator) markResult(jobID string, res *engine.Result) {
	o.jobsMu.Lock()
	if j, ok := o.jobs[jobID]; ok {
		j.Status = JobDone
		j.Result = res
	}
	o.jobsMu.Unlock()
	o.emitJobEvent(jobID, JobEvent{JobID: jobID, Type: JobEventResult, Status: JobDone})
}

// AppraiseDevice runs one appraisal in the calling goroutine. Photos and
// notes, when present, are analyzed first and may prefill declared fields
// the client left empty; analysis failures degrade to a spec-only appraisal.
func (o *Orchestrator) AppraiseDevice(ctx context.Context, raw device.RawSpecification, images []vision.Image, notes string) (*engine.Result, error) {
	raw, signals := o.analyzeImages(ctx, raw, images, notes)
	return o.engine.Evaluate(ctx, raw, signals)
}

// StartAppraisalJob launches an appraisal in the background and returns the
// job immediately. The job moves pendiente, analizando_imagenes when visual
// input is present, valorando, then completado, fallido or cancelado.
func (o *Orchestrator) StartAppraisalJob(ctx context.Context, req AppraisalRequest) (*Job, error) {
	o.ensureJobMaps()

	o.jobsMu.Lock()
	if o.closed {
		o.jobsMu.Unlock()
		return nil, errors.New("orchestrator is closed")
	}
	o.jobsMu.Unlock()

	job := o.newJob()
	o.setJob(job)

	jobCtx, cancel := context.WithCancel(ctx)
	o.setCancel(job.ID, cancel)

	// Emit initial pending event
	o.emitJobEvent(job.ID, JobEvent{
		JobID:  job.ID,
		Type:   JobEventStatus,
		Status: JobPending,
	})

	go func() {
		jobID := job.ID
		defer func() {
			o.jobsMu.Lock()
			if j, ok := o.jobs[jobID]; ok {
				j.EndedAt = time.Now().UTC()
			}
			o.jobsMu.Unlock()
			o.deleteCancel(jobID)

			// Close events channel so websocket loops can terminate cleanly
			o.jobsMu.Lock()
			j := o.jobs[jobID]
			o.jobsMu.Unlock()
			if j != nil && j.Events != nil {
				close(j.Events)
			}
		}()

		raw := req.Raw
		signals := vision.Signals{}
		if wantsAnalysis(o.vision, req.Images, req.Notes) {
			o.markStatus(jobID, JobAnalyzing, "")
			raw, signals = o.analyzeImages(jobCtx, raw, req.Images, req.Notes)
		}

		o.markStatus(jobID, JobValuing, "")
		res, err := o.engine.Evaluate(jobCtx, raw, signals)
		if err != nil {
			select {
			case <-jobCtx.Done():
				o.markStatus(jobID, JobCanceled, jobCtx.Err().Error())
			default:
				o.markStatus(jobID, JobFailed, err.Error())
			}
			return
		}

		select {
		case <-jobCtx.Done():
			o.markStatus(jobID, JobCanceled, jobCtx.Err().Error())
		default:
			o.markResult(jobID, res)
		}
	}()

	return job, nil
}

// analyzeImages runs the provider over photos and notes, folding recovered
// hints into the declared specification. Only fields the client left empty
// are prefilled; a declared value always wins over a guess from a photo.
func (o *Orchestrator) analyzeImages(ctx context.Context, raw device.RawSpecification, images []vision.Image, notes string) (device.RawSpecification, vision.Signals) {
	if !wantsAnalysis(o.vision, images, notes) {
		return raw, vision.Signals{}
	}

	signals, err := o.vision.Analyze(ctx, images, notes)
	if err != nil {
		o.logger.Warn("image analysis failed, appraising from the declared spec only",
			interfaces.Field{Key: "error", Value: err.Error()})
		return raw, vision.Signals{}
	}
	return prefillFromHints(raw, signals.Hints), signals
}

func wantsAnalysis(p vision.Provider, images []vision.Image, notes string) bool {
	return p != nil && (len(images) > 0 || strings.TrimSpace(notes) != "")
}

func prefillFromHints(raw device.RawSpecification, h vision.SpecHints) device.RawSpecification {
	if raw.RAMGB == nil && h.RAMGB != nil {
		raw.RAMGB = *h.RAMGB
	}
	if raw.DiskCapacityGB == nil && h.DiskCapacityGB != nil {
		raw.DiskCapacityGB = *h.DiskCapacityGB
	}
	if raw.ProcessorGeneration == nil && h.ProcessorGeneration != nil && !generationDeclared(raw) {
		raw.ProcessorGeneration = *h.ProcessorGeneration
	}
	if raw.HasDedicatedGraphics == nil && h.HasDedicatedGraphics != nil {
		raw.HasDedicatedGraphics = *h.HasDedicatedGraphics
	}
	return raw
}

// generationDeclared reports whether the declared processor text already
// carries a readable generation. A hint must not replace what the client
// stated, even indirectly through the model name.
func generationDeclared(raw device.RawSpecification) bool {
	text, ok := raw.ProcessorModel.(string)
	return ok && device.ParseProcessor(text).Generation != nil
}

// CancelJob aborts a running job. Unknown IDs are a no-op.
func (o *Orchestrator) CancelJob(jobID string) {
	cancel := o.getCancel(jobID)
	if cancel != nil {
		cancel()
	}
}

// GetJob returns the live job or nil when unknown or already pruned.
func (o *Orchestrator) GetJob(jobID string) *Job {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	j, ok := o.jobs[jobID]
	if !ok {
		return nil
	}
	return j
}

// SnapshotJob returns a copy safe to serialize while the job still runs.
func (o *Orchestrator) SnapshotJob(jobID string) (Job, bool) {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	j, ok := o.jobs[jobID]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

// ListJobs returns all known jobs, newest first.
func (o *Orchestrator) ListJobs() []Job {
	o.jobsMu.Lock()
	jobs := make([]Job, 0, len(o.jobs))
	for _, j := range o.jobs {
		jobs = append(jobs, *j)
	}
	o.jobsMu.Unlock()

	sort.Slice(jobs, func(i, k int) bool { return jobs[i].StartedAt.After(jobs[k].StartedAt) })
	return jobs
}

// Close cancels every running job and stops the retention sweep. Safe to
// call more than once.
func (o *Orchestrator) Close() {
	o.jobsMu.Lock()
	if o.closed {
		o.jobsMu.Unlock()
		return
	}
	o.closed = true
	cancels := make([]context.CancelFunc, 0, len(o.jobCancels))
	for _, cancel := range o.jobCancels {
		cancels = append(cancels, cancel)
	}
	o.jobsMu.Unlock()

	if o.janitorStop != nil {
		close(o.janitorStop)
	}
	for _, cancel := range cancels {
		cancel()
	}
}

func (o *Orchestrator) janitor() {
	interval := o.cfg.JobRetentionTime / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-o.janitorStop:
			return
		case <-ticker.C:
			o.pruneFinished(time.Now().UTC())
		}
	}
}

// pruneFinished drops jobs that ended longer than the retention window ago.
func (o *Orchestrator) pruneFinished(now time.Time) int {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()

	pruned := 0
	for id, j := range o.jobs {
		if !j.EndedAt.IsZero() && now.Sub(j.EndedAt) > o.cfg.JobRetentionTime {
			delete(o.jobs, id)
			pruned++
		}
	}
	return pruned
}

// ─── Registry delegates ────────────────────────────────────────────────

// ActiveModel returns the registry entry of the active artifact.
func (o *Orchestrator) ActiveModel(ctx context.Context) (*registry.Entry, error) {
	_, entry, err := o.registry.Active(ctx)
	return entry, err
}

// ListModels lists every registered artifact, newest first.
func (o *Orchestrator) ListModels(ctx context.Context) ([]registry.Entry, error) {
	return o.registry.List(ctx)
}
