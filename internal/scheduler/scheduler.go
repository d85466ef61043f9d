// Package scheduler triggers the import and lifecycle jobs on their
// configured intervals and guarantees a job never overlaps itself.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ffwagency/vacancy-importer/internal/logger"
)

// Job is a named unit of work run every Interval.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// JobStatus is the last known state of a job.
type JobStatus struct {
	Name      string        `json:"name"`
	Interval  string        `json:"interval"`
	Running   bool          `json:"running"`
	Runs      int           `json:"runs"`
	Skipped   int           `json:"skipped"`
	LastRun   *time.Time    `json:"last_run,omitempty"`
	LastError string        `json:"last_error,omitempty"`
	Duration  time.Duration `json:"duration_ns,omitempty"`
}

// Outcome tells what happened to a trigger.
type Outcome int

const (
	// Ran means the job was executed.
	Ran Outcome = iota
	// SkippedRunning means the job was already running in this process.
	SkippedRunning
	// SkippedLocked means another process holds the job's lease.
	SkippedLocked
)

// Options configures a Scheduler.
type Options struct {
	// Locker is optional; without it only in-process overlap is prevented.
	Locker Locker
	Logger *zap.SugaredLogger
	// RunOnStart triggers every job once when the scheduler starts.
	RunOnStart bool
}

// Scheduler wraps robfig/cron.
type Scheduler struct {
	cron       *cron.Cron
	locker     Locker
	logger     *zap.SugaredLogger
	runOnStart bool

	mu     sync.Mutex
	jobs   map[string]Job
	status map[string]*JobStatus
	wg     sync.WaitGroup
}

// New creates an empty Scheduler.
func New(opts Options) *Scheduler {
	log := logger.OrComponent(opts.Logger, "scheduler")
	cl := cronLogger{l: log}
	return &Scheduler{
		cron:       cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl))),
		locker:     opts.Locker,
		logger:     log,
		runOnStart: opts.RunOnStart,
		jobs:       make(map[string]Job),
		status:     make(map[string]*JobStatus),
	}
}

// CronExpr returns the cron expression for interval.
func CronExpr(interval time.Duration) string {
	return fmt.Sprintf("@every %s", interval)
}

// Add registers job. It must be called before Start.
func (s *Scheduler) Add(ctx context.Context, job Job) error {
	if job.Name == "" || job.Run == nil {
		return fmt.Errorf("invalid job %q", job.Name)
	}
	if job.Interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive", job.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.Name]; ok {
		return fmt.Errorf("job %s is already registered", job.Name)
	}

	_, err := s.cron.AddFunc(CronExpr(job.Interval), func() {
		_, _ = s.RunNow(ctx, job.Name)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.jobs[job.Name] = job
	s.status[job.Name] = &JobStatus{Name: job.Name, Interval: job.Interval.String()}
	return nil
}

// Start starts the cron loop. With RunOnStart every job is also triggered
// immediately so nothing waits for the first tick.
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Start()
	s.logger.Infow("Scheduler started", logger.FieldCount, len(s.jobs))

	if !s.runOnStart {
		return
	}
	for _, name := range s.names() {
		name := name
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			_, _ = s.RunNow(ctx, name)
		}()
	}
}

// Stop stops the cron loop and waits for running jobs to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Infow("Scheduler stopped")
}

// RunNow runs the named job unless it is already running, here or in
// another process holding its lease.
func (s *Scheduler) RunNow(ctx context.Context, name string) (Outcome, error) {
	job, known, ok := s.begin(name)
	if !known {
		return SkippedRunning, fmt.Errorf("unknown job %q", name)
	}
	if !ok {
		s.logger.Infow("Job already running, skipping trigger", logger.FieldJob, name)
		return SkippedRunning, nil
	}
	defer s.end(name)

	if s.locker != nil {
		release, acquired, err := s.locker.Acquire(ctx, name, job.Interval)
		if err != nil {
			s.record(name, 0, err)
			s.logger.Errorw("Failed to acquire job lease", logger.FieldJob, name, logger.FieldError, err)
			return Ran, err
		}
		if !acquired {
			s.skip(name)
			s.logger.Infow("Job lease held elsewhere, skipping trigger", logger.FieldJob, name)
			return SkippedLocked, nil
		}
		defer release()
	}

	start := time.Now()
	err := job.Run(ctx)
	elapsed := time.Since(start)
	s.record(name, elapsed, err)

	if err != nil {
		s.logger.Errorw("Job failed", logger.FieldJob, name,
			logger.FieldDurationMS, elapsed.Milliseconds(), logger.FieldError, err)
		return Ran, err
	}
	s.logger.Infow("Job finished", logger.FieldJob, name, logger.FieldDurationMS, elapsed.Milliseconds())
	return Ran, nil
}

// Status returns the state of every job ordered by name.
func (s *Scheduler) Status() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobStatus, 0, len(s.status))
	for _, st := range s.status {
		cp := *st
		if st.LastRun != nil {
			t := *st.LastRun
			cp.LastRun = &t
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Scheduler) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// begin marks name running. ok is false when the job is already running.
func (s *Scheduler) begin(name string) (job Job, known, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, known = s.jobs[name]
	if !known {
		return Job{}, false, false
	}
	st := s.status[name]
	if st.Running {
		st.Skipped++
		return Job{}, true, false
	}
	st.Running = true
	return job, true, true
}

func (s *Scheduler) end(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[name].Running = false
}

func (s *Scheduler) skip(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[name].Skipped++
}

func (s *Scheduler) record(name string, elapsed time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.status[name]
	now := time.Now().UTC()
	st.Runs++
	st.LastRun = &now
	st.Duration = elapsed
	st.LastError = ""
	if err != nil {
		st.LastError = err.Error()
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, logger.FieldError, err)...)
}
