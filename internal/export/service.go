package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"reelcut/internal/config"
	"reelcut/internal/editor"
	"reelcut/internal/export/state"
	"reelcut/internal/paths"
)

// Status is where the service is in its export lifecycle.
type Status int

const (
	StatusIdle Status = iota
	StatusRendering
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRendering:
		return "rendering"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

var (
	// ErrBusy is returned when an export is requested while one is running.
	ErrBusy = errors.New("an export is already running")
	// ErrNothingToRetry is returned by Retry unless the last export failed.
	ErrNothingToRetry = errors.New("no failed export to retry")
)

// Request is what a caller hands the service.
type Request struct {
	Snapshot editor.Snapshot
	Video    string
	HasAudio bool
	// Output overrides the templated output path.
	Output string
	Force  bool
}

// Result captures the outcome of an export attempt.
type Result struct {
	Job      Job
	Artifact Artifact
	Skipped  bool
	Reason   string // From the state.Reason* constants.
	Err      error
}

// ProgressReporter receives notifications as an export moves through the
// service.
type ProgressReporter interface {
	Start(job Job)
	Complete(result Result)
}

// Service runs one export at a time and remembers the last outcome.
type Service struct {
	Paths  paths.ProjectPaths
	Config config.ExportConfig
	Engine Exporter
	Logger *slog.Logger
	Now    func() time.Time

	mu     sync.Mutex
	status Status
	last   *Request
	result Result
}

// NewService binds an engine to a project.
func NewService(pp paths.ProjectPaths, cfg config.ExportConfig, engine Exporter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if ff, ok := engine.(*FFmpeg); ok && ff.LogDir == "" {
		ff.LogDir = pp.LogsDir
	}
	return &Service{
		Paths:  pp,
		Config: cfg,
		Engine: engine,
		Logger: logger,
		Now:    time.Now,
	}
}

// Status returns the current lifecycle state.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Last returns the outcome of the most recent finished export.
func (s *Service) Last() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Export runs req to completion. It moves the service from Idle, Succeeded
// or Failed into Rendering, then into Succeeded or Failed. A request whose
// inputs match the last successful export is skipped unless forced.
func (s *Service) Export(ctx context.Context, req Request, reporter ProgressReporter) Result {
	if s == nil {
		return Result{Err: errors.New("export service is nil")}
	}
	s.mu.Lock()
	if s.status == StatusRendering {
		s.mu.Unlock()
		return Result{Err: ErrBusy}
	}
	s.status = StatusRendering
	r := req
	s.last = &r
	s.mu.Unlock()

	res := s.run(ctx, req, reporter)

	s.mu.Lock()
	s.result = res
	if res.Err != nil {
		s.status = StatusFailed
	} else {
		s.status = StatusSucceeded
	}
	s.mu.Unlock()
	return res
}

// Retry re-runs the last request after a failure. The retry is forced so a
// stale state file cannot turn it into a skip.
func (s *Service) Retry(ctx context.Context, reporter ProgressReporter) Result {
	s.mu.Lock()
	if s.status != StatusFailed || s.last == nil {
		s.mu.Unlock()
		return Result{Err: ErrNothingToRetry}
	}
	req := *s.last
	s.mu.Unlock()

	req.Force = true
	return s.Export(ctx, req, reporter)
}

// Reset returns a finished service to Idle.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusRendering {
		s.status = StatusIdle
		s.result = Result{}
	}
}

func (s *Service) run(ctx context.Context, req Request, reporter ProgressReporter) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.Engine == nil {
		return Result{Err: errors.New("no export engine configured")}
	}

	settings := s.Config
	settings.Engine = s.Engine.Name()
	job := Job{
		Snapshot: req.Snapshot,
		Video:    req.Video,
		HasAudio: req.HasAudio,
		Output:   req.Output,
		Settings: settings,
	}
	if job.Output == "" {
		job.Output = s.outputPath(job)
	}

	if reporter != nil {
		reporter.Start(job)
	}
	res := s.exportJob(ctx, job, req.Force)
	if reporter != nil {
		reporter.Complete(res)
	}
	return res
}

func (s *Service) exportJob(ctx context.Context, job Job, force bool) Result {
	res := Result{Job: job}
	log := s.Logger.With(slog.String("engine", job.Settings.Engine), slog.String("output", job.Output))

	inputs := state.Inputs{Video: job.Video, Snapshot: job.Snapshot, Settings: job.Settings}
	es, _ := state.Load(s.Paths.ExportStateFile)
	decision := state.Detect(es, inputs, force)
	res.Reason = decision.Reason

	if decision.Action == state.ActionSkip && decision.Prior != nil {
		res.Skipped = true
		res.Artifact = Artifact{Path: decision.Prior.Artifact, Sidecar: decision.Prior.Sidecar, Engine: decision.Prior.Engine}
		log.Info("export skipped", slog.String("reason", decision.Reason), slog.String("artifact", decision.Prior.Artifact))
		return res
	}

	log.Info("export started", slog.String("reason", decision.Reason),
		slog.Int("scenes", len(job.Snapshot.Scenes)),
		slog.Int("subtitles", len(job.Snapshot.Subtitles)))

	sidecar := ""
	if len(job.Snapshot.Subtitles) > 0 {
		sidecar = SidecarPath(job.Output, job.Settings.Sidecar)
	}

	var artifact Artifact
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := s.Engine.Export(gctx, job)
		if err != nil {
			return err
		}
		artifact = a
		return nil
	})
	if sidecar != "" {
		g.Go(func() error {
			return WriteSidecar(sidecar, job.Settings.Sidecar, job)
		})
	}
	if err := g.Wait(); err != nil {
		res.Err = fmt.Errorf("export %s: %w", filepath.Base(job.Output), err)
		log.Error("export failed", slog.String("error", err.Error()))
		return res
	}

	artifact.Sidecar = sidecar
	res.Artifact = artifact

	es.Record(inputs, state.ExportEntry{
		ExportedAt: s.now().UTC(),
		Artifact:   artifact.Path,
		Sidecar:    artifact.Sidecar,
		Engine:     artifact.Engine,
		ElapsedS:   artifact.Elapsed.Seconds(),
	})
	state.Prune(es)
	if err := es.Save(s.Paths.ExportStateFile); err != nil {
		log.Warn("save export state", slog.String("error", err.Error()))
	}

	log.Info("export finished", slog.String("artifact", artifact.Path), slog.Duration("elapsed", artifact.Elapsed))
	return res
}

func (s *Service) outputPath(job Job) string {
	container := strings.TrimPrefix(strings.TrimSpace(job.Settings.Container), ".")
	if container == "" {
		container = "mp4"
	}
	base := OutputBaseName(job.Settings.OutputTemplate, job, s.now())
	return filepath.Join(s.Paths.ExportsDir, base+"."+container)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
