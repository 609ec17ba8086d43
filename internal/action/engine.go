package action

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nickustinov/homebar/internal/group"
	"github.com/nickustinov/homebar/internal/home"
	"github.com/nickustinov/homebar/internal/resolver"
)

// Executor carries commands to the home platform.
type Executor interface {
	// Execute applies a command to one service.
	Execute(ctx context.Context, svc home.Service, req Request) error
	// ActivateScene runs a scene.
	ActivateScene(ctx context.Context, scene home.Scene) error
}

// SnapshotSource provides the current home snapshot.
type SnapshotSource interface {
	Current() *home.Snapshot
}

// GroupSource provides the current group list.
type GroupSource interface {
	Groups() []group.Group
}

// Record describes one executed command for history storage.
type Record struct {
	Command   Command
	Target    string
	Verdict   resolver.Kind
	Status    Status
	ErrorKind ErrorKind
	Succeeded int
	Failed    int
	Duration  time.Duration
	Time      time.Time
}

// Recorder receives a Record for every command the Engine handles.
type Recorder interface {
	RecordCommand(ctx context.Context, rec Record)
}

// Logger defines the logging interface used by the Engine.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Outcome is the result of executing one Request.
type Outcome struct {
	Status    Status
	Verdict   resolver.Kind
	Succeeded int
	Failed    int
	Err       *Error
}

// Message returns the text shown to the caller for partial and failed
// outcomes, or "" for success.
func (o Outcome) Message() string {
	switch o.Status {
	case StatusPartial:
		return fmt.Sprintf("%d succeeded, %d failed", o.Succeeded, o.Failed)
	case StatusError:
		if o.Err != nil {
			return o.Err.Message()
		}
	}
	return ""
}

// Engine resolves command targets and executes them.
//
// Thread Safety:
//   - Execute may be called concurrently; each call reads one snapshot and
//     one group list and never mutates shared state.
type Engine struct {
	snapshots SnapshotSource
	groups    GroupSource
	executor  Executor
	recorder  Recorder
	observe   func(resolver.Kind)
	logger    Logger
	now       func() time.Time
}

// NewEngine creates an engine over the given sources and executor.
func NewEngine(snapshots SnapshotSource, groups GroupSource, executor Executor) *Engine {
	return &Engine{
		snapshots: snapshots,
		groups:    groups,
		executor:  executor,
		logger:    noopLogger{},
		now:       time.Now,
	}
}

// SetLogger sets the logger for the engine.
func (e *Engine) SetLogger(logger Logger) {
	e.logger = logger
}

// SetRecorder sets where command history is written. Nil disables history.
func (e *Engine) SetRecorder(recorder Recorder) {
	e.recorder = recorder
}

// SetVerdictObserver registers a callback invoked with every resolution
// verdict, typically to feed a metrics counter.
func (e *Engine) SetVerdictObserver(observe func(resolver.Kind)) {
	e.observe = observe
}

// Resolve runs the resolver against the engine's current snapshot and groups.
func (e *Engine) Resolve(target string) resolver.Result {
	return resolver.Resolve(target, e.snapshots.Current(), e.currentGroups())
}

func (e *Engine) currentGroups() []group.Group {
	if e.groups == nil {
		return nil
	}
	return e.groups.Groups()
}

// Execute resolves req.Target and applies req.Command to whatever it names.
func (e *Engine) Execute(ctx context.Context, req Request) Outcome {
	start := e.now()
	snap := e.snapshots.Current()
	result := resolver.Resolve(req.Target, snap, e.currentGroups())
	e.logger.Debug("target resolved",
		"command", req.Command,
		"target", req.Target,
		"verdict", result.Kind.String(),
		"matches", len(result.IDs()),
	)
	if e.observe != nil {
		e.observe(result.Kind)
	}

	outcome := e.dispatch(ctx, req, result, snap)
	outcome.Verdict = result.Kind

	if outcome.Status != StatusSuccess {
		e.logger.Warn("command not fully executed",
			"command", req.Command,
			"target", req.Target,
			"status", outcome.Status,
			"message", outcome.Message(),
		)
	}

	if e.recorder != nil {
		rec := Record{
			Command:   req.Command,
			Target:    req.Target,
			Verdict:   result.Kind,
			Status:    outcome.Status,
			Succeeded: outcome.Succeeded,
			Failed:    outcome.Failed,
			Duration:  e.now().Sub(start),
			Time:      start,
		}
		if outcome.Err != nil {
			rec.ErrorKind = outcome.Err.Kind
		}
		e.recorder.RecordCommand(ctx, rec)
	}

	return outcome
}

func (e *Engine) dispatch(ctx context.Context, req Request, result resolver.Result, snap *home.Snapshot) Outcome {
	switch result.Kind {
	case resolver.Services:
		return e.executeServices(ctx, req, result.Services)

	case resolver.Scene:
		if !req.Command.activatesScene() {
			return failed(&Error{Kind: KindUnsupportedAction, Action: req.Command})
		}
		if err := e.executor.ActivateScene(ctx, result.Scene); err != nil {
			return failed(executionError(err))
		}
		return Outcome{Status: StatusSuccess, Succeeded: 1}

	case resolver.Ambiguous:
		return failed(&Error{Kind: KindAmbiguousTarget, Options: describe(result.Services, snap)})

	default:
		return failed(&Error{Kind: KindTargetNotFound, Target: result.Query})
	}
}

func (e *Engine) executeServices(ctx context.Context, req Request, services []home.Service) Outcome {
	var targets []home.Service
	for _, svc := range services {
		if req.Command.Supports(svc.Type) {
			targets = append(targets, svc)
		}
	}
	if len(targets) == 0 {
		return failed(&Error{Kind: KindUnsupportedAction, Action: req.Command})
	}

	var outcome Outcome
	var errs []error
	for _, svc := range targets {
		if err := e.executor.Execute(ctx, svc, req); err != nil {
			e.logger.Warn("service command failed",
				"service_id", svc.ID,
				"service", svc.Name,
				"command", req.Command,
				"error", err,
			)
			errs = append(errs, err)
			outcome.Failed++
			continue
		}
		outcome.Succeeded++
	}

	switch {
	case outcome.Failed == 0:
		outcome.Status = StatusSuccess
	case outcome.Succeeded > 0:
		outcome.Status = StatusPartial
	default:
		outcome.Status = StatusError
		outcome.Err = executionError(errors.Join(errs...))
	}
	return outcome
}

// executionError maps an executor failure onto an Error.
func executionError(err error) *Error {
	if errors.Is(err, ErrBridgeUnavailable) {
		return &Error{Kind: KindBridgeUnavailable, Err: err}
	}
	return &Error{Kind: KindExecutionFailed, Reason: firstLine(err.Error()), Err: err}
}

func failed(err *Error) Outcome {
	return Outcome{Status: StatusError, Err: err}
}

// describe renders candidates as "Room/Name" so the caller can paste an
// option back as a more specific target.
func describe(services []home.Service, snap *home.Snapshot) []string {
	options := make([]string, len(services))
	for i, svc := range services {
		if room := snap.RoomName(svc); room != "" {
			options[i] = room + "/" + svc.Name
		} else {
			options[i] = svc.Name
		}
	}
	return options
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
