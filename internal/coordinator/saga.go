package coordinator

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jcmexdev/petcare-sagas/internal/coordinator/sagalog"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/metrics"
)

// Step represents a single unit of work in the Saga.
// Each step must have a compensating action to undo its effects.
// Compensate is only called after Execute returned nil.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

// State is the lifecycle state of a saga run.
type State string

const (
	StatePending      State = "pending"
	StateRunning      State = "running"
	StateCompleted    State = "completed"
	StateCompensating State = "compensating"
	StateCompensated  State = "compensated"
)

// ErrAlreadyStarted is returned when Start is called twice on the same run.
var ErrAlreadyStarted = errors.New("saga already started")

// Orchestrator manages the execution of a collection of Steps. One
// Orchestrator is one saga run; it is discarded after Start returns.
type Orchestrator struct {
	id       string
	name     string
	steps    []Step
	executed []Step
	state    State
	log      sagalog.Repository
}

// NewOrchestrator builds a saga run. log may be nil, in which case no audit
// trail is written.
func NewOrchestrator(name string, steps []Step, log sagalog.Repository) *Orchestrator {
	return &Orchestrator{
		id:    uuid.NewString(),
		name:  name,
		steps: steps,
		state: StatePending,
		log:   log,
	}
}

func (o *Orchestrator) ID() string { return o.id }

func (o *Orchestrator) State() State { return o.state }

// Start runs the saga steps sequentially.
// If a step fails, every previously successful step is compensated in reverse
// order and the error of the failed step is returned unchanged.
func (o *Orchestrator) Start(ctx context.Context) error {
	if o.state != StatePending {
		return ErrAlreadyStarted
	}
	o.state = StateRunning
	o.record(ctx, sagalog.StatusStarted, "")

	for _, step := range o.steps {
		slog.DebugContext(ctx, "executing saga step", "saga", o.name, "saga_id", o.id, "step", step.Name())
		if err := step.Execute(ctx); err != nil {
			slog.WarnContext(ctx, "saga step failed, starting rollback",
				"saga", o.name, "saga_id", o.id, "step", step.Name(), "error", err)
			o.state = StateCompensating
			o.record(ctx, sagalog.StatusCompensating, step.Name(), err.Error())

			// The caller may already be gone; rollback must still run to the end.
			o.rollback(context.WithoutCancel(ctx))

			o.state = StateCompensated
			o.record(ctx, sagalog.StatusCompensated, step.Name())
			metrics.SagaRuns.WithLabelValues(o.name, string(StateCompensated)).Inc()
			return err
		}
		o.executed = append(o.executed, step)
		o.record(ctx, sagalog.StatusStepDone, step.Name())
	}

	o.state = StateCompleted
	o.record(ctx, sagalog.StatusCompleted, "")
	metrics.SagaRuns.WithLabelValues(o.name, string(StateCompleted)).Inc()
	slog.InfoContext(ctx, "saga completed", "saga", o.name, "saga_id", o.id)
	return nil
}

func (o *Orchestrator) rollback(ctx context.Context) {
	for i := len(o.executed) - 1; i >= 0; i-- {
		step := o.executed[i]
		slog.InfoContext(ctx, "compensating saga step", "saga", o.name, "saga_id", o.id, "step", step.Name())
		if err := step.Compensate(ctx); err != nil {
			cerr := &CompensationError{Saga: o.name, Step: step.Name(), Err: err}
			slog.ErrorContext(ctx, "CRITICAL: compensation failed",
				"saga", o.name, "saga_id", o.id, "step", step.Name(), "error", err)
			metrics.CompensationFailures.WithLabelValues(o.name, step.Name()).Inc()
			o.record(ctx, sagalog.StatusCompensationFailed, step.Name(), cerr.Error())
		}
	}
}

// record appends an audit entry. Audit failures are logged and ignored.
func (o *Orchestrator) record(ctx context.Context, status sagalog.Status, step string, errs ...string) {
	if o.log == nil {
		return
	}
	entry := sagalog.NewEntry(ctx, o.id, o.name, status, step, errs)
	if err := o.log.Save(context.WithoutCancel(ctx), entry); err != nil {
		slog.WarnContext(ctx, "failed to write saga log", "saga_id", o.id, "status", status, "error", err)
	}
}
