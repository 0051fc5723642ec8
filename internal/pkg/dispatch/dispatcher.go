// Package dispatch wraps every outbound command with a per-attempt deadline
// and a bounded retry budget.
//
// Only transient failures (timeouts, unavailable peers, unclassified
// transport errors) are retried. Application outcomes reported by a backend
// (not found, forbidden, invalid, ...) are returned immediately.
//
// Retrying a create-type command whose reply was lost can create a duplicate
// record. Each logical call therefore carries one idempotency key, identical
// across its attempts, which backends may use to replay their first reply.
// The gateway does not rely on that.
package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/petcare-sagas/internal/pkg/interceptors"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/metrics"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/rpcerr"
)

// Sender is a remote service capability: send(command, payload) -> reply.
type Sender interface {
	Send(ctx context.Context, command string, payload, out any) error
}

// Call describes one remote call. It is immutable once built.
type Call struct {
	Command    string
	Payload    any
	Deadline   time.Duration
	MaxRetries int
	Backoff    func(attempt int) time.Duration
}

// Dispatcher sends calls to one backend service.
type Dispatcher struct {
	service string
	sender  Sender
	policy  Policy
	tracer  trace.Tracer
}

func New(service string, sender Sender, policy Policy) *Dispatcher {
	if policy.Backoff == nil {
		policy.Backoff = Linear(DefaultBackoffStep)
	}
	return &Dispatcher{
		service: service,
		sender:  sender,
		policy:  policy,
		tracer:  otel.Tracer("github.com/jcmexdev/petcare-sagas/internal/pkg/dispatch"),
	}
}

// Call builds a call for command using the dispatcher's policy.
func (d *Dispatcher) Call(command string, payload any) Call {
	return Call{
		Command:    command,
		Payload:    payload,
		Deadline:   d.policy.Deadline,
		MaxRetries: d.policy.MaxRetries,
		Backoff:    d.policy.Backoff,
	}
}

// Send dispatches command with the default policy and decodes the reply into out.
func (d *Dispatcher) Send(ctx context.Context, command string, payload, out any) error {
	return d.Dispatch(ctx, d.Call(command, payload), out)
}

// Dispatch runs call, retrying transient failures up to call.MaxRetries
// extra times. A call that keeps timing out is attempted 1+MaxRetries times
// and then fails with an error matching rpcerr.ErrTimeout.
func (d *Dispatcher) Dispatch(ctx context.Context, call Call, out any) error {
	ctx, span := d.tracer.Start(ctx, "dispatch "+call.Command,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("rpc.service", d.service),
			attribute.String("rpc.method", call.Command),
		),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.DispatchDuration.WithLabelValues(d.service, call.Command).Observe(time.Since(start).Seconds())
	}()

	// One key per logical call, shared by all of its attempts.
	ctx = interceptors.WithIdempotencyKey(ctx, uuid.NewString())

	backoffFn := call.Backoff
	if backoffFn == nil {
		backoffFn = d.policy.Backoff
	}
	retries := call.MaxRetries
	if retries < 0 {
		retries = 0
	}
	var b backoff.BackOff = &linearBackOff{fn: backoffFn}
	b = backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)

	attempts := 0
	err := backoff.RetryNotify(func() error {
		attempts++
		err := d.attempt(ctx, call, out)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || !rpcerr.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b, func(err error, wait time.Duration) {
		metrics.DispatchRetries.WithLabelValues(d.service, call.Command).Inc()
		slog.WarnContext(ctx, "remote call failed, retrying",
			"service", d.service,
			"command", call.Command,
			"attempt", attempts,
			"wait", wait,
			"error", err,
		)
	})

	span.SetAttributes(attribute.Int("rpc.attempts", attempts))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		slog.ErrorContext(ctx, "remote call failed",
			"service", d.service,
			"command", call.Command,
			"attempts", attempts,
			"error", err,
		)
		return err
	}
	return nil
}

func (d *Dispatcher) attempt(ctx context.Context, call Call, out any) error {
	attemptCtx := ctx
	cancel := func() {}
	if call.Deadline > 0 {
		attemptCtx, cancel = context.WithTimeout(ctx, call.Deadline)
	}
	defer cancel()

	err := d.sender.Send(attemptCtx, call.Command, call.Payload, out)
	if err != nil && ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		err = rpcerr.Timeout(d.service + "/" + call.Command)
	}
	metrics.DispatchAttempts.WithLabelValues(d.service, call.Command, outcome(err)).Inc()
	return err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, rpcerr.ErrTimeout):
		return "timeout"
	case rpcerr.Retryable(err):
		return "transport"
	default:
		return "application"
	}
}
