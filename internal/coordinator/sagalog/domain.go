// Package sagalog defines the domain types for the saga audit log.
//
// The saga log is an append-only trail of every state transition a saga run
// goes through, including each absorbed compensation failure. Rows carry the
// OpenTelemetry trace_id so a run can be correlated with its distributed
// trace. The log is for observability only; sagas are never resumed from it.
package sagalog

import "time"

// Status represents the lifecycle event recorded for a saga run.
type Status string

const (
	StatusStarted            Status = "STARTED"
	StatusStepDone           Status = "STEP_DONE"
	StatusCompleted          Status = "COMPLETED"
	StatusCompensating       Status = "COMPENSATING"
	StatusCompensationFailed Status = "COMPENSATION_FAILED"
	StatusCompensated        Status = "COMPENSATED"
)

// SagaLog is a single row in the saga_logs table.
// It captures a point-in-time snapshot of a saga execution.
type SagaLog struct {
	// SagaID is the unique identifier of this saga run.
	SagaID string `json:"sagaId"`

	// SagaName is the workflow that was run, e.g. "create_pet_with_photo".
	SagaName string `json:"sagaName"`

	Status Status `json:"status"`

	// InitiatedBy is the user the run was started for. Only that user may
	// read the run through the gateway.
	InitiatedBy string `json:"initiatedBy,omitempty"`

	// CurrentStep is the name of the step that was just executed, failed or
	// failed to compensate.
	CurrentStep string `json:"currentStep,omitempty"`

	// ErrorMessages is a JSON array of failure details for this event.
	ErrorMessages string `json:"errorMessages"`

	// TraceID is the W3C trace ID of the span active when the entry was written.
	TraceID string `json:"traceId,omitempty"`

	// SpanID pinpoints the span within the trace.
	SpanID string `json:"spanId,omitempty"`

	UpdatedAt time.Time `json:"updatedAt"`
}
