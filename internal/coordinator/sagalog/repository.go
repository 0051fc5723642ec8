package sagalog

import "context"

// Repository is the port for persisting saga log entries.
// The coordinator depends on this abstraction, not on SQLite directly.
type Repository interface {
	// Save persists a new log entry. Each call appends a row; the table is
	// an append-only audit log, not an upsert.
	Save(ctx context.Context, entry *SagaLog) error
}

// Reader reads back the audit trail of a saga run.
type Reader interface {
	// GetLatest returns the most recent entry of a saga run. It fails with an
	// error matching rpcerr.ErrNotFound for an unknown saga.
	GetLatest(ctx context.Context, sagaID string) (*SagaLog, error)
	// History returns every entry of a saga run, oldest first.
	History(ctx context.Context, sagaID string) ([]SagaLog, error)
}
