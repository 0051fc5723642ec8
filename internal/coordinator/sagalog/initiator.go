package sagalog

import "context"

type initiatorKey struct{}

// WithInitiator records in ctx the user on whose behalf sagas are run.
// Entries written under ctx carry it in InitiatedBy.
func WithInitiator(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, initiatorKey{}, userID)
}

// InitiatorFromContext returns the user stored by WithInitiator, or "".
func InitiatorFromContext(ctx context.Context) string {
	id, _ := ctx.Value(initiatorKey{}).(string)
	return id
}
