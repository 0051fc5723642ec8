package sagalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
)

func TestNewEntryWithoutSpan(t *testing.T) {
	entry := NewEntry(context.Background(), "s1", "create_pet_with_photo", StatusStarted, "", nil)

	assert.Equal(t, "[]", entry.ErrorMessages)
	assert.Empty(t, entry.TraceID)
	assert.False(t, entry.UpdatedAt.IsZero())
}

func TestNewEntryCarriesTraceIDs(t *testing.T) {
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01, 0x02},
		SpanID:     trace.SpanID{0x03},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	entry := NewEntry(ctx, "s1", "x", StatusCompensationFailed, "create_pet", []string{"boom"})

	assert.Equal(t, sc.TraceID().String(), entry.TraceID)
	assert.Equal(t, sc.SpanID().String(), entry.SpanID)
	assert.JSONEq(t, `["boom"]`, entry.ErrorMessages)
}

func TestNewEntryCarriesInitiator(t *testing.T) {
	ctx := WithInitiator(context.Background(), "user-1")

	entry := NewEntry(ctx, "s1", "x", StatusStarted, "", nil)

	assert.Equal(t, "user-1", entry.InitiatedBy)
	assert.Empty(t, InitiatorFromContext(context.Background()))
}
