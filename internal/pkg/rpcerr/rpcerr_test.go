package rpcerr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestFromStatusRebuildsKind(t *testing.T) {
	sent := NotFoundf("pet %s not found", "p1")

	// What a grpc server would put on the wire.
	st, ok := status.FromError(sent)
	require.True(t, ok)
	assert.Equal(t, codes.NotFound, st.Code())

	got := FromStatus(st.Err())
	assert.ErrorIs(t, got, ErrNotFound)
	assert.Equal(t, "pet p1 not found", got.Error())
}

func TestFromStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"permission denied", status.Error(codes.PermissionDenied, "no"), ErrForbidden},
		{"invalid", status.Error(codes.InvalidArgument, "bad"), ErrInvalid},
		{"already exists", status.Error(codes.AlreadyExists, "dup"), ErrConflict},
		{"deadline", status.Error(codes.DeadlineExceeded, "slow"), ErrTimeout},
		{"unavailable", status.Error(codes.Unavailable, "down"), ErrUnavailable},
		{"unimplemented", status.Error(codes.Unimplemented, "what"), ErrInternal},
		{"context deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), ErrTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, FromStatus(tt.err), tt.kind)
		})
	}
}

func TestFromStatusLeavesUnclassifiedErrors(t *testing.T) {
	plain := errors.New("connection reset")
	assert.Same(t, plain, FromStatus(plain))
	assert.NoError(t, FromStatus(nil))
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(Timeout("pet/create_pet")))
	assert.True(t, Retryable(&Error{Kind: ErrUnavailable}))
	assert.True(t, Retryable(errors.New("transport is closing")))

	assert.False(t, Retryable(NotFoundf("x")))
	assert.False(t, Retryable(Forbiddenf("x")))
	assert.False(t, Retryable(Invalidf("x")))
	assert.False(t, Retryable(Conflictf("x")))
	assert.False(t, Retryable(&Error{Kind: ErrInternal}))
	assert.False(t, Retryable(context.Canceled))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(fmt.Errorf("find: %w", NotFoundf("x"))))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(Forbiddenf("x")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Invalidf("x")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(Conflictf("x")))
	assert.Equal(t, http.StatusGatewayTimeout, HTTPStatus(Timeout("x")))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(errors.New("boom")))
	assert.Equal(t, "not_found", Code(NotFoundf("x")))
	assert.Equal(t, "upstream_error", Code(errors.New("boom")))
}
