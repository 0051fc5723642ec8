package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/core/lookup"
	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/core/ports"
	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/infra/httpx/middlewares"
	"github.com/jcmexdev/petcare-sagas/internal/coordinator"
	"github.com/jcmexdev/petcare-sagas/internal/coordinator/sagalog"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/rpcerr"
)

// SagaIDHeader is set on responses produced by a saga so the caller can look
// the run up on /sagas/{id}.
const SagaIDHeader = "X-Saga-Id"

// Handler handles incoming HTTP requests. Identity and ownership checks go
// through the lookup service; multi-service writes go through the workflows.
type Handler struct {
	lookup    *lookup.Service
	pets      ports.PetService
	health    ports.HealthRecordReader
	users     ports.UserService
	workflows *coordinator.Workflows
	sagas     sagalog.Reader // nil-safe: /sagas answers 404 if nil
	validate  *validator.Validate
	maxBody   int64
}

// NewHandler initializes the handler. sagas may be nil when the saga log is
// disabled.
func NewHandler(
	lookups *lookup.Service,
	pets ports.PetService,
	health ports.HealthRecordReader,
	users ports.UserService,
	workflows *coordinator.Workflows,
	sagas sagalog.Reader,
	maxBody int64,
) *Handler {
	if maxBody <= 0 {
		maxBody = defaultMaxBody
	}
	return &Handler{
		lookup:    lookups,
		pets:      pets,
		health:    health,
		users:     users,
		workflows: workflows,
		sagas:     sagas,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		maxBody:   maxBody,
	}
}

// currentUser resolves the caller's profile through the cache.
func (h *Handler) currentUser(ctx context.Context) (*entity.User, error) {
	return h.lookup.CurrentUser(ctx, middlewares.CredentialID(ctx))
}

func (h *Handler) invalidateUser(ctx context.Context) {
	if err := h.lookup.InvalidateUser(ctx, middlewares.CredentialID(ctx)); err != nil {
		slog.WarnContext(ctx, "failed to invalidate user cache", "error", err)
	}
}

func (h *Handler) invalidatePet(ctx context.Context, petID string) {
	if err := h.lookup.InvalidatePet(ctx, petID); err != nil {
		slog.WarnContext(ctx, "failed to invalidate pet cache", "pet_id", petID, "error", err)
	}
}

// decodeJSON reads a JSON body into dst and validates it.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return rpcerr.Invalidf("invalid JSON body: %v", err)
	}
	return h.check(dst)
}

func (h *Handler) check(v any) error {
	err := h.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return rpcerr.Invalidf("%v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag()))
	}
	return rpcerr.Invalidf("%s", strings.Join(msgs, "; "))
}

// fail writes err with the status of its kind. Upstream failures are logged
// and reported without their internal detail.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := rpcerr.HTTPStatus(err)
	message := err.Error()

	var classified *rpcerr.Error
	switch {
	case status >= http.StatusInternalServerError:
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "status", status, "error", err)
		message = "upstream service error"
		if status == http.StatusGatewayTimeout {
			message = "upstream service timed out"
		}
	case errors.As(err, &classified):
		message = classified.Error()
	}

	writeError(w, status, rpcerr.Code(err), message)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
