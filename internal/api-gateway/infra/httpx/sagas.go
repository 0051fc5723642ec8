package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/petcare-sagas/internal/pkg/rpcerr"
)

// GetSaga reports the audit trail of a saga run started by the caller. Runs
// of other users are reported as not found.
func (h *Handler) GetSaga(w http.ResponseWriter, r *http.Request) {
	if h.sagas == nil {
		h.fail(w, r, rpcerr.NotFoundf("saga log is disabled"))
		return
	}

	ctx := r.Context()
	sagaID := chi.URLParam(r, "id")

	user, err := h.currentUser(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	latest, err := h.sagas.GetLatest(ctx, sagaID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if latest.InitiatedBy != user.ID {
		h.fail(w, r, rpcerr.NotFoundf("saga %q not found", sagaID))
		return
	}
	history, err := h.sagas.History(ctx, sagaID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	res := SagaStatusResponse{
		SagaID:    latest.SagaID,
		SagaName:  latest.SagaName,
		Status:    latest.Status,
		UpdatedAt: latest.UpdatedAt,
		History:   make([]SagaEventJSON, 0, len(history)),
	}
	for _, e := range history {
		var errs []string
		_ = json.Unmarshal([]byte(e.ErrorMessages), &errs)
		res.History = append(res.History, SagaEventJSON{
			Status:     e.Status,
			Step:       e.CurrentStep,
			Errors:     errs,
			TraceID:    e.TraceID,
			RecordedAt: e.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, res)
}
