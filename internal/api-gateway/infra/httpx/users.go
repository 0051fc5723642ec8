package httpx

import (
	"net/http"

	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/infra/httpx/middlewares"
	"github.com/jcmexdev/petcare-sagas/internal/coordinator/sagalog"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/rpcerr"
)

// CreateMe creates the profile of the calling credential.
func (h *Handler) CreateMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req CreateUserRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	credentialID := middlewares.CredentialID(ctx)
	existing, err := h.lookup.UserByCredential(ctx, credentialID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if existing != nil {
		h.fail(w, r, rpcerr.Conflictf("a profile already exists for this credential"))
		return
	}

	user, err := h.users.CreateUser(ctx, entity.NewUser{
		CredentialID: credentialID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := h.currentUser(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req UpdateUserRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	updated, err := h.users.UpdateUser(ctx, user.ID, entity.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.invalidateUser(ctx)
	writeJSON(w, http.StatusOK, updated)
}

// ChangeAvatar stores the uploaded image and makes it the profile picture.
func (h *Handler) ChangeAvatar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := h.currentUser(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.parseMultipart(w, r); err != nil {
		h.fail(w, r, err)
		return
	}
	avatar, err := singleUpload(r, "avatar", imageRule, true)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.workflows.ChangeAvatar(sagalog.WithInitiator(ctx, user.ID), user, *avatar)
	// The profile may have changed even when the saga failed.
	h.invalidateUser(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set(SagaIDHeader, res.SagaID)
	writeJSON(w, http.StatusOK, res)
}
