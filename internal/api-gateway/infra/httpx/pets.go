package httpx

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/petcare-sagas/internal/coordinator/sagalog"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/rpcerr"
)

// CreatePetWithPhoto creates a pet for the caller, optionally with a photo.
// The pet is removed again if the photo cannot be stored.
func (h *Handler) CreatePetWithPhoto(w http.ResponseWriter, r *http.Request) {
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
	form, err := petForm(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.check(form); err != nil {
		h.fail(w, r, err)
		return
	}
	photo, err := singleUpload(r, "photo", imageRule, false)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ctx = sagalog.WithInitiator(ctx, user.ID)
	res, err := h.workflows.CreatePetWithPhoto(ctx, form.toEntity(user.ID), photo)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set(SagaIDHeader, res.SagaID)
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) ListPets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := h.currentUser(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	pets, err := h.pets.ListPetsByOwner(ctx, user.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if pets == nil {
		pets = []entity.Pet{}
	}
	writeJSON(w, http.StatusOK, pets)
}

func (h *Handler) GetPet(w http.ResponseWriter, r *http.Request) {
	pet, err := h.ownedPet(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pet)
}

func (h *Handler) UpdatePet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pet, err := h.ownedPet(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req UpdatePetRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	updated, err := h.pets.UpdatePet(ctx, pet.ID, req.toEntity())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.invalidatePet(ctx, pet.ID)
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeletePet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pet, err := h.ownedPet(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.pets.DeletePet(ctx, pet.ID); err != nil {
		h.fail(w, r, err)
		return
	}
	h.invalidatePet(ctx, pet.ID)
	w.WriteHeader(http.StatusNoContent)
}

// ownedPet resolves the {id} pet and checks that the caller owns it.
func (h *Handler) ownedPet(r *http.Request) (*entity.Pet, error) {
	petID := chi.URLParam(r, "id")
	if petID == "" {
		return nil, rpcerr.Invalidf("pet id is required")
	}
	user, err := h.currentUser(r.Context())
	if err != nil {
		return nil, err
	}
	return h.lookup.OwnedPet(r.Context(), user, petID)
}

func petForm(r *http.Request) (CreatePetForm, error) {
	form := CreatePetForm{
		Name:      r.FormValue("name"),
		Species:   r.FormValue("species"),
		Breed:     r.FormValue("breed"),
		BirthDate: r.FormValue("birthDate"),
		Sex:       r.FormValue("sex"),
		Size:      r.FormValue("size"),
	}
	if raw := r.FormValue("weight"); raw != "" {
		weight, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return CreatePetForm{}, rpcerr.Invalidf("weight: %q is not a number", raw)
		}
		form.Weight = weight
	}
	return form, nil
}
