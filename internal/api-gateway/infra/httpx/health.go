package httpx

import (
	"net/http"
	"strconv"

	"github.com/jcmexdev/petcare-sagas/internal/coordinator/sagalog"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/rpcerr"
)

// ListHealthRecords lists the health records of an owned pet.
func (h *Handler) ListHealthRecords(w http.ResponseWriter, r *http.Request) {
	pet, err := h.ownedPet(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	records, err := h.health.ListHealthRecordsByPet(r.Context(), pet.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// CreateHealthRecord creates a health record on an owned pet with any number
// of attachments sent as "files".
func (h *Handler) CreateHealthRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pet, err := h.ownedPet(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.parseMultipart(w, r); err != nil {
		h.fail(w, r, err)
		return
	}
	form, err := h.healthForm(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	files, err := readUploads(r, "files", attachmentRule, maxAttachments)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ctx = sagalog.WithInitiator(ctx, pet.OwnerID)
	res, err := h.workflows.CreateHealthWithAttachments(ctx, form.toEntity(pet.ID), files)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set(SagaIDHeader, res.SagaID)
	writeJSON(w, http.StatusCreated, res)
}

// CreateHealthRecordWithCertificate creates a health record with exactly one
// certificate document.
func (h *Handler) CreateHealthRecordWithCertificate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pet, err := h.ownedPet(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.parseMultipart(w, r); err != nil {
		h.fail(w, r, err)
		return
	}
	form, err := h.healthForm(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	certificate, err := singleUpload(r, "certificate", attachmentRule, true)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ctx = sagalog.WithInitiator(ctx, pet.OwnerID)
	res, err := h.workflows.CreateHealthWithCertificate(ctx, form.toEntity(pet.ID), certificate)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set(SagaIDHeader, res.SagaID)
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) healthForm(r *http.Request) (CreateHealthRecordForm, error) {
	form := CreateHealthRecordForm{
		Type:          r.FormValue("type"),
		Date:          r.FormValue("date"),
		Title:         r.FormValue("title"),
		Description:   r.FormValue("description"),
		Doctor:        r.FormValue("doctor"),
		Clinic:        r.FormValue("clinic"),
		NextVisitDate: r.FormValue("nextVisitDate"),
	}
	if raw := r.FormValue("hasNextVisit"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return CreateHealthRecordForm{}, rpcerr.Invalidf("hasNextVisit: %q is not a boolean", raw)
		}
		form.HasNextVisit = v
	}
	if err := h.check(form); err != nil {
		return CreateHealthRecordForm{}, err
	}
	if form.HasNextVisit && form.NextVisitDate == "" {
		return CreateHealthRecordForm{}, rpcerr.Invalidf("nextVisitDate is required when hasNextVisit is set")
	}
	return form, nil
}
