package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/core/ports"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/rpcerr"
)

// --- CreatePetStep ---

type CreatePetStep struct {
	pets  ports.PetService
	input entity.NewPet
	pet   *entity.Pet
}

// NewCreatePetStep is the constructor for CreatePetStep
func NewCreatePetStep(pets ports.PetService, input entity.NewPet) *CreatePetStep {
	return &CreatePetStep{pets: pets, input: input}
}

func (s *CreatePetStep) Name() string { return "create_pet" }

func (s *CreatePetStep) Execute(ctx context.Context) error {
	pet, err := s.pets.CreatePet(ctx, s.input)
	if err != nil {
		return err
	}
	s.pet = pet
	return nil
}

func (s *CreatePetStep) Compensate(ctx context.Context) error {
	if s.pet == nil {
		return nil
	}
	return ignoreNotFound(s.pets.DeletePet(ctx, s.pet.ID))
}

// Pet is the created pet, nil until Execute succeeds.
func (s *CreatePetStep) Pet() *entity.Pet { return s.pet }

// RecordID is the id of the created pet, "" until Execute succeeds.
func (s *CreatePetStep) RecordID() string {
	if s.pet == nil {
		return ""
	}
	return s.pet.ID
}

// --- CreateHealthRecordStep ---

type CreateHealthRecordStep struct {
	health ports.HealthService
	input  entity.NewHealthRecord
	record *entity.HealthRecord
}

// NewCreateHealthRecordStep is the constructor for CreateHealthRecordStep
func NewCreateHealthRecordStep(health ports.HealthService, input entity.NewHealthRecord) *CreateHealthRecordStep {
	return &CreateHealthRecordStep{health: health, input: input}
}

func (s *CreateHealthRecordStep) Name() string { return "create_health_record" }

func (s *CreateHealthRecordStep) Execute(ctx context.Context) error {
	record, err := s.health.CreateHealthRecord(ctx, s.input)
	if err != nil {
		return err
	}
	s.record = record
	return nil
}

func (s *CreateHealthRecordStep) Compensate(ctx context.Context) error {
	if s.record == nil {
		return nil
	}
	return ignoreNotFound(s.health.DeleteHealthRecord(ctx, s.record.ID))
}

func (s *CreateHealthRecordStep) Record() *entity.HealthRecord { return s.record }

func (s *CreateHealthRecordStep) RecordID() string {
	if s.record == nil {
		return ""
	}
	return s.record.ID
}

// --- AttachMediaStep ---

// attachment is one file stored by an AttachMediaStep.
type attachment struct {
	media *entity.Media
	// linkSent is set before the link call. A link whose reply was lost may
	// still have been applied, so undo unlinks whenever it is set.
	linkSent bool
}

// AttachMediaStep uploads each file to the media service and links it to the
// owning record, one file at a time. When a file fails, the files stored by
// this step so far are removed before the error is returned, so a failed
// Execute leaves nothing behind.
type AttachMediaStep struct {
	name       string
	media      ports.MediaService
	linker     ports.MediaLinker
	entityType string
	recordID   func() string
	files      []entity.Upload
	stored     []*attachment
}

// NewAttachMediaStep is the constructor for AttachMediaStep. recordID is
// evaluated on Execute so it can read the output of an earlier step.
func NewAttachMediaStep(
	name string,
	media ports.MediaService,
	linker ports.MediaLinker,
	entityType string,
	recordID func() string,
	files []entity.Upload,
) *AttachMediaStep {
	return &AttachMediaStep{
		name:       name,
		media:      media,
		linker:     linker,
		entityType: entityType,
		recordID:   recordID,
		files:      files,
	}
}

func (s *AttachMediaStep) Name() string { return s.name }

func (s *AttachMediaStep) Execute(ctx context.Context) error {
	recordID := s.recordID()
	if recordID == "" {
		return fmt.Errorf("%s: no record to attach media to", s.name)
	}

	for i, file := range s.files {
		m, err := s.media.Upload(ctx, file, s.entityType, recordID)
		if err != nil {
			return s.fail(ctx, i, err)
		}
		a := &attachment{media: m}
		s.stored = append(s.stored, a)

		a.linkSent = true
		if err := s.linker.LinkMedia(ctx, recordID, m.ID); err != nil {
			return s.fail(ctx, i, err)
		}
	}
	return nil
}

// Compensate unlinks and deletes every stored file. Files already removed are
// skipped, so calling it again is harmless.
func (s *AttachMediaStep) Compensate(ctx context.Context) error {
	return s.undo(ctx)
}

// Media returns the stored files in upload order.
func (s *AttachMediaStep) Media() []entity.Media {
	out := make([]entity.Media, 0, len(s.stored))
	for _, a := range s.stored {
		out = append(out, *a.media)
	}
	return out
}

func (s *AttachMediaStep) fail(ctx context.Context, index int, cause error) error {
	if err := s.undo(context.WithoutCancel(ctx)); err != nil {
		slog.ErrorContext(ctx, "CRITICAL: failed to remove partially attached media",
			"step", s.name, "error", err)
	}
	if len(s.files) > 1 {
		return &PartialUploadError{Completed: index, Total: len(s.files), Err: cause}
	}
	return cause
}

func (s *AttachMediaStep) undo(ctx context.Context) error {
	recordID := s.recordID()
	var errs []error
	var remaining []*attachment
	for i := len(s.stored) - 1; i >= 0; i-- {
		a := s.stored[i]
		if a.linkSent {
			if err := ignoreNotFound(s.linker.UnlinkMedia(ctx, recordID, a.media.ID)); err != nil {
				errs = append(errs, err)
				remaining = append(remaining, a)
				continue
			}
			a.linkSent = false
		}
		if err := ignoreNotFound(s.media.DeleteMedia(ctx, a.media.ID)); err != nil {
			errs = append(errs, err)
			remaining = append(remaining, a)
		}
	}
	slices.Reverse(remaining)
	s.stored = remaining
	return errors.Join(errs...)
}

func ignoreNotFound(err error) error {
	if errors.Is(err, rpcerr.ErrNotFound) {
		return nil
	}
	return err
}
