package coordinator

import (
	"context"

	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/core/ports"
	"github.com/jcmexdev/petcare-sagas/internal/coordinator/sagalog"
)

// Saga names as they appear in logs, metrics and the saga log.
const (
	SagaCreatePetWithPhoto          = "create_pet_with_photo"
	SagaCreateHealthWithAttachments = "create_health_with_attachments"
	SagaCreateHealthWithCertificate = "create_health_with_certificate"
	SagaChangeAvatar                = "change_avatar"
)

// Workflows runs the multi-service operations of the gateway. Callers are
// expected to have checked ownership before invoking a workflow.
type Workflows struct {
	pets   ports.PetService
	health ports.HealthService
	media  ports.MediaService
	users  ports.UserService
	log    sagalog.Repository
}

// NewWorkflows wires the workflows. log may be nil.
func NewWorkflows(
	pets ports.PetService,
	health ports.HealthService,
	media ports.MediaService,
	users ports.UserService,
	log sagalog.Repository,
) *Workflows {
	return &Workflows{pets: pets, health: health, media: media, users: users, log: log}
}

type PetWithPhoto struct {
	SagaID string        `json:"-"`
	Pet    *entity.Pet   `json:"pet"`
	Photo  *entity.Media `json:"photo,omitempty"`
}

// CreatePetWithPhoto creates a pet and, when photo is set, stores it as the
// pet's photo. On failure the pet is deleted again.
func (w *Workflows) CreatePetWithPhoto(ctx context.Context, in entity.NewPet, photo *entity.Upload) (*PetWithPhoto, error) {
	create := NewCreatePetStep(w.pets, in)
	steps := []Step{create}

	var attach *AttachMediaStep
	if photo != nil {
		attach = NewAttachMediaStep("attach_pet_photo", w.media, w.pets,
			entity.MediaEntityPet, create.RecordID, []entity.Upload{*photo})
		steps = append(steps, attach)
	}

	saga := NewOrchestrator(SagaCreatePetWithPhoto, steps, w.log)
	if err := saga.Start(ctx); err != nil {
		return nil, err
	}

	out := &PetWithPhoto{SagaID: saga.ID(), Pet: create.Pet()}
	if attach != nil {
		if media := attach.Media(); len(media) > 0 {
			out.Photo = &media[0]
			out.Pet.PhotoID = media[0].ID
		}
	}
	return out, nil
}

type HealthWithAttachments struct {
	SagaID      string               `json:"-"`
	Record      *entity.HealthRecord `json:"record"`
	Attachments []entity.Media       `json:"attachments"`
}

// CreateHealthWithAttachments creates a health record and attaches every file
// in order. A failing file removes the files stored before it and the record.
func (w *Workflows) CreateHealthWithAttachments(
	ctx context.Context,
	in entity.NewHealthRecord,
	files []entity.Upload,
) (*HealthWithAttachments, error) {
	create := NewCreateHealthRecordStep(w.health, in)
	steps := []Step{create}

	var attach *AttachMediaStep
	if len(files) > 0 {
		attach = NewAttachMediaStep("attach_health_files", w.media, w.health,
			entity.MediaEntityHealth, create.RecordID, files)
		steps = append(steps, attach)
	}

	saga := NewOrchestrator(SagaCreateHealthWithAttachments, steps, w.log)
	if err := saga.Start(ctx); err != nil {
		return nil, err
	}

	out := &HealthWithAttachments{SagaID: saga.ID(), Record: create.Record(), Attachments: []entity.Media{}}
	if attach != nil {
		out.Attachments = attach.Media()
		out.Record.MediaIDs = mediaIDs(out.Record.MediaIDs, out.Attachments)
	}
	return out, nil
}

type HealthWithCertificate struct {
	SagaID      string               `json:"-"`
	Record      *entity.HealthRecord `json:"record"`
	Certificate *entity.Media        `json:"certificate,omitempty"`
}

// CreateHealthWithCertificate is the single-file variant of
// CreateHealthWithAttachments.
func (w *Workflows) CreateHealthWithCertificate(
	ctx context.Context,
	in entity.NewHealthRecord,
	certificate *entity.Upload,
) (*HealthWithCertificate, error) {
	create := NewCreateHealthRecordStep(w.health, in)
	steps := []Step{create}

	var attach *AttachMediaStep
	if certificate != nil {
		attach = NewAttachMediaStep("attach_health_certificate", w.media, w.health,
			entity.MediaEntityHealth, create.RecordID, []entity.Upload{*certificate})
		steps = append(steps, attach)
	}

	saga := NewOrchestrator(SagaCreateHealthWithCertificate, steps, w.log)
	if err := saga.Start(ctx); err != nil {
		return nil, err
	}

	out := &HealthWithCertificate{SagaID: saga.ID(), Record: create.Record()}
	if attach != nil {
		if media := attach.Media(); len(media) > 0 {
			out.Certificate = &media[0]
			out.Record.MediaIDs = mediaIDs(out.Record.MediaIDs, media)
		}
	}
	return out, nil
}

type AvatarChange struct {
	SagaID string        `json:"-"`
	User   *entity.User  `json:"user"`
	Avatar *entity.Media `json:"avatar"`
}

// ChangeAvatar stores avatar and makes it the user's profile picture. If the
// profile cannot be updated the stored file is deleted.
func (w *Workflows) ChangeAvatar(ctx context.Context, user *entity.User, avatar entity.Upload) (*AvatarChange, error) {
	attach := NewAttachMediaStep("attach_avatar", w.media, avatarLinker{users: w.users},
		entity.MediaEntityUser, func() string { return user.ID }, []entity.Upload{avatar})

	saga := NewOrchestrator(SagaChangeAvatar, []Step{attach}, w.log)
	if err := saga.Start(ctx); err != nil {
		return nil, err
	}

	media := attach.Media()[0]
	updated := *user
	updated.AvatarID = media.ID
	return &AvatarChange{SagaID: saga.ID(), User: &updated, Avatar: &media}, nil
}

// avatarLinker links media to a user profile as its avatar.
type avatarLinker struct {
	users ports.UserService
}

func (l avatarLinker) LinkMedia(ctx context.Context, userID, mediaID string) error {
	return l.users.SetAvatar(ctx, userID, mediaID)
}

func (l avatarLinker) UnlinkMedia(ctx context.Context, userID, mediaID string) error {
	return l.users.UnsetAvatar(ctx, userID, mediaID)
}

func mediaIDs(existing []string, media []entity.Media) []string {
	seen := make(map[string]bool, len(existing))
	for _, id := range existing {
		seen[id] = true
	}
	for _, m := range media {
		if !seen[m.ID] {
			existing = append(existing, m.ID)
			seen[m.ID] = true
		}
	}
	return existing
}
