package ports

import (
	"context"

	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/core/domain/entity"
)

// MediaLinker attaches stored media to a record owned by another service.
type MediaLinker interface {
	LinkMedia(ctx context.Context, recordID, mediaID string) error
	UnlinkMedia(ctx context.Context, recordID, mediaID string) error
}

// PetService is the pet-record backend. FindPet returns nil, nil when the
// pet does not exist.
type PetService interface {
	CreatePet(ctx context.Context, in entity.NewPet) (*entity.Pet, error)
	DeletePet(ctx context.Context, id string) error
	FindPet(ctx context.Context, id string) (*entity.Pet, error)
	ListPetsByOwner(ctx context.Context, ownerID string) ([]entity.Pet, error)
	UpdatePet(ctx context.Context, id string, in entity.PetUpdate) (*entity.Pet, error)
	MediaLinker
}

type HealthService interface {
	CreateHealthRecord(ctx context.Context, in entity.NewHealthRecord) (*entity.HealthRecord, error)
	DeleteHealthRecord(ctx context.Context, id string) error
	MediaLinker
}

// HealthRecordReader lists the health records of a pet.
type HealthRecordReader interface {
	ListHealthRecordsByPet(ctx context.Context, petID string) ([]entity.HealthRecord, error)
}

type MediaService interface {
	Upload(ctx context.Context, upload entity.Upload, entityType, entityID string) (*entity.Media, error)
	DeleteMedia(ctx context.Context, id string) error
}

// UserService is the user-profile backend. FindUserByCredentialID returns
// nil, nil when no profile exists for the credential.
type UserService interface {
	CreateUser(ctx context.Context, in entity.NewUser) (*entity.User, error)
	FindUserByCredentialID(ctx context.Context, credentialID string) (*entity.User, error)
	UpdateUser(ctx context.Context, id string, in entity.ProfileUpdate) (*entity.User, error)
	SetAvatar(ctx context.Context, userID, mediaID string) error
	UnsetAvatar(ctx context.Context, userID, mediaID string) error
}
