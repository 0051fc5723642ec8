// Package lookup resolves callers and pets through the cache-aside store so
// that the identity checks done on every request stay cheap.
package lookup

import (
	"context"
	"log/slog"
	"time"

	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/core/ports"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/cache"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/rpcerr"
)

// Default TTLs per lookup kind.
const (
	UserTTL = 300 * time.Second
	PetTTL  = 600 * time.Second
)

// Key namespaces.
const (
	userCredentialKind = "user:credential"
	petKind            = "pet"
)

func UserCredentialKey(credentialID string) string {
	return cache.GenerateKey(userCredentialKind, credentialID)
}

func PetKey(petID string) string {
	return cache.GenerateKey(petKind, petID)
}

// Service is the typed cache-aside layer over the user and pet services.
type Service struct {
	store   *cache.Store
	users   ports.UserService
	pets    ports.PetService
	userTTL time.Duration
	petTTL  time.Duration
}

type Option func(*Service)

func WithTTLs(user, pet time.Duration) Option {
	return func(s *Service) {
		if user > 0 {
			s.userTTL = user
		}
		if pet > 0 {
			s.petTTL = pet
		}
	}
}

func NewService(store *cache.Store, users ports.UserService, pets ports.PetService, opts ...Option) *Service {
	s := &Service{
		store:   store,
		users:   users,
		pets:    pets,
		userTTL: UserTTL,
		petTTL:  PetTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UserByCredential returns the profile bound to credentialID, or nil if none exists.
func (s *Service) UserByCredential(ctx context.Context, credentialID string) (*entity.User, error) {
	return cache.GetOrFetch(ctx, s.store, UserCredentialKey(credentialID), s.userTTL,
		func(ctx context.Context) (*entity.User, error) {
			return s.users.FindUserByCredentialID(ctx, credentialID)
		})
}

// PetByID returns the pet, or nil if it does not exist.
func (s *Service) PetByID(ctx context.Context, petID string) (*entity.Pet, error) {
	return cache.GetOrFetch(ctx, s.store, PetKey(petID), s.petTTL,
		func(ctx context.Context) (*entity.Pet, error) {
			return s.pets.FindPet(ctx, petID)
		})
}

// CurrentUser is UserByCredential that fails with rpcerr.ErrNotFound when no
// profile exists.
func (s *Service) CurrentUser(ctx context.Context, credentialID string) (*entity.User, error) {
	user, err := s.UserByCredential(ctx, credentialID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, rpcerr.NotFoundf("user not found")
	}
	return user, nil
}

// OwnedPet returns the pet if it exists and belongs to user.
func (s *Service) OwnedPet(ctx context.Context, user *entity.User, petID string) (*entity.Pet, error) {
	pet, err := s.PetByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, rpcerr.NotFoundf("pet not found")
	}
	if pet.OwnerID != user.ID {
		slog.WarnContext(ctx, "pet access denied", "pet_id", petID, "user_id", user.ID)
		return nil, rpcerr.Forbiddenf("pet %s does not belong to the caller", petID)
	}
	return pet, nil
}

func (s *Service) InvalidateUser(ctx context.Context, credentialID string) error {
	return s.store.Invalidate(ctx, UserCredentialKey(credentialID))
}

func (s *Service) InvalidatePet(ctx context.Context, petID string) error {
	return s.store.Invalidate(ctx, PetKey(petID))
}
