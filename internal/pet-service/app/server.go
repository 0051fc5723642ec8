// Package app is the in-memory pet-record service.
package app

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	petv1 "github.com/jcmexdev/petcare-sagas/internal/contracts/pet/v1"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/command"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/rpcerr"
)

type PetServer struct {
	mu   sync.RWMutex
	pets map[string]*petv1.Pet
	now  func() time.Time
}

func NewPetServer() *PetServer {
	return &PetServer{
		pets: make(map[string]*petv1.Pet),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Register mounts the pet commands on srv.
func (s *PetServer) Register(srv *command.Server) {
	command.RegisterOnce(srv, petv1.CmdCreatePet, s.CreatePet)
	command.Register(srv, petv1.CmdDeletePet, s.DeletePet)
	command.Register(srv, petv1.CmdFindPet, s.FindPet)
	command.Register(srv, petv1.CmdFindAllPetsByOwnerID, s.FindAllByOwner)
	command.Register(srv, petv1.CmdUpdatePet, s.UpdatePet)
	command.Register(srv, petv1.CmdLinkMedia, s.LinkMedia)
	command.Register(srv, petv1.CmdUnlinkMedia, s.UnlinkMedia)
}

func (s *PetServer) CreatePet(ctx context.Context, req petv1.CreatePetRequest) (*petv1.Pet, error) {
	if req.OwnerID == "" || req.Name == "" || req.Species == "" {
		return nil, rpcerr.Invalidf("ownerId, name and species are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	pet := &petv1.Pet{
		ID:        uuid.NewString(),
		OwnerID:   req.OwnerID,
		Name:      req.Name,
		Species:   req.Species,
		Breed:     req.Breed,
		BirthDate: req.BirthDate,
		Sex:       req.Sex,
		Size:      req.Size,
		Weight:    req.Weight,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.pets[pet.ID] = pet

	slog.InfoContext(ctx, "pet created", "pet_id", pet.ID, "owner_id", pet.OwnerID)
	out := *pet
	return &out, nil
}

func (s *PetServer) DeletePet(ctx context.Context, req petv1.IDRequest) (petv1.DeleteReply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pets[req.ID]; !ok {
		return petv1.DeleteReply{}, rpcerr.NotFoundf("pet %s not found", req.ID)
	}
	delete(s.pets, req.ID)

	slog.InfoContext(ctx, "pet deleted", "pet_id", req.ID)
	return petv1.DeleteReply{ID: req.ID, Deleted: true}, nil
}

// FindPet replies null for an unknown pet.
func (s *PetServer) FindPet(_ context.Context, req petv1.IDRequest) (*petv1.Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pet, ok := s.pets[req.ID]
	if !ok {
		return nil, nil
	}
	out := *pet
	return &out, nil
}

func (s *PetServer) FindAllByOwner(_ context.Context, req petv1.FindAllByOwnerRequest) ([]petv1.Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]petv1.Pet, 0)
	for _, pet := range s.pets {
		if pet.OwnerID == req.OwnerID {
			out = append(out, *pet)
		}
	}
	slices.SortFunc(out, func(a, b petv1.Pet) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *PetServer) UpdatePet(ctx context.Context, req petv1.UpdatePetRequest) (*petv1.Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pet, ok := s.pets[req.ID]
	if !ok {
		return nil, rpcerr.NotFoundf("pet %s not found", req.ID)
	}
	setString(&pet.Name, req.Name)
	setString(&pet.Species, req.Species)
	setString(&pet.Breed, req.Breed)
	setString(&pet.BirthDate, req.BirthDate)
	setString(&pet.Sex, req.Sex)
	setString(&pet.Size, req.Size)
	if req.Weight != nil {
		pet.Weight = *req.Weight
	}
	pet.UpdatedAt = s.now()

	slog.InfoContext(ctx, "pet updated", "pet_id", pet.ID)
	out := *pet
	return &out, nil
}

// LinkMedia makes the media the pet's photo.
func (s *PetServer) LinkMedia(ctx context.Context, req petv1.LinkMediaRequest) (*petv1.Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pet, ok := s.pets[req.PetID]
	if !ok {
		return nil, rpcerr.NotFoundf("pet %s not found", req.PetID)
	}
	pet.PhotoID = req.MediaID
	pet.UpdatedAt = s.now()

	slog.InfoContext(ctx, "pet photo linked", "pet_id", pet.ID, "media_id", req.MediaID)
	out := *pet
	return &out, nil
}

// UnlinkMedia clears the photo if it is still the given media.
func (s *PetServer) UnlinkMedia(ctx context.Context, req petv1.LinkMediaRequest) (*petv1.Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pet, ok := s.pets[req.PetID]
	if !ok {
		return nil, rpcerr.NotFoundf("pet %s not found", req.PetID)
	}
	if pet.PhotoID == req.MediaID {
		pet.PhotoID = ""
		pet.UpdatedAt = s.now()
		slog.InfoContext(ctx, "pet photo unlinked", "pet_id", pet.ID, "media_id", req.MediaID)
	}
	out := *pet
	return &out, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
