package service

import (
	"context"
	"fmt"

	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/core/ports"
	petv1 "github.com/jcmexdev/petcare-sagas/internal/contracts/pet/v1"
)

// PetCommands is the adapter that talks to the pet service.
type PetCommands struct {
	sender Sender
}

func NewPetCommands(sender Sender) *PetCommands {
	return &PetCommands{sender: sender}
}

// Ensure PetCommands implements the port at compile time.
var _ ports.PetService = (*PetCommands)(nil)

func (s *PetCommands) CreatePet(ctx context.Context, in entity.NewPet) (*entity.Pet, error) {
	var res *petv1.Pet
	err := s.sender.Send(ctx, petv1.CmdCreatePet, petv1.CreatePetRequest{
		OwnerID:   in.OwnerID,
		Name:      in.Name,
		Species:   in.Species,
		Breed:     in.Breed,
		BirthDate: in.BirthDate,
		Sex:       in.Sex,
		Size:      in.Size,
		Weight:    in.Weight,
	}, &res)
	if err != nil {
		return nil, fmt.Errorf("create pet: %w", err)
	}
	if res == nil {
		return nil, fmt.Errorf("create pet: empty pet in response")
	}
	return mapPet(res), nil
}

func (s *PetCommands) DeletePet(ctx context.Context, id string) error {
	if err := s.sender.Send(ctx, petv1.CmdDeletePet, petv1.IDRequest{ID: id}, nil); err != nil {
		return fmt.Errorf("delete pet %s: %w", id, err)
	}
	return nil
}

func (s *PetCommands) FindPet(ctx context.Context, id string) (*entity.Pet, error) {
	var res *petv1.Pet
	if err := s.sender.Send(ctx, petv1.CmdFindPet, petv1.IDRequest{ID: id}, &res); err != nil {
		return nil, fmt.Errorf("find pet %s: %w", id, err)
	}
	if res == nil {
		return nil, nil
	}
	return mapPet(res), nil
}

func (s *PetCommands) ListPetsByOwner(ctx context.Context, ownerID string) ([]entity.Pet, error) {
	var res []petv1.Pet
	err := s.sender.Send(ctx, petv1.CmdFindAllPetsByOwnerID, petv1.FindAllByOwnerRequest{OwnerID: ownerID}, &res)
	if err != nil {
		return nil, fmt.Errorf("list pets of %s: %w", ownerID, err)
	}
	out := make([]entity.Pet, 0, len(res))
	for i := range res {
		out = append(out, *mapPet(&res[i]))
	}
	return out, nil
}

func (s *PetCommands) UpdatePet(ctx context.Context, id string, in entity.PetUpdate) (*entity.Pet, error) {
	var res *petv1.Pet
	err := s.sender.Send(ctx, petv1.CmdUpdatePet, petv1.UpdatePetRequest{
		ID:        id,
		Name:      in.Name,
		Species:   in.Species,
		Breed:     in.Breed,
		BirthDate: in.BirthDate,
		Sex:       in.Sex,
		Size:      in.Size,
		Weight:    in.Weight,
	}, &res)
	if err != nil {
		return nil, fmt.Errorf("update pet %s: %w", id, err)
	}
	if res == nil {
		return nil, fmt.Errorf("update pet %s: empty pet in response", id)
	}
	return mapPet(res), nil
}

// LinkMedia sets mediaID as the pet's photo.
func (s *PetCommands) LinkMedia(ctx context.Context, petID, mediaID string) error {
	err := s.sender.Send(ctx, petv1.CmdLinkMedia, petv1.LinkMediaRequest{PetID: petID, MediaID: mediaID}, nil)
	if err != nil {
		return fmt.Errorf("link photo %s to pet %s: %w", mediaID, petID, err)
	}
	return nil
}

func (s *PetCommands) UnlinkMedia(ctx context.Context, petID, mediaID string) error {
	err := s.sender.Send(ctx, petv1.CmdUnlinkMedia, petv1.LinkMediaRequest{PetID: petID, MediaID: mediaID}, nil)
	if err != nil {
		return fmt.Errorf("unlink photo %s from pet %s: %w", mediaID, petID, err)
	}
	return nil
}

func mapPet(p *petv1.Pet) *entity.Pet {
	return &entity.Pet{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		BirthDate: p.BirthDate,
		Sex:       p.Sex,
		Size:      p.Size,
		Weight:    p.Weight,
		PhotoID:   p.PhotoID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
