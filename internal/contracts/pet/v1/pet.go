// Package petv1 holds the command contract of the pet-record service.
package petv1

import "time"

const ServiceName = "petcare.pet.v1.PetCommands"

const (
	CmdCreatePet            = "create_pet"
	CmdDeletePet            = "delete_pet"
	CmdFindPet              = "find_pet"
	CmdFindAllPetsByOwnerID = "find_all_pets_by_owner_id"
	CmdUpdatePet            = "update_pet"
	CmdLinkMedia            = "link_media"
	CmdUnlinkMedia          = "unlink_media"
)

type Pet struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Name      string    `json:"name"`
	Species   string    `json:"species"`
	Breed     string    `json:"breed,omitempty"`
	BirthDate string    `json:"birthDate,omitempty"`
	Sex       string    `json:"sex,omitempty"`
	Size      string    `json:"size,omitempty"`
	Weight    float64   `json:"weight,omitempty"`
	PhotoID   string    `json:"photoId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreatePetRequest struct {
	OwnerID   string  `json:"ownerId"`
	Name      string  `json:"name"`
	Species   string  `json:"species"`
	Breed     string  `json:"breed,omitempty"`
	BirthDate string  `json:"birthDate,omitempty"`
	Sex       string  `json:"sex,omitempty"`
	Size      string  `json:"size,omitempty"`
	Weight    float64 `json:"weight,omitempty"`
}

// UpdatePetRequest changes only the fields that are set.
type UpdatePetRequest struct {
	ID        string   `json:"id"`
	Name      *string  `json:"name,omitempty"`
	Species   *string  `json:"species,omitempty"`
	Breed     *string  `json:"breed,omitempty"`
	BirthDate *string  `json:"birthDate,omitempty"`
	Sex       *string  `json:"sex,omitempty"`
	Size      *string  `json:"size,omitempty"`
	Weight    *float64 `json:"weight,omitempty"`
}

type IDRequest struct {
	ID string `json:"id"`
}

type FindAllByOwnerRequest struct {
	OwnerID string `json:"ownerId"`
}

type LinkMediaRequest struct {
	PetID   string `json:"petId"`
	MediaID string `json:"mediaId"`
}

type DeleteReply struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
