package entity

import "time"

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

type NewPet struct {
	OwnerID   string
	Name      string
	Species   string
	Breed     string
	BirthDate string
	Sex       string
	Size      string
	Weight    float64
}

// PetUpdate changes only the non-nil fields.
type PetUpdate struct {
	Name      *string
	Species   *string
	Breed     *string
	BirthDate *string
	Sex       *string
	Size      *string
	Weight    *float64
}
