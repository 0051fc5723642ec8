package entity

import "time"

type HealthRecord struct {
	ID            string    `json:"id"`
	PetID         string    `json:"petId"`
	Type          string    `json:"type"`
	Date          string    `json:"date"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Doctor        string    `json:"doctor,omitempty"`
	Clinic        string    `json:"clinic,omitempty"`
	HasNextVisit  bool      `json:"hasNextVisit,omitempty"`
	NextVisitDate string    `json:"nextVisitDate,omitempty"`
	MediaIDs      []string  `json:"mediaIds"`
	CreatedAt     time.Time `json:"createdAt"`
}

type NewHealthRecord struct {
	PetID         string
	Type          string
	Date          string
	Title         string
	Description   string
	Doctor        string
	Clinic        string
	HasNextVisit  bool
	NextVisitDate string
}
