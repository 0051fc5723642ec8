package httpx

import (
	"time"

	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/petcare-sagas/internal/coordinator/sagalog"
)

type CreateUserRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"omitempty,max=30"`
}

type UpdateUserRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
}

// CreatePetForm is the text part of the multipart create-pet request.
type CreatePetForm struct {
	Name      string  `validate:"required,max=100"`
	Species   string  `validate:"required,max=50"`
	Breed     string  `validate:"required,max=100"`
	BirthDate string  `validate:"required,datetime=2006-01-02"`
	Sex       string  `validate:"omitempty,oneof=male female"`
	Size      string  `validate:"omitempty,oneof=small medium large"`
	Weight    float64 `validate:"gte=0"`
}

type UpdatePetRequest struct {
	Name      *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Species   *string  `json:"species" validate:"omitempty,min=1,max=50"`
	Breed     *string  `json:"breed" validate:"omitempty,min=1,max=100"`
	BirthDate *string  `json:"birthDate" validate:"omitempty,datetime=2006-01-02"`
	Sex       *string  `json:"sex" validate:"omitempty,oneof=male female"`
	Size      *string  `json:"size" validate:"omitempty,oneof=small medium large"`
	Weight    *float64 `json:"weight" validate:"omitempty,gt=0"`
}

// CreateHealthRecordForm is the text part of the multipart health record request.
type CreateHealthRecordForm struct {
	Type          string `validate:"required,oneof=vaccine consultation deworming analysis other"`
	Date          string `validate:"required,datetime=2006-01-02"`
	Title         string `validate:"required,max=200"`
	Description   string `validate:"omitempty,max=2000"`
	Doctor        string `validate:"omitempty,max=100"`
	Clinic        string `validate:"omitempty,max=100"`
	HasNextVisit  bool
	NextVisitDate string `validate:"omitempty,datetime=2006-01-02"`
}

type SagaStatusResponse struct {
	SagaID    string          `json:"sagaId"`
	SagaName  string          `json:"sagaName"`
	Status    sagalog.Status  `json:"status"`
	UpdatedAt time.Time       `json:"updatedAt"`
	History   []SagaEventJSON `json:"history"`
}

type SagaEventJSON struct {
	Status     sagalog.Status `json:"status"`
	Step       string         `json:"step,omitempty"`
	Errors     []string       `json:"errors,omitempty"`
	TraceID    string         `json:"traceId,omitempty"`
	RecordedAt time.Time      `json:"recordedAt"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (f CreatePetForm) toEntity(ownerID string) entity.NewPet {
	return entity.NewPet{
		OwnerID:   ownerID,
		Name:      f.Name,
		Species:   f.Species,
		Breed:     f.Breed,
		BirthDate: f.BirthDate,
		Sex:       f.Sex,
		Size:      f.Size,
		Weight:    f.Weight,
	}
}

func (r UpdatePetRequest) toEntity() entity.PetUpdate {
	return entity.PetUpdate{
		Name:      r.Name,
		Species:   r.Species,
		Breed:     r.Breed,
		BirthDate: r.BirthDate,
		Sex:       r.Sex,
		Size:      r.Size,
		Weight:    r.Weight,
	}
}

func (f CreateHealthRecordForm) toEntity(petID string) entity.NewHealthRecord {
	return entity.NewHealthRecord{
		PetID:         petID,
		Type:          f.Type,
		Date:          f.Date,
		Title:         f.Title,
		Description:   f.Description,
		Doctor:        f.Doctor,
		Clinic:        f.Clinic,
		HasNextVisit:  f.HasNextVisit,
		NextVisitDate: f.NextVisitDate,
	}
}
