package service

import (
	"context"
	"fmt"

	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/core/ports"
	healthv1 "github.com/jcmexdev/petcare-sagas/internal/contracts/health/v1"
)

// HealthCommands is the adapter that talks to the health-record service.
type HealthCommands struct {
	sender Sender
}

func NewHealthCommands(sender Sender) *HealthCommands {
	return &HealthCommands{sender: sender}
}

var (
	_ ports.HealthService      = (*HealthCommands)(nil)
	_ ports.HealthRecordReader = (*HealthCommands)(nil)
)

func (s *HealthCommands) CreateHealthRecord(ctx context.Context, in entity.NewHealthRecord) (*entity.HealthRecord, error) {
	var res *healthv1.HealthRecord
	err := s.sender.Send(ctx, healthv1.CmdCreateHealthRecord, healthv1.CreateHealthRecordRequest{
		PetID:         in.PetID,
		Type:          in.Type,
		Date:          in.Date,
		Title:         in.Title,
		Description:   in.Description,
		Doctor:        in.Doctor,
		Clinic:        in.Clinic,
		HasNextVisit:  in.HasNextVisit,
		NextVisitDate: in.NextVisitDate,
	}, &res)
	if err != nil {
		return nil, fmt.Errorf("create health record: %w", err)
	}
	if res == nil {
		return nil, fmt.Errorf("create health record: empty record in response")
	}
	return toHealthRecord(res), nil
}

func (s *HealthCommands) ListHealthRecordsByPet(ctx context.Context, petID string) ([]entity.HealthRecord, error) {
	var res []healthv1.HealthRecord
	err := s.sender.Send(ctx, healthv1.CmdFindAllByPetID, healthv1.FindAllByPetRequest{PetID: petID}, &res)
	if err != nil {
		return nil, fmt.Errorf("list health records of pet %s: %w", petID, err)
	}
	out := make([]entity.HealthRecord, 0, len(res))
	for i := range res {
		out = append(out, *toHealthRecord(&res[i]))
	}
	return out, nil
}

func toHealthRecord(res *healthv1.HealthRecord) *entity.HealthRecord {
	return &entity.HealthRecord{
		ID:            res.ID,
		PetID:         res.PetID,
		Type:          res.Type,
		Date:          res.Date,
		Title:         res.Title,
		Description:   res.Description,
		Doctor:        res.Doctor,
		Clinic:        res.Clinic,
		HasNextVisit:  res.HasNextVisit,
		NextVisitDate: res.NextVisitDate,
		MediaIDs:      append([]string(nil), res.MediaIDs...),
		CreatedAt:     res.CreatedAt,
	}
}

func (s *HealthCommands) DeleteHealthRecord(ctx context.Context, id string) error {
	if err := s.sender.Send(ctx, healthv1.CmdDeleteHealthRecordByID, healthv1.IDRequest{ID: id}, nil); err != nil {
		return fmt.Errorf("delete health record %s: %w", id, err)
	}
	return nil
}

func (s *HealthCommands) LinkMedia(ctx context.Context, recordID, mediaID string) error {
	err := s.sender.Send(ctx, healthv1.CmdLinkMedia, healthv1.LinkMediaRequest{
		HealthRecordID: recordID,
		MediaID:        mediaID,
	}, nil)
	if err != nil {
		return fmt.Errorf("link media %s to health record %s: %w", mediaID, recordID, err)
	}
	return nil
}

func (s *HealthCommands) UnlinkMedia(ctx context.Context, recordID, mediaID string) error {
	err := s.sender.Send(ctx, healthv1.CmdUnlinkMedia, healthv1.LinkMediaRequest{
		HealthRecordID: recordID,
		MediaID:        mediaID,
	}, nil)
	if err != nil {
		return fmt.Errorf("unlink media %s from health record %s: %w", mediaID, recordID, err)
	}
	return nil
}
