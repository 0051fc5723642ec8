// Package app is the in-memory health-record service.
package app

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	healthv1 "github.com/jcmexdev/petcare-sagas/internal/contracts/health/v1"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/command"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/rpcerr"
)

type HealthServer struct {
	mu      sync.RWMutex
	records map[string]*healthv1.HealthRecord
}

func NewHealthServer() *HealthServer {
	return &HealthServer{records: make(map[string]*healthv1.HealthRecord)}
}

// Register mounts the health-record commands on srv.
func (s *HealthServer) Register(srv *command.Server) {
	command.RegisterOnce(srv, healthv1.CmdCreateHealthRecord, s.CreateHealthRecord)
	command.Register(srv, healthv1.CmdDeleteHealthRecordByID, s.DeleteHealthRecord)
	command.Register(srv, healthv1.CmdFindHealthRecord, s.FindHealthRecord)
	command.Register(srv, healthv1.CmdFindAllByPetID, s.FindAllByPet)
	command.Register(srv, healthv1.CmdLinkMedia, s.LinkMedia)
	command.Register(srv, healthv1.CmdUnlinkMedia, s.UnlinkMedia)
}

func (s *HealthServer) CreateHealthRecord(ctx context.Context, req healthv1.CreateHealthRecordRequest) (*healthv1.HealthRecord, error) {
	if req.PetID == "" || req.Type == "" || req.Title == "" || req.Date == "" {
		return nil, rpcerr.Invalidf("petId, type, title and date are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := &healthv1.HealthRecord{
		ID:            uuid.NewString(),
		PetID:         req.PetID,
		Type:          req.Type,
		Date:          req.Date,
		Title:         req.Title,
		Description:   req.Description,
		Doctor:        req.Doctor,
		Clinic:        req.Clinic,
		HasNextVisit:  req.HasNextVisit,
		NextVisitDate: req.NextVisitDate,
		MediaIDs:      []string{},
		CreatedAt:     time.Now().UTC(),
	}
	s.records[record.ID] = record

	slog.InfoContext(ctx, "health record created", "record_id", record.ID, "pet_id", record.PetID)
	return clone(record), nil
}

func (s *HealthServer) DeleteHealthRecord(ctx context.Context, req healthv1.IDRequest) (healthv1.DeleteReply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[req.ID]; !ok {
		return healthv1.DeleteReply{}, rpcerr.NotFoundf("health record %s not found", req.ID)
	}
	delete(s.records, req.ID)

	slog.InfoContext(ctx, "health record deleted", "record_id", req.ID)
	return healthv1.DeleteReply{ID: req.ID, Deleted: true}, nil
}

// FindHealthRecord replies null for an unknown record.
func (s *HealthServer) FindHealthRecord(_ context.Context, req healthv1.IDRequest) (*healthv1.HealthRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[req.ID]
	if !ok {
		return nil, nil
	}
	return clone(record), nil
}

// FindAllByPet returns the records of a pet, oldest first.
func (s *HealthServer) FindAllByPet(_ context.Context, req healthv1.FindAllByPetRequest) ([]healthv1.HealthRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]healthv1.HealthRecord, 0)
	for _, record := range s.records {
		if record.PetID == req.PetID {
			out = append(out, *clone(record))
		}
	}
	slices.SortFunc(out, func(a, b healthv1.HealthRecord) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *HealthServer) LinkMedia(ctx context.Context, req healthv1.LinkMediaRequest) (*healthv1.HealthRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[req.HealthRecordID]
	if !ok {
		return nil, rpcerr.NotFoundf("health record %s not found", req.HealthRecordID)
	}
	if !slices.Contains(record.MediaIDs, req.MediaID) {
		record.MediaIDs = append(record.MediaIDs, req.MediaID)
	}

	slog.InfoContext(ctx, "media linked to health record", "record_id", record.ID, "media_id", req.MediaID)
	return clone(record), nil
}

func (s *HealthServer) UnlinkMedia(ctx context.Context, req healthv1.LinkMediaRequest) (*healthv1.HealthRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[req.HealthRecordID]
	if !ok {
		return nil, rpcerr.NotFoundf("health record %s not found", req.HealthRecordID)
	}
	record.MediaIDs = slices.DeleteFunc(record.MediaIDs, func(id string) bool { return id == req.MediaID })

	slog.InfoContext(ctx, "media unlinked from health record", "record_id", record.ID, "media_id", req.MediaID)
	return clone(record), nil
}

func clone(r *healthv1.HealthRecord) *healthv1.HealthRecord {
	out := *r
	out.MediaIDs = slices.Clone(r.MediaIDs)
	return &out
}
