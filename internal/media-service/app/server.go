// Package app is the in-memory media-storage service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	mediav1 "github.com/jcmexdev/petcare-sagas/internal/contracts/media/v1"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/command"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/rpcerr"
)

type storedFile struct {
	meta mediav1.Media
	data []byte
}

type MediaServer struct {
	mu      sync.RWMutex
	files   map[string]*storedFile
	baseURL string
}

// NewMediaServer stores files in memory. baseURL prefixes the URL reported
// for each file.
func NewMediaServer(baseURL string) *MediaServer {
	return &MediaServer{files: make(map[string]*storedFile), baseURL: baseURL}
}

// Register mounts the media commands on srv.
func (s *MediaServer) Register(srv *command.Server) {
	command.RegisterOnce(srv, mediav1.CmdUploadFile, s.UploadFile)
	command.Register(srv, mediav1.CmdDeleteFile, s.DeleteFile)
}

func (s *MediaServer) UploadFile(ctx context.Context, req mediav1.UploadFileRequest) (*mediav1.Media, error) {
	switch req.EntityType {
	case mediav1.EntityPet, mediav1.EntityHealth, mediav1.EntityUser:
	default:
		return nil, rpcerr.Invalidf("unsupported entity type %q", req.EntityType)
	}
	if len(req.File.Data) == 0 {
		return nil, rpcerr.Invalidf("file %q is empty", req.File.OriginalName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	file := &storedFile{
		meta: mediav1.Media{
			ID:           id,
			EntityType:   req.EntityType,
			EntityID:     req.EntityID,
			OriginalName: req.File.OriginalName,
			MimeType:     req.File.MimeType,
			Size:         int64(len(req.File.Data)),
			URL:          fmt.Sprintf("%s/%s/%s", s.baseURL, req.EntityType, id),
			CreatedAt:    time.Now().UTC(),
		},
		data: req.File.Data,
	}
	s.files[id] = file

	slog.InfoContext(ctx, "file stored", "media_id", id, "entity_type", req.EntityType, "size", file.meta.Size)
	out := file.meta
	return &out, nil
}

func (s *MediaServer) DeleteFile(ctx context.Context, req mediav1.IDRequest) (mediav1.DeleteReply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[req.ID]; !ok {
		return mediav1.DeleteReply{}, rpcerr.NotFoundf("media %s not found", req.ID)
	}
	delete(s.files, req.ID)

	slog.InfoContext(ctx, "file deleted", "media_id", req.ID)
	return mediav1.DeleteReply{ID: req.ID, Deleted: true}, nil
}

// Len reports how many files are stored.
func (s *MediaServer) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}
