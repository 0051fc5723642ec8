package service

import (
	"context"
	"fmt"

	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/core/ports"
	mediav1 "github.com/jcmexdev/petcare-sagas/internal/contracts/media/v1"
)

// MediaCommands is the adapter that talks to the media-storage service.
type MediaCommands struct {
	sender Sender
}

func NewMediaCommands(sender Sender) *MediaCommands {
	return &MediaCommands{sender: sender}
}

var _ ports.MediaService = (*MediaCommands)(nil)

func (s *MediaCommands) Upload(ctx context.Context, upload entity.Upload, entityType, entityID string) (*entity.Media, error) {
	var res *mediav1.Media
	err := s.sender.Send(ctx, mediav1.CmdUploadFile, mediav1.UploadFileRequest{
		File: mediav1.File{
			Data:         upload.Data,
			OriginalName: upload.Filename,
			MimeType:     upload.ContentType,
			Size:         int64(len(upload.Data)),
		},
		EntityType: entityType,
		EntityID:   entityID,
	}, &res)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", upload.Filename, err)
	}
	if res == nil {
		return nil, fmt.Errorf("upload %s: empty media in response", upload.Filename)
	}
	return &entity.Media{
		ID:           res.ID,
		EntityType:   res.EntityType,
		EntityID:     res.EntityID,
		OriginalName: res.OriginalName,
		MimeType:     res.MimeType,
		Size:         res.Size,
		URL:          res.URL,
		CreatedAt:    res.CreatedAt,
	}, nil
}

func (s *MediaCommands) DeleteMedia(ctx context.Context, id string) error {
	if err := s.sender.Send(ctx, mediav1.CmdDeleteFile, mediav1.IDRequest{ID: id}, nil); err != nil {
		return fmt.Errorf("delete media %s: %w", id, err)
	}
	return nil
}
