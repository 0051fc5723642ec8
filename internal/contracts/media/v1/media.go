// Package mediav1 holds the command contract of the media-storage service.
package mediav1

import "time"

const ServiceName = "petcare.media.v1.MediaCommands"

const (
	CmdUploadFile = "upload_file"
	CmdDeleteFile = "delete_file"
)

// Entity types media can belong to.
const (
	EntityPet    = "pet"
	EntityHealth = "health"
	EntityUser   = "user"
)

// File is an inline binary upload. Data is base64 in JSON.
type File struct {
	Data         []byte `json:"data"`
	OriginalName string `json:"originalname"`
	MimeType     string `json:"mimetype"`
	Size         int64  `json:"size"`
}

type UploadFileRequest struct {
	File       File   `json:"file"`
	EntityType string `json:"entityType"`
	EntityID   string `json:"entityId,omitempty"`
}

type Media struct {
	ID           string    `json:"id"`
	EntityType   string    `json:"entityType"`
	EntityID     string    `json:"entityId,omitempty"`
	OriginalName string    `json:"originalname"`
	MimeType     string    `json:"mimetype"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	CreatedAt    time.Time `json:"createdAt"`
}

type IDRequest struct {
	ID string `json:"id"`
}

type DeleteReply struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
