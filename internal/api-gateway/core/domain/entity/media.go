package entity

import "time"

// Media entity types.
const (
	MediaEntityPet    = "pet"
	MediaEntityHealth = "health"
	MediaEntityUser   = "user"
)

type Media struct {
	ID           string    `json:"id"`
	EntityType   string    `json:"entityType"`
	EntityID     string    `json:"entityId,omitempty"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Upload is binary content received from the caller, not yet stored.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}
