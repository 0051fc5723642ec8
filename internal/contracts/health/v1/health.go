// Package healthv1 holds the command contract of the health-record service.
package healthv1

import "time"

const ServiceName = "petcare.health.v1.HealthCommands"

const (
	CmdCreateHealthRecord     = "create_health_record"
	CmdDeleteHealthRecordByID = "delete_health_record_by_id"
	CmdFindHealthRecord       = "find_health_record"
	CmdFindAllByPetID         = "find_all_health_records_by_pet_id"
	CmdLinkMedia              = "link_media"
	CmdUnlinkMedia            = "unlink_media"
)

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

type CreateHealthRecordRequest struct {
	PetID         string `json:"petId"`
	Type          string `json:"type"`
	Date          string `json:"date"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Doctor        string `json:"doctor,omitempty"`
	Clinic        string `json:"clinic,omitempty"`
	HasNextVisit  bool   `json:"hasNextVisit,omitempty"`
	NextVisitDate string `json:"nextVisitDate,omitempty"`
}

type FindAllByPetRequest struct {
	PetID string `json:"petId"`
}

type IDRequest struct {
	ID string `json:"id"`
}

type LinkMediaRequest struct {
	HealthRecordID string `json:"healthRecordId"`
	MediaID        string `json:"mediaId"`
}

type DeleteReply struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
