package entity

// User is the caller's profile as owned by the user service.
type User struct {
	ID           string `json:"id"`
	CredentialID string `json:"credentialId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Phone        string `json:"phone,omitempty"`
	AvatarID     string `json:"avatarId,omitempty"`
}

type NewUser struct {
	CredentialID string
	FirstName    string
	LastName     string
	Phone        string
}

// ProfileUpdate changes only the non-nil fields.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
}
