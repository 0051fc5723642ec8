// Package userv1 holds the command contract of the user-profile service.
package userv1

const ServiceName = "petcare.user.v1.UserCommands"

const (
	CmdCreateUser             = "create_user"
	CmdFindUserByCredentialID = "find_user_by_credential_id"
	CmdUpdateUser             = "update_user"
	CmdSetAvatar              = "set_avatar"
	CmdUnsetAvatar            = "unset_avatar"
)

type User struct {
	ID           string `json:"id"`
	CredentialID string `json:"credentialId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Phone        string `json:"phone,omitempty"`
	AvatarID     string `json:"avatarId,omitempty"`
}

type CreateUserRequest struct {
	CredentialID string `json:"credentialId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Phone        string `json:"phone,omitempty"`
}

type FindByCredentialRequest struct {
	CredentialID string `json:"credentialId"`
}

// UpdateUserRequest changes only the fields that are set.
type UpdateUserRequest struct {
	ID        string  `json:"id"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// AvatarRequest sets or unsets MediaID as the user's avatar. Unsetting
// restores the previous avatar when MediaID is the current one.
type AvatarRequest struct {
	UserID  string `json:"userId"`
	MediaID string `json:"mediaId"`
}
