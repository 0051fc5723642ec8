package service

import (
	"context"
	"fmt"

	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/core/ports"
	userv1 "github.com/jcmexdev/petcare-sagas/internal/contracts/user/v1"
)

// UserCommands is the adapter that talks to the user-profile service.
type UserCommands struct {
	sender Sender
}

func NewUserCommands(sender Sender) *UserCommands {
	return &UserCommands{sender: sender}
}

var _ ports.UserService = (*UserCommands)(nil)

func (s *UserCommands) CreateUser(ctx context.Context, in entity.NewUser) (*entity.User, error) {
	var res *userv1.User
	err := s.sender.Send(ctx, userv1.CmdCreateUser, userv1.CreateUserRequest{
		CredentialID: in.CredentialID,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
	}, &res)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if res == nil {
		return nil, fmt.Errorf("create user: empty user in response")
	}
	return mapUser(res), nil
}

func (s *UserCommands) FindUserByCredentialID(ctx context.Context, credentialID string) (*entity.User, error) {
	var res *userv1.User
	err := s.sender.Send(ctx, userv1.CmdFindUserByCredentialID, userv1.FindByCredentialRequest{
		CredentialID: credentialID,
	}, &res)
	if err != nil {
		return nil, fmt.Errorf("find user by credential: %w", err)
	}
	if res == nil {
		return nil, nil
	}
	return mapUser(res), nil
}

func (s *UserCommands) UpdateUser(ctx context.Context, id string, in entity.ProfileUpdate) (*entity.User, error) {
	var res *userv1.User
	err := s.sender.Send(ctx, userv1.CmdUpdateUser, userv1.UpdateUserRequest{
		ID:        id,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
	}, &res)
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	if res == nil {
		return nil, fmt.Errorf("update user %s: empty user in response", id)
	}
	return mapUser(res), nil
}

func (s *UserCommands) SetAvatar(ctx context.Context, userID, mediaID string) error {
	err := s.sender.Send(ctx, userv1.CmdSetAvatar, userv1.AvatarRequest{UserID: userID, MediaID: mediaID}, nil)
	if err != nil {
		return fmt.Errorf("set avatar of %s: %w", userID, err)
	}
	return nil
}

func (s *UserCommands) UnsetAvatar(ctx context.Context, userID, mediaID string) error {
	err := s.sender.Send(ctx, userv1.CmdUnsetAvatar, userv1.AvatarRequest{UserID: userID, MediaID: mediaID}, nil)
	if err != nil {
		return fmt.Errorf("unset avatar of %s: %w", userID, err)
	}
	return nil
}

func mapUser(u *userv1.User) *entity.User {
	return &entity.User{
		ID:           u.ID,
		CredentialID: u.CredentialID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Phone:        u.Phone,
		AvatarID:     u.AvatarID,
	}
}
