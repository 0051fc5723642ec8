// Package app is the in-memory user-profile service.
package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	userv1 "github.com/jcmexdev/petcare-sagas/internal/contracts/user/v1"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/command"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/rpcerr"
)

type UserServer struct {
	mu           sync.RWMutex
	users        map[string]*userv1.User
	byCredential map[string]string
	// previous avatar per user, restored by unset_avatar.
	previous map[string]string
}

func NewUserServer() *UserServer {
	return &UserServer{
		users:        make(map[string]*userv1.User),
		byCredential: make(map[string]string),
		previous:     make(map[string]string),
	}
}

// Register mounts the user commands on srv.
func (s *UserServer) Register(srv *command.Server) {
	command.RegisterOnce(srv, userv1.CmdCreateUser, s.CreateUser)
	command.Register(srv, userv1.CmdFindUserByCredentialID, s.FindByCredential)
	command.Register(srv, userv1.CmdUpdateUser, s.UpdateUser)
	command.Register(srv, userv1.CmdSetAvatar, s.SetAvatar)
	command.Register(srv, userv1.CmdUnsetAvatar, s.UnsetAvatar)
}

func (s *UserServer) CreateUser(ctx context.Context, req userv1.CreateUserRequest) (*userv1.User, error) {
	if req.CredentialID == "" || req.FirstName == "" || req.LastName == "" {
		return nil, rpcerr.Invalidf("credentialId, firstName and lastName are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byCredential[req.CredentialID]; ok {
		return nil, rpcerr.Conflictf("a profile already exists for credential %s", req.CredentialID)
	}
	user := &userv1.User{
		ID:           uuid.NewString(),
		CredentialID: req.CredentialID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
	}
	s.users[user.ID] = user
	s.byCredential[user.CredentialID] = user.ID

	slog.InfoContext(ctx, "user created", "user_id", user.ID)
	out := *user
	return &out, nil
}

// FindByCredential replies null when no profile exists.
func (s *UserServer) FindByCredential(_ context.Context, req userv1.FindByCredentialRequest) (*userv1.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byCredential[req.CredentialID]
	if !ok {
		return nil, nil
	}
	out := *s.users[id]
	return &out, nil
}

func (s *UserServer) UpdateUser(ctx context.Context, req userv1.UpdateUserRequest) (*userv1.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[req.ID]
	if !ok {
		return nil, rpcerr.NotFoundf("user %s not found", req.ID)
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	slog.InfoContext(ctx, "user updated", "user_id", user.ID)
	out := *user
	return &out, nil
}

func (s *UserServer) SetAvatar(ctx context.Context, req userv1.AvatarRequest) (*userv1.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[req.UserID]
	if !ok {
		return nil, rpcerr.NotFoundf("user %s not found", req.UserID)
	}
	if user.AvatarID != req.MediaID {
		s.previous[user.ID] = user.AvatarID
		user.AvatarID = req.MediaID
	}

	slog.InfoContext(ctx, "avatar set", "user_id", user.ID, "media_id", req.MediaID)
	out := *user
	return &out, nil
}

// UnsetAvatar restores the previous avatar if MediaID is the current one.
func (s *UserServer) UnsetAvatar(ctx context.Context, req userv1.AvatarRequest) (*userv1.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[req.UserID]
	if !ok {
		return nil, rpcerr.NotFoundf("user %s not found", req.UserID)
	}
	if user.AvatarID == req.MediaID {
		user.AvatarID = s.previous[user.ID]
		delete(s.previous, user.ID)
		slog.InfoContext(ctx, "avatar unset", "user_id", user.ID, "media_id", req.MediaID)
	}
	out := *user
	return &out, nil
}
