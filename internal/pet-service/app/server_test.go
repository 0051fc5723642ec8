package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	petv1 "github.com/jcmexdev/petcare-sagas/internal/contracts/pet/v1"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/rpcerr"
)

func newTestServer() *PetServer {
	s := NewPetServer()
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func createPet(t *testing.T, s *PetServer, owner, name string) *petv1.Pet {
	t.Helper()
	pet, err := s.CreatePet(context.Background(), petv1.CreatePetRequest{OwnerID: owner, Name: name, Species: "dog"})
	require.NoError(t, err)
	return pet
}

func TestCreatePetValidates(t *testing.T) {
	s := newTestServer()

	_, err := s.CreatePet(context.Background(), petv1.CreatePetRequest{OwnerID: "u1", Name: "Rex"})

	assert.ErrorIs(t, err, rpcerr.ErrInvalid)
}

func TestFindPetUnknownIsNil(t *testing.T) {
	s := newTestServer()

	pet, err := s.FindPet(context.Background(), petv1.IDRequest{ID: "missing"})

	require.NoError(t, err)
	assert.Nil(t, pet)
}

func TestFindPetReturnsCopy(t *testing.T) {
	s := newTestServer()
	created := createPet(t, s, "u1", "Rex")

	found, err := s.FindPet(context.Background(), petv1.IDRequest{ID: created.ID})
	require.NoError(t, err)
	found.Name = "changed"

	again, err := s.FindPet(context.Background(), petv1.IDRequest{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, "Rex", again.Name)
}

func TestFindAllByOwnerSortsByCreation(t *testing.T) {
	s := newTestServer()
	first := createPet(t, s, "u1", "Rex")
	createPet(t, s, "u2", "Other")
	second := createPet(t, s, "u1", "Max")

	pets, err := s.FindAllByOwner(context.Background(), petv1.FindAllByOwnerRequest{OwnerID: "u1"})

	require.NoError(t, err)
	require.Len(t, pets, 2)
	assert.Equal(t, first.ID, pets[0].ID)
	assert.Equal(t, second.ID, pets[1].ID)

	none, err := s.FindAllByOwner(context.Background(), petv1.FindAllByOwnerRequest{OwnerID: "nobody"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestUpdatePetAppliesSetFields(t *testing.T) {
	s := newTestServer()
	created := createPet(t, s, "u1", "Rex")
	name, weight := "Max", 12.5

	updated, err := s.UpdatePet(context.Background(), petv1.UpdatePetRequest{ID: created.ID, Name: &name, Weight: &weight})

	require.NoError(t, err)
	assert.Equal(t, "Max", updated.Name)
	assert.Equal(t, "dog", updated.Species)
	assert.Equal(t, 12.5, updated.Weight)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	_, err = s.UpdatePet(context.Background(), petv1.UpdatePetRequest{ID: "missing", Name: &name})
	assert.ErrorIs(t, err, rpcerr.ErrNotFound)
}

func TestDeletePet(t *testing.T) {
	s := newTestServer()
	created := createPet(t, s, "u1", "Rex")

	reply, err := s.DeletePet(context.Background(), petv1.IDRequest{ID: created.ID})
	require.NoError(t, err)
	assert.True(t, reply.Deleted)

	_, err = s.DeletePet(context.Background(), petv1.IDRequest{ID: created.ID})
	assert.ErrorIs(t, err, rpcerr.ErrNotFound)
}

func TestUnlinkMediaOnlyClearsMatchingPhoto(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()
	created := createPet(t, s, "u1", "Rex")

	_, err := s.LinkMedia(ctx, petv1.LinkMediaRequest{PetID: created.ID, MediaID: "m1"})
	require.NoError(t, err)

	pet, err := s.UnlinkMedia(ctx, petv1.LinkMediaRequest{PetID: created.ID, MediaID: "other"})
	require.NoError(t, err)
	assert.Equal(t, "m1", pet.PhotoID)

	pet, err = s.UnlinkMedia(ctx, petv1.LinkMediaRequest{PetID: created.ID, MediaID: "m1"})
	require.NoError(t, err)
	assert.Empty(t, pet.PhotoID)

	_, err = s.LinkMedia(ctx, petv1.LinkMediaRequest{PetID: "missing", MediaID: "m1"})
	assert.ErrorIs(t, err, rpcerr.ErrNotFound)
}
