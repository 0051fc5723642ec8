package lookup

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/core/ports"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/cache"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/rpcerr"
)

type stubUsers struct {
	ports.UserService
	users map[string]*entity.User
	calls int
}

func (s *stubUsers) FindUserByCredentialID(_ context.Context, credentialID string) (*entity.User, error) {
	s.calls++
	return s.users[credentialID], nil
}

type stubPets struct {
	ports.PetService
	pets  map[string]*entity.Pet
	calls int
}

func (s *stubPets) FindPet(_ context.Context, id string) (*entity.Pet, error) {
	s.calls++
	return s.pets[id], nil
}

func newTestService(t *testing.T) (*miniredis.Miniredis, *Service, *stubUsers, *stubPets) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	users := &stubUsers{users: map[string]*entity.User{
		"abc": {ID: "u1", CredentialID: "abc", FirstName: "Ana"},
	}}
	pets := &stubPets{pets: map[string]*entity.Pet{
		"p1": {ID: "p1", OwnerID: "u1", Name: "Rex"},
		"p2": {ID: "p2", OwnerID: "u2", Name: "Tom"},
	}}
	svc := NewService(cache.NewStore(cache.NewRedisCacheFromClient(rdb)), users, pets)
	return mr, svc, users, pets
}

func TestUserByCredentialIsCached(t *testing.T) {
	mr, svc, users, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.UserByCredential(ctx, "abc")
	require.NoError(t, err)
	second, err := svc.UserByCredential(ctx, "abc")
	require.NoError(t, err)

	assert.Equal(t, 1, users.calls)
	assert.Equal(t, first, second)
	assert.Equal(t, UserTTL, mr.TTL("user:credential:abc"))
}

func TestUnknownUserIsNotCached(t *testing.T) {
	mr, svc, users, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CurrentUser(ctx, "nobody")
	assert.ErrorIs(t, err, rpcerr.ErrNotFound)
	_, err = svc.CurrentUser(ctx, "nobody")
	assert.ErrorIs(t, err, rpcerr.ErrNotFound)

	assert.Equal(t, 2, users.calls)
	assert.False(t, mr.Exists("user:credential:nobody"))
}

func TestInvalidatePetRefetches(t *testing.T) {
	mr, svc, _, pets := newTestService(t)
	ctx := context.Background()

	_, err := svc.PetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, PetTTL, mr.TTL("pet:p1"))

	pets.pets["p1"].Name = "Rex II"
	require.NoError(t, svc.InvalidatePet(ctx, "p1"))

	pet, err := svc.PetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Rex II", pet.Name)
	assert.Equal(t, 2, pets.calls)
}

func TestInvalidateUser(t *testing.T) {
	mr, svc, users, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.UserByCredential(ctx, "abc")
	require.NoError(t, err)
	require.NoError(t, svc.InvalidateUser(ctx, "abc"))
	assert.False(t, mr.Exists("user:credential:abc"))

	_, err = svc.UserByCredential(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 2, users.calls)
}

func TestOwnedPet(t *testing.T) {
	_, svc, _, _ := newTestService(t)
	ctx := context.Background()
	user := &entity.User{ID: "u1"}

	pet, err := svc.OwnedPet(ctx, user, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Rex", pet.Name)

	_, err = svc.OwnedPet(ctx, user, "p2")
	assert.ErrorIs(t, err, rpcerr.ErrForbidden)

	_, err = svc.OwnedPet(ctx, user, "p404")
	assert.ErrorIs(t, err, rpcerr.ErrNotFound)
}

func TestWithTTLs(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	pets := &stubPets{pets: map[string]*entity.Pet{"p1": {ID: "p1"}}}
	svc := NewService(cache.NewStore(cache.NewRedisCacheFromClient(rdb)), &stubUsers{}, pets,
		WithTTLs(0, time.Minute))

	_, err := svc.PetByID(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, time.Minute, mr.TTL("pet:p1"))
	assert.Equal(t, UserTTL, svc.userTTL)
}
