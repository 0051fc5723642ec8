package coordinator

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/petcare-sagas/internal/coordinator/sagalog"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/rpcerr"
)

// journal records remote calls in order.
type journal struct {
	mu    sync.Mutex
	calls []string
	seq   int
}

func (j *journal) add(format string, args ...any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.calls = append(j.calls, fmt.Sprintf(format, args...))
}

func (j *journal) nextID(prefix string) string {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.seq++
	return fmt.Sprintf("%s%d", prefix, j.seq)
}

func (j *journal) snapshot() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return slices.Clone(j.calls)
}

type fakePets struct {
	j         *journal
	pets      map[string]*entity.Pet
	linkErr   error
	deleteErr error
	// lostReply applies the link before returning linkErr.
	lostReply bool
}

func (f *fakePets) CreatePet(_ context.Context, in entity.NewPet) (*entity.Pet, error) {
	pet := &entity.Pet{ID: f.j.nextID("pet-"), OwnerID: in.OwnerID, Name: in.Name, Species: in.Species}
	f.pets[pet.ID] = pet
	f.j.add("create_pet %s", pet.ID)
	out := *pet
	return &out, nil
}

func (f *fakePets) DeletePet(_ context.Context, id string) error {
	f.j.add("delete_pet %s", id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.pets[id]; !ok {
		return rpcerr.NotFoundf("pet %s not found", id)
	}
	delete(f.pets, id)
	return nil
}

func (f *fakePets) FindPet(_ context.Context, id string) (*entity.Pet, error) {
	pet, ok := f.pets[id]
	if !ok {
		return nil, nil
	}
	out := *pet
	return &out, nil
}

func (f *fakePets) ListPetsByOwner(_ context.Context, ownerID string) ([]entity.Pet, error) {
	var out []entity.Pet
	for _, p := range f.pets {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePets) UpdatePet(_ context.Context, id string, _ entity.PetUpdate) (*entity.Pet, error) {
	return f.FindPet(context.Background(), id)
}

func (f *fakePets) LinkMedia(_ context.Context, petID, mediaID string) error {
	f.j.add("link_pet_media %s %s", petID, mediaID)
	if f.lostReply {
		f.pets[petID].PhotoID = mediaID
	}
	if f.linkErr != nil {
		return f.linkErr
	}
	f.pets[petID].PhotoID = mediaID
	return nil
}

func (f *fakePets) UnlinkMedia(_ context.Context, petID, mediaID string) error {
	f.j.add("unlink_pet_media %s %s", petID, mediaID)
	if pet, ok := f.pets[petID]; ok && pet.PhotoID == mediaID {
		pet.PhotoID = ""
	}
	return nil
}

type fakeHealth struct {
	j       *journal
	records map[string]*entity.HealthRecord
}

func (f *fakeHealth) CreateHealthRecord(_ context.Context, in entity.NewHealthRecord) (*entity.HealthRecord, error) {
	rec := &entity.HealthRecord{ID: f.j.nextID("rec-"), PetID: in.PetID, Type: in.Type, Title: in.Title, MediaIDs: []string{}}
	f.records[rec.ID] = rec
	f.j.add("create_health_record %s", rec.ID)
	out := *rec
	out.MediaIDs = slices.Clone(rec.MediaIDs)
	return &out, nil
}

func (f *fakeHealth) DeleteHealthRecord(_ context.Context, id string) error {
	f.j.add("delete_health_record %s", id)
	if _, ok := f.records[id]; !ok {
		return rpcerr.NotFoundf("health record %s not found", id)
	}
	delete(f.records, id)
	return nil
}

func (f *fakeHealth) LinkMedia(_ context.Context, recordID, mediaID string) error {
	f.j.add("link_health_media %s %s", recordID, mediaID)
	rec := f.records[recordID]
	rec.MediaIDs = append(rec.MediaIDs, mediaID)
	return nil
}

func (f *fakeHealth) UnlinkMedia(_ context.Context, recordID, mediaID string) error {
	f.j.add("unlink_health_media %s %s", recordID, mediaID)
	if rec, ok := f.records[recordID]; ok {
		rec.MediaIDs = slices.DeleteFunc(rec.MediaIDs, func(id string) bool { return id == mediaID })
	}
	return nil
}

type fakeMedia struct {
	j         *journal
	files     map[string]*entity.Media
	attempts  int
	failAt    int // 1-based upload attempt that fails; 0 never
	uploadErr error
}

func (f *fakeMedia) Upload(_ context.Context, upload entity.Upload, entityType, entityID string) (*entity.Media, error) {
	f.attempts++
	f.j.add("upload %s", upload.Filename)
	if f.attempts == f.failAt {
		return nil, f.uploadErr
	}
	m := &entity.Media{
		ID:           f.j.nextID("media-"),
		EntityType:   entityType,
		EntityID:     entityID,
		OriginalName: upload.Filename,
		MimeType:     upload.ContentType,
		Size:         int64(len(upload.Data)),
	}
	f.files[m.ID] = m
	out := *m
	return &out, nil
}

func (f *fakeMedia) DeleteMedia(_ context.Context, id string) error {
	f.j.add("delete_media %s", id)
	if _, ok := f.files[id]; !ok {
		return rpcerr.NotFoundf("media %s not found", id)
	}
	delete(f.files, id)
	return nil
}

type fakeUsers struct {
	j       *journal
	avatars map[string]string
	setErr  error
	// lostReply applies the avatar before returning setErr.
	lostReply bool
}

func (f *fakeUsers) CreateUser(context.Context, entity.NewUser) (*entity.User, error) {
	return nil, rpcerr.Invalidf("not supported")
}

func (f *fakeUsers) FindUserByCredentialID(context.Context, string) (*entity.User, error) {
	return nil, nil
}

func (f *fakeUsers) UpdateUser(context.Context, string, entity.ProfileUpdate) (*entity.User, error) {
	return nil, rpcerr.Invalidf("not supported")
}

func (f *fakeUsers) SetAvatar(_ context.Context, userID, mediaID string) error {
	f.j.add("set_avatar %s %s", userID, mediaID)
	if f.lostReply {
		f.avatars[userID] = mediaID
	}
	if f.setErr != nil {
		return f.setErr
	}
	f.avatars[userID] = mediaID
	return nil
}

func (f *fakeUsers) UnsetAvatar(_ context.Context, userID, mediaID string) error {
	f.j.add("unset_avatar %s %s", userID, mediaID)
	if f.avatars[userID] == mediaID {
		delete(f.avatars, userID)
	}
	return nil
}

type backends struct {
	j      *journal
	pets   *fakePets
	health *fakeHealth
	media  *fakeMedia
	users  *fakeUsers
	log    *memoryLog
}

func newBackends() *backends {
	j := &journal{}
	return &backends{
		j:      j,
		pets:   &fakePets{j: j, pets: map[string]*entity.Pet{}},
		health: &fakeHealth{j: j, records: map[string]*entity.HealthRecord{}},
		media:  &fakeMedia{j: j, files: map[string]*entity.Media{}},
		users:  &fakeUsers{j: j, avatars: map[string]string{}},
		log:    &memoryLog{},
	}
}

func (b *backends) workflows() *Workflows {
	return NewWorkflows(b.pets, b.health, b.media, b.users, b.log)
}

// memoryLog is an in-memory sagalog.Repository.
type memoryLog struct {
	mu      sync.Mutex
	entries []sagalog.SagaLog
}

func (m *memoryLog) Save(_ context.Context, entry *sagalog.SagaLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryLog) statuses() []sagalog.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sagalog.Status, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.Status)
	}
	return out
}

func upload(name string) entity.Upload {
	return entity.Upload{Filename: name, ContentType: "image/png", Data: []byte("png-bytes")}
}
