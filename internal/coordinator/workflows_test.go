package coordinator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/rpcerr"
)

func TestCreatePetWithPhoto(t *testing.T) {
	b := newBackends()
	photo := upload("rex.png")

	res, err := b.workflows().CreatePetWithPhoto(context.Background(),
		entity.NewPet{OwnerID: "u1", Name: "Rex", Species: "dog"}, &photo)

	require.NoError(t, err)
	require.NotNil(t, res.Photo)
	assert.Equal(t, res.Photo.ID, res.Pet.PhotoID)
	assert.Equal(t, entity.MediaEntityPet, res.Photo.EntityType)
	assert.Equal(t, res.Pet.ID, res.Photo.EntityID)
	assert.NotEmpty(t, res.SagaID)
	assert.Len(t, b.media.files, 1)
}

func TestCreatePetWithoutPhotoSkipsMedia(t *testing.T) {
	b := newBackends()

	res, err := b.workflows().CreatePetWithPhoto(context.Background(),
		entity.NewPet{OwnerID: "u1", Name: "Rex", Species: "dog"}, nil)

	require.NoError(t, err)
	assert.Nil(t, res.Photo)
	assert.Equal(t, 0, b.media.attempts)
}

// Photo upload fails: the pet is deleted again and the caller gets the upload error.
func TestCreatePetWithPhotoRollsBackOnUploadFailure(t *testing.T) {
	b := newBackends()
	uploadErr := rpcerr.Timeout("media/upload_file")
	b.media.failAt = 1
	b.media.uploadErr = uploadErr
	photo := upload("rex.png")

	res, err := b.workflows().CreatePetWithPhoto(context.Background(),
		entity.NewPet{OwnerID: "u1", Name: "Rex", Species: "dog"}, &photo)

	assert.Nil(t, res)
	assert.Same(t, uploadErr, err)
	assert.Equal(t, []string{
		"create_pet pet-1",
		"upload rex.png",
		"delete_pet pet-1",
	}, b.j.snapshot())

	pets, err := b.pets.ListPetsByOwner(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, pets, "no orphan pet")
}

func TestCreatePetWithPhotoRollsBackOnLinkFailure(t *testing.T) {
	b := newBackends()
	linkErr := &rpcerr.Error{Kind: rpcerr.ErrInternal, Message: "link failed"}
	b.pets.linkErr = linkErr
	photo := upload("rex.png")

	_, err := b.workflows().CreatePetWithPhoto(context.Background(),
		entity.NewPet{OwnerID: "u1", Name: "Rex", Species: "dog"}, &photo)

	assert.ErrorIs(t, err, linkErr)
	assert.Empty(t, b.media.files, "uploaded photo is deleted")
	assert.Empty(t, b.pets.pets)
}

func TestCreatePetWithPhotoReturnsUploadErrorWhenDeleteFails(t *testing.T) {
	b := newBackends()
	uploadErr := errors.New("upload failed")
	b.media.failAt = 1
	b.media.uploadErr = uploadErr
	b.pets.deleteErr = errors.New("pet service down")
	photo := upload("rex.png")

	_, err := b.workflows().CreatePetWithPhoto(context.Background(),
		entity.NewPet{OwnerID: "u1", Name: "Rex", Species: "dog"}, &photo)

	assert.Same(t, uploadErr, err)
}

// Three files, the second upload fails: file 1 is removed, file 3 is never
// sent and the record is deleted.
func TestCreateHealthWithAttachmentsPartialFailure(t *testing.T) {
	b := newBackends()
	uploadErr := errors.New("upload failed")
	b.media.failAt = 2
	b.media.uploadErr = uploadErr

	res, err := b.workflows().CreateHealthWithAttachments(context.Background(),
		entity.NewHealthRecord{PetID: "pet-9", Type: "vaccine", Title: "Rabies"},
		[]entity.Upload{upload("a.png"), upload("b.png"), upload("c.png")})

	assert.Nil(t, res)
	require.Error(t, err)
	assert.ErrorIs(t, err, uploadErr)

	var partial *PartialUploadError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, 1, partial.Completed)
	assert.Equal(t, 3, partial.Total)

	assert.Equal(t, []string{
		"create_health_record rec-1",
		"upload a.png",
		"link_health_media rec-1 media-2",
		"upload b.png",
		"unlink_health_media rec-1 media-2",
		"delete_media media-2",
		"delete_health_record rec-1",
	}, b.j.snapshot())
	assert.Equal(t, 2, b.media.attempts)
	assert.Empty(t, b.media.files)
	assert.Empty(t, b.health.records)
}

func TestCreateHealthWithAttachments(t *testing.T) {
	b := newBackends()

	res, err := b.workflows().CreateHealthWithAttachments(context.Background(),
		entity.NewHealthRecord{PetID: "pet-9", Type: "vaccine", Title: "Rabies"},
		[]entity.Upload{upload("a.png"), upload("b.png")})

	require.NoError(t, err)
	require.Len(t, res.Attachments, 2)
	assert.Equal(t, "a.png", res.Attachments[0].OriginalName)
	assert.Equal(t, []string{res.Attachments[0].ID, res.Attachments[1].ID}, res.Record.MediaIDs)
	assert.Equal(t, res.Record.MediaIDs, b.health.records[res.Record.ID].MediaIDs)
}

func TestCreateHealthWithoutAttachments(t *testing.T) {
	b := newBackends()

	res, err := b.workflows().CreateHealthWithAttachments(context.Background(),
		entity.NewHealthRecord{PetID: "pet-9", Type: "other", Title: "Note"}, nil)

	require.NoError(t, err)
	assert.NotNil(t, res.Attachments)
	assert.Empty(t, res.Attachments)
}

func TestCreateHealthWithCertificate(t *testing.T) {
	b := newBackends()
	cert := entity.Upload{Filename: "cert.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")}

	res, err := b.workflows().CreateHealthWithCertificate(context.Background(),
		entity.NewHealthRecord{PetID: "pet-9", Type: "vaccine", Title: "Rabies"}, &cert)

	require.NoError(t, err)
	require.NotNil(t, res.Certificate)
	assert.Equal(t, entity.MediaEntityHealth, res.Certificate.EntityType)
	assert.Equal(t, []string{res.Certificate.ID}, res.Record.MediaIDs)
}

func TestCreateHealthWithCertificateRollsBack(t *testing.T) {
	b := newBackends()
	uploadErr := rpcerr.Invalidf("unsupported file")
	b.media.failAt = 1
	b.media.uploadErr = uploadErr
	cert := upload("cert.png")

	_, err := b.workflows().CreateHealthWithCertificate(context.Background(),
		entity.NewHealthRecord{PetID: "pet-9", Type: "vaccine", Title: "Rabies"}, &cert)

	assert.Same(t, uploadErr, err, "single file variant returns the cause unwrapped")
	assert.Empty(t, b.health.records)
}

func TestChangeAvatar(t *testing.T) {
	b := newBackends()
	user := &entity.User{ID: "u1", CredentialID: "c1"}

	res, err := b.workflows().ChangeAvatar(context.Background(), user, upload("me.png"))

	require.NoError(t, err)
	assert.Equal(t, res.Avatar.ID, res.User.AvatarID)
	assert.Equal(t, res.Avatar.ID, b.users.avatars["u1"])
	assert.Empty(t, user.AvatarID, "input user is not modified")
}

func TestChangeAvatarDeletesMediaWhenProfileUpdateFails(t *testing.T) {
	b := newBackends()
	setErr := rpcerr.NotFoundf("user u1 not found")
	b.users.setErr = setErr

	_, err := b.workflows().ChangeAvatar(context.Background(), &entity.User{ID: "u1"}, upload("me.png"))

	assert.ErrorIs(t, err, setErr)
	assert.Empty(t, b.media.files)
}

// The profile update is applied but its reply times out: the avatar must not
// be left pointing at the deleted media.
func TestChangeAvatarUnsetsAvatarWhenReplyIsLost(t *testing.T) {
	b := newBackends()
	b.users.avatars["u1"] = "old"
	setErr := rpcerr.Timeout("user/set_avatar")
	b.users.setErr = setErr
	b.users.lostReply = true

	_, err := b.workflows().ChangeAvatar(context.Background(), &entity.User{ID: "u1", AvatarID: "old"}, upload("me.png"))

	assert.Same(t, setErr, err)
	assert.Equal(t, []string{
		"upload me.png",
		"set_avatar u1 media-1",
		"unset_avatar u1 media-1",
		"delete_media media-1",
	}, b.j.snapshot())
	assert.Empty(t, b.media.files)
	assert.NotEqual(t, "media-1", b.users.avatars["u1"])
}

func TestCreatePetWithPhotoUnlinksWhenLinkReplyIsLost(t *testing.T) {
	b := newBackends()
	linkErr := rpcerr.Timeout("pet/link_media")
	b.pets.linkErr = linkErr
	b.pets.lostReply = true
	photo := upload("rex.png")

	_, err := b.workflows().CreatePetWithPhoto(context.Background(),
		entity.NewPet{OwnerID: "u1", Name: "Rex", Species: "dog"}, &photo)

	assert.Same(t, linkErr, err)
	assert.Equal(t, []string{
		"create_pet pet-1",
		"upload rex.png",
		"link_pet_media pet-1 media-2",
		"unlink_pet_media pet-1 media-2",
		"delete_media media-2",
		"delete_pet pet-1",
	}, b.j.snapshot())
	assert.Empty(t, b.media.files)
	assert.Empty(t, b.pets.pets)
}

func TestAttachMediaStepCompensateIsIdempotent(t *testing.T) {
	b := newBackends()
	step := NewAttachMediaStep("attach", b.media, b.health, entity.MediaEntityHealth,
		func() string { return "rec-x" }, []entity.Upload{upload("a.png")})
	b.health.records["rec-x"] = &entity.HealthRecord{ID: "rec-x"}

	require.NoError(t, step.Execute(context.Background()))
	require.NoError(t, step.Compensate(context.Background()))
	require.NoError(t, step.Compensate(context.Background()))

	assert.Empty(t, b.media.files)
	assert.Empty(t, step.Media())
}
