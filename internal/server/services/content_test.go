package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadContent_PrivateIsIndistinguishableFromMissing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.signIn(t, "a@x.com", "pw1")
	bob := e.signIn(t, "b@x.com", "pw2")

	n, err := e.fileSvc.CreateNode(ctx, alice, NodeInput{Name: "secret.json", Type: "file", Data: b64("s3cr3t")})
	require.NoError(t, err)

	_, missingErr := e.content.ReadContent(ctx, "", common.NewID(), "")
	require.ErrorIs(t, missingErr, common.ErrorNotFound)

	for name, token := range map[string]string{"no token": "", "other user": bob, "unknown token": "deadbeef"} {
		_, err := e.content.ReadContent(ctx, token, n.ID, "")
		assert.Equal(t, missingErr, err, name)
	}

	c, err := e.content.ReadContent(ctx, alice, n.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", string(c.Data))
	assert.Equal(t, "application/json", c.ContentType)
}

func TestReadContent_PublicNeedsNoToken(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.signIn(t, "a@x.com", "pw1")

	n, err := e.fileSvc.CreateNode(ctx, alice, NodeInput{Name: "blob", Type: "file", Data: b64("bytes"), IsPublic: true})
	require.NoError(t, err)

	c, err := e.content.ReadContent(ctx, "", n.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(c.Data))
	assert.Equal(t, "application/octet-stream", c.ContentType)
}

func TestReadContent_Folder(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.signIn(t, "a@x.com", "pw1")

	f, err := e.fileSvc.CreateNode(ctx, alice, NodeInput{Name: "Docs", Type: "folder", IsPublic: true})
	require.NoError(t, err)

	_, err = e.content.ReadContent(ctx, "", f.ID, "")
	require.ErrorIs(t, err, common.ErrorValidation)
	assert.Equal(t, "A folder doesn't have content", common.ValidationReason(err))
}

func TestReadContent_Variants(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.signIn(t, "a@x.com", "pw1")

	img, err := e.fileSvc.CreateNode(ctx, alice, NodeInput{Name: "cat.png", Type: "image", Data: b64("orig"), IsPublic: true})
	require.NoError(t, err)

	_, err = e.content.ReadContent(ctx, "", img.ID, "100")
	assert.ErrorIs(t, err, common.ErrorNotFound, "variant not derived yet")

	require.NoError(t, e.storage.Write(ctx, storage.VariantPath(img.LocalPath, 100), []byte("thumb")))

	c, err := e.content.ReadContent(ctx, "", img.ID, "100")
	require.NoError(t, err)
	assert.Equal(t, "thumb", string(c.Data))
	assert.Equal(t, "image/png", c.ContentType)

	for _, size := range []string{"42", "abc", "-100"} {
		_, err = e.content.ReadContent(ctx, "", img.ID, size)
		assert.ErrorIs(t, err, common.ErrorNotFound, size)
	}

	c, err = e.content.ReadContent(ctx, "", img.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "orig", string(c.Data))
}

// readCountingStorage counts Read calls.
type readCountingStorage struct {
	storage.Storage
	reads int
}

func (s *readCountingStorage) Read(ctx context.Context, path string) ([]byte, error) {
	s.reads++
	return s.Storage.Read(ctx, path)
}

func TestReadContent_MissingVariantIsNotRead(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.signIn(t, "a@x.com", "pw1")

	img, err := e.fileSvc.CreateNode(ctx, alice, NodeInput{Name: "cat.png", Type: "image", Data: b64("orig")})
	require.NoError(t, err)

	st := &readCountingStorage{Storage: e.storage}
	svc := NewContentService(e.files, e.auth, st, []int{500, 250, 100}, logging.NewNop())

	_, err = svc.ReadContent(ctx, alice, img.ID, "250")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.Zero(t, st.reads)

	require.NoError(t, e.storage.Write(ctx, storage.VariantPath(img.LocalPath, 250), []byte("thumb")))
	c, err := svc.ReadContent(ctx, alice, img.ID, "250")
	require.NoError(t, err)
	assert.Equal(t, "thumb", string(c.Data))
	assert.Equal(t, 1, st.reads)
}

func TestReadContent_InvalidIDAndLostBytes(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.signIn(t, "a@x.com", "pw1")

	_, err := e.content.ReadContent(ctx, alice, "0", "")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	n, err := e.fileSvc.CreateNode(ctx, alice, NodeInput{Name: "a.txt", Type: "file", Data: b64("x")})
	require.NoError(t, err)

	// point the node at bytes that were never written
	stored, _ := e.files.GetByID(ctx, n.ID)
	stored.LocalPath = e.storage.NewPath()
	_, err = e.files.Create(ctx, stored)
	require.NoError(t, err)

	_, err = e.content.ReadContent(ctx, alice, stored.ID, "")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", contentType("cat.png"))
	assert.Equal(t, "image/jpeg", contentType("a.JPG"))
	assert.Equal(t, "application/octet-stream", contentType("Makefile"))
}
