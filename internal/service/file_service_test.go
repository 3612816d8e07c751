package service

import (
	"context"
	"strings"
	"testing"

	"support-chat-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory storage.FileStore.
type memStore struct {
	blobs map[string][]byte
}

func newMemStore() *memStore { return &memStore{blobs: make(map[string][]byte)} }

func (s *memStore) Save(originalName string, content []byte) (string, error) {
	storedName := uuid.New().String() + "_" + originalName
	s.blobs[storedName] = content
	return storedName, nil
}

func (s *memStore) Read(storedName string) ([]byte, error) {
	content, ok := s.blobs[storedName]
	if !ok {
		return nil, assert.AnError
	}
	return content, nil
}

func (s *memStore) Remove(storedName string) error {
	delete(s.blobs, storedName)
	return nil
}

func newFileFixture(t *testing.T) (*fakeStore, *memStore, IFileService) {
	t.Helper()
	store := newFakeStore()
	blobs := newMemStore()
	svc := NewFileService(newFakeUow(store), blobs, &captureBus{}, nopLogger{})
	return store, blobs, svc
}

func TestFileService_Upload(t *testing.T) {
	ctx := context.Background()
	store, blobs, svc := newFileFixture(t)
	session := store.addSession(entity.SessionStatusActive)

	res, err := svc.Upload(ctx, session.Id, session.UserId, "report.pdf", []byte("content"))
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", res.FileName)
	assert.True(t, strings.HasPrefix(res.FileUrl, "/uploads/"))

	// One blob, one upload row, one file message pointing at the blob URL.
	require.Len(t, blobs.blobs, 1)
	require.Len(t, store.uploads, 1)
	require.Len(t, store.messages, 1)
	for _, message := range store.messages {
		assert.True(t, message.IsFile)
		assert.Equal(t, res.FileUrl, message.Content)
		assert.Equal(t, session.UserId, message.SenderId)
	}
}

func TestFileService_UploadRejectsEndedSession(t *testing.T) {
	ctx := context.Background()
	store, blobs, svc := newFileFixture(t)
	session := store.addSession(entity.SessionStatusEnded)

	_, err := svc.Upload(ctx, session.Id, session.UserId, "late.pdf", []byte("content"))
	assert.ErrorIs(t, err, ErrSessionEnded)
	assert.Empty(t, blobs.blobs)

	_, err = svc.Upload(ctx, uuid.New(), session.UserId, "lost.pdf", []byte("content"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Upload(ctx, session.Id, session.UserId, "empty.pdf", nil)
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestFileService_UploadRemovesBlobWhenStoreFails(t *testing.T) {
	ctx := context.Background()
	store, blobs, svc := newFileFixture(t)
	session := store.addSession(entity.SessionStatusActive)
	store.failMessageCreate = true

	_, err := svc.Upload(ctx, session.Id, session.UserId, "doomed.pdf", []byte("content"))
	require.Error(t, err)

	// Neither the blob nor any row may survive the failed upload.
	assert.Empty(t, blobs.blobs)
	assert.Empty(t, store.uploads)
	assert.Empty(t, store.messages)
}

func TestFileService_GetFile(t *testing.T) {
	ctx := context.Background()
	store, _, svc := newFileFixture(t)
	session := store.addSession(entity.SessionStatusActive)

	uploaded, err := svc.Upload(ctx, session.Id, session.UserId, "report.pdf", []byte("content"))
	require.NoError(t, err)
	storedName := strings.TrimPrefix(uploaded.FileUrl, "/uploads/")

	content, fileName, err := svc.GetFile(ctx, storedName)
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), content)
	assert.Equal(t, "report.pdf", fileName)

	_, _, err = svc.GetFile(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
