package service

import (
	"context"
	"testing"
	"time"

	"support-chat-be/internal/dto"
	"support-chat-be/internal/entity"
	"support-chat-be/internal/repository/memory"
	"support-chat-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserFixture(t *testing.T) (*fakeStore, *captureBus, IUserService) {
	t.Helper()
	store := newFakeStore()
	bus := &captureBus{}
	svc := NewUserService(newFakeUow(store), memory.NewUserCache(), bus, nopLogger{})
	return store, bus, svc
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	store, bus, svc := newUserFixture(t)

	res, err := svc.Register(ctx, &dto.RegisterUserRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", res.Username)
	assert.Equal(t, "user", res.Role) // default when omitted
	assert.True(t, res.Available)

	stored := store.users[res.Id]
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))
	assert.NotEqual(t, "secret123", stored.PasswordHash)

	assert.Contains(t, bus.types(), events.TypeUserRegistered)
}

func TestUserService_RegisterRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newUserFixture(t)

	req := &dto.RegisterUserRequest{Username: "alice", Email: "alice@example.com", Password: "secret123"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, &dto.RegisterUserRequest{Username: "mallory", Email: "alice@example.com", Password: "other456"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserService_RegisterReactivatesSoftDeletedAccount(t *testing.T) {
	ctx := context.Background()
	store, _, svc := newUserFixture(t)

	first, err := svc.Register(ctx, &dto.RegisterUserRequest{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, first.Id))

	revived, err := svc.Register(ctx, &dto.RegisterUserRequest{
		Username: "alice-two",
		Email:    "alice@example.com",
		Password: "newpass456",
		Role:     "agent",
	})
	require.NoError(t, err)

	// Same identity, fresh profile.
	assert.Equal(t, first.Id, revived.Id)
	assert.Equal(t, "alice-two", revived.Username)
	assert.Equal(t, "agent", revived.Role)

	stored := store.users[first.Id]
	assert.Equal(t, entity.UserStatusActive, stored.Status)
	assert.True(t, stored.Available)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newpass456")))
}

func TestUserService_UpdateAppliesOnlyProvidedFields(t *testing.T) {
	ctx := context.Background()
	store, _, svc := newUserFixture(t)

	created, err := svc.Register(ctx, &dto.RegisterUserRequest{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	originalHash := store.users[created.Id].PasswordHash

	updated, err := svc.Update(ctx, created.Id, &dto.UpdateUserRequest{Username: "alice-renamed"})
	require.NoError(t, err)
	assert.Equal(t, "alice-renamed", updated.Username)
	assert.Equal(t, "alice@example.com", updated.Email)
	assert.Equal(t, originalHash, store.users[created.Id].PasswordHash)

	_, err = svc.Update(ctx, created.Id, &dto.UpdateUserRequest{Password: "rotated456"})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(store.users[created.Id].PasswordHash), []byte("rotated456")))

	_, err = svc.Update(ctx, uuid.New(), &dto.UpdateUserRequest{Username: "ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_DeleteIsSoft(t *testing.T) {
	ctx := context.Background()
	store, bus, svc := newUserFixture(t)

	created, err := svc.Register(ctx, &dto.RegisterUserRequest{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	store.tokens[created.Id] = &entity.RefreshToken{
		Id:        uuid.New(),
		UserId:    created.Id,
		TokenHash: "hash",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	require.NoError(t, svc.Delete(ctx, created.Id))

	// Hidden from normal reads, row still present, credentials revoked.
	_, err = svc.GetById(ctx, created.Id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, entity.UserStatusDeleted, store.users[created.Id].Status)
	assert.NotContains(t, store.tokens, created.Id)

	assert.Contains(t, bus.types(), events.TypeUserDeleted)

	assert.ErrorIs(t, svc.Delete(ctx, created.Id), ErrNotFound)
}

func TestUserService_GetAllSkipsDeleted(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newUserFixture(t)

	kept, err := svc.Register(ctx, &dto.RegisterUserRequest{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	gone, err := svc.Register(ctx, &dto.RegisterUserRequest{Username: "bob", Email: "bob@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, gone.Id))

	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, kept.Id, all[0].Id)
}
