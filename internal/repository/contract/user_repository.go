package contract

import (
	"context"

	"support-chat-be/internal/entity"
	"support-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error // Soft delete (status + deleted_at)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindOneUnscoped(ctx context.Context, specs ...specification.Specification) (*entity.User, error) // Includes soft-deleted
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	Restore(ctx context.Context, id uuid.UUID) error // Reactivate soft-deleted user

	// ClaimAvailableAgent atomically selects one available agent and marks it
	// unavailable. Returns nil, nil when no agent is free. Two concurrent
	// claims can never win the same agent.
	ClaimAvailableAgent(ctx context.Context) (*entity.User, error)
	// ClaimUser marks the given user unavailable iff it is currently available
	// and not deleted. Returns nil, nil when the claim fails.
	ClaimUser(ctx context.Context, id uuid.UUID) (*entity.User, error)
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error

	// Refresh credentials: one live row per user, save overwrites.
	UpsertRefreshToken(ctx context.Context, token *entity.RefreshToken) error
	FindRefreshToken(ctx context.Context, specs ...specification.Specification) (*entity.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, userId uuid.UUID) error
}
