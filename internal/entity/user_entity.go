package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string
type UserStatus string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAgent UserRole = "agent"

	UserStatusActive  UserStatus = "active"
	UserStatusDeleted UserStatus = "deleted"
)

type User struct {
	Id           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	Role         UserRole
	Status       UserStatus
	// Available marks the user as free for pairing: agents flip to false while
	// serving a session, end-users while they have one open.
	Available         bool
	ProfilePictureUrl *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (u *User) IsDeleted() bool {
	return u.Status == UserStatusDeleted
}

// RefreshToken stores the sha256 hash of the opaque refresh credential.
// At most one row per user: a new login overwrites the previous one.
type RefreshToken struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}
