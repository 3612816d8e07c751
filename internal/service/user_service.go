package service

import (
	"context"

	"support-chat-be/internal/dto"
	"support-chat-be/internal/entity"
	"support-chat-be/internal/pkg/logger"
	"support-chat-be/internal/repository/memory"
	"support-chat-be/internal/repository/specification"
	"support-chat-be/internal/repository/unitofwork"
	"support-chat-be/pkg/events"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IUserService interface {
	Register(ctx context.Context, req *dto.RegisterUserRequest) (*dto.UserResponse, error)
	GetById(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	GetAll(ctx context.Context) ([]*dto.UserResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
	userCache  *memory.UserCache
	eventBus   IEventBus
	logger     logger.ILogger
}

func NewUserService(
	uowFactory unitofwork.RepositoryFactory,
	userCache *memory.UserCache,
	eventBus IEventBus,
	log logger.ILogger,
) IUserService {
	return &userService{
		uowFactory: uowFactory,
		userCache:  userCache,
		eventBus:   eventBus,
		logger:     log,
	}
}

// Register creates a user, or reactivates a soft-deleted account that holds
// the same email. A live account with the email rejects the registration.
func (s *userService) Register(ctx context.Context, req *dto.RegisterUserRequest) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOneUnscoped(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := entity.UserRole(req.Role)
	if role == "" {
		role = entity.UserRoleUser
	}

	if existing != nil {
		if !existing.IsDeleted() {
			return nil, ErrEmailTaken
		}
		return s.reactivate(ctx, uow, existing, req, string(hash), role)
	}

	user := &entity.User{
		Id:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       entity.UserStatusActive,
		Available:    true,
	}
	if req.ProfilePictureUrl != "" {
		user.ProfilePictureUrl = &req.ProfilePictureUrl
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewChangeEvent(events.TypeUserRegistered, user.Id.String(), nil, userSnapshot(user)))
	s.logger.Info("UserService", "User registered", map[string]interface{}{
		"user_id": user.Id.String(),
		"role":    string(user.Role),
	})

	return toUserResponse(user), nil
}

// reactivate revives a soft-deleted account under its original id with the
// new registration's profile and credentials.
func (s *userService) reactivate(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	existing *entity.User,
	req *dto.RegisterUserRequest,
	passwordHash string,
	role entity.UserRole,
) (*dto.UserResponse, error) {
	before := userSnapshot(existing)

	if err := uow.UserRepository().Restore(ctx, existing.Id); err != nil {
		return nil, err
	}

	existing.Username = req.Username
	existing.PasswordHash = passwordHash
	existing.Role = role
	existing.Status = entity.UserStatusActive
	existing.Available = true
	if req.ProfilePictureUrl != "" {
		existing.ProfilePictureUrl = &req.ProfilePictureUrl
	}
	if err := uow.UserRepository().Update(ctx, existing); err != nil {
		return nil, err
	}

	s.userCache.Invalidate(existing.Id)
	s.publish(ctx, events.NewChangeEvent(events.TypeUserRegistered, existing.Id.String(), before, userSnapshot(existing)))
	s.logger.Info("UserService", "Soft-deleted user reactivated", map[string]interface{}{"user_id": existing.Id.String()})

	return toUserResponse(existing), nil
}

func (s *userService) GetById(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return toUserResponse(user), nil
}

func (s *userService) GetAll(ctx context.Context) ([]*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	users, err := uow.UserRepository().FindAll(ctx, specification.OrderBy{Field: "created_at"})
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, toUserResponse(user))
	}
	return responses, nil
}

// Update applies the non-empty fields of the request. Email and role are
// immutable after registration.
func (s *userService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	before := userSnapshot(user)

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.ProfilePictureUrl != "" {
		user.ProfilePictureUrl = &req.ProfilePictureUrl
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		if err := uow.UserRepository().UpdatePassword(ctx, user.Id, string(hash)); err != nil {
			return nil, err
		}
	}

	s.userCache.Invalidate(user.Id)
	s.publish(ctx, events.NewChangeEvent(events.TypeUserUpdated, user.Id.String(), before, userSnapshot(user)))

	return toUserResponse(user), nil
}

// Delete soft-deletes the account and revokes its refresh token. Sessions and
// messages referencing the user stay in place.
func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	before := userSnapshot(user)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.UserRepository().Delete(ctx, id); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.UserRepository().DeleteRefreshToken(ctx, id); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.userCache.Invalidate(id)
	s.publish(ctx, events.NewChangeEvent(events.TypeUserDeleted, id.String(), before, nil))
	s.logger.Info("UserService", "User soft-deleted", map[string]interface{}{"user_id": id.String()})

	return nil
}

func (s *userService) publish(ctx context.Context, event events.Event) {
	if err := s.eventBus.Publish(ctx, event); err != nil {
		s.logger.Warn("UserService", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}

func userSnapshot(user *entity.User) map[string]interface{} {
	snapshot := map[string]interface{}{
		"id":        user.Id.String(),
		"username":  user.Username,
		"email":     user.Email,
		"role":      string(user.Role),
		"status":    string(user.Status),
		"available": user.Available,
	}
	return snapshot
}

func toUserResponse(user *entity.User) *dto.UserResponse {
	resp := &dto.UserResponse{
		Id:        user.Id,
		Username:  user.Username,
		Email:     user.Email,
		Role:      string(user.Role),
		Available: user.Available,
		CreatedAt: user.CreatedAt,
	}
	if user.ProfilePictureUrl != nil {
		resp.ProfilePictureUrl = *user.ProfilePictureUrl
	}
	return resp
}
