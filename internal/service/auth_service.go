package service

import (
	"context"
	"time"

	"support-chat-be/internal/dto"
	"support-chat-be/internal/entity"
	"support-chat-be/internal/pkg/logger"
	"support-chat-be/internal/pkg/token"
	"support-chat-be/internal/repository/memory"
	"support-chat-be/internal/repository/specification"
	"support-chat-be/internal/repository/unitofwork"
	"support-chat-be/pkg/events"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, req *dto.LogoutRequest) error
	Me(ctx context.Context, userID uuid.UUID) (*dto.UserInfoResponse, error)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	issuer     *token.Issuer
	refreshTTL time.Duration
	userCache  *memory.UserCache
	eventBus   IEventBus
	logger     logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	issuer *token.Issuer,
	refreshTTL time.Duration,
	userCache *memory.UserCache,
	eventBus IEventBus,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		issuer:     issuer,
		refreshTTL: refreshTTL,
		userCache:  userCache,
		eventBus:   eventBus,
		logger:     log,
	}
}

// Login verifies the password and rotates the caller's refresh credential.
// A second login from another device invalidates the first device's refresh
// token, since at most one is stored per user.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil || user.IsDeleted() {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	resp, err := s.issueTokens(ctx, uow, user.Id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewChangeEvent(events.TypeUserLogin, user.Id.String(), nil, map[string]interface{}{
		"user_id": user.Id.String(),
		"email":   user.Email,
	}))
	s.logger.Info("AuthService", "User logged in", map[string]interface{}{"user_id": user.Id.String()})

	return resp, nil
}

// Refresh exchanges a live refresh token for a fresh token pair. The old
// refresh token stops working immediately.
func (s *authService) Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	stored, err := uow.UserRepository().FindRefreshToken(ctx, specification.ByTokenHash{Hash: token.Hash(req.RefreshToken)})
	if err != nil {
		return nil, err
	}
	if stored == nil || time.Now().After(stored.ExpiresAt) {
		return nil, ErrUnauthorized
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: stored.UserId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}

	return s.issueTokens(ctx, uow, user.Id)
}

// Logout revokes the stored refresh token. Outstanding access tokens stay
// valid until they expire.
func (s *authService) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	stored, err := uow.UserRepository().FindRefreshToken(ctx, specification.ByTokenHash{Hash: token.Hash(req.RefreshToken)})
	if err != nil {
		return err
	}
	if stored == nil {
		// Already revoked or never issued. Logout stays idempotent.
		return nil
	}

	return uow.UserRepository().DeleteRefreshToken(ctx, stored.UserId)
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*dto.UserInfoResponse, error) {
	user, found := s.userCache.Get(userID)
	if !found {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		var err error
		user, err = uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID})
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrNotFound
		}
		s.userCache.Save(user)
	}

	resp := &dto.UserInfoResponse{
		Id:       user.Id,
		Email:    user.Email,
		Username: user.Username,
		Role:     string(user.Role),
	}
	if user.ProfilePictureUrl != nil {
		resp.ProfilePictureUrl = *user.ProfilePictureUrl
	}
	return resp, nil
}

func (s *authService) issueTokens(ctx context.Context, uow unitofwork.UnitOfWork, userID uuid.UUID) (*dto.LoginResponse, error) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}

	accessToken, expiresAt, err := s.issuer.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.issuer.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	if err := uow.UserRepository().UpsertRefreshToken(ctx, &entity.RefreshToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		TokenHash: token.Hash(refreshToken),
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}); err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		UserId:                user.Id,
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiration: expiresAt,
	}, nil
}

func (s *authService) publish(ctx context.Context, event events.Event) {
	if err := s.eventBus.Publish(ctx, event); err != nil {
		s.logger.Warn("AuthService", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}
