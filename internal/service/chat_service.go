package service

import (
	"context"
	"strings"
	"time"

	"support-chat-be/internal/dto"
	"support-chat-be/internal/entity"
	"support-chat-be/internal/pkg/logger"
	"support-chat-be/internal/repository/specification"
	"support-chat-be/internal/repository/unitofwork"
	"support-chat-be/pkg/events"

	"github.com/google/uuid"
)

type IChatService interface {
	// StartChat pairs the user with one available agent. ErrNoAgentAvailable
	// when every agent is busy, ErrUserUnavailable when the user already holds
	// an open session.
	StartChat(ctx context.Context, req *dto.StartChatRequest) (*dto.ChatSessionResponse, error)

	// EndChat closes the session and frees both participants. A missing or
	// already ended session returns nil, nil so repeated end calls stay
	// harmless.
	EndChat(ctx context.Context, sessionID uuid.UUID) (*dto.ChatSessionResponse, error)

	SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.MessageResponse, error)

	// GetMessages returns the session history oldest first. An unknown session
	// is ErrNotFound; a known session with no traffic yet is an empty slice.
	GetMessages(ctx context.Context, sessionID uuid.UUID) ([]*dto.MessageResponse, error)

	GetAllChats(ctx context.Context) ([]*dto.ChatSessionResponse, error)
	GetChatById(ctx context.Context, sessionID uuid.UUID) (*dto.ChatSessionResponse, error)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	eventBus   IEventBus
	logger     logger.ILogger
}

func NewChatService(uowFactory unitofwork.RepositoryFactory, eventBus IEventBus, log logger.ILogger) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		eventBus:   eventBus,
		logger:     log,
	}
}

func (s *chatService) StartChat(ctx context.Context, req *dto.StartChatRequest) (*dto.ChatSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: req.UserId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	// Claim the requesting user first. It is cheaper to lose this claim than
	// to occupy an agent and hand it straight back.
	claimedUser, err := uow.UserRepository().ClaimUser(ctx, req.UserId)
	if err != nil {
		uow.Rollback()
		return nil, err
	}
	if claimedUser == nil {
		uow.Rollback()
		return nil, ErrUserUnavailable
	}

	agent, err := uow.UserRepository().ClaimAvailableAgent(ctx)
	if err != nil {
		uow.Rollback()
		return nil, err
	}
	if agent == nil {
		uow.Rollback()
		return nil, ErrNoAgentAvailable
	}

	session := &entity.ChatSession{
		Id:        uuid.New(),
		UserId:    claimedUser.Id,
		AgentId:   agent.Id,
		Status:    entity.SessionStatusActive,
		StartedAt: time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		uow.Rollback()
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewChangeEvent(events.TypeSessionStarted, claimedUser.Id.String(), nil, sessionSnapshot(session)))
	s.logger.Info("ChatService", "Session started", map[string]interface{}{
		"session_id": session.Id.String(),
		"user_id":    session.UserId.String(),
		"agent_id":   session.AgentId.String(),
	})

	return toSessionResponse(session), nil
}

func (s *chatService) EndChat(ctx context.Context, sessionID uuid.UUID) (*dto.ChatSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionID})
	if err != nil {
		return nil, err
	}
	if session == nil || session.IsEnded() {
		return nil, nil
	}
	before := sessionSnapshot(session)

	now := time.Now()
	session.Status = entity.SessionStatusEnded
	session.EndedAt = &now

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.UserRepository().SetAvailability(ctx, session.AgentId, true); err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.UserRepository().SetAvailability(ctx, session.UserId, true); err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewChangeEvent(events.TypeSessionEnded, session.UserId.String(), before, sessionSnapshot(session)))
	s.logger.Info("ChatService", "Session ended", map[string]interface{}{"session_id": session.Id.String()})

	return toSessionResponse(session), nil
}

func (s *chatService) SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrEmptyContent
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: req.ChatSessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotFound
	}

	// Ended sessions still accept messages so that in-flight sends racing the
	// end are recorded rather than dropped.
	message := &entity.Message{
		Id:            uuid.New(),
		ChatSessionId: req.ChatSessionId,
		SenderId:      req.SenderId,
		Content:       req.Content,
		IsFile:        req.IsFile,
		SentAt:        time.Now(),
	}
	if err := uow.MessageRepository().Create(ctx, message); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewChangeEvent(events.TypeMessageSent, req.SenderId.String(), nil, map[string]interface{}{
		"message_id": message.Id.String(),
		"session_id": message.ChatSessionId.String(),
		"is_file":    message.IsFile,
	}))

	return toMessageResponse(message), nil
}

func (s *chatService) GetMessages(ctx context.Context, sessionID uuid.UUID) ([]*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionID})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotFound
	}

	messages, err := uow.MessageRepository().FindAll(ctx, specification.ByChatSessionID{ChatSessionID: sessionID})
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.MessageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, toMessageResponse(message))
	}
	return responses, nil
}

func (s *chatService) GetAllChats(ctx context.Context) ([]*dto.ChatSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ChatSessionResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, toSessionResponse(session))
	}
	return responses, nil
}

func (s *chatService) GetChatById(ctx context.Context, sessionID uuid.UUID) (*dto.ChatSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionID})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotFound
	}
	return toSessionResponse(session), nil
}

func (s *chatService) publish(ctx context.Context, event events.Event) {
	if err := s.eventBus.Publish(ctx, event); err != nil {
		s.logger.Warn("ChatService", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}

func sessionSnapshot(session *entity.ChatSession) map[string]interface{} {
	snapshot := map[string]interface{}{
		"id":       session.Id.String(),
		"user_id":  session.UserId.String(),
		"agent_id": session.AgentId.String(),
		"status":   string(session.Status),
	}
	if session.EndedAt != nil {
		snapshot["ended_at"] = session.EndedAt.Format(time.RFC3339)
	}
	return snapshot
}

func toSessionResponse(session *entity.ChatSession) *dto.ChatSessionResponse {
	return &dto.ChatSessionResponse{
		Id:        session.Id,
		UserId:    session.UserId,
		AgentId:   session.AgentId,
		Status:    string(session.Status),
		StartedAt: session.StartedAt,
		EndedAt:   session.EndedAt,
	}
}

func toMessageResponse(message *entity.Message) *dto.MessageResponse {
	return &dto.MessageResponse{
		Id:            message.Id,
		ChatSessionId: message.ChatSessionId,
		SenderId:      message.SenderId,
		Content:       message.Content,
		IsFile:        message.IsFile,
		SentAt:        message.SentAt,
	}
}
