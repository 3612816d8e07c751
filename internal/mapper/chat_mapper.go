package mapper

import (
	"support-chat-be/internal/entity"
	"support-chat-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) SessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}
	return &entity.ChatSession{
		Id:        s.Id,
		UserId:    s.UserId,
		AgentId:   s.AgentId,
		Status:    entity.SessionStatus(s.Status),
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
	}
}

func (m *ChatMapper) SessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}
	return &model.ChatSession{
		Id:        s.Id,
		UserId:    s.UserId,
		AgentId:   s.AgentId,
		Status:    string(s.Status),
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
	}
}

func (m *ChatMapper) SessionsToEntities(sessions []*model.ChatSession) []*entity.ChatSession {
	entities := make([]*entity.ChatSession, len(sessions))
	for i, s := range sessions {
		entities[i] = m.SessionToEntity(s)
	}
	return entities
}

func (m *ChatMapper) MessageToEntity(msg *model.Message) *entity.Message {
	if msg == nil {
		return nil
	}
	return &entity.Message{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		SenderId:      msg.SenderId,
		Content:       msg.Content,
		IsFile:        msg.IsFile,
		SentAt:        msg.SentAt,
	}
}

func (m *ChatMapper) MessageToModel(msg *entity.Message) *model.Message {
	if msg == nil {
		return nil
	}
	return &model.Message{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		SenderId:      msg.SenderId,
		Content:       msg.Content,
		IsFile:        msg.IsFile,
		SentAt:        msg.SentAt,
	}
}

func (m *ChatMapper) MessagesToEntities(msgs []*model.Message) []*entity.Message {
	entities := make([]*entity.Message, len(msgs))
	for i, msg := range msgs {
		entities[i] = m.MessageToEntity(msg)
	}
	return entities
}
