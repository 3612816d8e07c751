package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"support-chat-be/internal/entity"
	"support-chat-be/internal/repository/contract"
	"support-chat-be/internal/repository/specification"
	"support-chat-be/internal/repository/unitofwork"
	"support-chat-be/pkg/events"

	"github.com/google/uuid"
)

// The fakes below hold entities in maps and interpret the specification
// values the services actually use. Begin snapshots all state so Rollback
// behaves like a real transaction.

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type captureBus struct {
	published []events.Event
}

func (b *captureBus) Publish(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *captureBus) types() []string {
	out := make([]string, 0, len(b.published))
	for _, e := range b.published {
		out = append(out, e.EventType())
	}
	return out
}

// fakeStore keeps the repositories' backing maps in one place so the unit of
// work can snapshot and restore them.
type fakeStore struct {
	users    map[uuid.UUID]*entity.User
	tokens   map[uuid.UUID]*entity.RefreshToken // keyed by user id
	sessions map[uuid.UUID]*entity.ChatSession
	messages map[uuid.UUID]*entity.Message
	uploads  map[uuid.UUID]*entity.FileUpload
	audits   []*entity.AuditLog

	failMessageCreate bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[uuid.UUID]*entity.User),
		tokens:   make(map[uuid.UUID]*entity.RefreshToken),
		sessions: make(map[uuid.UUID]*entity.ChatSession),
		messages: make(map[uuid.UUID]*entity.Message),
		uploads:  make(map[uuid.UUID]*entity.FileUpload),
	}
}

func (s *fakeStore) snapshot() *fakeStore {
	c := newFakeStore()
	for k, v := range s.users {
		u := *v
		c.users[k] = &u
	}
	for k, v := range s.tokens {
		t := *v
		c.tokens[k] = &t
	}
	for k, v := range s.sessions {
		cs := *v
		c.sessions[k] = &cs
	}
	for k, v := range s.messages {
		m := *v
		c.messages[k] = &m
	}
	for k, v := range s.uploads {
		f := *v
		c.uploads[k] = &f
	}
	c.audits = append(c.audits, s.audits...)
	c.failMessageCreate = s.failMessageCreate
	return c
}

func (s *fakeStore) restore(from *fakeStore) {
	s.users = from.users
	s.tokens = from.tokens
	s.sessions = from.sessions
	s.messages = from.messages
	s.uploads = from.uploads
	s.audits = from.audits
}

func (s *fakeStore) addUser(role entity.UserRole, available bool, createdAt time.Time) *entity.User {
	user := &entity.User{
		Id:        uuid.New(),
		Username:  "fixture",
		Email:     uuid.New().String() + "@example.com",
		Role:      role,
		Status:    entity.UserStatusActive,
		Available: available,
		CreatedAt: createdAt,
	}
	s.users[user.Id] = user
	return user
}

func (s *fakeStore) addSession(status entity.SessionStatus) *entity.ChatSession {
	user := s.addUser(entity.UserRoleUser, false, time.Now())
	agent := s.addUser(entity.UserRoleAgent, false, time.Now())
	session := &entity.ChatSession{
		Id:        uuid.New(),
		UserId:    user.Id,
		AgentId:   agent.Id,
		Status:    status,
		StartedAt: time.Now(),
	}
	if status == entity.SessionStatusEnded {
		now := time.Now()
		session.EndedAt = &now
	}
	s.sessions[session.Id] = session
	return session
}

// fakeUow implements unitofwork.UnitOfWork and RepositoryFactory over a
// shared fakeStore.
type fakeUow struct {
	store *fakeStore
	saved *fakeStore
}

func newFakeUow(store *fakeStore) *fakeUow { return &fakeUow{store: store} }

func (u *fakeUow) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork { return u }

func (u *fakeUow) Begin(_ context.Context) error {
	u.saved = u.store.snapshot()
	return nil
}

func (u *fakeUow) Commit() error {
	u.saved = nil
	return nil
}

func (u *fakeUow) Rollback() error {
	if u.saved != nil {
		u.store.restore(u.saved)
		u.saved = nil
	}
	return nil
}

func (u *fakeUow) UserRepository() contract.UserRepository               { return &fakeUserRepo{u.store} }
func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository { return &fakeSessionRepo{u.store} }
func (u *fakeUow) MessageRepository() contract.MessageRepository         { return &fakeMessageRepo{u.store} }
func (u *fakeUow) FileUploadRepository() contract.FileUploadRepository   { return &fakeUploadRepo{u.store} }
func (u *fakeUow) AuditLogRepository() contract.AuditLogRepository       { return &fakeAuditRepo{u.store} }

// --- users ---

type fakeUserRepo struct{ store *fakeStore }

func userMatches(user *entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if user.Id != s.ID {
				return false
			}
		case specification.ByEmail:
			if user.Email != s.Email {
				return false
			}
		case specification.ByRole:
			if string(user.Role) != s.Role {
				return false
			}
		case specification.AvailableOnly:
			if !user.Available {
				return false
			}
		}
	}
	return true
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	u := *user
	u.CreatedAt = time.Now()
	r.store.users[u.Id] = &u
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	if _, ok := r.store.users[user.Id]; !ok {
		return errors.New("user missing")
	}
	u := *user
	r.store.users[user.Id] = &u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	user, ok := r.store.users[id]
	if !ok {
		return errors.New("user missing")
	}
	user.Status = entity.UserStatusDeleted
	return nil
}

func (r *fakeUserRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, user := range r.store.users {
		if user.IsDeleted() {
			continue
		}
		if userMatches(user, specs) {
			u := *user
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindOneUnscoped(_ context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, user := range r.store.users {
		if userMatches(user, specs) {
			u := *user
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	var out []*entity.User
	for _, user := range r.store.users {
		if user.IsDeleted() {
			continue
		}
		if userMatches(user, specs) {
			u := *user
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *fakeUserRepo) Restore(_ context.Context, id uuid.UUID) error {
	user, ok := r.store.users[id]
	if !ok {
		return errors.New("user missing")
	}
	user.Status = entity.UserStatusActive
	user.Available = true
	return nil
}

func (r *fakeUserRepo) ClaimAvailableAgent(_ context.Context) (*entity.User, error) {
	var candidates []*entity.User
	for _, user := range r.store.users {
		if user.Role == entity.UserRoleAgent && user.Available && !user.IsDeleted() {
			candidates = append(candidates, user)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].CreatedAt.Before(candidates[j].CreatedAt) })
	claimed := candidates[0]
	claimed.Available = false
	u := *claimed
	return &u, nil
}

func (r *fakeUserRepo) ClaimUser(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := r.store.users[id]
	if !ok || user.IsDeleted() || !user.Available {
		return nil, nil
	}
	user.Available = false
	u := *user
	return &u, nil
}

func (r *fakeUserRepo) SetAvailability(_ context.Context, id uuid.UUID, available bool) error {
	user, ok := r.store.users[id]
	if !ok {
		return errors.New("user missing")
	}
	user.Available = available
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	user, ok := r.store.users[id]
	if !ok {
		return errors.New("user missing")
	}
	user.PasswordHash = hash
	return nil
}

func (r *fakeUserRepo) UpsertRefreshToken(_ context.Context, token *entity.RefreshToken) error {
	t := *token
	r.store.tokens[token.UserId] = &t
	return nil
}

func (r *fakeUserRepo) FindRefreshToken(_ context.Context, specs ...specification.Specification) (*entity.RefreshToken, error) {
	for _, token := range r.store.tokens {
		matched := true
		for _, spec := range specs {
			if s, ok := spec.(specification.ByTokenHash); ok && token.TokenHash != s.Hash {
				matched = false
			}
		}
		if matched {
			t := *token
			return &t, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) DeleteRefreshToken(_ context.Context, userId uuid.UUID) error {
	delete(r.store.tokens, userId)
	return nil
}

// --- chat sessions ---

type fakeSessionRepo struct{ store *fakeStore }

func sessionMatches(session *entity.ChatSession, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if session.Id != s.ID {
				return false
			}
		case specification.ByStatus:
			if string(session.Status) != s.Status {
				return false
			}
		}
	}
	return true
}

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.ChatSession) error {
	s := *session
	r.store.sessions[s.Id] = &s
	return nil
}

func (r *fakeSessionRepo) Update(_ context.Context, session *entity.ChatSession) error {
	if _, ok := r.store.sessions[session.Id]; !ok {
		return errors.New("session missing")
	}
	s := *session
	r.store.sessions[session.Id] = &s
	return nil
}

func (r *fakeSessionRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	for _, session := range r.store.sessions {
		if sessionMatches(session, specs) {
			s := *session
			return &s, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	var out []*entity.ChatSession
	for _, session := range r.store.sessions {
		if sessionMatches(session, specs) {
			s := *session
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

// --- messages ---

type fakeMessageRepo struct{ store *fakeStore }

func (r *fakeMessageRepo) Create(_ context.Context, message *entity.Message) error {
	if r.store.failMessageCreate {
		return errors.New("message store unavailable")
	}
	m := *message
	r.store.messages[m.Id] = &m
	return nil
}

func (r *fakeMessageRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	var out []*entity.Message
	for _, message := range r.store.messages {
		matched := true
		for _, spec := range specs {
			if s, ok := spec.(specification.ByChatSessionID); ok && message.ChatSessionId != s.ChatSessionID {
				matched = false
			}
		}
		if matched {
			m := *message
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
	return out, nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

// --- uploads ---

type fakeUploadRepo struct{ store *fakeStore }

func (r *fakeUploadRepo) Create(_ context.Context, upload *entity.FileUpload) error {
	f := *upload
	r.store.uploads[f.Id] = &f
	return nil
}

func (r *fakeUploadRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.FileUpload, error) {
	for _, upload := range r.store.uploads {
		matched := true
		for _, spec := range specs {
			switch s := spec.(type) {
			case specification.ByID:
				if upload.Id != s.ID {
					matched = false
				}
			case specification.ByFilePath:
				if upload.FilePath != s.Path {
					matched = false
				}
			}
		}
		if matched {
			f := *upload
			return &f, nil
		}
	}
	return nil, nil
}

func (r *fakeUploadRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.FileUpload, error) {
	var out []*entity.FileUpload
	for _, upload := range r.store.uploads {
		f := *upload
		out = append(out, &f)
	}
	return out, nil
}

// --- audit ---

type fakeAuditRepo struct{ store *fakeStore }

func (r *fakeAuditRepo) Create(_ context.Context, log *entity.AuditLog) error {
	l := *log
	r.store.audits = append(r.store.audits, &l)
	return nil
}

func (r *fakeAuditRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.AuditLog, error) {
	return append([]*entity.AuditLog(nil), r.store.audits...), nil
}
