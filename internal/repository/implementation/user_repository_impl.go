package implementation

import (
	"context"
	"errors"
	"time"

	"support-chat-be/internal/entity"
	"support-chat-be/internal/mapper"
	"support-chat-be/internal/model"
	"support-chat-be/internal/repository/contract"
	"support-chat-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *UserRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	modelUser := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Create(modelUser).Error; err != nil {
		return err
	}
	*user = *r.mapper.ToEntity(modelUser)
	return nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, user *entity.User) error {
	modelUser := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Save(modelUser).Error; err != nil {
		return err
	}
	*user = *r.mapper.ToEntity(modelUser)
	return nil
}

// Delete soft-deletes: tagged state plus gorm deleted_at so default scopes skip
// the row.
func (r *UserRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Update("status", string(entity.UserStatusDeleted)).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{}).Error
}

func (r *UserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var modelUser model.User
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelUser), nil
}

func (r *UserRepositoryImpl) FindOneUnscoped(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var modelUser model.User
	query := r.applySpecifications(r.db.WithContext(ctx).Unscoped(), specs...)

	if err := query.First(&modelUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelUser), nil
}

func (r *UserRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	var modelUsers []*model.User
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelUsers).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(modelUsers), nil
}

func (r *UserRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.User{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Restore reactivates a soft-deleted user by clearing deleted_at and the
// deleted status tag.
func (r *UserRepositoryImpl) Restore(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": nil,
			"status":     string(entity.UserStatusActive),
			"available":  true,
		}).Error
}

// ClaimAvailableAgent picks one free agent and occupies it in a single
// statement. SKIP LOCKED keeps concurrent starters from blocking on (or
// winning) the same row.
func (r *UserRepositoryImpl) ClaimAvailableAgent(ctx context.Context) (*entity.User, error) {
	var modelUser model.User
	err := r.db.WithContext(ctx).Raw(`
		UPDATE users SET available = false, updated_at = ?
		WHERE id = (
			SELECT id FROM users
			WHERE role = ? AND available = true AND deleted_at IS NULL
			ORDER BY created_at ASC
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING *
	`, time.Now(), string(entity.UserRoleAgent)).Scan(&modelUser).Error
	if err != nil {
		return nil, err
	}
	if modelUser.Id == uuid.Nil {
		return nil, nil
	}
	return r.mapper.ToEntity(&modelUser), nil
}

func (r *UserRepositoryImpl) ClaimUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var modelUser model.User
	err := r.db.WithContext(ctx).Raw(`
		UPDATE users SET available = false, updated_at = ?
		WHERE id = ? AND available = true AND deleted_at IS NULL
		RETURNING *
	`, time.Now(), id).Scan(&modelUser).Error
	if err != nil {
		return nil, err
	}
	if modelUser.Id == uuid.Nil {
		return nil, nil
	}
	return r.mapper.ToEntity(&modelUser), nil
}

func (r *UserRepositoryImpl) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Update("available", available).Error
}

func (r *UserRepositoryImpl) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Update("password_hash", hash).Error
}

// Refresh token implementations

func (r *UserRepositoryImpl) UpsertRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	m := r.mapper.RefreshTokenToModel(token)
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id)
		DO UPDATE SET token_hash = EXCLUDED.token_hash,
		              expires_at = EXCLUDED.expires_at,
		              created_at = EXCLUDED.created_at
	`, m.Id, m.UserId, m.TokenHash, m.ExpiresAt, m.CreatedAt).Error
}

func (r *UserRepositoryImpl) FindRefreshToken(ctx context.Context, specs ...specification.Specification) (*entity.RefreshToken, error) {
	var m model.RefreshToken
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.RefreshTokenToEntity(&m), nil
}

func (r *UserRepositoryImpl) DeleteRefreshToken(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.RefreshToken{}).Error
}
