package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"recipehub/internal/microservices/http-api/models"

	"github.com/redis/go-redis/v9"
)

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session, ttl time.Duration) error
	FindByID(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

// sessionRepository stores sessions as Redis hashes that expire with the session.
type sessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) SessionRepository {
	return &sessionRepository{client: client}
}

func sessionKey(id string) string {
	return "session:" + id
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session, ttl time.Duration) error {
	key := sessionKey(session.ID)

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    session.UserID,
		"username":   session.Username,
		"email":      session.Email,
		"first_name": session.FirstName,
		"last_name":  session.LastName,
		"csrf_token": session.CSRFToken,
		"created_at": session.CreatedAt.Unix(),
	})
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *sessionRepository) FindByID(ctx context.Context, id string) (*models.Session, error) {
	fields, err := r.client.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	// HGETALL on a missing key yields an empty map
	if len(fields) == 0 || fields["user_id"] == "" {
		return nil, ErrNotFound
	}

	var createdAt time.Time
	if unix, err := strconv.ParseInt(fields["created_at"], 10, 64); err == nil {
		createdAt = time.Unix(unix, 0)
	}

	return &models.Session{
		ID:        id,
		UserID:    fields["user_id"],
		Username:  fields["username"],
		Email:     fields["email"],
		FirstName: fields["first_name"],
		LastName:  fields["last_name"],
		CSRFToken: fields["csrf_token"],
		CreatedAt: createdAt,
	}, nil
}

// Delete is idempotent, removing an unknown session is not an error.
func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
