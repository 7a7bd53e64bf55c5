package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"recipehub/internal/middleware/auth"
	"recipehub/internal/microservices/http-api/dto"
	"recipehub/internal/microservices/http-api/models"
	"recipehub/internal/microservices/http-api/repository"
	"recipehub/internal/shared"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// LoginResult is a freshly started session and the token that names it.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Identity  shared.Identity
}

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req dto.LoginRequest) (*LoginResult, error)
	StartSession(ctx context.Context, user *models.User) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	ResolveSession(ctx context.Context, token string) (*shared.Identity, error)
}

type authService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	tokens      *SessionTokens
}

func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	tokens *SessionTokens,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokens:      tokens,
	}
}

// Register creates an account. Checks run in a fixed order: duplicate
// username/email first, then password length, then email format.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}

	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return nil, persistenceError("check existing user", err)
	}
	if exists {
		return nil, ErrDuplicateIdentity
	}

	if auth.IsWeakPassword(req.Password) {
		return nil, ErrWeakPassword
	}
	if auth.IsTooLongPassword(req.Password) {
		return nil, ErrPasswordTooLong
	}
	if err := validation.Validate(req.Email, is.EmailFormat); err != nil {
		return nil, ErrInvalidEmail
	}

	hashedPassword, err := auth.Hashpassword(req.Password)
	if err != nil {
		return nil, persistenceError("hash password", err)
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race against a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateIdentity
		}
		return nil, persistenceError("create user", err)
	}

	log.Ctx(ctx).Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

// Login looks the account up by username or email and starts a session.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*LoginResult, error) {
	if err := req.Validate(); err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByLogin(ctx, req.Login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// spend the same bcrypt time as a real comparison
			auth.BurnVerify(req.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, persistenceError("find user", err)
	}

	if err := auth.VerifyPassword(user.Password, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.StartSession(ctx, user)
}

// StartSession stores a new session for the user and signs its token.
func (s *authService) StartSession(ctx context.Context, user *models.User) (*LoginResult, error) {
	csrfToken, err := newCSRFToken()
	if err != nil {
		return nil, persistenceError("generate csrf token", err)
	}

	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CSRFToken: csrfToken,
		CreatedAt: time.Now(),
	}
	if err := s.sessionRepo.Create(ctx, session, s.tokens.TTL()); err != nil {
		return nil, persistenceError("create session", err)
	}

	token, expiresAt, err := s.tokens.Issue(session.ID, user.ID)
	if err != nil {
		_ = s.sessionRepo.Delete(ctx, session.ID)
		return nil, persistenceError("issue session token", err)
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Identity:  identityFromSession(session),
	}, nil
}

// Logout destroys the session. Unknown sessions are ignored.
func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return persistenceError("delete session", err)
	}
	return nil
}

// ResolveSession turns a client token into the identity of a live session.
func (s *authService) ResolveSession(ctx context.Context, token string) (*shared.Identity, error) {
	sessionID, userID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, withCause(ErrUnauthenticated, err)
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, persistenceError("load session", err)
	}
	if session.UserID != userID {
		return nil, ErrUnauthenticated
	}

	identity := identityFromSession(session)
	return &identity, nil
}

func identityFromSession(session *models.Session) shared.Identity {
	return shared.Identity{
		SessionID: session.ID,
		UserID:    session.UserID,
		Username:  session.Username,
		Email:     session.Email,
		FirstName: session.FirstName,
		LastName:  session.LastName,
		CSRFToken: session.CSRFToken,
		LoginAt:   session.CreatedAt,
	}
}

func newCSRFToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
