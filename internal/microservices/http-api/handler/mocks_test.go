package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"recipehub/internal/microservices/http-api/dto"
	"recipehub/internal/microservices/http-api/middleware"
	"recipehub/internal/microservices/http-api/models"
	"recipehub/internal/microservices/http-api/service"
	"recipehub/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testCookie  = "recipehub_session"
	testToken   = "session-token"
	testCSRF    = "csrf-token"
	testUserID  = "user-123"
	otherUserID = "user-456"
)

var testIdentity = shared.Identity{
	SessionID: "sid-1",
	UserID:    testUserID,
	Username:  "alice",
	Email:     "alice@example.com",
	FirstName: "Alice",
	LastName:  "Liddell",
	CSRFToken: testCSRF,
}

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*service.LoginResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *MockAuthService) StartSession(ctx context.Context, user *models.User) (*service.LoginResult, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockAuthService) ResolveSession(ctx context.Context, token string) (*shared.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Identity), args.Error(1)
}

// MockRecipeService mocks the RecipeService interface
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) List(ctx context.Context, q dto.RecipeQuery) (*dto.PaginatedRecipeResponse, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedRecipeResponse), args.Error(1)
}

func (m *MockRecipeService) GetByID(ctx context.Context, id int64) (*dto.RecipeResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RecipeResponse), args.Error(1)
}

func (m *MockRecipeService) Create(ctx context.Context, userID string, in dto.RecipeInput, image []byte) (int64, error) {
	args := m.Called(ctx, userID, in, image)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecipeService) Update(ctx context.Context, id int64, userID string, in dto.RecipeInput, image []byte) error {
	return m.Called(ctx, id, userID, in, image).Error(0)
}

func (m *MockRecipeService) Delete(ctx context.Context, id int64, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

// MockRatingService mocks the RatingService interface
type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) Submit(ctx context.Context, userID string, req dto.SubmitRatingRequest) (*dto.SubmitRatingResult, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SubmitRatingResult), args.Error(1)
}

func (m *MockRatingService) GetUserRating(ctx context.Context, recipeID int64, userID string) (*dto.RatingResponse, error) {
	args := m.Called(ctx, recipeID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RatingResponse), args.Error(1)
}

func (m *MockRatingService) List(ctx context.Context, recipeID int64, page, pageSize int) (*dto.PaginatedRatingResponse, error) {
	args := m.Called(ctx, recipeID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedRatingResponse), args.Error(1)
}

func (m *MockRatingService) Statistics(ctx context.Context, recipeID int64) (*dto.RatingStats, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RatingStats), args.Error(1)
}

func (m *MockRatingService) Delete(ctx context.Context, recipeID int64, requesterID, targetUserID string) error {
	return m.Called(ctx, recipeID, requesterID, targetUserID).Error(0)
}

func passThrough(c *gin.Context) { c.Next() }

// setupRouter returns an engine with public and protected /api groups. The
// protected group runs the real auth and CSRF middleware against authSvc,
// which accepts testToken as testIdentity.
func setupRouter(authSvc *MockAuthService) (*gin.Engine, *gin.RouterGroup, *gin.RouterGroup) {
	gin.SetMode(gin.TestMode)
	authSvc.On("ResolveSession", mock.Anything, testToken).Return(&testIdentity, nil).Maybe()
	authSvc.On("ResolveSession", mock.Anything, mock.Anything).Return(nil, service.ErrUnauthenticated).Maybe()

	r := gin.New()
	public := r.Group("/api")
	protected := r.Group("/api", middleware.AuthMiddleware(authSvc, testCookie), middleware.CSRFMiddleware())
	return r, public, protected
}

func jsonRequest(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// authed marks a request as coming from testIdentity with a valid CSRF token.
func authed(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+testToken)
	req.Header.Set(middleware.CSRFHeader, testCSRF)
	return req
}

func perform(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
