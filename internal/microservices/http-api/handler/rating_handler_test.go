package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"recipehub/internal/metrics"
	"recipehub/internal/microservices/http-api/dto"
	"recipehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupRatingRouter(m *metrics.Metrics) (*gin.Engine, *MockRatingService) {
	ratingSvc := new(MockRatingService)
	r, public, protected := setupRouter(new(MockAuthService))
	NewRatingHandler(ratingSvc, m).RegisterRoutes(public, protected, passThrough)
	return r, ratingSvc
}

func TestSubmitRating(t *testing.T) {
	m := metrics.New()
	router, ratingSvc := setupRatingRouter(m)

	req := dto.SubmitRatingRequest{RecipeID: 9, Rating: 4, Comment: "Nice"}
	ratingSvc.On("Submit", mock.Anything, testUserID, req).
		Return(&dto.SubmitRatingResult{RatingID: 1, Created: true}, nil).Once()
	ratingSvc.On("Submit", mock.Anything, testUserID, req).
		Return(&dto.SubmitRatingResult{RatingID: 1, Created: false}, nil).Once()

	first := perform(router, authed(jsonRequest(t, http.MethodPost, "/api/ratings", req)))
	require.Equal(t, http.StatusOK, first.Code)
	out := decode[dto.Outcome](t, first)
	assert.True(t, out.Success)
	assert.Equal(t, "Your rating has been submitted", out.Message)

	second := perform(router, authed(jsonRequest(t, http.MethodPost, "/api/ratings", req)))
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "Your rating has been updated", decode[dto.Outcome](t, second).Message)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RatingsSubmitted.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RatingsSubmitted.WithLabelValues("updated")))
	ratingSvc.AssertExpectations(t)
}

func TestSubmitRating_Failures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"OutOfRange", service.ErrOutOfRange, http.StatusBadRequest, "RAT001"},
		{"SelfRating", service.ErrSelfRatingForbidden, http.StatusForbidden, "RAT002"},
		{"RecipeMissing", service.ErrRecipeNotFound, http.StatusNotFound, "REC003"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, ratingSvc := setupRatingRouter(nil)
			ratingSvc.On("Submit", mock.Anything, testUserID, mock.Anything).Return(nil, tt.err)

			body := dto.SubmitRatingRequest{RecipeID: 9, Rating: 6}
			w := perform(router, authed(jsonRequest(t, http.MethodPost, "/api/ratings", body)))

			assert.Equal(t, tt.status, w.Code)
			out := decode[dto.Outcome](t, w)
			assert.False(t, out.Success)
			assert.Equal(t, tt.code, out.Code)
		})
	}
}

func TestSubmitRating_Guards(t *testing.T) {
	router, ratingSvc := setupRatingRouter(nil)

	t.Run("MissingRecipeID", func(t *testing.T) {
		w := perform(router, authed(jsonRequest(t, http.MethodPost, "/api/ratings", map[string]int{"rating": 3})))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("NoSession", func(t *testing.T) {
		body := dto.SubmitRatingRequest{RecipeID: 9, Rating: 3}
		w := perform(router, jsonRequest(t, http.MethodPost, "/api/ratings", body))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("BadCSRFToken", func(t *testing.T) {
		req := authed(jsonRequest(t, http.MethodPost, "/api/ratings", dto.SubmitRatingRequest{RecipeID: 9, Rating: 3}))
		req.Header.Set("X-CSRF-Token", "forged")
		w := perform(router, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	ratingSvc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
}

func TestListRatings(t *testing.T) {
	router, ratingSvc := setupRatingRouter(nil)
	page := dto.NewPaginatedRatingResponse([]dto.RatingResponse{{ID: 1, RecipeID: 4, Rating: 5}}, 1, 1, 10)
	ratingSvc.On("List", mock.Anything, int64(4), 1, 0).Return(page, nil)

	w := perform(router, httptest.NewRequest(http.MethodGet, "/api/recipes/4/ratings?page=1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.PaginatedRatingResponse](t, w)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, 5, resp.Data[0].Rating)
}

func TestRatingStats(t *testing.T) {
	router, ratingSvc := setupRatingRouter(nil)
	ratingSvc.On("Statistics", mock.Anything, int64(4)).
		Return(dto.NewRatingStats(6, 23.0/6.0, [5]int64{0, 0, 3, 1, 2}), nil)

	w := perform(router, httptest.NewRequest(http.MethodGet, "/api/recipes/4/ratings/stats", nil))

	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[dto.RatingStats](t, w)
	assert.Equal(t, int64(6), stats.Total)
	assert.InDelta(t, 3.8333, stats.Average, 0.0001)
	assert.Equal(t, 33, stats.Distribution[4].Percent)
	assert.Equal(t, 17, stats.Distribution[3].Percent)
	assert.Equal(t, 50, stats.Distribution[2].Percent)
}

func TestGetUserRating(t *testing.T) {
	t.Run("Rated", func(t *testing.T) {
		router, ratingSvc := setupRatingRouter(nil)
		ratingSvc.On("GetUserRating", mock.Anything, int64(4), testUserID).
			Return(&dto.RatingResponse{ID: 2, RecipeID: 4, UserID: testUserID, Rating: 3}, nil)

		w := perform(router, authed(httptest.NewRequest(http.MethodGet, "/api/recipes/4/ratings/me", nil)))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 3, decode[dto.RatingResponse](t, w).Rating)
	})

	t.Run("NotRated", func(t *testing.T) {
		router, ratingSvc := setupRatingRouter(nil)
		ratingSvc.On("GetUserRating", mock.Anything, int64(4), testUserID).Return(nil, nil)

		w := perform(router, authed(httptest.NewRequest(http.MethodGet, "/api/recipes/4/ratings/me", nil)))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteRating(t *testing.T) {
	t.Run("Own", func(t *testing.T) {
		router, ratingSvc := setupRatingRouter(nil)
		ratingSvc.On("Delete", mock.Anything, int64(4), testUserID, "").Return(nil)

		w := perform(router, authed(httptest.NewRequest(http.MethodDelete, "/api/recipes/4/ratings", nil)))

		assert.Equal(t, http.StatusOK, w.Code)
		ratingSvc.AssertExpectations(t)
	})

	t.Run("SomeoneElses", func(t *testing.T) {
		router, ratingSvc := setupRatingRouter(nil)
		ratingSvc.On("Delete", mock.Anything, int64(4), testUserID, otherUserID).Return(service.ErrNotAuthor)

		w := perform(router, authed(httptest.NewRequest(http.MethodDelete, "/api/recipes/4/ratings?user_id="+otherUserID, nil)))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "RAT003", decode[dto.Outcome](t, w).Code)
	})

	t.Run("Missing", func(t *testing.T) {
		router, ratingSvc := setupRatingRouter(nil)
		ratingSvc.On("Delete", mock.Anything, int64(4), testUserID, "").Return(service.ErrRatingNotFound)

		w := perform(router, authed(httptest.NewRequest(http.MethodDelete, "/api/recipes/4/ratings", nil)))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
