package client

// http_client.go = talks to the recipehub JSON API on behalf of the CLI.

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"recipehub/internal/microservices/http-api/dto"
)

// APIError is a non-2xx answer carrying the server's outcome envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed: %s", http.StatusText(e.Status))
	}
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// HTTPClient holds the base URL and the session credentials, if any.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
	csrfToken  string
}

func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: apiURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetSession makes later calls act as the logged in user.
func (c *HTTPClient) SetSession(token, csrfToken string) {
	c.token = token
	c.csrfToken = csrfToken
}

// Auth

func (c *HTTPClient) Register(req dto.RegisterRequest) (*dto.AuthResponse, error) {
	var result dto.AuthResponse
	if err := c.doJSON(http.MethodPost, "/api/auth/register", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Login(req dto.LoginRequest) (*dto.AuthResponse, error) {
	var result dto.AuthResponse
	if err := c.doJSON(http.MethodPost, "/api/auth/login", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Logout() error {
	return c.doJSON(http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *HTTPClient) Me() (*dto.UserResponse, error) {
	var result dto.UserResponse
	if err := c.doJSON(http.MethodGet, "/api/auth/me", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Recipes

func (c *HTTPClient) ListRecipes(page, pageSize int, search, ownerID string) (*dto.PaginatedRecipeResponse, error) {
	q := url.Values{}
	setInt(q, "page", page)
	setInt(q, "page_size", pageSize)
	if search != "" {
		q.Set("q", search)
	}
	if ownerID != "" {
		q.Set("user_id", ownerID)
	}

	var result dto.PaginatedRecipeResponse
	if err := c.doJSON(http.MethodGet, "/api/recipes?"+q.Encode(), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) MyRecipes(page, pageSize int) (*dto.PaginatedRecipeResponse, error) {
	q := url.Values{}
	setInt(q, "page", page)
	setInt(q, "page_size", pageSize)

	var result dto.PaginatedRecipeResponse
	if err := c.doJSON(http.MethodGet, "/api/me/recipes?"+q.Encode(), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetRecipe(id int64) (*dto.RecipeDetailResponse, error) {
	var result dto.RecipeDetailResponse
	if err := c.doJSON(http.MethodGet, fmt.Sprintf("/api/recipes/%d", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateRecipe posts the recipe as JSON, or as a multipart form when imagePath is set.
func (c *HTTPClient) CreateRecipe(in dto.RecipeInput, imagePath string) (int64, error) {
	var out dto.Outcome
	var err error
	if imagePath == "" {
		err = c.doJSON(http.MethodPost, "/api/recipes", in, &out)
	} else {
		err = c.doMultipart(http.MethodPost, "/api/recipes", in, imagePath, &out)
	}
	if err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (c *HTTPClient) UpdateRecipe(id int64, in dto.RecipeInput, imagePath string) error {
	path := fmt.Sprintf("/api/recipes/%d", id)
	if imagePath == "" {
		return c.doJSON(http.MethodPut, path, in, nil)
	}
	return c.doMultipart(http.MethodPut, path, in, imagePath, nil)
}

func (c *HTTPClient) DeleteRecipe(id int64) error {
	return c.doJSON(http.MethodDelete, fmt.Sprintf("/api/recipes/%d", id), nil, nil)
}

// Ratings

func (c *HTTPClient) SubmitRating(recipeID int64, rating int, comment string) (*dto.Outcome, error) {
	var out dto.Outcome
	req := dto.SubmitRatingRequest{RecipeID: recipeID, Rating: rating, Comment: comment}
	if err := c.doJSON(http.MethodPost, "/api/ratings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetMyRating(recipeID int64) (*dto.RatingResponse, error) {
	var result dto.RatingResponse
	if err := c.doJSON(http.MethodGet, fmt.Sprintf("/api/recipes/%d/ratings/me", recipeID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) ListRatings(recipeID int64, page, pageSize int) (*dto.PaginatedRatingResponse, error) {
	q := url.Values{}
	setInt(q, "page", page)
	setInt(q, "page_size", pageSize)

	var result dto.PaginatedRatingResponse
	path := fmt.Sprintf("/api/recipes/%d/ratings?%s", recipeID, q.Encode())
	if err := c.doJSON(http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) RatingStats(recipeID int64) (*dto.RatingStats, error) {
	var result dto.RatingStats
	if err := c.doJSON(http.MethodGet, fmt.Sprintf("/api/recipes/%d/ratings/stats", recipeID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) DeleteRating(recipeID int64) error {
	return c.doJSON(http.MethodDelete, fmt.Sprintf("/api/recipes/%d/ratings", recipeID), nil, nil)
}

// plumbing

func (c *HTTPClient) doJSON(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *HTTPClient) doMultipart(method, path string, in dto.RecipeInput, imagePath string, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":        in.Title,
		"description":  in.Description,
		"ingredients":  in.Ingredients,
		"instructions": in.Instructions,
		"prep_time":    strconv.Itoa(in.PrepTime),
		"cook_time":    strconv.Itoa(in.CookTime),
		"servings":     strconv.Itoa(in.Servings),
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return err
		}
	}

	file, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	part, err := mw.CreateFormFile("image", filepath.Base(imagePath))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequest(method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.csrfToken != "" {
		req.Header.Set("X-CSRF-Token", c.csrfToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() // Ensure the response body is closed

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var outcome dto.Outcome
		if err := json.NewDecoder(resp.Body).Decode(&outcome); err == nil {
			apiErr.Code = outcome.Code
			apiErr.Message = outcome.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func setInt(q url.Values, key string, v int) {
	if v > 0 {
		q.Set(key, strconv.Itoa(v))
	}
}
