package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
	"github.com/dmitrijs2005/recipekeeper/internal/common"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
	"github.com/google/uuid"
)

var errMalformedResponse = errors.New("malformed response")

// HTTPClient talks to the recipe backend over its JSON REST API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api url %q: scheme must be http or https", baseURL)
	}
	if log == nil {
		log = logging.Nop()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)

	if cred, ok := CredentialFrom(ctx); ok {
		cred.Token().SetAuthHeader(req)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("%w: %w", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", common.ErrUnavailable, err)
	}

	c.log.Debug(ctx, "request done",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return newAPIError(resp.StatusCode, payload)
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: %w", errMalformedResponse, err)
	}
	return nil
}

// decodeList accepts both a bare JSON array and a paginated
// {"results": [...]} envelope.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return []T{}, nil
	}

	var items []T
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("%w: %w", errMalformedResponse, err)
		}
		return items, nil
	}

	var page struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("%w: %w", errMalformedResponse, err)
	}
	if page.Results == nil {
		return []T{}, nil
	}
	return page.Results, nil
}

func recipePath(id int64, action string) string {
	p := "/recipes/" + strconv.FormatInt(id, 10) + "/"
	if action != "" {
		p += action + "/"
	}
	return p
}

func (c *HTTPClient) Register(ctx context.Context, email, password, name string) (models.AuthResult, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	}
	var res models.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register/", nil, body, &res); err != nil {
		return models.AuthResult{}, err
	}
	if res.Tokens.IsZero() {
		return models.AuthResult{}, fmt.Errorf("%w: no access token issued", errMalformedResponse)
	}
	return res, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (models.AuthResult, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	var res models.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login/", nil, body, &res); err != nil {
		return models.AuthResult{}, err
	}
	if res.Tokens.IsZero() {
		return models.AuthResult{}, fmt.Errorf("%w: no access token issued", errMalformedResponse)
	}
	return res, nil
}

func (c *HTTPClient) Me(ctx context.Context) (models.Identity, error) {
	var id models.Identity
	err := c.do(ctx, http.MethodGet, "/auth/me/", nil, nil, &id)
	return id, err
}

func (c *HTTPClient) GetProfile(ctx context.Context) (models.Profile, error) {
	var p models.Profile
	err := c.do(ctx, http.MethodGet, "/profiles/me/", nil, nil, &p)
	return p, err
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, upd models.ProfileUpdate, replace bool) (models.Profile, error) {
	method := http.MethodPatch
	if replace {
		method = http.MethodPut
	}
	var p models.Profile
	err := c.do(ctx, method, "/profiles/me/", nil, upd, &p)
	return p, err
}

func (c *HTTPClient) ListRecipes(ctx context.Context, f models.RecipeFilter) ([]models.Recipe, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/recipes/", f.Query(), nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[models.Recipe](raw)
}

func (c *HTTPClient) MyFavorites(ctx context.Context) ([]models.Recipe, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/recipes/my_favorites/", nil, nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[models.Recipe](raw)
}

func (c *HTTPClient) GetRecipe(ctx context.Context, id int64) (models.Recipe, error) {
	var r models.Recipe
	err := c.do(ctx, http.MethodGet, recipePath(id, ""), nil, nil, &r)
	return r, err
}

func (c *HTTPClient) CreateRecipe(ctx context.Context, d models.RecipeDraft) (models.Recipe, error) {
	var r models.Recipe
	err := c.do(ctx, http.MethodPost, "/recipes/", nil, d, &r)
	return r, err
}

func (c *HTTPClient) DeleteRecipe(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, recipePath(id, ""), nil, nil, nil)
}

func (c *HTTPClient) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	var res struct {
		IsFavorited *bool `json:"is_favorited"`
	}
	if err := c.do(ctx, http.MethodPost, recipePath(id, "toggle_favorite"), nil, nil, &res); err != nil {
		return false, err
	}
	if res.IsFavorited == nil {
		return false, fmt.Errorf("%w: is_favorited missing", errMalformedResponse)
	}
	return *res.IsFavorited, nil
}

func (c *HTTPClient) Rate(ctx context.Context, id int64, score int) (float64, error) {
	body := map[string]int{"score": score}
	var res struct {
		RatingAvg *float64 `json:"rating_avg"`
	}
	if err := c.do(ctx, http.MethodPost, recipePath(id, "rate"), nil, body, &res); err != nil {
		return 0, err
	}
	if res.RatingAvg == nil {
		return 0, fmt.Errorf("%w: rating_avg missing", errMalformedResponse)
	}
	return *res.RatingAvg, nil
}

func (c *HTTPClient) Substitute(ctx context.Context, req models.SubstitutionRequest) (models.SubstitutionResult, error) {
	var res models.SubstitutionResult
	err := c.do(ctx, http.MethodPost, "/recipes/substitute/", nil, req, &res)
	return res, err
}

func (c *HTTPClient) GenerateRecipe(ctx context.Context, ingredients string) (models.RecipeDraft, error) {
	body := map[string]string{"ingredients": ingredients}
	var d models.RecipeDraft
	err := c.do(ctx, http.MethodPost, "/generate-recipe/", nil, body, &d)
	return d, err
}

// Ping reports whether the backend answers at all. Any status below 500
// counts as reachable.
func (c *HTTPClient) Ping(ctx context.Context) error {
	err := c.do(ctx, http.MethodGet, "/", nil, nil, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
		return nil
	}
	return err
}
