// Package gateway is the HTTP client for the plan persistence service.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"fitclub/planner/internal/domain"
)

const defaultTimeout = 10 * time.Second

// Client talks to the persistence service on behalf of a logged-in trainer.
type Client struct {
	baseURL    string
	anonymous  *http.Client
	authorized *http.Client
}

// Option customises a Client.
type Option func(*options)

type options struct {
	httpClient *http.Client
	timeout    time.Duration
}

// WithHTTPClient sets the underlying transport client (tests use httptest).
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// New creates a client for baseURL. An empty token yields a client whose
// authorized calls fail with ErrNoCredential.
func New(baseURL, token string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid gateway base URL %q", baseURL)
	}
	o := options{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	base := o.httpClient
	if base == nil {
		base = &http.Client{}
	}
	if base.Timeout == 0 {
		cp := *base
		cp.Timeout = o.timeout
		base = &cp
	}

	c := &Client{baseURL: strings.TrimRight(baseURL, "/"), anonymous: base}
	if token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
		c.authorized = oauth2.NewClient(ctx, src)
		c.authorized.Timeout = base.Timeout
	}
	return c, nil
}

// HasCredential reports whether authorized calls can be attempted.
func (c *Client) HasCredential() bool {
	return c.authorized != nil
}

// --- Reads ---

// GetClient fetches the profile header of a client.
func (c *Client) GetClient(ctx context.Context, clientID string) (*domain.ClientProfile, error) {
	var out domain.ClientProfile
	if err := c.get(ctx, "/client/"+url.PathEscape(clientID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetWorkout fetches the saved current week and its notes. Missing days come back empty.
func (c *Client) GetWorkout(ctx context.Context, clientID string) (Workout, error) {
	resp := workoutResponse{WeeklySchedule: domain.NewWeeklySchedule()}
	if err := c.get(ctx, "/workout/"+url.PathEscape(clientID), &resp); err != nil {
		return Workout{Schedule: domain.NewWeeklySchedule()}, err
	}
	return Workout{Schedule: resp.WeeklySchedule, Notes: string(resp.Notes)}, nil
}

// GetWeeklySchedule is GetWorkout without the notes.
func (c *Client) GetWeeklySchedule(ctx context.Context, clientID string) (domain.WeeklySchedule, error) {
	w, err := c.GetWorkout(ctx, clientID)
	return w.Schedule, err
}

// GetNutrition fetches the saved nutrition plan. Malformed fields default to zero.
func (c *Client) GetNutrition(ctx context.Context, clientID string) (domain.NutritionPlan, error) {
	var resp nutritionResponse
	if err := c.get(ctx, "/nutrition/"+url.PathEscape(clientID), &resp); err != nil {
		return domain.NutritionPlan{}, err
	}
	plan := domain.NutritionPlan{Foods: []domain.FoodEntry{}}
	if resp.Nutrition == nil {
		return plan, nil
	}
	plan.ProteinGoal = float64(resp.Nutrition.ProteinGoal)
	plan.CalorieGoal = float64(resp.Nutrition.CalorieGoal)
	if resp.Nutrition.Foods != nil {
		plan.Foods = resp.Nutrition.Foods
	}
	if day, ok := domain.ParseDayKey(resp.Nutrition.Day); ok {
		plan.Day = day
	}
	return plan, nil
}

// ListExercises fetches the exercise catalog.
func (c *Client) ListExercises(ctx context.Context) ([]domain.CatalogExercise, error) {
	var out []domain.CatalogExercise
	if err := c.get(ctx, "/exercises/list", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListFoods fetches the food catalog.
func (c *Client) ListFoods(ctx context.Context) ([]domain.FoodEntry, error) {
	var out []domain.FoodEntry
	if err := c.get(ctx, "/foods/list", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListClients fetches the trainer's roster.
func (c *Client) ListClients(ctx context.Context) ([]ClientSummary, error) {
	var out []ClientSummary
	if err := c.get(ctx, "/trainer/clients", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// --- Writes ---

// SaveWorkout submits the full current week.
func (c *Client) SaveWorkout(ctx context.Context, req WorkoutSave) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return c.save(ctx, "/save-workout-plan", req)
}

// SaveNutrition submits the nutrition plan. A missing day fails validation
// before any request is made.
func (c *Client) SaveNutrition(ctx context.Context, req NutritionSave) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if req.Foods == nil {
		req.Foods = []domain.FoodEntry{}
	}
	return c.save(ctx, "/edit_nutritional_plan", req)
}

// Login exchanges trainer credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	req := loginRequest{Email: email, Password: password}
	if err := validateRequest(req); err != nil {
		return "", err
	}
	var out loginResponse
	if err := c.do(ctx, c.anonymous, http.MethodPost, "/auth/login", req, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", &TransportError{StatusCode: http.StatusOK, Message: "login response carried no token"}
	}
	return out.Token, nil
}

func (c *Client) save(ctx context.Context, path string, body interface{}) error {
	var out saveResponse
	if err := c.authorizedDo(ctx, http.MethodPost, path, body, &out); err != nil {
		var terr *TransportError
		if errors.As(err, &terr) && terr.Message == "" {
			terr.Message = GenericSaveMessage
		}
		return err
	}
	if !out.Success {
		return &TransportError{StatusCode: http.StatusOK, Message: firstNonEmpty(out.Error, out.Message, GenericSaveMessage)}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	err := c.authorizedDo(ctx, http.MethodGet, path, nil, out)
	var terr *TransportError
	if errors.As(err, &terr) && terr.Message == "" {
		terr.Message = fmt.Sprintf("Request failed with status %d", terr.StatusCode)
	}
	return err
}

func (c *Client) authorizedDo(ctx context.Context, method, path string, body, out interface{}) error {
	if c.authorized == nil {
		return ErrNoCredential
	}
	return c.do(ctx, c.authorized, method, path, body, out)
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("method", method).Str("path", path).Msg("gateway request failed")
		return &TransportError{Message: "Network error. Check your connection and try again.", Err: err}
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{StatusCode: resp.StatusCode, Message: "Failed to read server response.", Err: err}
	}
	log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).Msg("gateway")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorResponse
		_ = json.Unmarshal(raw, &e)
		return &TransportError{StatusCode: resp.StatusCode, Message: firstNonEmpty(e.Error, e.Message)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		// Shape problems in a 2xx body are tolerated; out keeps its defaults.
		log.Warn().Err(err).Str("path", path).Msg("gateway response did not match expected shape")
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
