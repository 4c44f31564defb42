package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitclub/planner/internal/domain"
)

func newTestClient(t *testing.T, token string, h http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/api", token, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c, &hits
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New("not a url", "tok")
	assert.Error(t, err)
}

func TestClient_SendsBearerToken(t *testing.T) {
	c, _ := newTestClient(t, "secret-token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/client/abc", r.URL.Path)
		_, _ = w.Write([]byte(`{"full_name":"Jane Doe","goal":"Lose fat"}`))
	})

	profile, err := c.GetClient(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", profile.FullName)
	assert.Equal(t, "Lose fat", profile.Goal)
}

func TestClient_NoCredentialSkipsNetwork(t *testing.T) {
	c, hits := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {})

	_, err := c.GetClient(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrNoCredential)
	err = c.SaveWorkout(context.Background(), WorkoutSave{ClientID: "abc", CurrentWeek: domain.NewWeeklySchedule()})
	assert.ErrorIs(t, err, ErrNoCredential)
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))
	assert.False(t, c.HasCredential())
}

func TestClient_GetWeeklySchedule_FillsMissingDays(t *testing.T) {
	c, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"weeklySchedule":{"Monday":[{"name":"Squat","sets":"5","reps":"5","weight":"100"}]}}`))
	})

	ws, err := c.GetWeeklySchedule(context.Background(), "abc")
	require.NoError(t, err)
	assert.Len(t, ws.Day(domain.Monday), 1)
	for _, d := range domain.Week[1:] {
		assert.NotNil(t, ws.Day(d))
		assert.Empty(t, ws.Day(d))
	}
}

func TestClient_GetWorkout_Notes(t *testing.T) {
	c, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"weeklySchedule":{},"notes":"deload"}`))
	})

	w, err := c.GetWorkout(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "deload", w.Notes)
	assert.Zero(t, w.Schedule.Total())
}

func TestClient_GetNutrition_TolerantDecode(t *testing.T) {
	c, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"nutrition":{"protein_goal":"150","calorie_goal":null,"foods":[{"name":"Egg","protein":"6","calories":"x"}],"day":"friday"}}`))
	})

	plan, err := c.GetNutrition(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, 150.0, plan.ProteinGoal)
	assert.Equal(t, 0.0, plan.CalorieGoal)
	assert.Equal(t, domain.Friday, plan.Day)
	require.Len(t, plan.Foods, 1)
	assert.Equal(t, domain.Macro(6), plan.Foods[0].Protein)
	assert.Equal(t, domain.Macro(0), plan.Foods[0].Calories)
}

func TestClient_SaveWorkout(t *testing.T) {
	c, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/save-workout-plan", r.URL.Path)
		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.JSONEq(t, `"c1"`, string(body["clientId"]))
		var week map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(body["currentWeek"], &week))
		assert.Len(t, week, 7)
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	err := c.SaveWorkout(context.Background(), WorkoutSave{ClientID: "c1", CurrentWeek: domain.NewWeeklySchedule()})
	assert.NoError(t, err)
}

func TestClient_SaveNutrition_MissingDayNeverReachesServer(t *testing.T) {
	c, hits := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {})

	err := c.SaveNutrition(context.Background(), NutritionSave{UserID: "c1", ProteinGoal: 100})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "day", verr.Field)
	assert.Equal(t, "day is required", verr.Message)
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))

	err = c.SaveNutrition(context.Background(), NutritionSave{UserID: "c1", Day: "Someday"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "day must be a weekday name", verr.Message)

	err = c.SaveNutrition(context.Background(), NutritionSave{UserID: "c1", Day: domain.Monday, CalorieGoal: -1})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "calorieGoal must not be negative", verr.Message)
}

func TestClient_SaveErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"server message verbatim", http.StatusBadRequest, `{"error":"Client is not managed by this trainer"}`, "Client is not managed by this trainer"},
		{"message field", http.StatusInternalServerError, `{"message":"db down"}`, "db down"},
		{"no body", http.StatusBadGateway, ``, GenericSaveMessage},
		{"success false", http.StatusOK, `{"success":false}`, GenericSaveMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			err := c.SaveNutrition(context.Background(), NutritionSave{UserID: "c1", Day: domain.Monday})
			var terr *TransportError
			require.ErrorAs(t, err, &terr)
			assert.Equal(t, tt.status, terr.StatusCode)
			assert.Equal(t, tt.wantMsg, terr.Message)
			assert.Equal(t, tt.wantMsg, UserMessage(err))
		})
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := New(url, "tok")
	require.NoError(t, err)
	_, err = c.ListExercises(context.Background())
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 0, terr.StatusCode)
}

func TestClient_NotFound(t *testing.T) {
	c, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	_, err := c.GetNutrition(context.Background(), "abc")
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "Request failed with status 404", UserMessage(err))
}

func TestClient_Login(t *testing.T) {
	c, _ := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		_, _ = w.Write([]byte(`{"token":"jwt","user":{"id":"1"}}`))
	})
	tok, err := c.Login(context.Background(), "coach@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, "jwt", tok)

	_, err = c.Login(context.Background(), "not-an-email", "x")
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}
