package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	apperrors "activity-registry/internal/common/errors"
	"activity-registry/internal/common/logger"
	"activity-registry/internal/enrollment"
	"activity-registry/internal/registry"
	"activity-registry/web"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(context.Context) error { return f.err }

func newTestRouter(t *testing.T, pinger Pinger) (*gin.Engine, *registry.Registry) {
	t.Helper()
	reg, err := registry.NewDefault()
	require.NoError(t, err)

	log := logger.NewTestLogger(t)
	svc := enrollment.NewService(enrollment.DefaultConfig(), reg, log)

	return SetupRoutes(&RouterConfig{
		ActivityHandler: NewActivityHandler(svc, apperrors.NewErrorHandler(log)),
		HealthHandler:   NewHealthHandler(pinger),
		Logger:          log,
		Static:          web.Static(),
		CORSOrigins:     []string{"http://localhost:3000"},
	}), reg
}

func do(r http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func activityPath(name, action, email string) string {
	return fmt.Sprintf("/activities/%s/%s?email=%s", url.PathEscape(name), action, url.QueryEscape(email))
}

func TestListActivities(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := do(r, http.MethodGet, "/activities")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]registry.Activity
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body, 15)

	chess := body["Chess Club"]
	assert.Equal(t, 12, chess.MaxParticipants)
	assert.Equal(t, "Fridays, 3:30 PM - 5:00 PM", chess.Schedule)
	assert.Equal(t, []string{"michael@mergington.edu", "daniel@mergington.edu"}, chess.Participants)

	var raw map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Contains(t, raw["Chess Club"], "max_participants")
}

func TestSignup(t *testing.T) {
	tests := []struct {
		name       string
		activity   string
		email      string
		wantStatus int
		wantBody   map[string]string
	}{
		{
			name:       "success",
			activity:   "Chess Club",
			email:      "newstudent@mergington.edu",
			wantStatus: http.StatusOK,
			wantBody:   map[string]string{"message": "Signed up newstudent@mergington.edu for Chess Club"},
		},
		{
			name:       "unknown activity",
			activity:   "Nonexistent Club",
			email:      "a@mergington.edu",
			wantStatus: http.StatusNotFound,
			wantBody:   map[string]string{"detail": "Activity not found", "code": "ACTIVITY_NOT_FOUND"},
		},
		{
			name:       "already signed up",
			activity:   "Chess Club",
			email:      "michael@mergington.edu",
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]string{"detail": "Student is already signed up for this activity", "code": "ALREADY_ENROLLED"},
		},
		{
			name:       "plain identifier",
			activity:   "Chess Club",
			email:      "student1",
			wantStatus: http.StatusOK,
			wantBody:   map[string]string{"message": "Signed up student1 for Chess Club"},
		},
		{
			name:       "unknown activity with malformed email",
			activity:   "NoSuchClub",
			email:      "not-an-email",
			wantStatus: http.StatusNotFound,
			wantBody:   map[string]string{"detail": "Activity not found", "code": "ACTIVITY_NOT_FOUND"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRouter(t, nil)

			w := do(r, http.MethodPost, activityPath(tt.activity, "signup", tt.email))
			assert.Equal(t, tt.wantStatus, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			for k, v := range tt.wantBody {
				assert.Equal(t, v, body[k], k)
			}
		})
	}
}

func TestSignup_MissingEmail(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := do(r, http.MethodPost, "/activities/Chess%20Club/signup")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_REQUEST")
}

func TestSignup_EmailInJSONBody(t *testing.T) {
	r, reg := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/activities/Art%20Studio/signup", strings.NewReader(`{"email":"body@mergington.edu"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	a, _ := reg.Get("Art Studio")
	assert.Contains(t, a.Participants, "body@mergington.edu")
}

func TestSignup_MalformedJSONBody(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/activities/Art%20Studio/signup", strings.NewReader(`{"email":`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignup_CapacityReached(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	for i := 0; i < 10; i++ {
		w := do(r, http.MethodPost, activityPath("Chess Club", "signup", fmt.Sprintf("s%d@mergington.edu", i)))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := do(r, http.MethodPost, activityPath("Chess Club", "signup", "late@mergington.edu"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"detail":"Activity is at max capacity","code":"CAPACITY_EXCEEDED"}`, w.Body.String())
}

func TestUnregister(t *testing.T) {
	r, reg := newTestRouter(t, nil)

	w := do(r, http.MethodDelete, activityPath("Chess Club", "unregister", "michael@mergington.edu"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Unregistered michael@mergington.edu from Chess Club"}`, w.Body.String())

	a, _ := reg.Get("Chess Club")
	assert.Equal(t, []string{"daniel@mergington.edu"}, a.Participants)

	w = do(r, http.MethodDelete, activityPath("Chess Club", "unregister", "michael@mergington.edu"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"detail":"Student is not registered for this activity","code":"NOT_ENROLLED"}`, w.Body.String())

	w = do(r, http.MethodDelete, activityPath("Nonexistent Club", "unregister", "michael@mergington.edu"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	for _, email := range []string{"not-an-email", "student1"} {
		w = do(r, http.MethodDelete, activityPath("NoSuchClub", "unregister", email))
		assert.Equal(t, http.StatusNotFound, w.Code, email)
		assert.JSONEq(t, `{"detail":"Activity not found","code":"ACTIVITY_NOT_FOUND"}`, w.Body.String())
	}
}

func TestConcurrentSignups(t *testing.T) {
	r, reg := newTestRouter(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			do(r, http.MethodPost, activityPath("Chess Club", "signup", fmt.Sprintf("c%d@mergington.edu", i)))
		}(i)
	}
	wg.Wait()

	a, _ := reg.Get("Chess Club")
	assert.Len(t, a.Participants, 12)
}

func TestRootRedirect(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := do(r, http.MethodGet, "/")
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/static/index.html", w.Header().Get("Location"))
}

func TestStaticAssets(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := do(r, http.MethodGet, "/static/app.js")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/activities")

	w = do(r, http.MethodGet, "/static/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Mergington High School")
}

func TestRequestID(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := do(r, http.MethodGet, "/activities")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/activities", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/activities", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/activities", nil)
	req.Header.Set("Origin", "http://evil.example")
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthAndReady(t *testing.T) {
	r, _ := newTestRouter(t, fakePinger{})
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ready").Code)

	down, _ := newTestRouter(t, fakePinger{err: errors.New("redis down")})
	assert.Equal(t, http.StatusOK, do(down, http.MethodGet, "/health").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(down, http.MethodGet, "/ready").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	do(r, http.MethodPost, activityPath("Gym Class", "signup", "m@mergington.edu"))

	w := do(r, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "registry_enrollment_operations_total")
	assert.Contains(t, w.Body.String(), "registry_roster_size")
}
