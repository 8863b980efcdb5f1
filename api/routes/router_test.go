package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argvision/argvision-backend/internal/games"
	pkgAuth "github.com/argvision/argvision-backend/pkg/auth"
	"github.com/argvision/argvision-backend/pkg/config"
	"github.com/argvision/argvision-backend/pkg/db/models"
	"github.com/argvision/argvision-backend/pkg/enums"
	"github.com/argvision/argvision-backend/pkg/logger"
	"github.com/argvision/argvision-backend/pkg/metrics"
	"github.com/argvision/argvision-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubGames struct{}

func (stubGames) List(context.Context, types.Actor, games.ListParams) ([]models.Game, error) {
	return []models.Game{{ID: uuid.New(), Name: "Chess"}}, nil
}

func (stubGames) Get(_ context.Context, id uuid.UUID) (*models.Game, error) {
	return &models.Game{ID: id}, nil
}

func (stubGames) Create(_ context.Context, _ types.Actor, params games.CreateParams) (*models.Game, error) {
	return &models.Game{ID: uuid.New(), Name: params.Name, GameType: params.Type}, nil
}

func (stubGames) SetArchived(_ context.Context, _ types.Actor, id uuid.UUID, archived bool) (*models.Game, error) {
	return &models.Game{ID: id, Archived: archived}, nil
}

type stubRealtime struct{}

func (stubRealtime) Notifications(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusTeapot)
}

func (stubRealtime) Room(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusTeapot)
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "argvision", ExpirationMinutes: 5},
	}
}

func newTestRouter(t *testing.T) (http.Handler, *config.Config) {
	t.Helper()
	cfg := testConfig()
	reg := prometheus.NewRegistry()
	return NewRouter(Params{
		Config:   cfg,
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Metrics:  metrics.New(reg),
		Gatherer: reg,
		DB:       stubPinger{},
		Games:    stubGames{},
		Realtime: stubRealtime{},
	}), cfg
}

func bearer(t *testing.T, cfg *config.Config) string {
	return bearerWithRole(t, cfg, enums.UserRolePlayer)
}

func bearerWithRole(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
	})
	require.NoError(t, err)
	return "Bearer " + token
}

func TestHealthRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, resp.Code, path)
	}
}

func TestAPIRequiresToken(t *testing.T) {
	router, _ := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/games", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAPIServesAuthenticatedRequests(t *testing.T) {
	router, cfg := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/games", nil)
	req.Header.Set("Authorization", bearer(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Chess")
}

func TestGameWritesRequireStaff(t *testing.T) {
	router, cfg := newTestRouter(t)
	body := `{"name":"Go","type":"board","base_points":5}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/games", strings.NewReader(body))
	req.Header.Set("Authorization", bearer(t, cfg))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/games", strings.NewReader(body))
	req.Header.Set("Authorization", bearerWithRole(t, cfg, enums.UserRoleAdmin))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Contains(t, resp.Body.String(), `"name":"Go"`)
}

func TestMissingServiceAnswersInternalError(t *testing.T) {
	router, cfg := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/matches", nil)
	req.Header.Set("Authorization", bearer(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestWebsocketRoutesSkipBearerAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/ws/notifications", "/ws/rooms/match:" + uuid.NewString()} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusTeapot, resp.Code, path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "argvision_http_request_duration_seconds")
}
