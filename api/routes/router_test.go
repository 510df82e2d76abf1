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

	"github.com/dishcovery-app/dishcovery-backend/internal/auth"
	"github.com/dishcovery-app/dishcovery-backend/internal/discovery"
	"github.com/dishcovery-app/dishcovery-backend/internal/share"
	"github.com/dishcovery-app/dishcovery-backend/internal/wishlist"
	pkgAuth "github.com/dishcovery-app/dishcovery-backend/pkg/auth"
	"github.com/dishcovery-app/dishcovery-backend/pkg/auth/session"
	"github.com/dishcovery-app/dishcovery-backend/pkg/config"
	pkgerrors "github.com/dishcovery-app/dishcovery-backend/pkg/errors"
	"github.com/dishcovery-app/dishcovery-backend/pkg/logger"
	"github.com/dishcovery-app/dishcovery-backend/pkg/metrics"
	"github.com/dishcovery-app/dishcovery-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.TokenResponse, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid username or password")
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.TokenResponse, error) {
	return &auth.TokenResponse{AccessToken: "access", RefreshToken: "refresh"}, nil
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return "new-jti", "new-refresh", nil
}

func (stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	return nil
}

type stubWishlistService struct{}

func (stubWishlistService) List(ctx context.Context, userID uuid.UUID) ([]wishlist.ItemDTO, error) {
	return []wishlist.ItemDTO{}, nil
}

func (stubWishlistService) Create(ctx context.Context, userID uuid.UUID, req wishlist.CreateItemRequest) (*wishlist.ItemDTO, error) {
	return &wishlist.ItemDTO{ID: uuid.New(), DishName: req.DishName, CafeName: req.CafeName}, nil
}

func (stubWishlistService) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	return nil
}

func (stubWishlistService) Sync(ctx context.Context, userID uuid.UUID) ([]wishlist.ItemDTO, error) {
	return []wishlist.ItemDTO{}, nil
}

type stubShareService struct{}

func (stubShareService) Create(ctx context.Context, userID uuid.UUID, username string, req share.CreateShareRequest) (*share.ShareDTO, error) {
	return &share.ShareDTO{ShareID: uuid.New(), Title: username + "'s Wishlist", IsActive: true}, nil
}

func (stubShareService) Resolve(ctx context.Context, shareID uuid.UUID) (*share.SharedWishlistDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shared wishlist not found")
}

type stubDiscoveryService struct{}

func (stubDiscoveryService) FindCafes(ctx context.Context, req discovery.FindCafesRequest) (*discovery.FindCafesResponse, error) {
	return &discovery.FindCafesResponse{Cafes: []discovery.CafeDTO{}}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		metrics.NewHTTPMetrics(),
		stubPinger{},
		(*redis.Client)(nil),
		stubSessionManager{},
		stubAuthService{},
		stubRegisterService{},
		stubWishlistService{},
		stubShareService{},
		stubDiscoveryService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "foodie42",
		JTI:      session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestWishlistRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/wishlist", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestWishlistAcceptsValidJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/wishlist", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestSharedRouteIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/shared/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	// Stub resolves nothing, so the route itself answers 404 rather than 401.
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestFindCafesIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodPost, "/find-cafes", strings.NewReader(`{"latitude":51.5,"longitude":-0.12}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRegisterRouteReturnsCreated(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"username":"foodie42","password":"secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	router := newTestRouter(testConfig())

	live := httptest.NewRecorder()
	router.ServeHTTP(live, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if live.Code != http.StatusOK {
		t.Fatalf("expected live 200 got %d", live.Code)
	}

	metricsResp := httptest.NewRecorder()
	router.ServeHTTP(metricsResp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if metricsResp.Code != http.StatusOK {
		t.Fatalf("expected metrics 200 got %d", metricsResp.Code)
	}
}
