package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eventhub/internal/clock"
	"eventhub/internal/delivery/http/controllers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
	"eventhub/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokenVerifier maps fixed token strings to roles.
type tokenVerifier struct{}

func (tokenVerifier) Verify(token string) (*domain.TokenClaims, error) {
	switch token {
	case "admin":
		return &domain.TokenClaims{UserID: 1, Role: domain.RoleAdministrator, TokenID: "a"}, nil
	case "member":
		return &domain.TokenClaims{UserID: 2, Role: domain.RoleMember, TokenID: "m"}, nil
	}
	return nil, errors.New("invalid token")
}

type noBlacklist struct{}

func (noBlacklist) Revoke(context.Context, string, time.Time) error   { return nil }
func (noBlacklist) IsRevoked(context.Context, string) (bool, error) { return false, nil }

// catalogStub answers every catalog call with an empty result.
type catalogStub struct{}

func (catalogStub) Create(context.Context, *domain.CatalogItem) error { return nil }
func (catalogStub) Get(_ context.Context, kind domain.CatalogKind, id int64) (*domain.CatalogItem, error) {
	return &domain.CatalogItem{ID: id, Kind: kind}, nil
}
func (catalogStub) List(context.Context, domain.CatalogKind, domain.PaginationParams) ([]*domain.CatalogItem, int, error) {
	return nil, 0, nil
}
func (catalogStub) Delete(context.Context, domain.CatalogKind, int64) error { return nil }

func newTestRouter(t *testing.T) (http.Handler, *metrics.Metrics) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)

	var catalog []*controllers.CatalogController
	for _, kind := range domain.CatalogKinds {
		catalog = append(catalog, controllers.NewCatalogController(logger, catalogStub{}, kind))
	}
	mux := NewRouter(RouterDeps{
		Logger:     logger,
		Verifier:   tokenVerifier{},
		Blacklist:  noBlacklist{},
		Auth:       controllers.NewAuthController(logger, nil),
		Events:     controllers.NewEventController(logger, nil, m),
		Tickets:    controllers.NewTicketController(logger, nil, m),
		Catalog:    catalog,
		Prelegents: controllers.NewPrelegentController(logger, nil),
		Users:      controllers.NewUserController(logger, nil),
		Health:     controllers.NewHealthController(logger, clock.NewSystem(), nil),
	})
	return Chain(mux, logger, []string{"https://app.example.com"}, middleware.NewRateLimiter(middleware.LimiterConfig{RPS: 1000, Burst: 1000}), m), m
}

func TestRouter_AccessControl(t *testing.T) {
	handler, _ := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{"health is public", http.MethodGet, "/health", "", http.StatusOK},
		{"events need a token", http.MethodGet, "/events", "", http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/events", "forged", http.StatusUnauthorized},
		{"member cannot create events", http.MethodPost, "/events", "member", http.StatusForbidden},
		{"member cannot delete events", http.MethodDelete, "/events/1", "member", http.StatusForbidden},
		{"member cannot list users", http.MethodGet, "/users", "member", http.StatusForbidden},
		{"member cannot read other users", http.MethodGet, "/users/9", "member", http.StatusForbidden},
		{"member cannot create categories", http.MethodPost, "/categories", "member", http.StatusForbidden},
		{"member cannot delete prelegents", http.MethodDelete, "/prelegents/1", "member", http.StatusForbidden},
		{"member lists caterings", http.MethodGet, "/caterings", "member", http.StatusOK},
		{"member reads a locale", http.MethodGet, "/locales/4", "member", http.StatusOK},
		{"admin deletes a sponsor", http.MethodDelete, "/sponsors/4", "admin", http.StatusNoContent},
		{"unknown route", http.MethodGet, "/nowhere", "admin", http.StatusNotFound},
		{"wrong method", http.MethodPatch, "/events/1", "admin", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader("{}"))
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
		})
	}
}

func TestRouter_RecordsRoutePattern(t *testing.T) {
	handler, m := newTestRouter(t)

	for _, path := range []string{"/resources/1", "/resources/2"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer member")
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "GET /resources/{id}", "200"))
	require.Equal(t, 2.0, got)
}

func TestRouter_CORSPreflight(t *testing.T) {
	handler, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/events", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://app.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
}
