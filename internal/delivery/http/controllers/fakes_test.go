package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
	"eventhub/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

func newTestMetrics() *metrics.Metrics {
	return metrics.NewWithRegistry(prometheus.NewRegistry())
}

// newRequest builds a request whose body is the JSON encoding of body (or the
// raw string when body is a string) and, when claims is non-nil, attaches them.
func newRequest(t *testing.T, method, target string, body any, claims *domain.TokenClaims) *http.Request {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, rd)
	if claims != nil {
		req = req.WithContext(middleware.WithClaims(req.Context(), claims))
	}
	return req
}

// serve routes req through a mux with the given pattern so path values resolve.
func serve(pattern string, handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, handler)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	require.NotNil(t, envelope.Error)
	return envelope.Error.Code
}

// decodeData unmarshals the data field of a success envelope into dest.
func decodeData(t *testing.T, rr *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var envelope struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	require.Nil(t, envelope.Error)
	require.NoError(t, json.Unmarshal(envelope.Data, dest))
}

func memberClaims(id int64) *domain.TokenClaims {
	return &domain.TokenClaims{UserID: id, Role: domain.RoleMember, TokenID: "jti"}
}

func adminClaims(id int64) *domain.TokenClaims {
	return &domain.TokenClaims{UserID: id, Role: domain.RoleAdministrator, TokenID: "jti-admin"}
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	event     *domain.Event
	events    []*domain.Event
	total     int
	err       error
	lastInput *domain.EventInput
	lastID    int64
	lastPage  domain.PaginationParams
}

func (f *fakeEventService) CreateEvent(_ context.Context, in *domain.EventInput) (*domain.Event, error) {
	f.lastInput = in
	return f.event, f.err
}

func (f *fakeEventService) UpdateEvent(_ context.Context, id int64, in *domain.EventInput) (*domain.Event, error) {
	f.lastID, f.lastInput = id, in
	return f.event, f.err
}

func (f *fakeEventService) DeleteEvent(_ context.Context, id int64) error {
	f.lastID = id
	return f.err
}

func (f *fakeEventService) GetEvent(_ context.Context, id int64) (*domain.Event, error) {
	f.lastID = id
	return f.event, f.err
}

func (f *fakeEventService) ListEvents(_ context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f.lastPage = params
	return f.events, f.total, f.err
}

// fakeTicketService implements domain.TicketService for handler tests.
type fakeTicketService struct {
	ticket       *domain.Ticket
	tickets      []*domain.Ticket
	err          error
	lastUserID   int64
	lastEventID  int64
	lastTicketID int64
}

func (f *fakeTicketService) CreateTicket(_ context.Context, userID, eventID int64) (*domain.Ticket, error) {
	f.lastUserID, f.lastEventID = userID, eventID
	return f.ticket, f.err
}

func (f *fakeTicketService) DeleteTicket(_ context.Context, userID, ticketID int64) error {
	f.lastUserID, f.lastTicketID = userID, ticketID
	return f.err
}

func (f *fakeTicketService) GetTicket(_ context.Context, userID, ticketID int64) (*domain.Ticket, error) {
	f.lastUserID, f.lastTicketID = userID, ticketID
	return f.ticket, f.err
}

func (f *fakeTicketService) ListMyTickets(_ context.Context, userID int64) ([]*domain.Ticket, error) {
	f.lastUserID = userID
	return f.tickets, f.err
}

// fakeCatalogService implements domain.CatalogService for handler tests.
type fakeCatalogService struct {
	item     *domain.CatalogItem
	items    []*domain.CatalogItem
	total    int
	err      error
	lastKind domain.CatalogKind
	lastID   int64
	created  *domain.CatalogItem
}

func (f *fakeCatalogService) Create(_ context.Context, item *domain.CatalogItem) error {
	f.created = item
	f.lastKind = item.Kind
	if f.err == nil {
		item.ID = 1
	}
	return f.err
}

func (f *fakeCatalogService) Get(_ context.Context, kind domain.CatalogKind, id int64) (*domain.CatalogItem, error) {
	f.lastKind, f.lastID = kind, id
	return f.item, f.err
}

func (f *fakeCatalogService) List(_ context.Context, kind domain.CatalogKind, _ domain.PaginationParams) ([]*domain.CatalogItem, int, error) {
	f.lastKind = kind
	return f.items, f.total, f.err
}

func (f *fakeCatalogService) Delete(_ context.Context, kind domain.CatalogKind, id int64) error {
	f.lastKind, f.lastID = kind, id
	return f.err
}

// fakePrelegentService implements domain.PrelegentService for handler tests.
type fakePrelegentService struct {
	prelegent *domain.Prelegent
	items     []*domain.Prelegent
	total     int
	err       error
	created   *domain.Prelegent
	lastID    int64
}

func (f *fakePrelegentService) Create(_ context.Context, p *domain.Prelegent) error {
	f.created = p
	if f.err == nil {
		p.ID = 7
	}
	return f.err
}

func (f *fakePrelegentService) Get(_ context.Context, id int64) (*domain.Prelegent, error) {
	f.lastID = id
	return f.prelegent, f.err
}

func (f *fakePrelegentService) List(_ context.Context, _ domain.PaginationParams) ([]*domain.Prelegent, int, error) {
	return f.items, f.total, f.err
}

func (f *fakePrelegentService) Delete(_ context.Context, id int64) error {
	f.lastID = id
	return f.err
}

// fakeUserService implements domain.UserService for handler tests.
type fakeUserService struct {
	user        *domain.User
	users       []*domain.User
	total       int
	err         error
	lastID      int64
	lastActorID int64
}

func (f *fakeUserService) GetByID(_ context.Context, id int64) (*domain.User, error) {
	f.lastID = id
	return f.user, f.err
}

func (f *fakeUserService) List(_ context.Context, _ domain.PaginationParams) ([]*domain.User, int, error) {
	return f.users, f.total, f.err
}

func (f *fakeUserService) Delete(_ context.Context, actorID, id int64) error {
	f.lastActorID, f.lastID = actorID, id
	return f.err
}

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	user        *domain.User
	token       string
	signUpErr   error
	loginErr    error
	logoutErr   error
	lastEmail   string
	lastClaims  *domain.TokenClaims
	signUpCalls int
}

func (f *fakeAuthService) SignUp(_ context.Context, email, _, _ string) (*domain.User, error) {
	f.signUpCalls++
	f.lastEmail = email
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return f.user, nil
}

func (f *fakeAuthService) Login(_ context.Context, email, _ string) (string, *domain.User, error) {
	f.lastEmail = email
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	return f.token, f.user, nil
}

func (f *fakeAuthService) Logout(_ context.Context, claims *domain.TokenClaims) error {
	f.lastClaims = claims
	return f.logoutErr
}
