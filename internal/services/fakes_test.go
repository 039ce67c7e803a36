package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"eventhub/internal/domain"
)

// memState is everything the in-memory store holds. It is copied wholesale
// so a failed transaction can be rolled back.
type memState struct {
	nextID     int64
	users      map[int64]domain.User
	catalog    map[domain.CatalogKind]map[int64]domain.CatalogItem
	prelegents map[int64]domain.Prelegent
	events     map[int64]domain.Event
	links      map[domain.RelationKind][]memLink
	tickets    map[int64]domain.Ticket
}

type memLink struct {
	eventID  int64
	targetID int64
}

func (st *memState) clone() memState {
	out := memState{
		nextID:     st.nextID,
		users:      make(map[int64]domain.User, len(st.users)),
		catalog:    make(map[domain.CatalogKind]map[int64]domain.CatalogItem, len(st.catalog)),
		prelegents: make(map[int64]domain.Prelegent, len(st.prelegents)),
		events:     make(map[int64]domain.Event, len(st.events)),
		links:      make(map[domain.RelationKind][]memLink, len(st.links)),
		tickets:    make(map[int64]domain.Ticket, len(st.tickets)),
	}
	for k, v := range st.users {
		out.users[k] = v
	}
	for kind, items := range st.catalog {
		m := make(map[int64]domain.CatalogItem, len(items))
		for k, v := range items {
			m[k] = v
		}
		out.catalog[kind] = m
	}
	for k, v := range st.prelegents {
		out.prelegents[k] = v
	}
	for k, v := range st.events {
		out.events[k] = v
	}
	for k, v := range st.links {
		out.links[k] = append([]memLink(nil), v...)
	}
	for k, v := range st.tickets {
		out.tickets[k] = v
	}
	return out
}

// memStore is an in-memory stand-in for the Postgres repositories. Each
// repository interface is served by a thin adapter type over the same store.
type memStore struct {
	state memState

	// failAdd makes EventRelationRepository.Add fail for one relation kind.
	failAdd map[domain.RelationKind]error
	commits int
}

type memTxKey struct{}

func newMemStore() *memStore {
	s := &memStore{failAdd: map[domain.RelationKind]error{}}
	s.state = memState{
		users:      map[int64]domain.User{},
		catalog:    map[domain.CatalogKind]map[int64]domain.CatalogItem{},
		prelegents: map[int64]domain.Prelegent{},
		events:     map[int64]domain.Event{},
		links:      map[domain.RelationKind][]memLink{},
		tickets:    map[int64]domain.Ticket{},
	}
	for _, kind := range domain.CatalogKinds {
		s.state.catalog[kind] = map[int64]domain.CatalogItem{}
	}
	return s
}

func (s *memStore) id() int64 {
	s.state.nextID++
	return s.state.nextID
}

// seeding helpers

func (s *memStore) addUser(email string, role domain.Role) int64 {
	id := s.id()
	s.state.users[id] = domain.User{ID: id, Email: email, Name: strings.Split(email, "@")[0], Role: role, PasswordHash: "hash:secret123"}
	return id
}

func (s *memStore) addCatalog(kind domain.CatalogKind, name string) int64 {
	id := s.id()
	s.state.catalog[kind][id] = domain.CatalogItem{ID: id, Kind: kind, Name: name, Description: name + " description"}
	return id
}

func (s *memStore) addPrelegent(userID int64, name string) int64 {
	id := s.id()
	s.state.prelegents[id] = domain.Prelegent{ID: id, UserID: userID, Name: name, Description: name + " bio"}
	return id
}

func (s *memStore) addTicket(eventID, userID int64) int64 {
	id := s.id()
	s.state.tickets[id] = domain.Ticket{ID: id, EventID: eventID, UserID: userID, Price: s.state.events[eventID].Price}
	return id
}

func (s *memStore) linkCount(kind domain.RelationKind, eventID int64) int {
	n := 0
	for _, l := range s.state.links[kind] {
		if l.eventID == eventID {
			n++
		}
	}
	return n
}

func (s *memStore) compose(e domain.Event) *domain.Event {
	out := e
	for _, kind := range domain.RelationKinds {
		var ids []int64
		for _, l := range s.state.links[kind] {
			if l.eventID == e.ID {
				ids = append(ids, l.targetID)
			}
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		switch kind {
		case domain.RelationPrelegent:
			out.PrelegentIDs = ids
		case domain.RelationResource:
			out.ResourceIDs = ids
		case domain.RelationSponsor:
			out.SponsorIDs = ids
		case domain.RelationCatering:
			out.CateringIDs = ids
		}
	}
	out.TicketCount = 0
	for _, t := range s.state.tickets {
		if t.EventID == e.ID {
			out.TicketCount++
		}
	}
	return &out
}

func page[T any](all []T, params domain.PaginationParams) []T {
	off := params.Offset()
	if off >= len(all) {
		return []T{}
	}
	end := off + params.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[off:end]
}

// Transactor

type memTx struct{ *memStore }

func (m memTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memTxKey{}) != nil {
		return fn(ctx)
	}
	snapshot := m.state.clone()
	if err := fn(context.WithValue(ctx, memTxKey{}, true)); err != nil {
		m.state = snapshot
		return err
	}
	m.commits++
	return nil
}

// EventRepository

type memEvents struct{ *memStore }

func (m memEvents) Create(_ context.Context, e *domain.Event) error {
	e.ID = m.id()
	base := *e
	base.PrelegentIDs, base.ResourceIDs, base.SponsorIDs, base.CateringIDs = nil, nil, nil, nil
	m.state.events[e.ID] = base
	return nil
}

func (m memEvents) Update(_ context.Context, e *domain.Event) error {
	if _, ok := m.state.events[e.ID]; !ok {
		return domain.NotFoundf("event %d not found", e.ID)
	}
	m.state.events[e.ID] = *e
	return nil
}

func (m memEvents) GetByID(_ context.Context, id int64) (*domain.Event, error) {
	e, ok := m.state.events[id]
	if !ok {
		return nil, domain.NotFoundf("event %d not found", id)
	}
	return m.compose(e), nil
}

func (m memEvents) List(_ context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	all := make([]*domain.Event, 0, len(m.state.events))
	for _, e := range m.state.events {
		all = append(all, m.compose(e))
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].StartedAt.Equal(all[j].StartedAt) {
			return all[i].StartedAt.Before(all[j].StartedAt)
		}
		return all[i].ID < all[j].ID
	})
	return page(all, params), len(all), nil
}

func (m memEvents) Delete(_ context.Context, id int64) error {
	if _, ok := m.state.events[id]; !ok {
		return domain.NotFoundf("event %d not found", id)
	}
	delete(m.state.events, id)
	for kind, links := range m.state.links {
		kept := links[:0]
		for _, l := range links {
			if l.eventID != id {
				kept = append(kept, l)
			}
		}
		m.state.links[kind] = kept
	}
	return nil
}

func (m memEvents) NameTaken(_ context.Context, name string, excludeID int64) (bool, error) {
	for _, e := range m.state.events {
		if e.Name == name && e.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m memEvents) DescriptionTaken(_ context.Context, description string, excludeID int64) (bool, error) {
	for _, e := range m.state.events {
		if e.Description == description && e.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// EventRelationRepository

type memRelations struct{ *memStore }

func (m memRelations) TargetExists(_ context.Context, kind domain.RelationKind, targetID int64) (bool, error) {
	if kind == domain.RelationPrelegent {
		_, ok := m.state.prelegents[targetID]
		return ok, nil
	}
	_, ok := m.state.catalog[domain.CatalogKind(kind)][targetID]
	return ok, nil
}

func (m memRelations) Add(_ context.Context, kind domain.RelationKind, eventID, targetID int64, _ domain.TimeWindow) error {
	if err := m.failAdd[kind]; err != nil {
		return err
	}
	m.state.links[kind] = append(m.state.links[kind], memLink{eventID: eventID, targetID: targetID})
	return nil
}

func (m memRelations) DeleteAll(_ context.Context, kind domain.RelationKind, eventID int64) error {
	kept := m.state.links[kind][:0:0]
	for _, l := range m.state.links[kind] {
		if l.eventID != eventID {
			kept = append(kept, l)
		}
	}
	m.state.links[kind] = kept
	return nil
}

// ScheduleRepository

type memSchedule struct{ *memStore }

func (m memSchedule) overlaps(eventIDs []int64, window domain.TimeWindow, excludeEventID int64) []domain.Overlap {
	var out []domain.Overlap
	for _, id := range eventIDs {
		e, ok := m.state.events[id]
		if !ok || id == excludeEventID || !e.Window().Overlaps(window) {
			continue
		}
		out = append(out, domain.Overlap{EventID: e.ID, Name: e.Name, StartedAt: e.StartedAt, EndedAt: e.EndedAt})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.Before(out[j].StartedAt)
		}
		return out[i].EventID < out[j].EventID
	})
	return out
}

func (m memSchedule) FindOverlaps(_ context.Context, kind domain.RelationKind, entityID int64, window domain.TimeWindow, excludeEventID int64) ([]domain.Overlap, error) {
	if !kind.Scheduled() {
		return nil, domain.Invalidf("%s links are not scheduled", kind)
	}
	var ids []int64
	for _, l := range m.state.links[kind] {
		if l.targetID == entityID {
			ids = append(ids, l.eventID)
		}
	}
	return m.overlaps(ids, window, excludeEventID), nil
}

func (m memSchedule) FindUserOverlaps(_ context.Context, userID int64, window domain.TimeWindow, excludeEventID int64) ([]domain.Overlap, error) {
	var ids []int64
	for _, t := range m.state.tickets {
		if t.UserID == userID {
			ids = append(ids, t.EventID)
		}
	}
	return m.overlaps(ids, window, excludeEventID), nil
}

// UsageRepository

type memUsage struct{ *memStore }

func (m memUsage) CountUsages(_ context.Context, kind domain.UsageKind, id int64) (int, error) {
	n := 0
	switch kind {
	case domain.UsageCategory, domain.UsageLocale:
		for _, e := range m.state.events {
			if (kind == domain.UsageCategory && e.CategoryID == id) || (kind == domain.UsageLocale && e.LocaleID == id) {
				n++
			}
		}
	case domain.UsageResource, domain.UsageSponsor, domain.UsageCatering, domain.UsagePrelegent:
		for _, l := range m.state.links[domain.RelationKind(kind)] {
			if l.targetID == id {
				n++
			}
		}
	case domain.UsageEventTickets, domain.UsageUserTickets:
		for _, t := range m.state.tickets {
			if (kind == domain.UsageEventTickets && t.EventID == id) || (kind == domain.UsageUserTickets && t.UserID == id) {
				n++
			}
		}
	case domain.UsageUserPrelegent:
		for _, p := range m.state.prelegents {
			if p.UserID == id {
				n++
			}
		}
	default:
		return 0, domain.Invalidf("unknown usage kind %q", kind)
	}
	return n, nil
}

// TicketRepository

type memTickets struct{ *memStore }

func (m memTickets) Create(_ context.Context, t *domain.Ticket, _ domain.TimeWindow) error {
	for _, other := range m.state.tickets {
		if other.EventID == t.EventID && other.UserID == t.UserID {
			return domain.Conflictf("tickets_event_id_user_id_key")
		}
	}
	t.ID = m.id()
	m.state.tickets[t.ID] = *t
	return nil
}

func (m memTickets) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	t, ok := m.state.tickets[id]
	if !ok {
		return nil, domain.NotFoundf("ticket %d not found", id)
	}
	return &t, nil
}

func (m memTickets) GetByEventAndUser(_ context.Context, eventID, userID int64) (*domain.Ticket, error) {
	for _, t := range m.state.tickets {
		if t.EventID == eventID && t.UserID == userID {
			return &t, nil
		}
	}
	return nil, domain.NotFoundf("ticket not found")
}

func (m memTickets) ListByUserID(_ context.Context, userID int64) ([]*domain.Ticket, error) {
	out := []*domain.Ticket{}
	for _, t := range m.state.tickets {
		if t.UserID == userID {
			t := t
			out = append(out, &t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memTickets) Delete(_ context.Context, id int64) error {
	if _, ok := m.state.tickets[id]; !ok {
		return domain.NotFoundf("ticket %d not found", id)
	}
	delete(m.state.tickets, id)
	return nil
}

// Reschedule mimics the tickets_no_overlap exclusion constraint.
func (m memTickets) Reschedule(_ context.Context, eventID int64, window domain.TimeWindow) error {
	for _, t := range m.state.tickets {
		if t.EventID != eventID {
			continue
		}
		for _, other := range m.state.tickets {
			if other.UserID != t.UserID || other.EventID == eventID {
				continue
			}
			booked := m.state.events[other.EventID]
			if booked.Window().Overlaps(window) {
				return domain.Conflictf("tickets_no_overlap")
			}
		}
	}
	return nil
}

// CatalogRepository

type memCatalog struct{ *memStore }

func (m memCatalog) Create(_ context.Context, item *domain.CatalogItem) error {
	item.ID = m.id()
	m.state.catalog[item.Kind][item.ID] = *item
	return nil
}

func (m memCatalog) GetByID(_ context.Context, kind domain.CatalogKind, id int64) (*domain.CatalogItem, error) {
	item, ok := m.state.catalog[kind][id]
	if !ok {
		return nil, domain.NotFoundf("%s %d not found", kind, id)
	}
	return &item, nil
}

func (m memCatalog) List(_ context.Context, kind domain.CatalogKind, params domain.PaginationParams) ([]*domain.CatalogItem, int, error) {
	all := []*domain.CatalogItem{}
	for _, item := range m.state.catalog[kind] {
		item := item
		all = append(all, &item)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, params), len(all), nil
}

func (m memCatalog) Delete(_ context.Context, kind domain.CatalogKind, id int64) error {
	if _, ok := m.state.catalog[kind][id]; !ok {
		return domain.NotFoundf("%s %d not found", kind, id)
	}
	delete(m.state.catalog[kind], id)
	return nil
}

func (m memCatalog) Exists(_ context.Context, kind domain.CatalogKind, id int64) (bool, error) {
	_, ok := m.state.catalog[kind][id]
	return ok, nil
}

func (m memCatalog) NameTaken(_ context.Context, kind domain.CatalogKind, name string) (bool, error) {
	for _, item := range m.state.catalog[kind] {
		if item.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m memCatalog) DescriptionTaken(_ context.Context, kind domain.CatalogKind, description string) (bool, error) {
	for _, item := range m.state.catalog[kind] {
		if item.Description == description {
			return true, nil
		}
	}
	return false, nil
}

// PrelegentRepository

type memPrelegents struct{ *memStore }

func (m memPrelegents) Create(_ context.Context, p *domain.Prelegent) error {
	p.ID = m.id()
	m.state.prelegents[p.ID] = *p
	return nil
}

func (m memPrelegents) GetByID(_ context.Context, id int64) (*domain.Prelegent, error) {
	p, ok := m.state.prelegents[id]
	if !ok {
		return nil, domain.NotFoundf("prelegent %d not found", id)
	}
	return &p, nil
}

func (m memPrelegents) GetByUserID(_ context.Context, userID int64) (*domain.Prelegent, error) {
	for _, p := range m.state.prelegents {
		if p.UserID == userID {
			return &p, nil
		}
	}
	return nil, domain.NotFoundf("prelegent for user %d not found", userID)
}

func (m memPrelegents) List(_ context.Context, params domain.PaginationParams) ([]*domain.Prelegent, int, error) {
	all := []*domain.Prelegent{}
	for _, p := range m.state.prelegents {
		p := p
		all = append(all, &p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, params), len(all), nil
}

func (m memPrelegents) Delete(_ context.Context, id int64) error {
	if _, ok := m.state.prelegents[id]; !ok {
		return domain.NotFoundf("prelegent %d not found", id)
	}
	delete(m.state.prelegents, id)
	return nil
}

func (m memPrelegents) NameTaken(_ context.Context, name string) (bool, error) {
	for _, p := range m.state.prelegents {
		if p.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m memPrelegents) DescriptionTaken(_ context.Context, description string) (bool, error) {
	for _, p := range m.state.prelegents {
		if p.Description == description {
			return true, nil
		}
	}
	return false, nil
}

// UserRepository

type memUsers struct{ *memStore }

func (m memUsers) Create(_ context.Context, u *domain.User) error {
	for _, other := range m.state.users {
		if other.Email == u.Email {
			return domain.Conflictf("users_email_key")
		}
	}
	u.ID = m.id()
	m.state.users[u.ID] = *u
	return nil
}

func (m memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.state.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.NotFoundf("user %s not found", email)
}

func (m memUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := m.state.users[id]
	if !ok {
		return nil, domain.NotFoundf("user %d not found", id)
	}
	return &u, nil
}

func (m memUsers) List(_ context.Context, params domain.PaginationParams) ([]*domain.User, int, error) {
	all := []*domain.User{}
	for _, u := range m.state.users {
		u := u
		all = append(all, &u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, params), len(all), nil
}

func (m memUsers) UpdateRole(_ context.Context, id int64, role domain.Role) error {
	u, ok := m.state.users[id]
	if !ok {
		return domain.NotFoundf("user %d not found", id)
	}
	u.Role = role
	m.state.users[id] = u
	return nil
}

func (m memUsers) Delete(_ context.Context, id int64) error {
	if _, ok := m.state.users[id]; !ok {
		return domain.NotFoundf("user %d not found", id)
	}
	delete(m.state.users, id)
	return nil
}

func (m memUsers) LockByID(ctx context.Context, id int64) error {
	if ctx.Value(memTxKey{}) == nil {
		return errors.New("LockByID called outside a transaction")
	}
	if _, ok := m.state.users[id]; !ok {
		return domain.NotFoundf("user %d not found", id)
	}
	return nil
}

// collaborators

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeIssuer struct{ err error }

func (f fakeIssuer) Issue(user *domain.User) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + user.Email, nil
}

type fakeBlacklist struct {
	revoked map[string]time.Time
	err     error
}

func (f *fakeBlacklist) Revoke(_ context.Context, tokenID string, until time.Time) error {
	if f.err != nil {
		return f.err
	}
	if f.revoked == nil {
		f.revoked = map[string]time.Time{}
	}
	f.revoked[tokenID] = until
	return nil
}

func (f *fakeBlacklist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := f.revoked[tokenID]
	return ok, nil
}

type fakeEmailService struct {
	welcome       []*domain.WelcomeMessageEmailData
	confirmations []*domain.TicketConfirmationEmailData
	err           error
}

func (f *fakeEmailService) SendWelcomeMessage(_ context.Context, data *domain.WelcomeMessageEmailData) error {
	f.welcome = append(f.welcome, data)
	return f.err
}

func (f *fakeEmailService) SendTicketConfirmation(_ context.Context, data *domain.TicketConfirmationEmailData) error {
	f.confirmations = append(f.confirmations, data)
	return f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testEnv wires every service to one memStore.
type testEnv struct {
	store  *memStore
	clock  *testClock
	email  *fakeEmailService
	tokens *fakeBlacklist

	events     domain.EventService
	tickets    domain.TicketService
	catalog    domain.CatalogService
	prelegents domain.PrelegentService
	users      domain.UserService
	auth       domain.AuthService
}

var baseTime = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestEnv() *testEnv {
	s := newMemStore()
	clk := &testClock{now: baseTime}
	mail := &fakeEmailService{}
	bl := &fakeBlacklist{}
	tx := memTx{s}
	timeout := 5 * time.Second
	logger := discardLogger()
	return &testEnv{
		store:  s,
		clock:  clk,
		email:  mail,
		tokens: bl,
		events: NewEventService(tx, memEvents{s}, memRelations{s}, memCatalog{s}, memTickets{s},
			memSchedule{s}, memUsage{s}, clk, timeout),
		tickets: NewTicketService(tx, memEvents{s}, memTickets{s}, memSchedule{s}, memUsers{s},
			mail, clk, logger, timeout),
		catalog:    NewCatalogService(tx, memCatalog{s}, memUsage{s}, clk, timeout),
		prelegents: NewPrelegentService(tx, memPrelegents{s}, memUsers{s}, memUsage{s}, clk, timeout),
		users:      NewUserService(tx, memUsers{s}, memUsage{s}, timeout),
		auth: NewAuthService(memUsers{s}, fakeHasher{}, fakeIssuer{}, bl, mail, clk, logger,
			"root@example.com", timeout),
	}
}

// at returns baseTime shifted by the given number of hours.
func at(hours float64) time.Time {
	return baseTime.Add(time.Duration(hours * float64(time.Hour)))
}
