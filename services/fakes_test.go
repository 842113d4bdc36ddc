package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"groompro-backend/clover"
	"groompro-backend/models"
	"groompro-backend/supabase"

	"github.com/google/uuid"
)

type fakeAuth struct {
	users       map[string]*supabase.AuthUser // access token -> user
	refresh     map[string]*supabase.TokenResponse
	passwords   map[string]string // email -> password
	verifyErr   error
	createErr   error
	created     []supabase.AdminUserParams
	deleted     []string
	signedOut   []string
	verifyCalls int
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{
		users:     map[string]*supabase.AuthUser{},
		refresh:   map[string]*supabase.TokenResponse{},
		passwords: map[string]string{},
	}
}

func (f *fakeAuth) VerifyToken(_ context.Context, token string) (*supabase.AuthUser, time.Time, error) {
	f.verifyCalls++
	if f.verifyErr != nil {
		return nil, time.Time{}, f.verifyErr
	}
	if u, ok := f.users[token]; ok {
		return u, time.Now().Add(time.Hour), nil
	}
	return nil, time.Time{}, &supabase.APIError{StatusCode: 401, Message: "invalid JWT"}
}

func (f *fakeAuth) RefreshSession(_ context.Context, rt string) (*supabase.TokenResponse, error) {
	if tok, ok := f.refresh[rt]; ok {
		return tok, nil
	}
	return nil, &supabase.APIError{StatusCode: 400, Message: "Invalid Refresh Token"}
}

func (f *fakeAuth) SignInWithPassword(_ context.Context, email, password string) (*supabase.TokenResponse, error) {
	if pw, ok := f.passwords[email]; !ok || pw != password {
		return nil, &supabase.APIError{StatusCode: 400, Message: "Invalid login credentials"}
	}
	for token, u := range f.users {
		if u.Email == email {
			return &supabase.TokenResponse{AccessToken: token, RefreshToken: "r-" + token, ExpiresIn: 3600, User: *u}, nil
		}
	}
	return nil, errors.New("no user")
}

func (f *fakeAuth) SignOut(_ context.Context, token string) error {
	f.signedOut = append(f.signedOut, token)
	return nil
}

func (f *fakeAuth) AdminCreateUser(_ context.Context, p supabase.AdminUserParams) (*supabase.AuthUser, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, p)
	u := &supabase.AuthUser{ID: uuid.NewString(), Email: p.Email}
	f.users["tok-"+p.Email] = u
	f.passwords[p.Email] = p.Password
	return u, nil
}

func (f *fakeAuth) AdminDeleteUser(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeUsers struct {
	byID      map[uuid.UUID]*models.User
	createErr error
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{byID: map[uuid.UUID]*models.User{}}
	for i := range users {
		u := users[i]
		f.byID[u.ID] = &u
	}
	return f
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (f *fakeUsers) FindByAuthID(_ context.Context, authID uuid.UUID) (*models.User, error) {
	for _, u := range f.byID {
		if u.AuthID == authID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUsers) ListByRole(_ context.Context, role models.Role, _ bool) ([]models.User, error) {
	var out []models.User
	for _, u := range f.byID {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

type fakePets struct {
	byID map[uuid.UUID]*models.Pet
}

func newFakePets(pets ...models.Pet) *fakePets {
	f := &fakePets{byID: map[uuid.UUID]*models.Pet{}}
	for i := range pets {
		p := pets[i]
		f.byID[p.ID] = &p
	}
	return f
}

func (f *fakePets) List(_ context.Context, owner *uuid.UUID) ([]models.Pet, error) {
	var out []models.Pet
	for _, p := range f.byID {
		if owner == nil || p.UserID == *owner {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakePets) FindByID(_ context.Context, id uuid.UUID) (*models.Pet, error) {
	if p, ok := f.byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (f *fakePets) Create(_ context.Context, p *models.Pet) error {
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakePets) Update(_ context.Context, id uuid.UUID, updates map[string]any) (*models.Pet, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	applyPetFields(p, updates)
	cp := *p
	return &cp, nil
}

func (f *fakePets) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeAppts struct {
	byID       map[uuid.UUID]*models.Appointment
	createErr  error
	lastFilter AppointmentFilter
}

func newFakeAppts(appts ...models.Appointment) *fakeAppts {
	f := &fakeAppts{byID: map[uuid.UUID]*models.Appointment{}}
	for i := range appts {
		a := appts[i]
		f.byID[a.ID] = &a
	}
	return f
}

func (f *fakeAppts) List(_ context.Context, filter AppointmentFilter) ([]models.Appointment, error) {
	f.lastFilter = filter
	var out []models.Appointment
	for _, a := range f.byID {
		if filter.UserID != nil && a.UserID != *filter.UserID {
			continue
		}
		if filter.EmployeeID != nil && a.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.From != nil && a.ScheduledAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !a.ScheduledAt.Before(*filter.To) {
			continue
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, s := range filter.Statuses {
				match = match || a.Status == s
			}
			if !match {
				continue
			}
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out, nil
}

func (f *fakeAppts) FindByID(_ context.Context, id uuid.UUID) (*models.Appointment, error) {
	if a, ok := f.byID[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (f *fakeAppts) Create(_ context.Context, a *models.Appointment) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *a
	f.byID[a.ID] = &cp
	return nil
}

func (f *fakeAppts) Update(_ context.Context, id uuid.UUID, updates map[string]any) (*models.Appointment, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	for k, v := range updates {
		switch k {
		case "status":
			a.Status = v.(models.AppointmentStatus)
		case "scheduled_at":
			a.ScheduledAt = v.(time.Time)
		case "employee_id":
			a.EmployeeID = v.(string)
		case "duration":
			a.Duration = v.(int)
		case "notes":
			a.Notes = v.(string)
		}
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAppts) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakePOS struct {
	enabled      bool
	items        []clover.Item
	unlisted     []clover.Item
	itemLookups  []string
	groomers     []clover.Employee
	orders       map[string]clover.OrderParams
	lineItems    map[string][]string
	updates      []clover.OrderParams
	deleted      []string
	createErr    error
	lineItemErr  error
	bookedSeen   []clover.Window
	nextOrderNum int
}

func newFakePOS() *fakePOS {
	return &fakePOS{
		enabled: true,
		items: []clover.Item{
			{ID: "bath", Name: "Bath", Price: 4000},
			{ID: "nails", Name: "Nail trim", Price: 1500},
		},
		orders:    map[string]clover.OrderParams{},
		lineItems: map[string][]string{},
	}
}

func (f *fakePOS) Enabled() bool { return f.enabled }

func (f *fakePOS) Items(context.Context) ([]clover.Item, error) { return f.items, nil }

// Item also sees unlisted, standing in for a Clover catalog newer than the cached one.
func (f *fakePOS) Item(_ context.Context, id string) (*clover.Item, error) {
	f.itemLookups = append(f.itemLookups, id)
	for _, it := range append(append([]clover.Item{}, f.items...), f.unlisted...) {
		if it.ID == id {
			return &it, nil
		}
	}
	return nil, &clover.APIError{StatusCode: http.StatusNotFound, Message: "item " + id + " not found"}
}

func (f *fakePOS) Groomers(context.Context) ([]clover.Employee, error) { return f.groomers, nil }

func (f *fakePOS) Availability(_ context.Context, _ string, day time.Time, hours clover.Hours, booked []clover.Window) ([]clover.Window, error) {
	f.bookedSeen = booked
	open := time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, day.Location())
	return clover.FreeSlots([]clover.Window{{Start: open, End: open.Add(3 * time.Hour)}}, booked, time.Duration(hours.SlotMinutes)*time.Minute), nil
}

func (f *fakePOS) CreateOrder(_ context.Context, p clover.OrderParams) (*clover.Order, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextOrderNum++
	id := "order-" + string(rune('0'+f.nextOrderNum))
	f.orders[id] = p
	return &clover.Order{ID: id, State: "open", EmployeeID: p.EmployeeID}, nil
}

func (f *fakePOS) AddLineItem(_ context.Context, orderID, itemID string) error {
	if f.lineItemErr != nil {
		return f.lineItemErr
	}
	f.lineItems[orderID] = append(f.lineItems[orderID], itemID)
	return nil
}

func (f *fakePOS) UpdateOrder(_ context.Context, orderID string, p clover.OrderParams) (*clover.Order, error) {
	f.updates = append(f.updates, p)
	return &clover.Order{ID: orderID}, nil
}

func (f *fakePOS) DeleteOrder(_ context.Context, orderID string) error {
	f.deleted = append(f.deleted, orderID)
	delete(f.orders, orderID)
	return nil
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) Get(_ context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (m *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = b
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
