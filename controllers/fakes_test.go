package controllers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"groompro-backend/clover"
	"groompro-backend/models"
	"groompro-backend/services"
	"groompro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// signedIn stands in for SessionMiddleware.
func signedIn(user models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user", user)
		c.Set("session", &models.Session{
			User:        user,
			AccessToken: "tok-" + user.ID.String(),
			ExpiresAt:   time.Now().Add(time.Hour),
		})
		c.Next()
	}
}

func send(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) utils.Envelope {
	t.Helper()
	var raw struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw), w.Body.String())
	if data != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return utils.Envelope{Success: raw.Success, Error: raw.Error}
}

type fakeAppointments struct {
	rows map[uuid.UUID]*models.Appointment
	err  error

	lastActor models.User
	lastQuery services.ListQuery
	lastInput services.CreateAppointmentInput
	slots     []clover.Window
}

func newFakeAppointments(rows ...models.Appointment) *fakeAppointments {
	f := &fakeAppointments{rows: map[uuid.UUID]*models.Appointment{}}
	for i := range rows {
		f.rows[rows[i].ID] = &rows[i]
	}
	return f
}

func (f *fakeAppointments) List(_ context.Context, actor models.User, q services.ListQuery) ([]models.Appointment, error) {
	f.lastActor, f.lastQuery = actor, q
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Appointment{}
	for _, a := range f.rows {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeAppointments) Get(_ context.Context, actor models.User, id uuid.UUID) (*models.Appointment, error) {
	f.lastActor = actor
	a, ok := f.rows[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	return a, nil
}

func (f *fakeAppointments) Create(_ context.Context, actor models.User, in services.CreateAppointmentInput) (*models.Appointment, error) {
	f.lastActor, f.lastInput = actor, in
	if f.err != nil {
		return nil, f.err
	}
	a := &models.Appointment{ID: uuid.New(), UserID: actor.ID, PetID: in.PetID, ScheduledAt: in.ScheduledAt, Status: models.StatusScheduled}
	f.rows[a.ID] = a
	return a, nil
}

func (f *fakeAppointments) Update(_ context.Context, id uuid.UUID, patch services.AppointmentPatch) (*models.Appointment, error) {
	a, ok := f.rows[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	if patch.Status != nil {
		a.Status = *patch.Status
	}
	if patch.Notes != nil {
		a.Notes = *patch.Notes
	}
	return a, nil
}

func (f *fakeAppointments) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.rows[id]; !ok {
		return services.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeAppointments) Availability(_ context.Context, employeeID, date string) ([]clover.Window, error) {
	if employeeID == "" {
		return nil, services.ErrInvalidInput
	}
	return f.slots, f.err
}

type fakeCatalog struct {
	items    []clover.Item
	groomers []clover.Employee
	err      error
}

func (f *fakeCatalog) Items(context.Context) ([]clover.Item, error) { return f.items, f.err }

func (f *fakeCatalog) Groomers(context.Context) ([]clover.Employee, error) { return f.groomers, f.err }

type fakeAccounts struct {
	users     map[string]models.User // email -> user
	password  string
	signedOut []string
	signUpErr error
}

func (f *fakeAccounts) SignIn(_ context.Context, email, password string) (*models.Session, error) {
	u, ok := f.users[email]
	if !ok || password != f.password {
		return nil, services.ErrUnauthenticated
	}
	return &models.Session{User: u, AccessToken: tokenFor("access", email), RefreshToken: tokenFor("refresh", email), ExpiresAt: time.Now().Add(time.Hour)}, nil
}

// tokenFor builds a cookie-safe token the way Supabase's base64url JWTs are.
func tokenFor(kind, email string) string {
	return kind + "." + base64.RawURLEncoding.EncodeToString([]byte(email))
}

func (f *fakeAccounts) SignUp(ctx context.Context, in services.NewAccount) (*models.Session, error) {
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	f.users[in.Email] = models.User{ID: uuid.New(), Email: in.Email, Role: models.RoleClient}
	f.password = in.Password
	return f.SignIn(ctx, in.Email, in.Password)
}

func (f *fakeAccounts) SignOut(_ context.Context, accessToken string) {
	f.signedOut = append(f.signedOut, accessToken)
}

func (f *fakeAccounts) Customers(context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if u.Role == models.RoleClient {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeStaff struct {
	members   []services.StaffMember
	createErr error
}

func (f *fakeStaff) List(context.Context) ([]services.StaffMember, error) { return f.members, nil }

func (f *fakeStaff) Create(_ context.Context, in services.NewAccount) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u := models.User{ID: uuid.New(), Email: in.Email, Role: models.RoleEmployee}
	f.members = append(f.members, services.StaffMember{User: u})
	return &u, nil
}

func (f *fakeStaff) Delete(_ context.Context, id uuid.UUID) error {
	for i, m := range f.members {
		if m.ID == id {
			f.members = append(f.members[:i], f.members[i+1:]...)
			return nil
		}
	}
	return services.ErrNotFound
}

type fakePets struct {
	pets []models.Pet
}

func (f *fakePets) List(_ context.Context, actor models.User) ([]models.Pet, error) {
	out := []models.Pet{}
	for _, p := range f.pets {
		if actor.Role == models.RoleAdmin || p.UserID == actor.ID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePets) Create(_ context.Context, actor models.User, in services.PetInput) (*models.Pet, error) {
	if in.Name == nil {
		return nil, services.ErrInvalidInput
	}
	p := models.Pet{ID: uuid.New(), UserID: actor.ID, Name: *in.Name}
	f.pets = append(f.pets, p)
	return &p, nil
}

func (f *fakePets) Update(_ context.Context, actor models.User, id uuid.UUID, in services.PetInput) (*models.Pet, error) {
	for i := range f.pets {
		if f.pets[i].ID != id {
			continue
		}
		if f.pets[i].UserID != actor.ID && actor.Role != models.RoleAdmin {
			return nil, services.ErrForbidden
		}
		if in.Name != nil {
			f.pets[i].Name = *in.Name
		}
		return &f.pets[i], nil
	}
	return nil, services.ErrNotFound
}

func (f *fakePets) Delete(ctx context.Context, actor models.User, id uuid.UUID) error {
	if _, err := f.Update(ctx, actor, id, services.PetInput{}); err != nil {
		return err
	}
	for i := range f.pets {
		if f.pets[i].ID == id {
			f.pets = append(f.pets[:i], f.pets[i+1:]...)
			break
		}
	}
	return nil
}

type fakeReports struct {
	summary *services.ReportSummary
	err     error
}

func (f *fakeReports) Summary(context.Context) (*services.ReportSummary, error) {
	return f.summary, f.err
}

type fakeReminders struct {
	sent int
}

func (f *fakeReminders) SendDailyReminders(context.Context) (int, error) { return f.sent, nil }
