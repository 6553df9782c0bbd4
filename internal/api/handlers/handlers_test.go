package handlers_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jsimpson73/test-med-app/internal/adapters/events"
	"github.com/jsimpson73/test-med-app/internal/adapters/registry"
	"github.com/jsimpson73/test-med-app/internal/adapters/storage"
	"github.com/jsimpson73/test-med-app/internal/api/handlers"
	"github.com/jsimpson73/test-med-app/internal/application/services"
	"github.com/jsimpson73/test-med-app/internal/catalog"
	"github.com/jsimpson73/test-med-app/internal/domain/entities"
	"github.com/jsimpson73/test-med-app/internal/domain/providers"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "stayhealthy_sid"

type testEnv struct {
	manager  *services.SessionManager
	sessions *handlers.Sessions
	bus      providers.EventBus
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	backend := storage.NewMemoryStore()
	bus := events.NewMemoryEventBus()
	t.Cleanup(func() { _ = bus.Close() })

	manager := services.NewSessionManager(services.SessionManagerConfig{
		SessionKV: func(sid string) providers.KeyValueStore {
			return storage.NewNamespacedStore(backend, storage.SessionNamespace(sid))
		},
		Accounts: services.NewAccountDirectory(catalog.SeedAccounts(), registry.NewKVUserRegistry(backend)),
		Doctors:  services.NewDirectoryService(nil, nil),
		Events:   bus,
	})
	return &testEnv{
		manager:  manager,
		sessions: handlers.NewSessions(manager, cookieName, false),
		bus:      bus,
	}
}

func jsonRequest(method, path string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestSessions_IssuesCookieOnce(t *testing.T) {
	env := newTestEnv(t)
	h := handlers.NewAuthHandler(env.sessions, 0)

	w := httptest.NewRecorder()
	h.Session(w, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	h.Session(w, req)
	assert.Empty(t, w.Result().Cookies())
	assert.Equal(t, 1, env.manager.Len())
}

func TestSessions_ReplacesMalformedCookie(t *testing.T) {
	env := newTestEnv(t)
	h := handlers.NewAuthHandler(env.sessions, 0)

	for _, value := range []string{"not-a-session", "../../registry", ""} {
		t.Run(value, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
			req.AddCookie(&http.Cookie{Name: cookieName, Value: value})
			w := httptest.NewRecorder()
			h.Session(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			fresh := sessionCookie(t, w)
			assert.NotEqual(t, value, fresh.Value)
			assert.Len(t, fresh.Value, 36)
		})
	}
}

func TestAuthHandler_SessionRoleDisplay(t *testing.T) {
	env := newTestEnv(t)
	h := handlers.NewAuthHandler(env.sessions, 0)

	w := httptest.NewRecorder()
	h.Login(w, jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "doctor@example.com", "password": catalog.SeedPassword,
	}))
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(sessionCookie(t, w))
	w = httptest.NewRecorder()
	h.Session(w, req)

	var body struct {
		RoleDisplay   string `json:"role_display"`
		Authenticated bool   `json:"authenticated"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Authenticated)
	assert.Equal(t, "Doctor", body.RoleDisplay)
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("creates account and returns redirect", func(t *testing.T) {
		env := newTestEnv(t)
		h := handlers.NewAuthHandler(env.sessions, 0)

		w := httptest.NewRecorder()
		h.Register(w, jsonRequest(http.MethodPost, "/api/auth/register", map[string]string{
			"name": "Jane Doe", "email": "jane@x.com", "phone": "5551234567", "password": "Abcdef12", "role": "patient",
		}))

		require.Equal(t, http.StatusCreated, w.Code)
		var body struct {
			User     entities.User `json:"user"`
			Redirect string        `json:"redirect"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "/", body.Redirect)
		assert.Equal(t, "jane@x.com", body.User.Email)
		assert.Empty(t, body.User.Password)
	})

	t.Run("logs the registration once", func(t *testing.T) {
		prev := log.Logger
		t.Cleanup(func() { log.Logger = prev })
		var buf bytes.Buffer
		log.Logger = zerolog.New(&buf)

		env := newTestEnv(t)
		h := handlers.NewAuthHandler(env.sessions, 0)
		w := httptest.NewRecorder()
		h.Register(w, jsonRequest(http.MethodPost, "/api/auth/register", map[string]string{
			"name": "Jane Doe", "email": "jane@x.com", "phone": "5551234567", "password": "Abcdef12",
		}))

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, strings.Count(buf.String(), `"message":"account registered"`))
	})

	t.Run("validation errors carry fields", func(t *testing.T) {
		env := newTestEnv(t)
		h := handlers.NewAuthHandler(env.sessions, 0)

		w := httptest.NewRecorder()
		h.Register(w, jsonRequest(http.MethodPost, "/api/auth/register", map[string]string{
			"name": "J", "email": "not-an-email", "phone": "12", "password": "short",
		}))

		require.Equal(t, http.StatusBadRequest, w.Code)
		var body struct {
			Fields map[string]string `json:"fields"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Contains(t, body.Fields, "email")
		assert.Contains(t, body.Fields, "password")
	})

	t.Run("seeded email conflicts", func(t *testing.T) {
		env := newTestEnv(t)
		h := handlers.NewAuthHandler(env.sessions, 0)

		w := httptest.NewRecorder()
		h.Register(w, jsonRequest(http.MethodPost, "/api/auth/register", map[string]string{
			"name": "John Doe", "email": "patient@example.com", "phone": "5551234567", "password": "Abcdef12",
		}))
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		env := newTestEnv(t)
		h := handlers.NewAuthHandler(env.sessions, 0)

		w := httptest.NewRecorder()
		h.Register(w, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("{")))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	env := newTestEnv(t)
	h := handlers.NewAuthHandler(env.sessions, 0)

	w := httptest.NewRecorder()
	h.Login(w, jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "patient@example.com", "password": "wrong",
	}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	h.Login(w, jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "patient@example.com", "password": catalog.SeedPassword,
	}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redirect":"/"`)
}

func TestAuthHandler_LoginAbortsWhenClientLeaves(t *testing.T) {
	env := newTestEnv(t)
	h := handlers.NewAuthHandler(env.sessions, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "patient@example.com", "password": catalog.SeedPassword,
	}).WithContext(ctx)
	w := httptest.NewRecorder()
	h.Login(w, req)

	cookie := sessionCookie(t, w)
	assert.False(t, env.manager.Store(context.Background(), cookie.Value).IsAuthenticated())
}

func TestProfileHandler_RequiresLogin(t *testing.T) {
	env := newTestEnv(t)
	h := handlers.NewProfileHandler(env.sessions)

	w := httptest.NewRecorder()
	h.GetProfile(w, httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	h.UpdateProfile(w, jsonRequest(http.MethodPatch, "/api/profile", map[string]string{"address": "1 Main St"}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAppointmentHandler_CancelInvalidID(t *testing.T) {
	env := newTestEnv(t)
	h := handlers.NewAppointmentHandler(env.sessions)

	req := httptest.NewRequest(http.MethodDelete, "/api/appointments/abc", nil)
	req.SetPathValue("id", "abc")
	w := httptest.NewRecorder()
	h.CancelAppointment(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDirectoryHandler(t *testing.T) {
	env := newTestEnv(t)
	h := handlers.NewDirectoryHandler(services.NewDirectoryService(nil, nil), env.sessions)

	t.Run("filters by specialty", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ListDoctors(w, httptest.NewRequest(http.MethodGet, "/api/doctors?specialty=cardiologist", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Doctors []entities.Doctor `json:"doctors"`
			Count   int               `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Equal(t, 1, body.Count)
		assert.Equal(t, "Dr. Michael Chen", body.Doctors[0].Name)
	})

	t.Run("unknown doctor is 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/doctors/99", nil)
		req.SetPathValue("id", "99")
		w := httptest.NewRecorder()
		h.GetDoctor(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("slots require a date", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/doctors/2/slots", nil)
		req.SetPathValue("id", "2")
		w := httptest.NewRecorder()
		h.AvailableSlots(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("static content", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ListSpecialties(w, httptest.NewRequest(http.MethodGet, "/api/specialties", nil))
		assert.Contains(t, w.Body.String(), "Cardiologist")

		w = httptest.NewRecorder()
		h.ListHealthTips(w, httptest.NewRequest(http.MethodGet, "/api/health-tips", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		h.ListCheckupTopics(w, httptest.NewRequest(http.MethodGet, "/api/self-checkup", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestReportHandler(t *testing.T) {
	env := newTestEnv(t)
	h := handlers.NewReportHandler(services.NewReportService(), env.sessions)

	t.Run("anonymous callers are rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ListReports(w, httptest.NewRequest(http.MethodGet, "/api/reports", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		req := httptest.NewRequest(http.MethodGet, "/api/reports/1", nil)
		req.SetPathValue("id", "1")
		w = httptest.NewRecorder()
		h.GetReport(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	auth := handlers.NewAuthHandler(env.sessions, 0)
	w := httptest.NewRecorder()
	auth.Login(w, jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "patient@example.com", "password": catalog.SeedPassword,
	}))
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)

	t.Run("lists reports after login", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
		req.AddCookie(cookie)
		w := httptest.NewRecorder()
		h.ListReports(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status_color":"#28a745"`)
		assert.Contains(t, w.Body.String(), `.pdf"`)
	})

	t.Run("unknown report is 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/reports/42", nil)
		req.SetPathValue("id", "42")
		req.AddCookie(cookie)
		w := httptest.NewRecorder()
		h.GetReport(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func readLine(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	return line
}

func TestNotificationHandler_Stream(t *testing.T) {
	env := newTestEnv(t)
	h := handlers.NewNotificationHandler(env.sessions, env.bus)
	srv := httptest.NewServer(http.HandlerFunc(h.StreamNotifications))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	var sid string
	for _, c := range resp.Cookies() {
		if c.Name == cookieName {
			sid = c.Value
		}
	}
	require.NotEmpty(t, sid)

	reader := bufio.NewReader(resp.Body)
	assert.Equal(t, "event: connected\n", readLine(t, reader))
	readLine(t, reader)
	readLine(t, reader)

	store := env.manager.Store(ctx, sid)
	_, err = store.Login(ctx, "patient@example.com", catalog.SeedPassword)
	require.NoError(t, err)
	_, err = store.AddAppointment(ctx, entities.AppointmentRequest{
		DoctorID: 2, DoctorName: "Dr. Michael Chen", Specialty: "Cardiologist",
		PatientName: "John Doe", PatientPhone: "+1234567890", Date: "2025-01-10", Time: "09:00 AM",
	})
	require.NoError(t, err)

	assert.Equal(t, "event: success\n", readLine(t, reader))
	assert.Contains(t, readLine(t, reader),
		"Appointment booked successfully with Dr. Michael Chen on 2025-01-10 at 09:00 AM")
}
