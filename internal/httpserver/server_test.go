package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/med_clinic/internal/models"
	"github.com/Skotchmaster/med_clinic/internal/tokens"
)

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/live", nil, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/ready", nil, nil).Code)
}

func TestAuth_RegisterLoginSessionLogout(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Rita", "email": "Rita@Clinic.test", "password": "secret123",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Rita", "email": "rita@clinic.test", "password": "secret123",
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, decode(t, rec).Success)

	rec = s.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "rita@clinic.test", "password": "wrong-pass",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "rita@clinic.test", "password": "secret123",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookieValue(cookies, tokens.AccessCookie))
	require.NotEmpty(t, cookieValue(cookies, tokens.RefreshCookie))

	var login struct {
		IsAdmin bool `json:"is_admin"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &login))
	assert.False(t, login.IsAdmin)

	rec = s.do(t, http.MethodGet, "/api/auth/session", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	var sess struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &sess))
	assert.Equal(t, "rita@clinic.test", sess.Email)
	assert.Equal(t, models.RoleUser, sess.Role)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/auth/session", nil, nil).Code)

	rec = s.do(t, http.MethodPost, "/api/auth/logout", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	// The revoked refresh token cannot mint a new session.
	refresh := []*http.Cookie{{Name: tokens.RefreshCookie, Value: cookieValue(cookies, tokens.RefreshCookie)}}
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/auth/refresh", nil, refresh).Code)
}

func TestAuth_RefreshRotates(t *testing.T) {
	s := newTestServer(t)
	u := s.seedUser(t, "omar", models.RoleUser)
	cookies := s.login(t, u)
	old := cookieValue(cookies, tokens.RefreshCookie)

	rec := s.do(t, http.MethodPost, "/api/auth/refresh", nil, []*http.Cookie{{Name: tokens.RefreshCookie, Value: old}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	next := cookieValue(rec.Result().Cookies(), tokens.RefreshCookie)
	require.NotEmpty(t, next)
	assert.NotEqual(t, old, next)

	rec = s.do(t, http.MethodPost, "/api/auth/refresh", nil, []*http.Cookie{{Name: tokens.RefreshCookie, Value: old}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_ExpiredAccessTokenIsRotated(t *testing.T) {
	s := newTestServer(t)
	u := s.seedUser(t, "lena", models.RoleUser)
	cookies := s.login(t, u)

	expired, err := tokens.NewAccessToken(testAccessSecret, u.ID.String(), u.Role, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	rec := s.do(t, http.MethodGet, "/api/auth/session", nil, []*http.Cookie{
		{Name: tokens.AccessCookie, Value: expired},
		{Name: tokens.RefreshCookie, Value: cookieValue(cookies, tokens.RefreshCookie)},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rotated := rec.Result().Cookies()
	assert.NotEmpty(t, cookieValue(rotated, tokens.AccessCookie))
	assert.NotEqual(t, cookieValue(cookies, tokens.RefreshCookie), cookieValue(rotated, tokens.RefreshCookie))
}

func TestCourses_CreateRequiresAdmin(t *testing.T) {
	s := newTestServer(t)
	user := s.seedUser(t, "sam", models.RoleUser)
	admin := s.seedUser(t, "root", models.RoleAdmin)
	body := map[string]any{"title": "First aid", "price": 1500}

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/courses", body, nil).Code)

	rec := s.do(t, http.MethodPost, "/api/courses", body, s.login(t, user))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var n int64
	require.NoError(t, s.repo.DB.Model(&models.Course{}).Count(&n).Error)
	assert.Zero(t, n)

	rec = s.do(t, http.MethodPost, "/api/courses", body, s.login(t, admin))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NoError(t, s.repo.DB.Model(&models.Course{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestBanners_CreateMissingFields(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, s.seedUser(t, "root", models.RoleAdmin))

	rec := s.do(t, http.MethodPost, "/api/banners", map[string]string{"heading": "Welcome"}, admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "description")
	assert.Contains(t, env.Error, "button")

	var n int64
	require.NoError(t, s.repo.DB.Model(&models.Banner{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestBanners_ReorderInvalidatesCache(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, s.seedUser(t, "root", models.RoleAdmin))

	create := func(heading string) string {
		rec := s.do(t, http.MethodPost, "/api/banners", map[string]string{
			"heading": heading, "description": "d", "image": "https://cdn.test/b.png", "button": "Book",
		}, admin)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var b models.Banner
		require.NoError(t, json.Unmarshal(decode(t, rec).Data, &b))
		return b.ID.String()
	}
	a := create("a")
	b := create("b")

	list := func() ([]models.Banner, string) {
		rec := s.do(t, http.MethodGet, "/api/banners", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var out []models.Banner
		require.NoError(t, json.Unmarshal(decode(t, rec).Data, &out))
		return out, rec.Header().Get("X-Cache")
	}

	got, state := list()
	assert.Equal(t, "MISS", state)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Heading)

	_, state = list()
	assert.Equal(t, "HIT", state)

	rec := s.do(t, http.MethodPut, "/api/banners/reorder", []map[string]any{
		{"id": a, "order": 2},
		{"id": b, "order": 1},
	}, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got, state = list()
	assert.Equal(t, "MISS", state)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Heading)
}

func TestBanners_DeleteMissing(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, s.seedUser(t, "root", models.RoleAdmin))

	rec := s.do(t, http.MethodDelete, "/api/banners/7d1f6a52-7a43-4d3b-8a39-5b0c7e1d2f11", nil, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/banners/not-a-uuid", nil, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAppointments_AnonymousBookingAndStaffList(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/appointments", map[string]any{
		"patientName": "Nadia", "phone": "+8801700000000", "date": "2026-11-02",
		"timeSlot": "10:00", "doctorName": "Dr. Karim",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var appt models.Appointment
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &appt))
	assert.Equal(t, "APT-000001", appt.Serial)
	assert.Nil(t, appt.UserID)

	user := s.login(t, s.seedUser(t, "sam", models.RoleUser))
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/appointments", nil, user).Code)

	admin := s.login(t, s.seedUser(t, "root", models.RoleAdmin))
	rec = s.do(t, http.MethodGet, "/api/appointments?status=PENDING", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	require.NotNil(t, env.Pagination)
	assert.EqualValues(t, 1, env.Pagination.Total)

	rec = s.do(t, http.MethodPatch, "/api/appointments/"+appt.ID.String(), map[string]string{"status": "LOST"}, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckout_EmptyCart(t *testing.T) {
	s := newTestServer(t)
	user := s.login(t, s.seedUser(t, "sam", models.RoleUser))

	rec := s.do(t, http.MethodPost, "/api/cart/checkout", map[string]string{
		"shippingAddress": "12 Lake Rd", "phone": "+8801700000000",
	}, user)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDoctorOnboarding_ReissuesRole(t *testing.T) {
	s := newTestServer(t)
	u := s.seedUser(t, "karim", models.RoleUser)
	cookies := s.login(t, u)

	rec := s.do(t, http.MethodPost, "/api/doctors", map[string]any{
		"specialization": "Cardiology", "experience": 7,
	}, cookies)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	access := cookieValue(rec.Result().Cookies(), tokens.AccessCookie)
	require.NotEmpty(t, access)
	claims, err := tokens.AccessClaimsFromToken(access, testAccessSecret)
	require.NoError(t, err)
	assert.Equal(t, models.RoleDoctor, claims.Role)

	fresh, err := s.repo.GetUserByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleDoctor, fresh.Role)

	rec = s.do(t, http.MethodPost, "/api/doctors", map[string]any{"specialization": "x"}, rec.Result().Cookies())
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpload_MediaUnavailable(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/upload", nil, nil).Code)

	user := s.login(t, s.seedUser(t, "sam", models.RoleUser))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "scan.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("folder", "reports"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	for _, ck := range user {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.False(t, decode(t, rec).Success)
}
