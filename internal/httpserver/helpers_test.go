package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/med_clinic/internal/db/dbtest"
	"github.com/Skotchmaster/med_clinic/internal/hash"
	"github.com/Skotchmaster/med_clinic/internal/media"
	"github.com/Skotchmaster/med_clinic/internal/middleware/auth"
	"github.com/Skotchmaster/med_clinic/internal/models"
	"github.com/Skotchmaster/med_clinic/internal/mykafka"
	"github.com/Skotchmaster/med_clinic/internal/notify"
	"github.com/Skotchmaster/med_clinic/internal/repo"
	"github.com/Skotchmaster/med_clinic/internal/revalidate"
	"github.com/Skotchmaster/med_clinic/internal/service"
)

var (
	testAccessSecret  = []byte("access-secret")
	testRefreshSecret = []byte("refresh-secret")
)

type testServer struct {
	e     *echo.Echo
	repo  *repo.GormRepo
	cache *revalidate.Revalidator
	auth  *service.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	r := &repo.GormRepo{DB: dbtest.Open(t)}
	events := &mykafka.Recorder{}

	authSvc := &service.AuthService{Repo: r, JWTSecret: testAccessSecret, RefreshSecret: testRefreshSecret}
	cache := revalidate.New(revalidate.NewStore(time.Minute), events)
	authHTTP := &AuthHTTP{Svc: authSvc}

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	Register(e, &Deps{
		DB:    r.DB,
		Auth:  auth.New(testAccessSecret, authSvc, false),
		Cache: cache,

		AuthHTTP:        authHTTP,
		AppointmentHTTP: &AppointmentHTTP{Svc: &service.AppointmentService{Repo: r, SMS: notify.NopSMS{}, Events: events}},
		DoctorHTTP:      &DoctorHTTP{Svc: &service.DoctorService{Repo: r}, Auth: authHTTP, Cache: cache},
		BlogHTTP:        &BlogHTTP{Svc: &service.BlogService{Repo: r}, Cache: cache},
		CommentHTTP:     &CommentHTTP{Svc: &service.CommentService{Repo: r}, Cache: cache},
		ForumHTTP:       &ForumHTTP{Svc: &service.ForumService{Repo: r, Events: events}, Cache: cache},
		ShopHTTP:        &ShopHTTP{Svc: &service.ShopService{Repo: r, Events: events}, Cache: cache},
		CourseHTTP:      &CourseHTTP{Svc: &service.CourseService{Repo: r, Events: events}, Cache: cache},
		ContentHTTP:     &ContentHTTP{Svc: &service.ContentService{Repo: r}, Cache: cache},
		UploadHTTP:      &UploadHTTP{Svc: &service.UploadService{Uploader: media.Disabled{}}},
		SearchHTTP:      &SearchHTTP{Svc: &service.SearchService{Repo: r}},
		MailHTTP:        &MailHTTP{Svc: &service.MailService{Mailer: notify.NopMailer{}}},
	})

	return &testServer{e: e, repo: r, cache: cache, auth: authSvc}
}

func (s *testServer) seedUser(t *testing.T, name, role string) *models.User {
	t.Helper()
	pw, err := hash.HashPassword("secret123")
	require.NoError(t, err)
	u := &models.User{Name: name, Email: name + "@clinic.test", PasswordHash: pw, Role: role}
	require.NoError(t, s.repo.CreateUser(context.Background(), u))
	return u
}

// login signs u in and returns the session cookies.
func (s *testServer) login(t *testing.T, u *models.User) []*http.Cookie {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    u.Email,
		"password": "secret123",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return rec.Result().Cookies()
}

func (s *testServer) do(t *testing.T, method, target string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	Pagination *struct {
		Total int64 `json:"total"`
	} `json:"pagination"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func cookieValue(cookies []*http.Cookie, name string) string {
	for _, ck := range cookies {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}
