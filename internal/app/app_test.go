package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"streemi/internal/app/deps"
	"streemi/internal/app/services"
	"streemi/internal/config"
	c "streemi/internal/core/domain/common"
	"streemi/internal/core/domain/logging"
	"streemi/internal/core/domain/notification"
	uow "streemi/internal/core/domain/unit_of_work"
	"streemi/internal/core/domain/user"
	csrftoken "streemi/internal/implementations/csrf_token"
	"streemi/internal/implementations/metrics"
	ratelimiter "streemi/internal/implementations/rate_limiter"
	"streemi/internal/implementations/session"

	"github.com/stretchr/testify/suite"
)

const (
	EMAIL        = "a@x.com"
	OLD_PASSWORD = "OldPass1!"
	NEW_PASSWORD = "NewPass1!"
)

type testSuite struct {
	suite.Suite
	Deps     *deps.Deps
	Uow      *uow.FakeUnitOfWork
	Notifier *notification.FakeNotifier
	Server   *httptest.Server
	Client   *http.Client
}

func (s *testSuite) SetupTest() {
	now := func() time.Time { return time.Now().UTC() }
	resetURL, _ := url.Parse("https://streemi.test/reset")

	s.Uow = uow.NewFakeUnitOfWork()
	s.Notifier = notification.NewFakeNotifier()
	s.Deps = &deps.Deps{
		Config: &config.Config{
			AllowedOrigins:           []string{"https://streemi.test"},
			PasswordResetTokenTTL:    time.Hour,
			PasswordResetBaseURL:     *resetURL,
			PasswordResetLimit:       3,
			PasswordResetClientLimit: 30,
		},
		Logger:                      logging.NewFakeLogger(),
		Now:                         now,
		UnitOfWork:                  s.Uow,
		AccountRepository:           s.Uow.Context.AccountRepository,
		RateLimiter:                 ratelimiter.NewMemory(now),
		Metrics:                     metrics.NewPrometheus(),
		PasswordHasher:              user.NewFakePasswordHasher(),
		PasswordResetTokenGenerator: user.NewFakePasswordResetTokenGenerator(),
		CsrfTokenManager:            csrftoken.NewHMAC("secret", time.Hour, now),
		CsrfClientIDGenerator:       session.NewUUID(),
		Notifier:                    s.Notifier,
		DeliveryNotifier:            s.Notifier,
	}

	server := InitHttpServer(s.Deps, services.InitServices(s.Deps))
	s.Server = httptest.NewServer(server.Handler)
	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)
	s.Client = &http.Client{Jar: jar}

	hash, _ := s.Deps.PasswordHasher.HashPassword(user.RawPassword(OLD_PASSWORD))
	_, err = s.Uow.Context.AccountRepository.Create(context.Background(), user.CreateAccountInput{
		Email:        c.NewEmail(EMAIL),
		PasswordHash: hash,
		CreatedAt:    now(),
	})
	s.Require().NoError(err)
}

func (s *testSuite) TearDownTest() {
	s.Server.Close()
}

func TestPasswordResetFlow(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestFullReset() {
	resp := s.post("/auth/password_reset/request", "application/json", `{"email": "A@x.com"}`)
	s.Equal(http.StatusAccepted, resp.StatusCode)

	s.Require().Equal(1, s.Notifier.SentCount())
	sent := s.Notifier.LastSent()
	token := sent.Context[notification.ContextResetToken]
	s.Equal("https://streemi.test/reset/"+token, sent.Context[notification.ContextResetURL])

	resp = s.get("/auth/password_reset/" + token)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	begin := struct {
		Account   struct{ Email string }
		CsrfToken string
	}{}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&begin))
	s.Equal(EMAIL, begin.Account.Email)
	s.NotEmpty(begin.CsrfToken)

	form := url.Values{}
	form.Set("password", NEW_PASSWORD)
	form.Set("confirm_password", NEW_PASSWORD)
	form.Set("_csrf_token", begin.CsrfToken)
	resp = s.post("/auth/password_reset/"+token, "application/x-www-form-urlencoded", form.Encode())
	s.Equal(http.StatusOK, resp.StatusCode)

	account, err := s.Uow.Context.AccountRepository.GetByEmail(context.Background(), c.NewEmail(EMAIL))
	s.Require().NoError(err)
	s.True(s.Deps.PasswordHasher.ValidatePassword(user.RawPassword(NEW_PASSWORD), account.PasswordHash))
	s.False(account.PasswordResetToken.IsPresent)

	resp = s.get("/auth/password_reset/" + token)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp = s.post("/auth/password_reset/"+token, "application/x-www-form-urlencoded", form.Encode())
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *testSuite) TestUnknownEmailLooksTheSame() {
	resp := s.post("/auth/password_reset/request", "application/json", `{"email": "nobody@x.com"}`)

	s.Equal(http.StatusAccepted, resp.StatusCode)
	s.Equal(0, s.Notifier.SentCount())
}

func (s *testSuite) TestCompletionWithoutCsrfIsForbidden() {
	s.post("/auth/password_reset/request", "application/json", `{"email": "a@x.com"}`)
	token := s.Notifier.LastSent().Context[notification.ContextResetToken]

	resp := s.post(
		"/auth/password_reset/"+token,
		"application/json",
		`{"password": "NewPass1!", "confirm_password": "NewPass1!"}`,
	)

	s.Equal(http.StatusForbidden, resp.StatusCode)
	account, err := s.Uow.Context.AccountRepository.GetByEmail(context.Background(), c.NewEmail(EMAIL))
	s.Require().NoError(err)
	s.True(account.PasswordResetToken.IsPresent)
}

func (s *testSuite) TestRequestIsRateLimited() {
	for i := 0; i < 3; i++ {
		s.Equal(http.StatusAccepted, s.post("/auth/password_reset/request", "application/json", `{"email": "a@x.com"}`).StatusCode)
	}
	resp := s.post("/auth/password_reset/request", "application/json", `{"email": "a@x.com"}`)

	s.Equal(http.StatusTooManyRequests, resp.StatusCode)
}

func (s *testSuite) TestMetricsAreExposed() {
	s.post("/auth/password_reset/request", "application/json", `{"email": "a@x.com"}`)

	resp := s.get("/metrics")

	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *testSuite) get(path string) *http.Response {
	resp, err := s.Client.Get(s.Server.URL + path)
	s.Require().NoError(err)
	s.T().Cleanup(func() { resp.Body.Close() })
	return resp
}

func (s *testSuite) post(path string, contentType string, body string) *http.Response {
	resp, err := s.Client.Post(s.Server.URL+path, contentType, strings.NewReader(body))
	s.Require().NoError(err)
	s.T().Cleanup(func() { resp.Body.Close() })
	return resp
}
