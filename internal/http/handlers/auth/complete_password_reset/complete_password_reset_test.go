package completepasswordreset

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"streemi/internal/core/domain/logging"
	"streemi/internal/core/domain/user"
	service "streemi/internal/core/services/complete_password_reset"
	"streemi/internal/core/services/csrf"
	handlercsrf "streemi/internal/http/handlers/csrf"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
)

const (
	CLIENT_ID  = "client-1"
	CSRF_TOKEN = "reset_password:client-1"
)

type stubService struct {
	err    error
	inputs []service.Input
}

func (s *stubService) Run(ctx context.Context, input service.Input) (service.Result, error) {
	s.inputs = append(s.inputs, input)
	return service.Result{}, s.err
}

type testSuite struct {
	suite.Suite
	Inner  *stubService
	Router chi.Router
}

func (s *testSuite) SetupTest() {
	s.Inner = &stubService{}
	guarded := csrf.WithCsrf[service.Input, service.Result](
		logging.NewFakeLogger(),
		csrf.NewFakeTokenManager(),
		handlercsrf.RESET_PASSWORD_ACTION,
		s.Inner,
	)
	s.Router = chi.NewRouter()
	s.Router.Method(http.MethodPost, "/auth/password_reset/{token}", New(guarded))
}

func TestCompletePasswordResetHandler(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestJSONSuccess() {
	rr := s.postJSON("T1", `{"password": "NewPass1!", "confirm_password": "NewPass1!", "_csrf_token": "`+CSRF_TOKEN+`"}`, true)

	s.Equal(http.StatusOK, rr.Code)
	s.JSONEq(`{}`, rr.Body.String())
	s.Require().Len(s.Inner.inputs, 1)
	s.Equal(user.PasswordResetToken("T1"), s.Inner.inputs[0].Token)
	s.Equal(user.RawPassword("NewPass1!"), s.Inner.inputs[0].NewPassword)
	s.Equal(user.RawPassword("NewPass1!"), s.Inner.inputs[0].ConfirmPassword)
}

func (s *testSuite) TestFormSuccess() {
	form := url.Values{}
	form.Set("password", "NewPass1!")
	form.Set("confirm_password", "NewPass1!")
	form.Set(handlercsrf.FORM_FIELD, CSRF_TOKEN)

	r := httptest.NewRequest(http.MethodPost, "/auth/password_reset/T1", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(&http.Cookie{Name: handlercsrf.COOKIE_NAME, Value: CLIENT_ID})
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, r)

	s.Equal(http.StatusOK, rr.Code)
	s.Len(s.Inner.inputs, 1)
}

func (s *testSuite) TestCsrfTokenFromHeader() {
	r := httptest.NewRequest(
		http.MethodPost,
		"/auth/password_reset/T1",
		strings.NewReader(`{"password": "NewPass1!", "confirm_password": "NewPass1!"}`),
	)
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set(handlercsrf.HEADER_NAME, CSRF_TOKEN)
	r.AddCookie(&http.Cookie{Name: handlercsrf.COOKIE_NAME, Value: CLIENT_ID})
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, r)

	s.Equal(http.StatusOK, rr.Code)
}

func (s *testSuite) TestMissingCookieIsForbidden() {
	rr := s.postJSON("T1", `{"password": "NewPass1!", "confirm_password": "NewPass1!", "_csrf_token": "`+CSRF_TOKEN+`"}`, false)

	s.Equal(http.StatusForbidden, rr.Code)
	s.Empty(s.Inner.inputs)
}

func (s *testSuite) TestWrongCsrfTokenIsForbidden() {
	rr := s.postJSON("T1", `{"password": "NewPass1!", "confirm_password": "NewPass1!", "_csrf_token": "forged"}`, true)

	s.Equal(http.StatusForbidden, rr.Code)
	s.Empty(s.Inner.inputs)
}

func (s *testSuite) TestServiceErrors() {
	cases := []struct {
		id     string
		err    error
		status int
	}{
		{id: "invalid token", err: user.ErrInvalidOrExpiredToken, status: http.StatusNotFound},
		{id: "mismatch", err: user.ErrPasswordMismatch, status: http.StatusUnprocessableEntity},
		{id: "weak", err: user.ErrWeakPassword, status: http.StatusUnprocessableEntity},
		{id: "store", err: user.NewStoreError("consume", errors.New("db")), status: http.StatusInternalServerError},
	}
	for _, testcase := range cases {
		s.Run(testcase.id, func() {
			s.Inner.err = testcase.err
			rr := s.postJSON("T1", `{"password": "a", "confirm_password": "b", "_csrf_token": "`+CSRF_TOKEN+`"}`, true)
			s.Equal(testcase.status, rr.Code)
		})
	}
}

func (s *testSuite) TestMalformedInput() {
	s.Equal(http.StatusBadRequest, s.postJSON("T1", `not json`, true).Code)
	s.Equal(http.StatusBadRequest, s.postJSON("T1", `{"password": "NewPass1!"}`, true).Code)
	s.Empty(s.Inner.inputs)
}

func (s *testSuite) postJSON(token string, body string, withCookie bool) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/auth/password_reset/"+token, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	if withCookie {
		r.AddCookie(&http.Cookie{Name: handlercsrf.COOKIE_NAME, Value: CLIENT_ID})
	}
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, r)
	return rr
}
