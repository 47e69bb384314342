package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-qa-backend/internal/auth"
	"github.com/tbourn/go-qa-backend/internal/domain"
	"github.com/tbourn/go-qa-backend/internal/http/middleware"
	"github.com/tbourn/go-qa-backend/internal/services"
	"github.com/tbourn/go-qa-backend/internal/store"
)

// ---- fixtures ----

type recordCall struct {
	subject, scope, key, resourceID string
	status                          int
}

type fakeRecorder struct {
	calls []recordCall
	err   error
}

func (f *fakeRecorder) Record(_ context.Context, subject, scope, key, resourceID string, status int) error {
	f.calls = append(f.calls, recordCall{subject, scope, key, resourceID, status})
	return f.err
}

type fixture struct {
	r      *gin.Engine
	st     *store.Store
	signer *auth.HMACSigner
	rec    *fakeRecorder
}

// newFixture wires real services over a fresh store. lookup, when non-nil,
// drives the idempotency validator.
func newFixture(t *testing.T, lookup middleware.IdempotencyLookup) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.New()
	signer, err := auth.NewHMACSigner("test-secret", "go-qa-backend")
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	rec := &fakeRecorder{}
	h := New(
		services.NewQuestionService(st),
		services.NewAnswerService(st),
		services.NewAuthService(signer, "password123"),
		rec,
	)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Identity(signer))
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, lookup))
	r.GET("/questions", h.ListQuestions)
	r.POST("/questions", h.AddQuestion)
	r.PUT("/questions/:id", h.UpdateQuestion)
	r.DELETE("/questions/:id", h.DeleteQuestion)
	r.POST("/comments", h.AddAnswer)
	r.POST("/login", h.Login)
	return &fixture{r: r, st: st, signer: signer, rec: rec}
}

func (f *fixture) do(method, target, body string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" && hdr["Content-Type"] == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	f.r.ServeHTTP(w, req)
	return w
}

func form(vals map[string]string) string {
	v := url.Values{}
	for k, s := range vals {
		v.Set(k, s)
	}
	return v.Encode()
}

var formHdr = map[string]string{"Content-Type": "application/x-www-form-urlencoded"}

// ---- stub services for paths real services never take ----

type errQuestionSvc struct{ err error }

func (s errQuestionSvc) List(context.Context, map[string]string) ([]domain.Question, error) {
	return nil, s.err
}
func (s errQuestionSvc) Add(context.Context, domain.Question) error            { return s.err }
func (s errQuestionSvc) Update(context.Context, string, domain.Question) error { return s.err }
func (s errQuestionSvc) Delete(context.Context, string) error                  { return s.err }

// ---- tests ----

func TestHandlers_RecorderFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture(t, nil)
	f.rec.err = errors.New("ledger down")

	w := f.do(http.MethodPost, "/questions", `{"id":"1","title":"t","content":"c"}`,
		map[string]string{middleware.HeaderIdempotencyKey: "k1"})
	if w.Code != http.StatusOK || w.Body.String() != "Question added" {
		t.Fatalf("got %d %q", w.Code, w.Body.String())
	}
}

func TestHandlers_NilRecorder(t *testing.T) {
	gin.SetMode(gin.TestMode)
	st := store.New()
	h := New(services.NewQuestionService(st), services.NewAnswerService(st), nil, nil)
	r := gin.New()
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, nil))
	r.POST("/questions", h.AddQuestion)

	req := httptest.NewRequest(http.MethodPost, "/questions", strings.NewReader(`{"id":"1"}`))
	req.Header.Set(middleware.HeaderIdempotencyKey, "k")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestFailWith_UnknownErrorIs404AndHidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := New(errQuestionSvc{err: errors.New("disk on fire")}, nil, nil, nil)
	r := gin.New()
	r.GET("/questions", h.ListQuestions)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/questions", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want 404", w.Code)
	}
	er := decodeErr(t, w)
	if er.Code != ErrCodeNotFound || er.Message != "not found" || strings.Contains(w.Body.String(), "disk") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestFailWith_Mapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{services.ErrInvalidIdentifier, http.StatusBadRequest, ErrCodeInvalidIdentifier},
		{services.ErrMissingParameter, http.StatusBadRequest, ErrCodeMissingParameter},
		{services.ErrBadQueryParameter, http.StatusUnprocessableEntity, ErrCodeBadQueryParameter},
		{services.ErrQuestionNotFound, http.StatusNotFound, ErrCodeNotFound},
		{services.ErrAnswerNotFound, http.StatusNotFound, ErrCodeNotFound},
		{services.ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeUnauthorized},
	}
	for _, tc := range cases {
		r := gin.New()
		r.GET("/x", func(c *gin.Context) { failWith(c, tc.err) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		if w.Code != tc.status {
			t.Fatalf("%v: status = %d; want %d", tc.err, w.Code, tc.status)
		}
		if er := decodeErr(t, w); er.Code != tc.code {
			t.Fatalf("%v: code = %q; want %q", tc.err, er.Code, tc.code)
		}
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPost, "/login", `{"username":"alice","password":"password123"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var resp LoginResponse
	decodeJSON(t, w, &resp)
	claims, err := f.signer.Verify(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Subject != "alice" {
		t.Fatalf("subject = %q; want alice", claims.Subject)
	}
	if ttl := time.Until(claims.ExpiresAt.Time); ttl < 23*time.Hour || ttl > 24*time.Hour+time.Minute {
		t.Fatalf("unexpected expiry in %v", ttl)
	}

	w = f.do(http.MethodPost, "/login", `{"username":"alice","password":"nope"}`, nil)
	if w.Code != http.StatusUnauthorized || decodeErr(t, w).Code != ErrCodeUnauthorized {
		t.Fatalf("wrong password: %d %s", w.Code, w.Body.String())
	}

	w = f.do(http.MethodPost, "/login", `{"username":`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: %d", w.Code)
	}
}
