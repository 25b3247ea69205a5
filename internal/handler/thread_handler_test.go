package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threadline/config"
	"threadline/internal/domain/thread"
	"threadline/internal/services"
	threadline_errors "threadline/pkg/errors"
)

func TestResolveRedirectPath(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty", raw: "", want: "/"},
		{name: "rooted path passes through", raw: "/chat", want: "/chat"},
		{name: "rooted with query", raw: "/chat?tab=1", want: "/chat?tab=1"},
		{name: "root itself", raw: "/", want: "/"},
		{name: "relative path", raw: "chat", want: "/"},
		{name: "absolute url", raw: "https://evil.example/p", want: "/"},
		{name: "scheme relative", raw: "//evil.example", want: "/"},
		{name: "backslash variant", raw: "/\\evil.example", want: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveRedirectPath(tt.raw))
		})
	}
}

func TestParseForce(t *testing.T) {
	assert.True(t, parseForce("1"))
	assert.False(t, parseForce(""))
	assert.False(t, parseForce("0"))
	assert.False(t, parseForce("true"))
	assert.False(t, parseForce("yes"))
}

type stubThreadRepo struct {
	active  map[uuid.UUID]*thread.Thread
	creates int
}

func newStubThreadRepo() *stubThreadRepo {
	return &stubThreadRepo{active: make(map[uuid.UUID]*thread.Thread)}
}

func (r *stubThreadRepo) Create(ctx context.Context, t *thread.Thread) error {
	r.creates++
	cp := *t
	r.active[t.UserID] = &cp
	return nil
}

func (r *stubThreadRepo) GetByID(ctx context.Context, id uuid.UUID) (thread.Thread, error) {
	for _, t := range r.active {
		if t.ID == id {
			return *t, nil
		}
	}
	return thread.Thread{}, threadline_errors.ErrNotFound
}

func (r *stubThreadRepo) GetActiveByUser(ctx context.Context, userID uuid.UUID) (thread.Thread, error) {
	if t, ok := r.active[userID]; ok && t.Status == thread.StatusActive {
		return *t, nil
	}
	return thread.Thread{}, threadline_errors.ErrNotFound
}

func (r *stubThreadRepo) Archive(ctx context.Context, id uuid.UUID) error {
	for _, t := range r.active {
		if t.ID == id {
			t.Status = thread.StatusArchived
			return nil
		}
	}
	return threadline_errors.ErrNotFound
}

func (r *stubThreadRepo) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]thread.Thread, int64, error) {
	if t, ok := r.active[userID]; ok {
		return []thread.Thread{*t}, 1, nil
	}
	return nil, 0, nil
}

type stubProfileRepo struct{}

func (stubProfileRepo) Upsert(ctx context.Context, p *thread.Profile) error {
	return nil
}

func (stubProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (thread.Profile, error) {
	// Always present, so nothing reaches the GoTrue admin API.
	return thread.Profile{ID: id}, nil
}

func newTestRouter(userID uuid.UUID) (*gin.Engine, *stubThreadRepo) {
	gin.SetMode(gin.TestMode)

	repo := newStubThreadRepo()
	svc := services.NewThreadService(&config.Config{}, nil, repo, stubProfileRepo{}, nil, nil)
	h := NewThreadHandler(svc)

	r := gin.New()
	if userID != uuid.Nil {
		r.Use(func(c *gin.Context) {
			ctx := services.WithUserContext(c.Request.Context(), services.AuthedUser{ID: userID})
			c.Request = c.Request.WithContext(ctx)
		})
	}
	r.GET("/api/thread/ensure", h.Ensure)
	r.POST("/api/thread/ensure", h.Ensure)
	r.GET("/api/thread/:id", h.Get)
	r.GET("/api/threads", h.List)
	r.GET("/thread/result", h.Result)
	return r, repo
}

func TestEnsure_redirectsToSanitizedPath(t *testing.T) {
	userID := uuid.New()
	router, repo := newTestRouter(userID)

	tests := []struct {
		name     string
		query    string
		location string
	}{
		{name: "no redirect param", query: "", location: "/"},
		{name: "rooted path", query: "?redirect=%2Fchat", location: "/chat"},
		{name: "external url", query: "?redirect=https%3A%2F%2Fevil.example", location: "/"},
		{name: "scheme relative", query: "?redirect=%2F%2Fevil.example", location: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/thread/ensure"+tt.query, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
		})
	}

	// Four ensures, one thread.
	assert.Equal(t, 1, repo.creates)
}

func TestEnsure_postRedirectsLikeGet(t *testing.T) {
	userID := uuid.New()
	router, _ := newTestRouter(userID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/thread/ensure?redirect=%2Fchat", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/chat", w.Header().Get("Location"))
}

func TestEnsure_forceCreatesNewThread(t *testing.T) {
	userID := uuid.New()
	router, repo := newTestRouter(userID)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/thread/ensure", nil))
	require.Equal(t, http.StatusSeeOther, w.Code)
	first := repo.active[userID].ID

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/thread/ensure?force=1", nil))
	require.Equal(t, http.StatusSeeOther, w.Code)

	assert.Equal(t, 2, repo.creates)
	assert.NotEqual(t, first, repo.active[userID].ID)
}

func TestEnsure_unauthenticated(t *testing.T) {
	router, repo := newTestRouter(uuid.Nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/thread/ensure", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, repo.creates)
}

func TestResult_stubbed(t *testing.T) {
	router, _ := newTestRouter(uuid.Nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/thread/result", nil))

	assert.Equal(t, http.StatusNotImplemented, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_IMPLEMENTED")
}

func TestGet_invalidThreadID(t *testing.T) {
	userID := uuid.New()
	router, _ := newTestRouter(userID)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/thread/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
