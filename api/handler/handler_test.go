package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskdeck/backend/api/handler"
	"github.com/taskdeck/backend/api/transport"
	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/internal/infrastructure/monitor"
	"github.com/taskdeck/backend/internal/middleware"
	"github.com/taskdeck/backend/internal/router"
	"github.com/taskdeck/backend/internal/token"
	"github.com/taskdeck/backend/repository"
	authUC "github.com/taskdeck/backend/usecase/auth"
	taskUC "github.com/taskdeck/backend/usecase/task"
)

// In-memory repositories keep the handler tests wire-accurate without a
// database.

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*domain.User{}}
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	copied := *user
	r.users[user.ID] = &copied
	return user, nil
}

func (r *memUserRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), nil
}

type memTaskRepo struct {
	mu    sync.Mutex
	tasks []*domain.Task
}

func (r *memTaskRepo) GetByID(_ context.Context, id, userID string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, task := range r.tasks {
		if task.ID == id && task.UserID == userID {
			copied := *task
			return &copied, nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

func (r *memTaskRepo) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []domain.Task
	for _, task := range r.tasks {
		if task.UserID != filter.UserID {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(task.Title), needle) &&
				!strings.Contains(strings.ToLower(task.Description), needle) {
				continue
			}
		}
		if filter.Priority != "" && task.Priority != filter.Priority {
			continue
		}
		matched = append(matched, *task)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if filter.Desc {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	total := len(matched)
	start := (filter.Page - 1) * filter.PerPage
	if start > total {
		start = total
	}
	end := start + filter.PerPage
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *memTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	copied := *task
	r.tasks = append(r.tasks, &copied)
	return task, nil
}

func (r *memTaskRepo) Update(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.tasks {
		if existing.ID == task.ID && existing.UserID == task.UserID {
			copied := *task
			copied.UpdatedAt = time.Now()
			r.tasks[i] = &copied
			return nil
		}
	}
	return domain.ErrTaskNotFound
}

func (r *memTaskRepo) Delete(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.tasks {
		if existing.ID == id && existing.UserID == userID {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return nil
		}
	}
	return domain.ErrTaskNotFound
}

func (r *memTaskRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks), nil
}

type memTokenStore struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{revoked: map[string]bool{}}
}

func (s *memTokenStore) Revoke(_ context.Context, jti string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = true
	return nil
}

func (s *memTokenStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revoked[jti], nil
}

type testApp struct {
	handler fasthttp.RequestHandler
}

func newTestApp() *testApp {
	users := newMemUserRepo()
	tasks := &memTaskRepo{}
	revoked := newMemTokenStore()
	manager := token.NewManager("test-secret", "taskdeck", 10*time.Minute)

	authUseCase := authUC.New(users, revoked, manager, nil)
	taskUseCase := taskUC.New(tasks, nil)

	// The monitor never starts, so /health reports unhealthy; no test
	// here depends on it.
	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authUseCase, nil, nil, false),
		Task:   apiHandler.NewTaskHandler(taskUseCase, nil, nil),
		Health: apiHandler.NewHealthHandler(monitor.New(nil, nil, time.Hour, nil), nil, nil),
	}
	r := router.New(handlers, middleware.Auth(manager, revoked, nil))
	return &testApp{handler: r.Handler}
}

type response struct {
	status int
	env    transport.Envelope
	raw    []byte
	cookie string
}

func (app *testApp) do(t *testing.T, method, uri, body, cookie string) response {
	t.Helper()

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI(uri)
	ctx.Request.Header.SetMethod(method)
	if body != "" {
		ctx.Request.SetBodyString(body)
	}
	if cookie != "" {
		ctx.Request.Header.SetCookie(middleware.CookieName, cookie)
	}

	app.handler(ctx)

	resp := response{status: ctx.Response.StatusCode(), raw: append([]byte(nil), ctx.Response.Body()...)}
	_ = json.Unmarshal(resp.raw, &resp.env)

	c := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(c)
	c.SetKey(middleware.CookieName)
	if ctx.Response.Header.Cookie(c) {
		resp.cookie = string(c.Value())
	}
	return resp
}

func (app *testApp) login(t *testing.T, email, password string) string {
	t.Helper()
	resp := app.do(t, http.MethodPost, "/api/login",
		fmt.Sprintf(`{"email":%q,"password":%q}`, email, password), "")
	require.Equal(t, http.StatusOK, resp.status)
	require.NotEmpty(t, resp.cookie)
	return resp.cookie
}

func TestEndToEnd_RegisterLoginCreateList(t *testing.T) {
	t.Parallel()

	app := newTestApp()

	resp := app.do(t, http.MethodPost, "/api/register",
		`{"name":"Ann","email":"a@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, resp.status)
	require.True(t, resp.env.Success)
	require.Equal(t, "Registration successful", resp.env.Message)

	cookie := app.login(t, "a@x.com", "secret1")

	resp = app.do(t, http.MethodPost, "/api/tasks",
		`{"title":"Ship","priority":"HIGH","endDate":"2030-01-01"}`, cookie)
	require.Equal(t, http.StatusCreated, resp.status)
	require.Equal(t, "Task created successfully", resp.env.Message)

	resp = app.do(t, http.MethodGet, "/api/tasks", "", cookie)
	require.Equal(t, http.StatusOK, resp.status)
	require.NotNil(t, resp.env.Pagination)
	require.Equal(t, 1, resp.env.Pagination.Total)
	require.Equal(t, 1, resp.env.Pagination.Page)
	require.Equal(t, 10, resp.env.Pagination.PerPage)

	var listed struct {
		Data []domain.Task `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.raw, &listed))
	require.Len(t, listed.Data, 1)
	require.Equal(t, "Ship", listed.Data[0].Title)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	app := newTestApp()
	body := `{"name":"Ann","email":"a@x.com","password":"secret1"}`

	resp := app.do(t, http.MethodPost, "/api/register", body, "")
	require.Equal(t, http.StatusOK, resp.status)

	resp = app.do(t, http.MethodPost, "/api/register", body, "")
	require.Equal(t, http.StatusConflict, resp.status)
	require.Equal(t, "Email already in use", resp.env.Message)
}

func TestLogin_InvalidCredentialMessagesMatch(t *testing.T) {
	t.Parallel()

	app := newTestApp()
	resp := app.do(t, http.MethodPost, "/api/register",
		`{"name":"Ann","email":"a@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, resp.status)

	wrongPassword := app.do(t, http.MethodPost, "/api/login",
		`{"email":"a@x.com","password":"nope123"}`, "")
	unknownEmail := app.do(t, http.MethodPost, "/api/login",
		`{"email":"ghost@x.com","password":"secret1"}`, "")

	require.Equal(t, http.StatusUnauthorized, wrongPassword.status)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.status)
	require.Equal(t, wrongPassword.env.Message, unknownEmail.env.Message)
}

func TestValidation_FirstMessageOnly(t *testing.T) {
	t.Parallel()

	app := newTestApp()
	resp := app.do(t, http.MethodPost, "/api/register", `{}`, "")
	require.Equal(t, http.StatusForbidden, resp.status)
	require.Equal(t, "Name Required", resp.env.Message)
}

func TestMe_ExcludesPasswordHash(t *testing.T) {
	t.Parallel()

	app := newTestApp()
	resp := app.do(t, http.MethodPost, "/api/register",
		`{"name":"Ann","email":"a@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, resp.status)
	cookie := app.login(t, "a@x.com", "secret1")

	resp = app.do(t, http.MethodGet, "/api/me", "", cookie)
	require.Equal(t, http.StatusOK, resp.status)

	var payload struct {
		Data struct {
			User map[string]any `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.raw, &payload))
	require.Equal(t, "a@x.com", payload.Data.User["email"])
	require.NotContains(t, payload.Data.User, "password")
}

func TestTasks_RequireAuthentication(t *testing.T) {
	t.Parallel()

	app := newTestApp()
	resp := app.do(t, http.MethodGet, "/api/tasks", "", "")
	require.Equal(t, http.StatusUnauthorized, resp.status)
	require.Equal(t, "Unauthorized user", resp.env.Message)
}

func TestTasks_OwnershipBoundary(t *testing.T) {
	t.Parallel()

	app := newTestApp()
	for _, user := range []string{"a", "b"} {
		resp := app.do(t, http.MethodPost, "/api/register",
			fmt.Sprintf(`{"name":"U","email":"%s@x.com","password":"secret1"}`, user), "")
		require.Equal(t, http.StatusOK, resp.status)
	}
	cookieA := app.login(t, "a@x.com", "secret1")
	cookieB := app.login(t, "b@x.com", "secret1")

	resp := app.do(t, http.MethodPost, "/api/tasks",
		`{"title":"Private","priority":"LOW","endDate":"2030-01-01"}`, cookieA)
	require.Equal(t, http.StatusCreated, resp.status)

	var created struct {
		Data domain.Task `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.raw, &created))
	taskURI := "/api/tasks/" + created.Data.ID

	for _, attempt := range []struct {
		method string
		body   string
	}{
		{http.MethodGet, ""},
		{http.MethodPatch, `{"title":"Stolen"}`},
		{http.MethodDelete, ""},
	} {
		resp := app.do(t, attempt.method, taskURI, attempt.body, cookieB)
		require.Equal(t, http.StatusNotFound, resp.status, attempt.method)
		require.Equal(t, "Task not found", resp.env.Message, attempt.method)
	}

	// The owner still sees the task untouched.
	resp = app.do(t, http.MethodGet, taskURI, "", cookieA)
	require.Equal(t, http.StatusOK, resp.status)
}

func TestTasks_SearchFiltersAndCounts(t *testing.T) {
	t.Parallel()

	app := newTestApp()
	resp := app.do(t, http.MethodPost, "/api/register",
		`{"name":"Ann","email":"a@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, resp.status)
	cookie := app.login(t, "a@x.com", "secret1")

	for _, body := range []string{
		`{"title":"Fix login BUG","priority":"HIGH","endDate":"2030-01-01"}`,
		`{"title":"Write docs","description":"document the bug tracker","priority":"LOW","endDate":"2030-01-01"}`,
		`{"title":"Plan offsite","priority":"MEDIUM","endDate":"2030-01-01"}`,
	} {
		resp := app.do(t, http.MethodPost, "/api/tasks", body, cookie)
		require.Equal(t, http.StatusCreated, resp.status)
	}

	resp = app.do(t, http.MethodGet, "/api/tasks?search=bug&perPage=1", "", cookie)
	require.Equal(t, http.StatusOK, resp.status)
	require.Equal(t, 2, resp.env.Pagination.Total)

	var listed struct {
		Data []domain.Task `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.raw, &listed))
	require.Len(t, listed.Data, 1)
}

func TestTasks_UpdateAndDelete(t *testing.T) {
	t.Parallel()

	app := newTestApp()
	resp := app.do(t, http.MethodPost, "/api/register",
		`{"name":"Ann","email":"a@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, resp.status)
	cookie := app.login(t, "a@x.com", "secret1")

	resp = app.do(t, http.MethodPost, "/api/tasks",
		`{"title":"Draft","description":"keep","priority":"LOW","endDate":"2030-01-01"}`, cookie)
	require.Equal(t, http.StatusCreated, resp.status)

	var created struct {
		Data domain.Task `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.raw, &created))
	taskURI := "/api/tasks/" + created.Data.ID

	resp = app.do(t, http.MethodPatch, taskURI, `{"title":"Final","priority":"HIGH"}`, cookie)
	require.Equal(t, http.StatusOK, resp.status)
	require.Equal(t, "Task updated successfully", resp.env.Message)

	var updated struct {
		Data domain.Task `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.raw, &updated))
	require.Equal(t, "Final", updated.Data.Title)
	require.Equal(t, "keep", updated.Data.Description)
	require.Equal(t, domain.PriorityHigh, updated.Data.Priority)

	resp = app.do(t, http.MethodDelete, taskURI, "", cookie)
	require.Equal(t, http.StatusOK, resp.status)
	require.Equal(t, "Task deleted successfully", resp.env.Message)

	resp = app.do(t, http.MethodGet, taskURI, "", cookie)
	require.Equal(t, http.StatusNotFound, resp.status)
}

func TestTasks_EmptyPatchBodyUpdatesNothing(t *testing.T) {
	t.Parallel()

	app := newTestApp()
	resp := app.do(t, http.MethodPost, "/api/register",
		`{"name":"Ann","email":"a@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, resp.status)
	cookie := app.login(t, "a@x.com", "secret1")

	resp = app.do(t, http.MethodPost, "/api/tasks",
		`{"title":"Keep","priority":"LOW","endDate":"2030-01-01"}`, cookie)
	require.Equal(t, http.StatusCreated, resp.status)

	var created struct {
		Data domain.Task `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.raw, &created))

	// No body at all behaves like {}.
	resp = app.do(t, http.MethodPatch, "/api/tasks/"+created.Data.ID, "", cookie)
	require.Equal(t, http.StatusOK, resp.status)

	var updated struct {
		Data domain.Task `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.raw, &updated))
	require.Equal(t, "Keep", updated.Data.Title)
	require.Equal(t, domain.PriorityLow, updated.Data.Priority)
}

func TestLogout_RevokesToken(t *testing.T) {
	t.Parallel()

	app := newTestApp()
	resp := app.do(t, http.MethodPost, "/api/register",
		`{"name":"Ann","email":"a@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, resp.status)
	cookie := app.login(t, "a@x.com", "secret1")

	resp = app.do(t, http.MethodPost, "/api/logout", "", cookie)
	require.Equal(t, http.StatusOK, resp.status)
	require.Equal(t, "Logged out successfully", resp.env.Message)

	// The token is dead even if a client keeps replaying it.
	resp = app.do(t, http.MethodGet, "/api/me", "", cookie)
	require.Equal(t, http.StatusUnauthorized, resp.status)
}

func TestTasks_InvalidPaginationRejected(t *testing.T) {
	t.Parallel()

	app := newTestApp()
	resp := app.do(t, http.MethodPost, "/api/register",
		`{"name":"Ann","email":"a@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, resp.status)
	cookie := app.login(t, "a@x.com", "secret1")

	for _, uri := range []string{
		"/api/tasks?page=0",
		"/api/tasks?page=abc",
		"/api/tasks?perPage=101",
		"/api/tasks?perPage=0",
	} {
		resp := app.do(t, http.MethodGet, uri, "", cookie)
		require.Equal(t, http.StatusBadRequest, resp.status, uri)
	}
}
