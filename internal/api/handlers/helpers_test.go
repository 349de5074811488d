package handlers

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hugh/taskflow/internal/api/middleware"
	"github.com/hugh/taskflow/internal/auth"
	"github.com/hugh/taskflow/internal/database/models"
	"github.com/hugh/taskflow/internal/projects"
	"github.com/hugh/taskflow/internal/tasks"
	"github.com/hugh/taskflow/internal/testutil"
	"gorm.io/gorm"
)

// testEnv mounts the handlers behind the same routes and auth
// middleware the server uses.
type testEnv struct {
	db     *gorm.DB
	jwt    *auth.JWTService
	router chi.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtService := testutil.CreateTestJWTService()
	authService := auth.NewService(db, jwtService)
	projectService := projects.NewService(db, logger)
	taskService := tasks.NewService(db, logger)

	authHandler := NewAuthHandler(authService)
	projectHandler := NewProjectHandler(projectService)
	taskHandler := NewTaskHandler(taskService)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(jwtService))

			r.Get("/auth/profile", authHandler.Profile)
			r.Put("/auth/profile", authHandler.UpdateProfile)
			r.Get("/auth/users", authHandler.ListUsers)

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", projectHandler.List)
				r.Post("/", projectHandler.Create)
				r.Get("/{id}", projectHandler.Get)
				r.Put("/{id}", projectHandler.Update)
				r.Delete("/{id}", projectHandler.Delete)
				r.Get("/{id}/stats", projectHandler.Stats)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/project/{projectId}", taskHandler.ListByProject)
				r.Get("/my-tasks", taskHandler.ListMine)
				r.Post("/", taskHandler.Create)
				r.Get("/{id}", taskHandler.Get)
				r.Put("/{id}", taskHandler.Update)
				r.Delete("/{id}", taskHandler.Delete)
				r.Post("/{id}/comments", taskHandler.AddComment)
				r.Patch("/{id}/status", taskHandler.UpdateStatus)
			})
		})
	})

	return &testEnv{db: db, jwt: jwtService, router: r}
}

func (e *testEnv) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	return testutil.GenerateTestToken(t, e.jwt, user)
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.AuthenticatedRequest(t, method, path, body, token)
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}
