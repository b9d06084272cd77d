package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskdeck/backend/api/handler"
	"github.com/taskdeck/backend/api/transport"
	"github.com/taskdeck/backend/internal/middleware"
)

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	Task   *apiHandler.TaskHandler
	Health *apiHandler.HealthHandler
}

// Middleware carries the chain pieces the route table composes.
type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

func New(handlers Handlers, auth Middleware) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/register", middleware.Validate(transport.RegisterSchema)(handlers.Auth.Register))
	r.POST("/api/login", middleware.Validate(transport.LoginSchema)(handlers.Auth.Login))
	r.GET("/api/me", auth(handlers.Auth.Me))
	r.POST("/api/logout", auth(handlers.Auth.Logout))

	// Protected task routes
	r.GET("/api/tasks", auth(handlers.Task.List))
	r.POST("/api/tasks", auth(middleware.Validate(transport.CreateTaskSchema)(handlers.Task.Create)))
	r.GET("/api/tasks/{id}", auth(handlers.Task.Get))
	r.PATCH("/api/tasks/{id}", auth(middleware.Validate(transport.UpdateTaskSchema)(handlers.Task.Update)))
	r.DELETE("/api/tasks/{id}", auth(handlers.Task.Delete))

	return r
}
