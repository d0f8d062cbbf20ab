package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/teamboard/backend/api/handler"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	User    *apiHandler.UserHandler
	Project *apiHandler.ProjectHandler
	Task    *apiHandler.TaskHandler
	Health  *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/register", handlers.Auth.Register)
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/refresh", authMiddleware(handlers.Auth.Refresh))
	r.POST("/api/v1/auth/logout", authMiddleware(handlers.Auth.Logout))

	// Workspace administration
	r.GET("/api/v1/users", authMiddleware(handlers.User.List))
	r.POST("/api/v1/users", authMiddleware(handlers.User.Create))
	r.PUT("/api/v1/users/{id}", authMiddleware(handlers.User.Update))
	r.DELETE("/api/v1/users/{id}", authMiddleware(handlers.User.Delete))
	r.DELETE("/api/v1/workspace", authMiddleware(handlers.User.DeleteWorkspace))

	// Projects
	r.GET("/api/v1/projects", authMiddleware(handlers.Project.List))
	r.POST("/api/v1/projects", authMiddleware(handlers.Project.Create))
	r.GET("/api/v1/projects/{id}", authMiddleware(handlers.Project.Get))
	r.PUT("/api/v1/projects/{id}", authMiddleware(handlers.Project.Update))
	r.DELETE("/api/v1/projects/{id}", authMiddleware(handlers.Project.Delete))
	r.PUT("/api/v1/projects/{id}/members", authMiddleware(handlers.Project.SetMembers))
	r.GET("/api/v1/projects/{id}/tasks", authMiddleware(handlers.Project.ListTasks))
	r.GET("/api/v1/projects/{id}/dependencies", authMiddleware(handlers.Project.ListDependencies))

	// Tasks
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.Create))
	r.GET("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Get))
	r.PUT("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Update))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Delete))

	// Dependencies
	r.POST("/api/v1/dependencies", authMiddleware(handlers.Task.AddDependency))
	r.DELETE("/api/v1/dependencies", authMiddleware(handlers.Task.RemoveDependency))

	// Comments
	r.GET("/api/v1/tasks/{id}/comments", authMiddleware(handlers.Task.ListComments))
	r.POST("/api/v1/tasks/{id}/comments", authMiddleware(handlers.Task.PostComment))

	return r
}
