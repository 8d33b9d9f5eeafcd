package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/junaydb/kanban-board/api/handler"
)

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	Board  *apiHandler.BoardHandler
	Task   *apiHandler.TaskHandler
	Health *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/refresh", handlers.Auth.Refresh)

	// Boards
	r.GET("/api/v1/boards", authMiddleware(handlers.Board.ListBoards))
	r.POST("/api/v1/boards", authMiddleware(handlers.Board.CreateBoard))
	r.GET("/api/v1/boards/{boardId}", authMiddleware(handlers.Board.GetBoard))
	r.PATCH("/api/v1/boards/{boardId}/title", authMiddleware(handlers.Board.RenameBoard))
	r.DELETE("/api/v1/boards/{boardId}", authMiddleware(handlers.Board.DeleteBoard))

	// Tasks, always scoped to a board
	r.GET("/api/v1/boards/{boardId}/tasks", authMiddleware(handlers.Task.GetAllGrouped))
	r.GET("/api/v1/boards/{boardId}/tasks/page", authMiddleware(handlers.Task.GetPage))
	r.GET("/api/v1/boards/{boardId}/tasks/count", authMiddleware(handlers.Task.GetCount))
	r.GET("/api/v1/boards/{boardId}/tasks/search", authMiddleware(handlers.Task.Search))
	r.GET("/api/v1/boards/{boardId}/tasks/{taskId}", authMiddleware(handlers.Task.GetTask))
	r.POST("/api/v1/boards/{boardId}/tasks", authMiddleware(handlers.Task.CreateTask))
	r.PATCH("/api/v1/boards/{boardId}/tasks/{taskId}/status", authMiddleware(handlers.Task.UpdateStatus))
	r.DELETE("/api/v1/boards/{boardId}/tasks/{taskId}", authMiddleware(handlers.Task.DeleteTask))

	// Drag order
	r.PUT("/api/v1/boards/{boardId}/positions", authMiddleware(handlers.Task.UpdatePositions))

	return r
}
