// Package httpapi binds the transport-agnostic service façade to HTTP
// routes. Identity verification happens upstream; requests arrive with the
// verified user id in a trusted header.
package httpapi

import (
	"net/http"
	"time"

	"teamtasks/internal/service"
)

type Server struct {
	users       *service.UserService
	taskLists   *service.TaskListService
	tasks       *service.TaskService
	completions *service.CompletionService
	mux         *http.ServeMux
}

func NewServer(users *service.UserService, taskLists *service.TaskListService, tasks *service.TaskService, completions *service.CompletionService) *Server {
	srv := &Server{
		users:       users,
		taskLists:   taskLists,
		tasks:       tasks,
		completions: completions,
		mux:         http.NewServeMux(),
	}

	srv.mux.HandleFunc("GET /healthz", srv.handleHealth)

	api := http.NewServeMux()
	api.HandleFunc("POST /users", srv.handleCreateUser)
	api.HandleFunc("GET /users/me", srv.handleMe)
	api.HandleFunc("PATCH /users/{id}", srv.handleUpdateUser)

	api.HandleFunc("POST /task-lists", srv.handleCreateTaskList)
	api.HandleFunc("GET /task-lists", srv.handleListTaskLists)
	api.HandleFunc("GET /task-lists/{id}", srv.handleGetTaskList)
	api.HandleFunc("PATCH /task-lists/{id}", srv.handleUpdateTaskList)
	api.HandleFunc("DELETE /task-lists/{id}", srv.handleDeleteTaskList)

	api.HandleFunc("GET /task-lists/{id}/members", srv.handleListMembers)
	api.HandleFunc("POST /task-lists/{id}/members", srv.handleAddMember)
	api.HandleFunc("DELETE /task-lists/{id}/members/{userId}", srv.handleRemoveMember)

	api.HandleFunc("POST /task-lists/{id}/tasks", srv.handleCreateTask)
	api.HandleFunc("GET /task-lists/{id}/tasks", srv.handleListTasks)
	api.HandleFunc("GET /task-lists/{id}/occurrences", srv.handleListOccurrences)

	api.HandleFunc("GET /tasks/{id}", srv.handleGetTask)
	api.HandleFunc("PUT /tasks/{id}", srv.handleUpdateTask)
	api.HandleFunc("DELETE /tasks/{id}", srv.handleDeleteTask)
	api.HandleFunc("POST /tasks/{id}/assignments/{userId}", srv.handleAssign)
	api.HandleFunc("DELETE /tasks/{id}/assignments/{userId}", srv.handleUnassign)

	api.HandleFunc("PATCH /occurrences/{id}/completion", srv.handleSetCompletion)

	srv.mux.Handle("/", srv.withIdentity(api))

	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	withLogging(s.mux).ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
