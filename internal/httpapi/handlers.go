package httpapi

import (
	"net/http"
	"time"

	"teamtasks/internal/model"
	"teamtasks/internal/service"
)

// ---- users

type createUserRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := s.users.Create(r.Context(), req.Email, req.DisplayName)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Get(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type updateUserRequest struct {
	DisplayName string `json:"displayName"`
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := s.users.Update(r.Context(), userIDFrom(r.Context()), r.PathValue("id"), req.DisplayName)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ---- task lists

type taskListRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleCreateTaskList(w http.ResponseWriter, r *http.Request) {
	var req taskListRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	list, err := s.taskLists.Create(r.Context(), userIDFrom(r.Context()), req.Name, req.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

func (s *Server) handleListTaskLists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.taskLists.List(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (s *Server) handleGetTaskList(w http.ResponseWriter, r *http.Request) {
	list, err := s.taskLists.Get(r.Context(), userIDFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleUpdateTaskList(w http.ResponseWriter, r *http.Request) {
	var req taskListRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	list, err := s.taskLists.Update(r.Context(), userIDFrom(r.Context()), r.PathValue("id"), req.Name, req.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleDeleteTaskList(w http.ResponseWriter, r *http.Request) {
	if err := s.taskLists.Delete(r.Context(), userIDFrom(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- members

type addMemberRequest struct {
	UserID string     `json:"userId"`
	Role   model.Role `json:"role"`
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.taskLists.ListMembers(r.Context(), userIDFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	membership, err := s.taskLists.AddMember(r.Context(), userIDFrom(r.Context()), r.PathValue("id"), req.UserID, req.Role)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, membership)
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	members, err := s.taskLists.RemoveMember(r.Context(), userIDFrom(r.Context()), r.PathValue("id"), r.PathValue("userId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

// ---- tasks

type ruleRequest struct {
	Frequency       model.Frequency        `json:"frequency"`
	Interval        int                    `json:"interval"`
	DaysOfWeek      []int                  `json:"daysOfWeek"`
	DaysOfMonth     []int                  `json:"daysOfMonth"`
	MonthsOfYear    []int                  `json:"monthsOfYear"`
	OrdinalWeekdays []model.OrdinalWeekday `json:"ordinalWeekdays"`
}

type taskRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	DueDate     *time.Time   `json:"dueDate"`
	IsRecurring bool         `json:"isRecurring"`
	Rule        *ruleRequest `json:"recurrenceRule"`
}

func (req taskRequest) toInput() service.TaskInput {
	input := service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		IsRecurring: req.IsRecurring,
	}
	if req.Rule != nil {
		input.Rule = &service.RuleInput{
			Frequency:       req.Rule.Frequency,
			Interval:        req.Rule.Interval,
			DaysOfWeek:      req.Rule.DaysOfWeek,
			DaysOfMonth:     req.Rule.DaysOfMonth,
			MonthsOfYear:    req.Rule.MonthsOfYear,
			OrdinalWeekdays: req.Rule.OrdinalWeekdays,
		}
	}
	return input
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	task, err := s.tasks.Create(r.Context(), userIDFrom(r.Context()), r.PathValue("id"), req.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.List(r.Context(), userIDFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.Get(r.Context(), userIDFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	task, err := s.tasks.Update(r.Context(), userIDFrom(r.Context()), r.PathValue("id"), req.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.Delete(r.Context(), userIDFrom(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.Assign(r.Context(), userIDFrom(r.Context()), r.PathValue("id"), r.PathValue("userId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleUnassign(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.Unassign(r.Context(), userIDFrom(r.Context()), r.PathValue("id"), r.PathValue("userId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// ---- occurrences

func (s *Server) handleListOccurrences(w http.ResponseWriter, r *http.Request) {
	occurrences, err := s.taskLists.ListOccurrences(r.Context(), userIDFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, occurrences)
}

type completionRequest struct {
	Completed bool `json:"completed"`
}

func (s *Server) handleSetCompletion(w http.ResponseWriter, r *http.Request) {
	var req completionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	occurrence, err := s.completions.SetCompletion(r.Context(), userIDFrom(r.Context()), r.PathValue("id"), req.Completed)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, occurrence)
}
