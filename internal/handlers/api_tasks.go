package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Gersa28/Invera-ToDo-List/internal/auth"
	dom "github.com/Gersa28/Invera-ToDo-List/internal/domain"
	"github.com/Gersa28/Invera-ToDo-List/internal/dto"
	"github.com/Gersa28/Invera-ToDo-List/internal/service"
)

// APITaskHandler exposes owner-scoped task CRUD as JSON.
type APITaskHandler struct {
	svc *service.TaskService
}

func NewAPITaskHandler(svc *service.TaskService) *APITaskHandler {
	return &APITaskHandler{svc: svc}
}

// List godoc
// @Summary      List the caller's tasks
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Security     BasicAuth
// @Param        q          query  string  false  "Substring over name/description, case-insensitive"
// @Param        date_from  query  string  false  "Created on or after (YYYY-MM-DD)"
// @Param        date_to    query  string  false  "Created on or before (YYYY-MM-DD)"
// @Success      200  {object}  dto.ListTasksResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/tasks/ [get]
func (h *APITaskHandler) List(c *gin.Context) {
	filter := dto.ParseTaskFilter(c.Query("q"), c.Query("date_from"), c.Query("date_to"))
	list, err := h.svc.List(c.Request.Context(), auth.UserIDFromContext(c), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ListTasksResponse{Items: tasksToResponses(list)})
}

// Create godoc
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Security     BasicAuth
// @Param        body  body      dto.CreateTaskRequest  true  "Task body"
// @Success      201   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/tasks/ [post]
func (h *APITaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c),
		req.Name, req.Description, dom.Status(req.Status))
	if err != nil {
		writeTaskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, taskToResponse(t))
}

// GetByID godoc
// @Summary      Get one task
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Security     BasicAuth
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  dto.TaskResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/tasks/{id}/ [get]
func (h *APITaskHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.GetByID(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		writeTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// Update godoc
// @Summary      Update a task
// @Description  Applies only the fields present in the body. A task owned by
// @Description  someone else responds 404, same as a missing id.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Security     BasicAuth
// @Param        id    path      int  true  "Task ID"
// @Param        body  body      dto.UpdateTaskRequest  true  "Partial update"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/tasks/{id}/ [patch]
func (h *APITaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var status *dom.Status
	if req.Status != nil {
		s := dom.Status(*req.Status)
		status = &s
	}
	t, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), id,
		req.Name, req.Description, status)
	if err != nil {
		writeTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// Delete godoc
// @Summary      Delete a task
// @Description  Not idempotent: a second delete of the same id responds 404.
// @Tags         tasks
// @Security     CookieAuth
// @Security     BasicAuth
// @Param        id   path  int  true  "Task ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/tasks/{id}/ [delete]
func (h *APITaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), auth.UserIDFromContext(c), id); err != nil {
		writeTaskError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func writeTaskError(c *gin.Context, err error) {
	if ve := service.AsValidation(err); ve != nil {
		c.JSON(http.StatusBadRequest, ve.Fields)
		return
	}
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		// An unparseable id can't match any row; same outcome as not owned.
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return id, true
}

func taskToResponse(t dom.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:          t.ID,
		User:        t.UserID,
		Name:        t.Name,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func tasksToResponses(list []dom.Task) []dto.TaskResponse {
	out := make([]dto.TaskResponse, len(list))
	for i := range list {
		out[i] = taskToResponse(list[i])
	}
	return out
}
