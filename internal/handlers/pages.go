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

// PageHandler renders the server-side HTML surface. Same services as the
// REST handlers underneath; only the presentation differs.
type PageHandler struct {
	sessions *auth.Store
	userSvc  *service.UserService
	taskSvc  *service.TaskService
}

func NewPageHandler(sessions *auth.Store, userSvc *service.UserService, taskSvc *service.TaskService) *PageHandler {
	return &PageHandler{sessions: sessions, userSvc: userSvc, taskSvc: taskSvc}
}

// taskView is a template-friendly task projection.
type taskView struct {
	ID          int64
	Name        string
	Description string
	Status      string
	CreatedAt   string
	UpdatedAt   string
}

func toTaskView(t dom.Task) taskView {
	return taskView{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt.Format("2006-01-02 15:04"),
		UpdatedAt:   t.UpdatedAt.Format("2006-01-02 15:04"),
	}
}

// TaskList renders the task list with the search form. The form submits via
// POST, so both verbs serve the same page.
func (h *PageHandler) TaskList(c *gin.Context) {
	q := formOrQuery(c, "q")
	dateFrom := formOrQuery(c, "date_from")
	dateTo := formOrQuery(c, "date_to")

	filter := dto.ParseTaskFilter(q, dateFrom, dateTo)
	list, err := h.taskSvc.List(c.Request.Context(), auth.UserIDFromContext(c), filter)
	if err != nil {
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	views := make([]taskView, len(list))
	for i := range list {
		views[i] = toTaskView(list[i])
	}
	c.HTML(http.StatusOK, "task_list.html", gin.H{
		"Tasks":    views,
		"Q":        q,
		"DateFrom": dateFrom,
		"DateTo":   dateTo,
	})
}

// TaskCreateForm renders the empty create form.
func (h *PageHandler) TaskCreateForm(c *gin.Context) {
	c.HTML(http.StatusOK, "task_form.html", gin.H{
		"Title":       "Create task",
		"Action":      "/tasks/create",
		"Name":        "",
		"Description": "",
		"Status":      string(dom.StatusNotStarted),
	})
}

// TaskCreate handles the create form submission.
func (h *PageHandler) TaskCreate(c *gin.Context) {
	name := c.PostForm("name")
	description := c.PostForm("description")
	status := dom.Status(c.PostForm("status"))

	_, err := h.taskSvc.Create(c.Request.Context(), auth.UserIDFromContext(c), name, description, status)
	if err != nil {
		if ve := service.AsValidation(err); ve != nil {
			c.HTML(http.StatusBadRequest, "task_form.html", gin.H{
				"Title":       "Create task",
				"Action":      "/tasks/create",
				"Errors":      ve.Fields,
				"Name":        name,
				"Description": description,
				"Status":      string(status),
			})
			return
		}
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.Redirect(http.StatusSeeOther, "/tasks")
}

// TaskUpdateForm renders the update form. The lookup is owner-scoped before
// anything is shown, so another user's task 404s instead of leaking the form.
func (h *PageHandler) TaskUpdateForm(c *gin.Context) {
	id, ok := parsePageID(c)
	if !ok {
		return
	}
	t, err := h.taskSvc.GetByID(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		writePageError(c, err)
		return
	}
	c.HTML(http.StatusOK, "task_form.html", gin.H{
		"Title":       "Update task",
		"Action":      c.Request.URL.Path,
		"Name":        t.Name,
		"Description": t.Description,
		"Status":      string(t.Status),
	})
}

// TaskUpdate handles the update form submission.
func (h *PageHandler) TaskUpdate(c *gin.Context) {
	id, ok := parsePageID(c)
	if !ok {
		return
	}
	name := c.PostForm("name")
	description := c.PostForm("description")
	status := dom.Status(c.PostForm("status"))

	_, err := h.taskSvc.Update(c.Request.Context(), auth.UserIDFromContext(c), id, &name, &description, &status)
	if err != nil {
		if ve := service.AsValidation(err); ve != nil {
			c.HTML(http.StatusBadRequest, "task_form.html", gin.H{
				"Title":       "Update task",
				"Action":      c.Request.URL.Path,
				"Errors":      ve.Fields,
				"Name":        name,
				"Description": description,
				"Status":      string(status),
			})
			return
		}
		writePageError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/tasks")
}

// TaskDeleteConfirm renders the delete confirmation page, owner-scoped.
func (h *PageHandler) TaskDeleteConfirm(c *gin.Context) {
	id, ok := parsePageID(c)
	if !ok {
		return
	}
	t, err := h.taskSvc.GetByID(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		writePageError(c, err)
		return
	}
	c.HTML(http.StatusOK, "task_confirm_delete.html", gin.H{
		"Task":   toTaskView(t),
		"Action": c.Request.URL.Path,
	})
}

// TaskDelete handles the delete confirmation submission.
func (h *PageHandler) TaskDelete(c *gin.Context) {
	id, ok := parsePageID(c)
	if !ok {
		return
	}
	if err := h.taskSvc.Delete(c.Request.Context(), auth.UserIDFromContext(c), id); err != nil {
		writePageError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/tasks")
}

// RegisterForm renders the registration form.
func (h *PageHandler) RegisterForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{"Username": ""})
}

// Register handles the registration form submission and redirects to login.
func (h *PageHandler) Register(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password1")
	password2 := c.PostForm("password2")

	_, err := h.userSvc.Register(c.Request.Context(), username, password, password2)
	if err != nil {
		if ve := service.AsValidation(err); ve != nil {
			c.HTML(http.StatusBadRequest, "register.html", gin.H{
				"Errors":   ve.Fields,
				"Username": username,
			})
			return
		}
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

// LoginForm renders the login form.
func (h *PageHandler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"Username": ""})
}

// Login handles the login form submission.
func (h *PageHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.userSvc.ValidateCredentials(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.HTML(http.StatusBadRequest, "login.html", gin.H{
				"Error":    "Invalid username or password.",
				"Username": username,
			})
			return
		}
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	sessionID, err := h.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.SetCookie(auth.SessionCookieName, sessionID, int(h.sessions.TTL().Seconds()), "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/tasks")
}

// Logout destroys the session and redirects to login.
func (h *PageHandler) Logout(c *gin.Context) {
	if sessionID, err := c.Cookie(auth.SessionCookieName); err == nil && sessionID != "" {
		_ = h.sessions.Delete(c.Request.Context(), sessionID)
	}
	c.SetCookie(auth.SessionCookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/login")
}

func formOrQuery(c *gin.Context, name string) string {
	if c.Request.Method == http.MethodPost {
		return c.PostForm(name)
	}
	return c.Query(name)
}

func parsePageID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.String(http.StatusNotFound, "not found")
		return 0, false
	}
	return id, true
}

func writePageError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		c.String(http.StatusNotFound, "not found")
		return
	}
	c.String(http.StatusInternalServerError, "internal error")
}
