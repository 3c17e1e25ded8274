package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gersa28/Invera-ToDo-List/internal/auth"
	"github.com/Gersa28/Invera-ToDo-List/internal/dto"
	"github.com/Gersa28/Invera-ToDo-List/internal/service"
)

// APIAuthHandler handles register, login and logout on the REST surface.
type APIAuthHandler struct {
	sessions *auth.Store
	userSvc  *service.UserService
}

// NewAPIAuthHandler returns a new APIAuthHandler.
func NewAPIAuthHandler(sessions *auth.Store, userSvc *service.UserService) *APIAuthHandler {
	return &APIAuthHandler{sessions: sessions, userSvc: userSvc}
}

// Register godoc
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "Credentials with confirmation"
// @Success      201   {object}  map[string]dto.UserResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/register/ [post]
func (h *APIAuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.userSvc.Register(c.Request.Context(), req.Username, req.Password, req.Password2)
	if err != nil {
		if ve := service.AsValidation(err); ve != nil {
			c.JSON(http.StatusBadRequest, ve.Fields)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": dto.UserResponse{ID: user.ID, Username: user.Username}})
}

// Login godoc
// @Summary      Login
// @Description  Logs out any existing session first, then authenticates.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/login/ [post]
func (h *APIAuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Drop any session the caller already holds before re-authenticating.
	if old, err := c.Cookie(auth.SessionCookieName); err == nil && old != "" {
		_ = h.sessions.Delete(c.Request.Context(), old)
	}

	user, err := h.userSvc.ValidateCredentials(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// Same body for unknown user and wrong password.
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	sessionID, err := h.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	c.SetCookie(auth.SessionCookieName, sessionID, int(h.sessions.TTL().Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "Username": user.Username})
}

// Logout godoc
// @Summary      Logout
// @Description  Supported on both GET and POST; idempotent.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/logout/ [post]
func (h *APIAuthHandler) Logout(c *gin.Context) {
	if sessionID, err := c.Cookie(auth.SessionCookieName); err == nil && sessionID != "" {
		_ = h.sessions.Delete(c.Request.Context(), sessionID)
	}
	c.SetCookie(auth.SessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logout successful"})
}
