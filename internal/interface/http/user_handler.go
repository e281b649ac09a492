package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"geoatlas/internal/application"
	"geoatlas/internal/domain/entity"
	"geoatlas/pkg/response"
	"geoatlas/pkg/validation"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Name     string `json:"name" binding:"omitempty,max=100"`
}

type signinRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *entity.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

// Register is the open signup endpoint.
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toUserResponse(u), "user created", nil)
}

func (h *UserHandler) Signin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Signin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"token": res.Token,
		"user":  toUserResponse(res.User),
	}, "signin successful", map[string]any{"expires_at": res.ExpiresAt})
}

func (h *UserHandler) Signout(c *gin.Context) {
	if err := h.Svc.Signout(c.Request.Context(), currentUserID(c)); err != nil {
		writeError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"signed_out": true}, "signed out", nil)
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "user", nil)
}

// Delete removes a user account. Their countries survive with the owner
// cleared, so they vanish from the scoped listings.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List pages through users two at a time, ordered by email. The next cursor
// rides in the meta section; it is absent on the last page.
func (h *UserHandler) List(c *gin.Context) {
	page, err := h.Svc.List(c.Request.Context(), c.Query("cursor"))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]userResponse, len(page.Users))
	for i, u := range page.Users {
		out[i] = toUserResponse(u)
	}
	var meta any
	if page.NextCursor != "" {
		meta = map[string]any{"next_cursor": page.NextCursor}
	}
	response.Success(c, http.StatusOK, out, "users", meta)
}
