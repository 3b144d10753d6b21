package handler

import (
	"net/http"

	"ims/internal/apierror"
	"ims/internal/dto"
	"ims/internal/middleware"
	"ims/internal/service"
	"ims/internal/session"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Register godoc
// @Summary Register a user
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequest true "New user"
// @Success 201 {object} dto.UserResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Log in and land on the role's panel
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Failure 403 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Panel returns the caller's panel as recorded in the token's role.
func (h *AuthHandler) Panel(c *gin.Context) {
	claims := middleware.GetClaims(c)
	panel, ok := session.PanelForRole(claims.Role)
	if !ok {
		c.JSON(http.StatusForbidden, apierror.New(session.ErrNoPanelForRole.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":  dto.UserResponse{ID: claims.UserID, Username: claims.Username, Role: claims.Role},
		"panel": service.ToPanelResponse(panel),
	})
}

func (h *AuthHandler) ListUsers(c *gin.Context) {
	resp, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
