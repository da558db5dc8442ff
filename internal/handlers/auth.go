package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/authz"
	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/dto"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a user and joins or creates the named organization.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Username         string `json:"username" binding:"required,max=150"`
		Password         string `json:"password" binding:"required"`
		Email            string `json:"email" binding:"omitempty,email"`
		OrganizationName string `json:"organization_name" binding:"required,max=255"`
	}

	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Register(services.RegisterInput{
		Username:         req.Username,
		Password:         req.Password,
		Email:            req.Email,
		OrganizationName: req.OrganizationName,
	})
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	org := dto.ToOrganizationDTO(*result.Organization, authz.IsOrgAdmin(authz.ForUser(result.User), result.Organization))
	c.JSON(http.StatusCreated, dto.AuthResponse{
		User:         dto.ToProfileDTO(*result.User),
		Organization: &org,
		Token:        result.Token,
	})
}

// Login authenticates a user, initializes the session and returns a token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, result.User.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		User:  dto.ToProfileDTO(*result.User),
		Token: result.Token,
	})
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

type tokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// VerifyToken returns the payload of a valid token.
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	var req tokenRequest
	if !bindJSON(c, &req) {
		return
	}

	claims, err := h.authService.VerifyToken(req.Token)
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payload": claims,
	})
}

// RefreshToken exchanges a token for a new one within the refresh window.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req tokenRequest
	if !bindJSON(c, &req) {
		return
	}

	signed, claims, err := h.authService.RefreshToken(req.Token)
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   signed,
		"payload": claims,
	})
}

// Me returns the current user, or null for anonymous callers.
func (h *AuthHandler) Me(c *gin.Context) {
	user := h.authService.Me(middleware.GetActor(c))
	if user == nil {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": dto.ToProfileDTO(*user)})
}
