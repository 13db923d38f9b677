package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"gcmn-library-backend/internal/config"
	"gcmn-library-backend/internal/domains/identity/model"
	"gcmn-library-backend/internal/domains/identity/service"
	"gcmn-library-backend/internal/shared/middleware"
	"gcmn-library-backend/internal/shared/response"
	"gcmn-library-backend/pkg/logger"
)

type IdentityHandler struct {
	service service.ServiceInterface
	session config.SessionConfig
	secure  bool
}

func NewIdentityHandler(svc service.ServiceInterface, session config.SessionConfig, environment string) *IdentityHandler {
	return &IdentityHandler{
		service: svc,
		session: session,
		secure:  environment == "production",
	}
}

// ========================================
// AUTH
// ========================================

// POST /api/auth/register
func (h *IdentityHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid registration payload")
		return
	}

	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.setSessionCookie(c, result.SessionToken)
	response.Success(c, http.StatusCreated, result)
}

// POST /api/auth/login
func (h *IdentityHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid login payload")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.setSessionCookie(c, result.SessionToken)
	response.Success(c, http.StatusOK, result)
}

// POST /api/auth/logout
func (h *IdentityHandler) Logout(c *gin.Context) {
	if token := middleware.GetSessionToken(c); token != "" {
		if err := h.service.Logout(c.Request.Context(), token); err != nil {
			logger.Error("destroy session", err)
		}
	}

	h.clearSessionCookie(c)
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GET /api/auth/me
func (h *IdentityHandler) Me(c *gin.Context) {
	me, err := h.service.CurrentUser(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, me)
}

// ========================================
// PROFILE
// ========================================

// GET /api/profile
func (h *IdentityHandler) GetProfile(c *gin.Context) {
	profile, err := h.service.GetProfile(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// PUT /api/profile
func (h *IdentityHandler) UpdateProfile(c *gin.Context) {
	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid profile payload")
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// ========================================
// ADMIN DIRECTORY
// ========================================

// GET /api/admin/users
func (h *IdentityHandler) ListUsers(c *gin.Context) {
	directory, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, directory)
}

// DELETE /api/admin/users/:id
func (h *IdentityHandler) DeleteUser(c *gin.Context) {
	if err := h.service.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// ========================================
// HELPERS
// ========================================

func (h *IdentityHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CookieName, token, h.session.TTLHours*3600, "/", "", h.secure, true)
}

func (h *IdentityHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CookieName, "", -1, "/", "", h.secure, true)
}

func (h *IdentityHandler) writeError(c *gin.Context, err error) {
	var vErrs validation.Errors
	switch {
	case errors.Is(err, model.ErrNotAuthenticated):
		response.Unauthorized(c, "Authentication required")
	case errors.Is(err, model.ErrInvalidCredentials):
		response.Unauthorized(c, "Invalid email or password")
	case errors.Is(err, model.ErrCardNotFound):
		response.Unauthorized(c, "Library card not found")
	case errors.Is(err, model.ErrCardPending):
		response.Forbidden(c, "Your library card application is still pending approval")
	case errors.Is(err, model.ErrCardRejected):
		response.Forbidden(c, "Your library card application was rejected")
	case errors.Is(err, model.ErrCardInactive):
		response.Forbidden(c, "Your library card is not active")
	case errors.Is(err, model.ErrEmailAlreadyExists):
		response.Conflict(c, "An account with this email already exists")
	case errors.Is(err, model.ErrUserNotFound):
		response.NotFound(c, "User not found")
	case errors.Is(err, model.ErrProtectedAccount):
		response.Forbidden(c, "This account cannot be deleted")
	case errors.Is(err, model.ErrForbidden):
		response.Forbidden(c, "Admin access required")
	case errors.As(err, &vErrs):
		response.ValidationFailed(c, vErrs)
	default:
		logger.Error("identity handler", err)
		response.InternalServerError(c, "Something went wrong")
	}
}
