package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	identityModel "gcmn-library-backend/internal/domains/identity/model"
	"gcmn-library-backend/internal/domains/librarycard/model"
	"gcmn-library-backend/internal/domains/librarycard/service"
	"gcmn-library-backend/internal/shared/middleware"
	"gcmn-library-backend/internal/shared/response"
	"gcmn-library-backend/pkg/logger"
)

type CardHandler struct {
	service service.ServiceInterface
}

func NewCardHandler(svc service.ServiceInterface) *CardHandler {
	return &CardHandler{service: svc}
}

// POST /api/library-cards (public; a logged-in account gets linked)
func (h *CardHandler) SubmitApplication(c *gin.Context) {
	var req model.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid application payload")
		return
	}

	var userID *string
	if actor := middleware.GetActor(c); actor.Kind == identityModel.ActorAccount {
		id := actor.AccountID
		userID = &id
	}

	app, err := h.service.SubmitApplication(c.Request.Context(), userID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, app)
}

// GET /api/library-cards (admin)
func (h *CardHandler) ListApplications(c *gin.Context) {
	apps, err := h.service.ListApplications(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, apps)
}

// GET /api/library-cards/my (authenticated)
func (h *CardHandler) ListMyApplications(c *gin.Context) {
	actor := middleware.GetActor(c)

	switch actor.Kind {
	case identityModel.ActorLibraryCard:
		// A card session has exactly one application: its own.
		app, err := h.service.GetApplication(c.Request.Context(), actor.ApplicationID)
		if err != nil {
			h.writeError(c, err)
			return
		}
		response.Success(c, http.StatusOK, []model.Application{*app})

	case identityModel.ActorAccount, identityModel.ActorFixedAdmin:
		apps, err := h.service.ListApplicationsByUser(c.Request.Context(), actor.SessionUserID())
		if err != nil {
			h.writeError(c, err)
			return
		}
		response.Success(c, http.StatusOK, apps)

	default:
		response.Unauthorized(c, "Authentication required")
	}
}

// GET /api/library-cards/:id (admin)
func (h *CardHandler) GetApplication(c *gin.Context) {
	app, err := h.service.GetApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, app)
}

// PATCH /api/library-cards/:id/status (admin)
func (h *CardHandler) SetStatus(c *gin.Context) {
	var req model.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid status payload")
		return
	}

	app, err := h.service.SetStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, app)
}

// DELETE /api/library-cards/:id (admin)
func (h *CardHandler) DeleteApplication(c *gin.Context) {
	if err := h.service.DeleteApplication(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Application deleted successfully"})
}

func (h *CardHandler) writeError(c *gin.Context, err error) {
	var vErrs validation.Errors
	switch {
	case errors.Is(err, model.ErrApplicationNotFound):
		response.NotFound(c, "Application not found")
	case errors.Is(err, model.ErrDuplicateEmail):
		response.Conflict(c, "An application with this email already exists")
	case errors.Is(err, model.ErrInvalidStatus):
		response.BadRequest(c, "Invalid application status")
	case errors.As(err, &vErrs):
		response.ValidationFailed(c, vErrs)
	default:
		logger.Error("library card handler", err)
		response.InternalServerError(c, "Something went wrong")
	}
}
