package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"gcmn-library-backend/internal/domains/donation/model"
	"gcmn-library-backend/internal/domains/donation/service"
	"gcmn-library-backend/internal/shared/response"
	"gcmn-library-backend/pkg/logger"
)

type DonationHandler struct {
	service service.ServiceInterface
}

func NewDonationHandler(svc service.ServiceInterface) *DonationHandler {
	return &DonationHandler{service: svc}
}

// POST /api/donations (public)
func (h *DonationHandler) CreateDonation(c *gin.Context) {
	var req model.CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid donation payload")
		return
	}

	donation, err := h.service.CreateDonation(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, donation)
}

// GET /api/donations (admin)
func (h *DonationHandler) ListDonations(c *gin.Context) {
	donations, err := h.service.ListDonations(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, donations)
}

// DELETE /api/donations/:id (admin)
func (h *DonationHandler) DeleteDonation(c *gin.Context) {
	if err := h.service.DeleteDonation(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Donation deleted successfully"})
}

func (h *DonationHandler) writeError(c *gin.Context, err error) {
	var vErrs validation.Errors
	switch {
	case errors.Is(err, model.ErrDonationNotFound):
		response.NotFound(c, "Donation not found")
	case errors.Is(err, model.ErrInvalidAmount):
		response.BadRequest(c, err.Error())
	case errors.As(err, &vErrs):
		response.ValidationFailed(c, vErrs)
	default:
		logger.Error("donation handler", err)
		response.InternalServerError(c, "Something went wrong")
	}
}
