package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	bookModel "gcmn-library-backend/internal/domains/book/model"
	"gcmn-library-backend/internal/domains/borrow/model"
	"gcmn-library-backend/internal/domains/borrow/service"
	identityModel "gcmn-library-backend/internal/domains/identity/model"
	"gcmn-library-backend/internal/shared/middleware"
	"gcmn-library-backend/internal/shared/response"
	"gcmn-library-backend/pkg/logger"
)

type BorrowHandler struct {
	service service.ServiceInterface
}

func NewBorrowHandler(svc service.ServiceInterface) *BorrowHandler {
	return &BorrowHandler{service: svc}
}

// POST /api/borrows
func (h *BorrowHandler) Borrow(c *gin.Context) {
	var req model.BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid borrow payload")
		return
	}

	record, err := h.service.Borrow(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, record)
}

// GET /api/borrows (admin)
func (h *BorrowHandler) ListBorrows(c *gin.Context) {
	records, err := h.service.ListBorrows(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.List(c, records, len(records))
}

// GET /api/borrows/my
func (h *BorrowHandler) ListMyBorrows(c *gin.Context) {
	records, err := h.service.ListMyBorrows(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, records)
}

// POST /api/borrows/:id/return (admin)
func (h *BorrowHandler) MarkReturned(c *gin.Context) {
	var body struct {
		ReturnDate *time.Time `json:"returnDate"`
	}
	// An empty body means "returned now".
	_ = c.ShouldBindJSON(&body)

	record, err := h.service.MarkReturned(c.Request.Context(), c.Param("id"), body.ReturnDate)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, record)
}

// PUT /api/borrows/:id/status (admin)
func (h *BorrowHandler) UpdateStatus(c *gin.Context) {
	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid status payload")
		return
	}

	record, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, record)
}

// DELETE /api/borrows/:id (admin)
func (h *BorrowHandler) DeleteBorrow(c *gin.Context) {
	if err := h.service.DeleteBorrow(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Borrow record deleted successfully"})
}

func (h *BorrowHandler) writeError(c *gin.Context, err error) {
	var vErrs validation.Errors
	switch {
	case errors.Is(err, identityModel.ErrNotAuthenticated):
		response.Unauthorized(c, "Authentication required")
	case errors.Is(err, model.ErrBorrowNotFound):
		response.NotFound(c, "Borrow record not found")
	case errors.Is(err, bookModel.ErrBookNotFound):
		response.NotFound(c, "Book not found")
	case errors.Is(err, model.ErrNoCopiesAvailable):
		response.NoCopiesAvailable(c, "No copies of this book are available")
	case errors.Is(err, model.ErrAlreadyReturned):
		response.Conflict(c, "Book has already been returned")
	case errors.Is(err, model.ErrInvalidBorrowStatus):
		response.BadRequest(c, "Invalid borrow status")
	case errors.As(err, &vErrs):
		response.ValidationFailed(c, vErrs)
	default:
		logger.Error("borrow handler", err)
		response.InternalServerError(c, "Something went wrong")
	}
}
