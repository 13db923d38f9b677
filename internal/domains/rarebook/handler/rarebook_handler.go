package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"gcmn-library-backend/internal/domains/rarebook/model"
	"gcmn-library-backend/internal/domains/rarebook/service"
	"gcmn-library-backend/internal/shared/response"
	"gcmn-library-backend/pkg/logger"
)

type RareBookHandler struct {
	service service.ServiceInterface
}

func NewRareBookHandler(svc service.ServiceInterface) *RareBookHandler {
	return &RareBookHandler{service: svc}
}

// POST /api/rare-books (admin, multipart: "file" PDF + optional "cover")
func (h *RareBookHandler) CreateRareBook(c *gin.Context) {
	var req model.CreateRareBookRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid rare book payload")
		return
	}

	pdf, err := readFormFile(c, "file")
	if err != nil || len(pdf) == 0 {
		response.BadRequest(c, "Rare book PDF is required")
		return
	}

	book, err := h.service.CreateRareBook(c.Request.Context(), req, pdf, readCover(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, book)
}

// GET /api/rare-books (public, active only)
func (h *RareBookHandler) ListActiveRareBooks(c *gin.Context) {
	books, err := h.service.ListActiveRareBooks(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, books)
}

// GET /api/admin/rare-books (admin, includes inactive)
func (h *RareBookHandler) ListRareBooks(c *gin.Context) {
	books, err := h.service.ListRareBooks(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, books)
}

// PUT /api/rare-books/:id (admin)
func (h *RareBookHandler) UpdateRareBook(c *gin.Context) {
	var req model.UpdateRareBookRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid rare book payload")
		return
	}

	pdf, _ := readFormFile(c, "file")

	book, err := h.service.UpdateRareBook(c.Request.Context(), c.Param("id"), req, pdf, readCover(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, book)
}

// DELETE /api/rare-books/:id (admin)
func (h *RareBookHandler) DeleteRareBook(c *gin.Context) {
	if err := h.service.DeleteRareBook(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Rare book deleted successfully"})
}

// POST /api/rare-books/:id/stream-token (public)
func (h *RareBookHandler) GrantStream(c *gin.Context) {
	grant, err := h.service.GrantStream(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, grant)
}

// GET /api/rare-books/stream?token= (public, token-gated)
// The PDF renders inline and is marked uncacheable.
func (h *RareBookHandler) Stream(c *gin.Context) {
	book, data, err := h.service.Stream(c.Request.Context(), c.Query("token"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", book.Title+".pdf"))
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *RareBookHandler) writeError(c *gin.Context, err error) {
	var vErrs validation.Errors
	switch {
	case errors.Is(err, model.ErrRareBookNotFound):
		response.NotFound(c, "Rare book not found")
	case errors.Is(err, model.ErrRareBookInactive):
		response.Forbidden(c, "Rare book is not available")
	case errors.Is(err, model.ErrInvalidStream):
		response.Unauthorized(c, "Invalid or expired stream token")
	case errors.As(err, &vErrs):
		response.ValidationFailed(c, vErrs)
	default:
		logger.Error("rare book handler", err)
		response.InternalServerError(c, "Something went wrong")
	}
}

func readFormFile(c *gin.Context, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func readCover(c *gin.Context) *service.CoverUpload {
	fh, err := c.FormFile("cover")
	if err != nil {
		return nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil
	}
	return &service.CoverUpload{
		Data:        data,
		ContentType: fh.Header.Get("Content-Type"),
		Filename:    fh.Filename,
	}
}
