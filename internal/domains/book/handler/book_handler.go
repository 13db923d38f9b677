package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"gcmn-library-backend/internal/domains/book/model"
	"gcmn-library-backend/internal/domains/book/service"
	"gcmn-library-backend/internal/shared/response"
	"gcmn-library-backend/pkg/logger"
)

type BookHandler struct {
	service service.ServiceInterface
}

func NewBookHandler(svc service.ServiceInterface) *BookHandler {
	return &BookHandler{service: svc}
}

// POST /api/books (admin)
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid book payload")
		return
	}

	image, err := readImage(c)
	if err != nil {
		response.BadRequest(c, "Invalid book image")
		return
	}

	book, err := h.service.CreateBook(c.Request.Context(), req, image)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, book)
}

// GET /api/books
func (h *BookHandler) ListBooks(c *gin.Context) {
	books, err := h.service.ListBooks(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.List(c, books, len(books))
}

// GET /api/books/:id
func (h *BookHandler) GetBook(c *gin.Context) {
	book, err := h.service.GetBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, book)
}

// PUT /api/books/:id (admin)
func (h *BookHandler) UpdateBook(c *gin.Context) {
	var req model.UpdateBookRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid book payload")
		return
	}

	image, err := readImage(c)
	if err != nil {
		response.BadRequest(c, "Invalid book image")
		return
	}

	book, err := h.service.UpdateBook(c.Request.Context(), c.Param("id"), req, image)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, book)
}

// DELETE /api/books/:id (admin)
func (h *BookHandler) DeleteBook(c *gin.Context) {
	if err := h.service.DeleteBook(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Book deleted successfully"})
}

// POST /api/books/import (admin, multipart field "file")
func (h *BookHandler) ImportBooks(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Workbook file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(c, "Failed to read workbook")
		return
	}

	summary, err := h.service.ImportBooks(c.Request.Context(), data)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

func (h *BookHandler) writeError(c *gin.Context, err error) {
	var vErrs validation.Errors
	switch {
	case errors.Is(err, model.ErrBookNotFound):
		response.NotFound(c, "Book not found")
	case errors.Is(err, model.ErrInvalidCopies):
		response.BadRequest(c, err.Error())
	case errors.As(err, &vErrs):
		response.ValidationFailed(c, vErrs)
	default:
		logger.Error("book handler", err)
		response.InternalServerError(c, "Something went wrong")
	}
}

// readImage pulls the optional "bookImage" multipart file.
func readImage(c *gin.Context) (*service.ImageUpload, error) {
	fh, err := c.FormFile("bookImage")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || err.Error() == "missing form body" {
			return nil, nil
		}
		return nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return &service.ImageUpload{
		Data:        data,
		ContentType: fh.Header.Get("Content-Type"),
		Filename:    fh.Filename,
	}, nil
}
