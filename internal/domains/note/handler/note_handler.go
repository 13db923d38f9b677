package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"gcmn-library-backend/internal/domains/note/model"
	"gcmn-library-backend/internal/domains/note/service"
	"gcmn-library-backend/internal/shared/response"
	"gcmn-library-backend/pkg/logger"
)

type NoteHandler struct {
	service service.ServiceInterface
}

func NewNoteHandler(svc service.ServiceInterface) *NoteHandler {
	return &NoteHandler{service: svc}
}

// POST /api/notes (admin, multipart with "file")
func (h *NoteHandler) CreateNote(c *gin.Context) {
	var req model.CreateNoteRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid note payload")
		return
	}

	pdf, err := readFormFile(c, "file")
	if err != nil || len(pdf) == 0 {
		response.BadRequest(c, "Note PDF is required")
		return
	}

	note, err := h.service.CreateNote(c.Request.Context(), req, pdf)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, note)
}

// GET /api/notes?class=&subject= (public, active only)
func (h *NoteHandler) ListActiveNotes(c *gin.Context) {
	filter := model.NoteFilter{
		Class:   c.Query("class"),
		Subject: c.Query("subject"),
	}
	notes, err := h.service.ListActiveNotes(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, notes)
}

// GET /api/admin/notes (admin, includes inactive)
func (h *NoteHandler) ListNotes(c *gin.Context) {
	notes, err := h.service.ListNotes(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, notes)
}

// PUT /api/notes/:id (admin)
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	var req model.UpdateNoteRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid note payload")
		return
	}

	pdf, _ := readFormFile(c, "file")

	note, err := h.service.UpdateNote(c.Request.Context(), c.Param("id"), req, pdf)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, note)
}

// DELETE /api/notes/:id (admin)
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	if err := h.service.DeleteNote(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Note deleted successfully"})
}

// GET /api/notes/:id/download (public)
func (h *NoteHandler) DownloadNote(c *gin.Context) {
	note, data, err := h.service.DownloadNote(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", note.Title+".pdf"))
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *NoteHandler) writeError(c *gin.Context, err error) {
	var vErrs validation.Errors
	switch {
	case errors.Is(err, model.ErrNoteNotFound):
		response.NotFound(c, "Note not found")
	case errors.As(err, &vErrs):
		response.ValidationFailed(c, vErrs)
	default:
		logger.Error("note handler", err)
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
