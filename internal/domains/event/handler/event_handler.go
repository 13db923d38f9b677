package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"gcmn-library-backend/internal/domains/event/model"
	"gcmn-library-backend/internal/domains/event/service"
	"gcmn-library-backend/internal/shared/response"
	"gcmn-library-backend/pkg/logger"
)

type EventHandler struct {
	service service.ServiceInterface
}

func NewEventHandler(svc service.ServiceInterface) *EventHandler {
	return &EventHandler{service: svc}
}

// POST /api/events (admin, multipart with repeated "images")
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req model.CreateEventRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid event payload")
		return
	}

	event, err := h.service.CreateEvent(c.Request.Context(), req, readImages(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, event)
}

// GET /api/events (public, newest first)
func (h *EventHandler) ListEvents(c *gin.Context) {
	events, err := h.service.ListEvents(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, events)
}

// GET /api/events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.service.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, event)
}

// PUT /api/events/:id (admin)
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	var req model.UpdateEventRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid event payload")
		return
	}

	event, err := h.service.UpdateEvent(c.Request.Context(), c.Param("id"), req, readImages(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, event)
}

// DELETE /api/events/:id (admin)
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	if err := h.service.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

func (h *EventHandler) writeError(c *gin.Context, err error) {
	var vErrs validation.Errors
	switch {
	case errors.Is(err, model.ErrEventNotFound):
		response.NotFound(c, "Event not found")
	case errors.As(err, &vErrs):
		response.ValidationFailed(c, vErrs)
	default:
		logger.Error("event handler", err)
		response.InternalServerError(c, "Something went wrong")
	}
}

func readImages(c *gin.Context) []service.ImageUpload {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}

	var images []service.ImageUpload
	for _, fh := range form.File["images"] {
		f, err := fh.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			continue
		}
		images = append(images, service.ImageUpload{
			Data:        data,
			ContentType: fh.Header.Get("Content-Type"),
			Filename:    fh.Filename,
		})
	}
	return images
}
