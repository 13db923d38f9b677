package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"gcmn-library-backend/internal/domains/message/model"
	"gcmn-library-backend/internal/domains/message/service"
	"gcmn-library-backend/internal/shared/response"
	"gcmn-library-backend/pkg/logger"
)

type MessageHandler struct {
	service service.ServiceInterface
}

func NewMessageHandler(svc service.ServiceInterface) *MessageHandler {
	return &MessageHandler{service: svc}
}

// POST /api/messages (public contact form)
func (h *MessageHandler) CreateMessage(c *gin.Context) {
	var req model.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid message payload")
		return
	}

	msg, err := h.service.CreateMessage(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, msg)
}

// GET /api/messages (admin)
func (h *MessageHandler) ListMessages(c *gin.Context) {
	messages, err := h.service.ListMessages(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.List(c, messages, len(messages))
}

// PATCH /api/messages/:id/seen (admin)
func (h *MessageHandler) MarkSeen(c *gin.Context) {
	msg, err := h.service.MarkSeen(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, msg)
}

// DELETE /api/messages/:id (admin)
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	if err := h.service.DeleteMessage(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Message deleted successfully"})
}

func (h *MessageHandler) writeError(c *gin.Context, err error) {
	var vErrs validation.Errors
	switch {
	case errors.Is(err, model.ErrMessageNotFound):
		response.NotFound(c, "Message not found")
	case errors.As(err, &vErrs):
		response.ValidationFailed(c, vErrs)
	default:
		logger.Error("message handler", err)
		response.InternalServerError(c, "Something went wrong")
	}
}
