package handlers

import (
	"net/http"

	"appointly/services/notification"
	"appointly/utils"

	"github.com/gin-gonic/gin"
)

// NotificationHandler serves the caller's inbox.
type NotificationHandler struct {
	Notifications notification.NotificationService
}

func NewNotificationHandler(svc notification.NotificationService) *NotificationHandler {
	return &NotificationHandler{Notifications: svc}
}

func (h *NotificationHandler) ListHandler(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	notes, err := h.Notifications.List(c.Request.Context(), actor.UserID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notes})
}

func (h *NotificationHandler) MarkReadHandler(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	if err := h.Notifications.MarkRead(c.Request.Context(), actor.UserID, c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllReadHandler(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	n, err := h.Notifications.MarkAllRead(c.Request.Context(), actor.UserID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

func (h *NotificationHandler) DeleteHandler(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	if err := h.Notifications.Delete(c.Request.Context(), actor.UserID, c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

func (h *NotificationHandler) ClearHandler(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	n, err := h.Notifications.Clear(c.Request.Context(), actor.UserID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
