package handlers

import (
	"net/http"

	"appointly/services/scheduling"
	"appointly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppointmentHandler exposes the scheduling façade over HTTP.
type AppointmentHandler struct {
	Scheduling scheduling.SchedulingService
}

func NewAppointmentHandler(svc scheduling.SchedulingService) *AppointmentHandler {
	return &AppointmentHandler{Scheduling: svc}
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

// BookHandler books a free-form interval.
func (h *AppointmentHandler) BookHandler(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	var req scheduling.BookRequest
	if !bindJSON(c, &req) {
		return
	}
	appt, err := h.Scheduling.Book(c.Request.Context(), actor, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("Appointment booked",
		zap.String("appointmentId", appt.ID),
		zap.String("providerId", appt.ProviderID),
	)
	c.JSON(http.StatusCreated, appt)
}

// BookSlotHandler books one slot of a provider's weekly grid.
func (h *AppointmentHandler) BookSlotHandler(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	var req scheduling.BookSlotRequest
	if !bindJSON(c, &req) {
		return
	}
	appt, err := h.Scheduling.BookSlot(c.Request.Context(), actor, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("Slot booked",
		zap.String("appointmentId", appt.ID),
		zap.String("slot", req.SlotTime),
		zap.String("date", req.Date),
	)
	c.JSON(http.StatusCreated, appt)
}

func (h *AppointmentHandler) ListMineHandler(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	appts, err := h.Scheduling.ListMine(c.Request.Context(), actor)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

func (h *AppointmentHandler) ListAllHandler(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	appts, err := h.Scheduling.ListAll(c.Request.Context(), actor)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

func (h *AppointmentHandler) GetHandler(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	appt, err := h.Scheduling.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) ApproveHandler(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	appt, err := h.Scheduling.Approve(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) RejectHandler(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	var req reasonRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	appt, err := h.Scheduling.Reject(c.Request.Context(), actor, c.Param("id"), req.Reason)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) CancelHandler(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	var req reasonRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	appt, err := h.Scheduling.Cancel(c.Request.Context(), actor, c.Param("id"), req.Reason)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) RescheduleHandler(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	var req scheduling.RescheduleRequest
	if !bindJSON(c, &req) {
		return
	}
	appt, err := h.Scheduling.Reschedule(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}
