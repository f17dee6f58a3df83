package handlers

import (
	"net/http"

	"appointly/models"
	"appointly/services/provider"
	"appointly/services/scheduling"
	"appointly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProviderHandler serves provider profiles, their weekly grid and slot views.
type ProviderHandler struct {
	Providers  provider.ProviderService
	Scheduling scheduling.SchedulingService
}

func NewProviderHandler(providers provider.ProviderService, svc scheduling.SchedulingService) *ProviderHandler {
	return &ProviderHandler{Providers: providers, Scheduling: svc}
}

type slotRequest struct {
	Date     string `json:"date" binding:"required"`
	SlotTime string `json:"slotTime" binding:"required"`
}

type availabilityRequest struct {
	Availability []models.AvailabilityInput `json:"availability" binding:"required,dive"`
}

type unavailableDatesRequest struct {
	UnavailableDates []string `json:"unavailableDates" binding:"required"`
}

func (h *ProviderHandler) CreateProviderHandler(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	var req models.ProviderInput
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Providers.CreateProvider(c.Request.Context(), actor, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("Provider created", zap.String("providerId", p.ID))
	c.JSON(http.StatusCreated, p)
}

// GetProvidersHandler returns a list of providers.
func (h *ProviderHandler) GetProvidersHandler(c *gin.Context) {
	providers, err := h.Providers.ListProviders(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": providers})
}

// GetProviderHandler returns details for a specific provider.
func (h *ProviderHandler) GetProviderHandler(c *gin.Context) {
	p, err := h.Providers.GetProvider(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProviderHandler) UpdateProviderHandler(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	var req models.ProviderInput
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Providers.UpdateProvider(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProviderHandler) DeleteProviderHandler(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	if err := h.Providers.DeleteProvider(c.Request.Context(), actor, c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("Provider deleted", zap.String("providerId", c.Param("id")))
	c.JSON(http.StatusOK, gin.H{"message": "Provider deleted"})
}

// SetAvailabilityHandler replaces the provider's weekly slot grid.
func (h *ProviderHandler) SetAvailabilityHandler(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	var req availabilityRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Providers.SetAvailability(c.Request.Context(), actor, c.Param("id"), req.Availability)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProviderHandler) AddUnavailableDatesHandler(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	var req unavailableDatesRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Providers.AddUnavailableDates(c.Request.Context(), actor, c.Param("id"), req.UnavailableDates)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProviderHandler) RemoveUnavailableDatesHandler(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	var req unavailableDatesRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Providers.RemoveUnavailableDates(c.Request.Context(), actor, c.Param("id"), req.UnavailableDates)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GetSlotsHandler lists the provider's slots on ?date=YYYY-MM-DD.
func (h *ProviderHandler) GetSlotsHandler(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{Message: "date query parameter is required"})
		return
	}
	slots, err := h.Scheduling.GetAvailableSlots(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

func (h *ProviderHandler) LockSlotHandler(c *gin.Context) {
	h.setHold(c, true)
}

func (h *ProviderHandler) UnlockSlotHandler(c *gin.Context) {
	h.setHold(c, false)
}

func (h *ProviderHandler) setHold(c *gin.Context, held bool) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	var req slotRequest
	if !bindJSON(c, &req) {
		return
	}
	op := h.Scheduling.UnlockSlot
	if held {
		op = h.Scheduling.LockSlot
	}
	if err := op(c.Request.Context(), actor, c.Param("id"), req.Date, req.SlotTime); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": req.Date, "slotTime": req.SlotTime, "held": held})
}
