package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HarshitSharma-h8/messmate/models"
	"github.com/HarshitSharma-h8/messmate/services"
	"github.com/HarshitSharma-h8/messmate/utils"
)

// EventController exposes event creation and the active-event read.
type EventController struct {
	events *services.EventService
}

// NewEventController creates the controller.
func NewEventController(events *services.EventService) *EventController {
	return &EventController{events: events}
}

// Create handles POST /api/events. Field validation (including the slot
// window rules) lives in the service so the messages match everywhere.
func (ctl *EventController) Create(c *gin.Context) {
	p, err := currentPrincipal(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	var in services.CreateEventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondValidation(c, "Invalid request body", err.Error())
		return
	}

	event, err := ctl.events.Create(c.Request.Context(), p.MessID, in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusCreated, "Event created successfully", event)
}

// Active handles GET /api/events/active.
func (ctl *EventController) Active(c *gin.Context) {
	p, err := currentPrincipal(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	event, err := ctl.events.ResolveActive(c.Request.Context(), p.MessID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if event == nil || event.Status == models.EventEnded {
		utils.RespondError(c, utils.ErrNotFound("No active event found"))
		return
	}
	utils.Respond(c, http.StatusOK, "Active event fetched", event)
}
