package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HarshitSharma-h8/messmate/services"
	"github.com/HarshitSharma-h8/messmate/utils"
)

// AdminController exposes the read-only aggregates for admins.
type AdminController struct {
	stats *services.StatsService
}

// NewAdminController creates the controller.
func NewAdminController(stats *services.StatsService) *AdminController {
	return &AdminController{stats: stats}
}

// EventStats handles GET /api/admin/event-stats.
func (ctl *AdminController) EventStats(c *gin.Context) {
	p, err := currentPrincipal(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	stats, err := ctl.stats.EventStats(c.Request.Context(), p.MessID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "Event stats fetched successfully", stats)
}

// Entries handles GET /api/admin/entries.
func (ctl *AdminController) Entries(c *gin.Context) {
	p, err := currentPrincipal(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	entries, err := ctl.stats.LiveEntries(c.Request.Context(), p.MessID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "Live entries fetched", entries)
}
