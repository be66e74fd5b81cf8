package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HarshitSharma-h8/messmate/models"
	"github.com/HarshitSharma-h8/messmate/store"
	"github.com/HarshitSharma-h8/messmate/utils"
)

// MessController exposes mess administration.
type MessController struct {
	messes store.MessStore
}

// NewMessController creates the controller.
func NewMessController(messes store.MessStore) *MessController {
	return &MessController{messes: messes}
}

type createMessRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required"`
}

// Create handles POST /api/mess.
func (ctl *MessController) Create(c *gin.Context) {
	var req createMessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidation(c, "Invalid request body", err.Error())
		return
	}
	if !models.ValidMessType(req.Type) {
		utils.RespondError(c, utils.ErrBadRequest("Invalid mess type"))
		return
	}

	ctx := c.Request.Context()
	if _, err := ctl.messes.FindByName(ctx, req.Name); err == nil {
		utils.RespondError(c, utils.ErrConflict("Mess already exists"))
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		utils.RespondError(c, err)
		return
	}

	mess := &models.Mess{
		Name:      req.Name,
		Type:      req.Type,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if err := ctl.messes.Create(ctx, mess); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			utils.RespondError(c, utils.ErrConflict("Mess already exists"))
			return
		}
		utils.RespondError(c, err)
		return
	}

	utils.Respond(c, http.StatusCreated, "Mess created successfully", mess)
}
