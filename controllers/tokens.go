package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HarshitSharma-h8/messmate/services"
	"github.com/HarshitSharma-h8/messmate/utils"
)

// TokenController exposes token issuance, lookup and verification.
type TokenController struct {
	tokens *services.TokenService
}

// NewTokenController creates the controller.
func NewTokenController(tokens *services.TokenService) *TokenController {
	return &TokenController{tokens: tokens}
}

// Issue handles POST /api/tokens.
func (ctl *TokenController) Issue(c *gin.Context) {
	p, err := currentPrincipal(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	grant, err := ctl.tokens.Issue(c.Request.Context(), p.UserID, p.MessID, p.Degree, p.Semester)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusCreated, "Token generated successfully", grant)
}

// Mine handles GET /api/tokens/mine.
func (ctl *TokenController) Mine(c *gin.Context) {
	p, err := currentPrincipal(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	grant, err := ctl.tokens.MyToken(c.Request.Context(), p.UserID, p.MessID, p.Degree, p.Semester)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "Token fetched successfully", grant)
}

type verifyTokenRequest struct {
	TokenID string `json:"tokenId"`
}

// Verify handles POST /api/tokens/verify.
func (ctl *TokenController) Verify(c *gin.Context) {
	p, err := currentPrincipal(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	var req verifyTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TokenID == "" {
		utils.RespondError(c, utils.ErrBadRequest("Token ID is required"))
		return
	}

	confirmation, err := ctl.tokens.Verify(c.Request.Context(), req.TokenID, p.MessID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "Token verified successfully", confirmation)
}
