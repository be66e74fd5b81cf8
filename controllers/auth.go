package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HarshitSharma-h8/messmate/services"
	"github.com/HarshitSharma-h8/messmate/utils"
)

// AuthController exposes the registration and login endpoints.
type AuthController struct {
	auth *services.AuthService
}

// NewAuthController creates the controller.
func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type registerRequest struct {
	Name           string `json:"name" binding:"required"`
	RegisterNumber string `json:"register_number" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Mobile         string `json:"mobile" binding:"required"`
	Password       string `json:"password" binding:"required,min=6"`
	Role           string `json:"role" binding:"required,oneof=STUDENT ADMIN"`
	Degree         string `json:"degree"`
	Semester       int    `json:"semester"`
	Gender         string `json:"gender" binding:"required,oneof=MALE FEMALE OTHER"`
	MessID         string `json:"mess_id" binding:"required"`
	AdminSecret    string `json:"admin_secret"`
}

// Register handles POST /api/auth/register.
func (ctl *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidation(c, "Invalid request body", err.Error())
		return
	}

	messID, err := primitive.ObjectIDFromHex(req.MessID)
	if err != nil {
		utils.RespondError(c, utils.ErrBadRequest("Invalid mess id"))
		return
	}

	err = ctl.auth.Register(c.Request.Context(), services.RegisterInput{
		Name:           req.Name,
		RegisterNumber: req.RegisterNumber,
		Email:          req.Email,
		Mobile:         req.Mobile,
		Password:       req.Password,
		Role:           req.Role,
		Degree:         req.Degree,
		Semester:       req.Semester,
		Gender:         req.Gender,
		MessID:         messID,
		AdminSecret:    req.AdminSecret,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.Respond(c, http.StatusCreated, "Registration successful. OTP sent to email.", nil)
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

// VerifyOTP handles POST /api/auth/verify-otp.
func (ctl *AuthController) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidation(c, "Invalid request body", err.Error())
		return
	}

	if err := ctl.auth.VerifyOTP(c.Request.Context(), req.Email, req.OTP); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "Email verified successfully", nil)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login.
func (ctl *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidation(c, "Invalid request body", err.Error())
		return
	}

	result, err := ctl.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "Login successful", result)
}

// Logout handles POST /api/auth/logout. JWT logout is client-side; the
// endpoint exists for consistency and future token blacklisting.
func (ctl *AuthController) Logout(c *gin.Context) {
	utils.Respond(c, http.StatusOK, "Logout successful", nil)
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword handles POST /api/auth/forgot-password.
func (ctl *AuthController) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidation(c, "Invalid request body", err.Error())
		return
	}

	if err := ctl.auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "Password reset link sent to email", nil)
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ResetPassword handles POST /api/auth/reset-password.
func (ctl *AuthController) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidation(c, "Invalid request body", err.Error())
		return
	}

	if err := ctl.auth.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "Password reset successful", nil)
}
