package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/HarshitSharma-h8/messmate/models"
	"github.com/HarshitSharma-h8/messmate/store"
	"github.com/HarshitSharma-h8/messmate/utils"
)

// AuthService implements registration, email verification, login and the
// password reset flow. All of its knobs (admin secret, TTLs, reset link
// base) are injected; nothing reads the environment directly.
type AuthService struct {
	users        store.UserStore
	mailer       utils.Mailer
	jwt          *utils.JWTManager
	adminSecret  string
	otpTTL       time.Duration
	resetTTL     time.Duration
	resetBaseURL string
	log          *zap.Logger
	now          func() time.Time
}

// NewAuthService creates the service.
func NewAuthService(st *store.Store, mailer utils.Mailer, jwt *utils.JWTManager, adminSecret string, otpTTL, resetTTL time.Duration, resetBaseURL string, log *zap.Logger) *AuthService {
	return &AuthService{
		users:        st.Users,
		mailer:       mailer,
		jwt:          jwt,
		adminSecret:  adminSecret,
		otpTTL:       otpTTL,
		resetTTL:     resetTTL,
		resetBaseURL: resetBaseURL,
		log:          log,
		now:          time.Now,
	}
}

// RegisterInput is the registration payload after controller-level binding.
type RegisterInput struct {
	Name           string
	RegisterNumber string
	Email          string
	Mobile         string
	Password       string
	Role           string
	Degree         string
	Semester       int
	Gender         string
	MessID         primitive.ObjectID
	AdminSecret    string
}

// Register creates an unverified account and emails a one-time code.
// Students must provide degree and semester; registering as admin requires
// the configured admin secret.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) error {
	_, err := s.users.FindByEmailOrRegister(ctx, in.Email, in.RegisterNumber)
	if err == nil {
		return utils.ErrConflict("User already exists")
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	passwordHash, err := utils.HashPassword(in.Password)
	if err != nil {
		return err
	}

	var user *models.User
	switch in.Role {
	case models.RoleStudent:
		user, err = models.NewStudent(in.Name, in.RegisterNumber, in.Email, in.Mobile, passwordHash, in.Gender, in.MessID, in.Degree, in.Semester)
		if err != nil {
			return utils.ErrBadRequest("Degree and semester are required for students")
		}
	case models.RoleAdmin:
		if in.AdminSecret == "" {
			return utils.ErrForbidden("Admin secret key required")
		}
		if in.AdminSecret != s.adminSecret {
			return utils.ErrForbidden("Invalid admin secret key")
		}
		user = models.NewAdmin(in.Name, in.RegisterNumber, in.Email, in.Mobile, passwordHash, in.Gender, in.MessID)
	default:
		return utils.ErrBadRequest("Invalid role")
	}

	otp := utils.GenerateOTP(6)
	otpHash, err := utils.HashPassword(otp)
	if err != nil {
		return err
	}
	user.OTPHash = otpHash
	user.OTPExpiry = s.now().Add(s.otpTTL)

	// Mail goes out before the write: if delivery fails the account is
	// not created and the user can simply retry. A failed write after a
	// sent mail has no undo, which is accepted.
	subject := "Verify Your Email - Mess Management System"
	body := fmt.Sprintf("Your OTP is %s. It will expire in %d minutes.", otp, int(s.otpTTL.Minutes()))
	if err := s.mailer.Send(in.Email, subject, body); err != nil {
		s.log.Warn("otp mail failed", zap.String("email", in.Email), zap.Error(err))
		return utils.NewAPIError(500, "Could not send verification email")
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return utils.ErrConflict("User already exists")
		}
		return err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID.Hex()), zap.String("role", user.Role))
	return nil
}

// VerifyOTP confirms the emailed code and marks the account verified.
func (s *AuthService) VerifyOTP(ctx context.Context, email, otp string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return utils.ErrNotFound("User not found")
	}
	if err != nil {
		return err
	}

	if user.IsVerified {
		return utils.ErrBadRequest("User already verified")
	}
	if user.OTPHash == "" || user.OTPExpiry.IsZero() {
		return utils.ErrBadRequest("OTP not generated")
	}
	if user.OTPExpiry.Before(s.now()) {
		return utils.ErrBadRequest("OTP expired")
	}
	if err := utils.CheckPassword(user.OTPHash, otp); err != nil {
		return utils.ErrBadRequest("Invalid OTP")
	}

	user.IsVerified = true
	user.OTPHash = ""
	user.OTPExpiry = time.Time{}
	return s.users.Update(ctx, user)
}

// LoginResult carries the signed JWT plus the public user fields.
type LoginResult struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// UserSummary is the public view of an account.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Login authenticates a verified user and returns a JWT carrying the
// principal fields (role, mess, degree, semester).
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, utils.ErrUnauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, err
	}

	if !user.IsVerified {
		return nil, utils.ErrForbidden("Please verify your email first")
	}
	if err := utils.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, utils.ErrUnauthorized("Invalid credentials")
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token: token,
		User: UserSummary{
			ID:    user.ID.Hex(),
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
	}, nil
}

// ForgotPassword stores a hashed reset token and emails the raw one as a
// link.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return utils.ErrNotFound("User not found")
	}
	if err != nil {
		return err
	}

	raw, hash, err := utils.NewResetToken()
	if err != nil {
		return err
	}
	user.ResetTokenHash = hash
	user.ResetTokenExpiry = s.now().Add(s.resetTTL)
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password/%s", s.resetBaseURL, raw)
	body := fmt.Sprintf("Click here to reset your password:\n\n%s\n\nThis link expires in %d minutes.", link, int(s.resetTTL.Minutes()))
	if err := s.mailer.Send(email, "Password Reset - Mess Management", body); err != nil {
		s.log.Warn("reset mail failed", zap.String("email", email), zap.Error(err))
		return utils.NewAPIError(500, "Could not send reset email")
	}
	return nil
}

// ResetPassword consumes an unexpired reset token and sets a new password.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	user, err := s.users.FindByResetToken(ctx, utils.HashResetToken(rawToken), s.now())
	if errors.Is(err, store.ErrNotFound) {
		return utils.ErrBadRequest("Invalid or expired reset token")
	}
	if err != nil {
		return err
	}

	passwordHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = passwordHash
	user.ResetTokenHash = ""
	user.ResetTokenExpiry = time.Time{}
	return s.users.Update(ctx, user)
}
