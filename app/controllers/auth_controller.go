package controllers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gestorpro/gestorpro/app/models"
	"github.com/gestorpro/gestorpro/app/repository"
	"github.com/gestorpro/gestorpro/internal/pkg/cache"
	"github.com/gestorpro/gestorpro/internal/pkg/hcaptcha"
	"github.com/gestorpro/gestorpro/internal/pkg/mail"
	"github.com/gestorpro/gestorpro/internal/pkg/planresolver"
	"github.com/gestorpro/gestorpro/internal/pkg/session"
	"github.com/gestorpro/gestorpro/internal/pkg/usercontext"
)

type registerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Phone        string `json:"phone"`
	CaptchaToken string `json:"captcha_token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new inactive account and mails the activation link
func HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "Request body could not be parsed")
	}

	if hcaptcha.Enabled() {
		if ok, err := hcaptcha.Verify(req.CaptchaToken); !ok {
			log.Printf("[auth] captcha rejected: %v", err)
			return jsonError(c, fiber.StatusBadRequest, "captcha_failed", "Captcha verification failed")
		}
	}

	// Emails are stored lowercased so webhook lookups by purchase email match
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := models.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	user.Phone = req.Phone

	if err := user.GenerateActivationToken(); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to prepare activation")
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	if _, err := userRepo.GetByEmail(req.Email); err == nil {
		return jsonError(c, fiber.StatusConflict, "email_taken", "An account with this email already exists")
	}

	if err := userRepo.Create(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create account")
	}

	// The free profile row is created lazily on first plan read; creating it
	// here keeps the first dashboard load from writing.
	if _, err := repository.GetGlobalFactory().GetProfileRepository().GetOrCreate(user.ID); err != nil {
		log.Printf("[auth] failed to create profile for user %d: %v", user.ID, err)
	}

	go func(email, name, token string) {
		if err := mail.SendActivationMail(email, name, token); err != nil {
			log.Printf("[auth] activation mail to %s failed: %v", email, err)
		}
	}(user.Email, user.Name, user.ActivationToken)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      user.ID,
		"email":   user.Email,
		"status":  user.Status,
		"message": "Account created, check your email for the activation link",
	})
}

// HandleActivate verifies the emailed activation token
func HandleActivate(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		return jsonError(c, fiber.StatusBadRequest, "missing_token", "Activation token is required")
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	user, err := userRepo.GetByActivationToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "invalid_token", "Activation token not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to look up token")
	}

	user.MarkEmailVerified()
	if err := userRepo.Update(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to activate account")
	}

	return c.JSON(fiber.Map{"message": "Account activated, you can log in now"})
}

// HandleLogin verifies credentials and creates the session
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "Request body could not be parsed")
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	user, err := userRepo.GetByEmail(req.Email)
	if err != nil {
		// Same answer for unknown email and wrong password
		return jsonError(c, fiber.StatusUnauthorized, "invalid_credentials", "Email or password is incorrect")
	}
	if !user.CheckPassword(req.Password) {
		return jsonError(c, fiber.StatusUnauthorized, "invalid_credentials", "Email or password is incorrect")
	}
	if !user.IsActive() {
		return jsonError(c, fiber.StatusForbidden, "account_inactive", "Activate your account first")
	}

	if err := createUserSession(c, user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create session")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := userRepo.Update(user); err != nil {
		log.Printf("[auth] failed to update last login for user %d: %v", user.ID, err)
	}

	return c.JSON(fiber.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

// HandleLogout destroys the session
func HandleLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load session")
	}
	if err := sess.Destroy(); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to destroy session")
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// createUserSession fills the app session after a successful login. The plan
// is cached session-first; the webhook invalidates it on change.
func createUserSession(c *fiber.Ctx, user *models.User) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return err
	}
	sess.Set(usercontext.AuthKey, true)
	sess.Set(usercontext.KeyUserID, user.ID)
	sess.Set(usercontext.KeyUserName, user.Name)
	sess.Set(usercontext.KeyUserEmail, user.Email)
	sess.Set(usercontext.KeyIsAdmin, user.Role == models.ROLE_ADMIN)

	plan := "free"
	if profile, err := repository.GetGlobalFactory().GetProfileRepository().GetOrCreate(user.ID); err == nil && profile.Plan != "" {
		plan = profile.Plan
	}
	if err := cache.Set(planresolver.PlanCacheKey(user.ID), plan, 24*time.Hour); err != nil {
		log.Printf("[auth] failed to warm plan cache for user %d: %v", user.ID, err)
	}

	return sess.Save()
}
