package controllers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	gothfiber "github.com/shareed2k/goth_fiber"
	"gorm.io/gorm"

	"github.com/gestorpro/gestorpro/app/models"
	"github.com/gestorpro/gestorpro/app/repository"
)

// HandleOAuthStart redirects the user to the provider's consent screen
func HandleOAuthStart(c *fiber.Ctx) error {
	return gothfiber.BeginAuthHandler(c)
}

// HandleOAuthCallback completes the provider flow and logs the user in.
// Accounts are matched by the provider-verified email; a new account created
// here is active immediately since the provider already verified the address.
func HandleOAuthCallback(c *fiber.Ctx) error {
	u, err := gothfiber.CompleteUserAuth(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "oauth_failed", fmt.Sprintf("OAuth failed: %v", err))
	}
	if u.Email == "" {
		return jsonError(c, fiber.StatusBadRequest, "oauth_no_email", "Provider did not return an email address")
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	appUser, err := userRepo.GetByEmail(u.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Placeholder password, never used for login
		placeholder := fmt.Sprintf("oauth_%d", time.Now().UnixNano())
		hash, _ := models.HashPassword(placeholder)
		appUser = &models.User{
			Name:     firstNonEmpty(u.Name, u.NickName, u.Email),
			Email:    u.Email,
			Password: hash,
			Role:     models.ROLE_USER,
			Status:   models.STATUS_ACTIVE,
		}
		now := time.Now()
		appUser.EmailVerifiedAt = &now
		if err := userRepo.Create(appUser); err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create account")
		}
		if _, err := repository.GetGlobalFactory().GetProfileRepository().GetOrCreate(appUser.ID); err != nil {
			log.Printf("[oauth] failed to create profile for user %d: %v", appUser.ID, err)
		}
	} else if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to look up account")
	}

	if err := createUserSession(c, appUser); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create session")
	}

	now := time.Now()
	appUser.LastLoginAt = &now
	if err := userRepo.Update(appUser); err != nil {
		log.Printf("[oauth] failed to update last login for user %d: %v", appUser.ID, err)
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

// HandleOAuthLogout clears the provider session before the app logout
func HandleOAuthLogout(c *fiber.Ctx) error {
	if err := gothfiber.Logout(c); err != nil {
		log.Printf("[oauth] provider logout failed: %v", err)
	}
	return HandleLogout(c)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
