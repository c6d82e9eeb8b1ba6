package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gestorpro/gestorpro/app/models"
	"github.com/gestorpro/gestorpro/app/repository"
	"github.com/gestorpro/gestorpro/internal/pkg/entitlements"
	"github.com/gestorpro/gestorpro/internal/pkg/usercontext"
)

type clientRequest struct {
	Name         string `json:"name"`
	BusinessArea string `json:"business_area"`
	RevenueCents int64  `json:"revenue_cents"`
	CostCents    int64  `json:"cost_cents"`
	Notes        string `json:"notes"`
}

// HandleListClients returns all clients of the user
func HandleListClients(c *fiber.Ctx) error {
	userID := currentUserID(c)
	clients, err := repository.GetGlobalFactory().GetClientRepository().GetByUserID(userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load clients")
	}
	return c.JSON(fiber.Map{"clients": clients})
}

// HandleCreateClient creates a client, enforcing the premium client cap
func HandleCreateClient(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repo := repository.GetGlobalFactory().GetClientRepository()

	if limit := entitlements.MaxClients(userCtx.Plan); limit > 0 {
		count, err := repo.CountByUserID(userCtx.UserID)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to count clients")
		}
		if count >= int64(limit) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "client_limit_reached",
				"message": "Your plan's client limit has been reached",
				"limit":   limit,
			})
		}
	}

	var req clientRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "Request body could not be parsed")
	}

	client := &models.Client{
		UserID:       userCtx.UserID,
		Name:         req.Name,
		BusinessArea: req.BusinessArea,
		RevenueCents: req.RevenueCents,
		CostCents:    req.CostCents,
		Notes:        req.Notes,
	}
	if err := client.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if err := repo.Create(client); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save client")
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

// HandleUpdateClient updates a client and snapshots revenue changes into the
// history table.
func HandleUpdateClient(c *fiber.Ctx) error {
	userID := currentUserID(c)
	repo := repository.GetGlobalFactory().GetClientRepository()

	client, err := repo.GetByUUID(userID, c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Client not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load client")
	}

	var req clientRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "Request body could not be parsed")
	}

	revenueChanged := req.RevenueCents != client.RevenueCents || req.CostCents != client.CostCents

	if req.Name != "" {
		client.Name = req.Name
	}
	client.BusinessArea = req.BusinessArea
	client.RevenueCents = req.RevenueCents
	client.CostCents = req.CostCents
	client.Notes = req.Notes

	if err := client.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if err := repo.Update(client); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save client")
	}

	if revenueChanged {
		date, _ := parseDateField("")
		snapshot := &models.ClientRevenueHistory{
			ClientID:     client.ID,
			UserID:       userID,
			RevenueCents: client.RevenueCents,
			CostCents:    client.CostCents,
			Date:         date,
		}
		if err := repo.AddRevenueSnapshot(snapshot); err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to record revenue history")
		}
	}

	return c.JSON(client)
}

// HandleDeleteClient removes one client
func HandleDeleteClient(c *fiber.Ctx) error {
	userID := currentUserID(c)
	err := repository.GetGlobalFactory().GetClientRepository().Delete(userID, c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Client not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete client")
	}
	return c.JSON(fiber.Map{"message": "Client deleted"})
}

// HandleClientRevenueHistory returns the revenue snapshots for one client
func HandleClientRevenueHistory(c *fiber.Ctx) error {
	userID := currentUserID(c)
	repo := repository.GetGlobalFactory().GetClientRepository()

	client, err := repo.GetByUUID(userID, c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Client not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load client")
	}

	history, err := repo.GetRevenueHistory(userID, client.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load revenue history")
	}

	// Margin per snapshot, in basis points, for charting
	type point struct {
		models.ClientRevenueHistory
		MarginBps int64 `json:"margin_bps"`
	}
	points := make([]point, 0, len(history))
	for _, h := range history {
		p := point{ClientRevenueHistory: h}
		if h.RevenueCents > 0 {
			p.MarginBps = (h.RevenueCents - h.CostCents) * 10000 / h.RevenueCents
		}
		points = append(points, p)
	}

	return c.JSON(fiber.Map{
		"client_id": strconv.FormatUint(uint64(client.ID), 10),
		"history":   points,
	})
}
