package controllers

import (
	"errors"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gestorpro/gestorpro/app/models"
	"github.com/gestorpro/gestorpro/app/repository"
	"github.com/gestorpro/gestorpro/internal/pkg/statistics"
	"github.com/gestorpro/gestorpro/internal/pkg/storage"
	"github.com/gestorpro/gestorpro/internal/pkg/upload"
)

const transactionPageSize = 50

type transactionRequest struct {
	Type        string `json:"type"`
	ValueCents  int64  `json:"value_cents"`
	Date        string `json:"date"`
	Description string `json:"description"`
	ExpenseType string `json:"expense_type"`
}

// HandleListTransactions returns a page of the user's transactions
func HandleListTransactions(c *fiber.Ctx) error {
	userID := currentUserID(c)
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	repo := repository.GetGlobalFactory().GetTransactionRepository()
	transactions, err := repo.GetByUserID(userID, (page-1)*transactionPageSize, transactionPageSize)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load transactions")
	}
	total, err := repo.CountByUserID(userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to count transactions")
	}

	return c.JSON(fiber.Map{
		"transactions": transactions,
		"page":         page,
		"page_size":    transactionPageSize,
		"total":        total,
	})
}

// HandleCreateTransaction records a new financial movement
func HandleCreateTransaction(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req transactionRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "Request body could not be parsed")
	}

	date, err := parseDateField(req.Date)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_date", "Date must be in YYYY-MM-DD format")
	}

	tx := &models.Transaction{
		UserID:      userID,
		Type:        req.Type,
		ValueCents:  req.ValueCents,
		Date:        date,
		Description: req.Description,
		ExpenseType: req.ExpenseType,
	}
	if err := tx.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}

	if err := repository.GetGlobalFactory().GetTransactionRepository().Create(tx); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save transaction")
	}

	statistics.InvalidateMonthlySummary(userID, tx.Month())
	return c.Status(fiber.StatusCreated).JSON(tx)
}

// HandleUpdateTransaction replaces the editable fields of one transaction
func HandleUpdateTransaction(c *fiber.Ctx) error {
	userID := currentUserID(c)
	txUUID := c.Params("uuid")

	repo := repository.GetGlobalFactory().GetTransactionRepository()
	tx, err := repo.GetByUUID(userID, txUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Transaction not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load transaction")
	}

	var req transactionRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "Request body could not be parsed")
	}

	oldMonth := tx.Month()
	if req.Date != "" {
		date, err := parseDateField(req.Date)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid_date", "Date must be in YYYY-MM-DD format")
		}
		tx.Date = date
	}
	if req.Type != "" {
		tx.Type = req.Type
	}
	if req.ValueCents > 0 {
		tx.ValueCents = req.ValueCents
	}
	tx.Description = req.Description
	tx.ExpenseType = req.ExpenseType

	if err := tx.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if err := repo.Update(tx); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save transaction")
	}

	statistics.InvalidateMonthlySummary(userID, oldMonth)
	if tx.Month() != oldMonth {
		statistics.InvalidateMonthlySummary(userID, tx.Month())
	}
	return c.JSON(tx)
}

// HandleDeleteTransaction removes one transaction and its receipt, if any
func HandleDeleteTransaction(c *fiber.Ctx) error {
	userID := currentUserID(c)
	txUUID := c.Params("uuid")

	repo := repository.GetGlobalFactory().GetTransactionRepository()
	tx, err := repo.GetByUUID(userID, txUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Transaction not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load transaction")
	}

	if err := repo.Delete(userID, txUUID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete transaction")
	}

	if tx.ReceiptKey != "" {
		if store := getReceiptStore(); store != nil {
			if err := store.DeleteReceipt(c.Context(), tx.ReceiptKey); err != nil {
				log.Printf("[transaction] failed to delete receipt %s: %v", tx.ReceiptKey, err)
			}
		}
	}

	statistics.InvalidateMonthlySummary(userID, tx.Month())
	return c.JSON(fiber.Map{"message": "Transaction deleted"})
}

// HandleMonthlySummary returns income, expenses and balance for one month
// plus the growth comparison against the previous month.
func HandleMonthlySummary(c *fiber.Ctx) error {
	userID := currentUserID(c)
	month, err := monthOrCurrent(c.Query("month"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_month", "Month must be in YYYY-MM format")
	}

	comparison, err := statistics.GetGrowthComparison(userID, month)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to compute summary")
	}
	return c.JSON(comparison)
}

// HandleUploadReceipt attaches a receipt file to a transaction
func HandleUploadReceipt(c *fiber.Ctx) error {
	userID := currentUserID(c)
	txUUID := c.Params("uuid")

	store := getReceiptStore()
	if store == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "storage_unavailable", "Receipt storage is not configured")
	}

	repo := repository.GetGlobalFactory().GetTransactionRepository()
	tx, err := repo.GetByUUID(userID, txUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Transaction not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load transaction")
	}

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "missing_file", "Multipart field 'receipt' is required")
	}
	if !storage.AllowedReceiptExtension(fileHeader.Filename) {
		return jsonError(c, fiber.StatusBadRequest, "unsupported_file_type", "Only JPG, PNG and PDF receipts are accepted")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to read upload")
	}
	defer file.Close()

	// Sniff the content, not just the extension
	head := make([]byte, 512)
	n, _ := file.Read(head)
	if _, err := upload.ValidateReceiptBySniff(fileHeader.Filename, head[:n]); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "unsupported_file_type", err.Error())
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to read upload")
	}

	now := time.Now()
	key := receiptStoreConfig.ReceiptObjectKey(userID, uuid.New().String(), filepath.Ext(fileHeader.Filename), now.Year(), int(now.Month()))
	if err := store.UploadReceipt(c.Context(), key, file, fileHeader.Size, fileHeader.Filename); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to store receipt")
	}

	oldKey := tx.ReceiptKey
	tx.ReceiptKey = key
	if err := repo.Update(tx); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to link receipt")
	}
	if oldKey != "" {
		if err := store.DeleteReceipt(c.Context(), oldKey); err != nil {
			log.Printf("[transaction] failed to delete replaced receipt %s: %v", oldKey, err)
		}
	}

	return c.JSON(fiber.Map{"receipt_key": key})
}

// HandleGetReceiptURL returns a short-lived download URL for a receipt
func HandleGetReceiptURL(c *fiber.Ctx) error {
	userID := currentUserID(c)
	txUUID := c.Params("uuid")

	store := getReceiptStore()
	if store == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "storage_unavailable", "Receipt storage is not configured")
	}

	tx, err := repository.GetGlobalFactory().GetTransactionRepository().GetByUUID(userID, txUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Transaction not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load transaction")
	}
	if tx.ReceiptKey == "" {
		return jsonError(c, fiber.StatusNotFound, "no_receipt", "Transaction has no receipt attached")
	}

	url, err := store.PresignReceiptURL(c.Context(), tx.ReceiptKey, 15*time.Minute)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create receipt URL")
	}
	return c.JSON(fiber.Map{"url": url, "expires_in_seconds": 900})
}

var (
	receiptStore       *storage.ReceiptStore
	receiptStoreConfig *storage.Config
)

// InitReceiptStore wires the S3 receipt store at startup. A nil store keeps
// the app running with receipt endpoints answering 503.
func InitReceiptStore() {
	cfg, err := storage.LoadConfig()
	if err != nil {
		log.Printf("[transaction] receipt storage misconfigured: %v", err)
		return
	}
	receiptStoreConfig = cfg
	if !cfg.IsEnabled() {
		log.Printf("[transaction] receipt storage disabled")
		return
	}
	store, err := storage.NewReceiptStore(cfg)
	if err != nil {
		log.Printf("[transaction] receipt storage unavailable: %v", err)
		return
	}
	receiptStore = store
}

func getReceiptStore() *storage.ReceiptStore {
	return receiptStore
}
