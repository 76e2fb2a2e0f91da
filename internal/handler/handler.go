package handler

import (
	"errors"
	"strconv"

	"bankapi/internal/config"
	"bankapi/internal/repository"
	"bankapi/internal/service"
	"bankapi/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Handler bundles all service dependencies for the HTTP layer.
type Handler struct {
	accountService  *service.AccountService
	transferService *service.TransferService
	historyService  *service.HistoryService
}

func NewHandler(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *Handler {
	return &Handler{
		accountService:  service.NewAccountService(db, rdb, cfg),
		transferService: service.NewTransferService(db, rdb, cfg),
		historyService:  service.NewHistoryService(db),
	}
}

// writeDomainError maps each domain error kind to its business code. Unknown
// errors become a server error; storage-transient conflicts are marked
// retryable so clients know a retry is safe.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidAmount):
		response.BusinessError(c, response.CodeInvalidAmount, err.Error())
	case errors.Is(err, service.ErrSelfTransfer):
		response.BusinessError(c, response.CodeSelfTransfer, err.Error())
	case errors.Is(err, service.ErrInvalidDateFilter):
		response.BusinessError(c, response.CodeInvalidDateFilter, err.Error())
	case errors.Is(err, repository.ErrAccountNotFound):
		response.BusinessError(c, response.CodeAccountNotFound, err.Error())
	case errors.Is(err, repository.ErrInsufficientFunds):
		response.BusinessError(c, response.CodeInsufficientFunds, err.Error())
	case repository.IsRetryable(err):
		response.BusinessError(c, response.CodeRetryLater, "temporary conflict, please retry")
	default:
		response.ServerError(c, err.Error())
	}
}

func parseAccountID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Query(param), 10, 64)
	if err != nil {
		response.ParamError(c, param+" must be an integer account id")
		return 0, false
	}
	return id, true
}

// ============================================================
// Balance
// ============================================================

// GetBalance returns the current balance.
// GET /api/v1/account/balance?id=1
func (h *Handler) GetBalance(c *gin.Context) {
	accountID, ok := parseAccountID(c, "id")
	if !ok {
		return
	}

	balance, err := h.accountService.GetBalance(c.Request.Context(), accountID)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	response.Success(c, gin.H{
		"account_id": accountID,
		"balance":    balance,
	})
}

// ============================================================
// Mutations
// ============================================================

// MutationRequest is the body for deposit and withdraw.
type MutationRequest struct {
	AccountID int64           `json:"account_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
}

// Deposit credits an account.
// POST /api/v1/account/deposit
func (h *Handler) Deposit(c *gin.Context) {
	var req MutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	if err := h.accountService.Deposit(c.Request.Context(), req.AccountID, req.Amount); err != nil {
		writeDomainError(c, err)
		return
	}

	response.Success(c, gin.H{"ok": true})
}

// Withdraw debits an account.
// POST /api/v1/account/withdraw
func (h *Handler) Withdraw(c *gin.Context) {
	var req MutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	if err := h.accountService.Withdraw(c.Request.Context(), req.AccountID, req.Amount); err != nil {
		writeDomainError(c, err)
		return
	}

	response.Success(c, gin.H{"ok": true})
}

// TransferRequest is the body for transfers.
type TransferRequest struct {
	FromAccountID int64           `json:"from_account_id" binding:"required"`
	ToAccountID   int64           `json:"to_account_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
}

// Transfer moves money between two accounts.
// POST /api/v1/transfer
func (h *Handler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	err := h.transferService.Transfer(c.Request.Context(), req.FromAccountID, req.ToAccountID, req.Amount)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	response.Success(c, gin.H{"ok": true})
}

// ============================================================
// History
// ============================================================

// ListOperations returns the operation history, newest first.
// GET /api/v1/account/operations?id=1&start_date=2024-01-01&end_date=2024-01-31
func (h *Handler) ListOperations(c *gin.Context) {
	accountID, ok := parseAccountID(c, "id")
	if !ok {
		return
	}

	operations, err := h.historyService.ListOperations(
		c.Request.Context(),
		accountID,
		c.Query("start_date"),
		c.Query("end_date"),
	)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	response.Success(c, operations)
}
