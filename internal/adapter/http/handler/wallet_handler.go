package handler

import (
	"strconv"

	"customer-wallet-service/internal/adapter/http/dto"
	"customer-wallet-service/internal/adapter/http/middleware"
	"customer-wallet-service/internal/core/domain"
	"customer-wallet-service/internal/core/ports"
	"customer-wallet-service/pkg/apperror"
	"customer-wallet-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WalletHandler handles wallet endpoints.
type WalletHandler struct {
	walletSvc         ports.WalletService
	paymentMethodRepo ports.PaymentMethodRepository
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService, paymentMethodRepo ports.PaymentMethodRepository) *WalletHandler {
	return &WalletHandler{
		walletSvc:         walletSvc,
		paymentMethodRepo: paymentMethodRepo,
	}
}

// List handles GET /api/v1/wallets.
func (h *WalletHandler) List(c *gin.Context) {
	scope, ok := accessScope(c)
	if !ok {
		return
	}

	sorting, ok := dto.ParseWalletSorting(c.Query("sorting"))
	if !ok {
		response.Error(c, apperror.Validation("unknown sorting property"))
		return
	}

	params := ports.WalletListParams{
		Sorting:  sorting,
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 10),
	}
	for _, raw := range c.QueryArray("organization_id") {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, apperror.Validation("invalid organization_id"))
			return
		}
		params.OrganizationID = append(params.OrganizationID, id)
	}
	for _, raw := range c.QueryArray("customer_id") {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, apperror.Validation("invalid customer_id"))
			return
		}
		params.CustomerID = append(params.CustomerID, id)
	}

	wallets, total, err := h.walletSvc.List(c.Request.Context(), scope, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.WalletResponse, 0, len(wallets))
	for i := range wallets {
		items = append(items, dto.ToWalletResponse(&wallets[i]))
	}
	response.List(c, items, total, params.Page, params.PageSize)
}

// Get handles GET /api/v1/wallets/:id.
func (h *WalletHandler) Get(c *gin.Context) {
	scope, ok := accessScope(c)
	if !ok {
		return
	}
	wallet, ok := h.visibleWallet(c, scope)
	if !ok {
		return
	}
	response.OK(c, dto.ToWalletResponse(wallet))
}

// Create handles POST /api/v1/wallets.
func (h *WalletHandler) Create(c *gin.Context) {
	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	wallet, err := h.walletSvc.Create(c.Request.Context(), req.CustomerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToWalletResponse(wallet))
}

// TopUp handles POST /api/v1/wallets/:id/top-up.
func (h *WalletHandler) TopUp(c *gin.Context) {
	scope, ok := accessScope(c)
	if !ok {
		return
	}
	wallet, ok := h.visibleWallet(c, scope)
	if !ok {
		return
	}

	var req dto.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	var paymentMethod *domain.PaymentMethod
	if req.PaymentMethodID != nil {
		method, err := h.paymentMethodRepo.GetByID(c.Request.Context(), *req.PaymentMethodID)
		if err != nil {
			response.Error(c, apperror.ErrDatabaseError(err))
			return
		}
		if method == nil {
			response.Error(c, apperror.ErrInvalidPaymentMethod())
			return
		}
		paymentMethod = method
	}

	result, err := h.walletSvc.TopUp(c.Request.Context(), wallet, req.Amount, paymentMethod)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.TopUpResponse{
		Transaction: dto.ToTransactionResponse(result.Transaction),
		Balance:     result.Balance,
		CaptureID:   result.Capture.ID,
	})
}

// Debit handles POST /api/v1/wallets/:id/debit.
func (h *WalletHandler) Debit(c *gin.Context) {
	scope, ok := accessScope(c)
	if !ok {
		return
	}
	wallet, ok := h.visibleWallet(c, scope)
	if !ok {
		return
	}

	var req dto.DebitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	transaction, err := h.walletSvc.Debit(c.Request.Context(), wallet, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToTransactionResponse(transaction))
}

// Refund handles POST /api/v1/wallets/:id/refund.
func (h *WalletHandler) Refund(c *gin.Context) {
	scope, ok := accessScope(c)
	if !ok {
		return
	}
	wallet, ok := h.visibleWallet(c, scope)
	if !ok {
		return
	}

	var req dto.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	transaction, err := h.walletSvc.Refund(c.Request.Context(), wallet, &domain.Refund{
		ID:       req.RefundID,
		OrderID:  req.OrderID,
		Amount:   req.Amount,
		Currency: wallet.Currency,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToTransactionResponse(transaction))
}

// GetBalance handles GET /api/v1/wallets/:id/balance.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	scope, ok := accessScope(c)
	if !ok {
		return
	}
	wallet, ok := h.visibleWallet(c, scope)
	if !ok {
		return
	}

	balance, err := h.walletSvc.GetBalance(c.Request.Context(), wallet.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.BalanceResponse{WalletID: wallet.ID, Balance: balance})
}

// ListTransactions handles GET /api/v1/wallets/:id/transactions.
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	scope, ok := accessScope(c)
	if !ok {
		return
	}
	walletID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid wallet id"))
		return
	}

	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 10)

	transactions, total, err := h.walletSvc.ListTransactions(c.Request.Context(), scope, walletID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(transactions))
	for i := range transactions {
		items = append(items, dto.ToTransactionResponse(&transactions[i]))
	}
	response.List(c, items, total, page, pageSize)
}

// visibleWallet resolves the :id path param into a wallet the scope can see,
// writing the error response itself on failure.
func (h *WalletHandler) visibleWallet(c *gin.Context, scope domain.AccessScope) (*domain.Wallet, bool) {
	walletID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid wallet id"))
		return nil, false
	}

	wallet, err := h.walletSvc.Get(c.Request.Context(), scope, walletID)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	if wallet == nil {
		response.Error(c, apperror.ErrNotFound("wallet"))
		return nil, false
	}
	return wallet, true
}

func accessScope(c *gin.Context) (domain.AccessScope, bool) {
	value, ok := c.Get(middleware.CtxAccessScope)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return domain.AccessScope{}, false
	}
	scope, ok := value.(domain.AccessScope)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return domain.AccessScope{}, false
	}
	return scope, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
