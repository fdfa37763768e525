package handlers

import (
	"net/http"

	"goldmine/internal/domain"
	"goldmine/internal/service"

	"github.com/gin-gonic/gin"
)

type RechargeRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	UTR    string  `json:"utr" binding:"required,min=6,max=64"`
	Method string  `json:"method" binding:"required,oneof=upi bank"`
}

type WithdrawalRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Method      string  `json:"method" binding:"required,oneof=bank upi"`
	BankAccount string  `json:"bank_account"`
	BankIFSC    string  `json:"bank_ifsc"`
	UpiID       string  `json:"upi_id"`
}

// Balance returns the authenticated user's current wallet balance
func (h *Handler) Balance(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	balance, err := h.Ledger.GetBalance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// RequestRecharge records a pending wallet top-up for admin review
func (h *Handler) RequestRecharge(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req RechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	rc, err := h.RechargeService.Request(ctx, userID, req.Amount, req.UTR, req.Method)
	if err != nil {
		respondError(c, err)
		return
	}

	h.AuditService.LogWithRequest(ctx, userID, domain.AuditActionRechargeRequest, domain.AuditCategoryWallet,
		c.ClientIP(), c.Request.UserAgent(), map[string]interface{}{
			"recharge_id": rc.ID,
			"amount":      rc.Amount,
			"utr":         rc.UTR,
		})

	c.JSON(http.StatusCreated, gin.H{"recharge": rc})
}

// MyRecharges returns the authenticated user's recharge history
func (h *Handler) MyRecharges(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	recharges, err := h.RechargeService.ListForUser(c.Request.Context(), userID, 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recharges": recharges})
}

// EstimateWithdrawal previews the tax and net payout for an amount
func (h *Handler) EstimateWithdrawal(c *gin.Context) {
	var req struct {
		Amount float64 `json:"amount" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	tax, net := h.WithdrawalService.Estimate(req.Amount)
	c.JSON(http.StatusOK, gin.H{
		"amount": req.Amount,
		"tax":    tax,
		"net":    net,
	})
}

// RequestWithdrawal records a pending payout request for admin review
func (h *Handler) RequestWithdrawal(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	w, err := h.WithdrawalService.Request(ctx, userID, req.Amount, req.Method, service.MethodDetails{
		BankAccount: req.BankAccount,
		BankIFSC:    req.BankIFSC,
		UpiID:       req.UpiID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.AuditService.LogWithRequest(ctx, userID, domain.AuditActionWithdrawRequest, domain.AuditCategoryWallet,
		c.ClientIP(), c.Request.UserAgent(), map[string]interface{}{
			"withdrawal_id": w.ID,
			"amount":        w.Amount,
			"tax":           w.TaxAmount,
			"net":           w.NetAmount,
		})

	c.JSON(http.StatusCreated, gin.H{"withdrawal": w})
}

// MyWithdrawals returns the authenticated user's withdrawal history
func (h *Handler) MyWithdrawals(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	withdrawals, err := h.WithdrawalService.ListForUser(c.Request.Context(), userID, 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": withdrawals})
}
