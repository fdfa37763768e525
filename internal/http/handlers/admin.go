package handlers

import (
	"net/http"
	"strconv"

	"goldmine/internal/domain"

	"github.com/gin-gonic/gin"
)

// AdminListRecharges returns recharges by status, default pending
func (h *Handler) AdminListRecharges(c *gin.Context) {
	status := domain.RechargeStatus(c.DefaultQuery("status", "pending"))
	switch status {
	case domain.RechargeStatusPending, domain.RechargeStatusApproved, domain.RechargeStatusRejected:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	recharges, err := h.RechargeService.ListByStatus(c.Request.Context(), status, 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recharges": recharges})
}

// AdminApproveRecharge credits the user and marks the recharge approved
func (h *Handler) AdminApproveRecharge(c *gin.Context) {
	adminID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx := c.Request.Context()
	rc, err := h.RechargeService.Approve(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	h.AuditService.LogWithRequest(ctx, adminID, domain.AuditActionRechargeApprove, domain.AuditCategoryAdmin,
		c.ClientIP(), c.Request.UserAgent(), map[string]interface{}{
			"recharge_id": rc.ID,
			"user_id":     rc.UserID,
			"amount":      rc.Amount,
		})

	c.JSON(http.StatusOK, gin.H{"recharge": rc})
}

// AdminRejectRecharge marks a pending recharge rejected
func (h *Handler) AdminRejectRecharge(c *gin.Context) {
	adminID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx := c.Request.Context()
	rc, err := h.RechargeService.Reject(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	h.AuditService.LogWithRequest(ctx, adminID, domain.AuditActionRechargeReject, domain.AuditCategoryAdmin,
		c.ClientIP(), c.Request.UserAgent(), map[string]interface{}{
			"recharge_id": rc.ID,
			"user_id":     rc.UserID,
		})

	c.JSON(http.StatusOK, gin.H{"recharge": rc})
}

// AdminListWithdrawals returns withdrawals by status, default pending
func (h *Handler) AdminListWithdrawals(c *gin.Context) {
	status := domain.WithdrawalStatus(c.DefaultQuery("status", "pending"))
	switch status {
	case domain.WithdrawalStatusPending, domain.WithdrawalStatusApproved, domain.WithdrawalStatusRejected:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	withdrawals, err := h.WithdrawalService.ListByStatus(c.Request.Context(), status, 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": withdrawals})
}

// AdminApproveWithdrawal debits the gross amount and marks the request
// approved. Fails with 402 when the balance no longer covers it.
func (h *Handler) AdminApproveWithdrawal(c *gin.Context) {
	adminID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx := c.Request.Context()
	w, err := h.WithdrawalService.Approve(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	h.AuditService.LogWithRequest(ctx, adminID, domain.AuditActionWithdrawApprove, domain.AuditCategoryAdmin,
		c.ClientIP(), c.Request.UserAgent(), map[string]interface{}{
			"withdrawal_id": w.ID,
			"user_id":       w.UserID,
			"amount":        w.Amount,
			"net":           w.NetAmount,
		})

	c.JSON(http.StatusOK, gin.H{"withdrawal": w})
}

// AdminRejectWithdrawal marks a pending withdrawal rejected
func (h *Handler) AdminRejectWithdrawal(c *gin.Context) {
	adminID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx := c.Request.Context()
	w, err := h.WithdrawalService.Reject(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	h.AuditService.LogWithRequest(ctx, adminID, domain.AuditActionWithdrawReject, domain.AuditCategoryAdmin,
		c.ClientIP(), c.Request.UserAgent(), map[string]interface{}{
			"withdrawal_id": w.ID,
			"user_id":       w.UserID,
		})

	c.JSON(http.StatusOK, gin.H{"withdrawal": w})
}

// AdminUserAudit returns recent audit entries for a user
func (h *Handler) AdminUserAudit(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	logs, err := h.AuditService.ListForUser(c.Request.Context(), userID, 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit_logs": logs})
}

// AdminStats returns platform counters for the dashboard
func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.AdminService.GetStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// AdminRunSettlement triggers a settlement pass outside the scheduler.
// Safe to call repeatedly; already-paid plans are skipped.
func (h *Handler) AdminRunSettlement(c *gin.Context) {
	adminID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	report, err := h.SettlementService.Run(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "settlement failed", "report": report})
		return
	}

	h.AuditService.LogWithRequest(ctx, adminID, domain.AuditActionSettlementRun, domain.AuditCategorySettlement,
		c.ClientIP(), c.Request.UserAgent(), map[string]interface{}{
			"candidates": report.Candidates,
			"credited":   report.Credited,
		})

	c.JSON(http.StatusOK, gin.H{"report": report})
}
