package handlers

import (
	"net/http"
	"strconv"

	"goldmine/internal/domain"

	"github.com/gin-gonic/gin"
)

// ListPlans returns the purchasable catalog
func (h *Handler) ListPlans(c *gin.Context) {
	plans, err := h.PlanService.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// MyPlans returns the authenticated user's subscriptions
func (h *Handler) MyPlans(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	plans, err := h.PlanService.ListForUser(c.Request.Context(), userID, 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// PurchasePlan buys the catalog plan in the path for the acting user
func (h *Handler) PurchasePlan(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	planID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
		return
	}

	ctx := c.Request.Context()
	sub, err := h.PlanService.Purchase(ctx, userID, planID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.AuditService.LogWithRequest(ctx, userID, domain.AuditActionPlanPurchase, domain.AuditCategoryPlan,
		c.ClientIP(), c.Request.UserAgent(), map[string]interface{}{
			"plan_id":  planID,
			"order_id": sub.OrderID,
			"price":    sub.Price,
		})

	c.JSON(http.StatusCreated, gin.H{"user_plan": sub})
}
