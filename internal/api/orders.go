package api

import (
	"net/http"
	"strconv"

	"storefront-service/internal/service"

	"github.com/gin-gonic/gin"
)

// createOrder handles the checkout request
func (h *Handler) createOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		fail(c, err, "Failed to create order")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"order":   order,
	})
}

// trackOrder is the public order lookup by tracking number
func (h *Handler) trackOrder(c *gin.Context) {
	tracking := c.Param("tracking")
	if tracking == "" {
		badRequest(c, "Tracking number is required")
		return
	}

	order, err := h.orders.GetOrderByTracking(c.Request.Context(), tracking)
	if err != nil {
		fail(c, err, "Order not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   order,
	})
}

// userOrders lists the calling user's orders with their items
func (h *Handler) userOrders(c *gin.Context) {
	userIDHeader := c.GetHeader("X-User-ID")
	if userIDHeader == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	userID, err := strconv.ParseInt(userIDHeader, 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return
	}

	orders, err := h.orders.GetUserOrders(c.Request.Context(), userID)
	if err != nil {
		fail(c, err, "Failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// listOrders handles the paged admin order list
func (h *Handler) listOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(h.defaultPageSize)))
	status := c.Query("status")
	search := c.Query("search")

	orders, total, err := h.orders.ListOrders(c.Request.Context(), page, pageSize, status, search)
	if err != nil {
		fail(c, err, "Failed to list orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"orders":     orders,
		"totalCount": total,
	})
}

// getOrder returns an order with items and receipt
func (h *Handler) getOrder(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		badRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		fail(c, err, "Order not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   order,
	})
}

// updateOrderStatus applies a validated status transition
func (h *Handler) updateOrderStatus(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		badRequest(c, "Invalid order ID")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Status is required")
		return
	}

	if err := h.orders.ChangeStatus(c.Request.Context(), orderID, req.Status); err != nil {
		fail(c, err, "Failed to update order status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// updatePaymentStatus marks an order's payment as verified or pending
func (h *Handler) updatePaymentStatus(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		badRequest(c, "Invalid order ID")
		return
	}

	var req struct {
		PaymentStatus string `json:"payment_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Payment status is required")
		return
	}

	if err := h.orders.ChangePaymentStatus(c.Request.Context(), orderID, req.PaymentStatus); err != nil {
		fail(c, err, "Failed to update payment status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// deleteOrder cascade-deletes an order, its items and its receipt
func (h *Handler) deleteOrder(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		badRequest(c, "Invalid order ID")
		return
	}

	if err := h.orders.DeleteOrder(c.Request.Context(), orderID); err != nil {
		fail(c, err, "Failed to delete order")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
