package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// uploadReceipt handles the admin receipt upload (multipart field "file")
func (h *Handler) uploadReceipt(c *gin.Context) {
	h.handleReceiptUpload(c, false)
}

// checkoutReceiptUpload is the checkout-flow receipt upload. Same service
// path as the admin upload; the response additionally marks whether the
// receipt was created or replaced.
func (h *Handler) checkoutReceiptUpload(c *gin.Context) {
	h.handleReceiptUpload(c, true)
}

func (h *Handler) handleReceiptUpload(c *gin.Context, markOutcome bool) {
	orderIDValue := c.PostForm("orderId")
	if orderIDValue == "" {
		badRequest(c, "Order ID is required")
		return
	}
	orderID, err := strconv.ParseInt(orderIDValue, 10, 64)
	if err != nil || orderID <= 0 {
		badRequest(c, "Invalid order ID")
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "Receipt file is required")
		return
	}

	upload, f, err := openUpload(fh)
	if err != nil {
		fail(c, err, "Failed to read uploaded file")
		return
	}
	defer f.Close()

	receipt, created, err := h.receipts.Upload(c.Request.Context(), orderID, upload)
	if err != nil {
		fail(c, err, "Failed to upload receipt")
		return
	}

	resp := gin.H{
		"success": true,
		"receipt": receipt,
	}
	if markOutcome {
		if created {
			resp["created"] = true
		} else {
			resp["updated"] = true
		}
	}
	c.JSON(http.StatusOK, resp)
}

// trackReceipt is the public receipt lookup by tracking number
func (h *Handler) trackReceipt(c *gin.Context) {
	tracking := c.Param("tracking")
	if tracking == "" {
		badRequest(c, "Tracking number is required")
		return
	}

	receipt, err := h.receipts.GetByTracking(c.Request.Context(), tracking)
	if err != nil {
		fail(c, err, "Receipt not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"receipt": receipt,
	})
}

// getReceipt fetches a receipt by order id
func (h *Handler) getReceipt(c *gin.Context) {
	orderID, ok := idQuery(c, "orderId")
	if !ok {
		badRequest(c, "Order ID is required")
		return
	}

	receipt, err := h.receipts.Get(c.Request.Context(), orderID)
	if err != nil {
		fail(c, err, "Receipt not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"receipt": receipt,
	})
}

// deleteReceipt removes a receipt by order id
func (h *Handler) deleteReceipt(c *gin.Context) {
	orderID, ok := idQuery(c, "orderId")
	if !ok {
		badRequest(c, "Order ID is required")
		return
	}

	if err := h.receipts.Delete(c.Request.Context(), orderID); err != nil {
		fail(c, err, "Failed to delete receipt")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
