package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"storefront-service/internal/service"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	orders          *service.OrderService
	receipts        *service.ReceiptService
	images          *service.ImageService
	media           *service.MediaService
	defaultPageSize int
}

// NewHandler creates a new HTTP handler
func NewHandler(
	orders *service.OrderService,
	receipts *service.ReceiptService,
	images *service.ImageService,
	media *service.MediaService,
	defaultPageSize int,
) *Handler {
	return &Handler{
		orders:          orders,
		receipts:        receipts,
		images:          images,
		media:           media,
		defaultPageSize: defaultPageSize,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/orders", h.createOrder)
		api.GET("/orders/track/:tracking", h.trackOrder)
		api.GET("/orders/track/:tracking/receipt", h.trackReceipt)
		api.POST("/orders/receipt/upload", h.checkoutReceiptUpload)
		api.GET("/user/orders", h.userOrders)

		admin := api.Group("/admin")
		{
			admin.GET("/orders", h.listOrders)
			admin.GET("/orders/:id", h.getOrder)
			admin.PUT("/orders/:id/status", h.updateOrderStatus)
			admin.PUT("/orders/:id/payment-status", h.updatePaymentStatus)
			admin.DELETE("/orders/:id", h.deleteOrder)

			admin.POST("/order-receipts", h.uploadReceipt)
			admin.GET("/order-receipts", h.getReceipt)
			admin.DELETE("/order-receipts", h.deleteReceipt)

			admin.GET("/product-images", h.listProductImages)
			admin.POST("/product-images", h.uploadProductImages)
			admin.PUT("/product-images", h.setPrimaryImage)
			admin.DELETE("/product-images", h.deleteProductImage)

			admin.POST("/category-images", h.uploadCategoryImage)
			admin.DELETE("/category-images", h.deleteCategoryImage)

			admin.POST("/upload-hero-image", h.uploadHeroImage)
			admin.POST("/delete-hero-image", h.deleteHeroImage)
		}
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// fail maps service errors to the JSON error shape and HTTP status
func fail(c *gin.Context, err error, message string) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, store.ErrOrderNotFound),
		errors.Is(err, store.ErrReceiptNotFound),
		errors.Is(err, store.ErrImageNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrUnknownStatus),
		errors.Is(err, service.ErrReceiptNotPDF):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrResourceBusy):
		status = http.StatusConflict
	}

	c.JSON(status, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// idParam parses a positive integer path parameter
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// idQuery parses a positive integer query parameter
func idQuery(c *gin.Context, name string) (int64, bool) {
	return parseID(c.Query(name))
}

func parseID(value string) (int64, bool) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// openUpload adapts a multipart file header into a service upload.
// The returned closer must be closed by the caller.
func openUpload(fh *multipart.FileHeader) (service.Upload, multipart.File, error) {
	f, err := fh.Open()
	if err != nil {
		return service.Upload{}, nil, err
	}
	return service.Upload{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Reader:      f,
	}, f, nil
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
