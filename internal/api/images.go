package api

import (
	"mime/multipart"
	"net/http"

	"storefront-service/internal/service"

	"github.com/gin-gonic/gin"
)

// listProductImages returns a product's images ordered by position
func (h *Handler) listProductImages(c *gin.Context) {
	productID, ok := idQuery(c, "productId")
	if !ok {
		badRequest(c, "Product ID is required")
		return
	}

	images, err := h.images.List(c.Request.Context(), productID)
	if err != nil {
		fail(c, err, "Failed to get product images")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"images":  images,
	})
}

// uploadProductImages handles multipart upload of one or more images
// (repeatable field "image") appended to a product
func (h *Handler) uploadProductImages(c *gin.Context) {
	productID, ok := parseID(c.PostForm("productId"))
	if !ok {
		badRequest(c, "Product ID is required")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, "Invalid multipart form")
		return
	}

	fileHeaders := form.File["image"]
	if len(fileHeaders) == 0 {
		badRequest(c, "No images found")
		return
	}

	files := make([]service.Upload, 0, len(fileHeaders))
	closers := make([]multipart.File, 0, len(fileHeaders))
	defer func() {
		for _, f := range closers {
			f.Close()
		}
	}()
	for _, fh := range fileHeaders {
		upload, f, err := openUpload(fh)
		if err != nil {
			fail(c, err, "Failed to read uploaded file")
			return
		}
		files = append(files, upload)
		closers = append(closers, f)
	}

	urls, images, err := h.images.Upload(c.Request.Context(), productID, files)
	if err != nil {
		fail(c, err, "Failed to upload product images")
		return
	}

	resp := gin.H{
		"success":   true,
		"images":    images,
		"imageUrls": urls,
	}
	if len(urls) == 1 {
		resp["imageUrl"] = urls[0]
	}
	c.JSON(http.StatusOK, resp)
}

// setPrimaryImage moves one image URL to the front of the product's list
func (h *Handler) setPrimaryImage(c *gin.Context) {
	var req struct {
		ProductID int64  `json:"productId" binding:"required"`
		ImageURL  string `json:"imageUrl" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Product ID and image URL are required")
		return
	}

	found, images, err := h.images.SetPrimary(c.Request.Context(), req.ProductID, req.ImageURL)
	if err != nil {
		fail(c, err, "Failed to set image as primary")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": found,
		"images":  images,
	})
}

// deleteProductImage removes one image and its file
func (h *Handler) deleteProductImage(c *gin.Context) {
	productID, ok := idQuery(c, "productId")
	imageURL := c.Query("imageUrl")
	if !ok || imageURL == "" {
		badRequest(c, "Product ID and image URL are required")
		return
	}

	found, images, err := h.images.Delete(c.Request.Context(), productID, imageURL)
	if err != nil {
		fail(c, err, "Failed to delete image")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": found,
		"images":  images,
	})
}

// uploadCategoryImage uploads or replaces a category image. Without a
// categoryId only the file is stored, for categories still being created.
func (h *Handler) uploadCategoryImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "Image file is required")
		return
	}

	var categoryID *int64
	if value := c.PostForm("categoryId"); value != "" {
		id, ok := parseID(value)
		if !ok {
			badRequest(c, "Invalid category ID")
			return
		}
		categoryID = &id
	}

	upload, f, err := openUpload(fh)
	if err != nil {
		fail(c, err, "Failed to read uploaded file")
		return
	}
	defer f.Close()

	imageURL, err := h.media.UploadCategoryImage(c.Request.Context(), categoryID, upload)
	if err != nil {
		fail(c, err, "Failed to upload category image")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"imageUrl": imageURL,
	})
}

// deleteCategoryImage removes a category's image
func (h *Handler) deleteCategoryImage(c *gin.Context) {
	categoryID, ok := idQuery(c, "categoryId")
	if !ok {
		badRequest(c, "Category ID is required")
		return
	}

	if err := h.media.DeleteCategoryImage(c.Request.Context(), categoryID); err != nil {
		fail(c, err, "Failed to delete category image")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// uploadHeroImage stores a hero-carousel image
func (h *Handler) uploadHeroImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "No image found")
		return
	}

	upload, f, err := openUpload(fh)
	if err != nil {
		fail(c, err, "Failed to read uploaded file")
		return
	}
	defer f.Close()

	imageURL, err := h.media.UploadHeroImage(c.Request.Context(), upload)
	if err != nil {
		fail(c, err, "Failed to upload hero image")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"imageUrl": imageURL,
	})
}

// deleteHeroImage removes the image file of a hero slide
func (h *Handler) deleteHeroImage(c *gin.Context) {
	var req struct {
		SlideID int64 `json:"slideId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "No slide ID provided")
		return
	}

	if err := h.media.DeleteHeroImage(c.Request.Context(), req.SlideID); err != nil {
		fail(c, err, "Failed to delete hero image")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
