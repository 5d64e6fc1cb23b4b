package service

import (
	"context"
	"fmt"
	"time"

	"storefront-service/internal/blob"
	"storefront-service/internal/models"
	"storefront-service/internal/redisclient"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// imageStore is the slice of the store the image service touches.
type imageStore interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	ListProductImages(ctx context.Context, productID int64) ([]models.ProductImage, error)
	AddProductImages(ctx context.Context, productID int64, urls []string) error
	DeleteProductImageByURL(ctx context.Context, productID int64, url string) (bool, error)
	SetPrimaryImage(ctx context.Context, productID int64, url string) (bool, error)
}

// ImageService manages product image rows and their blobs. All mutations
// of one product's image list run under a per-product lock so concurrent
// edits cannot corrupt the ordering.
type ImageService struct {
	store  imageStore
	blobs  blob.Store
	redis  *redisclient.Client
	logger *zap.Logger
}

// NewImageService creates a new product image service
func NewImageService(store *store.Store, blobs blob.Store, redis *redisclient.Client) *ImageService {
	return &ImageService{
		store:  store,
		blobs:  blobs,
		redis:  redis,
		logger: util.GetLogger().Named("images"),
	}
}

// List returns a product's images ordered by position
func (s *ImageService) List(ctx context.Context, productID int64) ([]models.ProductImage, error) {
	return s.store.ListProductImages(ctx, productID)
}

// Upload stores the files and appends them to the product's image list.
// Returns the stored URLs and the updated image list.
func (s *ImageService) Upload(ctx context.Context, productID int64, files []Upload) ([]string, []models.ProductImage, error) {
	ctx, span := util.StartSpan(ctx, "ImageService.Upload")
	defer span.End()

	if _, err := s.store.GetProductByID(ctx, productID); err != nil {
		return nil, nil, err
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		start := time.Now()
		url, err := s.blobs.Put(blob.DirProducts, blob.RandomName("", file.Name), file.Reader)
		if err != nil {
			// Drop the blobs already written for this request.
			s.cleanupBlobs(urls)
			return nil, nil, fmt.Errorf("failed to store image file: %w", err)
		}
		util.UploadLatency.Observe(time.Since(start).Seconds())
		util.AttachmentsUploadedTotal.WithLabelValues("product").Inc()
		urls = append(urls, url)
	}

	err := withLock(ctx, s.redis, fmt.Sprintf("product-images:%d", productID), func() error {
		return s.store.AddProductImages(ctx, productID, urls)
	})
	if err != nil {
		s.cleanupBlobs(urls)
		return nil, nil, fmt.Errorf("failed to attach images: %w", err)
	}

	s.logger.Info("Product images uploaded",
		zap.Int64("product_id", productID), zap.Int("count", len(urls)))

	return urls, s.reloadImages(ctx, productID), nil
}

// SetPrimary moves one image to the front of the product's list. Returns
// false when the URL is not attached to the product.
func (s *ImageService) SetPrimary(ctx context.Context, productID int64, imageURL string) (bool, []models.ProductImage, error) {
	ctx, span := util.StartSpan(ctx, "ImageService.SetPrimary")
	defer span.End()

	var found bool
	err := withLock(ctx, s.redis, fmt.Sprintf("product-images:%d", productID), func() error {
		var err error
		found, err = s.store.SetPrimaryImage(ctx, productID, imageURL)
		return err
	})
	if err != nil {
		return false, nil, err
	}

	return found, s.reloadImages(ctx, productID), nil
}

// Delete removes one image row and its blob. Returns false when the URL is
// not attached to the product; the list is left untouched in that case.
func (s *ImageService) Delete(ctx context.Context, productID int64, imageURL string) (bool, []models.ProductImage, error) {
	ctx, span := util.StartSpan(ctx, "ImageService.Delete")
	defer span.End()

	var found bool
	err := withLock(ctx, s.redis, fmt.Sprintf("product-images:%d", productID), func() error {
		var err error
		found, err = s.store.DeleteProductImageByURL(ctx, productID, imageURL)
		return err
	})
	if err != nil {
		return false, nil, err
	}

	if found {
		if err := s.blobs.Delete(imageURL); err != nil {
			s.logger.Warn("Failed to delete image file",
				zap.String("url", imageURL), zap.Error(err))
		}
		util.AttachmentsDeletedTotal.WithLabelValues("product").Inc()
	}

	return found, s.reloadImages(ctx, productID), nil
}

// reloadImages re-reads the list after a committed mutation. The mutation
// already happened, so a failed re-read degrades to an empty list instead
// of failing the request.
func (s *ImageService) reloadImages(ctx context.Context, productID int64) []models.ProductImage {
	images, err := s.store.ListProductImages(ctx, productID)
	if err != nil {
		s.logger.Warn("Failed to reload product images",
			zap.Int64("product_id", productID), zap.Error(err))
		return []models.ProductImage{}
	}
	return images
}

func (s *ImageService) cleanupBlobs(urls []string) {
	for _, url := range urls {
		if err := s.blobs.Delete(url); err != nil {
			s.logger.Warn("Failed to clean up image file",
				zap.String("url", url), zap.Error(err))
		}
	}
}
