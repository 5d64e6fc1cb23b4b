package service

import (
	"context"
	"fmt"
	"time"

	"storefront-service/internal/blob"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// MediaService handles the single-image attachments: category images and
// hero carousel slides.
type MediaService struct {
	store  *store.Store
	blobs  blob.Store
	logger *zap.Logger
}

// NewMediaService creates a new media service
func NewMediaService(store *store.Store, blobs blob.Store) *MediaService {
	return &MediaService{
		store:  store,
		blobs:  blobs,
		logger: util.GetLogger().Named("media"),
	}
}

// UploadCategoryImage stores a category image. With a category ID the old
// image is replaced: the new blob is written and the row updated before the
// old blob is removed. Without one only the blob is written, for categories
// still being created.
func (s *MediaService) UploadCategoryImage(ctx context.Context, categoryID *int64, file Upload) (string, error) {
	ctx, span := util.StartSpan(ctx, "MediaService.UploadCategoryImage")
	defer span.End()

	start := time.Now()
	url, err := s.blobs.Put(blob.DirCategories, blob.RandomName("", file.Name), file.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to store category image: %w", err)
	}
	util.UploadLatency.Observe(time.Since(start).Seconds())
	util.AttachmentsUploadedTotal.WithLabelValues("category").Inc()

	if categoryID == nil {
		return url, nil
	}

	category, err := s.store.GetCategoryByID(ctx, *categoryID)
	if err != nil {
		s.cleanupBlob(url)
		return "", err
	}

	if err := s.store.UpdateCategoryImage(ctx, *categoryID, &url); err != nil {
		s.cleanupBlob(url)
		return "", fmt.Errorf("failed to update category image: %w", err)
	}

	if category.ImageURL != nil {
		if err := s.blobs.Delete(*category.ImageURL); err != nil {
			s.logger.Warn("Failed to delete replaced category image",
				zap.String("url", *category.ImageURL), zap.Error(err))
		}
	}

	return url, nil
}

// DeleteCategoryImage clears the category's image column and removes the blob
func (s *MediaService) DeleteCategoryImage(ctx context.Context, categoryID int64) error {
	category, err := s.store.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if category.ImageURL == nil {
		return store.ErrImageNotFound
	}

	if err := s.store.UpdateCategoryImage(ctx, categoryID, nil); err != nil {
		return fmt.Errorf("failed to clear category image: %w", err)
	}

	if err := s.blobs.Delete(*category.ImageURL); err != nil {
		s.logger.Warn("Failed to delete category image file",
			zap.String("url", *category.ImageURL), zap.Error(err))
	}
	util.AttachmentsDeletedTotal.WithLabelValues("category").Inc()

	return nil
}

// UploadHeroImage stores a hero carousel image and returns its URL
func (s *MediaService) UploadHeroImage(ctx context.Context, file Upload) (string, error) {
	_, span := util.StartSpan(ctx, "MediaService.UploadHeroImage")
	defer span.End()

	start := time.Now()
	url, err := s.blobs.Put(blob.DirHero, blob.RandomName("hero-", file.Name), file.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to store hero image: %w", err)
	}
	util.UploadLatency.Observe(time.Since(start).Seconds())
	util.AttachmentsUploadedTotal.WithLabelValues("hero").Inc()

	return url, nil
}

// DeleteHeroImage removes the image blob of a hero slide and clears its column
func (s *MediaService) DeleteHeroImage(ctx context.Context, slideID int64) error {
	slide, err := s.store.GetHeroSlideByID(ctx, slideID)
	if err != nil {
		return err
	}
	if slide.ImageURL == nil {
		return store.ErrImageNotFound
	}

	if err := s.store.UpdateHeroSlideImage(ctx, slideID, nil); err != nil {
		return fmt.Errorf("failed to clear hero slide image: %w", err)
	}

	if err := s.blobs.Delete(*slide.ImageURL); err != nil {
		s.logger.Warn("Failed to delete hero image file",
			zap.String("url", *slide.ImageURL), zap.Error(err))
	}
	util.AttachmentsDeletedTotal.WithLabelValues("hero").Inc()

	return nil
}

func (s *MediaService) cleanupBlob(url string) {
	if err := s.blobs.Delete(url); err != nil {
		s.logger.Warn("Failed to clean up image file", zap.String("url", url), zap.Error(err))
	}
}
