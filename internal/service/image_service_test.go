package service

import (
	"context"
	"errors"
	"testing"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubImageStore struct {
	images  []models.ProductImage
	listErr error
}

func (s *stubImageStore) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	return &models.Product{ID: id}, nil
}

func (s *stubImageStore) ListProductImages(ctx context.Context, productID int64) ([]models.ProductImage, error) {
	return s.images, s.listErr
}

func (s *stubImageStore) AddProductImages(ctx context.Context, productID int64, urls []string) error {
	return nil
}

func (s *stubImageStore) DeleteProductImageByURL(ctx context.Context, productID int64, url string) (bool, error) {
	return true, nil
}

func (s *stubImageStore) SetPrimaryImage(ctx context.Context, productID int64, url string) (bool, error) {
	return true, nil
}

func TestReloadImagesSurvivesReadFailure(t *testing.T) {
	// The mutation already committed when the list is re-read, so a read
	// failure must not turn the response into an error.
	svc := &ImageService{
		store:  &stubImageStore{listErr: errors.New("connection reset")},
		logger: zap.NewNop(),
	}

	images := svc.reloadImages(context.Background(), 1)

	assert.NotNil(t, images)
	assert.Empty(t, images)
}

func TestReloadImagesReturnsList(t *testing.T) {
	svc := &ImageService{
		store: &stubImageStore{images: []models.ProductImage{
			{ProductID: 1, URL: "/products/a.jpg", Position: 0},
			{ProductID: 1, URL: "/products/b.jpg", Position: 1},
		}},
		logger: zap.NewNop(),
	}

	images := svc.reloadImages(context.Background(), 1)

	assert.Len(t, images, 2)
	assert.Equal(t, "/products/a.jpg", images[0].URL)
}
