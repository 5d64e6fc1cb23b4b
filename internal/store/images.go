package store

import (
	"context"
	"database/sql"
	"fmt"

	"storefront-service/internal/models"
)

// ListProductImages returns a product's images ordered by position.
// Position 0 is the primary image.
func (s *Store) ListProductImages(ctx context.Context, productID int64) ([]models.ProductImage, error) {
	var images []models.ProductImage
	err := s.db.SelectContext(ctx, &images,
		"SELECT * FROM product_images WHERE product_id = $1 ORDER BY position", productID)
	if err != nil {
		return nil, err
	}
	for i := range images {
		images[i].IsPrimary = images[i].Position == 0
	}
	return images, nil
}

// AddProductImages appends image URLs at the tail of the product's list
func (s *Store) AddProductImages(ctx context.Context, productID int64, urls []string) error {
	if len(urls) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var next int
	err = tx.GetContext(ctx, &next,
		"SELECT COALESCE(MAX(position) + 1, 0) FROM product_images WHERE product_id = $1", productID)
	if err != nil {
		return fmt.Errorf("failed to find next image position: %w", err)
	}

	for i, url := range urls {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO product_images (product_id, url, position) VALUES ($1, $2, $3)",
			productID, url, next+i); err != nil {
			return fmt.Errorf("failed to insert product image: %w", err)
		}
	}

	return tx.Commit()
}

// DeleteProductImageByURL removes one image row and renumbers the rest.
// Returns false without error when the URL is not attached to the product.
func (s *Store) DeleteProductImageByURL(ctx context.Context, productID int64, url string) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var position int
	err = tx.GetContext(ctx, &position,
		"SELECT position FROM product_images WHERE product_id = $1 AND url = $2", productID, url)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM product_images WHERE product_id = $1 AND url = $2", productID, url); err != nil {
		return false, fmt.Errorf("failed to delete product image: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE product_images SET position = position - 1 WHERE product_id = $1 AND position > $2",
		productID, position); err != nil {
		return false, fmt.Errorf("failed to renumber product images: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// SetPrimaryImage moves one image to position 0, shifting the images before
// it down one slot so relative order is preserved. A no-op when the image is
// already primary. Returns false without error when the URL is not attached
// to the product.
func (s *Store) SetPrimaryImage(ctx context.Context, productID int64, url string) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var position int
	err = tx.GetContext(ctx, &position,
		"SELECT position FROM product_images WHERE product_id = $1 AND url = $2", productID, url)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if position == 0 {
		return true, tx.Commit()
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE product_images SET position = position + 1 WHERE product_id = $1 AND position < $2",
		productID, position); err != nil {
		return false, fmt.Errorf("failed to shift product images: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE product_images SET position = 0 WHERE product_id = $1 AND url = $2",
		productID, url); err != nil {
		return false, fmt.Errorf("failed to promote product image: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}
