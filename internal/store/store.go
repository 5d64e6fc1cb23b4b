package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"storefront-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetUserByID retrieves a registered user. Returns nil without error when
// the user row is gone so order detail reads degrade instead of failing.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user,
		"SELECT id, first_name, last_name, email FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetProductsByIDs retrieves multiple products by IDs
func (s *Store) GetProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM products WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var products []models.Product
	err = s.db.SelectContext(ctx, &products, query, args...)
	return products, err
}

// GetCategoryByID retrieves a category by ID
func (s *Store) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	err := s.db.GetContext(ctx, &category, "SELECT * FROM categories WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("category not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategoryImage sets or clears the category image URL
func (s *Store) UpdateCategoryImage(ctx context.Context, categoryID int64, imageURL *string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE categories SET image_url = $1 WHERE id = $2", imageURL, categoryID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("category not found: %d", categoryID)
	}
	return nil
}

// GetHeroSlideByID retrieves a hero slide by ID
func (s *Store) GetHeroSlideByID(ctx context.Context, id int64) (*models.HeroSlide, error) {
	var slide models.HeroSlide
	err := s.db.GetContext(ctx, &slide, "SELECT * FROM hero_slides WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("hero slide not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &slide, nil
}

// UpdateHeroSlideImage sets or clears the hero slide image URL
func (s *Store) UpdateHeroSlideImage(ctx context.Context, slideID int64, imageURL *string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE hero_slides SET image_url = $1 WHERE id = $2", imageURL, slideID)
	return err
}

// ListAttachmentURLs returns every blob URL referenced by the database.
// The janitor diffs this set against the files actually on disk.
func (s *Store) ListAttachmentURLs(ctx context.Context) ([]string, error) {
	var urls []string
	err := s.db.SelectContext(ctx, &urls, `
		SELECT url FROM product_images
		UNION
		SELECT image_url FROM categories WHERE image_url IS NOT NULL
		UNION
		SELECT image_url FROM hero_slides WHERE image_url IS NOT NULL
		UNION
		SELECT file_path FROM order_receipts`)
	return urls, err
}

// InsertOrderEvent appends one audit-trail row
func (s *Store) InsertOrderEvent(ctx context.Context, orderID int64, eventType string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO order_events (order_id, event_type, payload) VALUES ($1, $2, $3)",
		orderID, eventType, payload)
	return err
}

// IsEventProcessed checks if an event has been processed
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// MarkEventProcessed marks an event as processed
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}
