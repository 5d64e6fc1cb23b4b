package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"storefront-service/internal/models"
)

// CreateOrderTx inserts an order and its items in one transaction
func (s *Store) CreateOrderTx(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (tracking_number, user_id, guest_email, status, payment_status,
			payment_method, total_amount, shipping_address, shipping_city,
			shipping_postal_code, shipping_country, contact_phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`

	if err := tx.QueryRowxContext(ctx, query,
		order.TrackingNumber, order.UserID, order.GuestEmail, order.Status,
		order.PaymentStatus, order.PaymentMethod, order.TotalAmount,
		order.ShippingAddress, order.ShippingCity, order.ShippingPostalCode,
		order.ShippingCountry, order.ContactPhone,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range items {
		items[i].OrderID = order.ID
		if err := tx.QueryRowxContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			items[i].OrderID, items[i].ProductID, items[i].Quantity, items[i].UnitPrice,
		).Scan(&items[i].ID); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit()
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByTrackingNumber retrieves an order by its tracking number
func (s *Store) GetOrderByTrackingNumber(ctx context.Context, tracking string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE tracking_number = $1", tracking)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderItemsByOrderID retrieves all items for an order with the product
// name and slug joined in
func (s *Store) GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items, `
		SELECT oi.*, p.name AS product_name, p.slug AS product_slug
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`, orderID)
	return items, err
}

// GetOrdersByUserID retrieves orders for a user, newest first
func (s *Store) GetOrdersByUserID(ctx context.Context, userID int64) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return orders, err
}

// ListOrders returns one page of orders plus the total count. status filters
// by exact match; search matches the numeric id exactly, or the tracking
// number and shipping address by case-insensitive substring.
func (s *Store) ListOrders(ctx context.Context, page, pageSize int, status, search string) ([]models.Order, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	var conds []string
	var args []interface{}

	if status != "" && status != "all" {
		args = append(args, status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	if search != "" {
		var or []string
		if id, err := strconv.ParseInt(search, 10, 64); err == nil {
			args = append(args, id)
			or = append(or, fmt.Sprintf("id = $%d", len(args)))
		}
		args = append(args, "%"+search+"%")
		or = append(or, fmt.Sprintf("tracking_number ILIKE $%d", len(args)))
		args = append(args, "%"+search+"%")
		or = append(or, fmt.Sprintf("shipping_address ILIKE $%d", len(args)))
		conds = append(conds, "("+strings.Join(or, " OR ")+")")
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM orders"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	args = append(args, pageSize, (page-1)*pageSize)
	query := fmt.Sprintf("SELECT * FROM orders%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)-1, len(args))

	var orders []models.Order
	if err := s.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, total, nil
}

// UpdateOrderStatus updates order status. Transition legality is the
// service layer's job; this write is unconditional.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int64, status string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2",
		status, orderID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// UpdateOrderPaymentStatus updates the payment status of an order
func (s *Store) UpdateOrderPaymentStatus(ctx context.Context, orderID int64, paymentStatus string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE orders SET payment_status = $1, updated_at = NOW() WHERE id = $2",
		paymentStatus, orderID)
	return err
}

// DeleteOrderTx removes the receipt row, the order items and the order in
// one transaction. It returns the receipt file path, if any, so the caller
// can remove the blob after the commit.
func (s *Store) DeleteOrderTx(ctx context.Context, orderID int64) (string, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var receiptPath string
	err = tx.GetContext(ctx, &receiptPath,
		"SELECT file_path FROM order_receipts WHERE order_id = $1", orderID)
	if err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("failed to look up receipt: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM order_receipts WHERE order_id = $1", orderID); err != nil {
		return "", fmt.Errorf("failed to delete receipt: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = $1", orderID); err != nil {
		return "", fmt.Errorf("failed to delete order items: %w", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", orderID)
	if err != nil {
		return "", fmt.Errorf("failed to delete order: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return "", err
	}
	if rows == 0 {
		return "", ErrOrderNotFound
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return receiptPath, nil
}

// GetReceiptByOrderID retrieves the receipt for an order, nil when none exists
func (s *Store) GetReceiptByOrderID(ctx context.Context, orderID int64) (*models.OrderReceipt, error) {
	var receipt models.OrderReceipt
	err := s.db.GetContext(ctx, &receipt,
		"SELECT * FROM order_receipts WHERE order_id = $1", orderID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// GetReceiptByTrackingNumber retrieves the receipt by tracking number, nil when none exists
func (s *Store) GetReceiptByTrackingNumber(ctx context.Context, tracking string) (*models.OrderReceipt, error) {
	var receipt models.OrderReceipt
	err := s.db.GetContext(ctx, &receipt,
		"SELECT * FROM order_receipts WHERE tracking_number = $1", tracking)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// CreateReceipt inserts a new receipt row
func (s *Store) CreateReceipt(ctx context.Context, receipt *models.OrderReceipt) error {
	query := `
		INSERT INTO order_receipts (order_id, tracking_number, file_path, file_name,
			original_name, content_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, uploaded_at`

	return s.db.QueryRowxContext(ctx, query,
		receipt.OrderID, receipt.TrackingNumber, receipt.FilePath, receipt.FileName,
		receipt.OriginalName, receipt.ContentType,
	).Scan(&receipt.ID, &receipt.UploadedAt)
}

// UpdateReceipt replaces the file columns of an existing receipt row
func (s *Store) UpdateReceipt(ctx context.Context, receipt *models.OrderReceipt) error {
	query := `
		UPDATE order_receipts
		SET file_path = $1, file_name = $2, original_name = $3, content_type = $4,
			uploaded_at = NOW()
		WHERE id = $5
		RETURNING uploaded_at`

	return s.db.QueryRowxContext(ctx, query,
		receipt.FilePath, receipt.FileName, receipt.OriginalName, receipt.ContentType,
		receipt.ID,
	).Scan(&receipt.UploadedAt)
}

// DeleteReceiptByOrderID removes the receipt row for an order
func (s *Store) DeleteReceiptByOrderID(ctx context.Context, orderID int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM order_receipts WHERE order_id = $1", orderID)
	return err
}
