package service

import (
	"context"
	"fmt"
	"time"

	"storefront-service/internal/blob"
	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/redisclient"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// ReceiptService manages the PDF payment receipt attached to an order.
// An order has at most one receipt; resubmission replaces it in place.
type ReceiptService struct {
	store          *store.Store
	blobs          blob.Store
	redis          *redisclient.Client
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	store *store.Store,
	blobs blob.Store,
	redis *redisclient.Client,
	eventPublisher *broker.EventPublisher,
) *ReceiptService {
	return &ReceiptService{
		store:          store,
		blobs:          blobs,
		redis:          redis,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger().Named("receipts"),
	}
}

// Upload attaches a receipt to an order, replacing any existing one. The
// new file is written and the row updated before the old file is removed,
// so a failure never leaves the order pointing at a missing blob. Returns
// the receipt and whether it was newly created (false means replaced).
func (s *ReceiptService) Upload(ctx context.Context, orderID int64, file Upload) (*models.OrderReceipt, bool, error) {
	ctx, span := util.StartSpan(ctx, "ReceiptService.Upload")
	defer span.End()

	if file.ContentType != "application/pdf" {
		util.ReceiptsRejectedTotal.WithLabelValues("not_pdf").Inc()
		return nil, false, ErrReceiptNotPDF
	}

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, false, err
	}

	var receipt *models.OrderReceipt
	var created bool

	err = withLock(ctx, s.redis, fmt.Sprintf("receipt:%d", orderID), func() error {
		existing, err := s.store.GetReceiptByOrderID(ctx, orderID)
		if err != nil {
			return err
		}

		fileName := fmt.Sprintf("receipt_%s_%d.pdf", order.TrackingNumber, time.Now().UnixMilli())

		start := time.Now()
		filePath, err := s.blobs.Put(blob.DirReceipts, fileName, file.Reader)
		if err != nil {
			util.ReceiptsRejectedTotal.WithLabelValues("disk_error").Inc()
			return fmt.Errorf("failed to store receipt file: %w", err)
		}
		util.UploadLatency.Observe(time.Since(start).Seconds())

		if existing != nil {
			oldPath := existing.FilePath
			existing.FilePath = filePath
			existing.FileName = fileName
			existing.OriginalName = file.Name
			existing.ContentType = file.ContentType

			if err := s.store.UpdateReceipt(ctx, existing); err != nil {
				// The row still points at the old file; drop the new one.
				if cleanupErr := s.blobs.Delete(filePath); cleanupErr != nil {
					s.logger.Warn("Failed to clean up receipt file", zap.Error(cleanupErr))
				}
				return fmt.Errorf("failed to update receipt: %w", err)
			}

			if err := s.blobs.Delete(oldPath); err != nil {
				s.logger.Warn("Failed to delete replaced receipt file",
					zap.String("path", oldPath), zap.Error(err))
			}

			receipt = existing
			created = false
			util.ReceiptsUploadedTotal.WithLabelValues("updated").Inc()
			return nil
		}

		newReceipt := &models.OrderReceipt{
			OrderID:        orderID,
			TrackingNumber: order.TrackingNumber,
			FilePath:       filePath,
			FileName:       fileName,
			OriginalName:   file.Name,
			ContentType:    file.ContentType,
		}

		if err := s.store.CreateReceipt(ctx, newReceipt); err != nil {
			if cleanupErr := s.blobs.Delete(filePath); cleanupErr != nil {
				s.logger.Warn("Failed to clean up receipt file", zap.Error(cleanupErr))
			}
			return fmt.Errorf("failed to create receipt: %w", err)
		}

		receipt = newReceipt
		created = true
		util.ReceiptsUploadedTotal.WithLabelValues("created").Inc()
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	s.logger.Info("Receipt uploaded",
		zap.Int64("order_id", orderID),
		zap.Bool("created", created),
		zap.String("file_path", receipt.FilePath))

	if err := s.redis.InvalidateOrder(ctx, order.TrackingNumber); err != nil {
		s.logger.Warn("Failed to invalidate order cache", zap.Error(err))
	}

	event := &models.ReceiptUploadedEvent{
		BaseEvent: newBaseEvent(models.EventTypeReceiptUploaded),
		OrderID:   orderID,
		ReceiptID: receipt.ID,
		FilePath:  receipt.FilePath,
		Replaced:  !created,
	}
	if err := s.eventPublisher.PublishReceiptUploaded(ctx, event); err != nil {
		s.logger.Error("Failed to publish ReceiptUploaded event", zap.Error(err))
	}

	return receipt, created, nil
}

// Get returns the receipt for an order
func (s *ReceiptService) Get(ctx context.Context, orderID int64) (*models.OrderReceipt, error) {
	receipt, err := s.store.GetReceiptByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, store.ErrReceiptNotFound
	}
	return receipt, nil
}

// GetByTracking returns the receipt for the order with the given tracking
// number. The public tracking page uses this to show the uploaded proof.
func (s *ReceiptService) GetByTracking(ctx context.Context, tracking string) (*models.OrderReceipt, error) {
	receipt, err := s.store.GetReceiptByTrackingNumber(ctx, tracking)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, store.ErrReceiptNotFound
	}
	return receipt, nil
}

// Delete removes an order's receipt, row first so a failed blob delete at
// worst orphans a file for the janitor.
func (s *ReceiptService) Delete(ctx context.Context, orderID int64) error {
	receipt, err := s.store.GetReceiptByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	if receipt == nil {
		return store.ErrReceiptNotFound
	}

	if err := s.store.DeleteReceiptByOrderID(ctx, orderID); err != nil {
		return fmt.Errorf("failed to delete receipt: %w", err)
	}

	if err := s.blobs.Delete(receipt.FilePath); err != nil {
		s.logger.Warn("Failed to delete receipt file",
			zap.String("path", receipt.FilePath), zap.Error(err))
	}

	util.ReceiptsDeletedTotal.Inc()

	if err := s.redis.InvalidateOrder(ctx, receipt.TrackingNumber); err != nil {
		s.logger.Warn("Failed to invalidate order cache", zap.Error(err))
	}

	event := &models.ReceiptDeletedEvent{
		BaseEvent: newBaseEvent(models.EventTypeReceiptDeleted),
		OrderID:   orderID,
		ReceiptID: receipt.ID,
	}
	if err := s.eventPublisher.PublishReceiptDeleted(ctx, event); err != nil {
		s.logger.Error("Failed to publish ReceiptDeleted event", zap.Error(err))
	}

	return nil
}
