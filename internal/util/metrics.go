package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created at checkout",
	})

	OrdersDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_deleted_total",
		Help: "Total number of orders removed by admins",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order operations",
	}, []string{"reason"})

	OrderStatusTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Accepted order status transitions",
	}, []string{"from", "to"})

	OrderStatusRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_status_rejected_total",
		Help: "Order status transitions rejected as illegal",
	})

	ReceiptsUploadedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "receipts_uploaded_total",
		Help: "Receipts attached to orders, by outcome (created or updated)",
	}, []string{"outcome"})

	ReceiptsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "receipts_rejected_total",
		Help: "Receipt uploads rejected before any write",
	}, []string{"reason"})

	ReceiptsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "receipts_deleted_total",
		Help: "Receipts removed from orders",
	})

	AttachmentsUploadedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attachments_uploaded_total",
		Help: "Attachment blobs written, by kind",
	}, []string{"kind"})

	AttachmentsDeletedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attachments_deleted_total",
		Help: "Attachment blobs deleted, by kind",
	}, []string{"kind"})

	JanitorFilesRemovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "janitor_files_removed_total",
		Help: "Orphaned attachment files removed by the janitor",
	})

	AuditEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "audit_events_total",
		Help: "Order events recorded by the audit worker",
	}, []string{"type"})

	UploadLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "attachment_upload_latency_seconds",
		Help:    "Latency of attachment disk writes",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
