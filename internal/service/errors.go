package service

import "errors"

var (
	// ErrInvalidTransition rejects an order status change the lifecycle
	// does not allow.
	ErrInvalidTransition = errors.New("illegal order status transition")

	// ErrUnknownStatus rejects a status value outside the enum.
	ErrUnknownStatus = errors.New("unknown order status")

	// ErrReceiptNotPDF rejects receipt uploads that are not PDFs.
	ErrReceiptNotPDF = errors.New("only PDF files are accepted for receipts")

	// ErrResourceBusy signals that another mutation holds the lock for
	// the same order or product.
	ErrResourceBusy = errors.New("resource is being modified, retry shortly")
)
