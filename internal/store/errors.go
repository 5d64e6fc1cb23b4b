package store

import "errors"

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrReceiptNotFound = errors.New("receipt not found")
	ErrImageNotFound   = errors.New("image not found")
)
