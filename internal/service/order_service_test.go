package service

import (
	"testing"
	"time"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCalculateTotal(t *testing.T) {
	items := []models.OrderItem{
		{ProductID: 1, Quantity: 2, UnitPrice: 400},
		{ProductID: 2, Quantity: 1, UnitPrice: 200},
	}

	total := CalculateTotal(items, 150)

	assert.Equal(t, int64(2*400+200+150), total) // 1150

	// The confirmation page recomputes the cart subtotal as total minus
	// the shipping fee; the round trip must reproduce it.
	assert.Equal(t, int64(1000), total-150)
}

func TestCalculateTotalNoItems(t *testing.T) {
	assert.Equal(t, int64(150), CalculateTotal(nil, 150))
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		allowed  bool
	}{
		{models.OrderStatusPending, models.OrderStatusProcessing, true},
		{models.OrderStatusPending, models.OrderStatusCancelled, true},
		{models.OrderStatusProcessing, models.OrderStatusShipped, true},
		{models.OrderStatusProcessing, models.OrderStatusCancelled, true},
		{models.OrderStatusShipped, models.OrderStatusDelivered, true},

		{models.OrderStatusPending, models.OrderStatusShipped, false},
		{models.OrderStatusPending, models.OrderStatusDelivered, false},
		{models.OrderStatusShipped, models.OrderStatusCancelled, false},
		{models.OrderStatusDelivered, models.OrderStatusPending, false},
		{models.OrderStatusDelivered, models.OrderStatusCancelled, false},
		{models.OrderStatusCancelled, models.OrderStatusPending, false},
		{models.OrderStatusCancelled, models.OrderStatusProcessing, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{
		models.OrderStatusPending,
		models.OrderStatusProcessing,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
	} {
		assert.True(t, ValidStatus(s), s)
	}

	assert.False(t, ValidStatus("PAID"))
	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("refunded"))
}

func TestValidPaymentStatus(t *testing.T) {
	assert.True(t, ValidPaymentStatus(models.PaymentStatusPending))
	assert.True(t, ValidPaymentStatus(models.PaymentStatusPaid))

	assert.False(t, ValidPaymentStatus(""))
	assert.False(t, ValidPaymentStatus("refunded"))
	assert.False(t, ValidPaymentStatus(models.OrderStatusShipped))
}

func TestUserDisplayName(t *testing.T) {
	full := userDisplayName("Ada", "Lovelace")
	if assert.NotNil(t, full) {
		assert.Equal(t, "Ada Lovelace", *full)
	}

	firstOnly := userDisplayName("Ada", "")
	if assert.NotNil(t, firstOnly) {
		assert.Equal(t, "Ada", *firstOnly)
	}

	lastOnly := userDisplayName("", "Lovelace")
	if assert.NotNil(t, lastOnly) {
		assert.Equal(t, "Lovelace", *lastOnly)
	}

	// No name columns at all, as with rows created before the profile
	// form required them.
	assert.Nil(t, userDisplayName("", ""))
	assert.Nil(t, userDisplayName("  ", ""))
}

func TestNewTrackingNumber(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	tracking := NewTrackingNumber(now)

	assert.Regexp(t, `^TRK-20250314-[0-9A-F]{8}$`, tracking)

	// Two numbers generated at the same instant must differ.
	assert.NotEqual(t, tracking, NewTrackingNumber(now))
}
