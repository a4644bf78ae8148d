package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediqore/hospital-api/internal/models"
)

func TestPaymentTransitionStampsPaidAt(t *testing.T) {
	now := time.Now()
	bill := &models.Bill{PaymentStatus: models.PaymentPending}

	set := paymentTransition(bill, models.PaymentPaid, now)

	assert.Equal(t, models.PaymentPaid, set["paymentStatus"])
	require.Contains(t, set, "paidAt")
	assert.Equal(t, now, set["paidAt"])
	assert.NotEmpty(t, set["paymentRef"])
}

func TestPaymentTransitionPaidToPaidKeepsStamp(t *testing.T) {
	earlier := time.Now().Add(-time.Hour)
	bill := &models.Bill{
		PaymentStatus: models.PaymentPaid,
		PaidAt:        &earlier,
		PaymentRef:    "existing-ref",
	}

	set := paymentTransition(bill, models.PaymentPaid, time.Now())

	assert.Equal(t, models.PaymentPaid, set["paymentStatus"])
	assert.NotContains(t, set, "paidAt")
	assert.NotContains(t, set, "paymentRef")
}

func TestPaymentTransitionLeavingPaidKeepsStamp(t *testing.T) {
	earlier := time.Now().Add(-time.Hour)
	bill := &models.Bill{PaymentStatus: models.PaymentPaid, PaidAt: &earlier}

	set := paymentTransition(bill, models.PaymentFailed, time.Now())

	assert.Equal(t, models.PaymentFailed, set["paymentStatus"])
	assert.NotContains(t, set, "paidAt")
}

func TestPaymentTransitionKeepsExistingRef(t *testing.T) {
	bill := &models.Bill{PaymentStatus: models.PaymentFailed, PaymentRef: "retry-ref"}

	set := paymentTransition(bill, models.PaymentPaid, time.Now())

	assert.Contains(t, set, "paidAt")
	assert.NotContains(t, set, "paymentRef")
}
