package booking

import "turfbook/internal/domain"

type CreateBookingRequest struct {
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required"`

	Date  string `json:"date" binding:"required"` // YYYY-MM-DD
	Hours []int  `json:"hours" binding:"required"`

	AdvancePayment       float64              `json:"advance_payment"`
	AdvancePaymentMethod domain.PaymentMethod `json:"advance_payment_method" binding:"required"`
	AdvancePaymentProof  string               `json:"advance_payment_proof"`
}

type EditBookingRequest struct {
	Date  string `json:"date" binding:"required"`
	Hours []int  `json:"hours" binding:"required"`

	// When nil the current advance payment is kept.
	AdvancePayment *float64 `json:"advance_payment"`
}

type StatusChangeRequest struct {
	Notes  string `json:"notes"`
	Reason string `json:"reason"`
}
