// Package payment settles approved bookings: it verifies the completing
// payment against the remaining balance, extra charges and discount, then
// marks the booking completed.
package payment

import (
	"context"
	"errors"
	"fmt"

	"turfbook/internal/domain"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrInvalidAmount = errors.New("invalid payment amount")
)

// BookingStore is the slice of booking persistence settlement needs.
// Complete is conditional on priorRemaining still being the stored balance,
// so an edit racing the settlement invalidates it instead of being
// overwritten with a stale payable.
type BookingStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Complete(ctx context.Context, id int64, method domain.PaymentMethod, proof string, priorRemaining, payable, discount float64, charges []domain.ExtraCharge) error
}

type NotificationSender interface {
	BookingCompleted(ctx context.Context, b *domain.Booking, settled float64) error
}

type Service struct {
	bookings BookingStore
	notifs   NotificationSender
}

func NewService(bookings BookingStore, notifs NotificationSender) *Service {
	return &Service{bookings: bookings, notifs: notifs}
}

type ExtraChargeInput struct {
	Category domain.ChargeCategory `json:"category" binding:"required"`
	Amount   float64               `json:"amount" binding:"required,gt=0"`
}

type CompletePaymentRequest struct {
	Method       domain.PaymentMethod `json:"method" binding:"required"`
	Amount       float64              `json:"amount" binding:"required"`
	Proof        string               `json:"proof"`
	ExtraCharges []ExtraChargeInput   `json:"extra_charges"`
	Discount     float64              `json:"discount"`
}

// Complete verifies and records the completion payment for an approved
// booking. The discount may only reduce the extra-charges portion: the
// declared amount must lie in [remaining_payment, payable] where
// payable = remaining_payment + sum(extra charges) - discount.
func (s *Service) Complete(ctx context.Context, id int64, req CompletePaymentRequest) (*domain.Booking, error) {
	if !req.Method.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, req.Method)
	}
	if req.Method.RequiresProof() && req.Proof == "" {
		return nil, fmt.Errorf("%w: payment method %s requires a payment proof", ErrValidation, req.Method)
	}
	if req.Discount < 0 {
		return nil, fmt.Errorf("%w: discount cannot be negative", ErrValidation)
	}

	var extras float64
	charges := make([]domain.ExtraCharge, 0, len(req.ExtraCharges))
	for _, ec := range req.ExtraCharges {
		if !ec.Category.Valid() {
			return nil, fmt.Errorf("%w: unknown extra charge category %q", ErrValidation, ec.Category)
		}
		if ec.Amount <= 0 {
			return nil, fmt.Errorf("%w: extra charge amount must be positive", ErrValidation)
		}
		extras += ec.Amount
		charges = append(charges, domain.ExtraCharge{Category: ec.Category, Amount: ec.Amount})
	}

	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	payable := b.RemainingPayment + extras - req.Discount
	// The floor is the original remaining amount: a discount can eat into
	// extra charges, never into what the customer already owed.
	if req.Amount < b.RemainingPayment || req.Amount > payable {
		return nil, fmt.Errorf("%w: amount %.2f outside [%.2f, %.2f]",
			ErrInvalidAmount, req.Amount, b.RemainingPayment, payable)
	}

	if err := s.bookings.Complete(ctx, id, req.Method, req.Proof, b.RemainingPayment, payable, req.Discount, charges); err != nil {
		return nil, err
	}

	completed, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.notifs != nil {
		_ = s.notifs.BookingCompleted(ctx, completed, payable)
	}
	return completed, nil
}
