package booking

import (
	"context"
	"fmt"
	"time"

	"turfbook/internal/domain"
	"turfbook/internal/modules/rates"
	"turfbook/internal/repository"
)

const dateLayout = "2006-01-02"

type Service struct {
	bookings BookingRepository
	rates    *rates.Calculator
	notifs   NotificationSender

	// Minimum advance collected at booking time, from settings. Capped at
	// the booking total for short cheap bookings.
	requiredAdvance float64
}

func NewService(bookings BookingRepository, calc *rates.Calculator, notifs NotificationSender, requiredAdvance float64) *Service {
	return &Service{
		bookings:        bookings,
		rates:           calc,
		notifs:          notifs,
		requiredAdvance: requiredAdvance,
	}
}

// CreateBooking turns a validated selection into a durable booking with its
// claimed slots, or fails cleanly. At most one of two racing requests for an
// overlapping hour wins; the loser surfaces *repository.SlotConflictError
// with the contested hours.
func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrValidation, req.Date)
	}

	total, slots, err := s.rates.Quote(req.Hours)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := ValidateSelection(req.Hours, total, req.AdvancePayment, req.AdvancePaymentMethod, req.AdvancePaymentProof != ""); err != nil {
		return nil, err
	}
	if min := s.minimumAdvance(total); req.AdvancePayment < min {
		return nil, fmt.Errorf("%w: advance payment %.2f below required %.2f", ErrValidation, req.AdvancePayment, min)
	}

	b := &domain.Booking{
		BookingDate:          date,
		TotalHours:           len(slots),
		TotalAmount:          total,
		AdvancePayment:       req.AdvancePayment,
		AdvancePaymentMethod: req.AdvancePaymentMethod,
		AdvancePaymentProof:  req.AdvancePaymentProof,
		RemainingPayment:     total - req.AdvancePayment,
		Status:               domain.BookingPending,
		Slots:                slots,
	}

	customer := domain.Customer{Name: req.CustomerName, Phone: req.CustomerPhone}
	if err := s.bookings.CreateBooking(ctx, customer, b); err != nil {
		return nil, err
	}

	created, err := s.bookings.GetByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if s.notifs != nil {
		_ = s.notifs.BookingCreated(ctx, created)
	}
	return created, nil
}

func (s *Service) minimumAdvance(total float64) float64 {
	if s.requiredAdvance <= 0 {
		return 0
	}
	if s.requiredAdvance > total {
		return total
	}
	return s.requiredAdvance
}

// Approve moves a pending booking to approved. Terminal states reject the
// transition and leave the booking unchanged.
func (s *Service) Approve(ctx context.Context, id int64, notes string) (*domain.Booking, error) {
	if err := s.bookings.MarkApproved(ctx, id, notes); err != nil {
		return nil, err
	}
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.notifs != nil {
		_ = s.notifs.BookingApproved(ctx, b)
	}
	return b, nil
}

// Reject refuses a pending booking. The reason is mandatory and the claimed
// hours become available again the instant the transaction commits.
func (s *Service) Reject(ctx context.Context, id int64, reason string) (*domain.Booking, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", ErrValidation)
	}
	if err := s.bookings.Release(ctx, id, domain.BookingRejected, domain.BookingPending, reason); err != nil {
		return nil, err
	}
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.notifs != nil {
		_ = s.notifs.BookingRejected(ctx, b)
	}
	return b, nil
}

// Cancel releases an approved booking with a reason.
func (s *Service) Cancel(ctx context.Context, id int64, reason string) (*domain.Booking, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: cancellation reason is required", ErrValidation)
	}
	if err := s.bookings.Release(ctx, id, domain.BookingCancelled, domain.BookingApproved, reason); err != nil {
		return nil, err
	}
	return s.bookings.GetByID(ctx, id)
}

// EditBooking re-validates the new selection and atomically replaces the
// booking's slot set, excluding its own current hours from the conflict
// check. Completed bookings are immutable.
func (s *Service) EditBooking(ctx context.Context, id int64, req EditBookingRequest) (*domain.Booking, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrValidation, req.Date)
	}

	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.BookingCompleted {
		return nil, repository.ErrCompletedImmutable
	}

	total, slots, err := s.rates.Quote(req.Hours)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	advance := current.AdvancePayment
	if req.AdvancePayment != nil {
		advance = *req.AdvancePayment
	}
	hasProof := current.AdvancePaymentProof != ""
	if err := ValidateSelection(req.Hours, total, advance, current.AdvancePaymentMethod, hasProof); err != nil {
		return nil, err
	}

	remaining := total - advance
	if err := s.bookings.ReplaceSlots(ctx, id, date, slots, total, advance, remaining); err != nil {
		return nil, err
	}
	return s.bookings.GetByID(ctx, id)
}

// DeleteBooking removes a booking entirely. Forbidden once completed.
func (s *Service) DeleteBooking(ctx context.Context, id int64) error {
	return s.bookings.Delete(ctx, id)
}

func (s *Service) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *Service) ListBookings(ctx context.Context, dateStr, status string) ([]domain.Booking, error) {
	var date *time.Time
	if dateStr != "" {
		d, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date %q", ErrValidation, dateStr)
		}
		date = &d
	}
	return s.bookings.List(ctx, date, status)
}

func (s *Service) ListByCustomerPhone(ctx context.Context, phone string) ([]domain.Booking, error) {
	if phone == "" {
		return nil, fmt.Errorf("%w: phone is required", ErrValidation)
	}
	return s.bookings.ListByCustomerPhone(ctx, phone)
}
