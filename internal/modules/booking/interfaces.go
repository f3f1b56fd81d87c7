package booking

import (
	"context"
	"time"

	"turfbook/internal/domain"
)

// BookingRepository is the persistence contract for the reservation
// coordinator and the lifecycle transitions. The atomic operations
// (CreateBooking, ReplaceSlots, Release, Complete-by-payment, Delete) own
// their transaction boundaries.
type BookingRepository interface {
	CreateBooking(ctx context.Context, customer domain.Customer, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, date *time.Time, status string) ([]domain.Booking, error)
	ListByCustomerPhone(ctx context.Context, phone string) ([]domain.Booking, error)
	ClaimedHours(ctx context.Context, date time.Time) (map[int]domain.BookingStatus, error)
	MarkApproved(ctx context.Context, id int64, notes string) error
	Release(ctx context.Context, id int64, to, from domain.BookingStatus, reason string) error
	ReplaceSlots(ctx context.Context, id int64, date time.Time, slots []domain.Slot, totalAmount, advance, remaining float64) error
	Delete(ctx context.Context, id int64) error
}

// NotificationSender emits lifecycle events. Emit failures never fail the
// owning operation; callers ignore the returned error after the sender has
// logged it.
type NotificationSender interface {
	BookingCreated(ctx context.Context, b *domain.Booking) error
	BookingApproved(ctx context.Context, b *domain.Booking) error
	BookingRejected(ctx context.Context, b *domain.Booking) error
}
