package notification

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"turfbook/internal/domain"
)

// Repository is the persistence the dispatcher needs.
type Repository interface {
	Create(ctx context.Context, n *domain.Notification) error
	Recent(ctx context.Context, limit int) ([]domain.Notification, error)
}

// Service records booking lifecycle events for the notification dispatcher.
// A failed emit is logged and reported to the caller, who is expected to
// swallow it: event delivery never fails the owning operation.
type Service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, log: log}
}

func (s *Service) emit(ctx context.Context, event domain.EventType, b *domain.Booking, amount float64) error {
	customerName := ""
	if b.Customer != nil {
		customerName = b.Customer.Name
	}
	n := &domain.Notification{
		EventID:       uuid.NewString(),
		Event:         event,
		BookingNumber: b.BookingNumber,
		CustomerName:  customerName,
		BookingDate:   b.BookingDate,
		Amount:        amount,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.log.Warn("notification emit failed",
			zap.String("event", string(event)),
			zap.String("booking_number", b.BookingNumber),
			zap.Error(err),
		)
		return err
	}
	s.log.Info("event emitted",
		zap.String("event", string(event)),
		zap.String("event_id", n.EventID),
		zap.String("booking_number", b.BookingNumber),
		zap.Time("booking_date", b.BookingDate),
		zap.Float64("amount", amount),
	)
	return nil
}

func (s *Service) BookingCreated(ctx context.Context, b *domain.Booking) error {
	return s.emit(ctx, domain.EventBookingCreated, b, b.TotalAmount)
}

func (s *Service) BookingApproved(ctx context.Context, b *domain.Booking) error {
	return s.emit(ctx, domain.EventBookingApproved, b, b.TotalAmount)
}

func (s *Service) BookingRejected(ctx context.Context, b *domain.Booking) error {
	return s.emit(ctx, domain.EventBookingRejected, b, b.TotalAmount)
}

// BookingCompleted carries the settled amount, not the original total.
func (s *Service) BookingCompleted(ctx context.Context, b *domain.Booking, settled float64) error {
	return s.emit(ctx, domain.EventBookingCompleted, b, settled)
}

func (s *Service) Recent(ctx context.Context, limit int) ([]domain.Notification, error) {
	return s.repo.Recent(ctx, limit)
}
