package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"turfbook/internal/domain"
	"turfbook/internal/modules/rates"
	"turfbook/internal/pkg/clock"
)

const dateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

type SlotStatus string

const (
	StatusAvailable SlotStatus = "available"
	StatusPending   SlotStatus = "pending"
	StatusBooked    SlotStatus = "booked"
	StatusPast      SlotStatus = "past"
)

type SlotView struct {
	Hour       int              `json:"hour"`
	Status     SlotStatus       `json:"status"`
	RateClass  domain.RateClass `json:"rate_class"`
	HourlyRate float64          `json:"hourly_rate"`
}

type DayView struct {
	Date  string     `json:"date"`
	Slots []SlotView `json:"slots"`
}

// ClaimedHoursReader is the slice of booking persistence the view reads.
type ClaimedHoursReader interface {
	ClaimedHours(ctx context.Context, date time.Time) (map[int]domain.BookingStatus, error)
}

// Service renders the 24 hourly slots of a date. The result is a snapshot:
// it can go stale between read and reservation, which the create path
// handles by re-validating inside its transaction.
type Service struct {
	bookings ClaimedHoursReader
	rates    *rates.Calculator
	clock    clock.Clock
}

func NewService(bookings ClaimedHoursReader, calc *rates.Calculator, clk clock.Clock) *Service {
	return &Service{bookings: bookings, rates: calc, clock: clk}
}

func (s *Service) GetDay(ctx context.Context, dateStr string) (*DayView, error) {
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, dateStr)
	}

	claimed, err := s.bookings.ClaimedHours(ctx, date)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	view := &DayView{Date: dateStr, Slots: make([]SlotView, 0, 24)}
	for hour := 0; hour < 24; hour++ {
		class, price, err := s.rates.Classify(hour)
		if err != nil {
			return nil, err
		}
		view.Slots = append(view.Slots, SlotView{
			Hour:       hour,
			Status:     slotStatus(hour, claimed, day, today, now.Hour()),
			RateClass:  class,
			HourlyRate: price,
		})
	}
	return view, nil
}

// slotStatus: hours on past dates, and hours up to and including the current
// hour of today, are past and never available. Live claims show as pending
// or booked.
func slotStatus(hour int, claimed map[int]domain.BookingStatus, day, today time.Time, nowHour int) SlotStatus {
	past := day.Before(today) || (day.Equal(today) && hour <= nowHour)
	if st, ok := claimed[hour]; ok {
		if st == domain.BookingPending {
			return StatusPending
		}
		return StatusBooked
	}
	if past {
		return StatusPast
	}
	return StatusAvailable
}
