package domain

import "time"

type EventType string

const (
	EventBookingCreated   EventType = "booking_created"
	EventBookingApproved  EventType = "booking_approved"
	EventBookingRejected  EventType = "booking_rejected"
	EventBookingCompleted EventType = "booking_completed"
)

// Notification is the persisted record of an emitted booking event. Delivery
// (push, in-app) is handled outside the engine; this row is what a dispatcher
// consumes.
type Notification struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	EventID       string    `json:"event_id" gorm:"size:36;uniqueIndex"`
	Event         EventType `json:"event" gorm:"size:32;index"`
	BookingNumber string    `json:"booking_number" gorm:"size:32"`
	CustomerName  string    `json:"customer_name"`
	BookingDate   time.Time `json:"booking_date"`
	Amount        float64   `json:"amount"`
	CreatedAt     time.Time `json:"created_at"`
}
