package domain

import "time"

// Customer is identified by phone number. A booking placed under an existing
// phone reuses the row and refreshes the name; the row is removed when its
// last booking is deleted.
type Customer struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone" gorm:"uniqueIndex;size:32"`
	TotalBookings int       `json:"total_bookings"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
