package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingRejected  BookingStatus = "rejected"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// IsTerminal reports whether no further transition is accepted from s.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingRejected || s == BookingCompleted || s == BookingCancelled
}

// ClaimsSlots reports whether a booking in status s still owns its hours.
// Rejected and cancelled bookings have released their slots.
func (s BookingStatus) ClaimsSlots() bool {
	return s == BookingPending || s == BookingApproved || s == BookingCompleted
}

type PaymentMethod string

const (
	PayCash         PaymentMethod = "cash"
	PayBankTransfer PaymentMethod = "bank_transfer"
	PayEasypaisa    PaymentMethod = "easypaisa"
	PayJazzcash     PaymentMethod = "jazzcash"
)

// RequiresProof reports whether a payment with this method must carry a
// proof reference (an opaque object-storage key for the uploaded receipt).
func (m PaymentMethod) RequiresProof() bool {
	return m != "" && m != PayCash
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PayCash, PayBankTransfer, PayEasypaisa, PayJazzcash:
		return true
	}
	return false
}

type RateClass string

const (
	RateDay   RateClass = "day"
	RateNight RateClass = "night"
)

type Booking struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	BookingNumber string    `json:"booking_number" gorm:"uniqueIndex;size:32"`
	CustomerID    int64     `json:"customer_id" gorm:"index"`
	BookingDate   time.Time `json:"booking_date" gorm:"index"`

	TotalHours  int     `json:"total_hours"`
	TotalAmount float64 `json:"total_amount"`

	AdvancePayment       float64       `json:"advance_payment"`
	AdvancePaymentMethod PaymentMethod `json:"advance_payment_method" gorm:"size:32"`
	AdvancePaymentProof  string        `json:"advance_payment_proof,omitempty"`

	RemainingPayment       float64       `json:"remaining_payment"`
	RemainingPaymentMethod PaymentMethod `json:"remaining_payment_method,omitempty" gorm:"size:32"`
	RemainingPaymentProof  string        `json:"remaining_payment_proof,omitempty"`

	DiscountAmount float64 `json:"discount_amount"`

	Status          BookingStatus `json:"status" gorm:"size:16;index"`
	AdminNotes      string        `json:"admin_notes,omitempty" gorm:"type:text"`
	CancelledReason string        `json:"cancelled_reason,omitempty" gorm:"type:text"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	Customer     *Customer     `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Slots        []Slot        `json:"slots,omitempty" gorm:"foreignKey:BookingID"`
	ExtraCharges []ExtraCharge `json:"extra_charges,omitempty" gorm:"foreignKey:BookingID"`
}

// Hours returns the claimed hours in ascending order.
func (b *Booking) Hours() []int {
	hours := make([]int, 0, len(b.Slots))
	for _, s := range b.Slots {
		hours = append(hours, s.Hour)
	}
	return hours
}

// Slot is one claimed hour of the turf on a given date. Slot rows exist only
// while their owning booking claims them; releasing a booking deletes its
// slots, and the unique (booking_date, hour) index is what keeps two live
// bookings from owning the same hour.
type Slot struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	BookingID   int64     `json:"booking_id" gorm:"index"`
	BookingDate time.Time `json:"booking_date" gorm:"uniqueIndex:idx_slot_date_hour"`
	Hour        int       `json:"hour" gorm:"uniqueIndex:idx_slot_date_hour"`
	RateClass   RateClass `json:"rate_class" gorm:"size:8"`
	HourlyRate  float64   `json:"hourly_rate"`
}

type ChargeCategory string

const (
	ChargeConsumable ChargeCategory = "consumable"
	ChargeEquipment  ChargeCategory = "equipment"
	ChargeOther      ChargeCategory = "other"
)

func (c ChargeCategory) Valid() bool {
	switch c {
	case ChargeConsumable, ChargeEquipment, ChargeOther:
		return true
	}
	return false
}

// ExtraCharge is an ad hoc add-on billed at completion only. It never
// contributes to the booking's original total_amount.
type ExtraCharge struct {
	ID        int64          `json:"id" gorm:"primaryKey"`
	BookingID int64          `json:"booking_id" gorm:"index"`
	Category  ChargeCategory `json:"category" gorm:"size:16"`
	Amount    float64        `json:"amount"`
}
