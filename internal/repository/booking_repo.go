package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"turfbook/internal/domain"
)

const (
	// Booking-number generation is optimistic: on a duplicate-key race the
	// whole create transaction is retried with a regenerated sequence
	// number instead of serializing all creates on a counter.
	createAttempts  = 3
	backoffFloorMs  = 10
	backoffJitterMs = 40
)

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *bookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) DB() *gorm.DB {
	return r.db
}

// DateOnly truncates t to UTC midnight. All booking_date values go through
// this so that (date, hour) comparisons are exact.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CreateBooking atomically claims the booking's slots, upserts the customer
// by phone and inserts the booking row. Exactly one of two racing requests
// for an overlapping hour commits; the loser gets *SlotConflictError.
//
// b.Slots must be pre-priced (hour, rate class, hourly rate). The generated
// booking number and IDs are populated on b.
func (r *bookingRepository) CreateBooking(ctx context.Context, customer domain.Customer, b *domain.Booking) error {
	date := DateOnly(b.BookingDate)
	b.BookingDate = date
	hours := make([]int, 0, len(b.Slots))
	for i := range b.Slots {
		b.Slots[i].BookingDate = date
		hours = append(hours, b.Slots[i].Hour)
	}

	var lastErr error
	for attempt := 0; attempt < createAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(backoffFloorMs+rand.Intn(backoffJitterMs)) * time.Millisecond):
			}
		}

		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			// Locking read over already-claimed hours. Rows that exist are
			// locked until commit; the unique (booking_date, hour) index
			// catches the remaining insert/insert race.
			var claimed []domain.Slot
			q := tx.Where("booking_date = ? AND hour IN ?", date, hours)
			if tx.Dialector.Name() == "postgres" {
				// SQLite serializes writers on its own and rejects FOR UPDATE.
				// NOWAIT bounds the wait: a contested row means another
				// create is mid-flight for the same hours.
				q = q.Clauses(clause.Locking{Strength: "UPDATE", Options: "NOWAIT"})
			}
			if err := q.Find(&claimed).Error; err != nil {
				if isLockUnavailable(err) {
					return &SlotConflictError{Hours: hours}
				}
				return err
			}
			if len(claimed) > 0 {
				conflict := make([]int, 0, len(claimed))
				for _, s := range claimed {
					conflict = append(conflict, s.Hour)
				}
				return &SlotConflictError{Hours: conflict}
			}

			cust, err := upsertCustomerTx(tx, customer)
			if err != nil {
				return err
			}
			b.CustomerID = cust.ID

			seq, err := nextSequenceTx(tx, date)
			if err != nil {
				return err
			}
			b.BookingNumber = FormatBookingNumber(date, seq)

			// Booking and its slots commit as one unit; a failure on either
			// rolls back both.
			if err := tx.Create(b).Error; err != nil {
				return err
			}
			return nil
		})

		if err == nil {
			return nil
		}

		var conflict *SlotConflictError
		if errors.As(err, &conflict) {
			return err
		}
		if isDuplicate(err, "slots") {
			// Lost the insert race for an hour. Not retried: the caller
			// must re-prompt with fresh availability.
			return &SlotConflictError{Hours: hours}
		}
		if isDuplicate(err, "booking_number") {
			b.ID = 0
			b.CustomerID = 0
			for i := range b.Slots {
				b.Slots[i].ID = 0
				b.Slots[i].BookingID = 0
			}
			lastErr = err
			continue
		}
		return err
	}
	return fmt.Errorf("booking number generation exhausted retries: %w", lastErr)
}

// FormatBookingNumber renders the human-readable number, e.g. BK-20260215-003.
func FormatBookingNumber(date time.Time, seq int) string {
	return fmt.Sprintf("BK-%s-%03d", date.Format("20060102"), seq)
}

func nextSequenceTx(tx *gorm.DB, date time.Time) (int, error) {
	var count int64
	if err := tx.Model(&domain.Booking{}).
		Where("booking_date = ?", date).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count) + 1, nil
}

// isDuplicate reports whether err is a unique-constraint violation involving
// the named column or table. Postgres exposes the constraint and table name
// on the driver error; SQLite only the message text, e.g.
// "UNIQUE constraint failed: bookings.booking_number".
func isDuplicate(err error, fragment string) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName+pgErr.TableName, fragment)
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, fragment)
}

// isLockUnavailable reports whether err is postgres refusing a NOWAIT
// locking read because another transaction holds the row locks (55P03).
func isLockUnavailable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "55P03"
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Slots", func(db *gorm.DB) *gorm.DB { return db.Order("hour ASC") }).
		Preload("ExtraCharges").
		First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) List(ctx context.Context, date *time.Time, status string) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Slots", func(db *gorm.DB) *gorm.DB { return db.Order("hour ASC") }).
		Order("created_at DESC")
	if date != nil {
		q = q.Where("booking_date = ?", DateOnly(*date))
	}
	if status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}
	var out []domain.Booking
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *bookingRepository) ListByCustomerPhone(ctx context.Context, phone string) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Joins("JOIN customers ON customers.id = bookings.customer_id").
		Where("customers.phone = ?", phone).
		Preload("Customer").
		Preload("Slots", func(db *gorm.DB) *gorm.DB { return db.Order("hour ASC") }).
		Order("bookings.created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ClaimedHours returns hour -> owning booking status for every live claim on
// the date. Lock-free snapshot read; the create path re-validates.
func (r *bookingRepository) ClaimedHours(ctx context.Context, date time.Time) (map[int]domain.BookingStatus, error) {
	type row struct {
		Hour   int
		Status string
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Table("slots").
		Select("slots.hour, bookings.status").
		Joins("JOIN bookings ON bookings.id = slots.booking_id").
		Where("slots.booking_date = ?", DateOnly(date)).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[int]domain.BookingStatus, len(rows))
	for _, r := range rows {
		out[r.Hour] = domain.BookingStatus(r.Status)
	}
	return out, nil
}

// MarkApproved moves a pending booking to approved and stamps approved_at.
// The status guard is in the WHERE clause so a concurrent transition loses
// cleanly instead of overwriting.
func (r *bookingRepository) MarkApproved(ctx context.Context, id int64, notes string) error {
	now := time.Now().UTC()
	updates := map[string]any{
		"status":      string(domain.BookingApproved),
		"approved_at": &now,
		"updated_at":  now,
	}
	if notes != "" {
		updates["admin_notes"] = notes
	}
	tx := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ? AND status = ?", id, domain.BookingPending).
		Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return r.transitionFailure(ctx, id)
	}
	return nil
}

// Release moves a booking to rejected or cancelled, records the reason and
// deletes its slot rows, making the hours available again the instant the
// transaction commits.
func (r *bookingRepository) Release(ctx context.Context, id int64, to domain.BookingStatus, from domain.BookingStatus, reason string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		res := tx.Model(&domain.Booking{}).
			Where("id = ? AND status = ?", id, from).
			Updates(map[string]any{
				"status":           string(to),
				"cancelled_reason": reason,
				"cancelled_at":     &now,
				"updated_at":       now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return r.transitionFailureTx(tx, id)
		}
		return tx.Where("booking_id = ?", id).Delete(&domain.Slot{}).Error
	})
}

// ReplaceSlots swaps a booking's claimed hours for a new set under the same
// locking discipline as CreateBooking, excluding the booking's own rows from
// the conflict check, and updates the recomputed amounts.
func (r *bookingRepository) ReplaceSlots(ctx context.Context, id int64, date time.Time, slots []domain.Slot, totalAmount, advance, remaining float64) error {
	date = DateOnly(date)
	hours := make([]int, 0, len(slots))
	for i := range slots {
		slots[i].BookingID = id
		slots[i].BookingDate = date
		hours = append(hours, slots[i].Hour)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b domain.Booking
		if err := tx.First(&b, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if b.Status == domain.BookingCompleted {
			return ErrCompletedImmutable
		}
		if b.Status.IsTerminal() {
			return ErrInvalidTransition
		}

		var claimed []domain.Slot
		q := tx.Where("booking_date = ? AND hour IN ? AND booking_id <> ?", date, hours, id)
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE", Options: "NOWAIT"})
		}
		if err := q.Find(&claimed).Error; err != nil {
			if isLockUnavailable(err) {
				return &SlotConflictError{Hours: hours}
			}
			return err
		}
		if len(claimed) > 0 {
			conflict := make([]int, 0, len(claimed))
			for _, s := range claimed {
				conflict = append(conflict, s.Hour)
			}
			return &SlotConflictError{Hours: conflict}
		}

		if err := tx.Where("booking_id = ?", id).Delete(&domain.Slot{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&slots).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Booking{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"booking_date":      date,
				"total_hours":       len(slots),
				"total_amount":      totalAmount,
				"advance_payment":   advance,
				"remaining_payment": remaining,
				"updated_at":        time.Now().UTC(),
			}).Error
	})
	if err != nil && isDuplicate(err, "slots") {
		return &SlotConflictError{Hours: hours}
	}
	return err
}

// Complete settles an approved booking: persists the completing payment,
// extra charges and discount, and flips the status. All in one transaction.
// priorRemaining is the balance the caller validated against; the guarded
// update requires it to still hold, so a concurrent edit that repriced the
// booking fails the settlement instead of persisting a stale payable.
func (r *bookingRepository) Complete(ctx context.Context, id int64, method domain.PaymentMethod, proof string, priorRemaining, payable, discount float64, charges []domain.ExtraCharge) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Booking{}).
			Where("id = ? AND status = ? AND remaining_payment = ?", id, domain.BookingApproved, priorRemaining).
			Updates(map[string]any{
				"status":                   string(domain.BookingCompleted),
				"remaining_payment":        payable,
				"remaining_payment_method": string(method),
				"remaining_payment_proof":  proof,
				"discount_amount":          discount,
				"updated_at":               time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return r.transitionFailureTx(tx, id)
		}
		for i := range charges {
			charges[i].BookingID = id
		}
		if len(charges) > 0 {
			if err := tx.Create(&charges).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a booking with its slots and extra charges, decrements the
// owning customer's counter and removes the customer when this was their
// last booking. Completed bookings are immutable.
func (r *bookingRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b domain.Booking
		if err := tx.First(&b, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if b.Status == domain.BookingCompleted {
			return ErrCompletedImmutable
		}
		if err := tx.Where("booking_id = ?", id).Delete(&domain.Slot{}).Error; err != nil {
			return err
		}
		if err := tx.Where("booking_id = ?", id).Delete(&domain.ExtraCharge{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.Booking{}, id).Error; err != nil {
			return err
		}
		return releaseCustomerTx(tx, b.CustomerID)
	})
}

func (r *bookingRepository) transitionFailure(ctx context.Context, id int64) error {
	return r.transitionFailureTx(r.db.WithContext(ctx), id)
}

// transitionFailureTx distinguishes "booking missing" from "wrong state"
// after a guarded update matched no rows.
func (r *bookingRepository) transitionFailureTx(tx *gorm.DB, id int64) error {
	var count int64
	if err := tx.Model(&domain.Booking{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrInvalidTransition
}
