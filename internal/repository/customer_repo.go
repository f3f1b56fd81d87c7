package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"turfbook/internal/domain"
)

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *customerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) GetByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	var c domain.Customer
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepository) List(ctx context.Context, limit int) ([]domain.Customer, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []domain.Customer
	err := r.db.WithContext(ctx).
		Order("total_bookings DESC, updated_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// upsertCustomerTx creates or reuses the customer row for the phone number,
// refreshing the name and bumping the booking counter. Runs inside the
// booking create transaction; the unique phone index resolves create races.
func upsertCustomerTx(tx *gorm.DB, c domain.Customer) (*domain.Customer, error) {
	var existing domain.Customer
	err := tx.Where("phone = ?", c.Phone).First(&existing).Error
	switch {
	case err == nil:
		updates := map[string]any{
			"total_bookings": gorm.Expr("total_bookings + 1"),
			"updated_at":     time.Now().UTC(),
		}
		if c.Name != "" {
			updates["name"] = c.Name
		}
		if err := tx.Model(&domain.Customer{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
			return nil, err
		}
		existing.TotalBookings++
		if c.Name != "" {
			existing.Name = c.Name
		}
		return &existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.TotalBookings = 1
		if err := tx.Create(&c).Error; err != nil {
			if isDuplicate(err, "phone") {
				// Lost the insert race inside another transaction's window;
				// the row exists now.
				if err2 := tx.Where("phone = ?", c.Phone).First(&existing).Error; err2 == nil {
					return &existing, nil
				}
			}
			return nil, err
		}
		return &c, nil
	default:
		return nil, err
	}
}

// releaseCustomerTx decrements the counter after a booking delete and drops
// the customer when no bookings remain.
func releaseCustomerTx(tx *gorm.DB, customerID int64) error {
	if customerID == 0 {
		return nil
	}
	var remaining int64
	if err := tx.Model(&domain.Booking{}).Where("customer_id = ?", customerID).Count(&remaining).Error; err != nil {
		return err
	}
	if remaining == 0 {
		return tx.Delete(&domain.Customer{}, customerID).Error
	}
	return tx.Model(&domain.Customer{}).
		Where("id = ?", customerID).
		Updates(map[string]any{
			"total_bookings": remaining,
			"updated_at":     time.Now().UTC(),
		}).Error
}
