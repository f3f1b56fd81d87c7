package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"turfbook/internal/domain"
	"turfbook/internal/repository"
)

type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingStore) Complete(ctx context.Context, id int64, method domain.PaymentMethod, proof string, priorRemaining, payable, discount float64, charges []domain.ExtraCharge) error {
	args := m.Called(ctx, id, method, proof, priorRemaining, payable, discount, charges)
	return args.Error(0)
}

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) BookingCompleted(ctx context.Context, b *domain.Booking, settled float64) error {
	args := m.Called(ctx, b, settled)
	return args.Error(0)
}

func approvedBooking(remaining float64) *domain.Booking {
	return &domain.Booking{
		ID:               12,
		Status:           domain.BookingApproved,
		TotalAmount:      5500,
		AdvancePayment:   5500 - remaining,
		RemainingPayment: remaining,
	}
}

func TestComplete_PayableCoversExtrasMinusDiscount(t *testing.T) {
	store := new(MockBookingStore)
	notifs := new(MockNotificationSender)

	store.On("GetByID", mock.Anything, int64(12)).Return(approvedBooking(1000), nil).Once()
	// remaining 1000 + extras 300 - discount 200 = payable 1100
	store.On("Complete", mock.Anything, int64(12), domain.PayCash, "", 1000.0, 1100.0, 200.0, mock.Anything).Return(nil)
	store.On("GetByID", mock.Anything, int64(12)).Return(&domain.Booking{
		ID:               12,
		Status:           domain.BookingCompleted,
		RemainingPayment: 1100,
	}, nil)
	notifs.On("BookingCompleted", mock.Anything, mock.Anything, 1100.0).Return(nil)

	service := NewService(store, notifs)

	b, err := service.Complete(context.Background(), 12, CompletePaymentRequest{
		Method: domain.PayCash,
		Amount: 1100,
		ExtraCharges: []ExtraChargeInput{
			{Category: domain.ChargeConsumable, Amount: 200},
			{Category: domain.ChargeEquipment, Amount: 100},
		},
		Discount: 200,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.BookingCompleted, b.Status)
	store.AssertExpectations(t)
	notifs.AssertExpectations(t)
}

func TestComplete_DiscountCannotEatRemaining(t *testing.T) {
	store := new(MockBookingStore)
	store.On("GetByID", mock.Anything, int64(12)).Return(approvedBooking(1000), nil)

	service := NewService(store, nil)

	// 900 is below the 1000 the customer still owes, no matter the discount.
	_, err := service.Complete(context.Background(), 12, CompletePaymentRequest{
		Method:   domain.PayCash,
		Amount:   900,
		Discount: 100,
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)
	store.AssertNotCalled(t, "Complete",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestComplete_AmountAbovePayable(t *testing.T) {
	store := new(MockBookingStore)
	store.On("GetByID", mock.Anything, int64(12)).Return(approvedBooking(1000), nil)

	service := NewService(store, nil)

	_, err := service.Complete(context.Background(), 12, CompletePaymentRequest{
		Method: domain.PayCash,
		Amount: 1500,
		ExtraCharges: []ExtraChargeInput{
			{Category: domain.ChargeOther, Amount: 300},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestComplete_NonCashRequiresProof(t *testing.T) {
	service := NewService(new(MockBookingStore), nil)

	_, err := service.Complete(context.Background(), 12, CompletePaymentRequest{
		Method: domain.PayEasypaisa,
		Amount: 1000,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestComplete_UnknownChargeCategory(t *testing.T) {
	service := NewService(new(MockBookingStore), nil)

	_, err := service.Complete(context.Background(), 12, CompletePaymentRequest{
		Method: domain.PayCash,
		Amount: 1000,
		ExtraCharges: []ExtraChargeInput{
			{Category: domain.ChargeCategory("snacks"), Amount: 50},
		},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestComplete_NegativeDiscount(t *testing.T) {
	service := NewService(new(MockBookingStore), nil)

	_, err := service.Complete(context.Background(), 12, CompletePaymentRequest{
		Method:   domain.PayCash,
		Amount:   1000,
		Discount: -50,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestComplete_NotApprovedPropagates(t *testing.T) {
	store := new(MockBookingStore)
	store.On("GetByID", mock.Anything, int64(12)).Return(approvedBooking(1000), nil)
	store.On("Complete", mock.Anything, int64(12), domain.PayCash, "", 1000.0, 1000.0, 0.0, mock.Anything).
		Return(repository.ErrInvalidTransition)

	service := NewService(store, nil)

	_, err := service.Complete(context.Background(), 12, CompletePaymentRequest{
		Method: domain.PayCash,
		Amount: 1000,
	})
	assert.ErrorIs(t, err, repository.ErrInvalidTransition)
}
