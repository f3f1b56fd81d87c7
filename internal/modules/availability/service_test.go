package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"turfbook/internal/domain"
	"turfbook/internal/modules/rates"
	"turfbook/internal/pkg/clock"
)

type MockClaimedHoursReader struct {
	mock.Mock
}

func (m *MockClaimedHoursReader) ClaimedHours(ctx context.Context, date time.Time) (map[int]domain.BookingStatus, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]domain.BookingStatus), args.Error(1)
}

func testCalculator() *rates.Calculator {
	return rates.NewCalculator(1500, 2000, 17, 7)
}

func TestGetDay_ClaimedHoursMapToPendingAndBooked(t *testing.T) {
	reader := new(MockClaimedHoursReader)
	reader.On("ClaimedHours", mock.Anything, mock.Anything).Return(map[int]domain.BookingStatus{
		10: domain.BookingPending,
		11: domain.BookingApproved,
		12: domain.BookingCompleted,
	}, nil)

	// Fixed clock well before the requested date.
	clk := clock.Fixed(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
	service := NewService(reader, testCalculator(), clk)

	view, err := service.GetDay(context.Background(), "2026-06-15")
	require.NoError(t, err)
	require.Len(t, view.Slots, 24)

	assert.Equal(t, StatusPending, view.Slots[10].Status)
	assert.Equal(t, StatusBooked, view.Slots[11].Status)
	assert.Equal(t, StatusBooked, view.Slots[12].Status)
	assert.Equal(t, StatusAvailable, view.Slots[13].Status)
}

func TestGetDay_TodayMarksElapsedHoursPast(t *testing.T) {
	reader := new(MockClaimedHoursReader)
	reader.On("ClaimedHours", mock.Anything, mock.Anything).Return(map[int]domain.BookingStatus{}, nil)

	clk := clock.Fixed(time.Date(2026, 6, 15, 14, 30, 0, 0, time.UTC))
	service := NewService(reader, testCalculator(), clk)

	view, err := service.GetDay(context.Background(), "2026-06-15")
	require.NoError(t, err)

	// 14:30 means everything through the 14:00 slot has started.
	assert.Equal(t, StatusPast, view.Slots[0].Status)
	assert.Equal(t, StatusPast, view.Slots[14].Status)
	assert.Equal(t, StatusAvailable, view.Slots[15].Status)
	assert.Equal(t, StatusAvailable, view.Slots[23].Status)
}

func TestGetDay_PastDateIsAllPastExceptClaims(t *testing.T) {
	reader := new(MockClaimedHoursReader)
	reader.On("ClaimedHours", mock.Anything, mock.Anything).Return(map[int]domain.BookingStatus{
		20: domain.BookingApproved,
	}, nil)

	clk := clock.Fixed(time.Date(2026, 6, 16, 8, 0, 0, 0, time.UTC))
	service := NewService(reader, testCalculator(), clk)

	view, err := service.GetDay(context.Background(), "2026-06-15")
	require.NoError(t, err)

	for hour, slot := range view.Slots {
		if hour == 20 {
			assert.Equal(t, StatusBooked, slot.Status)
			continue
		}
		assert.Equal(t, StatusPast, slot.Status, "hour %d", hour)
	}
}

func TestGetDay_RatesFollowNightWindow(t *testing.T) {
	reader := new(MockClaimedHoursReader)
	reader.On("ClaimedHours", mock.Anything, mock.Anything).Return(map[int]domain.BookingStatus{}, nil)

	clk := clock.Fixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	service := NewService(reader, testCalculator(), clk)

	view, err := service.GetDay(context.Background(), "2026-06-15")
	require.NoError(t, err)

	assert.Equal(t, domain.RateDay, view.Slots[12].RateClass)
	assert.Equal(t, 1500.0, view.Slots[12].HourlyRate)
	assert.Equal(t, domain.RateNight, view.Slots[17].RateClass)
	assert.Equal(t, 2000.0, view.Slots[17].HourlyRate)
	assert.Equal(t, domain.RateNight, view.Slots[2].RateClass)
}

func TestGetDay_InvalidDate(t *testing.T) {
	service := NewService(new(MockClaimedHoursReader), testCalculator(), clock.New())

	_, err := service.GetDay(context.Background(), "15-06-2026")
	assert.Error(t, err)
}
