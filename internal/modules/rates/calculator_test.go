package rates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turfbook/internal/domain"
)

func TestClassify_NightWindowWrapsMidnight(t *testing.T) {
	calc := NewCalculator(1500, 2000, 17, 7)

	class, price, err := calc.Classify(16)
	require.NoError(t, err)
	assert.Equal(t, domain.RateDay, class)
	assert.Equal(t, 1500.0, price)

	class, price, err = calc.Classify(17)
	require.NoError(t, err)
	assert.Equal(t, domain.RateNight, class)
	assert.Equal(t, 2000.0, price)

	class, price, err = calc.Classify(3)
	require.NoError(t, err)
	assert.Equal(t, domain.RateNight, class)
	assert.Equal(t, 2000.0, price)

	class, _, err = calc.Classify(7)
	require.NoError(t, err)
	assert.Equal(t, domain.RateDay, class)
}

func TestClassify_NonWrappingWindow(t *testing.T) {
	calc := NewCalculator(1000, 1800, 19, 23)

	class, _, err := calc.Classify(18)
	require.NoError(t, err)
	assert.Equal(t, domain.RateDay, class)

	class, _, err = calc.Classify(19)
	require.NoError(t, err)
	assert.Equal(t, domain.RateNight, class)

	class, _, err = calc.Classify(23)
	require.NoError(t, err)
	assert.Equal(t, domain.RateDay, class)
}

func TestClassify_InvalidHour(t *testing.T) {
	calc := NewCalculator(1500, 2000, 17, 7)

	_, _, err := calc.Classify(24)
	assert.ErrorIs(t, err, ErrInvalidHour)

	_, _, err = calc.Classify(-1)
	assert.ErrorIs(t, err, ErrInvalidHour)
}

func TestQuote_MixedRates(t *testing.T) {
	calc := NewCalculator(1500, 2000, 17, 7)

	// 16:00 is day, 17:00 and 18:00 are night.
	total, slots, err := calc.Quote([]int{16, 17, 18})
	require.NoError(t, err)
	assert.Equal(t, 5500.0, total)
	require.Len(t, slots, 3)
	assert.Equal(t, domain.RateDay, slots[0].RateClass)
	assert.Equal(t, domain.RateNight, slots[1].RateClass)
	assert.Equal(t, domain.RateNight, slots[2].RateClass)
}

func TestQuote_InvalidHourFailsWhole(t *testing.T) {
	calc := NewCalculator(1500, 2000, 17, 7)

	_, _, err := calc.Quote([]int{10, 24})
	assert.ErrorIs(t, err, ErrInvalidHour)
}
