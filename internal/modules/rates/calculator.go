package rates

import (
	"errors"
	"fmt"

	"turfbook/internal/domain"
)

var ErrInvalidHour = errors.New("hour must be within 0-23")

// Calculator classifies hours into day/night rate classes and prices them.
// The night window [NightStart, NightEnd) may wrap past midnight, e.g. a
// window of 17 -> 7 covers 17:00-23:00 and 00:00-06:00.
type Calculator struct {
	DayRate    float64
	NightRate  float64
	NightStart int
	NightEnd   int
}

func NewCalculator(dayRate, nightRate float64, nightStart, nightEnd int) *Calculator {
	return &Calculator{
		DayRate:    dayRate,
		NightRate:  nightRate,
		NightStart: nightStart,
		NightEnd:   nightEnd,
	}
}

// Classify returns the rate class and hourly price for the given hour.
func (c *Calculator) Classify(hour int) (domain.RateClass, float64, error) {
	if hour < 0 || hour > 23 {
		return "", 0, fmt.Errorf("%w: %d", ErrInvalidHour, hour)
	}
	if c.isNight(hour) {
		return domain.RateNight, c.NightRate, nil
	}
	return domain.RateDay, c.DayRate, nil
}

func (c *Calculator) isNight(hour int) bool {
	if c.NightStart == c.NightEnd {
		return false
	}
	if c.NightStart < c.NightEnd {
		return hour >= c.NightStart && hour < c.NightEnd
	}
	// wraps midnight
	return hour >= c.NightStart || hour < c.NightEnd
}

// Quote prices a set of hours. It returns the total and one priced slot
// descriptor per hour, in input order.
func (c *Calculator) Quote(hours []int) (float64, []domain.Slot, error) {
	var total float64
	slots := make([]domain.Slot, 0, len(hours))
	for _, h := range hours {
		class, price, err := c.Classify(h)
		if err != nil {
			return 0, nil, err
		}
		total += price
		slots = append(slots, domain.Slot{
			Hour:       h,
			RateClass:  class,
			HourlyRate: price,
		})
	}
	return total, slots, nil
}
